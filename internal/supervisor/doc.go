// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package supervisor runs Folio's long-lived services under suture v4.

The tree has three layers so failures stay contained:

	RootSupervisor ("folio")
	├── DataSupervisor ("data-layer")
	│   └── CatalogService
	├── MessagingSupervisor ("messaging-layer")
	│   └── events.Consumer (when notifications are enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's exponential backoff. Supervisor
events are logged through sutureslog using the slog bridge from the logging
package, so they share the zerolog output of the rest of the process.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(catalogSvc)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
	return tree.Run(ctx)
*/
package supervisor
