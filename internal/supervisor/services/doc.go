// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package services provides suture.Service wrappers for Folio components.

Each wrapper implements suture's context-aware Serve pattern and fmt.Stringer
so the supervisor can name it in logs:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Available services:

  - CatalogService: loads the catalog on start and publishes a snapshot,
    then reloads on an interval and on file changes. It also serves the
    API's on-demand reload.
  - HTTPServerService: wraps *http.Server with graceful shutdown.

The notification consumer, events.Consumer, already implements
suture.Service and is added to the tree directly.
*/
package services
