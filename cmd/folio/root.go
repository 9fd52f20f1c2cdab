// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tomtom215/folio/internal/catalog"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/recommend"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	catalogPath string
	sourceKind  string
	asJSON      bool
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "folio",
		Short: "Fuzzy book title resolution and content-based recommendations",
		Long: `Folio resolves a free-form title against a book catalog and recommends
the ten most similar books by TF-IDF content similarity.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load() //nolint:errcheck // .env is optional

			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logging.Init(logging.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})

			if !cmd.Flags().Changed("catalog") {
				if env := os.Getenv("CATALOG_PATH"); env != "" {
					opts.catalogPath = env
				}
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "data/books.csv", "catalog file (env CATALOG_PATH)")
	cmd.PersistentFlags().StringVar(&opts.sourceKind, "source", "csv", "catalog reader: csv or duckdb")
	cmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newResolveCmd(opts), newRecommendCmd(opts), newSimilarCmd(opts))
	return cmd
}

// loadEngine reads the catalog and publishes its snapshot.
func loadEngine(ctx context.Context, opts *options) (*recommend.Engine, error) {
	source, err := catalog.NewSource(opts.sourceKind, opts.catalogPath)
	if err != nil {
		return nil, err
	}
	books, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", source, err)
	}

	engine := recommend.NewEngine(recommend.DefaultConfig(), logging.Logger())
	if _, err := engine.Reload(ctx, books); err != nil {
		return nil, err
	}
	return engine, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func queryArg(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
