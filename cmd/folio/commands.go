// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/folio/internal/catalog"
	"github.com/tomtom215/folio/internal/recommend"
)

// errNoMatch makes the process exit non-zero when nothing resolved.
var errNoMatch = errors.New("no catalog title matched")

type resolveResult struct {
	Query        string `json:"query"`
	Resolved     bool   `json:"resolved"`
	MatchedTitle string `json:"matched_title,omitempty"`
	Score        int    `json:"score"`
}

func newResolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <title>",
		Short: "Fuzzy-match a title against the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}

			query := queryArg(args)
			m, ok, err := engine.Resolve(cmd.Context(), query)
			if err != nil {
				return err
			}

			res := resolveResult{Query: query, Resolved: ok}
			if m.Position >= 0 {
				res.MatchedTitle, res.Score = m.Title, m.Score
			}
			if opts.asJSON {
				if err := printJSON(cmd, res); err != nil {
					return err
				}
			} else if ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (score %d)\n", res.MatchedTitle, res.Score)
			} else if res.MatchedTitle != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "No match for %q (closest: %s, score %d)\n", query, res.MatchedTitle, res.Score)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No match for %q\n", query)
			}

			if !ok {
				return errNoMatch
			}
			return nil
		},
	}
}

func newRecommendCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <title>",
		Short: "Recommend the 10 books most similar to a title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out, err := engine.Recommend(cmd.Context(), queryArg(args))
			if err != nil {
				return err
			}

			if opts.asJSON {
				if err := printJSON(cmd, out); err != nil {
					return err
				}
			} else {
				printOutcome(cmd, out)
			}
			if !out.Resolved {
				return errNoMatch
			}
			return nil
		},
	}
}

func newSimilarCmd(opts *options) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "similar <text>",
		Short: "Rank catalog books by content similarity to free text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if k < 1 || k > recommend.MaxSimilarResults {
				return fmt.Errorf("-k must be between 1 and %d", recommend.MaxSimilarResults)
			}
			engine, err := loadEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}

			recs, err := engine.SimilarToText(cmd.Context(), queryArg(args), k)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd, recs)
			}
			printRecommendations(cmd, recs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", recommend.RecommendationCount, "number of results")
	return cmd
}

func printOutcome(cmd *cobra.Command, out recommend.Outcome) {
	if !out.Resolved {
		if out.MatchedTitle != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No match for %q (closest: %s, score %d)\n", out.Query, out.MatchedTitle, out.Score)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "No match for %q\n", out.Query)
		}
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recommendations for %s (score %d):\n", out.MatchedTitle, out.Score)
	printRecommendations(cmd, out.Recommendations)
}

func printRecommendations(cmd *cobra.Command, recs []recommend.Recommendation) {
	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No results.")
		return
	}
	for i, rec := range recs {
		line := fmt.Sprintf("%2d. %s", i+1, rec.Book.Title)
		if rec.Book.Authors != "" {
			line += " by " + rec.Book.Authors
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (distance %.3f)\n", line, rec.Distance)
		fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", catalog.ShortDescription(rec.Book, 80))
	}
}
