package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelgate/internal/catalog"
	"reelgate/internal/match"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and maintain the title catalog",
	}

	catalogCmd.AddCommand(newCatalogStatsCommand(ctx))
	catalogCmd.AddCommand(newCatalogSearchCommand(ctx))
	catalogCmd.AddCommand(newCatalogDelCommand(ctx))
	catalogCmd.AddCommand(newCatalogWipeCommand(ctx))

	return catalogCmd
}

func newCatalogStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("catalog stats: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, heading(out, "Catalog"))
			fmt.Fprintln(out, renderTable(
				[]string{"Titles", "Variants", "Users", "Channels"},
				[][]string{{
					strconv.Itoa(stats.Titles),
					strconv.Itoa(stats.Variants),
					strconv.Itoa(stats.Users),
					strconv.Itoa(stats.Channels),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}

func newCatalogSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Resolve a query the way the bot would",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			query := strings.Join(args, " ")
			matcher := match.New(store, cfg.Matcher)
			outcome, err := matcher.Search(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			out := cmd.OutOrStdout()
			switch outcome.Kind {
			case match.KindNone:
				fmt.Fprintln(out, "No matches.")

			case match.KindSingle:
				fmt.Fprintf(out, "Exact match: %s\n", outcome.Title.Display())
				return printVariants(cmd, store, outcome.Title)

			case match.KindMany:
				fmt.Fprintf(out, "%d matches (page %d of %d):\n", outcome.Total, outcome.Page+1, outcome.PageCount)
				rows := make([][]string, 0, len(outcome.Titles))
				for _, title := range outcome.Titles {
					rows = append(rows, []string{
						strconv.FormatInt(title.ID, 10),
						title.Display(),
						title.LookupKey,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Lookup Key"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft},
				))

			case match.KindSuggestions:
				fmt.Fprintln(out, "No matches. Closest entries:")
				rows := make([][]string, 0, len(outcome.Suggestions))
				for _, s := range outcome.Suggestions {
					rows = append(rows, []string{
						s.Title.Display(),
						strconv.Itoa(s.Score),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Title", "Score"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
			}
			return nil
		},
	}
}

func printVariants(cmd *cobra.Command, store *catalog.Store, title *catalog.Title) error {
	variants, err := store.VariantsByTitle(cmd.Context(), title.ID)
	if err != nil {
		return fmt.Errorf("load variants: %w", err)
	}
	rows := make([][]string, 0, len(variants))
	for _, v := range variants {
		rows = append(rows, []string{
			strconv.FormatInt(v.ID, 10),
			v.Quality,
			v.Language,
			strconv.FormatInt(v.ChatID, 10),
			strconv.FormatInt(v.MessageID, 10),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"ID", "Quality", "Language", "Chat", "Message"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
	))
	return nil
}

func newCatalogDelCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "del <title>",
		Short: "Delete a title and its variants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			query := strings.Join(args, " ")
			matcher := match.New(store, cfg.Matcher)
			outcome, err := matcher.Search(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("resolve title: %w", err)
			}

			var target *catalog.Title
			switch outcome.Kind {
			case match.KindSingle:
				target = outcome.Title
			case match.KindMany:
				if outcome.Total == 1 {
					target = outcome.Titles[0]
					break
				}
				return fmt.Errorf("%d titles match %q; narrow the query", outcome.Total, query)
			default:
				return fmt.Errorf("no title matches %q", query)
			}

			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprintf(out, "Would delete %s and all of its variants. Re-run with --yes to confirm.\n", target.Display())
				return nil
			}

			titles, variants, err := store.DeleteTitleCascade(cmd.Context(), target.ID)
			if err != nil {
				return fmt.Errorf("delete title: %w", err)
			}
			fmt.Fprintf(out, "Deleted %s (%d title, %d variants).\n", target.Display(), titles, variants)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Delete without confirmation")
	return cmd
}

func newCatalogWipeCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Remove every title and variant",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if !yes {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return fmt.Errorf("catalog stats: %w", err)
				}
				fmt.Fprintf(out, "Would remove %d titles and %d variants. Re-run with --yes to confirm.\n", stats.Titles, stats.Variants)
				return nil
			}

			titles, variants, err := store.Wipe(cmd.Context())
			if err != nil {
				return fmt.Errorf("wipe catalog: %w", err)
			}
			fmt.Fprintf(out, "Catalog wiped: %d titles, %d variants removed.\n", titles, variants)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Wipe without confirmation")
	return cmd
}
