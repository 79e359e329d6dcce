package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/termex/pkg/termex/store"
)

// persistentStore opens the sqlite store the run commands read from
func persistentStore(cmd *cobra.Command) (store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if cfg.Store.Driver != "sqlite" {
		return nil, fmt.Errorf("runs are only kept across invocations by the sqlite store, pass --db")
	}
	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored extraction runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := persistentStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeRuns(cmd.OutOrStdout(), runs)
		},
	}
	cmd.Flags().IntP("limit", "l", 10, "Number of runs to list")
	return cmd
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the terms and cards of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := persistentStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			run, err := st.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			top, _ := cmd.Flags().GetInt("top")
			terms, err := st.RunTerms(ctx, run.ID, top)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := writeRunTerms(out, run, terms); err != nil {
				return err
			}

			if withCards, _ := cmd.Flags().GetBool("cards"); withCards {
				cards, err := st.GetCardsByRun(ctx, run.ID, max(top, len(terms)))
				if err != nil {
					return err
				}
				return writeStoredCards(out, cards)
			}
			return nil
		},
	}
	cmd.Flags().IntP("top", "n", 20, "Number of terms to show, 0 for all")
	cmd.Flags().Bool("cards", false, "Also print the stored term cards")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <term>",
		Short: "Show how a term scored across stored runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := persistentStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			label := strings.ToLower(strings.Join(args, " "))
			hist, err := st.TermHistory(cmd.Context(), label)
			if err != nil {
				return err
			}
			return writeHistory(cmd.OutOrStdout(), label, hist)
		},
	}
}
