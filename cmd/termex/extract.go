package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/termex/internal/corpus"
	"github.com/cognicore/termex/pkg/termex"
	"github.com/cognicore/termex/pkg/termex/metrics"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <path>",
		Short: "Extract and score terms from a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtract,
	}

	// corpus flags
	cmd.Flags().String("format", "", "Corpus format: txt, json, jsonl, csv, html (default: by extension)")
	cmd.Flags().String("field", "", "JSON/JSONL field holding the text (default \"text\")")
	cmd.Flags().String("column", "", "CSV column holding the text (default \"text\")")
	cmd.Flags().String("selector", "", "CSS selector of HTML content (default \"body\")")

	// extraction flags override the configuration file
	cmd.Flags().IntP("max-length", "m", 0, "Longest term in tokens, 0 for the longest observed")
	cmd.Flags().Float64P("threshold", "t", 0, "Minimum C-value of a reported term")
	cmd.Flags().Float64("cvalue-threshold", 0, "Minimum C-value for acceptance inside the scoring loop (default: --threshold)")
	cmd.Flags().StringSlice("stop", nil, "Stop tokens excluded from generated sub-terms")
	cmd.Flags().Bool("accepted-only", false, "Only accepted terms discount their nested sub-terms")
	cmd.Flags().IntP("workers", "w", 0, "Parallel workers for tokenization and counting")

	// output flags
	cmd.Flags().IntP("top", "n", 20, "Number of terms to print, 0 for all")
	cmd.Flags().Bool("json", false, "Print the report as JSON")
	cmd.Flags().Bool("explain", false, "Print the statistics behind every score")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while running")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("max-length") {
		cfg.MaxTermLength, _ = flags.GetInt("max-length")
	}
	if flags.Changed("threshold") {
		cfg.CandidateThreshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("cvalue-threshold") {
		v, _ := flags.GetFloat64("cvalue-threshold")
		cfg.CValueThreshold = &v
	}
	if flags.Changed("stop") {
		stops, _ := flags.GetStringSlice("stop")
		cfg.StopTokens = append(cfg.StopTokens, stops...)
	}
	if flags.Changed("accepted-only") {
		cfg.PropagateAcceptedOnly, _ = flags.GetBool("accepted-only")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	log, err := setupLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// create context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	opts := corpus.Options{Log: log}
	opts.Format, _ = flags.GetString("format")
	opts.Field, _ = flags.GetString("field")
	opts.Column, _ = flags.GetString("column")
	opts.Selector, _ = flags.GetString("selector")

	docs, err := corpus.Load(args[0], opts)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	m := metrics.New(nil)
	if addr, _ := flags.GetString("metrics-addr"); addr != "" {
		shutdown := m.StartServer(addr, log)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
	}

	tx, err := termex.FromConfig(cfg, st, m, log)
	if err != nil {
		st.Close()
		return fmt.Errorf("configuration error: %w", err)
	}
	defer tx.Close()

	rep, err := tx.Run(ctx, args[0], docs)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	top, _ := flags.GetInt("top")
	asJSON, _ := flags.GetBool("json")
	explain, _ := flags.GetBool("explain")
	if asJSON {
		return writeReportJSON(cmd.OutOrStdout(), rep, top)
	}
	return writeReport(cmd.OutOrStdout(), rep, top, explain)
}
