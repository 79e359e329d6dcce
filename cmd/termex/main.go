package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/termex/internal/logging"
	"github.com/cognicore/termex/pkg/termex/config"
	"github.com/cognicore/termex/pkg/termex/store"
	"github.com/cognicore/termex/pkg/termex/store/memstore"
	"github.com/cognicore/termex/pkg/termex/store/sqlite"
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "termex",
		Short: "Extract multi-word terms from a corpus with the C-value method",
		Long: `termex ranks the multi-word terms of a document corpus by C-value, a score that
rewards frequent, long terms and discounts terms that mostly appear nested inside
longer ones. Runs can be persisted to SQLite and inspected later.

Examples:
  termex extract corpus/ --max-length 4 --threshold 1
  termex extract abstracts.csv --column abstract --store sqlite --db runs.db
  termex runs --db runs.db
  termex show 01J9ZQ3M4X5Y6Z7A8B9C0D1E2F --db runs.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "YAML configuration file")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default from config)")
	root.PersistentFlags().String("log-format", "", "Log format: text or json (default from config)")
	root.PersistentFlags().String("store", "", "Run store: memory or sqlite (default from config)")
	root.PersistentFlags().String("db", "", "SQLite database path (implies --store sqlite)")

	root.AddCommand(newExtractCmd(), newRunsCmd(), newShowCmd(), newHistoryCmd(), newStopwordsCmd())
	return root
}

// loadConfig reads --config and applies the persistent flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.Store.Driver = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.Store.Driver = "sqlite"
		cfg.Store.Path = v
	}
	return cfg, nil
}

// setupLogger builds the process logger from the configuration
func setupLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	log, err := logging.New(w, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)
	return log, nil
}

// openStore opens the configured run store
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return sqlite.OpenSQLite(ctx, cfg.Resolve(cfg.Store.Path))
	case "memory", "":
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
