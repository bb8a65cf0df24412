// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/candidate-dataset/internal/output"
	"github.com/pdiddy/candidate-dataset/internal/secrets"
	"github.com/pdiddy/candidate-dataset/internal/store"
	"github.com/pdiddy/candidate-dataset/pkg/types"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Upsert a built dataset into SQLite or PostgreSQL",
	Long: `Load reads the tables produced by build and upserts them by primary key,
in foreign-key order: universities, research_topics, candidates,
publications, candidate_topics, academic_metrics.

For sqlite3 the DSN is a database file path. For postgres the DSN is a
connection string; when omitted it is read from .secrets/postgres-dsn.`,
	RunE: runLoad,
}

func init() {
	f := loadCmd.Flags()
	f.String("driver", string(types.DriverSQLite), "database driver: sqlite3 or postgres")
	f.String("dsn", "", "database file (sqlite3) or connection string (postgres)")
	f.String("dataset", "", "directory holding the built tables (default: --out-dir)")
	f.Int("batch-size", types.DefaultLoadBatchSize, "rows per upsert batch")

	viper.BindPFlag("load.driver", f.Lookup("driver"))
	viper.BindPFlag("load.dsn", f.Lookup("dsn"))
	viper.BindPFlag("load.dataset_dir", f.Lookup("dataset"))
	viper.BindPFlag("load.batch_size", f.Lookup("batch-size"))

	rootCmd.AddCommand(loadCmd)
}

// loadConfig reads the load settings from viper, falling back to stored
// secrets and the build output directory.
func loadConfig() types.LoadConfig {
	cfg := types.LoadConfig{
		Driver:     types.LoadDriver(viper.GetString("load.driver")),
		DSN:        viper.GetString("load.dsn"),
		DatasetDir: viper.GetString("load.dataset_dir"),
		BatchSize:  viper.GetInt("load.batch_size"),
	}
	if cfg.DatasetDir == "" {
		cfg.DatasetDir = viper.GetString("out_dir")
	}
	if cfg.DatasetDir == "" {
		cfg.DatasetDir = "output"
	}
	if cfg.Driver == types.DriverPostgres {
		cfg.DSN = loadedSecrets.Or(secrets.PostgresDSN, cfg.DSN)
	}
	return cfg
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.DSN == "" {
		return fmt.Errorf("no DSN for %s: pass --dsn or set load.dsn", cfg.Driver)
	}

	// Refuse directories that were never completed by build.
	summary, err := output.ReadSummary(cfg.DatasetDir)
	if err != nil {
		return fmt.Errorf("dataset %s is incomplete: %w", cfg.DatasetDir, err)
	}
	logger.Info().
		Str("dataset", cfg.DatasetDir).
		Str("generated_at", summary.GeneratedAt).
		Int("candidates", summary.Candidates).
		Int("publications", summary.Publications).
		Msg("loading dataset")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sink, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	_, err = store.Load(ctx, sink, cfg.DatasetDir, cfg.BatchSize, cmd.OutOrStdout())
	return err
}
