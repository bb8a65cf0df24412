// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/candidate-dataset/internal/pipeline"
	"github.com/pdiddy/candidate-dataset/internal/reference"
	"github.com/pdiddy/candidate-dataset/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the dataset tables from a corpus CSV",
	Long: `Build streams the corpus twice in chunks and writes publications.csv,
candidates.csv, universities.csv, research_topics.csv, candidate_topics.csv,
academic_metrics.csv, and RUN_SUMMARY.json to the output directory.

Authors are eligible when their earliest publication year falls inside
[--year-min, --year-max]. Re-running on the same input reproduces every
primary key, so downstream loads can upsert instead of duplicating rows.`,
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.String("corpus", "", "bibliographic corpus CSV (required)")
	f.String("affiliations", "", "affiliation index CSV (author_name, university_name)")
	f.String("aliases", "", "alias JSON object mapping substrings to universities")
	f.String("regions", "", "region JSON object mapping universities to countries")
	f.String("policy", "", "scoring policy YAML overriding topics and weights")
	f.String("out-dir", "output", "directory for the produced tables")
	f.Int("chunk-size", types.DefaultChunkSize, "corpus rows per streaming chunk")
	f.Int("year-min", types.DefaultYearMin, "first year of the eligibility window")
	f.Int("year-max", types.DefaultYearMax, "last year of the eligibility window")
	f.Int("period-year", 0, "processing year for metrics and graduation fallback (default: current year)")

	for key, flag := range map[string]string{
		"corpus":       "corpus",
		"affiliations": "affiliations",
		"aliases":      "aliases",
		"regions":      "regions",
		"policy":       "policy",
		"out_dir":      "out-dir",
		"chunk_size":   "chunk-size",
		"year_min":     "year-min",
		"year_max":     "year-max",
		"period_year":  "period-year",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(buildCmd)
}

// datasetConfig reads the build settings from viper.
func datasetConfig() types.DatasetConfig {
	return types.DatasetConfig{
		ScanConfig: types.ScanConfig{
			ChunkSize: viper.GetInt("chunk_size"),
			YearMin:   viper.GetInt("year_min"),
			YearMax:   viper.GetInt("year_max"),
		},
		InputConfig: types.InputConfig{
			CorpusPath:       viper.GetString("corpus"),
			AffiliationsPath: viper.GetString("affiliations"),
			AliasPath:        viper.GetString("aliases"),
			RegionPath:       viper.GetString("regions"),
			PolicyPath:       viper.GetString("policy"),
		},
		OutputDir:  viper.GetString("out_dir"),
		PeriodYear: viper.GetInt("period_year"),
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := datasetConfig().WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tables, err := reference.Load(cfg.InputConfig, logger)
	if err != nil {
		return err
	}

	_, err = pipeline.Run(ctx, pipeline.Options{
		Config:   cfg,
		Tables:   tables,
		Logger:   logger,
		Progress: cmd.OutOrStdout(),
	})
	return err
}
