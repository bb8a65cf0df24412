// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/candidate-dataset/internal/reference"
)

var affiliationsCmd = &cobra.Command{
	Use:   "affiliations",
	Short: "Manage the author affiliation index",
}

var affiliationsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the CSRankings faculty lists as an affiliation index",
	Long: `Fetch downloads csrankings-a.csv through csrankings-z.csv, keeps authors
that list an affiliation, deduplicates by author name (first row wins), and
writes author_name, university_name, department, homepage, source_file to
the output CSV. Pass the result to build with --affiliations.`,
	RunE: runAffiliationsFetch,
}

func init() {
	f := affiliationsFetchCmd.Flags()
	f.String("out", filepath.Join("data", "csranks_author_affiliations.csv"), "output CSV path")
	f.String("base-url", reference.DefaultCSRankingsBaseURL, "base URL serving the csrankings-*.csv files")
	f.String("user-agent", "candidate-dataset/"+version, "User-Agent header for requests")
	f.Int("max-retries", 3, "retries per file on 429 and 5xx responses")
	f.Duration("timeout", 60*time.Second, "HTTP request timeout")

	viper.BindPFlag("csrankings.base_url", f.Lookup("base-url"))

	affiliationsCmd.AddCommand(affiliationsFetchCmd)
	rootCmd.AddCommand(affiliationsCmd)
}

func runAffiliationsFetch(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	userAgent, _ := cmd.Flags().GetString("user-agent")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := &http.Client{Timeout: timeout}
	rows, summary, err := reference.FetchCSRankings(ctx, client, reference.CSRankingsConfig{
		BaseURL:    viper.GetString("csrankings.base_url"),
		UserAgent:  userAgent,
		MaxRetries: maxRetries,
	}, logger)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no affiliation rows fetched (%d files skipped)", summary.Skipped)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", out, err)
	}
	if err := reference.WriteAffiliations(out, rows); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "files: %d, skipped: %d, authors: %d, duplicates: %d\n",
		summary.Files, summary.Skipped, summary.Rows, summary.Duplicates)
	fmt.Fprintf(w, "wrote %s\n", out)
	return nil
}
