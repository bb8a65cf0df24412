// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline builds the candidate dataset from the corpus in two
// sequential scans followed by a finalization step.
//
// The eligibility scan sees the whole corpus and produces the immutable
// eligible-author set. The aggregation scan joins every record against that
// set, streams publication rows, and fills per-candidate accumulators, which
// the finalizer turns into the remaining tables.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/candidate-dataset/internal/affiliation"
	"github.com/pdiddy/candidate-dataset/internal/corpus"
	"github.com/pdiddy/candidate-dataset/internal/output"
	"github.com/pdiddy/candidate-dataset/internal/reference"
	"github.com/pdiddy/candidate-dataset/internal/score"
	"github.com/pdiddy/candidate-dataset/internal/topic"
	"github.com/pdiddy/candidate-dataset/pkg/types"
)

// ChunkSource streams corpus records in chunks. It must be scannable more
// than once; corpus.File is the usual implementation.
type ChunkSource interface {
	Scan(ctx context.Context, fn corpus.ChunkFunc) (corpus.ScanStats, error)
}

// Options configures a build.
type Options struct {
	Config types.DatasetConfig
	Tables *reference.Tables

	// Source overrides the corpus file named in Config. Optional.
	Source ChunkSource

	Logger zerolog.Logger

	// Progress receives one human-readable line per stage. Optional.
	Progress io.Writer

	// Now is the run clock. Defaults to time.Now.
	Now func() time.Time
}

// Run executes both scans, finalizes, and writes every table plus the run
// summary to cfg.OutputDir. An error leaves the output directory unusable.
func Run(ctx context.Context, opts Options) (types.RunSummary, error) {
	cfg := opts.Config.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return types.RunSummary{}, fmt.Errorf("invalid configuration: %w", err)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	started := now().UTC()
	if cfg.PeriodYear == 0 {
		cfg.PeriodYear = started.Year()
	}

	tables := opts.Tables
	if tables == nil {
		tables = &reference.Tables{}
	}
	src := opts.Source
	if src == nil {
		src = corpus.File{Path: cfg.CorpusPath, ChunkSize: cfg.ChunkSize}
	}
	w := opts.Progress
	if w == nil {
		w = io.Discard
	}
	log := opts.Logger

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return types.RunSummary{}, fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}

	fmt.Fprintf(w, "pass 1: scanning %s for authors first published in %d-%d\n", cfg.CorpusPath, cfg.YearMin, cfg.YearMax)
	eligible, eStats, err := ScanEligibility(ctx, src, cfg.ScanConfig, log)
	if err != nil {
		return types.RunSummary{}, fmt.Errorf("eligibility scan: %w", err)
	}
	fmt.Fprintf(w, "pass 1: %d records, %d authors, %d eligible\n", eStats.Records, eStats.AuthorsSeen, eStats.EligibleSize)

	pubs, err := output.Create[types.PublicationRecord](cfg.OutputDir, output.PublicationsFile)
	if err != nil {
		return types.RunSummary{}, err
	}
	agg := NewAggregator(eligible, topic.NewClassifier(tables.Policy.Topics), pubs, started)

	fmt.Fprintf(w, "pass 2: aggregating publications\n")
	aStats, err := ScanAggregation(ctx, src, agg, log)
	if err != nil {
		pubs.Close()
		return types.RunSummary{}, fmt.Errorf("aggregation scan: %w", err)
	}
	if err := pubs.Close(); err != nil {
		return types.RunSummary{}, err
	}
	fmt.Fprintf(w, "pass 2: %d matched records, %d publications, %d candidates\n",
		aStats.Matched, aStats.Publications, agg.Accumulators().Len())

	fin := NewFinalizer(
		affiliation.NewResolver(tables.Matcher()),
		score.NewScorer(tables.Policy.Weights),
		tables.Region,
		cfg.PeriodYear,
		started,
	)
	ds := fin.Finalize(agg.Accumulators())

	if err := writeDataset(cfg.OutputDir, ds); err != nil {
		return types.RunSummary{}, err
	}

	summary := types.RunSummary{
		Candidates:      len(ds.Candidates),
		Universities:    len(ds.Universities),
		Topics:          len(ds.Topics),
		Publications:    pubs.Rows(),
		CandidateTopics: len(ds.CandidateTopics),
		AcademicMetrics: len(ds.AcademicMetrics),
		EligibleAuthors: eligible.Len(),
		RecordsScanned:  aStats.Records,
		RecordsMatched:  aStats.Matched,
		PeriodYear:      cfg.PeriodYear,
		GeneratedAt:     types.FormatTimestamp(now()),
	}
	if err := output.WriteSummary(cfg.OutputDir, summary); err != nil {
		return summary, err
	}

	log.Info().
		Int("candidates", summary.Candidates).
		Int("universities", summary.Universities).
		Int("topics", summary.Topics).
		Int("publications", summary.Publications).
		Str("out_dir", cfg.OutputDir).
		Msg("dataset written")
	fmt.Fprintf(w, "done: %d candidates, %d universities, %d topics written to %s\n",
		summary.Candidates, summary.Universities, summary.Topics, cfg.OutputDir)
	return summary, nil
}

func writeDataset(dir string, ds Dataset) error {
	if err := output.WriteTable(dir, output.CandidatesFile, ds.Candidates); err != nil {
		return err
	}
	if err := output.WriteTable(dir, output.UniversitiesFile, ds.Universities); err != nil {
		return err
	}
	if err := output.WriteTable(dir, output.AcademicMetricsFile, ds.AcademicMetrics); err != nil {
		return err
	}
	if err := output.WriteTable(dir, output.TopicsFile, ds.Topics); err != nil {
		return err
	}
	return output.WriteTable(dir, output.CandidateTopicsFile, ds.CandidateTopics)
}
