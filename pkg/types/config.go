// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Defaults applied when a configuration value is left at its zero value.
const (
	DefaultChunkSize     = 500000
	DefaultYearMin       = 2017
	DefaultYearMax       = 2022
	DefaultLoadBatchSize = 5000
)

// ScanConfig holds the settings shared by both corpus passes.
type ScanConfig struct {
	// ChunkSize is the number of corpus rows processed per streaming batch.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// YearMin and YearMax bound the inclusive eligibility window applied to
	// each author's first publication year.
	YearMin int `json:"year_min" yaml:"year_min"`
	YearMax int `json:"year_max" yaml:"year_max"`
}

// InputConfig locates the corpus and the external reference tables.
type InputConfig struct {
	// CorpusPath is the denormalized bibliographic CSV.
	CorpusPath string `json:"corpus" yaml:"corpus"`

	// AffiliationsPath is the author → university CSV (CSRankings export).
	AffiliationsPath string `json:"affiliations" yaml:"affiliations"`

	// AliasPath is a JSON object of lowercase substring → canonical university.
	AliasPath string `json:"aliases" yaml:"aliases"`

	// RegionPath is a JSON object of university → country. Optional.
	RegionPath string `json:"regions" yaml:"regions"`

	// PolicyPath is a YAML scoring policy overriding topics and weights. Optional.
	PolicyPath string `json:"policy" yaml:"policy"`
}

// DatasetConfig groups everything the build command needs.
type DatasetConfig struct {
	ScanConfig  `yaml:",inline"`
	InputConfig `yaml:",inline"`

	// OutputDir receives the produced tables and the run summary.
	OutputDir string `json:"out_dir" yaml:"out_dir"`

	// PeriodYear is the processing period for metrics and the fallback
	// graduation year. Zero means the current UTC year.
	PeriodYear int `json:"period_year" yaml:"period_year"`
}

// WithDefaults returns a copy with zero-valued scan settings replaced by defaults.
func (c DatasetConfig) WithDefaults() DatasetConfig {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.YearMin == 0 {
		c.YearMin = DefaultYearMin
	}
	if c.YearMax == 0 {
		c.YearMax = DefaultYearMax
	}
	return c
}

// Validate reports configuration errors that would make a run meaningless.
func (c DatasetConfig) Validate() error {
	var errs []error
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize))
	}
	if c.YearMin > c.YearMax {
		errs = append(errs, fmt.Errorf("year window is empty: %d > %d", c.YearMin, c.YearMax))
	}
	if c.CorpusPath == "" {
		errs = append(errs, errors.New("corpus path is required"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	return errors.Join(errs...)
}

// LoadDriver selects the downstream relational store.
type LoadDriver string

const (
	DriverSQLite   LoadDriver = "sqlite3"
	DriverPostgres LoadDriver = "postgres"
)

// LoadConfig holds settings for loading produced tables into a database.
type LoadConfig struct {
	// Driver is sqlite3 or postgres.
	Driver LoadDriver `json:"driver" yaml:"driver"`

	// DSN is a file path for sqlite3 or a connection string for postgres.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`

	// DatasetDir holds the CSV tables produced by a build run.
	DatasetDir string `json:"dataset_dir" yaml:"dataset_dir"`

	// BatchSize is the number of rows sent per upsert batch (default 5000).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}
