//go:build mage

// Package main contains Mage build targets for candidate-dataset developer
// tooling.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the dataset workflow expects.
var projectDirs = []string{
	"data",
	"output",
	".secrets",
}

// Init creates the project directory structure.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "candidate-dataset"
	cmdPkg  = "./cmd/candidate-dataset"
)

// binPath is the compiled CLI.
var binPath = filepath.Join(binDir, binName)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", binPath)
	return nil
}

// Test runs the unit tests. PostgreSQL tests run when
// CANDIDATE_DATASET_TEST_PG_DSN is set.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Stats prints project metrics: Go production and test lines.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines counts non-blank lines in production and test Go files,
// skipping hidden and underscore-prefixed directories.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}

// Affiliations downloads the CSRankings affiliation index into data/.
func Affiliations() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath, "affiliations", "fetch", "--out", affiliationsPath)
}

// affiliationsPath is where Affiliations writes and Dataset reads the index.
var affiliationsPath = filepath.Join("data", "csranks_author_affiliations.csv")

// Dataset builds the tables from data/corpus.csv into output/. Optional
// data/alias.json, data/region.json, and data/policy.yaml are passed when
// present.
func Dataset() error {
	mg.Deps(Init, Build)

	args := []string{"build", "--corpus", filepath.Join("data", "corpus.csv"), "--out-dir", "output"}
	for flag, path := range map[string]string{
		"--affiliations": affiliationsPath,
		"--aliases":      filepath.Join("data", "alias.json"),
		"--regions":      filepath.Join("data", "region.json"),
		"--policy":       filepath.Join("data", "policy.yaml"),
	} {
		if _, err := os.Stat(path); err == nil {
			args = append(args, flag, path)
		}
	}
	return sh.RunV(binPath, args...)
}

// Load upserts output/ into the local SQLite database output/candidates.db.
func Load() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "load", "--driver", "sqlite3",
		"--dsn", filepath.Join("output", "candidates.db"), "--dataset", "output")
}
