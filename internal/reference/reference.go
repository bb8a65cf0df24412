// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reference loads the external lookup tables consumed by a build:
// the author affiliation index, the university alias list, the region map,
// and the scoring policy.
package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/candidate-dataset/internal/affiliation"
	"github.com/pdiddy/candidate-dataset/internal/names"
	"github.com/pdiddy/candidate-dataset/pkg/types"
)

// ErrNotFound is wrapped when a reference file does not exist.
var ErrNotFound = errors.New("reference file not found")

// Tables holds every loaded reference table.
type Tables struct {
	// Affiliations maps a normalized author name to a university.
	Affiliations map[string]string
	// Aliases are substring keys in file order.
	Aliases []affiliation.Alias
	// Regions maps a university name to a country or region.
	Regions map[string]string
	Policy  types.Policy
}

// Matcher returns the affiliation matching chain: index lookup first, alias
// substring fallback second.
func (t *Tables) Matcher() affiliation.Matcher {
	return affiliation.Chain{
		affiliation.NewIndexMatcher(t.Affiliations),
		affiliation.NewAliasMatcher(t.Aliases),
	}
}

// Region returns the region of a university, or "unknown".
func (t *Tables) Region(university string) string {
	if r, ok := t.Regions[university]; ok && r != "" {
		return r
	}
	return "unknown"
}

// Load reads all reference tables named in cfg. The affiliation index is
// required when a path is given. Missing alias, region, or policy files are
// logged and replaced by empty tables.
func Load(cfg types.InputConfig, log zerolog.Logger) (*Tables, error) {
	t := &Tables{
		Affiliations: map[string]string{},
		Regions:      map[string]string{},
	}

	if cfg.AffiliationsPath == "" {
		log.Warn().Msg("no affiliation index configured; every candidate resolves through aliases only")
	} else {
		aff, err := LoadAffiliations(cfg.AffiliationsPath)
		if err != nil {
			return nil, err
		}
		t.Affiliations = aff
	}

	aliases, err := LoadAliases(cfg.AliasPath)
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn().Str("path", cfg.AliasPath).Msg("alias index not found, using empty alias list")
	case err != nil:
		return nil, err
	default:
		t.Aliases = aliases
	}

	regions, err := LoadRegions(cfg.RegionPath)
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn().Str("path", cfg.RegionPath).Msg("region map not found, using 'unknown'")
	case err != nil:
		return nil, err
	default:
		t.Regions = regions
	}

	policy, err := LoadPolicy(cfg.PolicyPath)
	switch {
	case errors.Is(err, ErrNotFound):
		if cfg.PolicyPath != "" {
			log.Warn().Str("path", cfg.PolicyPath).Msg("scoring policy not found, using built-in defaults")
		}
	case err != nil:
		return nil, err
	default:
		t.Policy = policy
	}

	log.Info().
		Int("affiliations", len(t.Affiliations)).
		Int("aliases", len(t.Aliases)).
		Int("regions", len(t.Regions)).
		Int("topic_rules", len(t.Policy.Topics)).
		Msg("reference tables loaded")
	return t, nil
}

func readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no path given", ErrNotFound)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// LoadAffiliations reads a CSV with author_name and university_name columns
// (case-insensitive). Author names are normalized; a later row for the same
// author overwrites an earlier one. Rows without a university are skipped.
func LoadAffiliations(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening affiliation index %s: %w", path, err)
	}
	defer f.Close()
	return ParseAffiliations(f)
}

// ParseAffiliations is LoadAffiliations over an open reader.
func ParseAffiliations(r io.Reader) (map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading affiliation header: %w", err)
	}
	nameCol, uniCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "author_name":
			nameCol = i
		case "university_name":
			uniCol = i
		}
	}
	if nameCol < 0 || uniCol < 0 {
		return nil, fmt.Errorf("affiliation index needs author_name and university_name columns, got %v", header)
	}

	index := make(map[string]string)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading affiliation row: %w", err)
		}
		if nameCol >= len(row) || uniCol >= len(row) {
			continue
		}
		key := names.Normalize(row[nameCol])
		uni := strings.TrimSpace(row[uniCol])
		if key == "" || uni == "" {
			continue
		}
		index[key] = uni
	}
	return index, nil
}

// LoadAliases reads a JSON object of alias → university. Keys are lowercased
// and trimmed; file order is preserved because the substring fallback is
// order-sensitive. A repeated key keeps its first position and its last value.
func LoadAliases(path string) ([]affiliation.Alias, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	pairs, err := orderedPairs(data)
	if err != nil {
		return nil, fmt.Errorf("parsing alias index %s: %w", path, err)
	}

	pos := make(map[string]int, len(pairs))
	var aliases []affiliation.Alias
	for _, p := range pairs {
		key := strings.TrimSpace(strings.ToLower(p[0]))
		if i, ok := pos[key]; ok {
			aliases[i].University = p[1]
			continue
		}
		pos[key] = len(aliases)
		aliases = append(aliases, affiliation.Alias{Key: key, University: p[1]})
	}
	return aliases, nil
}

// LoadRegions reads a JSON object of university → region, trimming both sides.
func LoadRegions(path string) (map[string]string, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	pairs, err := orderedPairs(data)
	if err != nil {
		return nil, fmt.Errorf("parsing region map %s: %w", path, err)
	}
	regions := make(map[string]string, len(pairs))
	for _, p := range pairs {
		regions[strings.TrimSpace(p[0])] = strings.TrimSpace(p[1])
	}
	return regions, nil
}

// orderedPairs decodes a flat JSON (or YAML) object into key/value pairs in
// document order.
func orderedPairs(data []byte) ([][2]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected an object at line %d", root.Line)
	}
	pairs := make([][2]string, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("value for %q at line %d is not a string", k.Value, v.Line)
		}
		pairs = append(pairs, [2]string{k.Value, v.Value})
	}
	return pairs, nil
}

// LoadPolicy reads a YAML scoring policy. Sections left out of the file stay
// at their zero value and fall back to the built-in defaults downstream.
func LoadPolicy(path string) (types.Policy, error) {
	var p types.Policy
	data, err := readFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing policy %s: %w", path, err)
	}
	for i, r := range p.Topics {
		if strings.TrimSpace(r.Label) == "" {
			return p, fmt.Errorf("policy %s: topic rule %d has no label", path, i+1)
		}
	}
	return p, nil
}
