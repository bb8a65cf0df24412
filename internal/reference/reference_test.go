// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/candidate-dataset/internal/affiliation"
	"github.com/pdiddy/candidate-dataset/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseAffiliations(t *testing.T) {
	input := ` Author_Name ,University_Name,dept
"Smith, Jane",  Stanford University ,CS
Bob Li [0001],MIT,EE
No Affiliation,,CS
Bob Li,Harvard University,EE
`
	got, err := ParseAffiliations(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"jane smith": "Stanford University",
		"bob li":     "Harvard University",
	}, got)
}

func TestParseAffiliationsMissingColumns(t *testing.T) {
	_, err := ParseAffiliations(strings.NewReader("name,affiliation\na,b\n"))
	assert.Error(t, err)
}

func TestLoadAliasesKeepsFileOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "alias.json", `{
  "Zeta": "Z University",
  " alpha ": "A University",
  "mid": "M University",
  "ZETA": "Z Prime University"
}`)
	got, err := LoadAliases(path)
	require.NoError(t, err)
	assert.Equal(t, []affiliation.Alias{
		{Key: "zeta", University: "Z Prime University"},
		{Key: "alpha", University: "A University"},
		{Key: "mid", University: "M University"},
	}, got)
}

func TestLoadAliasesErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadAliases(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = LoadAliases("")
	assert.ErrorIs(t, err, ErrNotFound)

	path := writeFile(t, dir, "list.json", `["a", "b"]`)
	_, err = LoadAliases(path)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	path = writeFile(t, dir, "nested.json", `{"a": {"b": "c"}}`)
	_, err = LoadAliases(path)
	assert.Error(t, err)
}

func TestLoadRegions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "region.json", `{" MIT ": " USA ", "ETH Zurich": "Switzerland"}`)
	got, err := LoadRegions(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"MIT": "USA", "ETH Zurich": "Switzerland"}, got)
}

func TestLoadPolicy(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "policy.yaml", `topics:
  - label: systems
    keywords: [kernel, scheduler]
  - label: theory
    keywords: [proof]
weights:
  citations: 0.5
  h_index: 0.5
`)
	p, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, []types.TopicRule{
		{Label: "systems", Keywords: []string{"kernel", "scheduler"}},
		{Label: "theory", Keywords: []string{"proof"}},
	}, p.Topics)
	assert.Equal(t, types.ScoreWeights{Citations: 0.5, HIndex: 0.5}, p.Weights)

	bad := writeFile(t, dir, "bad.yaml", "topics:\n  - keywords: [x]\n")
	_, err = LoadPolicy(bad)
	assert.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	cfg := types.InputConfig{
		AffiliationsPath: writeFile(t, dir, "csr.csv", "author_name,university_name\nAlice Chen,Stanford University\n"),
		AliasPath:        filepath.Join(dir, "missing-alias.json"),
		RegionPath:       writeFile(t, dir, "region.json", `{"Stanford University": "USA"}`),
	}
	tables, err := Load(cfg, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "Stanford University", tables.Affiliations["alice chen"])
	assert.Empty(t, tables.Aliases)
	assert.Equal(t, "USA", tables.Region("Stanford University"))
	assert.Equal(t, "unknown", tables.Region("MIT"))
	assert.Empty(t, tables.Policy.Topics)

	uni, ok := tables.Matcher().Match("chen alice")
	assert.True(t, ok)
	assert.Equal(t, "Stanford University", uni)
}

func TestLoadMissingAffiliationsIsFatal(t *testing.T) {
	cfg := types.InputConfig{AffiliationsPath: filepath.Join(t.TempDir(), "nope.csv")}
	_, err := Load(cfg, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadWithoutAnyFiles(t *testing.T) {
	tables, err := Load(types.InputConfig{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, tables.Affiliations)
	assert.Empty(t, tables.Regions)
	_, ok := tables.Matcher().Match("anyone")
	assert.False(t, ok)
}
