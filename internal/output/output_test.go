// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/candidate-dataset/pkg/types"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestTableAppendAndFlush(t *testing.T) {
	dir := t.TempDir()
	tbl, err := Create[types.PublicationRecord](dir, PublicationsFile)
	require.NoError(t, err)

	year := 2019
	ts := time.Date(2025, 1, 2, 3, 4, 5, 6000, time.UTC)
	require.NoError(t, tbl.Append(types.PublicationRecord{
		ID: "p1", CandidateID: "c1", Title: `Title, with "quotes"`, Year: &year,
		Citations: 5, TopicID: "t1", CreatedAt: ts, UpdatedAt: ts,
	}))
	require.NoError(t, tbl.Append(types.PublicationRecord{ID: "p2", CandidateID: "c2"}))
	require.NoError(t, tbl.Flush())
	assert.Equal(t, 2, tbl.Rows())

	rows := readCSV(t, tbl.Path())
	require.Len(t, rows, 3)
	assert.Equal(t, types.PublicationRecord{}.Columns(), rows[0])
	assert.Equal(t, `Title, with "quotes"`, rows[1][2])
	assert.Equal(t, "2019", rows[1][4])
	assert.Equal(t, "2025-01-02T03:04:05.000006", rows[1][9])
	assert.Equal(t, "", rows[2][4], "nil year is empty")

	require.NoError(t, tbl.Close())
}

func TestWriteTableEmptyHasHeader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteTable[types.CandidateTopicLink](dir, CandidateTopicsFile, nil))
	rows := readCSV(t, filepath.Join(dir, CandidateTopicsFile))
	assert.Equal(t, [][]string{{"candidate_id", "topic_id", "created_at"}}, rows)
}

func TestCreateMissingDir(t *testing.T) {
	_, err := Create[types.TopicRecord](filepath.Join(t.TempDir(), "nope"), TopicsFile)
	assert.Error(t, err)
}

func TestSummaryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := types.RunSummary{Candidates: 2, Universities: 1, Topics: 3, PeriodYear: 2025, GeneratedAt: "2025-01-01T00:00:00.000000"}
	require.NoError(t, WriteSummary(dir, in))
	out, err := ReadSummary(dir)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
