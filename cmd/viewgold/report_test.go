package main

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edulake/internal/errors"
)

func goldCSV(t *testing.T, rows [][]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	w := csv.NewWriter(&buf)
	require.NoError(t, w.WriteAll(rows))
	return buf.Bytes()
}

func testGoldData(t *testing.T) []byte {
	return goldCSV(t, [][]string{
		{"lea_id", "district_name", "county", "ccrpi_score_2023_mean", "school_count", "total_swd", "pct_inclusive_80_plus", "school_year", "total_cost_burden_30_plus_pct"},
		{"1", "Fulton County", "fulton", "82.5", "10", "7000", "60", "2022-23", "35.1"},
		{"2", "DeKalb County", "dekalb", "71", "8", "5000", "75.5", "2022-23", "41"},
		{"3", "Chattahoochee County", "chattahoochee", "90", "2", "", "", "2022-23", "22"},
	})
}

func TestBuildReport(t *testing.T) {
	rep, err := buildReport("gold/county_analysis/ingest_date=2025-01-31/county_joined.csv", testGoldData(t))
	require.NoError(t, err)

	assert.Len(t, rep.headers, 9)
	require.Len(t, rep.rows, 3)

	assert.Equal(t, "fulton", rep.rows[0].county)
	require.NotNil(t, rep.rows[0].costBurden)
	assert.Equal(t, 35.1, *rep.rows[0].costBurden)
	assert.Nil(t, rep.rows[2].pctInclusive)
}

func TestBuildReportMissingColumn(t *testing.T) {
	data := goldCSV(t, [][]string{
		{"lea_id", "county"},
		{"1", "fulton"},
	})

	_, err := buildReport("gold.csv", data)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeSchema))
}

func TestReportWinners(t *testing.T) {
	rep, err := buildReport("gold.csv", testGoldData(t))
	require.NoError(t, err)

	affordable := rep.mostAffordable()
	require.NotNil(t, affordable)
	assert.Equal(t, "chattahoochee", affordable.county)

	schools := rep.bestSchools()
	require.NotNil(t, schools)
	assert.Equal(t, "chattahoochee", schools.county)

	// The null inclusion row never wins its metric.
	inclusive := rep.mostInclusive()
	require.NotNil(t, inclusive)
	assert.Equal(t, "dekalb", inclusive.county)
}

func TestReportOverallBest(t *testing.T) {
	rep, err := buildReport("gold.csv", testGoldData(t))
	require.NoError(t, err)

	// Ranks: fulton 2+2+2=6, dekalb 3+3+1=7, chattahoochee 1+1+3=5
	// (null inclusion ranks after the two non-null rows).
	row, sum := rep.overallBest()
	require.NotNil(t, row)
	assert.Equal(t, "chattahoochee", row.county)
	assert.Equal(t, 5, sum)
}

func TestReportRanksTies(t *testing.T) {
	rep, err := buildReport("gold.csv", goldCSV(t, [][]string{
		{"county", "total_cost_burden_30_plus_pct", "ccrpi_score_2023_mean", "pct_inclusive_80_plus"},
		{"a", "30", "80", "50"},
		{"b", "30", "70", "50"},
		{"c", "40", "60", ""},
	}))
	require.NoError(t, err)

	ranks := rep.ranks(func(row *goldRow) *float64 { return row.costBurden }, false)
	assert.Equal(t, []int{1, 1, 3}, ranks)

	inclusionRanks := rep.ranks(func(row *goldRow) *float64 { return row.pctInclusive }, true)
	assert.Equal(t, []int{1, 1, 3}, inclusionRanks)
}

func TestReportPrint(t *testing.T) {
	rep, err := buildReport("gold.csv", testGoldData(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	rep.print(&buf)
	out := buf.String()

	assert.Contains(t, out, "--- Schema ---")
	assert.Contains(t, out, "total_cost_burden_30_plus_pct")
	assert.Contains(t, out, "--- Sample (first 10 rows) ---")
	assert.Contains(t, out, "Most affordable place to live")
	assert.Contains(t, out, "chattahoochee: 22.00")
	assert.Contains(t, out, "Overall best")
	assert.Equal(t, 1, strings.Count(out, "rank sum"))
}

func TestReportEmptyTable(t *testing.T) {
	rep, err := buildReport("gold.csv", goldCSV(t, [][]string{
		{"county", "total_cost_burden_30_plus_pct", "ccrpi_score_2023_mean", "pct_inclusive_80_plus"},
	}))
	require.NoError(t, err)

	assert.Nil(t, rep.mostAffordable())
	row, _ := rep.overallBest()
	assert.Nil(t, row)
}
