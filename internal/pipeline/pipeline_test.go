package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"edulake/internal/config"
	"edulake/internal/errors"
	"edulake/internal/storage"
)

const testIngestDate = "2025-01-31"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeBronzeHousing(t *testing.T, store storage.Store, paths config.LakePaths) {
	t.Helper()

	rows := [][]string{
		{"GEO_ID", "NAME", "S2503_C01_001E", "S2503_C01_028E", "S2503_C01_032E", "S2503_C01_036E", "S2503_C01_040E", "S2503_C01_044E"},
		{"Geography", "Geographic Area Name", "Estimate", "Estimate", "Estimate", "Estimate", "Estimate", "Estimate"},
		{"0500000US13999", "Test County, Georgia", "100", "10", "0", "0", "0", "0"},
		{"0500000US13001", "Other County, Georgia", "200", "20", "10", "5", "5", "0"},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.WriteAll(rows))
	require.NoError(t, store.WriteBytes(context.Background(), paths.BronzeHousing(), buf.Bytes()))
}

func writeBronzeSchool(t *testing.T, store storage.Store, paths config.LakePaths) {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"schoolid", "schoolname", "systemid", "systemname", "single_score_23"},
		{"101", "Test Elementary", "9", "Test County", 70.0},
		{"102", "Other Middle", "12", "Nowhere District", 90.0},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, store.WriteBytes(context.Background(), paths.BronzeSchool(), buf.Bytes()))
}

func writeBronzeSpecialEd(t *testing.T, store storage.Store, paths config.LakePaths) {
	t.Helper()

	// The blank spacer row carries two empty fields so it round-trips as
	// ",": encoding/csv drops fully empty lines on read.
	rows := [][]string{
		{"IDEA Section 618 Data Products"},
		{"Educational Environments"},
		{"", ""},
		{"Extracted 2024"},
		{"School Year", "State LEA ID", "LEA Name", "School Age All Educational Environments", "School Age Inside regular class 80% or more of the day"},
		{"2022-23", "9", "Test County", "10", "8"},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.WriteAll(rows))
	require.NoError(t, store.WriteBytes(context.Background(), paths.BronzeSpecialEd(), buf.Bytes()))
}

func readTable(t *testing.T, store storage.Store, path string) [][]string {
	t.Helper()

	data, err := store.ReadBytes(context.Background(), path)
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	return rows
}

type recordingNotifier struct {
	mu      sync.Mutex
	updates []ProgressUpdate
}

func (n *recordingNotifier) PublishProgress(update ProgressUpdate) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, update)
}

func (n *recordingNotifier) stages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	stages := make([]string, 0, len(n.updates))
	for _, u := range n.updates {
		stages = append(stages, u.Stage+":"+u.Status)
	}
	return stages
}

func TestRunEndToEnd(t *testing.T) {
	store := storage.NewLocalStore(t.TempDir(), "", testLogger())
	paths := config.NewLakePaths(testIngestDate)

	writeBronzeHousing(t, store, paths)
	writeBronzeSchool(t, store, paths)
	writeBronzeSpecialEd(t, store, paths)

	notifier := &recordingNotifier{}
	svc := NewService(store, testLogger(), notifier, nil, nil)

	summary, err := svc.Run(context.Background(), testIngestDate)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, testIngestDate, summary.IngestDate)

	// Silver shapes: sentinel row dropped from housing, both schools kept,
	// one special-education LEA.
	assert.Equal(t, 2, summary.Silver[DatasetHousing].Rows)
	assert.Equal(t, 9, summary.Silver[DatasetHousing].Columns)
	assert.Equal(t, 2, summary.Silver[DatasetSchool].Rows)
	assert.Equal(t, 1, summary.Silver[DatasetSpecialEd].Rows)
	assert.Equal(t, 5, summary.Silver[DatasetSpecialEd].Columns)
	assert.Equal(t, paths.SilverHousing(), summary.Silver[DatasetHousing].OutputPath)

	// Gold: only the Test County LEA matches a housing county.
	require.Equal(t, 1, summary.Gold[DatasetCountyJoined].Rows)
	assert.Equal(t, 17, summary.Gold[DatasetCountyJoined].Columns)

	rows := readTable(t, store, paths.GoldCountyJoined())
	require.Len(t, rows, 2)

	header := rows[0]
	row := rows[1]
	byName := make(map[string]string, len(header))
	for i, name := range header {
		byName[name] = row[i]
	}

	assert.Equal(t, "9", byName["lea_id"])
	assert.Equal(t, "Test County", byName["district_name"])
	assert.Equal(t, "test", byName["county"])
	assert.Equal(t, "70", byName["ccrpi_score_2023_mean"])
	assert.Equal(t, "1", byName["school_count"])
	assert.Equal(t, "10", byName["total_swd"])
	assert.Equal(t, "80", byName["pct_inclusive_80_plus"])
	assert.Equal(t, "2022-23", byName["school_year"])
	assert.Equal(t, "0500000US13999", byName["geo_id"])
	assert.Equal(t, "10", byName["total_cost_burden_30_plus_pct"])

	// Silver special education has exactly the five documented columns.
	specialRows := readTable(t, store, paths.SilverSpecialEd())
	assert.Equal(t, []string{"lea_id", "district_name", "total_swd", "pct_inclusive_80_plus", "school_year"}, specialRows[0])

	stages := notifier.stages()
	assert.Contains(t, stages, "transform:housing:completed")
	assert.Contains(t, stages, "silver:special_education:completed")
	assert.Contains(t, stages, "gold:county_joined:completed")
	assert.Equal(t, "run:completed", stages[len(stages)-1])
}

func TestRunMissingBronzeWritesNothing(t *testing.T) {
	baseDir := t.TempDir()
	store := storage.NewLocalStore(baseDir, "", testLogger())
	paths := config.NewLakePaths(testIngestDate)

	// School and special education present, housing missing.
	writeBronzeSchool(t, store, paths)
	writeBronzeSpecialEd(t, store, paths)

	svc := NewService(store, testLogger(), nil, nil, nil)

	_, err := svc.Run(context.Background(), testIngestDate)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeStorage))

	// A failed run leaves the partition untouched.
	_, statErr := os.Stat(filepath.Join(baseDir, "silver"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(baseDir, "gold"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunSchemaErrorAbortsBeforeSilver(t *testing.T) {
	baseDir := t.TempDir()
	store := storage.NewLocalStore(baseDir, "", testLogger())
	paths := config.NewLakePaths(testIngestDate)

	writeBronzeSchool(t, store, paths)
	writeBronzeSpecialEd(t, store, paths)

	// Housing bronze missing the GEO_ID column.
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.WriteAll([][]string{
		{"NAME", "S2503_C01_001E"},
		{"Test County, Georgia", "100"},
	}))
	require.NoError(t, store.WriteBytes(context.Background(), paths.BronzeHousing(), buf.Bytes()))

	svc := NewService(store, testLogger(), nil, nil, nil)

	_, err := svc.Run(context.Background(), testIngestDate)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeSchema))
	assert.True(t, strings.Contains(err.Error(), "GEO_ID"))

	_, statErr := os.Stat(filepath.Join(baseDir, "silver"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunTransformsInFixedOrder(t *testing.T) {
	// With every bronze file absent the housing dataset, which is processed
	// first, must be the one reported. Repeated to catch any reordering.
	for i := 0; i < 5; i++ {
		store := storage.NewLocalStore(t.TempDir(), "", testLogger())
		svc := NewService(store, testLogger(), nil, nil, nil)

		_, err := svc.Run(context.Background(), testIngestDate)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeStorage))
		assert.Contains(t, err.Error(), "bronze/housing_affordability")
	}
}

func TestRunFailureNotifiesListeners(t *testing.T) {
	store := storage.NewLocalStore(t.TempDir(), "", testLogger())

	notifier := &recordingNotifier{}
	svc := NewService(store, testLogger(), notifier, nil, nil)

	_, err := svc.Run(context.Background(), testIngestDate)
	require.Error(t, err)

	stages := notifier.stages()
	require.NotEmpty(t, stages)
	assert.Equal(t, "run:failed", stages[len(stages)-1])
}
