// Package dataprocessing turns raw bronze bytes into the cleaned silver
// record types. Decoding stops at "rows of strings"; the per-dataset
// normalizers own column selection, renaming, numeric coercion and derived
// metrics. A cell that fails numeric coercion becomes null and never aborts
// the run; a missing expected column is a fatal schema error.
package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"edulake/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeCSV parses CSV bytes into rows. Ragged rows are allowed; the
// normalizers treat missing trailing cells as empty.
func DecodeCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to decode CSV input", err)
	}

	return rows, nil
}

// DecodeWorkbook parses an Excel workbook and returns the rows of its first
// sheet.
func DecodeWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParsingError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheets[0]), err)
	}

	return rows, nil
}

// headerIndex maps trimmed header names to their column positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = trimCell(name)
		if _, exists := idx[name]; !exists {
			idx[name] = i
		}
	}
	return idx
}

// requireColumns checks that every expected column is present, returning a
// schema error naming the first missing one.
func requireColumns(dataset string, idx map[string]int, columns ...string) error {
	for _, column := range columns {
		if _, ok := idx[column]; !ok {
			return errors.NewSchemaError(dataset, column)
		}
	}
	return nil
}

// cell returns the trimmed value at column i, or "" when the row is too
// short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return trimCell(row[i])
}
