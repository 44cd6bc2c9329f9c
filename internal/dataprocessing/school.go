package dataprocessing

import (
	"edulake/internal/errors"
	"edulake/pkg/contracts/domain"
)

// Source headers of the school performance workbook (header row first).
const (
	schoolColID       = "schoolid"
	schoolColName     = "schoolname"
	schoolColSystemID = "systemid"
	schoolColSystem   = "systemname"
	schoolColScore    = "single_score_23"
)

// NormalizeSchool cleans the raw school rows into one SchoolRecord per
// school. Only the CCRPI score is coerced; the identifiers stay as trimmed
// strings because LEA ids join by exact string match.
func NormalizeSchool(rows [][]string) ([]domain.SchoolRecord, error) {
	if len(rows) == 0 {
		return nil, errors.NewSchemaError("school", schoolColID)
	}

	idx := headerIndex(rows[0])
	if err := requireColumns("school", idx,
		schoolColID,
		schoolColName,
		schoolColSystemID,
		schoolColSystem,
		schoolColScore,
	); err != nil {
		return nil, err
	}

	records := make([]domain.SchoolRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, domain.SchoolRecord{
			SchoolID:       cell(row, idx[schoolColID]),
			SchoolName:     cell(row, idx[schoolColName]),
			LEAID:          cell(row, idx[schoolColSystemID]),
			DistrictName:   cell(row, idx[schoolColSystem]),
			CCRPIScore2023: parseNullableFloat(cell(row, idx[schoolColScore])),
		})
	}

	return records, nil
}
