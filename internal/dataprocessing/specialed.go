package dataprocessing

import (
	"edulake/internal/errors"
	"edulake/pkg/contracts/domain"
)

// The IDEA educational-environments extract carries four metadata rows above
// the real header; the header lives at this fixed row index.
const specialEdHeaderRow = 4

// Source headers. The two environment counts keep their long descriptive
// names in the source and feed the inclusion percentage.
const (
	specialEdColLEAID     = "State LEA ID"
	specialEdColLEAName   = "LEA Name"
	specialEdColTotalSWD  = "School Age All Educational Environments"
	specialEdColInclusive = "School Age Inside regular class 80% or more of the day"
	specialEdColYear      = "School Year"
)

// NormalizeSpecialEd cleans the raw special-education rows into one
// SpecialEdRecord per LEA. Exactly specialEdHeaderRow leading rows are
// skipped before the header; anything fewer is a schema error.
func NormalizeSpecialEd(rows [][]string) ([]domain.SpecialEdRecord, error) {
	if len(rows) <= specialEdHeaderRow {
		return nil, errors.NewSchemaError("special_education", specialEdColLEAID)
	}

	idx := headerIndex(rows[specialEdHeaderRow])
	if err := requireColumns("special_education", idx,
		specialEdColLEAID,
		specialEdColLEAName,
		specialEdColTotalSWD,
		specialEdColInclusive,
		specialEdColYear,
	); err != nil {
		return nil, err
	}

	records := make([]domain.SpecialEdRecord, 0, len(rows)-specialEdHeaderRow-1)
	for _, row := range rows[specialEdHeaderRow+1:] {
		rec := domain.SpecialEdRecord{
			LEAID:                cell(row, idx[specialEdColLEAID]),
			DistrictName:         cell(row, idx[specialEdColLEAName]),
			TotalSWD:             parseNullableFloat(cell(row, idx[specialEdColTotalSWD])),
			Inclusive80PlusCount: parseNullableFloat(cell(row, idx[specialEdColInclusive])),
			SchoolYear:           cell(row, idx[specialEdColYear]),
		}
		rec.PctInclusive80Plus = ratioPct(rec.Inclusive80PlusCount, rec.TotalSWD)

		records = append(records, rec)
	}

	return records, nil
}
