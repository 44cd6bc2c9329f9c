package dataprocessing

import (
	"edulake/internal/errors"
	"edulake/pkg/contracts/domain"
)

// Source headers of the ACS S2503 housing cost-burden extract. The S2503
// codes are the cost-burdened (30%+) household counts per income tier.
const (
	housingColGeoID       = "GEO_ID"
	housingColName        = "NAME"
	housingColOccupied    = "S2503_C01_001E"
	housingColIncLT20k    = "S2503_C01_028E"
	housingColInc20k34999 = "S2503_C01_032E"
	housingColInc35k49999 = "S2503_C01_036E"
	housingColInc50k74999 = "S2503_C01_040E"
	housingColInc75kPlus  = "S2503_C01_044E"
)

// housingSentinel marks the ACS metadata row that echoes the human-readable
// header; it must never reach the cleaned output.
const housingSentinel = "Geography"

// NormalizeHousing cleans the raw housing rows (header row first) into one
// HousingRecord per county, computing the combined 30%+ cost-burden share.
func NormalizeHousing(rows [][]string) ([]domain.HousingRecord, error) {
	if len(rows) == 0 {
		return nil, errors.NewSchemaError("housing", housingColGeoID)
	}

	idx := headerIndex(rows[0])
	if err := requireColumns("housing", idx,
		housingColGeoID,
		housingColName,
		housingColOccupied,
		housingColIncLT20k,
		housingColInc20k34999,
		housingColInc35k49999,
		housingColInc50k74999,
		housingColInc75kPlus,
	); err != nil {
		return nil, err
	}

	records := make([]domain.HousingRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		geoID := cell(row, idx[housingColGeoID])
		if geoID == housingSentinel {
			continue
		}

		rec := domain.HousingRecord{
			GeoID:                       geoID,
			CountyName:                  cell(row, idx[housingColName]),
			OccupiedHousingUnits:        parseNullableFloat(cell(row, idx[housingColOccupied])),
			IncLT20kCostBurden30Plus:    parseNullableFloat(cell(row, idx[housingColIncLT20k])),
			Inc20k34999CostBurden30Plus: parseNullableFloat(cell(row, idx[housingColInc20k34999])),
			Inc35k49999CostBurden30Plus: parseNullableFloat(cell(row, idx[housingColInc35k49999])),
			Inc50k74999CostBurden30Plus: parseNullableFloat(cell(row, idx[housingColInc50k74999])),
			Inc75kPlusCostBurden30Plus:  parseNullableFloat(cell(row, idx[housingColInc75kPlus])),
		}

		// Null tier counts contribute 0 to the numerator; a null or zero
		// denominator makes the whole percentage null.
		burden := sumOrZero(
			rec.IncLT20kCostBurden30Plus,
			rec.Inc20k34999CostBurden30Plus,
			rec.Inc35k49999CostBurden30Plus,
			rec.Inc50k74999CostBurden30Plus,
			rec.Inc75kPlusCostBurden30Plus,
		)
		rec.TotalCostBurden30PlusPct = ratioPct(&burden, rec.OccupiedHousingUnits)

		records = append(records, rec)
	}

	return records, nil
}

func sumOrZero(values ...*float64) float64 {
	var total float64
	for _, v := range values {
		if v != nil {
			total += *v
		}
	}
	return total
}
