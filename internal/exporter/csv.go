// Package exporter renders the cleaned record types into CSV bytes for the
// byte store. Output carries a UTF-8 BOM so the files open cleanly in Excel.
package exporter

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"edulake/internal/errors"
	"edulake/pkg/contracts/domain"
)

// Table is an encodable tabular view of a record slice.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Encode renders the table as CSV bytes with a UTF-8 BOM prefix.
func (t Table) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(&buf)
	if err := writer.Write(t.Headers); err != nil {
		return nil, errors.NewStorageError("failed to write CSV header row", err)
	}
	for i, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return nil, errors.NewStorageError("failed to write CSV row "+strconv.Itoa(i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, errors.NewStorageError("failed to flush CSV output", err)
	}

	return buf.Bytes(), nil
}

// HousingTable renders the cleaned housing table.
func HousingTable(records []domain.HousingRecord) Table {
	t := Table{
		Headers: []string{
			"geo_id",
			"county_name",
			"occupied_housing_units",
			"inc_lt_20k_cost_burden_30_plus",
			"inc_20k_34_999_cost_burden_30_plus",
			"inc_35k_49_999_cost_burden_30_plus",
			"inc_50k_74_999_cost_burden_30_plus",
			"inc_75k_plus_cost_burden_30_plus",
			"total_cost_burden_30_plus_pct",
		},
	}

	for _, rec := range records {
		t.Rows = append(t.Rows, []string{
			rec.GeoID,
			rec.CountyName,
			formatFloat(rec.OccupiedHousingUnits),
			formatFloat(rec.IncLT20kCostBurden30Plus),
			formatFloat(rec.Inc20k34999CostBurden30Plus),
			formatFloat(rec.Inc35k49999CostBurden30Plus),
			formatFloat(rec.Inc50k74999CostBurden30Plus),
			formatFloat(rec.Inc75kPlusCostBurden30Plus),
			formatFloat(rec.TotalCostBurden30PlusPct),
		})
	}

	return t
}

// SchoolTable renders the cleaned school table.
func SchoolTable(records []domain.SchoolRecord) Table {
	t := Table{
		Headers: []string{"school_id", "school_name", "lea_id", "district_name", "ccrpi_score_2023"},
	}

	for _, rec := range records {
		t.Rows = append(t.Rows, []string{
			rec.SchoolID,
			rec.SchoolName,
			rec.LEAID,
			rec.DistrictName,
			formatFloat(rec.CCRPIScore2023),
		})
	}

	return t
}

// SpecialEdTable renders the cleaned special-education table. Exactly these
// five columns, in this order; the raw inclusive count stays internal.
func SpecialEdTable(records []domain.SpecialEdRecord) Table {
	t := Table{
		Headers: []string{"lea_id", "district_name", "total_swd", "pct_inclusive_80_plus", "school_year"},
	}

	for _, rec := range records {
		t.Rows = append(t.Rows, []string{
			rec.LEAID,
			rec.DistrictName,
			formatFloat(rec.TotalSWD),
			formatFloat(rec.PctInclusive80Plus),
			rec.SchoolYear,
		})
	}

	return t
}

// GoldTable renders the county-joined gold table.
func GoldTable(records []domain.GoldRecord) Table {
	t := Table{
		Headers: []string{
			"lea_id",
			"district_name",
			"county",
			"ccrpi_score_2023_mean",
			"school_count",
			"total_swd",
			"pct_inclusive_80_plus",
			"school_year",
			"geo_id",
			"county_name",
			"occupied_housing_units",
			"inc_lt_20k_cost_burden_30_plus",
			"inc_20k_34_999_cost_burden_30_plus",
			"inc_35k_49_999_cost_burden_30_plus",
			"inc_50k_74_999_cost_burden_30_plus",
			"inc_75k_plus_cost_burden_30_plus",
			"total_cost_burden_30_plus_pct",
		},
	}

	for _, rec := range records {
		t.Rows = append(t.Rows, []string{
			rec.LEAID,
			rec.DistrictName,
			rec.County,
			formatFloat(rec.CCRPIScore2023Mean),
			strconv.Itoa(rec.SchoolCount),
			formatFloat(rec.TotalSWD),
			formatFloat(rec.PctInclusive80Plus),
			rec.SchoolYear,
			rec.GeoID,
			rec.CountyName,
			formatFloat(rec.OccupiedHousingUnits),
			formatFloat(rec.IncLT20kCostBurden30Plus),
			formatFloat(rec.Inc20k34999CostBurden30Plus),
			formatFloat(rec.Inc35k49999CostBurden30Plus),
			formatFloat(rec.Inc50k74999CostBurden30Plus),
			formatFloat(rec.Inc75kPlusCostBurden30Plus),
			formatFloat(rec.TotalCostBurden30PlusPct),
		})
	}

	return t
}

// formatFloat renders a nullable float, keeping null as an empty cell.
func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
