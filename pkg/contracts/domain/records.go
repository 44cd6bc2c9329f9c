package domain

// HousingRecord is one cleaned row of the ACS housing cost-burden extract,
// one per county. Numeric fields are pointers so a cell that failed numeric
// coercion stays null instead of turning into a zero.
type HousingRecord struct {
	GeoID      string `json:"geo_id"`
	CountyName string `json:"county_name"`

	OccupiedHousingUnits *float64 `json:"occupied_housing_units"`

	// Cost-burdened (30%+ of income) household counts by income tier.
	IncLT20kCostBurden30Plus    *float64 `json:"inc_lt_20k_cost_burden_30_plus"`
	Inc20k34999CostBurden30Plus *float64 `json:"inc_20k_34_999_cost_burden_30_plus"`
	Inc35k49999CostBurden30Plus *float64 `json:"inc_35k_49_999_cost_burden_30_plus"`
	Inc50k74999CostBurden30Plus *float64 `json:"inc_50k_74_999_cost_burden_30_plus"`
	Inc75kPlusCostBurden30Plus  *float64 `json:"inc_75k_plus_cost_burden_30_plus"`

	// Derived: 100 * sum(tiers, null as 0) / occupied units. Null when the
	// denominator is null or zero.
	TotalCostBurden30PlusPct *float64 `json:"total_cost_burden_30_plus_pct"`
}

// SchoolRecord is one cleaned row of the school performance workbook,
// one per school.
type SchoolRecord struct {
	SchoolID       string   `json:"school_id"`
	SchoolName     string   `json:"school_name"`
	LEAID          string   `json:"lea_id"`
	DistrictName   string   `json:"district_name"`
	CCRPIScore2023 *float64 `json:"ccrpi_score_2023"`
}

// SpecialEdRecord is one cleaned row of the IDEA educational-environments
// extract, one per LEA. Inclusive80PlusCount feeds the derived percentage but
// is not part of the persisted silver table.
type SpecialEdRecord struct {
	LEAID        string   `json:"lea_id"`
	DistrictName string   `json:"district_name"`
	TotalSWD     *float64 `json:"total_swd"`

	Inclusive80PlusCount *float64 `json:"-"`

	// Derived: 100 * inclusive count / total SWD, null-denominator rule as above.
	PctInclusive80Plus *float64 `json:"pct_inclusive_80_plus"`

	SchoolYear string `json:"school_year"`
}

// LEAAggregate is the school table rolled up to LEA granularity.
type LEAAggregate struct {
	LEAID        string `json:"lea_id"`
	DistrictName string `json:"district_name"`

	// County is the normalized join key derived from DistrictName; empty when
	// the district name does not normalize to a usable key.
	County string `json:"county"`

	CCRPIScore2023Mean *float64 `json:"ccrpi_score_2023_mean"`
	SchoolCount        int      `json:"school_count"`
}

// GoldRecord is one row of the county-joined analytical table: an LEA
// aggregate with its special-education figures and the housing profile of the
// county it sits in. Special-education fields are null when no LEA match
// exists; a GoldRecord only exists when the county matched a housing row.
type GoldRecord struct {
	LEAID              string   `json:"lea_id"`
	DistrictName       string   `json:"district_name"`
	County             string   `json:"county"`
	CCRPIScore2023Mean *float64 `json:"ccrpi_score_2023_mean"`
	SchoolCount        int      `json:"school_count"`

	TotalSWD           *float64 `json:"total_swd"`
	PctInclusive80Plus *float64 `json:"pct_inclusive_80_plus"`
	SchoolYear         string   `json:"school_year"`

	GeoID                       string   `json:"geo_id"`
	CountyName                  string   `json:"county_name"`
	OccupiedHousingUnits        *float64 `json:"occupied_housing_units"`
	IncLT20kCostBurden30Plus    *float64 `json:"inc_lt_20k_cost_burden_30_plus"`
	Inc20k34999CostBurden30Plus *float64 `json:"inc_20k_34_999_cost_burden_30_plus"`
	Inc35k49999CostBurden30Plus *float64 `json:"inc_35k_49_999_cost_burden_30_plus"`
	Inc50k74999CostBurden30Plus *float64 `json:"inc_50k_74_999_cost_burden_30_plus"`
	Inc75kPlusCostBurden30Plus  *float64 `json:"inc_75k_plus_cost_burden_30_plus"`
	TotalCostBurden30PlusPct    *float64 `json:"total_cost_burden_30_plus_pct"`
}

// Float returns a pointer to v. Convenience for building records in tests and
// aggregations.
func Float(v float64) *float64 {
	return &v
}
