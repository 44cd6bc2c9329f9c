package config

import (
	"fmt"
)

// LakePaths resolves the logical lake paths for one pipeline run. Every path
// is relative; the byte store maps it onto a base directory or an object
// prefix. The bronze/silver/gold layout and filenames are fixed contracts
// tied to the source-file layouts.
type LakePaths struct {
	IngestDate string
}

// NewLakePaths returns the path set for the given ingest date partition.
func NewLakePaths(ingestDate string) LakePaths {
	return LakePaths{IngestDate: ingestDate}
}

// BronzeHousing is the raw ACS housing cost-burden CSV.
func (p LakePaths) BronzeHousing() string {
	return fmt.Sprintf("bronze/housing_affordability/ingest_date=%s/housing2019-23.csv", p.IngestDate)
}

// BronzeSchool is the raw school performance workbook.
func (p LakePaths) BronzeSchool() string {
	return fmt.Sprintf("bronze/school_performance/ingest_date=%s/school_performance.xlsx", p.IngestDate)
}

// BronzeSpecialEd is the raw IDEA educational-environments CSV.
func (p LakePaths) BronzeSpecialEd() string {
	return fmt.Sprintf("bronze/special_education/ingest_date=%s/special_education2022-23.csv", p.IngestDate)
}

// SilverHousing is the cleaned housing table.
func (p LakePaths) SilverHousing() string {
	return fmt.Sprintf("silver/housing_affordability/ingest_date=%s/housing2019-23.csv", p.IngestDate)
}

// SilverSchool is the cleaned school table.
func (p LakePaths) SilverSchool() string {
	return fmt.Sprintf("silver/school_performance/ingest_date=%s/school_performance2023.csv", p.IngestDate)
}

// SilverSpecialEd is the cleaned special-education table.
func (p LakePaths) SilverSpecialEd() string {
	return fmt.Sprintf("silver/special_education/ingest_date=%s/special_education2022-23.csv", p.IngestDate)
}

// GoldCountyJoined is the county-joined analytical table.
func (p LakePaths) GoldCountyJoined() string {
	return fmt.Sprintf("gold/county_analysis/ingest_date=%s/county_joined.csv", p.IngestDate)
}
