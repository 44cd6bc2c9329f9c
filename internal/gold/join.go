// Package gold builds the county-joined analytical table from the three
// cleaned silver tables: schools are rolled up to LEA granularity, special
// education joins by LEA id, and housing joins by normalized county key.
package gold

import (
	"log/slog"
	"sort"
	"strings"

	"edulake/internal/geo"
	"edulake/pkg/contracts/domain"
)

type leaKey struct {
	leaID        string
	districtName string
	county       string
}

type leaGroup struct {
	scoreSum   float64
	scoreCount int
	schoolIDs  map[string]struct{}
}

// AggregateSchools rolls school records up to (lea_id, district_name, county)
// granularity. The county key is derived from the district name. The score
// mean ignores null scores and is null only when every score in the group is
// null; school_count is the number of distinct school ids in the group. Rows
// with a null LEA id cannot be grouped and are excluded.
func AggregateSchools(records []domain.SchoolRecord) []domain.LEAAggregate {
	groups := make(map[leaKey]*leaGroup)
	order := make([]leaKey, 0)

	for _, rec := range records {
		leaID := strings.TrimSpace(rec.LEAID)
		if leaID == "" {
			continue
		}

		key := leaKey{
			leaID:        leaID,
			districtName: rec.DistrictName,
			county:       geo.NormalizeCounty(rec.DistrictName),
		}

		group, ok := groups[key]
		if !ok {
			group = &leaGroup{schoolIDs: make(map[string]struct{})}
			groups[key] = group
			order = append(order, key)
		}

		if rec.CCRPIScore2023 != nil {
			group.scoreSum += *rec.CCRPIScore2023
			group.scoreCount++
		}
		group.schoolIDs[rec.SchoolID] = struct{}{}
	}

	aggregates := make([]domain.LEAAggregate, 0, len(order))
	for _, key := range order {
		group := groups[key]

		agg := domain.LEAAggregate{
			LEAID:        key.leaID,
			DistrictName: key.districtName,
			County:       key.county,
			SchoolCount:  len(group.schoolIDs),
		}
		if group.scoreCount > 0 {
			agg.CCRPIScore2023Mean = domain.Float(group.scoreSum / float64(group.scoreCount))
		}

		aggregates = append(aggregates, agg)
	}

	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].LEAID < aggregates[j].LEAID
	})

	return aggregates
}

// Build produces the gold table. Every LEA aggregate survives the special
// education left join; only aggregates whose county key matches a housing
// county survive the final inner join.
func Build(housing []domain.HousingRecord, school []domain.SchoolRecord, special []domain.SpecialEdRecord, logger *slog.Logger) []domain.GoldRecord {
	if logger == nil {
		logger = slog.Default()
	}

	aggregates := AggregateSchools(school)

	// Special education indexed by trimmed LEA id, first occurrence wins.
	specialByLEA := make(map[string]domain.SpecialEdRecord, len(special))
	for _, rec := range special {
		leaID := strings.TrimSpace(rec.LEAID)
		if leaID == "" {
			continue
		}
		if _, exists := specialByLEA[leaID]; !exists {
			specialByLEA[leaID] = rec
		}
	}

	// One housing row per county key. Housing is already county level, so
	// this is a safety de-duplication keeping the first occurrence.
	housingByCounty := make(map[string]domain.HousingRecord, len(housing))
	for _, rec := range housing {
		county := geo.NormalizeCounty(rec.CountyName)
		if county == "" {
			continue
		}
		if _, exists := housingByCounty[county]; !exists {
			housingByCounty[county] = rec
		}
	}

	records := make([]domain.GoldRecord, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg.County == "" {
			continue
		}
		housingRec, ok := housingByCounty[agg.County]
		if !ok {
			continue
		}

		rec := domain.GoldRecord{
			LEAID:              agg.LEAID,
			DistrictName:       agg.DistrictName,
			County:             agg.County,
			CCRPIScore2023Mean: agg.CCRPIScore2023Mean,
			SchoolCount:        agg.SchoolCount,

			GeoID:                       housingRec.GeoID,
			CountyName:                  housingRec.CountyName,
			OccupiedHousingUnits:        housingRec.OccupiedHousingUnits,
			IncLT20kCostBurden30Plus:    housingRec.IncLT20kCostBurden30Plus,
			Inc20k34999CostBurden30Plus: housingRec.Inc20k34999CostBurden30Plus,
			Inc35k49999CostBurden30Plus: housingRec.Inc35k49999CostBurden30Plus,
			Inc50k74999CostBurden30Plus: housingRec.Inc50k74999CostBurden30Plus,
			Inc75kPlusCostBurden30Plus:  housingRec.Inc75kPlusCostBurden30Plus,
			TotalCostBurden30PlusPct:    housingRec.TotalCostBurden30PlusPct,
		}

		if specialRec, ok := specialByLEA[agg.LEAID]; ok {
			rec.TotalSWD = specialRec.TotalSWD
			rec.PctInclusive80Plus = specialRec.PctInclusive80Plus
			rec.SchoolYear = specialRec.SchoolYear
		}

		records = append(records, rec)
	}

	logger.Debug("built gold table",
		slog.Int("lea_aggregates", len(aggregates)),
		slog.Int("housing_counties", len(housingByCounty)),
		slog.Int("gold_rows", len(records)))

	return records
}
