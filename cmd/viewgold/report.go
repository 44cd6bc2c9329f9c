package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"edulake/internal/app"
	"edulake/internal/config"
	"edulake/internal/errors"
)

const sampleSize = 10

// goldRow is one gold record with the three ranking metrics pre-parsed.
// Cells keeps the raw strings for display.
type goldRow struct {
	county       string
	costBurden   *float64
	ccrpiMean    *float64
	pctInclusive *float64
	cells        []string
}

// report is the parsed gold table plus the standout rows per metric.
type report struct {
	path    string
	headers []string
	rows    []goldRow
}

func run(ctx context.Context, application *app.Application) error {
	paths := config.NewLakePaths(application.Config.ResolveIngestDate())

	data, err := application.Store.ReadBytes(ctx, paths.GoldCountyJoined())
	if err != nil {
		return err
	}

	rep, err := buildReport(paths.GoldCountyJoined(), data)
	if err != nil {
		return err
	}

	rep.print(os.Stdout)
	return nil
}

// buildReport parses gold CSV bytes into a report.
func buildReport(path string, data []byte) (*report, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to decode gold table", err)
	}
	if len(records) == 0 {
		return nil, errors.NewParsingError("gold table is empty", nil)
	}

	headers := records[0]
	col := make(map[string]int, len(headers))
	for i, name := range headers {
		col[name] = i
	}
	for _, name := range []string{"county", "total_cost_burden_30_plus_pct", "ccrpi_score_2023_mean", "pct_inclusive_80_plus"} {
		if _, ok := col[name]; !ok {
			return nil, errors.NewSchemaError("gold", name)
		}
	}

	rows := make([]goldRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, goldRow{
			county:       cellAt(record, col["county"]),
			costBurden:   parseCell(record, col["total_cost_burden_30_plus_pct"]),
			ccrpiMean:    parseCell(record, col["ccrpi_score_2023_mean"]),
			pctInclusive: parseCell(record, col["pct_inclusive_80_plus"]),
			cells:        record,
		})
	}

	return &report{path: path, headers: headers, rows: rows}, nil
}

func cellAt(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

func parseCell(record []string, i int) *float64 {
	s := cellAt(record, i)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// mostAffordable returns the row with the lowest non-null cost-burden share.
func (r *report) mostAffordable() *goldRow {
	return r.best(func(row *goldRow) *float64 { return row.costBurden }, false)
}

// bestSchools returns the row with the highest non-null mean CCRPI score.
func (r *report) bestSchools() *goldRow {
	return r.best(func(row *goldRow) *float64 { return row.ccrpiMean }, true)
}

// mostInclusive returns the row with the highest non-null inclusion share.
func (r *report) mostInclusive() *goldRow {
	return r.best(func(row *goldRow) *float64 { return row.pctInclusive }, true)
}

func (r *report) best(metric func(*goldRow) *float64, descending bool) *goldRow {
	var winner *goldRow
	for i := range r.rows {
		row := &r.rows[i]
		v := metric(row)
		if v == nil {
			continue
		}
		if winner == nil {
			winner = row
			continue
		}
		w := *metric(winner)
		if (descending && *v > w) || (!descending && *v < w) {
			winner = row
		}
	}
	return winner
}

// overallBest returns the row with the lowest rank sum across affordability
// (ascending), CCRPI mean (descending) and inclusion (descending), together
// with that sum. Null metrics rank last.
func (r *report) overallBest() (*goldRow, int) {
	if len(r.rows) == 0 {
		return nil, 0
	}

	affordable := r.ranks(func(row *goldRow) *float64 { return row.costBurden }, false)
	ccrpi := r.ranks(func(row *goldRow) *float64 { return row.ccrpiMean }, true)
	inclusive := r.ranks(func(row *goldRow) *float64 { return row.pctInclusive }, true)

	winner := 0
	winnerSum := affordable[0] + ccrpi[0] + inclusive[0]
	for i := 1; i < len(r.rows); i++ {
		sum := affordable[i] + ccrpi[i] + inclusive[i]
		if sum < winnerSum {
			winner = i
			winnerSum = sum
		}
	}

	return &r.rows[winner], winnerSum
}

// ranks computes a standard competition rank per row: 1 plus the number of
// rows with a strictly better metric. Null metrics rank after every non-null
// one.
func (r *report) ranks(metric func(*goldRow) *float64, descending bool) []int {
	nonNull := 0
	for i := range r.rows {
		if metric(&r.rows[i]) != nil {
			nonNull++
		}
	}

	ranks := make([]int, len(r.rows))
	for i := range r.rows {
		v := metric(&r.rows[i])
		if v == nil {
			ranks[i] = nonNull + 1
			continue
		}

		better := 0
		for j := range r.rows {
			w := metric(&r.rows[j])
			if w == nil {
				continue
			}
			if (descending && *w > *v) || (!descending && *w < *v) {
				better++
			}
		}
		ranks[i] = better + 1
	}

	return ranks
}

func (r *report) print(w io.Writer) {
	fmt.Fprintf(w, "Gold table: %s\n", r.path)

	fmt.Fprintln(w, "\n--- Schema ---")
	for _, name := range r.headers {
		fmt.Fprintln(w, name)
	}

	fmt.Fprintf(w, "\n--- Sample (first %d rows) ---\n", sampleSize)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	printTabRow(tw, r.headers)
	for i, row := range r.rows {
		if i == sampleSize {
			break
		}
		printTabRow(tw, row.cells)
	}
	tw.Flush()

	printWinner(w, "Most affordable place to live (lowest cost burden %)", r.mostAffordable(), func(row *goldRow) string {
		return fmt.Sprintf("%s: %s", row.county, formatMetric(row.costBurden))
	})
	printWinner(w, "Best performing schools (highest mean CCRPI)", r.bestSchools(), func(row *goldRow) string {
		return fmt.Sprintf("%s: %s", row.county, formatMetric(row.ccrpiMean))
	})
	printWinner(w, "Most inclusive special ed (highest % inclusive 80%+)", r.mostInclusive(), func(row *goldRow) string {
		return fmt.Sprintf("%s: %s", row.county, formatMetric(row.pctInclusive))
	})

	if row, sum := r.overallBest(); row != nil {
		fmt.Fprintln(w, "\n--- Overall best (rank-sum across affordability + CCRPI + inclusion) ---")
		fmt.Fprintf(w, "%s: rank sum %d (cost burden %s, CCRPI %s, inclusion %s)\n",
			row.county, sum,
			formatMetric(row.costBurden),
			formatMetric(row.ccrpiMean),
			formatMetric(row.pctInclusive))
	}
}

func printWinner(w io.Writer, title string, row *goldRow, format func(*goldRow) string) {
	fmt.Fprintf(w, "\n--- %s ---\n", title)
	if row == nil {
		fmt.Fprintln(w, "no rows with this metric")
		return
	}
	fmt.Fprintln(w, format(row))
}

func printTabRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, cell)
	}
	fmt.Fprintln(w)
}

func formatMetric(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
