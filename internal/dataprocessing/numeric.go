package dataprocessing

import (
	"math"
	"strconv"
	"strings"
)

// trimCell strips surrounding whitespace, including the non-breaking spaces
// that survey exports sometimes carry.
func trimCell(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == ' '
	})
}

// parseNullableFloat coerces a raw cell to a float. Empty cells, annotations
// like "(X)" or "N", thousands separators that leave garbage behind, and
// non-finite values all coerce to null rather than failing the row.
func parseNullableFloat(raw string) *float64 {
	s := strings.ReplaceAll(trimCell(raw), ",", "")
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return &v
}

// ratioPct computes 100 * numerator / denominator. A null numerator, a null
// denominator, or a zero denominator yields null; never a division error, an
// infinity, or a NaN that could leak into downstream joins.
func ratioPct(numerator, denominator *float64) *float64 {
	if numerator == nil || denominator == nil || *denominator == 0 {
		return nil
	}

	v := 100 * *numerator / *denominator
	return &v
}
