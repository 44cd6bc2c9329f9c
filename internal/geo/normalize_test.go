package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCounty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "housing style with state qualifier",
			raw:  "Fulton County, Georgia",
			want: "fulton",
		},
		{
			name: "upper case",
			raw:  "FULTON COUNTY, GEORGIA",
			want: "fulton",
		},
		{
			name: "bare name",
			raw:  "Fulton",
			want: "fulton",
		},
		{
			name: "county suffix only",
			raw:  "DeKalb County",
			want: "dekalb",
		},
		{
			name: "state qualifier only",
			raw:  "Chattahoochee, Georgia",
			want: "chattahoochee",
		},
		{
			name: "surrounding whitespace",
			raw:  "  Fulton County, Georgia  ",
			want: "fulton",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
		{
			name: "whitespace only",
			raw:  "   ",
			want: "",
		},
		{
			// The suffix strip needs preceding whitespace, so a bare
			// "County" is a name, not a suffix.
			name: "bare county is kept",
			raw:  "County",
			want: "county",
		},
		{
			name: "reduces to nothing",
			raw:  ", Georgia",
			want: "",
		},
		{
			name: "county not at end is kept",
			raw:  "Fulton County Board of Education",
			want: "fulton county board of education",
		},
		{
			name: "county must be a whole word",
			raw:  "Newcounty",
			want: "newcounty",
		},
		{
			name: "multi word county name",
			raw:  "Ben Hill County, Georgia",
			want: "ben hill",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCounty(tt.raw))
		})
	}
}

func TestNormalizeCountyIdempotent(t *testing.T) {
	inputs := []string{
		"Fulton County, Georgia",
		"DeKalb County",
		"Chattahoochee",
		"Ben Hill County",
		"Fulton County Schools",
	}

	for _, raw := range inputs {
		once := NormalizeCounty(raw)
		assert.Equal(t, once, NormalizeCounty(once), "normalize(normalize(%q))", raw)
	}
}

func TestNormalizeCountyCaseAndSuffixInsensitive(t *testing.T) {
	want := NormalizeCounty("Fulton")

	assert.Equal(t, want, NormalizeCounty("Fulton County, Georgia"))
	assert.Equal(t, want, NormalizeCounty("FULTON COUNTY, GEORGIA"))
	assert.Equal(t, want, NormalizeCounty("fulton county"))
}
