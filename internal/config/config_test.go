package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, StorageModeLocal, cfg.Storage.Mode)
	assert.Equal(t, "data", cfg.Storage.BaseDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Pipeline.IngestDate)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EDULAKE_STORAGE_MODE", "gcs")
	t.Setenv("EDULAKE_STORAGE_BUCKET", "county-lake")
	t.Setenv("EDULAKE_STORAGE_PREFIX", "lake")
	t.Setenv("EDULAKE_PIPELINE_INGEST_DATE", "2025-01-31")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageModeGCS, cfg.Storage.Mode)
	assert.Equal(t, "county-lake", cfg.Storage.Bucket)
	assert.Equal(t, "lake", cfg.Storage.Prefix)
	assert.Equal(t, "2025-01-31", cfg.Pipeline.IngestDate)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "gcs mode requires bucket",
			mutate:  func(c *Config) { c.Storage.Mode = StorageModeGCS },
			wantErr: "storage bucket is required",
		},
		{
			name:    "unknown storage mode",
			mutate:  func(c *Config) { c.Storage.Mode = "adls" },
			wantErr: "config validation failed",
		},
		{
			name:    "malformed ingest date",
			mutate:  func(c *Config) { c.Pipeline.IngestDate = "31/01/2025" },
			wantErr: "invalid ingest date",
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "config validation failed",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: "config validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolveIngestDate(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.IngestDate = "2024-11-03"
	assert.Equal(t, "2024-11-03", cfg.ResolveIngestDate())

	cfg.Pipeline.IngestDate = ""
	assert.Equal(t, time.Now().Format(IngestDateFormat), cfg.ResolveIngestDate())
}

func TestLakePaths(t *testing.T) {
	p := NewLakePaths("2025-01-31")

	assert.Equal(t, "bronze/housing_affordability/ingest_date=2025-01-31/housing2019-23.csv", p.BronzeHousing())
	assert.Equal(t, "bronze/school_performance/ingest_date=2025-01-31/school_performance.xlsx", p.BronzeSchool())
	assert.Equal(t, "bronze/special_education/ingest_date=2025-01-31/special_education2022-23.csv", p.BronzeSpecialEd())
	assert.Equal(t, "silver/housing_affordability/ingest_date=2025-01-31/housing2019-23.csv", p.SilverHousing())
	assert.Equal(t, "silver/school_performance/ingest_date=2025-01-31/school_performance2023.csv", p.SilverSchool())
	assert.Equal(t, "silver/special_education/ingest_date=2025-01-31/special_education2022-23.csv", p.SilverSpecialEd())
	assert.Equal(t, "gold/county_analysis/ingest_date=2025-01-31/county_joined.csv", p.GoldCountyJoined())
}
