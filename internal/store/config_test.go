package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), cfg.Start())
	assert.Equal(t, time.Date(2020, 6, 5, 0, 0, 0, 0, time.UTC), cfg.End())
	assert.Equal(t, 100000.0, cfg.Cash)
	assert.Equal(t, "BITFINEX", cfg.Brokerage)
	assert.Equal(t, "CASH", cfg.AccountType)
	assert.Equal(t, "DAILY", cfg.Resolution)
	assert.Equal(t, "STATIC", cfg.DataSource)
	assert.Equal(t, 2, cfg.History.Days)
	assert.Equal(t, 100, cfg.History.MinRecords)
	assert.Equal(t, "logs", cfg.LogDir)
}

func TestParse_ZeroMeansDefault(t *testing.T) {
	cfg, err := Parse([]byte("history:\n  days: 0\n  min_records: 0\nstatic:\n  records_per_day: 0\n"))
	require.NoError(t, err)

	assert.False(t, cfg.History.Skip)
	assert.Equal(t, 2, cfg.History.Days)
	assert.Equal(t, 100, cfg.History.MinRecords)
	assert.Equal(t, 150, cfg.Static.RecordsPerDay)

	cfg, err = Parse([]byte("history:\n  skip: true\n  days: 0\n"))
	require.NoError(t, err)
	assert.True(t, cfg.History.Skip)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad start":        `start_date: "June 1"`,
		"end before start": "start_date: \"2020-06-05\"\nend_date: \"2020-06-01\"",
		"negative cash":    "cash: -5",
		"other brokerage":  "brokerage: BINANCE",
		"account type":     "account_type: FUTURES",
		"resolution":       "resolution: MINUTE",
		"csv without dir":  "data_source: CSV",
		"unknown source":   "data_source: REDIS",
		"negative history": "history:\n  days: -1",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("UNIVERSE_DATA_DIR", "")
			_, err := Parse([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("data_source: CSV\nlog_dir: from-file\n"), 0o644))
	t.Setenv("UNIVERSE_DATA_DIR", "/data/universes")
	t.Setenv("UNIVERSE_LOG_DIR", "/var/log/universe")

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "/data/universes", cfg.DataDir)
	assert.Equal(t, "/var/log/universe", cfg.LogDir)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.Start().IsZero())
	assert.Equal(t, 150, cfg.Static.RecordsPerDay)
}
