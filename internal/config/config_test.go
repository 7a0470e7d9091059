package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "docyard.db", cfg.DBDSN)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 100, cfg.ScanPageSize)
	assert.Equal(t, 10, cfg.MaxHops)
	assert.Equal(t, "gzip", cfg.SnapshotCodec)
	assert.Equal(t, 90*24*time.Hour, cfg.Scoring.StaleAfter)
	assert.Equal(t, int64(5), cfg.Scoring.LowAccessCeiling)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DOCYARD_DB_DRIVER", "postgres")
	t.Setenv("DOCYARD_DB", "host=localhost user=docyard dbname=docyard")
	t.Setenv("DOCYARD_SCAN_PAGE_SIZE", "25")
	t.Setenv("DOCYARD_WEIGHT_USAGE", "0.6")
	t.Setenv("DOCYARD_STALE_AFTER_DAYS", "30")
	t.Setenv("DOCYARD_SNAPSHOT_CODEC", "lz4")

	cfg := LoadConfig()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 25, cfg.ScanPageSize)
	assert.Equal(t, 0.6, cfg.Scoring.Usage)
	assert.Equal(t, 30*24*time.Hour, cfg.Scoring.StaleAfter)
	assert.Equal(t, "lz4", cfg.SnapshotCodec)
}

func TestLoadConfigBadNumbersFallBack(t *testing.T) {
	t.Setenv("DOCYARD_SCAN_PAGE_SIZE", "lots")
	t.Setenv("DOCYARD_WEIGHT_USAGE", "heavy")

	cfg := LoadConfig()

	assert.Equal(t, 100, cfg.ScanPageSize)
	assert.Equal(t, 0.4, cfg.Scoring.Usage)
}
