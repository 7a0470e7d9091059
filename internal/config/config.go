package config

import (
	"os"
	"strconv"
	"time"

	"github.com/docyard/docyard/internal/service"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	// DBDriver is "sqlite" or "postgres".
	DBDriver string
	// DBDSN is the sqlite file path or the postgres DSN.
	DBDSN string
	// RedisAddr enables the document cache when non-empty.
	RedisAddr string
	// KafkaBrokers enables the kafka event sink when non-empty.
	KafkaBrokers string
	KafkaTopic   string
	// ScanSchedule is the cron expression for the staleness scan.
	ScanSchedule string
	ScanPageSize int
	MaxHops      int
	// SnapshotCodec compresses archive snapshots: gzip, brotli, lz4 or nop.
	SnapshotCodec string

	Scoring service.Weights
}

// LoadConfig reads .env (if present) and the environment. Every field has a
// usable default so a bare `docyard` invocation works against local sqlite.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Debugf("no .env loaded: %v", err)
	}

	weights := service.DefaultWeights()
	weights.Usage = envFloat("DOCYARD_WEIGHT_USAGE", weights.Usage)
	weights.Age = envFloat("DOCYARD_WEIGHT_AGE", weights.Age)
	weights.Supersession = envFloat("DOCYARD_WEIGHT_SUPERSESSION", weights.Supersession)
	weights.Overlap = envFloat("DOCYARD_WEIGHT_OVERLAP", weights.Overlap)
	weights.StaleAfter = time.Duration(envInt("DOCYARD_STALE_AFTER_DAYS", int(weights.StaleAfter/(24*time.Hour)))) * 24 * time.Hour
	weights.LowAccessCeiling = int64(envInt("DOCYARD_LOW_ACCESS_CEILING", int(weights.LowAccessCeiling)))
	weights.MissedCyclesCeiling = envFloat("DOCYARD_MISSED_CYCLES_CEILING", weights.MissedCyclesCeiling)
	weights.BorderlineAt = envFloat("DOCYARD_BORDERLINE_AT", weights.BorderlineAt)
	weights.CandidateAt = envFloat("DOCYARD_CANDIDATE_AT", weights.CandidateAt)

	return Config{
		DBDriver:      envString("DOCYARD_DB_DRIVER", "sqlite"),
		DBDSN:         envString("DOCYARD_DB", "docyard.db"),
		RedisAddr:     envString("DOCYARD_REDIS_ADDR", ""),
		KafkaBrokers:  envString("DOCYARD_KAFKA_BROKERS", ""),
		KafkaTopic:    envString("DOCYARD_KAFKA_TOPIC", "docyard.lifecycle"),
		ScanSchedule:  envString("DOCYARD_SCAN_SCHEDULE", "0 0 2 * * *"),
		ScanPageSize:  envInt("DOCYARD_SCAN_PAGE_SIZE", service.DefaultScanPageSize),
		MaxHops:       envInt("DOCYARD_MAX_HOPS", service.DefaultMaxHops),
		SnapshotCodec: envString("DOCYARD_SNAPSHOT_CODEC", "gzip"),
		Scoring:       weights,
	}
}

// GetDb opens the configured database.
func GetDb(cfg Config) *gorm.DB {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	default:
		dialector = sqlite.Open(cfg.DBDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to open database: %v", err)
	}

	return db
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logrus.Warnf("invalid %s=%q, using %g", key, v, fallback)
		return fallback
	}
	return f
}
