package cmd

import (
	"github.com/docyard/docyard/internal/cache"
	"github.com/docyard/docyard/internal/compress"
	"github.com/docyard/docyard/internal/config"
	"github.com/docyard/docyard/internal/queue"
	"github.com/docyard/docyard/internal/service"
	"github.com/docyard/docyard/internal/store"
	"github.com/sirupsen/logrus"
)

// env wires the engine's services against the configured backends. The CLI
// embeds the engine directly; there is no daemon in between.
type env struct {
	cfg       config.Config
	sink      queue.Sink
	registry  *service.Registry
	scheduler *service.Scheduler
	usage     *service.UsageTracker
	graph     *service.Graph
	scanner   *service.Scanner
	archive   *service.ArchiveStore
}

func newEnv() *env {
	cfg := config.LoadConfig()
	s := store.NewGormStore(config.GetDb(cfg))

	var docCache cache.DocumentCache
	if cfg.RedisAddr != "" {
		docCache = cache.NewRedisDocumentCache(cfg.RedisAddr)
	}

	var sink queue.Sink = queue.NewMemorySink()
	if cfg.KafkaBrokers != "" {
		kafkaSink, err := queue.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logrus.Warnf("kafka sink unavailable, events stay in process: %v", err)
		} else {
			sink = kafkaSink
		}
	}

	engine := service.NewDecisionEngine(cfg.Scoring)

	return &env{
		cfg:       cfg,
		sink:      sink,
		registry:  service.NewRegistry(s, docCache, sink),
		scheduler: service.NewScheduler(s),
		usage:     service.NewUsageTracker(s),
		graph:     service.NewGraph(s, cfg.MaxHops),
		scanner:   service.NewScanner(s, engine, cfg.ScanPageSize),
		archive:   service.NewArchiveStore(s, docCache, compress.ByName(cfg.SnapshotCodec), sink),
	}
}

func (e *env) close() {
	if err := e.sink.Close(); err != nil {
		logrus.Warnf("event sink close failed: %v", err)
	}
}
