package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Molemo21/ConnectSA-k9-sub014/config"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/bootstrap"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/cache"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/kafka"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/repository"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/actions"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/inbox"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/status"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/sync"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/upstream"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Status.SnapshotTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	core := upstream.NewClient(cfg.Upstream)
	incidentRepo := repository.NewIncidentRepository(pool)
	if err := incidentRepo.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	thresholds := status.Thresholds{
		Delayed:      cfg.Status.DelayedAfterMinutes,
		Stuck:        cfg.Status.StuckAfterMinutes,
		ReleaseStuck: cfg.Status.ReleaseStuckAfterMinutes,
	}

	syncService := sync.NewSyncService(
		core,
		redisCache,
		incidentRepo,
		producer,
		cfg.Kafka.StatusTopic,
		thresholds,
		time.Duration(cfg.Status.WatchTTLMinutes)*time.Minute,
		time.Duration(cfg.Status.RefreshLockSeconds)*time.Second,
		sync.WithAlertsTopic(cfg.Kafka.AlertsTopic),
	)
	inboxService := inbox.NewInboxService(core, actions.NewResolver())
	classifier := status.NewClassifier(thresholds, status.SystemClock())

	if err := bootstrap.Run(ctx, cfg, syncService, inboxService, classifier); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
