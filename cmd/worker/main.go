package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Molemo21/ConnectSA-k9-sub014/config"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/cache"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/email"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/kafka"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/repository"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/status"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/sync"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/upstream"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Status.SnapshotTTLSeconds)*time.Second)

	core := upstream.NewClient(cfg.Upstream)
	incidentRepo := repository.NewIncidentRepository(pool)
	if err := incidentRepo.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	syncService := sync.NewSyncService(
		core,
		redisCache,
		incidentRepo,
		producer,
		cfg.Kafka.StatusTopic,
		status.Thresholds{
			Delayed:      cfg.Status.DelayedAfterMinutes,
			Stuck:        cfg.Status.StuckAfterMinutes,
			ReleaseStuck: cfg.Status.ReleaseStuckAfterMinutes,
		},
		time.Duration(cfg.Status.WatchTTLMinutes)*time.Minute,
		time.Duration(cfg.Status.RefreshLockSeconds)*time.Second,
		sync.WithAlertsTopic(cfg.Kafka.AlertsTopic),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.AlertsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(cfg.Email)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.StatusEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.PollIntervalSeconds) * time.Second)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			refreshed, err := syncService.Sweep(ctx)
			if err != nil {
				log.Printf("sweep error: %v", err)
				continue
			}
			if refreshed > 0 {
				log.Printf("refreshed %d payments", refreshed)
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
