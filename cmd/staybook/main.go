package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/internal/app/outbox"
	"staybook/internal/app/policies"
	"staybook/internal/infra/broker/kafka"
	"staybook/internal/infra/config"
	dbmongo "staybook/internal/infra/db/mongo"
	ginserver "staybook/internal/infra/http/gin"
	"staybook/internal/infra/obs"
	outboxrelay "staybook/internal/infra/outbox"
	"staybook/internal/infra/payments"
	"staybook/internal/infra/security"
	"staybook/internal/infra/storage/memory"
	"staybook/internal/infra/storage/redis"
	"staybook/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("staybook stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	shutdownTracing, err := obs.InitTracing(ctx, logger, cfg.OTLPEndpoint, "staybook", cfg.Env)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	metrics := obs.NewMetrics()
	infra, err := openInfrastructure(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer infra.close()

	app := buildApplication(logger, metrics, infra.backends)

	fixturesPath := cfg.FixturesPath
	if fixturesPath == "" {
		fixturesPath = defaultFixturesPath()
	}
	if err := loadFixtures(ctx, fixturesPath, infra.backends.UoW, infra.backends.Passwords, logger); err != nil {
		logger.Warn("fixtures load failed", "error", err, "path", fixturesPath)
	}

	if infra.relay != nil {
		go func() {
			if err := infra.relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox relay stopped", "error", err)
			}
		}()
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger, Metrics: metrics}, obs.HealthHandlers{
		Checks:  infra.checks,
		Timeout: 2 * time.Second,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}

type infrastructure struct {
	backends backends
	checks   map[string]obs.Check
	relay    *outboxrelay.Worker
	closers  []func()
}

func (i *infrastructure) close() {
	for j := len(i.closers) - 1; j >= 0; j-- {
		i.closers[j]()
	}
}

// openInfrastructure connects the adapters selected by cfg. With the memory
// driver events are published when each command completes; with Mongo they
// are written to the outbox collection and relayed by a background worker.
func openInfrastructure(ctx context.Context, cfg config.Config, logger *slog.Logger) (*infrastructure, error) {
	infra := &infrastructure{checks: map[string]obs.Check{}}
	b := &infra.backends
	b.Tokens = security.NewJWTIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	b.Passwords = security.BcryptHasher{}
	b.Payments = payments.NewMockGateway(cfg.PaymentDeclineRate, logger)
	b.Images = openImageStore(cfg, logger)

	publisher, err := openPublisher(cfg, infra)
	if err != nil {
		infra.close()
		return nil, err
	}

	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := dbmongo.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			infra.close()
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		infra.closers = append(infra.closers, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(closeCtx)
		})
		infra.checks["mongo"] = client.Ping
		if err := client.EnsureIndexes(ctx); err != nil {
			infra.close()
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		store, err := outboxrelay.NewStore(ctx, client.DB)
		if err != nil {
			infra.close()
			return nil, fmt.Errorf("mongo outbox: %w", err)
		}
		b.UoW = dbmongo.NewFactory(client.DB)
		b.Users = dbmongo.NewUserRepository(client.DB)
		b.Outbox = store
		if publisher != nil {
			infra.relay = &outboxrelay.Worker{
				Queue:     store,
				Publisher: publisher,
				Interval:  cfg.OutboxPollInterval,
				Backoff:   cfg.RetryBackoff,
				Logger:    logger,
			}
		} else {
			logger.Warn("kafka not configured, outbox records will not be relayed")
		}
		if cfg.RedisURL == "" {
			idem, err := dbmongo.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
			if err != nil {
				infra.close()
				return nil, fmt.Errorf("mongo idempotency: %w", err)
			}
			b.Idempotency = idem
		}
	default:
		store := memory.NewStore()
		b.UoW = store
		b.Users = store.Users
		b.Outbox = memory.NewOutbox(publisher, logger)
	}

	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			infra.close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		infra.closers = append(infra.closers, func() { _ = client.Close() })
		infra.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		b.Idempotency = redis.NewIdempotencyStore(client, cfg.IdempotencyTTL)
	}
	if b.Idempotency == nil {
		b.Idempotency = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
	}
	return infra, nil
}

func openPublisher(cfg config.Config, infra *infrastructure) (outbox.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, nil
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaClientID)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	infra.closers = append(infra.closers, func() { _ = producer.Close() })
	return kafka.EventPublisher{Sender: producer, TopicPrefix: cfg.KafkaTopicPrefix}, nil
}

func openImageStore(cfg config.Config, logger *slog.Logger) policies.ImageStore {
	if cfg.S3Endpoint == "" {
		logger.Info("object storage not configured, image uploads disabled")
		return s3.Disabled{}
	}
	client, err := s3.NewClient(s3.Options{
		Endpoint:       cfg.S3Endpoint,
		PublicEndpoint: cfg.S3PublicEndpoint,
		AccessKey:      cfg.S3AccessKey,
		SecretKey:      cfg.S3SecretKey,
		Bucket:         cfg.S3Bucket,
		UseSSL:         cfg.S3UseSSL,
	}, logger)
	if err != nil {
		logger.Error("object storage unavailable, image uploads disabled", "error", err)
		return s3.Disabled{}
	}
	return client
}
