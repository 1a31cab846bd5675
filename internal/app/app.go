package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/andreyxaxa/photo-thumbnailer/config"
	kafkactrl "github.com/andreyxaxa/photo-thumbnailer/internal/controller/kafka"
	"github.com/andreyxaxa/photo-thumbnailer/internal/controller/restapi"
	"github.com/andreyxaxa/photo-thumbnailer/internal/controller/worker/outbox"
	infrakafka "github.com/andreyxaxa/photo-thumbnailer/internal/infrastructure/kafka"
	"github.com/andreyxaxa/photo-thumbnailer/internal/infrastructure/metrics"
	"github.com/andreyxaxa/photo-thumbnailer/internal/infrastructure/processor"
	"github.com/andreyxaxa/photo-thumbnailer/internal/repo/persistent"
	"github.com/andreyxaxa/photo-thumbnailer/internal/usecase/ingestion"
	"github.com/andreyxaxa/photo-thumbnailer/internal/usecase/photo"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/httpserver"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/kafka/consumer"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/kafka/producer"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/logger"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/postgres"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/s3client"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Repository

	// s3
	s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
	defer s3Cancel()
	s3c, err := s3client.New(s3Ctx, cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey,
		s3client.Region(cfg.S3.Region),
		s3client.UsePathStyle(cfg.S3.UsePathStyle),
		s3client.ConnAttempts(cfg.S3.ConnAttempts),
		s3client.ConnTimeout(cfg.S3.ConnTimeout),
		s3client.Logger(l),
	)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
	}

	if cfg.S3.CreateBuckets {
		for _, bucket := range []string{cfg.S3.SourceBucket, cfg.S3.ThumbnailBucket} {
			err = s3c.EnsureBucket(ctx, bucket)
			if err != nil {
				l.Fatal(fmt.Errorf("app - Run - s3c.EnsureBucket(%s): %w", bucket, err))
			}
		}
	}

	sources := persistent.NewObjectRepo(s3c, cfg.S3.SourceBucket)
	thumbnails := persistent.NewObjectRepo(s3c, cfg.S3.ThumbnailBucket)

	// postgres
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	err = migrate(ctx, pg, l)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - migrate: %w", err))
	}

	photos := persistent.NewPhotoRepo(pg)

	// Use-Case

	// photo use-case
	photoUseCase := photo.New(
		sources,
		photos,
		persistent.NewOutboxRepo(pg),
		pg,
		photo.Config{
			PublicBaseURL:     cfg.PublicBaseURL(),
			RejectUnsupported: cfg.Upload.RejectUnsupported,
			NotifyViaOutbox:   cfg.Notify.Mode == config.NotifyOutbox,
		},
		l,
	)

	// ingestion use-case
	ingestionUseCase := ingestion.New(
		sources,
		thumbnails,
		photos,
		processor.New(),
		metrics.NewIngestion(registry),
		ingestion.Config{
			Widths:        cfg.Thumbnails.Widths,
			PublicBaseURL: cfg.PublicBaseURL(),
		},
		l,
	)

	// Outbox Relay Worker, only when uploads publish their own notifications
	var outboxRelayWorker *outbox.OutboxRelay
	if cfg.Notify.Mode == config.NotifyOutbox {
		kafkaProducer, err := producer.New(ctx, cfg.Kafka.Brokers, producer.BatchTimeout(cfg.Kafka.BatchTimeout))
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
		}

		outboxRelayWorker = outbox.New(
			photoUseCase,
			infrakafka.NewEventProducer(kafkaProducer, cfg.Kafka.Topic),
			l,
			cfg.OutboxRelay.PollInterval,
			cfg.OutboxRelay.CleanupInterval,
			cfg.OutboxRelay.MarkFailedInterval,
			cfg.OutboxRelay.ProcessBatchTimeout,
			cfg.OutboxRelay.BatchSize,
			cfg.OutboxRelay.MaxRetries,
		)
	}

	// Kafka Consumer
	var consumerOpts []consumer.Option
	if cfg.Kafka.StartFromLatest {
		consumerOpts = append(consumerOpts, consumer.StartFromLatest())
	}
	kafkaConsumer, err := consumer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, consumerOpts...)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - consumer.New: %w", err))
	}

	workers := cfg.KafkaController.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Kafka as Controller
	kafkaController := kafkactrl.New(
		ingestionUseCase,
		infrakafka.NewEventConsumer(kafkaConsumer),
		l,
		cfg.KafkaController.CommitTimeout,
		cfg.KafkaController.ProcessTimeout,
		cfg.KafkaController.ReadBackoff,
		workers,
	)

	// HTTP Server
	httpServer := httpserver.New(l,
		httpserver.Port(cfg.HTTP.Port),
		httpserver.Prefork(cfg.HTTP.UsePreforkMode),
		httpserver.ReadTimeout(cfg.HTTP.ReadTimeout),
		httpserver.WriteTimeout(cfg.HTTP.WriteTimeout),
		httpserver.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
		httpserver.BodyLimit(cfg.Upload.MaxSize),
	)
	restapi.NewRouter(httpServer.App, cfg, photoUseCase, registry, l)

	// Start Components
	if outboxRelayWorker != nil {
		err = outboxRelayWorker.Start(ctx)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - outboxRelayWorker.Start: %w", err))
		}
	}
	err = kafkaController.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - kafkaController.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	if outboxRelayWorker != nil {
		orlShutdownCtx, orlShutdownCancel := context.WithTimeout(ctx, cfg.OutboxRelay.ShutdownTimeout)
		defer orlShutdownCancel()
		err = outboxRelayWorker.Shutdown(orlShutdownCtx)
		if err != nil {
			l.Error(fmt.Errorf("app - Run - outboxRelayWorker.Shutdown: %w", err))
		}
	}

	kcShutdownCtx, kcShutdownCancel := context.WithTimeout(ctx, cfg.KafkaController.ShutdownTimeout)
	defer kcShutdownCancel()
	err = kafkaController.Shutdown(kcShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - kafkaController.Shutdown: %w", err))
	}
}
