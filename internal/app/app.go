// Package app wires and runs each node.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreyxaxa/Access-Gate/config"
	"github.com/andreyxaxa/Access-Gate/internal/controller/restapi"
	"github.com/andreyxaxa/Access-Gate/internal/controller/worker/reconcile"
	"github.com/andreyxaxa/Access-Gate/internal/infrastructure"
	"github.com/andreyxaxa/Access-Gate/internal/infrastructure/events"
	"github.com/andreyxaxa/Access-Gate/internal/infrastructure/notifier"
	"github.com/andreyxaxa/Access-Gate/internal/repo"
	"github.com/andreyxaxa/Access-Gate/internal/repo/document"
	"github.com/andreyxaxa/Access-Gate/internal/repo/memory"
	"github.com/andreyxaxa/Access-Gate/internal/repo/persistent"
	"github.com/andreyxaxa/Access-Gate/internal/usecase/status"
	"github.com/andreyxaxa/Access-Gate/pkg/clock"
	"github.com/andreyxaxa/Access-Gate/pkg/httpserver"
	"github.com/andreyxaxa/Access-Gate/pkg/kafka/producer"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
	"github.com/andreyxaxa/Access-Gate/pkg/mongodb"
	"github.com/andreyxaxa/Access-Gate/pkg/postgres"
	"github.com/andreyxaxa/Access-Gate/pkg/s3client"
)

// stores is what the status use case and the reconciler need from a driver.
type stores struct {
	pictures repo.PictureRepo
	orphans  repo.OrphanPictureRepo
	statuses repo.StatusRepo
	blobs    repo.BlobRepo
	close    func()
}

// RunAPI runs the central status service until SIGINT or SIGTERM.
func RunAPI(cfg *config.API) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Repository
	st, err := newStores(ctx, cfg, l)
	if err != nil {
		l.Fatal(fmt.Errorf("app - RunAPI - newStores: %w", err))
	}
	defer st.close()

	// Decision events
	publisher, err := newPublisher(ctx, cfg)
	if err != nil {
		l.Fatal(fmt.Errorf("app - RunAPI - newPublisher: %w", err))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			l.Error(fmt.Errorf("app - RunAPI - publisher.Close: %w", err))
		}
	}()

	// Use-Case
	statusUseCase := status.New(
		st.pictures,
		st.statuses,
		st.blobs,
		notifier.New(cfg.Gateway.PushURL, cfg.Gateway.PushTimeout),
		publisher,
		l,
	)

	// Reconcile Worker
	sweeper := reconcile.New(
		status.NewReconciler(st.orphans, st.statuses, publisher, clock.Real(), l),
		l,
		cfg.Reconcile.Interval,
		cfg.Reconcile.GracePeriod,
		cfg.Reconcile.SweepTimeout,
		cfg.Reconcile.BatchSize,
	)

	// HTTP Server
	httpServer := httpserver.New(l,
		httpserver.Name("api"),
		httpserver.Port(cfg.HTTP.Port),
		httpserver.Prefork(cfg.HTTP.UsePreforkMode),
		httpserver.BodyLimit(cfg.HTTP.BodyLimit),
		httpserver.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
	)
	restapi.NewRouter(httpServer.App, cfg, statusUseCase, l)

	// Start Components
	err = sweeper.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - RunAPI - sweeper.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - RunAPI - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - RunAPI - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - RunAPI - httpServer.Shutdown: %w", err))
	}

	swShutdownCtx, swShutdownCancel := context.WithTimeout(ctx, cfg.Reconcile.ShutdownTimeout)
	defer swShutdownCancel()
	err = sweeper.Shutdown(swShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - RunAPI - sweeper.Shutdown: %w", err))
	}
}

func newStores(ctx context.Context, cfg *config.API, l logger.Interface) (*stores, error) {
	if cfg.Store.Driver == "memory" {
		l.Warn("app - newStores - memory store, nothing survives a restart")

		m := memory.New()
		base := "memory://blobs"

		return &stores{
			pictures: m.Pictures(),
			orphans:  m.Pictures(),
			statuses: m.Statuses(),
			blobs:    memory.NewBlobRepo(base, cfg.S3.Bucket),
			close:    func() {},
		}, nil
	}

	// s3
	s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
	defer s3Cancel()
	s3c, err := s3client.New(s3Ctx, cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket,
		s3client.Region(cfg.S3.Region),
		s3client.CreateBucket(cfg.S3.CreateBucket),
	)
	if err != nil {
		return nil, fmt.Errorf("s3client.New: %w", err)
	}

	publicBase := cfg.S3.PublicBaseURL
	if publicBase == "" {
		publicBase = cfg.S3.Endpoint
	}
	blobs := persistent.NewBlobRepo(s3c, cfg.S3.Bucket, publicBase)

	switch cfg.Store.Driver {
	case "mongo":
		mdb, err := mongodb.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("mongodb.New: %w", err)
		}

		statuses := document.NewStatusRepo(mdb)
		if err = statuses.EnsureIndexes(ctx); err != nil {
			_ = mdb.Close(context.Background())

			return nil, fmt.Errorf("statuses.EnsureIndexes: %w", err)
		}

		pictures := document.NewPictureRepo(mdb)

		return &stores{
			pictures: pictures,
			orphans:  pictures,
			statuses: statuses,
			blobs:    blobs,
			close: func() {
				if err := mdb.Close(context.Background()); err != nil {
					l.Error(fmt.Errorf("app - newStores - mdb.Close: %w", err))
				}
			},
		}, nil

	default:
		if cfg.PG.Migrate {
			if err = postgres.Migrate(cfg.PG.URL); err != nil {
				return nil, fmt.Errorf("postgres.Migrate: %w", err)
			}
		}

		pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
		if err != nil {
			return nil, fmt.Errorf("postgres.New: %w", err)
		}

		pictures := persistent.NewPictureRepo(pg)

		return &stores{
			pictures: pictures,
			orphans:  pictures,
			statuses: persistent.NewStatusRepo(pg),
			blobs:    blobs,
			close:    pg.Close,
		}, nil
	}
}

func newPublisher(ctx context.Context, cfg *config.API) (infrastructure.EventPublisher, error) {
	switch cfg.Events.Driver {
	case "kafka":
		p, err := producer.New(ctx, cfg.Kafka.Brokers)
		if err != nil {
			return nil, fmt.Errorf("producer.New: %w", err)
		}

		return events.NewKafkaPublisher(p, cfg.Kafka.Topic), nil
	case "nats":
		p, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			return nil, fmt.Errorf("events.NewNATSPublisher: %w", err)
		}

		return p, nil
	default:
		return events.NoopPublisher{}, nil
	}
}
