package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-ledger/ledger/config"
	"github.com/Astemirdum/library-ledger/ledger/internal/handler"
	"github.com/Astemirdum/library-ledger/ledger/internal/metrics"
	"github.com/Astemirdum/library-ledger/ledger/internal/repository"
	"github.com/Astemirdum/library-ledger/ledger/internal/server"
	"github.com/Astemirdum/library-ledger/ledger/internal/service"
	"github.com/Astemirdum/library-ledger/ledger/migrations"
	"github.com/Astemirdum/library-ledger/pkg/auth"
	cb "github.com/Astemirdum/library-ledger/pkg/circuit_breaker"
	"github.com/Astemirdum/library-ledger/pkg/kafka"
	"github.com/Astemirdum/library-ledger/pkg/logger"
	"github.com/Astemirdum/library-ledger/pkg/postgres"
)

// Ledger is the wired service with everything it holds open.
type Ledger struct {
	Service  *service.Service
	Tokens   *auth.TokenManager
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	closers []func()
}

func (l *Ledger) Close() {
	for i := len(l.closers) - 1; i >= 0; i-- {
		l.closers[i]()
	}
}

// New opens the store and the event publisher selected by cfg.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Ledger, error) {
	l := &Ledger{Tokens: auth.NewTokenManager(cfg.Auth)}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	l.Metrics, l.Gatherer = metrics.New(reg), reg

	var repo repository.Repository
	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn("in-memory storage, state is lost on restart")
		repo = repository.NewMemory(log)
	case config.StoragePostgres:
		db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
		if err != nil {
			return nil, fmt.Errorf("db init %w", err)
		}
		l.closers = append(l.closers, db.Close)
		repo, err = repository.NewRepository(db, log)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("repo %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage)
	}

	var publisher service.Publisher = service.NopPublisher{}
	if cfg.Kafka.Enabled() {
		if err := kafka.CreateTopics(cfg.Kafka, kafka.LedgerTopic); err != nil {
			log.Warn("kafka.CreateTopics", zap.Error(err))
		}
		producer, err := kafka.NewSyncProducer(cfg.Kafka)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("kafka.NewSyncProducer %w", err)
		}
		breaker := cb.New(20, 30*time.Second, 0.5, 3, cb.WithStateChange(func(from, to cb.Status) {
			log.Warn("event publisher circuit", zap.Stringer("from", from), zap.Stringer("to", to))
			l.Metrics.PublisherOpen(to == cb.Open)
		}))
		kp := service.NewKafkaPublisher(producer, breaker, log)
		l.closers = append(l.closers, func() {
			if err := kp.Close(); err != nil {
				log.Error("producer close", zap.Error(err))
			}
		})
		publisher = kp
	} else {
		log.Info("KAFKA_ADDRS is empty, ledger events are not published")
	}

	l.Service = service.NewService(repo, log,
		service.WithRules(cfg.Rules),
		service.WithPublisher(publisher),
		service.WithObserver(l.Metrics),
		service.WithTokenManager(l.Tokens),
	)
	return l, nil
}

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "ledger")
	defer func() { _ = log.Sync() }()

	ledger, err := New(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer ledger.Close()

	h := handler.New(ledger.Service, ledger.Tokens, log, handler.WithMetrics(ledger.Metrics, ledger.Gatherer))
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(srv.Run)
	g.Go(func() error {
		<-gCtx.Done()
		log.Debug("Graceful shutdown", zap.Error(context.Cause(gCtx)))

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})
	if err = g.Wait(); err != nil {
		log.Error("server", zap.Error(err))
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}
