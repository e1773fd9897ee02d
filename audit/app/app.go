package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-ledger/audit/config"
	"github.com/Astemirdum/library-ledger/audit/internal/handler"
	"github.com/Astemirdum/library-ledger/audit/internal/repository"
	"github.com/Astemirdum/library-ledger/audit/internal/server"
	"github.com/Astemirdum/library-ledger/audit/internal/service"
	"github.com/Astemirdum/library-ledger/audit/migrations"
	"github.com/Astemirdum/library-ledger/pkg/auth"
	"github.com/Astemirdum/library-ledger/pkg/kafka"
	"github.com/Astemirdum/library-ledger/pkg/logger"
	"github.com/Astemirdum/library-ledger/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "audit")
	defer func() { _ = log.Sync() }()

	if !cfg.Kafka.Enabled() {
		return fmt.Errorf("KAFKA_ADDRS is required")
	}
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	defer db.Close()
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo events %w", err)
	}
	svc := service.NewService(repo, log)

	if err = kafka.CreateTopics(cfg.Kafka, kafka.LedgerTopic); err != nil {
		log.Warn("kafka.CreateTopics", zap.Error(err))
	}
	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.AuditConsumerGroup)
	if err != nil {
		return fmt.Errorf("kafka.NewConsumer %w", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			log.Error("consumer close", zap.Error(err))
		}
	}()

	h := handler.New(svc, auth.NewTokenManager(cfg.Auth), log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return kafka.Consume(gCtx, consumer, handler.NewConsumer(svc.Record, log), log, kafka.LedgerTopic)
	})
	g.Go(srv.Run)
	g.Go(func() error {
		<-gCtx.Done()
		log.Debug("Graceful shutdown", zap.Error(context.Cause(gCtx)))

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})
	if err = g.Wait(); err != nil {
		log.Error("audit", zap.Error(err))
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}
