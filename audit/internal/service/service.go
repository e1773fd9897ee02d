package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-ledger/audit/internal/model"
	"github.com/Astemirdum/library-ledger/pkg/kafka"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

var ErrInvalidEvent = errors.New("invalid ledger event")

type Repository interface {
	Save(ctx context.Context, ev model.Event) error
	History(ctx context.Context, cpf string, limit uint64) ([]model.Event, error)
	Stats(ctx context.Context) (model.Stats, error)
}

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.Named("service"),
	}
}

func (s *Service) Record(ctx context.Context, event kafka.LedgerEvent) error {
	if event.ID == "" || event.EventType == "" || event.ReaderCPF == "" {
		return errors.Wrapf(ErrInvalidEvent, "id=%q type=%q", event.ID, event.EventType)
	}
	return s.repo.Save(ctx, model.FromLedger(event))
}

func (s *Service) History(ctx context.Context, cpf string, limit int) ([]model.Event, error) {
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}
	events, err := s.repo.History(ctx, cpf, uint64(limit))
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	return s.repo.Stats(ctx)
}
