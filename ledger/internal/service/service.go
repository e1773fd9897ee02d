package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-ledger/ledger/internal/loan"
	"github.com/Astemirdum/library-ledger/ledger/internal/repository"
	"github.com/Astemirdum/library-ledger/pkg/auth"
)

// Observer receives one call per finished operation.
type Observer interface {
	Observe(operation string, start time.Time, err error)
	Promoted()
	DebtSettled(cents int64)
}

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	rules     loan.Rules
	now       func() time.Time
	publisher Publisher
	observer  Observer
	tokens    *auth.TokenManager
}

type Option func(s *Service)

func WithRules(rules loan.Rules) Option {
	return func(s *Service) {
		s.rules = rules
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

func WithTokenManager(tm *auth.TokenManager) Option {
	return func(s *Service) {
		s.tokens = tm
	}
}

func NewService(repo repository.Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:       log.Named("service"),
		repo:      repo,
		rules:     loan.DefaultRules(),
		now:       time.Now,
		publisher: NopPublisher{},
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type nopObserver struct{}

func (nopObserver) Observe(string, time.Time, error) {}
func (nopObserver) Promoted()                        {}
func (nopObserver) DebtSettled(int64)                {}
