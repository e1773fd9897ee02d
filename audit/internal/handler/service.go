package handler

import (
	"context"

	"github.com/Astemirdum/library-ledger/audit/internal/model"
	"github.com/Astemirdum/library-ledger/audit/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type AuditService interface {
	History(ctx context.Context, cpf string, limit int) ([]model.Event, error)
	Stats(ctx context.Context) (model.Stats, error)
}

var _ AuditService = (*service.Service)(nil)
