package handler

import (
	"context"

	"github.com/Astemirdum/library-ledger/ledger/internal/model"
	"github.com/Astemirdum/library-ledger/ledger/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LedgerService interface {
	BorrowDirect(ctx context.Context, bookID int, cpf string) (model.BorrowResult, error)
	BorrowViaStaffAssist(ctx context.Context, bookID int, cpf string) (model.BorrowResult, error)
	Reserve(ctx context.Context, bookID int, cpf string) (model.ReserveResult, error)
	CancelReservation(ctx context.Context, bookID int, cpf string) error
	ReturnLoan(ctx context.Context, bookID int, cpf string) (model.ReturnResult, error)
	SettleDebt(ctx context.Context, bookID int, cpf string) (model.SettleResult, error)
	Renew(ctx context.Context, bookID int, cpf string) (model.RenewResult, error)
	ReaderDebt(ctx context.Context, cpf string) (model.ReaderDebt, error)

	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int, patch model.BookPatch) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error

	Register(ctx context.Context, req model.RegisterRequest) (model.Reader, error)
	Login(ctx context.Context, cpf, password string) (string, model.Role, error)
	ListReaders(ctx context.Context) ([]model.Reader, error)
	GetReader(ctx context.Context, cpf string) (model.Reader, error)
	DeleteReader(ctx context.Context, cpf string) error
}

var _ LedgerService = (*service.Service)(nil)
