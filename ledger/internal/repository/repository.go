package repository

import (
	"context"

	"github.com/Astemirdum/library-ledger/ledger/internal/model"
)

// Repository is the ledger store. Reads run outside any lock; every
// mutation goes through InTx.
type Repository interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)

	ListReaders(ctx context.Context) ([]model.Reader, error)
	GetReader(ctx context.Context, cpf string) (model.Reader, error)
	CreateReader(ctx context.Context, reader model.Reader) error
}

// Tx is a unit of work. Locks are taken books first in id order, then
// readers in CPF order, and held until the transaction ends.
type Tx interface {
	// LockBook returns the book with its reservation queue.
	LockBook(ctx context.Context, id int) (model.Book, error)
	LockReaders(ctx context.Context, cpfs ...string) error
	// GetReader returns the reader with every loan and reservation.
	GetReader(ctx context.Context, cpf string) (model.Reader, error)

	UpdateBook(ctx context.Context, book model.Book) error
	SetBorrowedCopies(ctx context.Context, bookID, borrowed int) error
	DeleteBook(ctx context.Context, id int) error
	DeleteReader(ctx context.Context, cpf string) error

	InsertLoan(ctx context.Context, loan model.Loan) error
	UpdateLoan(ctx context.Context, loan model.Loan) error

	Enqueue(ctx context.Context, bookID int, entry model.QueueEntry) error
	Dequeue(ctx context.Context, bookID int, cpf string) error
}
