package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-ledger/ledger/internal/errs"
	"github.com/Astemirdum/library-ledger/ledger/internal/model"
	"github.com/Astemirdum/library-ledger/ledger/internal/repository"
)

func newStore(t *testing.T) (repository.Repository, model.Book) {
	t.Helper()
	repo := repository.NewMemory(zap.NewNop())
	book, err := repo.CreateBook(context.Background(), model.Book{
		Title: "Memórias Póstumas", Author: "Machado de Assis", TotalCopies: 2,
		Categories: []string{"romance"},
	})
	require.NoError(t, err)
	require.NoError(t, repo.CreateReader(context.Background(), model.Reader{
		CPF: "52998224725", Name: "Ana", RegistrationNumber: "1", Role: model.RoleStudent,
	}))
	return repo, book
}

func TestMemory_CreateReaderUnique(t *testing.T) {
	repo, _ := newStore(t)
	ctx := context.Background()

	err := repo.CreateReader(ctx, model.Reader{CPF: "52998224725", RegistrationNumber: "2"})
	require.ErrorIs(t, err, errs.ErrReaderExists)
	err = repo.CreateReader(ctx, model.Reader{CPF: "11144477735", RegistrationNumber: "1"})
	require.ErrorIs(t, err, errs.ErrReaderExists)
	require.NoError(t, repo.CreateReader(ctx, model.Reader{CPF: "11144477735", RegistrationNumber: "2"}))
}

func TestMemory_RollbackOnError(t *testing.T) {
	repo, book := newStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		b, err := tx.LockBook(ctx, book.ID)
		require.NoError(t, err)
		require.NoError(t, tx.SetBorrowedCopies(ctx, b.ID, 1))
		require.NoError(t, tx.InsertLoan(ctx, model.Loan{
			ID: uuid.New(), BookID: b.ID, ReaderCPF: "52998224725", Status: model.StatusActive,
		}))
		require.NoError(t, tx.Enqueue(ctx, b.ID, model.QueueEntry{ReaderCPF: "52998224725", ReservedAt: time.Now()}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.BorrowedCopies)
	require.Empty(t, got.Queue)

	reader, err := repo.GetReader(ctx, "52998224725")
	require.NoError(t, err)
	require.Empty(t, reader.Loans)
	require.Empty(t, reader.Reservations)
}

func TestMemory_QueueAndLoans(t *testing.T) {
	repo, book := newStore(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateReader(ctx, model.Reader{CPF: "11144477735", Name: "Bruno", RegistrationNumber: "2"}))

	loanID := uuid.New()
	err := repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.LockBook(ctx, book.ID); err != nil {
			return err
		}
		if err := tx.Enqueue(ctx, book.ID, model.QueueEntry{ReaderCPF: "11144477735"}); err != nil {
			return err
		}
		if err := tx.Enqueue(ctx, book.ID, model.QueueEntry{ReaderCPF: "52998224725"}); err != nil {
			return err
		}
		return tx.InsertLoan(ctx, model.Loan{ID: loanID, BookID: book.ID, ReaderCPF: "52998224725", Status: model.StatusActive})
	})
	require.NoError(t, err)

	err = repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		err := tx.Enqueue(ctx, book.ID, model.QueueEntry{ReaderCPF: "11144477735"})
		require.ErrorIs(t, err, errs.ErrAlreadyReserved)
		err = tx.InsertLoan(ctx, model.Loan{ID: uuid.New(), BookID: book.ID, ReaderCPF: "52998224725", Status: model.StatusActive})
		require.ErrorIs(t, err, errs.ErrDuplicateActiveLoan)
		return tx.Dequeue(ctx, book.ID, "11144477735")
	})
	require.NoError(t, err)

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, got.Queue, 1)
	require.Equal(t, "52998224725", got.Queue[0].ReaderCPF)

	reader, err := repo.GetReader(ctx, "52998224725")
	require.NoError(t, err)
	require.Len(t, reader.Loans, 1)
	require.Equal(t, loanID, reader.Loans[0].ID)
	require.Equal(t, []int{book.ID}, reader.Reservations)
}

func TestMemory_DeleteReaderLeavesQueues(t *testing.T) {
	repo, book := newStore(t)
	ctx := context.Background()

	err := repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.LockBook(ctx, book.ID); err != nil {
			return err
		}
		if err := tx.Enqueue(ctx, book.ID, model.QueueEntry{ReaderCPF: "52998224725"}); err != nil {
			return err
		}
		if err := tx.LockReaders(ctx, "52998224725"); err != nil {
			return err
		}
		return tx.DeleteReader(ctx, "52998224725")
	})
	require.NoError(t, err)

	_, err = repo.GetReader(ctx, "52998224725")
	require.ErrorIs(t, err, errs.ErrReaderNotFound)
	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Empty(t, got.Queue)
}

func TestMemory_ReturnedCopiesAreIsolated(t *testing.T) {
	repo, book := newStore(t)
	book.Categories[0] = "changed"
	got, err := repo.GetBook(context.Background(), book.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"romance"}, got.Categories)
}

func TestMemory_BookLockSerializes(t *testing.T) {
	repo, book := newStore(t)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
				b, err := tx.LockBook(ctx, book.ID)
				if err != nil {
					return err
				}
				return tx.SetBorrowedCopies(ctx, b.ID, b.BorrowedCopies+1)
			})
		}()
	}
	wg.Wait()

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, workers, got.BorrowedCopies)
}

func TestMemory_ReadsWaitForCommit(t *testing.T) {
	repo, book := newStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	type seen struct {
		book   model.Book
		reader model.Reader
		books  []model.Book
	}
	started := make(chan struct{})
	done := make(chan seen, 1)
	err := repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		b, err := tx.LockBook(ctx, book.ID)
		require.NoError(t, err)
		require.NoError(t, tx.LockReaders(ctx, "52998224725"))
		require.NoError(t, tx.SetBorrowedCopies(ctx, b.ID, 1))
		require.NoError(t, tx.Enqueue(ctx, b.ID, model.QueueEntry{ReaderCPF: "52998224725", ReservedAt: time.Now()}))

		go func() {
			close(started)
			var s seen
			s.book, _ = repo.GetBook(ctx, book.ID)
			s.reader, _ = repo.GetReader(ctx, "52998224725")
			s.books, _ = repo.ListBooks(ctx)
			done <- s
		}()
		<-started
		time.Sleep(50 * time.Millisecond)
		select {
		case <-done:
			t.Error("read finished before the transaction ended")
		default:
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	s := <-done
	require.Equal(t, 0, s.book.BorrowedCopies)
	require.Empty(t, s.book.Queue)
	require.Empty(t, s.reader.Reservations)
	require.Len(t, s.books, 1)
	require.Equal(t, 0, s.books[0].BorrowedCopies)
}
