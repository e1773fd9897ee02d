package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-ledger/ledger/internal/errs"
	"github.com/Astemirdum/library-ledger/ledger/internal/loan"
	"github.com/Astemirdum/library-ledger/ledger/internal/model"
	"github.com/Astemirdum/library-ledger/ledger/internal/repository"
	"github.com/Astemirdum/library-ledger/pkg/kafka"
)

const (
	opBorrowDirect      = "borrow_direct"
	opBorrowStaff       = "borrow_staff"
	opReserve           = "reserve"
	opCancelReservation = "cancel_reservation"
	opReturn            = "return"
	opSettleDebt        = "settle_debt"
	opRenew             = "renew"
)

// BorrowDirect lends a copy to the reader acting on their own behalf.
func (s *Service) BorrowDirect(ctx context.Context, bookID int, cpf string) (model.BorrowResult, error) {
	return s.borrow(ctx, opBorrowDirect, bookID, cpf)
}

// BorrowViaStaffAssist lends a copy to the reader identified by cpf on
// behalf of an employee.
func (s *Service) BorrowViaStaffAssist(ctx context.Context, bookID int, cpf string) (model.BorrowResult, error) {
	return s.borrow(ctx, opBorrowStaff, bookID, cpf)
}

func (s *Service) borrow(ctx context.Context, op string, bookID int, cpf string) (res model.BorrowResult, err error) {
	defer s.observe(op, s.now(), &err)

	err = s.repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		book, err := tx.LockBook(ctx, bookID)
		if err != nil {
			return err
		}
		if err = tx.LockReaders(ctx, cpf); err != nil {
			return err
		}
		reader, err := tx.GetReader(ctx, cpf)
		if err != nil {
			return err
		}
		now := s.now()
		if book.AvailableCopies() == 0 {
			if err = loan.CanHold(reader, reader.Loans, bookID); err != nil {
				return err
			}
			return errs.ErrNoCopiesAvailable
		}
		if err = s.rules.CanBorrow(reader, reader.Loans, bookID, now); err != nil {
			return err
		}
		l, err := s.lend(ctx, tx, &book, reader, now)
		if err != nil {
			return err
		}
		res = model.BorrowResult{Book: book, Reader: reader, Loan: l}
		return nil
	})
	if err != nil {
		return model.BorrowResult{}, err
	}

	s.log.Info("loan created",
		zap.String("op", op),
		zap.Int("book_id", bookID),
		zap.String("cpf", cpf),
		zap.Time("due_at", res.Loan.DueAt))
	s.publisher.Publish(ctx, loanEvent(kafka.EventLoanCreated, res.Loan, s.now()))
	return res, nil
}

// lend opens a loan on a locked book and drops the reader from its queue.
func (s *Service) lend(ctx context.Context, tx repository.Tx, book *model.Book, reader model.Reader, now time.Time) (model.Loan, error) {
	l := s.rules.New(book.ID, reader.CPF, now)
	if err := tx.InsertLoan(ctx, l); err != nil {
		return model.Loan{}, err
	}
	if err := tx.SetBorrowedCopies(ctx, book.ID, book.BorrowedCopies+1); err != nil {
		return model.Loan{}, err
	}
	book.BorrowedCopies++
	if pos := book.QueuePosition(reader.CPF); pos > 0 {
		if err := tx.Dequeue(ctx, book.ID, reader.CPF); err != nil {
			return model.Loan{}, err
		}
		book.Queue = append(book.Queue[:pos-1:pos-1], book.Queue[pos:]...)
	}
	return l, nil
}

// Reserve puts the reader at the tail of the queue of a book with no copy on
// the shelf and returns the 1-based position.
func (s *Service) Reserve(ctx context.Context, bookID int, cpf string) (res model.ReserveResult, err error) {
	defer s.observe(opReserve, s.now(), &err)

	err = s.repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		book, err := tx.LockBook(ctx, bookID)
		if err != nil {
			return err
		}
		if err = tx.LockReaders(ctx, cpf); err != nil {
			return err
		}
		reader, err := tx.GetReader(ctx, cpf)
		if err != nil {
			return err
		}
		if err = loan.CanHold(reader, reader.Loans, bookID); err != nil {
			return err
		}
		if book.AvailableCopies() > 0 {
			return errs.ErrAlreadyAvailable
		}
		if book.QueuePosition(cpf) > 0 {
			return errs.ErrAlreadyReserved
		}
		entry := model.QueueEntry{ReaderCPF: cpf, ReaderName: reader.Name, ReservedAt: s.now()}
		if err = tx.Enqueue(ctx, bookID, entry); err != nil {
			return err
		}
		book.Queue = append(book.Queue, entry)
		res = model.ReserveResult{Book: book, Reader: reader, Position: len(book.Queue)}
		return nil
	})
	if err != nil {
		return model.ReserveResult{}, err
	}

	s.log.Info("reservation created", zap.Int("book_id", bookID), zap.String("cpf", cpf), zap.Int("position", res.Position))
	s.publisher.Publish(ctx, kafka.LedgerEvent{
		Timestamp: s.now(),
		EventType: kafka.EventReservationCreated,
		ReaderCPF: cpf,
		BookID:    bookID,
		Position:  res.Position,
	})
	return res, nil
}

func (s *Service) CancelReservation(ctx context.Context, bookID int, cpf string) (err error) {
	defer s.observe(opCancelReservation, s.now(), &err)

	err = s.repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		book, err := tx.LockBook(ctx, bookID)
		if err != nil {
			return err
		}
		if book.QueuePosition(cpf) == 0 {
			return errs.ErrNotReserved
		}
		if err = tx.LockReaders(ctx, cpf); err != nil {
			return err
		}
		return tx.Dequeue(ctx, bookID, cpf)
	})
	if err != nil {
		return err
	}

	s.log.Info("reservation cancelled", zap.Int("book_id", bookID), zap.String("cpf", cpf))
	s.publisher.Publish(ctx, kafka.LedgerEvent{
		Timestamp: s.now(),
		EventType: kafka.EventReservationCancelled,
		ReaderCPF: cpf,
		BookID:    bookID,
	})
	return nil
}

// ReturnLoan closes the open loan of cpf on bookID. The copy goes back to
// circulation whatever the debt, and the head of the queue gets it when
// eligible.
func (s *Service) ReturnLoan(ctx context.Context, bookID int, cpf string) (res model.ReturnResult, err error) {
	defer s.observe(opReturn, s.now(), &err)

	err = s.repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		book, err := tx.LockBook(ctx, bookID)
		if err != nil {
			return err
		}
		if err = tx.LockReaders(ctx, append(queuedCPFs(book), cpf)...); err != nil {
			return err
		}
		reader, err := tx.GetReader(ctx, cpf)
		if err != nil {
			return err
		}
		i, ok := loan.OpenLoan(reader.Loans, bookID)
		if !ok {
			return errs.ErrNoActiveLoan
		}
		now := s.now()
		closed := s.rules.Return(reader.Loans[i], now)
		if err = tx.UpdateLoan(ctx, closed); err != nil {
			return err
		}
		reader.Loans[i] = closed
		borrowed := book.BorrowedCopies - 1
		if borrowed < 0 {
			borrowed = 0
		}
		if err = tx.SetBorrowedCopies(ctx, bookID, borrowed); err != nil {
			return err
		}
		book.BorrowedCopies = borrowed

		res = model.ReturnResult{Book: book, Reader: reader, Loan: closed, Debt: closed.Debt}
		promoted, err := s.fillFromQueue(ctx, tx, &book, now)
		if err != nil {
			return err
		}
		res.Book = book
		if len(promoted) > 0 {
			res.Promoted = &promoted[0]
		}
		return nil
	})
	if err != nil {
		return model.ReturnResult{}, err
	}

	s.log.Info("loan returned",
		zap.Int("book_id", bookID),
		zap.String("cpf", cpf),
		zap.String("status", string(res.Loan.Status)),
		zap.Stringer("debt", res.Debt))
	events := []kafka.LedgerEvent{loanEvent(kafka.EventLoanReturned, res.Loan, s.now())}
	if res.Promoted != nil {
		events = append(events, s.promotionEvents(*res.Promoted)...)
	}
	s.publisher.Publish(ctx, events...)
	return res, nil
}

// fillFromQueue lends free copies to the queue in order. It stops at the
// first head that may not borrow, which keeps its position. Every queued
// reader must already be locked by tx.
func (s *Service) fillFromQueue(ctx context.Context, tx repository.Tx, book *model.Book, now time.Time) ([]model.BorrowResult, error) {
	var lent []model.BorrowResult
	for book.AvailableCopies() > 0 && len(book.Queue) > 0 {
		head := book.Queue[0].ReaderCPF
		reader, err := tx.GetReader(ctx, head)
		if errors.Is(err, errs.ErrReaderNotFound) {
			s.log.Warn("stale queue entry", zap.Int("book_id", book.ID), zap.String("cpf", head))
			if err = tx.Dequeue(ctx, book.ID, head); err != nil && !errors.Is(err, errs.ErrNotReserved) {
				return nil, err
			}
			book.Queue = book.Queue[1:]
			continue
		}
		if err != nil {
			return nil, err
		}
		if err = s.rules.CanBorrow(reader, reader.Loans, book.ID, now); err != nil {
			s.log.Info("queue head not eligible",
				zap.Int("book_id", book.ID),
				zap.String("cpf", head),
				zap.String("reason", err.Error()))
			break
		}
		l, err := s.lend(ctx, tx, book, reader, now)
		if err != nil {
			return nil, err
		}
		lent = append(lent, model.BorrowResult{Book: *book, Reader: reader, Loan: l})
	}
	return lent, nil
}

// promotionEvents records loans created from the queue once committed.
func (s *Service) promotionEvents(promoted ...model.BorrowResult) []kafka.LedgerEvent {
	events := make([]kafka.LedgerEvent, 0, len(promoted))
	for _, p := range promoted {
		s.observer.Promoted()
		s.log.Info("reservation promoted", zap.Int("book_id", p.Loan.BookID), zap.String("cpf", p.Reader.CPF))
		events = append(events, loanEvent(kafka.EventReservationPromoted, p.Loan, s.now()))
	}
	return events
}

func queuedCPFs(book model.Book) []string {
	cpfs := make([]string, 0, len(book.Queue))
	for _, e := range book.Queue {
		cpfs = append(cpfs, e.ReaderCPF)
	}
	return cpfs
}

// SettleDebt marks the pending debt of a returned loan as paid.
func (s *Service) SettleDebt(ctx context.Context, bookID int, cpf string) (res model.SettleResult, err error) {
	defer s.observe(opSettleDebt, s.now(), &err)

	err = s.repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		book, err := tx.LockBook(ctx, bookID)
		if err != nil {
			return err
		}
		if err = tx.LockReaders(ctx, cpf); err != nil {
			return err
		}
		reader, err := tx.GetReader(ctx, cpf)
		if err != nil {
			return err
		}
		i, ok := loan.PendingLoan(reader.Loans, bookID)
		if !ok {
			return errs.ErrNoPendingDebt
		}
		settled, err := loan.Settle(reader.Loans[i])
		if err != nil {
			return err
		}
		if err = tx.UpdateLoan(ctx, settled); err != nil {
			return err
		}
		reader.Loans[i] = settled
		res = model.SettleResult{Book: book, Reader: reader, Loan: settled, Paid: settled.DebtPaid}
		return nil
	})
	if err != nil {
		return model.SettleResult{}, err
	}

	s.observer.DebtSettled(int64(res.Paid))
	s.log.Info("debt settled", zap.Int("book_id", bookID), zap.String("cpf", cpf), zap.Stringer("paid", res.Paid))
	s.publisher.Publish(ctx, loanEvent(kafka.EventDebtSettled, res.Loan, s.now()))
	return res, nil
}

// Renew extends the open loan by one loan period.
func (s *Service) Renew(ctx context.Context, bookID int, cpf string) (res model.RenewResult, err error) {
	defer s.observe(opRenew, s.now(), &err)

	err = s.repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		book, err := tx.LockBook(ctx, bookID)
		if err != nil {
			return err
		}
		if err = tx.LockReaders(ctx, cpf); err != nil {
			return err
		}
		reader, err := tx.GetReader(ctx, cpf)
		if err != nil {
			return err
		}
		i, ok := loan.OpenLoan(reader.Loans, bookID)
		if !ok {
			return errs.ErrNoActiveLoan
		}
		now := s.now()
		renewed, err := s.rules.Renew(reader.Loans[i], s.rules.ReaderDebt(reader.Loans, now), now)
		if err != nil {
			return err
		}
		if err = tx.UpdateLoan(ctx, renewed); err != nil {
			return err
		}
		reader.Loans[i] = renewed
		res = model.RenewResult{Book: book, Reader: reader, Loan: renewed}
		return nil
	})
	if err != nil {
		return model.RenewResult{}, err
	}

	s.log.Info("loan renewed", zap.Int("book_id", bookID), zap.String("cpf", cpf), zap.Time("due_at", res.Loan.DueAt))
	s.publisher.Publish(ctx, loanEvent(kafka.EventLoanRenewed, res.Loan, s.now()))
	return res, nil
}

// ComputeDebt is the amount owed on l right now.
func (s *Service) ComputeDebt(l model.Loan) model.Money {
	return s.rules.Debt(l, s.now())
}

// ReaderDebt sums what the reader owes and lists the loans it comes from.
func (s *Service) ReaderDebt(ctx context.Context, cpf string) (model.ReaderDebt, error) {
	reader, err := s.repo.GetReader(ctx, cpf)
	if err != nil {
		return model.ReaderDebt{}, err
	}
	now := s.now()
	res := model.ReaderDebt{Reader: s.present(reader, now), Loans: []model.LoanDebt{}}
	for _, l := range reader.Loans {
		owed := s.rules.Outstanding(l, now)
		if owed == 0 {
			continue
		}
		res.Total += owed
		res.Loans = append(res.Loans, model.LoanDebt{
			LoanID:     l.ID.String(),
			BookID:     l.BookID,
			BorrowedAt: l.BorrowedAt,
			DueAt:      l.DueAt,
			Status:     loan.StatusAt(l, now),
			Debt:       owed,
		})
	}
	return res, nil
}

// present fills the derived status and running debt of every loan.
func (s *Service) present(reader model.Reader, now time.Time) model.Reader {
	loans := make([]model.Loan, len(reader.Loans))
	for i, l := range reader.Loans {
		if l.Status.Open() {
			l.Debt = s.rules.Debt(l, now)
		}
		l.Status = loan.StatusAt(l, now)
		loans[i] = l
	}
	reader.Loans = loans
	if reader.Reservations == nil {
		reader.Reservations = []int{}
	}
	return reader
}

func (s *Service) observe(op string, start time.Time, err *error) {
	s.observer.Observe(op, start, *err)
	if *err != nil && !errs.IsBusiness(*err) {
		s.log.Error(op, zap.Error(*err))
	}
}

func loanEvent(t kafka.EventType, l model.Loan, at time.Time) kafka.LedgerEvent {
	ev := kafka.LedgerEvent{
		Timestamp: at,
		EventType: t,
		ReaderCPF: l.ReaderCPF,
		BookID:    l.BookID,
		LoanID:    l.ID.String(),
		DueAt:     l.DueAt,
	}
	switch t {
	case kafka.EventLoanReturned:
		ev.AmountCents = int64(l.Debt)
	case kafka.EventDebtSettled:
		ev.AmountCents = int64(l.DebtPaid)
	}
	return ev
}
