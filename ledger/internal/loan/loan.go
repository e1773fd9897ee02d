// Package loan holds the pure lending rules: due dates, debt accrual,
// renewal window and borrow eligibility. Nothing here touches storage.
package loan

import (
	"time"

	"github.com/Astemirdum/library-ledger/ledger/internal/errs"
	"github.com/Astemirdum/library-ledger/ledger/internal/model"
	"github.com/google/uuid"
)

const day = 24 * time.Hour

type Rules struct {
	LoanDays          int         `envconfig:"LEDGER_LOAN_DAYS" default:"14"`
	RenewalNoticeDays int         `envconfig:"LEDGER_RENEWAL_NOTICE_DAYS" default:"5"`
	DailyFine         model.Money `envconfig:"LEDGER_DAILY_FINE" default:"1.00"`
	MaxActiveLoans    int         `envconfig:"LEDGER_MAX_ACTIVE_LOANS" default:"3"`
	MaxDebt           model.Money `envconfig:"LEDGER_MAX_DEBT" default:"10.00"`
}

func DefaultRules() Rules {
	return Rules{
		LoanDays:          14,
		RenewalNoticeDays: 5,
		DailyFine:         100 * model.Cent,
		MaxActiveLoans:    3,
		MaxDebt:           1000 * model.Cent,
	}
}

func (r Rules) loanPeriod() time.Duration {
	return time.Duration(r.LoanDays) * day
}

// New opens a loan of bookID for cpf at now.
func (r Rules) New(bookID int, cpf string, now time.Time) model.Loan {
	return model.Loan{
		ID:         uuid.New(),
		BookID:     bookID,
		ReaderCPF:  cpf,
		BorrowedAt: now,
		DueAt:      now.Add(r.loanPeriod()),
		Status:     model.StatusActive,
	}
}

// StatusAt derives the displayed status. Stored open loans are always
// active; overdue is a function of time.
func StatusAt(l model.Loan, now time.Time) model.LoanStatus {
	if l.Status.Open() {
		if now.After(l.DueAt) {
			return model.StatusOverdue
		}
		return model.StatusActive
	}
	return l.Status
}

// Debt is the amount owed on l at now. Returned loans report what was fixed
// at return time, settled loans report what was paid.
func (r Rules) Debt(l model.Loan, now time.Time) model.Money {
	switch l.Status {
	case model.StatusReturnedOnTime:
		return 0
	case model.StatusSettled:
		return l.DebtPaid
	case model.StatusReturnedWithPendingDebt:
		return l.Debt
	}
	if !now.After(l.DueAt) {
		return 0
	}
	daysLate := int64(now.Sub(l.DueAt) / day)
	return model.Money(daysLate) * r.DailyFine
}

// Outstanding is the debt still owed on l: accruing fines of an open loan
// or the unpaid amount of a returned one.
func (r Rules) Outstanding(l model.Loan, now time.Time) model.Money {
	if l.Status == model.StatusSettled {
		return 0
	}
	return r.Debt(l, now)
}

func (r Rules) ReaderDebt(loans []model.Loan, now time.Time) model.Money {
	var total model.Money
	for i := range loans {
		total += r.Outstanding(loans[i], now)
	}
	return total
}

func OpenLoan(loans []model.Loan, bookID int) (int, bool) {
	for i := range loans {
		if loans[i].BookID == bookID && loans[i].Status.Open() {
			return i, true
		}
	}
	return -1, false
}

func PendingLoan(loans []model.Loan, bookID int) (int, bool) {
	for i := range loans {
		if loans[i].BookID == bookID && loans[i].Status == model.StatusReturnedWithPendingDebt {
			return i, true
		}
	}
	return -1, false
}

func countOpen(loans []model.Loan) int {
	n := 0
	for i := range loans {
		if loans[i].Status.Open() {
			n++
		}
	}
	return n
}

// CanHold checks the reader-level restrictions shared by borrowing and
// reserving: role and a duplicate copy of the same title.
func CanHold(reader model.Reader, loans []model.Loan, bookID int) error {
	if reader.Role == model.RoleEmployee {
		return errs.ErrEmployeeCannotBorrow
	}
	if _, ok := OpenLoan(loans, bookID); ok {
		return errs.ErrDuplicateActiveLoan
	}
	return nil
}

// CanBorrow checks everything about the reader that gates a new loan.
// Copy availability is the caller's concern.
func (r Rules) CanBorrow(reader model.Reader, loans []model.Loan, bookID int, now time.Time) error {
	if err := CanHold(reader, loans, bookID); err != nil {
		return err
	}
	if r.MaxActiveLoans > 0 && countOpen(loans) >= r.MaxActiveLoans {
		return errs.ErrLoanLimitReached
	}
	if r.MaxDebt > 0 && r.ReaderDebt(loans, now) >= r.MaxDebt {
		return errs.ErrDebtLimitExceeded
	}
	return nil
}

// Return closes an open loan at now.
func (r Rules) Return(l model.Loan, now time.Time) model.Loan {
	debt := r.Debt(l, now)
	returned := now
	l.ReturnedAt = &returned
	l.Debt = debt
	if debt > 0 {
		l.Status = model.StatusReturnedWithPendingDebt
		l.WasEverInDebt = true
	} else {
		l.Status = model.StatusReturnedOnTime
	}
	return l
}

func Settle(l model.Loan) (model.Loan, error) {
	if l.Status != model.StatusReturnedWithPendingDebt || l.Debt <= 0 {
		return l, errs.ErrNoPendingDebt
	}
	l.DebtPaid = l.Debt
	l.Status = model.StatusSettled
	return l, nil
}

// Renew pushes the due date of an open loan by one loan period. readerDebt
// is the debt the reader owes across all loans.
func (r Rules) Renew(l model.Loan, readerDebt model.Money, now time.Time) (model.Loan, error) {
	if !l.Status.Open() {
		return l, errs.ErrNoActiveLoan
	}
	if readerDebt > 0 || r.Debt(l, now) > 0 {
		return l, errs.ErrOutstandingDebt
	}
	if StatusAt(l, now) == model.StatusOverdue {
		return l, errs.ErrNoActiveLoan
	}
	closes := l.DueAt.Add(-time.Duration(r.RenewalNoticeDays) * day)
	if now.After(closes) {
		return l, errs.ErrRenewalWindowClosed
	}
	l.DueAt = l.DueAt.Add(r.loanPeriod())
	return l, nil
}
