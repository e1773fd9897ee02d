package model

import "time"

// Results returned by the ledger. Handlers turn them into responses.

type BorrowResult struct {
	Book   Book
	Reader Reader
	Loan   Loan
}

type ReserveResult struct {
	Book     Book
	Reader   Reader
	Position int
}

type ReturnResult struct {
	Book   Book
	Reader Reader
	Loan   Loan
	Debt   Money
	// Promoted is the queue head that received the returned copy, if any.
	Promoted *BorrowResult
}

type SettleResult struct {
	Book   Book
	Reader Reader
	Loan   Loan
	Paid   Money
}

type RenewResult struct {
	Book   Book
	Reader Reader
	Loan   Loan
}

type LoanDebt struct {
	LoanID     string     `json:"id"`
	BookID     int        `json:"livro_id"`
	BorrowedAt time.Time  `json:"data_emprestimo"`
	DueAt      time.Time  `json:"data_devolucao_prevista"`
	Status     LoanStatus `json:"status"`
	Debt       Money      `json:"debito"`
}

type ReaderDebt struct {
	Reader Reader
	Total  Money
	Loans  []LoanDebt
}
