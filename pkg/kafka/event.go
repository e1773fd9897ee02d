package kafka

import "time"

type EventType string

const (
	EventLoanCreated          EventType = "LOAN_CREATED"
	EventLoanRenewed          EventType = "LOAN_RENEWED"
	EventLoanReturned         EventType = "LOAN_RETURNED"
	EventDebtSettled          EventType = "DEBT_SETTLED"
	EventReservationCreated   EventType = "RESERVATION_CREATED"
	EventReservationCancelled EventType = "RESERVATION_CANCELLED"
	EventReservationPromoted  EventType = "RESERVATION_PROMOTED"
)

// LedgerEvent is the message published on LedgerTopic after every
// committed ledger mutation.
type LedgerEvent struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	EventType   EventType `json:"event_type"`
	ReaderCPF   string    `json:"cpf"`
	BookID      int       `json:"livro_id"`
	LoanID      string    `json:"emprestimo_id,omitempty"`
	DueAt       time.Time `json:"data_devolucao_prevista,omitempty"`
	AmountCents int64     `json:"valor_centavos,omitempty"`
	Position    int       `json:"posicao_fila,omitempty"`
}
