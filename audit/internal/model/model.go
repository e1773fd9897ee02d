package model

import (
	"time"

	"github.com/Astemirdum/library-ledger/pkg/kafka"
)

type Event struct {
	ID          string          `json:"id" db:"id"`
	Type        kafka.EventType `json:"tipo" db:"event_type"`
	CPF         string          `json:"cpf" db:"cpf"`
	BookID      int             `json:"livro_id" db:"book_id"`
	LoanID      *string         `json:"emprestimo_id,omitempty" db:"loan_id"`
	DueAt       *time.Time      `json:"data_devolucao_prevista,omitempty" db:"due_at"`
	AmountCents int64           `json:"valor_centavos,omitempty" db:"amount_cents"`
	Position    int             `json:"posicao_fila,omitempty" db:"position"`
	OccurredAt  time.Time       `json:"ocorrido_em" db:"occurred_at"`
}

func FromLedger(e kafka.LedgerEvent) Event {
	ev := Event{
		ID:          e.ID,
		Type:        e.EventType,
		CPF:         e.ReaderCPF,
		BookID:      e.BookID,
		AmountCents: e.AmountCents,
		Position:    e.Position,
		OccurredAt:  e.Timestamp,
	}
	if e.LoanID != "" {
		id := e.LoanID
		ev.LoanID = &id
	}
	if !e.DueAt.IsZero() {
		due := e.DueAt
		ev.DueAt = &due
	}
	return ev
}

type History struct {
	Success bool    `json:"success"`
	CPF     string  `json:"cpf"`
	Events  []Event `json:"eventos"`
}

type Stats struct {
	Success      bool                      `json:"success"`
	Total        int64                     `json:"total"`
	ByType       map[kafka.EventType]int64 `json:"por_tipo"`
	SettledCents int64                     `json:"valor_quitado_centavos"`
}
