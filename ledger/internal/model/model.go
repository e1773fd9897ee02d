package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleEmployee  Role = "funcionario"
	RoleStudent   Role = "estudante"
	RoleProfessor Role = "professor"
)

type LoanStatus string

const (
	StatusActive                  LoanStatus = "ativo"
	StatusOverdue                 LoanStatus = "em atraso"
	StatusReturnedOnTime          LoanStatus = "devolvido"
	StatusReturnedWithPendingDebt LoanStatus = "devolvido-em-atraso"
	StatusSettled                 LoanStatus = "debito-quitado"
)

// Open reports whether the loan still holds a copy.
func (s LoanStatus) Open() bool {
	return s == StatusActive || s == StatusOverdue
}

type Book struct {
	ID             int          `json:"id" db:"id"`
	Title          string       `json:"titulo" db:"title"`
	Author         string       `json:"autor" db:"author"`
	Publisher      string       `json:"editora" db:"publisher"`
	Edition        string       `json:"edicao" db:"edition"`
	ISBN           string       `json:"isbn" db:"isbn"`
	Categories     []string     `json:"categorias" db:"categories"`
	Year           *int         `json:"ano" db:"year"`
	Location       string       `json:"localizacao" db:"location"`
	TotalCopies    int          `json:"exemplares_totais" db:"total_copies"`
	BorrowedCopies int          `json:"exemplares_emprestados" db:"borrowed_copies"`
	Queue          []QueueEntry `json:"fila_reservas" db:"-"`
}

func (b Book) AvailableCopies() int {
	if n := b.TotalCopies - b.BorrowedCopies; n > 0 {
		return n
	}
	return 0
}

func (b Book) QueuePosition(cpf string) int {
	for i := range b.Queue {
		if b.Queue[i].ReaderCPF == cpf {
			return i + 1
		}
	}
	return 0
}

func (b Book) MarshalJSON() ([]byte, error) {
	type book Book
	queue := b.Queue
	if queue == nil {
		queue = []QueueEntry{}
	}
	categories := b.Categories
	if categories == nil {
		categories = []string{}
	}
	bb := book(b)
	bb.Queue, bb.Categories = queue, categories
	return json.Marshal(struct {
		book
		Available int `json:"exemplares_disponiveis"`
	}{bb, b.AvailableCopies()})
}

type QueueEntry struct {
	ReaderCPF  string    `json:"cpf_leitor" db:"reader_cpf"`
	ReaderName string    `json:"nome_leitor" db:"reader_name"`
	ReservedAt time.Time `json:"data_reserva" db:"reserved_at"`
}

type Reader struct {
	CPF                string    `json:"cpf" db:"cpf"`
	Name               string    `json:"nome" db:"name"`
	Email              string    `json:"email" db:"email"`
	RegistrationNumber string    `json:"matricula" db:"registration_number"`
	Role               Role      `json:"role" db:"role"`
	PasswordHash       string    `json:"-" db:"password_hash"`
	CreatedAt          time.Time `json:"-" db:"created_at"`
	Loans              []Loan    `json:"emprestimos" db:"-"`
	Reservations       []int     `json:"reservas" db:"-"`
}

type Loan struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	BookID        int        `json:"livro_id" db:"book_id"`
	ReaderCPF     string     `json:"cpf" db:"reader_cpf"`
	BorrowedAt    time.Time  `json:"data_emprestimo" db:"borrowed_at"`
	DueAt         time.Time  `json:"data_devolucao_prevista" db:"due_at"`
	ReturnedAt    *time.Time `json:"data_devolucao_real" db:"returned_at"`
	Debt          Money      `json:"debito" db:"debt_cents"`
	DebtPaid      Money      `json:"debito_pago" db:"debt_paid_cents"`
	Status        LoanStatus `json:"status" db:"status"`
	WasEverInDebt bool       `json:"ja_esteve_em_debito" db:"was_ever_in_debt"`
}

type ListReaders struct {
	Success bool     `json:"success"`
	Readers []Reader `json:"usuarios"`
}
