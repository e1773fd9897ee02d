package errs

import (
	"errors"
)

var (
	ErrBookNotFound   = errors.New("livro não encontrado")
	ErrReaderNotFound = errors.New("leitor não encontrado")

	ErrNoCopiesAvailable   = errors.New("não há exemplares disponíveis, você pode fazer uma reserva")
	ErrAlreadyAvailable    = errors.New("há exemplares disponíveis, empreste o livro diretamente ao invés de reservar")
	ErrAlreadyReserved     = errors.New("o leitor já possui uma reserva para este livro")
	ErrNotReserved         = errors.New("o leitor não possui reserva para este livro")
	ErrDuplicateActiveLoan = errors.New("o leitor já possui um exemplar deste livro emprestado")
	ErrNoActiveLoan        = errors.New("empréstimo ativo não encontrado para este livro")
	ErrNoPendingDebt       = errors.New("empréstimo com débito pendente não encontrado para este livro")
	ErrOutstandingDebt     = errors.New("não é possível renovar com débito pendente")
	ErrRenewalWindowClosed = errors.New("renovação não permitida, o prazo de renovação já encerrou")

	ErrEmployeeCannotBorrow = errors.New("funcionários não podem pegar livros emprestados")
	ErrLoanLimitReached     = errors.New("limite máximo de livros emprestados atingido")
	ErrDebtLimitExceeded    = errors.New("o débito do leitor não permite novos empréstimos")

	ErrInvalidCopies      = errors.New("exemplares totais não podem ser menores que os emprestados")
	ErrBookHasLoans       = errors.New("não é possível deletar um livro com exemplares emprestados")
	ErrReaderExists       = errors.New("CPF ou matrícula já cadastrados")
	ErrReaderHasLoans     = errors.New("não é possível remover um leitor com empréstimos ou débitos pendentes")
	ErrInvalidCredentials = errors.New("CPF ou senha incorretos")
	ErrForbidden          = errors.New("operação não permitida para este usuário")
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var business = []error{
	ErrBookNotFound, ErrReaderNotFound, ErrNoCopiesAvailable, ErrAlreadyAvailable,
	ErrAlreadyReserved, ErrNotReserved, ErrDuplicateActiveLoan, ErrNoActiveLoan,
	ErrNoPendingDebt, ErrOutstandingDebt, ErrRenewalWindowClosed, ErrEmployeeCannotBorrow,
	ErrLoanLimitReached, ErrDebtLimitExceeded, ErrInvalidCopies, ErrBookHasLoans,
	ErrReaderExists, ErrReaderHasLoans, ErrInvalidCredentials, ErrForbidden,
}

// IsBusiness reports whether err is a rule violation rather than a fault.
func IsBusiness(err error) bool {
	for _, b := range business {
		if errors.Is(err, b) {
			return true
		}
	}
	return false
}
