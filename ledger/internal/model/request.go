package model

type LoanRequest struct {
	ReaderCPF string `json:"cpf_leitor" validate:"required"`
	BookID    int    `json:"livro_id" validate:"required,gt=0"`
}

type BookIDRequest struct {
	BookID int `json:"livro_id" validate:"required,gt=0"`
}

type BookRequest struct {
	Title       string   `json:"titulo" validate:"required"`
	Author      string   `json:"autor" validate:"required"`
	Publisher   string   `json:"editora" validate:"required"`
	Edition     string   `json:"edicao" validate:"required"`
	ISBN        string   `json:"isbn"`
	Categories  []string `json:"categorias"`
	Year        *int     `json:"ano"`
	Location    string   `json:"localizacao" validate:"required"`
	TotalCopies *int     `json:"exemplares_totais" validate:"required,gte=1"`
}

// BookPatch carries the fields an update may change; nil keeps the stored value.
type BookPatch struct {
	Title       *string   `json:"titulo"`
	Author      *string   `json:"autor"`
	Publisher   *string   `json:"editora"`
	Edition     *string   `json:"edicao"`
	ISBN        *string   `json:"isbn"`
	Categories  *[]string `json:"categorias"`
	Year        *int      `json:"ano"`
	Location    *string   `json:"localizacao"`
	TotalCopies *int      `json:"exemplares_totais" validate:"omitempty,gte=0"`
}

type LoginRequest struct {
	CPF      string `json:"cpf" validate:"required"`
	Password string `json:"senha" validate:"required"`
}

type RegisterRequest struct {
	Name               string `json:"nome" validate:"required"`
	CPF                string `json:"cpf" validate:"required,cpf"`
	Email              string `json:"email" validate:"required,email"`
	RegistrationNumber string `json:"matricula" validate:"required"`
	Password           string `json:"senha" validate:"required,min=6"`
	Role               Role   `json:"role" validate:"required,oneof=funcionario estudante professor"`
}
