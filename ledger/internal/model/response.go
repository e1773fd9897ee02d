package model

const DisplayDate = "02/01/2006"

type OKResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type BookResponse struct {
	Success bool `json:"success"`
	Book    Book `json:"livro"`
}

type BorrowResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reader  string `json:"leitor,omitempty"`
	Book    string `json:"livro"`
	DueDate string `json:"data_devolucao"`
	Loan    Loan   `json:"emprestimo"`
}

type ReserveResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Book     string `json:"livro"`
	Position int    `json:"posicao_fila"`
}

type Promotion struct {
	Reader  string `json:"leitor"`
	CPF     string `json:"cpf"`
	DueDate string `json:"data_devolucao"`
}

type ReturnResponse struct {
	Success  bool       `json:"success"`
	Message  string     `json:"message"`
	Reader   string     `json:"leitor"`
	Book     string     `json:"livro"`
	Debt     Money      `json:"debito"`
	Promoted *Promotion `json:"emprestimo_automatico,omitempty"`
}

type SettleResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reader  string `json:"leitor"`
	Book    string `json:"livro"`
	Paid    Money  `json:"valor_pago"`
}

type RenewResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Reader     string `json:"leitor"`
	Book       string `json:"livro"`
	NewDueDate string `json:"nova_data_devolucao"`
}

type DebtResponse struct {
	Success bool       `json:"success"`
	Reader  string     `json:"leitor"`
	CPF     string     `json:"cpf"`
	Total   Money      `json:"debito_total"`
	Loans   []LoanDebt `json:"emprestimos"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Role    Role   `json:"role"`
}
