package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-ledger/ledger/internal/errs"
	"github.com/Astemirdum/library-ledger/ledger/internal/handler"
	"github.com/Astemirdum/library-ledger/ledger/internal/model"
	"github.com/Astemirdum/library-ledger/pkg/auth"

	service_mocks "github.com/Astemirdum/library-ledger/ledger/internal/handler/mocks"
)

const (
	studentCPF = "52998224725"
	staffCPF   = "86288366757"
)

var tokens = auth.NewTokenManager(auth.Config{Secret: "0123456789abcdef0123456789abcdef", TokenTTL: time.Hour})

func bearer(t *testing.T, cpf string, role model.Role) string {
	t.Helper()
	token, err := tokens.Issue(cpf, string(role))
	require.NoError(t, err)
	return "Bearer " + token
}

var (
	book     = model.Book{ID: 1, Title: "Dom Casmurro", TotalCopies: 1}
	ana      = model.Reader{CPF: studentCPF, Name: "Ana", Role: model.RoleStudent}
	bruno    = model.Reader{CPF: "11144477735", Name: "Bruno", Role: model.RoleProfessor}
	day0     = time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	openLoan = model.Loan{BookID: 1, ReaderCPF: studentCPF, BorrowedAt: day0, DueAt: day0.Add(14 * 24 * time.Hour), Status: model.StatusActive}
)

type request struct {
	method string
	path   string
	body   string
	auth   string
}

type response struct {
	expectedCode int
	expectedBody string
}

type mockBehavior func(r *service_mocks.MockLedgerService)

func run(t *testing.T, mb mockBehavior, req request, resp response) {
	t.Helper()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLedgerService(c)
	h := handler.New(svc, tokens, zap.NewExample().Named("test"))
	e := h.NewRouter()

	r := httptest.NewRequest(req.method, req.path, http.NoBody)
	if req.body != "" {
		r = httptest.NewRequest(req.method, req.path, strings.NewReader(req.body))
	}
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if req.auth != "" {
		r.Header.Set(echo.HeaderAuthorization, req.auth)
	}
	w := httptest.NewRecorder()

	mb(svc)
	e.ServeHTTP(w, r)

	require.Equal(t, resp.expectedCode, w.Code, w.Body.String())
	if resp.expectedBody != "" {
		require.Equal(t, resp.expectedBody, strings.Trim(w.Body.String(), "\n"))
	}
}

func TestHandler_Ledger(t *testing.T) {
	t.Parallel()
	staff := bearer(t, staffCPF, model.RoleEmployee)
	student := bearer(t, studentCPF, model.RoleStudent)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		request      request
		response     response
	}{
		{
			name:         "borrow staff. no token",
			mockBehavior: func(r *service_mocks.MockLedgerService) {},
			request:      request{method: http.MethodPost, path: "/api/emprestimos/emprestar", body: `{"cpf_leitor":"52998224725","livro_id":1}`},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"success":false,"message":"No Authorization Header"}`,
			},
		},
		{
			name:         "borrow staff. reader token",
			mockBehavior: func(r *service_mocks.MockLedgerService) {},
			request:      request{method: http.MethodPost, path: "/api/emprestimos/emprestar", body: `{"cpf_leitor":"52998224725","livro_id":1}`, auth: student},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"success":false,"message":"operação permitida apenas para: funcionario"}`,
			},
		},
		{
			name: "borrow staff. no copies",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().BorrowViaStaffAssist(gomock.Any(), 1, studentCPF).
					Return(model.BorrowResult{}, errs.ErrNoCopiesAvailable)
			},
			request: request{method: http.MethodPost, path: "/api/emprestimos/emprestar", body: `{"cpf_leitor":"529.982.247-25","livro_id":1}`, auth: staff},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"success":false,"message":"não há exemplares disponíveis, você pode fazer uma reserva"}`,
			},
		},
		{
			name: "borrow staff. unknown reader",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().BorrowViaStaffAssist(gomock.Any(), 1, "11144477735").
					Return(model.BorrowResult{}, errs.ErrReaderNotFound)
			},
			request: request{method: http.MethodPost, path: "/api/emprestimos/emprestar", body: `{"cpf_leitor":"11144477735","livro_id":1}`, auth: staff},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"success":false,"message":"leitor não encontrado"}`,
			},
		},
		{
			name:         "borrow staff. missing book",
			mockBehavior: func(r *service_mocks.MockLedgerService) {},
			request:      request{method: http.MethodPost, path: "/api/emprestimos/emprestar", body: `{"cpf_leitor":"11144477735"}`, auth: staff},
			response:     response{expectedCode: http.StatusBadRequest},
		},
		{
			name: "borrow direct. duplicate",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().BorrowDirect(gomock.Any(), 1, studentCPF).
					Return(model.BorrowResult{}, errs.ErrDuplicateActiveLoan)
			},
			request: request{method: http.MethodPost, path: "/api/emprestimos/emprestar-direto", body: `{"livro_id":1}`, auth: student},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"success":false,"message":"o leitor já possui um exemplar deste livro emprestado"}`,
			},
		},
		{
			name: "borrow direct. storage down",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().BorrowDirect(gomock.Any(), 1, studentCPF).
					Return(model.BorrowResult{}, errors.New("db internal"))
			},
			request: request{method: http.MethodPost, path: "/api/emprestimos/emprestar-direto", body: `{"livro_id":1}`, auth: student},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"success":false,"message":"db internal"}`,
			},
		},
		{
			name: "reserve. ok",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().Reserve(gomock.Any(), 1, studentCPF).
					Return(model.ReserveResult{Book: book, Reader: ana, Position: 1}, nil)
			},
			request: request{method: http.MethodPost, path: "/api/emprestimos/reservar", body: `{"livro_id":1}`, auth: student},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"success":true,"message":"reserva realizada com sucesso","livro":"Dom Casmurro","posicao_fila":1}`,
			},
		},
		{
			name: "reserve. copies on shelf",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().Reserve(gomock.Any(), 1, studentCPF).
					Return(model.ReserveResult{}, errs.ErrAlreadyAvailable)
			},
			request: request{method: http.MethodPost, path: "/api/emprestimos/reservar", body: `{"livro_id":1}`, auth: student},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"success":false,"message":"há exemplares disponíveis, empreste o livro diretamente ao invés de reservar"}`,
			},
		},
		{
			name: "cancel reservation. own cpf implied",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().CancelReservation(gomock.Any(), 1, studentCPF).Return(nil)
			},
			request: request{method: http.MethodPost, path: "/api/emprestimos/cancelar-reserva", body: `{"livro_id":1}`, auth: student},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"message":"reserva cancelada com sucesso"}`,
			},
		},
		{
			name:         "renew. someone else's loan",
			mockBehavior: func(r *service_mocks.MockLedgerService) {},
			request:      request{method: http.MethodPost, path: "/api/emprestimos/renovar", body: `{"cpf_leitor":"11144477735","livro_id":1}`, auth: student},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"success":false,"message":"operação não permitida para este usuário"}`,
			},
		},
		{
			name: "renew. ok",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				renewed := openLoan
				renewed.DueAt = openLoan.DueAt.Add(14 * 24 * time.Hour)
				r.EXPECT().Renew(gomock.Any(), 1, studentCPF).
					Return(model.RenewResult{Book: book, Reader: ana, Loan: renewed}, nil)
			},
			request: request{method: http.MethodPost, path: "/api/emprestimos/renovar", body: `{"cpf_leitor":"52998224725","livro_id":1}`, auth: student},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"message":"empréstimo renovado com sucesso","leitor":"Ana","livro":"Dom Casmurro","nova_data_devolucao":"11/04/2024"}`,
			},
		},
		{
			name: "renew. window closed",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().Renew(gomock.Any(), 1, studentCPF).
					Return(model.RenewResult{}, errs.ErrRenewalWindowClosed)
			},
			request: request{method: http.MethodPost, path: "/api/emprestimos/renovar", body: `{"livro_id":1}`, auth: student},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"success":false,"message":"renovação não permitida, o prazo de renovação já encerrou"}`,
			},
		},
		{
			name: "return. promotes queue head",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				promoted := model.Loan{BookID: 1, ReaderCPF: bruno.CPF, DueAt: time.Date(2024, time.April, 17, 9, 0, 0, 0, time.UTC)}
				r.EXPECT().ReturnLoan(gomock.Any(), 1, studentCPF).
					Return(model.ReturnResult{
						Book:     book,
						Reader:   ana,
						Debt:     600,
						Promoted: &model.BorrowResult{Book: book, Reader: bruno, Loan: promoted},
					}, nil)
			},
			request: request{method: http.MethodPost, path: "/api/emprestimos/devolver", body: `{"cpf_leitor":"52998224725","livro_id":1}`, auth: staff},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"message":"devolução registrada com débito pendente de R$ 6.00","leitor":"Ana","livro":"Dom Casmurro","debito":6.00,"emprestimo_automatico":{"leitor":"Bruno","cpf":"11144477735","data_devolucao":"17/04/2024"}}`,
			},
		},
		{
			name: "return. nothing to return",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().ReturnLoan(gomock.Any(), 1, studentCPF).
					Return(model.ReturnResult{}, errs.ErrNoActiveLoan)
			},
			request: request{method: http.MethodPost, path: "/api/emprestimos/devolver", body: `{"cpf_leitor":"52998224725","livro_id":1}`, auth: staff},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"success":false,"message":"empréstimo ativo não encontrado para este livro"}`,
			},
		},
		{
			name: "settle. ok",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().SettleDebt(gomock.Any(), 1, studentCPF).
					Return(model.SettleResult{Book: book, Reader: ana, Paid: 600}, nil)
			},
			request: request{method: http.MethodPost, path: "/api/emprestimos/retirar-debito", body: `{"cpf_leitor":"52998224725","livro_id":1}`, auth: staff},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"message":"débito quitado com sucesso","leitor":"Ana","livro":"Dom Casmurro","valor_pago":6.00}`,
			},
		},
		{
			name: "settle. twice",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().SettleDebt(gomock.Any(), 1, studentCPF).
					Return(model.SettleResult{}, errs.ErrNoPendingDebt)
			},
			request: request{method: http.MethodPost, path: "/api/emprestimos/retirar-debito", body: `{"cpf_leitor":"52998224725","livro_id":1}`, auth: staff},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"success":false,"message":"empréstimo com débito pendente não encontrado para este livro"}`,
			},
		},
		{
			name: "debt. own",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().ReaderDebt(gomock.Any(), studentCPF).
					Return(model.ReaderDebt{Reader: ana, Total: 0, Loans: []model.LoanDebt{}}, nil)
			},
			request: request{method: http.MethodGet, path: "/api/emprestimos/debito/52998224725", auth: student},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"leitor":"Ana","cpf":"52998224725","debito_total":0.00,"emprestimos":[]}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			run(t, tt.mockBehavior, tt.request, tt.response)
		})
	}
}

func TestHandler_BorrowStaffBody(t *testing.T) {
	staff := bearer(t, staffCPF, model.RoleEmployee)
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLedgerService(c)
	svc.EXPECT().BorrowViaStaffAssist(gomock.Any(), 1, studentCPF).
		Return(model.BorrowResult{Book: book, Reader: ana, Loan: openLoan}, nil)

	e := handler.New(svc, tokens, zap.NewNop()).NewRouter()
	r := httptest.NewRequest(http.MethodPost, "/api/emprestimos/emprestar", strings.NewReader(`{"cpf_leitor":"52998224725","livro_id":1}`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	r.Header.Set(echo.HeaderAuthorization, staff)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, true, got["success"])
	require.Equal(t, "Ana", got["leitor"])
	require.Equal(t, "Dom Casmurro", got["livro"])
	require.Equal(t, "28/03/2024", got["data_devolucao"])
	loan := got["emprestimo"].(map[string]any)
	require.Equal(t, "ativo", loan["status"])
	require.Equal(t, float64(1), loan["livro_id"])
}

func TestHandler_Catalog(t *testing.T) {
	t.Parallel()
	staff := bearer(t, staffCPF, model.RoleEmployee)
	student := bearer(t, studentCPF, model.RoleStudent)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		request      request
		response     response
	}{
		{
			name: "list. public",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().ListBooks(gomock.Any()).Return([]model.Book{book}, nil)
			},
			request: request{method: http.MethodGet, path: "/api/books/"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[{"id":1,"titulo":"Dom Casmurro","autor":"","editora":"","edicao":"","isbn":"","categorias":[],"ano":null,"localizacao":"","exemplares_totais":1,"exemplares_emprestados":0,"fila_reservas":[],"exemplares_disponiveis":1}]`,
			},
		},
		{
			name:         "create. reader token",
			mockBehavior: func(r *service_mocks.MockLedgerService) {},
			request:      request{method: http.MethodPost, path: "/api/books/", body: `{}`, auth: student},
			response:     response{expectedCode: http.StatusForbidden},
		},
		{
			name:         "create. missing fields",
			mockBehavior: func(r *service_mocks.MockLedgerService) {},
			request:      request{method: http.MethodPost, path: "/api/books/", body: `{"titulo":"Dom Casmurro"}`, auth: staff},
			response:     response{expectedCode: http.StatusBadRequest},
		},
		{
			name: "create. ok",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().CreateBook(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, req model.BookRequest) (model.Book, error) {
						return model.Book{ID: 9, Title: req.Title, TotalCopies: *req.TotalCopies}, nil
					})
			},
			request: request{method: http.MethodPost, path: "/api/books/", auth: staff,
				body: `{"titulo":"Iracema","autor":"José de Alencar","editora":"Ática","edicao":"3","localizacao":"B2","exemplares_totais":2}`},
			response: response{expectedCode: http.StatusCreated},
		},
		{
			name: "update. below borrowed",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().UpdateBook(gomock.Any(), 1, gomock.Any()).Return(model.Book{}, errs.ErrInvalidCopies)
			},
			request: request{method: http.MethodPut, path: "/api/books/1", body: `{"exemplares_totais":0}`, auth: staff},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"success":false,"message":"exemplares totais não podem ser menores que os emprestados"}`,
			},
		},
		{
			name: "delete. copies out",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().DeleteBook(gomock.Any(), 1).Return(errs.ErrBookHasLoans)
			},
			request:  request{method: http.MethodDelete, path: "/api/books/1", auth: staff},
			response: response{expectedCode: http.StatusConflict},
		},
		{
			name:         "delete. bad id",
			mockBehavior: func(r *service_mocks.MockLedgerService) {},
			request:      request{method: http.MethodDelete, path: "/api/books/abc", auth: staff},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"success":false,"message":"id do livro inválido"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			run(t, tt.mockBehavior, tt.request, tt.response)
		})
	}
}

func TestHandler_Accounts(t *testing.T) {
	t.Parallel()
	staff := bearer(t, staffCPF, model.RoleEmployee)
	student := bearer(t, studentCPF, model.RoleStudent)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		request      request
		response     response
	}{
		{
			name: "login. ok",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().Login(gomock.Any(), studentCPF, "segredo1").Return("tkn", model.RoleStudent, nil)
			},
			request: request{method: http.MethodPost, path: "/api/login", body: `{"cpf":"52998224725","senha":"segredo1"}`},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"token":"tkn","role":"estudante"}`,
			},
		},
		{
			name: "login. wrong password",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().Login(gomock.Any(), studentCPF, "x").Return("", model.Role(""), errs.ErrInvalidCredentials)
			},
			request: request{method: http.MethodPost, path: "/api/login", body: `{"cpf":"52998224725","senha":"x"}`},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"success":false,"message":"CPF ou senha incorretos"}`,
			},
		},
		{
			name:         "register. invalid cpf",
			mockBehavior: func(r *service_mocks.MockLedgerService) {},
			request: request{method: http.MethodPost, path: "/api/register",
				body: `{"nome":"Eva","cpf":"12345678900","email":"eva@example.com","matricula":"7","senha":"segredo1","role":"estudante"}`},
			response: response{expectedCode: http.StatusBadRequest},
		},
		{
			name: "register. taken",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().Register(gomock.Any(), gomock.Any()).Return(model.Reader{}, errs.ErrReaderExists)
			},
			request: request{method: http.MethodPost, path: "/api/register",
				body: `{"nome":"Eva","cpf":"529.982.247-25","email":"eva@example.com","matricula":"7","senha":"segredo1","role":"estudante"}`},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"success":false,"message":"CPF ou matrícula já cadastrados"}`,
			},
		},
		{
			name:         "list readers. reader token",
			mockBehavior: func(r *service_mocks.MockLedgerService) {},
			request:      request{method: http.MethodGet, path: "/api/usuarios", auth: student},
			response:     response{expectedCode: http.StatusForbidden},
		},
		{
			name: "delete reader. holds loans",
			mockBehavior: func(r *service_mocks.MockLedgerService) {
				r.EXPECT().DeleteReader(gomock.Any(), studentCPF).Return(errs.ErrReaderHasLoans)
			},
			request:  request{method: http.MethodDelete, path: "/api/usuarios/52998224725", auth: staff},
			response: response{expectedCode: http.StatusConflict},
		},
		{
			name:         "current reader. bad token",
			mockBehavior: func(r *service_mocks.MockLedgerService) {},
			request:      request{method: http.MethodGet, path: "/api/usuario", auth: "Bearer nope"},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"success":false,"message":"JwtAccessDenied"}`,
			},
		},
		{
			name:         "health",
			mockBehavior: func(r *service_mocks.MockLedgerService) {},
			request:      request{method: http.MethodGet, path: "/manage/health"},
			response:     response{expectedCode: http.StatusOK, expectedBody: "OK"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			run(t, tt.mockBehavior, tt.request, tt.response)
		})
	}
}
