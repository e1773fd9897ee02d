package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-ledger/audit/internal/handler"
	"github.com/Astemirdum/library-ledger/audit/internal/model"
	"github.com/Astemirdum/library-ledger/pkg/auth"
	"github.com/Astemirdum/library-ledger/pkg/kafka"

	service_mocks "github.com/Astemirdum/library-ledger/audit/internal/handler/mocks"
)

const (
	readerCPF = "52998224725"
	staffCPF  = "86288366757"
)

var tokens = auth.NewTokenManager(auth.Config{Secret: "0123456789abcdef0123456789abcdef", TokenTTL: time.Hour})

func bearer(t *testing.T, cpf, role string) string {
	t.Helper()
	token, err := tokens.Issue(cpf, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHandler_Audit(t *testing.T) {
	at := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	type mockBehavior func(r *service_mocks.MockAuditService)

	tests := []struct {
		name         string
		path         string
		auth         func(t *testing.T) string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name:         "history own cpf",
			path:         "/api/v1/audit/529.982.247-25",
			auth:         func(t *testing.T) string { return bearer(t, readerCPF, "estudante") },
			expectedCode: http.StatusOK,
			mockBehavior: func(r *service_mocks.MockAuditService) {
				r.EXPECT().History(gomock.Any(), readerCPF, 0).Return([]model.Event{{
					ID: "e1", Type: kafka.EventLoanCreated, CPF: readerCPF, BookID: 1, OccurredAt: at,
				}}, nil)
			},
			expectedBody: `{"success":true,"cpf":"52998224725","eventos":[{"id":"e1","tipo":"LOAN_CREATED","cpf":"52998224725","livro_id":1,"ocorrido_em":"2024-03-14T09:00:00Z"}]}`,
		},
		{
			name:         "history of another reader",
			path:         "/api/v1/audit/11144477735",
			auth:         func(t *testing.T) string { return bearer(t, readerCPF, "estudante") },
			expectedCode: http.StatusForbidden,
			mockBehavior: func(r *service_mocks.MockAuditService) {},
		},
		{
			name:         "staff reads any history with limit",
			path:         "/api/v1/audit/11144477735?limit=5",
			auth:         func(t *testing.T) string { return bearer(t, staffCPF, "funcionario") },
			expectedCode: http.StatusOK,
			mockBehavior: func(r *service_mocks.MockAuditService) {
				r.EXPECT().History(gomock.Any(), "11144477735", 5).Return([]model.Event{}, nil)
			},
			expectedBody: `{"success":true,"cpf":"11144477735","eventos":[]}`,
		},
		{
			name:         "bad limit",
			path:         "/api/v1/audit/11144477735?limit=x",
			auth:         func(t *testing.T) string { return bearer(t, staffCPF, "funcionario") },
			expectedCode: http.StatusBadRequest,
			mockBehavior: func(r *service_mocks.MockAuditService) {},
		},
		{
			name:         "no token",
			path:         "/api/v1/audit/stats",
			auth:         func(*testing.T) string { return "" },
			expectedCode: http.StatusUnauthorized,
			mockBehavior: func(r *service_mocks.MockAuditService) {},
		},
		{
			name:         "stats for reader",
			path:         "/api/v1/audit/stats",
			auth:         func(t *testing.T) string { return bearer(t, readerCPF, "professor") },
			expectedCode: http.StatusForbidden,
			mockBehavior: func(r *service_mocks.MockAuditService) {},
		},
		{
			name:         "stats",
			path:         "/api/v1/audit/stats",
			auth:         func(t *testing.T) string { return bearer(t, staffCPF, "funcionario") },
			expectedCode: http.StatusOK,
			mockBehavior: func(r *service_mocks.MockAuditService) {
				r.EXPECT().Stats(gomock.Any()).Return(model.Stats{
					Total:        3,
					ByType:       map[kafka.EventType]int64{kafka.EventLoanCreated: 2, kafka.EventDebtSettled: 1},
					SettledCents: 600,
				}, nil)
			},
			expectedBody: `{"success":true,"total":3,"por_tipo":{"DEBT_SETTLED":1,"LOAN_CREATED":2},"valor_quitado_centavos":600}`,
		},
		{
			name:         "stats failure",
			path:         "/api/v1/audit/stats",
			auth:         func(t *testing.T) string { return bearer(t, staffCPF, "funcionario") },
			expectedCode: http.StatusInternalServerError,
			mockBehavior: func(r *service_mocks.MockAuditService) {
				r.EXPECT().Stats(gomock.Any()).Return(model.Stats{}, errors.New("db down"))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockAuditService(c)
			tt.mockBehavior(svc)
			e := handler.New(svc, tokens, zap.NewNop()).NewRouter()

			r := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			if a := tt.auth(t); a != "" {
				r.Header.Set(echo.HeaderAuthorization, a)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestHandler_Health(t *testing.T) {
	e := handler.New(nil, tokens, zap.NewNop()).NewRouter()
	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/manage/health", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}
