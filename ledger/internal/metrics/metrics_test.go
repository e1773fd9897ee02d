package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-ledger/ledger/internal/errs"
	"github.com/Astemirdum/library-ledger/ledger/internal/metrics"
)

func TestOutcome(t *testing.T) {
	require.Equal(t, metrics.OutcomeOK, metrics.Outcome(nil))
	require.Equal(t, metrics.OutcomeRejected, metrics.Outcome(errs.ErrNoCopiesAvailable))
	require.Equal(t, metrics.OutcomeRejected, metrics.Outcome(errors.Join(errors.New("ctx"), errs.ErrNoActiveLoan)))
	require.Equal(t, metrics.OutcomeError, metrics.Outcome(errors.New("connection refused")))
}

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.Observe("borrow", time.Now(), nil)
	m.Observe("borrow", time.Now(), errs.ErrNoCopiesAvailable)
	m.Observe("borrow", time.Now(), errs.ErrNoCopiesAvailable)
	m.DebtSettled(600)
	m.Promoted()

	n, err := testutil.GatherAndCount(reg, "ledger_operations_total")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = testutil.GatherAndCount(reg, "ledger_reservation_promotions_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestMetrics_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/books/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "livro não encontrado")
	})

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/7", http.NoBody))
	require.Equal(t, http.StatusNotFound, w.Code)

	n, err := testutil.GatherAndCount(reg, "ledger_http_requests_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
