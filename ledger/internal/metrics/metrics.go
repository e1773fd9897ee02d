package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Astemirdum/library-ledger/ledger/internal/errs"
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics groups the ledger collectors.
type Metrics struct {
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	promotions        prometheus.Counter
	debtSettled       prometheus.Counter
	publisherOpen     prometheus.Gauge
	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Ledger operations by name and outcome",
			},
			[]string{"operation", "outcome"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_seconds",
				Help:    "Ledger operation latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		promotions: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_reservation_promotions_total",
			Help: "Reservations turned into loans on return",
		}),
		debtSettled: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_debt_settled_cents_total",
			Help: "Debt paid off, in cents",
		}),
		publisherOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_event_publisher_circuit_open",
			Help: "1 while the event publisher circuit breaker is open",
		}),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "HTTP requests by route, method and status code",
			},
			[]string{"path", "method", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
	}
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errs.IsBusiness(err):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

func (m *Metrics) Observe(operation string, start time.Time, err error) {
	m.operations.WithLabelValues(operation, Outcome(err)).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Promoted() {
	m.promotions.Inc()
}

func (m *Metrics) DebtSettled(cents int64) {
	m.debtSettled.Add(float64(cents))
}

func (m *Metrics) PublisherOpen(open bool) {
	if open {
		m.publisherOpen.Set(1)
		return
	}
	m.publisherOpen.Set(0)
}

// Middleware counts requests by route template so path params do not
// blow up cardinality.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			path := c.Path()
			method := c.Request().Method
			m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
			m.requestDuration.WithLabelValues(path, method).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
