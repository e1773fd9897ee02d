package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-ledger/ledger/internal/errs"
	"github.com/Astemirdum/library-ledger/ledger/internal/metrics"
	"github.com/Astemirdum/library-ledger/ledger/internal/model"
	"github.com/Astemirdum/library-ledger/pkg/auth"
	md "github.com/Astemirdum/library-ledger/pkg/middleware"
	"github.com/Astemirdum/library-ledger/pkg/validate"
	_ "github.com/Astemirdum/library-ledger/swagger"
)

type Handler struct {
	svc      LedgerService
	tokens   *auth.TokenManager
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	log      *zap.Logger
}

type Option func(h *Handler)

// WithMetrics exposes /metrics from g and counts requests with m.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(h *Handler) {
		h.metrics = m
		h.gatherer = g
	}
}

func New(svc LedgerService, tokens *auth.TokenManager, log *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		svc:    svc,
		tokens: tokens,
		log:    log.Named("handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HideBanner = true
	e.HTTPErrorHandler = h.errorHandler
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)
	if h.gatherer != nil {
		base.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	e.Validator = validate.NewCustomValidator()

	mws := []echo.MiddlewareFunc{
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	}
	if h.metrics != nil {
		mws = append(mws, h.metrics.Middleware())
	}
	api := e.Group("/api", mws...)

	api.POST("/login", h.Login)
	api.POST("/register", h.Register)
	api.GET("/books", h.ListBooks)
	api.GET("/books/", h.ListBooks)
	api.GET("/books/:id", h.GetBook)

	authed := api.Group("", md.JwtAuthentication(h.tokens))
	staffOnly := md.RequireRole(string(model.RoleEmployee))

	authed.GET("/usuario", h.CurrentReader)
	authed.GET("/usuarios", h.ListReaders, staffOnly)
	authed.DELETE("/usuarios/:cpf", h.DeleteReader, staffOnly)

	authed.POST("/books/", h.CreateBook, staffOnly)
	authed.POST("/books", h.CreateBook, staffOnly)
	authed.PUT("/books/:id", h.UpdateBook, staffOnly)
	authed.DELETE("/books/:id", h.DeleteBook, staffOnly)

	loans := authed.Group("/emprestimos")
	loans.POST("/emprestar", h.BorrowViaStaffAssist, staffOnly)
	loans.POST("/emprestar-direto", h.BorrowDirect)
	loans.POST("/reservar", h.Reserve)
	loans.POST("/cancelar-reserva", h.CancelReservation)
	loans.POST("/devolver", h.ReturnLoan, staffOnly)
	loans.POST("/retirar-debito", h.SettleDebt, staffOnly)
	loans.POST("/renovar", h.Renew)
	loans.GET("/debito/:cpf", h.ReaderDebt)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// errorHandler renders every failure as {success:false, message}.
func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
		if he.Internal != nil {
			h.log.Debug("http error", zap.Error(he.Internal))
		}
	}
	if code >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errs.ErrorResponse{Success: false, Message: msg})
	}
	if err != nil {
		h.log.Error("write error response", zap.Error(err))
	}
}

// fail maps ledger errors onto HTTP statuses, keeping the message verbatim.
func fail(err error) error {
	return echo.NewHTTPError(statusOf(err), err.Error())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrBookNotFound), errors.Is(err, errs.ErrReaderNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrReaderExists),
		errors.Is(err, errs.ErrDuplicateActiveLoan),
		errors.Is(err, errs.ErrAlreadyReserved),
		errors.Is(err, errs.ErrBookHasLoans),
		errors.Is(err, errs.ErrReaderHasLoans):
		return http.StatusConflict
	case errs.IsBusiness(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "requisição inválida")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// actor resolves which reader a request acts on. Staff may act on anyone;
// a reader only on themselves.
func actor(c echo.Context, target string) (string, error) {
	p, err := auth.GetProfile(c.Request().Context())
	if err != nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	target = validate.NormalizeCPF(target)
	if target == "" {
		return p.CPF, nil
	}
	if target != p.CPF && p.Role != string(model.RoleEmployee) {
		return "", fail(errs.ErrForbidden)
	}
	return target, nil
}
