package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-ledger/audit/internal/model"
	"github.com/Astemirdum/library-ledger/pkg/auth"
	md "github.com/Astemirdum/library-ledger/pkg/middleware"
	"github.com/Astemirdum/library-ledger/pkg/validate"
)

const staffRole = "funcionario"

type Handler struct {
	auditSvc AuditService
	tokens   *auth.TokenManager
	log      *zap.Logger
}

func New(auditSvc AuditService, tokens *auth.TokenManager, log *zap.Logger) *Handler {
	return &Handler{
		auditSvc: auditSvc,
		tokens:   tokens,
		log:      log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HideBanner = true
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{StackSize: 4 << 10}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1/audit",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.JwtAuthentication(h.tokens),
	)
	api.GET("/stats", h.GetStats, md.RequireRole(staffRole))
	api.GET("/:cpf", h.GetHistory)
	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// GetHistory is open to staff and to the reader the history belongs to.
func (h *Handler) GetHistory(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := auth.GetProfile(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	cpf := validate.NormalizeCPF(c.Param("cpf"))
	if p.Role != staffRole && p.CPF != cpf {
		return echo.NewHTTPError(http.StatusForbidden, "acesso negado")
	}
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit inválido")
		}
	}

	events, err := h.auditSvc.History(ctx, cpf, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, model.History{Success: true, CPF: cpf, Events: events})
}

func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.auditSvc.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	stats.Success = true
	return c.JSON(http.StatusOK, stats)
}
