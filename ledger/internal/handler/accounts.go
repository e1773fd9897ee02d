package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-ledger/ledger/internal/model"
	"github.com/Astemirdum/library-ledger/pkg/auth"
)

func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	token, role, err := h.svc.Login(c.Request().Context(), req.CPF, req.Password)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, model.LoginResponse{Success: true, Token: token, Role: role})
}

func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if _, err := h.svc.Register(c.Request().Context(), req); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, model.OKResponse{Success: true, Message: "cadastro realizado com sucesso"})
}

func (h *Handler) CurrentReader(c echo.Context) error {
	cpf, err := auth.GetCPF(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	reader, err := h.svc.GetReader(c.Request().Context(), cpf)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, reader)
}

func (h *Handler) ListReaders(c echo.Context) error {
	readers, err := h.svc.ListReaders(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, model.ListReaders{Success: true, Readers: readers})
}

func (h *Handler) DeleteReader(c echo.Context) error {
	if err := h.svc.DeleteReader(c.Request().Context(), c.Param("cpf")); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, model.OKResponse{Success: true, Message: "usuário removido com sucesso"})
}
