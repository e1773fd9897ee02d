package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-ledger/ledger/internal/model"
)

func borrowResponse(res model.BorrowResult, withReader bool) model.BorrowResponse {
	resp := model.BorrowResponse{
		Success: true,
		Message: "empréstimo realizado com sucesso",
		Book:    res.Book.Title,
		DueDate: res.Loan.DueAt.Format(model.DisplayDate),
		Loan:    res.Loan,
	}
	if withReader {
		resp.Reader = res.Reader.Name
	}
	return resp
}

func (h *Handler) BorrowViaStaffAssist(c echo.Context) error {
	var req model.LoanRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	cpf, err := actor(c, req.ReaderCPF)
	if err != nil {
		return err
	}
	res, err := h.svc.BorrowViaStaffAssist(c.Request().Context(), req.BookID, cpf)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, borrowResponse(res, true))
}

func (h *Handler) BorrowDirect(c echo.Context) error {
	var req model.BookIDRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	cpf, err := actor(c, "")
	if err != nil {
		return err
	}
	res, err := h.svc.BorrowDirect(c.Request().Context(), req.BookID, cpf)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, borrowResponse(res, false))
}

func (h *Handler) Reserve(c echo.Context) error {
	var req model.BookIDRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	cpf, err := actor(c, "")
	if err != nil {
		return err
	}
	res, err := h.svc.Reserve(c.Request().Context(), req.BookID, cpf)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, model.ReserveResponse{
		Success:  true,
		Message:  "reserva realizada com sucesso",
		Book:     res.Book.Title,
		Position: res.Position,
	})
}

// loanTarget reads {cpf_leitor, livro_id}; cpf_leitor may be omitted by a
// reader acting on their own loan.
func loanTarget(c echo.Context) (int, string, error) {
	var req struct {
		ReaderCPF string `json:"cpf_leitor"`
		BookID    int    `json:"livro_id" validate:"required,gt=0"`
	}
	if err := bindValid(c, &req); err != nil {
		return 0, "", err
	}
	cpf, err := actor(c, req.ReaderCPF)
	if err != nil {
		return 0, "", err
	}
	return req.BookID, cpf, nil
}

func (h *Handler) CancelReservation(c echo.Context) error {
	bookID, cpf, err := loanTarget(c)
	if err != nil {
		return err
	}
	if err = h.svc.CancelReservation(c.Request().Context(), bookID, cpf); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, model.OKResponse{Success: true, Message: "reserva cancelada com sucesso"})
}

func (h *Handler) ReturnLoan(c echo.Context) error {
	var req model.LoanRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	cpf, err := actor(c, req.ReaderCPF)
	if err != nil {
		return err
	}
	res, err := h.svc.ReturnLoan(c.Request().Context(), req.BookID, cpf)
	if err != nil {
		return fail(err)
	}
	resp := model.ReturnResponse{
		Success: true,
		Message: "devolução registrada com sucesso",
		Reader:  res.Reader.Name,
		Book:    res.Book.Title,
		Debt:    res.Debt,
	}
	if res.Debt > 0 {
		resp.Message = "devolução registrada com débito pendente de R$ " + res.Debt.String()
	}
	if p := res.Promoted; p != nil {
		resp.Promoted = &model.Promotion{
			Reader:  p.Reader.Name,
			CPF:     p.Reader.CPF,
			DueDate: p.Loan.DueAt.Format(model.DisplayDate),
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) SettleDebt(c echo.Context) error {
	var req model.LoanRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	cpf, err := actor(c, req.ReaderCPF)
	if err != nil {
		return err
	}
	res, err := h.svc.SettleDebt(c.Request().Context(), req.BookID, cpf)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, model.SettleResponse{
		Success: true,
		Message: "débito quitado com sucesso",
		Reader:  res.Reader.Name,
		Book:    res.Book.Title,
		Paid:    res.Paid,
	})
}

func (h *Handler) Renew(c echo.Context) error {
	bookID, cpf, err := loanTarget(c)
	if err != nil {
		return err
	}
	res, err := h.svc.Renew(c.Request().Context(), bookID, cpf)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, model.RenewResponse{
		Success:    true,
		Message:    "empréstimo renovado com sucesso",
		Reader:     res.Reader.Name,
		Book:       res.Book.Title,
		NewDueDate: res.Loan.DueAt.Format(model.DisplayDate),
	})
}

func (h *Handler) ReaderDebt(c echo.Context) error {
	cpf, err := actor(c, c.Param("cpf"))
	if err != nil {
		return err
	}
	res, err := h.svc.ReaderDebt(c.Request().Context(), cpf)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, model.DebtResponse{
		Success: true,
		Reader:  res.Reader.Name,
		CPF:     res.Reader.CPF,
		Total:   res.Total,
		Loans:   res.Loans,
	})
}
