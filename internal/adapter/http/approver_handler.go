package http

import (
	"net/http"

	approveruc "cardapp-backend/internal/usecase/approver"

	"github.com/labstack/echo/v4"
)

type ApproverHandler struct{ uc *approveruc.Usecase }

func NewApproverHandler(uc *approveruc.Usecase) *ApproverHandler {
	return &ApproverHandler{uc: uc}
}

type loginReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *ApproverHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "VALIDATION_ERROR", Message: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Login(c.Request().Context(), approveruc.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
