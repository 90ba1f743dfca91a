package http

import (
	"errors"
	"net/http"

	appDomain "cardapp-backend/internal/domain/application"
	approverDomain "cardapp-backend/internal/domain/approver"

	"github.com/labstack/echo/v4"
)

// statusFor maps domain error codes to HTTP statuses; everything unknown is
// an opaque STORE_FAILURE.
func statusFor(code string) int {
	switch code {
	case "VALIDATION_ERROR", "AGE_NOT_ELIGIBLE", "LOW_CREDIT_SCORE",
		"MISSING_REJECTION_REASON", "INVALID_STATUS_VALUE", "INVALID_TRANSITION":
		return http.StatusBadRequest
	case "DUPLICATE_APPLICANT", "CONFLICT":
		return http.StatusConflict
	case "NOT_FOUND":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	if errors.Is(err, approverDomain.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "INVALID_CREDENTIALS",
			Message: "invalid email or password",
		})
	}

	var de *appDomain.Error
	if errors.As(err, &de) {
		return c.JSON(statusFor(de.Code), ErrorResponse{Error: de.Code, Message: de.Message})
	}

	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "STORE_FAILURE",
		Message: "internal error, please retry",
	})
}
