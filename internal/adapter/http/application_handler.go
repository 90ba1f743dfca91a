package http

import (
	"net/http"
	"strconv"
	"time"

	"cardapp-backend/internal/adapter/middleware"
	appuc "cardapp-backend/internal/usecase/application"

	"github.com/labstack/echo/v4"
)

type ApplicationHandler struct{ uc *appuc.Usecase }

func NewApplicationHandler(uc *appuc.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

type professionReq struct {
	Type    string `json:"type"    validate:"required,oneof=SALARIED SELF_EMPLOYED"`
	Company string `json:"company" validate:"required,max=128"`
}

type addressReq struct {
	Line1      string `json:"line1"      validate:"required,max=128"`
	Line2      string `json:"line2"      validate:"max=128"`
	City       string `json:"city"       validate:"required,max=64"`
	State      string `json:"state"      validate:"required,max=64"`
	PostalCode string `json:"postalCode" validate:"required,postalcode"`
}

type submitApplicationReq struct {
	FullName     string        `json:"fullName"     validate:"required,min=3,max=128"`
	DateOfBirth  string        `json:"dateOfBirth"  validate:"required,datetime=2006-01-02"`
	PAN          string        `json:"pan"          validate:"required,pan"`
	AnnualIncome float64       `json:"annualIncome" validate:"required,gt=0"`
	Email        string        `json:"email"        validate:"required,email"`
	Phone        string        `json:"phone"        validate:"required,len=10,numeric"`
	Profession   professionReq `json:"profession"`
	Address      addressReq    `json:"address"`
	CardType     string        `json:"cardType"     validate:"required,oneof=MASTER VISA RUPAY"`
}

func (h *ApplicationHandler) Submit(c echo.Context) error {
	var req submitApplicationReq
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
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "VALIDATION_ERROR", Message: "invalid dateOfBirth"})
	}

	dto, err := h.uc.Submit(c.Request().Context(), appuc.SubmitInput{
		FullName:     req.FullName,
		DateOfBirth:  dob,
		PAN:          req.PAN,
		AnnualIncome: req.AnnualIncome,
		Email:        req.Email,
		Phone:        req.Phone,
		Profession:   appuc.ProfessionInput{Type: req.Profession.Type, Company: req.Profession.Company},
		Address: appuc.AddressInput{
			Line1:      req.Address.Line1,
			Line2:      req.Address.Line2,
			City:       req.Address.City,
			State:      req.Address.State,
			PostalCode: req.Address.PostalCode,
		},
		CardType: req.CardType,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	dto, err := h.uc.GetByNumber(c.Request().Context(), c.Param("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type changeStatusReq struct {
	Status          string `json:"status"          validate:"required"`
	RejectionReason string `json:"rejectionReason"`
	CreditLimit     *int   `json:"creditLimit"`
}

func (h *ApplicationHandler) ChangeStatus(c echo.Context) error {
	number := c.Param("number")
	if number == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "VALIDATION_ERROR", Message: "missing application number"})
	}
	var req changeStatusReq
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

	dto, err := h.uc.ChangeStatus(c.Request().Context(), appuc.ChangeStatusInput{
		ApplicationNumber:   number,
		NewStatus:           req.Status,
		RejectionReason:     req.RejectionReason,
		CreditLimitOverride: req.CreditLimit,
		ChangedBy:           middleware.ActorRole(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	dto, err := h.uc.List(c.Request().Context(), appuc.ListInput{
		Status:   c.QueryParam("status"),
		CardType: c.QueryParam("cardType"),
		Search:   c.QueryParam("search"),
		SortBy:   c.QueryParam("sortBy"),
		SortDesc: c.QueryParam("order") != "asc",
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) Stats(c echo.Context) error {
	dto, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Track is the public tracking endpoint; no auth, no PII.
func (h *ApplicationHandler) Track(c echo.Context) error {
	dto, err := h.uc.Track(c.Request().Context(), c.Param("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
