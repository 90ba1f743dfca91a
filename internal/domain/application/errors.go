package application

import "errors"

// Error is a business-rule failure carrying a stable machine-readable code
// alongside the human-readable message. All of these are detected before any
// write and are recoverable by resubmitting corrected input.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

var (
	ErrValidation             = &Error{Code: "VALIDATION_ERROR", Message: "one or more required fields are missing or malformed"}
	ErrAgeNotEligible         = &Error{Code: "AGE_NOT_ELIGIBLE", Message: "applicant must be between 21 and 65 years old"}
	ErrLowCreditScore         = &Error{Code: "LOW_CREDIT_SCORE", Message: "credit score is below the minimum requirement of 550"}
	ErrDuplicateApplicant     = &Error{Code: "DUPLICATE_APPLICANT", Message: "an application already exists for this PAN"}
	ErrMissingRejectionReason = &Error{Code: "MISSING_REJECTION_REASON", Message: "a rejection reason is required when rejecting an application"}
	ErrInvalidStatusValue     = &Error{Code: "INVALID_STATUS_VALUE", Message: "unrecognized application status"}
	ErrInvalidTransition      = &Error{Code: "INVALID_TRANSITION", Message: "status transition is not allowed from the current status"}
	ErrNotFound               = &Error{Code: "NOT_FOUND", Message: "application not found"}
	ErrConflict               = &Error{Code: "CONFLICT", Message: "application was modified concurrently, retry the request"}
)

// CodeOf extracts the machine-readable code from err, or STORE_FAILURE for
// anything that is not a business-rule failure.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "STORE_FAILURE"
}
