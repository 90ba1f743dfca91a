package application

import (
	"time"
)

type ProfessionInput struct {
	Type    string `json:"type"`
	Company string `json:"company"`
}

type AddressInput struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

type SubmitInput struct {
	FullName     string          `json:"fullName"`
	DateOfBirth  time.Time       `json:"dateOfBirth"`
	PAN          string          `json:"pan"`
	AnnualIncome float64         `json:"annualIncome"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Profession   ProfessionInput `json:"profession"`
	Address      AddressInput    `json:"address"`
	CardType     string          `json:"cardType"`
}

type ChangeStatusInput struct {
	ApplicationNumber   string
	NewStatus           string
	RejectionReason     string
	CreditLimitOverride *int
	ChangedBy           string // actor label from the auth layer
}

type ListInput struct {
	Status   string
	CardType string
	Search   string
	SortBy   string
	SortDesc bool
	Page     int
	Limit    int
}

type StatusEventDTO struct {
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changedAt"`
	ChangedBy string    `json:"changedBy"`
	Reason    *string   `json:"reason"`
}

type ApplicantDTO struct {
	FullName     string          `json:"fullName"`
	DateOfBirth  time.Time       `json:"dateOfBirth"`
	PAN          string          `json:"pan"`
	AnnualIncome float64         `json:"annualIncome"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Profession   ProfessionInput `json:"profession"`
	Address      AddressInput    `json:"address"`
}

type ApplicationDTO struct {
	ApplicationNumber string           `json:"applicationNumber"`
	CardType          string           `json:"cardType"`
	Status            string           `json:"status"`
	CreditScore       int              `json:"creditScore"`
	CreditLimit       int              `json:"creditLimit"`
	RejectionReason   *string          `json:"rejectionReason"`
	Applicant         ApplicantDTO     `json:"applicant"`
	StatusHistory     []StatusEventDTO `json:"statusHistory"`
	Card              *CardDTO         `json:"card,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

type CardDTO struct {
	CardID       string    `json:"cardId"`
	MaskedNumber string    `json:"maskedNumber"`
	Network      string    `json:"network"`
	CreditLimit  int       `json:"creditLimit"`
	ExpiryMonth  int       `json:"expiryMonth"`
	ExpiryYear   int       `json:"expiryYear"`
	Status       string    `json:"status"`
	IssuedAt     time.Time `json:"issuedAt"`
}

type ListResult struct {
	Items      []ApplicationDTO `json:"items"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

// TrackDTO is the public (unauthenticated) tracking view: no PII beyond the
// applicant's own application number.
type TrackDTO struct {
	ApplicationNumber string           `json:"applicationNumber"`
	CardType          string           `json:"cardType"`
	Status            string           `json:"status"`
	CreditLimit       int              `json:"creditLimit"`
	RejectionReason   *string          `json:"rejectionReason"`
	StatusHistory     []StatusEventDTO `json:"statusHistory"`
	SubmittedAt       time.Time        `json:"submittedAt"`
}

type StatsDTO struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
}
