package application

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending         Status = "PENDING"
	StatusCheckInProgress Status = "CHECK_IN_PROGRESS"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
	StatusDispatched      Status = "DISPATCHED"
)

// ParseStatus normalizes a status value from the wire. "SUBMITTED" is
// accepted as an alias for PENDING but is never persisted.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending, "SUBMITTED":
		return StatusPending, true
	case StatusCheckInProgress:
		return StatusCheckInProgress, true
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	case StatusDispatched:
		return StatusDispatched, true
	}
	return "", false
}

// transitions is the strict policy: which statuses each status may move to.
// REJECTED and DISPATCHED have no outgoing edges (terminal).
var transitions = map[Status][]Status{
	StatusPending:         {StatusCheckInProgress, StatusApproved, StatusRejected},
	StatusCheckInProgress: {StatusApproved, StatusRejected},
	StatusApproved:        {StatusDispatched},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool { return len(transitions[s]) == 0 }

type CardType string

const (
	CardMaster CardType = "MASTER"
	CardVisa   CardType = "VISA"
	CardRupay  CardType = "RUPAY"
)

func ParseCardType(s string) (CardType, bool) {
	switch CardType(strings.ToUpper(strings.TrimSpace(s))) {
	case CardMaster:
		return CardMaster, true
	case CardVisa:
		return CardVisa, true
	case CardRupay:
		return CardRupay, true
	}
	return "", false
}

type ProfessionType string

const (
	ProfessionSalaried     ProfessionType = "SALARIED"
	ProfessionSelfEmployed ProfessionType = "SELF_EMPLOYED"
)

type Profession struct {
	Type    ProfessionType `gorm:"size:16;column:profession_type" json:"type"`
	Company string         `gorm:"size:128;column:profession_company" json:"company"`
}

type Address struct {
	Line1      string `gorm:"size:128;column:address_line1" json:"line1"`
	Line2      string `gorm:"size:128;column:address_line2" json:"line2,omitempty"`
	City       string `gorm:"size:64;column:address_city" json:"city"`
	State      string `gorm:"size:64;column:address_state" json:"state"`
	PostalCode string `gorm:"size:8;column:address_postal_code" json:"postalCode"`
}

type Applicant struct {
	FullName     string     `gorm:"size:128;column:applicant_full_name" json:"fullName"`
	DateOfBirth  time.Time  `gorm:"column:applicant_dob" json:"dateOfBirth"`
	PAN          string     `gorm:"size:10;column:applicant_pan;uniqueIndex:ux_applications_pan" json:"pan"`
	AnnualIncome float64    `gorm:"type:decimal(14,2);column:applicant_annual_income" json:"annualIncome"`
	Email        string     `gorm:"size:128;column:applicant_email" json:"email"`
	Phone        string     `gorm:"size:16;column:applicant_phone" json:"phone"`
	Profession   Profession `gorm:"embedded" json:"profession"`
	Address      Address    `gorm:"embedded" json:"address"`
}

type Application struct {
	ID                uint64        `gorm:"primaryKey;column:id" json:"-"`
	ApplicationNumber string        `gorm:"size:16;uniqueIndex:ux_applications_number" json:"applicationNumber"`
	CardType          CardType      `gorm:"size:8;index" json:"cardType"`
	Status            Status        `gorm:"size:24;index" json:"status"`
	CreditScore       int           `json:"creditScore"`
	CreditLimit       int           `json:"creditLimit"`
	RejectionReason   *string       `gorm:"type:text" json:"rejectionReason"`
	Revision          uint64        `gorm:"not null;default:1" json:"-"`
	Applicant         Applicant     `gorm:"embedded" json:"applicant"`
	Events            []StatusEvent `gorm:"foreignKey:ApplicationID;references:ID" json:"statusHistory"`
	CreatedAt         time.Time     `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt         time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Application) TableName() string { return "applications" }

// StatusEvent is one row of the append-only status history. Rows are only
// ever inserted, the first one in the same transaction as its application.
type StatusEvent struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	ApplicationID uint64    `gorm:"not null;index:idx_status_events_application" json:"-"`
	Status        Status    `gorm:"size:24" json:"status"`
	ChangedAt     time.Time `json:"changedAt"`
	ChangedBy     string    `gorm:"size:64" json:"changedBy"`
	Reason        *string   `gorm:"type:text" json:"reason"`
}

func (StatusEvent) TableName() string { return "application_status_events" }
