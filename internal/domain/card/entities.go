package card

import (
	"errors"
	"time"

	"cardapp-backend/internal/domain/application"
)

var ErrNotFound = errors.New("card not found")

type CardStatus string

const (
	StatusActive   CardStatus = "ACTIVE"
	StatusBlocked  CardStatus = "BLOCKED"
	StatusInactive CardStatus = "IN_ACTIVE"
)

type PinStatus string

const (
	PinNotSet  PinStatus = "NOT_SET"
	PinActive  PinStatus = "ACTIVE"
	PinBlocked PinStatus = "BLOCKED"
)

// CreditCard is the physical card issued when an application is dispatched.
// Exactly one card exists per application number.
type CreditCard struct {
	ID                uint64               `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	CardID            string               `gorm:"column:card_id;type:char(32);not null;uniqueIndex:ux_cards_card_id" json:"cardId"`
	ApplicationNumber string               `gorm:"column:application_number;size:16;not null;uniqueIndex:ux_cards_application" json:"applicationNumber"`
	CardNumber        string               `gorm:"column:card_number;size:16;not null" json:"-"`
	Network           application.CardType `gorm:"column:network;size:8;not null" json:"network"`
	CreditLimit       int                  `gorm:"column:credit_limit;not null" json:"creditLimit"`
	ExpiryMonth       int                  `gorm:"column:expiry_month;not null" json:"expiryMonth"`
	ExpiryYear        int                  `gorm:"column:expiry_year;not null" json:"expiryYear"`
	CVV               string               `gorm:"column:cvv;size:4;not null" json:"-"`
	Status            CardStatus           `gorm:"column:status;size:16;not null;default:'ACTIVE'" json:"status"`
	PinStatus         PinStatus            `gorm:"column:pin_status;size:16;not null;default:'NOT_SET'" json:"pinStatus"`
	PinAttemptsLeft   int                  `gorm:"column:pin_attempts_left;not null;default:3" json:"-"`
	IssuedAt          time.Time            `gorm:"column:issued_at" json:"issuedAt"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (CreditCard) TableName() string { return "credit_cards" }

// MaskedNumber shows only the last 4 digits.
func (c *CreditCard) MaskedNumber() string {
	if len(c.CardNumber) < 4 {
		return "XXXX-XXXX-XXXX-XXXX"
	}
	return "XXXX-XXXX-XXXX-" + c.CardNumber[len(c.CardNumber)-4:]
}
