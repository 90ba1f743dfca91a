package mysql

import (
	"context"

	cardDomain "cardapp-backend/internal/domain/card"

	"gorm.io/gorm"
)

type CardRepository struct{ db *gorm.DB }

func NewCardRepository(db *gorm.DB) *CardRepository { return &CardRepository{db: db} }

func (r *CardRepository) Create(ctx context.Context, c *cardDomain.CreditCard) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CardRepository) GetByApplicationNumber(ctx context.Context, applicationNumber string) (*cardDomain.CreditCard, error) {
	var out cardDomain.CreditCard
	res := r.db.WithContext(ctx).Where("application_number = ?", applicationNumber).First(&out)
	return &out, res.Error
}

func (r *CardRepository) GetByCardID(ctx context.Context, cardID string) (*cardDomain.CreditCard, error) {
	var out cardDomain.CreditCard
	res := r.db.WithContext(ctx).Where("card_id = ?", cardID).First(&out)
	return &out, res.Error
}
