package cardmock

import (
	"context"

	domain "cardapp-backend/internal/domain/card"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies card.Repository.
type Repo struct {
	CreateFn                 func(ctx context.Context, c *domain.CreditCard) error
	GetByApplicationNumberFn func(ctx context.Context, applicationNumber string) (*domain.CreditCard, error)
	GetByCardIDFn            func(ctx context.Context, cardID string) (*domain.CreditCard, error)
}

func (m *Repo) Create(ctx context.Context, c *domain.CreditCard) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByApplicationNumber(ctx context.Context, applicationNumber string) (*domain.CreditCard, error) {
	if m.GetByApplicationNumberFn != nil {
		return m.GetByApplicationNumberFn(ctx, applicationNumber)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByCardID(ctx context.Context, cardID string) (*domain.CreditCard, error) {
	if m.GetByCardIDFn != nil {
		return m.GetByCardIDFn(ctx, cardID)
	}
	return nil, context.Canceled
}
