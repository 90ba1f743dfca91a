package card

import "context"

type Repository interface {
	// Create a new card (DB uniqueness ensures at most one per application)
	Create(ctx context.Context, c *CreditCard) error
	GetByApplicationNumber(ctx context.Context, applicationNumber string) (*CreditCard, error)
	GetByCardID(ctx context.Context, cardID string) (*CreditCard, error)
}
