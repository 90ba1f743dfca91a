package approvermock

import (
	"context"

	domain "cardapp-backend/internal/domain/approver"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies approver.Repository.
type Repo struct {
	CreateFn          func(ctx context.Context, a *domain.Approver) error
	GetByEmailFn      func(ctx context.Context, email string) (*domain.Approver, error)
	GetByApproverIDFn func(ctx context.Context, approverID string) (*domain.Approver, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Approver) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByEmail(ctx context.Context, email string) (*domain.Approver, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByApproverID(ctx context.Context, approverID string) (*domain.Approver, error) {
	if m.GetByApproverIDFn != nil {
		return m.GetByApproverIDFn(ctx, approverID)
	}
	return nil, context.Canceled
}
