package appmock

import (
	"context"

	domain "cardapp-backend/internal/domain/application"
)

// Ensure compile-time compliance
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies application.Repository.
// Fill in the function fields a test needs; unfilled ones return zero values
// or context.Canceled.
type Repo struct {
	CreateFn               func(ctx context.Context, a *domain.Application) error
	GetByNumberFn          func(ctx context.Context, number string) (*domain.Application, error)
	GetByNumberForUpdateFn func(ctx context.Context, number string) (*domain.Application, error)
	GetByPANFn             func(ctx context.Context, pan string) (*domain.Application, error)
	ListFn                 func(ctx context.Context, f domain.ListFilter, p domain.ListPage) ([]domain.Application, int64, error)
	UpdateStatusFn         func(ctx context.Context, a *domain.Application, expected uint64) error
	AppendEventFn          func(ctx context.Context, ev *domain.StatusEvent) error
	CountByStatusFn        func(ctx context.Context) (map[domain.Status]int64, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByNumber(ctx context.Context, number string) (*domain.Application, error) {
	if m.GetByNumberFn != nil {
		return m.GetByNumberFn(ctx, number)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByNumberForUpdate(ctx context.Context, number string) (*domain.Application, error) {
	if m.GetByNumberForUpdateFn != nil {
		return m.GetByNumberForUpdateFn(ctx, number)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByPAN(ctx context.Context, pan string) (*domain.Application, error) {
	if m.GetByPANFn != nil {
		return m.GetByPANFn(ctx, pan)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter, p domain.ListPage) ([]domain.Application, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f, p)
	}
	return nil, 0, context.Canceled
}

func (m *Repo) UpdateStatus(ctx context.Context, a *domain.Application, expected uint64) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, a, expected)
	}
	return nil
}

func (m *Repo) AppendEvent(ctx context.Context, ev *domain.StatusEvent) error {
	if m.AppendEventFn != nil {
		return m.AppendEventFn(ctx, ev)
	}
	return nil
}

func (m *Repo) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx)
	}
	return nil, context.Canceled
}
