package uowmock

import (
	"context"
	"errors"

	"cardapp-backend/internal/domain/application"
	"cardapp-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork. When a Fn
// field is left nil but Repos is set, the callback runs directly against
// Repos (no transaction semantics), which is what most usecase tests want.
type UoW struct {
	Repos uow.Repos

	WithinTxFn            func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinApplicationTxFn func(ctx context.Context, number string, fn func(r uow.Repos, a *application.Application) error) error
}

func New(r uow.Repos) *UoW { return &UoW{Repos: r} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	if m.Repos != (uow.Repos{}) {
		return fn(m.Repos)
	}
	return errUnimplemented
}

func (m *UoW) WithinApplicationTx(ctx context.Context, number string, fn func(r uow.Repos, a *application.Application) error) error {
	if m.WithinApplicationTxFn != nil {
		return m.WithinApplicationTxFn(ctx, number, fn)
	}
	if m.Repos != (uow.Repos{}) {
		a, err := m.Repos.Applications.GetByNumberForUpdate(ctx, number)
		if err != nil {
			return err
		}
		return fn(m.Repos, a)
	}
	return errUnimplemented
}
