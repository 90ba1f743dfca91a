package uow

import (
	"context"

	"cardapp-backend/internal/domain/application"
	"cardapp-backend/internal/domain/approver"
	"cardapp-backend/internal/domain/card"
)

type Repos struct {
	Applications application.Repository
	Approvers    approver.Repository
	Cards        card.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the application row first, then pass it in
	WithinApplicationTx(ctx context.Context, number string, fn func(r Repos, a *application.Application) error) error
}
