package application

import "context"

// ListFilter narrows a dashboard listing. Search is a case-insensitive
// substring match across application number, full name, email, phone and PAN.
type ListFilter struct {
	Status   *Status
	CardType *CardType
	Search   string
}

// ListPage is a sanitized page request (Page >= 1, Limit in [1,100]).
type ListPage struct {
	Page     int
	Limit    int
	SortBy   string // column name, already whitelisted by the caller
	SortDesc bool
}

func (p ListPage) Offset() int { return (p.Page - 1) * p.Limit }

type Repository interface {
	Create(ctx context.Context, a *Application) error
	GetByNumber(ctx context.Context, number string) (*Application, error)
	GetByNumberForUpdate(ctx context.Context, number string) (*Application, error)
	GetByPAN(ctx context.Context, pan string) (*Application, error)
	List(ctx context.Context, f ListFilter, p ListPage) ([]Application, int64, error)
	// UpdateStatus writes status/rejectionReason/creditLimit/revision iff the
	// stored revision still equals expected; returns ErrConflict otherwise.
	UpdateStatus(ctx context.Context, a *Application, expected uint64) error
	AppendEvent(ctx context.Context, ev *StatusEvent) error
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}
