package approver

import "context"

type Repository interface {
	Create(ctx context.Context, a *Approver) error
	GetByEmail(ctx context.Context, email string) (*Approver, error)
	GetByApproverID(ctx context.Context, approverID string) (*Approver, error)
}
