package mysql

import (
	"context"

	approverDomain "cardapp-backend/internal/domain/approver"

	"gorm.io/gorm"
)

type ApproverRepository struct{ db *gorm.DB }

func NewApproverRepository(db *gorm.DB) *ApproverRepository {
	return &ApproverRepository{db: db}
}

func (r *ApproverRepository) Create(ctx context.Context, a *approverDomain.Approver) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApproverRepository) GetByEmail(ctx context.Context, email string) (*approverDomain.Approver, error) {
	var out approverDomain.Approver
	res := r.db.WithContext(ctx).Where("email = ?", email).First(&out)
	return &out, res.Error
}

func (r *ApproverRepository) GetByApproverID(ctx context.Context, approverID string) (*approverDomain.Approver, error) {
	var out approverDomain.Approver
	res := r.db.WithContext(ctx).Where("approver_id = ?", approverID).First(&out)
	return &out, res.Error
}
