package approver

import (
	"errors"
	"time"
)

const RoleApprover = "APPROVER"

var (
	ErrNotFound           = errors.New("approver not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Approver struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ApproverID   string    `gorm:"column:approver_id;type:char(32);not null;uniqueIndex:ux_approvers_approver_id" json:"approverId"`
	Name         string    `gorm:"column:name;size:128;not null" json:"name"`
	Email        string    `gorm:"column:email;size:128;not null;uniqueIndex:ux_approvers_email" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:128;not null" json:"-"`
	Role         string    `gorm:"column:role;size:16;not null;default:'APPROVER'" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Approver) TableName() string { return "approvers" }
