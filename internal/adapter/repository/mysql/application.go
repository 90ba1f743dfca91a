package mysql

import (
	"context"
	"strings"

	appDomain "cardapp-backend/internal/domain/application"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *appDomain.Application) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepository) GetByNumber(ctx context.Context, number string) (*appDomain.Application, error) {
	var out appDomain.Application
	res := r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("application_number = ?", number).
		First(&out)
	return &out, res.Error
}

// GetByNumberForUpdate locks the row for the surrounding transaction. SQLite
// has no FOR UPDATE, so the clause is only added on MySQL.
func (r *ApplicationRepository) GetByNumberForUpdate(ctx context.Context, number string) (*appDomain.Application, error) {
	tx := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "mysql" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out appDomain.Application
	res := tx.
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("application_number = ?", number).
		First(&out)
	return &out, res.Error
}

func (r *ApplicationRepository) GetByPAN(ctx context.Context, pan string) (*appDomain.Application, error) {
	var out appDomain.Application
	res := r.db.WithContext(ctx).Where("applicant_pan = ?", pan).First(&out)
	return &out, res.Error
}

// UpdateStatus is the compare-and-swap write: no row matches when another
// writer bumped the revision first, which surfaces as ErrConflict.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, a *appDomain.Application, expected uint64) error {
	res := r.db.WithContext(ctx).
		Model(&appDomain.Application{}).
		Where("id = ? AND revision = ?", a.ID, expected).
		Updates(map[string]any{
			"status":           a.Status,
			"rejection_reason": a.RejectionReason,
			"credit_limit":     a.CreditLimit,
			"revision":         a.Revision,
			"updated_at":       a.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appDomain.ErrConflict
	}
	return nil
}

func (r *ApplicationRepository) AppendEvent(ctx context.Context, ev *appDomain.StatusEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *ApplicationRepository) List(ctx context.Context, f appDomain.ListFilter, p appDomain.ListPage) ([]appDomain.Application, int64, error) {
	q := r.db.WithContext(ctx).Model(&appDomain.Application{})

	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.CardType != nil {
		q = q.Where("card_type = ?", *f.CardType)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			r.db.Where("LOWER(application_number) LIKE ?", like).
				Or("LOWER(applicant_full_name) LIKE ?", like).
				Or("LOWER(applicant_email) LIKE ?", like).
				Or("LOWER(applicant_phone) LIKE ?", like).
				Or("LOWER(applicant_pan) LIKE ?", like),
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := p.SortBy
	if order == "" {
		order = "created_at"
	}
	if p.SortDesc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	var items []appDomain.Application
	err := q.
		Order(order).
		Offset(p.Offset()).
		Limit(p.Limit).
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Find(&items).Error
	return items, total, err
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[appDomain.Status]int64, error) {
	var rows []struct {
		Status appDomain.Status
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&appDomain.Application{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[appDomain.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
