package employee

import (
	"context"
	"database/sql"
	"time"

	"rh-management/internal/domain"
	"rh-management/internal/shared/connection"
	"rh-management/internal/shared/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ledgerRoles = []domain.Role{domain.RoleHR, domain.RoleManager, domain.RoleEmployee}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, id string) (*Employee, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*Employee, error)
	FindAll(ctx context.Context, q pagination.Query) ([]Employee, int64, error)
	FindByTeam(ctx context.Context, teamID string) ([]Employee, error)
	ListForAccrual(ctx context.Context) ([]Employee, error)
	SaveLedger(ctx context.Context, e *Employee) error
	CountHiredBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("role IN ?", ledgerRoles)
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.base(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.base(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindAll(ctx context.Context, q pagination.Query) ([]Employee, int64, error) {
	db := r.base(ctx).Model(&Employee{})
	if q.Type != "" {
		db = db.Where("role = ?", q.Type)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", like, like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []Employee
	err := db.Order("last_name ASC, first_name ASC").
		Offset(q.Offset()).
		Limit(q.PageSize).
		Find(&out).Error
	return out, total, err
}

func (r *repository) FindByTeam(ctx context.Context, teamID string) ([]Employee, error) {
	var out []Employee
	err := r.base(ctx).
		Where("team_id = ?", teamID).
		Order("last_name ASC").
		Find(&out).Error
	return out, err
}

// ListForAccrual locks every employee with a hire date, in id order so
// concurrent runs queue behind each other instead of deadlocking.
func (r *repository) ListForAccrual(ctx context.Context) ([]Employee, error) {
	var out []Employee
	err := r.base(ctx).
		Where("hire_date IS NOT NULL").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) SaveLedger(ctx context.Context, e *Employee) error {
	res := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{
			"holiday_balance":    e.Holiday,
			"permission_balance": e.Permission,
			"last_accrual_month": e.LastAccrualMonth,
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountHiredBetween counts employees whose hire date falls in [from, to).
func (r *repository) CountHiredBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.base(ctx).
		Model(&Employee{}).
		Where("hire_date >= ? AND hire_date < ?", from, to).
		Count(&count).Error
	return count, err
}
