package employeerecord

import (
	"context"
	"database/sql"

	"rh-management/internal/domain"
	"rh-management/internal/shared/connection"
	"rh-management/internal/shared/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employee_record_repo.go -destination=mock/employee_record_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *EmployeeRecord) error
	FindByID(ctx context.Context, id string) (*RecordRow, error)
	FindByEmployee(ctx context.Context, employeeID string) (*RecordRow, error)
	FindByIDForUpdate(ctx context.Context, id string) (*EmployeeRecord, error)
	FindAll(ctx context.Context, q pagination.Query) ([]RecordRow, int64, error)
	// ListAll returns every record whose employee is still active.
	ListAll(ctx context.Context) ([]RecordRow, error)
	Update(ctx context.Context, r *EmployeeRecord) error
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
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

func (r *repository) rows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("employee_records AS er").
		Select("er.*, u.first_name, u.last_name, u.email, u.hire_date, u.picture").
		Joins("JOIN users u ON u.id = er.employee_id AND u.deleted_at IS NULL")
}

func (r *repository) Create(ctx context.Context, rec *EmployeeRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*RecordRow, error) {
	var row RecordRow
	err := r.rows(ctx).Where("er.id = ?", id).Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) (*RecordRow, error) {
	var row RecordRow
	err := r.rows(ctx).Where("er.employee_id = ?", employeeID).Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*EmployeeRecord, error) {
	var rec EmployeeRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rec, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) FindAll(ctx context.Context, q pagination.Query) ([]RecordRow, int64, error) {
	db := r.rows(ctx)

	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where(
			"u.first_name ILIKE ? OR u.last_name ILIKE ? OR u.email ILIKE ? OR er.position ILIKE ?",
			like, like, like, like,
		)
	}
	if q.Status != "" {
		db = db.Where("er.status = ?", q.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []RecordRow
	err := db.
		Order("u.last_name ASC, u.first_name ASC").
		Offset(q.Offset()).
		Limit(q.PageSize).
		Find(&out).Error
	return out, total, err
}

func (r *repository) ListAll(ctx context.Context) ([]RecordRow, error) {
	var out []RecordRow
	err := r.rows(ctx).
		Where("u.is_active = ?", true).
		Order("er.employee_id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) Update(ctx context.Context, rec *EmployeeRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("id = ? AND deleted_at IS NULL", employeeID).
		Where("role IN ?", []domain.Role{domain.RoleHR, domain.RoleManager, domain.RoleEmployee}).
		Count(&count).Error
	return count > 0, err
}
