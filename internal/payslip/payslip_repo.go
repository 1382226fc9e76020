package payslip

import (
	"context"
	"database/sql"
	"time"

	"rh-management/internal/shared/connection"
	"rh-management/internal/shared/pagination"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payslip_repo.go -destination=mock/payslip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payslip) error
	FindByID(ctx context.Context, id string) (*PayslipRow, error)
	FindByEmployee(ctx context.Context, employeeID string, q pagination.Query) ([]PayslipRow, int64, error)
	ExistsForMonth(ctx context.Context, employeeID string, month time.Time) (bool, error)
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
		Table("payslips AS p").
		Select("p.*, u.first_name, u.last_name, u.email, er.position").
		Joins("JOIN users u ON u.id = p.employee_id").
		Joins("LEFT JOIN employee_records er ON er.employee_id = p.employee_id")
}

func (r *repository) Create(ctx context.Context, p *Payslip) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*PayslipRow, error) {
	var row PayslipRow
	if err := r.rows(ctx).Where("p.id = ?", id).Take(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string, q pagination.Query) ([]PayslipRow, int64, error) {
	db := r.rows(ctx).Where("p.employee_id = ?", employeeID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []PayslipRow
	err := db.
		Order("p.month DESC").
		Offset(q.Offset()).
		Limit(q.PageSize).
		Find(&out).Error
	return out, total, err
}

func (r *repository) ExistsForMonth(ctx context.Context, employeeID string, month time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Payslip{}).
		Where("employee_id = ? AND month = ?", employeeID, month).
		Count(&count).Error
	return count > 0, err
}
