package leave

import (
	"context"
	"database/sql"
	"time"

	"rh-management/internal/domain"
	"rh-management/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRow, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	Delete(ctx context.Context, id string) error
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	IsActiveAdmin(ctx context.Context, adminID string) (bool, error)
	FindByEmployee(ctx context.Context, employeeID string, f ListFilter) ([]LeaveRow, int64, error)
	FindByTeamManager(ctx context.Context, managerID string, f ListFilter) ([]LeaveRow, int64, error)
	FindAdminInbox(ctx context.Context, adminID string, f ListFilter) ([]LeaveRow, int64, error)
	FindHRInbox(ctx context.Context, f ListFilter) ([]LeaveRow, int64, error)
	CountPendingCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) rows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("leave_requests AS l").
		Select("l.*, u.first_name AS employee_first_name, u.last_name AS employee_last_name").
		Joins("JOIN users u ON u.id = l.employee_id")
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRow, error) {
	var row LeaveRow
	res := r.rows(ctx).Where("l.id = ?", id).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&LeaveRequest{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasOverlappingPeriod ignores rejected requests, whose days were already
// given back. Periods are half-open [start, end); a zero-day request still
// holds its start date, on both sides of the comparison.
func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("state <> ?", StateRejected).
		Where("start_date < ? AND GREATEST(end_date, start_date + 1) > ?", occupiedUntil(startDate, endDate), startDate).
		Count(&count).Error
	return count > 0, err
}

func occupiedUntil(start, end time.Time) time.Time {
	if end.After(start) {
		return end
	}
	return start.AddDate(0, 0, 1)
}

func (r *repository) IsActiveAdmin(ctx context.Context, adminID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("id = ?", adminID).
		Where("role = ?", domain.RoleAdmin).
		Where("is_active = ?", true).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string, f ListFilter) ([]LeaveRow, int64, error) {
	db := r.rows(ctx).Where("l.employee_id = ?", employeeID)
	return r.page(applyStatus(db, f.Status), f)
}

func (r *repository) FindByTeamManager(ctx context.Context, managerID string, f ListFilter) ([]LeaveRow, int64, error) {
	db := r.rows(ctx).
		Joins("JOIN teams t ON t.id = u.team_id AND t.deleted_at IS NULL").
		Where("t.manager_id = ?", managerID)
	return r.page(applyStatus(db, f.Status), f)
}

// FindAdminInbox lists requests designated to the admin that already
// passed the first tier.
func (r *repository) FindAdminInbox(ctx context.Context, adminID string, f ListFilter) ([]LeaveRow, int64, error) {
	db := r.rows(ctx).
		Where("l.admin_id = ?", adminID).
		Where("(l.state IN ? OR (l.state = ? AND l.rejected_tier = ?))",
			[]State{StatePendingAdmin, StateApproved}, StateRejected, TierAdmin)
	return r.page(applyStatus(db, f.Status), f)
}

// FindHRInbox lists requests of plain employees, filtered on the first
// tier status.
func (r *repository) FindHRInbox(ctx context.Context, f ListFilter) ([]LeaveRow, int64, error) {
	db := r.rows(ctx).Where("u.role = ?", domain.RoleEmployee)
	return r.page(applyRHStatus(db, f.Status), f)
}

func (r *repository) CountPendingCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("state IN ?", []State{StatePendingRH, StatePendingAdmin}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *repository) page(db *gorm.DB, f ListFilter) ([]LeaveRow, int64, error) {
	if f.Type != "" {
		db = db.Where("l.type = ?", f.Type)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		db = db.Where("(u.first_name ILIKE ? OR u.last_name ILIKE ? OR l.reason ILIKE ?)", like, like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []LeaveRow
	err := db.Order("l.created_at DESC").
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&rows).Error
	return rows, total, err
}

func applyStatus(db *gorm.DB, status string) *gorm.DB {
	switch Status(status) {
	case StatusPending:
		return db.Where("l.state IN ?", []State{StatePendingRH, StatePendingAdmin})
	case StatusApproved:
		return db.Where("l.state = ?", StateApproved)
	case StatusRejected:
		return db.Where("l.state = ?", StateRejected)
	}
	return db
}

func applyRHStatus(db *gorm.DB, status string) *gorm.DB {
	switch Status(status) {
	case StatusPending:
		return db.Where("l.state = ?", StatePendingRH)
	case StatusApproved:
		return db.Where("(l.state IN ? OR (l.state = ? AND l.rejected_tier = ?))",
			[]State{StatePendingAdmin, StateApproved}, StateRejected, TierAdmin)
	case StatusRejected:
		return db.Where("l.state = ? AND l.rejected_tier = ?", StateRejected, TierRH)
	}
	return db
}
