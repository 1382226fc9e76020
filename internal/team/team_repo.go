package team

import (
	"context"
	"database/sql"

	"rh-management/internal/domain"
	"rh-management/internal/shared/connection"
	"rh-management/internal/shared/pagination"

	"gorm.io/gorm"
)

//go:generate mockgen -source=team_repo.go -destination=mock/team_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Team) error
	FindByID(ctx context.Context, id string) (*Team, error)
	FindByManager(ctx context.Context, managerID string) (*Team, error)
	FindAll(ctx context.Context, q pagination.Query) ([]Team, int64, error)
	Update(ctx context.Context, t *Team) error
	Delete(ctx context.Context, id string) error
	CountMembers(ctx context.Context, teamID string) (int64, error)
	AssignMembers(ctx context.Context, teamID string, employeeIDs []string) (int64, error)
	GetUserRole(ctx context.Context, userID string) (domain.Role, error)
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

func (r *repository) Create(ctx context.Context, t *Team) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Team, error) {
	var t Team
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) FindByManager(ctx context.Context, managerID string) (*Team, error) {
	var t Team
	err := r.db.WithContext(ctx).First(&t, "manager_id = ?", managerID).Error
	return &t, err
}

func (r *repository) FindAll(ctx context.Context, q pagination.Query) ([]Team, int64, error) {
	db := r.db.WithContext(ctx).Model(&Team{})
	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where("name ILIKE ? OR specialty ILIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var teams []Team
	err := db.Order("name ASC").
		Offset(q.Offset()).
		Limit(q.PageSize).
		Find(&teams).Error
	return teams, total, err
}

func (r *repository) Update(ctx context.Context, t *Team) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Team{}, "id = ?", id).Error
}

func (r *repository) CountMembers(ctx context.Context, teamID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("team_id = ?", teamID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count, err
}

// AssignMembers moves plain employees into the team and reports how many
// rows matched. Other roles are left untouched.
func (r *repository) AssignMembers(ctx context.Context, teamID string, employeeIDs []string) (int64, error) {
	res := r.db.WithContext(ctx).
		Table("users").
		Where("id IN ?", employeeIDs).
		Where("role = ?", domain.RoleEmployee).
		Where("deleted_at IS NULL").
		Update("team_id", teamID)
	return res.RowsAffected, res.Error
}

func (r *repository) GetUserRole(ctx context.Context, userID string) (domain.Role, error) {
	var role string
	res := r.db.WithContext(ctx).
		Table("users").
		Select("role").
		Where("id = ?", userID).
		Where("deleted_at IS NULL").
		Limit(1).
		Scan(&role)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", gorm.ErrRecordNotFound
	}
	return domain.Role(role), nil
}
