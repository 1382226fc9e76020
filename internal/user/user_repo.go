package user

import (
	"context"
	"database/sql"

	"rh-management/internal/domain"
	"rh-management/internal/shared/connection"
	"rh-management/internal/shared/pagination"

	"gorm.io/gorm"
)

type ListFilter struct {
	pagination.Query
	Role string
}

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter ListFilter) ([]User, int64, error)
	FindActiveByRole(ctx context.Context, role domain.Role) ([]User, error)
	TeamExists(ctx context.Context, teamID string) (bool, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "LOWER(email) = LOWER(?)", email).Error
	return &u, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]User, int64, error) {
	db := r.db.WithContext(ctx).Model(&User{})
	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR cin ILIKE ?", like, like, like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	err := db.Order("last_name ASC, first_name ASC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&users).Error
	return users, total, err
}

func (r *repository) FindActiveByRole(ctx context.Context, role domain.Role) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Select("id", "first_name", "last_name", "email", "role").
		Where("role = ?", role).
		Where("is_active = ?", true).
		Order("last_name ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) TeamExists(ctx context.Context, teamID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("teams").
		Where("id = ?", teamID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
