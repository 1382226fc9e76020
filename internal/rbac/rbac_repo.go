package rbac

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	ListRolePermissions(ctx context.Context) ([]RolePermissionRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type RolePermissionRow struct {
	Role     string
	Resource string
	Action   string
}

func (RolePermissionRow) TableName() string {
	return "role_permissions"
}

func (r *repository) ListRolePermissions(ctx context.Context) ([]RolePermissionRow, error) {
	var result []RolePermissionRow
	err := r.db.WithContext(ctx).
		Order("role, resource, action").
		Find(&result).Error
	return result, err
}
