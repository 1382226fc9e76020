package rbac_test

import (
	"context"
	"errors"
	"testing"

	"rh-management/internal/domain"
	"rh-management/internal/rbac"
	"rh-management/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRepo struct {
	rows []rbac.RolePermissionRow
	err  error
}

func (f *fakeRepo) ListRolePermissions(ctx context.Context) ([]rbac.RolePermissionRow, error) {
	return f.rows, f.err
}

func newService(t *testing.T, repo rbac.Repository) rbac.Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)
	return rbac.NewService(repo, enforcer, zap.NewNop())
}

func TestRBACService_Enforce(t *testing.T) {
	repo := &fakeRepo{rows: []rbac.RolePermissionRow{
		{Role: "EMPLOYEE", Resource: "leave", Action: "create"},
		{Role: "MANAGER", Resource: "leave", Action: "decide_rh"},
		{Role: "HR", Resource: "leave", Action: "decide_rh"},
		{Role: "ADMIN", Resource: "leave", Action: "decide_admin"},
		{Role: "INTERN", Resource: "leave", Action: "create"},
	}}
	service := newService(t, repo)
	assert.NoError(t, service.LoadPolicy(context.Background()))

	tests := []struct {
		role, resource, action string
		want                   bool
	}{
		{"EMPLOYEE", "leave", "create", true},
		{"EMPLOYEE", "leave", "decide_rh", false},
		{"MANAGER", "leave", "decide_rh", true},
		{"HR", "leave", "decide_rh", true},
		{"ADMIN", "leave", "decide_admin", true},
		{"ADMIN", "leave", "create", false},
		{"INTERN", "leave", "create", false},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.resource+":"+tt.action, func(t *testing.T) {
			allowed, err := service.Enforce(domain.EnforceRequest{Role: tt.role, Resource: tt.resource, Action: tt.action})
			assert.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}

func TestRBACService_LoadPolicyReplaces(t *testing.T) {
	repo := &fakeRepo{rows: []rbac.RolePermissionRow{{Role: "HR", Resource: "payslip", Action: "create"}}}
	service := newService(t, repo)
	assert.NoError(t, service.LoadPolicy(context.Background()))

	repo.rows = []rbac.RolePermissionRow{{Role: "ADMIN", Resource: "payslip", Action: "create"}}
	assert.NoError(t, service.LoadPolicy(context.Background()))

	allowed, err := service.Enforce(domain.EnforceRequest{Role: "HR", Resource: "payslip", Action: "create"})
	assert.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = service.Enforce(domain.EnforceRequest{Role: "ADMIN", Resource: "payslip", Action: "create"})
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestRBACService_LoadPolicyError(t *testing.T) {
	service := newService(t, &fakeRepo{err: errors.New("db down")})
	assert.Error(t, service.LoadPolicy(context.Background()))
}

func TestRBACService_ListPermissions(t *testing.T) {
	repo := &fakeRepo{rows: []rbac.RolePermissionRow{
		{Role: "EMPLOYEE", Resource: "balance", Action: "read"},
		{Role: "EMPLOYEE", Resource: "leave", Action: "create"},
		{Role: "ADMIN", Resource: "user", Action: "create"},
	}}
	service := newService(t, repo)
	assert.NoError(t, service.LoadPolicy(context.Background()))

	perms, err := service.ListPermissions(domain.RoleEmployee)

	assert.NoError(t, err)
	assert.Len(t, perms, 2)
	for _, p := range perms {
		assert.Equal(t, "EMPLOYEE", p.Role)
	}
}
