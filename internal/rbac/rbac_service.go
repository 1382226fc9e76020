package rbac

import (
	"context"
	"sync"

	"rh-management/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy(ctx context.Context) error
	Enforce(req domain.EnforceRequest) (bool, error)
	ListPermissions(role domain.Role) ([]domain.PermissionResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

// LoadPolicy replaces the in-memory policy with the role_permissions
// table. It runs at startup and whenever permissions change.
func (s *service) LoadPolicy(ctx context.Context) error {
	rows, err := s.repo.ListRolePermissions(ctx)
	if err != nil {
		s.logger.Error("rbac load policy failed", zap.Error(err))
		return err
	}

	rules := make([][]string, 0, len(rows))
	for _, rp := range rows {
		if _, ok := domain.ParseRole(rp.Role); !ok {
			s.logger.Warn("rbac skipping unknown role", zap.String("role", rp.Role))
			continue
		}
		rules = append(rules, []string{rp.Role, rp.Resource, rp.Action})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()
	if len(rules) > 0 {
		if _, err := s.enforcer.AddPolicies(rules); err != nil {
			return err
		}
	}

	s.logger.Info("rbac policy loaded", zap.Int("rules", len(rules)))
	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) ListPermissions(role domain.Role) ([]domain.PermissionResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules, err := s.enforcer.GetFilteredPolicy(0, role.String())
	if err != nil {
		return nil, err
	}

	out := make([]domain.PermissionResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, domain.PermissionResponse{Role: r[0], Resource: r[1], Action: r[2]})
	}
	return out, nil
}
