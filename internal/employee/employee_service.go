package employee

import (
	"context"

	employeeerrors "rh-management/internal/employee/errors"
	"rh-management/internal/shared/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, q pagination.Query) ([]EmployeeResponse, int64, error)
	GetBalance(ctx context.Context, id string) (BalanceResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context, q pagination.Query) ([]EmployeeResponse, int64, error) {
	s.logger.Debug("get all employees requested", zap.Int("page", q.Page), zap.String("search", q.Search))
	emps, total, err := s.repo.FindAll(ctx, q)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}

	resp := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		resp[i] = ToResponse(e)
	}
	return resp, total, nil
}

func (s *service) GetBalance(ctx context.Context, id string) (BalanceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return BalanceResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get balance failed", zap.String("employee_id", id), zap.Error(err))
		return BalanceResponse{}, mapRepositoryError(err)
	}
	if !e.Role.HasLedger() {
		return BalanceResponse{}, employeeerrors.ErrNoLedger
	}

	resp := BalanceResponse{
		EmployeeID:        e.ID.String(),
		FullName:          e.FullName(),
		HolidayBalance:    e.Holiday,
		PermissionBalance: e.Permission,
	}
	if e.LastAccrualMonth != nil {
		resp.LastAccrualMonth = *e.LastAccrualMonth
	}
	return resp, nil
}

// ToResponse is also used by packages that list employees, such as team.
func ToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                e.ID.String(),
		FullName:          e.FullName(),
		Email:             e.Email,
		Role:              e.Role.String(),
		HolidayBalance:    e.Holiday,
		PermissionBalance: e.Permission,
	}
	if e.HireDate != nil {
		resp.HireDate = e.HireDate.Format("2006-01-02")
	}
	if e.TeamID != nil {
		resp.TeamID = e.TeamID.String()
	}
	return resp
}
