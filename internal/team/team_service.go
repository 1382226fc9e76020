package team

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"rh-management/internal/domain"
	"rh-management/internal/employee"
	"rh-management/internal/shared/pagination"
	teamerrors "rh-management/internal/team/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=team_service.go -destination=mock/team_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateTeamRequest) (TeamResponse, error)
	GetAll(ctx context.Context, q pagination.Query) ([]TeamResponse, int64, error)
	GetByID(ctx context.Context, id string) (TeamDetailResponse, error)
	GetMyTeam(ctx context.Context, actor domain.Actor) (TeamDetailResponse, error)
	Update(ctx context.Context, id string, req UpdateTeamRequest) (TeamResponse, error)
	Delete(ctx context.Context, id string) error
	AddEmployees(ctx context.Context, actor domain.Actor, teamID string, req AddEmployeesRequest) (TeamDetailResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("team.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("team.service")
	}
	return &service{db: db, repo: repo, employees: employees, logger: l}
}

func (s *service) ensureManager(ctx context.Context, managerID string) error {
	role, err := s.repo.GetUserRole(ctx, managerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return teamerrors.ErrInvalidManager
	}
	if err != nil {
		return err
	}
	if role != domain.RoleManager {
		return teamerrors.ErrInvalidManager
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateTeamRequest) (TeamResponse, error) {
	s.logger.Debug("create team requested", zap.String("name", req.Name), zap.String("manager_id", req.ManagerID))

	if err := s.ensureManager(ctx, req.ManagerID); err != nil {
		s.logger.Warn("create team invalid manager", zap.String("manager_id", req.ManagerID), zap.Error(err))
		return TeamResponse{}, err
	}

	t := &Team{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Specialty: strings.TrimSpace(req.Specialty),
		ManagerID: uuid.MustParse(req.ManagerID),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("create team persist failed", zap.Error(err))
		return TeamResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create team success", zap.String("team_id", t.ID.String()))
	return mapToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context, q pagination.Query) ([]TeamResponse, int64, error) {
	teams, total, err := s.repo.FindAll(ctx, q)
	if err != nil {
		s.logger.Error("get all teams failed", zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}

	resp := make([]TeamResponse, len(teams))
	for i, t := range teams {
		resp[i] = mapToResponse(t)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (TeamDetailResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TeamDetailResponse{}, teamerrors.ErrInvalidTeamID
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TeamDetailResponse{}, mapRepositoryError(err)
	}
	return s.withMembers(ctx, t)
}

// GetMyTeam resolves the team a manager leads, or the team any other
// ledger holder belongs to.
func (s *service) GetMyTeam(ctx context.Context, actor domain.Actor) (TeamDetailResponse, error) {
	switch {
	case actor.Role == domain.RoleManager:
		t, err := s.repo.FindByManager(ctx, actor.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TeamDetailResponse{}, teamerrors.ErrNoManagedTeam
		}
		if err != nil {
			return TeamDetailResponse{}, err
		}
		return s.withMembers(ctx, t)
	case actor.Role.HasLedger():
		e, err := s.employees.FindByID(ctx, actor.ID)
		if err != nil {
			return TeamDetailResponse{}, employee.MapRepositoryError(err)
		}
		if e.TeamID == nil {
			return TeamDetailResponse{}, teamerrors.ErrTeamNotFound
		}
		return s.GetByID(ctx, e.TeamID.String())
	default:
		return TeamDetailResponse{}, teamerrors.ErrNoManagedTeam
	}
}

func (s *service) withMembers(ctx context.Context, t *Team) (TeamDetailResponse, error) {
	members, err := s.employees.FindByTeam(ctx, t.ID.String())
	if err != nil {
		s.logger.Error("list team members failed", zap.String("team_id", t.ID.String()), zap.Error(err))
		return TeamDetailResponse{}, err
	}

	resp := TeamDetailResponse{
		TeamResponse: mapToResponse(*t),
		Members:      make([]employee.EmployeeResponse, 0, len(members)),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, employee.ToResponse(m))
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateTeamRequest) (TeamResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TeamResponse{}, teamerrors.ErrInvalidTeamID
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TeamResponse{}, mapRepositoryError(err)
	}
	if err := s.ensureManager(ctx, req.ManagerID); err != nil {
		return TeamResponse{}, err
	}

	t.Name = strings.TrimSpace(req.Name)
	t.Specialty = strings.TrimSpace(req.Specialty)
	t.ManagerID = uuid.MustParse(req.ManagerID)

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("update team persist failed", zap.String("team_id", id), zap.Error(err))
		return TeamResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*t), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return teamerrors.ErrInvalidTeamID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete team begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	count, err := qtx.CountMembers(ctx, id)
	if err != nil {
		s.logger.Error("delete team count members failed", zap.Error(err))
		return err
	}
	if count > 0 {
		s.logger.Warn("delete team rejected, team not empty", zap.String("team_id", id), zap.Int64("members", count))
		return teamerrors.ErrTeamNotEmpty
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete team failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete team commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete team success", zap.String("team_id", id))
	return nil
}

func (s *service) AddEmployees(ctx context.Context, actor domain.Actor, teamID string, req AddEmployeesRequest) (TeamDetailResponse, error) {
	if _, err := uuid.Parse(teamID); err != nil {
		return TeamDetailResponse{}, teamerrors.ErrInvalidTeamID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("add employees begin tx failed", zap.Error(err))
		return TeamDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	t, err := qtx.FindByID(ctx, teamID)
	if err != nil {
		return TeamDetailResponse{}, mapRepositoryError(err)
	}
	if actor.Role == domain.RoleManager && !t.ManagedBy(actor.ID) {
		return TeamDetailResponse{}, teamerrors.ErrNotTeamManager
	}

	ids := dedupe(req.EmployeeIDs)
	affected, err := qtx.AssignMembers(ctx, teamID, ids)
	if err != nil {
		s.logger.Error("add employees assign failed", zap.Error(err))
		return TeamDetailResponse{}, err
	}
	if affected != int64(len(ids)) {
		s.logger.Warn("add employees rejected, ineligible ids",
			zap.Int("requested", len(ids)),
			zap.Int64("matched", affected),
		)
		return TeamDetailResponse{}, teamerrors.ErrEmployeesNotEligible
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("add employees commit failed", zap.Error(err))
		return TeamDetailResponse{}, err
	}

	s.logger.Info("add employees success", zap.String("team_id", teamID), zap.Int("count", len(ids)))
	return s.withMembers(ctx, t)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func mapToResponse(t Team) TeamResponse {
	return TeamResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Specialty: t.Specialty,
		ManagerID: t.ManagerID.String(),
		CreatedAt: t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
