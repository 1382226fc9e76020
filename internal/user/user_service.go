package user

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"rh-management/internal/domain"
	"rh-management/internal/shared/contextutil"
	usererrors "rh-management/internal/user/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

const AdminOptionsKey = "users:options:admin"

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]UserResponse, int64, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	GetAdminOptions(ctx context.Context) ([]OptionResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, actorID, id string) error
	ToggleStatus(ctx context.Context, id string, isActive bool) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	ForceResetPassword(ctx context.Context, userID, newPassword string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	l.Debug("create user requested",
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	u := &User{
		ID:        uuid.New(),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Cin:       strings.TrimSpace(req.Cin),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Picture:   optionalString(req.Picture),
		Role:      role,
		IsActive:  true,
	}

	if err := applyProfiles(u, req.Admin, req.HR, req.Manager); err != nil {
		l.Warn("create user profile mismatch", zap.String("role", req.Role), zap.Error(err))
		return UserResponse{}, err
	}
	if err := s.applyEmployment(ctx, u, req.Employment); err != nil {
		l.Warn("create user employment invalid", zap.String("role", req.Role), zap.Error(err))
		return UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("create user hash password failed", zap.Error(err))
		return UserResponse{}, err
	}
	u.Password = string(hashed)

	if err := s.repo.Create(ctx, u); err != nil {
		l.Error("create user persist failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptions(ctx, u.Role)

	l.Info("create user success",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role.String()),
	)
	return mapToResponse(*u), nil
}

// applyProfiles enforces that exactly the bundle matching the role is set.
func applyProfiles(u *User, admin *AdminProfileRequest, hr *HRProfileRequest, manager *ManagerProfileRequest) error {
	switch u.Role {
	case domain.RoleAdmin:
		if admin == nil {
			return usererrors.ErrAdminProfileRequired
		}
		if hr != nil || manager != nil {
			return usererrors.ErrUnexpectedProfile
		}
		u.Admin = AdminProfile{
			Department:  optionalString(admin.Department),
			AccessLevel: optionalString(admin.AccessLevel),
		}
	case domain.RoleHR:
		if hr == nil {
			return usererrors.ErrHRProfileRequired
		}
		if admin != nil || manager != nil {
			return usererrors.ErrUnexpectedProfile
		}
		u.HR = HRProfile{
			Specialization: optionalString(hr.Specialization),
			Certification:  optionalString(hr.Certification),
		}
	case domain.RoleManager:
		if manager == nil || manager.YearsOfExperience <= 0 {
			return usererrors.ErrManagerProfileRequired
		}
		if admin != nil || hr != nil {
			return usererrors.ErrUnexpectedProfile
		}
		years := manager.YearsOfExperience
		u.Manager = ManagerProfile{
			ManagementLevel:   optionalString(manager.ManagementLevel),
			YearsOfExperience: &years,
		}
	case domain.RoleEmployee:
		if admin != nil || hr != nil || manager != nil {
			return usererrors.ErrUnexpectedProfile
		}
	default:
		return usererrors.ErrInvalidRole
	}
	return nil
}

func (s *service) applyEmployment(ctx context.Context, u *User, req *EmploymentRequest) error {
	if !u.Role.HasLedger() {
		if req != nil {
			return usererrors.ErrUnexpectedProfile
		}
		return nil
	}
	if req == nil {
		return usererrors.ErrEmploymentRequired
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return usererrors.ErrInvalidHireDate
	}
	u.Employment.HireDate = &hireDate

	// Balances start at zero and the hire month itself never accrues.
	month := hireDate.Format("2006-01")
	u.Employment.LastAccrualMonth = &month

	teamID, err := s.resolveTeam(ctx, req.TeamID)
	if err != nil {
		return err
	}
	u.Employment.TeamID = teamID
	return nil
}

func (s *service) resolveTeam(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, usererrors.ErrTeamNotFound
	}
	ok, err := s.repo.TeamExists(ctx, id.String())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, usererrors.ErrTeamNotFound
	}
	return &id, nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]UserResponse, int64, error) {
	s.logger.Debug("get all users requested",
		zap.Int("page", filter.Page),
		zap.String("role", filter.Role),
	)
	users, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all users failed", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

// GetAdminOptions lists active admins, the pool a second-tier decider is
// picked from when a leave request is created.
func (s *service) GetAdminOptions(ctx context.Context) ([]OptionResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, AdminOptionsKey).Result(); err == nil {
			var resp []OptionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(AdminOptionsKey, func() (interface{}, error) {
		admins, err := s.repo.FindActiveByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]OptionResponse, len(admins))
		for i, a := range admins {
			resp[i] = OptionResponse{ID: a.ID.String(), FullName: a.FullName(), Email: a.Email}
		}

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, AdminOptionsKey, data, time.Hour)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]OptionResponse), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	u.FirstName = strings.TrimSpace(req.FirstName)
	u.LastName = strings.TrimSpace(req.LastName)
	u.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Picture != "" {
		u.Picture = optionalString(req.Picture)
	}

	if req.Admin != nil || req.HR != nil || req.Manager != nil {
		if err := applyProfiles(u, req.Admin, req.HR, req.Manager); err != nil {
			return UserResponse{}, err
		}
	}

	if req.TeamID != nil {
		if !u.Role.HasLedger() {
			return UserResponse{}, usererrors.ErrUnexpectedProfile
		}
		teamID, err := s.resolveTeam(ctx, req.TeamID)
		if err != nil {
			return UserResponse{}, err
		}
		u.Employment.TeamID = teamID
	}

	if err := s.repo.Update(ctx, u); err != nil {
		l.Error("update user persist failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptions(ctx, u.Role)
	l.Info("update user success", zap.String("user_id", id))
	return mapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	l := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}
	if actorID == id {
		return usererrors.ErrCannotDeleteSelf
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		l.Error("delete user failed", zap.String("user_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateOptions(ctx, u.Role)
	l.Info("delete user success", zap.String("user_id", id))
	return nil
}

func (s *service) ToggleStatus(ctx context.Context, id string, isActive bool) error {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		l.Error("toggle status find user failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	u.IsActive = isActive
	if err := s.repo.Update(ctx, u); err != nil {
		l.Error("toggle status update failed", zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx, u.Role)
	return nil
}

func (s *service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)); err != nil {
		return usererrors.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		l.Error("change password hash failed", zap.Error(err))
		return err
	}

	u.Password = string(hashed)
	return s.repo.Update(ctx, u)
}

func (s *service) ForceResetPassword(ctx context.Context, userID, newPassword string) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return mapRepositoryError(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.Password = string(hashed)
	return s.repo.Update(ctx, u)
}

func (s *service) invalidateOptions(ctx context.Context, role domain.Role) {
	if s.rdb == nil || role != domain.RoleAdmin {
		return
	}
	if err := s.rdb.Del(ctx, AdminOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate admin options cache",
			zap.Error(err),
			zap.String("key", AdminOptionsKey),
		)
	}
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:                u.ID.String(),
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		FullName:          u.FullName(),
		Cin:               u.Cin,
		Email:             u.Email,
		Role:              u.Role.String(),
		IsActive:          u.IsActive,
		Department:        u.Admin.Department,
		AccessLevel:       u.Admin.AccessLevel,
		Specialization:    u.HR.Specialization,
		Certification:     u.HR.Certification,
		ManagementLevel:   u.Manager.ManagementLevel,
		YearsOfExperience: u.Manager.YearsOfExperience,
		CreatedAt:         u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if u.Picture != nil {
		resp.Picture = *u.Picture
	}
	if u.Role.HasLedger() {
		if u.Employment.HireDate != nil {
			resp.HireDate = u.Employment.HireDate.Format("2006-01-02")
		}
		if u.Employment.TeamID != nil {
			resp.TeamID = u.Employment.TeamID.String()
		}
		holiday, permission := u.Employment.Holiday, u.Employment.Permission
		resp.HolidayBalance = &holiday
		resp.PermissionBalance = &permission
	}
	return resp
}
