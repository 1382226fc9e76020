package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"rh-management/internal/domain"
	"rh-management/internal/user"
	usererrors "rh-management/internal/user/errors"
	mock_user "rh-management/internal/user/mock"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*mock_user.MockRepository, user.Service) {
	ctrl := gomock.NewController(t)
	mockRepo := mock_user.NewMockRepository(ctrl)
	svc := user.NewService(mockRepo, nil, zap.NewNop())
	return mockRepo, svc
}

func baseCreateRequest(role string) user.CreateUserRequest {
	return user.CreateUserRequest{
		FirstName: "Amine",
		LastName:  "Benali",
		Cin:       "AB123456",
		Email:     "Amine@Mail.com",
		Password:  "secret123",
		Role:      role,
	}
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success employee starts with zero balances", func(t *testing.T) {
		repo, svc := setup(t)
		req := baseCreateRequest("EMPLOYEE")
		req.Employment = &user.EmploymentRequest{HireDate: "2024-03-15"}

		repo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				assert.Equal(t, domain.RoleEmployee, u.Role)
				assert.Equal(t, "amine@mail.com", u.Email)
				assert.Equal(t, 0, u.Employment.Holiday)
				assert.Equal(t, 0, u.Employment.Permission)
				assert.Equal(t, "2024-03", *u.Employment.LastAccrualMonth)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret123")))
				return nil
			})

		res, err := svc.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "EMPLOYEE", res.Role)
		assert.Equal(t, "2024-03-15", res.HireDate)
		assert.Equal(t, 0, *res.HolidayBalance)
	})

	t.Run("success manager with team", func(t *testing.T) {
		repo, svc := setup(t)
		teamID := uuid.NewString()
		req := baseCreateRequest("MANAGER")
		req.Manager = &user.ManagerProfileRequest{ManagementLevel: "SENIOR", YearsOfExperience: 6}
		req.Employment = &user.EmploymentRequest{HireDate: "2023-01-31", TeamID: &teamID}

		repo.EXPECT().TeamExists(gomock.Any(), teamID).Return(true, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, teamID, res.TeamID)
		assert.Equal(t, 6, *res.YearsOfExperience)
	})

	t.Run("success admin invalidates options cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_user.NewMockRepository(ctrl)
		rdb, redisMock := redismock.NewClientMock()
		svc := user.NewService(repo, rdb, zap.NewNop())

		req := baseCreateRequest("ADMIN")
		req.Admin = &user.AdminProfileRequest{Department: "Direction", AccessLevel: "FULL"}

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		redisMock.ExpectDel(user.AdminOptionsKey).SetVal(1)

		res, err := svc.Create(ctx, req)

		assert.NoError(t, err)
		assert.Nil(t, res.HolidayBalance)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("negative missing role bundle", func(t *testing.T) {
		cases := map[string]error{
			"ADMIN":   usererrors.ErrAdminProfileRequired,
			"HR":      usererrors.ErrHRProfileRequired,
			"MANAGER": usererrors.ErrManagerProfileRequired,
		}
		for role, want := range cases {
			_, svc := setup(t)
			_, err := svc.Create(ctx, baseCreateRequest(role))
			assert.ErrorIs(t, err, want, role)
		}
	})

	t.Run("negative employee without employment", func(t *testing.T) {
		_, svc := setup(t)

		_, err := svc.Create(ctx, baseCreateRequest("EMPLOYEE"))

		assert.ErrorIs(t, err, usererrors.ErrEmploymentRequired)
	})

	t.Run("negative bundle of another role", func(t *testing.T) {
		_, svc := setup(t)
		req := baseCreateRequest("EMPLOYEE")
		req.HR = &user.HRProfileRequest{Specialization: "Payroll", Certification: "CIPD"}
		req.Employment = &user.EmploymentRequest{HireDate: "2024-01-01"}

		_, err := svc.Create(ctx, req)

		assert.ErrorIs(t, err, usererrors.ErrUnexpectedProfile)
	})

	t.Run("negative admin with employment", func(t *testing.T) {
		_, svc := setup(t)
		req := baseCreateRequest("ADMIN")
		req.Admin = &user.AdminProfileRequest{Department: "IT", AccessLevel: "FULL"}
		req.Employment = &user.EmploymentRequest{HireDate: "2024-01-01"}

		_, err := svc.Create(ctx, req)

		assert.ErrorIs(t, err, usererrors.ErrUnexpectedProfile)
	})

	t.Run("negative invalid hire date", func(t *testing.T) {
		_, svc := setup(t)
		req := baseCreateRequest("EMPLOYEE")
		req.Employment = &user.EmploymentRequest{HireDate: "15/03/2024"}

		_, err := svc.Create(ctx, req)

		assert.ErrorIs(t, err, usererrors.ErrInvalidHireDate)
	})

	t.Run("negative unknown team", func(t *testing.T) {
		repo, svc := setup(t)
		teamID := uuid.NewString()
		req := baseCreateRequest("EMPLOYEE")
		req.Employment = &user.EmploymentRequest{HireDate: "2024-01-01", TeamID: &teamID}

		repo.EXPECT().TeamExists(gomock.Any(), teamID).Return(false, nil)

		_, err := svc.Create(ctx, req)

		assert.ErrorIs(t, err, usererrors.ErrTeamNotFound)
	})

	t.Run("negative invalid role", func(t *testing.T) {
		_, svc := setup(t)

		_, err := svc.Create(ctx, baseCreateRequest("INTERN"))

		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
	})
}

func TestUserService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, svc := setup(t)
		filter := user.ListFilter{Role: "EMPLOYEE"}
		filter.Page, filter.PageSize = 1, 10

		repo.EXPECT().
			FindAll(gomock.Any(), filter).
			Return([]user.User{{ID: uuid.New(), Email: "john@mail.com", Role: domain.RoleEmployee, IsActive: true}}, int64(1), nil)

		res, total, err := svc.GetAll(ctx, filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, res, 1)
		assert.Equal(t, "john@mail.com", res[0].Email)
	})

	t.Run("repository error", func(t *testing.T) {
		repo, svc := setup(t)

		repo.EXPECT().FindAll(gomock.Any(), gomock.Any()).Return(nil, int64(0), errors.New("db error"))

		res, _, err := svc.GetAll(ctx, user.ListFilter{})

		assert.Error(t, err)
		assert.Nil(t, res)
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, svc := setup(t)
		id := uuid.New()

		repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(&user.User{ID: id, Email: "a@mail.com", Role: domain.RoleHR}, nil)

		res, err := svc.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), res.ID)
	})

	t.Run("negative not found", func(t *testing.T) {
		repo, svc := setup(t)
		id := uuid.NewString()

		repo.EXPECT().FindByID(gomock.Any(), id).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetByID(ctx, id)

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		_, svc := setup(t)

		_, err := svc.GetByID(ctx, "nope")

		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})
}

func TestUserService_GetAdminOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss loads and stores", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_user.NewMockRepository(ctrl)
		rdb, redisMock := redismock.NewClientMock()
		svc := user.NewService(repo, rdb, zap.NewNop())

		adminID := uuid.New()
		want := []user.OptionResponse{{ID: adminID.String(), FullName: "Sara Idrissi", Email: "sara@mail.com"}}
		payload, _ := json.Marshal(want)

		redisMock.ExpectGet(user.AdminOptionsKey).RedisNil()
		repo.EXPECT().
			FindActiveByRole(gomock.Any(), domain.RoleAdmin).
			Return([]user.User{{ID: adminID, FirstName: "Sara", LastName: "Idrissi", Email: "sara@mail.com"}}, nil)
		redisMock.ExpectSet(user.AdminOptionsKey, payload, time.Hour).SetVal("OK")

		res, err := svc.GetAdminOptions(ctx)

		assert.NoError(t, err)
		assert.Equal(t, want, res)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_user.NewMockRepository(ctrl)
		rdb, redisMock := redismock.NewClientMock()
		svc := user.NewService(repo, rdb, zap.NewNop())

		redisMock.ExpectGet(user.AdminOptionsKey).SetVal(`[{"id":"a1","full_name":"Sara Idrissi","email":"sara@mail.com"}]`)

		res, err := svc.GetAdminOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, res, 1)
		assert.Equal(t, "a1", res[0].ID)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success moves employee to another team", func(t *testing.T) {
		repo, svc := setup(t)
		id := uuid.New()
		teamID := uuid.NewString()

		repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(&user.User{ID: id, Role: domain.RoleEmployee}, nil)
		repo.EXPECT().TeamExists(gomock.Any(), teamID).Return(true, nil)
		repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				assert.Equal(t, teamID, u.Employment.TeamID.String())
				assert.Equal(t, "New", u.FirstName)
				return nil
			})

		res, err := svc.Update(ctx, id.String(), user.UpdateUserRequest{
			FirstName: "New",
			LastName:  "Name",
			Email:     "new@mail.com",
			TeamID:    &teamID,
		})

		assert.NoError(t, err)
		assert.Equal(t, teamID, res.TeamID)
	})

	t.Run("negative team on admin", func(t *testing.T) {
		repo, svc := setup(t)
		id := uuid.New()
		teamID := uuid.NewString()

		repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(&user.User{ID: id, Role: domain.RoleAdmin}, nil)

		_, err := svc.Update(ctx, id.String(), user.UpdateUserRequest{FirstName: "A", LastName: "B", Email: "a@b.c", TeamID: &teamID})

		assert.ErrorIs(t, err, usererrors.ErrUnexpectedProfile)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, svc := setup(t)
		id := uuid.New()

		repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(&user.User{ID: id, Role: domain.RoleEmployee}, nil)
		repo.EXPECT().Delete(gomock.Any(), id.String()).Return(nil)

		err := svc.Delete(ctx, uuid.NewString(), id.String())

		assert.NoError(t, err)
	})

	t.Run("negative self delete", func(t *testing.T) {
		_, svc := setup(t)
		id := uuid.NewString()

		err := svc.Delete(ctx, id, id)

		assert.ErrorIs(t, err, usererrors.ErrCannotDeleteSelf)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)

	t.Run("success", func(t *testing.T) {
		repo, svc := setup(t)
		id := uuid.New()

		repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(&user.User{ID: id, Password: string(hashed)}, nil)
		repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("new-password")))
				return nil
			})

		err := svc.ChangePassword(ctx, id.String(), "old-password", "new-password")

		assert.NoError(t, err)
	})

	t.Run("negative wrong current password", func(t *testing.T) {
		repo, svc := setup(t)
		id := uuid.New()

		repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(&user.User{ID: id, Password: string(hashed)}, nil)

		err := svc.ChangePassword(ctx, id.String(), "wrong", "new-password")

		assert.ErrorIs(t, err, usererrors.ErrWrongPassword)
	})
}

func TestUserService_ToggleStatus(t *testing.T) {
	repo, svc := setup(t)
	id := uuid.New()

	repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(&user.User{ID: id, Role: domain.RoleEmployee, IsActive: true}, nil)
	repo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *user.User) error {
			assert.False(t, u.IsActive)
			return nil
		})

	err := svc.ToggleStatus(context.Background(), id.String(), false)

	assert.NoError(t, err)
}
