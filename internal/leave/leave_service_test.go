package leave_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rh-management/internal/balance"
	balanceerrors "rh-management/internal/balance/errors"
	"rh-management/internal/domain"
	"rh-management/internal/employee"
	mock_employee "rh-management/internal/employee/mock"
	"rh-management/internal/events"
	"rh-management/internal/leave"
	leaveerrors "rh-management/internal/leave/errors"
	mock_leave "rh-management/internal/leave/mock"
	"rh-management/internal/messaging/kafka"
	mock_kafka "rh-management/internal/messaging/kafka/mock"
	"rh-management/internal/team"
	mock_team "rh-management/internal/team/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

type leaveServiceDeps struct {
	sqlMock   sqlmock.Sqlmock
	repo      *mock_leave.MockRepository
	employees *mock_employee.MockRepository
	teams     *mock_team.MockRepository
	outbox    *mock_kafka.MockOutboxRepository
	service   leave.Service
}

func setupLeaveServiceTest(t *testing.T, cfg leave.Config) *leaveServiceDeps {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	d := &leaveServiceDeps{
		sqlMock:   sqlMock,
		repo:      mock_leave.NewMockRepository(ctrl),
		employees: mock_employee.NewMockRepository(ctrl),
		teams:     mock_team.NewMockRepository(ctrl),
		outbox:    mock_kafka.NewMockOutboxRepository(ctrl),
	}
	d.service = leave.NewService(db, d.repo, d.employees, d.teams, d.outbox, cfg,
		leave.WithClock(func() time.Time { return fixedNow }),
		leave.WithLogger(zap.NewNop()),
	)

	d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo).AnyTimes()
	d.employees.EXPECT().WithTx(gomock.Any()).Return(d.employees).AnyTimes()
	d.teams.EXPECT().WithTx(gomock.Any()).Return(d.teams).AnyTimes()
	d.outbox.EXPECT().WithTx(gomock.Any()).Return(d.outbox).AnyTimes()
	return d
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func newEmployee(role domain.Role, holiday int) *employee.Employee {
	return &employee.Employee{
		ID:        uuid.New(),
		FirstName: "Youssef",
		LastName:  "Trabelsi",
		Role:      role,
		IsActive:  true,
		Ledger:    balance.Ledger{Holiday: holiday, Permission: 2},
	}
}

func expectEvent(d *leaveServiceDeps, eventType string) {
	d.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e kafka.OutboxEvent) error {
			if e.EventType != eventType || e.Topic != events.LeaveLifecycleTopic {
				return errors.New("unexpected event " + e.EventType)
			}
			return nil
		})
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.NewString()

	request := func(emp *employee.Employee) leave.CreateLeaveRequest {
		return leave.CreateLeaveRequest{
			AdminID:   adminID,
			Type:      "HOLIDAY",
			StartDate: "2024-06-01",
			EndDate:   "2024-06-05",
			Reason:    "family trip",
		}
	}

	t.Run("success debits four days", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 10)
		expectTx(t, d.sqlMock, true)

		d.repo.EXPECT().IsActiveAdmin(gomock.Any(), adminID).Return(true, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.repo.EXPECT().HasOverlappingPeriod(gomock.Any(), emp.ID.String(), gomock.Any(), gomock.Any()).Return(false, nil)
		d.employees.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, 6, e.Holiday)
				assert.Equal(t, 2, e.Permission)
				return nil
			})
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, l *leave.LeaveRequest) error {
				assert.Equal(t, leave.StatePendingRH, l.State)
				assert.Equal(t, 4, l.Days)
				assert.Equal(t, emp.ID, l.EmployeeID)
				return nil
			})
		expectEvent(d, events.LeaveCreated)

		resp, err := d.service.Create(ctx, emp.Actor(), request(emp))

		assert.NoError(t, err)
		assert.Equal(t, 4, resp.Days)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "PENDING", resp.RHStatus)
		assert.Equal(t, "Youssef Trabelsi", resp.EmployeeName)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("success manager skips rh tier", func(t *testing.T) {
		for _, role := range []domain.Role{domain.RoleManager, domain.RoleHR} {
			d := setupLeaveServiceTest(t, leave.Config{})
			emp := newEmployee(role, 10)
			expectTx(t, d.sqlMock, true)

			d.repo.EXPECT().IsActiveAdmin(gomock.Any(), adminID).Return(true, nil)
			d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
			d.repo.EXPECT().HasOverlappingPeriod(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
			d.employees.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).Return(nil)
			d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			expectEvent(d, events.LeaveCreated)

			resp, err := d.service.Create(ctx, emp.Actor(), request(emp))

			assert.NoError(t, err)
			assert.Equal(t, string(leave.StatePendingAdmin), resp.State)
			assert.Equal(t, "APPROVED", resp.RHStatus)
			assert.Equal(t, "PENDING", resp.Status)
		}
	})

	t.Run("negative insufficient balance persists nothing", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 3)
		expectTx(t, d.sqlMock, false)

		d.repo.EXPECT().IsActiveAdmin(gomock.Any(), adminID).Return(true, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.repo.EXPECT().HasOverlappingPeriod(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := d.service.Create(ctx, emp.Actor(), request(emp))

		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
		assert.Equal(t, 3, emp.Holiday)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative admin cannot file", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		actor := domain.Actor{ID: uuid.NewString(), Role: domain.RoleAdmin}

		_, err := d.service.Create(ctx, actor, leave.CreateLeaveRequest{AdminID: adminID, Type: "HOLIDAY", StartDate: "2024-06-01", EndDate: "2024-06-02"})

		assert.ErrorIs(t, err, leaveerrors.ErrForbidden)
	})

	t.Run("negative filing for someone else", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 10)
		req := request(emp)
		req.EmployeeID = uuid.NewString()

		_, err := d.service.Create(ctx, emp.Actor(), req)

		assert.ErrorIs(t, err, leaveerrors.ErrForbidden)
	})

	t.Run("negative end before start", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 10)
		req := request(emp)
		req.StartDate, req.EndDate = "2024-06-05", "2024-06-01"

		_, err := d.service.Create(ctx, emp.Actor(), req)

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidDateRange)
	})

	t.Run("negative bad date", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 10)
		req := request(emp)
		req.StartDate = "01/06/2024"

		_, err := d.service.Create(ctx, emp.Actor(), req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("negative admin not found", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 10)
		expectTx(t, d.sqlMock, false)

		d.repo.EXPECT().IsActiveAdmin(gomock.Any(), adminID).Return(false, nil)

		_, err := d.service.Create(ctx, emp.Actor(), request(emp))

		assert.ErrorIs(t, err, leaveerrors.ErrAdminNotFound)
	})

	t.Run("negative overlapping period", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 10)
		expectTx(t, d.sqlMock, false)

		d.repo.EXPECT().IsActiveAdmin(gomock.Any(), adminID).Return(true, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.repo.EXPECT().HasOverlappingPeriod(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := d.service.Create(ctx, emp.Actor(), request(emp))

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.Equal(t, 10, emp.Holiday)
	})

	t.Run("negative storage failure rolls back", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 10)
		expectTx(t, d.sqlMock, false)

		d.repo.EXPECT().IsActiveAdmin(gomock.Any(), adminID).Return(true, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.repo.EXPECT().HasOverlappingPeriod(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		d.employees.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).Return(nil)
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := d.service.Create(ctx, emp.Actor(), request(emp))

		assert.EqualError(t, err, "db down")
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})
}

func pendingRequest(emp *employee.Employee, adminID uuid.UUID, state leave.State, days int) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: emp.ID,
		AdminID:    adminID,
		Type:       balance.KindHoliday,
		StartDate:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 6, 1+days, 0, 0, 0, 0, time.UTC),
		Days:       days,
		State:      state,
	}
}

func TestLeaveService_DecideRH(t *testing.T) {
	ctx := context.Background()
	managerID := uuid.New()
	teamID := uuid.New()
	tm := &team.Team{ID: teamID, ManagerID: managerID}
	manager := domain.Actor{ID: managerID.String(), Role: domain.RoleManager}

	setup := func(t *testing.T, state leave.State) (*leaveServiceDeps, *employee.Employee, *leave.LeaveRequest) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 6)
		emp.TeamID = &teamID
		l := pendingRequest(emp, uuid.New(), state, 4)
		return d, emp, l
	}

	t.Run("success reject restores balance", func(t *testing.T) {
		d, emp, l := setup(t, leave.StatePendingRH)
		expectTx(t, d.sqlMock, true)

		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID.String()).Return(l, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.teams.EXPECT().FindByID(gomock.Any(), teamID.String()).Return(tm, nil)
		d.employees.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, 10, e.Holiday)
				return nil
			})
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		expectEvent(d, events.LeaveRHDecided)

		resp, err := d.service.DecideRH(ctx, manager, l.ID.String(), leave.DecisionRequest{Status: "REJECTED"})

		assert.NoError(t, err)
		assert.Equal(t, "REJECTED", resp.Status)
		assert.Equal(t, "REJECTED", resp.RHStatus)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("success approve leaves balance", func(t *testing.T) {
		d, emp, l := setup(t, leave.StatePendingRH)
		expectTx(t, d.sqlMock, true)

		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID.String()).Return(l, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.teams.EXPECT().FindByID(gomock.Any(), teamID.String()).Return(tm, nil)
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		expectEvent(d, events.LeaveRHDecided)

		resp, err := d.service.DecideRH(ctx, manager, l.ID.String(), leave.DecisionRequest{Status: "APPROVED"})

		assert.NoError(t, err)
		assert.Equal(t, string(leave.StatePendingAdmin), resp.State)
		assert.Equal(t, "APPROVED", resp.RHStatus)
		assert.Equal(t, 6, emp.Holiday)
	})

	t.Run("success hr decides without team", func(t *testing.T) {
		d, emp, l := setup(t, leave.StatePendingRH)
		emp.TeamID = nil
		expectTx(t, d.sqlMock, true)

		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID.String()).Return(l, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		expectEvent(d, events.LeaveRHDecided)

		hr := domain.Actor{ID: uuid.NewString(), Role: domain.RoleHR}
		_, err := d.service.DecideRH(ctx, hr, l.ID.String(), leave.DecisionRequest{Status: "APPROVED"})

		assert.NoError(t, err)
	})

	t.Run("negative manager of another team", func(t *testing.T) {
		d, emp, l := setup(t, leave.StatePendingRH)
		expectTx(t, d.sqlMock, false)

		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID.String()).Return(l, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.teams.EXPECT().FindByID(gomock.Any(), teamID.String()).Return(tm, nil)

		other := domain.Actor{ID: uuid.NewString(), Role: domain.RoleManager}
		_, err := d.service.DecideRH(ctx, other, l.ID.String(), leave.DecisionRequest{Status: "APPROVED"})

		assert.ErrorIs(t, err, leaveerrors.ErrForbidden)
		assert.Equal(t, leave.StatePendingRH, l.State)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not pending rh", func(t *testing.T) {
		d, emp, l := setup(t, leave.StatePendingAdmin)
		expectTx(t, d.sqlMock, false)

		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID.String()).Return(l, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.teams.EXPECT().FindByID(gomock.Any(), teamID.String()).Return(tm, nil)

		_, err := d.service.DecideRH(ctx, manager, l.ID.String(), leave.DecisionRequest{Status: "REJECTED"})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidState)
		assert.Equal(t, 6, emp.Holiday)
	})

	t.Run("negative not found", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		expectTx(t, d.sqlMock, false)
		id := uuid.NewString()

		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), id).Return(nil, gorm.ErrRecordNotFound)

		_, err := d.service.DecideRH(ctx, manager, id, leave.DecisionRequest{Status: "APPROVED"})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("negative invalid decision", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})

		_, err := d.service.DecideRH(ctx, manager, uuid.NewString(), leave.DecisionRequest{Status: "MAYBE"})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDecision)
	})
}

func TestLeaveService_DecideAdmin(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	admin := domain.Actor{ID: adminID.String(), Role: domain.RoleAdmin}

	t.Run("success reject credits once", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 6)
		l := pendingRequest(emp, adminID, leave.StatePendingAdmin, 4)

		expectTx(t, d.sqlMock, true)
		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID.String()).Return(l, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.employees.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).Return(nil)
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		expectEvent(d, events.LeaveAdminDecided)

		resp, err := d.service.DecideAdmin(ctx, admin, l.ID.String(), leave.DecisionRequest{Status: "REJECTED"})

		assert.NoError(t, err)
		assert.Equal(t, 10, emp.Holiday)
		assert.Equal(t, "REJECTED", resp.Status)
		assert.Equal(t, "APPROVED", resp.RHStatus)
		assert.True(t, l.Refunded)

		// a replay of the same decision finds the request already rejected
		expectTx(t, d.sqlMock, false)
		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID.String()).Return(l, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)

		_, err = d.service.DecideAdmin(ctx, admin, l.ID.String(), leave.DecisionRequest{Status: "REJECTED"})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidState)
		assert.Equal(t, 10, emp.Holiday)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("success approve", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 6)
		l := pendingRequest(emp, adminID, leave.StatePendingAdmin, 4)

		expectTx(t, d.sqlMock, true)
		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID.String()).Return(l, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		expectEvent(d, events.LeaveAdminDecided)

		resp, err := d.service.DecideAdmin(ctx, admin, l.ID.String(), leave.DecisionRequest{Status: "APPROVED"})

		assert.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.Equal(t, 6, emp.Holiday)
	})

	t.Run("negative not the designated admin", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 6)
		l := pendingRequest(emp, adminID, leave.StatePendingAdmin, 4)

		expectTx(t, d.sqlMock, false)
		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID.String()).Return(l, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)

		other := domain.Actor{ID: uuid.NewString(), Role: domain.RoleAdmin}
		_, err := d.service.DecideAdmin(ctx, other, l.ID.String(), leave.DecisionRequest{Status: "APPROVED"})

		assert.ErrorIs(t, err, leaveerrors.ErrForbidden)
		assert.Equal(t, leave.StatePendingAdmin, l.State)
	})

	t.Run("negative still at rh tier", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 6)
		l := pendingRequest(emp, adminID, leave.StatePendingRH, 4)

		expectTx(t, d.sqlMock, false)
		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID.String()).Return(l, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)

		_, err := d.service.DecideAdmin(ctx, admin, l.ID.String(), leave.DecisionRequest{Status: "APPROVED"})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidState)
	})
}

func TestLeaveService_Delete(t *testing.T) {
	ctx := context.Background()

	rejectedRequest := func(emp *employee.Employee) *leave.LeaveRequest {
		l := pendingRequest(emp, uuid.New(), leave.StateRejected, 4)
		tier := leave.TierRH
		l.RejectedTier = &tier
		l.Refunded = true
		return l
	}

	t.Run("credits even an already refunded request by default", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 10)
		l := rejectedRequest(emp)

		expectTx(t, d.sqlMock, true)
		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID.String()).Return(l, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.employees.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).Return(nil)
		d.repo.EXPECT().Delete(gomock.Any(), l.ID.String()).Return(nil)
		expectEvent(d, events.LeaveDeleted)

		err := d.service.Delete(ctx, emp.Actor(), l.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, 14, emp.Holiday)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("skips refunded request when configured", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{SkipRefundedOnDelete: true})
		emp := newEmployee(domain.RoleEmployee, 10)
		l := rejectedRequest(emp)

		expectTx(t, d.sqlMock, true)
		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID.String()).Return(l, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.repo.EXPECT().Delete(gomock.Any(), l.ID.String()).Return(nil)
		expectEvent(d, events.LeaveDeleted)

		err := d.service.Delete(ctx, emp.Actor(), l.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, 10, emp.Holiday)
	})

	t.Run("pending request credits back", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{SkipRefundedOnDelete: true})
		emp := newEmployee(domain.RoleEmployee, 6)
		l := pendingRequest(emp, uuid.New(), leave.StatePendingRH, 4)

		expectTx(t, d.sqlMock, true)
		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID.String()).Return(l, nil)
		d.employees.EXPECT().FindByIDForUpdate(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.employees.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).Return(nil)
		d.repo.EXPECT().Delete(gomock.Any(), l.ID.String()).Return(nil)
		expectEvent(d, events.LeaveDeleted)

		assert.NoError(t, d.service.Delete(ctx, emp.Actor(), l.ID.String()))
		assert.Equal(t, 10, emp.Holiday)
	})

	t.Run("negative not owner", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		emp := newEmployee(domain.RoleEmployee, 6)
		l := pendingRequest(emp, uuid.New(), leave.StatePendingRH, 4)

		expectTx(t, d.sqlMock, false)
		d.repo.EXPECT().FindByIDForUpdate(gomock.Any(), l.ID.String()).Return(l, nil)

		other := domain.Actor{ID: uuid.NewString(), Role: domain.RoleEmployee}
		err := d.service.Delete(ctx, other, l.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrForbidden)
		assert.Equal(t, 6, emp.Holiday)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		assert.ErrorIs(t, d.service.Delete(ctx, domain.Actor{}, "nope"), leaveerrors.ErrInvalidLeaveID)
	})
}

func TestLeaveService_Lists(t *testing.T) {
	ctx := context.Background()
	f := leave.ListFilter{}
	f.Page, f.PageSize = 1, 10

	emp := newEmployee(domain.RoleEmployee, 6)
	row := leave.LeaveRow{LeaveRequest: *pendingRequest(emp, uuid.New(), leave.StatePendingRH, 2), EmployeeFirstName: "Youssef"}

	t.Run("mine", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		d.repo.EXPECT().FindByEmployee(gomock.Any(), emp.ID.String(), f).Return([]leave.LeaveRow{row}, int64(1), nil)

		resp, total, err := d.service.ListMine(ctx, emp.Actor(), f)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Youssef", resp[0].EmployeeName)
	})

	t.Run("team only for managers", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})

		_, _, err := d.service.ListTeam(ctx, emp.Actor(), f)

		assert.ErrorIs(t, err, leaveerrors.ErrForbidden)
	})

	t.Run("admin inbox", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		admin := domain.Actor{ID: uuid.NewString(), Role: domain.RoleAdmin}
		d.repo.EXPECT().FindAdminInbox(gomock.Any(), admin.ID, f).Return(nil, int64(0), nil)

		resp, total, err := d.service.ListAdminInbox(ctx, admin, f)

		assert.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, resp)
	})

	t.Run("hr inbox", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		d.repo.EXPECT().FindHRInbox(gomock.Any(), f).Return([]leave.LeaveRow{row}, int64(1), nil)

		resp, _, err := d.service.ListHRInbox(ctx, f)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()
	emp := newEmployee(domain.RoleEmployee, 6)
	teamID := uuid.New()
	emp.TeamID = &teamID
	managerID := uuid.New()
	row := &leave.LeaveRow{LeaveRequest: *pendingRequest(emp, uuid.New(), leave.StatePendingRH, 2)}

	t.Run("owner", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		d.repo.EXPECT().FindByID(gomock.Any(), row.ID.String()).Return(row, nil)

		_, err := d.service.GetByID(ctx, emp.Actor(), row.ID.String())
		assert.NoError(t, err)
	})

	t.Run("team manager", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		d.repo.EXPECT().FindByID(gomock.Any(), row.ID.String()).Return(row, nil)
		d.employees.EXPECT().FindByID(gomock.Any(), emp.ID.String()).Return(emp, nil)
		d.teams.EXPECT().FindByID(gomock.Any(), teamID.String()).Return(&team.Team{ID: teamID, ManagerID: managerID}, nil)

		_, err := d.service.GetByID(ctx, domain.Actor{ID: managerID.String(), Role: domain.RoleManager}, row.ID.String())
		assert.NoError(t, err)
	})

	t.Run("negative stranger", func(t *testing.T) {
		d := setupLeaveServiceTest(t, leave.Config{})
		d.repo.EXPECT().FindByID(gomock.Any(), row.ID.String()).Return(row, nil)

		_, err := d.service.GetByID(ctx, domain.Actor{ID: uuid.NewString(), Role: domain.RoleEmployee}, row.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrForbidden)
	})
}
