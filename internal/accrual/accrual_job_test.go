package accrual_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rh-management/internal/accrual"
	"rh-management/internal/balance"
	"rh-management/internal/domain"
	"rh-management/internal/employee"
	mock_employee "rh-management/internal/employee/mock"
	"rh-management/internal/scheduler"
	"rh-management/internal/shared/retry"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func hiredOn(v string, holiday, permission int) employee.Employee {
	d := day(v)
	return employee.Employee{
		ID:       uuid.New(),
		Role:     domain.RoleEmployee,
		IsActive: true,
		HireDate: &d,
		Ledger:   balance.Ledger{Holiday: holiday, Permission: permission},
	}
}

func strPtr(v string) *string { return &v }

func TestJob_RunFor(t *testing.T) {
	ctx := context.Background()
	today := day("2024-04-30")

	setup := func(t *testing.T) (sqlmock.Sqlmock, *mock_employee.MockRepository, redismock.ClientMock, *accrual.Job) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		ctrl := gomock.NewController(t)
		repo := mock_employee.NewMockRepository(ctrl)
		repo.EXPECT().WithTx(gomock.Any()).Return(repo).AnyTimes()

		rdb, redisMock := redismock.NewClientMock()
		job := accrual.NewJob(db, repo, rdb, accrual.WithLogger(zap.NewNop()))
		return sqlMock, repo, redisMock, job
	}

	t.Run("success credits only anniversaries", func(t *testing.T) {
		sqlMock, repo, redisMock, job := setup(t)

		due := hiredOn("2024-01-30", 4, 2)
		endOfMonth := hiredOn("2023-12-31", 0, 0)
		notDue := hiredOn("2024-01-15", 3, 1)
		hiredThisMonth := hiredOn("2024-04-30", 0, 0)
		already := hiredOn("2024-01-31", 2, 1)
		already.LastAccrualMonth = strPtr("2024-04")

		redisMock.ExpectSetNX("accrual:run:2024-04-30", "1", 26*time.Hour).SetVal(true)
		expectTx(t, sqlMock, true)
		repo.EXPECT().ListForAccrual(gomock.Any()).Return(
			[]employee.Employee{due, endOfMonth, notDue, hiredThisMonth, already}, nil)

		saved := map[uuid.UUID]employee.Employee{}
		repo.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
			func(_ context.Context, e *employee.Employee) error {
				saved[e.ID] = *e
				return nil
			})

		res, err := job.RunFor(ctx, today)

		assert.NoError(t, err)
		assert.Equal(t, accrual.Result{Date: "2024-04-30", Scanned: 5, Accrued: 2, Skipped: 1}, res)

		assert.Equal(t, 6, saved[due.ID].Holiday)
		assert.Equal(t, 3, saved[due.ID].Permission)
		assert.Equal(t, "2024-04", *saved[due.ID].LastAccrualMonth)
		assert.Equal(t, 2, saved[endOfMonth.ID].Holiday)
		assert.Equal(t, 1, saved[endOfMonth.ID].Permission)
		assert.NotContains(t, saved, notDue.ID)
		assert.NotContains(t, saved, hiredThisMonth.ID)
		assert.NotContains(t, saved, already.ID)

		assert.NoError(t, sqlMock.ExpectationsWereMet())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("guard held skips the run", func(t *testing.T) {
		_, _, redisMock, job := setup(t)

		redisMock.ExpectSetNX("accrual:run:2024-04-30", "1", 26*time.Hour).SetVal(false)

		res, err := job.RunFor(ctx, today.Add(15*time.Hour))

		assert.NoError(t, err)
		assert.True(t, res.AlreadyProcessed)
		assert.Zero(t, res.Accrued)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("redis failure falls back to month marker", func(t *testing.T) {
		sqlMock, repo, redisMock, job := setup(t)

		redisMock.ExpectSetNX("accrual:run:2024-04-30", "1", 26*time.Hour).SetErr(errors.New("redis down"))
		expectTx(t, sqlMock, true)
		repo.EXPECT().ListForAccrual(gomock.Any()).Return(nil, nil)

		res, err := job.RunFor(ctx, today)

		assert.NoError(t, err)
		assert.Zero(t, res.Scanned)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("negative any failure aborts the batch and releases the guard", func(t *testing.T) {
		sqlMock, repo, redisMock, job := setup(t)

		first := hiredOn("2024-01-30", 0, 0)
		second := hiredOn("2024-03-30", 0, 0)

		redisMock.ExpectSetNX("accrual:run:2024-04-30", "1", 26*time.Hour).SetVal(true)
		expectTx(t, sqlMock, false)
		redisMock.ExpectDel("accrual:run:2024-04-30").SetVal(1)

		repo.EXPECT().ListForAccrual(gomock.Any()).Return([]employee.Employee{first, second}, nil)
		gomock.InOrder(
			repo.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).Return(nil),
			repo.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).Return(errors.New("db down")),
		)

		res, err := job.RunFor(ctx, today)

		assert.EqualError(t, err, "db down")
		assert.Zero(t, res.Accrued)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("without redis", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		ctrl := gomock.NewController(t)
		repo := mock_employee.NewMockRepository(ctrl)
		repo.EXPECT().WithTx(gomock.Any()).Return(repo)

		e := hiredOn("2024-01-30", 0, 0)
		expectTx(t, sqlMock, true)
		repo.EXPECT().ListForAccrual(gomock.Any()).Return([]employee.Employee{e}, nil)
		repo.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).Return(nil)

		job := accrual.NewJob(db, repo, nil, accrual.WithLogger(zap.NewNop()))

		assert.NoError(t, job.Run(ctx, today.Add(3*time.Hour)))
		assert.Equal(t, "balance_accrual", job.Name())
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestJob_RetriedOnSameDayAfterFailure(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ctrl := gomock.NewController(t)
	repo := mock_employee.NewMockRepository(ctrl)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo).AnyTimes()
	rdb, redisMock := redismock.NewClientMock()

	e := hiredOn("2024-01-15", 5, 1)

	redisMock.ExpectSetNX("accrual:run:2024-03-15", "1", 26*time.Hour).SetVal(true)
	sqlMock.ExpectBegin().WillReturnError(errors.New("db down"))
	redisMock.ExpectDel("accrual:run:2024-03-15").SetVal(1)

	redisMock.ExpectSetNX("accrual:run:2024-03-15", "1", 26*time.Hour).SetVal(true)
	expectTx(t, sqlMock, true)
	repo.EXPECT().ListForAccrual(gomock.Any()).Return([]employee.Employee{e}, nil)

	var saved employee.Employee
	repo.EXPECT().SaveLedger(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, got *employee.Employee) error {
			saved = *got
			return nil
		})

	job := accrual.NewJob(db, repo, rdb, accrual.WithLogger(zap.NewNop()))
	daily := scheduler.NewDaily(0, []scheduler.Job{job},
		scheduler.WithLogger(zap.NewNop()),
		scheduler.WithRetry(3, retry.Backoff{Initial: time.Millisecond}),
	)

	failed := daily.RunOnce(context.Background(), day("2024-03-15"))

	assert.Zero(t, failed)
	assert.Equal(t, 7, saved.Holiday)
	assert.Equal(t, 2, saved.Permission)
	assert.Equal(t, "2024-03", *saved.LastAccrualMonth)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
