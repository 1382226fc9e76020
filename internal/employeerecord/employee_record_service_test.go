package employeerecord_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"rh-management/internal/domain"
	"rh-management/internal/employeerecord"
	employeerecorderrors "rh-management/internal/employeerecord/errors"
	mock_employeerecord "rh-management/internal/employeerecord/mock"
	"rh-management/internal/i18n"
	"rh-management/internal/shared/pagination"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordServiceDeps struct {
	sqlMock sqlmock.Sqlmock
	repo    *mock_employeerecord.MockRepository
	service employeerecord.Service
}

func setupRecordServiceTest(t *testing.T) *recordServiceDeps {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tr, err := i18n.New("fr", zap.NewNop())
	assert.NoError(t, err)

	ctrl := gomock.NewController(t)
	repo := mock_employeerecord.NewMockRepository(ctrl)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo).AnyTimes()

	return &recordServiceDeps{
		sqlMock: sqlMock,
		repo:    repo,
		service: employeerecord.NewService(db, repo, tr, zap.NewNop()),
	}
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

func newRow(employeeID uuid.UUID) *employeerecord.RecordRow {
	hired := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	return &employeerecord.RecordRow{
		EmployeeRecord: employeerecord.EmployeeRecord{
			ID:          uuid.New(),
			EmployeeID:  employeeID,
			Telephone:   "0600000000",
			Address:     "12 rue des Lilas",
			Birthday:    time.Date(1990, 7, 1, 0, 0, 0, 0, time.UTC),
			Position:    "Developer",
			Profile:     "Backend",
			Status:      employeerecord.StatusActive,
			GrossSalary: decimal.RequireFromString("3000.00"),
			CVPath:      "cv/jane.pdf",
		},
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		HireDate:  &hired,
	}
}

func validCreateRequest(employeeID string) employeerecord.CreateRecordRequest {
	return employeerecord.CreateRecordRequest{
		EmployeeID:  employeeID,
		Telephone:   "0600000000",
		Address:     "12 rue des Lilas",
		Birthday:    "1990-07-01",
		Position:    "Developer",
		Profile:     "Backend",
		GrossSalary: decimal.RequireFromString("3000.456"),
	}
}

func TestRecordService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		d := setupRecordServiceTest(t)
		employeeID := uuid.New()
		row := newRow(employeeID)

		expectTx(t, d.sqlMock, true)
		d.repo.EXPECT().EmployeeExists(ctx, employeeID.String()).Return(true, nil)
		d.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, r *employeerecord.EmployeeRecord) error {
			assert.Equal(t, employeeID, r.EmployeeID)
			assert.Equal(t, employeerecord.StatusActive, r.Status)
			assert.Equal(t, "3000.46", r.GrossSalary.StringFixed(2))
			row.ID = r.ID
			return nil
		})
		d.repo.EXPECT().FindByID(ctx, gomock.Any()).Return(row, nil)

		resp, err := d.service.Create(ctx, validCreateRequest(employeeID.String()))

		assert.NoError(t, err)
		assert.Equal(t, row.ID.String(), resp.ID)
		assert.Equal(t, "Actif", resp.StatusLabel)
		assert.NotNil(t, resp.GrossSalary)
		assert.Equal(t, "2023-03-15", resp.Employee.HireDate)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		d := setupRecordServiceTest(t)
		employeeID := uuid.New()

		expectTx(t, d.sqlMock, false)
		d.repo.EXPECT().EmployeeExists(ctx, employeeID.String()).Return(false, nil)

		_, err := d.service.Create(ctx, validCreateRequest(employeeID.String()))

		assert.ErrorIs(t, err, employeerecorderrors.ErrEmployeeNotFound)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative record already exists", func(t *testing.T) {
		d := setupRecordServiceTest(t)
		employeeID := uuid.New()

		expectTx(t, d.sqlMock, false)
		d.repo.EXPECT().EmployeeExists(ctx, employeeID.String()).Return(true, nil)
		d.repo.EXPECT().Create(ctx, gomock.Any()).Return(&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "uq_employee_records_employee",
		})

		_, err := d.service.Create(ctx, validCreateRequest(employeeID.String()))

		assert.ErrorIs(t, err, employeerecorderrors.ErrRecordAlreadyExists)
	})

	t.Run("negative invalid input", func(t *testing.T) {
		d := setupRecordServiceTest(t)

		_, err := d.service.Create(ctx, validCreateRequest("nope"))
		assert.ErrorIs(t, err, employeerecorderrors.ErrInvalidEmployeeID)

		req := validCreateRequest(uuid.NewString())
		req.Birthday = "01/07/1990"
		_, err = d.service.Create(ctx, req)
		assert.ErrorIs(t, err, employeerecorderrors.ErrInvalidDateFormat)

		req = validCreateRequest(uuid.NewString())
		req.GrossSalary = decimal.NewFromInt(-1)
		_, err = d.service.Create(ctx, req)
		assert.ErrorIs(t, err, employeerecorderrors.ErrInvalidSalary)
	})
}

func TestRecordService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success patches given fields only", func(t *testing.T) {
		d := setupRecordServiceTest(t)
		row := newRow(uuid.New())
		id := row.ID.String()
		rec := row.EmployeeRecord
		status := "ON_LEAVE"
		position := "Lead Developer"

		expectTx(t, d.sqlMock, true)
		d.repo.EXPECT().FindByIDForUpdate(ctx, id).Return(&rec, nil)
		d.repo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, r *employeerecord.EmployeeRecord) error {
			assert.Equal(t, employeerecord.StatusOnLeave, r.Status)
			assert.Equal(t, position, r.Position)
			assert.Equal(t, "0600000000", r.Telephone)
			return nil
		})
		d.repo.EXPECT().FindByID(ctx, id).Return(row, nil)

		_, err := d.service.Update(ctx, id, employeerecord.UpdateRecordRequest{Status: &status, Position: &position})

		assert.NoError(t, err)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		d := setupRecordServiceTest(t)
		id := uuid.NewString()

		expectTx(t, d.sqlMock, false)
		d.repo.EXPECT().FindByIDForUpdate(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := d.service.Update(ctx, id, employeerecord.UpdateRecordRequest{})

		assert.ErrorIs(t, err, employeerecorderrors.ErrRecordNotFound)
	})

	t.Run("negative invalid status", func(t *testing.T) {
		d := setupRecordServiceTest(t)
		row := newRow(uuid.New())
		rec := row.EmployeeRecord
		status := "RETIRED"

		expectTx(t, d.sqlMock, false)
		d.repo.EXPECT().FindByIDForUpdate(ctx, row.ID.String()).Return(&rec, nil)

		_, err := d.service.Update(ctx, row.ID.String(), employeerecord.UpdateRecordRequest{Status: &status})

		assert.ErrorIs(t, err, employeerecorderrors.ErrInvalidStatus)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		d := setupRecordServiceTest(t)

		_, err := d.service.Update(ctx, "nope", employeerecord.UpdateRecordRequest{})

		assert.ErrorIs(t, err, employeerecorderrors.ErrInvalidRecordID)
	})
}

func TestRecordService_GetByID(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	row := newRow(employeeID)

	tests := []struct {
		name    string
		actor   domain.Actor
		wantErr error
	}{
		{"owner", domain.Actor{ID: employeeID.String(), Role: domain.RoleEmployee}, nil},
		{"hr", domain.Actor{ID: uuid.NewString(), Role: domain.RoleHR}, nil},
		{"admin", domain.Actor{ID: uuid.NewString(), Role: domain.RoleAdmin}, nil},
		{"negative colleague", domain.Actor{ID: uuid.NewString(), Role: domain.RoleEmployee}, employeerecorderrors.ErrForbidden},
		{"negative manager", domain.Actor{ID: uuid.NewString(), Role: domain.RoleManager}, employeerecorderrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupRecordServiceTest(t)
			d.repo.EXPECT().FindByID(ctx, row.ID.String()).Return(row, nil)

			resp, err := d.service.GetByID(ctx, tt.actor, row.ID.String())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "Jane", resp.Employee.FirstName)
		})
	}
}

func TestRecordService_GetMine(t *testing.T) {
	ctx := context.Background()

	t.Run("negative no record", func(t *testing.T) {
		d := setupRecordServiceTest(t)
		actor := domain.Actor{ID: uuid.NewString(), Role: domain.RoleEmployee}
		d.repo.EXPECT().FindByEmployee(ctx, actor.ID).Return(nil, gorm.ErrRecordNotFound)

		_, err := d.service.GetMine(ctx, actor)

		assert.ErrorIs(t, err, employeerecorderrors.ErrRecordNotFound)
	})
}

func TestRecordService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success hides salary in list", func(t *testing.T) {
		d := setupRecordServiceTest(t)
		q := pagination.Query{Page: 1, PageSize: 10}
		d.repo.EXPECT().FindAll(ctx, q).Return([]employeerecord.RecordRow{*newRow(uuid.New())}, int64(1), nil)

		resp, total, err := d.service.GetAll(ctx, q)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, resp, 1)
		assert.Nil(t, resp[0].GrossSalary)
		assert.Empty(t, resp[0].CVPath)
	})

	t.Run("negative unknown status filter", func(t *testing.T) {
		d := setupRecordServiceTest(t)

		_, _, err := d.service.GetAll(ctx, pagination.Query{Page: 1, PageSize: 10, Status: "FIRED"})

		assert.ErrorIs(t, err, employeerecorderrors.ErrInvalidStatus)
	})

	t.Run("negative storage failure", func(t *testing.T) {
		d := setupRecordServiceTest(t)
		q := pagination.Query{Page: 1, PageSize: 10}
		d.repo.EXPECT().FindAll(ctx, q).Return(nil, int64(0), errors.New("db down"))

		_, _, err := d.service.GetAll(ctx, q)

		assert.Error(t, err)
	})
}

func TestRecordService_RenderPDF(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		d := setupRecordServiceTest(t)
		row := newRow(uuid.New())
		d.repo.EXPECT().FindByID(ctx, row.ID.String()).Return(row, nil)

		data, filename, err := d.service.RenderPDF(ctx, domain.Actor{ID: uuid.NewString(), Role: domain.RoleHR}, row.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, "EmployeeRecord_"+row.ID.String()+".pdf", filename)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
		assert.Contains(t, string(data), "Jane Doe")
	})

	t.Run("negative forbidden", func(t *testing.T) {
		d := setupRecordServiceTest(t)
		row := newRow(uuid.New())
		d.repo.EXPECT().FindByID(ctx, row.ID.String()).Return(row, nil)

		_, _, err := d.service.RenderPDF(ctx, domain.Actor{ID: uuid.NewString(), Role: domain.RoleEmployee}, row.ID.String())

		assert.ErrorIs(t, err, employeerecorderrors.ErrForbidden)
	})
}
