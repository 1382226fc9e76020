package employeerecord

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rh-management/internal/domain"
	employeerecorderrors "rh-management/internal/employeerecord/errors"
	"rh-management/internal/i18n"
	"rh-management/internal/shared/pagination"
	"rh-management/internal/shared/pdf"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=employee_record_service.go -destination=mock/employee_record_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateRecordRequest) (RecordResponse, error)
	Update(ctx context.Context, id string, req UpdateRecordRequest) (RecordResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (RecordResponse, error)
	GetMine(ctx context.Context, actor domain.Actor) (RecordResponse, error)
	GetAll(ctx context.Context, q pagination.Query) ([]RecordResponse, int64, error)
	RenderPDF(ctx context.Context, actor domain.Actor, id string) ([]byte, string, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	translator *i18n.Translator
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, translator *i18n.Translator, logger ...*zap.Logger) Service {
	l := zap.L().Named("employeerecord.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employeerecord.service")
	}
	return &service{db: db, repo: repo, translator: translator, logger: l}
}

func parseBirthday(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, employeerecorderrors.ErrInvalidDateFormat
	}
	return t, nil
}

func (s *service) Create(ctx context.Context, req CreateRecordRequest) (RecordResponse, error) {
	s.logger.Debug("create employee record requested", zap.String("employee_id", req.EmployeeID))

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return RecordResponse{}, employeerecorderrors.ErrInvalidEmployeeID
	}
	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		return RecordResponse{}, err
	}
	if req.GrossSalary.IsNegative() {
		return RecordResponse{}, employeerecorderrors.ErrInvalidSalary
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		s.logger.Error("create employee record lookup failed", zap.Error(err))
		return RecordResponse{}, err
	}
	if !exists {
		s.logger.Warn("create employee record unknown employee", zap.String("employee_id", req.EmployeeID))
		return RecordResponse{}, employeerecorderrors.ErrEmployeeNotFound
	}

	rec := &EmployeeRecord{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		Telephone:   req.Telephone,
		Address:     req.Address,
		Birthday:    birthday,
		Position:    req.Position,
		Profile:     req.Profile,
		Status:      StatusActive,
		GrossSalary: req.GrossSalary.Round(2),
		CVPath:      req.CVPath,
	}
	if err := qtx.Create(ctx, rec); err != nil {
		s.logger.Warn("create employee record persist failed", zap.Error(err))
		return RecordResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return RecordResponse{}, err
	}

	s.logger.Info("employee record created", zap.String("record_id", rec.ID.String()))
	return s.load(ctx, rec.ID.String())
}

func (s *service) Update(ctx context.Context, id string, req UpdateRecordRequest) (RecordResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RecordResponse{}, employeerecorderrors.ErrInvalidRecordID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return RecordResponse{}, mapRepositoryError(err)
	}

	if req.Telephone != nil {
		rec.Telephone = *req.Telephone
	}
	if req.Address != nil {
		rec.Address = *req.Address
	}
	if req.Birthday != nil {
		if rec.Birthday, err = parseBirthday(*req.Birthday); err != nil {
			return RecordResponse{}, err
		}
	}
	if req.Position != nil {
		rec.Position = *req.Position
	}
	if req.Profile != nil {
		rec.Profile = *req.Profile
	}
	if req.Status != nil {
		status, ok := ParseStatus(*req.Status)
		if !ok {
			return RecordResponse{}, employeerecorderrors.ErrInvalidStatus
		}
		rec.Status = status
	}
	if req.GrossSalary != nil {
		if req.GrossSalary.IsNegative() {
			return RecordResponse{}, employeerecorderrors.ErrInvalidSalary
		}
		rec.GrossSalary = req.GrossSalary.Round(2)
	}
	if req.CVPath != nil {
		rec.CVPath = *req.CVPath
	}

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("update employee record failed", zap.String("record_id", id), zap.Error(err))
		return RecordResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return RecordResponse{}, err
	}

	s.logger.Info("employee record updated", zap.String("record_id", id))
	return s.load(ctx, id)
}

func (s *service) load(ctx context.Context, id string) (RecordResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return RecordResponse{}, mapRepositoryError(err)
	}
	return s.toResponse(ctx, *row, true), nil
}

func canRead(actor domain.Actor, row *RecordRow) bool {
	return actor.Role == domain.RoleAdmin || actor.Role == domain.RoleHR || actor.ID == row.EmployeeID.String()
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (RecordResponse, error) {
	row, err := s.find(ctx, actor, id)
	if err != nil {
		return RecordResponse{}, err
	}
	return s.toResponse(ctx, *row, true), nil
}

func (s *service) find(ctx context.Context, actor domain.Actor, id string) (*RecordRow, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, employeerecorderrors.ErrInvalidRecordID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if !canRead(actor, row) {
		s.logger.Warn("employee record read forbidden", zap.String("record_id", id), zap.String("actor_id", actor.ID))
		return nil, employeerecorderrors.ErrForbidden
	}
	return row, nil
}

func (s *service) GetMine(ctx context.Context, actor domain.Actor) (RecordResponse, error) {
	row, err := s.repo.FindByEmployee(ctx, actor.ID)
	if err != nil {
		return RecordResponse{}, mapRepositoryError(err)
	}
	return s.toResponse(ctx, *row, true), nil
}

func (s *service) GetAll(ctx context.Context, q pagination.Query) ([]RecordResponse, int64, error) {
	if q.Status != "" {
		if _, ok := ParseStatus(q.Status); !ok {
			return nil, 0, employeerecorderrors.ErrInvalidStatus
		}
	}

	rows, total, err := s.repo.FindAll(ctx, q)
	if err != nil {
		s.logger.Error("list employee records failed", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]RecordResponse, len(rows))
	for i, r := range rows {
		resp[i] = s.toResponse(ctx, r, false)
	}
	return resp, total, nil
}

func (s *service) RenderPDF(ctx context.Context, actor domain.Actor, id string) ([]byte, string, error) {
	row, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}

	t := func(id string) string { return s.translator.T(ctx, id) }
	hired := ""
	if row.HireDate != nil {
		hired = row.HireDate.Format(dateLayout)
	}

	out, err := pdf.Render(t("pdf.employee_record.title"), []pdf.Line{
		{Label: t("pdf.label.name"), Value: row.FullName()},
		{Label: t("pdf.label.email"), Value: row.Email},
		{Label: t("pdf.label.hire_date"), Value: hired},
		{Label: t("pdf.label.position"), Value: row.Position},
		{Label: t("pdf.label.status"), Value: t("employee.status." + string(row.Status))},
		{Label: t("pdf.label.gross_salary"), Value: row.GrossSalary.StringFixed(2)},
		{Label: t("pdf.label.address"), Value: row.Address},
		{Label: t("pdf.label.telephone"), Value: row.Telephone},
		{Label: t("pdf.label.birthday"), Value: row.Birthday.Format(dateLayout)},
		{Label: t("pdf.label.profile"), Value: row.Profile},
	})
	if err != nil {
		return nil, "", err
	}

	return out, fmt.Sprintf("EmployeeRecord_%s.pdf", row.ID), nil
}

// toResponse hides salary and CV from list views.
func (s *service) toResponse(ctx context.Context, r RecordRow, detailed bool) RecordResponse {
	resp := RecordResponse{
		ID:          r.ID.String(),
		Telephone:   r.Telephone,
		Address:     r.Address,
		Birthday:    r.Birthday.Format(dateLayout),
		Position:    r.Position,
		Profile:     r.Profile,
		Status:      string(r.Status),
		StatusLabel: s.translator.T(ctx, "employee.status."+string(r.Status)),
		Employee: EmployeeSummary{
			ID:        r.EmployeeID.String(),
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
		},
	}
	if r.HireDate != nil {
		resp.Employee.HireDate = r.HireDate.Format(dateLayout)
	}
	if r.Picture != nil {
		resp.Employee.Picture = *r.Picture
	}
	if detailed {
		salary := r.GrossSalary
		resp.GrossSalary = &salary
		resp.CVPath = r.CVPath
	}
	return resp
}
