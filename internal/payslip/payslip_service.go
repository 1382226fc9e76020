package payslip

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rh-management/internal/domain"
	"rh-management/internal/employeerecord"
	"rh-management/internal/i18n"
	paysliperrors "rh-management/internal/payslip/errors"
	"rh-management/internal/shared/counter"
	"rh-management/internal/shared/pagination"
	"rh-management/internal/shared/pdf"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payslip_service.go -destination=mock/payslip_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreatePayslipRequest) (PayslipResponse, error)
	// Generate builds the payslip of one employee for month (YYYY-MM) from
	// the gross salary on their employee record.
	Generate(ctx context.Context, employeeID, month string) (PayslipResponse, error)
	ListMine(ctx context.Context, actor domain.Actor, q pagination.Query) ([]PayslipResponse, int64, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (PayslipResponse, error)
	RenderPDF(ctx context.Context, actor domain.Actor, id string) ([]byte, string, error)
}

type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithTranslator(t *i18n.Translator) Option {
	return func(s *service) { s.translator = t }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("payslip.service")
		}
	}
}

type service struct {
	db         *sql.DB
	repo       Repository
	records    employeerecord.Repository
	counters   counter.Repository
	translator *i18n.Translator
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	records employeerecord.Repository,
	counters counter.Repository,
	opts ...Option,
) Service {
	s := &service{
		db:       db,
		repo:     repo,
		records:  records,
		counters: counters,
		now:      time.Now,
		logger:   zap.L().Named("payslip.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func parseMonth(v string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, v)
	if err != nil {
		return time.Time{}, paysliperrors.ErrInvalidMonth
	}
	return t, nil
}

func (s *service) Create(ctx context.Context, req CreatePayslipRequest) (PayslipResponse, error) {
	s.logger.Debug("create payslip requested", zap.String("employee_id", req.EmployeeID), zap.String("month", req.Month))

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidEmployeeID
	}
	month, err := parseMonth(req.Month)
	if err != nil {
		return PayslipResponse{}, err
	}
	for _, v := range []decimal.Decimal{req.GrossSalary, req.Bonuses, req.Overtime} {
		if v.IsNegative() {
			return PayslipResponse{}, paysliperrors.ErrInvalidAmount
		}
	}

	gross := req.GrossSalary.Round(2)
	p := &Payslip{
		EmployeeID:  employeeID,
		Month:       month,
		GrossSalary: gross,
		Bonuses:     req.Bonuses.Round(2),
		Overtime:    req.Overtime.Round(2),
		NetSalary:   Net(gross),
	}
	if err := s.persist(ctx, p); err != nil {
		return PayslipResponse{}, err
	}

	s.logger.Info("payslip created", zap.String("payslip_id", p.ID.String()), zap.String("reference", p.Reference))
	return toResponse(PayslipRow{Payslip: *p}), nil
}

func (s *service) Generate(ctx context.Context, employeeID, month string) (PayslipResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidEmployeeID
	}
	first, err := parseMonth(month)
	if err != nil {
		return PayslipResponse{}, err
	}

	rec, err := s.records.FindByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, paysliperrors.ErrEmployeeRecordNotFound
		}
		return PayslipResponse{}, err
	}

	gross := ProratedGross(rec.GrossSalary, rec.HireDate, first, s.now().UTC())
	p := &Payslip{
		EmployeeID:  rec.EmployeeID,
		Month:       first,
		GrossSalary: gross,
		Bonuses:     decimal.Zero,
		Overtime:    decimal.Zero,
		NetSalary:   Net(gross),
	}
	if err := s.persist(ctx, p); err != nil {
		return PayslipResponse{}, err
	}

	s.logger.Info("payslip generated",
		zap.String("employee_id", employeeID),
		zap.String("month", month),
		zap.String("reference", p.Reference),
	)
	return toResponse(PayslipRow{Payslip: *p, FirstName: rec.FirstName, LastName: rec.LastName}), nil
}

// persist allocates the reference and inserts p in one transaction. The
// existence check keeps duplicate requests from consuming a reference.
func (s *service) persist(ctx context.Context, p *Payslip) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsForMonth(ctx, p.EmployeeID.String(), p.Month)
	if err != nil {
		s.logger.Error("payslip lookup failed", zap.Error(err))
		return err
	}
	if exists {
		s.logger.Warn("payslip already exists",
			zap.String("employee_id", p.EmployeeID.String()),
			zap.String("month", p.Month.Format(MonthLayout)),
		)
		return paysliperrors.ErrPayslipAlreadyExists
	}

	seq, err := s.counters.WithTx(tx).GetNextValue(ctx, counter.TypePayslipReference)
	if err != nil {
		s.logger.Error("payslip reference allocation failed", zap.Error(err))
		return err
	}

	p.ID = uuid.New()
	p.Reference = fmt.Sprintf("PAY-%06d", seq)

	if err := qtx.Create(ctx, p); err != nil {
		s.logger.Error("payslip persist failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	return tx.Commit()
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor, q pagination.Query) ([]PayslipResponse, int64, error) {
	rows, total, err := s.repo.FindByEmployee(ctx, actor.ID, q)
	if err != nil {
		s.logger.Error("list payslips failed", zap.String("employee_id", actor.ID), zap.Error(err))
		return nil, 0, err
	}

	resp := make([]PayslipResponse, len(rows))
	for i, r := range rows {
		resp[i] = toResponse(r)
	}
	return resp, total, nil
}

func (s *service) find(ctx context.Context, actor domain.Actor, id string) (*PayslipRow, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, paysliperrors.ErrInvalidPayslipID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleHR && actor.ID != row.EmployeeID.String() {
		s.logger.Warn("payslip read forbidden", zap.String("payslip_id", id), zap.String("actor_id", actor.ID))
		return nil, paysliperrors.ErrForbidden
	}
	return row, nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (PayslipResponse, error) {
	row, err := s.find(ctx, actor, id)
	if err != nil {
		return PayslipResponse{}, err
	}
	return toResponse(*row), nil
}

func (s *service) RenderPDF(ctx context.Context, actor domain.Actor, id string) ([]byte, string, error) {
	row, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}

	t := func(id string) string { return s.translator.T(ctx, id) }
	position := ""
	if row.Position != nil {
		position = *row.Position
	}

	out, err := pdf.Render(t("pdf.payslip.title"), []pdf.Line{
		{Label: t("pdf.label.reference"), Value: row.Reference},
		{Label: t("pdf.label.name"), Value: row.FullName()},
		{Label: t("pdf.label.position"), Value: position},
		{Label: t("pdf.label.month"), Value: row.Month.Format(MonthLayout)},
		{Label: t("pdf.label.gross_salary"), Value: row.GrossSalary.StringFixed(2)},
		{Label: t("pdf.label.bonuses"), Value: row.Bonuses.StringFixed(2)},
		{Label: t("pdf.label.overtime"), Value: row.Overtime.StringFixed(2)},
		{Label: t("pdf.label.net_salary"), Value: row.NetSalary.StringFixed(2)},
	})
	if err != nil {
		return nil, "", err
	}

	return out, fmt.Sprintf("Payslip_%s.pdf", row.ID), nil
}

func toResponse(r PayslipRow) PayslipResponse {
	resp := PayslipResponse{
		ID:          r.ID.String(),
		Reference:   r.Reference,
		EmployeeID:  r.EmployeeID.String(),
		Month:       r.Month.Format(MonthLayout),
		GrossSalary: r.GrossSalary,
		Bonuses:     r.Bonuses,
		Overtime:    r.Overtime,
		NetSalary:   r.NetSalary,
	}
	if r.FirstName != "" {
		resp.Employee = r.FullName()
	}
	return resp
}
