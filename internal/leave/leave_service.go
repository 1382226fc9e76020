package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rh-management/internal/balance"
	"rh-management/internal/domain"
	"rh-management/internal/employee"
	"rh-management/internal/events"
	"rh-management/internal/i18n"
	leaveerrors "rh-management/internal/leave/errors"
	"rh-management/internal/messaging/kafka"
	"rh-management/internal/shared/contextutil"
	"rh-management/internal/team"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	ListMine(ctx context.Context, actor domain.Actor, f ListFilter) ([]LeaveResponse, int64, error)
	ListTeam(ctx context.Context, actor domain.Actor, f ListFilter) ([]LeaveResponse, int64, error)
	ListAdminInbox(ctx context.Context, actor domain.Actor, f ListFilter) ([]LeaveResponse, int64, error)
	ListHRInbox(ctx context.Context, f ListFilter) ([]LeaveResponse, int64, error)
	DecideRH(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (LeaveResponse, error)
	DecideAdmin(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (LeaveResponse, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

type Config struct {
	// SkipRefundedOnDelete stops a delete from crediting days that a
	// rejection already gave back.
	SkipRefundedOnDelete bool
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  employee.Repository
	teams      team.Repository
	outbox     kafka.OutboxRepository
	translator *i18n.Translator
	cfg        Config
	now        func() time.Time
	logger     *zap.Logger
}

type Option func(*service)

// WithClock overrides the time source used for decision timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithTranslator(t *i18n.Translator) Option {
	return func(s *service) { s.translator = t }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("leave.service")
		}
	}
}

// NewService wires the leave workflow. outbox may be nil, in which case
// lifecycle events are not queued.
func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	teams team.Repository,
	outbox kafka.OutboxRepository,
	cfg Config,
	opts ...Option,
) Service {
	s := &service{
		db:        db,
		repo:      repo,
		employees: employees,
		teams:     teams,
		outbox:    outbox,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    zap.L().Named("leave.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger).With(contextutil.ExtractMetadata(ctx).Fields()...)
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx)
	log.Debug("create leave requested",
		zap.String("employee_id", actor.ID),
		zap.String("type", req.Type),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = actor.ID
	}
	if !CanCreate(actor, employeeID) {
		log.Warn("create leave forbidden", zap.String("actor_role", actor.Role.String()), zap.String("employee_id", employeeID))
		return LeaveResponse{}, leaveerrors.ErrForbidden
	}

	empUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	adminUUID, err := uuid.Parse(req.AdminID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidAdminID
	}
	kind, err := balance.ParseKind(req.Type)
	if err != nil {
		return LeaveResponse{}, err
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	days, err := balance.Days(start, end)
	if err != nil {
		log.Warn("create leave invalid range", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qemp := s.employees.WithTx(tx)

	ok, err := qtx.IsActiveAdmin(ctx, adminUUID.String())
	if err != nil {
		log.Error("create leave admin lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		log.Warn("create leave admin not found", zap.String("admin_id", req.AdminID))
		return LeaveResponse{}, leaveerrors.ErrAdminNotFound
	}

	emp, err := qemp.FindByIDForUpdate(ctx, employeeID)
	if err != nil {
		log.Warn("create leave employee lookup failed", zap.Error(err))
		return LeaveResponse{}, employee.MapRepositoryError(err)
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, employeeID, start, end)
	if err != nil {
		log.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		log.Warn("create leave overlap", zap.String("employee_id", employeeID))
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	if err := emp.Ledger.Debit(kind, days); err != nil {
		log.Warn("create leave debit refused",
			zap.String("type", string(kind)),
			zap.Int("days", days),
			zap.Int("balance", emp.Ledger.Of(kind)),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if err := qemp.SaveLedger(ctx, emp); err != nil {
		log.Error("create leave save ledger failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: empUUID,
		AdminID:    adminUUID,
		Type:       kind,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
		Reason:     req.Reason,
		State:      InitialState(emp.Role),
		CreatedAt:  s.now(),
	}
	if err := qtx.Create(ctx, l); err != nil {
		log.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.queueEvent(ctx, tx, events.LeaveCreated, l, actor.ID, -days); err != nil {
		log.Error("create leave outbox persist failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("state", string(l.State)),
		zap.Int("days", days),
	)
	return s.toResponse(ctx, LeaveRow{LeaveRequest: *l, EmployeeFirstName: emp.FirstName, EmployeeLastName: emp.LastName}), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	visible, err := s.canView(ctx, actor, &row.LeaveRequest)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !visible {
		s.log(ctx).Warn("get leave forbidden", zap.String("leave_id", id))
		return LeaveResponse{}, leaveerrors.ErrForbidden
	}

	return s.toResponse(ctx, *row), nil
}

// canView lets the owner, HR, the designated admin and the manager of the
// owner's team read a request.
func (s *service) canView(ctx context.Context, actor domain.Actor, l *LeaveRequest) (bool, error) {
	switch {
	case actor.ID == l.EmployeeID.String(), actor.Role == domain.RoleHR, CanDecideAdmin(actor, l):
		return true, nil
	case actor.Role != domain.RoleManager:
		return false, nil
	}

	t, err := s.teamOf(ctx, s.employees, s.teams, l.EmployeeID.String())
	if err != nil {
		return false, err
	}
	return CanDecideRH(actor, t), nil
}

// teamOf resolves the team of an employee. A nil team with a nil error
// means the employee is not assigned.
func (s *service) teamOf(ctx context.Context, employees employee.Repository, teams team.Repository, employeeID string) (*team.Team, error) {
	emp, err := employees.FindByID(ctx, employeeID)
	if err != nil {
		return nil, employee.MapRepositoryError(err)
	}
	return s.lookupTeam(ctx, teams, emp)
}

func (s *service) lookupTeam(ctx context.Context, teams team.Repository, emp *employee.Employee) (*team.Team, error) {
	if emp.TeamID == nil {
		return nil, nil
	}
	t, err := teams.FindByID(ctx, emp.TeamID.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return t, err
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor, f ListFilter) ([]LeaveResponse, int64, error) {
	rows, total, err := s.repo.FindByEmployee(ctx, actor.ID, f)
	if err != nil {
		s.log(ctx).Error("list my leaves failed", zap.Error(err))
		return nil, 0, err
	}
	return s.toResponses(ctx, rows), total, nil
}

func (s *service) ListTeam(ctx context.Context, actor domain.Actor, f ListFilter) ([]LeaveResponse, int64, error) {
	if actor.Role != domain.RoleManager {
		return nil, 0, leaveerrors.ErrForbidden
	}
	rows, total, err := s.repo.FindByTeamManager(ctx, actor.ID, f)
	if err != nil {
		s.log(ctx).Error("list team leaves failed", zap.Error(err))
		return nil, 0, err
	}
	return s.toResponses(ctx, rows), total, nil
}

func (s *service) ListAdminInbox(ctx context.Context, actor domain.Actor, f ListFilter) ([]LeaveResponse, int64, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, 0, leaveerrors.ErrForbidden
	}
	rows, total, err := s.repo.FindAdminInbox(ctx, actor.ID, f)
	if err != nil {
		s.log(ctx).Error("list admin inbox failed", zap.Error(err))
		return nil, 0, err
	}
	return s.toResponses(ctx, rows), total, nil
}

func (s *service) ListHRInbox(ctx context.Context, f ListFilter) ([]LeaveResponse, int64, error) {
	rows, total, err := s.repo.FindHRInbox(ctx, f)
	if err != nil {
		s.log(ctx).Error("list hr inbox failed", zap.Error(err))
		return nil, 0, err
	}
	return s.toResponses(ctx, rows), total, nil
}

func (s *service) DecideRH(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, req, TierRH)
}

func (s *service) DecideAdmin(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, req, TierAdmin)
}

// decide locks the request, then the owner's row, so every ledger mutation
// on a request takes the locks in the same order.
func (s *service) decide(ctx context.Context, actor domain.Actor, id string, req DecisionRequest, tier Tier) (LeaveResponse, error) {
	log := s.log(ctx).With(zap.String("leave_id", id), zap.String("tier", string(tier)))
	log.Debug("decide leave requested", zap.String("decision", req.Status))

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	decision, err := ParseDecision(req.Status)
	if err != nil {
		return LeaveResponse{}, err
	}
	actorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qemp := s.employees.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		log.Warn("decide leave lookup failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	emp, err := qemp.FindByIDForUpdate(ctx, l.EmployeeID.String())
	if err != nil {
		log.Error("decide leave employee lookup failed", zap.Error(err))
		return LeaveResponse{}, employee.MapRepositoryError(err)
	}

	var refund int
	eventType := events.LeaveAdminDecided
	switch tier {
	case TierRH:
		t, err := s.lookupTeam(ctx, s.teams.WithTx(tx), emp)
		if err != nil {
			log.Error("decide leave team lookup failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if !CanDecideRH(actor, t) {
			log.Warn("decide leave forbidden", zap.String("actor_role", actor.Role.String()))
			return LeaveResponse{}, leaveerrors.ErrForbidden
		}
		eventType = events.LeaveRHDecided
		refund, err = l.DecideRH(decision, actorID, s.now())
		if err != nil {
			log.Warn("decide leave invalid state", zap.String("state", string(l.State)))
			return LeaveResponse{}, err
		}
	default:
		if !CanDecideAdmin(actor, l) {
			log.Warn("decide leave forbidden", zap.String("actor_role", actor.Role.String()))
			return LeaveResponse{}, leaveerrors.ErrForbidden
		}
		refund, err = l.DecideAdmin(decision, actorID, s.now())
		if err != nil {
			log.Warn("decide leave invalid state", zap.String("state", string(l.State)))
			return LeaveResponse{}, err
		}
	}

	if refund > 0 {
		if err := emp.Ledger.Credit(l.Type, refund); err != nil {
			return LeaveResponse{}, err
		}
		if err := qemp.SaveLedger(ctx, emp); err != nil {
			log.Error("decide leave save ledger failed", zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	if err := qtx.Update(ctx, l); err != nil {
		log.Error("decide leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.queueEvent(ctx, tx, eventType, l, actor.ID, refund); err != nil {
		log.Error("decide leave outbox persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("decide leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("decide leave success",
		zap.String("state", string(l.State)),
		zap.Int("refund", refund),
	)
	return s.toResponse(ctx, LeaveRow{LeaveRequest: *l, EmployeeFirstName: emp.FirstName, EmployeeLastName: emp.LastName}), nil
}

// Delete removes the request and credits its days back.
func (s *service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	log := s.log(ctx).With(zap.String("leave_id", id))
	log.Debug("delete leave requested")

	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("delete leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qemp := s.employees.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		log.Warn("delete leave lookup failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	if !CanDelete(actor, l) {
		log.Warn("delete leave forbidden", zap.String("actor_role", actor.Role.String()))
		return leaveerrors.ErrForbidden
	}

	emp, err := qemp.FindByIDForUpdate(ctx, l.EmployeeID.String())
	if err != nil {
		log.Error("delete leave employee lookup failed", zap.Error(err))
		return employee.MapRepositoryError(err)
	}

	refund := l.DeleteRefund(s.cfg.SkipRefundedOnDelete)
	if refund > 0 {
		if err := emp.Ledger.Credit(l.Type, refund); err != nil {
			return err
		}
		if err := qemp.SaveLedger(ctx, emp); err != nil {
			log.Error("delete leave save ledger failed", zap.Error(err))
			return err
		}
	}

	if err := qtx.Delete(ctx, id); err != nil {
		log.Error("delete leave persist failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := s.queueEvent(ctx, tx, events.LeaveDeleted, l, actor.ID, refund); err != nil {
		log.Error("delete leave outbox persist failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("delete leave commit failed", zap.Error(err))
		return err
	}

	log.Info("delete leave success", zap.Int("refund", refund))
	return nil
}

func (s *service) queueEvent(ctx context.Context, tx *sql.Tx, eventType string, l *LeaveRequest, actorID string, delta int) error {
	if s.outbox == nil {
		return nil
	}

	payload := events.LeaveLifecycleEvent{
		EventType:    eventType,
		RequestID:    contextutil.GetRequestID(ctx),
		LeaveID:      l.ID.String(),
		EmployeeID:   l.EmployeeID.String(),
		AdminID:      l.AdminID.String(),
		ActorID:      actorID,
		LeaveType:    string(l.Type),
		State:        string(l.State),
		Status:       string(l.Status()),
		RHStatus:     string(l.RHStatus()),
		Days:         l.Days,
		BalanceDelta: delta,
		OccurredAt:   s.now(),
	}
	event, err := kafka.NewOutboxEvent(ctx, events.LeaveAggregateType, l.ID.String(), eventType, events.LeaveLifecycleTopic, payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func (s *service) toResponses(ctx context.Context, rows []LeaveRow) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.toResponse(ctx, r))
	}
	return out
}

func (s *service) toResponse(ctx context.Context, r LeaveRow) LeaveResponse {
	name := r.EmployeeFirstName
	if r.EmployeeLastName != "" {
		if name != "" {
			name += " "
		}
		name += r.EmployeeLastName
	}
	status := r.Status()
	return LeaveResponse{
		ID:           r.ID.String(),
		EmployeeID:   r.EmployeeID.String(),
		EmployeeName: name,
		AdminID:      r.AdminID.String(),
		Type:         string(r.Type),
		TypeLabel:    s.translator.T(ctx, "leave.type."+string(r.Type)),
		StartDate:    r.StartDate.Format(dateLayout),
		EndDate:      r.EndDate.Format(dateLayout),
		Days:         r.Days,
		Reason:       r.Reason,
		State:        string(r.State),
		Status:       string(status),
		StatusLabel:  s.translator.T(ctx, "leave.status."+string(status)),
		RHStatus:     string(r.RHStatus()),
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}
