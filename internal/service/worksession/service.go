package worksession

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/continuation"
	"github.com/chronotrack/chronotrack-backend-go/internal/domain/ledger"
	"github.com/chronotrack/chronotrack-backend-go/internal/domain/schedule"
	"github.com/chronotrack/chronotrack-backend-go/internal/domain/worksession"
)

// SessionServiceImpl orchestrates the session state machine: it validates
// preconditions, invokes the calculator, and persists results. Commands for a
// given user are serialized by the caller; the store guards against the
// background sync path.
type SessionServiceImpl struct {
	store      worksession.SessionStore
	ledgerRepo ledger.Repository
	pointRepo  continuation.Repository
	schedules  schedule.Provider
	calc       *Calculator
	now        func() time.Time

	// inTx groups the ledger write and continuation resolution. Defaults to
	// plain invocation; main wires the postgres transaction helper.
	inTx func(ctx context.Context, fn func(ctx context.Context) error) error

	staleThreshold time.Duration
}

// SetTransactionRunner makes finalization write the ledger entry and resolve
// continuation points atomically.
func (s *SessionServiceImpl) SetTransactionRunner(run func(ctx context.Context, fn func(ctx context.Context) error) error) {
	s.inTx = run
}

// SetClock replaces the time source. Day boundaries follow the clock's
// location, so deployments pin it to the business timezone.
func (s *SessionServiceImpl) SetClock(now func() time.Time) {
	s.now = now
}

func NewSessionService(
	store worksession.SessionStore,
	ledgerRepo ledger.Repository,
	pointRepo continuation.Repository,
	schedules schedule.Provider,
	calc *Calculator,
) *SessionServiceImpl {
	return &SessionServiceImpl{
		store:      store,
		ledgerRepo: ledgerRepo,
		pointRepo:  pointRepo,
		schedules:  schedules,
		calc:       calc,
		now:        time.Now,
		inTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}

// Execute implements worksession.SessionService.
func (s *SessionServiceImpl) Execute(ctx context.Context, req worksession.CommandRequest) (worksession.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return worksession.SessionResponse{}, err
	}

	now := req.Timestamp(s.now())

	switch req.Operation {
	case worksession.OpStartDay:
		return s.startDay(ctx, req, now)
	case worksession.OpStartTemporaryStop:
		return s.startTemporaryStop(ctx, req, now)
	case worksession.OpResumeFromTemporaryStop:
		return s.resumeFromTemporaryStop(ctx, req, now)
	case worksession.OpEndDay:
		return s.endDay(ctx, req, now)
	}

	return worksession.SessionResponse{}, worksession.ErrUnknownOperation
}

// GetCurrentSession implements worksession.SessionService. Read-only: the
// stored snapshot is returned as-is so consecutive calls with no intervening
// command are identical.
func (s *SessionServiceImpl) GetCurrentSession(ctx context.Context, username, userID string) (worksession.SessionResponse, error) {
	sess, err := s.store.Load(ctx, username)
	if err != nil {
		return worksession.SessionResponse{}, err
	}
	if sess == nil {
		return worksession.SessionResponse{}, worksession.ErrSessionNotFound
	}
	if err := s.checkOwnership(sess, username); err != nil {
		return worksession.SessionResponse{}, err
	}
	return mapSessionToResponse(sess), nil
}

func (s *SessionServiceImpl) startDay(ctx context.Context, req worksession.CommandRequest, now time.Time) (worksession.SessionResponse, error) {
	existing, err := s.store.Load(ctx, req.Username)
	if err != nil {
		return worksession.SessionResponse{}, err
	}

	if existing != nil {
		if !existing.WorkdayCompleted && PreviousDay(existing, now) {
			return worksession.SessionResponse{}, worksession.ErrUnresolvedSession
		}
		if existing.StartedOn(now) {
			if existing.WorkdayCompleted {
				return worksession.SessionResponse{}, worksession.ErrWorkdayCompleted
			}
			return worksession.SessionResponse{}, worksession.ErrAlreadyOnline
		}
	}

	sess := &worksession.WorkSession{
		UserID:           req.UserID,
		Username:         req.Username,
		Status:           worksession.StatusOnline,
		DayStartTime:     now,
		CurrentStartTime: now,
		LastActivity:     now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.persist(ctx, sess); err != nil {
		return worksession.SessionResponse{}, err
	}

	slog.Info("Work day started", "username", req.Username, "day_start", now)
	return mapSessionToResponse(sess), nil
}

func (s *SessionServiceImpl) startTemporaryStop(ctx context.Context, req worksession.CommandRequest, now time.Time) (worksession.SessionResponse, error) {
	sess, err := s.loadForCommand(ctx, req, now)
	if err != nil {
		return worksession.SessionResponse{}, err
	}

	switch sess.Status {
	case worksession.StatusTemporaryStop:
		return worksession.SessionResponse{}, worksession.ErrAlreadyOnBreak
	case worksession.StatusOffline:
		return worksession.SessionResponse{}, worksession.ErrNotOnline
	}

	sess.TemporaryStops = append(sess.TemporaryStops, worksession.TemporaryStop{StartTime: now})
	sess.Status = worksession.StatusTemporaryStop
	sess.LastActivity = now

	if err := s.recomputeAndPersist(ctx, sess, now); err != nil {
		return worksession.SessionResponse{}, err
	}

	slog.Info("Temporary stop started", "username", req.Username, "stop_count", len(sess.TemporaryStops))
	return mapSessionToResponse(sess), nil
}

func (s *SessionServiceImpl) resumeFromTemporaryStop(ctx context.Context, req worksession.CommandRequest, now time.Time) (worksession.SessionResponse, error) {
	sess, err := s.loadForCommand(ctx, req, now)
	if err != nil {
		return worksession.SessionResponse{}, err
	}

	if sess.Status != worksession.StatusTemporaryStop {
		return worksession.SessionResponse{}, worksession.ErrNotOnBreak
	}

	open := sess.OpenStop()
	if open == nil {
		return worksession.SessionResponse{}, fmt.Errorf("%w: status is temporary stop but no stop is open", worksession.ErrInconsistentState)
	}

	open.Complete(now)
	sess.Status = worksession.StatusOnline
	sess.CurrentStartTime = now
	sess.LastActivity = now

	if err := s.recomputeAndPersist(ctx, sess, now); err != nil {
		return worksession.SessionResponse{}, err
	}

	slog.Info("Resumed from temporary stop", "username", req.Username, "break_minutes", sess.TotalTemporaryStopMinutes)
	return mapSessionToResponse(sess), nil
}

func (s *SessionServiceImpl) endDay(ctx context.Context, req worksession.CommandRequest, now time.Time) (worksession.SessionResponse, error) {
	sess, err := s.loadForCommand(ctx, req, now)
	if err != nil {
		return worksession.SessionResponse{}, err
	}

	if sess.Status != worksession.StatusOnline {
		if sess.Status == worksession.StatusTemporaryStop {
			return worksession.SessionResponse{}, worksession.ErrAlreadyOnBreak
		}
		return worksession.SessionResponse{}, worksession.ErrNotOnline
	}

	sched, err := s.schedules.ForUser(ctx, req.Username)
	if err != nil {
		return worksession.SessionResponse{}, fmt.Errorf("failed to resolve work schedule: %w", err)
	}

	if err := s.finalize(ctx, sess, sched, now, req.Username, keepOvertime); err != nil {
		return worksession.SessionResponse{}, err
	}

	slog.Info("Work day ended",
		"username", req.Username,
		"final_worked_minutes", sess.FinalWorkedMinutes,
		"overtime_minutes", sess.TotalOvertimeMinutes)
	return mapSessionToResponse(sess), nil
}

// loadForCommand loads the session and applies the checks shared by every
// state-changing command except StartDay: existence, ownership, completion
// and the previous-day gate.
func (s *SessionServiceImpl) loadForCommand(ctx context.Context, req worksession.CommandRequest, now time.Time) (*worksession.WorkSession, error) {
	sess, err := s.store.Load(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, worksession.ErrSessionNotFound
	}
	if err := s.checkOwnership(sess, req.Username); err != nil {
		return nil, err
	}
	if sess.WorkdayCompleted {
		return nil, worksession.ErrWorkdayCompleted
	}
	if PreviousDay(sess, now) {
		return nil, worksession.ErrPreviousDaySession
	}
	return sess, nil
}

func (s *SessionServiceImpl) checkOwnership(sess *worksession.WorkSession, username string) error {
	if sess.Username != username {
		slog.Warn("Session ownership violation",
			"stored_username", sess.Username,
			"command_username", username)
		return worksession.ErrSessionOwnership
	}
	return nil
}

// recomputeAndPersist refreshes the derived totals and saves, all-or-nothing.
func (s *SessionServiceImpl) recomputeAndPersist(ctx context.Context, sess *worksession.WorkSession, asOf time.Time) error {
	sched, err := s.schedules.ForUser(ctx, sess.Username)
	if err != nil {
		return fmt.Errorf("failed to resolve work schedule: %w", err)
	}

	totals := s.calc.Calculate(sess, sched, asOf)
	applyTotals(sess, totals)
	sess.UpdatedAt = asOf

	return s.persist(ctx, sess)
}

// Overtime disposition for finalize. Skip-resolution forces zero overtime;
// every other path keeps what the calculator derived.
const (
	keepOvertime = false
	zeroOvertime = true
)

// finalize closes the day at endTime: open stop completed, totals fixed,
// ledger entry written, continuation points for the date resolved.
func (s *SessionServiceImpl) finalize(ctx context.Context, sess *worksession.WorkSession, sched schedule.WorkSchedule, endTime time.Time, resolvedBy string, forceZeroOvertime bool) error {
	if endTime.Before(sess.DayStartTime) {
		return worksession.ErrInvalidEndTime
	}

	if open := sess.OpenStop(); open != nil {
		open.Complete(endTime)
	}

	totals := s.calc.Calculate(sess, sched, endTime)
	applyTotals(sess, totals)
	if forceZeroOvertime {
		sess.TotalOvertimeMinutes = 0
	}

	end := endTime
	sess.Status = worksession.StatusOffline
	sess.DayEndTime = &end
	sess.WorkdayCompleted = true
	sess.LastActivity = endTime
	sess.UpdatedAt = endTime

	err := s.inTx(ctx, func(ctx context.Context) error {
		entry := ledgerEntryFromSession(sess)
		if _, err := s.ledgerRepo.Upsert(ctx, entry); err != nil {
			return fmt.Errorf("failed to write ledger entry: %w", err)
		}
		return s.pointRepo.ResolveAll(ctx, sess.Username, dateOnly(sess.DayStartTime), resolvedBy, sess.TotalOvertimeMinutes)
	})
	if err != nil {
		return err
	}

	return s.persist(ctx, sess)
}

func (s *SessionServiceImpl) persist(ctx context.Context, sess *worksession.WorkSession) error {
	if err := sess.CheckConsistency(); err != nil {
		slog.Error("Refusing to persist inconsistent session", "username", sess.Username, "error", err, "session", sess)
		return err
	}
	return s.store.Save(ctx, sess.Username, sess)
}

func applyTotals(sess *worksession.WorkSession, totals DerivedTotals) {
	sess.TemporaryStopCount = len(sess.TemporaryStops)
	sess.TotalTemporaryStopMinutes = totals.BreakMinutes
	sess.TotalWorkedMinutes = totals.WorkedMinutes
	sess.FinalWorkedMinutes = totals.FinalWorkedMinutes
	sess.TotalOvertimeMinutes = totals.OvertimeMinutes
	sess.LunchBreakDeducted = totals.LunchBreakDeducted
}

func ledgerEntryFromSession(sess *worksession.WorkSession) ledger.Entry {
	return ledger.Entry{
		UserID:                    sess.UserID,
		Username:                  sess.Username,
		Date:                      dateOnly(sess.DayStartTime),
		DayStartTime:              sess.DayStartTime,
		DayEndTime:                *sess.DayEndTime,
		TotalWorkedMinutes:        sess.TotalWorkedMinutes,
		FinalWorkedMinutes:        sess.FinalWorkedMinutes,
		OvertimeMinutes:           sess.TotalOvertimeMinutes,
		TemporaryStopCount:        sess.TemporaryStopCount,
		TotalTemporaryStopMinutes: sess.TotalTemporaryStopMinutes,
		LunchBreakDeducted:        sess.LunchBreakDeducted,
		SyncStatus:                ledger.SyncPending,
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

func mapSessionToResponse(sess *worksession.WorkSession) worksession.SessionResponse {
	stops := make([]worksession.TemporaryStopResponse, 0, len(sess.TemporaryStops))
	for _, stop := range sess.TemporaryStops {
		stops = append(stops, worksession.TemporaryStopResponse{
			StartTime:       formatTime(stop.StartTime),
			EndTime:         timePtrToString(stop.EndTime),
			DurationMinutes: stop.DurationMinutes,
			InProgress:      stop.InProgress(),
		})
	}

	return worksession.SessionResponse{
		UserID:                    sess.UserID,
		Username:                  sess.Username,
		Status:                    string(sess.Status),
		Date:                      sess.DayStartTime.Format("2006-01-02"),
		DayStartTime:              formatTime(sess.DayStartTime),
		CurrentStartTime:          formatTime(sess.CurrentStartTime),
		LastActivity:              formatTime(sess.LastActivity),
		TemporaryStops:            stops,
		TemporaryStopCount:        sess.TemporaryStopCount,
		TotalTemporaryStopMinutes: sess.TotalTemporaryStopMinutes,
		TotalWorkedMinutes:        sess.TotalWorkedMinutes,
		FinalWorkedMinutes:        sess.FinalWorkedMinutes,
		TotalOvertimeMinutes:      sess.TotalOvertimeMinutes,
		LunchBreakDeducted:        sess.LunchBreakDeducted,
		DayEndTime:                timePtrToString(sess.DayEndTime),
		WorkdayCompleted:          sess.WorkdayCompleted,
	}
}
