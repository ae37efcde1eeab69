package worksession

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/continuation"
	"github.com/chronotrack/chronotrack-backend-go/internal/domain/worksession"
)

// StaleThresholdDefault is how long the latest continuation point may stay
// unresolved before a same-day session is also offered for resolution.
const StaleThresholdDefault = 4 * time.Hour

// SetStaleThreshold overrides the stale-point trigger window.
func (s *SessionServiceImpl) SetStaleThreshold(d time.Duration) {
	s.staleThreshold = d
}

// needsResolution applies the workflow trigger: the session started on a
// previous day and was never completed, or its latest continuation point has
// gone unresolved past the stale threshold.
func (s *SessionServiceImpl) needsResolution(ctx context.Context, sess *worksession.WorkSession, now time.Time) (bool, []continuation.Point, error) {
	points, err := s.pointRepo.ActivePoints(ctx, sess.Username, dateOnly(sess.DayStartTime))
	if err != nil {
		return false, nil, fmt.Errorf("failed to load continuation points: %w", err)
	}

	if PreviousDay(sess, now) {
		return true, points, nil
	}
	if latest := continuation.Latest(points); latest != nil && now.Sub(*latest) > s.staleThresholdOrDefault() {
		return true, points, nil
	}
	return false, points, nil
}

// ResolutionStatus implements worksession.SessionService. It reports whether
// the user's stored session must be reconciled before a new day may start,
// and recommends a default end time: the latest continuation point for the
// session's date, else the scheduled end of that day.
func (s *SessionServiceImpl) ResolutionStatus(ctx context.Context, username string) (worksession.ResolutionStatusResponse, error) {
	sess, err := s.store.Load(ctx, username)
	if err != nil {
		return worksession.ResolutionStatusResponse{}, err
	}
	if sess == nil || sess.WorkdayCompleted {
		return worksession.ResolutionStatusResponse{}, nil
	}

	needs, points, err := s.needsResolution(ctx, sess, s.now())
	if err != nil {
		return worksession.ResolutionStatusResponse{}, err
	}
	if !needs {
		return worksession.ResolutionStatusResponse{}, nil
	}

	sched, err := s.schedules.ForUser(ctx, username)
	if err != nil {
		return worksession.ResolutionStatusResponse{}, fmt.Errorf("failed to resolve work schedule: %w", err)
	}

	defaultEnd := sched.ExpectedEnd(sess.DayStartTime)
	source := "schedule"
	if latest := continuation.Latest(points); latest != nil {
		defaultEnd = *latest
		source = "continuation_point"
	}

	// Probe totals on a copy; the query must not touch the stored session.
	probe := *sess
	probe.TemporaryStops = make([]worksession.TemporaryStop, len(sess.TemporaryStops))
	copy(probe.TemporaryStops, sess.TemporaryStops)
	if open := probe.OpenStop(); open != nil {
		open.Complete(defaultEnd)
	}
	totals := s.calc.Calculate(&probe, sched, defaultEnd)

	return worksession.ResolutionStatusResponse{
		NeedsResolution:            true,
		SessionDate:                sess.DayStartTime.Format("2006-01-02"),
		DefaultEndTime:             defaultEnd.Format(time.RFC3339),
		DefaultEndSource:           source,
		RecommendedOvertimeMinutes: s.calc.RecommendOvertime(totals, sched, sess.DayStartTime, points),
		ActiveContinuationPoints:   len(points),
	}, nil
}

// Resolve implements worksession.SessionService. Explicit resolution closes
// the day at the chosen hour and minute on the session's own date; skip
// applies the standard schedule with zero overtime. When no session needs
// resolution nothing is mutated and the caller is routed to the normal flow.
func (s *SessionServiceImpl) Resolve(ctx context.Context, req worksession.ResolveRequest) (worksession.ResolutionResult, error) {
	if err := req.Validate(); err != nil {
		return worksession.ResolutionResult{}, err
	}

	sess, err := s.store.Load(ctx, req.Username)
	if err != nil {
		return worksession.ResolutionResult{}, err
	}
	if sess == nil || sess.WorkdayCompleted {
		return worksession.ResolutionResult{}, nil
	}
	if err := s.checkOwnership(sess, req.Username); err != nil {
		return worksession.ResolutionResult{}, err
	}

	needs, _, err := s.needsResolution(ctx, sess, s.now())
	if err != nil {
		return worksession.ResolutionResult{}, err
	}
	if !needs {
		return worksession.ResolutionResult{}, nil
	}

	sched, err := s.schedules.ForUser(ctx, req.Username)
	if err != nil {
		return worksession.ResolutionResult{}, fmt.Errorf("failed to resolve work schedule: %w", err)
	}

	if req.Skip {
		endTime := sched.ExpectedEnd(sess.DayStartTime)
		if err := s.finalize(ctx, sess, sched, endTime, req.Username, zeroOvertime); err != nil {
			return worksession.ResolutionResult{}, err
		}

		slog.Info("Session resolved by skip",
			"username", req.Username,
			"date", sess.DayStartTime.Format("2006-01-02"),
			"day_end", endTime)
		resp := mapSessionToResponse(sess)
		return worksession.ResolutionResult{Applied: true, Skipped: true, Session: &resp}, nil
	}

	dayStart := sess.DayStartTime
	endTime := time.Date(
		dayStart.Year(), dayStart.Month(), dayStart.Day(),
		*req.EndHour, *req.EndMinute, 0, 0,
		dayStart.Location(),
	)
	if !endTime.After(dayStart) {
		return worksession.ResolutionResult{}, worksession.ErrInvalidEndTime
	}

	if err := s.finalize(ctx, sess, sched, endTime, req.Username, keepOvertime); err != nil {
		return worksession.ResolutionResult{}, err
	}

	slog.Info("Session resolved explicitly",
		"username", req.Username,
		"date", sess.DayStartTime.Format("2006-01-02"),
		"day_end", endTime,
		"overtime_minutes", sess.TotalOvertimeMinutes)
	resp := mapSessionToResponse(sess)
	return worksession.ResolutionResult{Applied: true, Session: &resp}, nil
}

func (s *SessionServiceImpl) staleThresholdOrDefault() time.Duration {
	if s.staleThreshold <= 0 {
		return StaleThresholdDefault
	}
	return s.staleThreshold
}
