package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/continuation"
	"github.com/chronotrack/chronotrack-backend-go/internal/domain/schedule"
	"github.com/chronotrack/chronotrack-backend-go/internal/domain/worksession"
)

// ContinuationJobs records the periodic checkpoints the resolution workflow
// later consumes. The jobs only ever append continuation points; sessions are
// closed exclusively through executor commands and resolution.
type ContinuationJobs struct {
	store     worksession.SessionStore
	pointRepo continuation.Repository
	schedules schedule.Provider
	now       func() time.Time
}

func NewContinuationJobs(
	store worksession.SessionStore,
	pointRepo continuation.Repository,
	schedules schedule.Provider,
) *ContinuationJobs {
	return &ContinuationJobs{
		store:     store,
		pointRepo: pointRepo,
		schedules: schedules,
		now:       time.Now,
	}
}

// SetClock replaces the time source, matching the executor's clock.
func (j *ContinuationJobs) SetClock(now func() time.Time) {
	j.now = now
}

func (j *ContinuationJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{Name: "hourly_activity_check", Interval: 1 * time.Hour, Fn: j.HourlyCheck})
	scheduler.AddJob(Job{Name: "schedule_end_check", Interval: 15 * time.Minute, Fn: j.ScheduleEndCheck})
	scheduler.AddJob(Job{Name: "midnight_rollover_check", Interval: 1 * time.Hour, RunOnStart: true, Fn: j.MidnightRollover})
}

// HourlyCheck stamps a checkpoint for every session still active today.
func (j *ContinuationJobs) HourlyCheck(ctx context.Context) error {
	now := j.now()
	return j.eachOpenSession(ctx, func(sess *worksession.WorkSession) error {
		if !sess.StartedOn(now) {
			return nil
		}
		return j.record(ctx, sess, continuation.KindHourlyCheck, now)
	})
}

// ScheduleEndCheck stamps a checkpoint for sessions that have run past their
// scheduled end and are still active. One per date: crossing the scheduled
// end is a single event, and the hourly check keeps advancing the freshest
// timestamp after it.
func (j *ContinuationJobs) ScheduleEndCheck(ctx context.Context) error {
	now := j.now()
	return j.eachOpenSession(ctx, func(sess *worksession.WorkSession) error {
		if !sess.StartedOn(now) {
			return nil
		}
		sched, err := j.schedules.ForUser(ctx, sess.Username)
		if err != nil {
			return fmt.Errorf("failed to resolve work schedule: %w", err)
		}
		if now.Before(sched.ExpectedEnd(sess.DayStartTime)) {
			return nil
		}
		if recorded, err := j.hasActivePoint(ctx, sess, continuation.KindScheduleEndCheck); err != nil || recorded {
			return err
		}
		return j.record(ctx, sess, continuation.KindScheduleEndCheck, now)
	})
}

// MidnightRollover stamps sessions left open across the day boundary. The
// checkpoint carries the session's last known activity, not the detection
// time, since that is the best estimate of when the user stopped working.
// One per date: the stamped activity never changes once the day has rolled
// over, so repeated ticks would only pile up identical rows until resolution.
func (j *ContinuationJobs) MidnightRollover(ctx context.Context) error {
	now := j.now()
	return j.eachOpenSession(ctx, func(sess *worksession.WorkSession) error {
		if sess.StartedOn(now) {
			return nil
		}
		if recorded, err := j.hasActivePoint(ctx, sess, continuation.KindMidnightRollover); err != nil || recorded {
			return err
		}
		return j.record(ctx, sess, continuation.KindMidnightRollover, sess.LastActivity)
	})
}

func (j *ContinuationJobs) eachOpenSession(ctx context.Context, fn func(sess *worksession.WorkSession) error) error {
	usernames, err := j.store.Usernames(ctx)
	if err != nil {
		return err
	}

	for _, username := range usernames {
		sess, err := j.store.Load(ctx, username)
		if err != nil {
			slog.Error("Cron: failed to load session", "username", username, "error", err)
			continue
		}
		if sess == nil || sess.WorkdayCompleted || sess.Status == worksession.StatusOffline {
			continue
		}
		if err := fn(sess); err != nil {
			slog.Error("Cron: continuation check failed", "username", username, "error", err)
		}
	}
	return nil
}

func pointDate(sess *worksession.WorkSession) time.Time {
	y, m, d := sess.DayStartTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, sess.DayStartTime.Location())
}

// hasActivePoint reports whether an unresolved point of the given kind
// already exists for the session's date.
func (j *ContinuationJobs) hasActivePoint(ctx context.Context, sess *worksession.WorkSession, kind continuation.Kind) (bool, error) {
	points, err := j.pointRepo.ActivePoints(ctx, sess.Username, pointDate(sess))
	if err != nil {
		return false, fmt.Errorf("failed to load continuation points: %w", err)
	}
	for _, p := range points {
		if p.Kind == kind {
			return true, nil
		}
	}
	return false, nil
}

func (j *ContinuationJobs) record(ctx context.Context, sess *worksession.WorkSession, kind continuation.Kind, ts time.Time) error {
	date := pointDate(sess)

	_, err := j.pointRepo.Record(ctx, continuation.Point{
		Username:  sess.Username,
		Date:      date,
		Timestamp: ts,
		Kind:      kind,
	})
	if err != nil {
		return err
	}

	slog.Debug("Continuation point recorded", "username", sess.Username, "kind", kind, "timestamp", ts)
	return nil
}
