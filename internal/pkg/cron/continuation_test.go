package cron

import (
	"context"
	"testing"
	"time"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/continuation"
	"github.com/chronotrack/chronotrack-backend-go/internal/domain/schedule"
	"github.com/chronotrack/chronotrack-backend-go/internal/domain/worksession"
	"github.com/chronotrack/chronotrack-backend-go/internal/repository/sessionfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPointRepo struct {
	points []continuation.Point
}

func (r *recordingPointRepo) Record(ctx context.Context, point continuation.Point) (continuation.Point, error) {
	r.points = append(r.points, point)
	return point, nil
}

func (r *recordingPointRepo) ActivePoints(ctx context.Context, username string, date time.Time) ([]continuation.Point, error) {
	var active []continuation.Point
	for _, p := range r.points {
		if p.Username == username && !p.Resolved && sameDay(p.Date, date) {
			active = append(active, p)
		}
	}
	return active, nil
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (r *recordingPointRepo) ResolveAll(ctx context.Context, username string, date time.Time, resolvedBy string, grantedOvertimeMinutes int) error {
	return nil
}

type jobsEnv struct {
	jobs  *ContinuationJobs
	store *sessionfile.Store
	repo  *recordingPointRepo
	now   time.Time
}

func newJobsEnv(t *testing.T) *jobsEnv {
	t.Helper()

	store, err := sessionfile.NewStore(t.TempDir())
	require.NoError(t, err)

	env := &jobsEnv{
		store: store,
		repo:  &recordingPointRepo{},
		now:   time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC),
	}
	env.jobs = NewContinuationJobs(store, env.repo, schedule.NewStaticProvider(8, 30))
	env.jobs.now = func() time.Time { return env.now }
	return env
}

func (e *jobsEnv) saveSession(t *testing.T, username string, start time.Time, status worksession.Status, completed bool) {
	t.Helper()
	sess := &worksession.WorkSession{
		UserID:           "user-" + username,
		Username:         username,
		Status:           status,
		DayStartTime:     start,
		CurrentStartTime: start,
		LastActivity:     start.Add(time.Hour),
		WorkdayCompleted: completed,
		CreatedAt:        start,
		UpdatedAt:        start,
	}
	if completed {
		end := start.Add(8 * time.Hour)
		sess.DayEndTime = &end
	}
	require.NoError(t, e.store.Save(context.Background(), username, sess))
}

func TestHourlyCheckRecordsActiveSameDaySessions(t *testing.T) {
	env := newJobsEnv(t)
	dayStart := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	env.saveSession(t, "alice", dayStart, worksession.StatusOnline, false)
	env.saveSession(t, "bob", dayStart, worksession.StatusOffline, true)
	env.saveSession(t, "carol", dayStart.AddDate(0, 0, -1), worksession.StatusOnline, false)

	require.NoError(t, env.jobs.HourlyCheck(context.Background()))

	require.Len(t, env.repo.points, 1)
	point := env.repo.points[0]
	assert.Equal(t, "alice", point.Username)
	assert.Equal(t, continuation.KindHourlyCheck, point.Kind)
	assert.Equal(t, env.now, point.Timestamp)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), point.Date)
}

func TestScheduleEndCheckOnlyPastExpectedEnd(t *testing.T) {
	env := newJobsEnv(t)

	// Scheduled end for a 9:00 start is 17:30; at 18:00 alice is past it,
	// bob started at 11:00 and is not.
	env.saveSession(t, "alice", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), worksession.StatusOnline, false)
	env.saveSession(t, "bob", time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC), worksession.StatusOnline, false)

	require.NoError(t, env.jobs.ScheduleEndCheck(context.Background()))

	require.Len(t, env.repo.points, 1)
	assert.Equal(t, "alice", env.repo.points[0].Username)
	assert.Equal(t, continuation.KindScheduleEndCheck, env.repo.points[0].Kind)
}

func TestMidnightRolloverStampsLastActivity(t *testing.T) {
	env := newJobsEnv(t)
	dayStart := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)

	env.saveSession(t, "alice", dayStart, worksession.StatusTemporaryStop, false)
	env.saveSession(t, "bob", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), worksession.StatusOnline, false)

	// The session from yesterday needs an open stop to stay consistent.
	sess, err := env.store.Load(context.Background(), "alice")
	require.NoError(t, err)
	sess.TemporaryStops = []worksession.TemporaryStop{{StartTime: sess.LastActivity}}
	require.NoError(t, env.store.Save(context.Background(), "alice", sess))

	require.NoError(t, env.jobs.MidnightRollover(context.Background()))

	require.Len(t, env.repo.points, 1)
	point := env.repo.points[0]
	assert.Equal(t, "alice", point.Username)
	assert.Equal(t, continuation.KindMidnightRollover, point.Kind)
	// The checkpoint carries the last activity, not the detection time.
	assert.Equal(t, dayStart.Add(time.Hour), point.Timestamp)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), point.Date)
}

func TestHourlyCheckAccumulatesAcrossTicks(t *testing.T) {
	env := newJobsEnv(t)
	env.saveSession(t, "alice", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), worksession.StatusOnline, false)

	require.NoError(t, env.jobs.HourlyCheck(context.Background()))
	env.now = env.now.Add(time.Hour)
	require.NoError(t, env.jobs.HourlyCheck(context.Background()))

	// Each tick advances the freshest checkpoint, so both stay.
	require.Len(t, env.repo.points, 2)
	assert.True(t, env.repo.points[0].Timestamp.Before(env.repo.points[1].Timestamp))
}

func TestScheduleEndCheckRecordsOncePerDay(t *testing.T) {
	env := newJobsEnv(t)
	env.saveSession(t, "alice", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), worksession.StatusOnline, false)

	require.NoError(t, env.jobs.ScheduleEndCheck(context.Background()))
	env.now = env.now.Add(15 * time.Minute)
	require.NoError(t, env.jobs.ScheduleEndCheck(context.Background()))

	require.Len(t, env.repo.points, 1)
	assert.Equal(t, continuation.KindScheduleEndCheck, env.repo.points[0].Kind)
}

func TestMidnightRolloverRecordsOncePerDay(t *testing.T) {
	env := newJobsEnv(t)
	dayStart := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	env.saveSession(t, "alice", dayStart, worksession.StatusOnline, false)

	require.NoError(t, env.jobs.MidnightRollover(context.Background()))
	env.now = env.now.Add(time.Hour)
	require.NoError(t, env.jobs.MidnightRollover(context.Background()))
	env.now = env.now.Add(time.Hour)
	require.NoError(t, env.jobs.MidnightRollover(context.Background()))

	// The stamp is the session's last activity; ticks after the first
	// would only duplicate it.
	require.Len(t, env.repo.points, 1)
	assert.Equal(t, dayStart.Add(time.Hour), env.repo.points[0].Timestamp)

	// A resolved point no longer suppresses recording.
	env.repo.points[0].Resolved = true
	require.NoError(t, env.jobs.MidnightRollover(context.Background()))
	require.Len(t, env.repo.points, 2)
}

func TestRunOnceExecutesRegisteredJobs(t *testing.T) {
	env := newJobsEnv(t)
	env.saveSession(t, "alice", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), worksession.StatusOnline, false)

	scheduler := NewScheduler()
	env.jobs.RegisterJobs(scheduler)
	scheduler.RunOnce(context.Background())

	// Hourly and schedule-end both fire for alice at 18:00; the rollover
	// does not since her session is from today.
	require.Len(t, env.repo.points, 2)
	kinds := []continuation.Kind{env.repo.points[0].Kind, env.repo.points[1].Kind}
	assert.ElementsMatch(t, []continuation.Kind{continuation.KindHourlyCheck, continuation.KindScheduleEndCheck}, kinds)
}
