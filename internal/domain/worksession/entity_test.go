package worksession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseSession(start time.Time) WorkSession {
	return WorkSession{
		UserID:           "user-1",
		Username:         "alice",
		Status:           StatusOnline,
		DayStartTime:     start,
		CurrentStartTime: start,
		LastActivity:     start,
		CreatedAt:        start,
		UpdatedAt:        start,
	}
}

func TestTemporaryStopMinutes(t *testing.T) {
	start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	open := TemporaryStop{StartTime: start}
	assert.Equal(t, 30, open.Minutes(start.Add(30*time.Minute)))
	assert.Equal(t, 0, open.Minutes(start.Add(-time.Minute)))

	open.Complete(start.Add(45 * time.Minute))
	require.NotNil(t, open.EndTime)
	assert.Equal(t, 45, open.DurationMinutes)
	// Completed stops report their fixed duration whatever asOf says.
	assert.Equal(t, 45, open.Minutes(start.Add(3*time.Hour)))
}

func TestCompleteClampsEndBeforeStart(t *testing.T) {
	start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	stop := TemporaryStop{StartTime: start}

	stop.Complete(start.Add(-time.Hour))
	require.NotNil(t, stop.EndTime)
	assert.Equal(t, start, *stop.EndTime)
	assert.Equal(t, 0, stop.DurationMinutes)
}

func TestOpenStop(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	sess := baseSession(start)

	assert.Nil(t, sess.OpenStop())

	end := start.Add(time.Hour)
	sess.TemporaryStops = []TemporaryStop{
		{StartTime: start.Add(30 * time.Minute), EndTime: &end, DurationMinutes: 30},
		{StartTime: start.Add(2 * time.Hour)},
	}
	open := sess.OpenStop()
	require.NotNil(t, open)
	assert.Equal(t, start.Add(2*time.Hour), open.StartTime)

	open.Complete(start.Add(3 * time.Hour))
	assert.Nil(t, sess.OpenStop())
}

func TestStartedOn(t *testing.T) {
	start := time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)
	sess := baseSession(start)

	assert.True(t, sess.StartedOn(start.Add(15*time.Minute)))
	assert.False(t, sess.StartedOn(start.Add(time.Hour)))
}

func TestCheckConsistency(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("clean online session", func(t *testing.T) {
		sess := baseSession(start)
		assert.NoError(t, sess.CheckConsistency())
	})

	t.Run("open stop must be last", func(t *testing.T) {
		sess := baseSession(start)
		sess.Status = StatusTemporaryStop
		sess.TemporaryStops = []TemporaryStop{
			{StartTime: start},
			{StartTime: start.Add(time.Hour), EndTime: &end, DurationMinutes: 0},
		}
		assert.ErrorIs(t, sess.CheckConsistency(), ErrInconsistentState)
	})

	t.Run("open stop requires temporary stop status", func(t *testing.T) {
		sess := baseSession(start)
		sess.TemporaryStops = []TemporaryStop{{StartTime: start}}
		assert.ErrorIs(t, sess.CheckConsistency(), ErrInconsistentState)
	})

	t.Run("temporary stop status requires an open stop", func(t *testing.T) {
		sess := baseSession(start)
		sess.Status = StatusTemporaryStop
		assert.ErrorIs(t, sess.CheckConsistency(), ErrInconsistentState)
	})

	t.Run("stop ending before its start", func(t *testing.T) {
		sess := baseSession(start)
		before := start.Add(-time.Hour)
		sess.TemporaryStops = []TemporaryStop{
			{StartTime: start, EndTime: &before, DurationMinutes: 0},
		}
		assert.ErrorIs(t, sess.CheckConsistency(), ErrInconsistentState)
	})

	t.Run("day end without completion flag", func(t *testing.T) {
		sess := baseSession(start)
		sess.DayEndTime = &end
		assert.ErrorIs(t, sess.CheckConsistency(), ErrInconsistentState)
	})

	t.Run("completed day", func(t *testing.T) {
		sess := baseSession(start)
		sess.Status = StatusOffline
		sess.DayEndTime = &end
		sess.WorkdayCompleted = true
		assert.NoError(t, sess.CheckConsistency())
	})

	t.Run("day ends before it starts", func(t *testing.T) {
		sess := baseSession(start)
		before := start.Add(-time.Minute)
		sess.Status = StatusOffline
		sess.DayEndTime = &before
		sess.WorkdayCompleted = true
		assert.ErrorIs(t, sess.CheckConsistency(), ErrInconsistentState)
	})
}
