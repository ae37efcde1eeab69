package worksession

import (
	"testing"
	"time"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/continuation"
	"github.com/chronotrack/chronotrack-backend-go/internal/domain/schedule"
	"github.com/chronotrack/chronotrack-backend-go/internal/domain/worksession"
	"github.com/stretchr/testify/assert"
)

func testSchedule() schedule.WorkSchedule {
	return schedule.WorkSchedule{Hours: 8, LunchBreakMinutes: 30}
}

func sessionStartedAt(start time.Time) *worksession.WorkSession {
	return &worksession.WorkSession{
		UserID:           "user-1",
		Username:         "alice",
		Status:           worksession.StatusOnline,
		DayStartTime:     start,
		CurrentStartTime: start,
		LastActivity:     start,
		CreatedAt:        start,
		UpdatedAt:        start,
	}
}

func TestOvertimeTier(t *testing.T) {
	calc := NewCalculator(DefaultCalcConfig())

	tests := []struct {
		name     string
		excess   int
		expected int
	}{
		{"no excess", 0, 0},
		{"negative excess", -30, 0},
		{"inside first tier", 30, 0},
		{"exactly one hour", 60, 0},
		{"one minute past first tier", 61, 60},
		{"upper edge of second tier", 120, 60},
		{"one minute into third tier", 121, 120},
		{"upper edge of third tier", 180, 120},
		{"deep excess caps out", 10*60 + 1, 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calc.OvertimeTier(tt.excess))
		})
	}
}

func TestCalculateOvertimeFromWorkedMinutes(t *testing.T) {
	calc := NewCalculator(DefaultCalcConfig())
	sched := testSchedule()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	// Elapsed minutes on an 8h schedule, no breaks. Lunch deduction shifts
	// final worked down by 30 before tiering.
	tests := []struct {
		name             string
		elapsedMinutes   int
		expectedOvertime int
	}{
		{"regular day", 8*60 + 30, 0},
		{"one hour over, still tier zero", 9*60 + 30, 0},
		{"first overtime tier", 9*60 + 31, 60},
		{"second overtime tier", 10*60 + 31, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := sessionStartedAt(start)
			asOf := start.Add(time.Duration(tt.elapsedMinutes) * time.Minute)

			totals := calc.Calculate(sess, sched, asOf)

			assert.True(t, totals.LunchBreakDeducted)
			assert.Equal(t, tt.elapsedMinutes-30, totals.FinalWorkedMinutes)
			assert.Equal(t, tt.expectedOvertime, totals.OvertimeMinutes)
		})
	}
}

func TestCalculateLunchDeduction(t *testing.T) {
	calc := NewCalculator(DefaultCalcConfig())
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("applies once worked reaches the full schedule", func(t *testing.T) {
		sess := sessionStartedAt(start)
		totals := calc.Calculate(sess, testSchedule(), start.Add(8*time.Hour))

		assert.True(t, totals.LunchBreakDeducted)
		assert.Equal(t, 480, totals.WorkedMinutes)
		assert.Equal(t, 450, totals.FinalWorkedMinutes)
	})

	t.Run("not applied below the full schedule", func(t *testing.T) {
		sess := sessionStartedAt(start)
		totals := calc.Calculate(sess, testSchedule(), start.Add(8*time.Hour-time.Minute))

		assert.False(t, totals.LunchBreakDeducted)
		assert.Equal(t, 479, totals.FinalWorkedMinutes)
	})

	t.Run("not applied on a non 8 hour schedule", func(t *testing.T) {
		sess := sessionStartedAt(start)
		sched := schedule.WorkSchedule{Hours: 6, LunchBreakMinutes: 30}
		totals := calc.Calculate(sess, sched, start.Add(7*time.Hour))

		assert.False(t, totals.LunchBreakDeducted)
		assert.Equal(t, 420, totals.FinalWorkedMinutes)
	})
}

func TestCalculateSubtractsBreaks(t *testing.T) {
	calc := NewCalculator(DefaultCalcConfig())
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	sess := sessionStartedAt(start)
	breakEnd := start.Add(4*time.Hour + 45*time.Minute)
	sess.TemporaryStops = []worksession.TemporaryStop{
		{StartTime: start.Add(4 * time.Hour), EndTime: &breakEnd, DurationMinutes: 45},
	}

	totals := calc.Calculate(sess, testSchedule(), start.Add(9*time.Hour))

	assert.Equal(t, 540, totals.ElapsedMinutes)
	assert.Equal(t, 45, totals.BreakMinutes)
	assert.Equal(t, 495, totals.WorkedMinutes)
	assert.True(t, totals.LunchBreakDeducted)
	assert.Equal(t, 465, totals.FinalWorkedMinutes)
	assert.Equal(t, 0, totals.OvertimeMinutes)
}

func TestCalculateOpenBreakCountsUpToAsOf(t *testing.T) {
	calc := NewCalculator(DefaultCalcConfig())
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	sess := sessionStartedAt(start)
	sess.Status = worksession.StatusTemporaryStop
	sess.TemporaryStops = []worksession.TemporaryStop{
		{StartTime: start.Add(2 * time.Hour)},
	}

	early := calc.Calculate(sess, testSchedule(), start.Add(2*time.Hour+10*time.Minute))
	later := calc.Calculate(sess, testSchedule(), start.Add(2*time.Hour+40*time.Minute))

	assert.Equal(t, 10, early.BreakMinutes)
	assert.Equal(t, 40, later.BreakMinutes)
	// Worked time froze when the stop opened.
	assert.Equal(t, 120, early.WorkedMinutes)
	assert.Equal(t, 120, later.WorkedMinutes)
}

func TestCalculateBreaksMayExceedWorkedTime(t *testing.T) {
	calc := NewCalculator(DefaultCalcConfig())
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	// Ten minutes online, then a six-hour stop. Break time legitimately
	// dwarfs worked time; only the elapsed bound is enforced.
	sess := sessionStartedAt(start)
	sess.Status = worksession.StatusTemporaryStop
	sess.TemporaryStops = []worksession.TemporaryStop{
		{StartTime: start.Add(10 * time.Minute)},
	}

	totals := calc.Calculate(sess, testSchedule(), start.Add(6*time.Hour+10*time.Minute))

	assert.Equal(t, 370, totals.ElapsedMinutes)
	assert.Equal(t, 360, totals.BreakMinutes)
	assert.Equal(t, 10, totals.WorkedMinutes)
	assert.LessOrEqual(t, totals.BreakMinutes, totals.ElapsedMinutes)
	assert.GreaterOrEqual(t, totals.WorkedMinutes, 0)
}

func TestCalculateClampsNegativeElapsed(t *testing.T) {
	calc := NewCalculator(DefaultCalcConfig())
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	sess := sessionStartedAt(start)
	totals := calc.Calculate(sess, testSchedule(), start.Add(-time.Hour))

	assert.Equal(t, 0, totals.ElapsedMinutes)
	assert.Equal(t, 0, totals.WorkedMinutes)
	assert.Equal(t, 0, totals.OvertimeMinutes)
}

func TestRecommendOvertimeContinuationPolicy(t *testing.T) {
	cfg := DefaultCalcConfig()
	cfg.OvertimePolicy = PolicyContinuation
	calc := NewCalculator(cfg)

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	sched := testSchedule()
	// Scheduled end is 17:30 for a 9:00 start on the 8h+lunch schedule.

	t.Run("no points means no overtime", func(t *testing.T) {
		got := calc.RecommendOvertime(DerivedTotals{OvertimeMinutes: 120}, sched, start, nil)
		assert.Equal(t, 0, got)
	})

	t.Run("latest point drives the tier", func(t *testing.T) {
		points := []continuation.Point{
			{Timestamp: start.Add(9 * time.Hour)},
			{Timestamp: start.Add(10*time.Hour + 31*time.Minute)},
		}
		// Latest point is 2h1m past the scheduled end.
		got := calc.RecommendOvertime(DerivedTotals{}, sched, start, points)
		assert.Equal(t, 120, got)
	})
}

func TestPreviousDay(t *testing.T) {
	start := time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC)
	sess := sessionStartedAt(start)

	assert.False(t, PreviousDay(sess, start.Add(time.Hour)))
	assert.True(t, PreviousDay(sess, start.Add(3*time.Hour)))
	assert.True(t, PreviousDay(sess, start.AddDate(0, 1, 0)))
	assert.True(t, PreviousDay(sess, start.AddDate(1, 0, 0)))
	assert.False(t, PreviousDay(sess, start.Add(-time.Hour)))
}
