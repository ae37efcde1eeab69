package schedule

import (
	"context"
	"time"
)

// WorkSchedule is the shape of a user's standard work day. Engine components
// receive it as a value so the tiering rules stay testable in isolation.
type WorkSchedule struct {
	Hours             int
	LunchBreakMinutes int
}

func (s WorkSchedule) Minutes() int {
	return s.Hours * 60
}

// LunchEligible reports whether the fixed lunch-break deduction applies to
// this schedule. Only the standard 8-hour day carries one.
func (s WorkSchedule) LunchEligible() bool {
	return s.Hours == 8
}

// ExpectedEnd returns the scheduled end of a day that started at dayStart.
// Lunch-eligible schedules run the extra lunch length past the worked hours.
func (s WorkSchedule) ExpectedEnd(dayStart time.Time) time.Time {
	end := dayStart.Add(time.Duration(s.Hours) * time.Hour)
	if s.LunchEligible() {
		end = end.Add(time.Duration(s.LunchBreakMinutes) * time.Minute)
	}
	return end
}

// Provider resolves the schedule for a user. Schedule administration lives
// outside the engine; this is the read-side contract it consumes.
type Provider interface {
	ForUser(ctx context.Context, username string) (WorkSchedule, error)
}

type staticProvider struct {
	sched WorkSchedule
}

// NewStaticProvider returns a Provider that hands every user the same
// configured schedule.
func NewStaticProvider(hours, lunchBreakMinutes int) Provider {
	return &staticProvider{sched: WorkSchedule{Hours: hours, LunchBreakMinutes: lunchBreakMinutes}}
}

func (p *staticProvider) ForUser(ctx context.Context, username string) (WorkSchedule, error) {
	return p.sched, nil
}
