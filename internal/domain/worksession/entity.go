package worksession

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a work session.
type Status string

const (
	StatusOffline       Status = "offline"
	StatusOnline        Status = "online"
	StatusTemporaryStop Status = "temporary_stop"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOffline, StatusOnline, StatusTemporaryStop:
		return true
	}
	return false
}

// TemporaryStop is a pause within an online session. An in-progress stop has
// no end time; a completed stop carries its end time and duration so the
// calculation engine never has to null-check both fields.
type TemporaryStop struct {
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
}

func (t TemporaryStop) InProgress() bool {
	return t.EndTime == nil
}

// Minutes returns the stop's length in whole minutes. For an in-progress stop
// the length is measured up to asOf.
func (t TemporaryStop) Minutes(asOf time.Time) int {
	if t.EndTime != nil {
		return t.DurationMinutes
	}
	mins := int(asOf.Sub(t.StartTime).Minutes())
	if mins < 0 {
		return 0
	}
	return mins
}

// Complete closes the stop at end and fixes its duration.
func (t *TemporaryStop) Complete(end time.Time) {
	if end.Before(t.StartTime) {
		end = t.StartTime
	}
	t.EndTime = &end
	t.DurationMinutes = int(end.Sub(t.StartTime).Minutes())
}

// WorkSession is the live record of a user's current or most recently active
// work day. It is owned exclusively by the session executor; collaborators
// read it but never mutate it directly.
type WorkSession struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Status   Status `json:"status"`

	DayStartTime     time.Time `json:"day_start_time"`
	CurrentStartTime time.Time `json:"current_start_time"`
	LastActivity     time.Time `json:"last_activity"`

	TemporaryStops            []TemporaryStop `json:"temporary_stops,omitempty"`
	TemporaryStopCount        int             `json:"temporary_stop_count"`
	TotalTemporaryStopMinutes int             `json:"total_temporary_stop_minutes"`

	TotalWorkedMinutes   int  `json:"total_worked_minutes"`
	FinalWorkedMinutes   int  `json:"final_worked_minutes"`
	TotalOvertimeMinutes int  `json:"total_overtime_minutes"`
	LunchBreakDeducted   bool `json:"lunch_break_deducted"`

	DayEndTime       *time.Time `json:"day_end_time,omitempty"`
	WorkdayCompleted bool       `json:"workday_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OpenStop returns the in-progress temporary stop, or nil. Only the last
// element of TemporaryStops may be in progress.
func (s *WorkSession) OpenStop() *TemporaryStop {
	if len(s.TemporaryStops) == 0 {
		return nil
	}
	last := &s.TemporaryStops[len(s.TemporaryStops)-1]
	if last.InProgress() {
		return last
	}
	return nil
}

// StartedOn reports whether the session's day started on the same calendar
// day as t, in t's location.
func (s *WorkSession) StartedOn(t time.Time) bool {
	y1, m1, d1 := s.DayStartTime.In(t.Location()).Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// CheckConsistency verifies the structural invariants before any write:
// at most one in-progress stop, only as the last element, and only while the
// session is in temporary stop; a set day end requires a completed workday.
func (s *WorkSession) CheckConsistency() error {
	open := 0
	for i, stop := range s.TemporaryStops {
		if stop.EndTime != nil && stop.EndTime.Before(stop.StartTime) {
			return fmt.Errorf("%w: temporary stop %d ends before it starts", ErrInconsistentState, i)
		}
		if stop.InProgress() {
			open++
			if i != len(s.TemporaryStops)-1 {
				return fmt.Errorf("%w: in-progress temporary stop is not the last entry", ErrInconsistentState)
			}
		}
	}
	if open > 1 {
		return fmt.Errorf("%w: %d temporary stops in progress", ErrInconsistentState, open)
	}
	if open == 1 && s.Status != StatusTemporaryStop {
		return fmt.Errorf("%w: in-progress temporary stop while status is %s", ErrInconsistentState, s.Status)
	}
	if open == 0 && s.Status == StatusTemporaryStop {
		return fmt.Errorf("%w: status is %s but no temporary stop is in progress", ErrInconsistentState, s.Status)
	}
	if (s.DayEndTime != nil) != s.WorkdayCompleted {
		return fmt.Errorf("%w: day end time and workday completion disagree", ErrInconsistentState)
	}
	if s.DayEndTime != nil && s.DayEndTime.Before(s.DayStartTime) {
		return fmt.Errorf("%w: day ends before it starts", ErrInconsistentState)
	}
	return nil
}
