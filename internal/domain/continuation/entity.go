package continuation

import "time"

// Kind names the periodic check that recorded a continuation point.
type Kind string

const (
	KindScheduleEndCheck Kind = "schedule_end_check"
	KindHourlyCheck      Kind = "hourly_check"
	KindMidnightRollover Kind = "midnight_rollover"
)

func (k Kind) Valid() bool {
	switch k {
	case KindScheduleEndCheck, KindHourlyCheck, KindMidnightRollover:
		return true
	}
	return false
}

// Point is a timestamped checkpoint recorded while a session is active. When
// a session is abandoned, the latest unresolved point for its date is the
// engine's best estimate of the last instant the user actually worked.
type Point struct {
	ID        string
	Username  string
	Date      time.Time
	Timestamp time.Time
	Kind      Kind

	Resolved               bool
	ResolvedBy             *string
	GrantedOvertimeMinutes int

	CreatedAt time.Time
}

// Latest returns the most recent timestamp among the points, or nil when the
// slice is empty.
func Latest(points []Point) *time.Time {
	var latest *time.Time
	for i := range points {
		ts := points[i].Timestamp
		if latest == nil || ts.After(*latest) {
			latest = &ts
		}
	}
	return latest
}
