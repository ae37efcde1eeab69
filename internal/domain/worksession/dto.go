package worksession

import (
	"time"

	"github.com/chronotrack/chronotrack-backend-go/internal/pkg/validator"
)

// Operation is the closed set of session commands accepted by the executor.
type Operation string

const (
	OpStartDay                Operation = "start_day"
	OpStartTemporaryStop      Operation = "start_temporary_stop"
	OpResumeFromTemporaryStop Operation = "resume_from_temporary_stop"
	OpEndDay                  Operation = "end_day"
)

func (o Operation) Valid() bool {
	switch o {
	case OpStartDay, OpStartTemporaryStop, OpResumeFromTemporaryStop, OpEndDay:
		return true
	}
	return false
}

// CommandRequest carries one session operation for one user. At is an
// optional explicit timestamp (RFC3339); when empty the executor uses now.
type CommandRequest struct {
	Operation Operation `json:"operation"`
	Username  string    `json:"-"`
	UserID    string    `json:"-"`
	At        string    `json:"at,omitempty"`
}

func (r *CommandRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Operation.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "operation",
			Message: "operation must be one of start_day, start_temporary_stop, resume_from_temporary_stop, end_day",
		})
	}

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if r.At != "" {
		if _, ok := validator.IsValidDateTime(r.At); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "at",
				Message: "at must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Timestamp returns the explicit command time, or now when none was given.
func (r *CommandRequest) Timestamp(now time.Time) time.Time {
	if r.At == "" {
		return now
	}
	t, ok := validator.IsValidDateTime(r.At)
	if !ok {
		return now
	}
	return t.In(now.Location())
}

// ResolveRequest finalizes an unresolved prior-day session. Skip applies the
// user's standard schedule with zero overtime; otherwise EndHour/EndMinute
// pick the end time on the session's own date.
type ResolveRequest struct {
	Username  string `json:"-"`
	UserID    string `json:"-"`
	Skip      bool   `json:"skip"`
	EndHour   *int   `json:"end_hour,omitempty"`
	EndMinute *int   `json:"end_minute,omitempty"`
}

func (r *ResolveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}

	if !r.Skip {
		if r.EndHour == nil || r.EndMinute == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "end_hour",
				Message: "end_hour and end_minute are required unless skip is set",
			})
		} else {
			if *r.EndHour < 0 || *r.EndHour > 23 {
				errs = append(errs, validator.ValidationError{
					Field:   "end_hour",
					Message: "end_hour must be between 0 and 23",
				})
			}
			if *r.EndMinute < 0 || *r.EndMinute > 59 {
				errs = append(errs, validator.ValidationError{
					Field:   "end_minute",
					Message: "end_minute must be between 0 and 59",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TemporaryStopResponse struct {
	StartTime       string  `json:"start_time"`
	EndTime         *string `json:"end_time,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
	InProgress      bool    `json:"in_progress"`
}

type SessionResponse struct {
	UserID                    string                  `json:"user_id"`
	Username                  string                  `json:"username"`
	Status                    string                  `json:"status"`
	Date                      string                  `json:"date"`
	DayStartTime              string                  `json:"day_start_time"`
	CurrentStartTime          string                  `json:"current_start_time"`
	LastActivity              string                  `json:"last_activity"`
	TemporaryStops            []TemporaryStopResponse `json:"temporary_stops,omitempty"`
	TemporaryStopCount        int                     `json:"temporary_stop_count"`
	TotalTemporaryStopMinutes int                     `json:"total_temporary_stop_minutes"`
	TotalWorkedMinutes        int                     `json:"total_worked_minutes"`
	FinalWorkedMinutes        int                     `json:"final_worked_minutes"`
	TotalOvertimeMinutes      int                     `json:"total_overtime_minutes"`
	LunchBreakDeducted        bool                    `json:"lunch_break_deducted"`
	DayEndTime                *string                 `json:"day_end_time,omitempty"`
	WorkdayCompleted          bool                    `json:"workday_completed"`
}

// ResolutionStatusResponse answers the needs-resolution query together with
// the recommended defaults shown to the user.
type ResolutionStatusResponse struct {
	NeedsResolution            bool   `json:"needs_resolution"`
	SessionDate                string `json:"session_date,omitempty"`
	DefaultEndTime             string `json:"default_end_time,omitempty"`
	DefaultEndSource           string `json:"default_end_source,omitempty"`
	RecommendedOvertimeMinutes int    `json:"recommended_overtime_minutes"`
	ActiveContinuationPoints   int    `json:"active_continuation_points"`
}

// ResolutionResult reports what a resolve call did. Applied is false when no
// session needed resolution (the no-op path).
type ResolutionResult struct {
	Applied bool             `json:"applied"`
	Skipped bool             `json:"skipped"`
	Session *SessionResponse `json:"session,omitempty"`
}
