package worksession

import "errors"

// Work session domain errors
var (
	// Command precondition errors
	ErrSessionNotFound   = errors.New("no work session found for today")
	ErrAlreadyOnline     = errors.New("you have already started your work day")
	ErrNotOnline         = errors.New("you have not started your work day yet")
	ErrAlreadyOnBreak    = errors.New("a temporary stop is already in progress")
	ErrNotOnBreak        = errors.New("no temporary stop is in progress")
	ErrWorkdayCompleted  = errors.New("work day has already been completed")
	ErrUnresolvedSession = errors.New("a previous day's session must be resolved before starting a new day")

	// Routing errors
	ErrSessionOwnership   = errors.New("session belongs to a different user")
	ErrPreviousDaySession = errors.New("session was started on a previous day and must be resolved")

	// Input errors
	ErrUnknownOperation = errors.New("unknown session operation")
	ErrInvalidEndTime   = errors.New("end time must be after the session start")

	// Infrastructure errors
	ErrPersistence       = errors.New("session store operation failed")
	ErrInconsistentState = errors.New("work session state is inconsistent")
)
