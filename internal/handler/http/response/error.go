package response

import (
	"errors"
	"net/http"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/ledger"
	"github.com/chronotrack/chronotrack-backend-go/internal/domain/worksession"
	"github.com/chronotrack/chronotrack-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Work session domain errors
	case errors.Is(err, worksession.ErrSessionNotFound):
		NotFound(w, "No work session found for today")
	case errors.Is(err, worksession.ErrAlreadyOnline):
		Conflict(w, "Work day already started")
	case errors.Is(err, worksession.ErrNotOnline):
		Conflict(w, "Work day has not been started")
	case errors.Is(err, worksession.ErrAlreadyOnBreak):
		Conflict(w, "A temporary stop is already in progress")
	case errors.Is(err, worksession.ErrNotOnBreak):
		Conflict(w, "No temporary stop is in progress")
	case errors.Is(err, worksession.ErrWorkdayCompleted):
		Conflict(w, "Work day has already been completed")
	case errors.Is(err, worksession.ErrUnresolvedSession):
		Conflict(w, "A previous day's session must be resolved first")
	case errors.Is(err, worksession.ErrPreviousDaySession):
		Conflict(w, "Session belongs to a previous day; resolve it first")
	case errors.Is(err, worksession.ErrSessionOwnership):
		Forbidden(w, "Session belongs to a different user")
	case errors.Is(err, worksession.ErrUnknownOperation):
		BadRequest(w, "Unknown session operation", nil)
	case errors.Is(err, worksession.ErrInvalidEndTime):
		BadRequest(w, "End time must be after the session start", nil)
	case errors.Is(err, worksession.ErrInconsistentState):
		Conflict(w, "Work session state is inconsistent")

	// Ledger domain errors
	case errors.Is(err, ledger.ErrEntryNotFound):
		NotFound(w, "Ledger entry not found")
	case errors.Is(err, ledger.ErrInvalidSyncStatus):
		BadRequest(w, "Invalid ledger sync status", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
