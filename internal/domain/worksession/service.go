package worksession

import "context"

// SessionService is the command/query executor over the session state
// machine, plus the resolution workflow for abandoned prior-day sessions.
type SessionService interface {
	// Execute dispatches one state-changing session operation.
	Execute(ctx context.Context, req CommandRequest) (SessionResponse, error)

	// GetCurrentSession returns the stored session snapshot without mutating
	// it. Returns ErrSessionNotFound when the user has none.
	GetCurrentSession(ctx context.Context, username, userID string) (SessionResponse, error)

	// ResolutionStatus reports whether the user's session needs resolution
	// and the recommended end time.
	ResolutionStatus(ctx context.Context, username string) (ResolutionStatusResponse, error)

	// Resolve finalizes an unresolved prior-day session, either with an
	// explicit end time or by applying the standard schedule (skip).
	Resolve(ctx context.Context, req ResolveRequest) (ResolutionResult, error)
}
