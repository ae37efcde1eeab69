package continuation

import (
	"context"
	"time"
)

// Repository defines data access for continuation points. Recording never
// mutates the work session; resolution marks every point for a date consumed.
type Repository interface {
	// Record appends a point.
	Record(ctx context.Context, point Point) (Point, error)

	// ActivePoints returns all unresolved points for the user and date,
	// ordered by timestamp ascending.
	ActivePoints(ctx context.Context, username string, date time.Time) ([]Point, error)

	// ResolveAll marks every unresolved point for the user and date as
	// resolved, attributing the granted overtime.
	ResolveAll(ctx context.Context, username string, date time.Time, resolvedBy string, grantedOvertimeMinutes int) error
}
