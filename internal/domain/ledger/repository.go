package ledger

import (
	"context"
	"time"
)

// Repository defines data access for work time ledger entries.
type Repository interface {
	// Upsert writes the entry for (username, date), replacing a previous
	// attempt for the same day so resolution retries stay idempotent.
	Upsert(ctx context.Context, entry Entry) (Entry, error)

	// GetByUserAndDate retrieves the entry for one user on one date.
	GetByUserAndDate(ctx context.Context, username string, date time.Time) (Entry, error)

	// ListByUser retrieves a user's entries with date filters and pagination.
	ListByUser(ctx context.Context, username string, filter ListFilter) ([]Entry, int64, error)

	// List retrieves entries across users (admin view).
	List(ctx context.Context, filter ListFilter) ([]Entry, int64, error)

	// UpdateSyncStatus performs the explicit admin-edit sync transition.
	UpdateSyncStatus(ctx context.Context, id string, status SyncStatus) (Entry, error)
}
