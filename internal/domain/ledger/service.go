package ledger

import "context"

// Service exposes the reporting view over the work time ledger.
type Service interface {
	// List retrieves ledger entries matching the filter, paginated.
	List(ctx context.Context, filter ListFilter) (*ListResponse, error)

	// UpdateSyncStatus applies an explicit sync status transition to one entry.
	UpdateSyncStatus(ctx context.Context, id string, req UpdateSyncStatusRequest) (*EntryResponse, error)
}
