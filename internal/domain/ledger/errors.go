package ledger

import "errors"

// Ledger domain errors
var (
	ErrEntryNotFound     = errors.New("ledger entry not found")
	ErrInvalidSyncStatus = errors.New("invalid ledger sync status")
)
