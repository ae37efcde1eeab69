package ledger

import "time"

// SyncStatus tracks reconciliation of a ledger entry with the shared store.
// The pending -> synced transition belongs to the background sync path; the
// edited state is set by an explicit admin correction outside the engine.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncEdited  SyncStatus = "edited"
)

func (s SyncStatus) Valid() bool {
	switch s {
	case SyncPending, SyncSynced, SyncEdited:
		return true
	}
	return false
}

// Entry is the immutable per-day work summary produced when a session is
// finalized. One entry exists per (user, date); reporting and payroll
// collaborators consume it, only the sync status ever changes afterwards.
type Entry struct {
	ID       string
	UserID   string
	Username string
	Date     time.Time

	DayStartTime time.Time
	DayEndTime   time.Time

	TotalWorkedMinutes int
	FinalWorkedMinutes int
	OvertimeMinutes    int

	TemporaryStopCount        int
	TotalTemporaryStopMinutes int
	LunchBreakDeducted        bool

	SyncStatus SyncStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}
