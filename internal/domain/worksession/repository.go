package worksession

import "context"

// SessionStore is the durable per-user record of the current or most recent
// work session. Implementations must write atomically: a failed save leaves
// the previous snapshot intact and readers never observe a partial write.
type SessionStore interface {
	// Load returns the stored session, or nil when the user has none.
	Load(ctx context.Context, username string) (*WorkSession, error)

	// Save replaces the stored session with the given snapshot.
	Save(ctx context.Context, username string, session *WorkSession) error

	// LoadBackup returns the snapshot that preceded the last save, or nil.
	// Kept readable for the recovery utility, which works on file contents only.
	LoadBackup(ctx context.Context, username string) (*WorkSession, error)

	// Usernames lists every user with a stored session.
	Usernames(ctx context.Context) ([]string, error)
}
