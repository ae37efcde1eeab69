package sessionfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/worksession"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(username string, start time.Time) *worksession.WorkSession {
	return &worksession.WorkSession{
		UserID:           "user-1",
		Username:         username,
		Status:           worksession.StatusOnline,
		DayStartTime:     start,
		CurrentStartTime: start,
		LastActivity:     start,
		CreatedAt:        start,
		UpdatedAt:        start,
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	sess := testSession("alice", start)
	breakEnd := start.Add(4*time.Hour + 30*time.Minute)
	sess.TemporaryStops = []worksession.TemporaryStop{
		{StartTime: start.Add(4 * time.Hour), EndTime: &breakEnd, DurationMinutes: 30},
	}
	sess.TemporaryStopCount = 1
	sess.TotalTemporaryStopMinutes = 30

	require.NoError(t, store.Save(ctx, "alice", sess))

	loaded, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, sess, loaded)
}

func TestLoadMissingReturnsNil(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	loaded, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestBackupHoldsPreviousSnapshot(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	first := testSession("alice", start)
	require.NoError(t, store.Save(ctx, "alice", first))

	// No backup exists before the second save.
	backup, err := store.LoadBackup(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, backup)

	second := testSession("alice", start)
	second.Status = worksession.StatusOffline
	end := start.Add(8 * time.Hour)
	second.DayEndTime = &end
	second.WorkdayCompleted = true
	require.NoError(t, store.Save(ctx, "alice", second))

	backup, err = store.LoadBackup(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, backup)
	assert.Equal(t, first, backup)

	current, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, current.WorkdayCompleted)
}

func TestCorruptFileReportsPersistenceError(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice.json"), []byte("{not json"), 0o644))

	_, err = store.Load(context.Background(), "alice")
	assert.ErrorIs(t, err, worksession.ErrPersistence)
}

func TestRejectsInvalidUsername(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Load(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, worksession.ErrPersistence)

	err = store.Save(ctx, "a/b", testSession("a/b", time.Now()))
	assert.ErrorIs(t, err, worksession.ErrPersistence)
}

func TestUsernamesListsOnlySessionFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, "alice", testSession("alice", start)))
	require.NoError(t, store.Save(ctx, "bob", testSession("bob", start)))
	// Second save for alice produces a backup that must not be listed.
	require.NoError(t, store.Save(ctx, "alice", testSession("alice", start)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0o644))

	usernames, err := store.Usernames(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, usernames)
}
