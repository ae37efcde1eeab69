// Package sessionfile persists one work session per user as a JSON document
// on local disk. The write path is snapshot-in-memory, temp file, pre-write
// backup of the previous snapshot, then an atomic rename, so readers never
// observe a partial write and a failed save leaves the prior snapshot intact.
package sessionfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/worksession"
	"github.com/chronotrack/chronotrack-backend-go/internal/pkg/validator"
)

const (
	fileSuffix   = ".json"
	backupSuffix = ".json.bak"
	tempSuffix   = ".json.tmp"
)

type Store struct {
	basePath string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create session store directory: %v", worksession.ErrPersistence, err)
	}
	return &Store{
		basePath: basePath,
		locks:    make(map[string]*sync.Mutex),
	}, nil
}

// userLock returns the per-user mutex guarding the store file against the
// background sync path. Held for the duration of any write, released on all
// exit paths.
func (s *Store) userLock(username string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[username]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[username] = lock
	}
	return lock
}

func (s *Store) path(username, suffix string) (string, error) {
	if !validator.IsValidUsername(username) {
		return "", fmt.Errorf("%w: invalid username %q", worksession.ErrPersistence, username)
	}
	fullPath := filepath.Join(s.basePath, username+suffix)
	// Usernames are already restricted to safe characters; the traversal
	// check stays since the base path comes from configuration.
	if !strings.HasPrefix(fullPath, s.basePath) {
		return "", fmt.Errorf("%w: invalid session path for %q", worksession.ErrPersistence, username)
	}
	return fullPath, nil
}

// Load implements worksession.SessionStore. A missing file means the user has
// no session and is not an error.
func (s *Store) Load(ctx context.Context, username string) (*worksession.WorkSession, error) {
	path, err := s.path(username, fileSuffix)
	if err != nil {
		return nil, err
	}
	return s.read(path)
}

// LoadBackup implements worksession.SessionStore.
func (s *Store) LoadBackup(ctx context.Context, username string) (*worksession.WorkSession, error) {
	path, err := s.path(username, backupSuffix)
	if err != nil {
		return nil, err
	}
	return s.read(path)
}

func (s *Store) read(path string) (*worksession.WorkSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", worksession.ErrPersistence, filepath.Base(path), err)
	}

	var sess worksession.WorkSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: corrupt session file %s: %v", worksession.ErrPersistence, filepath.Base(path), err)
	}
	return &sess, nil
}

// Save implements worksession.SessionStore.
func (s *Store) Save(ctx context.Context, username string, session *worksession.WorkSession) error {
	path, err := s.path(username, fileSuffix)
	if err != nil {
		return err
	}
	tmpPath, err := s.path(username, tempSuffix)
	if err != nil {
		return err
	}
	bakPath, err := s.path(username, backupSuffix)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode session for %s: %v", worksession.ErrPersistence, username, err)
	}

	lock := s.userLock(username)
	lock.Lock()
	defer lock.Unlock()

	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write temp session file for %s: %v", worksession.ErrPersistence, username, err)
	}

	// Keep the previous snapshot readable for the recovery utility before
	// the replace. First save has nothing to back up.
	if prev, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(bakPath, prev, 0o644); err != nil {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("%w: failed to write backup session file for %s: %v", worksession.ErrPersistence, username, err)
		}
	} else if !os.IsNotExist(err) {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to read previous session file for %s: %v", worksession.ErrPersistence, username, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to replace session file for %s: %v", worksession.ErrPersistence, username, err)
	}
	return nil
}

// Usernames implements worksession.SessionStore.
func (s *Store) Usernames(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list session store: %v", worksession.ErrPersistence, err)
	}

	var usernames []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		if strings.HasSuffix(name, backupSuffix) || strings.HasSuffix(name, tempSuffix) {
			continue
		}
		usernames = append(usernames, strings.TrimSuffix(name, fileSuffix))
	}
	return usernames, nil
}
