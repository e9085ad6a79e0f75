package clubhouseclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CachedSession is the blob kept between runs for one event.
type CachedSession struct {
	SessionID   string    `json:"sessionId"`
	DisplayName string    `json:"displayName"`
	EventID     string    `json:"eventId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store is a key/value cache of sessions. Load returns nil, nil for an unknown event.
type Store interface {
	Load(eventID string) (*CachedSession, error)
	Save(s *CachedSession) error
	Delete(eventID string) error
}

// CacheKey is the key a session for eventID is stored under.
func CacheKey(eventID string) string {
	return "clubhouse_session_" + eventID
}

// FileStore keeps every key in one JSON object on disk.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStorePath is ~/.golftrip/clubhouse.json, or the working directory when there is no home.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "clubhouse.json"
	}
	return filepath.Join(home, ".golftrip", "clubhouse.json")
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	entries := map[string]json.RawMessage{}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("session store %s is corrupt: %w", s.path, err)
	}
	return entries, nil
}

func (s *FileStore) write(entries map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Load(eventID string) (*CachedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	raw, ok := entries[CacheKey(eventID)]
	if !ok {
		return nil, nil
	}
	var sess CachedSession
	if err := json.Unmarshal(raw, &sess); err != nil || sess.SessionID == "" {
		// unreadable entries are treated as absent
		return nil, nil
	}
	return &sess, nil
}

func (s *FileStore) Save(sess *CachedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	entries[CacheKey(sess.EventID)] = raw
	return s.write(entries)
}

func (s *FileStore) Delete(eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	key := CacheKey(eventID)
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return s.write(entries)
}
