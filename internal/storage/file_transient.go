package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// fileTransient is the on-disk record: the payload plus its expiry.
type fileTransient struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileTransientStore persists transients as one JSON file per key, so cached
// responses survive process restarts within their TTL window. Write errors
// are swallowed: a transient store that loses writes only costs an extra
// upstream call.
type FileTransientStore struct {
	dir string
	now func() time.Time
}

// NewFileTransientStore creates a file-backed transient store rooted at dir.
func NewFileTransientStore(dir string) *FileTransientStore {
	return &FileTransientStore{dir: dir, now: time.Now}
}

// Get returns the stored value if present and not expired. Expired files are
// removed on read.
func (s *FileTransientStore) Get(key string) ([]byte, bool) {
	path := s.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var record fileTransient
	if err := json.Unmarshal(data, &record); err != nil {
		os.Remove(path)
		return nil, false
	}

	if s.now().After(record.ExpiresAt) {
		os.Remove(path)
		return nil, false
	}

	return record.Value, true
}

// Set stores a value with a TTL. A zero or negative TTL deletes the key.
func (s *FileTransientStore) Set(key string, value []byte, ttl time.Duration) {
	path := s.path(key)

	if ttl <= 0 {
		os.Remove(path)
		return
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return
	}

	record := fileTransient{
		Value:     value,
		ExpiresAt: s.now().Add(ttl),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return
	}

	os.WriteFile(path, data, 0644)
}

// SetClock overrides the time source. Test hook.
func (s *FileTransientStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *FileTransientStore) path(key string) string {
	return filepath.Join(s.dir, sanitizeKeyFilename(key)+".json")
}

// sanitizeKeyFilename converts a key to a safe filename
func sanitizeKeyFilename(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
