package storage

import (
	"fmt"
	"sync"

	"github.com/formflow/openai-addon/internal/models"
	"github.com/google/uuid"
)

// Note is one recorded audit note.
type Note struct {
	ID      string
	EntryID int64
	UserID  int64
	Title   string
	Body    string
	Raw     bool
}

// MemoryNoteStore collects notes in memory, in write order.
type MemoryNoteStore struct {
	mu    sync.Mutex
	notes []Note
}

// NewMemoryNoteStore creates an empty note store.
func NewMemoryNoteStore() *MemoryNoteStore {
	return &MemoryNoteStore{}
}

// AddNote records a note.
func (s *MemoryNoteStore) AddNote(entryID, userID int64, title, body string) error {
	return s.add(entryID, userID, title, body, false)
}

// AddNoteRaw records a note without sanitization. The in-memory store keeps
// both paths distinct so tests can assert which one was used.
func (s *MemoryNoteStore) AddNoteRaw(entryID, userID int64, title, body string) error {
	return s.add(entryID, userID, title, body, true)
}

func (s *MemoryNoteStore) add(entryID, userID int64, title, body string, raw bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = append(s.notes, Note{
		ID:      uuid.New().String(),
		EntryID: entryID,
		UserID:  userID,
		Title:   title,
		Body:    body,
		Raw:     raw,
	})
	return nil
}

// Notes returns a copy of all recorded notes.
func (s *MemoryNoteStore) Notes() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// MemoryEntryStore persists field updates and entry metadata in memory.
type MemoryEntryStore struct {
	mu     sync.Mutex
	fields map[int64]map[string]string
	meta   map[int64]map[string]string
}

// NewMemoryEntryStore creates an empty entry store.
func NewMemoryEntryStore() *MemoryEntryStore {
	return &MemoryEntryStore{
		fields: make(map[int64]map[string]string),
		meta:   make(map[int64]map[string]string),
	}
}

// UpdateField persists a field value for an entry.
func (s *MemoryEntryStore) UpdateField(entryID int64, inputID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fields[entryID] == nil {
		s.fields[entryID] = make(map[string]string)
	}
	s.fields[entryID][inputID] = value
	return nil
}

// AddMeta persists a metadata value for an entry.
func (s *MemoryEntryStore) AddMeta(entryID int64, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.meta[entryID] == nil {
		s.meta[entryID] = make(map[string]string)
	}
	s.meta[entryID][key] = value
	return nil
}

// Field returns a persisted field value.
func (s *MemoryEntryStore) Field(entryID int64, inputID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields[entryID][inputID]
}

// Meta returns a persisted metadata value.
func (s *MemoryEntryStore) Meta(entryID int64, key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta[entryID][key]
}

// MemoryFeedStore serves feeds from memory in insertion order per form.
type MemoryFeedStore struct {
	mu    sync.Mutex
	feeds []*models.Feed
}

// NewMemoryFeedStore creates a feed store with the given feeds.
func NewMemoryFeedStore(feeds ...*models.Feed) *MemoryFeedStore {
	return &MemoryFeedStore{feeds: feeds}
}

// Add appends a feed.
func (s *MemoryFeedStore) Add(feed *models.Feed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeds = append(s.feeds, feed)
}

// FeedsForForm returns the form's feeds in stored order.
func (s *MemoryFeedStore) FeedsForForm(formID int64) ([]*models.Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Feed
	for _, f := range s.feeds {
		if f.FormID == formID {
			out = append(out, f)
		}
	}
	return out, nil
}

// Feed returns a feed by id.
func (s *MemoryFeedStore) Feed(id int64) (*models.Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.feeds {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, fmt.Errorf("feed %d not found", id)
}
