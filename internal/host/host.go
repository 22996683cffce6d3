// Package host declares the collaborator interfaces the form framework
// supplies. The addon never owns storage, templating or routing; everything
// it persists or resolves goes through one of these ports.
package host

import (
	"time"

	"github.com/formflow/openai-addon/internal/models"
)

// TemplateResolver resolves host placeholder syntax (field references such as
// {Name:1} or {all_fields}) against a submitted entry. The addon only
// consumes its output.
type TemplateResolver interface {
	Resolve(text string, form *models.Form, entry *models.Entry, format string) string
}

// NoteStore records audit notes against an entry. AddNoteRaw stores the body
// without passing it through the host's HTML sanitizer; image results are
// data URIs that sanitization would strip.
type NoteStore interface {
	AddNote(entryID, userID int64, title, body string) error
	AddNoteRaw(entryID, userID int64, title, body string) error
}

// EntryStore persists field and metadata updates for a saved entry.
type EntryStore interface {
	UpdateField(entryID int64, inputID, value string) error
	AddMeta(entryID int64, key, value string) error
}

// FeedStore supplies feed configurations in their stored order.
type FeedStore interface {
	FeedsForForm(formID int64) ([]*models.Feed, error)
	Feed(id int64) (*models.Feed, error)
}

// TransientStore is a shared keyed store with per-key expiry, backing the
// second cache tier. Concurrent writers racing on the same key resolve as
// last-write-wins; payloads are identical for identical keys.
type TransientStore interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// CategoryFilter lets the host override whether a moderation category should
// reject content. It receives the default verdict (reject when the category
// is true) and the category name.
type CategoryFilter func(reject bool, category string) bool
