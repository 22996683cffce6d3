package models

import "strconv"

// Moderation behaviors configurable per feed.
const (
	BehaviorNone            = ""
	BehaviorSpam            = "spam"
	BehaviorValidationError = "validation_error"
)

// Feed is one per-form integration instance: which endpoint to call, which
// model, the prompt templates and what to do with the result. The host's feed
// store owns persistence; Meta carries the endpoint-prefixed settings the way
// the host saves them (all values are strings, numeric settings included).
type Feed struct {
	ID     int64             `json:"id"`
	FormID int64             `json:"form_id"`
	Name   string            `json:"name"`
	Meta   map[string]string `json:"meta"`
}

// Endpoint returns the feed's raw endpoint setting.
func (f *Feed) Endpoint() string {
	return f.Meta["endpoint"]
}

// Setting returns the value of an endpoint-prefixed setting for the feed's
// endpoint, e.g. Setting("model") on a completions feed reads
// "completions_model".
func (f *Feed) Setting(name string) string {
	ep, err := ParseEndpoint(f.Endpoint())
	if err != nil {
		return ""
	}
	return f.Meta[ep.SettingKey(name)]
}

// FloatSetting returns an endpoint-prefixed setting coerced to a float.
// Settings are stored as text by the host settings screens.
func (f *Feed) FloatSetting(name string) (float64, bool) {
	raw := f.Setting(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// BoolSetting reports whether an endpoint-prefixed setting is truthy. The
// host stores checkbox values as "1"/"0" or "true"/"".
func (f *Feed) BoolSetting(name string) bool {
	switch f.Setting(name) {
	case "", "0", "false":
		return false
	}
	return true
}

// Behavior returns the configured moderation behavior.
func (f *Feed) Behavior() string {
	return f.Meta["moderations_behavior"]
}

// Form is the minimal form identity the addon needs; rendering and field
// definitions stay with the host.
type Form struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Entry is one form submission: field values keyed by input id ("3" or "3.6"
// for composite inputs) plus identity. ID is zero for a provisional entry
// built at validation time, before anything is persisted.
type Entry struct {
	ID     int64             `json:"id"`
	FormID int64             `json:"form_id"`
	Fields map[string]string `json:"fields"`
}

// Value returns the submitted value for an input id.
func (e *Entry) Value(inputID string) string {
	if e == nil {
		return ""
	}
	return e.Fields[inputID]
}

// SetValue writes a field value on the in-memory entry.
func (e *Entry) SetValue(inputID, value string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[inputID] = value
}

// Clone returns a copy of the entry with its own field map.
func (e *Entry) Clone() *Entry {
	fields := make(map[string]string, len(e.Fields))
	for k, v := range e.Fields {
		fields[k] = v
	}
	return &Entry{ID: e.ID, FormID: e.FormID, Fields: fields}
}
