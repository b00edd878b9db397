package entity

import "strings"

// DefaultHistoryLimit is the number of most recent entries kept. It is
// also the ceiling: a configured limit may lower it, never raise it.
const DefaultHistoryLimit = 500

// HistoryEntry represents a visited location in browsing history.
// Timestamp is in Unix milliseconds.
type HistoryEntry struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Timestamp int64  `json:"timestamp"`
}

// HistoryMatcher selects an entry for deletion.
// Nil/empty fields do not constrain the match.
type HistoryMatcher struct {
	Timestamp *int64 `json:"timestamp,omitempty"`
	URL       string `json:"url,omitempty"`
}

// IsEmpty reports whether the matcher has no constraint at all.
func (m HistoryMatcher) IsEmpty() bool {
	return m.Timestamp == nil && m.URL == ""
}

func (m HistoryMatcher) matches(e HistoryEntry) bool {
	if m.Timestamp != nil && e.Timestamp != *m.Timestamp {
		return false
	}
	if m.URL != "" && e.URL != m.URL {
		return false
	}
	return true
}

// IsHistoryExcluded reports whether a location must never be recorded.
func IsHistoryExcluded(u string) bool {
	return u == "" || u == "about:blank" || strings.HasPrefix(u, "devtools://")
}

// HistoryLog is the chronological, size-bounded history sequence.
// No two adjacent entries share a URL.
type HistoryLog struct {
	entries []HistoryEntry
	limit   int
}

// NewHistoryLog creates an empty log bounded to limit entries.
// A non-positive limit or one above DefaultHistoryLimit selects
// DefaultHistoryLimit.
func NewHistoryLog(limit int) *HistoryLog {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	return &HistoryLog{limit: limit}
}

// Replace loads entries, keeping only the most recent ones.
func (h *HistoryLog) Replace(entries []HistoryEntry) {
	h.entries = append([]HistoryEntry(nil), entries...)
	h.truncate()
}

// Record applies a visit. Returns false when the location is excluded.
// A repeat of the last entry's URL updates it in place; an empty title
// keeps the previous one.
func (h *HistoryLog) Record(u, title string, nowMs int64) bool {
	if IsHistoryExcluded(u) {
		return false
	}
	if n := len(h.entries); n > 0 && h.entries[n-1].URL == u {
		last := &h.entries[n-1]
		if title != "" {
			last.Title = title
		}
		last.Timestamp = nowMs
		return true
	}
	h.entries = append(h.entries, HistoryEntry{URL: u, Title: title, Timestamp: nowMs})
	h.truncate()
	return true
}

// Delete removes the first entry matching every provided field.
func (h *HistoryLog) Delete(m HistoryMatcher) bool {
	if m.IsEmpty() {
		return false
	}
	for i, e := range h.entries {
		if m.matches(e) {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the log.
func (h *HistoryLog) Clear() {
	h.entries = nil
}

// Entries returns a copy of the entries, oldest first.
func (h *HistoryLog) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *HistoryLog) Len() int {
	return len(h.entries)
}

// Limit returns the configured bound.
func (h *HistoryLog) Limit() int {
	return h.limit
}

func (h *HistoryLog) truncate() {
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append([]HistoryEntry(nil), h.entries[over:]...)
	}
}
