package entity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryLog_AdjacentDedupUpdatesInPlace(t *testing.T) {
	h := NewHistoryLog(0)

	require.True(t, h.Record("https://a.test", "A", 1))
	require.True(t, h.Record("https://a.test", "B", 2))

	entries := h.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "B", entries[0].Title)
	assert.Equal(t, int64(2), entries[0].Timestamp)
}

func TestHistoryLog_DedupKeepsTitleWhenNewOneEmpty(t *testing.T) {
	h := NewHistoryLog(0)
	h.Record("https://a.test", "A", 1)
	h.Record("https://a.test", "", 2)

	assert.Equal(t, "A", h.Entries()[0].Title)
}

func TestHistoryLog_RevisitElsewhereAppends(t *testing.T) {
	h := NewHistoryLog(0)
	h.Record("https://a.test", "A", 1)
	h.Record("https://b.test", "B", 2)
	h.Record("https://a.test", "A", 3)

	assert.Equal(t, 3, h.Len())
}

func TestHistoryLog_CapDropsOldest(t *testing.T) {
	h := NewHistoryLog(0)
	for i := 0; i < 501; i++ {
		h.Record(fmt.Sprintf("https://site%d.test", i), "", int64(i))
	}

	entries := h.Entries()
	require.Len(t, entries, 500)
	assert.Equal(t, "https://site1.test", entries[0].URL)
	assert.Equal(t, "https://site500.test", entries[499].URL)
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Timestamp, entries[i].Timestamp)
	}
}

func TestHistoryLog_LimitCannotExceedDefault(t *testing.T) {
	h := NewHistoryLog(DefaultHistoryLimit * 2)
	for i := 0; i < 600; i++ {
		h.Record(fmt.Sprintf("https://site%d.test", i), "", int64(i))
	}

	assert.Len(t, h.Entries(), DefaultHistoryLimit)
}

func TestHistoryLog_SkipsExcludedLocations(t *testing.T) {
	h := NewHistoryLog(0)

	assert.False(t, h.Record("about:blank", "x", 1))
	assert.False(t, h.Record("devtools://foo", "x", 2))
	assert.False(t, h.Record("", "x", 3))
	assert.Equal(t, 0, h.Len())
}

func TestHistoryLog_DeleteRemovesFirstMatchOnly(t *testing.T) {
	h := NewHistoryLog(0)
	h.Record("https://u.test", "first", 1)
	h.Record("https://other.test", "", 2)
	h.Record("https://u.test", "second", 3)

	require.True(t, h.Delete(HistoryMatcher{URL: "https://u.test"}))

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "https://other.test", entries[0].URL)
	assert.Equal(t, "second", entries[1].Title)
}

func TestHistoryLog_DeleteByTimestampAndURL(t *testing.T) {
	h := NewHistoryLog(0)
	h.Record("https://u.test", "", 10)
	h.Record("https://v.test", "", 20)

	ts := int64(20)
	assert.False(t, h.Delete(HistoryMatcher{Timestamp: &ts, URL: "https://u.test"}))
	assert.True(t, h.Delete(HistoryMatcher{Timestamp: &ts}))
	assert.False(t, h.Delete(HistoryMatcher{}))
	assert.Equal(t, 1, h.Len())
}

func TestHistoryLog_ReplaceTruncates(t *testing.T) {
	h := NewHistoryLog(2)
	h.Replace([]HistoryEntry{{URL: "a"}, {URL: "b"}, {URL: "c"}})

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].URL)
}
