package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/arkium/internal/domain/build"
	"github.com/bnema/arkium/internal/domain/entity"
)

func TestHistoryMatcher(t *testing.T) {
	m, err := historyMatcher("1700000000000", " https://a.test ")
	require.NoError(t, err)
	require.NotNil(t, m.Timestamp)
	assert.Equal(t, int64(1700000000000), *m.Timestamp)
	assert.Equal(t, "https://a.test", m.URL)

	m, err = historyMatcher("", "https://a.test")
	require.NoError(t, err)
	assert.Nil(t, m.Timestamp)

	_, err = historyMatcher("", "")
	assert.Error(t, err)

	_, err = historyMatcher("yesterday", "")
	assert.ErrorContains(t, err, "invalid --ts")
}

func TestNewestFirst(t *testing.T) {
	entries := []entity.HistoryEntry{{URL: "a"}, {URL: "b"}, {URL: "c"}}

	got := newestFirst(entries, 2)

	assert.Equal(t, []entity.HistoryEntry{{URL: "c"}, {URL: "b"}}, got)
	assert.Equal(t, "a", entries[0].URL, "input is not modified")
	assert.Len(t, newestFirst(entries, 0), 3)
}

func TestWriteHistory(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	var buf bytes.Buffer

	require.NoError(t, writeHistory(&buf, []entity.HistoryEntry{
		{URL: "https://a.test", Title: "A", Timestamp: now.Add(-2 * time.Hour).UnixMilli()},
		{URL: "https://b.test", Timestamp: now.UnixMilli()},
	}, now))

	out := buf.String()
	assert.Contains(t, out, "TIMESTAMP")
	assert.Contains(t, out, "2h ago")
	assert.Contains(t, out, "https://b.test")
	assert.Contains(t, out, "1700000000000")

	buf.Reset()
	require.NoError(t, writeHistory(&buf, nil, now))
	assert.Equal(t, "No history yet.\n", buf.String())
}

func TestFormatVersion(t *testing.T) {
	old := buildInfo
	t.Cleanup(func() { buildInfo = old })

	buildInfo = build.Info{}
	assert.Equal(t, "arkium dev", formatVersion())

	buildInfo = build.Info{Version: "v1.2.0", Commit: "abc123", GoVersion: "go1.25.3"}
	assert.Equal(t, "arkium v1.2.0 (abc123) with go1.25.3", formatVersion())
}
