package autocomplete

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/arkium/internal/domain/entity"
)

func history(urls ...string) []entity.HistoryEntry {
	out := make([]entity.HistoryEntry, len(urls))
	for i, u := range urls {
		out[i] = entity.HistoryEntry{URL: u, Title: "title of " + u, Timestamp: int64(i + 1)}
	}
	return out
}

func TestComplete(t *testing.T) {
	entries := history(
		"https://www.example.com/old",
		"https://github.com/bnema",
		"https://www.example.com/new",
	)

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "empty", input: "  ", wantOK: false},
		{name: "scheme kept", input: "https://git", want: "https://github.com/bnema", wantOK: true},
		{name: "bare host", input: "git", want: "github.com/bnema", wantOK: true},
		{name: "case of typed text kept", input: "GIT", want: "GIThub.com/bnema", wantOK: true},
		{name: "www dropped", input: "exa", want: "example.com/new", wantOK: true},
		{name: "www typed", input: "www.exa", want: "www.example.com/new", wantOK: true},
		{name: "older match when newer does not extend", input: "example.com/o", want: "example.com/old", wantOK: true},
		{name: "exact match is not a completion", input: "github.com/bnema", wantOK: false},
		{name: "no match", input: "nowhere", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Complete(tt.input, entries)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.Text)
				assert.Equal(t, got.Text[len(tt.input):], got.Suffix)
			}
		})
	}
}

func TestComplete_CarriesTitle(t *testing.T) {
	got, ok := Complete("git", history("https://github.com/"))
	assert.True(t, ok)
	assert.Equal(t, "title of https://github.com/", got.Title)
}

func TestComplete_SkipsStartPage(t *testing.T) {
	_, ok := Complete("file", history("file:///data/startpage/index.html"))
	assert.False(t, ok)
}

func TestCandidates(t *testing.T) {
	got := Candidates(history(
		"https://www.example.com/",
		"http://a.test/",
		"https://www.example.com/",
	))

	assert.Equal(t, []string{
		"https://www.example.com/",
		"www.example.com/",
		"example.com/",
		"http://a.test/",
		"a.test/",
	}, got)
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "a.test/x", StripScheme("https://a.test/x"))
	assert.Equal(t, "a.test/x", StripScheme("http://a.test/x"))
	assert.Equal(t, "ftp://a.test", StripScheme("ftp://a.test"))
}
