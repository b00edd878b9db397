// Package autocomplete completes address bar input from visited pages.
package autocomplete

import (
	"strings"

	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/domain/url"
)

// Suggestion completes the typed text to a visited location.
type Suggestion struct {
	// Text is the typed text followed by Suffix.
	Text   string
	Suffix string
	Title  string
}

// Complete returns the newest entry whose location extends input.
// Matching ignores case, the scheme and a leading "www.".
func Complete(input string, entries []entity.HistoryEntry) (Suggestion, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Suggestion{}, false
	}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if url.IsStartPage(e.URL) {
			continue
		}
		if suffix, ok := extend(input, e.URL); ok {
			return Suggestion{Text: input + suffix, Suffix: suffix, Title: e.Title}, true
		}
	}
	return Suggestion{}, false
}

// Candidates lists every form of every location, newest first and
// without duplicates, for inputs that do their own prefix matching.
func Candidates(entries []entity.HistoryEntry) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := len(entries) - 1; i >= 0; i-- {
		if url.IsStartPage(entries[i].URL) {
			continue
		}
		for _, form := range forms(entries[i].URL) {
			if _, dup := seen[form]; dup {
				continue
			}
			seen[form] = struct{}{}
			out = append(out, form)
		}
	}
	return out
}

// StripScheme removes a leading http:// or https://.
func StripScheme(location string) string {
	for _, scheme := range []string{"https://", "http://"} {
		if rest, ok := strings.CutPrefix(location, scheme); ok {
			return rest
		}
	}
	return location
}

// forms returns location as visited, without its scheme, and without
// its scheme and "www.". Duplicates are collapsed.
func forms(location string) []string {
	out := []string{location}
	bare := StripScheme(location)
	if bare != location {
		out = append(out, bare)
	}
	if host, ok := strings.CutPrefix(bare, "www."); ok {
		out = append(out, host)
	}
	return out
}

// extend returns what follows input in the first form of location that
// input is a strict prefix of.
func extend(input, location string) (string, bool) {
	for _, form := range forms(location) {
		if len(form) <= len(input) {
			continue
		}
		if strings.EqualFold(form[:len(input)], input) {
			return form[len(input):], true
		}
	}
	return "", false
}
