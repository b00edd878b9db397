// Package url provides URL manipulation utilities for the browser.
package url

import (
	"net/url"
	"regexp"
	"strings"
)

// StartSentinel is the location that selects the bundled start document.
// IsStart also accepts the bare word "start".
const StartSentinel = "start:"

var startPageRE = regexp.MustCompile(`(?i)/startpage/index\.html`)

// IsStart reports whether a requested location means "the start page".
// Surrounding whitespace is ignored.
func IsStart(location string) bool {
	switch strings.TrimSpace(location) {
	case "", StartSentinel, "start":
		return true
	}
	return false
}

// IsStartPage reports whether a loaded URL is the bundled start document.
func IsStartPage(u string) bool {
	return startPageRE.MatchString(u)
}

// Normalize adds the https:// prefix when the location has no http(s) scheme.
// Returns "" for an empty input.
func Normalize(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return input
	}
	return "https://" + input
}

// Resolve maps a requested location to what the surface must load.
// An empty location, "start:" or bare "start" resolves to startURL;
// everything else is normalized.
func Resolve(location, startURL string) string {
	if IsStart(location) {
		return startURL
	}
	return Normalize(location)
}

// Hostname extracts the host (without port) from a URL string.
func Hostname(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
