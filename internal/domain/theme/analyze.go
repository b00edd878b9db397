// Package theme derives a two-tone chrome color pair from a loaded page.
package theme

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/domain/url"
)

// luminanceThreshold separates light from dark backgrounds.
// A background strictly brighter than this gets a black foreground.
const luminanceThreshold = 0.6

const (
	black = "#000000"
	white = "#FFFFFF"
)

// Probe is the page-probe script result. Absent fields are empty.
type Probe struct {
	URL                string `json:"url"`
	MetaThemeColor     string `json:"metaThemeColor"`
	BodyBackground     string `json:"bodyBackground"`
	DocumentBackground string `json:"documentBackground"`
}

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as uppercase #RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Luminance returns the relative luminance approximation in [0,1].
func (c RGB) Luminance() float64 {
	return 0.2126*float64(c.R)/255 + 0.7152*float64(c.G)/255 + 0.0722*float64(c.B)/255
}

var whiteRGB = RGB{R: 255, G: 255, B: 255}

// Analyze maps a probe to a theme pair. It never fails: unreadable input
// resolves to a white background.
func Analyze(p Probe) entity.ThemePair {
	if url.IsStartPage(p.URL) {
		return entity.StartPageTheme
	}
	bg := ParseColor(pick(p.MetaThemeColor, p.BodyBackground, p.DocumentBackground))
	return entity.ThemePair{
		Background: bg.Hex(),
		Foreground: ForegroundFor(bg.Luminance()),
	}
}

// ForegroundFor picks black over light backgrounds and white otherwise.
func ForegroundFor(luminance float64) string {
	if luminance > luminanceThreshold {
		return black
	}
	return white
}

func pick(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var (
	hexColorRE   = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	funcColorRE  = regexp.MustCompile(`(?i)rgba?\(([^)]+)\)`)
	leadingIntRE = regexp.MustCompile(`^[+-]?\d+`)
)

// ParseColor parses #rgb, #rrggbb, rgb() and rgba() notations.
// Channels are clamped to [0,255]; anything else yields white.
func ParseColor(input string) RGB {
	s := strings.TrimSpace(input)
	if s == "" {
		return whiteRGB
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}
	if m := funcColorRE.FindStringSubmatch(s); m != nil {
		return parseFunctional(m[1])
	}
	return whiteRGB
}

func parseHex(s string) RGB {
	if !hexColorRE.MatchString(s) {
		return whiteRGB
	}
	h := s[1:]
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return whiteRGB
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// parseFunctional accepts both the legacy comma syntax and the modern
// space syntax with an optional "/ alpha" suffix.
func parseFunctional(args string) RGB {
	if i := strings.Index(args, "/"); i >= 0 {
		args = args[:i]
	}
	parts := strings.FieldsFunc(args, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(parts) < 3 {
		return whiteRGB
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		digits := leadingIntRE.FindString(parts[i])
		if digits == "" {
			return whiteRGB
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			// Overflowing digit runs saturate.
			if strings.HasPrefix(digits, "-") {
				n = 0
			} else {
				n = 255
			}
		}
		ch[i] = uint8(min(255, max(0, n)))
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}
}
