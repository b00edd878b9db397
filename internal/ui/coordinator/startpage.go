package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bnema/arkium/assets"
	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/logging"
)

// MaxPageTextChars caps the text handed to the assistant.
const MaxPageTextChars = 12000

const scriptTimeout = 10 * time.Second

var (
	hexColorRE = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	fontIDRE   = regexp.MustCompile(`(?i)[^a-z0-9\-_.]`)
)

// StartPageTheme recolors the start document.
type StartPageTheme struct {
	Foreground string `json:"fg"`
	Background string `json:"bg"`
	Font       string `json:"font,omitempty"`
	StartBg    string `json:"startBg,omitempty"`
	FontID     string `json:"fontId,omitempty"`
}

// Script renders the theme as page script. ok is false when a color is
// not a #rgb or #rrggbb value.
func (t StartPageTheme) Script() (script string, ok bool) {
	if !hexColorRE.MatchString(t.Foreground) || !hexColorRE.MatchString(t.Background) {
		return "", false
	}

	var b strings.Builder
	root := "document.documentElement"
	fmt.Fprintf(&b, "%s.style.setProperty('--fg',%s);", root, jsString(t.Foreground))
	fmt.Fprintf(&b, "%s.style.setProperty('--bg',%s);", root, jsString(t.Background))
	if t.Font != "" {
		fmt.Fprintf(&b, "%s.style.setProperty('--font',%s);", root, jsString(t.Font))
	}
	if t.StartBg == "noise" || t.StartBg == "none" {
		mode := jsString(t.StartBg)
		fmt.Fprintf(&b, "%s.style.setProperty('--start-bg-mode',%s);", root, mode)
		fmt.Fprintf(&b, "if(window.__applyStartBgMode){try{window.__applyStartBgMode(%s)}catch(e){}}", mode)
	}
	if t.FontID != "" {
		fmt.Fprintf(&b, "%s.setAttribute('data-font-id',%s);", root, jsString(fontIDRE.ReplaceAllString(t.FontID, "")))
	}
	return b.String(), true
}

// ApplyStartPageTheme pushes t into the active surface when it shows the
// start document. Invalid colors are ignored.
func (m *TabManager) ApplyStartPageTheme(ctx context.Context, t StartPageTheme) {
	script, ok := t.Script()
	if !ok {
		logging.FromContext(ctx).Debug().Msg("start page theme rejected: invalid colors")
		return
	}
	m.evalOnStartPage(ctx, script)
}

// FocusStartPageSearch focuses the search field of the active start page.
func (m *TabManager) FocusStartPageSearch(ctx context.Context) {
	m.evalOnStartPage(ctx, `(() => { try { const el = document.getElementById('q'); if (el) { el.focus(); el.select(); } } catch (_) {} })()`)
}

func (m *TabManager) evalOnStartPage(ctx context.Context, script string) {
	active := m.surfaces.Active()
	if active == nil || !active.StartPage {
		return
	}
	view := m.views[active.ID]
	if view == nil {
		return
	}
	wctx := logging.WithSurfaceID(m.ctx, uint64(active.ID))
	m.spawn(func() {
		ctx, cancel := context.WithTimeout(wctx, scriptTimeout)
		defer cancel()
		if err := view.Evaluate(ctx, script, nil); err != nil {
			logging.FromContext(ctx).Debug().Err(err).Msg("start page script failed")
		}
	})
}

// PageText is the readable text of a page.
type PageText struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	OriginalLen int    `json:"originalLen"`
	SentLen     int    `json:"sentLen"`
	Truncated   bool   `json:"truncated"`
}

// ExtractPageText reads the active page off the loop and calls done with
// the result from a worker goroutine.
func (m *TabManager) ExtractPageText(ctx context.Context, done func(PageText, error)) {
	active := m.surfaces.Active()
	if active == nil || m.views[active.ID] == nil {
		done(PageText{}, ErrNoActiveSurface)
		return
	}
	view := m.views[active.ID]
	m.spawn(func() {
		done(extractText(ctx, view))
	})
}

func extractText(ctx context.Context, view port.WebSurface) (PageText, error) {
	ctx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()

	var raw struct {
		URL   string `json:"url"`
		Title string `json:"title"`
		Text  string `json:"text"`
	}
	if err := view.Evaluate(ctx, assets.ExtractScript, &raw); err != nil {
		return PageText{}, fmt.Errorf("extract page text: %w", err)
	}
	return capText(raw.URL, raw.Title, raw.Text), nil
}

// capText truncates text to MaxPageTextChars characters.
func capText(u, title, text string) PageText {
	runes := []rune(text)
	out := PageText{URL: u, Title: title, Text: text, OriginalLen: len(runes)}
	if len(runes) > MaxPageTextChars {
		out.Text = string(runes[:MaxPageTextChars])
		out.Truncated = true
	}
	out.SentLen = min(len(runes), MaxPageTextChars)
	return out
}

func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
