package dispatcher

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/application/usecase"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/ui/coordinator"
)

// Command types accepted by Dispatch.
const (
	CmdCreateSurface        = "create-surface"
	CmdSwitchSurface        = "switch-surface"
	CmdCloseSurface         = "close-surface"
	CmdNavigate             = "navigate"
	CmdGoBack               = "go-back"
	CmdGoForward            = "go-forward"
	CmdReload               = "reload"
	CmdStop                 = "stop"
	CmdGoHome               = "go-home"
	CmdReportChromeMetrics  = "report-chrome-metrics"
	CmdResize               = "resize"
	CmdRequestThemeAnalysis = "request-theme-analysis"
	CmdSetStartPageTheme    = "set-startpage-theme"
	CmdFocusStartPageSearch = "focus-startpage-search"
	CmdGetHistory           = "get-history"
	CmdClearHistory         = "clear-history"
	CmdDeleteHistoryItem    = "delete-history-item"
	CmdAssistantAsk         = "assistant-ask"
	CmdExtractPageText      = "extract-page-text"
	CmdGetKeyStatus         = "get-key-status"
	CmdSaveKey              = "save-key"
	CmdTestKey              = "test-key"
	CmdGetState             = "get-state"
)

// Command is one shell request. The wire form is a flat JSON object with
// a "type" field. "id" is a surface id, except for assistant-ask where it
// is the caller's request id.
type Command struct {
	Type string `json:"type"`

	SurfaceID entity.SurfaceID `json:"-"`
	RequestID string           `json:"-"`

	InitialLocation string `json:"initialLocation,omitempty"`
	Location        string `json:"location,omitempty"`

	Top    *float64 `json:"top,omitempty"`
	Left   *float64 `json:"left,omitempty"`
	Right  *float64 `json:"right,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	Foreground string `json:"fg,omitempty"`
	Background string `json:"bg,omitempty"`
	Font       string `json:"font,omitempty"`
	StartBg    string `json:"startBg,omitempty"`
	FontID     string `json:"fontId,omitempty"`

	Timestamp *int64 `json:"ts,omitempty"`
	URL       string `json:"url,omitempty"`

	Messages []port.ChatMessage `json:"messages,omitempty"`
	Key      string             `json:"key,omitempty"`
}

type commandWire Command

// UnmarshalJSON decodes the flat wire form.
func (c *Command) UnmarshalJSON(data []byte) error {
	var aux struct {
		commandWire
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Command(aux.commandWire)
	if len(aux.ID) == 0 || string(aux.ID) == "null" {
		return nil
	}

	if c.Type == CmdAssistantAsk {
		var s string
		if err := json.Unmarshal(aux.ID, &s); err == nil {
			c.RequestID = s
			return nil
		}
		var n json.Number
		if err := json.Unmarshal(aux.ID, &n); err != nil {
			return fmt.Errorf("decode request id: %w", err)
		}
		c.RequestID = n.String()
		return nil
	}

	var n uint64
	if err := json.Unmarshal(aux.ID, &n); err != nil {
		var s string
		if json.Unmarshal(aux.ID, &s) != nil {
			return fmt.Errorf("decode surface id: %w", err)
		}
		if n, err = strconv.ParseUint(s, 10, 64); err != nil {
			return fmt.Errorf("decode surface id: %w", err)
		}
	}
	c.SurfaceID = entity.SurfaceID(n)
	return nil
}

// MarshalJSON encodes the flat wire form.
func (c Command) MarshalJSON() ([]byte, error) {
	aux := struct {
		commandWire
		ID any `json:"id,omitempty"`
	}{commandWire: commandWire(c)}
	switch {
	case c.RequestID != "":
		aux.ID = c.RequestID
	case c.SurfaceID != 0:
		aux.ID = uint64(c.SurfaceID)
	}
	return json.Marshal(aux)
}

// metricsUpdate rounds reported edges up to whole pixels. Edges are
// clamped before the conversion, which is undefined for out-of-range floats.
func (c Command) metricsUpdate() entity.ChromeMetricsUpdate {
	ceil := func(v *float64) *int {
		if v == nil || math.IsNaN(*v) {
			return nil
		}
		n := int(math.Ceil(min(max(*v, 0), entity.MaxChromeEdge)))
		return &n
	}
	return entity.ChromeMetricsUpdate{
		Top:    ceil(c.Top),
		Left:   ceil(c.Left),
		Right:  ceil(c.Right),
		Bottom: ceil(c.Bottom),
	}
}

func (c Command) startPageTheme() coordinator.StartPageTheme {
	return coordinator.StartPageTheme{
		Foreground: c.Foreground,
		Background: c.Background,
		Font:       c.Font,
		StartBg:    c.StartBg,
		FontID:     c.FontID,
	}
}

// Reply answers a command. Request/response commands fill the matching
// fields; fire-and-forget commands only set OK.
type Reply struct {
	OK    bool                  `json:"ok"`
	Error string                `json:"error,omitempty"`
	ID    entity.SurfaceID      `json:"id,omitempty"`
	Items []entity.HistoryEntry `json:"items,omitempty"`

	*coordinator.PageText
	*usecase.KeyStatus

	State *coordinator.Snapshot `json:"state,omitempty"`
}

func failed(err error) Reply {
	return Reply{OK: false, Error: err.Error()}
}
