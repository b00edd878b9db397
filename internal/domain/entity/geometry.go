// Package entity defines domain entities for the browser.
package entity

// Size is a window content size in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is a surface rectangle relative to the window content area.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ChromeMetrics holds the pixel extent of the stationary UI on each edge
// of the window: toolbar height, tab rail width, side panel width and
// bottom bar height.
type ChromeMetrics struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// ChromeMetricsUpdate is a partial metrics report; nil edges are unchanged.
type ChromeMetricsUpdate struct {
	Top    *int `json:"top,omitempty"`
	Left   *int `json:"left,omitempty"`
	Right  *int `json:"right,omitempty"`
	Bottom *int `json:"bottom,omitempty"`
}

// MaxChromeEdge caps a reported edge. Four capped edges plus a window
// size still fit an int on every platform, so Bounds cannot overflow.
const MaxChromeEdge = 1 << 24

// clampEdge limits v to [0, MaxChromeEdge].
func clampEdge(v int) int {
	return min(max(0, v), MaxChromeEdge)
}

// Merge applies the present fields of u, last writer wins per edge.
// Values are clamped to [0, MaxChromeEdge].
func (m ChromeMetrics) Merge(u ChromeMetricsUpdate) ChromeMetrics {
	if u.Top != nil {
		m.Top = clampEdge(*u.Top)
	}
	if u.Left != nil {
		m.Left = clampEdge(*u.Left)
	}
	if u.Right != nil {
		m.Right = clampEdge(*u.Right)
	}
	if u.Bottom != nil {
		m.Bottom = clampEdge(*u.Bottom)
	}
	return m
}

// Bounds computes the active surface rectangle inside a window of the
// given content size, leaving border pixels around it to reveal the frame.
// Width and height are clamped to zero while chrome is oversized.
func (m ChromeMetrics) Bounds(window Size, border int) Rect {
	return Rect{
		X:      m.Left + border,
		Y:      m.Top + border,
		Width:  max(0, window.Width-m.Left-m.Right-2*border),
		Height: max(0, window.Height-m.Top-m.Bottom-2*border),
	}
}
