package entity

// ThemePair is a background/foreground color pair derived from a page.
// Both colors are uppercase #RRGGBB.
type ThemePair struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

// StartPageTheme is the fixed pair used for the bundled start document.
var StartPageTheme = ThemePair{Background: "#000000", Foreground: "#FFFFFF"}
