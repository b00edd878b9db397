// Package shell holds the shell-side model of the browser: the tab strip,
// the active surface, the chrome colors and the history list. It is built
// purely from coordinator events and answers with follow-up commands.
package shell

import (
	"slices"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/application/usecase"
	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/ui/dispatcher"
)

// Tab is one entry of the tab strip.
type Tab struct {
	ID    entity.SurfaceID
	Title string
	URL   string
}

// Label is the text shown in the tab strip.
func (t Tab) Label() string {
	switch {
	case t.Title != "":
		return t.Title
	case t.URL != "":
		return t.URL
	default:
		return "New Tab"
	}
}

// State is not safe for concurrent use. The terminal shell mutates it from
// its update loop only.
type State struct {
	tabs    []Tab
	active  entity.SurfaceID
	theme   entity.ThemePair
	history []entity.HistoryEntry

	replies map[string]port.AssistantReply
	dropped int
}

// NewState returns an empty state colored with the start page pair.
func NewState() *State {
	return &State{
		theme:   entity.StartPageTheme,
		replies: make(map[string]port.AssistantReply),
	}
}

// Tabs returns a copy of the tab strip in creation order.
func (s *State) Tabs() []Tab { return slices.Clone(s.tabs) }

// ActiveID returns the surface the shell considers active, or zero.
func (s *State) ActiveID() entity.SurfaceID { return s.active }

// Active returns the active tab.
func (s *State) Active() (Tab, bool) {
	i := s.index(s.active)
	if i < 0 {
		return Tab{}, false
	}
	return s.tabs[i], true
}

// Theme returns the chrome colors in effect.
func (s *State) Theme() entity.ThemePair { return s.theme }

// History returns the last history snapshot received.
func (s *State) History() []entity.HistoryEntry { return slices.Clone(s.history) }

// DroppedThemes counts theme suggestions discarded as stale.
func (s *State) DroppedThemes() int { return s.dropped }

// Reply returns and forgets the assistant reply for a request id.
func (s *State) Reply(id string) (port.AssistantReply, bool) {
	r, ok := s.replies[id]
	if ok {
		delete(s.replies, id)
	}
	return r, ok
}

// Activate marks id active and returns the switch command to send.
func (s *State) Activate(id entity.SurfaceID) (dispatcher.Command, bool) {
	if s.index(id) < 0 || id == s.active {
		return dispatcher.Command{}, false
	}
	s.active = id
	return dispatcher.Command{Type: dispatcher.CmdSwitchSurface, SurfaceID: id}, true
}

// Cycle activates the tab delta positions away from the active one,
// wrapping around.
func (s *State) Cycle(delta int) (dispatcher.Command, bool) {
	if len(s.tabs) == 0 {
		return dispatcher.Command{}, false
	}
	i := s.index(s.active)
	if i < 0 {
		i = 0
	}
	n := len(s.tabs)
	next := ((i+delta)%n + n) % n
	return s.Activate(s.tabs[next].ID)
}

// Apply folds an event into the state. It returns the commands the shell
// must send in response.
func (s *State) Apply(ev port.Event) []dispatcher.Command {
	switch e := ev.(type) {
	case port.SurfaceCreated:
		if s.index(e.ID) < 0 {
			s.tabs = append(s.tabs, Tab{ID: e.ID, Title: e.Title, URL: e.URL})
		}
		s.active = e.ID
	case port.SurfaceUpdated:
		if i := s.index(e.ID); i >= 0 {
			s.tabs[i].Title = e.Title
			s.tabs[i].URL = e.URL
		}
	case port.SurfaceClosed:
		return s.closed(e.ID)
	case port.HistoryUpdated:
		s.history = slices.Clone(e.Entries)
	case port.ThemeSuggested:
		s.suggest(e)
	case port.AssistantReply:
		s.replies[e.ID] = e
	}
	return nil
}

func (s *State) closed(id entity.SurfaceID) []dispatcher.Command {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.tabs = slices.Delete(s.tabs, i, i+1)
	if id != s.active {
		return nil
	}

	s.active = 0
	next := usecase.Replacement(s.ids(), i)
	if next == 0 {
		// The coordinator creates a start surface on its own.
		return nil
	}
	cmd, _ := s.Activate(next)
	return []dispatcher.Command{cmd}
}

// suggest applies a theme only when it belongs to the surface active now.
func (s *State) suggest(e port.ThemeSuggested) {
	if e.ID != s.active {
		s.dropped++
		return
	}
	s.theme = entity.ThemePair{Background: e.Background, Foreground: e.Foreground}
}

func (s *State) ids() []entity.SurfaceID {
	out := make([]entity.SurfaceID, len(s.tabs))
	for i, t := range s.tabs {
		out[i] = t.ID
	}
	return out
}

func (s *State) index(id entity.SurfaceID) int {
	if id == 0 {
		return -1
	}
	return slices.IndexFunc(s.tabs, func(t Tab) bool { return t.ID == id })
}
