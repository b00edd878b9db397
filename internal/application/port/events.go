package port

import "github.com/bnema/arkium/internal/domain/entity"

// Event types as they appear on the control channel.
const (
	EventSurfaceCreated = "surface-created"
	EventSurfaceUpdated = "surface-updated"
	EventSurfaceClosed  = "surface-closed"
	EventHistoryUpdated = "history-updated"
	EventThemeSuggested = "theme-suggested"
	EventAssistantReply = "assistant-reply"
)

// Event is a notification from the browser core to the shell.
type Event interface {
	EventType() string
}

// EventSink receives events. Publish must not block.
type EventSink interface {
	Publish(ev Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// Publish calls f(ev).
func (f EventSinkFunc) Publish(ev Event) { f(ev) }

// SurfaceCreated carries an empty URL for the start page so the address
// field stays blank.
type SurfaceCreated struct {
	ID    entity.SurfaceID `json:"id"`
	URL   string           `json:"url"`
	Title string           `json:"title"`
}

func (SurfaceCreated) EventType() string { return EventSurfaceCreated }

type SurfaceUpdated struct {
	ID    entity.SurfaceID `json:"id"`
	Title string           `json:"title"`
	URL   string           `json:"url"`
}

func (SurfaceUpdated) EventType() string { return EventSurfaceUpdated }

type SurfaceClosed struct {
	ID entity.SurfaceID `json:"id"`
}

func (SurfaceClosed) EventType() string { return EventSurfaceClosed }

type HistoryUpdated struct {
	Entries []entity.HistoryEntry `json:"entries"`
}

func (HistoryUpdated) EventType() string { return EventHistoryUpdated }

// ThemeSuggested is published for every finished analysis. Consumers apply
// it only when ID is still the active surface.
type ThemeSuggested struct {
	ID              entity.SurfaceID `json:"id"`
	Background      string           `json:"background"`
	Foreground      string           `json:"foreground"`
	ActiveAtRequest entity.SurfaceID `json:"activeAtRequest"`
}

func (ThemeSuggested) EventType() string { return EventThemeSuggested }

// AssistantReply answers an assistant-ask command. Exactly one of Content
// and Error is set.
type AssistantReply struct {
	ID      string `json:"id"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (AssistantReply) EventType() string { return EventAssistantReply }
