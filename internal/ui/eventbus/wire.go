package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/arkium/internal/application/port"
)

// Encode renders ev as a flat JSON object with a "type" field.
func Encode(ev port.Event) ([]byte, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.EventType(), err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.EventType(), err)
	}
	typ, _ := json.Marshal(ev.EventType())
	fields["type"] = typ
	return json.Marshal(fields)
}

// Decode parses the output of Encode.
func Decode(data []byte) (port.Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	var ev port.Event
	var err error
	switch head.Type {
	case port.EventSurfaceCreated:
		ev, err = decodeAs[port.SurfaceCreated](data)
	case port.EventSurfaceUpdated:
		ev, err = decodeAs[port.SurfaceUpdated](data)
	case port.EventSurfaceClosed:
		ev, err = decodeAs[port.SurfaceClosed](data)
	case port.EventHistoryUpdated:
		ev, err = decodeAs[port.HistoryUpdated](data)
	case port.EventThemeSuggested:
		ev, err = decodeAs[port.ThemeSuggested](data)
	case port.EventAssistantReply:
		ev, err = decodeAs[port.AssistantReply](data)
	default:
		return nil, fmt.Errorf("decode event: unknown type %q", head.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}
	return ev, nil
}

func decodeAs[T port.Event](data []byte) (port.Event, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
