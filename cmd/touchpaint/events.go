package main

import (
	"encoding/json"
	"fmt"
	"time"
)

// ==============================
// Reducer events
// ==============================

// Event is the input to the reducer.
type Event interface {
	eventMarker()
}

// TouchEvent is one accepted, display-space touch point.
type TouchEvent struct {
	Point Point
	At    time.Time
}

func (TouchEvent) eventMarker() {}

// ==============================
// State broadcasts
// ==============================

// StateBroadcast is a reducer-emitted change for the websocket state feed.
type StateBroadcast interface {
	broadcastMarker()
}

// BroadcastColorChanged is emitted when a palette swatch is hit.
type BroadcastColorChanged struct {
	Color Color
	At    time.Time
}

func (BroadcastColorChanged) broadcastMarker() {}

// BroadcastThicknessChanged is emitted when a brush size option is hit.
type BroadcastThicknessChanged struct {
	Index     int
	Thickness int
	At        time.Time
}

func (BroadcastThicknessChanged) broadcastMarker() {}

// BroadcastDotPainted is emitted for every dot of ink laid on the canvas.
type BroadcastDotPainted struct {
	Center Point
	Radius int
	Color  Color
	At     time.Time
}

func (BroadcastDotPainted) broadcastMarker() {}

// ============================================================================
// IPC requests
// ============================================================================
// Requests arrive over the Unix socket as line-delimited JSON envelopes:
//   {"type": "touch_sample", "data": {"x": 580, "y": 600, "z": 300}}
//   {"type": "get_state"}
// ============================================================================

// Request is a marker interface for IPC requests.
type Request interface {
	requestMarker()
}

// TouchSample injects a raw sensor reading, as if it came from the panel.
type TouchSample struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (TouchSample) requestMarker() {}

// GetState asks for the latest published StateSnapshot.
type GetState struct{}

func (GetState) requestMarker() {}

// RequestEnvelope wraps a request with a type discriminator for JSON marshaling
type RequestEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// UnmarshalRequest deserializes a JSON request envelope into a concrete Request
func UnmarshalRequest(data []byte) (Request, error) {
	var env RequestEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}

	switch env.Type {
	case "touch_sample":
		var r TouchSample
		if len(env.Data) == 0 {
			return nil, fmt.Errorf("touch_sample requires data")
		}
		if err := json.Unmarshal(env.Data, &r); err != nil {
			return nil, fmt.Errorf("unmarshal TouchSample: %w", err)
		}
		return r, nil

	case "get_state":
		return GetState{}, nil

	default:
		return nil, fmt.Errorf("unknown request type: %q", env.Type)
	}
}

// MarshalRequest serializes a Request into a JSON envelope
func MarshalRequest(r Request) ([]byte, error) {
	var typ string
	var payload any

	switch v := r.(type) {
	case TouchSample:
		typ, payload = "touch_sample", v
	case GetState:
		typ = "get_state"
	default:
		return nil, fmt.Errorf("unknown request type: %T", r)
	}

	env := RequestEnvelope{Type: typ}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", typ, err)
		}
		env.Data = data
	}
	return json.Marshal(env)
}
