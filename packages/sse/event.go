package sse

// DefaultEventType is the type of an event whose stream never set one.
const DefaultEventType = "message"

// Event is a dispatched SSE event.
type Event struct {
	Data        string `json:"data"`
	Type        string `json:"event"`
	LastEventID string `json:"id"`
}
