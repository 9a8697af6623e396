package sse

import "strings"

// Interpreter holds the state of one event stream. Feed it lines in order;
// it is single-pass and not safe for concurrent use. Start a new stream with
// a new Interpreter.
type Interpreter struct {
	dataLines   []string
	eventType   string
	lastEventID string
}

// NewInterpreter returns an Interpreter in its initial state.
func NewInterpreter() *Interpreter {
	return &Interpreter{eventType: DefaultEventType}
}

// Feed processes one line, without its terminator. It returns the event
// completed by this line, if any.
func (in *Interpreter) Feed(line string) (Event, bool) {
	if line == "" {
		return in.dispatch()
	}
	if line[0] == ':' {
		return Event{}, false
	}

	field, value, found := strings.Cut(line, ":")
	if found {
		value = strings.TrimPrefix(value, " ")
	}

	switch field {
	case "data":
		in.dataLines = append(in.dataLines, value)
	case "event":
		in.eventType = value
	case "id":
		if !strings.ContainsRune(value, 0) {
			in.lastEventID = value
		}
	}
	return Event{}, false
}

// LastEventID returns the current last event ID, which a reconnecting client
// sends back in the Last-Event-ID header.
func (in *Interpreter) LastEventID() string {
	return in.lastEventID
}

// Pending reports whether data lines are waiting for a blank line.
func (in *Interpreter) Pending() bool {
	return len(in.dataLines) > 0
}

func (in *Interpreter) dispatch() (Event, bool) {
	defer func() {
		in.dataLines = in.dataLines[:0]
		in.eventType = DefaultEventType
	}()

	if len(in.dataLines) == 0 {
		return Event{}, false
	}
	return Event{
		Data:        strings.Join(in.dataLines, "\n"),
		Type:        in.eventType,
		LastEventID: in.lastEventID,
	}, true
}
