package sse

import (
	"io"
	"iter"
)

// Parse lazily interprets lines. Each range over the returned sequence
// starts from a fresh Interpreter, so the sequence can be restarted when
// lines can.
func Parse(lines iter.Seq[string]) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		in := NewInterpreter()
		for line := range lines {
			if ev, ok := in.Feed(line); ok {
				if !yield(ev) {
					return
				}
			}
		}
	}
}

// ParseLines interprets a buffered slice of lines.
func ParseLines(lines []string) iter.Seq[Event] {
	return Parse(func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	})
}

// ParseReader interprets an event stream read from r. Events are yielded
// as soon as their terminating blank line has been read. A read error is
// yielded once with a zero Event, after which the sequence ends.
func ParseReader(r io.Reader) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		in := NewInterpreter()
		for line, err := range Lines(r) {
			if err != nil {
				yield(Event{}, err)
				return
			}
			if ev, ok := in.Feed(line); ok {
				if !yield(ev, nil) {
					return
				}
			}
		}
	}
}
