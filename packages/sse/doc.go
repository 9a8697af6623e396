// Package sse interprets Server-Sent Events streams.
//
// Interpretation follows the WHATWG event-stream grammar: fields are
// "data", "event" and "id", lines starting with ":" are comments, and an
// event is dispatched only on a blank line. The last event ID persists
// across dispatches until a later "id" field replaces it.
//
// Three layers are provided:
//   - Interpreter, a push-style state machine fed one line at a time
//   - Parse and ParseReader, lazy iterators over lines or a byte stream
//   - Client, which opens an HTTP event stream and feeds it through the above
//
// Interpretation never fails. Unrecognised lines are ignored.
package sse
