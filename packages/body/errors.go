package body

import (
	"errors"
	"fmt"
)

var (
	// ErrStreamRead is matched by every *StreamReadError.
	ErrStreamRead = errors.New("body: stream read failed")

	// ErrUnknownEncoding indicates a character encoding label nobody knows.
	ErrUnknownEncoding = errors.New("body: unknown character encoding")

	// ErrInvalidFieldName indicates a field or file name that cannot be
	// placed in a header line.
	ErrInvalidFieldName = errors.New("body: invalid field name")

	// ErrPayloadConsumed is returned when a payload holding streams is
	// written a second time.
	ErrPayloadConsumed = errors.New("body: payload already consumed")

	// ErrUnsupportedVariant indicates a Part, Content or RequestBody
	// implementation this package does not know how to encode.
	ErrUnsupportedVariant = errors.New("body: unsupported variant")
)

// StreamReadError wraps an error returned by a Stream's reader. Unwrap yields
// the reader's error unchanged.
type StreamReadError struct {
	Field    string
	Filename string
	Err      error
}

func (e *StreamReadError) Error() string {
	return fmt.Sprintf("body: reading %q for field %q: %v", e.Filename, e.Field, e.Err)
}

func (e *StreamReadError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStreamRead) succeed.
func (e *StreamReadError) Is(target error) bool {
	return target == ErrStreamRead
}

// EncodingError reports a string that could not be represented in the
// requested character encoding.
type EncodingError struct {
	Encoding string
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("body: encoding to %s: %v", e.Encoding, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// FieldError reports a name that would break header framing.
type FieldError struct {
	What  string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("body: %s %q contains a line break", e.What, e.Value)
}

// Is makes errors.Is(err, ErrInvalidFieldName) succeed.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidFieldName
}

func unsupported(what string, v any) error {
	return fmt.Errorf("%w: %s %T", ErrUnsupportedVariant, what, v)
}
