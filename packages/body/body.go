package body

import "io"

// RequestBody is one of Empty, Raw, Text or Form.
type RequestBody interface {
	requestBody()
}

// Empty is a body with no bytes.
type Empty struct{}

// Raw is sent verbatim.
type Raw struct {
	Data []byte
}

// Text is a string sent in the given character encoding. An empty Encoding
// falls back to the encoder's default.
type Text struct {
	Value    string
	Encoding string
}

// Form is an ordered list of form parts. Part order determines output order.
type Form struct {
	Parts []Part
}

func (Empty) requestBody() {}
func (Raw) requestBody()   {}
func (Text) requestBody()  {}
func (Form) requestBody()  {}

// Part is one of NameValue, FormFile or MultipartMixed.
type Part interface {
	FieldName() string
	part()
}

// NameValue is a plain form field.
type NameValue struct {
	Name  string
	Value string
}

// FormFile is a single file attached under Field.
type FormFile struct {
	Field string
	File  File
}

// MultipartMixed groups several files under one field using a nested
// multipart/mixed body.
type MultipartMixed struct {
	Field string
	Files []File
}

func (p NameValue) FieldName() string      { return p.Name }
func (p FormFile) FieldName() string       { return p.Field }
func (p MultipartMixed) FieldName() string { return p.Field }

func (NameValue) part()      {}
func (FormFile) part()       {}
func (MultipartMixed) part() {}

// File describes one attachment. ContentType is a media type string and is
// validated before any bytes are produced.
type File struct {
	Filename    string
	ContentType string
	Content     Content
}

// Content is one of Plain, Binary or Stream.
type Content interface {
	content()
}

// Plain is text embedded verbatim.
type Plain struct {
	Text string
}

// Binary is embedded base64-encoded with a Content-Transfer-Encoding header.
type Binary struct {
	Data []byte
}

// Stream is read once, sequentially, while the payload is written. The
// encoder never closes Reader.
type Stream struct {
	Reader io.Reader
}

func (Plain) content()  {}
func (Binary) content() {}
func (Stream) content() {}

// HasFiles reports whether f needs multipart encoding.
func (f Form) HasFiles() bool {
	for _, p := range f.Parts {
		switch p.(type) {
		case FormFile, MultipartMixed:
			return true
		}
	}
	return false
}
