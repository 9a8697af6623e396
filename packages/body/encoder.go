package body

import (
	"github.com/abdul-hamid-achik/wireform/packages/boundary"
	"github.com/abdul-hamid-achik/wireform/packages/mediatype"
)

// BoundaryGenerator supplies multipart boundary tokens.
type BoundaryGenerator interface {
	Next() string
}

// Encoder converts RequestBody values into payloads. An Encoder owns its
// boundary generator and is not safe for concurrent use; build one per
// goroutine.
type Encoder struct {
	boundaries       BoundaryGenerator
	fieldContentType bool
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithBoundaryGenerator sets the boundary source. Pass boundary.NewSeeded
// for reproducible output.
func WithBoundaryGenerator(g BoundaryGenerator) Option {
	return func(e *Encoder) {
		e.boundaries = g
	}
}

// WithFieldContentType controls whether NameValue parts inside a multipart
// body carry "Content-Type: text/plain; charset=<encoding>". Off by default.
// When on, the value is also transcoded to that encoding.
func WithFieldContentType(enabled bool) Option {
	return func(e *Encoder) {
		e.fieldContentType = enabled
	}
}

// NewEncoder creates an Encoder. Without WithBoundaryGenerator it uses a
// randomly seeded generator.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{}
	for _, opt := range opts {
		opt(e)
	}
	if e.boundaries == nil {
		e.boundaries = boundary.NewRandom()
	}
	return e
}

// Encode converts b into a payload. The returned content type is non-nil
// only for Form bodies, where it must replace any Content-Type the caller set.
// defaultEncoding applies to Text bodies without an explicit encoding and to
// charset-tagged form fields; "" means UTF-8.
//
// All validation happens here: an invalid content type, field name or
// encoding is reported before any payload exists.
func (e *Encoder) Encode(b RequestBody, defaultEncoding string) (*mediatype.ContentType, *Payload, error) {
	switch v := b.(type) {
	case nil, Empty:
		return nil, bytesPayload(nil), nil
	case Raw:
		return nil, bytesPayload(v.Data), nil
	case Text:
		label := v.Encoding
		if label == "" {
			label = defaultEncoding
		}
		data, err := encodeString(v.Value, label)
		if err != nil {
			return nil, nil, err
		}
		return nil, bytesPayload(data), nil
	case Form:
		if v.HasFiles() {
			return e.encodeMultipart(v, defaultEncoding)
		}
		return e.encodeURLEncoded(v)
	default:
		return nil, nil, unsupported("request body", b)
	}
}

func (e *Encoder) encodeURLEncoded(f Form) (*mediatype.ContentType, *Payload, error) {
	fields := make([]NameValue, 0, len(f.Parts))
	for _, p := range f.Parts {
		nv, ok := p.(NameValue)
		if !ok {
			return nil, nil, unsupported("url-encoded part", p)
		}
		fields = append(fields, nv)
	}

	ct := mediatype.MustParse(mediatype.FormURLEncoded)
	return &ct, bytesPayload([]byte(EncodeURLValues(fields))), nil
}

func (e *Encoder) encodeMultipart(f Form, defaultEncoding string) (*mediatype.ContentType, *Payload, error) {
	parts, err := prepareParts(f.Parts)
	if err != nil {
		return nil, nil, err
	}

	charset := charsetLabel(defaultEncoding)
	if e.fieldContentType {
		if _, err := lookupEncoding(charset); err != nil {
			return nil, nil, err
		}
	}

	outer := e.boundaries.Next()
	w := &multipartWriter{
		out:              &payloadBuilder{},
		boundaries:       e.boundaries,
		fieldContentType: e.fieldContentType,
		charset:          charset,
	}
	if err := w.writeForm(outer, parts); err != nil {
		return nil, nil, err
	}

	ct := mediatype.New("multipart", "form-data").WithBoundary(outer)
	return &ct, w.out.payload(), nil
}

// Encode is a convenience wrapper that encodes b with a fresh Encoder.
func Encode(b RequestBody, defaultEncoding string, opts ...Option) (*mediatype.ContentType, *Payload, error) {
	return NewEncoder(opts...).Encode(b, defaultEncoding)
}
