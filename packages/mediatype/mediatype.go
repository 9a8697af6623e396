package mediatype

import (
	"errors"
	"fmt"
	"mime"
	"sort"
	"strings"
)

// Well-known media types.
const (
	FormURLEncoded = "application/x-www-form-urlencoded"
	MultipartForm  = "multipart/form-data"
	MultipartMixed = "multipart/mixed"
	TextPlain      = "text/plain"
	OctetStream    = "application/octet-stream"
	EventStream    = "text/event-stream"
)

// ErrInvalidContentType is matched by every error returned from Parse.
var ErrInvalidContentType = errors.New("invalid content type")

// ParseError describes why a media type string was rejected.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid content type %q: %s", e.Input, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidContentType) succeed.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidContentType
}

type param struct {
	name  string
	value string
}

// ContentType is an immutable media type with optional charset and boundary
// parameters. The zero value is not a valid content type.
type ContentType struct {
	typ      string
	subtype  string
	charset  string
	boundary string
	params   []param
}

// New returns a ContentType for type/subtype with no parameters.
func New(typ, subtype string) ContentType {
	return ContentType{
		typ:     strings.ToLower(typ),
		subtype: strings.ToLower(subtype),
	}
}

// Parse parses a Content-Type header value.
func Parse(s string) (ContentType, error) {
	if strings.TrimSpace(s) == "" {
		return ContentType{}, &ParseError{Input: s, Reason: "empty value"}
	}

	mediaType, params, err := mime.ParseMediaType(s)
	if err != nil {
		return ContentType{}, &ParseError{Input: s, Reason: err.Error()}
	}

	typ, subtype, ok := strings.Cut(mediaType, "/")
	if !ok || typ == "" || subtype == "" {
		return ContentType{}, &ParseError{Input: s, Reason: "missing subtype"}
	}

	ct := ContentType{typ: typ, subtype: subtype}
	for name, value := range params {
		switch name {
		case "charset":
			if value == "" {
				return ContentType{}, &ParseError{Input: s, Reason: "empty charset"}
			}
			ct.charset = strings.ToLower(value)
		case "boundary":
			if reason := checkBoundary(value); reason != "" {
				return ContentType{}, &ParseError{Input: s, Reason: reason}
			}
			ct.boundary = value
		default:
			ct.params = append(ct.params, param{name: name, value: value})
		}
	}
	sort.Slice(ct.params, func(i, j int) bool { return ct.params[i].name < ct.params[j].name })

	return ct, nil
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) ContentType {
	ct, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ct
}

// Type returns the top-level type, e.g. "text".
func (c ContentType) Type() string { return c.typ }

// Subtype returns the subtype, e.g. "plain".
func (c ContentType) Subtype() string { return c.subtype }

// MediaType returns "type/subtype" without parameters.
func (c ContentType) MediaType() string { return c.typ + "/" + c.subtype }

// Charset returns the lowercased charset parameter, or "".
func (c ContentType) Charset() string { return c.charset }

// Boundary returns the boundary parameter, or "".
func (c ContentType) Boundary() string { return c.boundary }

// Param returns the value of a parameter by case-insensitive name.
func (c ContentType) Param(name string) (string, bool) {
	name = strings.ToLower(name)
	switch name {
	case "charset":
		return c.charset, c.charset != ""
	case "boundary":
		return c.boundary, c.boundary != ""
	}
	for _, p := range c.params {
		if p.name == name {
			return p.value, true
		}
	}
	return "", false
}

// IsZero reports whether c is the zero value.
func (c ContentType) IsZero() bool {
	return c.typ == "" && c.subtype == ""
}

// IsMultipart reports whether the top-level type is multipart.
func (c ContentType) IsMultipart() bool {
	return c.typ == "multipart"
}

// WithCharset returns a copy of c with the charset parameter replaced.
func (c ContentType) WithCharset(charset string) ContentType {
	c.params = append([]param(nil), c.params...)
	c.charset = strings.ToLower(charset)
	return c
}

// WithBoundary returns a copy of c with the boundary parameter replaced.
func (c ContentType) WithBoundary(boundary string) ContentType {
	c.params = append([]param(nil), c.params...)
	c.boundary = boundary
	return c
}

// String renders c as a header value: type/subtype, then charset, then
// boundary, then any remaining parameters in name order.
func (c ContentType) String() string {
	var b strings.Builder
	b.WriteString(c.typ)
	b.WriteByte('/')
	b.WriteString(c.subtype)

	if c.charset != "" {
		b.WriteString("; charset=")
		writeValue(&b, c.charset)
	}
	if c.boundary != "" {
		b.WriteString("; boundary=")
		writeQuoted(&b, c.boundary)
	}
	for _, p := range c.params {
		b.WriteString("; ")
		b.WriteString(p.name)
		b.WriteByte('=')
		writeValue(&b, p.value)
	}
	return b.String()
}

// Equal reports whether two content types serialize identically.
func (c ContentType) Equal(other ContentType) bool {
	return c.String() == other.String()
}

func writeValue(b *strings.Builder, v string) {
	if v != "" && isToken(v) {
		b.WriteString(v)
		return
	}
	writeQuoted(b, v)
}

func writeQuoted(b *strings.Builder, v string) {
	b.WriteByte('"')
	for i := 0; i < len(v); i++ {
		if v[i] == '"' || v[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(v[i])
	}
	b.WriteByte('"')
}

func isToken(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c >= 0x7f || strings.IndexByte(`()<>@,;:\"/[]?=`, c) >= 0 {
			return false
		}
	}
	return true
}

// checkBoundary applies the RFC 2046 boundary grammar and returns a reason
// when b does not satisfy it.
func checkBoundary(b string) string {
	if b == "" || len(b) > 70 {
		return "boundary must be 1 to 70 characters"
	}
	if b[len(b)-1] == ' ' {
		return "boundary must not end with a space"
	}
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case strings.IndexByte("'()+_,-./:=? ", c) >= 0:
		default:
			return fmt.Sprintf("boundary contains invalid character %q", c)
		}
	}
	return ""
}
