package body

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is used when neither the body nor the caller names one.
const DefaultEncoding = "utf-8"

// lookupEncoding resolves a charset label. IANA names are tried first so
// that "iso-8859-1" means Latin-1 rather than the WHATWG windows-1252 alias.
func lookupEncoding(label string) (encoding.Encoding, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		label = DefaultEncoding
	}
	if label == "utf-8" || label == "utf8" {
		return unicode.UTF8, nil
	}

	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(label); err == nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
}

// encodeString converts s from UTF-8 to the named encoding.
func encodeString(s, label string) ([]byte, error) {
	enc, err := lookupEncoding(label)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return []byte(s), nil
	}

	out, err := enc.NewEncoder().String(s)
	if err != nil {
		return nil, &EncodingError{Encoding: label, Err: err}
	}
	return []byte(out), nil
}

// charsetLabel normalizes label for use in a charset parameter.
func charsetLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return DefaultEncoding
	}
	return label
}
