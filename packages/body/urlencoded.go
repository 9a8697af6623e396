package body

import (
	"net/url"
	"strings"
)

// EncodeURLValues renders fields as application/x-www-form-urlencoded in the
// given order. Names and values are escaped independently from their UTF-8
// bytes: alphanumerics and "-_.~" pass through, space becomes "+", and every
// other byte becomes %XX with uppercase hex.
func EncodeURLValues(fields []NameValue) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(f.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.Value))
	}
	return b.String()
}

// ParseURLEncoded is the ordered inverse of EncodeURLValues. A pair without
// "=" yields an empty value. Malformed escapes are returned as an error.
func ParseURLEncoded(s string) ([]NameValue, error) {
	if s == "" {
		return nil, nil
	}

	pairs := strings.Split(s, "&")
	fields := make([]NameValue, 0, len(pairs))
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		rawName, rawValue, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, err
		}
		fields = append(fields, NameValue{Name: name, Value: value})
	}
	return fields, nil
}
