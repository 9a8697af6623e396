package body

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeURLValues(t *testing.T) {
	tests := []struct {
		name   string
		fields []NameValue
		want   string
	}{
		{
			name: "non-ascii values",
			fields: []NameValue{
				{Name: "user_name", Value: "Åsa den Röde"},
				{Name: "user_pass", Value: "Bović"},
			},
			want: "user_name=%C3%85sa+den+R%C3%B6de&user_pass=Bovi%C4%87",
		},
		{
			name:   "unreserved characters pass through",
			fields: []NameValue{{Name: "a-b_c.d~e", Value: "AZaz09-_.~"}},
			want:   "a-b_c.d~e=AZaz09-_.~",
		},
		{
			name:   "reserved characters are escaped",
			fields: []NameValue{{Name: "q", Value: "a&b=c+d/e?f%g"}},
			want:   "q=a%26b%3Dc%2Bd%2Fe%3Ff%25g",
		},
		{
			name:   "order preserved and duplicates kept",
			fields: []NameValue{{Name: "b", Value: "1"}, {Name: "a", Value: "2"}, {Name: "b", Value: "3"}},
			want:   "b=1&a=2&b=3",
		},
		{
			name:   "empty value",
			fields: []NameValue{{Name: "empty", Value: ""}},
			want:   "empty=",
		},
		{
			name: "no fields",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeURLValues(tt.fields))
		})
	}
}

func TestParseURLEncoded(t *testing.T) {
	fields, err := ParseURLEncoded("user_name=%C3%85sa+den+R%C3%B6de&flag&user_pass=Bovi%C4%87")
	require.NoError(t, err)
	assert.Equal(t, []NameValue{
		{Name: "user_name", Value: "Åsa den Röde"},
		{Name: "flag", Value: ""},
		{Name: "user_pass", Value: "Bović"},
	}, fields)

	_, err = ParseURLEncoded("bad=%zz")
	assert.Error(t, err)
}
