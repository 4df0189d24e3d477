package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	s := Encode(Request{Kind: KindJoin, PartyID: 42})
	assert.True(t, strings.HasPrefix(s, "J:42:"), "got %q", s)

	s = Encode(Request{Kind: KindPass, PartyID: 7})
	assert.True(t, strings.HasPrefix(s, "P:7:"), "got %q", s)
}

func TestEncode_UnknownKindPanics(t *testing.T) {
	assert.Panics(t, func() { Encode(Request{Kind: Kind(99), PartyID: 1}) })
}

func TestDecode(t *testing.T) {
	tests := []struct {
		input string
		want  Request
	}{
		{"J:42:123456", Request{Kind: KindJoin, PartyID: 42}},
		{"P:7:0", Request{Kind: KindPass, PartyID: 7}},
		// The nonce is optional on decode.
		{"J:42", Request{Kind: KindJoin, PartyID: 42}},
	}
	for _, tt := range tests {
		got, err := Decode(tt.input)
		require.NoError(t, err, "Decode(%q)", tt.input)
		assert.Equal(t, tt.want, got, "Decode(%q)", tt.input)
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, input := range []string{"", "   ", "X:42:1", "J", "J:not-a-number:1"} {
		_, err := Decode(input)
		require.Error(t, err, "Decode(%q)", input)
		var pe *ParseError
		assert.ErrorAs(t, err, &pe, "Decode(%q)", input)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, req := range []Request{
		{Kind: KindJoin, PartyID: 1},
		{Kind: KindPass, PartyID: 9000},
	} {
		got, err := Decode(Encode(req))
		require.NoError(t, err)
		assert.Equal(t, req, got)
	}
}
