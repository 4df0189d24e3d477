// Package command encodes and decodes the callback data attached to the
// party message buttons.
//
// The wire form is "<prefix>:<party id>:<nonce>". The nonce makes repeated
// button payloads distinct for the transport layer and carries no meaning
// here. Dispatch is a tagged variant: a Request carries its kind and typed
// payload, instead of a string-prefix-to-closure map.
package command

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Kind is the request kind a callback encodes.
type Kind int

const (
	// KindJoin asks to join the party (or its waiting list).
	KindJoin Kind = iota + 1
	// KindPass asks to leave the party (or decline a propagated seat).
	KindPass
)

const delimiter = ":"

var prefixes = map[Kind]string{
	KindJoin: "J",
	KindPass: "P",
}

// Request is a decoded callback: what to do, and to which party.
type Request struct {
	Kind    Kind
	PartyID int64
}

// ParseError reports a malformed callback string.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse callback %q: %s", e.Input, e.Reason)
}

// Encode renders a request into its callback-data wire form.
func Encode(req Request) string {
	prefix, ok := prefixes[req.Kind]
	if !ok {
		panic(fmt.Sprintf("command: unknown kind %d", req.Kind))
	}
	nonce := strconv.Itoa(rand.IntN(1000000))
	return strings.Join([]string{prefix, strconv.FormatInt(req.PartyID, 10), nonce}, delimiter)
}

// Decode parses a callback-data string into a Request. Trailing elements
// beyond the party id (the nonce) are ignored.
func Decode(s string) (Request, error) {
	if strings.TrimSpace(s) == "" {
		return Request{}, &ParseError{Input: s, Reason: "callback string is blank"}
	}

	parts := strings.Split(s, delimiter)
	var kind Kind
	switch parts[0] {
	case "J":
		kind = KindJoin
	case "P":
		kind = KindPass
	default:
		return Request{}, &ParseError{Input: s, Reason: fmt.Sprintf("unknown callback type %q", parts[0])}
	}

	if len(parts) < 2 {
		return Request{}, &ParseError{Input: s, Reason: "missing party id"}
	}
	partyID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Request{}, &ParseError{Input: s, Reason: fmt.Sprintf("invalid party id %q", parts[1])}
	}

	return Request{Kind: kind, PartyID: partyID}, nil
}
