// Package render builds the Markdown party message shown in the chat.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/partyline/internal/store"
)

// PartyMessage renders the announcement message for a party: how much room
// is left, who is participating, and the waiting list when there is one.
func PartyMessage(snap *store.PartySnapshot) string {
	var participants []*store.User
	emptySeats := 0
	for _, seat := range snap.Seats {
		if seat.User == nil {
			emptySeats++
			continue
		}
		participants = append(participants, seat.User)
	}

	header := "The party is full, you can join the waiting list"
	if emptySeats > 0 {
		header = fmt.Sprintf("There is a room for %d more", emptySeats)
	}

	lines := make([]string, 0, len(participants))
	for _, u := range participants {
		lines = append(lines, profileLink(*u))
	}
	joined := strings.Join(lines, "\n")
	if joined == "" {
		joined = escapeMarkdown("Be the first to join!")
	}

	message := escapeMarkdown(header) + "\n\nParticipating:\n" + joined

	if len(snap.Queue) > 0 {
		queueLines := make([]string, 0, len(snap.Queue))
		for _, q := range snap.Queue {
			queueLines = append(queueLines, profileLink(q.User))
		}
		message += "\n\nWaiting list:\n" + strings.Join(queueLines, "\n")
	}
	return message
}

// UserTag renders a short mention of a user, preferring @handle over the
// display name.
func UserTag(u store.User) string {
	at := ""
	text := norm.NFC.String(u.Name)
	if u.Handle != "" {
		at = "@"
		text = norm.NFC.String(u.Handle)
	}
	return "[" + at + escapeMarkdown(text) + "](" + profileURL(u) + ")"
}

// profileLink renders "Name (handle)" as a profile link. The handle is shown
// only when it differs from the name. Display names are user-supplied, so
// they are NFC-normalized before escaping.
func profileLink(u store.User) string {
	text := norm.NFC.String(u.Name)
	if u.Handle != "" && u.Handle != u.Name {
		text += " (" + norm.NFC.String(u.Handle) + ")"
	}
	return "[" + escapeMarkdown(text) + "](" + profileURL(u) + ")"
}

func profileURL(u store.User) string {
	return "tg://user?id=" + strconv.FormatInt(u.ExternalID, 10)
}

// escapeMarkdown escapes the characters that would break the Markdown parse
// mode of the message.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer(
		"*", `\*`,
		"`", "\\`",
		"[", `\[`,
	)
	return r.Replace(s)
}
