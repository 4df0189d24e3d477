package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/roach88/partyline/internal/render"
	"github.com/roach88/partyline/internal/store"
)

// printStatus writes an operation outcome in the selected format. extra
// carries additional fields (party id, propagated user) and may be nil.
func printStatus(w io.Writer, format, status string, extra map[string]any) error {
	if format == "json" {
		out := map[string]any{"status": status}
		for k, v := range extra {
			out[k] = v
		}
		return writeJSON(w, out)
	}

	if _, err := fmt.Fprintln(w, status); err != nil {
		return err
	}
	for k, v := range extra {
		if _, err := fmt.Fprintf(w, "%s: %v\n", k, v); err != nil {
			return err
		}
	}
	return nil
}

// snapshotJSON is the JSON shape of a party snapshot.
type snapshotJSON struct {
	ID        int64       `json:"id"`
	Owner     userJSON    `json:"owner"`
	ChatID    int64       `json:"chat_id"`
	MessageID *int64      `json:"message_id,omitempty"`
	Seats     []seatJSON  `json:"seats"`
	Queue     []queueJSON `json:"queue"`
}

type userJSON struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ExternalID int64  `json:"external_id"`
	Handle     string `json:"handle,omitempty"`
}

type seatJSON struct {
	Ordinal int       `json:"ordinal"`
	User    *userJSON `json:"user,omitempty"`
}

type queueJSON struct {
	User    userJSON  `json:"user"`
	AddedAt time.Time `json:"added_at"`
}

// printSnapshot writes a party snapshot: the rendered announcement message
// in text mode, the full structure in JSON mode.
func printSnapshot(w io.Writer, format string, snap *store.PartySnapshot) error {
	if format != "json" {
		_, err := fmt.Fprintln(w, render.PartyMessage(snap))
		return err
	}

	out := snapshotJSON{
		ID:        snap.ID,
		Owner:     toUserJSON(snap.Owner),
		ChatID:    snap.ChatID,
		MessageID: snap.MessageID,
		Seats:     make([]seatJSON, 0, len(snap.Seats)),
		Queue:     make([]queueJSON, 0, len(snap.Queue)),
	}
	for _, seat := range snap.Seats {
		sj := seatJSON{Ordinal: seat.Ordinal}
		if seat.User != nil {
			u := toUserJSON(*seat.User)
			sj.User = &u
		}
		out.Seats = append(out.Seats, sj)
	}
	for _, q := range snap.Queue {
		out.Queue = append(out.Queue, queueJSON{User: toUserJSON(q.User), AddedAt: q.AddedAt})
	}
	return writeJSON(w, out)
}

func toUserJSON(u store.User) userJSON {
	return userJSON{ID: u.ID, Name: u.Name, ExternalID: u.ExternalID, Handle: u.Handle}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
