package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SeatView is one seat of a party snapshot. User is nil for a vacant seat.
type SeatView struct {
	Ordinal int
	User    *User
}

// QueueView is one waiting user of a party snapshot, with enqueue time.
type QueueView struct {
	User    User
	AddedAt time.Time
}

// PartySnapshot is a full read of one party: owner, seats with occupants and
// the queue with occupants, for rendering.
type PartySnapshot struct {
	ID        int64
	Owner     User
	ChatID    int64
	MessageID *int64
	Seats     []SeatView
	Queue     []QueueView
}

// ReadPartySnapshot assembles the full party view.
// Returns ErrPartyNotFound when the party does not exist.
//
// The snapshot is not transactional with respect to concurrent joins and
// leaves; it is a point-in-time read for rendering only.
func (s *Store) ReadPartySnapshot(ctx context.Context, partyID int64) (*PartySnapshot, error) {
	snap := &PartySnapshot{ID: partyID}

	var messageID sql.NullInt64
	var ownerHandle sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT p.chat_id, p.message_id, u.id, u.name, u.external_id, u.handle
		FROM parties p JOIN users u ON p.owner_id = u.id
		WHERE p.id = ?
	`, partyID).Scan(&snap.ChatID, &messageID, &snap.Owner.ID, &snap.Owner.Name, &snap.Owner.ExternalID, &ownerHandle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPartyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read party: %w", err)
	}
	snap.Owner.Handle = ownerHandle.String
	if messageID.Valid {
		snap.MessageID = &messageID.Int64
	}

	snap.Seats, err = s.readSeats(ctx, partyID)
	if err != nil {
		return nil, err
	}

	entries, err := readQueue(ctx, s.db, partyID)
	if err != nil {
		return nil, err
	}
	snap.Queue, err = s.resolveQueueUsers(ctx, entries)
	if err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Store) readSeats(ctx context.Context, partyID int64) ([]SeatView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.ordinal, u.id, u.name, u.external_id, u.handle
		FROM seats s LEFT JOIN users u ON s.user_id = u.id
		WHERE s.party_id = ?
		ORDER BY s.ordinal ASC
	`, partyID)
	if err != nil {
		return nil, fmt.Errorf("read seats: %w", err)
	}
	defer rows.Close()

	var seats []SeatView
	for rows.Next() {
		var seat SeatView
		var id sql.NullInt64
		var name sql.NullString
		var externalID sql.NullInt64
		var handle sql.NullString
		if err := rows.Scan(&seat.Ordinal, &id, &name, &externalID, &handle); err != nil {
			return nil, fmt.Errorf("read seats: scan: %w", err)
		}
		if id.Valid {
			seat.User = &User{
				ID:         id.Int64,
				Name:       name.String,
				ExternalID: externalID.Int64,
				Handle:     handle.String,
			}
		}
		seats = append(seats, seat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read seats: iterate: %w", err)
	}

	if seats == nil {
		seats = []SeatView{}
	}
	return seats, nil
}

// resolveQueueUsers joins queue entries with their user records, preserving
// queue order.
func (s *Store) resolveQueueUsers(ctx context.Context, entries []QueueEntry) ([]QueueView, error) {
	if len(entries) == 0 {
		return []QueueView{}, nil
	}

	placeholders := make([]string, len(entries))
	args := make([]any, len(entries))
	for i, e := range entries {
		placeholders[i] = "?"
		args[i] = e.UserID
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, external_id, handle FROM users WHERE id IN (`+strings.Join(placeholders, ", ")+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("read queue users: %w", err)
	}
	defer rows.Close()

	usersByID := make(map[int64]User, len(entries))
	for rows.Next() {
		var u User
		var handle sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &u.ExternalID, &handle); err != nil {
			return nil, fmt.Errorf("read queue users: scan: %w", err)
		}
		u.Handle = handle.String
		usersByID[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read queue users: iterate: %w", err)
	}

	queue := make([]QueueView, 0, len(entries))
	for _, e := range entries {
		u, ok := usersByID[e.UserID]
		if !ok {
			return nil, fmt.Errorf("read queue users: no user record for queued user %d", e.UserID)
		}
		queue = append(queue, QueueView{User: u, AddedAt: e.AddedAt})
	}
	return queue, nil
}
