package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// QueueEntry is one waiting user: who, and when they were enqueued.
// The queue is FIFO by AddedAt; position in the stored array is the order.
type QueueEntry struct {
	UserID  int64     `json:"user_id"`
	AddedAt time.Time `json:"added_at"`
}

// ReadQueue returns the party's queue in FIFO order.
//
// forUpdate states the caller's intent to mutate the queue within the same
// transaction. On a backend with row locks this would take an exclusive lock
// on the queue row; under SQLite the immediate transaction already serializes
// all queue writers, so the flag is informational.
//
// Returns ErrPartyNotFound when no queue row exists for the party.
func (t *Tx) ReadQueue(ctx context.Context, partyID int64, forUpdate bool) ([]QueueEntry, error) {
	_ = forUpdate
	return readQueue(ctx, t.tx, partyID)
}

// Enqueue appends an entry to the end of the party's queue.
func (t *Tx) Enqueue(ctx context.Context, partyID int64, entry QueueEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("enqueue: marshal entry: %w", err)
	}
	res, err := t.tx.ExecContext(ctx, `
		UPDATE queues SET participants = json_insert(participants, '$[#]', json(?))
		WHERE party_id = ?
	`, string(data), partyID)
	if err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	if err := expectRows(res, 1); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	return nil
}

// DequeueAt removes the entry at the given position. Returns false if the
// position does not exist (queue shorter than index+1, or no queue row).
func (t *Tx) DequeueAt(ctx context.Context, partyID int64, index int) (bool, error) {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE queues SET participants = json_remove(participants, ?)
		WHERE party_id = ? AND json_array_length(participants) > ?
	`, fmt.Sprintf("$[%d]", index), partyID, index)
	if err != nil {
		return false, fmt.Errorf("dequeue at %d: %w", index, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("dequeue at %d: rows affected: %w", index, err)
	}
	return n == 1, nil
}

// rowQuerier is the subset of *sql.DB / *sql.Tx needed by shared reads.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readQueue(ctx context.Context, q rowQuerier, partyID int64) ([]QueueEntry, error) {
	var raw string
	err := q.QueryRowContext(ctx, `
		SELECT participants FROM queues WHERE party_id = ?
	`, partyID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPartyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read queue: %w", err)
	}

	var entries []QueueEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("read queue: unmarshal participants: %w", err)
	}
	if entries == nil {
		entries = []QueueEntry{}
	}
	return entries, nil
}
