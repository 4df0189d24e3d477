package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreatePartyWithSeats inserts a party, its seat rows with ordinals
// 1..seatCount, and an empty queue row as one unit. Returns the generated
// party id.
//
// Any insert that does not affect exactly the expected row count returns
// ErrRowCount so the caller rolls the whole creation back.
func (t *Tx) CreatePartyWithSeats(ctx context.Context, ownerID, chatID int64, seatCount int) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO parties (owner_id, chat_id) VALUES (?, ?)
	`, ownerID, chatID)
	if err != nil {
		return 0, fmt.Errorf("create party: insert party: %w", err)
	}
	if err := expectRows(res, 1); err != nil {
		return 0, fmt.Errorf("create party: insert party: %w", err)
	}

	partyID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create party: last insert id: %w", err)
	}

	for ordinal := 1; ordinal <= seatCount; ordinal++ {
		res, err := t.tx.ExecContext(ctx, `
			INSERT INTO seats (party_id, ordinal) VALUES (?, ?)
		`, partyID, ordinal)
		if err != nil {
			return 0, fmt.Errorf("create party: insert seat %d: %w", ordinal, err)
		}
		if err := expectRows(res, 1); err != nil {
			return 0, fmt.Errorf("create party: insert seat %d: %w", ordinal, err)
		}
	}

	res, err = t.tx.ExecContext(ctx, `
		INSERT INTO queues (party_id, participants) VALUES (?, '[]')
	`, partyID)
	if err != nil {
		return 0, fmt.Errorf("create party: insert queue: %w", err)
	}
	if err := expectRows(res, 1); err != nil {
		return 0, fmt.Errorf("create party: insert queue: %w", err)
	}

	return partyID, nil
}

// IsUserSeated reports whether the user currently holds a seat in the party.
func (t *Tx) IsUserSeated(ctx context.Context, partyID, userID int64) (bool, error) {
	var count int
	err := t.tx.QueryRowContext(ctx, `
		SELECT count(*) FROM seats WHERE party_id = ? AND user_id = ?
	`, partyID, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("is user seated: %w", err)
	}
	return count == 1, nil
}

// ClaimFreeSeat assigns the vacant seat with the lowest ordinal to userID.
// Returns false if the party has no free seat.
//
// The select-and-update runs as a single statement inside the caller's
// immediate transaction, so two concurrent joins can never claim the same
// seat.
func (t *Tx) ClaimFreeSeat(ctx context.Context, partyID, userID int64) (bool, error) {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE seats SET user_id = ?
		WHERE party_id = ? AND ordinal = (
			SELECT ordinal FROM seats
			WHERE party_id = ? AND user_id IS NULL
			ORDER BY ordinal
			LIMIT 1
		)
	`, userID, partyID, partyID)
	if err != nil {
		return false, fmt.Errorf("claim free seat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim free seat: rows affected: %w", err)
	}
	return n == 1, nil
}

// VacateOrReassignSeat clears or reassigns the seat currently held by userID.
// A nil replacement vacates the seat. Returns false if no seat row was
// updated - the caller must treat that as a consistency failure and roll
// back.
func (t *Tx) VacateOrReassignSeat(ctx context.Context, partyID, userID int64, replacement *int64) (bool, error) {
	var occupant any
	if replacement != nil {
		occupant = *replacement
	}
	res, err := t.tx.ExecContext(ctx, `
		UPDATE seats SET user_id = ? WHERE party_id = ? AND user_id = ?
	`, occupant, partyID, userID)
	if err != nil {
		return false, fmt.Errorf("vacate seat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("vacate seat: rows affected: %w", err)
	}
	return n == 1, nil
}

// LockSeatOfUser probes for the seat held by userID. Returns false when the
// user holds no seat in the party.
//
// With Postgres this was a SELECT ... FOR UPDATE row lock; under SQLite the
// immediate transaction already holds the write lock, so the probe only
// establishes existence. The name keeps the engine logic aligned with its
// contract.
func (t *Tx) LockSeatOfUser(ctx context.Context, partyID, userID int64) (bool, error) {
	var ordinal int
	err := t.tx.QueryRowContext(ctx, `
		SELECT ordinal FROM seats WHERE party_id = ? AND user_id = ?
	`, partyID, userID).Scan(&ordinal)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lock seat of user: %w", err)
	}
	return true, nil
}

// SetPartyMessageID updates the announcement message reference of a party.
// The only party field that is mutable after creation.
func (s *Store) SetPartyMessageID(ctx context.Context, partyID, messageID int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE parties SET message_id = ? WHERE id = ?
	`, messageID, partyID)
	if err != nil {
		return fmt.Errorf("set party message id: %w", err)
	}
	if err := expectRows(res, 1); err != nil {
		return fmt.Errorf("set party message id: %w", err)
	}
	return nil
}

// expectRows verifies the affected-row count of a targeted write.
func expectRows(res sql.Result, want int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n != want {
		return fmt.Errorf("%w: got %d, want %d", ErrRowCount, n, want)
	}
	return nil
}
