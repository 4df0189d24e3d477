package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// User is an internal user record. ExternalID is the identity key handed in
// by the transport layer; Handle is optional and empty when unset.
type User struct {
	ID         int64
	Name       string
	ExternalID int64
	Handle     string
}

// InsertUser creates a user for an external identity. A UNIQUE violation on
// external_id is returned as-is so the resolver can treat a creation race as
// success (IsUniqueViolation).
func (s *Store) InsertUser(ctx context.Context, name string, externalID int64, handle string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, external_id, handle) VALUES (?, ?, ?)
	`, name, externalID, nullableString(handle))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindUserByExternalID looks a user up by identity key.
// Returns (nil, nil) when no such user exists.
func (s *Store) FindUserByExternalID(ctx context.Context, externalID int64) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, name, external_id, handle FROM users WHERE external_id = ?
	`, externalID))
}

// UpdateUser replaces a user's name and handle in place. Returns false if no
// row was updated.
func (s *Store) UpdateUser(ctx context.Context, id int64, name, handle string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = ?, handle = ? WHERE id = ?
	`, name, nullableString(handle), id)
	if err != nil {
		return false, fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update user: rows affected: %w", err)
	}
	return n == 1, nil
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var handle sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.ExternalID, &handle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Handle = handle.String
	return &u, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
