// Package user maps external identities to internal user records.
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/partyline/internal/store"
)

// Identity is an external identity as handed in by the transport layer.
// ExternalID is the stable identity key; Name and Handle are the values
// observed on this request and may drift between observations.
type Identity struct {
	ExternalID int64
	Name       string
	Handle     string
}

// Resolver upserts user records for external identities and supplies the
// internal user id the party engine operates on.
type Resolver struct {
	store *store.Store
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(s *store.Store) *Resolver {
	return &Resolver{store: s}
}

// Resolve looks up the user for an identity key, creating the record if
// absent and refreshing name/handle in place when they have drifted.
//
// A duplicate-key error during creation means a concurrent resolver already
// created the row; that is treated as success and followed by a re-read.
// Resolve fails only if creation fails for another reason, or if the
// post-creation re-read yields nothing.
func (r *Resolver) Resolve(ctx context.Context, identity Identity) (*store.User, error) {
	u, err := r.store.FindUserByExternalID(ctx, identity.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("resolve user %d: %w", identity.ExternalID, err)
	}

	if u == nil {
		err := r.store.InsertUser(ctx, identity.Name, identity.ExternalID, identity.Handle)
		if err != nil && !store.IsUniqueViolation(err) {
			return nil, fmt.Errorf("resolve user %d: create: %w", identity.ExternalID, err)
		}
		if err != nil {
			// Lost the creation race; the row exists now.
			slog.Debug("user already created by a concurrent resolver", "external_id", identity.ExternalID)
		}

		u, err = r.store.FindUserByExternalID(ctx, identity.ExternalID)
		if err != nil {
			return nil, fmt.Errorf("resolve user %d: re-read: %w", identity.ExternalID, err)
		}
		if u == nil {
			return nil, fmt.Errorf("resolve user %d: absent after creation", identity.ExternalID)
		}
	}

	if u.Name != identity.Name || u.Handle != identity.Handle {
		updated, err := r.store.UpdateUser(ctx, u.ID, identity.Name, identity.Handle)
		if err != nil || !updated {
			// Stale name is not worth failing the request over.
			slog.Warn("could not refresh user data", "user_id", u.ID, "error", err)
			return u, nil
		}
		u.Name = identity.Name
		u.Handle = identity.Handle
	}

	return u, nil
}
