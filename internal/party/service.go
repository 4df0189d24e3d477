package party

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/partyline/internal/store"
	"github.com/roach88/partyline/internal/user"
)

// MaxSeats is the seat-count ceiling for new parties. Checked before any
// store write.
const MaxSeats = 50

// UserResolver supplies the internal user record for an external identity.
// Implemented by user.Resolver.
type UserResolver interface {
	Resolve(ctx context.Context, identity user.Identity) (*store.User, error)
}

// Service is the join/leave state machine on top of the store primitives.
//
// Correctness reduces entirely to the transaction discipline: every decision
// (already seated? already queued? free seat? queue non-empty?) is made and
// acted upon inside one transaction, and the store serializes mutating
// transactions, so concurrent joins cannot double-claim a seat and a
// join/leave pair cannot leave seats and queue inconsistent.
type Service struct {
	store  *store.Store
	users  UserResolver
	clock  func() time.Time
	tokens TokenGenerator
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the enqueue-timestamp source. Used by tests to get
// deterministic queue ordering.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithTokenGenerator overrides the request-token generator.
func WithTokenGenerator(gen TokenGenerator) Option {
	return func(s *Service) {
		s.tokens = gen
	}
}

// NewService creates the engine on top of a store and a user resolver.
func NewService(st *store.Store, users UserResolver, opts ...Option) *Service {
	s := &Service{
		store:  st,
		users:  users,
		clock:  time.Now,
		tokens: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParty creates a party with the given seat count owned by the
// resolved identity. The party, its seats and its empty queue are created
// atomically.
func (s *Service) CreateParty(ctx context.Context, owner user.Identity, chatID int64, seats int) CreateResult {
	if seats > MaxSeats {
		return CreateResult{Status: CreateTooManySeats}
	}

	internalOwner, err := s.users.Resolve(ctx, owner)
	if err != nil {
		slog.Warn("could not resolve party owner", "external_id", owner.ExternalID, "error", err)
		return CreateResult{Status: CreateCantOwner}
	}

	partyID, err := s.createParty(ctx, internalOwner.ID, chatID, seats)
	if err != nil {
		slog.Warn("party creation transaction failed", "owner_id", internalOwner.ID, "chat_id", chatID, "error", err)
		return CreateResult{Status: CreateUnknownError}
	}

	slog.Debug("party created", "party_id", partyID, "owner_id", internalOwner.ID, "seats", seats)
	return CreateResult{Status: CreateSuccess, PartyID: partyID}
}

func (s *Service) createParty(ctx context.Context, ownerID, chatID int64, seats int) (int64, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	partyID, err := tx.CreatePartyWithSeats(ctx, ownerID, chatID, seats)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return partyID, nil
}

// Join puts the identity into the party: onto a free seat if one exists,
// otherwise onto the back of the waiting queue.
func (s *Service) Join(ctx context.Context, partyID int64, identity user.Identity) JoinResult {
	u, err := s.users.Resolve(ctx, identity)
	if err != nil {
		slog.Warn("could not resolve user for join", "party_id", partyID, "external_id", identity.ExternalID, "error", err)
		return JoinResult{Status: JoinCantCreateUser}
	}

	token := s.tokens.Generate()
	status, err := s.join(ctx, partyID, u.ID, token)
	if err != nil {
		slog.Warn("party joining transaction failed",
			"party_id", partyID,
			"user_id", u.ID,
			"request", token,
			"error", err,
		)
		return JoinResult{Status: JoinUnexpectedError}
	}
	return JoinResult{Status: status}
}

// join runs the whole join decision in one transaction. Statuses that write
// nothing return with the deferred rollback in effect.
func (s *Service) join(ctx context.Context, partyID, userID int64, token string) (JoinStatus, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	queue, err := tx.ReadQueue(ctx, partyID, true)
	if err != nil {
		return "", err
	}

	for _, entry := range queue {
		if entry.UserID == userID {
			slog.Debug("user is already in the queue", "party_id", partyID, "user_id", userID, "request", token)
			return JoinAlreadyInQueue, nil
		}
	}

	seated, err := tx.IsUserSeated(ctx, partyID, userID)
	if err != nil {
		return "", err
	}
	if seated {
		return JoinAlreadyJoined, nil
	}

	claimed, err := tx.ClaimFreeSeat(ctx, partyID, userID)
	if err != nil {
		return "", err
	}
	if claimed {
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("commit: %w", err)
		}
		return JoinSuccess, nil
	}

	slog.Debug("seat hasn't been taken, queueing", "party_id", partyID, "user_id", userID, "request", token)
	if err := tx.Enqueue(ctx, partyID, store.QueueEntry{UserID: userID, AddedAt: s.clock()}); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return JoinNoAvailableSeats, nil
}

// Leave takes the identity out of the party: out of the queue if queued,
// otherwise off its seat, promoting the queue head into the vacated seat
// when the queue is non-empty.
func (s *Service) Leave(ctx context.Context, partyID int64, identity user.Identity) LeaveResult {
	u, err := s.users.Resolve(ctx, identity)
	if err != nil {
		slog.Warn("could not resolve user for leave", "party_id", partyID, "external_id", identity.ExternalID, "error", err)
		return LeaveResult{Status: LeaveCantRetrieveUser}
	}

	token := s.tokens.Generate()
	result, err := s.leave(ctx, partyID, u.ID, token)
	if err != nil {
		slog.Warn("party leaving transaction failed",
			"party_id", partyID,
			"user_id", u.ID,
			"request", token,
			"error", err,
		)
		return LeaveResult{Status: LeaveUnknownError}
	}
	return result
}

// leave runs the whole leave decision in one transaction. The queue is read
// first because queue membership takes priority over a seat (a user is never
// in both), and because the propagation decision depends on this snapshot
// staying valid through the seat write.
func (s *Service) leave(ctx context.Context, partyID, userID int64, token string) (LeaveResult, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return LeaveResult{}, err
	}
	defer tx.Rollback()

	queue, err := tx.ReadQueue(ctx, partyID, true)
	if err != nil {
		return LeaveResult{}, err
	}

	for i, entry := range queue {
		if entry.UserID != userID {
			continue
		}
		slog.Debug("user will be removed from the queue", "party_id", partyID, "user_id", userID, "request", token)
		removed, err := tx.DequeueAt(ctx, partyID, i)
		if err != nil {
			return LeaveResult{}, err
		}
		if !removed {
			slog.Warn("couldn't remove a participant from the queue", "party_id", partyID, "user_id", userID, "request", token)
			return LeaveResult{Status: LeaveUnknownError}, nil
		}
		if err := tx.Commit(); err != nil {
			return LeaveResult{}, fmt.Errorf("commit: %w", err)
		}
		return LeaveResult{Status: LeaveSuccess}, nil
	}

	seatFound, err := tx.LockSeatOfUser(ctx, partyID, userID)
	if err != nil {
		return LeaveResult{}, err
	}
	if !seatFound {
		slog.Debug("user is not in the party", "party_id", partyID, "user_id", userID, "request", token)
		return LeaveResult{Status: LeaveNotInTheParty}, nil
	}

	if len(queue) == 0 {
		slog.Debug("queue is empty, emptying the seat", "party_id", partyID, "user_id", userID, "request", token)
		vacated, err := tx.VacateOrReassignSeat(ctx, partyID, userID, nil)
		if err != nil {
			return LeaveResult{}, err
		}
		if !vacated {
			slog.Warn("couldn't remove a participant from the seat", "party_id", partyID, "user_id", userID, "request", token)
			return LeaveResult{Status: LeaveUnknownError}, nil
		}
		if err := tx.Commit(); err != nil {
			return LeaveResult{}, fmt.Errorf("commit: %w", err)
		}
		return LeaveResult{Status: LeaveSuccess}, nil
	}

	// Full-party leave: promote the queue head into the vacated seat within
	// this transaction, so the seat is never empty while the queue is not.
	removed, err := tx.DequeueAt(ctx, partyID, 0)
	if err != nil {
		return LeaveResult{}, err
	}
	if !removed {
		slog.Warn("couldn't remove the queue head", "party_id", partyID, "request", token)
		return LeaveResult{Status: LeaveUnknownError}, nil
	}

	head := queue[0].UserID
	reassigned, err := tx.VacateOrReassignSeat(ctx, partyID, userID, &head)
	if err != nil {
		return LeaveResult{}, err
	}
	if !reassigned {
		slog.Warn("couldn't reassign the seat", "party_id", partyID, "user_id", userID, "request", token)
		return LeaveResult{Status: LeaveUnknownError}, nil
	}

	if err := tx.Commit(); err != nil {
		return LeaveResult{}, fmt.Errorf("commit: %w", err)
	}
	slog.Debug("propagated user to the vacated seat", "party_id", partyID, "propagated_user", head, "request", token)
	return LeaveResult{Status: LeaveSuccess, PropagatedUser: &head}, nil
}

// Snapshot returns the full party view for rendering.
// Returns store.ErrPartyNotFound when the party does not exist.
func (s *Service) Snapshot(ctx context.Context, partyID int64) (*store.PartySnapshot, error) {
	return s.store.ReadPartySnapshot(ctx, partyID)
}

// SetPartyMessage records the announcement message reference of a party.
func (s *Service) SetPartyMessage(ctx context.Context, partyID, messageID int64) error {
	slog.Debug("updating party message id", "party_id", partyID, "message_id", messageID)
	return s.store.SetPartyMessageID(ctx, partyID, messageID)
}
