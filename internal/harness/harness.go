package harness

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/roach88/partyline/internal/party"
	"github.com/roach88/partyline/internal/store"
	"github.com/roach88/partyline/internal/user"
)

// scenarioChatID is the chat reference used for every scenario party.
const scenarioChatID = 1

// Runner executes scenarios against a store.
//
// User aliases are bound to deterministic external identities (1001, 1002,
// ... in order of first appearance) and the enqueue clock ticks one second
// per call, so scenario output - including golden renders - is fully
// deterministic.
type Runner struct {
	st         *store.Store
	svc        *party.Service
	identities map[string]user.Identity
	parties    map[string]int64
	now        time.Time
}

// Result holds the final snapshots of every party a scenario touched,
// keyed and ordered by party alias.
type Result struct {
	PartyAliases []string
	Snapshots    map[string]*store.PartySnapshot
}

// NewRunner creates a runner on top of an open store.
func NewRunner(st *store.Store) *Runner {
	r := &Runner{
		st:         st,
		identities: make(map[string]user.Identity),
		parties:    make(map[string]int64),
		now:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time {
		r.now = r.now.Add(time.Second)
		return r.now
	}
	r.svc = party.NewService(st, user.NewResolver(st), party.WithClock(clock))
	return r
}

// Run executes all steps of a scenario and verifies the expected statuses
// and final state. Returns the final snapshots for golden comparison.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	for i, step := range scenario.Steps {
		if err := r.runStep(ctx, i, step); err != nil {
			return nil, err
		}
	}

	result := &Result{Snapshots: make(map[string]*store.PartySnapshot)}
	for alias := range r.parties {
		result.PartyAliases = append(result.PartyAliases, alias)
	}
	sort.Strings(result.PartyAliases)

	for _, alias := range result.PartyAliases {
		snap, err := r.st.ReadPartySnapshot(ctx, r.parties[alias])
		if err != nil {
			return nil, fmt.Errorf("snapshot party %q: %w", alias, err)
		}
		result.Snapshots[alias] = snap
	}

	if err := r.verifyFinal(scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Runner) runStep(ctx context.Context, i int, step Step) error {
	switch step.Op {
	case "create":
		res := r.svc.CreateParty(ctx, r.identity(step.User), scenarioChatID, step.Seats)
		if string(res.Status) != step.Expect {
			return fmt.Errorf("step %d (create %s): got status %s, want %s", i, step.Party, res.Status, step.Expect)
		}
		if res.Status == party.CreateSuccess {
			r.parties[step.Party] = res.PartyID
		}
		return nil

	case "join":
		partyID, err := r.partyID(step.Party)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		res := r.svc.Join(ctx, partyID, r.identity(step.User))
		if string(res.Status) != step.Expect {
			return fmt.Errorf("step %d (join %s by %s): got status %s, want %s", i, step.Party, step.User, res.Status, step.Expect)
		}
		return nil

	case "leave":
		partyID, err := r.partyID(step.Party)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		res := r.svc.Leave(ctx, partyID, r.identity(step.User))
		if string(res.Status) != step.Expect {
			return fmt.Errorf("step %d (leave %s by %s): got status %s, want %s", i, step.Party, step.User, res.Status, step.Expect)
		}
		return r.checkPropagation(ctx, i, step, res)

	default:
		return fmt.Errorf("step %d: unknown op %q", i, step.Op)
	}
}

func (r *Runner) checkPropagation(ctx context.Context, i int, step Step, res party.LeaveResult) error {
	if step.Propagated == "" {
		if res.PropagatedUser != nil {
			return fmt.Errorf("step %d (leave %s by %s): unexpected propagation of user %d", i, step.Party, step.User, *res.PropagatedUser)
		}
		return nil
	}

	if res.PropagatedUser == nil {
		return fmt.Errorf("step %d (leave %s by %s): expected propagation of %q, got none", i, step.Party, step.User, step.Propagated)
	}
	wantID, err := r.internalID(ctx, step.Propagated)
	if err != nil {
		return fmt.Errorf("step %d: %w", i, err)
	}
	if *res.PropagatedUser != wantID {
		return fmt.Errorf("step %d (leave %s by %s): propagated user %d, want %d (%s)", i, step.Party, step.User, *res.PropagatedUser, wantID, step.Propagated)
	}
	return nil
}

func (r *Runner) verifyFinal(scenario *Scenario, result *Result) error {
	for alias, want := range scenario.Final {
		snap, ok := result.Snapshots[alias]
		if !ok {
			return fmt.Errorf("final state names unknown party %q", alias)
		}

		var seated []string
		for _, seat := range snap.Seats {
			if seat.User != nil {
				seated = append(seated, seat.User.Name)
			}
		}
		if err := equalAliases(seated, want.Seats); err != nil {
			return fmt.Errorf("party %q seats: %w", alias, err)
		}

		var queued []string
		for _, q := range snap.Queue {
			queued = append(queued, q.User.Name)
		}
		if err := equalAliases(queued, want.Queue); err != nil {
			return fmt.Errorf("party %q queue: %w", alias, err)
		}
	}
	return nil
}

func equalAliases(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			return fmt.Errorf("got %v, want %v", got, want)
		}
	}
	return nil
}

// identity binds a user alias to its deterministic external identity.
// The alias doubles as the display name.
func (r *Runner) identity(alias string) user.Identity {
	if id, ok := r.identities[alias]; ok {
		return id
	}
	id := user.Identity{
		ExternalID: int64(1000 + len(r.identities) + 1),
		Name:       alias,
	}
	r.identities[alias] = id
	return id
}

func (r *Runner) partyID(alias string) (int64, error) {
	id, ok := r.parties[alias]
	if !ok {
		return 0, fmt.Errorf("unknown party alias %q (no successful create step)", alias)
	}
	return id, nil
}

func (r *Runner) internalID(ctx context.Context, alias string) (int64, error) {
	identity, ok := r.identities[alias]
	if !ok {
		return 0, fmt.Errorf("unknown user alias %q", alias)
	}
	u, err := r.st.FindUserByExternalID(ctx, identity.ExternalID)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, fmt.Errorf("user alias %q has no stored record", alias)
	}
	return u.ID, nil
}
