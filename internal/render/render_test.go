package render

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/partyline/internal/store"
)

func assertGolden(t *testing.T, name, message string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(message+"\n"))
}

func testUser(id int64, name, handle string) *store.User {
	return &store.User{ID: id, Name: name, ExternalID: 1000 + id, Handle: handle}
}

func TestPartyMessage_EmptyParty(t *testing.T) {
	snap := &store.PartySnapshot{
		Seats: []store.SeatView{{Ordinal: 1}, {Ordinal: 2}, {Ordinal: 3}},
	}
	assertGolden(t, "empty_party", PartyMessage(snap))
}

func TestPartyMessage_PartiallyFilled(t *testing.T) {
	snap := &store.PartySnapshot{
		Seats: []store.SeatView{
			{Ordinal: 1, User: testUser(1, "Alice", "alice")},
			{Ordinal: 2},
		},
	}
	assertGolden(t, "partial_party", PartyMessage(snap))
}

func TestPartyMessage_FullWithQueue(t *testing.T) {
	snap := &store.PartySnapshot{
		Seats: []store.SeatView{
			{Ordinal: 1, User: testUser(2, "Bob", "")},
		},
		Queue: []store.QueueView{
			{User: *testUser(3, "Carol", "carol")},
		},
	}
	assertGolden(t, "full_with_queue", PartyMessage(snap))
}

func TestPartyMessage_EscapesMarkdown(t *testing.T) {
	snap := &store.PartySnapshot{
		Seats: []store.SeatView{
			{Ordinal: 1, User: testUser(4, "Ev*il [Bob`", "")},
			{Ordinal: 2},
		},
	}
	assertGolden(t, "markdown_escaping", PartyMessage(snap))
}

func TestUserTag(t *testing.T) {
	assert.Equal(t, "[@alice](tg://user?id=1001)", UserTag(*testUser(1, "Alice", "alice")))
	assert.Equal(t, "[Bob](tg://user?id=1002)", UserTag(*testUser(2, "Bob", "")))
}

func TestProfileLink(t *testing.T) {
	assert.Equal(t, "[Alice (alice)](tg://user?id=1001)", profileLink(*testUser(1, "Alice", "alice")))
	assert.Equal(t, "[Bob](tg://user?id=1002)", profileLink(*testUser(2, "Bob", "")))
	// Handle identical to the name is not repeated.
	assert.Equal(t, "[carol](tg://user?id=1003)", profileLink(*testUser(3, "carol", "carol")))
}

func TestProfileLink_NormalizesUnicode(t *testing.T) {
	// "e" + combining acute accent normalizes to the precomposed form.
	decomposed := "Renée"
	assert.Equal(t, "[Renée](tg://user?id=1005)", profileLink(*testUser(5, decomposed, "")))
}
