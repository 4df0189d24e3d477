package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/partyline/internal/render"
)

// AssertGolden renders the final view of every party in the result and
// compares the output against testdata/golden/{scenarioName}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	var buf bytes.Buffer
	for _, alias := range result.PartyAliases {
		fmt.Fprintf(&buf, "== %s ==\n", alias)
		buf.WriteString(render.PartyMessage(result.Snapshots[alias]))
		buf.WriteString("\n")
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, buf.Bytes())
}
