package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
name: minimal
steps:
  - op: create
    party: p1
    user: alice
    seats: 3
    expect: SUCCESS
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", scenario.Name)
	require.Len(t, scenario.Steps, 1)
	assert.Equal(t, "create", scenario.Steps[0].Op)
	assert.Equal(t, 3, scenario.Steps[0].Seats)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
}

func TestLoadScenario_UnknownStatusRejected(t *testing.T) {
	path := writeScenario(t, `
name: bad_status
steps:
  - op: join
    party: p1
    user: alice
    expect: TOTALLY_FINE
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")
}

func TestLoadScenario_UnknownOpRejected(t *testing.T) {
	path := writeScenario(t, `
name: bad_op
steps:
  - op: explode
    party: p1
    user: alice
    expect: SUCCESS
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")
}

func TestLoadScenario_EmptyStepsRejected(t *testing.T) {
	path := writeScenario(t, `
name: empty
steps: []
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
}
