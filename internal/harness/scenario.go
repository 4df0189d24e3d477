package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a flow of party operations
// with expected statuses, and the expected final state per party.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Steps is the operation flow. Each step names the operation, the party
	// and user aliases it applies to, and the expected status.
	Steps []Step `yaml:"steps"`

	// Final is the expected end state per party alias: occupied seats in
	// ordinal order and the queue in FIFO order, both as user aliases.
	Final map[string]FinalParty `yaml:"final,omitempty"`
}

// Step is a single operation in a scenario flow.
type Step struct {
	// Op is one of "create", "join", "leave".
	Op string `yaml:"op"`

	// Party is the party alias. A create step binds the alias to the
	// created party id; later steps refer to it.
	Party string `yaml:"party"`

	// User is the user alias acting in this step. Aliases are bound to
	// deterministic external identities in order of first appearance.
	User string `yaml:"user"`

	// Seats is the seat count, for create steps only.
	Seats int `yaml:"seats,omitempty"`

	// Expect is the expected status enumerant (e.g. "SUCCESS",
	// "NO_AVAILABLE_SEATS").
	Expect string `yaml:"expect"`

	// Propagated is the user alias expected to be promoted into the vacated
	// seat, for leave steps. Empty means no propagation expected.
	Propagated string `yaml:"propagated,omitempty"`
}

// FinalParty is the expected end state of one party.
type FinalParty struct {
	Seats []string `yaml:"seats"`
	Queue []string `yaml:"queue"`
}

// LoadScenario reads a scenario file, validates it against the embedded CUE
// schema and unmarshals it.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	if err := ValidateScenario(path, data); err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if scenario.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: at least one step is required", path)
	}

	return &scenario, nil
}
