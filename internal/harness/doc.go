// Package harness runs YAML conformance scenarios against a real store.
//
// A scenario is a sequence of create/join/leave steps with expected status
// outcomes, plus the expected final seats and queue per party. Scenario files
// are validated against an embedded CUE schema before execution, and the
// rendered final party views are compared against golden files in tests.
package harness
