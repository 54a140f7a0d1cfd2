package runner

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/age-of-tension/pkg/world"
)

// Step actions. A step with no action is a turn.
const (
	ActionTurn     = "turn"
	ActionBriefing = "briefing"
	ActionReset    = "reset"
	ActionState    = "state"
)

// TestSuite defines a complete integration test scenario
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name    string          `json:"name" yaml:"name"`
	Faction world.FactionID `json:"faction,omitempty" yaml:"faction,omitempty"`
	Steps   []TestStep      `json:"steps,omitempty" yaml:"steps,omitempty"` // Used for regular tests
	Cases   []string        `json:"cases,omitempty" yaml:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep defines a single test interaction and its expected outcomes
type TestStep struct {
	Name         string       `json:"name,omitempty" yaml:"name,omitempty"`
	Action       string       `json:"action,omitempty" yaml:"action,omitempty"`
	Input        string       `json:"input,omitempty" yaml:"input,omitempty"`
	Expectations Expectations `json:"expect" yaml:"expect"`
}

// Expectations defines what to check after a test step executes.
// World checks run against GET /api/state after the step.
type Expectations struct {
	TurnCount   *int                                  `json:"turn_count,omitempty" yaml:"turn_count,omitempty"`
	Year        *int                                  `json:"year,omitempty" yaml:"year,omitempty"`
	DefconMin   *int                                  `json:"defcon_min,omitempty" yaml:"defcon_min,omitempty"`
	DefconMax   *int                                  `json:"defcon_max,omitempty" yaml:"defcon_max,omitempty"`
	Budget      *int                                  `json:"budget,omitempty" yaml:"budget,omitempty"`
	Territories map[world.CountryCode]world.FactionID `json:"territories,omitempty" yaml:"territories,omitempty"`

	// Response Analysis
	ResponseContains    []string `json:"response_contains,omitempty" yaml:"response_contains,omitempty"`
	ResponseNotContains []string `json:"response_not_contains,omitempty" yaml:"response_not_contains,omitempty"`
	ResponseRegex       string   `json:"response_regex,omitempty" yaml:"response_regex,omitempty"`
	ResponseMinLength   *int     `json:"response_min_length,omitempty" yaml:"response_min_length,omitempty"`
	ResponseMaxLength   *int     `json:"response_max_length,omitempty" yaml:"response_max_length,omitempty"`
	MaxRejections       *int     `json:"max_rejections,omitempty" yaml:"max_rejections,omitempty"`
}

// checksWorld reports whether any expectation needs the world state.
func (e Expectations) checksWorld() bool {
	return e.TurnCount != nil || e.Year != nil || e.DefconMin != nil || e.DefconMax != nil ||
		e.Budget != nil || len(e.Territories) > 0
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName     string
	StepName     string
	Success      bool
	Error        error
	Duration     time.Duration
	ResponseText string
	Rejections   int
	IsReset      bool // Reset steps do not count toward pass/fail metrics
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	RunID    uuid.UUID // Sent as X-Request-ID on every call of the run
}
