package runner

import (
	"time"

	"github.com/google/uuid"
)

// Step actions
const (
	ActionStart  = "start"
	ActionChoose = "choose"
	ActionReset  = "reset"
	ActionReroll = "reroll"
	ActionState  = "state"
)

// TestSuite defines a complete integration test scenario
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name  string     `json:"name"`
	Steps []TestStep `json:"steps,omitempty"` // Used for regular tests
	Cases []string   `json:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep defines a single API call and its expected outcomes.
// A choose step without an index picks the first unlocked option.
// Repeat runs a choose step up to that many times, stopping early on game over.
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Action       string       `json:"action"`
	PlayerName   string       `json:"player_name,omitempty"`
	Index        *int         `json:"index,omitempty"`
	Repeat       int          `json:"repeat,omitempty"`
	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	Status       *int     `json:"status,omitempty"` // HTTP status of the last call
	Initialized  *bool    `json:"initialized,omitempty"`
	Phase        *string  `json:"phase,omitempty"`
	PromptKind   *string  `json:"prompt_kind,omitempty"`
	MinAge       *int     `json:"min_age,omitempty"`
	MaxAge       *int     `json:"max_age,omitempty"`
	IsEnded      *bool    `json:"is_ended,omitempty"` // Game over reached
	GameOverType *string  `json:"game_over_type,omitempty"`
	LogContains  []string `json:"log_contains,omitempty"`
	LogLength    *int     `json:"log_length,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
	Calls    int // API calls made by the step
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job       TestJob
	Results   []TestResult
	Error     error
	Duration  time.Duration
	SessionID uuid.UUID // Player id at the end of the suite
}
