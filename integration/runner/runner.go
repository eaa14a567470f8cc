package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jwebster45206/musilife/pkg/engine"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running musilife API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 30 * time.Second},
		Timeout:           10 * time.Second,
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job:     TestJob{Name: suite.Name, Suite: suite},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult, snap := r.runStep(ctx, step)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)
		if snap != nil && snap.Player != nil {
			result.SessionID = snap.Player.ID
		}

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// runStep performs the step's API calls, then checks expectations against
// the last snapshot returned.
func (r *Runner) runStep(ctx context.Context, step TestStep) (TestResult, *engine.Snapshot) {
	start := time.Now()
	result := TestResult{StepName: step.Name}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	status, snap, err := r.perform(ctx, step, &result.Calls)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		return result, snap
	}

	if err := checkExpectations(step.Expectations, status, snap); err != nil {
		result.Error = err
		return result, snap
	}

	result.Success = true
	return result, snap
}

func (r *Runner) perform(ctx context.Context, step TestStep, calls *int) (int, *engine.Snapshot, error) {
	switch step.Action {
	case ActionStart:
		*calls++
		return r.call(ctx, http.MethodPost, "/v1/game", map[string]string{"name": step.PlayerName})
	case ActionReset, ActionReroll:
		*calls++
		return r.call(ctx, http.MethodPost, "/v1/game/"+step.Action, nil)
	case ActionState:
		*calls++
		return r.call(ctx, http.MethodGet, "/v1/game", nil)
	case ActionChoose:
		return r.choose(ctx, step, calls)
	default:
		return 0, nil, fmt.Errorf("unknown action %q", step.Action)
	}
}

func (r *Runner) choose(ctx context.Context, step TestStep, calls *int) (int, *engine.Snapshot, error) {
	repeat := max(step.Repeat, 1)

	var status int
	var snap *engine.Snapshot
	for range repeat {
		index := 0
		if step.Index != nil {
			index = *step.Index
		} else {
			*calls++
			_, current, err := r.call(ctx, http.MethodGet, "/v1/game", nil)
			if err != nil {
				return 0, nil, err
			}
			if current.GameOver != nil {
				return http.StatusOK, current, nil
			}
			index = firstUnlocked(current.Prompt)
		}

		*calls++
		var err error
		status, snap, err = r.call(ctx, http.MethodPost, "/v1/game/choice", map[string]int{"index": index})
		if err != nil {
			return status, snap, err
		}
		if status != http.StatusOK || (snap != nil && snap.GameOver != nil) {
			break
		}
	}
	return status, snap, nil
}

func firstUnlocked(p *engine.Prompt) int {
	if p == nil {
		return 0
	}
	for _, opt := range p.Options {
		if !opt.Locked {
			return opt.Index
		}
	}
	return 0
}

// call sends one request and decodes the snapshot in the response. Error
// responses return the status with a nil snapshot so expectations can check it.
func (r *Runner) call(ctx context.Context, method, path string, body any) (int, *engine.Snapshot, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return resp.StatusCode, nil, nil
	}

	if strings.HasSuffix(path, "/choice") {
		var choice struct {
			State engine.Snapshot `json:"state"`
		}
		if err := json.Unmarshal(data, &choice); err != nil {
			return resp.StatusCode, nil, fmt.Errorf("failed to decode choice response: %w", err)
		}
		return resp.StatusCode, &choice.State, nil
	}

	var snap engine.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return resp.StatusCode, &snap, nil
}

func checkExpectations(exp Expectations, status int, snap *engine.Snapshot) error {
	if exp.Status != nil {
		if status != *exp.Status {
			return fmt.Errorf("expected status %d, got %d", *exp.Status, status)
		}
	} else if status >= 300 {
		return fmt.Errorf("unexpected status %d", status)
	}

	if snap == nil || snap.Player == nil {
		if hasStateExpectations(exp) {
			return fmt.Errorf("no game state in response")
		}
		return nil
	}
	p := snap.Player

	if exp.Initialized != nil && p.Initialized != *exp.Initialized {
		return fmt.Errorf("expected initialized %v, got %v", *exp.Initialized, p.Initialized)
	}
	if exp.Phase != nil && string(p.Phase) != *exp.Phase {
		return fmt.Errorf("expected phase %q, got %q", *exp.Phase, p.Phase)
	}
	if exp.PromptKind != nil {
		if snap.Prompt == nil {
			return fmt.Errorf("expected %q prompt, got none", *exp.PromptKind)
		}
		if string(snap.Prompt.Kind) != *exp.PromptKind {
			return fmt.Errorf("expected %q prompt, got %q", *exp.PromptKind, snap.Prompt.Kind)
		}
	}
	if exp.MinAge != nil && p.Age < *exp.MinAge {
		return fmt.Errorf("expected age >= %d, got %d", *exp.MinAge, p.Age)
	}
	if exp.MaxAge != nil && p.Age > *exp.MaxAge {
		return fmt.Errorf("expected age <= %d, got %d", *exp.MaxAge, p.Age)
	}
	if exp.IsEnded != nil && (snap.GameOver != nil) != *exp.IsEnded {
		return fmt.Errorf("expected game over %v, got %v", *exp.IsEnded, snap.GameOver != nil)
	}
	if exp.GameOverType != nil {
		if snap.GameOver == nil || string(snap.GameOver.Type) != *exp.GameOverType {
			return fmt.Errorf("expected game over type %q, got %+v", *exp.GameOverType, snap.GameOver)
		}
	}
	if exp.LogLength != nil && len(p.GameLog) != *exp.LogLength {
		return fmt.Errorf("expected %d log entries, got %d", *exp.LogLength, len(p.GameLog))
	}
	for _, want := range exp.LogContains {
		found := false
		for _, entry := range p.GameLog {
			if strings.Contains(entry.Text, want) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no log entry contains %q", want)
		}
	}

	return nil
}

func hasStateExpectations(exp Expectations) bool {
	return exp.Initialized != nil || exp.Phase != nil || exp.PromptKind != nil ||
		exp.MinAge != nil || exp.MaxAge != nil || exp.IsEnded != nil ||
		exp.GameOverType != nil || exp.LogLength != nil || len(exp.LogContains) > 0
}
