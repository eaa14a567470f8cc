package runner

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/musilife/internal/handlers"
	"github.com/jwebster45206/musilife/pkg/content"
	"github.com/jwebster45206/musilife/pkg/engine"
	"github.com/jwebster45206/musilife/pkg/rng"
	"github.com/jwebster45206/musilife/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	catalog := &content.Catalog{
		Questions: []content.Question{{
			ID:       "practice",
			AgeRange: content.AgeRange{15, 120},
			Text:     "Practice tonight?",
			Options: []content.Option{{Text: "Scales", Effects: content.Effects{Changes: []content.Effect{
				{Target: content.Stat(state.StatSkill), Delta: 1},
			}}}},
		}},
		Opportunities: []content.Opportunity{{
			ID:          "jam",
			AgeRange:    content.AgeRange{15, 120},
			Title:       "Jam Session",
			Description: "Friends are jamming in the basement.",
			Choices: []content.Choice{{
				Text:     "Join in",
				Outcomes: []content.Outcome{{Text: "Good times", Weight: 1}},
			}},
		}},
	}
	session, err := engine.NewSessionFromCatalog(catalog, engine.WithRandom(rng.New(3)))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	game := handlers.NewGameHandler(session, logger)
	mux := http.NewServeMux()
	mux.Handle("/v1/game", game)
	mux.Handle("/v1/game/", game)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunSuite_FullLife(t *testing.T) {
	srv := testServer(t)
	r := NewRunner(srv.URL + "/")

	suite := TestSuite{
		Name: "full_life",
		Steps: []TestStep{
			{Name: "start", Action: ActionStart, PlayerName: "Sam", Expectations: Expectations{
				Status: ptr(http.StatusCreated), Initialized: ptr(true), PromptKind: ptr("decision"),
			}},
			{Name: "one question", Action: ActionChoose, Index: ptr(0), Expectations: Expectations{
				Phase: ptr("opportunity"),
			}},
			{Name: "play on", Action: ActionChoose, Repeat: 500, Expectations: Expectations{
				IsEnded: ptr(true), LogContains: []string{"GAME OVER"},
			}},
			{Name: "locked out", Action: ActionChoose, Index: ptr(0), Expectations: Expectations{
				Status: ptr(http.StatusConflict),
			}},
			{Name: "reset", Action: ActionReset, Expectations: Expectations{
				Initialized: ptr(false), LogLength: ptr(0),
			}},
		},
	}

	result, err := r.RunSuite(context.Background(), suite)
	require.NoError(t, err)
	require.Len(t, result.Results, len(suite.Steps))
	for _, step := range result.Results {
		assert.True(t, step.Success, step.StepName)
	}
	assert.Greater(t, result.Results[2].Calls, 2)
}

func TestRunSuite_ReportsFailures(t *testing.T) {
	suite := TestSuite{
		Name: "failing",
		Steps: []TestStep{
			{Name: "wrong expectation", Action: ActionState, Expectations: Expectations{Initialized: ptr(true)}},
			{Name: "unknown action", Action: "dance"},
			{Name: "start", Action: ActionStart, PlayerName: "Ann"},
		},
	}

	t.Run("continue", func(t *testing.T) {
		r := NewRunner(testServer(t).URL)
		result, err := r.RunSuite(context.Background(), suite)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wrong expectation")
		require.Len(t, result.Results, 3)
		assert.False(t, result.Results[1].Success)
		assert.True(t, result.Results[2].Success)
	})

	t.Run("exit", func(t *testing.T) {
		r := NewRunner(testServer(t).URL)
		r.ErrorHandlingMode = ErrorHandlingExit
		result, err := r.RunSuite(context.Background(), suite)
		require.Error(t, err)
		assert.Len(t, result.Results, 1)
	})
}

func TestCheckExpectations(t *testing.T) {
	snap := &engine.Snapshot{
		Player: &state.PlayerState{
			Age:         40,
			Phase:       state.PhaseDecision,
			Initialized: true,
			GameLog:     []state.LogEntry{{Age: 39, Text: "Turned 40."}},
		},
		Prompt:   &engine.Prompt{Kind: state.PhaseDecision},
		GameOver: &engine.GameOver{Type: engine.GameOverBankruptcy},
	}

	tests := []struct {
		name    string
		exp     Expectations
		status  int
		snap    *engine.Snapshot
		wantErr bool
	}{
		{name: "all match", exp: Expectations{
			Initialized: ptr(true), Phase: ptr("decision"), PromptKind: ptr("decision"),
			MinAge: ptr(40), MaxAge: ptr(40), IsEnded: ptr(true), GameOverType: ptr("bankruptcy"),
			LogContains: []string{"Turned"}, LogLength: ptr(1),
		}, status: 200, snap: snap},
		{name: "status mismatch", exp: Expectations{Status: ptr(201)}, status: 200, snap: snap, wantErr: true},
		{name: "error status unexpected", exp: Expectations{}, status: 409, wantErr: true},
		{name: "error status expected", exp: Expectations{Status: ptr(409)}, status: 409},
		{name: "state expected but missing", exp: Expectations{Status: ptr(409), IsEnded: ptr(true)}, status: 409, wantErr: true},
		{name: "too young", exp: Expectations{MinAge: ptr(41)}, status: 200, snap: snap, wantErr: true},
		{name: "too old", exp: Expectations{MaxAge: ptr(39)}, status: 200, snap: snap, wantErr: true},
		{name: "wrong game over", exp: Expectations{GameOverType: ptr("old_age")}, status: 200, snap: snap, wantErr: true},
		{name: "missing log text", exp: Expectations{LogContains: []string{"VICTORY"}}, status: 200, snap: snap, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkExpectations(tt.exp, tt.status, tt.snap)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkExpectations() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadTestSuiteWithExpansion(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
		return path
	}
	write("a.json", `{"name": "a", "steps": [{"action": "state", "expect": {}}]}`)
	write("b.json", `{"name": "b", "steps": [{"action": "reset", "expect": {}}]}`)
	seq := write("all.json", `{"name": "all", "cases": ["a.json", "b.json"]}`)
	broken := write("broken.json", `{"name": "broken", "cases": ["missing.json"]}`)

	jobs, err := LoadTestSuiteWithExpansion(seq, dir)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].Name)
	assert.Equal(t, ActionReset, jobs[1].Suite.Steps[0].Action)

	_, err = LoadTestSuiteWithExpansion(broken, dir)
	assert.Error(t, err)
}
