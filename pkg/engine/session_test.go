package engine

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/jwebster45206/musilife/pkg/conditionals"
	"github.com/jwebster45206/musilife/pkg/content"
	"github.com/jwebster45206/musilife/pkg/rng"
	"github.com/jwebster45206/musilife/pkg/state"
	"github.com/jwebster45206/musilife/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(d float64) content.Effect {
	return content.Effect{Target: content.Resource(state.ResourceMoney), Delta: d}
}

func testCatalog() *content.Catalog {
	return &content.Catalog{
		Questions: []content.Question{{
			ID:       "practice",
			AgeRange: content.AgeRange{15, 120},
			Text:     "How do you spend the summer?",
			Options: []content.Option{
				{
					Text: "Practice every day",
					Effects: content.Effects{Changes: []content.Effect{
						{Target: content.Stat(state.StatVocals), Delta: 2},
						money(-50),
					}},
					Unlocks: []string{"dedicated"},
				},
				{
					Text:    "Buy a vintage guitar",
					Effects: content.Effects{Changes: []content.Effect{money(-2050)}},
				},
				{
					Text:     "Hire a vocal coach",
					Requires: &conditionals.Requires{MinStats: map[string]float64{"money": 100000}},
				},
			},
		}},
		Opportunities: []content.Opportunity{{
			ID:          "open_mic",
			AgeRange:    content.AgeRange{15, 120},
			Title:       "Open Mic Night",
			Description: "A local bar has a free slot.",
			Choices: []content.Choice{{
				Text:    "Play an original",
				Formula: content.Formula{Weights: map[string]float64{state.StatCreativity: 1}},
				Outcomes: []content.Outcome{{
					Text:   "The crowd loved it",
					Weight: 1,
					Effects: content.Effects{
						Changes: []content.Effect{{Target: content.Resource(state.ResourceAudience), Delta: 100}},
						Flags:   []string{"performer"},
					},
				}},
			}},
		}},
	}
}

func newTestSession(t *testing.T, catalog *content.Catalog, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithRandom(rng.New(7))}, opts...)
	s, err := NewSessionFromCatalog(catalog, opts...)
	require.NoError(t, err)
	return s
}

func startSession(t *testing.T, catalog *content.Catalog) *Session {
	t.Helper()
	s := newTestSession(t, catalog)
	require.NoError(t, s.Start("Alex"))
	s.player.SetResource(state.ResourceMoney, 200)
	s.player.SetResource(state.ResourceHealth, 90)
	s.player.SetResource(state.ResourceMotivation, 70)
	return s
}

func logTexts(p *state.PlayerState) []string {
	out := make([]string, 0, len(p.GameLog))
	for _, e := range p.GameLog {
		out = append(out, e.Text)
	}
	return out
}

func TestNewSession(t *testing.T) {
	t.Run("loads content once", func(t *testing.T) {
		mock := storage.NewMockStorage(testCatalog())
		s, err := NewSession(context.Background(), mock)
		require.NoError(t, err)
		assert.Equal(t, 1, mock.Loads())
		assert.Len(t, s.Catalog().Questions, 1)
	})

	t.Run("load failure", func(t *testing.T) {
		mock := storage.NewMockStorage(nil)
		mock.SetLoadError(errors.New("connection refused"))
		s, err := NewSession(context.Background(), mock)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, storage.ErrContentUnavailable)
	})

	t.Run("malformed content", func(t *testing.T) {
		c := testCatalog()
		c.Opportunities[0].Choices[0].Outcomes[0].Weight = 0
		s, err := NewSession(context.Background(), storage.NewMockStorage(c))
		assert.Nil(t, s)

		var malformed *content.MalformedContentError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "open_mic", malformed.ID)
		assert.ErrorIs(t, err, content.ErrMalformedContent)
	})
}

func TestSession_Start(t *testing.T) {
	var renders []Snapshot
	s := newTestSession(t, testCatalog(), WithRenderer(RendererFunc(func(snap Snapshot) {
		renders = append(renders, snap)
	})))

	assert.ErrorIs(t, s.Start("   "), ErrInvalidName)
	require.NoError(t, s.Start("  Alex  "))

	p := s.Player()
	assert.Equal(t, "Alex", p.Name)
	assert.True(t, p.Initialized)
	assert.Equal(t, state.StartingAge, p.Age)
	assert.Equal(t, state.PhaseDecision, p.Phase)
	assert.Equal(t, "Alex begins their musical journey...", p.GameLog[0].Text)
	assert.True(t, p.UsedQuestions["practice"])

	require.NotNil(t, s.CurrentQuestion())
	assert.Equal(t, "practice", s.CurrentQuestion().ID)
	assert.Nil(t, s.CurrentOpportunity())

	require.Len(t, renders, 1)
	require.NotNil(t, renders[0].Prompt)
	assert.Equal(t, state.PhaseDecision, renders[0].Prompt.Kind)
	assert.Len(t, renders[0].Prompt.Options, 3)
	assert.True(t, renders[0].Prompt.Options[2].Locked)
	assert.Equal(t, []string{"money 100000+"}, renders[0].Prompt.Options[2].Reasons)
}

func TestSession_NotStarted(t *testing.T) {
	s := newTestSession(t, testCatalog())

	_, err := s.Choose(0)
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = s.ChooseOption(0)
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = s.ChooseOpportunity(0)
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.ErrorIs(t, s.Reroll(), ErrNotStarted)
}

func TestSession_ChooseOption(t *testing.T) {
	s := startSession(t, testCatalog())
	vocals := s.player.Stat(state.StatVocals)

	_, err := s.ChooseOpportunity(0)
	assert.ErrorIs(t, err, ErrWrongPhase)
	_, err = s.ChooseOption(3)
	assert.ErrorIs(t, err, ErrInvalidChoice)
	_, err = s.ChooseOption(-1)
	assert.ErrorIs(t, err, ErrInvalidChoice)
	_, err = s.ChooseOption(2)
	assert.ErrorIs(t, err, ErrOptionLocked)
	require.NotNil(t, s.CurrentQuestion(), "rejected choices leave the prompt in place")

	res, err := s.ChooseOption(0)
	require.NoError(t, err)
	assert.Nil(t, res.GameOver)
	assert.Equal(t, -50.0, res.Changes[state.ResourceMoney].Change)
	assert.Equal(t, float64(vocals+2), res.Changes[state.StatVocals].New)

	p := s.Player()
	assert.Equal(t, 150.0, p.Resource(state.ResourceMoney))
	assert.True(t, p.HasFlag("dedicated"))
	assert.Equal(t, state.PhaseOpportunity, p.Phase)
	assert.Equal(t, "Practice every day - vocals +2, money -$50", p.GameLog[len(p.GameLog)-1].Text)
	assert.Nil(t, s.CurrentQuestion())
	require.NotNil(t, s.CurrentOpportunity())
	assert.Equal(t, "open_mic", s.CurrentOpportunity().ID)
}

func TestSession_ChooseOpportunity(t *testing.T) {
	s := startSession(t, testCatalog())
	_, err := s.ChooseOption(0)
	require.NoError(t, err)

	_, err = s.ChooseOption(0)
	assert.ErrorIs(t, err, ErrWrongPhase)
	_, err = s.ChooseOpportunity(1)
	assert.ErrorIs(t, err, ErrInvalidChoice)

	res, err := s.ChooseOpportunity(0)
	require.NoError(t, err)
	require.NotNil(t, res.Outcome)
	assert.Equal(t, "The crowd loved it", res.Outcome.Outcome.Text)
	assert.Equal(t, 100.0, res.Changes[state.ResourceAudience].Change)
	require.NotEmpty(t, res.Aging)
	assert.Equal(t, state.StartingAge, res.Aging[0].FromAge)

	p := s.Player()
	assert.True(t, p.HasFlag("performer"))
	assert.GreaterOrEqual(t, p.Age, 18)
	assert.LessOrEqual(t, p.Age, 20)
	assert.Equal(t, 1, p.PhaseCount)
	assert.Equal(t, state.PhaseDecision, p.Phase)
	require.NotNil(t, s.CurrentQuestion(), "single question is offered again after the pool resets")

	texts := logTexts(p)
	assert.Contains(t, texts, "Play an original: The crowd loved it - audience +100")
	assert.Contains(t, texts, "Turned "+strconv.Itoa(p.Age)+".")
}

func TestSession_Bankruptcy(t *testing.T) {
	s := startSession(t, testCatalog())

	res, err := s.ChooseOption(1)
	require.NoError(t, err)
	require.NotNil(t, res.GameOver)
	assert.Equal(t, GameOverBankruptcy, res.GameOver.Type)
	assert.Equal(t, -1850.0, s.Player().Resource(state.ResourceMoney))
	assert.Nil(t, s.CurrentQuestion())
	assert.Nil(t, s.CurrentOpportunity())

	texts := logTexts(s.Player())
	assert.Contains(t, texts, "Buy a vintage guitar - money -$2,050")
	assert.True(t, strings.HasPrefix(texts[len(texts)-1], "GAME OVER: "))

	_, err = s.Choose(0)
	assert.ErrorIs(t, err, ErrGameOver)
	assert.ErrorIs(t, s.Reroll(), ErrGameOver)
	assert.Nil(t, s.Snapshot().Prompt)
	assert.Equal(t, GameOverBankruptcy, s.Snapshot().GameOver.Type)
}

func TestSession_VictoryDoesNotEndGame(t *testing.T) {
	s := startSession(t, testCatalog())
	_, err := s.ChooseOption(0)
	require.NoError(t, err)
	s.player.SetResource(state.ResourceMoney, 2_000_000)

	res, err := s.ChooseOpportunity(0)
	require.NoError(t, err)
	assert.Nil(t, res.GameOver)
	assert.Equal(t, []VictoryType{VictoryMillionaire}, victoryTypes(res.Victories))
	assert.Equal(t, state.PhaseDecision, s.Player().Phase)
	assert.Greater(t, s.Player().Age, state.StartingAge)

	// Second time around the victory is still reported but logged once.
	_, err = s.ChooseOption(0)
	require.NoError(t, err)
	res, err = s.ChooseOpportunity(0)
	require.NoError(t, err)
	assert.Equal(t, []VictoryType{VictoryMillionaire}, victoryTypes(res.Victories))
	assert.Len(t, s.Victories(), 1)

	logged := 0
	for _, text := range logTexts(s.Player()) {
		if strings.HasPrefix(text, "VICTORY") {
			logged++
		}
	}
	assert.Equal(t, 1, logged)
}

func TestSession_SkipsEmptyPhases(t *testing.T) {
	t.Run("no decisions", func(t *testing.T) {
		c := testCatalog()
		c.Questions[0].AgeRange = content.AgeRange{40, 50}
		s := newTestSession(t, c)
		require.NoError(t, s.Start("Sam"))

		p := s.Player()
		assert.Equal(t, state.PhaseOpportunity, p.Phase)
		assert.Contains(t, logTexts(p), "No decisions available at age 15.")
		assert.NotNil(t, s.CurrentOpportunity())
	})

	t.Run("no opportunities", func(t *testing.T) {
		c := testCatalog()
		c.Opportunities = nil
		s := startSession(t, c)

		res, err := s.ChooseOption(0)
		require.NoError(t, err)
		require.Len(t, res.Aging, 1)
		assert.Contains(t, logTexts(s.Player()), "No opportunities came along at age 15.")
		assert.Equal(t, state.PhaseDecision, s.Player().Phase)
		assert.NotNil(t, s.CurrentQuestion())
	})

	t.Run("no content at all", func(t *testing.T) {
		s := newTestSession(t, &content.Catalog{})
		require.NoError(t, s.Start("Sam"))
		require.NotNil(t, s.GameOver(), "aging alone must end the game")
		assert.Nil(t, s.Snapshot().Prompt)
	})
}

func TestSession_ResetAndReroll(t *testing.T) {
	s := startSession(t, testCatalog())
	first := s.Player().Stats
	require.NoError(t, s.Reroll())
	assert.Equal(t, "Alex", s.Player().Name)
	assert.Len(t, s.Player().GameLog, 1)
	assert.Len(t, s.Player().Stats, len(first))

	s.Reset()
	p := s.Player()
	assert.False(t, p.Initialized)
	assert.Empty(t, p.GameLog)
	assert.Equal(t, 200.0, p.Resource(state.ResourceMoney))
	assert.Nil(t, s.Snapshot().Prompt)
	assert.Nil(t, s.GameOver())
	assert.Empty(t, s.Victories())

	_, err := s.Choose(0)
	assert.ErrorIs(t, err, ErrNotStarted)

	require.NoError(t, s.Start("Jordan"))
	assert.NotNil(t, s.CurrentQuestion())
}

func TestSession_SnapshotIsACopy(t *testing.T) {
	s := startSession(t, testCatalog())
	snap := s.Snapshot()
	snap.Player.Stats[state.StatVocals] = 99
	snap.Player.GameLog[0].Text = "changed"

	assert.NotEqual(t, 99, s.Player().Stat(state.StatVocals))
	assert.Equal(t, "Alex begins their musical journey...", s.Player().GameLog[0].Text)
}

func playToEnd(t *testing.T, seed int64) *Session {
	t.Helper()
	s, err := NewSessionFromCatalog(testCatalog(), WithRandom(rng.New(seed)))
	require.NoError(t, err)
	require.NoError(t, s.Start("Robin"))

	for turn := 0; turn < 1000 && s.GameOver() == nil; turn++ {
		_, err := s.Choose(0)
		require.NoError(t, err)

		p := s.Player()
		for _, name := range state.StatNames {
			v := p.Stat(name)
			require.GreaterOrEqual(t, v, state.StatMin, "stat %s", name)
			require.LessOrEqual(t, v, state.StatMax, "stat %s", name)
		}
		for _, name := range state.ResourceNames {
			if name != state.ResourceMoney {
				require.GreaterOrEqual(t, p.Resource(name), 0.0, "resource %s", name)
			}
		}
	}
	return s
}

func TestSession_FullGame(t *testing.T) {
	s := playToEnd(t, 99)
	require.NotNil(t, s.GameOver(), "game should end")
	assert.LessOrEqual(t, s.Player().Age, MaxAge+5)

	again := playToEnd(t, 99)
	assert.Equal(t, logTexts(s.Player()), logTexts(again.Player()), "same seed replays the same career")
}
