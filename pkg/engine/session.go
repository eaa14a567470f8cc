package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jwebster45206/musilife/pkg/conditionals"
	"github.com/jwebster45206/musilife/pkg/content"
	"github.com/jwebster45206/musilife/pkg/display"
	"github.com/jwebster45206/musilife/pkg/rng"
	"github.com/jwebster45206/musilife/pkg/state"
	"github.com/jwebster45206/musilife/pkg/storage"
)

// Session drives one player through the decision -> opportunity -> aging cycle.
// A Session is not safe for concurrent use.
type Session struct {
	catalog  *content.Catalog
	player   *state.PlayerState
	rng      rng.Source
	renderer Renderer
	base     *slog.Logger
	logger   *slog.Logger

	question    *content.Question
	opportunity *content.Opportunity
	gameOver    *GameOver
	victories   []Victory
	achieved    map[VictoryType]bool
}

// Option configures a Session.
type Option func(*Session)

// WithRandom sets the randomness source. Defaults to a time-seeded generator.
func WithRandom(src rng.Source) Option {
	return func(s *Session) { s.rng = src }
}

// WithRenderer sets the render collaborator.
func WithRenderer(r Renderer) Option {
	return func(s *Session) { s.renderer = r }
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// TurnResult describes what a single choice did.
type TurnResult struct {
	Changes   ChangeRecord   `json:"changes"`
	Outcome   *OutcomeResult `json:"outcome,omitempty"`
	Aging     []AgingReport  `json:"aging,omitempty"`
	GameOver  *GameOver      `json:"game_over,omitempty"`
	Victories []Victory      `json:"victories,omitempty"`
}

// NewSession loads content from src once and returns a session ready to Start.
// Load failures wrap storage.ErrContentUnavailable; invalid content returns a
// *content.MalformedContentError.
func NewSession(ctx context.Context, src storage.Storage, opts ...Option) (*Session, error) {
	catalog, err := src.LoadCatalog(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrContentUnavailable) {
			err = fmt.Errorf("%w: %w", storage.ErrContentUnavailable, err)
		}
		return nil, err
	}
	return NewSessionFromCatalog(catalog, opts...)
}

// NewSessionFromCatalog validates catalog and returns a session ready to Start.
func NewSessionFromCatalog(catalog *content.Catalog, opts ...Option) (*Session, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: nil catalog", storage.ErrContentUnavailable)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		catalog:  catalog,
		player:   state.New(),
		renderer: nopRenderer{},
		achieved: make(map[VictoryType]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rng.New(0)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.base = s.logger

	s.logger.Debug("Session created", "content", catalog.Counts())
	return s, nil
}

// Start begins a new career for name and presents the first decision.
func (s *Session) Start(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}

	s.clear()
	s.player.Initialize(name, s.rng)
	s.logger = s.base.With("session_id", s.player.ID.String())
	s.logger.Info("Game started", "name", name, "stats", s.player.Stats, "resources", s.player.Resources)

	s.proceed(state.PhaseDecision)
	s.render()
	return nil
}

// Reset discards the current game and returns to the pristine state.
func (s *Session) Reset() {
	s.logger.Info("Game reset")
	s.clear()
	s.player.Reset()
	s.render()
}

// Reroll redraws the starting stats and resources of a running game.
func (s *Session) Reroll() error {
	if err := s.checkPlayable(); err != nil {
		return err
	}
	s.player.Reroll(s.rng)
	s.logger.Debug("Stats rerolled", "stats", s.player.Stats, "resources", s.player.Resources)
	s.render()
	return nil
}

// Choose answers the active prompt, whichever phase it belongs to.
func (s *Session) Choose(index int) (*TurnResult, error) {
	if err := s.checkPlayable(); err != nil {
		return nil, err
	}
	if s.question != nil {
		return s.ChooseOption(index)
	}
	if s.opportunity != nil {
		return s.ChooseOpportunity(index)
	}
	return nil, ErrWrongPhase
}

// ChooseOption answers the current question.
func (s *Session) ChooseOption(index int) (*TurnResult, error) {
	if err := s.checkPlayable(); err != nil {
		return nil, err
	}
	q := s.question
	if q == nil {
		return nil, ErrWrongPhase
	}
	if index < 0 || index >= len(q.Options) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChoice, index)
	}
	opt := &q.Options[index]
	if !conditionals.Evaluate(opt.Requires, s.player) {
		reasons := conditionals.Failing(opt.Requires, s.player)
		return nil, fmt.Errorf("%w: %s", ErrOptionLocked, strings.Join(reasons, ", "))
	}

	s.question = nil
	changes := ApplyEffects(s.player, opt.Effects)
	unlocked := MergeFlags(s.player, opt.Unlocks)
	s.player.AddLogEntry(opt.Text + " - " + changes.String())
	s.logger.Info("Decision made",
		"question_id", q.ID,
		"option", index,
		"changes", changes.String(),
		"unlocked", unlocked)

	result := &TurnResult{Changes: changes}
	if s.checkGameOver(result) {
		s.render()
		return result, nil
	}

	result.Aging = s.proceed(state.PhaseOpportunity)
	result.GameOver = s.gameOver
	s.render()
	return result, nil
}

// ChooseOpportunity answers the current opportunity.
func (s *Session) ChooseOpportunity(index int) (*TurnResult, error) {
	if err := s.checkPlayable(); err != nil {
		return nil, err
	}
	o := s.opportunity
	if o == nil {
		return nil, ErrWrongPhase
	}
	if index < 0 || index >= len(o.Choices) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChoice, index)
	}
	choice := &o.Choices[index]

	s.opportunity = nil
	outcome := ResolveOpportunity(s.player, choice, s.rng)
	changes := ApplyEffects(s.player, outcome.Outcome.Effects)
	s.player.AddLogEntry(fmt.Sprintf("%s: %s - %s", choice.Text, outcome.Outcome.Text, changes.String()))
	s.logger.Info("Opportunity resolved",
		"opportunity_id", o.ID,
		"choice", index,
		"outcome", outcome.Index,
		"score", outcome.Score,
		"roll", outcome.Roll,
		"changes", changes.String())

	result := &TurnResult{Changes: changes, Outcome: &outcome}
	if s.checkGameOver(result) {
		s.render()
		return result, nil
	}

	result.Victories = s.checkVictory()

	report := s.advanceAge()
	result.Aging = append(result.Aging, report)
	if s.gameOver == nil {
		result.Aging = append(result.Aging, s.proceed(state.PhaseDecision)...)
	}
	result.GameOver = s.gameOver
	s.render()
	return result, nil
}

// proceed enters phase and keeps moving until a prompt is presented or the
// game ends. Phases with no eligible content are skipped with a log notice.
func (s *Session) proceed(phase state.Phase) []AgingReport {
	var reports []AgingReport
	for s.gameOver == nil {
		s.player.Phase = phase
		switch phase {
		case state.PhaseDecision:
			if s.drawQuestion() {
				return reports
			}
			s.player.AddLogEntry(fmt.Sprintf("No decisions available at age %d.", s.player.Age))
			phase = state.PhaseOpportunity
		case state.PhaseOpportunity:
			if s.drawOpportunity() {
				return reports
			}
			s.player.AddLogEntry(fmt.Sprintf("No opportunities came along at age %d.", s.player.Age))
			reports = append(reports, s.advanceAge())
			phase = state.PhaseDecision
		default:
			return reports
		}
	}
	return reports
}

func (s *Session) drawQuestion() bool {
	sel := AvailableQuestions(s.catalog, s.player)
	if sel.Reset {
		s.logger.Debug("Question pool exhausted, history cleared", "age", s.player.Age)
	}
	if len(sel.Items) == 0 {
		return false
	}
	q := sel.Items[rng.Index(s.rng, len(sel.Items))]
	s.player.UsedQuestions[q.ID] = true
	s.question = q
	s.logger.Debug("Question drawn", "question_id", q.ID, "pool", len(sel.Items))
	return true
}

func (s *Session) drawOpportunity() bool {
	sel := AvailableOpportunities(s.catalog, s.player)
	if sel.Reset {
		s.logger.Debug("Opportunity pool exhausted, history cleared", "age", s.player.Age)
	}
	if len(sel.Items) == 0 {
		return false
	}
	o := sel.Items[rng.Index(s.rng, len(sel.Items))]
	s.player.UsedOpportunities[o.ID] = true
	s.opportunity = o
	s.logger.Debug("Opportunity drawn", "opportunity_id", o.ID, "pool", len(sel.Items))
	return true
}

// advanceAge ages the player, applies the aging model and re-checks for a loss.
func (s *Session) advanceAge() AgingReport {
	fromAge := s.player.Age
	AdvanceAge(s.player, s.rng)
	s.player.AddLogEntry(fmt.Sprintf("Turned %d.", s.player.Age))

	report := ApplyAging(s.player, s.rng)
	report.FromAge = fromAge
	if len(report.Items) > 0 {
		s.player.AddLogEntry(report.Summary())
		for _, item := range report.Items {
			s.player.AddLogEntry("  " + item.Text)
		}
	}
	s.logger.Info("Aged",
		"from", fromAge,
		"to", s.player.Age,
		"net_money", report.NetMoney,
		"net_health", report.NetHealth)

	if over := CheckGameOver(s.player); over != nil {
		s.endGame(over)
	}
	return report
}

func (s *Session) checkGameOver(result *TurnResult) bool {
	over := CheckGameOver(s.player)
	if over == nil {
		return false
	}
	s.endGame(over)
	result.GameOver = over
	return true
}

func (s *Session) endGame(over *GameOver) {
	s.gameOver = over
	s.question = nil
	s.opportunity = nil
	s.player.AddLogEntry("GAME OVER: " + over.Message)
	s.logger.Info("Game over", "type", over.Type, "age", s.player.Age)
}

// checkVictory returns every victory currently met and logs those reached for the first time.
func (s *Session) checkVictory() []Victory {
	wins := CheckVictory(s.player)
	for _, v := range wins {
		if s.achieved[v.Type] {
			continue
		}
		s.achieved[v.Type] = true
		s.victories = append(s.victories, v)
		s.player.AddLogEntry(fmt.Sprintf("VICTORY (%s): %s", display.Title(string(v.Type)), v.Message))
		s.logger.Info("Victory reached", "type", v.Type, "age", s.player.Age)
	}
	return wins
}

func (s *Session) checkPlayable() error {
	if !s.player.Initialized {
		return ErrNotStarted
	}
	if s.gameOver != nil {
		return ErrGameOver
	}
	return nil
}

func (s *Session) clear() {
	s.question = nil
	s.opportunity = nil
	s.gameOver = nil
	s.victories = nil
	s.achieved = make(map[VictoryType]bool)
}

func (s *Session) render() {
	s.renderer.Render(s.Snapshot())
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Player:    s.player.Clone(),
		GameOver:  s.gameOver,
		Victories: append([]Victory(nil), s.victories...),
	}
	switch {
	case s.question != nil:
		snap.Prompt = questionPrompt(s.question, s.player)
	case s.opportunity != nil:
		snap.Prompt = opportunityPrompt(s.opportunity)
	}
	return snap
}

// Player returns a copy of the player state.
func (s *Session) Player() *state.PlayerState {
	return s.player.Clone()
}

// CurrentQuestion returns the active question, or nil.
func (s *Session) CurrentQuestion() *content.Question {
	return s.question
}

// CurrentOpportunity returns the active opportunity, or nil.
func (s *Session) CurrentOpportunity() *content.Opportunity {
	return s.opportunity
}

// GameOver returns the loss that ended the game, or nil.
func (s *Session) GameOver() *GameOver {
	return s.gameOver
}

// Victories returns the victories reached so far, in order.
func (s *Session) Victories() []Victory {
	return append([]Victory(nil), s.victories...)
}

// Catalog returns the session content.
func (s *Session) Catalog() *content.Catalog {
	return s.catalog
}
