package engine

import (
	"github.com/jwebster45206/musilife/pkg/conditionals"
	"github.com/jwebster45206/musilife/pkg/content"
	"github.com/jwebster45206/musilife/pkg/state"
)

// Renderer receives the full session state after every mutation.
// Render must be idempotent.
type Renderer interface {
	Render(snap Snapshot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Snapshot)

func (f RendererFunc) Render(snap Snapshot) { f(snap) }

type nopRenderer struct{}

func (nopRenderer) Render(Snapshot) {}

// PromptOption is one selectable answer of the current prompt.
type PromptOption struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Locked  bool     `json:"locked,omitempty"`
	Reasons []string `json:"reasons,omitempty"` // Unmet requirements when locked
}

// Prompt is the question or opportunity awaiting an answer.
type Prompt struct {
	Kind    state.Phase    `json:"kind"`
	ID      string         `json:"id"`
	Title   string         `json:"title,omitempty"`
	Text    string         `json:"text"`
	Options []PromptOption `json:"options"`
}

// Snapshot is a copy of the session for presentation.
type Snapshot struct {
	Player    *state.PlayerState `json:"player"`
	Prompt    *Prompt            `json:"prompt,omitempty"`
	GameOver  *GameOver          `json:"game_over,omitempty"`
	Victories []Victory          `json:"victories,omitempty"`
}

func questionPrompt(q *content.Question, p *state.PlayerState) *Prompt {
	prompt := &Prompt{Kind: state.PhaseDecision, ID: q.ID, Title: q.Title, Text: q.Text}
	for i, opt := range q.Options {
		po := PromptOption{Index: i, Text: opt.Text}
		if !conditionals.Evaluate(opt.Requires, p) {
			po.Locked = true
			po.Reasons = conditionals.Failing(opt.Requires, p)
		}
		prompt.Options = append(prompt.Options, po)
	}
	return prompt
}

func opportunityPrompt(o *content.Opportunity) *Prompt {
	prompt := &Prompt{Kind: state.PhaseOpportunity, ID: o.ID, Title: o.Title, Text: o.Description}
	for i, ch := range o.Choices {
		prompt.Options = append(prompt.Options, PromptOption{Index: i, Text: ch.Text})
	}
	return prompt
}
