package content

import "github.com/jwebster45206/musilife/pkg/conditionals"

// AgeRange is an inclusive [min, max] age window.
type AgeRange [2]int

// Contains reports whether age falls inside the window.
func (a AgeRange) Contains(age int) bool {
	return a[0] <= age && age <= a[1]
}

// Question is a decision offered during the decision phase.
type Question struct {
	ID       string                 `json:"id" yaml:"id"`
	AgeRange AgeRange               `json:"ageRange" yaml:"ageRange"`
	Requires *conditionals.Requires `json:"requires,omitempty" yaml:"requires,omitempty"`
	Title    string                 `json:"title,omitempty" yaml:"title,omitempty"`
	Text     string                 `json:"text" yaml:"text"`
	Options  []Option               `json:"options" yaml:"options"`
}

// Option is one answer to a question.
type Option struct {
	Text     string                 `json:"text" yaml:"text"`
	Requires *conditionals.Requires `json:"requires,omitempty" yaml:"requires,omitempty"`
	Effects  Effects                `json:"effects" yaml:"effects"`
	Unlocks  []string               `json:"unlocks,omitempty" yaml:"unlocks,omitempty"` // Flags set when chosen
}

// Opportunity is offered during the opportunity phase. Each choice resolves
// to one of several weighted outcomes.
type Opportunity struct {
	ID          string                 `json:"id" yaml:"id"`
	AgeRange    AgeRange               `json:"ageRange" yaml:"ageRange"`
	Requires    *conditionals.Requires `json:"requires,omitempty" yaml:"requires,omitempty"`
	Title       string                 `json:"title" yaml:"title"`
	Description string                 `json:"description" yaml:"description"`
	Choices     []Choice               `json:"choices" yaml:"choices"`
}

// Choice is one way to approach an opportunity.
type Choice struct {
	Text     string    `json:"text" yaml:"text"`
	Formula  Formula   `json:"formula" yaml:"formula"`
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
}

// Formula weights stats into a player score.
type Formula struct {
	Weights map[string]float64 `json:"weights" yaml:"weights"`
}

// Outcome is one possible result of a choice.
type Outcome struct {
	Text    string  `json:"text" yaml:"text"`
	Weight  float64 `json:"weight" yaml:"weight"`
	Effects Effects `json:"effects" yaml:"effects"`
}

// Event is reserved content. It is loaded and validated but never drawn.
type Event struct {
	ID       string                 `json:"id" yaml:"id"`
	AgeRange AgeRange               `json:"ageRange" yaml:"ageRange"`
	Requires *conditionals.Requires `json:"requires,omitempty" yaml:"requires,omitempty"`
	Title    string                 `json:"title,omitempty" yaml:"title,omitempty"`
	Text     string                 `json:"text,omitempty" yaml:"text,omitempty"`
	Options  []Option               `json:"options,omitempty" yaml:"options,omitempty"`
}

// Item is the part of a content entry the eligibility filter looks at.
type Item interface {
	ItemID() string
	Ages() AgeRange
	Requirement() *conditionals.Requires
}

func (q *Question) ItemID() string                      { return q.ID }
func (q *Question) Ages() AgeRange                      { return q.AgeRange }
func (q *Question) Requirement() *conditionals.Requires { return q.Requires }

func (o *Opportunity) ItemID() string                      { return o.ID }
func (o *Opportunity) Ages() AgeRange                      { return o.AgeRange }
func (o *Opportunity) Requirement() *conditionals.Requires { return o.Requires }

func (e *Event) ItemID() string                      { return e.ID }
func (e *Event) Ages() AgeRange                      { return e.AgeRange }
func (e *Event) Requirement() *conditionals.Requires { return e.Requires }

// TotalWeight sums the outcome weights of a choice.
func (c *Choice) TotalWeight() float64 {
	var total float64
	for _, o := range c.Outcomes {
		total += o.Weight
	}
	return total
}
