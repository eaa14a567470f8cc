package content

import (
	"errors"
	"fmt"
)

// MalformedContentError identifies a content entry that cannot be played.
type MalformedContentError struct {
	Collection string
	ID         string
	Reason     string
}

func (e *MalformedContentError) Error() string {
	return fmt.Sprintf("malformed content: %s %q: %s", e.Collection, e.ID, e.Reason)
}

// ErrMalformedContent matches any *MalformedContentError with errors.Is.
var ErrMalformedContent = errors.New("malformed content")

func (e *MalformedContentError) Is(target error) bool {
	return target == ErrMalformedContent
}

func malformed(collection, id, format string, args ...any) *MalformedContentError {
	return &MalformedContentError{Collection: collection, ID: id, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks every entry and returns the first problem found.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool)
	for i, q := range c.Questions {
		id, err := checkHeader(CollectionQuestions, i, q.ID, q.AgeRange, seen)
		if err != nil {
			return err
		}
		if q.Text == "" {
			return malformed(CollectionQuestions, id, "missing text")
		}
		if len(q.Options) == 0 {
			return malformed(CollectionQuestions, id, "no options")
		}
		for j, opt := range q.Options {
			if opt.Text == "" {
				return malformed(CollectionQuestions, id, "option %d has no text", j)
			}
		}
	}

	seen = make(map[string]bool)
	for i, o := range c.Opportunities {
		id, err := checkHeader(CollectionOpportunities, i, o.ID, o.AgeRange, seen)
		if err != nil {
			return err
		}
		if o.Title == "" {
			return malformed(CollectionOpportunities, id, "missing title")
		}
		if len(o.Choices) == 0 {
			return malformed(CollectionOpportunities, id, "no choices")
		}
		for j, ch := range o.Choices {
			if ch.Text == "" {
				return malformed(CollectionOpportunities, id, "choice %d has no text", j)
			}
			if len(ch.Outcomes) == 0 {
				return malformed(CollectionOpportunities, id, "choice %d has no outcomes", j)
			}
			for k, out := range ch.Outcomes {
				if out.Weight < 0 {
					return malformed(CollectionOpportunities, id, "choice %d outcome %d has negative weight", j, k)
				}
			}
			if ch.TotalWeight() <= 0 {
				return malformed(CollectionOpportunities, id, "choice %d has no positive outcome weight", j)
			}
		}
	}

	seen = make(map[string]bool)
	for i, e := range c.Events {
		if _, err := checkHeader(CollectionEvents, i, e.ID, e.AgeRange, seen); err != nil {
			return err
		}
	}

	return nil
}

func checkHeader(collection string, index int, id string, ages AgeRange, seen map[string]bool) (string, error) {
	if id == "" {
		return "", malformed(collection, fmt.Sprintf("#%d", index), "missing id")
	}
	if seen[id] {
		return id, malformed(collection, id, "duplicate id")
	}
	seen[id] = true
	if ages[0] > ages[1] {
		return id, malformed(collection, id, "ageRange [%d, %d] is inverted", ages[0], ages[1])
	}
	return id, nil
}
