package content

// Collection names, also used as file and key names by content sources.
const (
	CollectionQuestions     = "questions"
	CollectionOpportunities = "opportunities"
	CollectionEvents        = "events"
)

// Collections lists every collection a catalog holds.
var Collections = []string{CollectionQuestions, CollectionOpportunities, CollectionEvents}

// Catalog holds the content of a session. It is never mutated after loading.
type Catalog struct {
	Questions     []Question    `json:"questions" yaml:"questions"`
	Opportunities []Opportunity `json:"opportunities" yaml:"opportunities"`
	Events        []Event       `json:"events,omitempty" yaml:"events,omitempty"`
}

// Question returns the question with the given id.
func (c *Catalog) Question(id string) (*Question, bool) {
	for i := range c.Questions {
		if c.Questions[i].ID == id {
			return &c.Questions[i], true
		}
	}
	return nil, false
}

// Opportunity returns the opportunity with the given id.
func (c *Catalog) Opportunity(id string) (*Opportunity, bool) {
	for i := range c.Opportunities {
		if c.Opportunities[i].ID == id {
			return &c.Opportunities[i], true
		}
	}
	return nil, false
}

// Counts returns the number of entries per collection, for logging.
func (c *Catalog) Counts() map[string]int {
	return map[string]int{
		CollectionQuestions:     len(c.Questions),
		CollectionOpportunities: len(c.Opportunities),
		CollectionEvents:        len(c.Events),
	}
}
