package model

// ReactionCounts holds the per-category reaction totals of a post.
type ReactionCounts struct {
	Relatable int `json:"relatable"`
	Hot       int `json:"hot"`
	FeltThis  int `json:"feltThis"`
	Curious   int `json:"curious"`
	Sad       int `json:"sad"`
	TooMuch   int `json:"tooMuch"`
}

// Get returns the count for reaction type t, zero for unknown types.
func (c ReactionCounts) Get(t string) int {
	if p := c.field(t); p != nil {
		return *p
	}
	return 0
}

// With returns a copy with the count for t set to n. Negative values clamp
// to zero and unknown types are ignored.
func (c ReactionCounts) With(t string, n int) ReactionCounts {
	if n < 0 {
		n = 0
	}
	if p := c.field(t); p != nil {
		*p = n
	}
	return c
}

// Total is the sum of all categories.
func (c ReactionCounts) Total() int {
	return c.Relatable + c.Hot + c.FeltThis + c.Curious + c.Sad + c.TooMuch
}

// Map returns the counts keyed by reaction type.
func (c ReactionCounts) Map() map[string]int {
	return map[string]int{
		"relatable": c.Relatable,
		"hot":       c.Hot,
		"feltThis":  c.FeltThis,
		"curious":   c.Curious,
		"sad":       c.Sad,
		"tooMuch":   c.TooMuch,
	}
}

func (c *ReactionCounts) field(t string) *int {
	switch t {
	case "relatable":
		return &c.Relatable
	case "hot":
		return &c.Hot
	case "feltThis":
		return &c.FeltThis
	case "curious":
		return &c.Curious
	case "sad":
		return &c.Sad
	case "tooMuch":
		return &c.TooMuch
	}
	return nil
}
