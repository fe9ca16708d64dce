package sbomstatus

// History is the ordered, append-only record of observations made during a
// single run. Insertion order is attempt order.
//
// History is owned by one run and is not safe for concurrent use.
type History struct {
	observations []Observation
}

// NewHistory returns an empty history with room for capacity observations.
func NewHistory(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{observations: make([]Observation, 0, capacity)}
}

// Append records an observation.
func (h *History) Append(o Observation) {
	h.observations = append(h.observations, o)
}

// Len returns the number of observations recorded.
func (h *History) Len() int {
	return len(h.observations)
}

// Last returns the most recent observation.
// The second return value is false when the history is empty.
func (h *History) Last() (Observation, bool) {
	if len(h.observations) == 0 {
		return Observation{}, false
	}
	return h.observations[len(h.observations)-1], true
}

// All returns a copy of every observation in attempt order.
func (h *History) All() []Observation {
	cp := make([]Observation, len(h.observations))
	copy(cp, h.observations)
	return cp
}
