package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidSnapshot marks structurally malformed snapshot data on restore.
var ErrInvalidSnapshot = errors.New("invalid knowledge snapshot")

// Metrics are the engine counters carried inside a snapshot so that an
// export/import round trip preserves them.
type Metrics struct {
	TotalQueries          int64   `json:"totalQueries"`
	BaseTemplateResponses int64   `json:"baseTemplateResponses"`
	ExternalAPICalls      int64   `json:"externalApiCalls"`
	LearningEvents        int64   `json:"learningEvents"`
	AverageConfidence     float64 `json:"averageConfidence"`
}

// Pair serializes as a two-element array [id, entry], matching the persisted
// layout `{ knowledge: [[id, entry], ...], metrics: {...}, lastSaved: ... }`.
type Pair struct {
	ID    string
	Entry Entry
}

func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.ID, p.Entry})
}

func (p *Pair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: knowledge pair is not an array", ErrInvalidSnapshot)
	}
	if len(raw) != 2 {
		return fmt.Errorf("%w: knowledge pair has %d elements, want 2", ErrInvalidSnapshot, len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.ID); err != nil {
		return fmt.Errorf("%w: pair id is not a string", ErrInvalidSnapshot)
	}
	if err := json.Unmarshal(raw[1], &p.Entry); err != nil {
		return fmt.Errorf("%w: pair entry malformed", ErrInvalidSnapshot)
	}
	return nil
}

// Snapshot is the wholesale export of a store plus its counters.
type Snapshot struct {
	Knowledge []Pair  `json:"knowledge"`
	Metrics   Metrics `json:"metrics"`
	LastSaved int64   `json:"lastSaved"`
}

// Validate checks the structural invariants restore depends on.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	for i, p := range s.Knowledge {
		if p.ID == "" {
			return fmt.Errorf("%w: entry %d has empty id", ErrInvalidSnapshot, i)
		}
		if p.Entry.Content == "" {
			return fmt.Errorf("%w: entry %q has empty content", ErrInvalidSnapshot, p.ID)
		}
	}
	return nil
}
