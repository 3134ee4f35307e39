package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

// ParsedInteraction is the staging record produced by the AI parsing stage.
// It is mutated field-by-field during review and consumed to produce one
// [Interaction] per resolved person; it is never persisted itself.
//
// Medium is kept as a raw string here: the parser passes unrecognised values
// through structurally, and validity is enforced at save time rather than at
// parse time.
type ParsedInteraction struct {
	PersonNames   []string `json:"person_names"`
	Medium        string   `json:"medium"`
	Location      string   `json:"location"`
	TheirLocation string   `json:"their_location,omitempty"`
	Topics        []string `json:"topics"`
	Note          string   `json:"note,omitempty"`
	Date          string   `json:"date,omitempty"` // "YYYY-MM-DD"; empty means today
}

// Clone returns a deep copy. Review edits operate on a clone so the original
// AI output survives for the correction diff.
func (p ParsedInteraction) Clone() ParsedInteraction {
	c := p
	c.PersonNames = slices.Clone(p.PersonNames)
	c.Topics = slices.Clone(p.Topics)
	return c
}

// Encode returns the canonical JSON serialization used both for structural
// comparison (did the user change anything?) and for correction example
// payloads.
func (p ParsedInteraction) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("model: encode parsed interaction: %w", err)
	}
	return string(data), nil
}

// Equal reports whether a and b serialize to the same structure.
func (p ParsedInteraction) Equal(other ParsedInteraction) bool {
	a, errA := p.Encode()
	b, errB := other.Encode()
	if errA != nil || errB != nil {
		return false
	}
	return a == b
}
