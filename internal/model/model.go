// Package model defines the core domain types for kith: people in the
// user's network, logged interactions, and the staging record produced by
// the AI parsing stage.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Medium describes how an interaction took place.
type Medium string

const (
	InPerson    Medium = "InPerson"
	TextMessage Medium = "Text"
	PhoneCall   Medium = "PhoneCall"
	VideoCall   Medium = "VideoCall"
	SocialMedia Medium = "SocialMedia"
)

// AllMediums lists every recognised medium in menu order.
var AllMediums = []Medium{InPerson, TextMessage, PhoneCall, VideoCall, SocialMedia}

// IsValid reports whether m is a recognised medium.
func (m Medium) IsValid() bool {
	switch m {
	case InPerson, TextMessage, PhoneCall, VideoCall, SocialMedia:
		return true
	}
	return false
}

// Display returns the human-readable form of the medium. Unrecognised values
// are returned as-is.
func (m Medium) Display() string {
	switch m {
	case InPerson:
		return "In Person"
	case TextMessage:
		return "Text"
	case PhoneCall:
		return "Phone Call"
	case VideoCall:
		return "Video Call"
	case SocialMedia:
		return "Social Media"
	}
	return string(m)
}

// ParseMedium converts a stored or model-produced string to a [Medium].
// ok is false when s is not one of the recognised values.
func ParseMedium(s string) (Medium, bool) {
	m := Medium(s)
	return m, m.IsValid()
}

// Person is a contact in the user's network.
type Person struct {
	ID       string
	Name     string
	Nickname string // empty when the person has no nickname
	IsSelf   bool
	Archived bool
}

// NewPerson creates a minimal person with a generated ID.
func NewPerson(name string) Person {
	return Person{ID: uuid.NewString(), Name: name}
}

// Interaction is a single logged interaction with one person.
// TheirLocation is empty for in-person interactions in the staging form but
// is mirrored from MyLocation at creation time, matching the invariant that
// in-person participants share a location.
type Interaction struct {
	ID            string
	Date          time.Time
	Medium        Medium
	MyLocation    string
	TheirLocation string // empty means not recorded
	Topics        []string
	Note          string // empty means no note
}

// NewInPersonInteraction creates an in-person interaction. TheirLocation is
// always mirrored from location.
func NewInPersonInteraction(location string, topics []string, note string, date time.Time) Interaction {
	return Interaction{
		ID:            uuid.NewString(),
		Date:          date,
		Medium:        InPerson,
		MyLocation:    location,
		TheirLocation: location,
		Topics:        topics,
		Note:          note,
	}
}

// NewRemoteInteraction creates a non-in-person interaction.
func NewRemoteInteraction(medium Medium, myLocation, theirLocation string, topics []string, note string, date time.Time) Interaction {
	return Interaction{
		ID:            uuid.NewString(),
		Date:          date,
		Medium:        medium,
		MyLocation:    myLocation,
		TheirLocation: theirLocation,
		Topics:        topics,
		Note:          note,
	}
}

// CorrectionExample records one divergence between what the AI parsed and
// what the user actually saved. AIOutput and UserOutput hold serialized
// [ParsedInteraction] JSON. Examples are immutable once created and are
// replayed verbatim as few-shot context for future parses.
type CorrectionExample struct {
	OriginalText string
	AIOutput     string
	UserOutput   string
}
