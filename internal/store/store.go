// Package store persists the kith network in a local SQLite database.
//
// The database is a single file, created on first open together with its
// schema. All rows are scoped to an owner so the schema stays compatible
// with multi-network use, even though the CLI only ever bootstraps one
// default owner.
package store

import (
	"context"
	"errors"

	"github.com/MrWong99/kith/internal/model"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// PersonStore manages contacts in a network.
type PersonStore interface {
	// CreatePerson inserts p into the owner's network.
	CreatePerson(ctx context.Context, ownerID string, p model.Person) error

	// ActivePeople returns every non-archived contact, including the self
	// person.
	ActivePeople(ctx context.Context, ownerID string) ([]model.Person, error)

	// ActiveNames returns the names of non-archived contacts, excluding the
	// self person. This is the contact list handed to the AI parser.
	ActiveNames(ctx context.Context, ownerID string) ([]string, error)
}

// InteractionStore records logged interactions.
type InteractionStore interface {
	// LogInteraction stores in for the given person, topics included,
	// atomically.
	LogInteraction(ctx context.Context, ownerID, personID string, in model.Interaction) error
}

// CorrectionStore records AI parse corrections for the feedback loop.
type CorrectionStore interface {
	// InsertCorrection saves one divergence between the AI parse and the
	// user's saved version.
	InsertCorrection(ctx context.Context, ownerID, originalText, aiOutput, userOutput string) error

	// RecentCorrections returns up to limit corrections, most recent first.
	RecentCorrections(ctx context.Context, ownerID string, limit int) ([]model.CorrectionExample, error)
}
