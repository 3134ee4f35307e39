// Package resolve maps free-text person names to known contacts.
//
// Matching is deliberately conservative: a case-insensitive substring match
// against each candidate's name or nickname, with an exact full-name
// equality tie-break when several candidates match. The resolver never
// guesses among true ambiguity: callers receive the full candidate list and
// must re-prompt with a more specific name.
//
// For names that match nothing, [Resolver.Suggest] offers the closest
// existing contact by Jaro-Winkler similarity, so the "add new contact?"
// prompt can point out probable misspellings.
package resolve

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/MrWong99/kith/internal/model"
)

// defaultSuggestionThreshold is the minimum Jaro-Winkler score for a
// suggestion to be offered on a failed resolution.
const defaultSuggestionThreshold = 0.80

// State is the outcome kind of a resolution attempt.
type State int

const (
	// Resolved means exactly one contact matched (possibly via tie-break).
	Resolved State = iota

	// Ambiguous means several contacts matched and no tie-break applied.
	Ambiguous

	// NotFound means no contact matched at all.
	NotFound
)

// Resolution is the result of resolving one name against the contact pool.
// Exactly one of Person (Resolved) or Candidates (Ambiguous) is meaningful;
// both are zero for NotFound.
type Resolution struct {
	State      State
	Person     model.Person
	Candidates []model.Person
}

// Option is a functional option for configuring a [Resolver].
type Option func(*Resolver)

// WithSuggestionThreshold sets the minimum Jaro-Winkler similarity required
// before Suggest offers a candidate. Default: 0.80.
func WithSuggestionThreshold(threshold float64) Option {
	return func(r *Resolver) { r.suggestionThreshold = threshold }
}

// Resolver resolves free-text names against a pool of known contacts.
// It is read-only after construction and safe for concurrent use.
type Resolver struct {
	suggestionThreshold float64
}

// New returns a [Resolver] configured with the supplied options.
func New(opts ...Option) *Resolver {
	r := &Resolver{suggestionThreshold: defaultSuggestionThreshold}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve maps name to a contact from pool.
//
// Match rule: case-insensitive substring match against each candidate's name
// or nickname. One match resolves directly. Among multiple matches, an exact
// case-insensitive full-name equality wins as a tie-break; otherwise the
// full match list is returned as Ambiguous. No matches yield NotFound.
func (r *Resolver) Resolve(name string, pool []model.Person) Resolution {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Resolution{State: NotFound}
	}

	var matches []model.Person
	for _, p := range pool {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matches = append(matches, p)
			continue
		}
		if p.Nickname != "" && strings.Contains(strings.ToLower(p.Nickname), needle) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return Resolution{State: NotFound}
	case 1:
		return Resolution{State: Resolved, Person: matches[0]}
	default:
		for _, p := range matches {
			if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
				return Resolution{State: Resolved, Person: p}
			}
		}
		return Resolution{State: Ambiguous, Candidates: matches}
	}
}

// Suggest returns the pool entry whose name is most similar to name by
// Jaro-Winkler score, provided the score reaches the configured threshold.
// Intended for "did you mean?" hints after a NotFound resolution.
func (r *Resolver) Suggest(name string, pool []model.Person) (model.Person, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return model.Person{}, false
	}

	var (
		best      model.Person
		bestScore float64
	)
	for _, p := range pool {
		score := matchr.JaroWinkler(needle, strings.ToLower(p.Name), false)
		if p.Nickname != "" {
			if s := matchr.JaroWinkler(needle, strings.ToLower(p.Nickname), false); s > score {
				score = s
			}
		}
		if score > bestScore {
			best = p
			bestScore = score
		}
	}

	if bestScore < r.suggestionThreshold {
		return model.Person{}, false
	}
	return best, true
}
