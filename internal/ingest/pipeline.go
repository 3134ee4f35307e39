// Package ingest orchestrates the AI-assisted logging flow: free text or a
// voice recording goes through parsing, interactive review, name resolution,
// and finally one stored interaction per resolved person.
//
// The pipeline owns the ordering guarantees: the Ollama server is probed
// before any expensive work, the correction example is written before the
// interaction rows so an aborted commit still teaches the parser, and a
// failure to log one person never stops the others.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MrWong99/kith/internal/model"
	"github.com/MrWong99/kith/internal/resolve"
	"github.com/MrWong99/kith/internal/review"
	"github.com/MrWong99/kith/internal/store"
	"github.com/MrWong99/kith/internal/transcribe"
	"github.com/MrWong99/kith/pkg/audio"
)

// maxCorrectionExamples caps how many past corrections feed the prompt.
const maxCorrectionExamples = 5

// Parser produces structured interactions from free text. Implemented by
// [parse.Client]; abstracted here so the pipeline can be tested without a
// model server.
type Parser interface {
	CheckReachable(ctx context.Context) error
	Parse(ctx context.Context, text string, knownNames []string, corrections []model.CorrectionExample) (*model.ParsedInteraction, error)
}

// Deps bundles the pipeline's collaborators.
type Deps struct {
	Parser       Parser
	Transcriber  transcribe.Transcriber
	People       store.PersonStore
	Interactions store.InteractionStore
	Corrections  store.CorrectionStore
	Resolver     *resolve.Resolver
	Prompter     review.Prompter
	OwnerID      string
}

// Option is a functional option for configuring a [Pipeline].
type Option func(*Pipeline)

// WithClock overrides the time source used for the default interaction date.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// Pipeline runs the end-to-end ingestion flow.
type Pipeline struct {
	deps Deps
	now  func() time.Time
}

// New creates a [Pipeline] from its collaborators.
func New(deps Deps, opts ...Option) *Pipeline {
	p := &Pipeline{deps: deps, now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// LogText parses text, runs the interactive review, and commits the result.
func (p *Pipeline) LogText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("ingest: empty interaction description")
	}
	if err := p.deps.Parser.CheckReachable(ctx); err != nil {
		return err
	}
	return p.parseAndReview(ctx, text)
}

// LogVoice decodes the WAV file at wavPath, transcribes it, lets the user
// touch up the transcript, and then follows the same path as [LogText].
func (p *Pipeline) LogVoice(ctx context.Context, wavPath string) error {
	if err := p.deps.Parser.CheckReachable(ctx); err != nil {
		return err
	}

	p.deps.Prompter.Printf("Transcribing audio (local, via Whisper)...")
	samples, err := audio.Decode(wavPath)
	if err != nil {
		return fmt.Errorf("ingest: decode %s: %w", wavPath, err)
	}
	transcript, err := p.deps.Transcriber.Transcribe(ctx, samples)
	if err != nil {
		return err
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		p.deps.Prompter.Printf("No speech detected in the audio file.")
		return nil
	}

	p.deps.Prompter.Printf("")
	p.deps.Prompter.Printf("Transcript: %s", transcript)
	p.deps.Prompter.Printf("")

	text := transcript
	if edited, ok := p.deps.Prompter.Prompt("Edit transcript before parsing (or press Enter to use as-is): "); ok {
		if edited = strings.TrimSpace(edited); edited != "" {
			text = edited
		}
	}

	return p.parseAndReview(ctx, text)
}

// parseAndReview runs the shared tail of both logging modes.
func (p *Pipeline) parseAndReview(ctx context.Context, text string) error {
	knownNames, err := p.deps.People.ActiveNames(ctx, p.deps.OwnerID)
	if err != nil {
		slog.Warn("failed to load contact names for the prompt", "error", err)
	}
	corrections, err := p.deps.Corrections.RecentCorrections(ctx, p.deps.OwnerID, maxCorrectionExamples)
	if err != nil {
		slog.Warn("failed to load correction examples", "error", err)
	}

	p.deps.Prompter.Printf("Parsing with AI (local)...")
	parsed, err := p.deps.Parser.Parse(ctx, text, knownNames, corrections)
	if err != nil {
		return err
	}

	return p.reviewAndCommit(ctx, text, *parsed)
}

// reviewAndCommit runs the review session and, when the user saves, records
// the correction diff and stores the interaction.
func (p *Pipeline) reviewAndCommit(ctx context.Context, originalText string, initial model.ParsedInteraction) error {
	aiOriginal := initial.Clone()

	final, saved := review.NewSession(p.deps.Prompter).Run(initial.Clone())
	if !saved {
		return nil
	}

	p.saveCorrection(ctx, originalText, aiOriginal, final)
	return p.commit(ctx, final)
}

// saveCorrection stores the diff between the AI parse and the user's final
// version. Intentionally best-effort: a failed correction write must never
// block the interaction itself.
func (p *Pipeline) saveCorrection(ctx context.Context, originalText string, aiOriginal, userFinal model.ParsedInteraction) {
	if aiOriginal.Equal(userFinal) {
		return
	}
	aiJSON, err := aiOriginal.Encode()
	if err != nil {
		slog.Warn("failed to encode AI parse for correction", "error", err)
		return
	}
	userJSON, err := userFinal.Encode()
	if err != nil {
		slog.Warn("failed to encode user parse for correction", "error", err)
		return
	}
	if err := p.deps.Corrections.InsertCorrection(ctx, p.deps.OwnerID, originalText, aiJSON, userJSON); err != nil {
		slog.Warn("failed to store correction", "error", err)
	}
}

// commit resolves every person name and writes one interaction per resolved
// person.
func (p *Pipeline) commit(ctx context.Context, parsed model.ParsedInteraction) error {
	if parsed.Location == "" {
		p.deps.Prompter.Printf("Error: Location is required. Please edit the location field first.")
		return nil
	}

	var resolved []model.Person
	for _, name := range parsed.PersonNames {
		if person, ok := p.resolvePerson(ctx, name); ok {
			resolved = append(resolved, person)
		}
	}

	if len(resolved) == 0 {
		p.deps.Prompter.Printf("No people resolved. Interaction not saved.")
		return nil
	}

	if len(resolved) < len(parsed.PersonNames) {
		names := make([]string, len(resolved))
		for i, person := range resolved {
			names[i] = person.Name
		}
		answer, _ := p.deps.Prompter.Prompt(fmt.Sprintf("Save interaction for: %s? (y/n): ", strings.Join(names, ", ")))
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			p.deps.Prompter.Printf("Discarded.")
			return nil
		}
	}

	medium, ok := model.ParseMedium(parsed.Medium)
	if !ok {
		p.deps.Prompter.Printf("Unknown medium '%s', defaulting to In Person", parsed.Medium)
		medium = model.InPerson
	}

	date := p.now()
	if parsed.Date != "" {
		if parsedDate, err := time.Parse(time.DateOnly, parsed.Date); err != nil {
			p.deps.Prompter.Printf("Could not parse date '%s', using today", parsed.Date)
		} else {
			date = parsedDate
		}
	}

	topics := trimList(parsed.Topics)

	for _, person := range resolved {
		var in model.Interaction
		if medium == model.InPerson {
			in = model.NewInPersonInteraction(parsed.Location, topics, parsed.Note, date)
		} else {
			in = model.NewRemoteInteraction(medium, parsed.Location, parsed.TheirLocation, topics, parsed.Note, date)
		}

		if err := p.deps.Interactions.LogInteraction(ctx, p.deps.OwnerID, person.ID, in); err != nil {
			p.deps.Prompter.Printf("Error logging interaction with %s: %v", person.Name, err)
			continue
		}
		p.deps.Prompter.Printf("Logged interaction with %s", person.Name)
	}
	return nil
}

// resolvePerson maps one name to a contact, offering to create unknown
// people. The contact pool is re-read per name so a contact added for an
// earlier name is visible to later ones.
func (p *Pipeline) resolvePerson(ctx context.Context, name string) (model.Person, bool) {
	pool, err := p.deps.People.ActivePeople(ctx, p.deps.OwnerID)
	if err != nil {
		slog.Warn("failed to load contacts for resolution", "error", err)
	}

	res := p.deps.Resolver.Resolve(name, pool)
	switch res.State {
	case resolve.Resolved:
		return res.Person, true

	case resolve.Ambiguous:
		p.deps.Prompter.Printf("Multiple matches for '%s':", name)
		for _, candidate := range res.Candidates {
			p.deps.Prompter.Printf("  %s", candidate.Name)
		}
		p.deps.Prompter.Printf("Please edit the people field to be more specific.")
		return model.Person{}, false

	default:
		p.deps.Prompter.Printf("'%s' is not in your network.", name)
		if suggestion, ok := p.deps.Resolver.Suggest(name, pool); ok {
			p.deps.Prompter.Printf("Did you mean %s?", suggestion.Name)
		}
		answer, _ := p.deps.Prompter.Prompt(fmt.Sprintf("Would you like to add %s? (y/n): ", name))
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			return model.Person{}, false
		}

		person := model.NewPerson(name)
		if err := p.deps.People.CreatePerson(ctx, p.deps.OwnerID, person); err != nil {
			p.deps.Prompter.Printf("Error adding person: %v", err)
			return model.Person{}, false
		}
		p.deps.Prompter.Printf("Added %s to your network.", name)
		return person, true
	}
}

// trimList returns topics with surrounding whitespace removed and blank
// entries dropped.
func trimList(topics []string) []string {
	var out []string
	for _, t := range topics {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
