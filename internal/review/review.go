// Package review implements the interactive confirmation loop for parsed
// interactions.
//
// A [Session] repeatedly displays the current parse, offers save / edit /
// discard, and applies field edits until the user commits either way. The
// session is a pure state machine over a [Prompter]: it never touches
// storage, so the persistence decision (and the correction diff against the
// original parse) stays with the caller.
package review

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/MrWong99/kith/internal/model"
)

// Prompter abstracts terminal interaction so sessions can be scripted in
// tests. Prompt shows a label and returns the user's trimmed line; ok is
// false when input is exhausted (EOF), which a [Session] treats as discard.
type Prompter interface {
	Prompt(label string) (line string, ok bool)
	Printf(format string, args ...any)
}

// TerminalPrompter is a [Prompter] over an input stream and output writer,
// normally stdin and stdout.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

var _ Prompter = (*TerminalPrompter)(nil)

// NewTerminalPrompter wraps in and out as a [TerminalPrompter].
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

// Prompt writes label without a trailing newline and reads one line of
// input. The returned line is whitespace-trimmed.
func (p *TerminalPrompter) Prompt(label string) (string, bool) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// Printf writes a formatted line to the output writer.
func (p *TerminalPrompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// DecisionKind is the action chosen at the review prompt.
type DecisionKind int

const (
	// Save accepts the current parse and ends the session successfully.
	Save DecisionKind = iota

	// Edit enters the field-edit submenu and returns to the prompt.
	Edit

	// Discard abandons the parse and ends the session.
	Discard

	// Invalid re-presents the prompt without side effects.
	Invalid
)

// ParseDecision maps an action-prompt answer to a [DecisionKind]. Matching
// is case-insensitive and accepts both the single-letter and full-word
// forms.
func ParseDecision(choice string) DecisionKind {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "s", "save":
		return Save
	case "e", "edit":
		return Edit
	case "d", "discard":
		return Discard
	}
	return Invalid
}

// Session drives one review of a parsed interaction.
type Session struct {
	prompter Prompter
}

// NewSession returns a [Session] speaking through p.
func NewSession(p Prompter) *Session {
	return &Session{prompter: p}
}

// Run reviews initial until the user saves or discards. It returns the
// (possibly edited) parse and whether the user chose to save it. EOF on the
// action prompt counts as discard; EOF inside an edit keeps the current
// value.
func (s *Session) Run(initial model.ParsedInteraction) (model.ParsedInteraction, bool) {
	current := initial
	for {
		s.display(current)
		s.prompter.Printf("")
		s.prompter.Printf("Actions: (s)ave, (e)dit a field, (d)iscard")

		choice, ok := s.prompter.Prompt("Choice: ")
		if !ok {
			return current, false
		}

		switch ParseDecision(choice) {
		case Save:
			return current, true
		case Edit:
			current = s.editField(current)
		case Discard:
			s.prompter.Printf("Discarded.")
			return current, false
		default:
			s.prompter.Printf("Invalid choice. Enter 's' to save, 'e' to edit, or 'd' to discard.")
		}
	}
}

func (s *Session) display(p model.ParsedInteraction) {
	s.prompter.Printf("")
	s.prompter.Printf("Parsed interaction:")
	s.prompter.Printf("  1. People:         %s", strings.Join(p.PersonNames, ", "))
	s.prompter.Printf("  2. Medium:         %s", displayMedium(p.Medium))
	s.prompter.Printf("  3. Location:       %s", orPlaceholder(p.Location, "(not set)"))
	if p.Medium == string(model.InPerson) {
		s.prompter.Printf("  4. Their location: (same as location)")
	} else {
		s.prompter.Printf("  4. Their location: %s", orPlaceholder(p.TheirLocation, "(not set)"))
	}
	s.prompter.Printf("  5. Topics:         %s", strings.Join(p.Topics, ", "))
	s.prompter.Printf("  6. Note:           %s", orPlaceholder(p.Note, "(none)"))
	s.prompter.Printf("  7. Date:           %s", orPlaceholder(p.Date, "today"))
}

func (s *Session) editField(p model.ParsedInteraction) model.ParsedInteraction {
	s.prompter.Printf("")
	s.prompter.Printf("Which field to edit?")
	s.prompter.Printf("  1. People")
	s.prompter.Printf("  2. Medium")
	s.prompter.Printf("  3. Location")
	s.prompter.Printf("  4. Their location")
	s.prompter.Printf("  5. Topics")
	s.prompter.Printf("  6. Note")
	s.prompter.Printf("  7. Date")

	field, ok := s.prompter.Prompt("Field (1-7): ")
	if !ok {
		return p
	}

	switch field {
	case "1":
		input := s.promptOrEmpty(fmt.Sprintf("People (comma-separated) [%s]: ", strings.Join(p.PersonNames, ", ")))
		if names := splitList(input); len(names) > 0 {
			p.PersonNames = names
		}
	case "2":
		s.prompter.Printf("  1. In Person  2. Text  3. Phone Call  4. Video Call  5. Social Media")
		input := s.promptOrEmpty(fmt.Sprintf("Medium [%s]: ", displayMedium(p.Medium)))
		switch input {
		case "1":
			p.Medium = string(model.InPerson)
		case "2":
			p.Medium = string(model.TextMessage)
		case "3":
			p.Medium = string(model.PhoneCall)
		case "4":
			p.Medium = string(model.VideoCall)
		case "5":
			p.Medium = string(model.SocialMedia)
		case "":
			// keep current
		default:
			s.prompter.Printf("Invalid selection, keeping current.")
		}
	case "3":
		input := s.promptOrEmpty(fmt.Sprintf("Location [%s]: ", orPlaceholder(p.Location, "(not set)")))
		if input != "" {
			p.Location = input
		}
	case "4":
		if p.Medium == string(model.InPerson) {
			s.prompter.Printf("Their location is the same as location for in-person interactions.")
			break
		}
		input := s.promptOrEmpty(fmt.Sprintf("Their location [%s]: ", orPlaceholder(p.TheirLocation, "(none)")))
		if input != "" {
			p.TheirLocation = input
		}
	case "5":
		input := s.promptOrEmpty(fmt.Sprintf("Topics (comma-separated) [%s]: ", strings.Join(p.Topics, ", ")))
		if topics := splitList(input); len(topics) > 0 {
			p.Topics = topics
		}
	case "6":
		input := s.promptOrEmpty(fmt.Sprintf("Note [%s]: ", orPlaceholder(p.Note, "(none)")))
		if input != "" {
			p.Note = input
		}
	case "7":
		input := s.promptOrEmpty(fmt.Sprintf("Date (YYYY-MM-DD) [%s]: ", orPlaceholder(p.Date, "today")))
		if input != "" {
			p.Date = input
		}
	default:
		s.prompter.Printf("Invalid field number.")
	}

	return p
}

// promptOrEmpty asks for a value, mapping EOF to the empty string so an
// interrupted edit keeps the current value.
func (s *Session) promptOrEmpty(label string) string {
	line, ok := s.prompter.Prompt(label)
	if !ok {
		return ""
	}
	return line
}

// splitList splits comma-separated input into trimmed non-empty entries.
func splitList(input string) []string {
	if input == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// orPlaceholder returns s, or placeholder when s is empty.
func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// displayMedium renders a medium identifier in its human-readable form.
// Unknown identifiers pass through unchanged.
func displayMedium(s string) string {
	if m, ok := model.ParseMedium(s); ok {
		return m.Display()
	}
	return s
}
