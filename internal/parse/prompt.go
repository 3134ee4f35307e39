package parse

import (
	"fmt"
	"strings"

	"github.com/MrWong99/kith/internal/model"
)

// defaultCorrectionExamples is the number of past corrections appended to
// the system prompt as few-shot context.
const defaultCorrectionExamples = 5

// systemPromptTemplate is the base system prompt. Today's date, the known
// contact list, and the corrections block are interpolated at call time.
const systemPromptTemplate = `You extract interaction metadata from natural language descriptions.
Today's date is %s.
Known contacts: [%s]
Respond with JSON only, no other text.
JSON schema: { "personNames": ["..."], "medium": "InPerson|Text|PhoneCall|VideoCall|SocialMedia", "location": "...", "theirLocation": null, "topics": ["..."], "note": null, "date": null }
Rules:
- personNames is an array of ALL people mentioned in the input. If multiple people are mentioned, include all of them. Use names exactly as written. Match to known contacts when possible. NEVER substitute different names.
- If the medium is not mentioned, default to "InPerson"
- location: use the most specific location from the input (e.g. "Charlton, MA" not just "home"). Include the full place name, city, or address as given.
- theirLocation is only for remote interactions where their location differs; set to null for in-person
- topics: ONLY include activities or subjects explicitly mentioned in the input. Do NOT infer or add topics that weren't stated. Be aware of slang (e.g. "gas" means great/amazing, not cooking).
- note is for any additional context not captured in other fields; set to null if none
- date: ONLY set to a "YYYY-MM-DD" string if the user explicitly mentions a specific date (e.g. "yesterday", "last Friday", "on March 5th"). Otherwise MUST be null. null means today.%s`

// BuildPrompt assembles the deterministic system prompt for an interaction
// parse. today must be formatted as YYYY-MM-DD. corrections are expected
// most-recent-first; at most maxExamples of them are rendered, verbatim,
// in that order. The function is a pure function of its inputs.
func BuildPrompt(today string, knownNames []string, corrections []model.CorrectionExample, maxExamples int) string {
	return fmt.Sprintf(
		systemPromptTemplate,
		today,
		strings.Join(knownNames, ", "),
		correctionsBlock(corrections, maxExamples),
	)
}

// correctionsBlock renders past corrections as numbered few-shot examples.
// Returns the empty string when there are none.
func correctionsBlock(corrections []model.CorrectionExample, maxExamples int) string {
	if len(corrections) == 0 || maxExamples <= 0 {
		return ""
	}
	if len(corrections) > maxExamples {
		corrections = corrections[:maxExamples]
	}

	var sb strings.Builder
	sb.WriteString("\nPast corrections to learn from (most recent first):\n")
	for i, c := range corrections {
		fmt.Fprintf(&sb, "\nExample %d:\nInput: %s\nYou parsed: %s\nUser corrected to: %s\n",
			i+1, c.OriginalText, c.AIOutput, c.UserOutput)
	}
	sb.WriteString("\nApply these learnings when parsing the new input.\n")
	return sb.String()
}
