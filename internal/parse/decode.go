package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MrWong99/kith/internal/model"
)

// decodeContent interprets the model's JSON payload as a
// [model.ParsedInteraction]. The mapping is explicit and total: every field
// is pulled out of the generic JSON value by hand with a documented default,
// so a missing or mistyped field can never panic or silently bind to the
// wrong place.
//
// Defaults: medium "InPerson", location "", topics empty, theirLocation /
// note / date absent. personNames accepts either the array field or the
// legacy scalar "personName"; empty strings are filtered out. People and
// topics are the only mandatory outputs.
func decodeContent(content string) (*model.ParsedInteraction, error) {
	cleaned := stripMarkdown(content)

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	names := stringSlice(raw["personNames"])
	if len(names) == 0 {
		// Fall back to the legacy singular field.
		if name, ok := raw["personName"].(string); ok && name != "" {
			names = []string{name}
		}
	}

	medium := "InPerson"
	if s, ok := raw["medium"].(string); ok && s != "" {
		medium = s
	}

	parsed := &model.ParsedInteraction{
		PersonNames:   names,
		Medium:        medium,
		Location:      stringField(raw, "location"),
		TheirLocation: stringField(raw, "theirLocation"),
		Topics:        stringSlice(raw["topics"]),
		Note:          stringField(raw, "note"),
		Date:          stringField(raw, "date"),
	}

	if len(parsed.PersonNames) == 0 {
		return nil, ErrNoPeopleExtracted
	}
	if len(parsed.Topics) == 0 {
		return nil, ErrNoTopicsExtracted
	}
	return parsed, nil
}

// stringField returns raw[key] when it is a string, else "". JSON null and
// missing keys both map to the empty string.
func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

// stringSlice extracts the non-empty string elements of a JSON array value.
// Non-array values and non-string elements are skipped.
func stringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, el := range arr {
		if s, ok := el.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// stripMarkdown removes optional markdown code fences (```json ... ```) that
// some models wrap around JSON output despite being asked not to.
func stripMarkdown(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"```json", "```"} {
		if after, ok := strings.CutPrefix(s, prefix); ok {
			s = after
			break
		}
	}
	if before, ok := strings.CutSuffix(s, "```"); ok {
		s = before
	}
	return strings.TrimSpace(s)
}
