// Package extract parses the free-form extraction results returned by the
// automation collaborator. Extraction messages are natural-language-assisted
// output that usually embeds a JSON object as a substring, so every parser
// here has a strict structured path and a defensive fallback.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"compscraper/pkg/errors"
)

// Source tags how a component list was recovered from an extraction message.
type Source int

const (
	// Unparseable means neither the structured nor the fallback path
	// recovered any names.
	Unparseable Source = iota
	// Structured means the embedded JSON carried a well-formed components array.
	Structured
	// Fallback means names were recovered by pattern-scanning free text.
	Fallback
)

func (s Source) String() string {
	switch s {
	case Structured:
		return "structured"
	case Fallback:
		return "fallback"
	default:
		return "unparseable"
	}
}

// ListResult is the tagged outcome of parsing a component-list extraction.
type ListResult struct {
	Source Source
	Names  []string
}

// Metadata holds the detail-panel fields extracted for a component.
// Missing fields are left empty; the artifact writer renders them "Unknown".
type Metadata struct {
	Category        string `json:"category"`
	LastUpdated     string `json:"lastUpdated"`
	ReactVersion    string `json:"reactVersion"`
	TailwindVersion string `json:"tailwindVersion"`
}

// embeddedObject matches the outermost {...} substring, greedily, across
// newlines. Extraction messages wrap the object in prose on both sides.
var embeddedObject = regexp.MustCompile(`(?s)\{.*\}`)

// namePattern recovers "Capitalized Word(s) + trailing integer" component
// names from free text when the structured parse fails.
var namePattern = regexp.MustCompile(`([A-Z][a-z]+(?: [A-Z][a-z]+)*) (\d+)`)

// EmbeddedObject locates and unmarshals the JSON object embedded in an
// extraction message.
func EmbeddedObject(message string) (map[string]json.RawMessage, error) {
	raw := embeddedObject.FindString(message)
	if raw == "" {
		return nil, errors.Extraction("no embedded JSON object in extraction message")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeExtraction, "malformed embedded JSON object", err)
	}
	return obj, nil
}

// ComponentList parses a component-list extraction message. The structured
// path reads the embedded object's "components" field as an array of {name}
// objects or bare strings; on any failure it falls back to scanning the
// whole message for name patterns.
func ComponentList(message string) ListResult {
	if names, ok := structuredNames(message); ok {
		return ListResult{Source: Structured, Names: names}
	}

	if names := fallbackNames(message); len(names) > 0 {
		return ListResult{Source: Fallback, Names: names}
	}

	return ListResult{Source: Unparseable}
}

func structuredNames(message string) ([]string, bool) {
	obj, err := EmbeddedObject(message)
	if err != nil {
		return nil, false
	}

	raw, ok := obj["components"]
	if !ok {
		return nil, false
	}

	// First shape: [{"name": "Navbar 1"}, ...]
	var objects []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &objects); err == nil {
		names := make([]string, 0, len(objects))
		for _, o := range objects {
			if name := strings.TrimSpace(o.Name); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			return names, true
		}
	}

	// Second shape: ["Navbar 1", ...]
	var strs []string
	if err := json.Unmarshal(raw, &strs); err == nil {
		names := make([]string, 0, len(strs))
		for _, s := range strs {
			if name := strings.TrimSpace(s); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			return names, true
		}
	}

	return nil, false
}

func fallbackNames(message string) []string {
	matches := namePattern.FindAllString(message, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSpace(m))
	}
	return names
}

// SourceCode reads the "code" field from a source extraction message.
func SourceCode(message string) (string, error) {
	obj, err := EmbeddedObject(message)
	if err != nil {
		return "", err
	}

	raw, ok := obj["code"]
	if !ok {
		return "", errors.Extraction("extraction message has no code field")
	}

	var code string
	if err := json.Unmarshal(raw, &code); err != nil {
		return "", errors.Wrap(errors.ErrorTypeExtraction, "code field is not a string", err)
	}
	if code == "" {
		return "", errors.Extraction("extracted code is empty")
	}
	return code, nil
}

// DetailMetadata reads the metadata panel fields from an extraction message.
// Individual fields may be absent; only a missing embedded object is an error.
func DetailMetadata(message string) (Metadata, error) {
	raw := embeddedObject.FindString(message)
	if raw == "" {
		return Metadata{}, errors.Extraction("no embedded JSON object in metadata message")
	}

	var meta Metadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return Metadata{}, errors.Wrap(errors.ErrorTypeExtraction, "malformed metadata object", err)
	}
	return meta, nil
}
