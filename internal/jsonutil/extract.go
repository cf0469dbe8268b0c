// Package jsonutil pulls JSON payloads out of messy LLM replies.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	reFencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	reFenced     = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// ExtractString returns the JSON document embedded in text, handling
// markdown code fences and surrounding prose. Returns an error when no
// parseable document is found.
func ExtractString(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty reply")
	}

	if m := reFencedJSON.FindStringSubmatch(text); m != nil {
		text = m[1]
	} else if m := reFenced.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	text = strings.TrimSpace(text)

	if gjson.Valid(text) {
		return text, nil
	}

	// Fall back to the widest {...} or [...] span.
	start := -1
	if i := strings.Index(text, "{"); i != -1 {
		start = i
	}
	if i := strings.Index(text, "["); i != -1 && (start == -1 || i < start) {
		start = i
	}
	if start == -1 {
		return "", fmt.Errorf("no JSON start found")
	}

	end := strings.LastIndex(text, "}")
	if b := strings.LastIndex(text, "]"); b > end {
		end = b
	}
	if end <= start {
		return "", fmt.Errorf("no valid JSON range found")
	}

	candidate := text[start : end+1]
	if !gjson.Valid(candidate) {
		return "", fmt.Errorf("extracted candidate is not valid JSON")
	}
	return candidate, nil
}

// Extract unmarshals the JSON document embedded in text into out.
func Extract(text string, out any) error {
	doc, err := ExtractString(text)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(doc), out)
}

// StringField reads a top-level string field from the JSON embedded in
// text, returning "" when the field or the document is missing.
func StringField(text, path string) string {
	doc, err := ExtractString(text)
	if err != nil {
		return ""
	}
	return gjson.Get(doc, path).String()
}

// StringMap reads the JSON object embedded in text as a flat map of string
// fields, falling back to def when nothing parseable is present.
func StringMap(text string, def map[string]string) map[string]string {
	doc, err := ExtractString(text)
	if err != nil {
		return def
	}
	parsed := gjson.Parse(doc)
	if !parsed.IsObject() {
		return def
	}

	out := make(map[string]string)
	parsed.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.String()
		return true
	})
	return out
}
