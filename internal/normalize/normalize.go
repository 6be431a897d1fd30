// Package normalize recovers structured objects from model responses.
//
// The text model is asked for JSON, but real responses arrive wrapped in
// markdown fences, prefixed with prose, or occasionally refused outright.
// Everything downstream works with canonical field names only; alias
// handling and defaults live here and nowhere else.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMalformed means no JSON object could be recovered from the response.
// Callers surface it; nobody substitutes an empty object.
var ErrMalformed = errors.New("response is not valid JSON")

// Object is a loosely-typed response bag. Accessors take a list of key
// aliases in priority order and apply their own defaults, because the model
// is not consistent about field naming across runs.
type Object map[string]any

// Parse attempts a strict decode first, then falls back to stripping
// markdown code fences and slicing between the first '{' and the last '}'.
func Parse(raw string) (Object, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformed)
	}

	var obj Object
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		return obj, nil
	}

	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```JSON", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	first := strings.IndexByte(clean, '{')
	last := strings.LastIndexByte(clean, '}')
	if first >= 0 && last > first {
		clean = clean[first : last+1]
	}

	if err := json.Unmarshal([]byte(clean), &obj); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, snippet(raw))
	}
	return obj, nil
}

// Str returns the first non-empty string found under the given aliases.
func (o Object) Str(keys ...string) string {
	for _, key := range keys {
		if s, ok := o[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// StrOr is Str with a default.
func (o Object) StrOr(fallback string, keys ...string) string {
	if s := o.Str(keys...); s != "" {
		return s
	}
	return fallback
}

// Int returns the first numeric value found under the given aliases.
// JSON numbers decode as float64; strings holding digits also count.
func (o Object) Int(fallback int, keys ...string) int {
	for _, key := range keys {
		switch v := o[key].(type) {
		case float64:
			return int(v)
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return int(n)
			}
		case string:
			var n int
			if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &n); err == nil {
				return n
			}
		}
	}
	return fallback
}

// Strings collects string elements of the first array found under the
// given aliases. Missing or non-array values yield an empty slice.
func (o Object) Strings(keys ...string) []string {
	for _, key := range keys {
		arr, ok := o[key].([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}

// Objects collects object elements of the first array found under the
// given aliases.
func (o Object) Objects(keys ...string) []Object {
	for _, key := range keys {
		arr, ok := o[key].([]any)
		if !ok {
			continue
		}
		out := make([]Object, 0, len(arr))
		for _, item := range arr {
			if m, ok := item.(map[string]any); ok {
				out = append(out, Object(m))
			}
		}
		return out
	}
	return nil
}

// Obj returns the first nested object found under the given aliases,
// or an empty Object so field access stays safe.
func (o Object) Obj(keys ...string) Object {
	for _, key := range keys {
		if m, ok := o[key].(map[string]any); ok {
			return Object(m)
		}
	}
	return Object{}
}

func snippet(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) <= 120 {
		return raw
	}
	cut := 120
	for cut > 0 && !utf8.RuneStart(raw[cut]) {
		cut--
	}
	return raw[:cut] + "..."
}
