package series

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind tells a structured description apart from free text.
type Kind int

const (
	Unstructured Kind = iota
	Structured
)

func (k Kind) String() string {
	if k == Structured {
		return "structured"
	}
	return "unstructured"
}

// Parsed is the result of interpreting a training description.
// Series is only set when Kind is Structured; Raw always holds the input.
type Parsed struct {
	Kind   Kind
	Series []Series
	Raw    string
}

// IsStructured reports whether the description decoded as series data.
func (p Parsed) IsStructured() bool { return p.Kind == Structured }

// Parse interprets a description as a JSON array of series. The value is
// structured only if every element is an object carrying an "exercises"
// array; anything else comes back unstructured with the input untouched.
// Exercise fields are decoded leniently: missing or malformed values become
// zero or blank. Parse never fails.
func Parse(description string) Parsed {
	fallback := Parsed{Kind: Unstructured, Raw: description}

	if !isArray([]byte(description)) {
		return fallback
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(description), &elems); err != nil {
		return fallback
	}

	out := make([]Series, 0, len(elems))
	for _, elem := range elems {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(elem, &obj); err != nil || obj == nil {
			return fallback
		}
		rawExercises, ok := obj["exercises"]
		if !ok || !isArray(rawExercises) {
			return fallback
		}
		var items []json.RawMessage
		if err := json.Unmarshal(rawExercises, &items); err != nil {
			return fallback
		}

		s := Series{Count: toInt(number(obj["count"])), Exercises: make([]Exercise, 0, len(items))}
		for _, item := range items {
			s.Exercises = append(s.Exercises, decodeExercise(item))
		}
		out = append(out, s)
	}

	return Parsed{Kind: Structured, Series: out, Raw: description}
}

func decodeExercise(raw json.RawMessage) Exercise {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Exercise{}
	}
	return Exercise{
		Repetitions: toInt(number(obj["repetitions"])),
		Distance:    number(obj["distance"]),
		Unit:        Unit(text(obj["unit"])),
		Style:       text(obj["style"]),
		Notes:       text(obj["notes"]),
	}
}

func isArray(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '['
}

// number decodes a JSON number or a numeric string. Anything else is 0.
func number(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// toInt truncates toward zero. Values outside the int32 range count as malformed.
func toInt(f float64) int {
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

func text(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
