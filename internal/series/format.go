package series

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	exerciseSeparator = ", "
	seriesSeparator   = "; "
)

// Line renders one exercise as "<reps>x<distance> <unit> <style>", followed
// by " (<notes>)" when notes are present.
func Line(ex Exercise) string {
	line := strings.TrimRight(fmt.Sprintf("%dx%s %s %s",
		ex.Repetitions, FormatNumber(ex.Distance), ex.Unit, ex.Style), " ")
	if ex.Notes != "" {
		line += " (" + ex.Notes + ")"
	}
	return line
}

// Header renders the series prefix "<count> series de: ".
func Header(s Series) string {
	return strconv.Itoa(s.Count) + " series de: "
}

// Summary renders the human-readable preview of a series list. Exercises are
// joined by ", " and series by "; ".
func Summary(list []Series) string {
	parts := make([]string, 0, len(list))
	for _, s := range list {
		lines := make([]string, 0, len(s.Exercises))
		for _, ex := range s.Exercises {
			lines = append(lines, Line(ex))
		}
		parts = append(parts, Header(s)+strings.Join(lines, exerciseSeparator))
	}
	return strings.Join(parts, seriesSeparator)
}

// FormatNumber prints a distance the shortest way: 100, 12.5.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Marshal produces the canonical JSON stored in a training description.
// A nil list encodes as "[]".
func Marshal(list []Series) (string, error) {
	if list == nil {
		list = []Series{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		return "", fmt.Errorf("encoding series: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
