package series

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const scenarioA = `[{"count":4,"exercises":[{"repetitions":2,"distance":100,"unit":"m","style":"libre","notes":""}]}]`
const scenarioB = `[{"count":2,"exercises":[{"repetitions":1,"distance":50,"unit":"yd","style":"espalda","notes":"con aletas"}]}]`

// TestParseStructured verifies a canonical description decodes into series data.
func TestParseStructured(t *testing.T) {
	p := Parse(scenarioA)
	if !p.IsStructured() {
		t.Fatalf("kind = %v, want structured", p.Kind)
	}
	want := []Series{{Count: 4, Exercises: []Exercise{
		{Repetitions: 2, Distance: 100, Unit: UnitMeters, Style: "libre"},
	}}}
	if diff := cmp.Diff(want, p.Series); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
	if p.Raw != scenarioA {
		t.Errorf("raw = %q, want input", p.Raw)
	}
}

// TestParseFallback verifies that anything that is not an array of
// series-shaped objects comes back unstructured and untouched.
func TestParseFallback(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"just some free text",
		"Nado libre 30 minutos",
		"{}",
		"[1,2,3]",
		"null",
		`"[]"`,
		`[{"count":2}]`,
		`[{"count":2,"exercises":{}}]`,
		`[{"count":2,"exercises":null}]`,
		`[{"count":1,"exercises":[]}, 7]`,
		`[null]`,
		`[{"count":1,"exercises":[]}`,
	}
	for _, in := range cases {
		p := Parse(in)
		if p.IsStructured() {
			t.Errorf("Parse(%q) = structured, want unstructured", in)
		}
		if p.Raw != in {
			t.Errorf("Parse(%q).Raw = %q, want original", in, p.Raw)
		}
		if p.Series != nil {
			t.Errorf("Parse(%q).Series = %v, want nil", in, p.Series)
		}
	}
}

// TestParseEmptyArray verifies an empty array is structured with no series.
func TestParseEmptyArray(t *testing.T) {
	p := Parse(" [] ")
	if !p.IsStructured() {
		t.Fatal("empty array should be structured")
	}
	if len(p.Series) != 0 {
		t.Errorf("series = %d, want 0", len(p.Series))
	}
}

// TestParseLenientExercises verifies that malformed exercise fields are
// tolerated and decoded as zero or blank values.
func TestParseLenientExercises(t *testing.T) {
	in := `[{"count":"3","exercises":[
		{"repetitions":"4","distance":"25","unit":"m"},
		{"distance":true,"unit":5,"style":null},
		42,
		{"repetitions":2.9,"distance":12.5,"unit":"yd","style":"braza","notes":"pull"}
	]}]`
	p := Parse(in)
	if !p.IsStructured() {
		t.Fatalf("kind = %v, want structured", p.Kind)
	}
	want := []Series{{Count: 3, Exercises: []Exercise{
		{Repetitions: 4, Distance: 25, Unit: UnitMeters},
		{},
		{},
		{Repetitions: 2, Distance: 12.5, Unit: UnitYards, Style: "braza", Notes: "pull"},
	}}}
	if diff := cmp.Diff(want, p.Series); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
}

// TestParseMissingCount verifies a series without count decodes with count 0.
func TestParseMissingCount(t *testing.T) {
	p := Parse(`[{"exercises":[{"repetitions":1,"distance":100,"unit":"m"}]}]`)
	if !p.IsStructured() {
		t.Fatal("want structured")
	}
	if p.Series[0].Count != 0 {
		t.Errorf("count = %d, want 0", p.Series[0].Count)
	}
	if got := Aggregate(p.Series).Meters; got != 0 {
		t.Errorf("meters = %v, want 0", got)
	}
}

// TestKindString verifies the variant names used in logs and JSON views.
func TestKindString(t *testing.T) {
	if Structured.String() != "structured" || Unstructured.String() != "unstructured" {
		t.Errorf("got %q/%q", Structured, Unstructured)
	}
}
