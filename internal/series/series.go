package series

import (
	"bytes"
	"encoding/json"
)

// Unit is the length unit of a single exercise repeat.
type Unit string

const (
	UnitMeters Unit = "m"
	UnitYards  Unit = "yd"
	// UnitCycles counts repeats without a distance. It never adds to meter totals.
	UnitCycles Unit = "ciclos"
)

// MetersPerYard is the fixed yard-to-meter conversion factor.
const MetersPerYard = 0.9144

// Known stroke labels. Style is free text; these are the values the edit
// surface offers.
const (
	StyleFree      = "libre"
	StyleBack      = "espalda"
	StyleBreast    = "braza"
	StyleButterfly = "mariposa"
	StyleMedley    = "estilos"
	StyleEasy      = "suave"
	StyleTechnique = "técnica"
)

// Styles lists the known stroke labels in display order.
var Styles = []string{StyleFree, StyleBack, StyleBreast, StyleButterfly, StyleMedley, StyleEasy, StyleTechnique}

// Units lists the known units in display order.
var Units = []Unit{UnitMeters, UnitYards, UnitCycles}

// Known reports whether u is one of the enumerated units.
func (u Unit) Known() bool {
	switch u {
	case UnitMeters, UnitYards, UnitCycles:
		return true
	}
	return false
}

// Exercise is one repeated unit of swimming work.
type Exercise struct {
	Repetitions int     `json:"repetitions"`
	Distance    float64 `json:"distance"`
	Unit        Unit    `json:"unit"`
	Style       string  `json:"style"`
	Notes       string  `json:"notes"`
}

// Series is a block of exercises repeated Count times as a group.
type Series struct {
	Count     int        `json:"count"`
	Exercises []Exercise `json:"exercises"`
}

// MarshalJSON always writes exercises as an array so the output parses back
// as structured data.
func (s Series) MarshalJSON() ([]byte, error) {
	type plain Series
	p := plain(s)
	if p.Exercises == nil {
		p.Exercises = []Exercise{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// clone returns a deep copy of a series list. The result is never nil.
func clone(in []Series) []Series {
	out := make([]Series, len(in))
	for i, s := range in {
		out[i] = Series{Count: s.Count, Exercises: append([]Exercise{}, s.Exercises...)}
	}
	return out
}
