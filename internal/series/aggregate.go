package series

import "math"

// SeriesTotal is the distance covered by one series, all repeats included.
type SeriesTotal struct {
	Meters float64 `json:"meters"`
	// Yards is the raw yard distance before conversion. It is already
	// included in Meters.
	Yards  float64 `json:"yards"`
	Cycles int     `json:"cycles"`
}

// RoundedMeters is the subtotal as displayed.
func (s SeriesTotal) RoundedMeters() int {
	return int(math.Round(s.Meters))
}

// Totals aggregates a whole series list.
type Totals struct {
	Series []SeriesTotal `json:"series"`
	Meters float64       `json:"meters"`
	Yards  float64       `json:"yards"`
	Cycles int           `json:"cycles"`
}

// RoundedMeters is the grand total as displayed: nearest whole meter.
func (t Totals) RoundedMeters() int {
	return int(math.Round(t.Meters))
}

// Contribution returns the meters one exercise adds inside a series repeated
// count times. Yards are converted; cycles, unknown units and non-positive
// values add nothing.
func Contribution(ex Exercise, count int) float64 {
	raw := rawDistance(ex, count)
	switch ex.Unit {
	case UnitMeters:
		return raw
	case UnitYards:
		return raw * MetersPerYard
	}
	return 0
}

func rawDistance(ex Exercise, count int) float64 {
	if ex.Repetitions <= 0 || ex.Distance <= 0 || count <= 0 {
		return 0
	}
	return float64(ex.Repetitions) * ex.Distance * float64(count)
}

// Subtotal aggregates a single series.
func Subtotal(s Series) SeriesTotal {
	var t SeriesTotal
	for _, ex := range s.Exercises {
		t.Meters += Contribution(ex, s.Count)
		switch ex.Unit {
		case UnitYards:
			t.Yards += rawDistance(ex, s.Count)
		case UnitCycles:
			if ex.Repetitions > 0 && s.Count > 0 {
				t.Cycles += ex.Repetitions * s.Count
			}
		}
	}
	return t
}

// Aggregate computes per-series subtotals and the grand total. It is pure and
// never fails.
func Aggregate(list []Series) Totals {
	t := Totals{Series: make([]SeriesTotal, 0, len(list))}
	for _, s := range list {
		st := Subtotal(s)
		t.Series = append(t.Series, st)
		t.Meters += st.Meters
		t.Yards += st.Yards
		t.Cycles += st.Cycles
	}
	return t
}
