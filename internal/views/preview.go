package views

import "github.com/swimtrack/swimtrack/internal/series"

// SeriesPreview is the live read-out of a description being edited: its
// kind, one-line summary, per-series subtotals and totals.
type SeriesPreview struct {
	Kind        string          `json:"kind"`
	Summary     string          `json:"summary,omitempty"`
	Series      []series.Series `json:"series,omitempty"`
	Subtotals   []int           `json:"subtotal_meters,omitempty"`
	TotalMeters int             `json:"total_meters"`
	TotalYards  float64         `json:"total_yards"`
	TotalCycles int             `json:"total_cycles"`
	Text        string          `json:"text,omitempty"`
}

// NewSeriesPreview parses desc and totals it. Free text is echoed in Text.
func NewSeriesPreview(desc string) SeriesPreview {
	p := series.Parse(desc)
	v := SeriesPreview{Kind: p.Kind.String()}
	if !p.IsStructured() {
		v.Text = p.Raw
		return v
	}
	totals := series.Aggregate(p.Series)
	v.Summary = series.Summary(p.Series)
	v.Series = p.Series
	v.Subtotals = make([]int, 0, len(totals.Series))
	for _, st := range totals.Series {
		v.Subtotals = append(v.Subtotals, st.RoundedMeters())
	}
	v.TotalMeters = totals.RoundedMeters()
	v.TotalYards = totals.Yards
	v.TotalCycles = totals.Cycles
	return v
}
