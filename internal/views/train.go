package views

import (
	"fmt"
	"time"

	"github.com/swimtrack/swimtrack/internal/models"
	"github.com/swimtrack/swimtrack/internal/series"
)

// Block is one rendered series of a structured description.
type Block struct {
	Label    string   `json:"label"`
	Count    int      `json:"count"`
	Lines    []string `json:"lines"`
	Subtotal int      `json:"subtotal_meters"`
}

// TrainView is a training ready for display. Exactly one of Blocks or Text
// carries the description; TotalMeters is nil when there is nothing to add up.
type TrainView struct {
	ID             int                 `json:"id"`
	Title          string              `json:"title"`
	Active         bool                `json:"active"`
	Published      time.Time           `json:"published"`
	Expired        time.Time           `json:"expired"`
	PublishedLabel string              `json:"published_label"`
	Structured     bool                `json:"structured"`
	Blocks         []Block             `json:"blocks,omitempty"`
	Text           string              `json:"text,omitempty"`
	Summary        string              `json:"summary,omitempty"`
	TotalMeters    *int                `json:"total_meters,omitempty"`
	TotalYards     float64             `json:"total_yards,omitempty"`
	TotalCycles    int                 `json:"total_cycles,omitempty"`
	Creator        *models.UserSummary `json:"creator,omitempty"`
	Rating         *RatingView         `json:"rating,omitempty"`
}

// NewTrainView renders a training. Free-text descriptions and structured
// descriptions without any series are shown verbatim.
func NewTrainView(t models.Train) TrainView {
	v := TrainView{
		ID:             t.ID,
		Title:          t.Title,
		Active:         t.Active,
		Published:      t.Published,
		Expired:        t.Expired,
		PublishedLabel: FormatDate(t.Published),
		Creator:        t.UserCreator,
	}

	p := series.Parse(t.Description)
	if !p.IsStructured() || len(p.Series) == 0 {
		v.Text = t.Description
		return v
	}

	totals := series.Aggregate(p.Series)
	v.Structured = true
	v.Summary = series.Summary(p.Series)
	v.Blocks = make([]Block, 0, len(p.Series))
	for i, s := range p.Series {
		lines := make([]string, 0, len(s.Exercises))
		for _, ex := range s.Exercises {
			lines = append(lines, series.Line(ex))
		}
		v.Blocks = append(v.Blocks, Block{
			Label:    BlockLabel(i, s.Count),
			Count:    s.Count,
			Lines:    lines,
			Subtotal: totals.Series[i].RoundedMeters(),
		})
	}
	total := totals.RoundedMeters()
	v.TotalMeters = &total
	v.TotalYards = totals.Yards
	v.TotalCycles = totals.Cycles
	return v
}

// NewTrainViews renders a list, keeping order.
func NewTrainViews(list []models.Train) []TrainView {
	out := make([]TrainView, 0, len(list))
	for _, t := range list {
		out = append(out, NewTrainView(t))
	}
	return out
}

// BlockLabel renders "Bloque N: X Serie(s)" for the series at index i.
func BlockLabel(i, count int) string {
	word := "Series"
	if count == 1 {
		word = "Serie"
	}
	return fmt.Sprintf("Bloque %d: %d %s", i+1, count, word)
}

// FormatDate renders a date as dd/mm/yyyy. The zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}
