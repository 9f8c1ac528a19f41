package views

import (
	"math"

	"github.com/swimtrack/swimtrack/internal/models"
)

// RatingView is the star widget state for a training.
type RatingView struct {
	Average *float64 `json:"average"`
	Total   int      `json:"total"`
	Mine    int      `json:"mine"`
	Stars   []bool   `json:"stars"`
}

// NewRatingView combines the global rating with the caller's own vote.
// Stars marks which of the five stars are filled for the caller.
func NewRatingView(g models.GlobalRate, mine int) RatingView {
	v := RatingView{Total: g.TotalRatings, Mine: mine, Stars: make([]bool, 5)}
	if g.AverageRating != nil {
		avg := math.Round(*g.AverageRating*10) / 10
		v.Average = &avg
	}
	for i := range v.Stars {
		v.Stars[i] = i+1 <= mine
	}
	return v
}
