package views

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/swimtrack/swimtrack/internal/models"
)

// TestTrainViewStructured verifies blocks, subtotals and the grand total.
func TestTrainViewStructured(t *testing.T) {
	train := models.Train{
		ID:        3,
		Title:     "Técnica",
		Active:    true,
		Published: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
		Description: `[
			{"count":4,"exercises":[{"repetitions":2,"distance":100,"unit":"m","style":"libre","notes":""}]},
			{"count":1,"exercises":[{"repetitions":1,"distance":50,"unit":"yd","style":"espalda","notes":"con aletas"}]}
		]`,
	}
	v := NewTrainView(train)
	if !v.Structured {
		t.Fatal("want structured view")
	}
	want := []Block{
		{Label: "Bloque 1: 4 Series", Count: 4, Lines: []string{"2x100 m libre"}, Subtotal: 800},
		{Label: "Bloque 2: 1 Serie", Count: 1, Lines: []string{"1x50 yd espalda (con aletas)"}, Subtotal: 46},
	}
	if diff := cmp.Diff(want, v.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
	if v.TotalMeters == nil || *v.TotalMeters != 846 {
		t.Errorf("total = %v, want 846", v.TotalMeters)
	}
	if v.TotalYards != 50 {
		t.Errorf("yards = %v, want 50", v.TotalYards)
	}
	if v.PublishedLabel != "04/05/2026" {
		t.Errorf("published label = %q", v.PublishedLabel)
	}
	if v.Text != "" {
		t.Errorf("text = %q, want empty", v.Text)
	}
}

// TestTrainViewFreeText verifies free text is shown verbatim without totals.
func TestTrainViewFreeText(t *testing.T) {
	for _, desc := range []string{"Nado libre 30 minutos", "[]", "{}"} {
		v := NewTrainView(models.Train{ID: 1, Description: desc})
		if v.Structured {
			t.Errorf("%q: structured view", desc)
		}
		if v.Text != desc {
			t.Errorf("%q: text = %q", desc, v.Text)
		}
		if v.TotalMeters != nil {
			t.Errorf("%q: total = %d, want nil", desc, *v.TotalMeters)
		}
		if len(v.Blocks) != 0 {
			t.Errorf("%q: blocks = %d", desc, len(v.Blocks))
		}
	}
}

// TestTrainViewCycles verifies cycle exercises are listed but add no meters.
func TestTrainViewCycles(t *testing.T) {
	v := NewTrainView(models.Train{Description: `[{"count":3,"exercises":[{"repetitions":10,"distance":1,"unit":"ciclos","style":"técnica","notes":""}]}]`})
	if v.TotalMeters == nil || *v.TotalMeters != 0 {
		t.Errorf("total = %v, want 0", v.TotalMeters)
	}
	if v.TotalCycles != 30 {
		t.Errorf("cycles = %d, want 30", v.TotalCycles)
	}
}

// TestFormatDateZero verifies missing dates render empty.
func TestFormatDateZero(t *testing.T) {
	if got := FormatDate(time.Time{}); got != "" {
		t.Errorf("FormatDate(zero) = %q", got)
	}
}

// TestNewRatingView verifies average rounding and filled stars.
func TestNewRatingView(t *testing.T) {
	avg := 3.6666
	v := NewRatingView(models.GlobalRate{AverageRating: &avg, TotalRatings: 3}, 4)
	if v.Average == nil || *v.Average != 3.7 {
		t.Errorf("average = %v, want 3.7", v.Average)
	}
	want := []bool{true, true, true, true, false}
	if diff := cmp.Diff(want, v.Stars); diff != "" {
		t.Errorf("stars mismatch (-want +got):\n%s", diff)
	}

	empty := NewRatingView(models.GlobalRate{}, 0)
	if empty.Average != nil {
		t.Errorf("average = %v, want nil", *empty.Average)
	}
}

// TestVisibleSuggestions verifies the admin/owner/anonymous visibility rule.
func TestVisibleSuggestions(t *testing.T) {
	list := []models.Suggestion{{ID: 1, IDUserCreator: 10}, {ID: 2, IDUserCreator: 20}}

	if got := VisibleSuggestions(list, nil); len(got) != 0 {
		t.Errorf("anonymous sees %d, want 0", len(got))
	}
	if got := VisibleSuggestions(list, &models.Identity{ID: 99, Role: models.RoleAdmin}); len(got) != 2 {
		t.Errorf("admin sees %d, want 2", len(got))
	}
	got := VisibleSuggestions(list, &models.Identity{ID: 20, Role: models.RoleUser})
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("owner sees %+v, want suggestion 2", got)
	}
}

// TestWithAuthors verifies authors are attached by creator id.
func TestWithAuthors(t *testing.T) {
	out := WithAuthors(
		[]models.Suggestion{{ID: 1, IDUserCreator: 10}, {ID: 2, IDUserCreator: 30}},
		[]models.User{{ID: 10, Name: "Ana"}},
	)
	if out[0].Author == nil || out[0].Author.Name != "Ana" {
		t.Errorf("author = %+v", out[0].Author)
	}
	if out[1].Author != nil {
		t.Errorf("unknown creator resolved to %+v", out[1].Author)
	}
}
