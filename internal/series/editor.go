package series

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrSeriesIndex   = errors.New("series index out of range")
	ErrExerciseIndex = errors.New("exercise index out of range")
	ErrInvalidCount  = errors.New("series count must be positive")
	ErrInvalidReps   = errors.New("repetitions must be positive")
	ErrInvalidDist   = errors.New("distance must be positive")
)

// Validate checks the values the edit surface accepts for an exercise.
// Unit and style are free text; unknown units simply never add distance.
func (ex Exercise) Validate() error {
	if ex.Repetitions <= 0 {
		return ErrInvalidReps
	}
	if ex.Distance <= 0 || math.IsNaN(ex.Distance) || math.IsInf(ex.Distance, 0) {
		return ErrInvalidDist
	}
	return nil
}

// Editor is an in-memory edit buffer over a series list. Nothing it does is
// persisted; callers serialize with Description and save explicitly.
// An Editor is not safe for concurrent use.
type Editor struct {
	series []Series
}

// NewEditor starts a buffer from a copy of list.
func NewEditor(list []Series) *Editor {
	return &Editor{series: clone(list)}
}

// EditorFor starts a buffer from a stored description. Free-text
// descriptions start an empty buffer.
func EditorFor(description string) *Editor {
	p := Parse(description)
	if !p.IsStructured() {
		return NewEditor(nil)
	}
	return NewEditor(p.Series)
}

// Series returns a copy of the current buffer.
func (e *Editor) Series() []Series { return clone(e.series) }

// Len returns the number of series in the buffer.
func (e *Editor) Len() int { return len(e.series) }

// AddSeries appends an empty series and returns its index.
func (e *Editor) AddSeries(count int) (int, error) {
	if count <= 0 {
		return 0, ErrInvalidCount
	}
	e.series = append(e.series, Series{Count: count, Exercises: []Exercise{}})
	return len(e.series) - 1, nil
}

// RemoveSeries deletes series i, shifting later series down.
func (e *Editor) RemoveSeries(i int) error {
	if err := e.checkSeries(i); err != nil {
		return err
	}
	e.series = append(e.series[:i], e.series[i+1:]...)
	return nil
}

// SetCount updates how many times series i repeats.
func (e *Editor) SetCount(i, count int) error {
	if err := e.checkSeries(i); err != nil {
		return err
	}
	if count <= 0 {
		return ErrInvalidCount
	}
	e.series[i].Count = count
	return nil
}

// AddExercise appends ex to series i and returns its index within the series.
func (e *Editor) AddExercise(i int, ex Exercise) (int, error) {
	if err := e.checkSeries(i); err != nil {
		return 0, err
	}
	if err := ex.Validate(); err != nil {
		return 0, err
	}
	e.series[i].Exercises = append(e.series[i].Exercises, ex)
	return len(e.series[i].Exercises) - 1, nil
}

// UpdateExercise replaces exercise j of series i.
func (e *Editor) UpdateExercise(i, j int, ex Exercise) error {
	if err := e.checkExercise(i, j); err != nil {
		return err
	}
	if err := ex.Validate(); err != nil {
		return err
	}
	e.series[i].Exercises[j] = ex
	return nil
}

// RemoveExercise deletes exercise j of series i.
func (e *Editor) RemoveExercise(i, j int) error {
	if err := e.checkExercise(i, j); err != nil {
		return err
	}
	ex := e.series[i].Exercises
	e.series[i].Exercises = append(ex[:j], ex[j+1:]...)
	return nil
}

// Description serializes the buffer in canonical form.
func (e *Editor) Description() (string, error) {
	return Marshal(e.series)
}

// Totals aggregates the current buffer.
func (e *Editor) Totals() Totals { return Aggregate(e.series) }

// Summary renders the current buffer as preview text.
func (e *Editor) Summary() string { return Summary(e.series) }

func (e *Editor) checkSeries(i int) error {
	if i < 0 || i >= len(e.series) {
		return fmt.Errorf("%w: %d", ErrSeriesIndex, i)
	}
	return nil
}

func (e *Editor) checkExercise(i, j int) error {
	if err := e.checkSeries(i); err != nil {
		return err
	}
	if j < 0 || j >= len(e.series[i].Exercises) {
		return fmt.Errorf("%w: %d", ErrExerciseIndex, j)
	}
	return nil
}
