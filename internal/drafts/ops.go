package drafts

import "github.com/swimtrack/swimtrack/internal/series"

// OpKind names an edit operation.
type OpKind string

const (
	OpAddSeries      OpKind = "add_series"
	OpRemoveSeries   OpKind = "remove_series"
	OpSetCount       OpKind = "set_count"
	OpAddExercise    OpKind = "add_exercise"
	OpUpdateExercise OpKind = "update_exercise"
	OpRemoveExercise OpKind = "remove_exercise"
	OpSetMeta        OpKind = "set_meta"
)

// Op is a single edit request. Which fields matter depends on Kind.
type Op struct {
	Kind     OpKind           `json:"op"`
	Series   int              `json:"series"`
	Exercise int              `json:"exercise"`
	Count    int              `json:"count"`
	Value    *series.Exercise `json:"value,omitempty"`
	Meta     *Meta            `json:"meta,omitempty"`
}
