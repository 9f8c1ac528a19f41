package drafts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/swimtrack/swimtrack/internal/models"
	"github.com/swimtrack/swimtrack/internal/series"
	"github.com/swimtrack/swimtrack/internal/views"
)

var (
	ErrNotFound   = errors.New("draft not found")
	ErrEmptyDraft = errors.New("draft has no series")
	ErrUnknownOp  = errors.New("unknown draft operation")
	ErrIncomplete = errors.New("draft operation is missing a field")
	ErrSaving     = errors.New("draft is being saved")
)

// Saver persists a training. *remote.Client satisfies it.
type Saver interface {
	CreateTrain(ctx context.Context, in models.TrainInput) (*models.Train, error)
	UpdateTrain(ctx context.Context, id int, in models.TrainInput) (*models.Train, error)
}

// Meta is the non-series part of the training being edited.
type Meta struct {
	Title     string `json:"title"`
	Active    *bool  `json:"active"`
	Published string `json:"published"`
	Expired   string `json:"expired"`
}

// Draft is one open edit session: a series buffer plus training metadata.
type Draft struct {
	ID      uuid.UUID
	TrainID int
	Owner   int

	mu      sync.Mutex
	meta    Meta
	editor  *series.Editor
	touched time.Time
	// saving is set while a Save is talking to the API; the buffer is frozen.
	saving bool
}

// Snapshot is a read-only view of a draft, including its live preview.
type Snapshot struct {
	ID          uuid.UUID       `json:"id"`
	TrainID     int             `json:"train_id,omitempty"`
	Meta        Meta            `json:"meta"`
	Series      []series.Series `json:"series"`
	Summary     string          `json:"summary"`
	Totals      series.Totals   `json:"totals"`
	TotalMeters int             `json:"total_meters"`
	Description string          `json:"description"`
}

// Snapshot copies the draft state.
func (d *Draft) Snapshot() (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Draft) snapshotLocked() (Snapshot, error) {
	desc, err := d.editor.Description()
	if err != nil {
		return Snapshot{}, err
	}
	totals := d.editor.Totals()
	return Snapshot{
		ID:          d.ID,
		TrainID:     d.TrainID,
		Meta:        d.meta,
		Series:      d.editor.Series(),
		Summary:     d.editor.Summary(),
		Totals:      totals,
		TotalMeters: totals.RoundedMeters(),
		Description: desc,
	}, nil
}

// Apply runs one edit operation against the buffer.
func (d *Draft) Apply(op Op, now time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.saving {
		return ErrSaving
	}
	d.touched = now

	switch op.Kind {
	case OpAddSeries:
		_, err := d.editor.AddSeries(op.Count)
		return err
	case OpRemoveSeries:
		return d.editor.RemoveSeries(op.Series)
	case OpSetCount:
		return d.editor.SetCount(op.Series, op.Count)
	case OpAddExercise:
		if op.Value == nil {
			return fmt.Errorf("%s value: %w", op.Kind, ErrIncomplete)
		}
		_, err := d.editor.AddExercise(op.Series, *op.Value)
		return err
	case OpUpdateExercise:
		if op.Value == nil {
			return fmt.Errorf("%s value: %w", op.Kind, ErrIncomplete)
		}
		return d.editor.UpdateExercise(op.Series, op.Exercise, *op.Value)
	case OpRemoveExercise:
		return d.editor.RemoveExercise(op.Series, op.Exercise)
	case OpSetMeta:
		if op.Meta == nil {
			return fmt.Errorf("%s meta: %w", op.Kind, ErrIncomplete)
		}
		d.meta = *op.Meta
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownOp, op.Kind)
}

func (d *Draft) input(now time.Time) (models.TrainInput, error) {
	if d.editor.Len() == 0 {
		return models.TrainInput{}, ErrEmptyDraft
	}
	desc, err := d.editor.Description()
	if err != nil {
		return models.TrainInput{}, err
	}
	form := views.TrainForm{
		Title:       d.meta.Title,
		Description: desc,
		Active:      d.meta.Active,
		Published:   d.meta.Published,
		Expired:     d.meta.Expired,
	}
	return form.Validate(now)
}

// Registry holds the open drafts. Drafts idle longer than the TTL are
// dropped by Sweep.
type Registry struct {
	mu     sync.Mutex
	drafts map[uuid.UUID]*Draft
	ttl    time.Duration
	now    func() time.Time
	log    *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(ttl time.Duration, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		drafts: make(map[uuid.UUID]*Draft),
		ttl:    ttl,
		now:    time.Now,
		log:    log,
	}
}

// Open starts a draft for owner. A nil train starts a blank training;
// otherwise the buffer is loaded from the training's description.
func (r *Registry) Open(owner int, t *models.Train) *Draft {
	d := &Draft{
		ID:      uuid.New(),
		Owner:   owner,
		editor:  series.NewEditor(nil),
		touched: r.now(),
	}
	if t != nil {
		active := t.Active
		d.TrainID = t.ID
		d.editor = series.EditorFor(t.Description)
		d.meta = Meta{
			Title:     t.Title,
			Active:    &active,
			Published: formatTime(t.Published),
			Expired:   formatTime(t.Expired),
		}
	}

	r.mu.Lock()
	r.drafts[d.ID] = d
	r.mu.Unlock()

	r.log.Debug("draft opened", "draft", d.ID, "train", d.TrainID, "owner", owner)
	return d
}

// Get returns owner's draft id.
func (r *Registry) Get(id uuid.UUID, owner int) (*Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[id]
	if !ok || d.Owner != owner {
		return nil, ErrNotFound
	}
	return d, nil
}

// Apply runs op on owner's draft and returns the updated snapshot.
func (r *Registry) Apply(id uuid.UUID, owner int, op Op) (Snapshot, error) {
	d, err := r.Get(id, owner)
	if err != nil {
		return Snapshot{}, err
	}
	if err := d.Apply(op, r.now()); err != nil {
		return Snapshot{}, err
	}
	return d.Snapshot()
}

// Save validates and persists the draft through s, then discards it. The
// draft stays open when saving fails.
func (r *Registry) Save(ctx context.Context, id uuid.UUID, owner int, s Saver) (*models.Train, error) {
	d, err := r.Get(id, owner)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	if d.saving {
		d.mu.Unlock()
		return nil, ErrSaving
	}
	in, err := d.input(r.now())
	if err != nil {
		d.mu.Unlock()
		return nil, err
	}
	d.saving = true
	trainID := d.TrainID
	d.mu.Unlock()

	var saved *models.Train
	if trainID > 0 {
		saved, err = s.UpdateTrain(ctx, trainID, in)
	} else {
		saved, err = s.CreateTrain(ctx, in)
	}
	if err != nil {
		d.mu.Lock()
		d.saving = false
		d.mu.Unlock()
		return nil, fmt.Errorf("saving draft %s: %w", id, err)
	}

	r.discard(id)
	r.log.Info("draft saved", "draft", id, "train", saved.ID)
	return saved, nil
}

// Discard drops owner's draft without saving.
func (r *Registry) Discard(id uuid.UUID, owner int) error {
	d, err := r.Get(id, owner)
	if err != nil {
		return err
	}
	d.mu.Lock()
	saving := d.saving
	d.mu.Unlock()
	if saving {
		return ErrSaving
	}
	r.discard(id)
	return nil
}

func (r *Registry) discard(id uuid.UUID) {
	r.mu.Lock()
	delete(r.drafts, id)
	r.mu.Unlock()
}

// Sweep drops drafts idle for longer than the TTL and returns how many.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, d := range r.drafts {
		d.mu.Lock()
		idle := d.touched.Before(cutoff) && !d.saving
		d.mu.Unlock()
		if idle {
			delete(r.drafts, id)
			n++
		}
	}
	if n > 0 {
		r.log.Info("expired drafts dropped", "count", n)
	}
	return n
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Len returns the number of open drafts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
