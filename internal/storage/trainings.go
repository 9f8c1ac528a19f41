package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/swimtrack/swimtrack/internal/models"
	"github.com/swimtrack/swimtrack/internal/series"
)

// ErrNotCached is returned when a training is not in the cache.
var ErrNotCached = errors.New("training not cached")

// CachedTrain is a training as stored locally, with the derived values
// computed when it was cached.
type CachedTrain struct {
	models.Train
	Community   bool      `json:"community"`
	Structured  bool      `json:"structured"`
	TotalMeters *int      `json:"total_meters,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// ListFilter narrows ListTrains. Zero values match everything.
type ListFilter struct {
	Title     string
	CreatorID int
	Community bool
	Limit     int
}

// Describe derives the cached values for t.
func Describe(t models.Train) (structured bool, meters *int, summary string) {
	p := series.Parse(t.Description)
	if !p.IsStructured() || len(p.Series) == 0 {
		return p.IsStructured(), nil, ""
	}
	total := series.Aggregate(p.Series).RoundedMeters()
	return true, &total, series.Summary(p.Series)
}

// UpsertTrains stores trains, replacing cached copies. community marks rows
// seen in the community listing; the flag is sticky once set.
func (d *DB) UpsertTrains(ctx context.Context, trains []models.Train, community bool) (int, error) {
	if len(trains) == 0 {
		return 0, nil
	}
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO trainings
		(id, title, description, active, published, expired, id_user_creator,
		 creator_name, creator_email, community, structured, total_meters, summary, fetched_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (id) DO UPDATE SET
		 title = excluded.title,
		 description = excluded.description,
		 active = excluded.active,
		 published = excluded.published,
		 expired = excluded.expired,
		 id_user_creator = excluded.id_user_creator,
		 creator_name = CASE WHEN excluded.creator_name = '' THEN trainings.creator_name ELSE excluded.creator_name END,
		 creator_email = CASE WHEN excluded.creator_email = '' THEN trainings.creator_email ELSE excluded.creator_email END,
		 community = MAX(trainings.community, excluded.community),
		 structured = excluded.structured,
		 total_meters = excluded.total_meters,
		 summary = excluded.summary,
		 fetched_at = excluded.fetched_at`)
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(timeLayout)
	for _, t := range trains {
		structured, meters, summary := Describe(t)
		var name, email string
		if t.UserCreator != nil {
			name, email = t.UserCreator.Name, t.UserCreator.Email
		}
		var total sql.NullInt64
		if meters != nil {
			total = sql.NullInt64{Int64: int64(*meters), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.Title, t.Description, t.Active, formatTime(t.Published), formatTime(t.Expired),
			t.IDUserCreator, name, email, community, structured, total, summary, now,
		); err != nil {
			return 0, fmt.Errorf("caching training %d: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing trainings: %w", err)
	}
	return len(trains), nil
}

const trainColumns = `id, title, description, active, published, expired, id_user_creator,
	creator_name, creator_email, community, structured, total_meters, summary, fetched_at`

// GetTrain returns the cached training id.
func (d *DB) GetTrain(ctx context.Context, id int) (*CachedTrain, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+trainColumns+` FROM trainings WHERE id = ?`, id)
	t, err := scanTrain(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("reading training %d: %w", id, err)
	}
	return t, nil
}

// ListTrains returns cached trainings, most recently published first.
func (d *DB) ListTrains(ctx context.Context, f ListFilter) ([]CachedTrain, error) {
	var (
		where []string
		args  []any
	)
	if f.Title != "" {
		where = append(where, "title LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(f.Title)+"%")
	}
	if f.CreatorID > 0 {
		where = append(where, "id_user_creator = ?")
		args = append(args, f.CreatorID)
	}
	if f.Community {
		where = append(where, "community = 1")
	}

	query := `SELECT ` + trainColumns + ` FROM trainings`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY published DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing trainings: %w", err)
	}
	defer rows.Close()

	out := make([]CachedTrain, 0)
	for rows.Next() {
		t, err := scanTrain(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning training: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// DeleteTrain drops a training from the cache. Missing rows are not an error.
func (d *DB) DeleteTrain(ctx context.Context, id int) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM trainings WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting training %d: %w", id, err)
	}
	return nil
}

// PruneTrains drops rows fetched before cutoff and returns how many.
func (d *DB) PruneTrains(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := d.db.ExecContext(ctx, `DELETE FROM trainings WHERE fetched_at < ?`,
		cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("pruning trainings: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrain(s scanner) (*CachedTrain, error) {
	var (
		t                    CachedTrain
		published, expired   string
		name, email, fetched string
		total                sql.NullInt64
	)
	err := s.Scan(&t.ID, &t.Title, &t.Description, &t.Active, &published, &expired,
		&t.IDUserCreator, &name, &email, &t.Community, &t.Structured, &total, &t.Summary, &fetched)
	if err != nil {
		return nil, err
	}
	t.Published = parseTime(published)
	t.Expired = parseTime(expired)
	t.FetchedAt = parseTime(fetched)
	if name != "" || email != "" {
		t.UserCreator = &models.UserSummary{ID: t.IDUserCreator, Name: name, Email: email}
	}
	if total.Valid {
		m := int(total.Int64)
		t.TotalMeters = &m
	}
	return &t, nil
}

// timeLayout has a fixed width so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
