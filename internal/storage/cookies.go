package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// SaveCookies replaces the cookies persisted for baseURL.
func (d *DB) SaveCookies(ctx context.Context, baseURL string, cookies []*http.Cookie) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_cookies WHERE base_url = ?`, baseURL); err != nil {
		return fmt.Errorf("clearing cookies: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, c := range cookies {
		if c.Value == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO session_cookies (base_url, name, value, saved_at) VALUES (?, ?, ?, ?)`,
			baseURL, c.Name, c.Value, now,
		); err != nil {
			return fmt.Errorf("saving cookie %s: %w", c.Name, err)
		}
	}
	return tx.Commit()
}

// LoadCookies returns the cookies persisted for baseURL.
func (d *DB) LoadCookies(ctx context.Context, baseURL string) ([]*http.Cookie, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT name, value FROM session_cookies WHERE base_url = ? ORDER BY name`, baseURL)
	if err != nil {
		return nil, fmt.Errorf("loading cookies: %w", err)
	}
	defer rows.Close()

	var out []*http.Cookie
	for rows.Next() {
		c := &http.Cookie{Path: "/"}
		if err := rows.Scan(&c.Name, &c.Value); err != nil {
			return nil, fmt.Errorf("scanning cookie: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ClearCookies forgets the session persisted for baseURL.
func (d *DB) ClearCookies(ctx context.Context, baseURL string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM session_cookies WHERE base_url = ?`, baseURL)
	if err != nil {
		return fmt.Errorf("clearing cookies: %w", err)
	}
	return nil
}
