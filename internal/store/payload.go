package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// payloadRepo implements PayloadRepo with raw SQL.
type payloadRepo struct {
	db *sql.DB
}

func (r *payloadRepo) Save(ctx context.Context, p *Payload) error {
	if p.FetchedAt.IsZero() {
		p.FetchedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payloads (url, fetched_at, body) VALUES (?, ?, ?)`,
		p.URL, p.FetchedAt.UnixNano(), p.Body)
	if err != nil {
		return fmt.Errorf("save payload: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		p.ID = int(id)
	}
	return nil
}

func (r *payloadRepo) Latest(ctx context.Context, url string) (*Payload, error) {
	var (
		p  Payload
		ts int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, url, fetched_at, body FROM payloads WHERE url = ? ORDER BY fetched_at DESC, id DESC LIMIT 1`,
		url).Scan(&p.ID, &p.URL, &ts, &p.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest payload: %w", err)
	}
	p.FetchedAt = fromUnixNano(ts)
	return &p, nil
}

func (r *payloadRepo) Prune(ctx context.Context, url string, keep int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM payloads WHERE url = ? AND id NOT IN (
			SELECT id FROM payloads WHERE url = ? ORDER BY fetched_at DESC, id DESC LIMIT ?
		)`, url, url, keep)
	if err != nil {
		return fmt.Errorf("prune payloads: %w", err)
	}
	return nil
}
