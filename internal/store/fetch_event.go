package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendFetch(ctx context.Context, data FetchEventData) error {
	err := r.insert(ctx, "fetch_events",
		[]string{"url", "status", "attempt", "latency_ms", "bytes", "from_cache", "success", "error_message"},
		data.URL, data.Status, data.Attempt, data.LatencyMs, data.Bytes, data.FromCache, data.Success, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save fetch event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryFetchEvents(ctx context.Context, opts QueryOpts) ([]FetchEventRecord, error) {
	suffix, args := opts.where()
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sequence, timestamp, url, status, attempt, latency_ms, bytes, from_cache, success, error_message
		FROM fetch_events`+suffix, args...)
	if err != nil {
		return nil, fmt.Errorf("query fetch events: %w", err)
	}
	defer rows.Close()

	var records []FetchEventRecord
	for rows.Next() {
		var (
			rec FetchEventRecord
			ts  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.URL, &rec.Status, &rec.Attempt,
			&rec.LatencyMs, &rec.Bytes, &rec.FromCache, &rec.Success, &rec.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan fetch event: %w", err)
		}
		rec.Timestamp = fromUnixNano(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}
