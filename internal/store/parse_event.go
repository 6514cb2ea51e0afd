package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendParse(ctx context.Context, data ParseEventData) error {
	err := r.insert(ctx, "parse_events",
		[]string{"run_id", "source", "stage", "rule", "questions", "dropped_questions", "dropped_options", "payload_bytes"},
		data.RunID, data.Source, data.Stage, data.Rule, data.Questions, data.DroppedQuestions, data.DroppedOptions, data.PayloadBytes,
	)
	if err != nil {
		return fmt.Errorf("save parse event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryParseEvents(ctx context.Context, opts QueryOpts) ([]ParseEventRecord, error) {
	suffix, args := opts.where()
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sequence, timestamp, run_id, source, stage, rule, questions, dropped_questions, dropped_options, payload_bytes
		FROM parse_events`+suffix, args...)
	if err != nil {
		return nil, fmt.Errorf("query parse events: %w", err)
	}
	defer rows.Close()

	var records []ParseEventRecord
	for rows.Next() {
		var (
			rec ParseEventRecord
			ts  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.RunID, &rec.Source, &rec.Stage, &rec.Rule,
			&rec.Questions, &rec.DroppedQuestions, &rec.DroppedOptions, &rec.PayloadBytes); err != nil {
			return nil, fmt.Errorf("scan parse event: %w", err)
		}
		rec.Timestamp = fromUnixNano(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) ParseStageCounts(ctx context.Context) ([]StageCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT stage, rule, COUNT(*) FROM parse_events GROUP BY stage, rule ORDER BY COUNT(*) DESC, stage, rule`)
	if err != nil {
		return nil, fmt.Errorf("query stage counts: %w", err)
	}
	defer rows.Close()

	var counts []StageCount
	for rows.Next() {
		var c StageCount
		if err := rows.Scan(&c.Stage, &c.Rule, &c.Runs); err != nil {
			return nil, fmt.Errorf("scan stage count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
