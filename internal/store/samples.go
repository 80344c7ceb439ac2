package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SampleRow is one stored measurement in its native unit.
type SampleRow struct {
	Metric  string
	Value   float64
	Unit    string
	EndedAt time.Time
	Origin  string
}

// SampleFilter selects rows for one metric. Zero Start or End leaves that
// side of the range open; Limit <= 0 means no limit.
type SampleFilter struct {
	Metric      string
	Start       time.Time
	End         time.Time
	Limit       int
	NewestFirst bool
}

// InsertSamples stores rows in a single transaction, skipping exact
// duplicates. It returns the number of rows actually inserted.
func (db *DB) InsertSamples(ctx context.Context, rows []SampleRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO samples (metric, value, unit, ended_at, origin, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	importedAt := time.Now().UTC().Format(time.RFC3339)
	inserted := 0
	for _, r := range rows {
		res, err := stmt.ExecContext(ctx, r.Metric, r.Value, r.Unit, r.EndedAt.UnixMilli(), r.Origin, importedAt)
		if err != nil {
			return 0, fmt.Errorf("inserting %s sample: %w", r.Metric, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// QuerySamples returns the rows matching f.
func (db *DB) QuerySamples(ctx context.Context, f SampleFilter) ([]SampleRow, error) {
	var sb strings.Builder
	args := []any{f.Metric}
	sb.WriteString("SELECT metric, value, unit, ended_at, origin FROM samples WHERE metric = ?")
	if !f.Start.IsZero() {
		sb.WriteString(" AND ended_at >= ?")
		args = append(args, f.Start.UnixMilli())
	}
	if !f.End.IsZero() {
		sb.WriteString(" AND ended_at <= ?")
		args = append(args, f.End.UnixMilli())
	}
	if f.NewestFirst {
		sb.WriteString(" ORDER BY ended_at DESC, id DESC")
	} else {
		sb.WriteString(" ORDER BY ended_at ASC, id ASC")
	}
	if f.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SampleRow
	for rows.Next() {
		var r SampleRow
		var endedAt int64
		if err := rows.Scan(&r.Metric, &r.Value, &r.Unit, &endedAt, &r.Origin); err != nil {
			return nil, err
		}
		r.EndedAt = time.UnixMilli(endedAt).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountByMetric returns the number of stored rows per metric.
func (db *DB) CountByMetric(ctx context.Context) (map[string]int, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT metric, COUNT(*) FROM samples GROUP BY metric")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var metric string
		var n int
		if err := rows.Scan(&metric, &n); err != nil {
			return nil, err
		}
		counts[metric] = n
	}
	return counts, rows.Err()
}
