package store

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/healthwatch/internal/health"
)

// Authorizer decides whether the user grants read access to their data.
type Authorizer func(ctx context.Context) (bool, error)

// Source adapts a DB to health.Source.
type Source struct {
	db        *DB
	authorize Authorizer
}

// NewSource returns a Source backed by db. A nil authorize denies access.
func NewSource(db *DB, authorize Authorizer) *Source {
	return &Source{db: db, authorize: authorize}
}

// RequestAuthorization implements health.Source.
func (s *Source) RequestAuthorization(ctx context.Context) (bool, error) {
	if s.authorize == nil {
		return false, nil
	}
	return s.authorize(ctx)
}

// QuerySamples implements health.Source.
func (s *Source) QuerySamples(ctx context.Context, q health.Query) ([]health.RawSample, error) {
	if !q.Metric.Valid() {
		return nil, fmt.Errorf("%q: %w", q.Metric, health.ErrUnsupportedMetric)
	}
	rows, err := s.db.QuerySamples(ctx, SampleFilter{
		Metric:      string(q.Metric),
		Start:       q.Start,
		End:         q.End,
		Limit:       q.Limit,
		NewestFirst: q.NewestFirst,
	})
	if err != nil {
		return nil, fmt.Errorf("querying %s samples: %w", q.Metric, err)
	}

	out := make([]health.RawSample, 0, len(rows))
	for _, r := range rows {
		out = append(out, health.RawSample{
			Value: r.Value,
			Unit:  health.Unit(r.Unit),
			End:   r.EndedAt,
		})
	}
	return out, nil
}
