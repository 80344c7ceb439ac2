package health

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ErrUnsupportedMetric is returned by a Source that cannot provide a metric.
var ErrUnsupportedMetric = errors.New("metric not supported by source")

// Query selects samples of one metric ending within [Start, End].
type Query struct {
	Metric      Metric
	Start       time.Time
	End         time.Time
	Limit       int
	NewestFirst bool
}

// Source is the health data provider. Implementations must be safe for
// concurrent QuerySamples calls.
type Source interface {
	// RequestAuthorization asks the user for read access to their data.
	RequestAuthorization(ctx context.Context) (bool, error)

	// QuerySamples returns raw samples matching q. A metric the source
	// does not know yields ErrUnsupportedMetric.
	QuerySamples(ctx context.Context, q Query) ([]RawSample, error)
}

// latestBatch is how many of the newest samples LatestSample inspects.
const latestBatch = 25

// LatestSample returns the newest valid sample of m among the latestBatch
// newest samples, if any. Errors are reported as a missing sample.
func LatestSample(ctx context.Context, src Source, m Metric) (Sample, bool) {
	raws, err := src.QuerySamples(ctx, Query{
		Metric:      m,
		End:         time.Now(),
		Limit:       latestBatch,
		NewestFirst: true,
	})
	if err != nil {
		return Sample{}, false
	}
	sort.SliceStable(raws, func(i, j int) bool { return raws[i].End.After(raws[j].End) })

	convert := ConverterFor(m)
	for _, raw := range raws {
		if s, ok := Normalize(raw, convert); ok {
			return s, true
		}
	}
	return Sample{}, false
}
