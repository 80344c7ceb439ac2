package health

import (
	"context"
	"sync"
	"time"
)

// fakeSource serves canned samples per metric.
type fakeSource struct {
	mu          sync.Mutex
	samples     map[Metric][]RawSample
	unsupported map[Metric]bool
	failWith    error
	queries     []Query
	granted     bool

	// gate, if set, blocks each query until its channel is closed.
	gate map[Metric]chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		samples:     make(map[Metric][]RawSample),
		unsupported: make(map[Metric]bool),
		granted:     true,
	}
}

func (f *fakeSource) add(m Metric, value float64, unit Unit, end time.Time) {
	f.samples[m] = append(f.samples[m], RawSample{Value: value, Unit: unit, End: end})
}

func (f *fakeSource) RequestAuthorization(ctx context.Context) (bool, error) {
	return f.granted, nil
}

func (f *fakeSource) QuerySamples(ctx context.Context, q Query) ([]RawSample, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	gate := f.gate[q.Metric]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if f.failWith != nil {
		return nil, f.failWith
	}
	if f.unsupported[q.Metric] {
		return nil, ErrUnsupportedMetric
	}
	out := make([]RawSample, len(f.samples[q.Metric]))
	copy(out, f.samples[q.Metric])
	return out, nil
}
