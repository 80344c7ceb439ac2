package health

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Defaults for the per-metric query.
const (
	DefaultWindowMonths = 18
	DefaultSampleLimit  = 550
)

// Aggregator runs one query per tracked metric concurrently and joins the
// results into a Document.
type Aggregator struct {
	source Source
	log    *zap.Logger

	WindowMonths int            // trailing query window, in months
	SampleLimit  int            // maximum samples per metric
	DayLayout    string         // layout for DailyCalories.Date
	Location     *time.Location // calendar used to bucket calorie days

	// OnSeriesDone, if set, is called from the executor goroutine once per
	// metric after its query has completed.
	OnSeriesDone func(Metric)

	now func() time.Time
}

// NewAggregator creates an Aggregator reading from src with default limits.
func NewAggregator(src Source, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{
		source:       src,
		log:          log,
		WindowMonths: DefaultWindowMonths,
		SampleLimit:  DefaultSampleLimit,
		DayLayout:    DefaultDayLayout,
		Location:     time.Local,
		now:          time.Now,
	}
}

// seriesResult is the private output slot of one executor.
type seriesResult struct {
	samples  []Sample
	calories *calorieAccumulator
}

// Collect queries every metric in parallel, waits for all of them and
// returns the merged document. Query failures degrade to empty series.
func (a *Aggregator) Collect(ctx context.Context) *Document {
	end := a.now()
	start := end.AddDate(0, -a.WindowMonths, 0)

	results := make([]seriesResult, len(Metrics))

	var g errgroup.Group
	for i, m := range Metrics {
		i, m := i, m
		g.Go(func() error {
			results[i] = a.querySeries(ctx, m, start, end)
			if a.OnSeriesDone != nil {
				a.OnSeriesDone(m)
			}
			return nil
		})
	}
	_ = g.Wait()

	doc := NewDocument()
	for i, m := range Metrics {
		doc.Series[m] = results[i].samples
		if results[i].calories != nil {
			doc.DailyCalories = results[i].calories.entries(a.DayLayout)
		}
	}
	return doc
}

// querySeries fetches and normalizes one metric. For active energy it also
// accumulates per-day calorie totals.
func (a *Aggregator) querySeries(ctx context.Context, m Metric, start, end time.Time) seriesResult {
	var res seriesResult
	res.samples = []Sample{}
	if m == ActiveEnergy {
		res.calories = newCalorieAccumulator(a.Location)
	}

	raws, err := a.source.QuerySamples(ctx, Query{
		Metric:      m,
		Start:       start,
		End:         end,
		Limit:       a.SampleLimit,
		NewestFirst: true,
	})
	if err != nil {
		if errors.Is(err, ErrUnsupportedMetric) {
			a.log.Debug("metric unavailable", zap.String("metric", string(m)))
		} else {
			a.log.Warn("query failed, using empty series", zap.String("metric", string(m)), zap.Error(err))
		}
		return res
	}

	sort.SliceStable(raws, func(i, j int) bool { return raws[i].End.After(raws[j].End) })
	if a.SampleLimit > 0 && len(raws) > a.SampleLimit {
		raws = raws[:a.SampleLimit]
	}

	convert := ConverterFor(m)
	for _, raw := range raws {
		s, ok := Normalize(raw, convert)
		if !ok {
			continue
		}
		res.samples = append(res.samples, s)
		if res.calories != nil {
			res.calories.add(raw.End, s.Value)
		}
	}
	a.log.Debug("series collected",
		zap.String("metric", string(m)),
		zap.Int("raw", len(raws)),
		zap.Int("kept", len(res.samples)),
	)
	return res
}
