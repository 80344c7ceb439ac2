package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blackwell-systems/healthwatch/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

var base = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func TestOpen_CreatesDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "health.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)

	// Migrating twice is a no-op.
	assert.NoError(t, db.Migrate())
}

func TestInsertSamples_IgnoresDuplicates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	rows := []SampleRow{
		{Metric: "steps", Value: 1200, Unit: "count", EndedAt: base, Origin: "a.json"},
		{Metric: "steps", Value: 800, Unit: "count", EndedAt: base.Add(time.Hour), Origin: "a.json"},
	}

	n, err := db.InsertSamples(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = db.InsertSamples(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	counts, err := db.CountByMetric(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"steps": 2}, counts)
}

func TestQuerySamples_FilterOrderLimit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	var rows []SampleRow
	for i := 0; i < 6; i++ {
		rows = append(rows, SampleRow{Metric: "heart-rate", Value: float64(60 + i), Unit: "count/min", EndedAt: base.Add(time.Duration(i) * time.Hour), Origin: "t"})
	}
	rows = append(rows, SampleRow{Metric: "steps", Value: 10, Unit: "count", EndedAt: base, Origin: "t"})
	_, err := db.InsertSamples(ctx, rows)
	require.NoError(t, err)

	got, err := db.QuerySamples(ctx, SampleFilter{
		Metric:      "heart-rate",
		Start:       base.Add(time.Hour),
		End:         base.Add(4 * time.Hour),
		Limit:       3,
		NewestFirst: true,
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []float64{64, 63, 62}, []float64{got[0].Value, got[1].Value, got[2].Value})
	assert.True(t, got[0].EndedAt.Equal(base.Add(4*time.Hour)))

	all, err := db.QuerySamples(ctx, SampleFilter{Metric: "heart-rate"})
	require.NoError(t, err)
	assert.Len(t, all, 6)
	assert.Equal(t, 60.0, all[0].Value)
}

func TestSource_AuthorizationAndQueries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := db.InsertSamples(ctx, []SampleRow{
		{Metric: "weight", Value: 158, Unit: "lb", EndedAt: base, Origin: "t"},
	})
	require.NoError(t, err)

	denied := NewSource(db, nil)
	ok, err := denied.RequestAuthorization(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	src := NewSource(db, func(context.Context) (bool, error) { return true, nil })
	ok, err = src.RequestAuthorization(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	raws, err := src.QuerySamples(ctx, health.Query{Metric: health.Weight, NewestFirst: true, Limit: 5})
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, health.Pound, raws[0].Unit)

	_, err = src.QuerySamples(ctx, health.Query{Metric: "sleep"})
	assert.True(t, errors.Is(err, health.ErrUnsupportedMetric))
}

func TestSource_FeedsAggregator(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()
	_, err := db.InsertSamples(ctx, []SampleRow{
		{Metric: "active-energy", Value: 10, Unit: "kcal", EndedAt: now.Add(-2 * time.Minute), Origin: "t"},
		{Metric: "active-energy", Value: 15, Unit: "kcal", EndedAt: now.Add(-1 * time.Minute), Origin: "t"},
		{Metric: "steps", Value: 0, Unit: "count", EndedAt: now.Add(-time.Minute), Origin: "t"},
		{Metric: "distance", Value: 1.5, Unit: "km", EndedAt: now.Add(-time.Minute), Origin: "t"},
		{Metric: "distance", Value: 3, Unit: "km", EndedAt: now.AddDate(-3, 0, 0), Origin: "old"},
	})
	require.NoError(t, err)

	agg := health.NewAggregator(NewSource(db, nil), nil)
	agg.Location = time.UTC
	doc := agg.Collect(ctx)

	assert.Len(t, doc.Series[health.ActiveEnergy], 2)
	assert.Empty(t, doc.Series[health.Steps])
	require.Len(t, doc.Series[health.Distance], 1)
	assert.Equal(t, 1500.0, doc.Series[health.Distance][0].Value)

	total := 0.0
	for _, d := range doc.DailyCalories {
		total += d.Calories
	}
	assert.Equal(t, 25.0, total)
}
