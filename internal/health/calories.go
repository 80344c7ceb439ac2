package health

import (
	"sort"
	"time"
)

// DefaultDayLayout renders calorie days like "Jan 2, 2006".
const DefaultDayLayout = "Jan 2, 2006"

// DailyCalories is the summed active energy for one calendar day.
type DailyCalories struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
}

// calorieAccumulator sums kilocalories per calendar day in loc.
// It is owned by a single executor and needs no locking.
type calorieAccumulator struct {
	loc  *time.Location
	days map[time.Time]float64
}

func newCalorieAccumulator(loc *time.Location) *calorieAccumulator {
	if loc == nil {
		loc = time.Local
	}
	return &calorieAccumulator{loc: loc, days: make(map[time.Time]float64)}
}

func (a *calorieAccumulator) add(end time.Time, kcal float64) {
	t := end.In(a.loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, a.loc)
	a.days[day] += kcal
}

// entries returns one entry per observed day, oldest day first.
func (a *calorieAccumulator) entries(layout string) []DailyCalories {
	if layout == "" {
		layout = DefaultDayLayout
	}
	days := make([]time.Time, 0, len(a.days))
	for d := range a.days {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := make([]DailyCalories, 0, len(days))
	for _, d := range days {
		out = append(out, DailyCalories{Date: d.Format(layout), Calories: a.days[d]})
	}
	return out
}
