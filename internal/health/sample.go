package health

import (
	"math"
	"time"
)

// TimestampLayout is the layout of Sample.Timestamp.
const TimestampLayout = time.RFC3339

// RawSample is a single measurement as returned by a Source, in its native unit.
type RawSample struct {
	Value float64
	Unit  Unit
	End   time.Time
}

// Sample is a normalized measurement. Value is always finite and > 0.
type Sample struct {
	Value     float64 `json:"value"`
	Timestamp string  `json:"timestamp"`
}

// Normalize converts raw into a Sample in canonical units. It returns false
// when the unit cannot be converted or the converted value is not a finite,
// strictly positive number.
func Normalize(raw RawSample, convert Converter) (Sample, bool) {
	v, err := convert(raw.Value, raw.Unit)
	if err != nil {
		return Sample{}, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return Sample{}, false
	}
	return Sample{
		Value:     v,
		Timestamp: raw.End.UTC().Format(TimestampLayout),
	}, true
}
