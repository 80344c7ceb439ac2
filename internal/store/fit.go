package store

import (
	"bytes"
	"fmt"
	"time"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"

	"github.com/blackwell-systems/healthwatch/internal/health"
)

// FIT invalid sentinels.
const (
	fitInvalidUint8  = 0xFF
	fitInvalidUint16 = 0xFFFF
	fitInvalidUint32 = 0xFFFFFFFF
)

// parseFIT extracts heart rate, active energy and distance samples from a
// FIT activity file.
func parseFIT(data []byte, origin string) ([]SampleRow, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty FIT data")
	}

	c := newFITCollector(origin)
	dec := decoder.New(bytes.NewReader(data))
	for dec.Next() {
		fit, err := dec.Decode()
		if err != nil {
			return nil, fmt.Errorf("decoding FIT file: %w", err)
		}
		for _, msg := range fit.Messages {
			switch msg.Num {
			case typedef.MesgNumRecord:
				rec := mesgdef.NewRecord(&msg)
				c.addHeartRate(rec.Timestamp, rec.HeartRate)
			case typedef.MesgNumSession:
				s := mesgdef.NewSession(&msg)
				end := s.Timestamp
				if end.IsZero() && !s.StartTime.IsZero() && s.TotalElapsedTime != fitInvalidUint32 {
					end = s.StartTime.Add(time.Duration(s.TotalElapsedTime) * time.Millisecond)
				}
				c.addSession(end, s.TotalCalories, s.TotalDistance)
			}
		}
	}
	return c.rows, nil
}

// fitCollector turns FIT messages into sample rows. Per-second heart rate
// records are thinned to the first reading of each minute.
type fitCollector struct {
	origin string
	rows   []SampleRow
	hrSeen map[time.Time]bool
}

func newFITCollector(origin string) *fitCollector {
	return &fitCollector{origin: origin, hrSeen: make(map[time.Time]bool)}
}

func (c *fitCollector) addHeartRate(ts time.Time, bpm uint8) {
	if ts.IsZero() || bpm == fitInvalidUint8 || bpm == 0 {
		return
	}
	minute := ts.UTC().Truncate(time.Minute)
	if c.hrSeen[minute] {
		return
	}
	c.hrSeen[minute] = true
	c.rows = append(c.rows, SampleRow{
		Metric:  string(health.HeartRate),
		Value:   float64(bpm),
		Unit:    string(health.CountPerMinute),
		EndedAt: ts.UTC(),
		Origin:  c.origin,
	})
}

func (c *fitCollector) addSession(end time.Time, kcal uint16, distanceCm uint32) {
	if end.IsZero() {
		return
	}
	if kcal != fitInvalidUint16 && kcal > 0 {
		c.rows = append(c.rows, SampleRow{
			Metric:  string(health.ActiveEnergy),
			Value:   float64(kcal),
			Unit:    string(health.Kilocalorie),
			EndedAt: end.UTC(),
			Origin:  c.origin,
		})
	}
	if distanceCm != fitInvalidUint32 && distanceCm > 0 {
		c.rows = append(c.rows, SampleRow{
			Metric:  string(health.Distance),
			Value:   float64(distanceCm) / 100,
			Unit:    string(health.Meter),
			EndedAt: end.UTC(),
			Origin:  c.origin,
		})
	}
}
