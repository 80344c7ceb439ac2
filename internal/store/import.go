package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blackwell-systems/healthwatch/internal/health"
)

// ImportResult summarizes one imported file.
type ImportResult struct {
	Path     string `json:"path"`
	Read     int    `json:"read"`     // records recognized in the file
	Inserted int    `json:"inserted"` // records newly stored
	Skipped  int    `json:"skipped"`  // records with an unknown metric, unit or date
}

// ImportFile loads samples from a .json sample export or a .fit activity file.
func ImportFile(ctx context.Context, db *DB, path string) (ImportResult, error) {
	res := ImportResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}
	origin := filepath.Base(path)

	var rows []SampleRow
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		rows, res.Skipped, err = parseJSONSamples(data, origin)
	case ".fit":
		rows, err = parseFIT(data, origin)
	default:
		return res, fmt.Errorf("unsupported file type %q (want .json or .fit)", filepath.Ext(path))
	}
	if err != nil {
		return res, fmt.Errorf("parsing %s: %w", path, err)
	}
	res.Read = len(rows)

	res.Inserted, err = db.InsertSamples(ctx, rows)
	if err != nil {
		return res, fmt.Errorf("storing samples from %s: %w", path, err)
	}
	return res, nil
}

// jsonSample is one record of a JSON sample export.
type jsonSample struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Date   string  `json:"date"`
}

// dateLayouts are the timestamp formats accepted in JSON exports.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseJSONSamples accepts either an array of jsonSample records or a
// health summary document as printed by `healthwatch summary --json`.
func parseJSONSamples(data []byte, origin string) ([]SampleRow, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return parseDocument(trimmed, origin)
	}

	var records []jsonSample
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, 0, err
	}

	var rows []SampleRow
	skipped := 0
	for _, rec := range records {
		m, ok := health.ParseMetric(rec.Metric)
		if !ok {
			skipped++
			continue
		}
		unit := health.Unit(rec.Unit)
		if unit == "" {
			unit = m.CanonicalUnit()
		}
		if _, err := health.ConverterFor(m)(1, unit); err != nil {
			skipped++
			continue
		}
		end, ok := parseDate(rec.Date)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, SampleRow{
			Metric:  string(m),
			Value:   rec.Value,
			Unit:    string(unit),
			EndedAt: end,
			Origin:  origin,
		})
	}
	return rows, skipped, nil
}

func parseDocument(data []byte, origin string) ([]SampleRow, int, error) {
	doc, err := health.Decode(data)
	if err != nil {
		return nil, 0, err
	}
	var rows []SampleRow
	skipped := 0
	for _, m := range health.Metrics {
		for _, s := range doc.Series[m] {
			end, err := time.Parse(health.TimestampLayout, s.Timestamp)
			if err != nil {
				skipped++
				continue
			}
			rows = append(rows, SampleRow{
				Metric:  string(m),
				Value:   s.Value,
				Unit:    string(m.CanonicalUnit()),
				EndedAt: end,
				Origin:  origin,
			})
		}
	}
	return rows, skipped, nil
}
