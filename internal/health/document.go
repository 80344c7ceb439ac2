package health

import (
	"encoding/json"
	"fmt"
)

// serializationError is the document emitted when encoding fails.
const serializationError = `{"error":"Failed to serialize health data"}`

// marshal is swapped in tests to exercise the failure path.
var marshal = json.Marshal

// Document is the merged snapshot of every metric series plus the derived
// daily calorie estimate.
type Document struct {
	Series        map[Metric][]Sample
	DailyCalories []DailyCalories
}

// NewDocument returns a document with an empty series for every metric.
func NewDocument() *Document {
	doc := &Document{
		Series:        make(map[Metric][]Sample, len(Metrics)),
		DailyCalories: []DailyCalories{},
	}
	for _, m := range Metrics {
		doc.Series[m] = []Sample{}
	}
	return doc
}

// wireDocument fixes the key order of the encoded document.
type wireDocument struct {
	Weights                []Sample        `json:"weights"`
	Steps                  []Sample        `json:"steps"`
	ActiveEnergy           []Sample        `json:"activeEnergy"`
	HeartRates             []Sample        `json:"heartRates"`
	RestingHeartRates      []Sample        `json:"restingHeartRates"`
	WalkingHeartRates      []Sample        `json:"walkingHeartRates"`
	VO2Max                 []Sample        `json:"vo2Max"`
	FlightsClimbed         []Sample        `json:"flightsClimbed"`
	DistanceWalkingRunning []Sample        `json:"distanceWalkingRunning"`
	DailyCaloriesEstimate  []DailyCalories `json:"dailyCaloriesEstimate"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (d *Document) wire() wireDocument {
	return wireDocument{
		Weights:                nonNil(d.Series[Weight]),
		Steps:                  nonNil(d.Series[Steps]),
		ActiveEnergy:           nonNil(d.Series[ActiveEnergy]),
		HeartRates:             nonNil(d.Series[HeartRate]),
		RestingHeartRates:      nonNil(d.Series[RestingHeartRate]),
		WalkingHeartRates:      nonNil(d.Series[WalkingHeartRate]),
		VO2Max:                 nonNil(d.Series[VO2Max]),
		FlightsClimbed:         nonNil(d.Series[FlightsClimbed]),
		DistanceWalkingRunning: nonNil(d.Series[Distance]),
		DailyCaloriesEstimate:  nonNil(d.DailyCalories),
	}
}

// Encode renders the document as JSON. It never fails: if encoding is not
// possible the single-field error document is returned instead.
func Encode(d *Document) []byte {
	if d == nil {
		d = NewDocument()
	}
	data, err := marshal(d.wire())
	if err != nil {
		return []byte(serializationError)
	}
	return data
}

// Decode parses a document produced by Encode.
func Decode(data []byte) (*Document, error) {
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding health document: %w", err)
	}
	doc := NewDocument()
	doc.Series[Weight] = nonNil(w.Weights)
	doc.Series[Steps] = nonNil(w.Steps)
	doc.Series[ActiveEnergy] = nonNil(w.ActiveEnergy)
	doc.Series[HeartRate] = nonNil(w.HeartRates)
	doc.Series[RestingHeartRate] = nonNil(w.RestingHeartRates)
	doc.Series[WalkingHeartRate] = nonNil(w.WalkingHeartRates)
	doc.Series[VO2Max] = nonNil(w.VO2Max)
	doc.Series[FlightsClimbed] = nonNil(w.FlightsClimbed)
	doc.Series[Distance] = nonNil(w.DistanceWalkingRunning)
	doc.DailyCalories = nonNil(w.DailyCaloriesEstimate)
	return doc, nil
}

// SampleCount returns the total number of samples across all series.
func (d *Document) SampleCount() int {
	n := 0
	for _, s := range d.Series {
		n += len(s)
	}
	return n
}
