// Package health collects the user's biometric time series from a Source,
// normalizes them into canonical units and merges them into a single
// serializable Document.
package health

// Metric is a tracked health measurement type.
type Metric string

// Tracked metrics.
const (
	Weight           Metric = "weight"
	Steps            Metric = "steps"
	ActiveEnergy     Metric = "active-energy"
	HeartRate        Metric = "heart-rate"
	RestingHeartRate Metric = "resting-heart-rate"
	WalkingHeartRate Metric = "walking-heart-rate"
	VO2Max           Metric = "vo2max"
	FlightsClimbed   Metric = "flights-climbed"
	Distance         Metric = "distance"
)

// Metrics lists every tracked metric in document order.
var Metrics = []Metric{
	Weight,
	Steps,
	ActiveEnergy,
	HeartRate,
	RestingHeartRate,
	WalkingHeartRate,
	VO2Max,
	FlightsClimbed,
	Distance,
}

// metricInfo holds the static per-metric properties.
type metricInfo struct {
	field     string
	canonical Unit
}

var metricTable = map[Metric]metricInfo{
	Weight:           {field: "weights", canonical: Kilogram},
	Steps:            {field: "steps", canonical: Count},
	ActiveEnergy:     {field: "activeEnergy", canonical: Kilocalorie},
	HeartRate:        {field: "heartRates", canonical: CountPerMinute},
	RestingHeartRate: {field: "restingHeartRates", canonical: CountPerMinute},
	WalkingHeartRate: {field: "walkingHeartRates", canonical: CountPerMinute},
	VO2Max:           {field: "vo2Max", canonical: MilliliterPerKgMinute},
	FlightsClimbed:   {field: "flightsClimbed", canonical: Count},
	Distance:         {field: "distanceWalkingRunning", canonical: Meter},
}

// Valid reports whether m is one of the tracked metrics.
func (m Metric) Valid() bool {
	_, ok := metricTable[m]
	return ok
}

// Field returns the document key under which the metric's series is stored.
func (m Metric) Field() string {
	return metricTable[m].field
}

// CanonicalUnit returns the unit every sample of this metric is converted to.
func (m Metric) CanonicalUnit() Unit {
	return metricTable[m].canonical
}

// ParseMetric resolves a metric key. It also accepts the document field name
// (e.g. "heartRates") so exported documents can be re-imported.
func ParseMetric(s string) (Metric, bool) {
	m := Metric(s)
	if m.Valid() {
		return m, true
	}
	for key, info := range metricTable {
		if info.field == s {
			return key, true
		}
	}
	return "", false
}
