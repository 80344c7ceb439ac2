package health

import "fmt"

// Unit identifies the native unit a raw sample was recorded in.
type Unit string

// Known units. An empty Unit means the metric's canonical unit.
const (
	Kilogram              Unit = "kg"
	Gram                  Unit = "g"
	Pound                 Unit = "lb"
	Stone                 Unit = "st"
	Count                 Unit = "count"
	Kilocalorie           Unit = "kcal"
	LargeCalorie          Unit = "Cal"
	Kilojoule             Unit = "kJ"
	CountPerMinute        Unit = "count/min"
	MilliliterPerKgMinute Unit = "mL/(kg·min)"
	LiterPerKgMinute      Unit = "L/(kg·min)"
	Meter                 Unit = "m"
	Kilometer             Unit = "km"
	Foot                  Unit = "ft"
	Mile                  Unit = "mi"
)

// Converter converts a value in the given native unit to a metric's
// canonical unit.
type Converter func(value float64, unit Unit) (float64, error)

// factors maps canonical unit -> native unit -> multiplier.
var factors = map[Unit]map[Unit]float64{
	Kilogram: {
		Kilogram: 1,
		Gram:     0.001,
		Pound:    0.45359237,
		Stone:    6.35029318,
	},
	Count: {
		Count: 1,
	},
	Kilocalorie: {
		Kilocalorie:  1,
		LargeCalorie: 1,
		Kilojoule:    1 / 4.184,
	},
	CountPerMinute: {
		CountPerMinute: 1,
	},
	MilliliterPerKgMinute: {
		MilliliterPerKgMinute: 1,
		LiterPerKgMinute:      1000,
	},
	Meter: {
		Meter:     1,
		Kilometer: 1000,
		Foot:      0.3048,
		Mile:      1609.344,
	},
}

// ConverterFor returns the Converter reconciling every accepted unit of m
// into m's canonical unit.
func ConverterFor(m Metric) Converter {
	canonical := m.CanonicalUnit()
	return func(value float64, unit Unit) (float64, error) {
		if unit == "" {
			unit = canonical
		}
		f, ok := factors[canonical][unit]
		if !ok {
			return 0, fmt.Errorf("cannot convert %q to %q for %s", unit, canonical, m)
		}
		return value * f, nil
	}
}
