// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package units

import (
	"errors"
	"fmt"
	"math"
)

// Unit identifies a physical unit or a coordinate display format.
// The string values match the "unit" field of the broker payloads.
type Unit string

const (
	MeterPerSecond   Unit = "meter_per_second"
	Knot             Unit = "knot"
	MilePerHour      Unit = "mph"
	KilometerPerHour Unit = "km_per_hour"
	Radian           Unit = "radian"
	DegreeTrue       Unit = "degree_true"
	Meter            Unit = "meter"
	Foot             Unit = "foot"
	NauticalMile     Unit = "nautical_mile"
	Kelvin           Unit = "degree_K"
	Celsius          Unit = "degree_C"
	UnixEpoch        Unit = "unix_epoch"
	DecimalDegrees   Unit = "dd.dd"
	DegreesMinutes   Unit = "dd mm.mm"
)

// Conversion constants.
const (
	KelvinOffset           = 273.15
	FeetPerMeter           = 3.28083990
	KnotsPerMeterPerSecond = 1.94384449
	MphPerMeterPerSecond   = 2.23693629
	KmhPerMeterPerSecond   = 3.6
	MetersPerNauticalMile  = 1852.0
	DegreesPerRadian       = 180 / math.Pi
)

// ErrNoConversion is returned when two units have no entry in the conversion table.
var ErrNoConversion = errors.New("no conversion available")

// Convert maps v from one unit to another. Converting a unit to itself is
// always allowed; any other pair must be listed below.
func Convert(from, to Unit, v float64) (float64, error) {
	if from == to {
		return v, nil
	}

	switch {
	case from == Kelvin && to == Celsius:
		return v - KelvinOffset, nil
	case from == Meter && to == Foot:
		return v * FeetPerMeter, nil
	case from == Meter && to == NauticalMile:
		return v / MetersPerNauticalMile, nil
	case from == MeterPerSecond && to == Knot:
		return v * KnotsPerMeterPerSecond, nil
	case from == MeterPerSecond && to == MilePerHour:
		return v * MphPerMeterPerSecond, nil
	case from == MeterPerSecond && to == KilometerPerHour:
		return v * KmhPerMeterPerSecond, nil
	case from == Radian && to == DegreeTrue:
		return v * DegreesPerRadian, nil
	}

	return 0, fmt.Errorf("%w: %s -> %s", ErrNoConversion, from, to)
}

// Convertible reports whether Convert accepts the pair.
func Convertible(from, to Unit) bool {
	_, err := Convert(from, to, 0)
	return err == nil
}

// Decimals returns the fixed-point precision used to display a value in u.
// ok is false for units that fall back to the default float formatting.
func Decimals(u Unit) (decimals int, ok bool) {
	switch u {
	case Celsius, Kelvin:
		return 1, true
	case DegreeTrue, Radian:
		return 0, true
	case Knot, MeterPerSecond, MilePerHour, KilometerPerHour:
		return 1, true
	case Meter, Foot:
		return 0, true
	case NauticalMile:
		return 1, true
	}
	return 0, false
}

// Suffix is the label appended after a formatted value. Units without
// a label get an empty suffix.
func Suffix(u Unit) string {
	switch u {
	case MeterPerSecond:
		return " m/s"
	case Knot:
		return " kn"
	case MilePerHour:
		return " mph"
	case KilometerPerHour:
		return " km/h"
	case DegreeTrue:
		return "°"
	case Radian:
		return " rad"
	case Meter:
		return " m"
	case Foot:
		return " ft"
	case NauticalMile:
		return " nm"
	case Celsius:
		return "°C"
	case Kelvin:
		return " K"
	}
	return ""
}
