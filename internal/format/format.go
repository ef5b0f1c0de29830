// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package format turns raw telemetry values into display strings: unit
// conversion through the selection policy, fixed precision, unit suffix,
// and the degrees/minutes rendering of coordinates.
package format

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/relabs-tech/marine_dashboard/internal/monitoring"
	"github.com/relabs-tech/marine_dashboard/internal/paths"
	"github.com/relabs-tech/marine_dashboard/internal/telemetry"
	"github.com/relabs-tech/marine_dashboard/internal/units"
)

// TimeLayout is the display layout of timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// Unavailable is the value shown for a row whose reading could not be formatted.
const Unavailable = "--"

var (
	// ErrUnknownPath is returned for an update whose path has no metadata.
	ErrUnknownPath = errors.New("unknown path")
	// ErrUnexpectedUnit is returned when a coordinate does not arrive in decimal degrees.
	ErrUnexpectedUnit = errors.New("unexpected source unit")
	// ErrInvalidValue is returned for NaN or infinite readings and for
	// coordinates outside ±90° latitude or ±180° longitude.
	ErrInvalidValue = errors.New("invalid value")
)

// Formatter formats values according to a unit selection policy and a path
// metadata table. It holds no mutable state and is safe for concurrent use.
type Formatter struct {
	policy *units.Policy
	table  paths.Table
	loc    *time.Location
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithLocation sets the time zone timestamps are rendered in (default time.Local).
func WithLocation(loc *time.Location) Option {
	return func(f *Formatter) {
		if loc != nil {
			f.loc = loc
		}
	}
}

// NewFormatter checks that every path in table can be shown under policy
// and returns a Formatter. An incomplete table or a missing conversion is
// reported here rather than on the first reading.
func NewFormatter(policy *units.Policy, table paths.Table, opts ...Option) (*Formatter, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	var ids []paths.ID
	for id := range table {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		m := table[id]
		target, err := policy.DisplayUnit(m.Group)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", id, err)
		}
		if isCoordinate(m.Group) {
			if m.Unit != units.DecimalDegrees {
				return nil, fmt.Errorf("path %q: %w %q for %s", id, ErrUnexpectedUnit, m.Unit, m.Group)
			}
			continue
		}
		if !units.Convertible(m.Unit, target) {
			return nil, fmt.Errorf("path %q: %w: %s -> %s", id, units.ErrNoConversion, m.Unit, target)
		}
	}

	f := &Formatter{policy: policy, table: table, loc: time.Local}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// FormatValue converts value from sourceUnit to the display unit of group
// and renders it with the unit's precision and suffix.
func (f *Formatter) FormatValue(value float64, group units.Group, sourceUnit units.Unit) (string, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", fmt.Errorf("%w: %v", ErrInvalidValue, value)
	}

	target, err := f.policy.DisplayUnit(group)
	if err != nil {
		return "", err
	}

	v, err := units.Convert(sourceUnit, target, value)
	if err != nil {
		return "", err
	}

	if target == units.UnixEpoch {
		return time.UnixMilli(int64(v)).In(f.loc).Format(TimeLayout), nil
	}

	var s string
	if d, ok := units.Decimals(target); ok {
		s = strconv.FormatFloat(v, 'f', d, 64)
	} else {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return s + units.Suffix(target), nil
}

// FormatLatLon renders a latitude or longitude given in decimal degrees,
// in the coordinate mode chosen by the policy, followed by the hemisphere.
func (f *Formatter) FormatLatLon(value float64, group units.Group, sourceUnit units.Unit) (string, error) {
	if !isCoordinate(group) {
		return "", fmt.Errorf("%w: %q is not a coordinate", units.ErrUnknownGroup, group)
	}
	if sourceUnit != units.DecimalDegrees {
		monitoring.Logf("format: %s arrived in %q, expected %q", group, sourceUnit, units.DecimalDegrees)
		return "", fmt.Errorf("%w %q for %s", ErrUnexpectedUnit, sourceUnit, group)
	}
	if math.IsNaN(value) || math.Abs(value) > coordinateLimit(group) {
		return "", fmt.Errorf("%w: %s %v", ErrInvalidValue, group, value)
	}

	mode, err := f.policy.DisplayUnit(group)
	if err != nil {
		return "", err
	}

	abs := math.Abs(value)
	hemi := hemisphere(group, value)

	switch mode {
	case units.DecimalDegrees:
		return fmt.Sprintf("%.4f°%s", abs, hemi), nil
	case units.DegreesMinutes:
		deg := math.Floor(abs)
		mins := math.Round((abs-deg)*600) / 10
		if mins >= 60 {
			deg++
			mins = 0
		}
		return fmt.Sprintf("%d° %.1f'%s", int(deg), mins, hemi), nil
	}
	return "", fmt.Errorf("%w: %s -> %s", units.ErrNoConversion, sourceUnit, mode)
}

// FormatUpdate formats one raw update into a display record.
func (f *Formatter) FormatUpdate(u telemetry.RawUpdate) (telemetry.FormattedRecord, error) {
	m, ok := f.table.Lookup(u.Key)
	if !ok {
		return telemetry.FormattedRecord{}, fmt.Errorf("%w: %q", ErrUnknownPath, u.Key)
	}

	src := u.Unit
	if src == "" {
		src = m.Unit
	}

	var (
		value string
		err   error
	)
	if isCoordinate(m.Group) {
		value, err = f.FormatLatLon(u.Value, m.Group, src)
	} else {
		value, err = f.FormatValue(u.Value, m.Group, src)
	}
	if err != nil {
		return telemetry.FormattedRecord{}, fmt.Errorf("format %s: %w", u.Key, err)
	}

	ts, err := f.FormatValue(float64(u.LastUpdate), units.Time, units.UnixEpoch)
	if err != nil {
		return telemetry.FormattedRecord{}, fmt.Errorf("format %s timestamp: %w", u.Key, err)
	}

	return telemetry.FormattedRecord{
		Key:        u.Key,
		Label:      m.Label,
		Value:      value,
		LastUpdate: ts,
	}, nil
}

// UnavailableRecord is the row shown for an update that FormatUpdate rejected.
// Unknown paths are labelled with the path itself.
func (f *Formatter) UnavailableRecord(u telemetry.RawUpdate) telemetry.FormattedRecord {
	label := string(u.Key)
	if m, ok := f.table.Lookup(u.Key); ok {
		label = m.Label
	}
	ts, err := f.FormatValue(float64(u.LastUpdate), units.Time, units.UnixEpoch)
	if err != nil {
		ts = ""
	}
	return telemetry.FormattedRecord{
		Key:         u.Key,
		Label:       label,
		Value:       Unavailable,
		LastUpdate:  ts,
		Unavailable: true,
	}
}

func isCoordinate(g units.Group) bool {
	return g == units.Latitude || g == units.Longitude
}

func coordinateLimit(g units.Group) float64 {
	if g == units.Latitude {
		return 90
	}
	return 180
}

func hemisphere(g units.Group, v float64) string {
	if g == units.Latitude {
		if v >= 0 {
			return "N"
		}
		return "S"
	}
	if v >= 0 {
		return "E"
	}
	return "W"
}
