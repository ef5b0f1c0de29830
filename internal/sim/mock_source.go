// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sim

import (
	"math"
	"time"

	"github.com/relabs-tech/marine_dashboard/internal/paths"
	"github.com/relabs-tech/marine_dashboard/internal/telemetry"
	"github.com/relabs-tech/marine_dashboard/internal/units"
)

// Source is anything that can provide telemetry batches over time.
type Source interface {
	Next() ([]telemetry.RawUpdate, error)
}

const (
	// one lap around the circle takes this long
	lapPeriod = 10 * time.Minute
	// circle radius in degrees of latitude (about 500 m)
	radiusDeg = 0.0045
)

type mockSource struct {
	start    time.Time
	lat, lon float64
	now      func() time.Time
}

// NewMockSource creates a mock vessel that sails a circle around the given
// position and reports smoothly changing wind, depth and water temperature.
func NewMockSource(lat, lon float64) Source {
	return newMockSource(lat, lon, time.Now)
}

func newMockSource(lat, lon float64, now func() time.Time) *mockSource {
	return &mockSource{start: now(), lat: lat, lon: lon, now: now}
}

func (m *mockSource) Next() ([]telemetry.RawUpdate, error) {
	t := m.now()
	elapsed := t.Sub(m.start).Seconds()
	ts := t.UnixMilli()

	phase := 2 * math.Pi * elapsed / lapPeriod.Seconds()
	lat := m.lat + radiusDeg*math.Sin(phase)
	lon := m.lon + radiusDeg*math.Cos(phase)/math.Cos(m.lat*math.Pi/180)

	// sailing counter-clockwise: course is the tangent of the circle
	cog := math.Mod(3*math.Pi/2-phase+4*math.Pi, 2*math.Pi)
	sog := 2*math.Pi*radiusDeg*60*units.MetersPerNauticalMile/lapPeriod.Seconds() + 0.2*math.Sin(elapsed/7)
	heading := math.Mod(cog+0.05*math.Sin(elapsed/3)+2*math.Pi, 2*math.Pi)

	twd := 225 * math.Pi / 180
	tws := 6 + 1.5*math.Sin(elapsed/11)
	awa := math.Remainder(twd-heading, 2*math.Pi)
	log := elapsed * sog

	up := func(key paths.ID, v float64, u units.Unit) telemetry.RawUpdate {
		return telemetry.RawUpdate{Key: key, Value: v, Unit: u, LastUpdate: ts}
	}

	return []telemetry.RawUpdate{
		up(paths.Latitude, lat, units.DecimalDegrees),
		up(paths.Longitude, lon, units.DecimalDegrees),
		up(paths.SpeedOverGround, sog, units.MeterPerSecond),
		up(paths.CourseOverGround, cog, units.Radian),
		up(paths.HeadingTrue, heading, units.Radian),
		up(paths.SpeedThroughWater, sog*0.95, units.MeterPerSecond),
		up(paths.WindDirectionTrue, twd, units.Radian),
		up(paths.WindSpeedTrue, tws, units.MeterPerSecond),
		up(paths.WindAngleApparent, awa, units.Radian),
		up(paths.WindSpeedApparent, tws+sog*math.Cos(awa), units.MeterPerSecond),
		up(paths.Depth, 12+3*math.Sin(phase), units.Meter),
		up(paths.WaterTemperature, 290.15+0.3*math.Sin(elapsed/60), units.Kelvin),
		up(paths.TripLog, log, units.Meter),
		up(paths.DateTime, float64(ts), units.UnixEpoch),
	}, nil
}
