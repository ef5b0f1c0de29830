// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package paths

import (
	"fmt"

	"github.com/relabs-tech/marine_dashboard/internal/units"
)

// ID is a dotted identifier for one telemetry channel,
// e.g. "navigation.speedOverGround".
type ID string

// Well-known paths.
const (
	Latitude          ID = "navigation.position.latitude"
	Longitude         ID = "navigation.position.longitude"
	SpeedOverGround   ID = "navigation.speedOverGround"
	SpeedThroughWater ID = "navigation.speedThroughWater"
	CourseOverGround  ID = "navigation.courseOverGroundTrue"
	HeadingTrue       ID = "navigation.headingTrue"
	DateTime          ID = "navigation.datetime"
	Log               ID = "navigation.log"
	TripLog           ID = "navigation.trip.log"
	WindAngleApparent ID = "environment.wind.angleApparent"
	WindSpeedApparent ID = "environment.wind.speedApparent"
	WindDirectionTrue ID = "environment.wind.directionTrue"
	WindSpeedTrue     ID = "environment.wind.speedTrue"
	WindAngleTrue     ID = "environment.wind.angleTrueWater"
	Depth             ID = "environment.depth.belowTransducer"
	WaterTemperature  ID = "environment.water.temperature"
)

// Position is the object-valued path that carries latitude and longitude together.
const Position ID = "navigation.position"

// Meta describes how a path arrives and how it is labelled.
type Meta struct {
	Unit  units.Unit  // source unit
	Group units.Group // quantity group
	Label string
}

// Table maps every known path to its metadata.
type Table map[ID]Meta

// Defaults is the metadata for the paths a vessel usually publishes.
var Defaults = Table{
	Latitude:          {Unit: units.DecimalDegrees, Group: units.Latitude, Label: "Latitude"},
	Longitude:         {Unit: units.DecimalDegrees, Group: units.Longitude, Label: "Longitude"},
	SpeedOverGround:   {Unit: units.MeterPerSecond, Group: units.Speed, Label: "SOG"},
	SpeedThroughWater: {Unit: units.MeterPerSecond, Group: units.Speed, Label: "STW"},
	CourseOverGround:  {Unit: units.Radian, Group: units.Direction, Label: "COG"},
	HeadingTrue:       {Unit: units.Radian, Group: units.Direction, Label: "Heading"},
	DateTime:          {Unit: units.UnixEpoch, Group: units.Time, Label: "GPS Time"},
	Log:               {Unit: units.Meter, Group: units.Distance, Label: "Log"},
	TripLog:           {Unit: units.Meter, Group: units.Distance, Label: "Trip"},
	WindAngleApparent: {Unit: units.Radian, Group: units.Direction, Label: "AWA"},
	WindSpeedApparent: {Unit: units.MeterPerSecond, Group: units.Speed, Label: "AWS"},
	WindDirectionTrue: {Unit: units.Radian, Group: units.Direction, Label: "TWD"},
	WindSpeedTrue:     {Unit: units.MeterPerSecond, Group: units.Speed, Label: "TWS"},
	WindAngleTrue:     {Unit: units.Radian, Group: units.Direction, Label: "TWA"},
	Depth:             {Unit: units.Meter, Group: units.Depth, Label: "Depth"},
	WaterTemperature:  {Unit: units.Kelvin, Group: units.Temperature, Label: "Water Temp"},
}

// DefaultOrder is the table row order used when none is configured.
var DefaultOrder = []ID{
	Latitude,
	Longitude,
	SpeedOverGround,
	CourseOverGround,
	HeadingTrue,
	SpeedThroughWater,
	WindSpeedApparent,
	WindAngleApparent,
	WindSpeedTrue,
	WindAngleTrue,
	WindDirectionTrue,
	Depth,
	WaterTemperature,
	Log,
	TripLog,
	DateTime,
}

// Lookup returns the metadata for id.
func (t Table) Lookup(id ID) (Meta, bool) {
	m, ok := t[id]
	return m, ok
}

// Validate checks that every entry is complete.
func (t Table) Validate() error {
	for id, m := range t {
		if m.Label == "" {
			return fmt.Errorf("path %q: missing label", id)
		}
		if m.Unit == "" {
			return fmt.Errorf("path %q: missing source unit", id)
		}
		if _, err := units.ParseGroup(string(m.Group)); err != nil {
			return fmt.Errorf("path %q: %w", id, err)
		}
	}
	return nil
}

// ValidateOrder checks that every id in order is a known path.
func (t Table) ValidateOrder(order []ID) error {
	for _, id := range order {
		if _, ok := t[id]; !ok {
			return fmt.Errorf("display order: unknown path %q", id)
		}
	}
	return nil
}
