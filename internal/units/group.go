// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package units

import (
	"errors"
	"fmt"
	"slices"
)

// Group is the semantic category of a measurement. It decides which unit a
// value is displayed in, independent of the unit it arrived in.
type Group string

const (
	Latitude    Group = "latitude"
	Longitude   Group = "longitude"
	Speed       Group = "speed"
	Direction   Group = "direction"
	Depth       Group = "depth"
	Distance    Group = "distance"
	Temperature Group = "temperature"
	Time        Group = "time"
)

// Groups lists every known group.
var Groups = []Group{Latitude, Longitude, Speed, Direction, Depth, Distance, Temperature, Time}

// ErrUnknownGroup is returned for a group outside Groups.
var ErrUnknownGroup = errors.New("unknown quantity group")

// choices returns the display units a group may be shown in. The first
// entry is the default.
func choices(g Group) ([]Unit, error) {
	switch g {
	case Latitude, Longitude:
		return []Unit{DegreesMinutes, DecimalDegrees}, nil
	case Speed:
		return []Unit{Knot, MeterPerSecond, MilePerHour, KilometerPerHour}, nil
	case Direction:
		return []Unit{DegreeTrue, Radian}, nil
	case Depth:
		return []Unit{Meter, Foot}, nil
	case Distance:
		return []Unit{NauticalMile, Meter}, nil
	case Temperature:
		return []Unit{Celsius, Kelvin}, nil
	case Time:
		return []Unit{UnixEpoch}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, g)
}

// Policy decides the display unit of each group.
type Policy struct {
	display map[Group]Unit
}

// NewPolicy builds the selection policy from the defaults plus overrides.
// An override naming an unknown group, or a unit the group cannot be shown
// in, is a configuration error.
func NewPolicy(overrides map[Group]Unit) (*Policy, error) {
	p := &Policy{display: make(map[Group]Unit, len(Groups))}
	for _, g := range Groups {
		c, err := choices(g)
		if err != nil {
			return nil, err
		}
		p.display[g] = c[0]
	}

	var keys []Group
	for g := range overrides {
		keys = append(keys, g)
	}
	slices.Sort(keys)
	for _, g := range keys {
		u := overrides[g]
		c, err := choices(g)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(c, u) {
			return nil, fmt.Errorf("unit %q cannot display group %q (allowed: %v)", u, g, c)
		}
		p.display[g] = u
	}
	return p, nil
}

// DefaultPolicy returns the policy with no overrides.
func DefaultPolicy() *Policy {
	p, err := NewPolicy(nil)
	if err != nil {
		panic(err)
	}
	return p
}

// DisplayUnit returns the unit values of group g are shown in.
func (p *Policy) DisplayUnit(g Group) (Unit, error) {
	u, ok := p.display[g]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownGroup, g)
	}
	return u, nil
}

// ParseGroup validates a group name read from configuration.
func ParseGroup(s string) (Group, error) {
	g := Group(s)
	if _, err := choices(g); err != nil {
		return "", err
	}
	return g, nil
}
