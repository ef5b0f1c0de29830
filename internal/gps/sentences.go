package gps

import (
	"math"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/relabs-tech/marine_dashboard/internal/paths"
	"github.com/relabs-tech/marine_dashboard/internal/telemetry"
	"github.com/relabs-tech/marine_dashboard/internal/units"
)

const (
	kmhToMS  = 1 / units.KmhPerMeterPerSecond
	knotToMS = 1 / units.KnotsPerMeterPerSecond
)

// ParseLine parses one NMEA 0183 line and translates it into updates.
// Blank lines and lines that are not sentences yield no updates and no error.
func ParseLine(line string, now time.Time) ([]telemetry.RawUpdate, error) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, "$") {
		return nil, nil
	}
	s, err := nmea.Parse(line)
	if err != nil {
		return nil, err
	}
	return Updates(s, now), nil
}

// Updates translates a parsed sentence into updates in the source units of
// paths.Defaults (SI, radians, decimal degrees). Sentences flagged invalid
// and unsupported types yield nothing.
func Updates(s nmea.Sentence, now time.Time) []telemetry.RawUpdate {
	ts := now.UnixMilli()
	up := func(key paths.ID, v float64, u units.Unit) telemetry.RawUpdate {
		return telemetry.RawUpdate{Key: key, Value: v, Unit: u, LastUpdate: ts}
	}

	switch m := s.(type) {
	case nmea.RMC:
		if m.Validity != nmea.ValidRMC {
			return nil
		}
		ups := []telemetry.RawUpdate{
			up(paths.Latitude, m.Latitude, units.DecimalDegrees),
			up(paths.Longitude, m.Longitude, units.DecimalDegrees),
			up(paths.SpeedOverGround, m.Speed*knotToMS, units.MeterPerSecond),
			up(paths.CourseOverGround, deg2rad(m.Course), units.Radian),
		}
		if fix, ok := fixTime(m.Date, m.Time); ok {
			ups = append(ups, up(paths.DateTime, float64(fix.UnixMilli()), units.UnixEpoch))
		}
		return ups

	case nmea.DPT:
		return []telemetry.RawUpdate{up(paths.Depth, m.Depth, units.Meter)}

	case nmea.MTW:
		if !m.CelsiusValid {
			return nil
		}
		return []telemetry.RawUpdate{up(paths.WaterTemperature, m.Temperature+units.KelvinOffset, units.Kelvin)}

	case nmea.HDT:
		return []telemetry.RawUpdate{up(paths.HeadingTrue, deg2rad(m.Heading), units.Radian)}

	case nmea.MWV:
		if !m.StatusValid {
			return nil
		}
		speed, ok := windSpeed(m.WindSpeed, m.WindSpeedUnit)
		if !ok {
			return nil
		}
		angle := deg2rad(signedAngle(m.WindAngle))
		switch m.Reference {
		case "R":
			return []telemetry.RawUpdate{
				up(paths.WindAngleApparent, angle, units.Radian),
				up(paths.WindSpeedApparent, speed, units.MeterPerSecond),
			}
		case "T":
			return []telemetry.RawUpdate{
				up(paths.WindAngleTrue, angle, units.Radian),
				up(paths.WindSpeedTrue, speed, units.MeterPerSecond),
			}
		}
	}
	return nil
}

func windSpeed(v float64, unit string) (float64, bool) {
	switch unit {
	case "M":
		return v, true
	case "N":
		return v * knotToMS, true
	case "K":
		return v * kmhToMS, true
	}
	return 0, false
}

// signedAngle maps 0..360 onto -180..180 (negative is port).
func signedAngle(deg float64) float64 {
	if deg > 180 {
		return deg - 360
	}
	return deg
}

func deg2rad(deg float64) float64 { return deg * math.Pi / 180 }

// fixTime combines an RMC date and time. Two-digit years from 80 on are
// taken as 19xx.
func fixTime(d nmea.Date, t nmea.Time) (time.Time, bool) {
	if !d.Valid || !t.Valid {
		return time.Time{}, false
	}
	year := 2000 + d.YY
	if d.YY >= 80 {
		year = 1900 + d.YY
	}
	return time.Date(year, time.Month(d.MM), d.DD, t.Hour, t.Minute, t.Second, t.Millisecond*int(time.Millisecond), time.UTC), true
}
