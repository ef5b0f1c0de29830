package format

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/marine_dashboard/internal/monitoring"
	"github.com/relabs-tech/marine_dashboard/internal/paths"
	"github.com/relabs-tech/marine_dashboard/internal/telemetry"
	"github.com/relabs-tech/marine_dashboard/internal/units"
)

func newFormatter(t *testing.T, overrides map[units.Group]units.Unit) *Formatter {
	t.Helper()
	policy, err := units.NewPolicy(overrides)
	require.NoError(t, err)
	f, err := NewFormatter(policy, paths.Defaults, WithLocation(time.UTC))
	require.NoError(t, err)
	return f
}

func captureLog(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	t.Cleanup(monitoring.SetLogger(func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}))
	return &lines
}

func TestFormatValue(t *testing.T) {
	f := newFormatter(t, nil)

	tests := []struct {
		name  string
		value float64
		group units.Group
		unit  units.Unit
		want  string
	}{
		{"water temperature", 283.15, units.Temperature, units.Kelvin, "10.0°C"},
		{"speed over ground", 5, units.Speed, units.MeterPerSecond, "9.7 kn"},
		{"speed already in knots", 6.3, units.Speed, units.Knot, "6.3 kn"},
		{"heading", math.Pi / 2, units.Direction, units.Radian, "90°"},
		{"port apparent wind", -0.5, units.Direction, units.Radian, "-29°"},
		{"depth", 4.4, units.Depth, units.Meter, "4 m"},
		{"log", 18520, units.Distance, units.Meter, "10.0 nm"},
		{"timestamp", 1700000000000, units.Time, units.UnixEpoch, "2023-11-14 22:13:20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.FormatValue(tt.value, tt.group, tt.unit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatValueWithOverrides(t *testing.T) {
	f := newFormatter(t, map[units.Group]units.Unit{
		units.Speed:       units.KilometerPerHour,
		units.Depth:       units.Foot,
		units.Temperature: units.Kelvin,
		units.Direction:   units.Radian,
	})

	got, err := f.FormatValue(5, units.Speed, units.MeterPerSecond)
	require.NoError(t, err)
	assert.Equal(t, "18.0 km/h", got)

	got, err = f.FormatValue(10, units.Depth, units.Meter)
	require.NoError(t, err)
	assert.Equal(t, "33 ft", got)

	got, err = f.FormatValue(290, units.Temperature, units.Kelvin)
	require.NoError(t, err)
	assert.Equal(t, "290.0 K", got)

	got, err = f.FormatValue(1.2, units.Direction, units.Radian)
	require.NoError(t, err)
	assert.Equal(t, "1 rad", got)
}

func TestFormatValueIsRepeatable(t *testing.T) {
	f := newFormatter(t, nil)
	first, err := f.FormatValue(3.3, units.Speed, units.MeterPerSecond)
	require.NoError(t, err)
	second, err := f.FormatValue(3.3, units.Speed, units.MeterPerSecond)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFormatValueErrors(t *testing.T) {
	f := newFormatter(t, nil)

	_, err := f.FormatValue(1, units.Speed, units.MilePerHour)
	assert.ErrorIs(t, err, units.ErrNoConversion)

	_, err = f.FormatValue(1, units.Group("salinity"), units.Meter)
	assert.ErrorIs(t, err, units.ErrUnknownGroup)

	_, err = f.FormatValue(math.NaN(), units.Depth, units.Meter)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestFormatLatLon(t *testing.T) {
	dm := newFormatter(t, nil)
	dd := newFormatter(t, map[units.Group]units.Unit{
		units.Latitude:  units.DecimalDegrees,
		units.Longitude: units.DecimalDegrees,
	})

	tests := []struct {
		name  string
		f     *Formatter
		value float64
		group units.Group
		want  string
	}{
		{"north", dm, 36.5, units.Latitude, "36° 30.0'N"},
		{"south", dm, -36.5, units.Latitude, "36° 30.0'S"},
		{"prime meridian", dm, 0, units.Longitude, "0° 0.0'E"},
		{"west", dm, -4.25, units.Longitude, "4° 15.0'W"},
		{"minutes round up into degrees", dm, 36.99999, units.Latitude, "37° 0.0'N"},
		{"decimal north", dd, 36.5, units.Latitude, "36.5000°N"},
		{"decimal west", dd, -122.41942, units.Longitude, "122.4194°W"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.f.FormatLatLon(tt.value, tt.group, units.DecimalDegrees)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatLatLonWrongSourceUnit(t *testing.T) {
	lines := captureLog(t)
	f := newFormatter(t, nil)

	_, err := f.FormatLatLon(0.6, units.Latitude, units.Radian)
	assert.ErrorIs(t, err, ErrUnexpectedUnit)
	require.Len(t, *lines, 1)
	assert.Contains(t, (*lines)[0], "latitude")

	_, err = f.FormatLatLon(1, units.Depth, units.DecimalDegrees)
	assert.ErrorIs(t, err, units.ErrUnknownGroup)
}

func TestFormatLatLonOutOfRange(t *testing.T) {
	f := newFormatter(t, nil)

	tests := []struct {
		name  string
		value float64
		group units.Group
	}{
		{"latitude past pole", 90.5, units.Latitude},
		{"latitude south of pole", -91, units.Latitude},
		{"longitude past antimeridian", 180.01, units.Longitude},
		{"huge latitude", 1e300, units.Latitude},
		{"infinite longitude", math.Inf(-1), units.Longitude},
		{"nan", math.NaN(), units.Latitude},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.FormatLatLon(tt.value, tt.group, units.DecimalDegrees)
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}

	got, err := f.FormatLatLon(-180, units.Longitude, units.DecimalDegrees)
	require.NoError(t, err)
	assert.Equal(t, "180° 0.0'W", got)
}

func TestFormatUpdate(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	f, err := NewFormatter(units.DefaultPolicy(), paths.Defaults, WithLocation(loc))
	require.NoError(t, err)

	rec, err := f.FormatUpdate(telemetry.RawUpdate{
		Key:        paths.WaterTemperature,
		Value:      283.15,
		Unit:       units.Kelvin,
		LastUpdate: 1700000000000,
	})
	require.NoError(t, err)
	assert.Equal(t, telemetry.FormattedRecord{
		Key:        paths.WaterTemperature,
		Label:      "Water Temp",
		Value:      "10.0°C",
		LastUpdate: time.UnixMilli(1700000000000).In(loc).Format(TimeLayout),
	}, rec)
	assert.Equal(t, "2023-11-15 00:13:20", rec.LastUpdate)

	rec, err = f.FormatUpdate(telemetry.RawUpdate{Key: paths.SpeedOverGround, Value: 5, Unit: units.MeterPerSecond})
	require.NoError(t, err)
	assert.Equal(t, "9.7 kn", rec.Value)
	assert.Equal(t, "SOG", rec.Label)

	rec, err = f.FormatUpdate(telemetry.RawUpdate{Key: paths.Latitude, Value: 36.5})
	require.NoError(t, err)
	assert.Equal(t, "36° 30.0'N", rec.Value)
}

func TestFormatUpdateUnknownPath(t *testing.T) {
	f := newFormatter(t, nil)

	_, err := f.FormatUpdate(telemetry.RawUpdate{Key: "propulsion.main.revolutions", Value: 30})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPath)

	rec := f.UnavailableRecord(telemetry.RawUpdate{Key: "propulsion.main.revolutions", LastUpdate: 0})
	assert.Equal(t, "propulsion.main.revolutions", rec.Label)
	assert.Equal(t, Unavailable, rec.Value)
	assert.True(t, rec.Unavailable)
	assert.Equal(t, "1970-01-01 00:00:00", rec.LastUpdate)
}

func TestFormatUpdateUnconvertibleUnit(t *testing.T) {
	f := newFormatter(t, nil)

	u := telemetry.RawUpdate{Key: paths.Depth, Value: 30, Unit: units.Foot}
	_, err := f.FormatUpdate(u)
	assert.ErrorIs(t, err, units.ErrNoConversion)

	rec := f.UnavailableRecord(u)
	assert.Equal(t, "Depth", rec.Label)
	assert.True(t, rec.Unavailable)
}

func TestNewFormatterFailsFast(t *testing.T) {
	policy := units.DefaultPolicy()

	_, err := NewFormatter(policy, paths.Table{
		"navigation.speedOverGround": {Unit: units.Knot, Group: units.Speed, Label: "SOG"},
	})
	assert.NoError(t, err)

	kmh, err := units.NewPolicy(map[units.Group]units.Unit{units.Speed: units.KilometerPerHour})
	require.NoError(t, err)
	_, err = NewFormatter(kmh, paths.Table{
		"navigation.speedOverGround": {Unit: units.Knot, Group: units.Speed, Label: "SOG"},
	})
	assert.ErrorIs(t, err, units.ErrNoConversion)

	_, err = NewFormatter(policy, paths.Table{
		"navigation.position.latitude": {Unit: units.Radian, Group: units.Latitude, Label: "Lat"},
	})
	assert.ErrorIs(t, err, ErrUnexpectedUnit)

	_, err = NewFormatter(policy, paths.Table{
		"navigation.position.latitude": {Unit: units.DecimalDegrees, Group: units.Latitude},
	})
	assert.Error(t, err)
}
