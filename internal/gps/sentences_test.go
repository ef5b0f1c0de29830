package gps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/marine_dashboard/internal/paths"
	"github.com/relabs-tech/marine_dashboard/internal/telemetry"
	"github.com/relabs-tech/marine_dashboard/internal/units"
)

var now = time.UnixMilli(1700000000000)

func byKey(ups []telemetry.RawUpdate) map[paths.ID]telemetry.RawUpdate {
	m := make(map[paths.ID]telemetry.RawUpdate, len(ups))
	for _, u := range ups {
		m[u.Key] = u
	}
	return m
}

func TestParseLineRMC(t *testing.T) {
	ups, err := ParseLine("$GPRMC,220516,A,5133.82,N,00042.24,W,173.8,231.8,130694,004.2,W*70\r\n", now)
	require.NoError(t, err)
	require.Len(t, ups, 5)

	m := byKey(ups)
	assert.InDelta(t, 51.563667, m[paths.Latitude].Value, 1e-6)
	assert.Equal(t, units.DecimalDegrees, m[paths.Latitude].Unit)
	assert.InDelta(t, -0.704, m[paths.Longitude].Value, 1e-6)
	assert.InDelta(t, 89.410445, m[paths.SpeedOverGround].Value, 1e-5)
	assert.Equal(t, units.MeterPerSecond, m[paths.SpeedOverGround].Unit)
	assert.InDelta(t, 4.045673, m[paths.CourseOverGround].Value, 1e-6)
	assert.Equal(t, float64(771545116000), m[paths.DateTime].Value)
	assert.Equal(t, int64(1700000000000), m[paths.Latitude].LastUpdate)
}

func TestParseLineInvalidRMC(t *testing.T) {
	ups, err := ParseLine("$GPRMC,220516,V,,,,,,,130694,,*3A", now)
	require.NoError(t, err)
	assert.Empty(t, ups)
}

func TestParseLineEnvironment(t *testing.T) {
	tests := []struct {
		line  string
		key   paths.ID
		value float64
	}{
		{"$SDDPT,4.2,0.5,*78", paths.Depth, 4.2},
		{"$YXMTW,17.5,C*11", paths.WaterTemperature, 290.65},
		{"$HEHDT,123.4,T*2B", paths.HeadingTrue, 2.153736},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			ups, err := ParseLine(tt.line, now)
			require.NoError(t, err)
			require.Len(t, ups, 1)
			assert.Equal(t, tt.key, ups[0].Key)
			assert.InDelta(t, tt.value, ups[0].Value, 1e-6)
		})
	}
}

func TestParseLineWind(t *testing.T) {
	ups, err := ParseLine("$WIMWV,045.0,R,10.0,N,A*13", now)
	require.NoError(t, err)
	m := byKey(ups)
	assert.InDelta(t, 0.785398, m[paths.WindAngleApparent].Value, 1e-6)
	assert.InDelta(t, 5.144444, m[paths.WindSpeedApparent].Value, 1e-6)

	ups, err = ParseLine("$WIMWV,270.0,T,5.0,M,A*26", now)
	require.NoError(t, err)
	m = byKey(ups)
	assert.InDelta(t, -1.570796, m[paths.WindAngleTrue].Value, 1e-6)
	assert.InDelta(t, 5.0, m[paths.WindSpeedTrue].Value, 1e-9)

	ups, err = ParseLine("$WIMWV,090.0,R,36.0,K,V*0D", now)
	require.NoError(t, err)
	assert.Empty(t, ups)
}

func TestParseLineIgnoresNoise(t *testing.T) {
	ups, err := ParseLine("", now)
	assert.NoError(t, err)
	assert.Nil(t, ups)

	ups, err = ParseLine("garbage", now)
	assert.NoError(t, err)
	assert.Nil(t, ups)

	_, err = ParseLine("$GPRMC,220516,A,5133.82,N*00", now)
	assert.Error(t, err)
}
