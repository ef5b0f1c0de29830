package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/marine_dashboard/internal/paths"
	"github.com/relabs-tech/marine_dashboard/internal/telemetry"
)

func TestMockSource(t *testing.T) {
	clock := time.UnixMilli(1700000000000)
	src := newMockSource(36.5, -4.25, func() time.Time { return clock })

	first, err := src.Next()
	require.NoError(t, err)

	for _, u := range first {
		_, ok := paths.Defaults.Lookup(u.Key)
		assert.True(t, ok, "unknown path %s", u.Key)
		assert.Equal(t, int64(1700000000000), u.LastUpdate)
	}

	got := map[paths.ID]telemetry.RawUpdate{}
	for _, u := range first {
		got[u.Key] = u
	}
	assert.InDelta(t, 36.5, got[paths.Latitude].Value, 1e-9)
	assert.Greater(t, got[paths.Longitude].Value, -4.25)
	assert.InDelta(t, 0, got[paths.TripLog].Value, 1e-9)

	clock = clock.Add(150 * time.Second)
	second, err := src.Next()
	require.NoError(t, err)
	for _, u := range second {
		if u.Key == paths.Latitude {
			assert.InDelta(t, 36.5045, u.Value, 1e-6)
		}
		if u.Key == paths.TripLog {
			assert.Greater(t, u.Value, 0.0)
		}
	}
}
