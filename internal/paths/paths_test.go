package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/marine_dashboard/internal/units"
)

func TestDefaultsAreComplete(t *testing.T) {
	require.NoError(t, Defaults.Validate())
	require.NoError(t, Defaults.ValidateOrder(DefaultOrder))
	assert.Len(t, DefaultOrder, len(Defaults))
}

func TestLookup(t *testing.T) {
	m, ok := Defaults.Lookup(WaterTemperature)
	require.True(t, ok)
	assert.Equal(t, units.Kelvin, m.Unit)
	assert.Equal(t, units.Temperature, m.Group)

	_, ok = Defaults.Lookup("propulsion.main.revolutions")
	assert.False(t, ok)
}

func TestValidateRejectsIncompleteEntries(t *testing.T) {
	tbl := Table{"a.b": {Unit: units.Meter, Group: units.Depth}}
	assert.ErrorContains(t, tbl.Validate(), "missing label")

	tbl = Table{"a.b": {Unit: units.Meter, Group: "salinity", Label: "X"}}
	assert.ErrorIs(t, tbl.Validate(), units.ErrUnknownGroup)

	assert.Error(t, Defaults.ValidateOrder([]ID{"a.b"}))
}
