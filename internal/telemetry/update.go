package telemetry

import (
	"github.com/relabs-tech/marine_dashboard/internal/paths"
	"github.com/relabs-tech/marine_dashboard/internal/units"
)

// RawUpdate is one measurement as received from the broker.
type RawUpdate struct {
	Key        paths.ID   `json:"key"`
	Value      float64    `json:"value"`
	Unit       units.Unit `json:"unit,omitempty"` // empty: the path's configured unit
	LastUpdate int64      `json:"last_update"`    // epoch millis
}

// FormattedRecord is a display-ready row. Records are never modified once
// built; a newer record for the same key replaces it.
type FormattedRecord struct {
	Key         paths.ID `json:"key"`
	Label       string   `json:"label"`
	Value       string   `json:"value"`
	LastUpdate  string   `json:"last_update"`
	Unavailable bool     `json:"unavailable,omitempty"`
}

// PathID returns the snapshot key of the update.
func (u RawUpdate) PathID() paths.ID { return u.Key }

// PathID returns the snapshot key of the record.
func (r FormattedRecord) PathID() paths.ID { return r.Key }
