package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/relabs-tech/marine_dashboard/internal/paths"
	"github.com/relabs-tech/marine_dashboard/internal/units"
)

// wireUpdate is the broker representation of a RawUpdate. Value stays raw
// so null readings and position objects can be told apart.
type wireUpdate struct {
	Key        string          `json:"key"`
	Value      json.RawMessage `json:"value"`
	Unit       string          `json:"unit,omitempty"`
	LastUpdate *int64          `json:"last_update,omitempty"`
}

type envelope struct {
	Updates []wireUpdate `json:"updates"`
}

type position struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Decode turns one broker payload into a batch of RawUpdates, in payload
// order. The payload is either a JSON array of updates or an object with an
// "updates" array. Null values are skipped. A missing last_update is set to
// now.
//
// Entries that cannot be decoded are dropped and reported in the returned
// error; the remaining updates are still returned.
func Decode(payload []byte, now time.Time) ([]RawUpdate, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, nil
	}

	var entries []wireUpdate
	switch payload[0] {
	case '[':
		if err := json.Unmarshal(payload, &entries); err != nil {
			return nil, fmt.Errorf("decode update array: %w", err)
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			return nil, fmt.Errorf("decode update envelope: %w", err)
		}
		entries = env.Updates
	default:
		return nil, fmt.Errorf("decode updates: unexpected payload starting with %q", payload[0])
	}

	var (
		batch []RawUpdate
		errs  []error
	)
	for i, e := range entries {
		ups, err := e.toRaw(now)
		if err != nil {
			errs = append(errs, fmt.Errorf("update %d (%s): %w", i, e.Key, err))
			continue
		}
		batch = append(batch, ups...)
	}
	return batch, errors.Join(errs...)
}

func (e wireUpdate) toRaw(now time.Time) ([]RawUpdate, error) {
	if e.Key == "" {
		return nil, errors.New("missing key")
	}

	ts := now.UnixMilli()
	if e.LastUpdate != nil {
		ts = *e.LastUpdate
	}

	v := bytes.TrimSpace(e.Value)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil, nil
	}

	if v[0] == '{' {
		if paths.ID(e.Key) != paths.Position {
			return nil, errors.New("object value on scalar path")
		}
		var p position
		if err := json.Unmarshal(v, &p); err != nil {
			return nil, err
		}
		var ups []RawUpdate
		if p.Latitude != nil {
			ups = append(ups, RawUpdate{Key: paths.Latitude, Value: *p.Latitude, Unit: units.DecimalDegrees, LastUpdate: ts})
		}
		if p.Longitude != nil {
			ups = append(ups, RawUpdate{Key: paths.Longitude, Value: *p.Longitude, Unit: units.DecimalDegrees, LastUpdate: ts})
		}
		return ups, nil
	}

	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		return nil, err
	}
	return []RawUpdate{{
		Key:        paths.ID(e.Key),
		Value:      f,
		Unit:       units.Unit(e.Unit),
		LastUpdate: ts,
	}}, nil
}

// Encode renders a batch as a JSON array payload accepted by Decode.
func Encode(batch []RawUpdate) ([]byte, error) {
	if batch == nil {
		batch = []RawUpdate{}
	}
	return json.Marshal(batch)
}
