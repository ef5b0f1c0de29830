// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package vessel

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/relabs-tech/marine_dashboard/internal/format"
	"github.com/relabs-tech/marine_dashboard/internal/monitoring"
	"github.com/relabs-tech/marine_dashboard/internal/paths"
	"github.com/relabs-tech/marine_dashboard/internal/telemetry"
	"github.com/relabs-tech/marine_dashboard/internal/units"
)

// Options configures a Store.
type Options struct {
	DisplayOrder  []paths.ID                 // table row order; nil uses paths.DefaultOrder
	UnitOverrides map[units.Group]units.Unit // display unit per group, on top of the defaults
	Paths         paths.Table                // nil uses paths.Defaults
	Location      *time.Location             // timestamp zone; nil uses time.Local
}

// View is one consistent point in time: the raw and formatted snapshots
// produced by the same batch.
type View struct {
	Seq       uint64
	Raw       Snapshot[telemetry.RawUpdate]
	Formatted Snapshot[telemetry.FormattedRecord]
}

// Position returns the vessel position from the raw snapshot. ok is false
// until both latitude and longitude have been received.
func (v *View) Position() (lat, lon float64, ok bool) {
	la, okLat := v.Raw.Get(paths.Latitude)
	lo, okLon := v.Raw.Get(paths.Longitude)
	if !okLat || !okLon {
		return 0, 0, false
	}
	return la.Value, lo.Value, true
}

// Rows returns the formatted records in the given order. Paths that were
// never received are left out.
func (v *View) Rows(order []paths.ID) []telemetry.FormattedRecord {
	rows := make([]telemetry.FormattedRecord, 0, len(order))
	for _, id := range order {
		if rec, ok := v.Formatted.Get(id); ok {
			rows = append(rows, rec)
		}
	}
	return rows
}

// Store holds the current View and replaces it on every applied batch.
// Apply calls are serialized; Current never blocks and always returns a
// complete View.
type Store struct {
	formatter *format.Formatter
	order     []paths.ID

	mu      sync.Mutex // serializes Apply
	current atomic.Pointer[View]

	listenersMu sync.RWMutex
	listeners   map[int]func(*View)
	nextID      int
}

// NewStore validates opts and returns an empty Store. Configuration errors
// (bad overrides, incomplete path table, missing conversions, unknown paths
// in the display order) are returned here.
func NewStore(opts Options) (*Store, error) {
	table := opts.Paths
	if table == nil {
		table = paths.Defaults
	}
	order := opts.DisplayOrder
	if order == nil {
		order = paths.DefaultOrder
	}
	if err := table.ValidateOrder(order); err != nil {
		return nil, err
	}

	policy, err := units.NewPolicy(opts.UnitOverrides)
	if err != nil {
		return nil, fmt.Errorf("unit overrides: %w", err)
	}

	f, err := format.NewFormatter(policy, table, format.WithLocation(opts.Location))
	if err != nil {
		return nil, err
	}

	s := &Store{
		formatter: f,
		order:     slices.Clone(order),
		listeners: make(map[int]func(*View)),
	}
	s.current.Store(&View{})
	return s, nil
}

// Formatter returns the formatter the store renders records with.
func (s *Store) Formatter() *format.Formatter { return s.formatter }

// Order returns the configured display order.
func (s *Store) Order() []paths.ID { return slices.Clone(s.order) }

// Current returns the latest View.
func (s *Store) Current() *View { return s.current.Load() }

// Rows returns the current formatted rows in display order.
func (s *Store) Rows() []telemetry.FormattedRecord {
	return s.Current().Rows(s.order)
}

// Apply merges one batch into both snapshots and publishes the new View to
// subscribers. Every key of the batch lands in both snapshots: an update
// that cannot be formatted is stored as an unavailable record. An empty
// batch returns the current View unchanged.
func (s *Store) Apply(batch []telemetry.RawUpdate) *View {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if len(batch) == 0 {
		return cur
	}

	records := make([]telemetry.FormattedRecord, len(batch))
	for i, u := range batch {
		rec, err := s.formatter.FormatUpdate(u)
		if err != nil {
			monitoring.Logf("vessel: %v", err)
			rec = s.formatter.UnavailableRecord(u)
		}
		records[i] = rec
	}

	next := &View{
		Seq:       cur.Seq + 1,
		Raw:       Merge(cur.Raw, batch),
		Formatted: Merge(cur.Formatted, records),
	}
	s.current.Store(next)

	s.listenersMu.RLock()
	fns := make([]func(*View), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.RUnlock()

	for _, fn := range fns {
		fn(next)
	}
	return next
}

// Subscribe registers fn to be called with every new View, in Seq order,
// from the goroutine calling Apply. fn must not call Apply. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(*View)) (cancel func()) {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}
