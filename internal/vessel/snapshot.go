// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package vessel

import (
	"maps"
	"slices"

	"github.com/relabs-tech/marine_dashboard/internal/paths"
)

// Keyed is implemented by records stored in a Snapshot.
type Keyed interface {
	PathID() paths.ID
}

// Snapshot is an immutable mapping from path to record. A newer snapshot
// supersedes it; it is never modified after Merge returns it.
type Snapshot[T Keyed] struct {
	entries map[paths.ID]T
}

// Get returns the record stored for id. ok is false while the path has
// never been received.
func (s Snapshot[T]) Get(id paths.ID) (rec T, ok bool) {
	rec, ok = s.entries[id]
	return rec, ok
}

// Len returns the number of known paths.
func (s Snapshot[T]) Len() int { return len(s.entries) }

// Keys returns the known paths in sorted order.
func (s Snapshot[T]) Keys() []paths.ID {
	var keys []paths.ID
	for k := range s.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Map returns a copy of the snapshot contents.
func (s Snapshot[T]) Map() map[paths.ID]T {
	m := maps.Clone(s.entries)
	if m == nil {
		m = map[paths.ID]T{}
	}
	return m
}

// Merge overlays batch on cur and returns the result as a new snapshot.
// Entries are applied in batch order, so the last record for a key wins.
// Keys absent from the batch carry over; cur is left untouched.
func Merge[T Keyed](cur Snapshot[T], batch []T) Snapshot[T] {
	next := make(map[paths.ID]T, len(cur.entries)+len(batch))
	maps.Copy(next, cur.entries)
	for _, rec := range batch {
		next[rec.PathID()] = rec
	}
	return Snapshot[T]{entries: next}
}
