// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"os"
	"time"

	"github.com/relabs-tech/marine_dashboard/internal/config"
	"github.com/relabs-tech/marine_dashboard/internal/sim"
	"github.com/relabs-tech/marine_dashboard/internal/vessel"
)

// RunMockConsole feeds the simulated vessel straight into a store and
// prints the table, without a broker.
func RunMockConsole() error {
	cfg := config.Get()

	store, err := vessel.NewStore(cfg.Options())
	if err != nil {
		return fmt.Errorf("dashboard configuration: %w", err)
	}

	src := sim.NewMockSource(cfg.MockLatitude, cfg.MockLongitude)
	ticker := time.NewTicker(time.Duration(cfg.ConsoleLogInterval) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		batch, err := src.Next()
		if err != nil {
			return err
		}
		v := store.Apply(batch)
		printTable(os.Stdout, v.Rows(store.Order()))
	}
	return nil
}
