// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/tidewatch/internal/logging"
)

// DefaultGCRatio is the discard ratio passed to RunValueLogGC.
const DefaultGCRatio = 0.5

// Compactor periodically reclaims Badger value log space. Vessel records are
// rewritten on every report, so the value log accumulates stale versions
// quickly.
type Compactor struct {
	store    *VesselStore
	interval time.Duration
	ratio    float64
}

// NewCompactor creates a compactor for s running every interval.
func NewCompactor(s *VesselStore, interval time.Duration) *Compactor {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Compactor{store: s, interval: interval, ratio: DefaultGCRatio}
}

// RunGC runs value log GC until Badger reports nothing left to rewrite.
// In-memory stores have no value log and return nil.
func (c *Compactor) RunGC() error {
	if err := c.store.checkNotClosed(); err != nil {
		return err
	}
	if c.store.db.Opts().InMemory {
		return nil
	}

	for {
		err := c.store.db.RunValueLogGC(c.ratio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Serve implements suture.Service.
func (c *Compactor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	logging.Info().Dur("interval", c.interval).Msg("Vessel store compactor started")

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Vessel store compactor stopped")
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := c.RunGC(); err != nil {
				logging.Warn().Err(err).Msg("Vessel store GC failed")
				continue
			}
			logging.Debug().Dur("duration", time.Since(start)).Msg("Vessel store GC completed")
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (c *Compactor) String() string {
	return "vessel-store-compactor"
}
