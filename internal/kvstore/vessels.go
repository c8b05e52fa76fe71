// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/tidewatch/internal/config"
	"github.com/tomtom215/tidewatch/internal/logging"
	"github.com/tomtom215/tidewatch/internal/models"
	"github.com/tomtom215/tidewatch/internal/store"
)

const prefixVessel = "vessel:"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("vessel store is closed")

// VesselStore is a Badger-backed store.VesselStore.
type VesselStore struct {
	db   *badger.DB
	keys *store.KeyLock

	mu     sync.RWMutex
	closed bool
}

var _ store.VesselStore = (*VesselStore)(nil)

// Open opens (or creates) the vessel store described by cfg.
func Open(cfg config.BadgerConfig) (*VesselStore, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Vessel store opened")

	return &VesselStore{db: db, keys: store.NewKeyLock()}, nil
}

func vesselKey(mmsi string) []byte {
	return []byte(prefixVessel + mmsi)
}

func (s *VesselStore) checkNotClosed() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// readVessel loads and decodes a vessel inside txn.
func readVessel(txn *badger.Txn, mmsi string) (*models.Vessel, error) {
	item, err := txn.Get(vesselKey(mmsi))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("vessel %s: %w", mmsi, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get vessel %s: %w", mmsi, err)
	}

	var v models.Vessel
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &v)
	}); err != nil {
		return nil, fmt.Errorf("decode vessel %s: %w", mmsi, err)
	}
	return &v, nil
}

// Upsert implements store.VesselStore.
func (s *VesselStore) Upsert(_ context.Context, report *models.VesselReport, at time.Time) (*models.Vessel, error) {
	if err := s.checkNotClosed(); err != nil {
		return nil, err
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}

	unlock := s.keys.Lock(report.MMSI)
	defer unlock()

	var result *models.Vessel
	err := s.db.Update(func(txn *badger.Txn) error {
		v, err := readVessel(txn, report.MMSI)
		switch {
		case errors.Is(err, store.ErrNotFound):
			v, err = models.NewVessel(report, at)
			if err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := v.Apply(report, at); err != nil {
				return err
			}
		}

		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode vessel %s: %w", v.MMSI, err)
		}
		result = v
		return txn.SetEntry(badger.NewEntry(vesselKey(v.MMSI), data))
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get implements store.VesselStore.
func (s *VesselStore) Get(_ context.Context, mmsi string) (*models.Vessel, error) {
	if err := s.checkNotClosed(); err != nil {
		return nil, err
	}

	var v *models.Vessel
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		v, err = readVessel(txn, mmsi)
		return err
	})
	return v, err
}

// History implements store.VesselStore.
func (s *VesselStore) History(ctx context.Context, mmsi string) ([]models.PositionPoint, error) {
	v, err := s.Get(ctx, mmsi)
	if err != nil {
		return nil, err
	}
	return v.History, nil
}

// Delete implements store.VesselStore.
func (s *VesselStore) Delete(_ context.Context, mmsi string) error {
	if err := s.checkNotClosed(); err != nil {
		return err
	}

	unlock := s.keys.Lock(mmsi)
	defer unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(vesselKey(mmsi)); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("vessel %s: %w", mmsi, store.ErrNotFound)
		} else if err != nil {
			return fmt.Errorf("get vessel %s: %w", mmsi, err)
		}
		return txn.Delete(vesselKey(mmsi))
	})
}

// scan decodes every stored vessel accepted by keep. Undecodable entries are
// logged and skipped.
func (s *VesselStore) scan(ctx context.Context, keep func(*models.Vessel) bool) ([]*models.Vessel, error) {
	if err := s.checkNotClosed(); err != nil {
		return nil, err
	}

	var out []*models.Vessel
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixVessel)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			item := it.Item()
			var v models.Vessel
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &v)
			}); err != nil {
				logging.Warn().Err(err).Str("key", string(item.Key())).Msg("Failed to decode vessel")
				continue
			}
			if keep(&v) {
				out = append(out, &v)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate vessels: %w", err)
	}
	return out, nil
}

// List implements store.VesselStore.
func (s *VesselStore) List(ctx context.Context, page, pageSize int) (models.Page[models.Vessel], error) {
	page, pageSize, offset := models.NormalizePage(page, pageSize)
	result := models.Page[models.Vessel]{
		Items:    []models.Vessel{},
		Page:     page,
		PageSize: pageSize,
	}

	all, err := s.scan(ctx, func(*models.Vessel) bool { return true })
	if err != nil {
		return result, err
	}
	store.SortVesselsByLastSeen(all)

	result.Total = len(all)
	for i := offset; i < len(all) && i < offset+pageSize; i++ {
		result.Items = append(result.Items, *all[i])
	}
	return result, nil
}

// ListSeenBetween implements store.VesselStore.
func (s *VesselStore) ListSeenBetween(ctx context.Context, after, before time.Time) ([]models.Vessel, error) {
	matched, err := s.scan(ctx, func(v *models.Vessel) bool {
		return v.LastSeen.After(after) && v.LastSeen.Before(before)
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.Vessel, 0, len(matched))
	for _, v := range matched {
		out = append(out, *v)
	}
	return out, nil
}

// Ping reports whether the store is open and Badger accepts reads.
func (s *VesselStore) Ping(ctx context.Context) error {
	if err := s.checkNotClosed(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// Close closes the underlying database. Further calls return ErrClosed.
func (s *VesselStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("Vessel store closed")
	return nil
}
