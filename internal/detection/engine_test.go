// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package detection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/tidewatch/internal/config"
	"github.com/tomtom215/tidewatch/internal/models"
	"github.com/tomtom215/tidewatch/internal/store"
)

// failingAnomalies rejects every insert after the first allow inserts.
type failingAnomalies struct {
	*store.MemoryAnomalies
	mu      sync.Mutex
	allow   int
	inserts int
}

func (f *failingAnomalies) Insert(ctx context.Context, a *models.Anomaly) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.inserts > f.allow {
		return errors.New("disk full")
	}
	return f.MemoryAnomalies.Insert(ctx, a)
}

// recordingPublisher captures published anomalies.
type recordingPublisher struct {
	mu   sync.Mutex
	got  []*models.Anomaly
	fail bool
}

func (p *recordingPublisher) PublishAnomaly(_ context.Context, a *models.Anomaly) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, a)
	if p.fail {
		return errors.New("bus down")
	}
	return nil
}

// brokenDetector always errors.
type brokenDetector struct{}

func (brokenDetector) Kind() models.AnomalyKind { return models.KindSpeedAnomaly }

func (brokenDetector) Check(context.Context, *models.Vessel, []models.Zone, time.Time) (*models.Anomaly, error) {
	return nil, errors.New("broken")
}

func fixedClock() time.Time { return testNow }

func TestEngine_Evaluate_PersistsEachFinding(t *testing.T) {
	anomalies := store.NewMemoryAnomalies()
	pub := &recordingPublisher{}
	e := NewEngine(anomalies, store.NewMemoryVessels(), WithClock(fixedClock), WithPublisher(pub))

	harbor := square("z-harbor", "Harbor", -1, -1, 1, 1, true)
	deviant := trackVessel(nmToLatDegrees(6), 0.15) // inside harbor and off track
	calm := &models.Vessel{MMSI: "2", Lat: 40, Lon: 40}

	found, err := e.Evaluate(context.Background(), []*models.Vessel{deviant, calm, nil}, []models.Zone{harbor})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("found %d anomalies, want 2", len(found))
	}

	page, err := anomalies.Query(context.Background(), store.AnomalyFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if page.Total != 2 {
		t.Errorf("stored = %d, want 2", page.Total)
	}
	if len(pub.got) != 2 {
		t.Errorf("published = %d, want 2", len(pub.got))
	}

	stats := e.Stats()
	if stats.VesselsEvaluated != 2 || stats.AnomaliesFound != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestEngine_Evaluate_DetectorErrorIsIsolated(t *testing.T) {
	anomalies := store.NewMemoryAnomalies()
	e := NewEngine(anomalies, store.NewMemoryVessels(),
		WithClock(fixedClock),
		WithDetectors(brokenDetector{}, ZoneIncursionDetector{}))

	v := &models.Vessel{MMSI: "3", Lat: 0, Lon: 0}
	found, err := e.Evaluate(context.Background(), []*models.Vessel{v},
		[]models.Zone{square("z", "Z", -1, -1, 1, 1, true)})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(found) != 1 || found[0].Kind != models.KindZoneIncursion {
		t.Errorf("found = %+v, want one ZONE_INCURSION", found)
	}
	if e.Stats().DetectorErrors != 1 {
		t.Errorf("detector errors = %d, want 1", e.Stats().DetectorErrors)
	}
}

func TestEngine_Evaluate_StoreFailureAborts(t *testing.T) {
	anomalies := &failingAnomalies{MemoryAnomalies: store.NewMemoryAnomalies(), allow: 1}
	e := NewEngine(anomalies, store.NewMemoryVessels(), WithClock(fixedClock),
		WithDetectors(ZoneIncursionDetector{}))

	zone := square("z", "Z", -1, -1, 1, 1, true)
	vessels := []*models.Vessel{
		{MMSI: "a", Lat: 0, Lon: 0},
		{MMSI: "b", Lat: 0.1, Lon: 0.1},
		{MMSI: "c", Lat: 0.2, Lon: 0.2},
	}
	found, err := e.Evaluate(context.Background(), vessels, []models.Zone{zone})
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("Evaluate() error = %v, want ErrPersist", err)
	}
	if len(found) != 1 {
		t.Errorf("found before failure = %d, want 1", len(found))
	}
	if anomalies.inserts != 2 {
		t.Errorf("insert attempts = %d, want 2 (abort after failure)", anomalies.inserts)
	}
}

func TestEngine_Evaluate_PublishFailureIgnored(t *testing.T) {
	pub := &recordingPublisher{fail: true}
	e := NewEngine(store.NewMemoryAnomalies(), store.NewMemoryVessels(), WithClock(fixedClock),
		WithPublisher(pub), WithDetectors(ZoneIncursionDetector{}))

	found, err := e.Evaluate(context.Background(), []*models.Vessel{{MMSI: "a"}},
		[]models.Zone{square("z", "Z", -1, -1, 1, 1, true)})
	if err != nil || len(found) != 1 {
		t.Errorf("Evaluate() = %d, %v; want 1, nil", len(found), err)
	}
}

func TestEngine_SweepSignalLoss(t *testing.T) {
	ctx := context.Background()
	vessels := store.NewMemoryVessels()
	anomalies := store.NewMemoryAnomalies()
	e := NewEngine(anomalies, vessels)

	seed := func(mmsi string, times ...time.Duration) {
		t.Helper()
		r := &models.VesselReport{MMSI: mmsi, Lat: models.Float(1), Lon: models.Float(2)}
		for _, d := range times {
			if _, err := vessels.Upsert(ctx, r, testNow.Add(d)); err != nil {
				t.Fatalf("Upsert() error = %v", err)
			}
		}
	}
	seed("recent-start", -2*time.Hour, -45*time.Minute)
	seed("old-track", -30*time.Hour, -45*time.Minute)
	seed("still-reporting", -2*time.Hour, -5*time.Minute)
	seed("long-gone", -48*time.Hour, -26*time.Hour)

	found, err := e.SweepSignalLoss(ctx, testNow)
	if err != nil {
		t.Fatalf("SweepSignalLoss() error = %v", err)
	}
	if len(found) != 1 || found[0].MMSI != "recent-start" || found[0].Kind != models.KindSignalLoss {
		t.Fatalf("found = %+v, want SIGNAL_LOSS for recent-start", found)
	}
	if !e.Stats().LastSweep.Equal(testNow) {
		t.Errorf("last sweep = %v", e.Stats().LastSweep)
	}
}

func TestEngine_SweepSignalLoss_StoreFailure(t *testing.T) {
	ctx := context.Background()
	vessels := store.NewMemoryVessels()
	r := &models.VesselReport{MMSI: "x", Lat: models.Float(1), Lon: models.Float(2)}
	_, _ = vessels.Upsert(ctx, r, testNow.Add(-2*time.Hour))
	_, _ = vessels.Upsert(ctx, r, testNow.Add(-time.Hour))

	e := NewEngine(&failingAnomalies{MemoryAnomalies: store.NewMemoryAnomalies()}, vessels)
	if _, err := e.SweepSignalLoss(ctx, testNow); !errors.Is(err, ErrPersist) {
		t.Errorf("SweepSignalLoss() error = %v, want ErrPersist", err)
	}
}

func TestEngine_DetectionConfig(t *testing.T) {
	ctx := context.Background()
	vessels := store.NewMemoryVessels()
	r := &models.VesselReport{MMSI: "x", Lat: models.Float(0), Lon: models.Float(0)}
	_, _ = vessels.Upsert(ctx, r, testNow.Add(-2*time.Hour))
	_, _ = vessels.Upsert(ctx, r, testNow.Add(-time.Hour))

	e := NewEngine(store.NewMemoryAnomalies(), vessels, WithClock(fixedClock),
		WithDetectionConfig(config.DetectionConfig{TrackDeviationEnabled: true}))

	found, err := e.SweepSignalLoss(ctx, testNow)
	if err != nil || found != nil {
		t.Errorf("disabled sweep = %v, %v; want nil, nil", found, err)
	}

	v, _ := vessels.Get(ctx, "x")
	found, err = e.Evaluate(ctx, []*models.Vessel{v}, []models.Zone{square("z", "Z", -1, -1, 1, 1, true)})
	if err != nil || len(found) != 0 {
		t.Errorf("zone incursion should be disabled: %v, %v", found, err)
	}
}
