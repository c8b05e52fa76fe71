// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/tidewatch/internal/config"
	"github.com/tomtom215/tidewatch/internal/feed"
	"github.com/tomtom215/tidewatch/internal/geo"
	"github.com/tomtom215/tidewatch/internal/logging"
	"github.com/tomtom215/tidewatch/internal/metrics"
	"github.com/tomtom215/tidewatch/internal/models"
	"github.com/tomtom215/tidewatch/internal/store"
)

// DefaultInterval is the pass cadence when none is configured.
const DefaultInterval = 30 * time.Second

// State is the poller lifecycle state.
type State int32

const (
	StateIdle State = iota
	StatePolling
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StatePolling:
		return "POLLING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Evaluator is the detection surface a pass needs.
type Evaluator interface {
	Evaluate(ctx context.Context, vessels []*models.Vessel, zones []models.Zone) ([]*models.Anomaly, error)
	SweepSignalLoss(ctx context.Context, now time.Time) ([]*models.Anomaly, error)
}

// PassResult summarizes one pass.
type PassResult struct {
	Zones      int           `json:"zones"`
	ZoneErrors int           `json:"zoneErrors"`
	Reports    int           `json:"reports"`
	Upserted   int           `json:"upserted"`
	Anomalies  int           `json:"anomalies"`
	Duration   time.Duration `json:"duration"`
}

// Handle is the caller's reference to a running poll loop.
type Handle struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Done is closed when the loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Poller runs passes on a timer.
type Poller struct {
	zones     store.ZoneRegistry
	vessels   store.VesselStore
	source    feed.Source
	evaluator Evaluator

	interval  time.Duration
	newTicker TickerFactory
	now       func() time.Time

	mu     sync.Mutex
	handle *Handle
	state  atomic.Int32

	// passMu keeps a manual PollOnce from overlapping a timer pass.
	passMu sync.Mutex

	passes   atomic.Int64
	lastPass atomic.Pointer[PassResult]
}

// Option configures a Poller.
type Option func(*Poller)

// WithTickerFactory replaces time.NewTicker.
func WithTickerFactory(f TickerFactory) Option {
	return func(p *Poller) { p.newTicker = f }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

// New creates an idle poller.
func New(cfg config.PollerConfig, zones store.ZoneRegistry, vessels store.VesselStore, source feed.Source, evaluator Evaluator, opts ...Option) *Poller {
	p := &Poller{
		zones:     zones,
		vessels:   vessels,
		source:    source,
		evaluator: evaluator,
		interval:  cfg.Interval,
		newTicker: RealTicker,
		now:       time.Now,
	}
	if p.interval <= 0 {
		p.interval = DefaultInterval
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current lifecycle state.
func (p *Poller) State() State {
	return State(p.state.Load())
}

// Passes returns the number of completed passes.
func (p *Poller) Passes() int64 {
	return p.passes.Load()
}

// LastPass returns the most recent pass summary, or nil before the first.
func (p *Poller) LastPass() *PassResult {
	return p.lastPass.Load()
}

// Start begins polling: one pass immediately, then one per interval. If the
// poller is already running the existing handle is returned.
func (p *Poller) Start(ctx context.Context) *Handle {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != nil {
		return p.handle
	}

	h := &Handle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	p.handle = h
	p.state.Store(int32(StateIdle))
	ticker := p.newTicker(p.interval)

	logging.Info().
		Dur("interval", p.interval).
		Str("provider", p.source.Name()).
		Msg("Starting vessel poller")

	go p.loop(ctx, h, ticker)
	return h
}

// Stop prevents further ticks on h. A pass already running finishes.
// Stopping a handle that is not running is a no-op.
func (p *Poller) Stop(h *Handle) {
	if h == nil {
		return
	}
	p.mu.Lock()
	if p.handle == h {
		p.handle = nil
		p.state.Store(int32(StateStopped))
	}
	p.mu.Unlock()

	h.stopOnce.Do(func() { close(h.stop) })
}

func (p *Poller) loop(ctx context.Context, h *Handle, ticker Ticker) {
	defer close(h.done)
	defer ticker.Stop()
	defer p.release(h)

	p.tick(ctx, h)
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.stop:
			return
		case <-ticker.C():
			p.tick(ctx, h)
		}
	}
}

// release clears the handle if the loop exits for a reason other than Stop.
func (p *Poller) release(h *Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == h {
		p.handle = nil
		p.state.Store(int32(StateStopped))
	}
}

func (p *Poller) tick(ctx context.Context, h *Handle) {
	select {
	case <-h.stop:
		return
	default:
	}
	if _, err := p.PollOnce(ctx); err != nil {
		logging.Err(err).Msg("Poll pass aborted")
	}
}

// PollOnce runs a single pass synchronously.
func (p *Poller) PollOnce(ctx context.Context) (*PassResult, error) {
	p.passMu.Lock()
	defer p.passMu.Unlock()

	p.state.CompareAndSwap(int32(StateIdle), int32(StatePolling))
	defer p.state.CompareAndSwap(int32(StatePolling), int32(StateIdle))

	ctx = logging.ContextWithNewCorrelationID(ctx)
	log := logging.Ctx(ctx)
	start := p.now()
	res := &PassResult{}

	zones, err := p.zones.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active zones: %w", err)
	}
	res.Zones = len(zones)
	if len(zones) == 0 {
		log.Info().Msg("No active zones, skipping poll")
		return p.finish(res, start), nil
	}

	for i := range zones {
		if err := p.pollZone(ctx, &zones[i], zones, res); err != nil {
			return nil, err
		}
	}

	flagged, err := p.evaluator.SweepSignalLoss(ctx, p.now())
	res.Anomalies += len(flagged)
	if err != nil {
		return nil, fmt.Errorf("signal loss sweep: %w", err)
	}

	p.finish(res, start)
	log.Info().
		Int("zones", res.Zones).
		Int("zone_errors", res.ZoneErrors).
		Int("reports", res.Reports).
		Int("upserted", res.Upserted).
		Int("anomalies", res.Anomalies).
		Dur("duration", res.Duration).
		Msg("Poll pass complete")
	return res, nil
}

// pollZone only returns an error that must end the pass.
func (p *Poller) pollZone(ctx context.Context, z *models.Zone, zones []models.Zone, res *PassResult) error {
	// Feed and detector logs for this zone carry its identity.
	zoneLog := logging.LoggerFromContext(ctx).With().Str("zone_id", z.ID).Str("zone", z.Name).Logger()
	ctx = logging.ContextWithLogger(ctx, zoneLog)
	log := logging.Ctx(ctx)

	bbox, err := geo.BoundingBox(z.Ring(), geo.DefaultPadding)
	if err != nil {
		p.zoneFailed(res, z)
		log.Warn().Err(err).Msg("Zone has no usable polygon")
		return nil
	}

	reports, err := p.source.Fetch(ctx, bbox)
	if err != nil {
		p.zoneFailed(res, z)
		log.Warn().Err(err).Str("bbox", bbox.String()).Msg("Feed fetch failed for zone")
		return nil
	}
	reports = feed.FilterValid(reports)
	res.Reports += len(reports)

	at := p.now()
	upserted := make([]*models.Vessel, 0, len(reports))
	for i := range reports {
		v, err := p.vessels.Upsert(ctx, &reports[i], at)
		if err != nil {
			log.Warn().Err(err).Str("mmsi", reports[i].MMSI).Msg("Vessel upsert failed")
			continue
		}
		upserted = append(upserted, v)
	}
	res.Upserted += len(upserted)
	metrics.VesselsUpserted.Add(float64(len(upserted)))

	found, err := p.evaluator.Evaluate(ctx, upserted, zones)
	res.Anomalies += len(found)
	if err != nil {
		return fmt.Errorf("evaluate zone %s: %w", z.Name, err)
	}

	log.Debug().Int("reports", len(reports)).Int("anomalies", len(found)).Msg("Zone polled")
	return nil
}

func (p *Poller) zoneFailed(res *PassResult, z *models.Zone) {
	res.ZoneErrors++
	metrics.ZoneErrors.WithLabelValues(z.Name).Inc()
}

func (p *Poller) finish(res *PassResult, start time.Time) *PassResult {
	res.Duration = p.now().Sub(start)
	p.passes.Add(1)
	p.lastPass.Store(res)
	metrics.RecordPollPass(res.Duration)
	return res
}

// Serve runs the poll loop until ctx is cancelled. It lets the poller sit
// in a suture supervisor.
func (p *Poller) Serve(ctx context.Context) error {
	h := p.Start(ctx)
	select {
	case <-ctx.Done():
	case <-h.Done():
	}
	p.Stop(h)
	<-h.Done()
	return ctx.Err()
}

// String names the service in supervisor logs.
func (p *Poller) String() string {
	return "vessel-poller"
}
