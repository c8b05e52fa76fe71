// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/tidewatch/internal/config"
	"github.com/tomtom215/tidewatch/internal/logging"
	"github.com/tomtom215/tidewatch/internal/metrics"
	"github.com/tomtom215/tidewatch/internal/models"
)

// Source is what the poller needs from a feed.
type Source interface {
	Fetch(ctx context.Context, bbox models.BoundingBox) ([]models.VesselReport, error)
	Name() string
}

// maxResponseSize bounds a provider response body.
const maxResponseSize = 32 << 20

// provider binds a URL builder to a decoder and a pure mapper.
type provider struct {
	name       string
	defaultURL string
	requestURL func(base, apiKey string, bbox models.BoundingBox) string
	decode     func(body []byte) ([]models.VesselReport, error)
}

var providers = map[string]provider{
	config.ProviderDatalastic: {
		name:       config.ProviderDatalastic,
		defaultURL: DefaultDatalasticURL,
		requestURL: datalasticRequestURL,
		decode: func(body []byte) ([]models.VesselReport, error) {
			records, err := decodeDatalastic(body)
			if err != nil {
				return nil, err
			}
			return MapDatalastic(records), nil
		},
	},
	config.ProviderVesselFinder: {
		name:       config.ProviderVesselFinder,
		defaultURL: DefaultVesselFinderURL,
		requestURL: vesselFinderRequestURL,
		decode: func(body []byte) ([]models.VesselReport, error) {
			records, err := decodeVesselFinder(body)
			if err != nil {
				return nil, err
			}
			return MapVesselFinder(records), nil
		},
	},
}

// Adapter fetches reports from one provider over HTTP.
//
//	a, err := feed.New(cfg.Feed)
//	reports, err := a.Fetch(ctx, bbox)
type Adapter struct {
	provider provider
	apiKey   string
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[[]models.VesselReport]
}

// Option customizes an Adapter.
type Option func(*Adapter)

// WithHTTPClient replaces the default client. The configured timeout is
// applied only when the supplied client has none.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.client = c }
}

// New builds an adapter for cfg.Provider. A missing API key or unknown
// provider is ErrConfiguration.
func New(cfg config.FeedConfig, opts ...Option) (*Adapter, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = config.ProviderDatalastic
	}
	p, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %q", ErrConfiguration, cfg.Provider)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: %s API key is not defined", ErrConfiguration, p.name)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	a := &Adapter{
		provider: p,
		apiKey:   cfg.APIKey,
		baseURL:  cfg.BaseURL,
		limiter:  rate.NewLimiter(limit, burst),
	}
	if a.baseURL == "" {
		a.baseURL = p.defaultURL
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		a.client = &http.Client{Timeout: timeout}
	} else if a.client.Timeout == 0 {
		a.client.Timeout = timeout
	}
	if cfg.BreakerEnabled {
		a.breaker = newBreaker("feed-" + p.name)
	}
	return a, nil
}

// Name returns the provider name.
func (a *Adapter) Name() string {
	return a.provider.name
}

// Fetch returns every report the provider has inside bbox, normalized but
// not filtered. All failures wrap ErrProvider or ErrConfiguration.
func (a *Adapter) Fetch(ctx context.Context, bbox models.BoundingBox) ([]models.VesselReport, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("%w: %s API key is not defined", ErrConfiguration, a.provider.name)
	}

	var (
		reports []models.VesselReport
		err     error
	)
	if a.breaker != nil {
		reports, err = a.breaker.Execute(func() ([]models.VesselReport, error) {
			return a.fetch(ctx, bbox)
		})
		if isRejection(err) {
			metrics.FeedRequests.WithLabelValues(a.provider.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %s: %v", ErrProvider, a.provider.name, err)
		}
	} else {
		reports, err = a.fetch(ctx, bbox)
	}

	metrics.RecordFeedRequest(a.provider.name, len(reports), err)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (a *Adapter) fetch(ctx context.Context, bbox models.BoundingBox) ([]models.VesselReport, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s rate limit wait: %w", ErrProvider, a.provider.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.provider.requestURL(a.baseURL, a.apiKey, bbox), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrProvider, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		// The URL carries the API key; report only the transport cause.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("%w: %s request failed: %w", ErrProvider, a.provider.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d: %s",
			ErrProvider, a.provider.name, resp.StatusCode, readBodyForError(resp.Body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s read body: %v", ErrProvider, a.provider.name, err)
	}

	reports, err := a.provider.decode(body)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Str("provider", a.provider.name).
		Str("bbox", bbox.String()).
		Int("reports", len(reports)).
		Dur("elapsed", time.Since(start)).
		Msg("Feed fetch complete")
	return reports, nil
}
