// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tomtom215/tidewatch/internal/detection"
	"github.com/tomtom215/tidewatch/internal/poller"
)

const readyCheckTimeout = 3 * time.Second

// HealthStatus is the payload of /health and /health/ready.
type HealthStatus struct {
	Status        string            `json:"status"`
	Version       string            `json:"version,omitempty"`
	UptimeSeconds float64           `json:"uptimeSeconds"`
	Checks        map[string]string `json:"checks,omitempty"`
	Poller        *PollerHealth     `json:"poller,omitempty"`
	Detection     *detection.Stats  `json:"detection,omitempty"`
	AlertsEnabled bool              `json:"alertsEnabled"`
}

// PollerHealth summarizes poller progress.
type PollerHealth struct {
	State    string             `json:"state"`
	Passes   int64              `json:"passes"`
	LastPass *poller.PassResult `json:"lastPass,omitempty"`
}

// Live answers 200 while the process can serve HTTP.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// Ready pings every dependency and answers 503 when any fails.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks, ok := h.runChecks(r.Context())
	status := HealthStatus{
		Status:        "ready",
		Version:       h.version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Checks:        checks,
		AlertsEnabled: h.alerts.Configured(),
	}
	code := http.StatusOK
	if !ok {
		status.Status = "not_ready"
		code = http.StatusServiceUnavailable
	}
	respondData(w, r, code, status, start)
}

// Health reports readiness together with poller and detection progress.
// It always answers 200; Status carries the verdict.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks, ok := h.runChecks(r.Context())
	status := HealthStatus{
		Status:        "healthy",
		Version:       h.version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Checks:        checks,
		AlertsEnabled: h.alerts.Configured(),
	}
	if !ok {
		status.Status = "degraded"
	}
	if h.poller != nil {
		status.Poller = &PollerHealth{
			State:    h.poller.State().String(),
			Passes:   h.poller.Passes(),
			LastPass: h.poller.LastPass(),
		}
	}
	if h.engine != nil {
		stats := h.engine.Stats()
		status.Detection = &stats
	}
	respondData(w, r, http.StatusOK, status, start)
}

func (h *Handler) runChecks(ctx context.Context) (map[string]string, bool) {
	if len(h.checks) == 0 {
		return nil, true
	}
	ctx, cancel := context.WithTimeout(ctx, readyCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names))
	ok := true
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			results[name] = "error: " + err.Error()
			ok = false
			continue
		}
		results[name] = "ok"
	}
	return results, ok
}
