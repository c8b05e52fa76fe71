// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGenerateCorrelationID(t *testing.T) {
	a, b := GenerateCorrelationID(), GenerateCorrelationID()
	if len(a) != 8 {
		t.Errorf("len = %d, want 8", len(a))
	}
	if a == b {
		t.Errorf("two IDs collided: %s", a)
	}
}

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := CorrelationIDFromContext(ctx); got != "" {
		t.Errorf("empty context returned %q", got)
	}
	ctx = ContextWithCorrelationID(ctx, "pass0001")
	if got := CorrelationIDFromContext(ctx); got != "pass0001" {
		t.Errorf("got %q", got)
	}
	ctx = ContextWithNewCorrelationID(ctx)
	if got := CorrelationIDFromContext(ctx); got == "pass0001" || got == "" {
		t.Errorf("new correlation id not set: %q", got)
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("got %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("empty context returned %q", got)
	}
}

func TestCtx_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithCorrelationID(ctx, "abcd1234")
	ctx = ContextWithRequestID(ctx, "req-9")

	Ctx(ctx).Info().Msg("poll pass")

	out := buf.String()
	for _, want := range []string{`"correlation_id":"abcd1234"`, `"request_id":"req-9"`, `"message":"poll pass"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestCtx_NoFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	Ctx(ctx).Info().Msg("plain")
	if strings.Contains(buf.String(), "correlation_id") {
		t.Errorf("unexpected correlation_id: %s", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	buf := captureGlobal(t)
	l := WithComponent("poller")
	l.Info().Msg("x")
	if !strings.Contains(buf.String(), `"component":"poller"`) {
		t.Errorf("output = %s", buf.String())
	}
}
