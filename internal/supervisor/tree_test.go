// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/tidewatch/internal/logging"
)

func init() {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
}

// mockService runs until canceled, optionally failing a number of times first.
type mockService struct {
	name       string
	startCount atomic.Int32
	mu         sync.Mutex
	failures   int
}

func newMockService(name string) *mockService { return &mockService{name: name} }

func (m *mockService) Serve(ctx context.Context) error {
	m.startCount.Add(1)
	m.mu.Lock()
	if m.failures > 0 {
		m.failures--
		m.mu.Unlock()
		return errors.New("simulated failure")
	}
	m.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string { return m.name }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// waitStarted polls until svc has started at least n times.
func waitStarted(t *testing.T, svc *mockService, n int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for svc.startCount.Load() < n {
		if time.Now().After(deadline) {
			t.Fatalf("%s started %d times, want at least %d", svc.name, svc.startCount.Load(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewTree_Defaults(t *testing.T) {
	tree, err := NewTree(testLogger(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want defaults", tree.config)
	}
	if tree.Root() == nil {
		t.Error("Root() = nil")
	}
}

func TestNewTree_RequiresLogger(t *testing.T) {
	if _, err := NewTree(nil, TreeConfig{}); err == nil {
		t.Error("NewTree(nil) succeeded")
	}
}

func TestTree_StartsEveryLayer(t *testing.T) {
	tree, err := NewTree(testLogger(), TreeConfig{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	data, msg, api := newMockService("data"), newMockService("msg"), newMockService("api")
	tree.AddDataService(data)
	tree.AddMessagingService(msg)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	for _, svc := range []*mockService{data, msg, api} {
		waitStarted(t, svc, 1)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop")
	}
}

func TestTree_RestartsFailingService(t *testing.T) {
	tree, err := NewTree(testLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	failing := newMockService("failing")
	failing.failures = 2
	stable := newMockService("stable")
	tree.AddMessagingService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	waitStarted(t, failing, 3)
	if stable.startCount.Load() > 1 {
		t.Errorf("stable service restarted: %d starts", stable.startCount.Load())
	}
	cancel()
	<-errCh
}

func TestBuild_PlacesComponents(t *testing.T) {
	comps := Components{
		Compactor: newMockService("vessel-store-compactor"),
		Poller:    newMockService("vessel-poller"),
		Hub:       newMockService("websocket-hub"),
		Forwarder: newMockService("websocket-forwarder"),
		HTTP:      newMockService("http-server"),
	}
	tree, err := Build(testLogger(), TreeConfig{}, comps)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tests := []struct {
		layer string
		want  []string
	}{
		{DataLayer, []string{"vessel-store-compactor"}},
		{MessagingLayer, []string{"websocket-hub", "websocket-forwarder", "vessel-poller"}},
		{APILayer, []string{"http-server"}},
	}
	for _, tt := range tests {
		if got := tree.Services(tt.layer); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.layer, got, tt.want)
		}
	}
}

func TestBuild_SkipsDisabled(t *testing.T) {
	tree, err := Build(testLogger(), TreeConfig{}, Components{Hub: newMockService("websocket-hub")})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := tree.Services(DataLayer); len(got) != 0 {
		t.Errorf("data layer = %v, want empty", got)
	}
	if got := tree.Services(APILayer); len(got) != 0 {
		t.Errorf("api layer = %v, want empty", got)
	}
	if got := tree.Services(MessagingLayer); !reflect.DeepEqual(got, []string{"websocket-hub"}) {
		t.Errorf("messaging layer = %v", got)
	}
}
