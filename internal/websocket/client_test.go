// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// setupWebSocketServer runs handler on the server side of each connection.
func setupWebSocketServer(t *testing.T, handler func(t *testing.T, conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		handler(t, conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialWebSocket(t *testing.T, server *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitFor(t *testing.T, ch <-chan bool, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Errorf("%s: timed out", msg)
	}
}

func TestNewClient(t *testing.T) {
	hub := NewHub()
	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	if b.ID() <= a.ID() {
		t.Errorf("ids not increasing: %d then %d", a.ID(), b.ID())
	}
	if cap(a.send) != sendBuffer {
		t.Errorf("send capacity = %d, want %d", cap(a.send), sendBuffer)
	}
}

func TestClient_WritePump(t *testing.T) {
	got := make(chan bool, 1)
	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Errorf("read: %v", err)
			return
		}
		if msg.Type == MessageTypeAnomaly {
			got <- true
		}
	})

	client := NewClient(NewHub(), dialWebSocket(t, server, nil))
	go client.writePump()
	client.send <- Message{Type: MessageTypeAnomaly, Data: map[string]string{"id": "a1"}}

	waitFor(t, got, "message not received")
	close(client.send)
}

func TestClient_ReadPump_PingPong(t *testing.T) {
	hub := setupHub(t)
	gotPong := make(chan bool, 1)
	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
			t.Errorf("write ping: %v", err)
			return
		}
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Errorf("read pong: %v", err)
			return
		}
		if msg.Type == MessageTypePong {
			gotPong <- true
		}
	})

	client := NewClient(hub, dialWebSocket(t, server, nil))
	hub.Register <- client
	client.Start()

	waitFor(t, gotPong, "pong not received")
}

func TestClient_ReadPump_UnregistersOnClose(t *testing.T) {
	hub := setupHub(t)
	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {})

	client := NewClient(hub, dialWebSocket(t, server, nil))
	hub.Register <- client
	waitForCount(t, hub, 1)

	go client.readPump()
	waitForCount(t, hub, 0)
}
