// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/tidewatch/internal/logging"
)

// Handler upgrades requests and registers the resulting client with hub.
//
// Browsers always send Origin, so a missing Origin is rejected. An empty
// allowedOrigins list, or one containing "*", accepts any present Origin.
func Handler(hub *Hub, allowedOrigins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r.Header.Get("Origin"), allowedOrigins)
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("websocket upgrade failed")
			return
		}
		client := NewClient(hub, conn)
		select {
		case hub.Register <- client:
		case <-hub.Done():
			_ = conn.Close()
			return
		case <-r.Context().Done():
			_ = conn.Close()
			return
		}
		client.Start()
	}
}

func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
