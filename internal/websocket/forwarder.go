// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/tidewatch/internal/eventbus"
	"github.com/tomtom215/tidewatch/internal/logging"
)

// EventSource is the subscribing half of the event bus.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
}

// errStreamClosed makes the supervisor restart the forwarder.
var errStreamClosed = errors.New("event stream closed")

// Forwarder relays anomaly events from the bus to the hub.
type Forwarder struct {
	hub    *Hub
	source EventSource
}

// NewForwarder binds source to hub.
func NewForwarder(hub *Hub, source EventSource) *Forwarder {
	return &Forwarder{hub: hub, source: source}
}

// Serve subscribes and forwards until ctx is canceled.
func (f *Forwarder) Serve(ctx context.Context) error {
	msgs, err := f.source.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("forwarder subscribe: %w", err)
	}
	logging.Info().Str("component", f.String()).Msg("forwarding anomaly events to websocket clients")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errStreamClosed
			}
			f.handle(msg)
		}
	}
}

// handle always acks. Undecodable events would never succeed on redelivery.
func (f *Forwarder) handle(msg *message.Message) {
	defer msg.Ack()

	ev, err := eventbus.DecodeAnomalyEvent(msg.Payload)
	if err != nil {
		logging.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping undecodable anomaly event")
		return
	}
	f.hub.BroadcastAnomaly(ev.Anomaly)
}

// String names the forwarder for supervisor logs.
func (f *Forwarder) String() string { return "websocket-forwarder" }
