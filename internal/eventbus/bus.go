// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/tidewatch/internal/config"
	"github.com/tomtom215/tidewatch/internal/logging"
	"github.com/tomtom215/tidewatch/internal/metrics"
	"github.com/tomtom215/tidewatch/internal/models"
)

// DefaultTopic is used when the configured topic is empty.
const DefaultTopic = "tidewatch.anomalies"

// ErrClosed is returned by operations on a closed bus.
var ErrClosed = errors.New("event bus closed")

const (
	natsMaxReconnects = 10
	natsReconnectWait = 2 * time.Second
	natsAckWait       = 30 * time.Second
	natsCloseTimeout  = 10 * time.Second
	channelBuffer     = 256
)

// Bus publishes and subscribes to anomaly events on one topic.
type Bus struct {
	topic     string
	transport string
	pub       message.Publisher
	sub       message.Subscriber
	now       func() time.Time

	mu     sync.RWMutex
	closed bool
}

// New builds a bus for cfg. An empty NATS URL selects the in-process transport.
func New(cfg config.EventsConfig) (*Bus, error) {
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	if cfg.NATSURL == "" {
		return NewInProcess(topic), nil
	}
	return newNATS(cfg.NATSURL, topic, cfg.JetStream)
}

// NewInProcess returns a bus backed by Watermill's gochannel Pub/Sub.
func NewInProcess(topic string) *Bus {
	if topic == "" {
		topic = DefaultTopic
	}
	ps := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: channelBuffer,
	}, NewLoggerAdapter())
	return &Bus{topic: topic, transport: "gochannel", pub: ps, sub: ps, now: time.Now}
}

func newNATS(url, topic string, jetStream bool) (*Bus, error) {
	logger := NewLoggerAdapter()
	natsOpts := []natsgo.Option{
		natsgo.Name("tidewatch"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(natsMaxReconnects),
		natsgo.ReconnectWait(natsReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
	js := wmNats.JetStreamConfig{
		Disabled:      !jetStream,
		AutoProvision: jetStream,
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   js,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		AckWaitTimeout:   natsAckWait,
		CloseTimeout:     natsCloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        js,
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create nats subscriber: %w", err)
	}

	transport := "nats"
	if jetStream {
		transport = "jetstream"
	}
	return &Bus{topic: topic, transport: transport, pub: pub, sub: sub, now: time.Now}, nil
}

// Topic returns the topic events are published on.
func (b *Bus) Topic() string { return b.topic }

// Transport names the underlying Pub/Sub: gochannel, nats or jetstream.
func (b *Bus) Transport() string { return b.transport }

// PublishAnomaly wraps a in an AnomalyEvent and publishes it.
func (b *Bus) PublishAnomaly(ctx context.Context, a *models.Anomaly) error {
	if a == nil {
		return fmt.Errorf("%w: nil anomaly", models.ErrValidation)
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		metrics.EventsPublished.WithLabelValues("failed").Inc()
		return ErrClosed
	}

	msg, err := NewAnomalyEvent(a, logging.CorrelationIDFromContext(ctx), b.now()).ToMessage()
	if err != nil {
		metrics.EventsPublished.WithLabelValues("failed").Inc()
		return err
	}
	msg.SetContext(ctx)

	if err := b.pub.Publish(b.topic, msg); err != nil {
		metrics.EventsPublished.WithLabelValues("failed").Inc()
		return fmt.Errorf("publish anomaly %s: %w", a.ID, err)
	}
	metrics.EventsPublished.WithLabelValues("published").Inc()
	return nil
}

// Subscribe returns the message stream for the bus topic. Consumers must
// Ack or Nack every message. The channel closes when ctx ends or the bus closes.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrClosed
	}
	ch, err := b.sub.Subscribe(ctx, b.topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", b.topic, err)
	}
	return ch, nil
}

// Close shuts down the publisher and subscriber. Safe to call more than once.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	// gochannel uses one value for both sides.
	if any(b.pub) == any(b.sub) {
		return b.pub.Close()
	}
	return errors.Join(b.pub.Close(), b.sub.Close())
}
