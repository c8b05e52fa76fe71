// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package eventbus

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/tidewatch/internal/models"
)

// EventTypeAnomalyDetected is the only event type published today.
const EventTypeAnomalyDetected = "anomaly.detected"

// Metadata keys set on every message.
const (
	MetadataEventType     = "event_type"
	MetadataAnomalyKind   = "anomaly_kind"
	MetadataMMSI          = "mmsi"
	MetadataCorrelationID = "correlation_id"
)

// AnomalyEvent is the JSON envelope carried on the bus.
type AnomalyEvent struct {
	EventID       string          `json:"event_id"`
	Type          string          `json:"type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Anomaly       *models.Anomaly `json:"anomaly"`
}

// NewAnomalyEvent wraps a in a fresh envelope.
func NewAnomalyEvent(a *models.Anomaly, correlationID string, at time.Time) *AnomalyEvent {
	return &AnomalyEvent{
		EventID:       uuid.New().String(),
		Type:          EventTypeAnomalyDetected,
		OccurredAt:    at.UTC(),
		CorrelationID: correlationID,
		Anomaly:       a,
	}
}

// ToMessage serializes the event into a Watermill message whose UUID is the event id.
func (e *AnomalyEvent) ToMessage() (*message.Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal anomaly event: %w", err)
	}
	msg := message.NewMessage(e.EventID, data)
	msg.Metadata.Set(MetadataEventType, e.Type)
	if e.Anomaly != nil {
		msg.Metadata.Set(MetadataAnomalyKind, string(e.Anomaly.Kind))
		msg.Metadata.Set(MetadataMMSI, e.Anomaly.MMSI)
	}
	if e.CorrelationID != "" {
		msg.Metadata.Set(MetadataCorrelationID, e.CorrelationID)
	}
	return msg, nil
}

// DecodeAnomalyEvent parses a message payload. Events without an anomaly are rejected.
func DecodeAnomalyEvent(payload []byte) (*AnomalyEvent, error) {
	var e AnomalyEvent
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("unmarshal anomaly event: %w", err)
	}
	if e.Anomaly == nil {
		return nil, fmt.Errorf("anomaly event %s has no anomaly", e.EventID)
	}
	return &e, nil
}
