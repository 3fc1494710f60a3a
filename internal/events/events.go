// Package events carries the Kafka event contracts for the pet photo
// service: photo lifecycle events out, owner lifecycle events in.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicPetPhotoEvents = "pet.photo.events"
	TopicOwnerEvents    = "owner.events"
)

// Event types.
const (
	PhotoUploaded = "pet.photo.uploaded"
	PhotoDeleted  = "pet.photo.deleted"
	OwnerDeleted  = "owner.deleted"
)

// CloudEvent is the envelope shared by all topics.
type CloudEvent struct {
	ID     string          `json:"id"`
	Source string          `json:"source"`
	Type   string          `json:"type"`
	Time   time.Time       `json:"time"`
	Data   json.RawMessage `json:"data"`
}

// NewCloudEvent wraps data in a CloudEvent envelope.
func NewCloudEvent(source, eventType string, data any) (*CloudEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshaling event data: %w", err)
	}
	return &CloudEvent{
		ID:     uuid.New().String(),
		Source: source,
		Type:   eventType,
		Time:   time.Now().UTC(),
		Data:   raw,
	}, nil
}

// ParseCloudEvent decodes a raw message into a CloudEvent envelope.
func ParseCloudEvent(raw []byte) (*CloudEvent, error) {
	var evt CloudEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return nil, fmt.Errorf("parsing cloud event: %w", err)
	}
	return &evt, nil
}

// ParseData unmarshals the event payload into v.
func (e *CloudEvent) ParseData(v any) error {
	return json.Unmarshal(e.Data, v)
}

// PhotoUploadedEvent is published after a pet photo is stored and the
// pet record points at it.
type PhotoUploadedEvent struct {
	PetID       uuid.UUID `json:"pet_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// PhotoDeletedEvent is published after a pet photo is removed.
type PhotoDeletedEvent struct {
	PetID      uuid.UUID `json:"pet_id"`
	FileName   string    `json:"file_name"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OwnerDeletedEvent arrives from the owner service when an owner record
// is removed.
type OwnerDeletedEvent struct {
	OwnerID    uuid.UUID `json:"owner_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
