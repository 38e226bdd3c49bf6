// Package events defines the contract for domain events published on the
// message bus.
package events

import "time"

// Event is a system event carried over the bus.
type Event interface {
	// EventType returns the unique code for this event, e.g. "DOCUMENT_UPLOADED".
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a plain Event implementation for ad-hoc events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewDocumentUploaded builds the event emitted after a document upload has
// been persisted and its file written to storage.
func NewDocumentUploaded(documentID, patientID, userID string) BaseEvent {
	return BaseEvent{
		Type: "DOCUMENT_UPLOADED",
		Data: map[string]interface{}{
			"document_id": documentID,
			"patient_id":  patientID,
			"user_id":     userID,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentParsed builds the event emitted when parsing finishes, whatever
// the outcome.
func NewDocumentParsed(documentID, userID, status string) BaseEvent {
	return BaseEvent{
		Type: "DOCUMENT_PARSED",
		Data: map[string]interface{}{
			"document_id": documentID,
			"user_id":     userID,
			"status":      status,
		},
		OccurredAt: time.Now(),
	}
}
