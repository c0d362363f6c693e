package events

import "time"

// Topic carries every session lifecycle event on the in-process bus.
const Topic = "SESSION_LIFECYCLE"

// Event types.
const (
	TypeSessionCreated   = "SESSION_CREATED"
	TypeSessionExpired   = "SESSION_EXPIRED"
	TypeDocumentIngested = "DOCUMENT_INGESTED"
	TypeDocumentRemoved  = "DOCUMENT_REMOVED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
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

func SessionCreated(sessionID string) Event {
	return BaseEvent{
		Type:       TypeSessionCreated,
		Data:       map[string]interface{}{"session_id": sessionID},
		OccurredAt: time.Now(),
	}
}

func SessionExpired(sessionID string) Event {
	return BaseEvent{
		Type:       TypeSessionExpired,
		Data:       map[string]interface{}{"session_id": sessionID},
		OccurredAt: time.Now(),
	}
}

func DocumentIngested(sessionID, docID, source string, chunks int) Event {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"doc_id":     docID,
			"source":     source,
			"chunks":     chunks,
		},
		OccurredAt: time.Now(),
	}
}

func DocumentRemoved(sessionID, docID string) Event {
	return BaseEvent{
		Type: TypeDocumentRemoved,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"doc_id":     docID,
		},
		OccurredAt: time.Now(),
	}
}
