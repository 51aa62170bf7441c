package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventQuerySubmitted   EventType = "QuerySubmitted"
	EventResponseReceived EventType = "ResponseReceived"
	EventQueryFailed      EventType = "QueryFailed"
	EventConfigLoaded     EventType = "ConfigLoaded"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// QuerySubmittedEvent is emitted when the user executes the draft
type QuerySubmittedEvent struct {
	Submission
}

func (e QuerySubmittedEvent) Type() EventType { return EventQuerySubmitted }

// ResponseReceivedEvent is emitted when a transport call returns a body
type ResponseReceivedEvent struct {
	Seq     uint64
	Body    string
	Elapsed time.Duration
}

func (e ResponseReceivedEvent) Type() EventType { return EventResponseReceived }

// QueryFailedEvent is emitted when a transport call fails
type QueryFailedEvent struct {
	Seq uint64
	Err error
}

func (e QueryFailedEvent) Type() EventType { return EventQueryFailed }

// ConfigLoadedEvent is emitted after configuration is read.
// Found is false when the file did not exist and defaults were used.
type ConfigLoadedEvent struct {
	Endpoint string
	Path     string
	Found    bool
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }
