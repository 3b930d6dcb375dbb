package domain

// EventType identifies the kind of a stream event
type EventType string

const (
	EventLog      EventType = "log"
	EventComplete EventType = "complete"
)

// LogKind identifies whether a log event came from stdout or stderr
type LogKind string

const (
	LogInfo  LogKind = "info"
	LogError LogKind = "error"
)

// LogPayload carries one line (stdout) or chunk (stderr) of script output
type LogPayload struct {
	Type    LogKind `json:"type"`
	Message string  `json:"message"`
}

// StreamEvent is one record in the newline-delimited download event stream.
// A stream is a sequence of log events followed by exactly one complete
// event, unless the run is cancelled, in which case the stream just ends.
type StreamEvent struct {
	Type    EventType   `json:"type"`
	Log     *LogPayload `json:"log,omitempty"`
	Success *bool       `json:"success,omitempty"`
}

// NewInfoEvent creates a log event for a stdout line
func NewInfoEvent(message string) StreamEvent {
	return StreamEvent{
		Type: EventLog,
		Log:  &LogPayload{Type: LogInfo, Message: message},
	}
}

// NewErrorEvent creates a log event for a stderr chunk
func NewErrorEvent(message string) StreamEvent {
	return StreamEvent{
		Type: EventLog,
		Log:  &LogPayload{Type: LogError, Message: message},
	}
}

// NewCompleteEvent creates the terminal event of a stream
func NewCompleteEvent(success bool) StreamEvent {
	return StreamEvent{
		Type:    EventComplete,
		Success: &success,
	}
}

// IsComplete reports whether the event terminates a stream
func (e StreamEvent) IsComplete() bool {
	return e.Type == EventComplete
}

// Succeeded reports whether a complete event carries success=true
func (e StreamEvent) Succeeded() bool {
	return e.Type == EventComplete && e.Success != nil && *e.Success
}
