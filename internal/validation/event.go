package validation

import (
	"fmt"
	"slices"
	"strings"
)

// EventType is the severity of a finding. The declaration order is the sort order.
type EventType int

const (
	Pass EventType = iota
	Warn
	Error
	Debug
	Info
)

var eventTypeNames = [...]string{"PASS", "WARN", "ERROR", "DEBUG", "INFO"}

func (t EventType) String() string {
	if t >= 0 && int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// ParseEventType maps a case-insensitive name onto an EventType.
func ParseEventType(value string) (EventType, error) {
	for i, name := range eventTypeNames {
		if strings.EqualFold(strings.TrimSpace(value), name) {
			return EventType(i), nil
		}
	}
	return Pass, fmt.Errorf("unrecognised event type %q", value)
}

// Event is the outcome of a single check.
type Event struct {
	Type    EventType `json:"type"`
	Message string    `json:"message"`
}

// New returns an event of the given type.
func New(eventType EventType, message string) Event {
	return Event{Type: eventType, Message: message}
}

// Newf returns an event with a formatted message.
func Newf(eventType EventType, format string, args ...any) Event {
	return Event{Type: eventType, Message: fmt.Sprintf(format, args...)}
}

func PassEvent(message string) Event  { return New(Pass, message) }
func WarnEvent(message string) Event  { return New(Warn, message) }
func ErrorEvent(message string) Event { return New(Error, message) }
func DebugEvent(message string) Event { return New(Debug, message) }
func InfoEvent(message string) Event  { return New(Info, message) }

func (e Event) String() string {
	return e.Type.String() + ": " + e.Message
}

// Compare orders events by type, then message.
func Compare(a, b Event) int {
	if a.Type != b.Type {
		if a.Type < b.Type {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Message, b.Message)
}

// HasEvent reports whether any event has the given type.
func HasEvent(events []Event, eventType EventType) bool {
	return slices.ContainsFunc(events, func(e Event) bool { return e.Type == eventType })
}

// Count returns the number of events of the given type.
func Count(events []Event, eventType EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// WithoutPass drops PASS events, keeping the order of the rest.
func WithoutPass(events []Event) []Event {
	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Type != Pass {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Sort orders events in place using Compare. Equal events keep their order.
func Sort(events []Event) {
	slices.SortStableFunc(events, Compare)
}
