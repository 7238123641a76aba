package model

import "time"

// EndpointKind tells what an interval endpoint holds.
type EndpointKind int

const (
	// EndpointNone is an absent endpoint (only valid as an interval end).
	EndpointNone EndpointKind = iota
	// EndpointInstant is an absolute point in time.
	EndpointInstant
	// EndpointDuration is a relative span.
	EndpointDuration
)

func (k EndpointKind) String() string {
	switch k {
	case EndpointInstant:
		return "instant"
	case EndpointDuration:
		return "duration"
	}
	return "none"
}

// Entry is one step of a repeating interval traversal: the zero-based
// repetition index and the instant it materialises to.
type Entry struct {
	Index int
	At    time.Time
}

// Occurrence represents a single concrete instance of a calendar event
// after its recurrence has been expanded.
type Occurrence struct {
	UID     string
	Summary string

	// Index is the repetition index within the event's own series.
	Index int

	// InstanceKey uniquely identifies a single occurrence of a recurring
	// event, derived from the start time.
	InstanceKey string

	Start time.Time
	End   time.Time
}
