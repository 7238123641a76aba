package interval

import (
	"time"

	"timeduration/internal/duration"
	"timeduration/internal/model"
)

// Endpoint is one side of an interval: a point in time, a duration, or
// nothing at all.
type Endpoint struct {
	kind model.EndpointKind
	at   time.Time
	span duration.Duration
}

// At returns an endpoint anchored at t. t is normalised to UTC.
func At(t time.Time) Endpoint {
	return Endpoint{kind: model.EndpointInstant, at: t.UTC()}
}

// Span returns a duration endpoint. A Duration that wraps a point in time
// becomes an instant endpoint; a zero Duration becomes an empty one, which
// the interval setters reject.
func Span(d duration.Duration) Endpoint {
	switch {
	case d.IsZero():
		return Endpoint{}
	case d.IsInstant():
		return At(d.Time())
	}
	return Endpoint{kind: model.EndpointDuration, span: d}
}

// None returns the absent endpoint.
func None() Endpoint {
	return Endpoint{}
}

// Kind reports what e holds.
func (e Endpoint) Kind() model.EndpointKind { return e.kind }

// IsInstant reports whether e is a point in time.
func (e Endpoint) IsInstant() bool { return e.kind == model.EndpointInstant }

// IsDuration reports whether e is a duration.
func (e Endpoint) IsDuration() bool { return e.kind == model.EndpointDuration }

// IsNone reports whether e is absent.
func (e Endpoint) IsNone() bool { return e.kind == model.EndpointNone }

// Time returns the instant of an instant endpoint, or the zero time.
func (e Endpoint) Time() time.Time { return e.at }

// Duration returns the duration of a duration endpoint, or the zero
// Duration.
func (e Endpoint) Duration() duration.Duration { return e.span }

// Millis is the numeric value containment compares: epoch milliseconds for
// an instant, the epoch-anchored value for a duration.
func (e Endpoint) Millis() int64 {
	switch e.kind {
	case model.EndpointInstant:
		return e.at.UnixMilli()
	case model.EndpointDuration:
		return e.span.UnixMilli()
	}
	return 0
}

func (e Endpoint) String() string {
	switch e.kind {
	case model.EndpointInstant:
		return e.at.Format(duration.InstantLayout)
	case model.EndpointDuration:
		return e.span.ISOString()
	}
	return ""
}

func (e Endpoint) dateString() string {
	switch e.kind {
	case model.EndpointInstant:
		return e.at.Format("2006-01-02")
	case model.EndpointDuration:
		return e.span.DateString()
	}
	return ""
}

func (e Endpoint) timeString() string {
	switch e.kind {
	case model.EndpointInstant:
		return e.at.Format("T15:04:05.000Z")
	case model.EndpointDuration:
		return e.span.TimeString()
	}
	return ""
}
