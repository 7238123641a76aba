// Package interval implements ISO-8601 time intervals: a start and an end
// that are each a point in time or a duration, optionally repeated.
//
// An Interval is mutable through its setters, all of which validate the
// result. It is not safe for concurrent mutation, and it must not be
// mutated while an Iterator over it is in use: iterators re-read the
// endpoints and repetition count on every step.
package interval

import (
	"strconv"
	"strings"

	"timeduration/internal/duration"
	"timeduration/internal/isoerr"
)

// Separators accepted between the repetition prefix and the endpoints.
const (
	Solidus      = "/"
	DoubleHyphen = "--"
)

const (
	// Once is the repetition count of a non-repeating interval.
	Once = 0
	// Unbounded is the repetition count of an interval that repeats
	// forever.
	Unbounded = -1
)

// Interval is a possibly repeating span between two endpoints.
type Interval struct {
	start      Endpoint
	end        Endpoint
	designator string
	count      int
}

// New builds a non-repeating interval with the default designator.
func New(start, end Endpoint) (*Interval, error) {
	if err := validate(start, end); err != nil {
		return nil, err
	}
	return &Interval{start: start, end: end, designator: Solidus}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Interval {
	iv, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return iv
}

// validate enforces the endpoint combinations an interval may hold.
func validate(start, end Endpoint) error {
	switch {
	case start.IsNone():
		return isoerr.New(isoerr.TypeConstraintViolation, "interval start must be a point in time or a duration", "")
	case start.IsDuration() && end.IsDuration():
		return isoerr.New(isoerr.TypeConstraintViolation, "interval endpoints cannot both be durations", "")
	case start.IsInstant() && end.IsNone():
		return isoerr.New(isoerr.TypeConstraintViolation, "a lone point in time is not an interval", "")
	}
	return nil
}

// Start returns the start endpoint.
func (iv *Interval) Start() Endpoint { return iv.start }

// End returns the end endpoint, which may be None.
func (iv *Interval) End() Endpoint { return iv.end }

// SetStart replaces the start endpoint if the result is a valid interval.
func (iv *Interval) SetStart(e Endpoint) error {
	if err := validate(e, iv.end); err != nil {
		return err
	}
	iv.start = e
	return nil
}

// SetEnd replaces the end endpoint if the result is a valid interval.
func (iv *Interval) SetEnd(e Endpoint) error {
	if err := validate(iv.start, e); err != nil {
		return err
	}
	iv.end = e
	return nil
}

// RepetitionCount returns 0 for a single occurrence, -1 for unbounded
// repetition, or the number of repetitions after the first occurrence.
func (iv *Interval) RepetitionCount() int { return iv.count }

// SetRepetitionCount sets the repetition count. n must be -1 or greater.
func (iv *Interval) SetRepetitionCount(n int) error {
	if n < Unbounded {
		return isoerr.New(isoerr.TypeConstraintViolation, "repetition count must be -1 or greater", strconv.Itoa(n))
	}
	iv.count = n
	return nil
}

// Designator returns the separator written between the endpoints.
func (iv *Interval) Designator() string { return iv.designator }

// SetDesignator sets the separator. Only "/" and "--" are accepted.
func (iv *Interval) SetDesignator(d string) error {
	if d != Solidus && d != DoubleHyphen {
		return isoerr.New(isoerr.TypeConstraintViolation, "interval designator must be \"/\" or \"--\"", d)
	}
	iv.designator = d
	return nil
}

// IsRepeating reports whether the interval has a repetition prefix.
func (iv *Interval) IsRepeating() bool { return iv.count != Once }

// Duration returns the span the interval covers: the difference of the
// endpoints when both are points in time, otherwise the duration endpoint.
func (iv *Interval) Duration() duration.Duration {
	switch {
	case iv.start.IsInstant() && iv.end.IsInstant():
		return duration.FromMillis(iv.end.Millis() - iv.start.Millis())
	case iv.end.IsDuration():
		return iv.end.Duration()
	}
	return iv.start.Duration()
}

func (iv *Interval) prefix() string {
	switch {
	case iv.count == Once:
		return ""
	case iv.count == Unbounded:
		return "R" + iv.designator
	}
	return "R" + strconv.Itoa(iv.count) + iv.designator
}

func (iv *Interval) join(start, end string) string {
	var b strings.Builder
	b.WriteString(iv.prefix())
	b.WriteString(start)
	if !iv.end.IsNone() {
		b.WriteString(iv.designator)
		b.WriteString(end)
	}
	return b.String()
}

// ISOString formats the interval, e.g. R2/2007-03-01T13:00:00.000Z/P1Y.
func (iv *Interval) ISOString() string {
	return iv.join(iv.start.String(), iv.end.String())
}

// DateString formats the date portion of each endpoint.
func (iv *Interval) DateString() string {
	return iv.join(iv.start.dateString(), iv.end.dateString())
}

// TimeString formats the time portion of each endpoint.
func (iv *Interval) TimeString() string {
	return iv.join(iv.start.timeString(), iv.end.timeString())
}

func (iv *Interval) String() string {
	return iv.ISOString()
}

// MarshalText implements encoding.TextMarshaler.
func (iv *Interval) MarshalText() ([]byte, error) {
	return []byte(iv.ISOString()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (iv *Interval) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*iv = *parsed
	return nil
}
