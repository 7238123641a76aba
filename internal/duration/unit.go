package duration

import "fmt"

// Unit is one of the calendar or clock units a duration delta is expressed in.
type Unit int

const (
	Year Unit = iota
	Month
	Week
	Day
	Hour
	Minute
	Second
	Millisecond
)

var unitNames = [...]string{
	Year:        "year",
	Month:       "month",
	Week:        "week",
	Day:         "day",
	Hour:        "hour",
	Minute:      "minute",
	Second:      "second",
	Millisecond: "millisecond",
}

func (u Unit) String() string {
	if u < Year || u > Millisecond {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// Calendar reports whether the unit has no fixed length in milliseconds.
func (u Unit) Calendar() bool {
	return u == Year || u == Month
}

// Delta is a single (unit, quantity) pair of a duration literal.
type Delta struct {
	Unit     Unit
	Quantity float64
}

func (d Delta) String() string {
	return fmt.Sprintf("%g %s", d.Quantity, d.Unit)
}
