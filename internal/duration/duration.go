// Package duration implements ISO-8601 durations whose numeric value is
// defined by applying their deltas to 1970-01-01T00:00:00Z.
//
// A Duration is also a superset of a point in time: text that is not a
// duration literal, a millisecond offset, or an explicit field list all
// produce a Duration that reads like an instant.
package duration

import (
	"time"

	"timeduration/internal/isoerr"
)

// Duration is an immutable, epoch-anchored span of time.
type Duration struct {
	form     Form
	instant  bool
	negative bool
	deltas   []Delta

	// acc is the signed accumulator every accessor reads.
	acc time.Time
	// abs is the accumulator of the unsigned magnitude, used for formatting.
	abs time.Time

	set bool
}

// Parse parses a basic, extended or designator form duration. Text in none
// of those grammars is parsed as a point in time instead; see IsInstant.
func Parse(s string) (Duration, error) {
	d, err := ParseLiteral(s)
	if err == nil {
		return d, nil
	}
	if isoerr.KindOf(err) != isoerr.GrammarMismatch {
		return Duration{}, err
	}
	t, ierr := ParseInstant(s)
	if ierr != nil {
		return Duration{}, isoerr.New(isoerr.GrammarMismatch, "neither a duration nor a point in time", s)
	}
	return FromTime(t), nil
}

// ParseLiteral parses only the three duration grammars.
func ParseLiteral(s string) (Duration, error) {
	lit, err := parseLiteral(s)
	if err != nil {
		return Duration{}, err
	}

	var abs time.Time
	if lit.form == FormNormal {
		abs = accumulate(lit.deltas)
	} else {
		abs = construct(lit.fields)
	}
	return newDuration(lit.form, lit.deltas, lit.negative, abs), nil
}

// MustParse is like Parse but panics on error. Intended for literals known
// to be valid at compile time.
func MustParse(s string) Duration {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// construct builds the accumulator of a positional literal with calendar
// date construction. The month is zero-based like a delta; the day is
// stored one-based and Date() takes the one back off, so the result is the
// same instant the designator form accumulates for equal components.
func construct(f [7]int) time.Time {
	return time.Date(
		EpochYear+f[0],
		time.Month(f[1]+1),
		f[2]+1,
		f[3], f[4], f[5],
		f[6]*int(time.Millisecond),
		time.UTC,
	)
}

func newDuration(form Form, deltas []Delta, negative bool, abs time.Time) Duration {
	acc := abs
	if negative {
		acc = time.UnixMilli(-abs.UnixMilli()).UTC()
	}
	return Duration{
		form:     form,
		negative: negative,
		deltas:   deltas,
		acc:      acc,
		abs:      abs,
		set:      true,
	}
}

// FromMillis treats ms as a raw offset from the epoch instant.
func FromMillis(ms int64) Duration {
	abs := ms
	if abs < 0 {
		abs = -abs
	}
	return newDuration(FormNone, nil, ms < 0, time.UnixMilli(abs).UTC())
}

// FromTime wraps an absolute point in time.
func FromTime(t time.Time) Duration {
	t = t.UTC()
	d := FromMillis(t.UnixMilli())
	d.acc = t
	d.instant = true
	return d
}

// FromFields builds a point in time from calendar fields: year, a
// zero-based month, then optionally day (default 1), hour, minute, second
// and millisecond. Out of range fields carry into the next larger one.
func FromFields(year, month int, rest ...int) Duration {
	f := [5]int{1, 0, 0, 0, 0}
	copy(f[:], rest)
	t := time.Date(year, time.Month(month+1), f[0], f[1], f[2], f[3], f[4]*int(time.Millisecond), time.UTC)
	return FromTime(t)
}

// IsZero reports whether d is the zero Duration, i.e. was never constructed.
func (d Duration) IsZero() bool {
	return !d.set
}

// IsInstant reports whether d was built from a point in time rather than a
// duration literal.
func (d Duration) IsInstant() bool {
	return d.instant
}

// Form reports the grammar d was parsed from.
func (d Duration) Form() Form {
	return d.form
}

// HasCalendarUnits reports whether a year or month delta is present, i.e.
// whether d has no fixed length.
func (d Duration) HasCalendarUnits() bool {
	for _, delta := range d.deltas {
		if delta.Unit.Calendar() && delta.Quantity != 0 {
			return true
		}
	}
	return false
}

// Negative reports the sign bit.
func (d Duration) Negative() bool {
	return d.negative
}

// Deltas returns a copy of the unit deltas in literal order. It is nil for
// durations not parsed from a literal.
func (d Duration) Deltas() []Delta {
	if d.deltas == nil {
		return nil
	}
	out := make([]Delta, len(d.deltas))
	copy(out, d.deltas)
	return out
}

// Time returns the accumulator instant.
func (d Duration) Time() time.Time {
	if !d.set {
		return epoch
	}
	return d.acc
}

// UnixMilli returns the epoch-anchored value in milliseconds.
func (d Duration) UnixMilli() int64 {
	return d.Time().UnixMilli()
}

// Std converts d to a time.Duration. Values beyond roughly 292 years
// saturate.
func (d Duration) Std() time.Duration {
	return d.Time().Sub(epoch)
}

// Compare orders two durations by their epoch-anchored value.
func (d Duration) Compare(o Duration) int {
	a, b := d.UnixMilli(), o.UnixMilli()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Equal reports whether d and o have the same epoch-anchored value.
func (d Duration) Equal(o Duration) bool {
	return d.UnixMilli() == o.UnixMilli()
}

// FullYear returns whole years since the epoch year.
func (d Duration) FullYear() int { return d.UTCFullYear() }

// UTCFullYear returns whole years since the epoch year.
func (d Duration) UTCFullYear() int { return d.Time().Year() - EpochYear }

// Month returns the zero-based month of the accumulator, which is the
// number of whole months past the year.
func (d Duration) Month() int { return d.UTCMonth() }

func (d Duration) UTCMonth() int { return int(d.Time().Month()) - 1 }

// Date returns whole days past the month. The accumulator's day of month
// is one-based, so one is taken off.
func (d Duration) Date() int { return d.UTCDate() }

func (d Duration) UTCDate() int { return d.Time().Day() - 1 }

// Day returns the accumulator's weekday, Sunday being 0.
func (d Duration) Day() int { return d.UTCDay() }

func (d Duration) UTCDay() int { return int(d.Time().Weekday()) }

func (d Duration) Hours() int        { return d.UTCHours() }
func (d Duration) UTCHours() int     { return d.Time().Hour() }
func (d Duration) Minutes() int      { return d.UTCMinutes() }
func (d Duration) UTCMinutes() int   { return d.Time().Minute() }
func (d Duration) Seconds() int      { return d.UTCSeconds() }
func (d Duration) UTCSeconds() int   { return d.Time().Second() }
func (d Duration) Milliseconds() int { return d.UTCMilliseconds() }

func (d Duration) UTCMilliseconds() int {
	return d.Time().Nanosecond() / int(time.Millisecond)
}

// TimezoneOffset is always 0; durations are never local.
func (d Duration) TimezoneOffset() int { return 0 }

// WeeksOfYear returns the fractional number of 7-day periods between the
// start of the accumulator's year and the accumulator.
func (d Duration) WeeksOfYear() float64 {
	t := d.Time()
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return float64(t.UnixMilli()-start.UnixMilli()) / millisPerWeek
}
