package duration

import (
	"math"
	"time"
)

// EpochYear is the calendar year of the reference instant all durations are
// anchored to.
const EpochYear = 1970

const millisPerWeek = 7 * 24 * 60 * 60 * 1000

// epoch is 1970-01-01T00:00:00.000Z.
var epoch = time.UnixMilli(0).UTC()

// Evaluate returns the epoch-anchored value of a duration in milliseconds:
// every delta is applied in order to the reference instant and the
// resulting epoch-millisecond value is negated when negative is set.
//
// Each call owns its accumulator, so Evaluate is safe for concurrent use.
func Evaluate(deltas []Delta, negative bool) int64 {
	ms := accumulate(deltas).UnixMilli()
	if negative {
		ms = -ms
	}
	return ms
}

func accumulate(deltas []Delta) time.Time {
	acc := epoch
	for _, d := range deltas {
		acc = apply(acc, d)
	}
	return acc
}

// apply adds one delta to acc. The integral part goes through calendar
// field arithmetic; a fractional remainder is a share of the next whole
// unit measured from where the integral part landed.
func apply(acc time.Time, d Delta) time.Time {
	whole, frac := math.Modf(d.Quantity)
	next := step(acc, d.Unit, int(whole))
	if frac == 0 {
		return next
	}
	span := step(next, d.Unit, 1).Sub(next)
	offset := time.Duration(frac * float64(span)).Round(time.Millisecond)
	return next.Add(offset)
}

// step moves t by n units in t's location. Fields that overflow their range
// are carried the way time.Date normalises them, so 1970-01-31 plus one
// month is 1970-03-03.
func step(t time.Time, u Unit, n int) time.Time {
	year, month, day := t.Date()
	hour, minute, second := t.Clock()
	nsec := t.Nanosecond()

	switch u {
	case Year:
		year += n
	case Month:
		month += time.Month(n)
	case Week:
		// In UTC a day is exactly 86400s, so this is the literal 7·24h
		// addition without the time.Duration range limit.
		day += 7 * n
	case Day:
		day += n
	case Hour:
		hour += n
	case Minute:
		minute += n
	case Second:
		second += n
	case Millisecond:
		nsec += n * int(time.Millisecond)
	}
	return time.Date(year, month, day, hour, minute, second, nsec, t.Location())
}

// AddTo applies d to t the same way d is applied to the epoch, so P1M
// added to January 31 lands in early March. Durations built from a
// millisecond offset are added as a fixed length.
func (d Duration) AddTo(t time.Time) time.Time {
	if d.deltas == nil {
		return t.Add(d.Std())
	}
	for _, delta := range d.deltas {
		if d.negative {
			delta.Quantity = -delta.Quantity
		}
		t = apply(t, delta)
	}
	return t
}
