package interval

import (
	"time"

	"timeduration/internal/isoerr"
)

// Includes reports whether t falls inside the interval, bounds included.
//
//	instant/instant    S <= t <= E
//	instant/duration   S <= t <= S+E
//	duration/instant   E-S <= t <= E
//	duration/none      S <= t
//
// where durations contribute their epoch-anchored value. Repeating
// intervals are rejected with UnsupportedCombination.
func (iv *Interval) Includes(t time.Time) (bool, error) {
	if iv.IsRepeating() {
		return false, isoerr.New(isoerr.UnsupportedCombination, "containment in a repeating interval is not defined", iv.ISOString())
	}

	p := t.UnixMilli()
	s, e := iv.start.Millis(), iv.end.Millis()

	switch {
	case iv.start.IsInstant() && iv.end.IsInstant():
		return s <= p && p <= e, nil
	case iv.start.IsInstant() && iv.end.IsDuration():
		return s <= p && p <= s+e, nil
	case iv.start.IsDuration() && iv.end.IsInstant():
		return e-s <= p && p <= e, nil
	case iv.start.IsDuration() && iv.end.IsNone():
		return s <= p, nil
	}
	return false, isoerr.New(isoerr.UnsupportedCombination, "no containment rule for endpoint combination", iv.ISOString())
}

// IncludesInterval is not defined for any pair of intervals and always
// returns UnsupportedCombination.
func (iv *Interval) IncludesInterval(o *Interval) (bool, error) {
	return false, isoerr.New(isoerr.UnsupportedCombination, "interval in interval containment is not defined", o.ISOString())
}
