package interval

import (
	"iter"
	"time"

	"timeduration/internal/duration"
	"timeduration/internal/isoerr"
	"timeduration/internal/model"
)

// Iterator walks the occurrences of a repeating interval. The k-th
// occurrence is the point in time endpoint with k times each calendar
// field of the duration endpoint added to (or, for a duration start,
// subtracted from) the matching field. Fields are scaled independently,
// so a yearly step from February 29 lands on March 1 in common years.
//
//	it := iv.Iterator()
//	defer it.Close()
//	for it.Next() {
//		fmt.Println(it.Index(), it.Value())
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator struct {
	iv        *Interval
	subscript int
	cur       time.Time
	err       error
	done      bool
}

// Iterator returns a fresh cursor positioned before the first occurrence.
func (iv *Interval) Iterator() *Iterator {
	return &Iterator{iv: iv, subscript: -1}
}

// Next advances to the next occurrence. It returns false once the
// repetition count is exhausted or on error; check Err afterwards. A
// finished iterator never restarts.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	it.subscript++

	count := it.iv.count
	if count >= 0 && it.subscript > count {
		it.done = true
		return false
	}

	t, err := materialize(it.iv.start, it.iv.end, it.subscript)
	if err != nil {
		it.err = err
		it.done = true
		return false
	}
	it.cur = t
	return true
}

// Index returns the zero-based index of the current occurrence.
func (it *Iterator) Index() int { return it.subscript }

// Value returns the current occurrence.
func (it *Iterator) Value() time.Time { return it.cur }

// Entry returns the current index and occurrence together.
func (it *Iterator) Entry() model.Entry {
	return model.Entry{Index: it.subscript, At: it.cur}
}

// Err returns the error that stopped the iterator, if any.
func (it *Iterator) Err() error { return it.err }

// Close stops the iterator. It always returns nil.
func (it *Iterator) Close() error {
	it.done = true
	return nil
}

// materialize computes occurrence k from the current endpoints.
func materialize(start, end Endpoint, k int) (time.Time, error) {
	var (
		anchor time.Time
		step   duration.Duration
		sign   int
	)
	switch {
	case start.IsInstant() && end.IsDuration():
		anchor, step, sign = start.Time(), end.Duration(), 1
	case start.IsDuration() && end.IsInstant():
		anchor, step, sign = end.Time(), start.Duration(), -1
	default:
		return time.Time{}, isoerr.New(isoerr.UnsupportedCombination,
			"iteration needs one point in time and one duration endpoint",
			start.Kind().String()+"/"+end.Kind().String())
	}

	n := sign * k
	return time.Date(
		anchor.Year()+n*step.FullYear(),
		anchor.Month()+time.Month(n*step.Month()),
		anchor.Day()+n*step.Date(),
		anchor.Hour()+n*step.Hours(),
		anchor.Minute()+n*step.Minutes(),
		anchor.Second()+n*step.Seconds(),
		(anchor.Nanosecond()/int(time.Millisecond)+n*step.Milliseconds())*int(time.Millisecond),
		time.UTC,
	), nil
}

// Keys yields the occurrence indexes. Like Values and Entries it stops
// silently on error; use Iterator to observe the error.
func (iv *Interval) Keys() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := iv.Iterator()
		for it.Next() {
			if !yield(it.Index()) {
				return
			}
		}
	}
}

// Values yields the occurrences.
func (iv *Interval) Values() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		it := iv.Iterator()
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Entries yields index and occurrence pairs.
func (iv *Interval) Entries() iter.Seq2[int, time.Time] {
	return func(yield func(int, time.Time) bool) {
		it := iv.Iterator()
		for it.Next() {
			if !yield(it.Index(), it.Value()) {
				return
			}
		}
	}
}
