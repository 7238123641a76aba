package schedule

import (
	"math"

	"github.com/teambition/rrule-go"

	"timeduration/internal/duration"
	"timeduration/internal/interval"
	"timeduration/internal/isoerr"
)

var frequencies = map[duration.Unit]rrule.Frequency{
	duration.Year:   rrule.YEARLY,
	duration.Month:  rrule.MONTHLY,
	duration.Week:   rrule.WEEKLY,
	duration.Day:    rrule.DAILY,
	duration.Hour:   rrule.HOURLY,
	duration.Minute: rrule.MINUTELY,
	duration.Second: rrule.SECONDLY,
}

// ToROption expresses a repeating interval as an RFC 5545 recurrence.
//
// Only intervals of the form start/step are expressible, where start is a
// point in time and step is a positive whole number of a single unit, e.g.
// R4/2007-03-01T13:00:00Z/P2W. A bounded repetition count n becomes
// COUNT=n+1; an unbounded one leaves COUNT unset.
//
// RRULE skips dates that do not exist (the 31st of a short month), while
// Interval.Iterator lets them overflow into the next month, so the two
// sequences differ for such starts.
func ToROption(iv *interval.Interval) (rrule.ROption, error) {
	var opt rrule.ROption

	if !iv.Start().IsInstant() || !iv.End().IsDuration() {
		return opt, isoerr.New(isoerr.UnsupportedCombination,
			"recurrence export needs a point in time start and a duration end", iv.ISOString())
	}

	step := iv.End().Duration()
	if step.Negative() {
		return opt, isoerr.New(isoerr.UnsupportedCombination, "recurrence step must be positive", step.ISOString())
	}

	var (
		unit  duration.Unit
		found int
		qty   float64
	)
	for _, d := range step.Deltas() {
		if d.Quantity == 0 {
			continue
		}
		unit, qty = d.Unit, d.Quantity
		found++
	}
	freq, ok := frequencies[unit]
	if found != 1 || !ok || qty != math.Trunc(qty) {
		return opt, isoerr.New(isoerr.UnsupportedCombination,
			"recurrence step must be a whole number of a single unit", step.ISOString())
	}

	opt.Freq = freq
	opt.Interval = int(qty)
	opt.Dtstart = iv.Start().Time()
	if n := iv.RepetitionCount(); n >= 0 {
		opt.Count = n + 1
	}
	return opt, nil
}

// ToRRule is ToROption followed by rrule.NewRRule.
func ToRRule(iv *interval.Interval) (*rrule.RRule, error) {
	opt, err := ToROption(iv)
	if err != nil {
		return nil, err
	}
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, isoerr.Wrap(isoerr.UnsupportedCombination, err, "invalid recurrence", iv.ISOString())
	}
	return r, nil
}
