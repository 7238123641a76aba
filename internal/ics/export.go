package ics

import (
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"timeduration/internal/interval"
	"timeduration/internal/isoerr"
	"timeduration/internal/schedule"
)

// ExportEvent is an interval to be written as a VEVENT.
type ExportEvent struct {
	UID      string
	Summary  string
	Interval *interval.Interval
	// Stamp is the DTSTAMP; the interval start is used when zero.
	Stamp time.Time
}

// ExportCalendar renders events as an iCalendar document.
//
// The interval start becomes DTSTART. A point in time end becomes DTEND;
// a duration end becomes DURATION, or DTEND when it has years or months,
// which DURATION cannot express. A repeating interval gets an RRULE, so
// it must have a duration end that schedule.ToROption accepts.
func ExportCalendar(events []ExportEvent) (string, error) {
	cal := ical.NewCalendarFor("timeduration")

	for _, e := range events {
		iv := e.Interval
		if iv == nil || !iv.Start().IsInstant() {
			return "", isoerr.New(isoerr.UnsupportedCombination, "exported events need a point in time start", e.UID)
		}
		start := iv.Start().Time()

		ev := cal.AddEvent(e.UID)
		stamp := e.Stamp
		if stamp.IsZero() {
			stamp = start
		}
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(start)
		if e.Summary != "" {
			ev.SetSummary(e.Summary)
		}

		switch end := iv.End(); {
		case end.IsInstant():
			ev.SetEndAt(end.Time())
		case end.Duration().HasCalendarUnits():
			ev.SetEndAt(end.Duration().AddTo(start))
		default:
			ev.SetProperty(ical.ComponentPropertyDuration, icalDuration(end.Duration().Std()))
		}

		if iv.IsRepeating() {
			opt, err := schedule.ToROption(iv)
			if err != nil {
				return "", err
			}
			ev.AddRrule(opt.RRuleString())
		}
	}

	return cal.Serialize(), nil
}

// icalDuration writes a fixed length in the RFC 5545 dur-value grammar,
// which has no month or year designator. Days are not folded into larger
// units and the sub-second remainder is dropped, since iCalendar has
// second resolution.
func icalDuration(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	b.WriteByte('P')

	secs := int64(d / time.Second)
	days := secs / 86400
	secs %= 86400
	h, m, s := secs/3600, secs%3600/60, secs%60

	if days > 0 {
		b.WriteString(strconv.FormatInt(days, 10) + "D")
	}
	if h > 0 || m > 0 || s > 0 || days == 0 {
		b.WriteByte('T')
		if h > 0 {
			b.WriteString(strconv.FormatInt(h, 10) + "H")
		}
		if m > 0 {
			b.WriteString(strconv.FormatInt(m, 10) + "M")
		}
		if s > 0 || (days == 0 && h == 0 && m == 0) {
			b.WriteString(strconv.FormatInt(s, 10) + "S")
		}
	}
	return b.String()
}
