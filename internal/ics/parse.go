// Package ics bridges iCalendar events and ISO-8601 intervals: events are
// read into intervals, intervals are written out as events, and
// recurring events are expanded into occurrences.
package ics

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/pkg/errors"
	"github.com/teambition/rrule-go"

	"timeduration/internal/duration"
	"timeduration/internal/interval"
	"timeduration/internal/isoerr"
	appLog "timeduration/internal/log"
)

// ParsedEvent is the normalized representation of a VEVENT.
type ParsedEvent struct {
	Source Source

	UID     string
	Summary string

	Start  time.Time
	End    time.Time
	AllDay bool

	// RawDuration is the DURATION property, used when DTEND is absent.
	RawDuration string
	RawRRule    string
	ExDates     []time.Time
}

// ParseICS parses a single ICS payload into a list of ParsedEvent. Events
// that cannot be read are logged and skipped.
func ParseICS(src Source, body []byte) ([]ParsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "id", src.ID)
		return nil, errors.Wrap(err, "parse ics")
	}

	events := make([]ParsedEvent, 0)
	for _, comp := range cal.Events() {
		ev, perr := parseVEvent(src, comp)
		if perr != nil {
			appLog.Warn("ics vevent skipped", "id", src.ID, "err", perr)
			continue
		}
		events = append(events, ev)
	}

	appLog.Debug("ics parse completed", "id", src.ID, "event_count", len(events))
	return events, nil
}

func parseVEvent(src Source, ve *ical.VEvent) (ParsedEvent, error) {
	out := ParsedEvent{Source: src}

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, errors.Errorf("event %s: missing DTSTART", out.UID)
	}
	start, err := ve.GetStartAt()
	if err != nil {
		return out, errors.Wrapf(err, "event %s: DTSTART", out.UID)
	}
	out.Start = start

	// VALUE=DATE or no 'T' in the value means an all-day event.
	if vs, ok := dtStart.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		out.AllDay = true
	}
	if !strings.Contains(dtStart.Value, "T") {
		out.AllDay = true
	}

	if ve.GetProperty(ical.ComponentPropertyDtEnd) != nil {
		end, err := ve.GetEndAt()
		if err != nil {
			return out, errors.Wrapf(err, "event %s: DTEND", out.UID)
		}
		out.End = end
	}
	if p := ve.GetProperty(ical.ComponentPropertyDuration); p != nil {
		out.RawDuration = strings.TrimSpace(p.Value)
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	return out, nil
}

// parseICSTime parses a basic ICS date or date-time value.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.Local)
	}
	return time.ParseInLocation("20060102", v, time.Local)
}

// Length returns the event's duration: DURATION when present, otherwise
// DTEND minus DTSTART. All-day events without either last one day.
func (ev ParsedEvent) Length() (duration.Duration, error) {
	switch {
	case ev.RawDuration != "":
		return duration.ParseLiteral(ev.RawDuration)
	case !ev.End.IsZero():
		return duration.FromMillis(ev.End.Sub(ev.Start).Milliseconds()), nil
	case ev.AllDay:
		return duration.MustParse("P1D"), nil
	}
	return duration.FromMillis(0), nil
}

// EndAt returns the end of the occurrence that starts at start.
func (ev ParsedEvent) EndAt(start time.Time) (time.Time, error) {
	length, err := ev.Length()
	if err != nil {
		return time.Time{}, err
	}
	return length.AddTo(start), nil
}

// Interval returns the span of the event. DTSTART with DURATION gives a
// start/duration interval, DTSTART with DTEND a start/end one. An RRULE
// makes the interval repeat COUNT-1 times, or without bound when COUNT is
// not given.
func (ev ParsedEvent) Interval() (*interval.Interval, error) {
	var end interval.Endpoint
	switch {
	case ev.RawDuration != "":
		d, err := duration.ParseLiteral(ev.RawDuration)
		if err != nil {
			return nil, err
		}
		end = interval.Span(d)
	case !ev.End.IsZero():
		end = interval.At(ev.End)
	default:
		d, err := ev.Length()
		if err != nil {
			return nil, err
		}
		end = interval.Span(d)
	}

	iv, err := interval.New(interval.At(ev.Start), end)
	if err != nil {
		return nil, err
	}
	if ev.RawRRule == "" {
		return iv, nil
	}

	opt, err := rrule.StrToROption(ev.RawRRule)
	if err != nil {
		return nil, isoerr.Wrap(isoerr.GrammarMismatch, err, "invalid RRULE", ev.RawRRule)
	}
	if err := iv.SetRepetitionCount(repetitions(opt)); err != nil {
		return nil, err
	}
	return iv, nil
}

// Recurrence returns the RRULE of the event as a repeating interval whose
// duration is the recurrence period, e.g. FREQ=WEEKLY;INTERVAL=2;COUNT=5
// from 2007-03-01 becomes R4/2007-03-01T00:00:00.000Z/P14D. Rules with
// BY* parts or UNTIL have no such form.
func (ev ParsedEvent) Recurrence() (*interval.Interval, error) {
	if ev.RawRRule == "" {
		return nil, isoerr.New(isoerr.TypeConstraintViolation, "event does not recur", ev.UID)
	}
	opt, err := rrule.StrToROption(ev.RawRRule)
	if err != nil {
		return nil, isoerr.Wrap(isoerr.GrammarMismatch, err, "invalid RRULE", ev.RawRRule)
	}
	if !opt.Until.IsZero() || hasByParts(opt) {
		return nil, isoerr.New(isoerr.UnsupportedCombination, "RRULE has no repeating interval form", ev.RawRRule)
	}

	n := opt.Interval
	if n <= 0 {
		n = 1
	}
	var text string
	switch opt.Freq {
	case rrule.YEARLY:
		text = fmt.Sprintf("P%dY", n)
	case rrule.MONTHLY:
		text = fmt.Sprintf("P%dM", n)
	case rrule.WEEKLY:
		text = fmt.Sprintf("P%dW", n)
	case rrule.DAILY:
		text = fmt.Sprintf("P%dD", n)
	case rrule.HOURLY:
		text = fmt.Sprintf("PT%dH", n)
	case rrule.MINUTELY:
		text = fmt.Sprintf("PT%dM", n)
	default:
		text = fmt.Sprintf("PT%dS", n)
	}

	iv, err := interval.New(interval.At(ev.Start), interval.Span(duration.MustParse(text)))
	if err != nil {
		return nil, err
	}
	if err := iv.SetRepetitionCount(repetitions(opt)); err != nil {
		return nil, err
	}
	return iv, nil
}

func repetitions(opt *rrule.ROption) int {
	if opt.Count > 0 {
		return opt.Count - 1
	}
	return interval.Unbounded
}

func hasByParts(opt *rrule.ROption) bool {
	return len(opt.Bysetpos) > 0 || len(opt.Bymonth) > 0 || len(opt.Bymonthday) > 0 ||
		len(opt.Byyearday) > 0 || len(opt.Byweekno) > 0 || len(opt.Byweekday) > 0 ||
		len(opt.Byhour) > 0 || len(opt.Byminute) > 0 || len(opt.Bysecond) > 0 ||
		len(opt.Byeaster) > 0
}
