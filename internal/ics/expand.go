package ics

import (
	"cmp"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/teambition/rrule-go"

	appLog "timeduration/internal/log"
	"timeduration/internal/model"
)

const (
	defaultMaxOccurrencesPerEvent = 5000
)

// ExpandConfig controls how recurrence expansion is performed.
type ExpandConfig struct {
	// DisplayLocation is the timezone to which all occurrences will be converted.
	// If nil, time.UTC is used.
	DisplayLocation *time.Location

	// RangeStart / RangeEnd define the inclusive time window for occurrences.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent is a safety cap to avoid infinite or extremely
	// large expansions. If zero, defaultMaxOccurrencesPerEvent is used.
	MaxOccurrencesPerEvent int
}

// ExpandResult wraps the list of expanded occurrences and optionally
// information about truncation.
type ExpandResult struct {
	Occurrences []model.Occurrence
	// TruncatedEvents records UIDs that hit the MaxOccurrencesPerEvent cap.
	TruncatedEvents []string
}

// ExpandOccurrences expands events into the concrete occurrences that
// start within [RangeStart, RangeEnd], or for single events overlap it.
// RRULEs are expanded with EXDATEs removed; each occurrence keeps the
// event's length, calendar units included, so a P1M event starting on
// January 31 ends in early March. Results are sorted by start then UID.
func ExpandOccurrences(events []ParsedEvent, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return result, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.UTC
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	all := make([]model.Occurrence, 0)
	for _, ev := range events {
		occ, hitCap, err := expandEvent(ev, cfg)
		if err != nil {
			appLog.Warn("expand: event skipped", "uid", ev.UID, "err", err)
			continue
		}
		if hitCap {
			result.TruncatedEvents = append(result.TruncatedEvents, ev.UID)
			appLog.Warn("expand: truncated occurrences for UID due to cap",
				"uid", ev.UID,
				"cap", cfg.MaxOccurrencesPerEvent,
			)
		}
		all = append(all, occ...)
	}

	slices.SortFunc(all, func(a, b model.Occurrence) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.UID, b.UID)
	})
	result.Occurrences = all
	return result, nil
}

func expandEvent(ev ParsedEvent, cfg ExpandConfig) ([]model.Occurrence, bool, error) {
	if ev.RawRRule == "" {
		occ, err := expandSingleEvent(ev, cfg)
		return occ, false, err
	}
	return expandRecurringEvent(ev, cfg)
}

func expandSingleEvent(ev ParsedEvent, cfg ExpandConfig) ([]model.Occurrence, error) {
	end, err := ev.EndAt(ev.Start)
	if err != nil {
		return nil, err
	}
	if !timeRangesOverlap(ev.Start, end, cfg.RangeStart, cfg.RangeEnd) {
		return nil, nil
	}
	return []model.Occurrence{makeOccurrence(ev, 0, ev.Start, end, cfg.DisplayLocation)}, nil
}

func expandRecurringEvent(ev ParsedEvent, cfg ExpandConfig) ([]model.Occurrence, bool, error) {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		return nil, false, errors.Wrapf(err, "parse RRULE %q", ev.RawRRule)
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	out := make([]model.Occurrence, 0)
	next := set.Iterator()
	for index := 0; ; index++ {
		start, ok := next()
		if !ok || start.After(cfg.RangeEnd) {
			return out, false, nil
		}
		if start.Before(cfg.RangeStart) {
			continue
		}
		if len(out) == cfg.MaxOccurrencesPerEvent {
			return out, true, nil
		}
		end, err := ev.EndAt(start)
		if err != nil {
			return nil, false, err
		}
		out = append(out, makeOccurrence(ev, index, start, end, cfg.DisplayLocation))
	}
}

// makeOccurrence converts an event and a specific start/end time into a
// model.Occurrence normalized into displayLoc.
func makeOccurrence(ev ParsedEvent, index int, start, end time.Time, displayLoc *time.Location) model.Occurrence {
	startLocal := start.In(displayLoc)
	return model.Occurrence{
		UID:         ev.UID,
		Summary:     ev.Summary,
		Index:       index,
		InstanceKey: ev.UID + "@" + startLocal.Format(time.RFC3339Nano),
		Start:       startLocal,
		End:         end.In(displayLoc),
	}
}

func timeRangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
