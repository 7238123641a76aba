// Package schedule drives jobs and calendar rules from repeating
// intervals.
package schedule

import (
	"time"

	"github.com/robfig/cron/v3"

	"timeduration/internal/interval"
)

// DefaultMaxSteps bounds how many occurrences Next scans before giving up.
const DefaultMaxSteps = 100000

// Schedule adapts a repeating interval to cron.Schedule. Occurrences are
// the ones Interval.Iterator produces, so an interval with a duration
// start runs backwards from its end and Next picks the earliest occurrence
// that is still in the future.
//
// Next never mutates the interval and may be called concurrently, as long
// as nobody mutates the interval meanwhile.
type Schedule struct {
	iv *interval.Interval

	// MaxSteps overrides DefaultMaxSteps when positive. It bounds the scan
	// per Next call, not the number of occurrences.
	MaxSteps int
}

var _ cron.Schedule = (*Schedule)(nil)

// New returns a Schedule over iv.
func New(iv *interval.Interval) *Schedule {
	return &Schedule{iv: iv}
}

// Interval returns the interval the schedule walks.
func (s *Schedule) Interval() *interval.Interval { return s.iv }

// Next returns the first occurrence strictly after t, or the zero time when
// there is none within the scan limit. A backward scan that runs out of
// steps returns the earliest future occurrence it reached, so jobs still
// fire and Next is asked again from there. The result is in t's location.
func (s *Schedule) Next(t time.Time) time.Time {
	limit := s.MaxSteps
	if limit <= 0 {
		limit = DefaultMaxSteps
	}
	backward := s.iv.Start().IsDuration()

	var best time.Time
	it := s.iv.Iterator()
	defer it.Close()
	for it.Next() {
		if it.Index() >= limit {
			break
		}
		v := it.Value()
		if backward {
			if !v.After(t) {
				break
			}
			best = v
			continue
		}
		if v.After(t) {
			best = v
			break
		}
	}
	if best.IsZero() || it.Err() != nil {
		return time.Time{}
	}
	return best.In(t.Location())
}

// Register schedules job on c at every occurrence of iv. Intervals the
// iterator cannot walk are rejected up front.
func Register(c *cron.Cron, iv *interval.Interval, job func()) (cron.EntryID, error) {
	probe := iv.Iterator()
	probe.Next()
	if err := probe.Err(); err != nil {
		return 0, err
	}
	return c.Schedule(New(iv), cron.FuncJob(job)), nil
}
