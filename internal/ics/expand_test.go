package ics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(m time.Month, d, h, min int) time.Time {
	return time.Date(2007, m, d, h, min, 0, 0, time.UTC)
}

func TestExpandOccurrences(t *testing.T) {
	events, err := ParseICS(testSource, calendar(standup, review))
	require.NoError(t, err)

	res, err := ExpandOccurrences(events, ExpandConfig{
		RangeStart: at(time.March, 1, 0, 0),
		RangeEnd:   at(time.March, 10, 0, 0),
	})
	require.NoError(t, err)
	assert.Empty(t, res.TruncatedEvents)

	type got struct {
		uid        string
		index      int
		start, end time.Time
	}
	var occ []got
	for _, o := range res.Occurrences {
		occ = append(occ, got{o.UID, o.Index, o.Start, o.End})
	}

	// March 3 is excluded by EXDATE.
	assert.Equal(t, []got{
		{"standup", 0, at(time.March, 1, 9, 0), at(time.March, 1, 9, 15)},
		{"standup", 1, at(time.March, 2, 9, 0), at(time.March, 2, 9, 15)},
		{"review", 0, at(time.March, 2, 13, 0), at(time.March, 2, 15, 0)},
		{"standup", 2, at(time.March, 4, 9, 0), at(time.March, 4, 9, 15)},
		{"standup", 3, at(time.March, 5, 9, 0), at(time.March, 5, 9, 15)},
	}, occ)

	assert.Equal(t, "standup@2007-03-01T09:00:00Z", res.Occurrences[0].InstanceKey)
}

func TestExpandOccurrences_Cap(t *testing.T) {
	events, err := ParseICS(testSource, calendar(rent))
	require.NoError(t, err)

	res, err := ExpandOccurrences(events, ExpandConfig{
		RangeStart: at(time.March, 1, 0, 0),
		RangeEnd:   at(time.May, 31, 0, 0),
	})
	require.NoError(t, err)
	require.Len(t, res.Occurrences, 3)
	assert.Equal(t, 2, res.Occurrences[0].Index)
	assert.Equal(t, at(time.April, 1, 0, 0), res.Occurrences[1].Start)
	assert.Equal(t, at(time.April, 2, 0, 0), res.Occurrences[1].End)

	capped, err := ExpandOccurrences(events, ExpandConfig{
		RangeStart:             at(time.March, 1, 0, 0),
		RangeEnd:               at(time.May, 31, 0, 0),
		MaxOccurrencesPerEvent: 2,
	})
	require.NoError(t, err)
	assert.Len(t, capped.Occurrences, 2)
	assert.Equal(t, []string{"rent"}, capped.TruncatedEvents)
}

func TestExpandOccurrences_CalendarLength(t *testing.T) {
	ev := ParsedEvent{
		UID:         "lease",
		Start:       at(time.January, 31, 0, 0),
		RawDuration: "P1M",
	}
	res, err := ExpandOccurrences([]ParsedEvent{ev}, ExpandConfig{
		RangeStart: at(time.January, 1, 0, 0),
		RangeEnd:   at(time.December, 31, 0, 0),
	})
	require.NoError(t, err)
	require.Len(t, res.Occurrences, 1)
	assert.Equal(t, at(time.March, 3, 0, 0), res.Occurrences[0].End)
}

func TestExpandOccurrences_DisplayLocation(t *testing.T) {
	events, err := ParseICS(testSource, calendar(review))
	require.NoError(t, err)

	kst := time.FixedZone("KST", 9*60*60)
	res, err := ExpandOccurrences(events, ExpandConfig{
		DisplayLocation: kst,
		RangeStart:      at(time.March, 1, 0, 0),
		RangeEnd:        at(time.March, 3, 0, 0),
	})
	require.NoError(t, err)
	require.Len(t, res.Occurrences, 1)
	assert.Equal(t, kst, res.Occurrences[0].Start.Location())
	assert.Equal(t, 22, res.Occurrences[0].Start.Hour())
}

func TestExpandOccurrences_OutsideRange(t *testing.T) {
	events, err := ParseICS(testSource, calendar(review))
	require.NoError(t, err)

	res, err := ExpandOccurrences(events, ExpandConfig{
		RangeStart: at(time.April, 1, 0, 0),
		RangeEnd:   at(time.April, 30, 0, 0),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Occurrences)

	_, err = ExpandOccurrences(events, ExpandConfig{
		RangeStart: at(time.April, 30, 0, 0),
		RangeEnd:   at(time.April, 1, 0, 0),
	})
	assert.Error(t, err)
}
