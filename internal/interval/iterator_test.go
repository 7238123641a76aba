package interval

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeduration/internal/isoerr"
	"timeduration/internal/model"
)

func TestIterator_UnboundedForward(t *testing.T) {
	iv := MustParse("R/1977-10-01T15:30:42Z/P1Y")
	start := time.Date(1977, time.October, 1, 15, 30, 42, 0, time.UTC)

	it := iv.Iterator()
	defer it.Close()

	var prev time.Time
	for k := 0; k <= 40; k++ {
		require.True(t, it.Next(), "step %d", k)
		assert.Equal(t, k, it.Index())
		assert.Equal(t, start.AddDate(k, 0, 0), it.Value())
		if k > 0 {
			assert.True(t, it.Value().After(prev))
		}
		prev = it.Value()
	}
	require.NoError(t, it.Err())
}

func TestIterator_Bounded(t *testing.T) {
	iv := MustParse("R2/2007-03-01T13:00:00Z/P1DT2H")

	var got []model.Entry
	it := iv.Iterator()
	for it.Next() {
		got = append(got, it.Entry())
	}
	require.NoError(t, it.Err())

	assert.Equal(t, []model.Entry{
		{Index: 0, At: time.Date(2007, time.March, 1, 13, 0, 0, 0, time.UTC)},
		{Index: 1, At: time.Date(2007, time.March, 2, 15, 0, 0, 0, time.UTC)},
		{Index: 2, At: time.Date(2007, time.March, 3, 17, 0, 0, 0, time.UTC)},
	}, got)

	// Finished iterators stay finished.
	assert.False(t, it.Next())
}

func TestIterator_Once(t *testing.T) {
	iv := MustParse("2007-03-01T13:00:00Z/P1D")
	var values []time.Time
	for v := range iv.Values() {
		values = append(values, v)
	}
	assert.Equal(t, []time.Time{time.Date(2007, time.March, 1, 13, 0, 0, 0, time.UTC)}, values)
}

func TestIterator_Backward(t *testing.T) {
	iv := MustParse("R/P1Y/2016-08-22T10:27:13Z")

	var got []time.Time
	for k, v := range iv.Entries() {
		if k == 3 {
			break
		}
		got = append(got, v)
	}

	assert.Equal(t, []time.Time{
		time.Date(2016, time.August, 22, 10, 27, 13, 0, time.UTC),
		time.Date(2015, time.August, 22, 10, 27, 13, 0, time.UTC),
		time.Date(2014, time.August, 22, 10, 27, 13, 0, time.UTC),
	}, got)
}

func TestIterator_PerFieldScaling(t *testing.T) {
	iv := MustParse("R/2096-02-29T00:00:00Z/P1Y")

	it := iv.Iterator()
	require.True(t, it.Next())
	assert.Equal(t, time.Date(2096, time.February, 29, 0, 0, 0, 0, time.UTC), it.Value())
	require.True(t, it.Next())
	assert.Equal(t, time.Date(2097, time.March, 1, 0, 0, 0, 0, time.UTC), it.Value())

	// Monthly steps scale the month field and let the day overflow.
	monthly := MustParse("R2/2007-01-31T00:00:00Z/P1M")
	var got []time.Time
	for v := range monthly.Values() {
		got = append(got, v)
	}
	assert.Equal(t, []time.Time{
		time.Date(2007, time.January, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2007, time.March, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2007, time.March, 31, 0, 0, 0, 0, time.UTC),
	}, got)
}

func TestIterator_Keys(t *testing.T) {
	var keys []int
	for k := range MustParse("R3/2007-03-01T13:00:00Z/PT1H").Keys() {
		keys = append(keys, k)
	}
	assert.Equal(t, []int{0, 1, 2, 3}, keys)
}

func TestIterator_RereadsInterval(t *testing.T) {
	iv := MustParse("R/2007-03-01T00:00:00Z/P1D")
	it := iv.Iterator()
	require.True(t, it.Next())
	require.True(t, it.Next())

	require.NoError(t, iv.SetRepetitionCount(1))
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
}

func TestIterator_Unsupported(t *testing.T) {
	for _, in := range []string{
		"R2/2007-03-01T13:00:00Z/2008-05-11T15:30:00Z",
		"R/P1D",
	} {
		t.Run(in, func(t *testing.T) {
			it := MustParse(in).Iterator()
			assert.False(t, it.Next())
			assert.True(t, errors.Is(it.Err(), isoerr.UnsupportedCombination))
			assert.False(t, it.Next())

			var n int
			for range MustParse(in).Values() {
				n++
			}
			assert.Zero(t, n)
		})
	}
}

func TestIterator_Close(t *testing.T) {
	it := MustParse("R/2007-03-01T00:00:00Z/P1D").Iterator()
	require.True(t, it.Next())
	require.NoError(t, it.Close())
	assert.False(t, it.Next())
}
