package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/internal/errors"
	"boxoffice/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func withGenres(genres ...string) []model.MovieRecord {
	out := make([]model.MovieRecord, 0, len(genres))
	for i, g := range genres {
		out = append(out, model.MovieRecord{Title: g, Genre: g, BoxOffice: float64(i + 1), Date: day(2010, time.January, 10)})
	}
	return out
}

func TestTopGenres_CountDescending(t *testing.T) {
	records := withGenres("A", "A", "B", "B", "B", "C", "D")
	assert.Equal(t, []string{"B", "A", "C"}, TopGenres(records, 3))
}

func TestTopGenres_TiesKeepFirstEncounteredOrder(t *testing.T) {
	records := withGenres("D", "C", "B", "A", "B", "C", "D")
	// D, C, B each appear twice; D is seen first.
	assert.Equal(t, []string{"D", "C", "B"}, TopGenres(records, 3))

	records = withGenres("X", "Y", "Z", "W")
	assert.Equal(t, []string{"X", "Y", "Z"}, TopGenres(records, 3))
}

func TestTopGenres_FewerThanN(t *testing.T) {
	assert.Equal(t, []string{"A"}, TopGenres(withGenres("A", "A"), 3))
	assert.Empty(t, TopGenres(nil, 3))
}

func TestMeanBoxOffice(t *testing.T) {
	records := []model.MovieRecord{{BoxOffice: 100}, {BoxOffice: 200}, {BoxOffice: 300}}
	mean, err := MeanBoxOffice(records)
	require.NoError(t, err)
	assert.Equal(t, 200.0, mean)
}

func TestMeanBoxOffice_Empty(t *testing.T) {
	mean, err := MeanBoxOffice(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyDataset))
	assert.False(t, math.IsNaN(mean))
}

func TestYearRange_RoundsOutward(t *testing.T) {
	records := []model.MovieRecord{
		{Date: day(2011, time.November, 20)},
		{Date: day(2009, time.March, 1)},
	}
	dr, err := YearRange(records)
	require.NoError(t, err)
	assert.True(t, day(2009, time.January, 1).Equal(dr.Start), "start=%v", dr.Start)
	assert.True(t, day(2012, time.January, 1).Equal(dr.End), "end=%v", dr.End)
}

func TestYearRange_BoundaryMaxIsKept(t *testing.T) {
	records := []model.MovieRecord{
		{Date: day(2010, time.January, 1)},
		{Date: day(2012, time.January, 1)},
	}
	dr, err := YearRange(records)
	require.NoError(t, err)
	assert.True(t, day(2010, time.January, 1).Equal(dr.Start))
	assert.True(t, day(2012, time.January, 1).Equal(dr.End))
}

func TestYearRange_Empty(t *testing.T) {
	_, err := YearRange(nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyDataset))
}

func TestSummarize(t *testing.T) {
	records := []model.MovieRecord{
		{Title: "a", Genre: "Action", BoxOffice: 100, Date: day(2009, time.March, 1)},
		{Title: "b", Genre: "Drama", BoxOffice: 200, Date: day(2010, time.June, 1)},
		{Title: "c", Genre: "Action", BoxOffice: 300, Date: day(2011, time.November, 20)},
	}
	st, err := Summarize(records)
	require.NoError(t, err)
	assert.Equal(t, 200.0, st.MeanBoxOffice)
	assert.Equal(t, []string{"Action", "Drama"}, st.TopGenres)
	assert.True(t, day(2009, time.January, 1).Equal(st.DateRange.Start))
	assert.True(t, day(2012, time.January, 1).Equal(st.DateRange.End))
}

func TestSummarize_EmptyFails(t *testing.T) {
	_, err := Summarize([]model.MovieRecord{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyDataset))
}
