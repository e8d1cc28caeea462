package pipeline

import (
	"sort"
	"time"

	"boxoffice/internal/errors"
	"boxoffice/internal/model"
)

// TopGenreCount is the number of genres Summarize ranks.
const TopGenreCount = 3

// DateRange is a half-open span of whole calendar years.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Stats holds the values derived from the working dataset.
type Stats struct {
	MeanBoxOffice float64   `json:"meanBoxOffice"`
	TopGenres     []string  `json:"topGenres"`
	DateRange     DateRange `json:"dateRange"`
}

// Summarize computes Stats over a non-empty working dataset.
func Summarize(records []model.MovieRecord) (Stats, error) {
	mean, err := MeanBoxOffice(records)
	if err != nil {
		return Stats{}, err
	}
	dr, err := YearRange(records)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		MeanBoxOffice: mean,
		TopGenres:     TopGenres(records, TopGenreCount),
		DateRange:     dr,
	}, nil
}

// MeanBoxOffice returns the arithmetic mean of BoxOffice.
func MeanBoxOffice(records []model.MovieRecord) (float64, error) {
	if len(records) == 0 {
		return 0, errors.EmptyDataset("mean box office of zero records")
	}
	sum := 0.0
	for _, r := range records {
		sum += r.BoxOffice
	}
	return sum / float64(len(records)), nil
}

// TopGenres returns up to n genres ordered by descending record count.
// Equal counts keep the order in which the genres first appear.
func TopGenres(records []model.MovieRecord, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if _, seen := counts[r.Genre]; !seen {
			order = append(order, r.Genre)
		}
		counts[r.Genre]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if n >= 0 && len(order) > n {
		order = order[:n]
	}
	return order
}

// YearRange returns [min date, max date] widened outward to January 1st
// boundaries. A maximum already on a boundary is kept as is.
func YearRange(records []model.MovieRecord) (DateRange, error) {
	if len(records) == 0 {
		return DateRange{}, errors.EmptyDataset("date range of zero records")
	}
	lo, hi := records[0].Date, records[0].Date
	for _, r := range records[1:] {
		if r.Date.Before(lo) {
			lo = r.Date
		}
		if r.Date.After(hi) {
			hi = r.Date
		}
	}
	return DateRange{Start: yearFloor(lo), End: yearCeil(hi)}, nil
}

func yearFloor(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

func yearCeil(t time.Time) time.Time {
	f := yearFloor(t)
	if f.Equal(t) {
		return f
	}
	return f.AddDate(1, 0, 0)
}
