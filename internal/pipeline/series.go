package pipeline

import (
	"time"

	"boxoffice/internal/model"
)

// curveHalfWidthMonths is how far each movie's area extends either side
// of its release date.
const curveHalfWidthMonths = 2

// Point is one vertex of a movie's area outline.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Curve is the area drawn for one movie: it rises from zero to the
// movie's deviation from the mean at release and falls back to zero.
type Curve struct {
	Title  string  `json:"title"`
	Genre  string  `json:"genre"`
	Points []Point `json:"points"`
}

// Curves builds one Curve per record, in record order.
func Curves(records []model.MovieRecord, mean float64) []Curve {
	out := make([]Curve, 0, len(records))
	for _, r := range records {
		out = append(out, Curve{
			Title: r.Title,
			Genre: r.Genre,
			Points: []Point{
				{Date: r.Date.AddDate(0, -curveHalfWidthMonths, 0), Value: 0},
				{Date: r.Date, Value: r.BoxOffice - mean},
				{Date: r.Date.AddDate(0, curveHalfWidthMonths, 0), Value: 0},
			},
		})
	}
	return out
}

// Extent is a closed numeric interval.
type Extent struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DeviationExtent returns the range of BoxOffice - mean over records.
func DeviationExtent(records []model.MovieRecord, mean float64) Extent {
	if len(records) == 0 {
		return Extent{}
	}
	e := Extent{Min: records[0].BoxOffice - mean, Max: records[0].BoxOffice - mean}
	for _, r := range records[1:] {
		d := r.BoxOffice - mean
		if d < e.Min {
			e.Min = d
		}
		if d > e.Max {
			e.Max = d
		}
	}
	return e
}

// Season identifies a recurring release window.
type Season string

const (
	Summer Season = "summer"
	Winter Season = "winter"
)

// Band is one highlighted interval [Start, End).
type Band struct {
	Season Season    `json:"season"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// SeasonalBands returns, for each of numYears years from startYear, the
// summer window (May 1 to Sep 1) followed by the winter holiday window
// (Nov 1 to Jan 1 of the next year).
func SeasonalBands(startYear, numYears int) []Band {
	if numYears <= 0 {
		return nil
	}
	out := make([]Band, 0, 2*numYears)
	for y := startYear; y < startYear+numYears; y++ {
		out = append(out,
			Band{Season: Summer, Start: date(y, time.May, 1), End: date(y, time.September, 1)},
			Band{Season: Winter, Start: date(y, time.November, 1), End: date(y+1, time.January, 1)},
		)
	}
	return out
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
