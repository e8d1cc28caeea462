package pipeline

import (
	"boxoffice/internal/model"
)

// DropReason names why a raw record was excluded from the working dataset.
type DropReason string

const (
	DropBadYear         DropReason = "bad_year"
	DropBadDate         DropReason = "bad_date"
	DropNoBoxOffice     DropReason = "no_box_office"
	DropNonPositive     DropReason = "non_positive"
	DropBeforeStartYear DropReason = "before_start_year"
)

// DropReasons lists every reason in evaluation order.
var DropReasons = []DropReason{DropBadYear, DropBadDate, DropNoBoxOffice, DropNonPositive, DropBeforeStartYear}

// Report counts the outcome of a Normalize pass.
type Report struct {
	Read    int                `json:"read"`
	Kept    int                `json:"kept"`
	Dropped map[DropReason]int `json:"dropped"`
	// Drops holds the index and reason of every excluded record, in input order.
	Drops []Drop `json:"-"`
}

// Drop identifies one excluded input record.
type Drop struct {
	Index  int
	Title  string
	Reason DropReason
}

// DroppedTotal sums all drop reasons.
func (r Report) DroppedTotal() int {
	n := 0
	for _, c := range r.Dropped {
		n += c
	}
	return n
}

// Normalize turns raw records into the working dataset. Records with an
// unparseable year or release date, no box office, a non-positive
// adjusted box office, or a year before cfg.StartYear are excluded.
// Input order is preserved.
func Normalize(raws []model.RawRecord, cfg Config) []model.MovieRecord {
	out, _ := NormalizeWithReport(raws, cfg)
	return out
}

// NormalizeWithReport is Normalize plus per-reason drop accounting.
func NormalizeWithReport(raws []model.RawRecord, cfg Config) ([]model.MovieRecord, Report) {
	adj := cfg.adjuster()
	rep := Report{Read: len(raws), Dropped: make(map[DropReason]int)}
	out := make([]model.MovieRecord, 0, len(raws))
	for i, raw := range raws {
		rec, reason, ok := normalizeOne(raw, cfg.StartYear, adj.Adjust)
		if !ok {
			rep.Dropped[reason]++
			rep.Drops = append(rep.Drops, Drop{Index: i, Title: raw.Title, Reason: reason})
			continue
		}
		out = append(out, rec)
	}
	rep.Kept = len(out)
	return out, rep
}

func normalizeOne(raw model.RawRecord, startYear int, adjust func(int, int64) float64) (model.MovieRecord, DropReason, bool) {
	year, ok := ParseYear(raw.Year)
	if !ok {
		return model.MovieRecord{}, DropBadYear, false
	}
	date, ok := ParseReleased(raw.Released)
	if !ok {
		return model.MovieRecord{}, DropBadDate, false
	}
	amount, ok := ParseBoxOffice(raw.BoxOffice)
	if !ok {
		return model.MovieRecord{}, DropNoBoxOffice, false
	}
	adjusted := adjust(year, amount)
	if !(adjusted > 0) {
		return model.MovieRecord{}, DropNonPositive, false
	}
	if year < startYear {
		return model.MovieRecord{}, DropBeforeStartYear, false
	}
	return model.MovieRecord{
		Title:     raw.Title,
		Date:      date,
		Year:      year,
		Genre:     PrimaryGenre(raw.Genre),
		BoxOffice: adjusted,
	}, "", true
}
