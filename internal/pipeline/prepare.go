package pipeline

import (
	"fmt"

	"boxoffice/internal/model"
)

// Result is everything the chart consumes, derived in one pass.
type Result struct {
	Records []model.MovieRecord `json:"records"`
	Stats   Stats               `json:"stats"`
	Curves  []Curve             `json:"curves"`
	Extent  Extent              `json:"extent"`
	Bands   []Band              `json:"bands"`
	Report  Report              `json:"report"`
}

// Prepare normalizes raws and derives statistics and chart series. It
// fails when nothing survives normalization.
func Prepare(raws []model.RawRecord, cfg Config) (Result, error) {
	records, rep := NormalizeWithReport(raws, cfg)
	stats, err := Summarize(records)
	if err != nil {
		return Result{Report: rep}, fmt.Errorf("summarize %d records: %w", len(records), err)
	}
	return Result{
		Records: records,
		Stats:   stats,
		Curves:  Curves(records, stats.MeanBoxOffice),
		Extent:  DeviationExtent(records, stats.MeanBoxOffice),
		Bands:   SeasonalBands(cfg.StartYear, cfg.NumYears),
		Report:  rep,
	}, nil
}
