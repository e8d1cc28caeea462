package pipeline

import (
	"time"

	"boxoffice/internal/inflation"
)

const (
	DefaultStartYear = 2008
	DefaultNumYears  = 10
)

// Config parameterizes a pipeline run.
type Config struct {
	// StartYear is the earliest release year kept in the working dataset.
	StartYear int
	// ReferenceYear is the year every box-office figure is expressed in.
	ReferenceYear int
	// NumYears is the number of seasonal bands generated from StartYear.
	NumYears int
	// Adjuster overrides the CPI adjuster built from ReferenceYear.
	Adjuster inflation.Adjuster
}

// DefaultConfig returns the defaults with ReferenceYear taken from now.
func DefaultConfig(now time.Time) Config {
	return Config{
		StartYear:     DefaultStartYear,
		ReferenceYear: now.Year(),
		NumYears:      DefaultNumYears,
	}
}

func (c Config) adjuster() inflation.Adjuster {
	if c.Adjuster != nil {
		return c.Adjuster
	}
	return inflation.NewCPI(c.ReferenceYear)
}
