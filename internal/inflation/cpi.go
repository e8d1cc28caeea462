// Package inflation scales dollar amounts between years using the US
// consumer price index.
package inflation

import (
	"github.com/shopspring/decimal"
)

// Adjuster maps an amount earned in year to its value in a reference year.
// Implementations must be deterministic for fixed inputs.
type Adjuster interface {
	Adjust(year int, amount int64) float64
}

// AdjusterFunc adapts a plain function to Adjuster.
type AdjusterFunc func(year int, amount int64) float64

func (f AdjusterFunc) Adjust(year int, amount int64) float64 { return f(year, amount) }

const (
	firstIndexYear = 1960
)

// cpiU holds CPI-U annual averages (1982-84=100), one entry per year
// starting at firstIndexYear.
var cpiU = []string{
	"29.6", "29.9", "30.2", "30.6", "31.0", "31.5", "32.4", "33.4", "34.8", "36.7", // 1960
	"38.8", "40.5", "41.8", "44.4", "49.3", "53.8", "56.9", "60.6", "65.2", "72.6", // 1970
	"82.4", "90.9", "96.5", "99.6", "103.9", "107.6", "109.6", "113.6", "118.3", "124.0", // 1980
	"130.7", "136.2", "140.3", "144.5", "148.2", "152.4", "156.9", "160.5", "163.0", "166.6", // 1990
	"172.2", "177.1", "179.9", "184.0", "188.9", "195.3", "201.6", "207.342", "215.303", "214.537", // 2000
	"218.056", "224.939", "229.594", "232.957", "236.736", "237.017", "240.007", "245.120", "251.107", "255.657", // 2010
	"258.811", "270.970", "292.655", "304.702", "313.689", // 2020
}

var cpiIndex = func() []decimal.Decimal {
	out := make([]decimal.Decimal, len(cpiU))
	for i, s := range cpiU {
		out[i] = decimal.RequireFromString(s)
	}
	return out
}()

// FirstYear and LastYear bound the published index. Years outside the
// range are clamped to the nearest bound.
func FirstYear() int { return firstIndexYear }
func LastYear() int  { return firstIndexYear + len(cpiIndex) - 1 }

// CPI adjusts amounts to reference-year dollars.
type CPI struct {
	referenceYear int
}

// NewCPI returns an adjuster targeting referenceYear.
func NewCPI(referenceYear int) *CPI {
	return &CPI{referenceYear: referenceYear}
}

// Adjust returns amount * CPI(reference) / CPI(year), rounded to cents.
func (c *CPI) Adjust(year int, amount int64) float64 {
	from := indexFor(year)
	to := indexFor(c.referenceYear)
	v, _ := decimal.NewFromInt(amount).Mul(to).Div(from).Round(2).Float64()
	return v
}

func indexFor(year int) decimal.Decimal {
	i := year - firstIndexYear
	if i < 0 {
		i = 0
	}
	if i >= len(cpiIndex) {
		i = len(cpiIndex) - 1
	}
	return cpiIndex[i]
}
