// Package chart renders the prepared dataset as an annotated area chart:
// one area per movie rising from the mean, seasonal highlight bands, a
// legend of the dominant genres and dollar-labelled axes.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"boxoffice/internal/pipeline"
)

// genrePalette colors the top genres in rank order.
var genrePalette = []color.RGBA{
	mustHex("#e683b4"),
	mustHex("#53c3ac"),
	mustHex("#8475e8"),
}

var (
	otherGenre  = mustHex("#c8c8c8")
	seasonColor = map[pipeline.Season]color.RGBA{
		pipeline.Summer: mustHex("#eb6a5b"),
		pipeline.Winter: mustHex("#51aae8"),
	}
	bandAlpha  uint8 = 0x40
	curveAlpha uint8 = 0xb0
)

var printer = message.NewPrinter(language.English)

// Options controls the rendered image.
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions matches the 1200x300 canvas of the page layout.
func DefaultOptions() Options {
	return Options{
		Title:  "Box office vs. mean, inflation adjusted",
		Width:  12.5 * vg.Inch,
		Height: 3.125 * vg.Inch,
	}
}

// Build assembles the plot for res.
func Build(res pipeline.Result, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Release date"
	p.Y.Label.Text = printer.Sprintf("Difference from mean ($%.0fM)", res.Stats.MeanBoxOffice/1e6)
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006"}
	p.Y.Tick.Marker = dollarTicks{}
	p.Legend.Top = true
	p.Legend.Left = true

	xmin := float64(res.Stats.DateRange.Start.Unix())
	xmax := float64(res.Stats.DateRange.End.Unix())
	ymin, ymax := yBounds(res.Extent)

	seasonThumb := make(map[pipeline.Season]plot.Thumbnailer)
	for _, b := range res.Bands {
		x0, x1 := float64(b.Start.Unix()), float64(b.End.Unix())
		if x1 <= xmin || x0 >= xmax {
			continue
		}
		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: x0, Y: ymin}, {X: x1, Y: ymin}, {X: x1, Y: ymax}, {X: x0, Y: ymax},
		})
		if err != nil {
			return nil, fmt.Errorf("band polygon: %w", err)
		}
		poly.Color = withAlpha(seasonColor[b.Season], bandAlpha)
		poly.LineStyle.Width = 0
		p.Add(poly)
		if _, ok := seasonThumb[b.Season]; !ok {
			seasonThumb[b.Season] = poly
		}
	}

	rank := make(map[string]int, len(res.Stats.TopGenres))
	for i, g := range res.Stats.TopGenres {
		rank[g] = i
	}
	genreThumb := make(map[string]plot.Thumbnailer)
	for _, c := range res.Curves {
		xys := make(plotter.XYs, len(c.Points))
		for i, pt := range c.Points {
			xys[i] = plotter.XY{X: float64(pt.Date.Unix()), Y: pt.Value}
		}
		poly, err := plotter.NewPolygon(xys)
		if err != nil {
			return nil, fmt.Errorf("curve %q: %w", c.Title, err)
		}
		fill := otherGenre
		if i, ok := rank[c.Genre]; ok && i < len(genrePalette) {
			fill = genrePalette[i]
			if _, seen := genreThumb[c.Genre]; !seen {
				genreThumb[c.Genre] = poly
			}
		}
		poly.Color = withAlpha(fill, curveAlpha)
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	baseline, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: 0}, {X: xmax, Y: 0}})
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}
	baseline.LineStyle.Width = vg.Points(0.5)
	baseline.LineStyle.Color = color.Gray{Y: 0x60}
	p.Add(baseline)

	// Add widens the axes to every plotter's data range; pin them afterwards
	// so curves reaching past the year boundaries are clipped.
	p.X.Min, p.X.Max = xmin, xmax
	p.Y.Min, p.Y.Max = ymin, ymax

	for _, g := range res.Stats.TopGenres {
		if th, ok := genreThumb[g]; ok {
			p.Legend.Add(g, th)
		}
	}
	for _, s := range []pipeline.Season{pipeline.Summer, pipeline.Winter} {
		if th, ok := seasonThumb[s]; ok {
			p.Legend.Add(string(s), th)
		}
	}
	return p, nil
}

// Render writes the chart in format (png or svg) to w.
func Render(w io.Writer, res pipeline.Result, format string, opts Options) error {
	format = strings.ToLower(format)
	if format != "png" && format != "svg" {
		return fmt.Errorf("unsupported chart format %q", format)
	}
	p, err := Build(res, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return fmt.Errorf("chart writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// Save renders to path, picking the format from its extension.
func Save(path string, res pipeline.Result, opts Options) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext != "png" && ext != "svg" {
		return fmt.Errorf("unsupported chart format %q", ext)
	}
	p, err := Build(res, opts)
	if err != nil {
		return err
	}
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

// yBounds pads the deviation extent so zero is always visible.
func yBounds(e pipeline.Extent) (float64, float64) {
	lo, hi := min(e.Min, 0), max(e.Max, 0)
	if lo == hi {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

// dollarTicks labels the default ticks in millions of dollars.
type dollarTicks struct{}

func (dollarTicks) Ticks(lo, hi float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(lo, hi)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = FormatMillions(ticks[i].Value)
		}
	}
	return ticks
}

// FormatMillions renders v as "$1,234M".
func FormatMillions(v float64) string {
	if v < 0 {
		return printer.Sprintf("-$%.0fM", -v/1e6)
	}
	return printer.Sprintf("$%.0fM", v/1e6)
}

func withAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

func mustHex(s string) color.RGBA {
	var c color.RGBA
	if _, err := fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B); err != nil {
		panic(fmt.Sprintf("bad color %q: %v", s, err))
	}
	c.A = 0xff
	return c
}
