package chart

import (
	"fmt"
	"math"
	"strconv"

	"github.com/roach88/aethervision/internal/artifact"
	"github.com/roach88/aethervision/internal/registry"
)

// Chart is the data of one derived chart, ready to be drawn.
type Chart struct {
	Type   registry.ChartType `json:"type"`
	Title  string             `json:"title,omitempty"`
	XLabel string             `json:"x_label,omitempty"`
	YLabel string             `json:"y_label,omitempty"`

	Bars    []Bar    `json:"bars,omitempty"`
	Points  []Point  `json:"points,omitempty"`
	Markers []Marker `json:"markers,omitempty"`
	Legend  []Legend `json:"legend,omitempty"`

	// Counts is the derived value-count table of count aggregates.
	Counts *artifact.Table `json:"counts,omitempty"`
}

// Empty reports whether the chart has nothing to draw.
func (c *Chart) Empty() bool {
	return len(c.Bars) == 0 && len(c.Points) == 0 && len(c.Markers) == 0
}

// Bar is one bar of a bar chart or histogram.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Point is one vertex of a line chart.
type Point struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// Marker is one map location.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
	Color string  `json:"color"`
}

// Legend maps a color to the value it stands for.
type Legend struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Supports reports whether t has every column spec requires.
func Supports(spec registry.ChartSpec, t *artifact.Table) bool {
	return t != nil && t.Has(spec.RequiredColumns()...)
}

// Derive computes the chart for spec from t. The second result is false when
// t does not support spec; the chart is then skipped.
func Derive(spec registry.ChartSpec, t *artifact.Table) (*Chart, bool) {
	if !Supports(spec, t) {
		return nil, false
	}

	c := &Chart{Type: spec.Type, Title: spec.Title}
	switch spec.Type {
	case registry.ChartBar:
		if spec.Aggregate == registry.AggregateCount {
			deriveCount(c, spec, t)
		} else {
			deriveBar(c, spec, t)
		}
	case registry.ChartLine:
		deriveLine(c, spec, t)
	case registry.ChartHistogram:
		deriveHistogram(c, spec, t)
	case registry.ChartScatterMap:
		deriveMap(c, spec, t)
	default:
		return nil, false
	}
	return c, true
}

func deriveBar(c *Chart, spec registry.ChartSpec, t *artifact.Table) {
	c.XLabel, c.YLabel = spec.X, spec.Y
	xi, yi := t.Index(spec.X), t.Index(spec.Y)

	colors := newColorer(spec.Color, t)
	for _, row := range t.Rows {
		v, ok := row[yi].Float()
		if !ok {
			continue
		}
		c.Bars = append(c.Bars, Bar{
			Label: row[xi].Raw,
			Value: v,
			Color: colors.color(row),
		})
	}
	c.Legend = colors.legend()
}

// deriveCount counts the values of the X column in first-seen order.
func deriveCount(c *Chart, spec registry.ChartSpec, t *artifact.Table) {
	c.XLabel, c.YLabel = spec.X, "count"
	xi := t.Index(spec.X)

	counts := make(map[string]int64)
	var order []string
	for _, row := range t.Rows {
		cell := row[xi]
		if cell.Null {
			continue
		}
		if _, seen := counts[cell.Raw]; !seen {
			order = append(order, cell.Raw)
		}
		counts[cell.Raw]++
	}

	c.Counts = &artifact.Table{
		Columns: []artifact.Column{
			{Name: spec.X, Type: artifact.TypeString},
			{Name: "count", Type: artifact.TypeInt},
		},
		Rows: [][]artifact.Cell{},
	}
	for i, v := range order {
		n := counts[v]
		c.Counts.Rows = append(c.Counts.Rows, []artifact.Cell{
			{Raw: v},
			{Raw: strconv.FormatInt(n, 10)},
		})
		c.Bars = append(c.Bars, Bar{Label: v, Value: float64(n), Color: categorical(i)})
	}
}

func deriveLine(c *Chart, spec registry.ChartSpec, t *artifact.Table) {
	c.XLabel, c.YLabel = spec.X, spec.Y
	xi, yi := t.Index(spec.X), t.Index(spec.Y)
	for _, row := range t.Rows {
		v, ok := row[yi].Float()
		if !ok {
			continue
		}
		c.Points = append(c.Points, Point{X: row[xi].Raw, Y: v})
	}
}

// deriveHistogram bins the numeric X values into equal-width bins over
// [min, max]. The last bin includes max.
func deriveHistogram(c *Chart, spec registry.ChartSpec, t *artifact.Table) {
	c.XLabel, c.YLabel = spec.X, "count"
	xi := t.Index(spec.X)

	var values []float64
	for _, row := range t.Rows {
		if v, ok := row[xi].Float(); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	bins := spec.BinCount()
	if lo == hi {
		bins = 1
	}
	width := (hi - lo) / float64(bins)
	if math.IsInf(width, 0) {
		width = hi/float64(bins) - lo/float64(bins)
	}
	counts := make([]int, bins)
	for _, v := range values {
		i := bins - 1
		if width > 0 {
			pos := (v - lo) / width
			if math.IsInf(pos, 0) || math.IsNaN(pos) {
				pos = v/width - lo/width
			}
			i = clampIndex(pos, bins)
		}
		counts[i]++
	}

	for i, n := range counts {
		from := lo + float64(i)*width
		to := from + width
		if i == bins-1 {
			to = hi
		}
		c.Bars = append(c.Bars, Bar{
			Label: fmt.Sprintf("%s–%s", formatNumber(from), formatNumber(to)),
			Value: float64(n),
			Color: categorical(0),
		})
	}
}

// clampIndex truncates a bin position to an index in [0, n-1]. NaN maps to 0.
func clampIndex(pos float64, n int) int {
	switch {
	case math.IsNaN(pos) || pos < 0:
		return 0
	case pos >= float64(n-1):
		return n - 1
	}
	return int(pos)
}

func deriveMap(c *Chart, spec registry.ChartSpec, t *artifact.Table) {
	c.XLabel, c.YLabel = spec.Lon, spec.Lat
	lat, lon := t.Index(spec.Lat), t.Index(spec.Lon)

	colors := newColorer(spec.Color, t)
	for _, row := range t.Rows {
		y, okY := row[lat].Float()
		x, okX := row[lon].Float()
		if !okY || !okX || y < -90 || y > 90 || x < -180 || x > 180 {
			continue
		}
		label := formatNumber(y) + ", " + formatNumber(x)
		if colors.col >= 0 {
			label = row[colors.col].Raw
		}
		c.Markers = append(c.Markers, Marker{Lat: y, Lon: x, Label: label, Color: colors.color(row)})
	}
	c.Legend = colors.legend()
}

// formatNumber prints v without trailing zeros, rounded to 4 decimals.
// Magnitudes of 1e21 and above use exponent notation.
func formatNumber(v float64) string {
	if math.Abs(v) >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}
