package web

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/aethervision/internal/chart"
	"github.com/roach88/aethervision/internal/registry"
)

// Plot geometry, in SVG user units.
const (
	svgWidth   = 640
	svgHeight  = 320
	padLeft    = 56
	padRight   = 16
	padTop     = 16
	padBottom  = 80
	yTickCount = 5
	lineColor  = "#1f77b4"
)

// svgChart is a bar, histogram or line chart laid out for the template.
type svgChart struct {
	Width, Height int
	XLabel        string
	YLabel        string

	Left, Right, Top, Bottom float64

	// Baseline is the y coordinate of value zero.
	Baseline float64
	Stroke   string

	Ticks  []svgTick
	Bars   []svgBar
	Line   string
	Dots   []svgDot
	Legend []chart.Legend
}

type svgTick struct {
	Y     float64
	Label string
}

type svgBar struct {
	X, Y, W, H     float64
	Color          string
	Label, Value   string
	LabelX, LabelY float64
}

type svgDot struct {
	X, Y           float64
	Label, Value   string
	LabelX, LabelY float64
}

// yScale maps values onto the vertical axis of the plot area.
type yScale struct {
	lo, hi      float64
	top, bottom float64
}

func newYScale(values []float64, top, bottom float64) yScale {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		hi = lo + 1
	}
	return yScale{lo: lo, hi: hi, top: top, bottom: bottom}
}

func (s yScale) y(v float64) float64 {
	return round2(s.bottom - (v-s.lo)/(s.hi-s.lo)*(s.bottom-s.top))
}

func (s yScale) ticks() []svgTick {
	ticks := make([]svgTick, 0, yTickCount)
	step := (s.hi - s.lo) / float64(yTickCount-1)
	for i := 0; i < yTickCount; i++ {
		v := s.lo + float64(i)*step
		ticks = append(ticks, svgTick{Y: s.y(v), Label: formatNumber(round4(v))})
	}
	return ticks
}

func newSVGChart(c *chart.Chart) *svgChart {
	sc := &svgChart{
		Width:  svgWidth,
		Height: svgHeight,
		XLabel: c.XLabel,
		YLabel: c.YLabel,
		Left:   padLeft,
		Right:  svgWidth - padRight,
		Top:    padTop,
		Bottom: svgHeight - padBottom,
		Stroke: lineColor,
		Legend: c.Legend,
	}

	var values []float64
	if c.Type == registry.ChartLine {
		for _, p := range c.Points {
			values = append(values, p.Y)
		}
	} else {
		for _, b := range c.Bars {
			values = append(values, b.Value)
		}
	}
	scale := newYScale(values, sc.Top, sc.Bottom)
	sc.Ticks = scale.ticks()
	sc.Baseline = scale.y(0)

	if c.Type == registry.ChartLine {
		layoutLine(sc, c.Points, scale)
	} else {
		layoutBars(sc, c.Bars, scale)
	}
	return sc
}

func layoutBars(sc *svgChart, bars []chart.Bar, scale yScale) {
	if len(bars) == 0 {
		return
	}
	slot := (sc.Right - sc.Left) / float64(len(bars))
	width := round2(slot * 0.8)
	for i, b := range bars {
		x := round2(sc.Left + float64(i)*slot + slot*0.1)
		top, bottom := scale.y(b.Value), sc.Baseline
		if top > bottom {
			top, bottom = bottom, top
		}
		sc.Bars = append(sc.Bars, svgBar{
			X:      x,
			Y:      top,
			W:      width,
			H:      round2(bottom - top),
			Color:  b.Color,
			Label:  b.Label,
			Value:  formatNumber(b.Value),
			LabelX: round2(x + width/2),
			LabelY: sc.Bottom + 12,
		})
	}
}

func layoutLine(sc *svgChart, points []chart.Point, scale yScale) {
	if len(points) == 0 {
		return
	}
	slot := (sc.Right - sc.Left) / float64(len(points))
	coords := make([]string, 0, len(points))
	for i, p := range points {
		x := round2(sc.Left + float64(i)*slot + slot/2)
		y := scale.y(p.Y)
		coords = append(coords, fmt.Sprintf("%s,%s", formatNumber(x), formatNumber(y)))
		sc.Dots = append(sc.Dots, svgDot{
			X:      x,
			Y:      y,
			Label:  p.X,
			Value:  formatNumber(p.Y),
			LabelX: x,
			LabelY: sc.Bottom + 12,
		})
	}
	sc.Line = strings.Join(coords, " ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
