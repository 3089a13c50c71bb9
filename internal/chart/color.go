package chart

import (
	"fmt"
	"math"

	"github.com/roach88/aethervision/internal/artifact"
)

// categoryPalette is assigned to category values in first-seen order.
var categoryPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// rampPalette colors numeric values from low to high.
var rampPalette = []string{"#2c7bb6", "#abd9e9", "#ffffbf", "#fdae61", "#d7191c"}

func categorical(i int) string {
	return categoryPalette[i%len(categoryPalette)]
}

// colorer assigns colors from an optional binding column. Numeric columns
// use the ramp over [min, max]; other columns use the category palette.
type colorer struct {
	col     int
	numeric bool
	min     float64
	max     float64
	index   map[string]int
	order   []string
}

func newColorer(column string, t *artifact.Table) *colorer {
	c := &colorer{col: -1, index: make(map[string]int)}
	if column == "" {
		return c
	}
	c.col = t.Index(column)
	if c.col < 0 {
		return c
	}

	if t.Columns[c.col].Type.Numeric() {
		c.numeric = true
		c.min, c.max = math.Inf(1), math.Inf(-1)
		for _, row := range t.Rows {
			if v, ok := row[c.col].Float(); ok {
				c.min = math.Min(c.min, v)
				c.max = math.Max(c.max, v)
			}
		}
		return c
	}

	for _, v := range t.Distinct(column) {
		c.index[v] = len(c.order)
		c.order = append(c.order, v)
	}
	return c
}

func (c *colorer) color(row []artifact.Cell) string {
	if c.col < 0 {
		return categorical(0)
	}
	cell := row[c.col]
	if c.numeric {
		v, ok := cell.Float()
		if !ok {
			return "#999999"
		}
		if !(c.max > c.min) {
			return rampPalette[0]
		}
		frac := (v - c.min) / (c.max - c.min)
		if math.IsInf(c.max-c.min, 0) {
			frac = (v/2 - c.min/2) / (c.max/2 - c.min/2)
		}
		return rampPalette[clampIndex(frac*float64(len(rampPalette)-1), len(rampPalette))]
	}
	i, ok := c.index[cell.Raw]
	if !ok {
		return "#999999"
	}
	return categorical(i)
}

func (c *colorer) legend() []Legend {
	if c.col < 0 {
		return nil
	}
	if c.numeric {
		if math.IsInf(c.min, 0) {
			return nil
		}
		return []Legend{
			{Label: fmt.Sprintf("low (%s)", formatNumber(c.min)), Color: rampPalette[0]},
			{Label: fmt.Sprintf("high (%s)", formatNumber(c.max)), Color: rampPalette[len(rampPalette)-1]},
		}
	}
	out := make([]Legend, len(c.order))
	for i, v := range c.order {
		out[i] = Legend{Label: v, Color: categorical(i)}
	}
	return out
}
