package registry

import (
	"github.com/roach88/aethervision/internal/artifact"
)

// ChartType names a derived chart.
type ChartType string

const (
	ChartBar        ChartType = "bar"
	ChartLine       ChartType = "line"
	ChartHistogram  ChartType = "histogram"
	ChartScatterMap ChartType = "scatter-map"
)

// ValidChartTypes lists the supported chart types.
var ValidChartTypes = map[ChartType]bool{
	ChartBar:        true,
	ChartLine:       true,
	ChartHistogram:  true,
	ChartScatterMap: true,
}

// AggregateCount derives a value-count table from the X column.
const AggregateCount = "count"

// DefaultBins is the histogram bin count when a spec leaves Bins unset.
const DefaultBins = 10

// ChartSpec binds columns of one table artifact to a chart.
type ChartSpec struct {
	Type     ChartType `json:"type"`
	Artifact string    `json:"artifact"`
	Title    string    `json:"title,omitempty"`

	X     string `json:"x,omitempty"`
	Y     string `json:"y,omitempty"`
	Color string `json:"color,omitempty"`
	Lat   string `json:"lat,omitempty"`
	Lon   string `json:"lon,omitempty"`

	// Aggregate is empty or AggregateCount.
	Aggregate string `json:"aggregate,omitempty"`
	Bins      int    `json:"bins,omitempty"`

	// Interactive scatter-maps take their lat/lon/color columns from the
	// session instead of the declaration.
	Interactive bool `json:"interactive,omitempty"`
}

// RequiredColumns returns the columns a table must have for the chart to be
// derived, in binding order. Empty bindings are not required.
func (c ChartSpec) RequiredColumns() []string {
	var cols []string
	for _, col := range []string{c.X, c.Y, c.Lat, c.Lon, c.Color} {
		if col != "" {
			cols = append(cols, col)
		}
	}
	return cols
}

// BinCount returns Bins or DefaultBins.
func (c ChartSpec) BinCount() int {
	if c.Bins > 0 {
		return c.Bins
	}
	return DefaultBins
}

// FilterSpec declares a single-select category filter over a table column.
type FilterSpec struct {
	Artifact string `json:"artifact"`
	Column   string `json:"column"`
}

// Module describes one dashboard page and the artifacts it displays.
type Module struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Artifacts   []artifact.Ref `json:"artifacts"`
	Charts      []ChartSpec    `json:"charts,omitempty"`
	Filters     []FilterSpec   `json:"filters,omitempty"`
}

// Artifact returns the named artifact ref.
func (m *Module) Artifact(name string) (artifact.Ref, bool) {
	for _, a := range m.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return artifact.Ref{}, false
}

// ChartsFor returns the charts bound to the named artifact, in declaration order.
func (m *Module) ChartsFor(name string) []ChartSpec {
	var out []ChartSpec
	for _, c := range m.Charts {
		if c.Artifact == name {
			out = append(out, c)
		}
	}
	return out
}

// FilterFor returns the filter declared on the named artifact.
func (m *Module) FilterFor(name string) (FilterSpec, bool) {
	for _, f := range m.Filters {
		if f.Artifact == name {
			return f, true
		}
	}
	return FilterSpec{}, false
}
