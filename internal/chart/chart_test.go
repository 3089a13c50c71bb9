package chart

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aethervision/internal/artifact"
	"github.com/roach88/aethervision/internal/registry"
)

func mustTable(t *testing.T, data string) *artifact.Table {
	t.Helper()
	tbl, err := artifact.ParseTable([]byte(data))
	require.NoError(t, err)
	return tbl
}

func TestSupports(t *testing.T) {
	tbl := mustTable(t, "city,health_risk_score\nPune,3\n")
	bar := registry.ChartSpec{Type: registry.ChartBar, X: "city", Y: "health_risk_score"}

	assert.True(t, Supports(bar, tbl))

	bar.Color = "risk_level"
	assert.False(t, Supports(bar, tbl))
	assert.False(t, Supports(bar, nil))
}

func TestDeriveSkipsDeterministically(t *testing.T) {
	tbl := mustTable(t, "town,score\nPune,3\n")
	spec := registry.ChartSpec{Type: registry.ChartBar, X: "city", Y: "score"}

	for i := 0; i < 3; i++ {
		c, ok := Derive(spec, tbl)
		assert.False(t, ok)
		assert.Nil(t, c)
	}
}

func TestDeriveBar(t *testing.T) {
	tbl := mustTable(t, "city,health_risk_score\nDelhi,72\nMumbai,55\nPune,n/a\n")
	c, ok := Derive(registry.ChartSpec{Type: registry.ChartBar, X: "city", Y: "health_risk_score"}, tbl)
	require.True(t, ok)

	want := []Bar{
		{Label: "Delhi", Value: 72, Color: categorical(0)},
		{Label: "Mumbai", Value: 55, Color: categorical(0)},
	}
	if diff := cmp.Diff(want, c.Bars); diff != "" {
		t.Errorf("bars mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "city", c.XLabel)
	assert.Equal(t, "health_risk_score", c.YLabel)
	assert.Nil(t, c.Legend)
}

func TestDeriveBarCategoryColors(t *testing.T) {
	tbl := mustTable(t, "city,risk_score,risk_level\nDelhi,72,high\nMumbai,55,medium\nPune,80,high\n")
	c, ok := Derive(registry.ChartSpec{Type: registry.ChartBar, X: "city", Y: "risk_score", Color: "risk_level"}, tbl)
	require.True(t, ok)

	assert.Equal(t, c.Bars[0].Color, c.Bars[2].Color)
	assert.NotEqual(t, c.Bars[0].Color, c.Bars[1].Color)
	assert.Equal(t, []Legend{{Label: "high", Color: categorical(0)}, {Label: "medium", Color: categorical(1)}}, c.Legend)
}

func TestDeriveCount(t *testing.T) {
	tbl := mustTable(t, "city,status\nDelhi,approved\nMumbai,approved\nPune,pending\n")
	c, ok := Derive(registry.ChartSpec{Type: registry.ChartBar, X: "status", Aggregate: registry.AggregateCount}, tbl)
	require.True(t, ok)

	require.NotNil(t, c.Counts)
	assert.Equal(t, []string{"status", "count"}, c.Counts.Header())
	var got [][2]string
	for _, row := range c.Counts.Rows {
		got = append(got, [2]string{row[0].Raw, row[1].Raw})
	}
	assert.Equal(t, [][2]string{{"approved", "2"}, {"pending", "1"}}, got)

	require.Len(t, c.Bars, 2)
	assert.Equal(t, 2.0, c.Bars[0].Value)
	assert.Equal(t, 1.0, c.Bars[1].Value)
}

func TestDeriveCountFirstSeenOrder(t *testing.T) {
	tbl := mustTable(t, "alert_level\nred\namber\n\nred\ngreen\namber\n")
	c, ok := Derive(registry.ChartSpec{Type: registry.ChartBar, X: "alert_level", Aggregate: registry.AggregateCount}, tbl)
	require.True(t, ok)

	var labels []string
	for _, b := range c.Bars {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{"red", "amber", "green"}, labels)
}

func TestDeriveLine(t *testing.T) {
	tbl := mustTable(t, "day,risk_score\n1,0.2\n2,0.5\n3,\n4,0.4\n")
	c, ok := Derive(registry.ChartSpec{Type: registry.ChartLine, X: "day", Y: "risk_score"}, tbl)
	require.True(t, ok)
	assert.Equal(t, []Point{{X: "1", Y: 0.2}, {X: "2", Y: 0.5}, {X: "4", Y: 0.4}}, c.Points)
}

func TestDeriveHistogram(t *testing.T) {
	tbl := mustTable(t, "risk_score\n0\n1\n2\n3\n4\n10\n")
	c, ok := Derive(registry.ChartSpec{Type: registry.ChartHistogram, X: "risk_score", Bins: 2}, tbl)
	require.True(t, ok)

	require.Len(t, c.Bars, 2)
	assert.Equal(t, "0–5", c.Bars[0].Label)
	assert.Equal(t, 5.0, c.Bars[0].Value)
	assert.Equal(t, "5–10", c.Bars[1].Label)
	assert.Equal(t, 1.0, c.Bars[1].Value, "max falls into the last bin")
}

func TestDeriveHistogramSingleValue(t *testing.T) {
	tbl := mustTable(t, "risk_score\n7\n7\n")
	c, ok := Derive(registry.ChartSpec{Type: registry.ChartHistogram, X: "risk_score"}, tbl)
	require.True(t, ok)
	require.Len(t, c.Bars, 1)
	assert.Equal(t, 2.0, c.Bars[0].Value)
}

func TestDeriveHistogramNoNumbers(t *testing.T) {
	tbl := mustTable(t, "risk_score\nlow\n")
	c, ok := Derive(registry.ChartSpec{Type: registry.ChartHistogram, X: "risk_score"}, tbl)
	require.True(t, ok)
	assert.True(t, c.Empty())
}

func TestDeriveHistogramExtremeRange(t *testing.T) {
	tbl := mustTable(t, "risk_score\n-1e308\n0\n1e308\n")
	c, ok := Derive(registry.ChartSpec{Type: registry.ChartHistogram, X: "risk_score", Bins: 2}, tbl)
	require.True(t, ok)

	require.Len(t, c.Bars, 2)
	assert.Equal(t, 1.0, c.Bars[0].Value)
	assert.Equal(t, 2.0, c.Bars[1].Value)
	assert.Equal(t, "-1e+308–0", c.Bars[0].Label)
	assert.Equal(t, "0–1e+308", c.Bars[1].Label)
}

func TestClampIndex(t *testing.T) {
	assert.Equal(t, 0, clampIndex(math.NaN(), 5))
	assert.Equal(t, 0, clampIndex(-3, 5))
	assert.Equal(t, 2, clampIndex(2.7, 5))
	assert.Equal(t, 4, clampIndex(4, 5))
	assert.Equal(t, 4, clampIndex(math.Inf(1), 5))
}

func TestDeriveMap(t *testing.T) {
	tbl := mustTable(t, "station,latitude,longitude,aqi\nA,28.61,77.21,180\nB,19.07,72.87,90\nC,999,0,50\nD,,72.1,10\n")
	spec := registry.ChartSpec{Type: registry.ChartScatterMap, Lat: "latitude", Lon: "longitude", Color: "aqi"}
	c, ok := Derive(spec, tbl)
	require.True(t, ok)

	require.Len(t, c.Markers, 2)
	assert.Equal(t, 28.61, c.Markers[0].Lat)
	assert.Equal(t, 77.21, c.Markers[0].Lon)
	assert.Equal(t, "180", c.Markers[0].Label)
	assert.Equal(t, rampPalette[len(rampPalette)-1], c.Markers[0].Color)
	assert.Equal(t, rampPalette[1], c.Markers[1].Color, "values in between land on inner ramp steps")
	require.Len(t, c.Legend, 2)
	assert.Equal(t, "low (10)", c.Legend[0].Label)
	assert.Equal(t, "high (180)", c.Legend[1].Label)
}

func TestDeriveMapColorExtremeRange(t *testing.T) {
	tbl := mustTable(t, "lat,lon,v\n1,1,-1e308\n2,2,1e308\n3,3,0\n")
	c, ok := Derive(registry.ChartSpec{Type: registry.ChartScatterMap, Lat: "lat", Lon: "lon", Color: "v"}, tbl)
	require.True(t, ok)

	require.Len(t, c.Markers, 3)
	assert.Equal(t, rampPalette[0], c.Markers[0].Color)
	assert.Equal(t, rampPalette[len(rampPalette)-1], c.Markers[1].Color)
	assert.Equal(t, rampPalette[2], c.Markers[2].Color)
}

func TestDeriveMapWithoutColor(t *testing.T) {
	tbl := mustTable(t, "lat,lon\n12.97,77.59\n")
	c, ok := Derive(registry.ChartSpec{Type: registry.ChartScatterMap, Lat: "lat", Lon: "lon"}, tbl)
	require.True(t, ok)
	require.Len(t, c.Markers, 1)
	assert.Equal(t, "12.97, 77.59", c.Markers[0].Label)
	assert.Nil(t, c.Legend)
}
