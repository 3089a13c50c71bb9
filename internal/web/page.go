package web

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/aethervision/internal/artifact"
	"github.com/roach88/aethervision/internal/chart"
	"github.com/roach88/aethervision/internal/registry"
	"github.com/roach88/aethervision/internal/render"
	"github.com/roach88/aethervision/internal/shell"
)

// page is the template data of the index page.
type page struct {
	View       *render.View
	Menu       []menuLink
	Paragraphs []string
	Sections   []sectionPage
	Tabs       bool
}

// menuLink is a menu entry with the URL of a fresh visit to its module.
type menuLink struct {
	render.MenuItem
	Href string
}

type sectionPage struct {
	render.Section
	Anchor  string
	Pickers []picker
	Figures []figure
}

type picker struct {
	Name string
	render.Picker
}

// figure is one drawable chart: an inline SVG, or a Leaflet map.
type figure struct {
	Title  string
	SVG    *svgChart
	Map    *mapChart
	Counts *artifact.Table
}

type mapChart struct {
	ID      string
	Markers template.JS
	Legend  []chart.Legend
}

var funcs = template.FuncMap{
	"num":  formatNumber,
	"cell": cellText,
}

func cellText(c artifact.Cell) string {
	if c.Null {
		return ""
	}
	return c.Raw
}

func newPage(v *render.View, sh *shell.Shell) *page {
	p := &page{
		View:       v,
		Paragraphs: paragraphs(v.Module.Description),
		Tabs:       len(v.Sections) > 1,
	}
	for _, item := range v.Menu {
		p.Menu = append(p.Menu, menuLink{
			MenuItem: item,
			Href:     "/?" + sh.Select(item.ID).Query(),
		})
	}
	for i, s := range v.Sections {
		sp := sectionPage{
			Section: s,
			Anchor:  "artifact-" + s.Artifact,
		}
		if b := s.Bindings; b != nil {
			sp.Pickers = []picker{
				{Name: "Latitude", Picker: b.Lat},
				{Name: "Longitude", Picker: b.Lon},
				{Name: "Color", Picker: b.Color},
			}
		}
		for j, c := range s.Charts {
			sp.Figures = append(sp.Figures, newFigure(c, "map-"+strconv.Itoa(i)+"-"+strconv.Itoa(j)))
		}
		p.Sections = append(p.Sections, sp)
	}
	return p
}

func newFigure(c *chart.Chart, mapID string) figure {
	f := figure{Title: c.Title, Counts: c.Counts}
	if c.Type == registry.ChartScatterMap {
		data, err := json.Marshal(c.Markers)
		if err != nil {
			slog.Error("encoding map markers failed", "error", err)
			data = []byte("[]")
		}
		f.Map = &mapChart{ID: mapID, Markers: template.JS(data), Legend: c.Legend}
		return f
	}
	f.SVG = newSVGChart(c)
	return f
}

// paragraphs splits text on blank lines.
func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(strings.TrimSpace(text), "\n\n") {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
