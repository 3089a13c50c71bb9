// Package termview renders a View for the terminal with lipgloss.
package termview

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/roach88/aethervision/internal/artifact"
	"github.com/roach88/aethervision/internal/chart"
	"github.com/roach88/aethervision/internal/registry"
	"github.com/roach88/aethervision/internal/render"
)

// BarWidth is the width of the longest bar of a terminal bar chart.
const BarWidth = 30

// MaxRows caps the rows printed per table.
const MaxRows = 50

// Renderer formats Views as styled terminal text.
type Renderer struct {
	Styles  Styles
	MaxRows int
}

// New creates a Renderer with the default styles.
func New() *Renderer {
	return &Renderer{Styles: DefaultStyles(), MaxRows: MaxRows}
}

// Write renders v to w.
func (r *Renderer) Write(w io.Writer, v *render.View) error {
	_, err := io.WriteString(w, r.Render(v))
	return err
}

// Render returns v as terminal text.
func (r *Renderer) Render(v *render.View) string {
	var sb strings.Builder
	sb.WriteString(r.Styles.Title.Render(v.Module.Title))
	sb.WriteString("\n")
	if v.Module.Description != "" {
		sb.WriteString(strings.TrimSpace(v.Module.Description))
		sb.WriteString("\n\n")
	}

	for _, s := range v.Sections {
		r.section(&sb, s)
	}
	return sb.String()
}

func (r *Renderer) section(sb *strings.Builder, s render.Section) {
	sb.WriteString(r.Styles.Section.Render(s.Artifact))
	sb.WriteString(" ")
	sb.WriteString(r.Styles.Muted.Render(s.Path))
	sb.WriteString("\n")

	if s.Notice != nil {
		style := r.Styles.Warning
		if s.Notice.Level == render.NoticeError {
			style = r.Styles.Error
		}
		sb.WriteString(style.Render(s.Notice.Message))
		sb.WriteString("\n\n")
		return
	}

	if f := s.Filter; f != nil {
		selected := f.Selected
		if selected == "" {
			selected = "All"
		}
		fmt.Fprintf(sb, "filter %s = %s  %s\n", f.Column, selected,
			r.Styles.Muted.Render("(--set "+f.Param+"=<value>)"))
	}
	if b := s.Bindings; b != nil {
		fmt.Fprintf(sb, "map columns: lat=%s lon=%s color=%s\n",
			orNone(b.Lat.Selected), orNone(b.Lon.Selected), orNone(b.Color.Selected))
	}

	if s.Table != nil {
		sb.WriteString(r.table(s.Table))
		sb.WriteString("\n")
	}
	for _, c := range s.Charts {
		sb.WriteString(r.chart(c))
	}
	if s.Kind == artifact.KindHTML && s.Status == artifact.StatusOK {
		sb.WriteString(r.Styles.Muted.Render(fmt.Sprintf("HTML document, %d bytes; open it in the web dashboard.", len(s.HTML))))
		sb.WriteString("\n")
	}
	if s.Text != "" {
		sb.WriteString(r.Styles.Report.Render(strings.TrimRight(s.Text, "\n")))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func (r *Renderer) table(t *artifact.Table) string {
	rows := t.Rows
	truncated := 0
	if r.MaxRows > 0 && len(rows) > r.MaxRows {
		truncated = len(rows) - r.MaxRows
		rows = rows[:r.MaxRows]
	}

	data := make([][]string, len(rows))
	for i, row := range rows {
		data[i] = make([]string, len(row))
		for j, c := range row {
			if !c.Null {
				data[i][j] = c.Raw
			}
		}
	}

	out := r.grid(t.Header(), data)
	if truncated > 0 {
		out += "\n" + r.Styles.Muted.Render(fmt.Sprintf("… %d more rows", truncated))
	}
	return out + "\n"
}

func (r *Renderer) grid(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.Styles.Header
			}
			return r.Styles.Cell
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func (r *Renderer) chart(c *chart.Chart) string {
	var sb strings.Builder
	title := c.Title
	if title == "" {
		title = string(c.Type)
	}
	sb.WriteString(r.Styles.Section.Render(title))
	sb.WriteString("\n")

	switch {
	case c.Type == registry.ChartScatterMap:
		rows := make([][]string, len(c.Markers))
		for i, m := range c.Markers {
			rows[i] = []string{formatNumber(m.Lat), formatNumber(m.Lon), m.Label}
		}
		sb.WriteString(r.grid([]string{"lat", "lon", "label"}, rows))
		sb.WriteString("\n")
	case c.Type == registry.ChartLine:
		rows := make([][]string, len(c.Points))
		for i, p := range c.Points {
			rows[i] = []string{p.X, formatNumber(p.Y)}
		}
		sb.WriteString(r.grid([]string{c.XLabel, c.YLabel}, rows))
		sb.WriteString("\n")
	default:
		sb.WriteString(bars(c.Bars))
	}

	if c.Empty() {
		sb.WriteString(r.Styles.Muted.Render("no numeric values"))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

// bars draws horizontal bars scaled to the largest absolute value.
func bars(bs []chart.Bar) string {
	if len(bs) == 0 {
		return ""
	}
	labelWidth, peak := 0, 0.0
	for _, b := range bs {
		if w := lipgloss.Width(b.Label); w > labelWidth {
			labelWidth = w
		}
		peak = math.Max(peak, math.Abs(b.Value))
	}

	var sb strings.Builder
	for _, b := range bs {
		n := 0
		if peak > 0 {
			n = int(math.Round(math.Abs(b.Value) / peak * BarWidth))
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render(strings.Repeat("█", n))
		fmt.Fprintf(&sb, "%s%s %s %s\n",
			b.Label, strings.Repeat(" ", labelWidth-lipgloss.Width(b.Label)),
			bar, formatNumber(b.Value))
	}
	return sb.String()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
