package render

import (
	"fmt"

	"github.com/roach88/aethervision/internal/artifact"
	"github.com/roach88/aethervision/internal/chart"
	"github.com/roach88/aethervision/internal/registry"
)

// Options carries the presentation settings shared by every view.
type Options struct {
	// FrameHeight is the pixel height of embedded HTML frames.
	FrameHeight int
	// Menu lists the modules of the navigation menu, in order.
	Menu []registry.Module
}

// Render builds the View of m from its loaded artifacts and the session's
// widget selections. loaded is expected in the module's declared order.
func Render(m *registry.Module, loaded []artifact.Loaded, widgets Widgets, opts Options) *View {
	height := opts.FrameHeight
	if height <= 0 {
		height = DefaultFrameHeight
	}

	v := &View{
		Module: ModuleInfo{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
		},
		Sections:    make([]Section, 0, len(loaded)),
		FrameHeight: height,
	}
	for _, item := range opts.Menu {
		v.Menu = append(v.Menu, MenuItem{ID: item.ID, Title: item.Title, Active: item.ID == m.ID})
	}

	for _, l := range loaded {
		v.Sections = append(v.Sections, renderSection(m, l, widgets))
	}
	return v
}

func renderSection(m *registry.Module, l artifact.Loaded, widgets Widgets) Section {
	s := Section{
		Artifact: l.Ref.Name,
		Kind:     l.Ref.Kind,
		Path:     l.Ref.Path,
		Status:   l.Status,
	}

	switch l.Status {
	case artifact.StatusMissing:
		s.Notice = &Notice{
			Level:   NoticeWarning,
			Message: fmt.Sprintf("File not found: %s", l.Ref.Path),
		}
		return s
	case artifact.StatusParseError:
		s.Notice = &Notice{
			Level:   NoticeError,
			Message: fmt.Sprintf("Could not read %s: %s", l.Ref.Path, l.Err),
		}
		return s
	}

	switch l.Ref.Kind {
	case artifact.KindTable:
		renderTable(&s, m, l, widgets)
	case artifact.KindHTML:
		s.HTML = l.HTML
	case artifact.KindText:
		s.Text = l.Text
	}
	return s
}

func renderTable(s *Section, m *registry.Module, l artifact.Loaded, widgets Widgets) {
	t := l.Table
	if t == nil {
		return
	}

	if spec, ok := m.FilterFor(l.Ref.Name); ok && t.Has(spec.Column) {
		f := &Filter{
			Column:  spec.Column,
			Param:   FilterParam(l.Ref.Name),
			Options: sortedOptions(t.Distinct(spec.Column)),
		}
		if sel := widgets[f.Param]; sel != "" && contains(f.Options, sel) {
			f.Selected = sel
			t = t.Where(spec.Column, sel)
		}
		s.Filter = f
	}
	s.Table = t

	for _, spec := range m.ChartsFor(l.Ref.Name) {
		if spec.Interactive {
			var b *Bindings
			spec, b = bindInteractive(spec, l.Ref.Name, t, widgets)
			s.Bindings = b
			if spec.Lat == "" || spec.Lon == "" {
				continue
			}
		}
		if c, ok := chart.Derive(spec, t); ok {
			s.Charts = append(s.Charts, c)
		}
	}
}

// bindInteractive resolves the lat/lon/color columns of an interactive map
// from the session, falling back to the declaration and then to guesses
// based on the column names.
func bindInteractive(spec registry.ChartSpec, name string, t *artifact.Table, widgets Widgets) (registry.ChartSpec, *Bindings) {
	header := t.Header()
	b := &Bindings{
		Lat:   Picker{Param: BindingParam(RoleLat, name), Options: header},
		Lon:   Picker{Param: BindingParam(RoleLon, name), Options: header},
		Color: Picker{Param: BindingParam(RoleColor, name), Options: header, Optional: true},
	}

	b.Lat.Selected = pick(widgets[b.Lat.Param], spec.Lat, guessColumn(header, latNames), header)
	b.Lon.Selected = pick(widgets[b.Lon.Param], spec.Lon, guessColumn(header, lonNames), header)
	if sel, ok := widgets[b.Color.Param]; ok {
		if contains(header, sel) {
			b.Color.Selected = sel
		}
	} else if contains(header, spec.Color) {
		b.Color.Selected = spec.Color
	}

	spec.Lat = b.Lat.Selected
	spec.Lon = b.Lon.Selected
	spec.Color = b.Color.Selected
	return spec, b
}

func pick(selected, declared, guessed string, header []string) string {
	for _, c := range []string{selected, declared, guessed} {
		if c != "" && contains(header, c) {
			return c
		}
	}
	return ""
}
