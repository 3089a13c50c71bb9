// Package shell owns navigation: the per-session selection State and the
// load-then-render pass behind every interaction.
package shell

import (
	"net/url"
	"sort"

	"github.com/roach88/aethervision/internal/render"
)

// ModuleParam is the query parameter holding the selected module id.
const ModuleParam = "module"

// State is one session's selection: the active module and its widget
// selections. It is a value; every request, invocation or tool call owns
// its own copy.
type State struct {
	Module  string
	Widgets render.Widgets
}

// ParseState reads a State from URL query values. Keys that are neither the
// module nor a widget parameter are ignored.
func ParseState(q url.Values) State {
	s := State{Module: q.Get(ModuleParam)}
	for key, values := range q {
		if !render.IsWidgetParam(key) || len(values) == 0 {
			continue
		}
		if s.Widgets == nil {
			s.Widgets = render.Widgets{}
		}
		s.Widgets[key] = values[0]
	}
	return s
}

// Values encodes the State as URL query values.
func (s State) Values() url.Values {
	q := url.Values{}
	if s.Module != "" {
		q.Set(ModuleParam, s.Module)
	}
	for key, v := range s.Widgets {
		q.Set(key, v)
	}
	return q
}

// Query returns the encoded State, with keys in sorted order.
func (s State) Query() string {
	return s.Values().Encode()
}

// With returns a copy of s with one widget selection set.
func (s State) With(key, value string) State {
	w := make(render.Widgets, len(s.Widgets)+1)
	for k, v := range s.Widgets {
		w[k] = v
	}
	w[key] = value
	return State{Module: s.Module, Widgets: w}
}

// WidgetKeys returns the widget keys in sorted order.
func (s State) WidgetKeys() []string {
	keys := make([]string, 0, len(s.Widgets))
	for k := range s.Widgets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
