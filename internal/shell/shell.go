package shell

import (
	"log/slog"

	"github.com/roach88/aethervision/internal/artifact"
	"github.com/roach88/aethervision/internal/registry"
	"github.com/roach88/aethervision/internal/render"
)

// Shell connects the registry, the loader and the renderer. It holds only
// immutable values and is safe for concurrent use.
type Shell struct {
	Registry    *registry.Registry
	Loader      *artifact.Loader
	FrameHeight int
}

// New creates a Shell reading artifacts below root.
func New(reg *registry.Registry, root string, frameHeight int) *Shell {
	return &Shell{
		Registry:    reg,
		Loader:      artifact.NewLoader(root),
		FrameHeight: frameHeight,
	}
}

// Select returns the state of a fresh visit to module id, with no widget
// selections. An unknown id selects the default module.
func (s *Shell) Select(id string) State {
	return State{Module: s.resolve(id).ID}
}

// Module returns the module the state selects, falling back to the default
// module for an empty or unknown id.
func (s *Shell) Module(state State) *registry.Module {
	return s.resolve(state.Module)
}

// View loads the selected module's artifacts fresh and renders them.
func (s *Shell) View(state State) *render.View {
	m := s.resolve(state.Module)
	loaded := s.Loader.LoadAll(m.Artifacts)

	missing := 0
	for _, l := range loaded {
		if !l.OK() {
			missing++
		}
	}
	slog.Debug("module loaded",
		"module", m.ID,
		"artifacts", len(loaded),
		"unavailable", missing,
		"widgets", state.WidgetKeys())

	return render.Render(m, loaded, state.Widgets, render.Options{
		FrameHeight: s.FrameHeight,
		Menu:        s.Registry.Modules(),
	})
}

func (s *Shell) resolve(id string) *registry.Module {
	if m, ok := s.Registry.Lookup(id); ok {
		return m
	}
	if id != "" {
		slog.Debug("unknown module, showing default", "module", id)
	}
	return s.Registry.Default()
}
