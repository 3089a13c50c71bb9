package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/aethervision/internal/registry"
	"github.com/roach88/aethervision/internal/render"
	"github.com/roach88/aethervision/internal/shell"
)

// Harness runs scenarios against a module registry.
type Harness struct {
	registry *registry.Registry
}

// New creates a harness for reg.
func New(reg *registry.Registry) *Harness {
	return &Harness{registry: reg}
}

// Run executes a scenario against the built-in registry.
func Run(scenario *Scenario) (*Result, error) {
	reg, err := registry.Default()
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	return New(reg).Run(scenario)
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Write the scenario's files into a fresh temporary artifact root
//  2. Render the selected module with the scenario's widget selections
//  3. Evaluate assertions against the rendered view
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	if _, ok := h.registry.Lookup(scenario.Module); !ok {
		return nil, fmt.Errorf("unknown module %q", scenario.Module)
	}

	root, err := os.MkdirTemp("", "aether-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("creating artifact root: %w", err)
	}
	defer os.RemoveAll(root)

	if err := writeFiles(root, scenario.Files); err != nil {
		return nil, err
	}

	sh := shell.New(h.registry, root, render.DefaultFrameHeight)
	state := shell.State{Module: scenario.Module, Widgets: render.Widgets{}}
	for k, v := range scenario.Widgets {
		state.Widgets[k] = v
	}

	result := NewResult()
	result.View = sh.View(state)
	for _, msg := range EvaluateAssertions(result.View, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func writeFiles(root string, files map[string]string) error {
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("writing %s: %w", rel, err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", rel, err)
		}
	}
	return nil
}
