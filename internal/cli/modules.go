package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/aethervision/internal/artifact"
	"github.com/roach88/aethervision/internal/registry"
)

// ModuleEntry is one menu entry as reported by `aether modules`.
type ModuleEntry struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Artifacts int      `json:"artifacts"`
	Present   int      `json:"present"`
	Missing   []string `json:"missing,omitempty"`
}

// NewModulesCommand creates the modules command.
func NewModulesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List dashboard modules",
		Long: `List the dashboard modules in menu order with how many of their
artifacts are present under the artifact root.

Examples:
  aether modules
  aether modules --root ./outputs --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModules(rootOpts, cmd)
		},
	}
}

func runModules(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	reg, err := opts.Registry()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, "loading module registry", err)
	}

	entries := moduleEntries(reg, artifact.NewLoader(cfg.Root))
	if opts.Format == "json" {
		return formatter.Success(entries)
	}

	w := formatter.Writer
	for _, e := range entries {
		fmt.Fprintf(w, "%-8s  %-40s  %d/%d artifacts\n", e.ID, e.Title, e.Present, e.Artifacts)
		if opts.Verbose {
			for _, p := range e.Missing {
				fmt.Fprintf(w, "          missing %s\n", p)
			}
		}
	}
	return nil
}

// moduleEntries reports artifact presence for every module of reg.
func moduleEntries(reg *registry.Registry, loader *artifact.Loader) []ModuleEntry {
	mods := reg.Modules()
	entries := make([]ModuleEntry, len(mods))
	for i, m := range mods {
		e := ModuleEntry{ID: m.ID, Title: m.Title, Artifacts: len(m.Artifacts)}
		for _, ref := range m.Artifacts {
			if present(loader, ref) {
				e.Present++
			} else {
				e.Missing = append(e.Missing, ref.Path)
			}
		}
		entries[i] = e
	}
	return entries
}

func present(loader *artifact.Loader, ref artifact.Ref) bool {
	p, ok := loader.Resolve(ref)
	if !ok {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
