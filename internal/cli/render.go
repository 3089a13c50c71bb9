package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/aethervision/internal/render"
	"github.com/roach88/aethervision/internal/shell"
	"github.com/roach88/aethervision/internal/termview"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Set     []string // widget selections as key=value
	MaxRows int      // table rows printed in text format
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <module>",
		Short: "Render one module to the terminal",
		Long: `Load a module's artifacts and print its tables, charts and notices.

Widget selections use the same keys as the web dashboard's query string:
  f.<artifact>       filter value
  lat.<artifact>     latitude column of a scatter map
  lon.<artifact>     longitude column of a scatter map
  color.<artifact>   color column of a scatter map (empty for none)

Examples:
  aether render branch4
  aether render branch8 --set f.city_decisions=Mumbai
  aether render branch2 --set lat.env_analytics=y --set lon.env_analytics=x
  aether render branch6 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "widget selection key=value (repeatable)")
	cmd.Flags().IntVar(&opts.MaxRows, "max-rows", termview.MaxRows, "table rows printed in text format")

	return cmd
}

func runRender(opts *RenderOptions, moduleID string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	sh, err := opts.Shell()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, "loading module registry", err)
	}
	if _, ok := sh.Registry.Lookup(moduleID); !ok {
		return formatter.Fail(ExitCommandError, ErrCodeUnknownModule, fmt.Sprintf("unknown module %q", moduleID), nil)
	}

	state := shell.State{Module: moduleID}
	for _, kv := range opts.Set {
		key, value, err := parseWidget(kv)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeBadWidget, err.Error(), nil)
		}
		state = state.With(key, value)
	}
	formatter.VerboseLog("Rendering %s with %d widget selection(s)", moduleID, len(state.Widgets))

	v := sh.View(state)
	if opts.Format == "json" {
		return formatter.Success(v)
	}

	r := termview.New()
	r.MaxRows = opts.MaxRows
	return r.Write(formatter.Writer, v)
}

// parseWidget splits a key=value selection and checks the key.
func parseWidget(kv string) (string, string, error) {
	key, value, ok := strings.Cut(kv, "=")
	if !ok {
		return "", "", fmt.Errorf("widget %q must be key=value", kv)
	}
	if !render.IsWidgetParam(key) {
		return "", "", fmt.Errorf("unknown widget %q: use f.<artifact>, lat.<artifact>, lon.<artifact> or color.<artifact>", key)
	}
	return key, value, nil
}
