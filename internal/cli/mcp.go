package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/aethervision/internal/mcp"
)

// NewMCPCommand creates the mcp command.
func NewMCPCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the dashboard to MCP clients over stdio",
		Long: `Run an MCP server on stdin/stdout exposing two read-only tools:

  list_modules    the menu with artifact availability
  render_module   one module's tables, charts and notices as JSON or text

Logs go to stderr so they never mix with the protocol stream.

Examples:
  aether mcp --root ./outputs`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := rootOpts.Shell()
			if err != nil {
				return WrapExitError(ExitCommandError, "loading module registry", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := mcp.NewServer(sh, Version).Run(ctx); err != nil {
				return WrapExitError(ExitCommandError, "MCP server", err)
			}
			return nil
		},
	}
}
