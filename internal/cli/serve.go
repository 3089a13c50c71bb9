package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/aethervision/internal/web"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string // listen address; empty uses the configured one
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard",
		Long: `Serve the dashboard over HTTP until interrupted.

Every request reloads the artifacts of the selected module from disk, so
files written by the analysis branches show up on the next page load.

Examples:
  aether serve
  aether serve --addr 127.0.0.1:8080 --root ./outputs`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config, :8501)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	sh, err := opts.Shell()
	if err != nil {
		return WrapExitError(ExitCommandError, "loading module registry", err)
	}

	srv, err := web.New(sh)
	if err != nil {
		return WrapExitError(ExitCommandError, "building web server", err)
	}

	addr := cfg.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx, addr); err != nil {
		return WrapExitError(ExitCommandError, "serving", err)
	}
	return nil
}
