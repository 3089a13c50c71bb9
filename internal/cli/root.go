package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/aethervision/internal/config"
	"github.com/roach88/aethervision/internal/registry"
	"github.com/roach88/aethervision/internal/shell"
)

// Version is reported by the MCP server and --version.
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Root       string // overrides the configured artifact root when set

	cfg *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the aether CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "aether",
		Short:   "AetherVision - artifact dashboard",
		Long:    "A read-only dashboard over the CSV, HTML and text artifacts written by the analysis branches.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			cfg, err := opts.Config()
			if err != nil {
				return err
			}
			slog.SetDefault(cfg.Log.NewLogger(cmd.ErrOrStderr(), opts.Verbose))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Root, "root", "", "artifact root directory (overrides config and "+config.EnvRoot+")")

	// Add subcommands
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewModulesCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewMCPCommand(opts))

	return cmd
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

// Config loads the configuration once: file, then environment, then flags.
func (o *RootOptions) Config() (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading config", err)
	}
	cfg.ApplyEnv()
	if o.Root != "" {
		cfg.Root = o.Root
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}
	o.cfg = cfg
	return cfg, nil
}

// Registry compiles the configured module declaration, or the built-in one.
// Config errors are returned as ExitErrors; registry errors are returned as is.
func (o *RootOptions) Registry() (*registry.Registry, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, err
	}
	return loadRegistry(cfg.RegistryDir)
}

// Shell builds the navigation shell over the configured artifact root.
func (o *RootOptions) Shell() (*shell.Shell, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, err
	}
	reg, err := loadRegistry(cfg.RegistryDir)
	if err != nil {
		return nil, err
	}
	slog.Debug("shell ready", "root", cfg.Root, "modules", len(reg.Modules()))
	return shell.New(reg, cfg.Root, cfg.FrameHeight), nil
}

func loadRegistry(dir string) (*registry.Registry, error) {
	var (
		reg *registry.Registry
		err error
	)
	if dir == "" {
		reg, err = registry.Default()
	} else {
		reg, err = registry.LoadDir(dir)
	}
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// formatter builds the output formatter for a command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
