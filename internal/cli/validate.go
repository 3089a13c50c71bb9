package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/aethervision/internal/artifact"
	"github.com/roach88/aethervision/internal/registry"
)

// ValidationResult is the JSON output structure for the validate command.
type ValidationResult struct {
	Valid   bool                       `json:"valid"`
	Errors  []registry.ValidationError `json:"errors,omitempty"`
	Modules []ModuleEntry              `json:"modules,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [registry-dir]",
		Short: "Validate the module registry",
		Long: `Validate a module registry declared in CUE and report which of its
artifacts are present under the artifact root.

Without an argument the configured registry_dir is used, or the built-in
declaration when none is configured. Missing artifacts are reported but do
not fail validation: the dashboard shows a notice for each.

Exit codes:
  0 - Registry valid
  1 - Registry has validation errors
  2 - Command error (directory not found, CUE syntax error, etc.)

Examples:
  aether validate
  aether validate ./registry --root ./outputs
  aether validate --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runValidate(rootOpts, dir, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	if dir == "" {
		dir = cfg.RegistryDir
	}
	if dir == "" {
		formatter.VerboseLog("Validating built-in module registry")
	} else {
		formatter.VerboseLog("Validating module registry in %s", dir)
	}

	reg, err := loadRegistry(dir)
	var invalid *registry.InvalidError
	if errors.As(err, &invalid) {
		return outputValidationErrors(formatter, invalid.Errors)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, "loading module registry", err)
	}

	entries := moduleEntries(reg, artifact.NewLoader(cfg.Root))
	if opts.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Modules: entries})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Registry valid (%d modules)\n", len(entries))
	for _, e := range entries {
		if e.Artifacts == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s: %d/%d artifacts present\n", e.ID, e.Present, e.Artifacts)
		for _, p := range e.Missing {
			fmt.Fprintf(w, "    missing %s\n", p)
		}
	}
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []registry.ValidationError) error {
	message := fmt.Sprintf("validation failed with %d error(s)", len(errs))

	if formatter.Format == "json" {
		if err := formatter.Failure(errs[0].Code, errs[0].Message, ValidationResult{Valid: false, Errors: errs}); err != nil {
			return err
		}
		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, message)
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", err.Error())
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, message)
}
