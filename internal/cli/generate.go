package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/schemaforge/internal/driver"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Language      string
	OutputDir     string
	Package       string
	Namespace     string
	NoPydantic    bool
	Mode          string
	NoOverwrite   bool
	StripLeadingU bool
	SkipBroken    bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <schema-file>",
		Short: "Generate source types from a schema document",
		Long: `Generate typed source code from a JSON, YAML, or CUE schema document.

The root document and every external document it references each produce
exactly one artifact. References are resolved once per distinct file, and
definitions that merely re-export another schema collapse onto the
target's canonical name.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Language, "language", "l", "go", "target language (go|python|typescript|csharp)")
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.Package, "package", "types", "package name for Go output")
	cmd.Flags().StringVar(&opts.Namespace, "namespace", "Generated", "namespace for C# output")
	cmd.Flags().BoolVar(&opts.NoPydantic, "no-pydantic", false, "emit dataclasses instead of pydantic models (Python)")
	cmd.Flags().StringVar(&opts.Mode, "mode", string(driver.ModeCreate), "artifact write mode (create|append)")
	cmd.Flags().BoolVar(&opts.NoOverwrite, "no-overwrite", false, "fail instead of replacing existing artifacts")
	cmd.Flags().BoolVar(&opts.StripLeadingU, "strip-leading-u", false, "strip a legacy leading U from schema file names")
	cmd.Flags().BoolVar(&opts.SkipBroken, "skip-broken", false, "skip documents that fail to resolve instead of aborting")

	return cmd
}

func runGenerate(opts *GenerateOptions, schemaPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	if !driver.ValidWriteMode(opts.Mode) {
		return outputCommandError(formatter, ErrCodeGeneric,
			fmt.Sprintf("invalid mode %q: must be create or append", opts.Mode), nil)
	}

	policy := driver.FailAbort
	if opts.SkipBroken {
		policy = driver.FailSkip
	}

	result, err := driver.Run(driver.Config{
		RootPath:      schemaPath,
		Language:      opts.Language,
		OutputDir:     opts.OutputDir,
		Package:       opts.Package,
		Namespace:     opts.Namespace,
		Pydantic:      !opts.NoPydantic,
		Mode:          driver.WriteMode(opts.Mode),
		NoOverwrite:   opts.NoOverwrite,
		StripLeadingU: opts.StripLeadingU,
		Policy:        policy,
	})
	if err != nil {
		return outputCommandError(formatter, classifyError(err), err.Error(), errorDetails(err))
	}

	formatter.TraceID = result.RunID
	formatter.VerboseLog("run %s: %d document(s), %d type(s)", result.RunID, result.Documents, result.Types)

	if err := formatter.GenerationResult(result); err != nil {
		return err
	}

	// Skipped documents mean incomplete output, which is a failure even
	// though the surviving artifacts stand.
	if len(result.Skipped) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d document(s) skipped", len(result.Skipped)))
	}
	return nil
}

// outputCommandError emits the error envelope and returns a command-level
// exit error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}
