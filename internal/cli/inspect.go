package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/schemaforge/internal/driver"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	StripLeadingU bool
}

// InspectReport dumps the descriptor and import tables for a closure.
type InspectReport struct {
	Documents []InspectDocument `json:"documents"`
}

// InspectDocument is one document's descriptor table.
type InspectDocument struct {
	Path     string          `json:"path"`
	TypeName string          `json:"type_name"`
	Types    []InspectType   `json:"types"`
	Imports  []InspectImport `json:"imports,omitempty"`
}

// InspectType is one emitted type.
type InspectType struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "object" or "enum"
}

// InspectImport is one external type a document references.
type InspectImport struct {
	Name string `json:"name"`
	From string `json:"from"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <schema-file>",
		Short: "Show the types and imports a schema would generate",
		Long: `Resolve a schema document's closure and print the canonical type table:
every type each artifact would define, in emission order, plus the
external types each document imports.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.StripLeadingU, "strip-leading-u", false, "strip a legacy leading U from schema file names")

	return cmd
}

func runInspect(opts *InspectOptions, schemaPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	plan, err := driver.Prepare(driver.Config{
		RootPath:      schemaPath,
		Language:      "go",
		StripLeadingU: opts.StripLeadingU,
		Policy:        driver.FailAbort,
	})
	if err != nil {
		return outputCommandError(formatter, classifyError(err), err.Error(), errorDetails(err))
	}

	formatter.TraceID = plan.RunID

	report := InspectReport{}
	for _, f := range plan.Files {
		doc := InspectDocument{Path: f.Path, TypeName: f.TypeName}
		for _, d := range f.Descriptors {
			kind := "object"
			if d.IsEnum {
				kind = "enum"
			}
			doc.Types = append(doc.Types, InspectType{Name: d.Name, Kind: kind})
		}
		for _, imp := range f.Imports {
			doc.Imports = append(doc.Imports, InspectImport{Name: imp.Name, From: imp.Base})
		}
		report.Documents = append(report.Documents, doc)
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	for i, d := range report.Documents {
		if i > 0 {
			fmt.Fprintln(formatter.Writer)
		}
		fmt.Fprintf(formatter.Writer, "%s (%s)\n", d.TypeName, d.Path)
		for _, t := range d.Types {
			fmt.Fprintf(formatter.Writer, "  %-8s %s\n", t.Kind, t.Name)
		}
		for _, imp := range d.Imports {
			fmt.Fprintf(formatter.Writer, "  import   %s <- %s\n", imp.Name, imp.From)
		}
	}
	return nil
}
