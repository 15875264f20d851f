// Command import parses a diagram source and dumps the parsed model without
// laying it out.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"asciibox/diagram"
	"asciibox/export"
	"asciibox/importer"
)

func main() {
	if err := newCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var (
		format string
		output string
		yaml   bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:           "import [file]",
		Short:         "Dump the parsed model of a diagram source as JSON or YAML",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				content []byte
				err     error
			)
			if len(args) == 0 || args[0] == "-" {
				content, err = io.ReadAll(cmd.InOrStdin())
			} else {
				content, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			registry := importer.NewImporterRegistry(importer.NewAsciiboxImporter())
			d, err := importFrom(registry, string(content), format)
			var lineErrs importer.ParseErrors
			switch {
			case errors.As(err, &lineErrs) && !strict:
				for _, le := range lineErrs {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipped %v\n", le)
				}
			case err != nil:
				return fmt.Errorf("importing diagram: %w", err)
			}

			var exp export.Exporter = export.NewJSONExporter()
			if yaml {
				exp = export.NewYAMLExporter()
			}
			data, err := exp.Export(d)
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), data)
				return nil
			}
			if err := os.WriteFile(output, []byte(data), 0o644); err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Successfully imported diagram to %s\n", output)
			return nil
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", "", "input format: asciibox or mermaid (detected when empty)")
	f.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	f.BoolVar(&yaml, "yaml", false, "write YAML instead of JSON")
	f.BoolVar(&strict, "strict", false, "fail on the first line that does not parse")
	return cmd
}

func importFrom(registry *importer.ImporterRegistry, content, format string) (*diagram.Diagram, error) {
	if format != "" {
		return registry.ImportWithFormat(content, format)
	}
	return registry.Import(content)
}
