package main

import (
	"fmt"
	"os"

	"github.com/globbie/gsl-go/spec"
	"github.com/globbie/gsl-go/tester"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Validate a field-spec table and report its shape",
		Example: `  gsl describe --spec spec.yaml`,
		Args:    cobra.NoArgs,
		RunE:    runDescribe,
	}
	cmd.Flags().StringP("spec", "s", "", "field-spec table file (YAML, required)")
	cmd.MarkFlagRequired("spec")
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	path, err := cmd.Flags().GetString("spec")
	if err != nil {
		return err
	}

	fs, err := readFixtureSpec(path)
	if err != nil {
		return fmt.Errorf("cannot read spec file %s: %w", path, err)
	}

	table, _, err := tester.Compile(*fs)
	if err != nil {
		return fmt.Errorf("cannot compile field-spec table: %w", err)
	}

	if verr := spec.Validate(table); verr != nil {
		fmt.Fprintf(os.Stdout, "invalid: %v\n", verr)
		return fmt.Errorf("table failed validation")
	}

	fmt.Fprintf(os.Stdout, "ok: %v top-level field(s)\n", len(table))
	for _, s := range table {
		name := string(s.Name)
		if name == "" {
			name = "<" + s.Role.String() + ">"
		}
		fmt.Fprintf(os.Stdout, "  %-20v role=%-10v flavour=%v\n", name, s.Role, s.Flavour)
	}
	return nil
}
