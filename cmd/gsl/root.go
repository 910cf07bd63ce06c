package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gsl",
	Short: "Parse and test data in the Generic Schema Language",
	Long: `gsl provides four features:
- Parses a GSL document against a declarative field-spec table and
  prints the fields it captures.
- Validates a field-spec table and reports its shape.
- Runs a directory of YAML fixtures against their own field-spec tables
  and reports pass/fail, for exercising a table without writing Go.
- Reads a single unenclosed numeric field (the "size" helper).`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
