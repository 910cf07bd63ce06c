package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/globbie/gsl-go/tester"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "test [fixture file or directory]",
		Short:   "Run YAML fixtures against their field-spec tables",
		Example: `  gsl test testdata`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTest,
	}
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	fixtures := tester.ListFixtures(args[0])

	errOccurred := false
	for _, f := range fixtures {
		if f.Error != nil {
			fmt.Fprintf(os.Stderr, "failed to read fixture %v: %v\n", f.FilePath, f.Error)
			errOccurred = true
		}
	}
	if errOccurred {
		return errors.New("cannot run test")
	}

	tst := &tester.Tester{Fixtures: fixtures}
	rs := tst.Run()

	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("test failed")
	}
	return nil
}
