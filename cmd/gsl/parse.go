package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/globbie/gsl-go/dispatch"
	"github.com/globbie/gsl-go/tester"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	spec   *string
	source *string
	format *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse",
		Short:   "Parse a GSL document against a field-spec table",
		Example: `  gsl parse --spec spec.yaml source.gsl`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runParse,
	}
	parseFlags.spec = cmd.Flags().StringP("spec", "s", "", "field-spec table file (YAML, required)")
	parseFlags.source = cmd.Flags().StringP("source", "i", "", "source file path (default stdin)")
	parseFlags.format = cmd.Flags().StringP("format", "f", "text", "output format: one of text|json")
	cmd.MarkFlagRequired("spec")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if *parseFlags.format != "text" && *parseFlags.format != "json" {
		return fmt.Errorf("invalid output format: %v", *parseFlags.format)
	}

	fs, err := readFixtureSpec(*parseFlags.spec)
	if err != nil {
		return fmt.Errorf("cannot read spec file %s: %w", *parseFlags.spec, err)
	}

	table, captured, err := tester.Compile(*fs)
	if err != nil {
		return fmt.Errorf("cannot compile field-spec table: %w", err)
	}

	src := os.Stdin
	srcPath := *parseFlags.source
	if len(args) > 0 {
		srcPath = args[0]
	}
	if srcPath != "" {
		f, err := os.Open(srcPath)
		if err != nil {
			return fmt.Errorf("cannot open source file %s: %w", srcPath, err)
		}
		defer f.Close()
		src = f
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("cannot read source: %w", err)
	}

	consumed, perr := dispatch.ParseTask(data, table)
	if perr != nil {
		return fmt.Errorf("parse failed at byte %v: %v", perr.Offset, perr)
	}
	if consumed != len(data) {
		fmt.Fprintf(os.Stderr, "warning: %v trailing byte(s) after the parsed record\n", len(data)-consumed)
	}

	got := tester.Resolve(captured)
	switch *parseFlags.format {
	case "json":
		b, err := json.MarshalIndent(got, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(b))
	default:
		printCaptured(os.Stdout, got, 0)
	}
	return nil
}

func printCaptured(w io.Writer, tree map[string]any, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "    "
	}
	for k, v := range tree {
		switch val := v.(type) {
		case map[string]any:
			fmt.Fprintf(w, "%v%v:\n", indent, k)
			printCaptured(w, val, depth+1)
		default:
			fmt.Fprintf(w, "%v%v: %v\n", indent, k, val)
		}
	}
}

func readFixtureSpec(path string) (*tester.FixtureSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fs := &tester.FixtureSpec{}
	if err := yaml.Unmarshal(data, fs); err != nil {
		return nil, err
	}
	return fs, nil
}
