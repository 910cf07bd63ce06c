package main

import (
	"fmt"
	"io"
	"os"

	"github.com/globbie/gsl-go/size"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "size",
		Short:   "Read a single unenclosed numeric field",
		Example: `  echo 12345 | gsl size`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runSize,
	}
	rootCmd.AddCommand(cmd)
}

func runSize(cmd *cobra.Command, args []string) error {
	src := os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("cannot open source file %s: %w", args[0], err)
		}
		defer f.Close()
		src = f
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("cannot read source: %w", err)
	}

	var n uint64
	_, perr := size.ParseSize(&n, data)
	if perr != nil {
		return fmt.Errorf("parse failed at byte %v: %v", perr.Offset, perr)
	}

	fmt.Fprintln(os.Stdout, n)
	return nil
}
