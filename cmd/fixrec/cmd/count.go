/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/gonap/gava/pkg/fixed"
	"github.com/spf13/cobra"
)

func newCountCmd(a *app) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "count <file>",
		Short: "Count the complete records in a file",
		Long: `Count the complete fixed-width records in a file. Bytes left over
after the last complete record are reported but not counted.

Example:
  fixrec count roster.dat --width 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			r, err := a.newReader(f, a.width(width))
			if err != nil {
				return err
			}
			n, err := r.Each(func(*fixed.Record) error { return nil })
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			cmd.Printf("records: %d\n", n)
			cmd.Printf("trailing bytes: %d\n", r.Trailing())
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, "Record width in bytes (default from config)")
	return cmd
}
