/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/gonap/gava/pkg/fixed"
	"github.com/gonap/gava/pkg/storage"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write stored records back to a fixed-width file",
		Long: `Write every stored record of the given width to a file, in
insertion order and without delimiters. Records of other widths are skipped.

Example:
  fixrec export roster.dat --width 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			out, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer out.Close()

			w := a.width(width)
			fw, err := fixed.NewWriterPad(out, w, a.cfg.Record.PadByte())
			if err != nil {
				return err
			}

			skipped := 0
			err = s.Scan(func(rec storage.StoredRecord) error {
				if rec.Width() != w {
					skipped++
					return nil
				}
				return fw.WriteBytes(rec.Data)
			})
			if err != nil {
				return fmt.Errorf("failed to export records: %w", err)
			}
			if err := fw.Flush(); err != nil {
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}

			cmd.Printf("Exported %d records to %s\n", fw.Count(), args[0])
			if skipped > 0 {
				cmd.Printf("Skipped %d records of other widths\n", skipped)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, "Record width in bytes (default from config)")
	return cmd
}
