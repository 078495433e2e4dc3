/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/gonap/gava/pkg/fixed"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPackCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack <values.yaml> <out-file>",
		Short: "Encode field values into a fixed-width file",
		Long: `Encode a YAML (or JSON) list of field name to value maps into
fixed-width records using the field layout from the config. Values longer
than their field are truncated; missing fields are padded.

Example values file:
  - id: A0001
    first: GON
    last: YI
    age: "41"

Example:
  fixrec pack roster.yaml roster.dat`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout := a.cfg.Record.Fields
			if len(layout) == 0 {
				return errors.New("no record fields configured")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var rows []map[string]string
			if err := yaml.Unmarshal(data, &rows); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close()

			pad := a.cfg.Record.PadByte()
			w, err := fixed.NewWriterPad(out, a.cfg.Record.Width, pad)
			if err != nil {
				return err
			}
			rec, err := fixed.NewRecordPad(a.cfg.Record.Width, pad)
			if err != nil {
				return err
			}

			for i, row := range rows {
				if err := layout.Encode(rec, row); err != nil {
					return fmt.Errorf("row %d: %w", i, err)
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}

			cmd.Printf("Wrote %d records of %d bytes to %s\n", w.Count(), w.Width(), args[1])
			return nil
		},
	}
	return cmd
}
