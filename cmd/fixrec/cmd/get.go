/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/gonap/gava/pkg/fixed"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

type storedRecordOutput struct {
	ID     string             `json:"id"`
	Width  int                `json:"width"`
	Data   string             `json:"data"`
	Fields []fixed.FieldValue `json:"fields,omitempty"`
}

func newGetCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print a stored record",
		Long: `Print a stored record by id. With --format json the configured
record fields are decoded as well.

Example:
  fixrec get 2zPyQ7hI0hMkbzbq1bY4BjvL9Aq`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			id, err := ksuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid record id %q: %w", args[0], err)
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.Read(id)
			if err != nil {
				return err
			}

			if format == formatTable {
				cmd.Printf("%s\n", string(rec.Data))
				return nil
			}

			out := storedRecordOutput{ID: rec.ID.String(), Width: rec.Width(), Data: string(rec.Data)}
			if layout := a.layout(rec.Width()); len(layout) > 0 {
				r, err := fixed.NewRecordPad(rec.Width(), a.cfg.Record.PadByte())
				if err != nil {
					return err
				}
				if err := r.Load(rec.Data); err != nil {
					return err
				}
				if out.Fields, err = layout.Decode(r, true); err != nil {
					return err
				}
			}
			return outputJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", formatTable, "Output format (table or json)")
	return cmd
}
