/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/gonap/gava/pkg/fixed"
	"github.com/spf13/cobra"
)

// errLimitReached stops a dump once enough records were printed
var errLimitReached = errors.New("limit reached")

type dumpedRecord struct {
	Index  int                `json:"index"`
	Data   string             `json:"data"`
	Fields []fixed.FieldValue `json:"fields,omitempty"`
}

func newDumpCmd(a *app) *cobra.Command {
	var (
		width  int
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the records of a file",
		Long: `Print the fixed-width records of a file, one per row. When the
config defines record fields and the width matches, each field gets its own
column.

Examples:
  fixrec dump roster.dat --width 20
  fixrec dump roster.dat --limit 5 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			w := a.width(width)
			r, err := a.newReader(f, w)
			if err != nil {
				return err
			}
			layout := a.layout(w)

			var records []dumpedRecord
			_, err = r.Each(func(rec *fixed.Record) error {
				if limit > 0 && len(records) >= limit {
					return errLimitReached
				}
				d := dumpedRecord{Index: len(records), Data: rec.String()}
				if len(layout) > 0 {
					fields, err := layout.Decode(rec, true)
					if err != nil {
						return err
					}
					d.Fields = fields
				}
				records = append(records, d)
				return nil
			})
			if err != nil && !errors.Is(err, errLimitReached) {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			if format == formatJSON {
				return outputJSON(cmd.OutOrStdout(), records)
			}
			return outputTable(cmd.OutOrStdout(), dumpHeader(layout), dumpRows(records))
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, "Record width in bytes (default from config)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of records to print (0 for all)")
	cmd.Flags().StringVarP(&format, "format", "o", formatTable, "Output format (table or json)")
	return cmd
}

func dumpHeader(layout fixed.Layout) []string {
	if len(layout) == 0 {
		return []string{"#", "DATA"}
	}
	return append([]string{"#"}, layout.Names()...)
}

func dumpRows(records []dumpedRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, d := range records {
		row := []string{strconv.Itoa(d.Index)}
		if len(d.Fields) == 0 {
			row = append(row, d.Data)
		}
		for _, f := range d.Fields {
			row = append(row, f.Value)
		}
		rows = append(rows, row)
	}
	return rows
}
