/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type listedRecord struct {
	ID      string    `json:"id"`
	Width   int       `json:"width"`
	Created time.Time `json:"created"`
}

func newListCmd(a *app) *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		Long: `List stored records in insertion order.

Examples:
  fixrec list
  fixrec list --limit 10 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.List(limit)
			if err != nil {
				return err
			}

			listed := make([]listedRecord, 0, len(records))
			for _, rec := range records {
				listed = append(listed, listedRecord{
					ID:      rec.ID.String(),
					Width:   rec.Width(),
					Created: rec.ID.Time().UTC(),
				})
			}

			if format == formatJSON {
				return outputJSON(cmd.OutOrStdout(), listed)
			}
			rows := make([][]string, 0, len(listed))
			for _, l := range listed {
				rows = append(rows, []string{l.ID, strconv.Itoa(l.Width), l.Created.Format(time.RFC3339)})
			}
			return outputTable(cmd.OutOrStdout(), []string{"ID", "WIDTH", "CREATED"}, rows)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of records to list (0 for all)")
	cmd.Flags().StringVarP(&format, "format", "o", formatTable, "Output format (table or json)")
	return cmd
}
