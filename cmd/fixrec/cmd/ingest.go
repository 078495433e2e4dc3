/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/gonap/gava/pkg/ingest"
	"github.com/spf13/cobra"
)

func newIngestCmd(a *app) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Store every record of a file",
		Long: `Read a fixed-width file and store a snapshot of every complete
record. Records are committed in batches of record.batch_size.

Example:
  fixrec ingest roster.dat --width 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			ing := ingest.New(s,
				ingest.WithBufferSize(a.cfg.Record.BufferSize),
				ingest.WithBatchSize(a.cfg.Record.BatchSize),
				ingest.WithPad(a.cfg.Record.PadByte()),
				ingest.WithLogger(a.logger),
			)

			res, err := ing.IngestFile(cmd.Context(), args[0], a.width(width))
			if err != nil {
				return err
			}

			cmd.Printf("Stored %d records\n", res.Records)
			if res.TrailingBytes > 0 {
				cmd.Printf("Dropped %d trailing bytes\n", res.TrailingBytes)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, "Record width in bytes (default from config)")
	return cmd
}
