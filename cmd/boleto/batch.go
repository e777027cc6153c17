package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/boleto/internal/batch"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		workers int
		output  string
	)
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Decode every slip in a text, CSV or XLSX file",
		Long: `Decode every slip in a file and write one CSV row per input. Plain text files
hold one slip per line; CSV and XLSX files are read from their first column.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidates, err := batch.ReadCandidates(args[0])
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = a.cfg.Batch.Workers
			}

			report, err := batch.Run(cmd.Context(), a.decoder, candidates, workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer f.Close()
				out = f
			}
			if err := batch.WriteCSV(out, report); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			slog.Info("Batch written", "run_id", report.RunID, "rows", len(report.Items), "valid", report.Valid())
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent decoders (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the CSV report to a file instead of stdout")
	return cmd
}
