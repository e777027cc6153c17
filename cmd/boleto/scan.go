package main

import (
	"bufio"
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmynk/boleto/internal/scan"
)

func newScanCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Read scanner candidates from stdin until one is valid",
		Long: `Read one candidate per line from stdin, as written by a barcode scanner in
keyboard mode or a camera decoder, and print the first slip whose check
digits all match.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			candidates := make(chan string)
			go readCandidates(ctx, bufio.NewScanner(cmd.InOrStdin()), candidates)

			res, err := scan.FirstValid(ctx, a.decoder, candidates)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func readCandidates(ctx context.Context, sc *bufio.Scanner, out chan<- string) {
	defer close(out)
	for sc.Scan() {
		select {
		case out <- sc.Text():
		case <-ctx.Done():
			return
		}
	}
}
