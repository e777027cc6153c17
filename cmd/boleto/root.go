package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/boleto/internal/boleto"
	"github.com/mmynk/boleto/internal/config"
	"github.com/mmynk/boleto/pkg/logging"
)

// app carries state shared by subcommands once the root pre-run has loaded it.
type app struct {
	cfgFile  string
	logLevel string

	cfg     config.Config
	decoder *boleto.Decoder
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "boleto",
		Short: "Decode Brazilian bank-slip barcodes and codelines",
		Long: `boleto decodes the 44-digit barcode or the 47-digit typed codeline of a
Brazilian bank slip, verifies its check digits and reports the due date and amount.

Examples:
  boleto decode 00190.00009 01234.567009 12345.000176 1 10010000010050
  boleto batch payables.xlsx > decoded.csv
  boleto serve --config boleto.yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Path to a YAML or TOML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newDecodeCmd(a),
		newBatchCmd(a),
		newScanCmd(a),
		newServeCmd(a),
		newTokenCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := logging.Setup(cfg.Log.Level); err != nil {
		return err
	}

	epoch, err := cfg.DueDate.Resolve()
	if err != nil {
		return fmt.Errorf("due date epoch: %w", err)
	}
	a.cfg = cfg
	a.decoder = boleto.NewDecoder(boleto.WithEpoch(epoch))
	return nil
}
