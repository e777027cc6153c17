package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/boleto/internal/boleto"
	"github.com/mmynk/boleto/internal/service"
)

func newDecodeCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "decode <barcode or codeline>...",
		Short: "Decode one slip given on the command line",
		Long: `Decode one slip. All arguments are joined, so a codeline may be pasted with
its dots and spaces. A checksum mismatch prints a warning; use --strict to turn
it into a failure.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.decoder.Decode(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if err := printResult(cmd.OutOrStdout(), res, asJSON); err != nil {
				return err
			}
			if mismatch := res.Err(); mismatch != nil {
				if strict {
					return mismatch
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", mismatch)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any check digit does not match")
	return cmd
}

func printResult(w io.Writer, res *boleto.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(service.ResultView(res))
	}

	dueDate := res.DueDate.String()
	if res.DueDate.Open() {
		dueDate = "(not specified)"
	}
	amount := res.Amount.String()
	if res.Amount.Open() {
		amount = "(open)"
	}
	barcode, codeline := res.Barcode(), boleto.FormatCodeline(res.Codeline())
	if barcode == "" {
		barcode = withheld
	}
	if codeline == "" {
		codeline = withheld
	}
	if _, err := fmt.Fprintf(w,
		"Format:    %s\nBank:      %s\nDue date:  %s\nAmount:    %s\nChecksum:  %s\nBarcode:   %s\nCodeline:  %s\n",
		res.Format, res.Fields.BankCode, dueDate, amount, checksumLabel(res),
		barcode, codeline,
	); err != nil {
		return err
	}
	if res.ChecksumValid {
		return nil
	}
	_, err := fmt.Fprintf(w, "Corrected: %s\n", correctedForm(res))
	return err
}

const withheld = "(not converted, check digits do not match)"

// correctedForm is the input's own format with recomputed check digits.
func correctedForm(res *boleto.Result) string {
	if res.Format == boleto.Codeline47 {
		return boleto.FormatCodeline(res.CorrectedCodeline())
	}
	return res.CorrectedBarcode()
}

func checksumLabel(res *boleto.Result) string {
	if res.ChecksumValid {
		return "valid"
	}
	names := make([]string, len(res.Mismatches))
	for i, b := range res.Mismatches {
		names[i] = b.String()
	}
	return "INVALID (" + strings.Join(names, ", ") + ")"
}
