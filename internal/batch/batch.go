// Package batch decodes many candidates at once, for example a spreadsheet
// of codelines exported from an accounts-payable system.
package batch

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/boleto/internal/boleto"
	"github.com/mmynk/boleto/internal/scan"
)

// Item is the outcome for one candidate. Exactly one of Result and Err is set.
type Item struct {
	Candidate
	Result *boleto.Result
	Err    error
}

// Report is the outcome of one Run, in input order.
type Report struct {
	RunID string
	Items []Item
}

// Valid counts items that decoded with valid checksums.
func (r *Report) Valid() int {
	n := 0
	for _, it := range r.Items {
		if it.Result != nil && it.Result.ChecksumValid {
			n++
		}
	}
	return n
}

// Run decodes candidates with at most workers goroutines. Decode failures are
// recorded per item; Run itself only fails when ctx is cancelled.
func Run(ctx context.Context, dec scan.Decoder, candidates []Candidate, workers int) (*Report, error) {
	report := &Report{
		RunID: uuid.NewString(),
		Items: make([]Item, len(candidates)),
	}
	logger := slog.With("run_id", report.RunID)
	logger.Info("Batch started", "candidates", len(candidates), "workers", workers)

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, c := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := dec.Decode(c.Raw)
			report.Items[i] = Item{Candidate: c, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("Batch aborted", "error", err)
		return nil, err
	}

	logger.Info("Batch finished", "candidates", len(candidates), "valid", report.Valid())
	return report, nil
}

var csvHeader = []string{"line", "input", "format", "checksum_valid", "mismatches", "due_date", "amount", "error"}

// WriteCSV writes one row per item. Open due dates and amounts are empty cells.
func WriteCSV(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, it := range report.Items {
		row := []string{strconv.Itoa(it.Line), it.Raw, "", "", "", "", "", ""}
		if it.Err != nil {
			row[7] = boleto.KindOf(it.Err).String()
		} else {
			names := make([]string, len(it.Result.Mismatches))
			for i, b := range it.Result.Mismatches {
				names[i] = b.String()
			}
			row[2] = it.Result.Format.String()
			row[3] = strconv.FormatBool(it.Result.ChecksumValid)
			row[4] = strings.Join(names, ";")
			row[5] = it.Result.DueDate.String()
			row[6] = it.Result.Amount.String()
			if err := it.Result.Err(); err != nil {
				row[7] = boleto.KindOf(err).String()
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
