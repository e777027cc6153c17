// Package scan drives the decoder from a stream of scanner candidates.
//
// A camera scanner produces candidate strings at frame rate, most of them
// partial reads. FirstValid decodes each one as it arrives and stops at the
// first checksum-valid slip.
package scan

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/boleto/internal/boleto"
)

// ErrNoValidCandidate is returned when the candidate stream ends without a
// checksum-valid slip.
var ErrNoValidCandidate = errors.New("no valid boleto among candidates")

// Decoder is the subset of *boleto.Decoder used here.
type Decoder interface {
	Decode(raw string) (*boleto.Result, error)
}

// FirstValid reads candidates until one decodes with valid checksums and
// returns it. It returns ctx.Err() when ctx is cancelled first, and
// ErrNoValidCandidate when candidates is closed first. Every candidate is
// decoded; nothing is cached between frames.
func FirstValid(ctx context.Context, dec Decoder, candidates <-chan string) (*boleto.Result, error) {
	rejected := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case raw, ok := <-candidates:
			if !ok {
				slog.Debug("Scan finished without a valid slip", "rejected", rejected)
				return nil, ErrNoValidCandidate
			}
			res, err := dec.Decode(raw)
			if err != nil {
				rejected++
				slog.Debug("Scan candidate rejected", "kind", boleto.KindOf(err), "rejected", rejected)
				continue
			}
			if !res.ChecksumValid {
				rejected++
				slog.Debug("Scan candidate failed checksum", "mismatches", res.Mismatches, "rejected", rejected)
				continue
			}
			slog.Debug("Scan accepted candidate", "format", res.Format, "rejected", rejected)
			return res, nil
		}
	}
}
