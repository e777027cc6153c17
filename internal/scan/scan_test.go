package scan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/boleto/internal/boleto"
)

const (
	validBarcode  = "00191100100000100500000001234567001234500017"
	brokenBarcode = "00191100109000100500000001234567001234500017"
)

// countingDecoder records how many candidates were decoded.
type countingDecoder struct {
	calls int
}

func (d *countingDecoder) Decode(raw string) (*boleto.Result, error) {
	d.calls++
	return boleto.Decode(raw)
}

func feed(values ...string) <-chan string {
	ch := make(chan string, len(values))
	for _, v := range values {
		ch <- v
	}
	close(ch)
	return ch
}

func TestFirstValidStopsAtFirstValid(t *testing.T) {
	dec := &countingDecoder{}
	candidates := feed("", "0019110", brokenBarcode, "label: "+validBarcode, validBarcode)

	res, err := FirstValid(context.Background(), dec, candidates)
	require.NoError(t, err)
	assert.True(t, res.ChecksumValid)
	assert.Equal(t, "100.50", res.Amount.String())
	assert.Equal(t, 4, dec.calls)
}

func TestFirstValidExhausted(t *testing.T) {
	_, err := FirstValid(context.Background(), &countingDecoder{}, feed("abc", brokenBarcode))
	assert.ErrorIs(t, err, ErrNoValidCandidate)
}

func TestFirstValidCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	candidates := make(chan string) // never written
	_, err := FirstValid(ctx, &countingDecoder{}, candidates)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFirstValidRepeatedFramesAreDecodedEachTime(t *testing.T) {
	dec := &countingDecoder{}
	_, err := FirstValid(context.Background(), dec, feed(brokenBarcode, brokenBarcode, brokenBarcode))
	assert.ErrorIs(t, err, ErrNoValidCandidate)
	assert.Equal(t, 3, dec.calls)
}
