package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/boleto/internal/boleto"
)

func TestObserveDecode(t *testing.T) {
	m := New(prometheus.NewRegistry())

	valid, err := boleto.Decode("00198100000000000000000000000000000000000000")
	require.NoError(t, err)
	m.ObserveDecode(valid, nil)

	broken, err := boleto.Decode("00190000000000000000000000000000810000000000000")
	require.NoError(t, err)
	require.False(t, broken.ChecksumValid)
	m.ObserveDecode(broken, nil)

	_, err = boleto.Decode("123")
	m.ObserveDecode(nil, err)
	_, err = boleto.Decode("")
	m.ObserveDecode(nil, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decodes.WithLabelValues("barcode", OutcomeValid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decodes.WithLabelValues("codeline", OutcomeChecksumMismatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decodes.WithLabelValues("unknown", "invalid_length")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decodes.WithLabelValues("unknown", "empty_input")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChecksumFailures.WithLabelValues("block1")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ChecksumFailures.WithLabelValues("general")))
}
