package boleto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochResolve(t *testing.T) {
	tests := []struct {
		name   string
		epoch  Epoch
		factor int
		want   string
	}{
		{name: "factor zero is open", epoch: DefaultEpoch, factor: 0, want: ""},
		{name: "base factor is the epoch", epoch: DefaultEpoch, factor: 1000, want: "1997-10-07"},
		{name: "one day after", epoch: DefaultEpoch, factor: 1001, want: "1997-10-08"},
		{name: "legacy offset", epoch: LegacyEpoch, factor: 1000, want: "2000-07-03"},
		{name: "legacy exhaustion", epoch: LegacyEpoch, factor: 9999, want: "2025-02-21"},
		{name: "rollover restart", epoch: RolloverEpoch2025, factor: 1000, want: "2025-02-22"},
		{name: "rollover zero still open", epoch: RolloverEpoch2025, factor: 0, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.epoch.Resolve(tt.factor)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.want == "", got.Open())
		})
	}
}

func TestEpochFactor(t *testing.T) {
	f, err := DefaultEpoch.Factor(time.Date(1997, 10, 8, 15, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1001, f)

	f, err = RolloverEpoch2025.Factor(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1007, f)
	assert.Equal(t, "2025-03-01", RolloverEpoch2025.Resolve(f).String())

	_, err = DefaultEpoch.Factor(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}

func TestRolloverDoesNotContinueDefault(t *testing.T) {
	assert.Equal(t, "2022-05-28", DefaultEpoch.Resolve(9999).String())
	assert.Equal(t, "2025-02-22", RolloverEpoch2025.Resolve(1000).String())
	assert.Equal(t, "2022-05-30", RolloverEpoch2025.Resolve(1).String())

	gap := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := DefaultEpoch.Factor(gap)
	assert.Error(t, err)
	f, err := RolloverEpoch2025.Factor(gap)
	require.NoError(t, err)
	assert.Less(t, f, 1000)
}

func TestEpochPreset(t *testing.T) {
	for name, want := range map[string]Epoch{
		"default":       DefaultEpoch,
		"rollover-2025": RolloverEpoch2025,
		"legacy":        LegacyEpoch,
	} {
		got, err := EpochPreset(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}

	_, err := EpochPreset("2099")
	assert.EqualError(t, err, `unknown due date preset "2099"`)
}

func TestEpochString(t *testing.T) {
	assert.Equal(t, "1997-10-07/1000", DefaultEpoch.String())
}

func TestResolveAmount(t *testing.T) {
	assert.True(t, ResolveAmount(0).Open())
	assert.Equal(t, "", ResolveAmount(0).String())

	a := ResolveAmount(123456)
	assert.False(t, a.Open())
	assert.Equal(t, "1234.56", a.String())
	d, ok := a.Decimal()
	require.True(t, ok)
	assert.Equal(t, "1234.56", d.String())

	assert.Equal(t, "100.00", ResolveAmount(10000).String())
	assert.Equal(t, "99999999.99", ResolveAmount(9999999999).String())
}
