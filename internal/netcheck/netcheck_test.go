package netcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLadderTransferMatchesIdeal(t *testing.T) {
	for _, code := range []int{0, 1, 2, 64, 127, 128, 200, 255} {
		got, err := LadderTransfer(8, 2000, 1.0, code)
		require.NoError(t, err)
		assert.InDelta(t, Ideal(8, 1.0, code), got, 1e-12, "code %d", code)
	}
}

func TestLadderTransferScalesWithVref(t *testing.T) {
	a, err := LadderTransfer(4, 1000, 1.0, 9)
	require.NoError(t, err)
	b, err := LadderTransfer(4, 1000, 3.3, 9)
	require.NoError(t, err)
	assert.InDelta(t, 3.3*a, b, 1e-12)
}

func TestLadderTransferIndependentOfR(t *testing.T) {
	// The transfer is a pure divider; the unit value cancels.
	a, err := LadderTransfer(6, 500, 1.0, 33)
	require.NoError(t, err)
	b, err := LadderTransfer(6, 50000, 1.0, 33)
	require.NoError(t, err)
	assert.InDelta(t, a, b, 1e-12)
}

func TestVerifyR2R(t *testing.T) {
	assert.NoError(t, VerifyR2R(8, 2000, 1.0, 1e-9))
	assert.NoError(t, VerifyR2R(4, 1300, 1.2, 1e-9))
}

func TestLadderTransferRejectsBadInput(t *testing.T) {
	_, err := LadderTransfer(0, 2000, 1.0, 0)
	assert.Error(t, err)
	_, err = LadderTransfer(8, -1, 1.0, 0)
	assert.Error(t, err)
	_, err = LadderTransfer(8, 2000, 1.0, 256)
	assert.Error(t, err)
	_, err = LadderTransfer(8, 2000, 1.0, -1)
	assert.Error(t, err)
}
