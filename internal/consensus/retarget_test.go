package consensus

import (
	"testing"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestRetargeter_NoChangeBeforeWindowFull(t *testing.T) {
	r := NewRetargeter(chain.PowInitialDifficulty)
	for i := 0; i < chain.DifficultyWindowSize-1; i++ {
		d, changed := r.Solve(types.Timestamp(i * 10))
		require.False(t, changed)
		require.Equal(t, chain.PowInitialDifficulty, d)
	}
}

func TestRetargeter_SpeedsUpWhenSolvesAreFast(t *testing.T) {
	r := NewRetargeter(chain.PowInitialDifficulty)
	var last int
	var changed bool
	// Gaps of 1s, far below the 10s target, should raise difficulty.
	for i := 0; i < chain.DifficultyWindowSize; i++ {
		last, changed = r.Solve(types.Timestamp(i))
	}
	require.True(t, changed)
	require.Greater(t, last, chain.PowInitialDifficulty)
}

func TestRetargeter_SlowsDownWhenSolvesAreSlow(t *testing.T) {
	r := NewRetargeter(chain.PowInitialDifficulty)
	var last int
	for i := 0; i < chain.DifficultyWindowSize; i++ {
		last, _ = r.Solve(types.Timestamp(i * 1000))
	}
	require.Less(t, last, chain.PowInitialDifficulty)
}

func TestRetargeter_ClampsAtMax(t *testing.T) {
	r := NewRetargeter(chain.PowMaxDifficulty)
	var last int
	for i := 0; i < chain.DifficultyWindowSize; i++ {
		last, _ = r.Solve(types.Timestamp(i))
	}
	require.LessOrEqual(t, last, chain.PowMaxDifficulty)
}

func TestRetargeter_ClampsAtMin(t *testing.T) {
	r := NewRetargeter(chain.PowMinDifficulty)
	var last int
	for i := 0; i < chain.DifficultyWindowSize; i++ {
		last, _ = r.Solve(types.Timestamp(i * 100000))
	}
	require.GreaterOrEqual(t, last, chain.PowMinDifficulty)
}

func TestRetargeter_ZeroGapBumpsByOne(t *testing.T) {
	r := NewRetargeter(chain.PowInitialDifficulty)
	var last int
	for i := 0; i < chain.DifficultyWindowSize; i++ {
		last, _ = r.Solve(types.Timestamp(42))
	}
	require.Equal(t, chain.PowInitialDifficulty+1, last)
}

func TestRetargeter_WindowClearsAfterRetarget(t *testing.T) {
	r := NewRetargeter(chain.PowInitialDifficulty)
	for i := 0; i < chain.DifficultyWindowSize; i++ {
		r.Solve(types.Timestamp(i * 10))
	}
	require.Empty(t, r.window)
}
