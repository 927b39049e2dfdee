// Package consensus implements ChronX's PoW difficulty retargeter and
// finality tracker: the two pieces of chain-wide bookkeeping that sit
// beside the state engine but outside its per-transaction atomicity
// contract. The retargeter uses a clamp-and-divide adjustment shape and
// the finality tracker a per-TxId map of confirmer sets, adapted from
// block-interval PoW to ChronX's per-vertex rolling-window retarget.
package consensus

import (
	"sync"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/types"
)

// Retargeter tracks the timestamps of the last N accepted transactions and
// recomputes difficulty every N solves. It holds no link to
// the store — the engine/node glue persists the returned difficulty via
// store.MetaKeyDifficulty after every Solve call that returns changed=true.
type Retargeter struct {
	mu         sync.Mutex
	window     []types.Timestamp
	windowSize int
	target     int64 // TargetSolveSeconds
	current    int
	min        int
	max        int
}

// NewRetargeter builds a retargeter seeded with the genesis/initial
// difficulty. windowSize, target, min and max are always the protocol's
// constants.go values.
func NewRetargeter(initial int) *Retargeter {
	return &Retargeter{
		windowSize: chain.DifficultyWindowSize,
		target:     chain.TargetSolveSeconds,
		current:    initial,
		min:        chain.PowMinDifficulty,
		max:        chain.PowMaxDifficulty,
	}
}

// Current returns the active difficulty. Never mutated outside Solve.
func (r *Retargeter) Current() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Solve records the acceptance timestamp of a newly accepted transaction.
// On the Nth solve it recomputes difficulty from the mean of consecutive
// gaps in the window, clamps to [min, max], and clears the window. Returns
// the (possibly unchanged) current difficulty and whether it changed.
func (r *Retargeter) Solve(at types.Timestamp) (difficulty int, changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.window = append(r.window, at)
	if len(r.window) < r.windowSize {
		return r.current, false
	}

	avgGap := r.averageGap()
	old := r.current
	if avgGap == 0 {
		r.current = clamp(r.current+1, r.min, r.max)
	} else {
		// new_difficulty = clamp(current * target / avg_gap, min, max)
		scaled := (int64(r.current) * r.target) / avgGap
		r.current = clamp(int(scaled), r.min, r.max)
	}
	r.window = r.window[:0]
	return r.current, r.current != old
}

// averageGap returns the mean of consecutive gaps across the full window.
// Zero when every timestamp in the window is identical.
func (r *Retargeter) averageGap() int64 {
	if len(r.window) < 2 {
		return 0
	}
	var sum int64
	for i := 1; i < len(r.window); i++ {
		sum += int64(r.window[i] - r.window[i-1])
	}
	n := int64(len(r.window) - 1)
	if n == 0 {
		return 0
	}
	return sum / n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
