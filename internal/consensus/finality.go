package consensus

import (
	"sync"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/types"
)

// FinalityStatus mirrors the Vertex record's finality sum type.
type FinalityStatus uint8

const (
	FinalityPending FinalityStatus = iota
	FinalityFinal
	FinalityRejected
)

// FinalityTracker records, per TxId, the set of validator accounts that
// have confirmed a vertex. It is purely in-memory bookkeeping:
// confirmations are not part of the atomic engine commit and reset on
// restart: non-consensus-critical state is rebuilt fresh on process start.
type FinalityTracker struct {
	mu        sync.Mutex
	confirmed map[types.TxId]map[types.AccountId]struct{}
}

// NewFinalityTracker creates an empty tracker.
func NewFinalityTracker() *FinalityTracker {
	return &FinalityTracker{confirmed: make(map[types.TxId]map[types.AccountId]struct{})}
}

// Confirm records a confirmation from validator for vertex txId. Returns
// the updated confirmer count and whether the vertex just crossed the
// finality threshold against activeValidators. isValidator must already
// have been checked by the caller (non-validator senders are ignored per
// the weighted-validator rule); duplicate confirmations from the same validator are no-ops.
func (t *FinalityTracker) Confirm(txId types.TxId, validator types.AccountId, activeValidators int) (count int, becameFinal bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.confirmed[txId]
	if !ok {
		set = make(map[types.AccountId]struct{})
		t.confirmed[txId] = set
	}
	set[validator] = struct{}{}
	count = len(set)

	threshold := ceilDiv(chain.FinalityThresholdNum*activeValidators, chain.FinalityThresholdDen)
	if count >= threshold && threshold > 0 {
		delete(t.confirmed, txId)
		return count, true
	}
	return count, false
}

// Purge drops tracking state for txId without checking the threshold —
// used when a vertex is independently rejected.
func (t *FinalityTracker) Purge(txId types.TxId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.confirmed, txId)
}

// ConfirmerCount reports how many distinct validators have confirmed txId.
func (t *FinalityTracker) ConfirmerCount(txId types.TxId) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.confirmed[txId])
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
