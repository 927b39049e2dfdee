package mempool

import (
	"fmt"

	"github.com/chronx-io/chronx/internal/chain"
)

// DefaultMaxTxSize is the maximum transaction body size in bytes.
const DefaultMaxTxSize = 100_000

// DefaultMaxActions is the maximum number of actions a single transaction
// may declare (transactions batch actions, but unbounded
// batching would let one vertex stall the single-task dispatcher).
const DefaultMaxActions = 64

// Policy defines node-local transaction acceptance rules, independent of
// the engine's consensus-critical validation (internal/engine.Apply).
type Policy struct {
	MaxTxSize   int
	MaxActions  int
	MaxParents  int
}

// DefaultPolicy returns a policy with sensible defaults.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxTxSize:  DefaultMaxTxSize,
		MaxActions: DefaultMaxActions,
		MaxParents: chain.DAGMaxParents,
	}
}

// Check validates a transaction against policy rules before it enters the
// mempool. This is separate from the engine's consensus validation — policy
// rules can vary per node and exist only to bound local resource use.
func (p *Policy) Check(t *chain.Transaction) error {
	size := len(t.BodyBytes())
	if p.MaxTxSize > 0 && size > p.MaxTxSize {
		return fmt.Errorf("transaction too large: %d bytes, max %d", size, p.MaxTxSize)
	}
	if p.MaxActions > 0 && len(t.Actions) > p.MaxActions {
		return fmt.Errorf("too many actions: %d, max %d", len(t.Actions), p.MaxActions)
	}
	if p.MaxParents > 0 && len(t.Parents) > p.MaxParents {
		return fmt.Errorf("too many parents: %d, max %d", len(t.Parents), p.MaxParents)
	}
	return nil
}
