// Package dag implements ChronX's vertex admission pipeline: the DAG
// structural checks and per-action signature verification a transaction
// must pass before the engine (internal/engine) may apply it.
package dag

import (
	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/types"
)

// VertexStatus is the lifecycle of an admitted DAG vertex.
type VertexStatus uint8

const (
	VertexPending VertexStatus = iota
	VertexConfirmed
	VertexFinal
)

// Vertex wraps a transaction with the DAG-local bookkeeping the finality
// tracker and tips index need: depth, arrival time, and the confirming set.
type Vertex struct {
	Tx         *chain.Transaction
	Depth      uint64
	ReceivedAt types.Timestamp
	Status     VertexStatus

	// Children holds every vertex that names this one as a parent. Populated
	// incrementally as later vertices arrive.
	Children []types.TxId

	// ConfirmedBy is the set of distinct validator accounts whose own
	// vertices transitively descend from this one — the
	// confirmation-count finality rule.
	ConfirmedBy map[types.AccountId]struct{}
}

// NewVertex wraps tx at depth, freshly received, with no confirmations yet.
func NewVertex(tx *chain.Transaction, depth uint64, receivedAt types.Timestamp) *Vertex {
	return &Vertex{
		Tx:          tx,
		Depth:       depth,
		ReceivedAt:  receivedAt,
		Status:      VertexPending,
		ConfirmedBy: make(map[types.AccountId]struct{}),
	}
}

// ConfirmationCount is the number of distinct validators that have
// confirmed this vertex.
func (v *Vertex) ConfirmationCount() int {
	return len(v.ConfirmedBy)
}
