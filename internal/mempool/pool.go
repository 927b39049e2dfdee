// Package mempool holds inbound transactions waiting to be applied to the
// ledger: a bounded FIFO staging area between the gossip/RPC
// ingress paths and the single-task state-engine dispatcher. Unlike a
// UTXO chain's fee-market mempool, ChronX has no block template to fill
// and no fee-rate auction — admission is duplicate/capacity rejection
// only, and the engine drains the pool in arrival order.
package mempool

import (
	"errors"
	"sync"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/types"
)

// Pool errors.
var (
	ErrAlreadyExists = errors.New("transaction already in mempool")
	ErrPoolFull      = errors.New("mempool is full")
)

// Pool holds pending transactions in FIFO arrival order.
type Pool struct {
	mu      sync.Mutex
	order   []types.TxId
	byID    map[types.TxId]*chain.Transaction
	maxSize int
}

// New creates a new mempool with the given max size (0 = default 5000).
func New(maxSize int) *Pool {
	if maxSize <= 0 {
		maxSize = 5000
	}
	return &Pool{
		byID:    make(map[types.TxId]*chain.Transaction),
		maxSize: maxSize,
	}
}

// Add enqueues a transaction. Rejects duplicates and enforces the size cap;
// unlike a fee-market pool there is no eviction by priority — a full pool
// rejects new arrivals outright so submitters retry instead of silently
// losing a competing transaction.
func (p *Pool) Add(t *chain.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byID[t.TxId]; exists {
		return ErrAlreadyExists
	}
	if len(p.order) >= p.maxSize {
		return ErrPoolFull
	}

	p.byID[t.TxId] = t
	p.order = append(p.order, t.TxId)
	return nil
}

// Remove removes a transaction from the pool by id.
func (p *Pool) Remove(id types.TxId) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(id)
}

func (p *Pool) removeLocked(id types.TxId) {
	if _, exists := p.byID[id]; !exists {
		return
	}
	delete(p.byID, id)
	for i, other := range p.order {
		if other == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Has reports whether a transaction is in the pool.
func (p *Pool) Has(id types.TxId) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, exists := p.byID[id]
	return exists
}

// Get retrieves a transaction by id, or nil if absent.
func (p *Pool) Get(id types.TxId) *chain.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.byID[id]
}

// Count returns the number of pending transactions.
func (p *Pool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.order)
}

// Next pops the oldest pending transaction, or nil if the pool is empty.
// The engine's dispatch loop calls this to drain the pool in arrival order.
func (p *Pool) Next() *chain.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.order) == 0 {
		return nil
	}
	id := p.order[0]
	p.order = p.order[1:]
	t := p.byID[id]
	delete(p.byID, id)
	return t
}

// Drain removes and returns up to limit pending transactions in arrival
// order, for callers that batch instead of pulling one at a time.
func (p *Pool) Drain(limit int) []*chain.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	if limit <= 0 || limit > len(p.order) {
		limit = len(p.order)
	}
	out := make([]*chain.Transaction, limit)
	for i := 0; i < limit; i++ {
		id := p.order[i]
		out[i] = p.byID[id]
		delete(p.byID, id)
	}
	p.order = p.order[limit:]
	return out
}
