package mempool

import "github.com/chronx-io/chronx/pkg/types"

// EvictExpired drops pending transactions whose ExpiresAt has passed as of
// now, so a client that goes offline before its transaction gets applied
// doesn't leave dead weight in the pool forever. Returns the count evicted.
func (p *Pool) EvictExpired(now types.Timestamp) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	evicted := 0
	kept := p.order[:0]
	for _, id := range p.order {
		t := p.byID[id]
		if t.HasExpiresAt && now >= t.ExpiresAt {
			delete(p.byID, id)
			evicted++
			continue
		}
		kept = append(kept, id)
	}
	p.order = kept
	return evicted
}
