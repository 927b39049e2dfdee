package p2p

import (
	"fmt"

	"github.com/chronx-io/chronx/internal/chain"
)

// BroadcastVertex publishes a signed transaction to the gossip network as a
// NewVertex message.
func (n *Node) BroadcastVertex(t *chain.Transaction) error {
	if n.topicVertex == nil {
		return fmt.Errorf("p2p node not started")
	}
	return n.topicVertex.Publish(n.ctx, t.Encode())
}
