package p2p

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/pkg/types"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
)

const (
	// vertexReadTimeout is the max time to read a RequestVertex response.
	vertexReadTimeout = 30 * time.Second

	// maxVertexResponseBytes limits a single transaction response (1 MB is
	// far beyond any well-formed transaction's encoded size).
	maxVertexResponseBytes = 1024 * 1024
)

// Syncer handles DAG catch-up with peers: fetching a specific vertex by id
// and exchanging tip sets (the RequestVertex / SyncTips / RequestTips messages).
type Syncer struct {
	node *Node
	host host.Host
}

// NewSyncer creates a new syncer attached to the given node.
func NewSyncer(node *Node) *Syncer {
	return &Syncer{
		node: node,
		host: node.host,
	}
}

// RegisterVertexHandler registers the RequestVertex stream handler. provider
// returns the transaction for id, or nil if unknown.
func (s *Syncer) RegisterVertexHandler(provider func(id types.TxId) *chain.Transaction) {
	s.host.SetStreamHandler(VertexRequestProtocol, func(stream network.Stream) {
		defer stream.Close()

		_ = stream.SetReadDeadline(time.Now().Add(vertexReadTimeout))
		var req [32]byte
		if _, err := io.ReadFull(stream, req[:]); err != nil {
			return
		}

		tx := provider(types.TxId(req))
		if tx == nil {
			return
		}
		stream.Write(tx.Encode())
	})
}

// RequestVertex asks peerID for the transaction identified by id. Returns
// nil if the peer does not have it.
func (s *Syncer) RequestVertex(ctx context.Context, peerID peer.ID, id types.TxId) (*chain.Transaction, error) {
	stream, err := s.host.NewStream(ctx, peerID, VertexRequestProtocol)
	if err != nil {
		return nil, fmt.Errorf("open vertex-request stream: %w", err)
	}
	defer stream.Close()

	if _, err := stream.Write(id[:]); err != nil {
		return nil, fmt.Errorf("send vertex request: %w", err)
	}
	stream.CloseWrite()

	_ = stream.SetReadDeadline(time.Now().Add(vertexReadTimeout))
	data, err := io.ReadAll(io.LimitReader(stream, maxVertexResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read vertex response: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return chain.DecodeTransaction(data)
}
