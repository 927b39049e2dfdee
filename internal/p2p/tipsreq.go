package p2p

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/chronx-io/chronx/pkg/types"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
)

const (
	// tipsReadTimeout is the max time to read a RequestTips response.
	tipsReadTimeout = 5 * time.Second

	// maxTips bounds how many tip ids a single response carries.
	maxTips = 4096
)

// RegisterTipsHandler registers the RequestTips stream handler. tipsFn
// returns the responder's current DAG tip set.
func (s *Syncer) RegisterTipsHandler(tipsFn func() []types.TxId) {
	s.host.SetStreamHandler(TipsProtocol, func(stream network.Stream) {
		defer stream.Close()

		tips := tipsFn()
		if len(tips) > maxTips {
			tips = tips[:maxTips]
		}
		var countBuf [4]byte
		binary.LittleEndian.PutUint32(countBuf[:], uint32(len(tips)))
		stream.Write(countBuf[:])
		for _, id := range tips {
			stream.Write(id[:])
		}
	})
}

// RequestTips queries peerID for its current DAG tip set (the
// SyncTips exchange).
func (s *Syncer) RequestTips(ctx context.Context, peerID peer.ID) ([]types.TxId, error) {
	stream, err := s.host.NewStream(ctx, peerID, TipsProtocol)
	if err != nil {
		return nil, fmt.Errorf("open tips stream: %w", err)
	}
	defer stream.Close()
	stream.CloseWrite()

	_ = stream.SetReadDeadline(time.Now().Add(tipsReadTimeout))

	var countBuf [4]byte
	if _, err := io.ReadFull(stream, countBuf[:]); err != nil {
		return nil, fmt.Errorf("read tips count: %w", err)
	}
	count := binary.LittleEndian.Uint32(countBuf[:])
	if count > maxTips {
		return nil, fmt.Errorf("peer reported too many tips: %d", count)
	}

	tips := make([]types.TxId, count)
	for i := range tips {
		var buf [32]byte
		if _, err := io.ReadFull(stream, buf[:]); err != nil {
			return nil, fmt.Errorf("read tip %d: %w", i, err)
		}
		tips[i] = types.TxId(buf)
	}
	return tips, nil
}
