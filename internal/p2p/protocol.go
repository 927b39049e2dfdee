package p2p

import (
	"github.com/libp2p/go-libp2p/core/protocol"
)

// GossipSub topic names.
const (
	// TopicVertices carries newly-signed transactions as they enter the DAG
	// (the NewVertex message).
	TopicVertices = "/chronx/vertex/1.0.0"

	// TopicHeartbeat carries signed liveness announcements from bonded
	// verifier accounts.
	TopicHeartbeat = "/chronx/heartbeat/1.0.0"
)

// Handshake and request/response protocol IDs.
const (
	// HandshakeProtocol is the stream protocol ID for peer compatibility checking.
	HandshakeProtocol = protocol.ID("/chronx/handshake/1.0.0")

	// ProtocolVersion is the current protocol version advertised during handshake.
	ProtocolVersion uint32 = 1

	// MinProtocolVersion is the minimum protocol version we accept from peers.
	MinProtocolVersion uint32 = 1

	// VertexRequestProtocol answers RequestVertex(tx_id) lookups for a
	// single DAG vertex by id.
	VertexRequestProtocol = protocol.ID("/chronx/vertex-request/1.0.0")

	// TipsProtocol answers RequestTips with the responder's current DAG
	// tip set, used for SyncTips exchange on reconnect.
	TipsProtocol = protocol.ID("/chronx/tips/1.0.0")
)

// MessageType identifies the type of P2P message.
type MessageType uint8

const (
	MsgVertex MessageType = iota + 1 // NewVertex broadcast.
)

// Message is a P2P protocol message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload []byte      `json:"payload"`
}
