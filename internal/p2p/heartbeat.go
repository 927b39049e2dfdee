package p2p

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/chronx-io/chronx/pkg/types"
)

// HeartbeatMessage is a signed liveness announcement from a bonded verifier
// account, gossiped on the heartbeat topic. Receivers verify it; recovery
// and claims resolution do not read it.
type HeartbeatMessage struct {
	PubKey    types.DilithiumPublicKey `json:"pubkey"`
	AccountId types.AccountId          `json:"account_id"`
	Timestamp int64                    `json:"timestamp"`
	Signature types.DilithiumSignature `json:"signature"`
}

// HeartbeatSigningBytes returns the bytes that are signed/verified for a heartbeat message.
func HeartbeatSigningBytes(pubKey types.DilithiumPublicKey, timestamp int64) []byte {
	buf := make([]byte, len(pubKey)+8)
	copy(buf, pubKey)
	binary.LittleEndian.PutUint64(buf[len(pubKey):], uint64(timestamp))
	return buf
}

// VerifyHeartbeat checks that the heartbeat message carries a valid
// Dilithium signature from the account it claims, and that the embedded
// account id matches the public key.
func VerifyHeartbeat(msg *HeartbeatMessage) bool {
	if len(msg.PubKey) != types.DilithiumPublicKeySize || len(msg.Signature) != types.DilithiumSignatureSize {
		return false
	}
	if crypto.AccountIdFromPubKey(msg.PubKey) != msg.AccountId {
		return false
	}
	data := HeartbeatSigningBytes(msg.PubKey, msg.Timestamp)
	return crypto.VerifySignature(data, msg.Signature, msg.PubKey)
}

// SetHeartbeatHandler registers a callback for verified incoming heartbeats.
func (n *Node) SetHeartbeatHandler(fn func(msg *HeartbeatMessage)) {
	n.heartbeatHandler = fn
}

// JoinHeartbeat joins the heartbeat GossipSub topic and starts reading.
func (n *Node) JoinHeartbeat() error {
	if n.pubsub == nil {
		return fmt.Errorf("p2p node not started")
	}
	if n.topicHeartbeat != nil {
		return nil // Already joined.
	}

	topic, err := n.pubsub.Join(TopicHeartbeat)
	if err != nil {
		return fmt.Errorf("join heartbeat topic: %w", err)
	}
	sub, err := topic.Subscribe()
	if err != nil {
		topic.Close()
		return fmt.Errorf("subscribe heartbeat topic: %w", err)
	}
	n.topicHeartbeat = topic
	n.subHeartbeat = sub

	go n.heartbeatReadLoop()
	return nil
}

// LeaveHeartbeat unsubscribes from the heartbeat topic.
func (n *Node) LeaveHeartbeat() {
	if n.subHeartbeat != nil {
		n.subHeartbeat.Cancel()
		n.subHeartbeat = nil
	}
	if n.topicHeartbeat != nil {
		n.topicHeartbeat.Close()
		n.topicHeartbeat = nil
	}
}

// BroadcastHeartbeat publishes a heartbeat message to the GossipSub topic.
func (n *Node) BroadcastHeartbeat(msg *HeartbeatMessage) error {
	if n.topicHeartbeat == nil {
		return fmt.Errorf("heartbeat topic not joined")
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal heartbeat: %w", err)
	}
	return n.topicHeartbeat.Publish(n.ctx, data)
}

func (n *Node) heartbeatReadLoop() {
	for {
		msg, err := n.subHeartbeat.Next(n.ctx)
		if err != nil {
			return // Context cancelled or subscription closed.
		}
		if msg.ReceivedFrom == n.host.ID() {
			continue // Skip own messages.
		}

		var hb HeartbeatMessage
		if err := json.Unmarshal(msg.Data, &hb); err != nil {
			continue // Malformed message.
		}

		// Verify signature before forwarding.
		if !VerifyHeartbeat(&hb) {
			continue // Invalid signature.
		}

		if n.heartbeatHandler != nil {
			func() {
				defer func() { recover() }()
				n.heartbeatHandler(&hb)
			}()
		}
	}
}
