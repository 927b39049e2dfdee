// Package crypto provides cryptographic primitives for ChronX: content
// hashing, post-quantum signatures, and proof-of-work.
package crypto

import (
	"github.com/chronx-io/chronx/pkg/types"
	"github.com/zeebo/blake3"
)

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// AccountIdFromPubKey derives AccountId = H(public_key).
func AccountIdFromPubKey(pubKey []byte) types.AccountId {
	return types.AccountId(Hash(pubKey))
}

// TxIdFromBody derives TxId = H(body_bytes).
func TxIdFromBody(bodyBytes []byte) types.TxId {
	return types.TxId(Hash(bodyBytes))
}

// HashConcat hashes the concatenation of two hashes. Used by the claims
// engine to compute the reveal commitment H(H(payload) || salt).
func HashConcat(a, b types.Hash) types.Hash {
	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	return Hash(buf[:])
}

// DomainHash derives a deterministic id as H(domain || LE64(index)), grounded
// on the original genesis builder's treasury_lock_id/humanity_lock_id scheme.
func DomainHash(domain string, index uint64) types.Hash {
	buf := make([]byte, 0, len(domain)+8)
	buf = append(buf, domain...)
	for i := 0; i < 8; i++ {
		buf = append(buf, byte(index>>(8*i)))
	}
	return Hash(buf)
}
