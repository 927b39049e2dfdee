package crypto

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// PowHash computes SHA3-256(bodyBytes || LE64(powNonce)), grounded on
// original_source/crates/chronx-crypto/src/pow.rs. PoW uses a distinct hash
// function from the content hash (BLAKE3) so mining load never collides
// with the identity-hashing path.
func PowHash(bodyBytes []byte, powNonce uint64) [32]byte {
	buf := make([]byte, len(bodyBytes)+8)
	copy(buf, bodyBytes)
	binary.LittleEndian.PutUint64(buf[len(bodyBytes):], powNonce)
	return sha3.Sum256(buf)
}

// LeadingZeroBits counts leading zero bits, byte-by-byte, most-significant
// bit first.
func LeadingZeroBits(h [32]byte) int {
	count := 0
	for _, b := range h {
		if b == 0 {
			count += 8
			continue
		}
		for bit := 7; bit >= 0; bit-- {
			if b&(1<<uint(bit)) != 0 {
				return count
			}
			count++
		}
	}
	return count
}

// VerifyPoW reports whether bodyBytes||powNonce has at least difficulty
// leading zero bits.
func VerifyPoW(bodyBytes []byte, powNonce uint64, difficulty int) bool {
	h := PowHash(bodyBytes, powNonce)
	return LeadingZeroBits(h) >= difficulty
}

// MinePoW searches for a pow_nonce satisfying difficulty, starting from 0.
// Used by tests and the node's wallet_send handler; a full miner would parallelize and
// accept a starting nonce/cancellation, but the protocol only specifies the
// verification predicate.
func MinePoW(bodyBytes []byte, difficulty int) uint64 {
	for nonce := uint64(0); ; nonce++ {
		if VerifyPoW(bodyBytes, nonce, difficulty) {
			return nonce
		}
	}
}
