// Package types defines core primitive types for the ChronX ledger.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// HashSize is the length of a content hash in bytes.
const HashSize = 32

// Hash is a 256-bit content hash.
type Hash [HashSize]byte

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the hex-encoded hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// MarshalJSON encodes the hash as a hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a hex string into a hash.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = Hash{}
		return nil
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hash hex: %w", err)
	}
	if len(decoded) != HashSize {
		return fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(decoded))
	}
	copy(h[:], decoded)
	return nil
}

// HexToHash converts a hex string to a Hash.
func HexToHash(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// AccountId is H(public_key). Displayed base58, grounded on the original
// implementation's AccountId::to_b58.
type AccountId Hash

// IsZero reports whether the account id is unset.
func (a AccountId) IsZero() bool { return Hash(a).IsZero() }

// Bytes returns the raw 32 bytes.
func (a AccountId) Bytes() []byte { return Hash(a).Bytes() }

// String returns the base58 display form.
func (a AccountId) String() string {
	return base58.Encode(a[:])
}

// MarshalJSON encodes the account id as base58.
func (a AccountId) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a base58 account id.
func (a *AccountId) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = AccountId{}
		return nil
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("invalid account id base58: %w", err)
	}
	if len(decoded) != HashSize {
		return fmt.Errorf("account id must be %d bytes, got %d", HashSize, len(decoded))
	}
	copy(a[:], decoded)
	return nil
}

// ParseAccountId parses a base58 AccountId string.
func ParseAccountId(s string) (AccountId, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return AccountId{}, fmt.Errorf("invalid account id base58: %w", err)
	}
	if len(decoded) != HashSize {
		return AccountId{}, fmt.Errorf("account id must be %d bytes, got %d", HashSize, len(decoded))
	}
	var a AccountId
	copy(a[:], decoded)
	return a, nil
}

// TxId is H(body_bytes), the identity of a DAG vertex. Displayed as hex.
type TxId Hash

// IsZero reports whether the tx id is unset.
func (t TxId) IsZero() bool { return Hash(t).IsZero() }

// Bytes returns the raw 32 bytes.
func (t TxId) Bytes() []byte { return Hash(t).Bytes() }

// String returns the hex display form.
func (t TxId) String() string { return Hash(t).String() }

// MarshalJSON encodes the tx id as hex.
func (t TxId) MarshalJSON() ([]byte, error) { return Hash(t).MarshalJSON() }

// UnmarshalJSON decodes a hex tx id.
func (t *TxId) UnmarshalJSON(data []byte) error { return (*Hash)(t).UnmarshalJSON(data) }

// HexToTxId parses a hex TxId string.
func HexToTxId(s string) (TxId, error) {
	h, err := HexToHash(s)
	return TxId(h), err
}

// TimeLockId is the TxId of the transaction that created the lock.
type TimeLockId = TxId

// EvidenceHash is a content hash of off-chain recovery or challenge evidence.
type EvidenceHash = Hash
