package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
)

// Balance is an unsigned 128-bit base-unit amount (Chronos). Total supply is
// far below 2^128, so a big.Int-backed value with checked arithmetic
// helpers (Sub reports underflow instead of wrapping) is sufficient; we store it as a *big.Int wrapper so JSON renders
// it as a decimal string and never loses precision.
type Balance struct {
	v *big.Int
}

// NewBalance constructs a Balance from a uint64 amount.
func NewBalance(v uint64) Balance {
	return Balance{v: new(big.Int).SetUint64(v)}
}

// ZeroBalance is the additive identity.
func ZeroBalance() Balance { return NewBalance(0) }

// BalanceFromString parses a decimal base-unit amount.
func BalanceFromString(s string) (Balance, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return Balance{}, fmt.Errorf("invalid balance %q", s)
	}
	return Balance{v: v}, nil
}

func (b Balance) ensure() *big.Int {
	if b.v == nil {
		return big.NewInt(0)
	}
	return b.v
}

// Int returns the underlying big.Int (read-only use; callers must not mutate it).
func (b Balance) Int() *big.Int { return b.ensure() }

// IsZero reports whether the balance is exactly zero.
func (b Balance) IsZero() bool { return b.ensure().Sign() == 0 }

// Cmp compares two balances (-1, 0, 1).
func (b Balance) Cmp(o Balance) int { return b.ensure().Cmp(o.ensure()) }

// Add returns a + b.
func (b Balance) Add(o Balance) Balance {
	return Balance{v: new(big.Int).Add(b.ensure(), o.ensure())}
}

// Sub returns a - b and ok=false if the result would be negative (underflow
// is a rejection, never a wraparound).
func (b Balance) Sub(o Balance) (Balance, bool) {
	r := new(big.Int).Sub(b.ensure(), o.ensure())
	if r.Sign() < 0 {
		return Balance{}, false
	}
	return Balance{v: r}, true
}

// String renders the balance as a decimal string (wire/RPC form).
func (b Balance) String() string { return b.ensure().String() }

// Bytes returns the big-endian minimal encoding.
func (b Balance) Bytes() []byte { return b.ensure().Bytes() }

// BalanceFromBytes reconstructs a Balance from a big-endian byte slice.
func BalanceFromBytes(data []byte) Balance {
	return Balance{v: new(big.Int).SetBytes(data)}
}

// MarshalJSON renders the balance as a JSON string (avoids float precision loss).
func (b Balance) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON parses a decimal string balance.
func (b *Balance) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := BalanceFromString(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Timestamp is a UTC unix-seconds timestamp.
type Timestamp int64

// Nonce is a per-account monotonic replay-protection counter.
type Nonce uint64

// DilithiumPublicKeySize is the CRYSTALS-Dilithium2 public key length in bytes.
const DilithiumPublicKeySize = 1312

// DilithiumSignatureSize is the detached Dilithium2 signature length in bytes.
const DilithiumSignatureSize = 2420

// DilithiumPublicKey wraps a raw post-quantum public key.
type DilithiumPublicKey []byte

// String returns the hex encoding.
func (k DilithiumPublicKey) String() string { return hex.EncodeToString(k) }

// MarshalJSON encodes the key as hex.
func (k DilithiumPublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(k))
}

// UnmarshalJSON decodes a hex public key.
func (k *DilithiumPublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid public key hex: %w", err)
	}
	*k = b
	return nil
}

// DilithiumSignature wraps a raw detached post-quantum signature.
type DilithiumSignature []byte

// String returns the hex encoding.
func (s DilithiumSignature) String() string { return hex.EncodeToString(s) }

// MarshalJSON encodes the signature as hex.
func (s DilithiumSignature) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(s))
}

// UnmarshalJSON decodes a hex signature.
func (s *DilithiumSignature) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	b, err := hex.DecodeString(str)
	if err != nil {
		return fmt.Errorf("invalid signature hex: %w", err)
	}
	*s = b
	return nil
}
