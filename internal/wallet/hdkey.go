package wallet

import (
	"fmt"

	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/chronx-io/chronx/pkg/types"
	"github.com/tyler-smith/go-bip32"
)

// BIP-44 derivation path constants.
// Full path: m/44'/CoinType'/account'/change/index
const (
	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = bip32.FirstHardenedChild + 44

	// CoinTypeChronX is our registered (placeholder) coin type (hardened).
	// TODO: Register an actual SLIP-44 coin type number.
	CoinTypeChronX = bip32.FirstHardenedChild + 8888

	// ChangeExternal is for receiving addresses.
	ChangeExternal = 0

	// ChangeInternal is for change addresses.
	ChangeInternal = 1
)

// HDKey represents a hierarchical deterministic key (BIP-32). Dilithium has
// no native EC-style hierarchical derivation, so the BIP-32-derived 32-byte
// private scalar is instead used as the seed for Dilithium2 key generation
// at each derivation index — the tree structure comes from BIP-32, the
// actual signing keypair comes from crypto.KeyFromSeed.
type HDKey struct {
	key *bip32.Key
}

// NewMasterKey creates a master HD key from a 64-byte seed.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &HDKey{key: master}, nil
}

// DeriveChild derives a child key at the given index.
// For hardened derivation, add bip32.FirstHardenedChild to the index.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	child, err := k.key.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("derive child %d: %w", index, err)
	}
	return &HDKey{key: child}, nil
}

// DerivePath derives a key along a sequence of indices.
func (k *HDKey) DerivePath(indices ...uint32) (*HDKey, error) {
	current := k
	for _, idx := range indices {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// DeriveAccount derives the key at m/44'/8888'/account'/change/index.
func (k *HDKey) DeriveAccount(account, change, index uint32) (*HDKey, error) {
	return k.DerivePath(
		PurposeBIP44,
		CoinTypeChronX,
		bip32.FirstHardenedChild+account,
		change,
		index,
	)
}

// seedBytes returns the raw 32-byte private scalar used as this node's
// Dilithium2 seed. Returns nil if this is a public-only key.
func (k *HDKey) seedBytes() []byte {
	if !k.key.IsPrivate {
		return nil
	}
	// bip32 Key.Key is 33 bytes with a leading 0x00 for private keys.
	raw := k.key.Key
	if len(raw) == 33 && raw[0] == 0 {
		return raw[1:]
	}
	return raw
}

// DilithiumKey derives this node's Dilithium2 keypair from its BIP-32 seed.
// Returns an error if this is a public-only (neutered) key.
func (k *HDKey) DilithiumKey() (*crypto.PrivateKey, error) {
	seed := k.seedBytes()
	if seed == nil {
		return nil, fmt.Errorf("cannot derive a signing key from a public-only HD key")
	}
	return crypto.KeyFromSeed(seed)
}

// AccountId derives this node's AccountId, H(dilithium_public_key).
func (k *HDKey) AccountId() (types.AccountId, error) {
	priv, err := k.DilithiumKey()
	if err != nil {
		return types.AccountId{}, err
	}
	return crypto.AccountIdFromPubKey(priv.PublicKey()), nil
}

// IsPrivate returns true if this key contains a private key.
func (k *HDKey) IsPrivate() bool {
	return k.key.IsPrivate
}

// Depth returns the derivation depth (0 for master).
func (k *HDKey) Depth() uint8 {
	return k.key.Depth
}

// Neuter returns a public-key-only copy (for watch-only wallets).
func (k *HDKey) Neuter() *HDKey {
	return &HDKey{key: k.key.PublicKey()}
}
