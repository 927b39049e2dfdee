package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chronx-io/chronx/internal/chain"
	"github.com/chronx-io/chronx/internal/genesis"
	"github.com/chronx-io/chronx/pkg/crypto"
	"github.com/chronx-io/chronx/pkg/types"
)

// =============================================================================
// Genesis parameters (immutable, defined at network bootstrap)
// These MUST match across all nodes or the ledger forks.
// =============================================================================

// Genesis holds the network identity and the five founding-allocation
// public keys a node needs to reconstruct genesis state.
// The supply split and release schedule themselves are protocol constants
// (internal/chain/constants.go) and are not configurable per network.
type Genesis struct {
	ChainID   string `json:"chain_id"`
	ChainName string `json:"chain_name"`

	PublicSaleKey      types.DilithiumPublicKey `json:"public_sale_key"`
	TreasuryKey        types.DilithiumPublicKey `json:"treasury_key"`
	HumanityKey        types.DilithiumPublicKey `json:"humanity_key"`
	Milestone2076Key   types.DilithiumPublicKey `json:"milestone_2076_key"`
	ProtocolReserveKey types.DilithiumPublicKey `json:"protocol_reserve_key"`
}

// Params converts the genesis configuration into the builder's input type.
func (g *Genesis) Params() genesis.Params {
	return genesis.Params{
		PublicSaleKey:      g.PublicSaleKey,
		TreasuryKey:        g.TreasuryKey,
		HumanityKey:        g.HumanityKey,
		Milestone2076Key:   g.Milestone2076Key,
		ProtocolReserveKey: g.ProtocolReserveKey,
	}
}

// =============================================================================
// Testnet identity
//
// TestnetMnemonic is the well-known BIP-39 test mnemonic (DO NOT use on
// mainnet):
//
//	abandon abandon abandon abandon abandon abandon abandon abandon
//	abandon abandon abandon abandon abandon abandon abandon abandon
//	abandon abandon abandon abandon abandon abandon abandon art
//
// The testnet genesis keys are not derived from it: TestnetGenesis seeds
// each Dilithium key from crypto.DomainHash("testnet_genesis_key", index)
// so every testnet participant reconstructs the same genesis; mainnet keys
// come from a real key ceremony and are never hardcoded.
// =============================================================================

const TestnetMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art"

// =============================================================================
// Pre-defined genesis configurations
// =============================================================================

// MainnetGenesis returns the mainnet genesis configuration. The zero-value
// keys here are placeholders: a real deployment loads the ceremony output
// via LoadGenesis instead of calling this constructor directly.
func MainnetGenesis() *Genesis {
	return &Genesis{
		ChainID:   "chronx-mainnet-1",
		ChainName: "ChronX Mainnet",
	}
}

// TestnetGenesis returns the testnet genesis configuration, with keys
// derived deterministically (crypto.KeyFromSeed over
// crypto.DomainHash("testnet_genesis_key", i), one per allocation index) so
// every testnet node agrees on genesis without shipping a ceremony file.
func TestnetGenesis() (*Genesis, error) {
	keys := make([]types.DilithiumPublicKey, 5)
	for i := range keys {
		seed := crypto.DomainHash("testnet_genesis_key", uint64(i))
		priv, err := crypto.KeyFromSeed(seed[:])
		if err != nil {
			return nil, fmt.Errorf("deriving testnet genesis key %d: %w", i, err)
		}
		keys[i] = priv.PublicKey()
	}
	return &Genesis{
		ChainID:            "chronx-testnet-1",
		ChainName:          "ChronX Testnet",
		PublicSaleKey:      keys[0],
		TreasuryKey:        keys[1],
		HumanityKey:        keys[2],
		Milestone2076Key:   keys[3],
		ProtocolReserveKey: keys[4],
	}, nil
}

// GenesisFor returns the genesis config for the given network.
func GenesisFor(network NetworkType) (*Genesis, error) {
	switch network {
	case Testnet:
		return TestnetGenesis()
	default:
		return MainnetGenesis(), nil
	}
}

// =============================================================================
// Genesis file I/O
// =============================================================================

// LoadGenesis loads genesis configuration from a file.
func LoadGenesis(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading genesis file: %w", err)
	}

	var g Genesis
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing genesis file: %w", err)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}

	return &g, nil
}

// Save writes the genesis configuration to a file.
func (g *Genesis) Save(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding genesis: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing genesis file: %w", err)
	}

	return nil
}

// Validate checks that the genesis configuration carries all five
// allocation keys required to reconstruct genesis state.
func (g *Genesis) Validate() error {
	if g.ChainID == "" {
		return fmt.Errorf("chain_id is required")
	}
	keys := map[string]types.DilithiumPublicKey{
		"public_sale_key":      g.PublicSaleKey,
		"treasury_key":         g.TreasuryKey,
		"humanity_key":         g.HumanityKey,
		"milestone_2076_key":   g.Milestone2076Key,
		"protocol_reserve_key": g.ProtocolReserveKey,
	}
	for name, k := range keys {
		if len(k) != types.DilithiumPublicKeySize {
			return fmt.Errorf("%s must be %d bytes, got %d", name, types.DilithiumPublicKeySize, len(k))
		}
	}
	return nil
}

// Hash returns a content hash of the genesis configuration, used to detect
// genesis mismatches between peers before they gossip any vertices.
func (g *Genesis) Hash() (types.Hash, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return types.Hash{}, err
	}
	return crypto.Hash(data), nil
}

// TotalSupplyChronos re-exports the protocol-constant total supply so
// callers validating a loaded genesis don't need to import internal/chain
// directly.
const TotalSupplyChronos = chain.TotalSupplyChronos
