package config

import "testing"

func TestTestnetGenesis_Valid(t *testing.T) {
	g, err := TestnetGenesis()
	if err != nil {
		t.Fatalf("deriving testnet genesis: %v", err)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("testnet genesis should be valid: %v", err)
	}
}

func TestTestnetGenesis_Deterministic(t *testing.T) {
	a, err := TestnetGenesis()
	if err != nil {
		t.Fatalf("deriving testnet genesis: %v", err)
	}
	b, err := TestnetGenesis()
	if err != nil {
		t.Fatalf("deriving testnet genesis: %v", err)
	}
	if string(a.PublicSaleKey) != string(b.PublicSaleKey) {
		t.Error("testnet genesis keys should be deterministic across calls")
	}
}

func TestMainnetGenesis_PlaceholderFailsValidation(t *testing.T) {
	// The mainnet constructor is a placeholder until a real key ceremony
	// output is loaded via LoadGenesis; its zero-value keys must not pass.
	g := MainnetGenesis()
	if err := g.Validate(); err == nil {
		t.Error("placeholder mainnet genesis with no ceremony keys should fail validation")
	}
}

func TestGenesisFor_Testnet(t *testing.T) {
	g, err := GenesisFor(Testnet)
	if err != nil {
		t.Fatalf("GenesisFor(Testnet): %v", err)
	}
	if g.ChainID != "chronx-testnet-1" {
		t.Errorf("unexpected chain id: %s", g.ChainID)
	}
}

func TestGenesis_SaveAndLoadRoundTrip(t *testing.T) {
	g, err := TestnetGenesis()
	if err != nil {
		t.Fatalf("deriving testnet genesis: %v", err)
	}
	path := t.TempDir() + "/genesis.json"
	if err := g.Save(path); err != nil {
		t.Fatalf("saving genesis: %v", err)
	}
	loaded, err := LoadGenesis(path)
	if err != nil {
		t.Fatalf("loading genesis: %v", err)
	}
	if loaded.ChainID != g.ChainID {
		t.Errorf("chain id mismatch after round trip: %s != %s", loaded.ChainID, g.ChainID)
	}
	if string(loaded.PublicSaleKey) != string(g.PublicSaleKey) {
		t.Error("public sale key mismatch after round trip")
	}
}

func TestGenesis_HashIsDeterministic(t *testing.T) {
	g, err := TestnetGenesis()
	if err != nil {
		t.Fatalf("deriving testnet genesis: %v", err)
	}
	h1, err := g.Hash()
	if err != nil {
		t.Fatalf("hashing genesis: %v", err)
	}
	h2, err := g.Hash()
	if err != nil {
		t.Fatalf("hashing genesis: %v", err)
	}
	if h1 != h2 {
		t.Error("genesis hash should be deterministic")
	}
}
