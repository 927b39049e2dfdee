// derive_key.go prints the public key and AccountId for a hex-encoded
// Dilithium2 keypair file (public key bytes || private key bytes, hex).
// Usage: go run scripts/derive_key.go <keyfile>
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/chronx-io/chronx/pkg/crypto"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_key <keyfile>")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	parts := strings.Fields(string(data))
	if len(parts) != 2 {
		fmt.Fprintln(os.Stderr, "keyfile must contain \"<pubkey_hex> <privkey_hex>\"")
		os.Exit(1)
	}
	pubBytes, err := hex.DecodeString(strings.TrimSpace(parts[0]))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	privBytes, err := hex.DecodeString(strings.TrimSpace(parts[1]))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	key, err := crypto.PrivateKeyFromBytes(pubBytes, privBytes)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	pub := key.PublicKey()
	id := crypto.AccountIdFromPubKey(pub)
	fmt.Printf("pubkey=%s\n", hex.EncodeToString(pub))
	fmt.Printf("account_id=%s\n", id.String())
}
