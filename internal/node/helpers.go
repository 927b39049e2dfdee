package node

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chronx-io/chronx/pkg/crypto"
)

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// loadValidatorKey reads a hex-encoded Dilithium2 keypair file ("<pubkey_hex>
// <privkey_hex>") used to sign heartbeats and participate in finality voting
// as a bonded verifier.
func loadValidatorKey(path string) (*crypto.PrivateKey, error) {
	path = expandHome(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("validator key file not found: %s (expected a file containing \"<pubkey_hex> <privkey_hex>\")", path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("permission denied reading validator key file: %s", path)
		}
		return nil, fmt.Errorf("read validator key file %s: %w", path, err)
	}

	fields := strings.Fields(string(data))
	if len(fields) != 2 {
		return nil, fmt.Errorf("validator key file %s must contain \"<pubkey_hex> <privkey_hex>\"", path)
	}

	pubBytes, err := hex.DecodeString(fields[0])
	if err != nil {
		return nil, fmt.Errorf("validator key file %s contains invalid public key hex: %w", path, err)
	}
	privBytes, err := hex.DecodeString(fields[1])
	if err != nil {
		return nil, fmt.Errorf("validator key file %s contains invalid private key hex: %w", path, err)
	}

	pk, err := crypto.PrivateKeyFromBytes(pubBytes, privBytes)
	if err != nil {
		return nil, fmt.Errorf("invalid validator key in %s: %w", path, err)
	}
	return pk, nil
}

// formatDifficulty returns a human-readable PoW difficulty string.
func formatDifficulty(bits int) string {
	return fmt.Sprintf("%d bits", bits)
}
