package crypto

import (
	"crypto/rand"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode2"
)

// Signer signs message bytes with a post-quantum private key.
type Signer interface {
	// Sign produces a detached Dilithium2 signature over the body bytes.
	Sign(bodyBytes []byte) ([]byte, error)
	// PublicKey returns the 1312-byte Dilithium2 public key.
	PublicKey() []byte
}

// Verifier verifies Dilithium2 signatures.
type Verifier interface {
	// Verify checks a detached signature against body bytes and a public key.
	Verify(bodyBytes, signature, publicKey []byte) bool
}

// PrivateKey wraps a Dilithium2 private key.
type PrivateKey struct {
	pub *mode2.PublicKey
	priv *mode2.PrivateKey
}

// GenerateKey creates a new random Dilithium2 keypair.
func GenerateKey() (*PrivateKey, error) {
	pub, priv, err := mode2.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate dilithium key: %w", err)
	}
	return &PrivateKey{pub: pub, priv: priv}, nil
}

// KeyFromSeed deterministically derives a Dilithium2 keypair from a 32-byte
// seed. Used by the HD wallet: Dilithium has no native EC-style hierarchical
// derivation, so a BIP-32-derived 32-byte key is instead used as the seed
// for key generation at each derivation index.
func KeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != mode2.SeedSize {
		return nil, fmt.Errorf("dilithium seed must be %d bytes, got %d", mode2.SeedSize, len(seed))
	}
	var s [mode2.SeedSize]byte
	copy(s[:], seed)
	pub, priv := mode2.NewKeyFromSeed(&s)
	return &PrivateKey{pub: pub, priv: priv}, nil
}

// PrivateKeyFromBytes reconstructs a PrivateKey from its raw encoding, as
// persisted by the keyfile format.
func PrivateKeyFromBytes(pubBytes, privBytes []byte) (*PrivateKey, error) {
	if len(pubBytes) != mode2.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", mode2.PublicKeySize, len(pubBytes))
	}
	if len(privBytes) != mode2.PrivateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", mode2.PrivateKeySize, len(privBytes))
	}
	var pub mode2.PublicKey
	var priv mode2.PrivateKey
	pub.Unpack((*[mode2.PublicKeySize]byte)(pubBytes))
	priv.Unpack((*[mode2.PrivateKeySize]byte)(privBytes))
	return &PrivateKey{pub: &pub, priv: &priv}, nil
}

// Sign produces a detached Dilithium2 signature over bodyBytes.
func (pk *PrivateKey) Sign(bodyBytes []byte) ([]byte, error) {
	sig := make([]byte, mode2.SignatureSize)
	mode2.SignTo(pk.priv, bodyBytes, sig)
	return sig, nil
}

// PublicKey returns the 1312-byte Dilithium2 public key.
func (pk *PrivateKey) PublicKey() []byte {
	var buf [mode2.PublicKeySize]byte
	pk.pub.Pack(&buf)
	return buf[:]
}

// Serialize returns the raw private key bytes (caller must zero the result
// when done). The wallet keystore does not store this encoding; it keeps
// only the encrypted BIP-39 seed, see internal/wallet.
func (pk *PrivateKey) Serialize() []byte {
	var buf [mode2.PrivateKeySize]byte
	pk.priv.Pack(&buf)
	return buf[:]
}

// Zero overwrites the private key material in place. Call after the key is
// no longer needed (e.g. after signing and submitting a transaction).
func (pk *PrivateKey) Zero() {
	if pk.priv != nil {
		*pk.priv = mode2.PrivateKey{}
	}
	if pk.pub != nil {
		*pk.pub = mode2.PublicKey{}
	}
}

// VerifySignature checks a detached Dilithium2 signature against body bytes
// and a public key. Returns false on any malformed input.
func VerifySignature(bodyBytes, signature, publicKey []byte) bool {
	if len(publicKey) != mode2.PublicKeySize || len(signature) != mode2.SignatureSize {
		return false
	}
	var pub mode2.PublicKey
	pub.Unpack((*[mode2.PublicKeySize]byte)(publicKey))
	return mode2.Verify(&pub, bodyBytes, signature)
}

// DilithiumVerifier implements Verifier.
type DilithiumVerifier struct{}

// Verify checks a detached signature against body bytes and a public key.
func (v DilithiumVerifier) Verify(bodyBytes, signature, publicKey []byte) bool {
	return VerifySignature(bodyBytes, signature, publicKey)
}
