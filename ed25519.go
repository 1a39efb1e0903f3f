package go_ixicrypt

import (
	"crypto/ed25519"
	"crypto/sha512"
	"fmt"

	cryptoed25519 "github.com/go-i2p/crypto/ed25519"
)

// Ed25519KeyPair is an Ed25519 signing key derived deterministically from
// an entropy pool. Cryptographic operations are delegated to
// github.com/go-i2p/crypto/ed25519.
type Ed25519KeyPair struct {
	privateKey cryptoed25519.Ed25519PrivateKey
	publicKey  cryptoed25519.Ed25519PublicKey
}

// GenerateEd25519Key seeds a Generator with entropy and uses its first 32
// bytes as the Ed25519 seed. The same entropy always yields the same key,
// and it is the same stream GenerateRSAKey would start from.
func GenerateEd25519Key(entropy []byte) (*Ed25519KeyPair, error) {
	g, err := NewSeededGenerator(entropy)
	if err != nil {
		return nil, err
	}
	defer g.Close()

	seed := newSecureBuffer(ed25519.SeedSize)
	defer seed.Release()
	if err := g.GetBytes(seed.Bytes()); err != nil {
		return nil, err
	}

	priv := ed25519.NewKeyFromSeed(seed.Bytes())

	privKey, err := cryptoed25519.CreateEd25519PrivateKeyFromBytes(priv)
	if err != nil {
		return nil, fmt.Errorf("failed to create private key: %w", err)
	}
	pubKey, err := cryptoed25519.CreateEd25519PublicKeyFromBytes(append([]byte(nil), priv[ed25519.SeedSize:]...))
	if err != nil {
		return nil, fmt.Errorf("failed to create public key: %w", err)
	}

	return &Ed25519KeyPair{
		privateKey: privKey,
		publicKey:  pubKey,
	}, nil
}

// PublicKey returns the 32-byte public key.
func (kp *Ed25519KeyPair) PublicKey() []byte {
	return []byte(kp.publicKey)
}

// Sign signs the SHA-512 hash of message.
func (kp *Ed25519KeyPair) Sign(message []byte) ([]byte, error) {
	if kp.privateKey == nil {
		return nil, fmt.Errorf("private key is nil")
	}

	signer, err := kp.privateKey.NewSigner()
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	messageHash := sha512.Sum512(message)
	signature, err := signer.SignHash(messageHash[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	return signature, nil
}

// Verify checks a signature produced by Sign.
func (kp *Ed25519KeyPair) Verify(message, signature []byte) bool {
	if kp.publicKey == nil {
		return false
	}

	verifier, err := kp.publicKey.NewVerifier()
	if err != nil {
		return false
	}

	messageHash := sha512.Sum512(message)
	return verifier.VerifyHash(messageHash[:], signature) == nil
}

// Zero wipes the private key. The key pair can no longer sign.
func (kp *Ed25519KeyPair) Zero() {
	if kp.privateKey == nil {
		return
	}
	SecureZero([]byte(kp.privateKey))
	kp.privateKey = nil
}
