package go_ixicrypt

import (
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/go-i2p/common/base32"
)

// PublicKeyFingerprint returns the unpadded I2P base32 encoding of the
// SHA-256 hash of pub's PKCS#1 encoding.
func PublicKeyFingerprint(pub *rsa.PublicKey) (string, error) {
	der, err := MarshalPKCS1PublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to encode public key: %w", err)
	}
	hash := sha256.Sum256(der)
	return strings.TrimRight(base32.EncodeToString(hash[:]), "="), nil
}

// fingerprintOf returns the fingerprint of k's public half.
func fingerprintOf(k *rsaKey) (string, error) {
	return PublicKeyFingerprint(&rsa.PublicKey{N: k.N, E: int(k.E.Int64())})
}
