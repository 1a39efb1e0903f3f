package go_ixicrypt

import (
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ExpandSeed derives an entropy pool of poolSize bytes from an arbitrary
// secret using HKDF with the registry's SHA-512.
//
// The result is suitable for SetEntropy and GenerateRSAKey. info separates
// derivations from the same secret (e.g., per key purpose). poolSize must be
// a positive multiple of 64 and at most 255*64 bytes.
func ExpandSeed(secret []byte, info string, poolSize int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: seed is empty", ErrInvalidArgument)
	}
	if err := ValidateEntropyLength(poolSize); err != nil {
		return nil, err
	}

	if err := RegisterDefaults(); err != nil {
		return nil, err
	}
	desc, ok := FindHash(HASH_SHA512)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrHashNotRegistered, HASH_SHA512)
	}
	if poolSize > 255*desc.Size {
		return nil, fmt.Errorf("%w: %d bytes exceeds HKDF output limit", ErrInvalidEntropyLength, poolSize)
	}

	pool := make([]byte, poolSize)
	reader := hkdf.New(desc.New, secret, nil, []byte(info))
	if _, err := io.ReadFull(reader, pool); err != nil {
		SecureZero(pool)
		return nil, fmt.Errorf("HKDF expansion failed: %w", err)
	}
	Debug("Expanded %d-byte seed into a %d-byte entropy pool", len(secret), poolSize)
	return pool, nil
}
