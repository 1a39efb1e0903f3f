package go_ixicrypt

import (
	"fmt"
	"time"

	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

// GenerateRSA generates an RSA private key from entropy and returns it as a
// PKCS#1 DER blob, or nil on any failure.
//
// This is the coarse contract: callers only learn whether a key was
// produced. Use GenerateRSAKey to find out why a request failed.
func GenerateRSA(entropy []byte, keySizeBits int, publicExponent uint64) *KeyBlob {
	blob, err := GenerateRSAKey(entropy, keySizeBits, publicExponent)
	if err != nil {
		return nil
	}
	return blob
}

// GenerateRSAKey generates an RSA private key whose randomness comes solely
// from entropy. The same entropy, size and exponent always produce the same
// blob.
//
// entropy must be a positive multiple of 64 bytes, keySizeBits a multiple of
// 8 in [1024, 4096], and publicExponent odd and at least 3.
func GenerateRSAKey(entropy []byte, keySizeBits int, publicExponent uint64) (*KeyBlob, error) {
	return GenerateRSAKeyWithOptions(entropy,
		WithKeySize(keySizeBits),
		WithExponent(publicExponent),
	)
}

// GenerateRSAKeyWithOptions is GenerateRSAKey with full control over the
// export format, randomness source, cipher and metrics.
func GenerateRSAKeyWithOptions(entropy []byte, opts ...KeyGenOption) (*KeyBlob, error) {
	o := DefaultKeyGenOptions()
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	blob, err := generateRSAKey(entropy, o)
	if o.Metrics != nil {
		o.Metrics.RecordKeyGenLatency(o.KeySizeBits, time.Since(start))
		if err == nil {
			o.Metrics.IncrementKeysGenerated(o.KeySizeBits)
		}
	}
	return blob, err
}

// generateRSAKey runs one request. No key material survives a failure.
func generateRSAKey(entropy []byte, o KeyGenOptions) (*KeyBlob, error) {
	if err := o.Validate(); err != nil {
		return nil, keyGenFailure(o, StageValidate, err)
	}

	if err := RegisterDefaults(); err != nil {
		return nil, keyGenFailure(o, StageRegister, err)
	}
	desc, ok := FindPRNG(o.PRNGName)
	if !ok {
		return nil, keyGenFailure(o, StageRegister, fmt.Errorf("%w: %q", ErrPRNGNotRegistered, o.PRNGName))
	}

	g := NewGenerator(WithGeneratorCipher(o.CipherName))
	defer g.Close()
	if err := g.SetEntropy(entropy); err != nil {
		return nil, keyGenFailure(o, StageSeed, err)
	}

	reader, err := PRNGReader(desc, g)
	if err != nil {
		return nil, keyGenFailure(o, StageGenerate, err)
	}
	key, err := makeRSAKey(reader, o.KeySizeBits/8, o.PublicExponent)
	if o.Metrics != nil {
		stats := g.Stats()
		o.Metrics.AddRandomBytes(stats.BytesServed)
		o.Metrics.AddBlocksGenerated(stats.BlocksGenerated)
	}
	if err != nil {
		return nil, keyGenFailure(o, StageGenerate, err)
	}
	defer key.clear()

	data, err := exportRSAKey(key, o.Format)
	if err != nil {
		return nil, keyGenFailure(o, StageExport, err)
	}
	fingerprint, err := fingerprintOf(key)
	if err != nil {
		data.Release()
		return nil, keyGenFailure(o, StageExport, err)
	}

	log.WithFields(logger.Fields{
		"at":            "GenerateRSAKey",
		"key_size_bits": o.KeySizeBits,
		"format":        o.Format.String(),
		"fingerprint":   fingerprint,
		"random_bytes":  g.Stats().BytesServed,
	}).Debug("rsa key generated")

	return newKeyBlob(data, o.Format, fingerprint), nil
}

// keyGenFailure records and annotates a failed stage.
func keyGenFailure(o KeyGenOptions, stage KeyGenStage, err error) error {
	if o.Metrics != nil {
		o.Metrics.IncrementFailure(stage)
	}
	Error("RSA key generation failed at %s: %v", stage, err)

	return oops.
		In("ixicrypt").
		Code(string(stage)).
		With("key_size_bits", o.KeySizeBits).
		With("prng", o.PRNGName).
		Wrap(&KeyGenError{Stage: stage, KeySizeBits: o.KeySizeBits, Err: err})
}
