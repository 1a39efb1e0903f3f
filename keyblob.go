package go_ixicrypt

import (
	"crypto/rsa"
	"sync"

	"github.com/go-i2p/common/base64"
)

// KeyBlob is an exported private key owned by the caller.
//
// The bytes stay valid until Release (or FreeKey) is called, which zeroes
// them. Releasing twice, or releasing a nil blob, is a no-op.
type KeyBlob struct {
	mu          sync.Mutex
	data        *secureBuffer
	format      ExportFormat
	fingerprint string
}

// Bytes returns the encoded key, or nil after Release.
// The slice aliases the blob's storage; copy it to keep it past Release.
func (k *KeyBlob) Bytes() []byte {
	if k == nil {
		return nil
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.data.Bytes()
}

// Len returns the encoded key length, or 0 after Release.
func (k *KeyBlob) Len() int {
	if k == nil {
		return 0
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.data.Len()
}

// Format returns the encoding of the blob.
func (k *KeyBlob) Format() ExportFormat {
	if k == nil {
		return ExportPKCS1DER
	}
	return k.format
}

// Fingerprint returns the base32 SHA-256 fingerprint of the public key.
// It remains available after Release.
func (k *KeyBlob) Fingerprint() string {
	if k == nil {
		return ""
	}
	return k.fingerprint
}

// Base64 returns the encoded key in I2P base64, or "" after Release.
func (k *KeyBlob) Base64() string {
	data := k.Bytes()
	if data == nil {
		return ""
	}
	return base64.EncodeToString(data)
}

// Released reports whether the blob's bytes have been released.
func (k *KeyBlob) Released() bool {
	if k == nil {
		return true
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.data.Released()
}

// Release zeroes and frees the key bytes.
func (k *KeyBlob) Release() {
	if k == nil {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.data != nil {
		k.data.Release()
		k.data = nil
		Debug("Released %s key blob %s", k.format, k.fingerprint)
	}
}

// PrivateKey decodes the blob into a crypto/rsa key.
func (k *KeyBlob) PrivateKey() (*rsa.PrivateKey, error) {
	return ParseKeyBlob(k)
}

// FreeKey releases a blob returned by GenerateRSA or GenerateRSAKey.
// Safe on nil and on an already released blob.
func FreeKey(k *KeyBlob) {
	k.Release()
}

// ParseKeyBlob decodes a blob into a crypto/rsa key.
func ParseKeyBlob(k *KeyBlob) (*rsa.PrivateKey, error) {
	if k == nil {
		return nil, ErrInvalidArgument
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.data.Released() {
		return nil, ErrInvalidArgument
	}
	return parsePrivateKey(k.data.Bytes(), k.format)
}

// newKeyBlob wraps an export buffer, taking ownership of it.
func newKeyBlob(data *secureBuffer, format ExportFormat, fingerprint string) *KeyBlob {
	return &KeyBlob{
		data:        data,
		format:      format,
		fingerprint: fingerprint,
	}
}
