package go_ixicrypt

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"math/big"

	"go.step.sm/crypto/pemutil"
	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// ExportFormat selects the encoding of an exported private key.
type ExportFormat int

const (
	// ExportPKCS1DER is the DER-encoded PKCS#1 RSAPrivateKey structure.
	ExportPKCS1DER ExportFormat = iota
	// ExportPEM is the PKCS#1 structure wrapped in an "RSA PRIVATE KEY" PEM block.
	ExportPEM
)

func (f ExportFormat) String() string {
	switch f {
	case ExportPKCS1DER:
		return "pkcs1-der"
	case ExportPEM:
		return "pem"
	default:
		return fmt.Sprintf("ExportFormat(%d)", int(f))
	}
}

// marshalPKCS1PrivateKey encodes k as a PKCS#1 RSAPrivateKey into scratch
// without growing it. The returned slice aliases scratch.
func marshalPKCS1PrivateKey(k *rsaKey, scratch []byte) ([]byte, error) {
	b := cryptobyte.NewFixedBuilder(scratch[:0])
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0) // two-prime version
		for _, n := range []*big.Int{k.N, k.E, k.D, k.P, k.Q, k.DP, k.DQ, k.QP} {
			b.AddASN1BigInt(n)
		}
	})
	der, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportBufferTooSmall, err)
	}
	return der, nil
}

// MarshalPKCS1PublicKey encodes pub as a PKCS#1 RSAPublicKey.
func MarshalPKCS1PublicKey(pub *rsa.PublicKey) ([]byte, error) {
	if pub == nil || pub.N == nil {
		return nil, fmt.Errorf("%w: public key is nil", ErrInvalidArgument)
	}
	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(pub.N)
		b.AddASN1Int64(int64(pub.E))
	})
	return b.Bytes()
}

// exportRSAKey encodes k in format using a bounded scratch buffer and copies
// exactly the produced bytes into a new secure buffer owned by the caller.
func exportRSAKey(k *rsaKey, format ExportFormat) (*secureBuffer, error) {
	scratch := newSecureBuffer(EXPORT_SCRATCH_SIZE)
	defer scratch.Release()

	der, err := marshalPKCS1PrivateKey(k, scratch.Bytes())
	if err != nil {
		return nil, err
	}

	switch format {
	case ExportPKCS1DER:
		return newSecureBufferFrom(der), nil
	case ExportPEM:
		encoded := pem.EncodeToMemory(&pem.Block{Type: PKCS1_PRIVATE_KEY_HEADER, Bytes: der})
		if encoded == nil {
			return nil, fmt.Errorf("%w: PEM encoding failed", ErrUnsupportedFormat)
		}
		out := newSecureBufferFrom(encoded)
		SecureZero(encoded)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// parsePrivateKey decodes an exported key in the given format.
func parsePrivateKey(data []byte, format ExportFormat) (*rsa.PrivateKey, error) {
	switch format {
	case ExportPKCS1DER:
		key, err := x509.ParsePKCS1PrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS#1 private key: %w", err)
		}
		return key, nil
	case ExportPEM:
		parsed, err := pemutil.ParseKey(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PEM private key: %w", err)
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: PEM block holds %T, not an RSA private key", ErrUnsupportedFormat, parsed)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
