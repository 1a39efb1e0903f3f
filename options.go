package go_ixicrypt

import "fmt"

// KeyGenOptions configures an RSA key-generation request.
type KeyGenOptions struct {
	KeySizeBits    int
	PublicExponent uint64
	Format         ExportFormat
	// PRNGName is the registry name of the randomness source. Only
	// PRNG_IXIPRNG draws from the caller's entropy and is deterministic.
	PRNGName   string
	CipherName string
	Metrics    MetricsCollector
}

// KeyGenOption mutates KeyGenOptions.
type KeyGenOption func(*KeyGenOptions)

// DefaultKeyGenOptions returns 4096-bit keys with e = 65537 exported as
// PKCS#1 DER from the deterministic generator.
func DefaultKeyGenOptions() KeyGenOptions {
	return KeyGenOptions{
		KeySizeBits:    RSA_DEFAULT_KEY_BITS,
		PublicExponent: RSA_DEFAULT_EXPONENT,
		Format:         ExportPKCS1DER,
		PRNGName:       PRNG_IXIPRNG,
		CipherName:     CIPHER_AES,
	}
}

// WithKeySize sets the modulus size in bits.
func WithKeySize(bits int) KeyGenOption {
	return func(o *KeyGenOptions) { o.KeySizeBits = bits }
}

// WithExponent sets the public exponent.
func WithExponent(e uint64) KeyGenOption {
	return func(o *KeyGenOptions) { o.PublicExponent = e }
}

// WithExportFormat sets the encoding of the returned blob.
func WithExportFormat(f ExportFormat) KeyGenOption {
	return func(o *KeyGenOptions) { o.Format = f }
}

// WithMetrics sets the collector that receives key-generation metrics.
func WithMetrics(m MetricsCollector) KeyGenOption {
	return func(o *KeyGenOptions) { o.Metrics = m }
}

// WithCipher sets the registry name of the generator's block cipher.
func WithCipher(name string) KeyGenOption {
	return func(o *KeyGenOptions) { o.CipherName = name }
}

// WithPRNG sets the registry name of the randomness source.
func WithPRNG(name string) KeyGenOption {
	return func(o *KeyGenOptions) { o.PRNGName = name }
}

// Validate checks the RSA parameters and export format.
func (o KeyGenOptions) Validate() error {
	if err := ValidateRSAParams(o.KeySizeBits, o.PublicExponent); err != nil {
		return err
	}
	switch o.Format {
	case ExportPKCS1DER, ExportPEM:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, o.Format)
	}
	if o.PRNGName == "" || o.CipherName == "" {
		return fmt.Errorf("%w: prng and cipher names are required", ErrInvalidArgument)
	}
	return nil
}
