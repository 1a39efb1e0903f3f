package go_ixicrypt

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"strings"
	"testing"

	"github.com/samber/oops"
)

func TestGenerateRSAKeyEndToEnd(t *testing.T) {
	entropy := testEntropy(256)

	blob, err := GenerateRSAKey(entropy, 1024, 65537)
	if err != nil {
		t.Fatalf("GenerateRSAKey failed: %v", err)
	}
	defer FreeKey(blob)

	if blob.Format() != ExportPKCS1DER {
		t.Errorf("Format = %s, want %s", blob.Format(), ExportPKCS1DER)
	}
	if n := blob.Len(); n < 580 || n > 620 {
		t.Errorf("1024-bit PKCS#1 blob is %d bytes, expected about 608", n)
	}

	key, err := x509.ParsePKCS1PrivateKey(blob.Bytes())
	if err != nil {
		t.Fatalf("Blob is not a PKCS#1 private key: %v", err)
	}
	if err := key.Validate(); err != nil {
		t.Errorf("Key failed validation: %v", err)
	}
	if key.N.BitLen() != 1024 {
		t.Errorf("Modulus has %d bits, want 1024", key.N.BitLen())
	}
	if key.E != 65537 {
		t.Errorf("Public exponent = %d, want 65537", key.E)
	}
}

func TestGenerateRSAKeyDeterministic(t *testing.T) {
	entropy := testEntropy(128)

	a, err := GenerateRSAKey(entropy, 1024, 65537)
	if err != nil {
		t.Fatalf("First GenerateRSAKey failed: %v", err)
	}
	defer FreeKey(a)
	b, err := GenerateRSAKey(entropy, 1024, 65537)
	if err != nil {
		t.Fatalf("Second GenerateRSAKey failed: %v", err)
	}
	defer FreeKey(b)

	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("Same entropy produced different key blobs")
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("Same entropy produced different fingerprints")
	}

	other := testEntropy(128)
	other[0] ^= 1
	c, err := GenerateRSAKey(other, 1024, 65537)
	if err != nil {
		t.Fatalf("Third GenerateRSAKey failed: %v", err)
	}
	defer FreeKey(c)
	if bytes.Equal(a.Bytes(), c.Bytes()) {
		t.Error("Different entropy produced the same key blob")
	}
}

func TestGenerateRSAKeyMatchesStream(t *testing.T) {
	entropy := testEntropy(64)

	blob, err := GenerateRSAKey(entropy, 1024, 65537)
	if err != nil {
		t.Fatalf("GenerateRSAKey failed: %v", err)
	}
	defer FreeKey(blob)

	k, err := makeRSAKey(seededReader(t, 64), 128, 65537)
	if err != nil {
		t.Fatalf("makeRSAKey failed: %v", err)
	}
	want, err := x509.ParsePKCS1PrivateKey(blob.Bytes())
	if err != nil {
		t.Fatalf("Failed to parse blob: %v", err)
	}
	if want.N.Cmp(k.N) != 0 {
		t.Error("Exported key was not built from the generator stream")
	}
}

func TestGenerateRSAKeyPEM(t *testing.T) {
	blob, err := GenerateRSAKeyWithOptions(testEntropy(64),
		WithKeySize(1024),
		WithExportFormat(ExportPEM),
	)
	if err != nil {
		t.Fatalf("GenerateRSAKeyWithOptions failed: %v", err)
	}
	defer FreeKey(blob)

	block, _ := pem.Decode(blob.Bytes())
	if block == nil {
		t.Fatal("Blob is not PEM")
	}
	if block.Type != PKCS1_PRIVATE_KEY_HEADER {
		t.Errorf("PEM type = %q, want %q", block.Type, PKCS1_PRIVATE_KEY_HEADER)
	}

	key, err := blob.PrivateKey()
	if err != nil {
		t.Fatalf("PrivateKey failed: %v", err)
	}
	if key.N.BitLen() != 1024 {
		t.Errorf("Modulus has %d bits, want 1024", key.N.BitLen())
	}

	der, err := GenerateRSAKey(testEntropy(64), 1024, 65537)
	if err != nil {
		t.Fatalf("GenerateRSAKey failed: %v", err)
	}
	defer FreeKey(der)
	if !bytes.Equal(block.Bytes, der.Bytes()) {
		t.Error("PEM body differs from the DER export of the same key")
	}
}

func TestGenerateRSAInvalidInputs(t *testing.T) {
	tests := []struct {
		name    string
		entropy []byte
		bits    int
		e       uint64
		stage   KeyGenStage
		want    error
	}{
		{"empty entropy", nil, 1024, 65537, StageSeed, ErrInvalidEntropyLength},
		{"short entropy", testEntropy(63), 1024, 65537, StageSeed, ErrInvalidEntropyLength},
		{"odd entropy", testEntropy(100), 1024, 65537, StageSeed, ErrInvalidEntropyLength},
		{"small key", testEntropy(64), 512, 65537, StageValidate, ErrInvalidKeySize},
		{"large key", testEntropy(64), 8192, 65537, StageValidate, ErrInvalidKeySize},
		{"even exponent", testEntropy(64), 1024, 4, StageValidate, ErrInvalidExponent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if blob := GenerateRSA(tt.entropy, tt.bits, tt.e); blob != nil {
				FreeKey(blob)
				t.Fatal("GenerateRSA returned a key for invalid input")
			}

			_, err := GenerateRSAKey(tt.entropy, tt.bits, tt.e)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if !IsInputError(err) {
				t.Errorf("IsInputError(%v) = false", err)
			}

			var kgErr *KeyGenError
			if !errors.As(err, &kgErr) {
				t.Fatalf("error %v is not a KeyGenError", err)
			}
			if kgErr.Stage != tt.stage {
				t.Errorf("Stage = %s, want %s", kgErr.Stage, tt.stage)
			}
		})
	}
}

func TestGenerateRSAKeyOopsContext(t *testing.T) {
	_, err := GenerateRSAKey(nil, 1024, 65537)
	if err == nil {
		t.Fatal("Expected error")
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		t.Fatalf("error %T is not annotated", err)
	}
	if oopsErr.Code() != string(StageSeed) {
		t.Errorf("oops code = %v, want %s", oopsErr.Code(), StageSeed)
	}
	if oopsErr.Domain() != "ixicrypt" {
		t.Errorf("oops domain = %q, want ixicrypt", oopsErr.Domain())
	}
	if CodeOf(err) != CodeInvalidEntropyLength {
		t.Errorf("CodeOf = %s, want %s", CodeOf(err), CodeInvalidEntropyLength)
	}
}

func TestGenerateRSAKeyUnknownAlgorithms(t *testing.T) {
	_, err := GenerateRSAKeyWithOptions(testEntropy(64), WithKeySize(1024), WithPRNG("fortuna"))
	if !errors.Is(err, ErrPRNGNotRegistered) {
		t.Errorf("Unknown PRNG error = %v, want ErrPRNGNotRegistered", err)
	}

	_, err = GenerateRSAKeyWithOptions(testEntropy(64), WithKeySize(1024), WithCipher("twofish"))
	if !errors.Is(err, ErrInvalidCipher) {
		t.Errorf("Unknown cipher error = %v, want ErrInvalidCipher", err)
	}

	_, err = GenerateRSAKeyWithOptions(testEntropy(64), WithKeySize(1024), WithExportFormat(ExportFormat(9)))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Unknown format error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestGenerateRSAKeyMetrics(t *testing.T) {
	m := NewInMemoryMetrics()

	blob, err := GenerateRSAKeyWithOptions(testEntropy(64), WithKeySize(1024), WithMetrics(m))
	if err != nil {
		t.Fatalf("GenerateRSAKeyWithOptions failed: %v", err)
	}
	FreeKey(blob)

	if _, err := GenerateRSAKeyWithOptions(nil, WithKeySize(1024), WithMetrics(m)); err == nil {
		t.Fatal("Expected error for missing entropy")
	}

	if got := m.KeysGenerated(1024); got != 1 {
		t.Errorf("KeysGenerated(1024) = %d, want 1", got)
	}
	if got := m.Failures(StageSeed); got != 1 {
		t.Errorf("Failures(seed) = %d, want 1", got)
	}
	if m.RandomBytes() == 0 || m.BlocksGenerated() == 0 {
		t.Error("Random byte and block counters were not updated")
	}
	if m.AvgLatency(1024) <= 0 {
		t.Error("Latency was not recorded")
	}
}

func TestKeyBlobRelease(t *testing.T) {
	blob, err := GenerateRSAKey(testEntropy(64), 1024, 65537)
	if err != nil {
		t.Fatalf("GenerateRSAKey failed: %v", err)
	}
	data := blob.Bytes()
	fp := blob.Fingerprint()

	FreeKey(blob)
	if !blob.Released() {
		t.Error("Blob not released")
	}
	if blob.Bytes() != nil || blob.Len() != 0 || blob.Base64() != "" {
		t.Error("Released blob still exposes bytes")
	}
	for _, b := range data {
		if b != 0 {
			t.Fatal("Release did not zero the key bytes")
		}
	}
	if blob.Fingerprint() != fp {
		t.Error("Fingerprint lost on release")
	}
	if _, err := blob.PrivateKey(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("PrivateKey after release = %v, want ErrInvalidArgument", err)
	}

	FreeKey(blob)
	FreeKey(nil)
}

func TestKeyBlobBase64AndFingerprint(t *testing.T) {
	blob, err := GenerateRSAKey(testEntropy(64), 1024, 65537)
	if err != nil {
		t.Fatalf("GenerateRSAKey failed: %v", err)
	}
	defer FreeKey(blob)

	if blob.Base64() == "" {
		t.Error("Base64 is empty")
	}

	key, err := blob.PrivateKey()
	if err != nil {
		t.Fatalf("PrivateKey failed: %v", err)
	}
	fp, err := PublicKeyFingerprint(&key.PublicKey)
	if err != nil {
		t.Fatalf("PublicKeyFingerprint failed: %v", err)
	}
	if fp != blob.Fingerprint() {
		t.Errorf("Fingerprint = %s, want %s", blob.Fingerprint(), fp)
	}
	if strings.ContainsAny(fp, "=+/") {
		t.Errorf("Fingerprint %q is not unpadded base32", fp)
	}
	// 32-byte SHA-256 digest, unpadded base32
	if len(fp) != 52 {
		t.Errorf("Fingerprint %q has %d characters, want 52", fp, len(fp))
	}

	der, err := MarshalPKCS1PublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("MarshalPKCS1PublicKey failed: %v", err)
	}
	if !bytes.Equal(der, x509.MarshalPKCS1PublicKey(&key.PublicKey)) {
		t.Error("Public key encoding differs from crypto/x509")
	}
}

func TestExportMatchesX509(t *testing.T) {
	k, err := makeRSAKey(seededReader(t, 64), 128, 65537)
	if err != nil {
		t.Fatalf("makeRSAKey failed: %v", err)
	}
	out, err := exportRSAKey(k, ExportPKCS1DER)
	if err != nil {
		t.Fatalf("exportRSAKey failed: %v", err)
	}
	defer out.Release()

	if want := x509.MarshalPKCS1PrivateKey(k.PrivateKey()); !bytes.Equal(out.Bytes(), want) {
		t.Error("PKCS#1 export differs from crypto/x509")
	}
}

func TestExportPEMWrapsScratchDER(t *testing.T) {
	k, err := makeRSAKey(seededReader(t, 64), 128, 65537)
	if err != nil {
		t.Fatalf("makeRSAKey failed: %v", err)
	}
	der, err := marshalPKCS1PrivateKey(k, make([]byte, EXPORT_SCRATCH_SIZE))
	if err != nil {
		t.Fatalf("marshalPKCS1PrivateKey failed: %v", err)
	}
	out, err := exportRSAKey(k, ExportPEM)
	if err != nil {
		t.Fatalf("exportRSAKey failed: %v", err)
	}
	defer out.Release()

	block, rest := pem.Decode(out.Bytes())
	if block == nil || len(rest) != 0 {
		t.Fatal("PEM export is not a single PEM block")
	}
	if block.Type != PKCS1_PRIVATE_KEY_HEADER {
		t.Errorf("PEM type = %q, want %q", block.Type, PKCS1_PRIVATE_KEY_HEADER)
	}
	if !bytes.Equal(block.Bytes, der) {
		t.Error("PEM body is not the scratch DER encoding")
	}
	if _, err := parsePrivateKey(out.Bytes(), ExportPEM); err != nil {
		t.Errorf("pemutil could not parse the export: %v", err)
	}
}

func TestExportScratchTooSmall(t *testing.T) {
	k, err := makeRSAKey(seededReader(t, 64), 128, 65537)
	if err != nil {
		t.Fatalf("makeRSAKey failed: %v", err)
	}
	if _, err := marshalPKCS1PrivateKey(k, make([]byte, 64)); !errors.Is(err, ErrExportBufferTooSmall) {
		t.Errorf("Small scratch error = %v, want ErrExportBufferTooSmall", err)
	}
}

func BenchmarkGenerateRSAKey1024(b *testing.B) {
	entropy := testEntropy(64)
	for i := 0; i < b.N; i++ {
		entropy[0] = byte(i)
		blob, err := GenerateRSAKey(entropy, 1024, 65537)
		if err != nil {
			b.Fatal(err)
		}
		FreeKey(blob)
	}
}
