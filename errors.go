package go_ixicrypt

import (
	"errors"
	"fmt"
)

// Standard ixicrypt Error Types
//
// Errors follow Go 1.13+ wrapping conventions and can be checked with
// errors.Is() and errors.As(). Generator failures carry an ErrorCode so a
// caller sitting behind a plugin-style boundary can still tell the failure
// categories apart.

// Sentinel errors for validation and algorithm failures
var (
	// ErrInvalidEntropyLength indicates the entropy is empty or not a multiple of 64 bytes.
	ErrInvalidEntropyLength = errors.New("ixicrypt: entropy length must be a positive multiple of 64")

	// ErrNoEntropy indicates bytes were requested from a generator that was never seeded
	// or whose entropy has been dropped.
	ErrNoEntropy = errors.New("ixicrypt: generator has no entropy state")

	// ErrInvalidCipher indicates the configured block cipher is not registered or unusable.
	ErrInvalidCipher = errors.New("ixicrypt: invalid or unavailable cipher")

	// ErrCipherInitFailed indicates the block cipher rejected the key taken from the pool.
	ErrCipherInitFailed = errors.New("ixicrypt: cipher initialization failed")

	// ErrInvalidKeySize indicates an RSA modulus size outside [1024, 4096] bits
	// or not a multiple of 8.
	ErrInvalidKeySize = errors.New("ixicrypt: invalid RSA key size")

	// ErrInvalidExponent indicates an even or too small RSA public exponent.
	ErrInvalidExponent = errors.New("ixicrypt: invalid RSA public exponent")

	// ErrInvalidPrimeSize indicates a prime length outside [2, 512] bytes.
	ErrInvalidPrimeSize = errors.New("ixicrypt: invalid prime size")

	// ErrPRNGNotRegistered indicates a PRNG name lookup failed in the algorithm registry.
	ErrPRNGNotRegistered = errors.New("ixicrypt: prng not registered")

	// ErrHashNotRegistered indicates a hash name lookup failed in the algorithm registry.
	ErrHashNotRegistered = errors.New("ixicrypt: hash not registered")

	// ErrAlgorithmExists indicates a duplicate registration attempt.
	ErrAlgorithmExists = errors.New("ixicrypt: algorithm already registered")

	// ErrShortRead indicates a PRNG returned fewer bytes than requested.
	ErrShortRead = errors.New("ixicrypt: prng returned a short read")

	// ErrExportBufferTooSmall indicates the encoded key does not fit the export scratch buffer.
	ErrExportBufferTooSmall = errors.New("ixicrypt: export buffer too small")

	// ErrUnsupportedFormat indicates an unknown export format was requested.
	ErrUnsupportedFormat = errors.New("ixicrypt: unsupported export format")

	// ErrInvalidArgument indicates a nil or invalid argument was passed to a public API method.
	ErrInvalidArgument = errors.New("ixicrypt: invalid argument (nil or empty value)")
)

// ErrorCode is the generator failure category.
// Negative values keep the return codes of the PRNG plugin interface, where
// zero is success.
type ErrorCode int

const (
	CodeOK                   ErrorCode = 0
	CodeInvalidEntropyLength ErrorCode = -1
	CodeNoEntropy            ErrorCode = -2
	CodeInvalidCipher        ErrorCode = -3
	CodeCipherInitFailed     ErrorCode = -4
	CodeUnknown              ErrorCode = -100
)

func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeInvalidEntropyLength:
		return "InvalidEntropyLength"
	case CodeNoEntropy:
		return "NoEntropy"
	case CodeInvalidCipher:
		return "InvalidCipher"
	case CodeCipherInitFailed:
		return "CipherInitFailed"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// sentinel returns the sentinel error matching the code.
func (c ErrorCode) sentinel() error {
	switch c {
	case CodeInvalidEntropyLength:
		return ErrInvalidEntropyLength
	case CodeNoEntropy:
		return ErrNoEntropy
	case CodeInvalidCipher:
		return ErrInvalidCipher
	case CodeCipherInitFailed:
		return ErrCipherInitFailed
	default:
		return nil
	}
}

// GeneratorError represents a failed generator operation.
// Err is the underlying cause; errors.Is(err, ErrNoEntropy) and friends work
// through Unwrap.
type GeneratorError struct {
	Op   string    // Generator operation (e.g., "set entropy", "get bytes")
	Code ErrorCode // Failure category
	Err  error     // Underlying error
}

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("ixicrypt: generator %s failed (%s): %v", e.Op, e.Code, e.Err)
}

func (e *GeneratorError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's code, so a
// cause wrapped from the cipher still matches ErrCipherInitFailed.
func (e *GeneratorError) Is(target error) bool {
	s := e.Code.sentinel()
	return s != nil && s == target
}

// newGeneratorError creates a GeneratorError. A nil cause is replaced by the code's sentinel.
func newGeneratorError(op string, code ErrorCode, err error) error {
	if err == nil {
		err = code.sentinel()
	}
	return &GeneratorError{
		Op:   op,
		Code: code,
		Err:  err,
	}
}

// CodeOf returns the generator failure category carried by err.
// Returns CodeOK for nil and CodeUnknown for errors that carry no category.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}

	var ge *GeneratorError
	if errors.As(err, &ge) {
		return ge.Code
	}

	for _, code := range []ErrorCode{CodeInvalidEntropyLength, CodeNoEntropy, CodeInvalidCipher, CodeCipherInitFailed} {
		if errors.Is(err, code.sentinel()) {
			return code
		}
	}
	return CodeUnknown
}

// KeyGenStage names the step of a key-generation request that failed.
type KeyGenStage string

const (
	StageValidate KeyGenStage = "validate"
	StageRegister KeyGenStage = "register"
	StageSeed     KeyGenStage = "seed"
	StageGenerate KeyGenStage = "generate"
	StageExport   KeyGenStage = "export"
)

// KeyGenError represents a failed key-generation request.
// It keeps the stage so the coarse "no key" result can be diagnosed.
type KeyGenError struct {
	Stage       KeyGenStage // Which step failed
	KeySizeBits int         // Requested modulus size
	Err         error       // Underlying error
}

func (e *KeyGenError) Error() string {
	return fmt.Sprintf("ixicrypt: rsa key generation (%d bits) failed at %s: %v", e.KeySizeBits, e.Stage, e.Err)
}

func (e *KeyGenError) Unwrap() error {
	return e.Err
}

// IsInputError returns true if err was caused by invalid caller input.
// Input errors are not retryable with the same arguments; the caller must
// supply different entropy or parameters.
func IsInputError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrInvalidEntropyLength) ||
		errors.Is(err, ErrInvalidKeySize) ||
		errors.Is(err, ErrInvalidExponent) ||
		errors.Is(err, ErrInvalidPrimeSize) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrInvalidArgument)
}
