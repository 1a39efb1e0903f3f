package go_ixicrypt

// Generator Constants
//
// The generator consumes the entropy pool in cipher-block sized slices and
// requires the pool to be made of whole 64-byte groups.
const (
	BLOCK_SIZE         = 16 // AES block size, also the keystream buffer size
	CIPHER_KEY_SIZE    = 16 // AES-128 key taken from the first bytes of the pool
	ENTROPY_GROUP_SIZE = 64 // entropy length must be a positive multiple of this
)

// Algorithm registry names.
// These mirror the names a key-generation routine uses to look up its
// randomness source, hash and cipher.
const (
	PRNG_IXIPRNG = "ixiprng"
	PRNG_SPRNG   = "sprng"
	HASH_SHA512  = "sha512"
	CIPHER_AES   = "aes"
)

// RSA Constants
//
// Key sizes are bounded the same way the RSA construction routine bounds
// them: the modulus is requested in bytes and must fall in [128, 512].
const (
	RSA_MIN_KEY_BITS         = 1024
	RSA_MAX_KEY_BITS         = 4096
	RSA_DEFAULT_KEY_BITS     = 4096
	RSA_DEFAULT_EXPONENT     = 65537
	RSA_MIN_EXPONENT         = 3
	RSA_MAX_EXPONENT         = 1<<31 - 1
	PRIME_MIN_BYTES          = 2
	PRIME_MAX_BYTES          = 512
	MILLER_RABIN_ROUNDS      = 20
	EXPORT_SCRATCH_SIZE      = 16384 // bounded scratch buffer for DER export
	PKCS1_PRIVATE_KEY_HEADER = "RSA PRIVATE KEY"
)

// Log levels accepted by LogInit
const (
	DEBUG = iota
	INFO
	WARNING
	ERROR
	FATAL
)
