package go_ixicrypt

import (
	"fmt"

	"github.com/go-i2p/logger"
)

// Generator is a deterministic pseudo-random byte generator.
//
// It keys a block cipher with the first 16 bytes of an entropy pool and runs
// it in counter mode over successive 16-byte slices of that pool. The same
// entropy always produces the same byte stream, regardless of how reads are
// chunked.
//
// Entropy is seed material, not a reusable key: the IV is always zero, so two
// generators seeded with the same pool emit the same stream.
//
// A Generator is not safe for concurrent use. SetEntropy, GetBytes and Close
// must be serialized by the owner; independent generators share no state.
type Generator struct {
	cipherName string
	factory    CipherFactory

	pool   *secureBuffer  // entropy pool, owned
	stream *counterStream // nil unless seeded
	block  *secureBuffer  // one keystream block, allocated on first generation
	cursor int            // consumed bytes of block, in [0, BLOCK_SIZE]
	offset int            // pool offset of the slice last encrypted

	stats GeneratorStats
}

// GeneratorStats counts generator activity since construction.
type GeneratorStats struct {
	BlocksGenerated uint64
	BytesServed     uint64
	PoolWraps       uint64
	Reseeds         uint64
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithGeneratorCipher selects a cipher from the algorithm registry by name.
func WithGeneratorCipher(name string) GeneratorOption {
	return func(g *Generator) {
		g.cipherName = name
		g.factory = nil
	}
}

// WithCipherFactory uses factory directly, bypassing the registry.
func WithCipherFactory(factory CipherFactory) GeneratorOption {
	return func(g *Generator) {
		g.factory = factory
	}
}

// NewGenerator creates an unseeded generator. Call SetEntropy before reading.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{cipherName: CIPHER_AES}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewSeededGenerator creates a generator and seeds it with entropy.
func NewSeededGenerator(entropy []byte, opts ...GeneratorOption) (*Generator, error) {
	g := NewGenerator(opts...)
	if err := g.SetEntropy(entropy); err != nil {
		return nil, err
	}
	return g, nil
}

// ValidateEntropyLength checks that n is a positive multiple of 64.
func ValidateEntropyLength(n int) error {
	if n <= 0 || n%ENTROPY_GROUP_SIZE != 0 {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidEntropyLength, n)
	}
	return nil
}

// SetEntropy replaces all generator state with a copy of entropy.
//
// Prior state is torn down first, so on failure the generator is left
// unseeded. On success the cipher is keyed with entropy[0:16] and the first
// keystream block is buffered.
func (g *Generator) SetEntropy(entropy []byte) error {
	g.dropGenerator()
	g.DropEntropy()

	if err := ValidateEntropyLength(len(entropy)); err != nil {
		return newGeneratorError("set entropy", CodeInvalidEntropyLength, err)
	}

	g.pool = newSecureBufferFrom(entropy)
	if err := g.constructGenerator(); err != nil {
		g.DropEntropy()
		return err
	}

	g.stats.Reseeds++
	log.WithFields(logger.Fields{
		"at":          "(Generator) SetEntropy",
		"pool_length": len(entropy),
		"cipher":      g.cipherName,
	}).Debug("generator seeded")
	return nil
}

// DropEntropy zeroes and releases the entropy pool and everything derived
// from it. Safe to call on an unseeded generator.
func (g *Generator) DropEntropy() {
	g.dropGenerator()
	if g.pool != nil {
		g.pool.Release()
		g.pool = nil
	}
}

// Seeded reports whether the generator holds entropy and a keyed cipher.
func (g *Generator) Seeded() bool {
	return g.pool != nil && g.stream != nil
}

// Stats returns generator counters.
func (g *Generator) Stats() GeneratorStats {
	return g.stats
}

// GetBytes fills out with the next len(out) bytes of the stream.
//
// Every byte of a keystream block is consumed before the next block is
// generated, so splitting a read into smaller reads yields the same bytes.
func (g *Generator) GetBytes(out []byte) error {
	if !g.Seeded() {
		return newGeneratorError("get bytes", CodeNoEntropy, nil)
	}

	pos := 0
	for pos < len(out) {
		avail := BLOCK_SIZE - g.cursor
		need := len(out) - pos
		if need <= avail {
			copy(out[pos:], g.block.Bytes()[g.cursor:g.cursor+need])
			pos += need
			g.cursor += need
		} else {
			copy(out[pos:], g.block.Bytes()[g.cursor:])
			pos += avail
			g.generateBlock()
		}
	}
	g.stats.BytesServed += uint64(len(out))
	return nil
}

// Read implements io.Reader. It never returns a short read.
func (g *Generator) Read(p []byte) (int, error) {
	if err := g.GetBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close releases all secret state. The generator may be seeded again.
func (g *Generator) Close() error {
	g.DropEntropy()
	return nil
}

// resolveFactory returns the configured cipher factory, looking it up in the
// registry when none was supplied directly.
func (g *Generator) resolveFactory() (CipherFactory, error) {
	if g.factory != nil {
		return g.factory, nil
	}
	if _, ok := FindCipher(g.cipherName); !ok {
		// The default cipher is registered on demand; other names must be
		// registered by the caller.
		if g.cipherName == CIPHER_AES {
			if err := RegisterDefaults(); err != nil {
				return nil, err
			}
		}
	}
	desc, ok := FindCipher(g.cipherName)
	if !ok || desc.New == nil {
		return nil, fmt.Errorf("%w: %q is not registered", ErrInvalidCipher, g.cipherName)
	}
	if desc.BlockSize != BLOCK_SIZE {
		return nil, fmt.Errorf("%w: %q has %d-byte blocks", ErrInvalidCipher, g.cipherName, desc.BlockSize)
	}
	if !acceptsKeySize(desc, CIPHER_KEY_SIZE) {
		return nil, fmt.Errorf("%w: %q does not take %d-byte keys", ErrInvalidCipher, g.cipherName, CIPHER_KEY_SIZE)
	}
	return desc.New, nil
}

// constructGenerator keys the counter stream from the pool and buffers the
// first block.
func (g *Generator) constructGenerator() error {
	g.dropGenerator()

	factory, err := g.resolveFactory()
	if err != nil {
		return newGeneratorError("construct generator", CodeInvalidCipher, err)
	}

	stream, err := newCounterStream(factory, g.pool.Bytes()[:CIPHER_KEY_SIZE])
	if err != nil {
		code := CodeCipherInitFailed
		if CodeOf(err) == CodeInvalidCipher {
			code = CodeInvalidCipher
		}
		return newGeneratorError("construct generator", code, err)
	}
	g.stream = stream
	g.generateBlock()
	return nil
}

// dropGenerator wipes the cipher state and keystream block.
func (g *Generator) dropGenerator() {
	if g.stream != nil {
		g.stream.Reset()
		g.stream = nil
	}
	if g.block != nil {
		g.block.Release()
		g.block = nil
	}
	g.cursor = 0
	g.offset = 0
}

// generateBlock advances the pool offset by one block, wrapping to the start
// once it reaches the end of the pool, and encrypts that slice into the
// keystream buffer.
func (g *Generator) generateBlock() {
	if g.block == nil {
		g.block = newSecureBuffer(BLOCK_SIZE)
	}

	g.offset += BLOCK_SIZE
	if g.offset >= g.pool.Len() {
		g.offset = 0
		g.stats.PoolWraps++
		log.WithFields(logger.Fields{
			"at":          "(Generator) generateBlock",
			"pool_length": g.pool.Len(),
			"blocks":      g.stats.BlocksGenerated,
		}).Debug("entropy pool offset wrapped")
	}

	pool := g.pool.Bytes()
	g.stream.XORBlock(g.block.Bytes(), pool[g.offset:g.offset+BLOCK_SIZE])
	g.cursor = 0
	g.stats.BlocksGenerated++
}
