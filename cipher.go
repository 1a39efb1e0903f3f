package go_ixicrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// CipherFactory builds a block cipher keyed with key.
// The generator only ever calls Encrypt on single blocks, so any
// cipher.Block with a 16-byte block size can back it, including test stubs.
type CipherFactory func(key []byte) (cipher.Block, error)

// newAESCipher is the default CipherFactory.
func newAESCipher(key []byte) (cipher.Block, error) {
	return aes.NewCipher(key)
}

// counterStream runs a block cipher in counter mode.
//
// The counter starts from an all-zero IV that is incremented once before
// the first block, and is incremented as a full-width little-endian integer,
// so keystream block i is E_K(LE128(i+1)). This is the RFC 3686 start
// convention with a little-endian counter.
type counterStream struct {
	block   cipher.Block
	counter [BLOCK_SIZE]byte
	pad     [BLOCK_SIZE]byte
}

// newCounterStream keys factory with key and sets a zero IV.
func newCounterStream(factory CipherFactory, key []byte) (*counterStream, error) {
	block, err := factory(key)
	if err != nil {
		return nil, fmt.Errorf("failed to key block cipher: %w", err)
	}
	if block == nil || block.BlockSize() != BLOCK_SIZE {
		return nil, fmt.Errorf("%w: block size must be %d bytes", ErrInvalidCipher, BLOCK_SIZE)
	}
	return &counterStream{block: block}, nil
}

// increment adds one to the little-endian counter.
func (cs *counterStream) increment() {
	for i := 0; i < BLOCK_SIZE; i++ {
		cs.counter[i]++
		if cs.counter[i] != 0 {
			break
		}
	}
}

// XORBlock writes src XOR the next keystream block into dst.
// Both slices must hold at least one block.
func (cs *counterStream) XORBlock(dst, src []byte) {
	cs.increment()
	cs.block.Encrypt(cs.pad[:], cs.counter[:])
	for i := 0; i < BLOCK_SIZE; i++ {
		dst[i] = src[i] ^ cs.pad[i]
	}
}

// Reset wipes the counter and the last keystream pad.
func (cs *counterStream) Reset() {
	SecureZero(cs.counter[:])
	SecureZero(cs.pad[:])
}
