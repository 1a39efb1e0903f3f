package go_ixicrypt

import (
	"crypto/sha512"
	"fmt"
	"hash"
	"sort"
	"sync"
)

// PRNGState is the opaque per-instance state handed back to a PRNG's
// functions. For the ixiprng descriptor it is a *Generator.
type PRNGState interface{}

// PRNGDescriptor is a named randomness source in the algorithm registry.
//
// Only Name and Read are required. The remaining hooks are optional and nil
// for sources that do not support them; callers must check before use.
type PRNGDescriptor struct {
	Name string

	Start      func(state PRNGState) error
	AddEntropy func(in []byte, state PRNGState) error
	Ready      func(state PRNGState) error
	// Read fills out and returns the number of bytes written.
	Read   func(out []byte, state PRNGState) int
	Done   func(state PRNGState) error
	Export func(out []byte, state PRNGState) (int, error)
	Import func(in []byte, state PRNGState) error
	Test   func() error
}

// HashDescriptor is a named hash function in the algorithm registry.
type HashDescriptor struct {
	Name string
	Size int
	New  func() hash.Hash
}

// CipherDescriptor is a named block cipher in the algorithm registry.
type CipherDescriptor struct {
	Name      string
	BlockSize int
	KeySizes  []int
	New       CipherFactory
}

// algorithmRegistry is the process-wide algorithm table.
// All access goes through mu; registration and lookup are safe for
// concurrent use.
type algorithmRegistry struct {
	mu      sync.RWMutex
	prngs   map[string]*PRNGDescriptor
	hashes  map[string]*HashDescriptor
	ciphers map[string]*CipherDescriptor
}

var globalRegistry = newAlgorithmRegistry()

func newAlgorithmRegistry() *algorithmRegistry {
	return &algorithmRegistry{
		prngs:   make(map[string]*PRNGDescriptor),
		hashes:  make(map[string]*HashDescriptor),
		ciphers: make(map[string]*CipherDescriptor),
	}
}

// RegisterPRNG adds desc to the registry.
// Returns ErrAlgorithmExists if the name is taken.
func RegisterPRNG(desc *PRNGDescriptor) error {
	return globalRegistry.registerPRNG(desc)
}

// RegisterHash adds desc to the registry.
// Returns ErrAlgorithmExists if the name is taken.
func RegisterHash(desc *HashDescriptor) error {
	return globalRegistry.registerHash(desc)
}

// RegisterCipher adds desc to the registry.
// Returns ErrAlgorithmExists if the name is taken.
func RegisterCipher(desc *CipherDescriptor) error {
	return globalRegistry.registerCipher(desc)
}

// FindPRNG looks up a PRNG by name.
func FindPRNG(name string) (*PRNGDescriptor, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	d, ok := globalRegistry.prngs[name]
	return d, ok
}

// FindHash looks up a hash by name.
func FindHash(name string) (*HashDescriptor, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	d, ok := globalRegistry.hashes[name]
	return d, ok
}

// FindCipher looks up a cipher by name.
func FindCipher(name string) (*CipherDescriptor, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	d, ok := globalRegistry.ciphers[name]
	return d, ok
}

// RegisteredAlgorithms returns the sorted names in each table.
func RegisteredAlgorithms() (prngs, hashes, ciphers []string) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	for name := range globalRegistry.prngs {
		prngs = append(prngs, name)
	}
	for name := range globalRegistry.hashes {
		hashes = append(hashes, name)
	}
	for name := range globalRegistry.ciphers {
		ciphers = append(ciphers, name)
	}
	sort.Strings(prngs)
	sort.Strings(hashes)
	sort.Strings(ciphers)
	return prngs, hashes, ciphers
}

func (r *algorithmRegistry) registerPRNG(desc *PRNGDescriptor) error {
	if desc == nil || desc.Name == "" || desc.Read == nil {
		return fmt.Errorf("%w: prng descriptor needs a name and a read function", ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addPRNGLocked(desc)
}

func (r *algorithmRegistry) registerHash(desc *HashDescriptor) error {
	if desc == nil || desc.Name == "" || desc.New == nil {
		return fmt.Errorf("%w: hash descriptor needs a name and a constructor", ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addHashLocked(desc)
}

func (r *algorithmRegistry) registerCipher(desc *CipherDescriptor) error {
	if desc == nil || desc.Name == "" || desc.New == nil {
		return fmt.Errorf("%w: cipher descriptor needs a name and a constructor", ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addCipherLocked(desc)
}

func (r *algorithmRegistry) addPRNGLocked(desc *PRNGDescriptor) error {
	if _, exists := r.prngs[desc.Name]; exists {
		return fmt.Errorf("%w: prng %q", ErrAlgorithmExists, desc.Name)
	}
	r.prngs[desc.Name] = desc
	return nil
}

func (r *algorithmRegistry) addHashLocked(desc *HashDescriptor) error {
	if _, exists := r.hashes[desc.Name]; exists {
		return fmt.Errorf("%w: hash %q", ErrAlgorithmExists, desc.Name)
	}
	r.hashes[desc.Name] = desc
	return nil
}

func (r *algorithmRegistry) addCipherLocked(desc *CipherDescriptor) error {
	if _, exists := r.ciphers[desc.Name]; exists {
		return fmt.Errorf("%w: cipher %q", ErrAlgorithmExists, desc.Name)
	}
	r.ciphers[desc.Name] = desc
	return nil
}

// registerDefaults installs every algorithm key generation depends on.
// Each name is checked before it is added under a single write lock, so
// concurrent and repeated calls leave exactly one entry per name.
func (r *algorithmRegistry) registerDefaults() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.prngs[PRNG_IXIPRNG]; !ok {
		if err := r.addPRNGLocked(ixiprngDescriptor); err != nil {
			return err
		}
	}
	if _, ok := r.prngs[PRNG_SPRNG]; !ok {
		if err := r.addPRNGLocked(sprngDescriptor); err != nil {
			return err
		}
	}
	if _, ok := r.hashes[HASH_SHA512]; !ok {
		if err := r.addHashLocked(sha512Descriptor); err != nil {
			return err
		}
	}
	if _, ok := r.ciphers[CIPHER_AES]; !ok {
		if err := r.addCipherLocked(aesDescriptor); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDefaults registers the ixiprng adapter, the system PRNG, SHA-512
// and AES. It is idempotent and safe to call from many goroutines.
func RegisterDefaults() error {
	if err := globalRegistry.registerDefaults(); err != nil {
		Error("Failed to register default algorithms: %v", err)
		return err
	}
	return nil
}

// acceptsKeySize reports whether desc lists n among its key sizes.
// A descriptor without KeySizes accepts any key.
func acceptsKeySize(desc *CipherDescriptor, n int) bool {
	if len(desc.KeySizes) == 0 {
		return true
	}
	for _, size := range desc.KeySizes {
		if size == n {
			return true
		}
	}
	return false
}

var sha512Descriptor = &HashDescriptor{
	Name: HASH_SHA512,
	Size: sha512.Size,
	New:  sha512.New,
}

var aesDescriptor = &CipherDescriptor{
	Name:      CIPHER_AES,
	BlockSize: BLOCK_SIZE,
	KeySizes:  []int{16, 24, 32},
	New:       newAESCipher,
}
