package go_ixicrypt

import (
	"crypto/rand"
	"fmt"
	"io"
)

// ixiprngDescriptor exposes a *Generator through the registry's PRNG
// contract. It supports reads only; every other hook is nil.
var ixiprngDescriptor = &PRNGDescriptor{
	Name: PRNG_IXIPRNG,
	Read: ixiprngRead,
}

// ixiprngRead forwards to Generator.GetBytes and always reports the full
// request as written. A state that is not a seeded *Generator writes nothing.
func ixiprngRead(out []byte, state PRNGState) int {
	g, ok := state.(*Generator)
	if !ok || g == nil {
		Error("ixiprng read called with state of type %T", state)
		return 0
	}
	if err := g.GetBytes(out); err != nil {
		Error("ixiprng read of %d bytes failed: %v", len(out), err)
		return 0
	}
	return len(out)
}

// sprngDescriptor is the baseline system PRNG backed by crypto/rand.
var sprngDescriptor = &PRNGDescriptor{
	Name:  PRNG_SPRNG,
	Start: func(PRNGState) error { return nil },
	Ready: func(PRNGState) error { return nil },
	Read: func(out []byte, _ PRNGState) int {
		n, err := io.ReadFull(rand.Reader, out)
		if err != nil {
			Error("system prng read failed: %v", err)
		}
		return n
	},
	Done: func(PRNGState) error { return nil },
}

// prngReader adapts a registered PRNG and its state to io.Reader.
type prngReader struct {
	desc  *PRNGDescriptor
	state PRNGState
}

// PRNGReader returns an io.Reader drawing from desc with the given state.
// Any short read from the descriptor surfaces as ErrShortRead.
func PRNGReader(desc *PRNGDescriptor, state PRNGState) (io.Reader, error) {
	if desc == nil || desc.Read == nil {
		return nil, fmt.Errorf("%w: prng descriptor has no read function", ErrInvalidArgument)
	}
	return &prngReader{desc: desc, state: state}, nil
}

// Read implements io.Reader.
func (r *prngReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := r.desc.Read(p, r.state)
	if n != len(p) {
		return n, fmt.Errorf("%w: %s wrote %d of %d bytes", ErrShortRead, r.desc.Name, n, len(p))
	}
	return n, nil
}
