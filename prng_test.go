package go_ixicrypt

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestIxiprngReadForwardsToGenerator(t *testing.T) {
	pool := testEntropy(64)
	g, err := NewSeededGenerator(pool)
	if err != nil {
		t.Fatalf("Failed to seed generator: %v", err)
	}

	out := make([]byte, 37)
	if n := ixiprngDescriptor.Read(out, g); n != len(out) {
		t.Fatalf("Read returned %d, want %d", n, len(out))
	}
	if want := expectedStream(t, pool, 37); !bytes.Equal(out, want) {
		t.Error("Adapter output differs from generator stream")
	}
}

func TestIxiprngReadBadState(t *testing.T) {
	out := make([]byte, 8)
	if n := ixiprngDescriptor.Read(out, "not a generator"); n != 0 {
		t.Errorf("Read with wrong state type returned %d, want 0", n)
	}
	if n := ixiprngDescriptor.Read(out, NewGenerator()); n != 0 {
		t.Errorf("Read with unseeded generator returned %d, want 0", n)
	}
}

func TestPRNGReader(t *testing.T) {
	pool := testEntropy(128)
	g, _ := NewSeededGenerator(pool)

	r, err := PRNGReader(ixiprngDescriptor, g)
	if err != nil {
		t.Fatalf("PRNGReader failed: %v", err)
	}
	got := make([]byte, 100)
	if _, err := io.ReadFull(r, got); err != nil {
		t.Fatalf("ReadFull failed: %v", err)
	}
	if want := expectedStream(t, pool, 100); !bytes.Equal(got, want) {
		t.Error("PRNGReader output differs from generator stream")
	}

	if n, err := r.Read(nil); n != 0 || err != nil {
		t.Errorf("Read(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestPRNGReaderShortRead(t *testing.T) {
	short := &PRNGDescriptor{
		Name: "short",
		Read: func(out []byte, _ PRNGState) int { return len(out) / 2 },
	}
	r, err := PRNGReader(short, nil)
	if err != nil {
		t.Fatalf("PRNGReader failed: %v", err)
	}
	if _, err := r.Read(make([]byte, 10)); !errors.Is(err, ErrShortRead) {
		t.Errorf("Short read error = %v, want ErrShortRead", err)
	}

	if _, err := PRNGReader(nil, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("PRNGReader(nil) = %v, want ErrInvalidArgument", err)
	}
}

func TestSystemPRNG(t *testing.T) {
	a := make([]byte, 32)
	b := make([]byte, 32)
	if n := sprngDescriptor.Read(a, nil); n != 32 {
		t.Fatalf("sprng Read returned %d", n)
	}
	if n := sprngDescriptor.Read(b, nil); n != 32 {
		t.Fatalf("sprng Read returned %d", n)
	}
	if bytes.Equal(a, b) {
		t.Error("System PRNG returned identical output twice")
	}
}
