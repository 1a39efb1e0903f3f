package go_ixicrypt

import (
	"crypto/rsa"
	"fmt"
	"io"
	"math/big"
)

var bigOne = big.NewInt(1)

// rsaKey holds the components of an RSA private key in the order they are
// exported.
type rsaKey struct {
	N  *big.Int
	E  *big.Int
	D  *big.Int
	P  *big.Int
	Q  *big.Int
	DP *big.Int
	DQ *big.Int
	QP *big.Int // q^-1 mod p
}

// ValidateRSAParams checks a modulus size in bits and a public exponent.
func ValidateRSAParams(keySizeBits int, exponent uint64) error {
	if keySizeBits%8 != 0 || keySizeBits < RSA_MIN_KEY_BITS || keySizeBits > RSA_MAX_KEY_BITS {
		return fmt.Errorf("%w: %d bits (must be a multiple of 8 in [%d, %d])",
			ErrInvalidKeySize, keySizeBits, RSA_MIN_KEY_BITS, RSA_MAX_KEY_BITS)
	}
	if exponent < RSA_MIN_EXPONENT || exponent > RSA_MAX_EXPONENT || exponent&1 == 0 {
		return fmt.Errorf("%w: %d (must be odd in [%d, %d])", ErrInvalidExponent, exponent, RSA_MIN_EXPONENT, RSA_MAX_EXPONENT)
	}
	return nil
}

// randPrime reads candidates of lenBytes bytes from r until one is prime.
// The top two bits are set so the product of two such primes has exactly
// 16*lenBytes bits, and the low bit is set so candidates are odd.
func randPrime(r io.Reader, lenBytes int) (*big.Int, error) {
	if lenBytes < PRIME_MIN_BYTES || lenBytes > PRIME_MAX_BYTES {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidPrimeSize, lenBytes)
	}

	buf := newSecureBuffer(lenBytes)
	defer buf.Release()
	b := buf.Bytes()

	n := new(big.Int)
	for {
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, fmt.Errorf("failed to read prime candidate: %w", err)
		}
		b[0] |= 0x80 | 0x40
		b[lenBytes-1] |= 0x01

		n.SetBytes(b)
		if n.ProbablyPrime(MILLER_RABIN_ROUNDS) {
			return n, nil
		}
	}
}

// randPrimeCoprime draws primes until gcd(prime-1, e) == 1.
func randPrimeCoprime(r io.Reader, lenBytes int, e *big.Int) (*big.Int, error) {
	pm1 := new(big.Int)
	g := new(big.Int)
	for {
		p, err := randPrime(r, lenBytes)
		if err != nil {
			return nil, err
		}
		pm1.Sub(p, bigOne)
		if g.GCD(nil, nil, pm1, e).Cmp(bigOne) == 0 {
			return p, nil
		}
	}
}

// makeRSAKey builds an RSA key with a sizeBytes-byte modulus from the bytes
// of r. The construction is deterministic in r: p is drawn first, then q,
// and d is the inverse of e modulo lcm(p-1, q-1).
func makeRSAKey(r io.Reader, sizeBytes int, exponent uint64) (*rsaKey, error) {
	if err := ValidateRSAParams(sizeBytes*8, exponent); err != nil {
		return nil, err
	}

	e := new(big.Int).SetUint64(exponent)

	p, err := randPrimeCoprime(r, sizeBytes/2, e)
	if err != nil {
		return nil, fmt.Errorf("failed to generate prime p: %w", err)
	}
	q, err := randPrimeCoprime(r, sizeBytes/2, e)
	if err != nil {
		return nil, fmt.Errorf("failed to generate prime q: %w", err)
	}

	pm1 := new(big.Int).Sub(p, bigOne)
	qm1 := new(big.Int).Sub(q, bigOne)

	// lcm(p-1, q-1) = (p-1)(q-1) / gcd(p-1, q-1)
	gcd := new(big.Int).GCD(nil, nil, pm1, qm1)
	lcm := new(big.Int).Mul(pm1, qm1)
	lcm.Quo(lcm, gcd)

	d := new(big.Int).ModInverse(e, lcm)
	if d == nil {
		return nil, fmt.Errorf("public exponent %d is not invertible modulo lcm(p-1, q-1)", exponent)
	}

	qp := new(big.Int).ModInverse(q, p)
	if qp == nil {
		// Only possible when p == q
		return nil, fmt.Errorf("generated primes are not coprime")
	}

	return &rsaKey{
		N:  new(big.Int).Mul(p, q),
		E:  e,
		D:  d,
		P:  p,
		Q:  q,
		DP: new(big.Int).Mod(d, pm1),
		DQ: new(big.Int).Mod(d, qm1),
		QP: qp,
	}, nil
}

// PrivateKey converts k to a crypto/rsa key.
func (k *rsaKey) PrivateKey() *rsa.PrivateKey {
	priv := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{
			N: new(big.Int).Set(k.N),
			E: int(k.E.Int64()),
		},
		D:      new(big.Int).Set(k.D),
		Primes: []*big.Int{new(big.Int).Set(k.P), new(big.Int).Set(k.Q)},
	}
	priv.Precompute()
	return priv
}

// clear overwrites the private components.
func (k *rsaKey) clear() {
	for _, n := range []*big.Int{k.D, k.P, k.Q, k.DP, k.DQ, k.QP} {
		if n != nil {
			n.SetInt64(0)
		}
	}
}
