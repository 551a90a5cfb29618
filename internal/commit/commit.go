// Package commit implements the four commitment constructions built on top
// of the structured reference string: the base commitments C and Ĉ, the
// reverse-indexed Hadamard commitment C_y, and the integer commitment V̂
// used by the range proof.
package commit

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/Alfred-hhy/streamCommit/internal/crs"
	"github.com/Alfred-hhy/streamCommit/internal/pairing"
)

// ErrVectorLengthMismatch is returned whenever a supplied vector's length
// does not match the CRS dimension n.
var ErrVectorLengthMismatch = fmt.Errorf("commit: vector length does not match CRS dimension")

// G computes C = commit_G(m, gamma) = g^gamma * prod_j g_j^{m_j}, the base
// commitment in G1. m is 1-indexed conceptually but passed as a 0-indexed
// Go slice: m[0] is m_1.
func G(c *crs.CRS, m []*pairing.Scalar, gamma *pairing.Scalar) (pairing.G1, error) {
	if len(m) != c.N {
		return pairing.G1{}, fmt.Errorf("%w: got %d, want %d", ErrVectorLengthMismatch, len(m), c.N)
	}
	points := make([]pairing.G1, 0, c.N+1)
	scalars := make([]*pairing.Scalar, 0, c.N+1)
	points = append(points, c.G)
	scalars = append(scalars, gamma)
	for j := 1; j <= c.N; j++ {
		points = append(points, c.G1At(j))
		scalars = append(scalars, m[j-1])
	}
	return pairing.MultiExpG1(points, scalars)
}

// Ghat computes Ĉ = commit_Ghat(x, gamma) = ĝ^gamma * prod_j ĝ_j^{x_j}.
func Ghat(c *crs.CRS, x []*pairing.Scalar, gamma *pairing.Scalar) (pairing.G2, error) {
	if len(x) != c.N {
		return pairing.G2{}, fmt.Errorf("%w: got %d, want %d", ErrVectorLengthMismatch, len(x), c.N)
	}
	points := make([]pairing.G2, 0, c.N+1)
	scalars := make([]*pairing.Scalar, 0, c.N+1)
	points = append(points, c.GHat)
	scalars = append(scalars, gamma)
	for j := 1; j <= c.N; j++ {
		points = append(points, c.G2At(j))
		scalars = append(scalars, x[j-1])
	}
	return pairing.MultiExpG2(points, scalars)
}

// Cy computes C_y = commit_Cy(y, x, gamma_y) = g^{gamma_y} *
// prod_j g_{n+1-j}^{y_j x_j}, the reverse-indexed Hadamard commitment. The
// reversal (g_{n+1-j} rather than g_j) is load-bearing for the equality
// proof (spec.md §4.3) and must not be "simplified" away.
func Cy(c *crs.CRS, y, x []*pairing.Scalar, gammaY *pairing.Scalar) (pairing.G1, error) {
	if len(y) != c.N || len(x) != c.N {
		return pairing.G1{}, fmt.Errorf("%w: y has %d, x has %d, want %d", ErrVectorLengthMismatch, len(y), len(x), c.N)
	}
	points := make([]pairing.G1, 0, c.N+1)
	scalars := make([]*pairing.Scalar, 0, c.N+1)
	points = append(points, c.G)
	scalars = append(scalars, gammaY)
	for j := 1; j <= c.N; j++ {
		points = append(points, c.G1Reverse(j))
		scalars = append(scalars, pairing.MulScalar(y[j-1], x[j-1]))
	}
	return pairing.MultiExpG1(points, scalars)
}

// V computes V̂ = commit_V(xHat, r) = ĝ^r * ĝ_1^{xHat}, the integer
// commitment used by the range proof.
func V(c *crs.CRS, xHat, r *pairing.Scalar) pairing.G2 {
	term1 := pairing.ScalarMulG2(c.GHat, r)
	term2 := pairing.ScalarMulG2(c.G2At(1), xHat)
	return pairing.MulG2(term1, term2)
}

// BitsToScalar folds a little-endian bit vector (bit i has weight 2^{i-1},
// i.e. bits[0] is the least significant bit) into a single scalar
// x_hat = sum_i bits_i * 2^{i-1}, via a bits-and-blooms/bitset intermediate
// so the decomposition and recomposition share one bit-indexing
// convention end to end.
func BitsToScalar(bits []int) *pairing.Scalar {
	bs := bitset.New(uint(len(bits)))
	for i, b := range bits {
		if b != 0 {
			bs.Set(uint(i))
		}
	}
	acc := new(pairing.Scalar)
	pow := new(pairing.Scalar).SetInt64(1)
	two := new(pairing.Scalar).SetInt64(2)
	for i := uint(0); i < bs.Len(); i++ {
		if bs.Test(i) {
			acc = pairing.AddScalar(acc, pow)
		}
		pow = pairing.MulScalar(pow, two)
	}
	return acc
}

// ScalarToBits decomposes x into its little-endian bit vector of length l,
// panicking if x does not fit in l bits (a caller bug: the range proof
// should never be invoked with an out-of-range value it expects to prove
// in-range).
func ScalarToBits(x *pairing.Scalar, l int) []int {
	bs := bitset.New(uint(l))
	rem := new(pairing.Scalar).Set(x)
	two := new(pairing.Scalar).SetInt64(2)
	for i := uint(0); i < uint(l); i++ {
		bit := new(pairing.Scalar)
		bit.Mod(rem, two)
		if bit.Sign() != 0 {
			bs.Set(i)
		}
		rem.Rsh(rem, 1)
	}
	if rem.Sign() != 0 {
		panic(fmt.Errorf("commit: value does not fit in %d bits", l))
	}
	bits := make([]int, l)
	for i := uint(0); i < uint(l); i++ {
		if bs.Test(i) {
			bits[i] = 1
		}
	}
	return bits
}
