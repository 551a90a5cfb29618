// Package pairing wraps the Type-3 asymmetric pairing used throughout the
// vector-commitment and accumulator engines: BLS12-381 via gnark-crypto.
//
// Every other internal package talks to the curve only through this
// package's Scalar/G1/G2/GT aliases and helpers, so swapping the underlying
// curve (BN254, MNT224-class) is a change confined to this package.
package pairing

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Scalar is an element of 𝔽_p, the scalar field of the pairing groups.
type Scalar = big.Int

// G1, G2 and GT are the two source groups and the target group of the
// bilinear map e: G1 x G2 -> GT.
type (
	G1 = bls12381.G1Affine
	G2 = bls12381.G2Affine
	GT = bls12381.GT
)

// Order is the prime order p of G1, G2 and GT.
var Order = fr.Modulus()

// DST_G1 is the domain separation tag used when hashing arbitrary bytes to
// a point of G1 (RFC 9380 hash-to-curve, SSWU for BLS12-381 G1).
const DST_G1 = "VDS_BLS12381G1_XMD:SHA-256_SSWU_RO_"

var (
	ErrInvalidEncoding = errors.New("pairing: invalid group element encoding")
	ErrPairingFailed   = errors.New("pairing: bilinear map evaluation failed")
)

// Generators returns the canonical generators g in G1 and g_hat in G2.
func Generators() (g G1, gHat G2) {
	_, _, g, gHat = bls12381.Generators()
	return g, gHat
}

// RandomScalar draws a non-zero element of 𝔽_p from rng (crypto/rand.Reader
// when nil). The modulo bias is kept negligible by oversampling before the
// reduction; a zero result is discarded and redrawn.
func RandomScalar(rng io.Reader) (*Scalar, error) {
	if rng == nil {
		rng = rand.Reader
	}
	// Oversample by 64 bits before reducing so the bias of the reduction
	// mod Order is at most 2^-64; only a zero result is rejected.
	byteLen := (Order.BitLen() + 64 + 7) / 8
	buf := make([]byte, byteLen)
	result := new(big.Int)
	for {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, fmt.Errorf("pairing: failed to read randomness: %w", err)
		}
		result.SetBytes(buf)
		result.Mod(result, Order)
		if result.Sign() != 0 {
			return result, nil
		}
	}
}

// ReduceScalar returns x mod Order, always in [0, Order).
func ReduceScalar(x *Scalar) *Scalar {
	r := new(big.Int).Mod(x, Order)
	return r
}

// NegScalar returns -x mod Order.
func NegScalar(x *Scalar) *Scalar {
	r := new(big.Int).Neg(x)
	return r.Mod(r, Order)
}

// AddScalar returns a+b mod Order.
func AddScalar(a, b *Scalar) *Scalar {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, Order)
}

// MulScalar returns a*b mod Order.
func MulScalar(a, b *Scalar) *Scalar {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, Order)
}

// SubScalar returns a-b mod Order.
func SubScalar(a, b *Scalar) *Scalar {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, Order)
}

// InverseScalar returns a^-1 mod Order. Panics if a is zero mod Order — the
// same "programming error, not a recoverable failure" treatment the spec
// gives to other invariant violations (spec.md §7).
func InverseScalar(a *Scalar) *Scalar {
	r := new(big.Int).ModInverse(a, Order)
	if r == nil {
		panic("pairing: attempted to invert a zero scalar")
	}
	return r
}

// HashToScalar hashes arbitrary bytes into 𝔽_p via SHA-256 followed by
// reduction mod Order. It is the building block every Fiat-Shamir oracle in
// fsoracle uses.
func HashToScalar(data []byte) *Scalar {
	h := sha256.Sum256(data)
	x := new(big.Int).SetBytes(h[:])
	return x.Mod(x, Order)
}

// HashToNonZeroScalar behaves like HashToScalar but guarantees a non-zero
// result, extending the hashed input with a null byte and rehashing on
// collision (spec.md §4.8, accumulator item hashing).
func HashToNonZeroScalar(data []byte) *Scalar {
	buf := append([]byte(nil), data...)
	s := HashToScalar(buf)
	for s.Sign() == 0 {
		buf = append(buf, 0x00)
		s = HashToScalar(buf)
	}
	return s
}

// HashToG1 hashes arbitrary bytes to a point of G1 using the curve's
// standard hash-to-curve map.
func HashToG1(data []byte) (G1, error) {
	p, err := bls12381.HashToG1(data, []byte(DST_G1))
	if err != nil {
		return G1{}, fmt.Errorf("pairing: hash to G1 failed: %w", err)
	}
	return p, nil
}

// ScalarMulG1 computes p^k (written multiplicatively per the spec, additive
// in the underlying elliptic-curve group law).
func ScalarMulG1(p G1, k *Scalar) G1 {
	var jac bls12381.G1Jac
	jac.FromAffine(&p)
	jac.ScalarMultiplication(&jac, ReduceScalar(k))
	var out G1
	out.FromJacobian(&jac)
	return out
}

// ScalarMulG2 computes p^k in G2.
func ScalarMulG2(p G2, k *Scalar) G2 {
	var jac bls12381.G2Jac
	jac.FromAffine(&p)
	jac.ScalarMultiplication(&jac, ReduceScalar(k))
	var out G2
	out.FromJacobian(&jac)
	return out
}

// MulG1 computes the group operation a*b in G1 (written multiplicatively).
func MulG1(a, b G1) G1 {
	var aj, bj bls12381.G1Jac
	aj.FromAffine(&a)
	bj.FromAffine(&b)
	aj.AddAssign(&bj)
	var out G1
	out.FromJacobian(&aj)
	return out
}

// MulG2 computes the group operation a*b in G2.
func MulG2(a, b G2) G2 {
	var aj, bj bls12381.G2Jac
	aj.FromAffine(&a)
	bj.FromAffine(&b)
	aj.AddAssign(&bj)
	var out G2
	out.FromJacobian(&aj)
	return out
}

// InvG1 computes a^-1 in G1.
func InvG1(a G1) G1 {
	var aj bls12381.G1Jac
	aj.FromAffine(&a)
	aj.Neg(&aj)
	var out G1
	out.FromJacobian(&aj)
	return out
}

// InvG2 computes a^-1 in G2.
func InvG2(a G2) G2 {
	var aj bls12381.G2Jac
	aj.FromAffine(&a)
	aj.Neg(&aj)
	var out G2
	out.FromJacobian(&aj)
	return out
}

// IdentityG1 is the identity element 1_{G1}.
func IdentityG1() G1 {
	var z bls12381.G1Jac
	z.X.SetOne()
	z.Y.SetOne()
	z.Z.SetZero()
	var out G1
	out.FromJacobian(&z)
	return out
}

// IdentityG2 is the identity element 1_{G2}.
func IdentityG2() G2 {
	var z bls12381.G2Jac
	z.X.SetOne()
	z.Y.SetOne()
	z.Z.SetZero()
	var out G2
	out.FromJacobian(&z)
	return out
}

// MultiExpG1 computes the product prod_i points[i]^scalars[i] in G1, the
// multiplicative restatement of a multi-scalar multiplication. Grounded on
// the teacher's bbs/utils.go MultiScalarMulG1, generalised to return an
// affine point directly.
func MultiExpG1(points []G1, scalars []*Scalar) (G1, error) {
	if len(points) != len(scalars) {
		return G1{}, fmt.Errorf("pairing: mismatched multi-exp lengths: %d points, %d scalars", len(points), len(scalars))
	}
	var acc bls12381.G1Jac
	acc.X.SetOne()
	acc.Y.SetOne()
	acc.Z.SetZero()
	for i, p := range points {
		if scalars[i].Sign() == 0 || p.IsInfinity() {
			continue
		}
		var term bls12381.G1Jac
		term.FromAffine(&p)
		term.ScalarMultiplication(&term, ReduceScalar(scalars[i]))
		acc.AddAssign(&term)
	}
	var out G1
	out.FromJacobian(&acc)
	return out, nil
}

// MultiExpG2 is the G2 analogue of MultiExpG1, used to build the G2
// commitment Ĉ and the G2-side bases of the verification equations.
func MultiExpG2(points []G2, scalars []*Scalar) (G2, error) {
	if len(points) != len(scalars) {
		return G2{}, fmt.Errorf("pairing: mismatched multi-exp lengths: %d points, %d scalars", len(points), len(scalars))
	}
	var acc bls12381.G2Jac
	acc.X.SetOne()
	acc.Y.SetOne()
	acc.Z.SetZero()
	for i, p := range points {
		if scalars[i].Sign() == 0 || p.IsInfinity() {
			continue
		}
		var term bls12381.G2Jac
		term.FromAffine(&p)
		term.ScalarMultiplication(&term, ReduceScalar(scalars[i]))
		acc.AddAssign(&term)
	}
	var out G2
	out.FromJacobian(&acc)
	return out, nil
}

// Pair computes the bilinear map e(p, q).
func Pair(p G1, q G2) (GT, error) {
	gt, err := bls12381.Pair([]G1{p}, []G2{q})
	if err != nil {
		return GT{}, fmt.Errorf("%w: %v", ErrPairingFailed, err)
	}
	return gt, nil
}

// PairProduct computes prod_i e(ps[i], qs[i]) as a single Miller
// loop + final exponentiation, the standard optimisation for
// pairing-product verification equations (spec.md §4.7).
func PairProduct(ps []G1, qs []G2) (GT, error) {
	gt, err := bls12381.Pair(ps, qs)
	if err != nil {
		return GT{}, fmt.Errorf("%w: %v", ErrPairingFailed, err)
	}
	return gt, nil
}

// MulGT computes a*b in GT.
func MulGT(a, b GT) GT {
	var out GT
	out.Mul(&a, &b)
	return out
}

// InverseGT computes a^-1 in GT. Used to rewrite every division-form
// verification equation in spec.md §4.7 as numerator * denominator^-1,
// exactly as mandated ("GT division is implemented as multiplication by
// inverse — no alternative rewrite is permitted").
func InverseGT(a GT) GT {
	var out GT
	out.Inverse(&a)
	return out
}

// DivGT computes a * b^-1 in GT.
func DivGT(a, b GT) GT {
	return MulGT(a, InverseGT(b))
}

// ExpGT computes a^k in GT.
func ExpGT(a GT, k *Scalar) GT {
	var out GT
	out.Exp(a, ReduceScalar(k))
	return out
}

// EqualGT reports whether a and b are the same GT element. Equality is
// tested on the element directly, per spec.md §4.7.
func EqualGT(a, b GT) bool {
	return a.Equal(&b)
}

// IsOneGT reports whether a is the identity of GT.
func IsOneGT(a GT) bool {
	return a.IsOne()
}
