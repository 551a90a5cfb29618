// Package accumulator implements the Krupp-style bilinear-map dynamic
// accumulator used as the revocation blacklist (spec.md §4.8): a
// constant-size 𝔾₁ element that supports succinct non-membership proofs,
// with witness generation via exact polynomial long division over 𝔽_p.
package accumulator

import (
	"errors"
	"fmt"

	"github.com/Alfred-hhy/streamCommit/internal/pairing"
	"github.com/Alfred-hhy/streamCommit/internal/poly"
)

// ErrItemInBlacklist is the distinguished error witness generation returns
// when the queried item is already a member of the blacklist (u_y = 0):
// spec.md §4.8 requires this to be a distinct condition from ordinary
// pairing failure, since the protocol layer treats it specially (the
// Storage Server substitutes a dummy witness rather than raising to its
// caller — spec.md §7, "revoked → verification fails, not server error").
var ErrItemInBlacklist = errors.New("accumulator: item is a member of the blacklist")

// PublicKey is the accumulator's long-lived verification material:
// (g, ĝ, ĝ^s). s itself is never exposed here.
type PublicKey struct {
	G     pairing.G1
	GHat  pairing.G2
	GHatS pairing.G2
}

// Accumulator is the Data Owner's exclusively-owned mutable state: the
// current accumulator value f, the growing list of server keys g^{s^i},
// and the blacklist item list X (as their 𝔽_p hashes, spec.md §4.8: "The
// accumulator item fed to H is exactly the signature bytes").
type Accumulator struct {
	s pairing.Scalar

	F          pairing.G1
	ServerKeys []pairing.G1 // ServerKeys[i] = g^{s^i}, i = 0..k
	Items      []*pairing.Scalar
}

// Setup initialises an empty accumulator (k=0): f = g, server_keys = (g,),
// X = ∅. s is the accumulator trapdoor, sampled by the caller (normally
// once at Data Owner bootstrap) and retained only inside this struct.
func Setup(g pairing.G1, gHat pairing.G2, s *pairing.Scalar) (*Accumulator, PublicKey) {
	acc := &Accumulator{
		s:          *pairing.ReduceScalar(s),
		F:          g,
		ServerKeys: []pairing.G1{g},
	}
	pk := PublicKey{
		G:     g,
		GHat:  gHat,
		GHatS: pairing.ScalarMulG2(gHat, s),
	}
	return acc, pk
}

// HashItem hashes raw item bytes (the canonical signature encoding,
// spec.md §4.8) into a non-zero element of 𝔽_p.
func HashItem(item []byte) *pairing.Scalar {
	return pairing.HashToNonZeroScalar(item)
}

// Revoke adds item to the blacklist: f <- f^{e+s}, appends item's hash to
// X, and extends server_keys with g^{s^{k+1}}. Returns the newly appended
// server key, to be forwarded to the Storage Server (spec.md §4.9.1,
// revoke_batch's "new g^{s^k}" return value).
func (a *Accumulator) Revoke(item []byte) pairing.G1 {
	e := HashItem(item)
	exponent := pairing.AddScalar(e, &a.s)
	a.F = pairing.ScalarMulG1(a.F, exponent)
	a.Items = append(a.Items, e)

	last := a.ServerKeys[len(a.ServerKeys)-1]
	next := pairing.ScalarMulG1(last, &a.s)
	a.ServerKeys = append(a.ServerKeys, next)
	return next
}

// Witness is the non-membership proof (w, u) of spec.md §4.8.
type Witness struct {
	W pairing.G1
	U *pairing.Scalar
}

// DummyWitness is the sentinel substituted by the Storage Server when the
// queried item turns out to be blacklisted, so that verification fails
// cleanly rather than the proof RPC erroring out (spec.md §7).
func DummyWitness() Witness {
	return Witness{W: pairing.IdentityG1(), U: new(pairing.Scalar).SetInt64(0)}
}

// GenerateWitness builds the non-membership witness for item against the
// blacklist items and server keys (spec.md §4.8). Both slices are owned by
// the caller (the Storage Server's replicated blacklist copy); k = len(items)
// is the current revocation count.
func GenerateWitness(items []*pairing.Scalar, serverKeys []pairing.G1, item []byte) (Witness, error) {
	y := HashItem(item)
	k := len(items)

	if k == 0 {
		return Witness{W: pairing.IdentityG1(), U: new(pairing.Scalar).SetInt64(-1)}, nil
	}

	// u_y = -prod_{x in X}(H(x) - y) mod p
	uy := new(pairing.Scalar).SetInt64(1)
	for _, hx := range items {
		uy = pairing.MulScalar(uy, pairing.SubScalar(hx, y))
	}
	uy = pairing.NegScalar(uy)
	if uy.Sign() == 0 {
		return Witness{}, ErrItemInBlacklist
	}

	// f_X(kappa) = prod_{x in X}(H(x) + kappa), built symbolically as a
	// product of (kappa + H(x)) linear factors.
	fX := poly.Const(new(pairing.Scalar).SetInt64(1))
	for _, hx := range items {
		factor := poly.Poly{hx, new(pairing.Scalar).SetInt64(1)} // H(x) + kappa
		fX = poly.Mul(fX, factor)
	}

	// h_X(kappa) = f_X(kappa) - f_X(-y) = f_X(kappa) + u_y
	hX := poly.Add(fX, poly.Const(uy))

	// Too few server keys is a caller bug (the Data Owner's keys were not
	// forwarded), not a recoverable condition.
	if len(serverKeys) < k+1 {
		panic(fmt.Errorf("accumulator: server_keys has %d entries, need at least %d for |X|=%d", len(serverKeys), k+1, k))
	}

	// Exact division by (kappa + y).
	qHat := poly.DivByLinear(hX, y)

	points := make([]pairing.G1, 0, len(qHat))
	scalars := make([]*pairing.Scalar, 0, len(qHat))
	for i, v := range qHat {
		if v.Sign() == 0 {
			continue
		}
		points = append(points, serverKeys[i])
		scalars = append(scalars, v)
	}
	w, err := pairing.MultiExpG1(points, scalars)
	if err != nil {
		return Witness{}, err
	}

	return Witness{W: w, U: uy}, nil
}

// VerifyNonMembership checks e(w, ĝ^y * ĝ^s) = e(f * g^u, ĝ) (spec.md
// §4.8). f is the accumulator value the proof is checked against
// (global_pk's current accumulator snapshot at the Verifier).
func VerifyNonMembership(pk PublicKey, f pairing.G1, item []byte, w Witness) (bool, error) {
	y := HashItem(item)

	lhsExp := pairing.MulG2(pairing.ScalarMulG2(pk.GHat, y), pk.GHatS)
	lhs, err := pairing.Pair(w.W, lhsExp)
	if err != nil {
		return false, err
	}

	rhsBase := pairing.MulG1(f, pairing.ScalarMulG1(pk.G, w.U))
	rhs, err := pairing.Pair(rhsBase, pk.GHat)
	if err != nil {
		return false, err
	}

	return pairing.EqualGT(lhs, rhs), nil
}
