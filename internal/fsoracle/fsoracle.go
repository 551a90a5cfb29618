// Package fsoracle implements the domain-separated Fiat-Shamir hashes that
// turn the interactive vector-commitment proofs into non-interactive ones:
// H_t (per-position challenge weights), H_agg (proof-aggregation scalars),
// and H_s (the "only-first-coordinate" auxiliary challenges).
//
// Every oracle hashes the canonical wire encoding of its group-element
// inputs (internal/pairing.MarshalG1/MarshalG2) — two peers who disagree on
// those bytes would disagree on the challenge, breaking soundness.
package fsoracle

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/Alfred-hhy/streamCommit/internal/pairing"
)

const (
	prefixHT   = "HT"
	prefixHAGG = "HAGG"
	prefixHS   = "HS"
)

func u32(i int) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(i))
	return b[:]
}

// HT computes the n challenge weights (t_1,...,t_n) used by the aggregated
// opening proof and the DA's non-interactive challenge derivation.
// ctx lets callers domain-separate further (e.g. the DA audit path uses a
// fixed literal context string instead of caller-supplied randomness).
func HT(c pairing.G1, cHat pairing.G2, cY pairing.G1, n int, ctx []byte) []*pairing.Scalar {
	base := make([]byte, 0, 2+pairing.G1Size+pairing.G2Size+pairing.G1Size+len(ctx))
	base = append(base, prefixHT...)
	base = append(base, pairing.MarshalG1(c)...)
	base = append(base, pairing.MarshalG2(cHat)...)
	base = append(base, pairing.MarshalG1(cY)...)
	base = append(base, ctx...)

	out := make([]*pairing.Scalar, n)
	for i := 1; i <= n; i++ {
		input := append(append([]byte(nil), base...), u32(i)...)
		out[i-1] = pairing.HashToScalar(input)
	}
	return out
}

// HAgg computes the pair of aggregation scalars (delta_eq, delta_y) used to
// combine pi_eq and pi_y into a single proof.
func HAgg(c pairing.G1, cHat pairing.G2, cY pairing.G1) (deltaEq, deltaY *pairing.Scalar) {
	base := make([]byte, 0, 4+pairing.G1Size+pairing.G2Size+pairing.G1Size)
	base = append(base, prefixHAGG...)
	base = append(base, pairing.MarshalG1(c)...)
	base = append(base, pairing.MarshalG2(cHat)...)
	base = append(base, pairing.MarshalG1(cY)...)

	deltaEq = pairing.HashToScalar(append(append([]byte(nil), base...), 0x00))
	deltaY = pairing.HashToScalar(append(append([]byte(nil), base...), 0x01))
	return deltaEq, deltaY
}

// HS computes the single challenge s_i for index i against the given
// domain (the set of indices the composite range proof folds s_i over,
// typically [2,n]).
func HS(i int, domain []int, vHat pairing.G2, cHat pairing.G2, cY pairing.G1) *pairing.Scalar {
	domainBytes := make([]byte, 0, 4*len(domain))
	for _, idx := range domain {
		domainBytes = append(domainBytes, u32(idx)...)
	}

	input := make([]byte, 0, 2+4+len(domainBytes)+pairing.G2Size+pairing.G2Size+pairing.G1Size)
	input = append(input, prefixHS...)
	input = append(input, u32(i)...)
	input = append(input, domainBytes...)
	input = append(input, pairing.MarshalG2(vHat)...)
	input = append(input, pairing.MarshalG2(cHat)...)
	input = append(input, pairing.MarshalG1(cY)...)
	return pairing.HashToScalar(input)
}

// HSBatch computes s_i for every i in domain, preserving domain's order.
func HSBatch(domain []int, vHat pairing.G2, cHat pairing.G2, cY pairing.G1) []*pairing.Scalar {
	out := make([]*pairing.Scalar, len(domain))
	for k, i := range domain {
		out[k] = HS(i, domain, vHat, cHat, cY)
	}
	return out
}

// HAuditChallenge derives the Data Auditor's non-interactive t-challenge
// vector, re-using HT with a fixed literal context so both the Storage
// Server (generating the audit proof) and the Verifier (checking it)
// arrive at identical weights without an interactive round trip.
func HAuditChallenge(cData pairing.G1, n int) []*pairing.Scalar {
	return HT(cData, pairing.IdentityG2(), pairing.IdentityG1(), n, []byte("VDS-DA-AUDIT-ZK"))
}

// RangeChallengeY derives the composite range proof's y challenge from the
// bit commitment Chat and the integer commitment Vhat (spec.md §4.6 step
// 4: "Derive y from H(Ĉ‖V̂)").
func RangeChallengeY(cHat pairing.G2, vHat pairing.G2) *pairing.Scalar {
	buf := append(append([]byte(nil), pairing.MarshalG2(cHat)...), pairing.MarshalG2(vHat)...)
	return pairing.HashToScalar(buf)
}

// RangeChallengeT derives the composite range proof's t challenge from y,
// Chat, and Cy (spec.md §4.6 step 5: "Derive t from H(y‖Ĉ‖C_y)").
func RangeChallengeT(y *pairing.Scalar, cHat pairing.G2, cY pairing.G1) *pairing.Scalar {
	buf := append(append([]byte(nil), pairing.MarshalScalar(y)...), pairing.MarshalG2(cHat)...)
	buf = append(buf, pairing.MarshalG1(cY)...)
	return pairing.HashToScalar(buf)
}

// RangeAggregationScalars derives the four aggregation scalars (delta_x,
// delta_eq, delta_y, delta_v) the composite range proof folds pi_x, pi_eq,
// pi_y, and pi_v with, from one SHA-256 digest over (Ĉ‖V̂‖C_y) split into
// four disjoint 8-byte windows (spec.md §4.6 step 7).
func RangeAggregationScalars(cHat pairing.G2, vHat pairing.G2, cY pairing.G1) (deltaX, deltaEq, deltaY, deltaV *pairing.Scalar) {
	buf := append(append([]byte(nil), pairing.MarshalG2(cHat)...), pairing.MarshalG2(vHat)...)
	buf = append(buf, pairing.MarshalG1(cY)...)
	digest := sha256.Sum256(buf)

	reduce := func(window []byte) *pairing.Scalar {
		v := new(big.Int).SetBytes(window)
		return v.Mod(v, pairing.Order)
	}
	deltaX = reduce(digest[0:8])
	deltaEq = reduce(digest[8:16])
	deltaY = reduce(digest[16:24])
	deltaV = reduce(digest[24:32])
	return deltaX, deltaEq, deltaY, deltaV
}
