// Package crs builds and validates the structured reference string that
// every commitment, proof, and verification equation in this module is
// parameterised over: powers of a secret trapdoor α in both 𝔾₁ and 𝔾₂, with
// index n+1 deliberately absent from the 𝔾₁ side.
package crs

import (
	"fmt"
	"log"

	"github.com/Alfred-hhy/streamCommit/internal/pairing"
)

var (
	// ErrMalformedCRS is returned by Validate when a CRS fails one of its
	// structural invariants (wrong list size, missing index, stray n+1).
	ErrMalformedCRS = fmt.Errorf("crs: malformed CRS")

	// ErrCRSIndexAbsent is the special subtype of ErrMalformedCRS for the
	// one index that is absent by construction rather than by corruption:
	// reading g_list[n+1] is always a programming error, never a runtime
	// input a caller could have validated away.
	ErrCRSIndexAbsent = fmt.Errorf("%w: index n+1 is absent from g_list by construction", ErrMalformedCRS)
)

// CRS is the Common Reference String for vector dimension N. It is
// immutable after Keygen returns; every field is read-only from the
// perspective of commit/proof/verify code.
type CRS struct {
	N int

	G    pairing.G1
	GHat pairing.G2

	// GList maps index i in [1, 2N], i != N+1, to g^{α^i}.
	GList map[int]pairing.G1

	// GHatList maps index i in [1, N] to ĝ^{α^i}.
	GHatList map[int]pairing.G2

	// Alpha is the trapdoor. Nil unless the CRS was generated with
	// Options.RetainTrapdoor set — a development-only affordance (spec.md
	// §9: "development mode shared trapdoor α ... the production build
	// MUST NOT compile it in").
	Alpha *pairing.Scalar
}

// Options configures Keygen.
type Options struct {
	// Alpha, G, GHat let a caller supply a fixed trapdoor/generators
	// (tests, or re-deriving a CRS from a previously-sampled trapdoor).
	// A nil Alpha is sampled uniformly; nil G and GHat default to the
	// canonical generators from pairing.Generators.
	Alpha *pairing.Scalar
	G     *pairing.G1
	GHat  *pairing.G2

	// RetainTrapdoor keeps Alpha in the returned CRS instead of discarding
	// it. Must never be set in production; Keygen logs a warning whenever
	// it is true (spec.md §6: "MUST ... log a warning when on").
	RetainTrapdoor bool
}

// Keygen produces a CRS of dimension n: g_i = g^{α^i} for i in [1,2n]\{n+1},
// ĝ_i = ĝ^{α^i} for i in [1,n]. Index n+1 is skipped by construction — any
// later code that requires it has a bug, not a missing feature.
func Keygen(n int, opts Options) (*CRS, error) {
	if n <= 0 {
		return nil, fmt.Errorf("crs: dimension must be positive, got %d", n)
	}

	alpha := opts.Alpha
	if alpha == nil {
		a, err := pairing.RandomScalar(nil)
		if err != nil {
			return nil, fmt.Errorf("crs: sampling trapdoor: %w", err)
		}
		alpha = a
	}

	g, gHat := pairing.Generators()
	if opts.G != nil {
		g = *opts.G
	}
	if opts.GHat != nil {
		gHat = *opts.GHat
	}

	if opts.RetainTrapdoor {
		log.Printf("crs: WARNING generating a CRS with RetainTrapdoor=true; the trapdoor α is being kept in memory, which is insecure outside development use")
	}

	// α^i for i in [0, 2n].
	alphaPowers := make([]*pairing.Scalar, 2*n+1)
	alphaPowers[0] = oneScalar()
	alphaPowers[1] = pairing.ReduceScalar(alpha)
	for i := 2; i <= 2*n; i++ {
		alphaPowers[i] = pairing.MulScalar(alphaPowers[i-1], alpha)
	}

	gList := make(map[int]pairing.G1, 2*n-1)
	for i := 1; i <= 2*n; i++ {
		if i == n+1 {
			continue
		}
		gList[i] = pairing.ScalarMulG1(g, alphaPowers[i])
	}

	gHatList := make(map[int]pairing.G2, n)
	for i := 1; i <= n; i++ {
		gHatList[i] = pairing.ScalarMulG2(gHat, alphaPowers[i])
	}

	out := &CRS{
		N:        n,
		G:        g,
		GHat:     gHat,
		GList:    gList,
		GHatList: gHatList,
	}
	if opts.RetainTrapdoor {
		out.Alpha = alpha
	}
	return out, nil
}

// Validate checks the structural invariants spec.md §4.2 requires: correct
// list sizes, every required index present, and n+1 absent from GList.
func (c *CRS) Validate() error {
	if len(c.GList) != 2*c.N-1 {
		return fmt.Errorf("%w: expected %d entries in g_list, have %d", ErrMalformedCRS, 2*c.N-1, len(c.GList))
	}
	if len(c.GHatList) != c.N {
		return fmt.Errorf("%w: expected %d entries in g_hat_list, have %d", ErrMalformedCRS, c.N, len(c.GHatList))
	}
	if _, present := c.GList[c.N+1]; present {
		return fmt.Errorf("%w: index %d must not be present in g_list", ErrMalformedCRS, c.N+1)
	}
	for i := 1; i <= 2*c.N; i++ {
		if i == c.N+1 {
			continue
		}
		if _, ok := c.GList[i]; !ok {
			return fmt.Errorf("%w: missing required g_list index %d", ErrMalformedCRS, i)
		}
	}
	for i := 1; i <= c.N; i++ {
		if _, ok := c.GHatList[i]; !ok {
			return fmt.Errorf("%w: missing required g_hat_list index %d", ErrMalformedCRS, i)
		}
	}
	return nil
}

// G1At returns g_i, panicking if i == n+1 (a caller bug, per spec.md §4.2:
// "any subsequent code that requires it is a bug") or i is out of range.
func (c *CRS) G1At(i int) pairing.G1 {
	if i == c.N+1 {
		panic(ErrCRSIndexAbsent)
	}
	p, ok := c.GList[i]
	if !ok {
		panic(fmt.Errorf("crs: index %d out of range for dimension %d", i, c.N))
	}
	return p
}

// G1Reverse returns g_{n+1-i}, the reverse-indexed access pattern used by
// commit_Cy and the point-opening proofs.
func (c *CRS) G1Reverse(i int) pairing.G1 {
	return c.G1At(c.N + 1 - i)
}

// G2At returns ĝ_i, panicking if i is out of [1,n].
func (c *CRS) G2At(i int) pairing.G2 {
	p, ok := c.GHatList[i]
	if !ok {
		panic(fmt.Errorf("crs: index %d out of range for dimension %d", i, c.N))
	}
	return p
}

// G2Reverse returns ĝ_{n+1-i}.
func (c *CRS) G2Reverse(i int) pairing.G2 {
	return c.G2At(c.N + 1 - i)
}

func oneScalar() *pairing.Scalar {
	var o pairing.Scalar
	o.SetInt64(1)
	return &o
}
