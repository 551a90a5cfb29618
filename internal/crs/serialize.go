package crs

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/Alfred-hhy/streamCommit/internal/pairing"
)

// indexedPoint is the wire form of one (index, canonical bytes) pair used
// for both g_list and g_hat_list (spec.md §6: "g_list as an ordered sequence
// of (index, bytes) pairs").
type indexedPoint struct {
	Index int    `cbor:"1,keyasint"`
	Bytes []byte `cbor:"2,keyasint"`
}

// wireCRS is the CBOR-serialisable shadow of CRS. Alpha is only populated
// when the CRS was generated with Options.RetainTrapdoor — never emit it
// otherwise, so a production-generated CRS can never accidentally leak a
// trapdoor through serialisation.
type wireCRS struct {
	N        int            `cbor:"1,keyasint"`
	G        []byte         `cbor:"2,keyasint"`
	GHat     []byte         `cbor:"3,keyasint"`
	GList    []indexedPoint `cbor:"4,keyasint"`
	GHatList []indexedPoint `cbor:"5,keyasint"`
	Alpha    []byte         `cbor:"6,keyasint,omitempty"`
}

// Marshal encodes c in canonical CBOR. includeAlpha must only be true for
// development-profile snapshots (spec.md §6); production callers should
// always pass false.
func (c *CRS) Marshal(includeAlpha bool) ([]byte, error) {
	w := wireCRS{
		N:    c.N,
		G:    pairing.MarshalG1(c.G),
		GHat: pairing.MarshalG2(c.GHat),
	}
	for i := 1; i <= 2*c.N; i++ {
		if i == c.N+1 {
			continue
		}
		w.GList = append(w.GList, indexedPoint{Index: i, Bytes: pairing.MarshalG1(c.GList[i])})
	}
	for i := 1; i <= c.N; i++ {
		w.GHatList = append(w.GHatList, indexedPoint{Index: i, Bytes: pairing.MarshalG2(c.GHatList[i])})
	}
	if includeAlpha && c.Alpha != nil {
		w.Alpha = pairing.MarshalScalar(c.Alpha)
	}

	opts := cbor.CanonicalEncOptions()
	em, err := opts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("crs: building canonical encoder: %w", err)
	}
	return em.Marshal(w)
}

// Unmarshal decodes a CRS produced by Marshal and validates it structurally.
func Unmarshal(data []byte) (*CRS, error) {
	var w wireCRS
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: cbor decode failed: %v", ErrMalformedCRS, err)
	}

	g, err := pairing.UnmarshalG1(w.G)
	if err != nil {
		return nil, fmt.Errorf("%w: generator g: %v", ErrMalformedCRS, err)
	}
	gHat, err := pairing.UnmarshalG2(w.GHat)
	if err != nil {
		return nil, fmt.Errorf("%w: generator g_hat: %v", ErrMalformedCRS, err)
	}

	gList := make(map[int]pairing.G1, len(w.GList))
	for _, ip := range w.GList {
		if ip.Index == w.N+1 {
			return nil, fmt.Errorf("%w: wire payload carries forbidden index %d", ErrCRSIndexAbsent, ip.Index)
		}
		p, err := pairing.UnmarshalG1(ip.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: g_list[%d]: %v", ErrMalformedCRS, ip.Index, err)
		}
		gList[ip.Index] = p
	}

	gHatList := make(map[int]pairing.G2, len(w.GHatList))
	for _, ip := range w.GHatList {
		p, err := pairing.UnmarshalG2(ip.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: g_hat_list[%d]: %v", ErrMalformedCRS, ip.Index, err)
		}
		gHatList[ip.Index] = p
	}

	out := &CRS{
		N:        w.N,
		G:        g,
		GHat:     gHat,
		GList:    gList,
		GHatList: gHatList,
	}
	if len(w.Alpha) > 0 {
		a, err := pairing.UnmarshalScalar(w.Alpha)
		if err != nil {
			return nil, fmt.Errorf("%w: trapdoor: %v", ErrMalformedCRS, err)
		}
		out.Alpha = a
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
