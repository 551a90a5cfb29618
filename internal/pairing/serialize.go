package pairing

import "fmt"

// Canonical compressed-point sizes for BLS12-381.
const (
	G1Size = 48
	G2Size = 96
)

// identityG1Sentinel and identityG2Sentinel are the reserved wire encodings
// for the identity elements of G1 and G2 (spec.md §6, §9 "Identity-element
// wire handling"): gnark-crypto's own compressed encoding already flags
// infinity in its leading byte, but we do not rely on that — a dedicated
// marker (a 0xFF byte followed by zeros) can never collide with a valid
// compressed point (whose leading byte always starts with the bit pattern
// 100, 101 or 110, never 111) and round-trips independently of the pairing
// library's choice of "uninitialised" representation.
var (
	identityG1Sentinel = append([]byte{0xff}, make([]byte, G1Size-1)...)
	identityG2Sentinel = append([]byte{0xff}, make([]byte, G2Size-1)...)
)

// MarshalG1 encodes p in its canonical compressed form, substituting the
// reserved sentinel when p is the identity.
func MarshalG1(p G1) []byte {
	if p.IsInfinity() {
		out := make([]byte, G1Size)
		copy(out, identityG1Sentinel)
		return out
	}
	return p.Marshal()
}

// UnmarshalG1 decodes the canonical compressed form produced by MarshalG1.
func UnmarshalG1(data []byte) (G1, error) {
	if len(data) != G1Size {
		return G1{}, fmt.Errorf("%w: expected %d bytes for G1, got %d", ErrInvalidEncoding, G1Size, len(data))
	}
	if data[0] == 0xff && isAllZeroTail(data[1:]) {
		return IdentityG1(), nil
	}
	var p G1
	if err := p.Unmarshal(data); err != nil {
		return G1{}, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return p, nil
}

// MarshalG2 encodes p in its canonical compressed form, substituting the
// reserved sentinel when p is the identity.
func MarshalG2(p G2) []byte {
	if p.IsInfinity() {
		out := make([]byte, G2Size)
		copy(out, identityG2Sentinel)
		return out
	}
	return p.Marshal()
}

// UnmarshalG2 decodes the canonical compressed form produced by MarshalG2.
func UnmarshalG2(data []byte) (G2, error) {
	if len(data) != G2Size {
		return G2{}, fmt.Errorf("%w: expected %d bytes for G2, got %d", ErrInvalidEncoding, G2Size, len(data))
	}
	if data[0] == 0xff && isAllZeroTail(data[1:]) {
		return IdentityG2(), nil
	}
	var p G2
	if err := p.Unmarshal(data); err != nil {
		return G2{}, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return p, nil
}

func isAllZeroTail(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// ScalarSize is the fixed big-endian scalar encoding width for 𝔽_p
// (spec.md §6: "fixed-width, ceil(log2 p)/8 bytes rounded up").
var ScalarSize = (Order.BitLen() + 7) / 8

// MarshalScalar encodes s as a fixed-width big-endian integer mod Order.
func MarshalScalar(s *Scalar) []byte {
	r := ReduceScalar(s)
	out := make([]byte, ScalarSize)
	b := r.Bytes()
	copy(out[ScalarSize-len(b):], b)
	return out
}

// UnmarshalScalar decodes a fixed-width big-endian scalar.
func UnmarshalScalar(data []byte) (*Scalar, error) {
	if len(data) != ScalarSize {
		return nil, fmt.Errorf("%w: expected %d bytes for scalar, got %d", ErrInvalidEncoding, ScalarSize, len(data))
	}
	s := new(Scalar).SetBytes(data)
	if s.Cmp(Order) >= 0 {
		return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidEncoding)
	}
	return s, nil
}
