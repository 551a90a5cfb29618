package commit

import (
	"math/big"
	"testing"

	"github.com/Alfred-hhy/streamCommit/internal/crs"
	"github.com/Alfred-hhy/streamCommit/internal/pairing"
)

func randScalars(t *testing.T, n int) []*pairing.Scalar {
	t.Helper()
	out := make([]*pairing.Scalar, n)
	for i := range out {
		s, err := pairing.RandomScalar(nil)
		if err != nil {
			t.Fatalf("RandomScalar: %v", err)
		}
		out[i] = s
	}
	return out
}

func TestCommitGDeterministic(t *testing.T) {
	c, err := crs.Keygen(6, crs.Options{})
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}
	m := randScalars(t, 6)
	gamma, _ := pairing.RandomScalar(nil)

	c1, err := G(c, m, gamma)
	if err != nil {
		t.Fatalf("G: %v", err)
	}
	c2, err := G(c, m, gamma)
	if err != nil {
		t.Fatalf("G: %v", err)
	}
	if !c1.Equal(&c2) {
		t.Error("commit_G is not deterministic given identical inputs")
	}
}

func TestCommitGRejectsWrongLength(t *testing.T) {
	c, err := crs.Keygen(4, crs.Options{})
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}
	gamma, _ := pairing.RandomScalar(nil)
	if _, err := G(c, randScalars(t, 3), gamma); err == nil {
		t.Fatal("expected vector length mismatch error")
	}
}

func TestBitsToScalarRoundTrip(t *testing.T) {
	tests := []int64{0, 1, 2, 5, 255, 1<<20 - 1}
	for _, v := range tests {
		x := new(pairing.Scalar).SetInt64(v)
		bits := ScalarToBits(x, 32)
		back := BitsToScalar(bits)
		if back.Cmp(x) != 0 {
			t.Errorf("round trip failed for %d: got %v", v, back)
		}
	}
}

func TestScalarToBitsLittleEndian(t *testing.T) {
	x := big.NewInt(0b101)
	bits := ScalarToBits(x, 4)
	want := []int{1, 0, 1, 0}
	for i := range want {
		if bits[i] != want[i] {
			t.Errorf("bit %d = %d, want %d", i, bits[i], want[i])
		}
	}
}

func TestScalarToBitsPanicsWhenTooWide(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range value")
		}
	}()
	ScalarToBits(big.NewInt(256), 4)
}
