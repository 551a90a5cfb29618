package pairing

import "testing"

func TestBilinearity(t *testing.T) {
	g, gHat := Generators()
	a, err := RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	b, err := RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}

	lhs, err := Pair(ScalarMulG1(g, a), ScalarMulG2(gHat, b))
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	base, err := Pair(g, gHat)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	rhs := ExpGT(base, MulScalar(a, b))

	if !EqualGT(lhs, rhs) {
		t.Error("e(g^a, ghat^b) != e(g,ghat)^{ab}")
	}
}

func TestDivGTInversesMulGT(t *testing.T) {
	g, gHat := Generators()
	base, err := Pair(g, gHat)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	a, _ := RandomScalar(nil)
	x := ExpGT(base, a)

	quotient := DivGT(MulGT(x, base), base)
	if !EqualGT(quotient, x) {
		t.Error("DivGT(a*b, b) != a")
	}
}

func TestMarshalUnmarshalIdentity(t *testing.T) {
	id := IdentityG1()
	data := MarshalG1(id)
	back, err := UnmarshalG1(data)
	if err != nil {
		t.Fatalf("UnmarshalG1: %v", err)
	}
	if !back.Equal(&id) {
		t.Error("identity G1 did not round trip through the sentinel encoding")
	}

	idG2 := IdentityG2()
	data2 := MarshalG2(idG2)
	back2, err := UnmarshalG2(data2)
	if err != nil {
		t.Fatalf("UnmarshalG2: %v", err)
	}
	if !back2.Equal(&idG2) {
		t.Error("identity G2 did not round trip through the sentinel encoding")
	}
}

func TestMarshalUnmarshalNonIdentity(t *testing.T) {
	g, _ := Generators()
	data := MarshalG1(g)
	back, err := UnmarshalG1(data)
	if err != nil {
		t.Fatalf("UnmarshalG1: %v", err)
	}
	if !back.Equal(&g) {
		t.Error("generator did not round trip")
	}
}

func TestHashToScalarIsDeterministic(t *testing.T) {
	a := HashToScalar([]byte("hello"))
	b := HashToScalar([]byte("hello"))
	if a.Cmp(b) != 0 {
		t.Error("HashToScalar is not deterministic")
	}
}

func TestHashToNonZeroScalarNeverZero(t *testing.T) {
	for i := 0; i < 100; i++ {
		s := HashToNonZeroScalar([]byte{byte(i)})
		if s.Sign() == 0 {
			t.Fatalf("HashToNonZeroScalar returned zero for input %d", i)
		}
	}
}

func TestMultiExpG1MatchesSequentialAddition(t *testing.T) {
	g, _ := Generators()
	points := []G1{g, g, g}
	scalars := []*Scalar{new(Scalar).SetInt64(2), new(Scalar).SetInt64(3), new(Scalar).SetInt64(5)}
	got, err := MultiExpG1(points, scalars)
	if err != nil {
		t.Fatalf("MultiExpG1: %v", err)
	}
	want := ScalarMulG1(g, new(Scalar).SetInt64(10))
	if !got.Equal(&want) {
		t.Error("MultiExpG1 does not match the expected combined scalar multiplication")
	}
}
