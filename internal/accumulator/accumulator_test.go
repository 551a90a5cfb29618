package accumulator

import (
	"testing"

	"github.com/Alfred-hhy/streamCommit/internal/pairing"
)

func testSetup(t *testing.T) (*Accumulator, PublicKey) {
	t.Helper()
	g, gHat := pairing.Generators()
	s, err := pairing.RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	return Setup(g, gHat, s)
}

func TestEmptyBlacklistWitnessVerifies(t *testing.T) {
	acc, pk := testSetup(t)

	w, err := GenerateWitness(acc.Items, acc.ServerKeys, []byte("never-revoked"))
	if err != nil {
		t.Fatalf("GenerateWitness: %v", err)
	}
	if w.U.Cmp(new(pairing.Scalar).SetInt64(-1)) != 0 {
		t.Errorf("expected degenerate u=-1 for empty blacklist, got %v", w.U)
	}

	ok, err := VerifyNonMembership(pk, acc.F, []byte("never-revoked"), w)
	if err != nil {
		t.Fatalf("VerifyNonMembership: %v", err)
	}
	if !ok {
		t.Error("empty-blacklist witness did not verify")
	}
}

func TestNonMemberWitnessVerifiesAfterRevocations(t *testing.T) {
	acc, pk := testSetup(t)

	items := [][]byte{[]byte("sig-1"), []byte("sig-2"), []byte("sig-3")}
	for _, it := range items {
		acc.Revoke(it)
	}

	w, err := GenerateWitness(acc.Items, acc.ServerKeys, []byte("sig-untouched"))
	if err != nil {
		t.Fatalf("GenerateWitness: %v", err)
	}

	ok, err := VerifyNonMembership(pk, acc.F, []byte("sig-untouched"), w)
	if err != nil {
		t.Fatalf("VerifyNonMembership: %v", err)
	}
	if !ok {
		t.Error("non-member witness did not verify after revocations")
	}
}

func TestMemberWitnessGenerationFails(t *testing.T) {
	acc, _ := testSetup(t)

	revoked := []byte("sig-blacklisted")
	acc.Revoke(revoked)
	acc.Revoke([]byte("sig-other"))

	_, err := GenerateWitness(acc.Items, acc.ServerKeys, revoked)
	if err == nil {
		t.Fatal("expected ErrItemInBlacklist for a revoked item")
	}
}

func TestTamperedWitnessFailsVerification(t *testing.T) {
	acc, pk := testSetup(t)
	acc.Revoke([]byte("sig-1"))
	acc.Revoke([]byte("sig-2"))

	w, err := GenerateWitness(acc.Items, acc.ServerKeys, []byte("sig-clean"))
	if err != nil {
		t.Fatalf("GenerateWitness: %v", err)
	}
	w.U = pairing.AddScalar(w.U, new(pairing.Scalar).SetInt64(1))

	ok, err := VerifyNonMembership(pk, acc.F, []byte("sig-clean"), w)
	if err != nil {
		t.Fatalf("VerifyNonMembership: %v", err)
	}
	if ok {
		t.Error("tampered witness unexpectedly verified")
	}
}

func TestDummyWitnessFailsVerification(t *testing.T) {
	acc, pk := testSetup(t)
	acc.Revoke([]byte("sig-1"))

	ok, err := VerifyNonMembership(pk, acc.F, []byte("sig-1"), DummyWitness())
	if err != nil {
		t.Fatalf("VerifyNonMembership: %v", err)
	}
	if ok {
		t.Error("dummy witness unexpectedly verified against a nonempty accumulator")
	}
}
