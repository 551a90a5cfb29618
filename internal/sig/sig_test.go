package sig

import (
	"testing"

	"github.com/Alfred-hhy/streamCommit/internal/pairing"
)

func sampleCommitments(t *testing.T, d int) (pairing.G2, []pairing.G1) {
	t.Helper()
	g, gHat := pairing.Generators()
	cData := make([]pairing.G1, d)
	for i := range cData {
		s, err := pairing.RandomScalar(nil)
		if err != nil {
			t.Fatalf("RandomScalar: %v", err)
		}
		cData[i] = pairing.ScalarMulG1(g, s)
	}
	s, err := pairing.RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	return pairing.ScalarMulG2(gHat, s), cData
}

func TestSignVerifyRoundTrip(t *testing.T) {
	sk, vk, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	cTime, cData := sampleCommitments(t, 3)

	sigma := Sign(sk, cTime, cData)
	ok, err := Verify(vk, cTime, cData, sigma)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("genuine signature failed to verify")
	}
}

func TestVerifyRejectsMixedHeader(t *testing.T) {
	sk, vk, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	cTime1, cData1 := sampleCommitments(t, 2)
	_, cData2 := sampleCommitments(t, 2)

	sigma := Sign(sk, cTime1, cData1)

	// Mix-and-match: same signature, data commitments from a different
	// batch (spec.md §8 Scenario D).
	ok, err := Verify(vk, cTime1, cData2, sigma)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("signature unexpectedly verified over a mismatched header")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	sk, _, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	_, otherVk, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	cTime, cData := sampleCommitments(t, 1)

	sigma := Sign(sk, cTime, cData)
	ok, err := Verify(otherVk, cTime, cData, sigma)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("signature unexpectedly verified under an unrelated public key")
	}
}

func TestPublicKeyMarshalRoundTrip(t *testing.T) {
	_, vk, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	data := MarshalPublicKey(vk)
	back, err := UnmarshalPublicKey(data)
	if err != nil {
		t.Fatalf("UnmarshalPublicKey: %v", err)
	}
	if !vk.key.IsEqual(back.key) {
		t.Error("public key did not round trip")
	}
}

func TestVerifyRejectsMalformedSignature(t *testing.T) {
	_, vk, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	cTime, cData := sampleCommitments(t, 1)

	if _, err := Verify(vk, cTime, cData, []byte{0x01, 0x02}); err == nil {
		t.Fatal("expected malformed-signature error")
	}
}
