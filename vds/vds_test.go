package vds

import (
	"testing"

	"github.com/Alfred-hhy/streamCommit/internal/crs"
	"github.com/Alfred-hhy/streamCommit/internal/fsoracle"
	"github.com/Alfred-hhy/streamCommit/internal/pairing"
)

func testSetup(t *testing.T, n int) (*crs.CRS, *DataOwner, *StorageServer, *Verifier) {
	t.Helper()
	c, err := crs.Keygen(n, crs.Options{})
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}
	owner, err := NewDataOwner(c)
	if err != nil {
		t.Fatalf("NewDataOwner: %v", err)
	}
	server := NewStorageServer(c)
	verifier := NewVerifier(c, owner.PublicKey())
	return c, owner, server, verifier
}

func sampleVector(t *testing.T, n int, base int64) []*pairing.Scalar {
	t.Helper()
	out := make([]*pairing.Scalar, n)
	for i := range out {
		out[i] = new(pairing.Scalar).SetInt64(base + int64(i))
	}
	return out
}

func TestCreateBatchAndDCQuery(t *testing.T) {
	n := 8
	_, owner, server, verifier := testSetup(t, n)

	m := sampleVector(t, n, 1)
	tVector := sampleVector(t, n, 100)

	created, err := owner.CreateBatchSingle(m, tVector)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := server.StoreBatch(created.BatchID, created.Header, created.Secrets); err != nil {
		t.Fatalf("StoreBatch: %v", err)
	}

	challenge := sampleVector(t, n, 7)
	proof, err := server.GenerateDCDataProof(created.BatchID, challenge, 0)
	if err != nil {
		t.Fatalf("GenerateDCDataProof: %v", err)
	}

	if err := verifier.VerifyDCQuery(created.Header, challenge, proof, 0); err != nil {
		t.Fatalf("VerifyDCQuery rejected a genuine proof: %v", err)
	}
}

// TestDCQuerySinglePositionUnitVector is spec.md §8 testable property 2:
// equation (1) holds for the single-position aggregate t = (0,...,1 at
// i,...,0), not just for a general multi-position challenge.
func TestDCQuerySinglePositionUnitVector(t *testing.T) {
	n := 6
	_, owner, server, verifier := testSetup(t, n)

	m := sampleVector(t, n, 1)
	tVector := sampleVector(t, n, 100)

	created, err := owner.CreateBatchSingle(m, tVector)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := server.StoreBatch(created.BatchID, created.Header, created.Secrets); err != nil {
		t.Fatalf("StoreBatch: %v", err)
	}

	for _, pos := range []int{1, 3, n} {
		unit := make([]*pairing.Scalar, n)
		for i := range unit {
			unit[i] = new(pairing.Scalar)
		}
		unit[pos-1] = new(pairing.Scalar).SetInt64(1)

		proof, err := server.GenerateDCDataProof(created.BatchID, unit, 0)
		if err != nil {
			t.Fatalf("GenerateDCDataProof at position %d: %v", pos, err)
		}
		if proof.X.Cmp(m[pos-1]) != 0 {
			t.Errorf("x for the unit vector at %d: got %v, want m[%d]=%v", pos, proof.X, pos-1, m[pos-1])
		}
		if err := verifier.VerifyDCQuery(created.Header, unit, proof, 0); err != nil {
			t.Fatalf("VerifyDCQuery rejected the single-position aggregate at %d: %v", pos, err)
		}
	}
}

func TestDAAuditRoundTrip(t *testing.T) {
	n := 6
	_, owner, server, verifier := testSetup(t, n)

	m := sampleVector(t, n, 2)
	tVector := sampleVector(t, n, 50)
	created, err := owner.CreateBatchSingle(m, tVector)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := server.StoreBatch(created.BatchID, created.Header, created.Secrets); err != nil {
		t.Fatalf("StoreBatch: %v", err)
	}

	proof, err := server.GenerateDAAuditProof(created.BatchID, 0)
	if err != nil {
		t.Fatalf("GenerateDAAuditProof: %v", err)
	}

	if err := verifier.VerifyDAAudit(created.Header, proof, 0); err != nil {
		t.Fatalf("VerifyDAAudit rejected a genuine proof: %v", err)
	}
}

func TestDAAuditRejectsTamperedChallenge(t *testing.T) {
	n := 6
	_, owner, server, verifier := testSetup(t, n)

	m := sampleVector(t, n, 2)
	tVector := sampleVector(t, n, 50)
	created, err := owner.CreateBatchSingle(m, tVector)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := server.StoreBatch(created.BatchID, created.Header, created.Secrets); err != nil {
		t.Fatalf("StoreBatch: %v", err)
	}

	proof, err := server.GenerateDAAuditProof(created.BatchID, 0)
	if err != nil {
		t.Fatalf("GenerateDAAuditProof: %v", err)
	}
	proof.TProvided[0] = pairing.AddScalar(proof.TProvided[0], new(pairing.Scalar).SetInt64(1))

	if err := verifier.VerifyDAAudit(created.Header, proof, 0); err == nil {
		t.Fatal("expected rejection of a Storage-Server-favourable challenge substitution")
	}
}

func TestRevokedBatchFailsPrecheck(t *testing.T) {
	n := 8
	_, owner, server, verifier := testSetup(t, n)

	m := sampleVector(t, n, 3)
	tVector := sampleVector(t, n, 9)
	created, err := owner.CreateBatchSingle(m, tVector)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := server.StoreBatch(created.BatchID, created.Header, created.Secrets); err != nil {
		t.Fatalf("StoreBatch: %v", err)
	}

	revoked, err := owner.RevokeBatch(created.Header.Sigma)
	if err != nil {
		t.Fatalf("RevokeBatch: %v", err)
	}
	server.AddServerKey(revoked.NewServerKey)
	server.AddRevokedItem(created.Header.Sigma)
	verifier.UpdateGlobalPK(revoked.NewPK)

	challenge := sampleVector(t, n, 11)
	proof, err := server.GenerateDCDataProof(created.BatchID, challenge, 0)
	if err != nil {
		t.Fatalf("GenerateDCDataProof: %v", err)
	}

	if err := verifier.VerifyDCQuery(created.Header, challenge, proof, 0); err == nil {
		t.Fatal("expected verification to fail for a revoked batch")
	}
}

func TestUpdateBatchProducesFreshIndependentBatch(t *testing.T) {
	n := 8
	_, owner, server, verifier := testSetup(t, n)

	m1 := sampleVector(t, n, 1)
	t1 := sampleVector(t, n, 10)
	created1, err := owner.CreateBatchSingle(m1, t1)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := server.StoreBatch(created1.BatchID, created1.Header, created1.Secrets); err != nil {
		t.Fatalf("StoreBatch: %v", err)
	}

	m2 := sampleVector(t, n, 20)
	t2 := sampleVector(t, n, 30)
	update, err := owner.UpdateBatch(created1.Header.Sigma, [][]*pairing.Scalar{m2}, t2)
	if err != nil {
		t.Fatalf("UpdateBatch: %v", err)
	}
	if err := server.UpdateBatch(update.Revoke.NewServerKey, created1.Header.Sigma, update.Create.BatchID, update.Create.Header, update.Create.Secrets, true, created1.BatchID); err != nil {
		t.Fatalf("server UpdateBatch: %v", err)
	}
	verifier.UpdateGlobalPK(update.Revoke.NewPK)

	challenge := sampleVector(t, n, 5)
	proof, err := server.GenerateDCDataProof(update.Create.BatchID, challenge, 0)
	if err != nil {
		t.Fatalf("GenerateDCDataProof: %v", err)
	}
	if err := verifier.VerifyDCQuery(update.Create.Header, challenge, proof, 0); err != nil {
		t.Fatalf("VerifyDCQuery rejected the fresh batch from UpdateBatch: %v", err)
	}

	if _, err := server.GenerateDCDataProof(created1.BatchID, challenge, 0); err == nil {
		t.Error("expected the old batch id to be gone after UpdateBatch's cooperative delete")
	}
}

func TestMixAndMatchHeaderFailsPrecheck(t *testing.T) {
	n := 8
	_, owner, server, verifier := testSetup(t, n)

	m1 := sampleVector(t, n, 1)
	t1 := sampleVector(t, n, 10)
	b1, err := owner.CreateBatchSingle(m1, t1)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := server.StoreBatch(b1.BatchID, b1.Header, b1.Secrets); err != nil {
		t.Fatalf("StoreBatch: %v", err)
	}

	m2 := sampleVector(t, n, 2)
	t2 := sampleVector(t, n, 40)
	b2, err := owner.CreateBatchSingle(m2, t2)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := server.StoreBatch(b2.BatchID, b2.Header, b2.Secrets); err != nil {
		t.Fatalf("StoreBatch: %v", err)
	}

	// spec.md §8 Scenario D: mix-and-match header (C_data_list from B1,
	// C_time from B2, sigma from B1) must fail signature verification.
	mixed := BatchHeader{CDataList: b1.Header.CDataList, CTime: b2.Header.CTime, Sigma: b1.Header.Sigma}

	challenge := sampleVector(t, n, 1)
	proof, err := server.GenerateDCDataProof(b1.BatchID, challenge, 0)
	if err != nil {
		t.Fatalf("GenerateDCDataProof: %v", err)
	}

	if err := verifier.VerifyDCQuery(mixed, challenge, proof, 0); err == nil {
		t.Fatal("expected the mixed header to fail signature verification")
	}
}

func TestTimeRangeProofRoundTrip(t *testing.T) {
	n := 32
	_, owner, server, verifier := testSetup(t, n)

	m := sampleVector(t, n, 1)
	tVector := make([]*pairing.Scalar, n)
	for i := range tVector {
		tVector[i] = new(pairing.Scalar).SetInt64(int64(1000 + i))
	}

	created, err := owner.CreateBatchSingle(m, tVector)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := server.StoreBatch(created.BatchID, created.Header, created.Secrets); err != nil {
		t.Fatalf("StoreBatch: %v", err)
	}

	proofs, err := server.GenerateTimeRangeProofs(created.BatchID)
	if err != nil {
		t.Fatalf("GenerateTimeRangeProofs: %v", err)
	}

	if err := verifier.VerifyTimeRangeProofs(created.Header, proofs); err != nil {
		t.Fatalf("VerifyTimeRangeProofs rejected a genuine proof set: %v", err)
	}
}

func TestDAAuditChallengeUsesFixedDomainSeparator(t *testing.T) {
	n := 4
	c, owner, server, _ := testSetup(t, n)

	m := sampleVector(t, n, 1)
	tVector := sampleVector(t, n, 9)
	created, err := owner.CreateBatchSingle(m, tVector)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := server.StoreBatch(created.BatchID, created.Header, created.Secrets); err != nil {
		t.Fatalf("StoreBatch: %v", err)
	}

	proof, err := server.GenerateDAAuditProof(created.BatchID, 0)
	if err != nil {
		t.Fatalf("GenerateDAAuditProof: %v", err)
	}

	want := fsoracle.HAuditChallenge(created.Header.CDataList[0], c.N)
	for i := range want {
		if want[i].Cmp(proof.TProvided[i]) != 0 {
			t.Errorf("challenge[%d]: got %v, want %v", i, proof.TProvided[i], want[i])
		}
	}
}
