package vds

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/Alfred-hhy/streamCommit/internal/accumulator"
	"github.com/Alfred-hhy/streamCommit/internal/pairing"
	"github.com/Alfred-hhy/streamCommit/internal/sig"
	"github.com/Alfred-hhy/streamCommit/internal/vcproof"
)

// BatchHeader is the public half of a batch (spec.md §3, "Batch"): what
// the Storage Server forwards to any Data Consumer or Data Auditor, and
// what the Verifier's pre-check runs against.
type BatchHeader struct {
	CDataList []pairing.G1
	CTime     pairing.G2
	Sigma     []byte
}

// BatchSecrets is the private half of a batch, handed only to the
// Storage Server.
type BatchSecrets struct {
	MMatrix       [][]*pairing.Scalar // d columns, each length n
	TVector       []*pairing.Scalar
	GammaDataList []*pairing.Scalar // one per column
	GammaTime     *pairing.Scalar
}

// BatchID derives the batch identifier: SHA-256 of the signed message,
// truncated to 16 hex characters (spec.md §3).
func BatchID(cTime pairing.G2, cData []pairing.G1) string {
	digest := sig.BindingMessage(cTime, cData)
	full := sha256.Sum256(digest[:])
	return hex.EncodeToString(full[:])[:16]
}

// DynamicPublicKey is global_pk (spec.md §3): published by the Data Owner,
// fetched by every verifier before each verification.
type DynamicPublicKey struct {
	VkDO     sig.PublicKey
	AccPK    accumulator.PublicKey
	FCurrent pairing.G1
}

// CreateBatchResult bundles what DataOwner.CreateBatch returns.
type CreateBatchResult struct {
	BatchID string
	Header  BatchHeader
	Secrets BatchSecrets
}

// RevokeResult bundles what DataOwner.RevokeBatch returns.
type RevokeResult struct {
	NewServerKey pairing.G1
	NewPK        DynamicPublicKey
	SigmaBytes   []byte
}

// UpdateResult bundles RevokeResult and CreateBatchResult for
// DataOwner.UpdateBatch's one-shot revoke-then-create.
type UpdateResult struct {
	Revoke RevokeResult
	Create CreateBatchResult
}

// DCQueryProof is what StorageServer.GenerateDCDataProof returns.
type DCQueryProof struct {
	X       *pairing.Scalar
	PiAudit pairing.G1
	Witness accumulator.Witness
}

// DAAuditProof is what StorageServer.GenerateDAAuditProof returns.
type DAAuditProof struct {
	X         *pairing.Scalar
	PiAudit   pairing.G1
	TProvided []*pairing.Scalar
	Witness   accumulator.Witness
}

// TimeRangeProofs is what StorageServer.GenerateTimeRangeProofs returns:
// one composite range proof per entry of the batch's time vector, sharing
// a single non-membership witness.
type TimeRangeProofs struct {
	Proofs  []*RangeProofEntry
	Witness accumulator.Witness
}

// RangeProofEntry pairs a time-vector index with its composite range
// proof.
type RangeProofEntry struct {
	Index int
	Proof *vcproof.RangeProof
}
