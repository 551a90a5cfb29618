package vds

import (
	"fmt"
	"sync"

	"github.com/Alfred-hhy/streamCommit/internal/accumulator"
	"github.com/Alfred-hhy/streamCommit/internal/commit"
	"github.com/Alfred-hhy/streamCommit/internal/crs"
	"github.com/Alfred-hhy/streamCommit/internal/pairing"
	"github.com/Alfred-hhy/streamCommit/internal/sig"
)

// DataOwner is the sole writer of batches and of the accumulator's
// revocation state. Its mutable fields (the accumulator, the revocation
// counter) are guarded by mu, since spec.md §5 requires every DO
// operation on that state to be serialised.
type DataOwner struct {
	mu sync.Mutex

	crs *crs.CRS
	sk  sig.PrivateKey
	vk  sig.PublicKey

	acc   *accumulator.Accumulator
	accPK accumulator.PublicKey
}

// NewDataOwner bootstraps a Data Owner over c, sampling a fresh signing
// key pair and accumulator trapdoor.
func NewDataOwner(c *crs.CRS) (*DataOwner, error) {
	sk, vk, err := sig.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("vds: generating signing key: %w", err)
	}
	s, err := pairing.RandomScalar(nil)
	if err != nil {
		return nil, fmt.Errorf("vds: sampling accumulator trapdoor: %w", err)
	}
	acc, accPK := accumulator.Setup(c.G, c.GHat, s)

	return &DataOwner{crs: c, sk: sk, vk: vk, acc: acc, accPK: accPK}, nil
}

// PublicKey returns the current global_pk snapshot.
func (o *DataOwner) PublicKey() DynamicPublicKey {
	o.mu.Lock()
	defer o.mu.Unlock()
	return DynamicPublicKey{VkDO: o.vk, AccPK: o.accPK, FCurrent: o.acc.F}
}

// CreateBatch builds a new batch from mMatrix (d columns, each of length
// n) and tVector (length n), per spec.md §4.9.1. A 1-D input (a single
// column passed directly) is normalised into a 1-column matrix by the
// caller-facing CreateBatchSingle helper below. CreateBatch itself is
// pure: it mutates no Data Owner state.
func (o *DataOwner) CreateBatch(mMatrix [][]*pairing.Scalar, tVector []*pairing.Scalar) (*CreateBatchResult, error) {
	n := o.crs.N
	if len(tVector) != n {
		return nil, fmt.Errorf("%w: t_vector has length %d, want %d", ErrVectorLengthMismatch, len(tVector), n)
	}
	for col, m := range mMatrix {
		if len(m) != n {
			return nil, fmt.Errorf("%w: column %d has length %d, want %d", ErrVectorLengthMismatch, col, len(m), n)
		}
	}

	gammaTime, err := pairing.RandomScalar(nil)
	if err != nil {
		return nil, err
	}
	cTime, err := commit.Ghat(o.crs, tVector, gammaTime)
	if err != nil {
		return nil, err
	}

	d := len(mMatrix)
	cDataList := make([]pairing.G1, d)
	gammaDataList := make([]*pairing.Scalar, d)
	for col, m := range mMatrix {
		gamma, err := pairing.RandomScalar(nil)
		if err != nil {
			return nil, err
		}
		cData, err := commit.G(o.crs, m, gamma)
		if err != nil {
			return nil, err
		}
		cDataList[col] = cData
		gammaDataList[col] = gamma
	}

	sigma := sig.Sign(o.sk, cTime, cDataList)
	batchID := BatchID(cTime, cDataList)

	return &CreateBatchResult{
		BatchID: batchID,
		Header: BatchHeader{
			CDataList: cDataList,
			CTime:     cTime,
			Sigma:     sigma,
		},
		Secrets: BatchSecrets{
			MMatrix:       mMatrix,
			TVector:       tVector,
			GammaDataList: gammaDataList,
			GammaTime:     gammaTime,
		},
	}, nil
}

// CreateBatchSingle is the single-column convenience entry point: it
// normalises a lone m vector into a 1-column matrix before delegating to
// CreateBatch (spec.md §4.9.1: "normalises a 1-D input to a single-column
// matrix").
func (o *DataOwner) CreateBatchSingle(m []*pairing.Scalar, tVector []*pairing.Scalar) (*CreateBatchResult, error) {
	return o.CreateBatch([][]*pairing.Scalar{m}, tVector)
}

// RevokeBatch adds sigma to the blacklist and publishes a refreshed
// global_pk (spec.md §4.9.1). Callers MUST ensure a given sigma is
// revoked at most once; re-revoking an already-revoked sigma is
// undefined per spec.md §4.9.1 ("the hash is the same; internal counters
// advance anyway").
func (o *DataOwner) RevokeBatch(sigma []byte) (*RevokeResult, error) {
	if len(sigma) == 0 {
		return nil, fmt.Errorf("vds: cannot revoke an empty signature")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	newKey := o.acc.Revoke(sigma)

	return &RevokeResult{
		NewServerKey: newKey,
		NewPK:        DynamicPublicKey{VkDO: o.vk, AccPK: o.accPK, FCurrent: o.acc.F},
		SigmaBytes:   sigma,
	}, nil
}

// UpdateBatch performs a one-shot revoke-then-create (spec.md §4.9.1,
// "a one-shot revoke-then-create"; SPEC_FULL.md's supplemented atomic
// composition of the two DO-side calls): it revokes oldSigma and creates
// a fresh batch from newMMatrix/newTVector, returning the union of both
// operations' outputs. Since CreateBatch mutates no Data Owner state, the
// new batch is built first, so a failed create leaves oldSigma unrevoked.
func (o *DataOwner) UpdateBatch(oldSigma []byte, newMMatrix [][]*pairing.Scalar, newTVector []*pairing.Scalar) (*UpdateResult, error) {
	create, err := o.CreateBatch(newMMatrix, newTVector)
	if err != nil {
		return nil, fmt.Errorf("vds: update_batch create step: %w", err)
	}
	revoke, err := o.RevokeBatch(oldSigma)
	if err != nil {
		return nil, fmt.Errorf("vds: update_batch revoke step: %w", err)
	}
	return &UpdateResult{Revoke: *revoke, Create: *create}, nil
}
