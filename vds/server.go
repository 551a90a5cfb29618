package vds

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Alfred-hhy/streamCommit/internal/accumulator"
	"github.com/Alfred-hhy/streamCommit/internal/crs"
	"github.com/Alfred-hhy/streamCommit/internal/fsoracle"
	"github.com/Alfred-hhy/streamCommit/internal/pairing"
	"github.com/Alfred-hhy/streamCommit/internal/vcproof"
)

// rangeProofBitLength is the fixed ℓ the composite time-range proofs use
// (spec.md §4.9.2: "one composite range proof ... per time-vector entry
// at ℓ=32").
const rangeProofBitLength = 32

type storedBatch struct {
	header  BatchHeader
	secrets BatchSecrets
}

// StorageServer holds batch public headers and secrets, a replicated copy
// of the accumulator's server keys, and a replicated blacklist (spec.md
// §4.9.2). Its map and blacklist are guarded by mu — a RWMutex, since
// reads during proof generation vastly outnumber the exclusive writes of
// store/revoke/update (spec.md §5: "read/write lock is sufficient").
type StorageServer struct {
	mu sync.RWMutex

	crs *crs.CRS

	batches    map[string]storedBatch
	serverKeys []pairing.G1
	blacklist  []*pairing.Scalar
}

// NewStorageServer creates an empty Storage Server over c, seeded with
// the accumulator's genesis server key (g,).
func NewStorageServer(c *crs.CRS) *StorageServer {
	return &StorageServer{
		crs:        c,
		batches:    make(map[string]storedBatch),
		serverKeys: []pairing.G1{c.G},
	}
}

// StoreBatch inserts a newly created batch. Overwriting an existing
// batch id is not permitted (spec.md §4.9.2).
func (s *StorageServer) StoreBatch(batchID string, header BatchHeader, secrets BatchSecrets) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.batches[batchID]; exists {
		return fmt.Errorf("%w: %q", ErrBatchAlreadyExists, batchID)
	}
	s.batches[batchID] = storedBatch{header: header, secrets: secrets}
	return nil
}

// AddServerKey appends a freshly-extended accumulator server key,
// mirroring DataOwner.RevokeBatch's output (spec.md §4.9.2).
func (s *StorageServer) AddServerKey(key pairing.G1) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverKeys = append(s.serverKeys, key)
}

// AddRevokedItem appends sigmaBytes to the replicated blacklist.
func (s *StorageServer) AddRevokedItem(sigmaBytes []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist = append(s.blacklist, accumulator.HashItem(sigmaBytes))
}

// DeleteBatch cooperatively removes a batch (spec.md §3: "the SS MAY
// delete the batch"). Deleting an unknown batch id is a no-op.
func (s *StorageServer) DeleteBatch(batchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.batches, batchID)
}

// UpdateBatch mirrors the Data Owner's update_batch composition on the
// Storage Server side, in the order spec.md §4.9.2 mandates: append
// server key, append to blacklist, delete old batch (optional), insert
// new batch.
func (s *StorageServer) UpdateBatch(newServerKey pairing.G1, oldSigmaBytes []byte, newBatchID string, newHeader BatchHeader, newSecrets BatchSecrets, deleteOld bool, oldBatchID string) error {
	s.AddServerKey(newServerKey)
	s.AddRevokedItem(oldSigmaBytes)
	if deleteOld {
		s.DeleteBatch(oldBatchID)
	}
	return s.StoreBatch(newBatchID, newHeader, newSecrets)
}

func (s *StorageServer) lookup(batchID string) (storedBatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.batches[batchID]
	if !ok {
		return storedBatch{}, &BatchNotFoundError{BatchID: batchID}
	}
	return b, nil
}

// witnessForSigma generates the non-membership witness for sigma against
// the server's current blacklist snapshot, substituting the dummy witness
// on ErrItemInBlacklist rather than propagating it — spec.md §7: "the SS
// silently substitutes the dummy witness (1_{𝔾₁}, 0) ... MUST NOT raise to
// the caller of a proof RPC".
func (s *StorageServer) witnessForSigma(sigma []byte) accumulator.Witness {
	s.mu.RLock()
	items := append([]*pairing.Scalar(nil), s.blacklist...)
	keys := append([]pairing.G1(nil), s.serverKeys...)
	s.mu.RUnlock()

	w, err := accumulator.GenerateWitness(items, keys, sigma)
	if err != nil {
		return accumulator.DummyWitness()
	}
	return w
}

func weightedSum(m, t []*pairing.Scalar) *pairing.Scalar {
	acc := new(pairing.Scalar)
	for i := range m {
		acc = pairing.AddScalar(acc, pairing.MulScalar(m[i], t[i]))
	}
	return acc
}

func aggregateOpenProof(c *crs.CRS, m []*pairing.Scalar, gamma *pairing.Scalar, t []*pairing.Scalar) (pairing.G1, error) {
	s := make([]int, len(t))
	for i := range s {
		s[i] = i + 1
	}
	return vcproof.AggregatedOpen(c, m, gamma, s, t)
}

// GenerateDCDataProof answers a Data Consumer's challenge tChallenge
// against columnIndex of batchID (spec.md §4.9.2).
func (s *StorageServer) GenerateDCDataProof(batchID string, tChallenge []*pairing.Scalar, columnIndex int) (*DCQueryProof, error) {
	b, err := s.lookup(batchID)
	if err != nil {
		return nil, err
	}
	if columnIndex < 0 || columnIndex >= len(b.secrets.MMatrix) {
		return nil, &ColumnOutOfRangeError{Index: columnIndex, D: len(b.secrets.MMatrix)}
	}

	m := b.secrets.MMatrix[columnIndex]
	gamma := b.secrets.GammaDataList[columnIndex]
	x := weightedSum(m, tChallenge)
	piAudit, err := aggregateOpenProof(s.crs, m, gamma, tChallenge)
	if err != nil {
		return nil, err
	}

	return &DCQueryProof{X: x, PiAudit: piAudit, Witness: s.witnessForSigma(b.header.Sigma)}, nil
}

// GenerateDAAuditProof answers a Data Auditor's non-interactive audit
// query: tChallenge is derived via H_t(C_data, 1_{𝔾₂}, 1_{𝔾₁}, n,
// "VDS-DA-AUDIT-ZK") rather than supplied by the caller (spec.md §4.9.2).
func (s *StorageServer) GenerateDAAuditProof(batchID string, columnIndex int) (*DAAuditProof, error) {
	b, err := s.lookup(batchID)
	if err != nil {
		return nil, err
	}
	if columnIndex < 0 || columnIndex >= len(b.secrets.MMatrix) {
		return nil, &ColumnOutOfRangeError{Index: columnIndex, D: len(b.secrets.MMatrix)}
	}

	m := b.secrets.MMatrix[columnIndex]
	gamma := b.secrets.GammaDataList[columnIndex]
	tChallenge := fsoracle.HAuditChallenge(b.header.CDataList[columnIndex], s.crs.N)

	x := weightedSum(m, tChallenge)
	piAudit, err := aggregateOpenProof(s.crs, m, gamma, tChallenge)
	if err != nil {
		return nil, err
	}

	return &DAAuditProof{
		X:         x,
		PiAudit:   piAudit,
		TProvided: tChallenge,
		Witness:   s.witnessForSigma(b.header.Sigma),
	}, nil
}

// GenerateTimeRangeProofs builds one composite range proof per entry of
// the batch's time vector at ℓ=32, sharing a single non-membership
// witness across all of them (spec.md §4.9.2).
func (s *StorageServer) GenerateTimeRangeProofs(batchID string) (*TimeRangeProofs, error) {
	b, err := s.lookup(batchID)
	if err != nil {
		return nil, err
	}

	entries := make([]*RangeProofEntry, len(b.secrets.TVector))
	var g errgroup.Group
	for i, tVal := range b.secrets.TVector {
		i, tVal := i, tVal
		g.Go(func() error {
			proof, err := vcproof.ProveRange(s.crs, tVal, rangeProofBitLength)
			if err != nil {
				return fmt.Errorf("vds: time-range proof for entry %d: %w", i, err)
			}
			entries[i] = &RangeProofEntry{Index: i, Proof: proof}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &TimeRangeProofs{Proofs: entries, Witness: s.witnessForSigma(b.header.Sigma)}, nil
}
