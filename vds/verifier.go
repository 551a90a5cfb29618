package vds

import (
	"fmt"
	"sync"

	"github.com/Alfred-hhy/streamCommit/internal/accumulator"
	"github.com/Alfred-hhy/streamCommit/internal/crs"
	"github.com/Alfred-hhy/streamCommit/internal/fsoracle"
	"github.com/Alfred-hhy/streamCommit/internal/pairing"
	"github.com/Alfred-hhy/streamCommit/internal/sig"
	"github.com/Alfred-hhy/streamCommit/internal/verify"
)

// Verifier holds the CRS and the current global_pk; it is the only role
// whose state is read far more than it is written, so a RWMutex guards
// the public key (spec.md §4.9.3).
type Verifier struct {
	mu sync.RWMutex

	crs *crs.CRS
	pk  DynamicPublicKey
}

// NewVerifier creates a Verifier over c with an initial global_pk
// snapshot (normally fetched from the Data Owner at startup).
func NewVerifier(c *crs.CRS, pk DynamicPublicKey) *Verifier {
	return &Verifier{crs: c, pk: pk}
}

// UpdateGlobalPK installs a fresh global_pk snapshot. MUST be called
// before verifying anything created after a revocation (spec.md §4.9.3).
func (v *Verifier) UpdateGlobalPK(pk DynamicPublicKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pk = pk
}

func (v *Verifier) snapshot() DynamicPublicKey {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pk
}

// verifyPrecheck runs the two checks spec.md §4.9.3 requires before any
// query-specific verification: the binding signature over
// (C_time‖C_data_list), and the non-membership witness against the
// current accumulator snapshot. It returns the data-commitment list for
// the caller to select a column from on success.
func (v *Verifier) verifyPrecheck(header BatchHeader, witness accumulator.Witness) ([]pairing.G1, error) {
	pk := v.snapshot()

	ok, err := sig.Verify(pk.VkDO, header.CTime, header.CDataList, header.Sigma)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	if !ok {
		return nil, ErrSignatureInvalid
	}

	ok, err = accumulator.VerifyNonMembership(pk.AccPK, pk.FCurrent, header.Sigma, witness)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccumulatorNonMembershipInvalid, err)
	}
	if !ok {
		return nil, ErrAccumulatorNonMembershipInvalid
	}

	return header.CDataList, nil
}

// VerifyDCQuery runs the pre-check, selects columnIndex, and verifies
// equation (1) in its single aggregated form: e(C, ∏ ĝ_{n+1−i}^{t_i}) =
// e(π_audit, ĝ) · e(g_1, ĝ_n)^x (spec.md §4.9.3).
func (v *Verifier) VerifyDCQuery(header BatchHeader, t []*pairing.Scalar, proof *DCQueryProof, columnIndex int) error {
	cDataList, err := v.verifyPrecheck(header, proof.Witness)
	if err != nil {
		return err
	}
	if columnIndex < 0 || columnIndex >= len(cDataList) {
		return &ColumnOutOfRangeError{Index: columnIndex, D: len(cDataList)}
	}

	return verify.AggregatedOpen(v.crs, cDataList[columnIndex], t, proof.PiAudit, proof.X)
}

// VerifyDAAudit runs the pre-check, re-derives t from
// (C_data, 1_{𝔾₂}, 1_{𝔾₁}, n, "VDS-DA-AUDIT-ZK") and rejects if it does
// not match tProvided component-wise (otherwise the Storage Server chose
// a favourable challenge), then verifies equation (1) as VerifyDCQuery
// does (spec.md §4.9.3).
func (v *Verifier) VerifyDAAudit(header BatchHeader, proof *DAAuditProof, columnIndex int) error {
	cDataList, err := v.verifyPrecheck(header, proof.Witness)
	if err != nil {
		return err
	}
	if columnIndex < 0 || columnIndex >= len(cDataList) {
		return &ColumnOutOfRangeError{Index: columnIndex, D: len(cDataList)}
	}

	tDerived := fsoracle.HAuditChallenge(cDataList[columnIndex], v.crs.N)
	if len(tDerived) != len(proof.TProvided) {
		return ErrChallengeMismatch
	}
	for i := range tDerived {
		if tDerived[i].Cmp(proof.TProvided[i]) != 0 {
			return ErrChallengeMismatch
		}
	}

	return verify.AggregatedOpen(v.crs, cDataList[columnIndex], tDerived, proof.PiAudit, proof.X)
}

// VerifyTimeRangeProofs runs the pre-check, then the composite
// range-proof verifier (§4.7) over every entry (spec.md §4.9.3).
func (v *Verifier) VerifyTimeRangeProofs(header BatchHeader, proofs *TimeRangeProofs) error {
	if _, err := v.verifyPrecheck(header, proofs.Witness); err != nil {
		return err
	}

	for _, entry := range proofs.Proofs {
		if err := verify.RangeProof(v.crs, entry.Proof); err != nil {
			return fmt.Errorf("vds: time-range proof at index %d: %w", entry.Index, err)
		}
	}
	return nil
}
