package vds

import "fmt"

// Error surface of the protocol layer (spec.md §6/§9). Each sentinel names
// a distinct failure condition; callers that want a hardened, non-leaking
// build can fold every Verifier-side sentinel into ErrVerificationFailed
// themselves — the reference implementation here reports the specific
// reason, as spec.md §6 permits ("the reference implementation may log
// distinct reasons").
var (
	ErrBatchNotFound                  = fmt.Errorf("vds: batch not found")
	ErrBatchAlreadyExists             = fmt.Errorf("vds: batch already exists")
	ErrColumnOutOfRange               = fmt.Errorf("vds: column index out of range")
	ErrVectorLengthMismatch           = fmt.Errorf("vds: vector length does not match CRS dimension")
	ErrSignatureInvalid               = fmt.Errorf("vds: signature does not verify")
	ErrAccumulatorNonMembershipInvalid = fmt.Errorf("vds: non-membership witness does not verify")
	ErrPairingCheckFailed             = fmt.Errorf("vds: pairing check failed")
	ErrVerificationFailed             = fmt.Errorf("vds: verification failed")
	ErrChallengeMismatch              = fmt.Errorf("vds: provided challenge does not match the re-derived one")
)

// ColumnOutOfRangeError carries the offending index and the batch's column
// count, matching spec.md §6's `ColumnOutOfRange(index, d)`.
type ColumnOutOfRangeError struct {
	Index int
	D     int
}

func (e *ColumnOutOfRangeError) Error() string {
	return fmt.Sprintf("vds: column index %d out of range for %d columns", e.Index, e.D)
}

func (e *ColumnOutOfRangeError) Unwrap() error { return ErrColumnOutOfRange }

// BatchNotFoundError carries the offending batch id.
type BatchNotFoundError struct {
	BatchID string
}

func (e *BatchNotFoundError) Error() string {
	return fmt.Sprintf("vds: batch %q not found", e.BatchID)
}

func (e *BatchNotFoundError) Unwrap() error { return ErrBatchNotFound }
