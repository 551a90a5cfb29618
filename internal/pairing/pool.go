package pairing

import (
	"math/big"
	"sync"
)

// Pool recycles scratch scalar and point slices (one entry per CRS
// position, up to 2n); vcproof's point-opening and evaluation-in-the-exponent
// routines draw their multi-exponentiation inputs from it. Adapted from the teacher's bbs/pool.go ObjectPool, narrowed to the
// shapes this engine actually needs: scalar slices for multi-exponentiation
// exponents and G1/G2 point slices for their bases.
type Pool struct {
	scalarSlice sync.Pool
	g1Slice     sync.Pool
	g2Slice     sync.Pool
	bigInt      sync.Pool
}

// Default is the package-wide pool instance; proof generation and
// verification are synchronous and CPU-bound per spec.md §5, so a single
// shared pool guarded by sync.Pool's own internal locking is sufficient.
var Default = NewPool()

// NewPool creates a pool with empty backing stores.
func NewPool() *Pool {
	return &Pool{
		scalarSlice: sync.Pool{New: func() interface{} { return make([]*Scalar, 0, 32) }},
		g1Slice:     sync.Pool{New: func() interface{} { return make([]G1, 0, 32) }},
		g2Slice:     sync.Pool{New: func() interface{} { return make([]G2, 0, 32) }},
		bigInt:      sync.Pool{New: func() interface{} { return new(big.Int) }},
	}
}

// GetScalarSlice returns a zero-length slice with at least capacity cap.
func (p *Pool) GetScalarSlice(capacity int) []*Scalar {
	s := p.scalarSlice.Get().([]*Scalar)
	if cap(s) < capacity {
		return make([]*Scalar, 0, capacity)
	}
	return s[:0]
}

// PutScalarSlice returns a slice obtained from GetScalarSlice.
func (p *Pool) PutScalarSlice(s []*Scalar) {
	if s != nil {
		p.scalarSlice.Put(s)
	}
}

// GetG1Slice returns a zero-length slice with at least capacity cap.
func (p *Pool) GetG1Slice(capacity int) []G1 {
	s := p.g1Slice.Get().([]G1)
	if cap(s) < capacity {
		return make([]G1, 0, capacity)
	}
	return s[:0]
}

// PutG1Slice returns a slice obtained from GetG1Slice.
func (p *Pool) PutG1Slice(s []G1) {
	if s != nil {
		p.g1Slice.Put(s)
	}
}

// GetG2Slice returns a zero-length slice with at least capacity cap.
func (p *Pool) GetG2Slice(capacity int) []G2 {
	s := p.g2Slice.Get().([]G2)
	if cap(s) < capacity {
		return make([]G2, 0, capacity)
	}
	return s[:0]
}

// PutG2Slice returns a slice obtained from GetG2Slice.
func (p *Pool) PutG2Slice(s []G2) {
	if s != nil {
		p.g2Slice.Put(s)
	}
}

// GetBigInt returns a zeroed scratch big.Int.
func (p *Pool) GetBigInt() *big.Int {
	return p.bigInt.Get().(*big.Int).SetInt64(0)
}

// PutBigInt returns a big.Int obtained from GetBigInt.
func (p *Pool) PutBigInt(v *big.Int) {
	if v != nil {
		p.bigInt.Put(v)
	}
}
