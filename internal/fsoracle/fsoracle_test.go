package fsoracle

import (
	"testing"

	"github.com/Alfred-hhy/streamCommit/internal/pairing"
)

func sampleElems() (pairing.G1, pairing.G2, pairing.G1) {
	g, gHat := pairing.Generators()
	return g, gHat, g
}

func TestHTIsDeterministicAndDomainSeparated(t *testing.T) {
	c, cHat, cY := sampleElems()
	a := HT(c, cHat, cY, 5, []byte("ctx-a"))
	b := HT(c, cHat, cY, 5, []byte("ctx-a"))
	if len(a) != 5 || len(b) != 5 {
		t.Fatalf("expected 5 weights, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			t.Errorf("HT not deterministic at index %d", i)
		}
	}

	other := HT(c, cHat, cY, 5, []byte("ctx-b"))
	same := true
	for i := range a {
		if a[i].Cmp(other[i]) != 0 {
			same = false
		}
	}
	if same {
		t.Error("HT did not domain-separate on ctx")
	}
}

func TestHTWeightsAreDistinctAcrossIndices(t *testing.T) {
	c, cHat, cY := sampleElems()
	weights := HT(c, cHat, cY, 4, []byte("ctx"))
	seen := map[string]bool{}
	for _, w := range weights {
		key := w.String()
		if seen[key] {
			t.Errorf("duplicate weight %v across distinct indices", w)
		}
		seen[key] = true
	}
}

func TestHAggProducesDistinctScalars(t *testing.T) {
	c, cHat, cY := sampleElems()
	deltaEq, deltaY := HAgg(c, cHat, cY)
	if deltaEq.Cmp(deltaY) == 0 {
		t.Error("delta_eq and delta_y collided")
	}

	deltaEq2, deltaY2 := HAgg(c, cHat, cY)
	if deltaEq.Cmp(deltaEq2) != 0 || deltaY.Cmp(deltaY2) != 0 {
		t.Error("HAgg is not deterministic")
	}
}

func TestHSBatchPreservesDomainOrderAndMatchesHS(t *testing.T) {
	_, cHat, cY := sampleElems()
	_, vHat := pairing.Generators()
	domain := []int{2, 5, 3}
	batch := HSBatch(domain, vHat, cHat, cY)
	for k, idx := range domain {
		want := HS(idx, domain, vHat, cHat, cY)
		if batch[k].Cmp(want) != 0 {
			t.Errorf("HSBatch[%d]: got %v, want %v", k, batch[k], want)
		}
	}
}

func TestHSDependsOnDomainSet(t *testing.T) {
	_, cHat, cY := sampleElems()
	_, vHat := pairing.Generators()
	a := HS(2, []int{2, 3, 4}, vHat, cHat, cY)
	b := HS(2, []int{2, 3, 5}, vHat, cHat, cY)
	if a.Cmp(b) == 0 {
		t.Error("HS(2, ...) did not change when the rest of the domain changed")
	}
}

func TestHAuditChallengeIsFixedAndDeterministic(t *testing.T) {
	g, _ := pairing.Generators()
	a := HAuditChallenge(g, 6)
	b := HAuditChallenge(g, 6)
	if len(a) != 6 {
		t.Fatalf("expected 6 weights, got %d", len(a))
	}
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			t.Errorf("HAuditChallenge not deterministic at index %d", i)
		}
	}

	want := HT(g, pairing.IdentityG2(), pairing.IdentityG1(), 6, []byte("VDS-DA-AUDIT-ZK"))
	for i := range a {
		if a[i].Cmp(want[i]) != 0 {
			t.Errorf("HAuditChallenge does not match HT with the fixed literal context at index %d", i)
		}
	}
}

func TestRangeChallengeYAndTAreDeterministicAndDistinct(t *testing.T) {
	_, cHat := pairing.Generators()
	_, vHat := pairing.Generators()
	y1 := RangeChallengeY(cHat, vHat)
	y2 := RangeChallengeY(cHat, vHat)
	if y1.Cmp(y2) != 0 {
		t.Error("RangeChallengeY is not deterministic")
	}

	g, _ := pairing.Generators()
	tChallenge := RangeChallengeT(y1, cHat, g)
	if tChallenge.Cmp(y1) == 0 {
		t.Error("RangeChallengeT collided with its y input; inputs are not actually mixed in")
	}
}

func TestRangeAggregationScalarsAreFourDistinctValues(t *testing.T) {
	_, cHat := pairing.Generators()
	_, vHat := pairing.Generators()
	g, _ := pairing.Generators()

	dx, deq, dy, dv := RangeAggregationScalars(cHat, vHat, g)
	vals := []*pairing.Scalar{dx, deq, dy, dv}
	for i := 0; i < len(vals); i++ {
		for j := i + 1; j < len(vals); j++ {
			if vals[i].Cmp(vals[j]) == 0 {
				t.Errorf("RangeAggregationScalars produced a collision between outputs %d and %d", i, j)
			}
		}
	}

	dx2, deq2, dy2, dv2 := RangeAggregationScalars(cHat, vHat, g)
	if dx.Cmp(dx2) != 0 || deq.Cmp(deq2) != 0 || dy.Cmp(dy2) != 0 || dv.Cmp(dv2) != 0 {
		t.Error("RangeAggregationScalars is not deterministic")
	}
}
