// Package verify implements the pairing-product verification equations of
// §4.7. Division-form equations are checked as LHS_num * LHS_den^-1 == RHS
// in GT, via pairing.DivGT — never rewritten any other way, per spec.md's
// explicit instruction that GT division is multiplication by inverse only.
package verify

import (
	"fmt"

	"github.com/Alfred-hhy/streamCommit/internal/crs"
	"github.com/Alfred-hhy/streamCommit/internal/fsoracle"
	"github.com/Alfred-hhy/streamCommit/internal/pairing"
	"github.com/Alfred-hhy/streamCommit/internal/vcproof"
)

// ErrPairingCheckFailed is returned by every Verify* function when the
// pairing-product identity does not hold.
var ErrPairingCheckFailed = fmt.Errorf("verify: pairing check failed")

// ErrVectorLengthMismatch mirrors the sibling packages' own sentinel for
// this package's input-vector validation.
var ErrVectorLengthMismatch = fmt.Errorf("verify: vector length does not match CRS dimension")

// g1GhatN returns e(g_1, ghat_n), the fixed pairing value equation (1),
// (3), and (4) all raise to a scalar exponent.
func g1GhatN(c *crs.CRS) (pairing.GT, error) {
	return pairing.Pair(c.G1At(1), c.G2At(c.N))
}

// AggregatedOpen checks equation (1): e(C, prod_i ghat_{n+1-i}^{t_i}) =
// e(pi_S, ghat) * e(g_1, ghat_n)^{sum_i m_i t_i}.
//
// The verifier never sees m: x is the prover's claimed weighted sum
// sum_i m_i t_i, so the right-hand exponent is x itself. The protocol
// layer's VerifyDCQuery and VerifyDAAudit call this function directly.
func AggregatedOpen(c *crs.CRS, commitment pairing.G1, t []*pairing.Scalar, piS pairing.G1, x *pairing.Scalar) error {
	n := c.N
	if len(t) != n {
		return fmt.Errorf("%w: t has length %d, want %d", ErrVectorLengthMismatch, len(t), n)
	}

	points := make([]pairing.G2, 0, n)
	for i := 1; i <= n; i++ {
		points = append(points, c.G2Reverse(i))
	}
	weighted, err := pairing.MultiExpG2(points, t)
	if err != nil {
		return err
	}

	lhs, err := pairing.Pair(commitment, weighted)
	if err != nil {
		return err
	}

	rhsBase, err := pairing.Pair(piS, c.GHat)
	if err != nil {
		return err
	}
	base, err := g1GhatN(c)
	if err != nil {
		return err
	}
	rhs := pairing.MulGT(rhsBase, pairing.ExpGT(base, x))

	if !pairing.EqualGT(lhs, rhs) {
		return ErrPairingCheckFailed
	}
	return nil
}

// CyCoordinate checks equation (3): e(C_y, ghat_i) = e(g_i^{gammaY} *
// prod_{j!=i} g_{n+1-j+i}^{y_j x_j}, ghat) * e(g_1, ghat_n)^{y_i x_i}.
func CyCoordinate(c *crs.CRS, cY pairing.G1, i int, y, x []*pairing.Scalar, gammaY *pairing.Scalar) error {
	n := c.N
	if len(y) != n || len(x) != n {
		return fmt.Errorf("%w: vectors must have length %d", ErrVectorLengthMismatch, n)
	}

	lhs, err := pairing.Pair(cY, c.G2At(i))
	if err != nil {
		return err
	}

	points := make([]pairing.G1, 0, n)
	scalars := make([]*pairing.Scalar, 0, n)
	points = append(points, c.G1At(i))
	scalars = append(scalars, gammaY)
	for j := 1; j <= n; j++ {
		if j == i {
			continue
		}
		points = append(points, c.G1At(n+1-j+i))
		scalars = append(scalars, pairing.MulScalar(y[j-1], x[j-1]))
	}
	inner, err := pairing.MultiExpG1(points, scalars)
	if err != nil {
		return err
	}
	rhsBase, err := pairing.Pair(inner, c.GHat)
	if err != nil {
		return err
	}
	base, err := g1GhatN(c)
	if err != nil {
		return err
	}
	rhs := pairing.MulGT(rhsBase, pairing.ExpGT(base, pairing.MulScalar(y[i-1], x[i-1])))

	if !pairing.EqualGT(lhs, rhs) {
		return ErrPairingCheckFailed
	}
	return nil
}

// GhatCoordinate checks equation (4): e(g_{n+1-i}, Chat) =
// e(g_{n+1-i}^gamma * prod_{j!=i} g_{n+1-i+j}^{x_j}, ghat) *
// e(g_1, ghat_n)^{x_i}.
func GhatCoordinate(c *crs.CRS, cHat pairing.G2, i int, x []*pairing.Scalar, gamma *pairing.Scalar) error {
	n := c.N
	if len(x) != n {
		return fmt.Errorf("%w: x must have length %d", ErrVectorLengthMismatch, n)
	}

	lhs, err := pairing.Pair(c.G1At(n+1-i), cHat)
	if err != nil {
		return err
	}

	points := make([]pairing.G1, 0, n)
	scalars := make([]*pairing.Scalar, 0, n)
	points = append(points, c.G1At(n+1-i))
	scalars = append(scalars, gamma)
	for j := 1; j <= n; j++ {
		if j == i {
			continue
		}
		points = append(points, c.G1At(n+1-i+j))
		scalars = append(scalars, x[j-1])
	}
	inner, err := pairing.MultiExpG1(points, scalars)
	if err != nil {
		return err
	}
	rhsBase, err := pairing.Pair(inner, c.GHat)
	if err != nil {
		return err
	}
	base, err := g1GhatN(c)
	if err != nil {
		return err
	}
	rhs := pairing.MulGT(rhsBase, pairing.ExpGT(base, x[i-1]))

	if !pairing.EqualGT(lhs, rhs) {
		return ErrPairingCheckFailed
	}
	return nil
}

// eqLHS computes the GT value of equation (5)'s division form:
// e(prod_i g_{n+1-i}^{t_i y_i}, Chat) * e(C_y, prod_i ghat_i^{t_i})^-1.
func eqLHS(c *crs.CRS, cHat pairing.G2, cY pairing.G1, t, y []*pairing.Scalar) (pairing.GT, error) {
	n := c.N
	points := make([]pairing.G1, 0, n)
	scalars := make([]*pairing.Scalar, 0, n)
	for i := 1; i <= n; i++ {
		points = append(points, c.G1At(n+1-i))
		scalars = append(scalars, pairing.MulScalar(t[i-1], y[i-1]))
	}
	numBase, err := pairing.MultiExpG1(points, scalars)
	if err != nil {
		return pairing.GT{}, err
	}
	num, err := pairing.Pair(numBase, cHat)
	if err != nil {
		return pairing.GT{}, err
	}

	g2points := make([]pairing.G2, 0, n)
	for i := 1; i <= n; i++ {
		g2points = append(g2points, c.G2At(i))
	}
	denExp, err := pairing.MultiExpG2(g2points, t)
	if err != nil {
		return pairing.GT{}, err
	}
	den, err := pairing.Pair(cY, denExp)
	if err != nil {
		return pairing.GT{}, err
	}

	return pairing.DivGT(num, den), nil
}

// Equality checks equation (5).
func Equality(c *crs.CRS, cHat pairing.G2, cY pairing.G1, t, y []*pairing.Scalar, piEq pairing.G1) error {
	n := c.N
	if len(t) != n || len(y) != n {
		return fmt.Errorf("%w: vectors must have length %d", ErrVectorLengthMismatch, n)
	}
	lhs, err := eqLHS(c, cHat, cY, t, y)
	if err != nil {
		return err
	}
	rhs, err := pairing.Pair(piEq, c.GHat)
	if err != nil {
		return err
	}
	if !pairing.EqualGT(lhs, rhs) {
		return ErrPairingCheckFailed
	}
	return nil
}

// orthoLHS computes equation (7)'s LHS: e(C_y * prod_j g_{n+1-j}^{-y_j}, Chat).
func orthoLHS(c *crs.CRS, cHat pairing.G2, cY pairing.G1, y []*pairing.Scalar) (pairing.GT, error) {
	n := c.N
	points := make([]pairing.G1, 0, n+1)
	scalars := make([]*pairing.Scalar, 0, n+1)
	points = append(points, cY)
	scalars = append(scalars, new(pairing.Scalar).SetInt64(1))
	for j := 1; j <= n; j++ {
		points = append(points, c.G1At(n+1-j))
		scalars = append(scalars, pairing.NegScalar(y[j-1]))
	}
	acc, err := pairing.MultiExpG1(points, scalars)
	if err != nil {
		return pairing.GT{}, err
	}
	return pairing.Pair(acc, cHat)
}

// Orthogonality checks equation (7).
func Orthogonality(c *crs.CRS, cHat pairing.G2, cY pairing.G1, y []*pairing.Scalar, piY pairing.G1) error {
	if len(y) != c.N {
		return fmt.Errorf("%w: y must have length %d", ErrVectorLengthMismatch, c.N)
	}
	lhs, err := orthoLHS(c, cHat, cY, y)
	if err != nil {
		return err
	}
	rhs, err := pairing.Pair(piY, c.GHat)
	if err != nil {
		return err
	}
	if !pairing.EqualGT(lhs, rhs) {
		return ErrPairingCheckFailed
	}
	return nil
}

// rangeSumLHS computes equation (9)'s division form:
// e(prod_{i=1}^l g_{n+1-i}^{2^{i-1}}, Chat) * e(g_n, Vhat)^-1.
func rangeSumLHS(c *crs.CRS, cHat, vHat pairing.G2, l int) (pairing.GT, error) {
	points := make([]pairing.G1, 0, l)
	scalars := make([]*pairing.Scalar, 0, l)
	for i := 1; i <= l; i++ {
		points = append(points, c.G1At(c.N+1-i))
		scalars = append(scalars, new(pairing.Scalar).Lsh(new(pairing.Scalar).SetInt64(1), uint(i-1)))
	}
	numBase, err := pairing.MultiExpG1(points, scalars)
	if err != nil {
		return pairing.GT{}, err
	}
	num, err := pairing.Pair(numBase, cHat)
	if err != nil {
		return pairing.GT{}, err
	}
	den, err := pairing.Pair(c.G1At(c.N), vHat)
	if err != nil {
		return pairing.GT{}, err
	}
	return pairing.DivGT(num, den), nil
}

// RangeSum checks equation (9).
func RangeSum(c *crs.CRS, cHat, vHat pairing.G2, l int, piX pairing.G1) error {
	lhs, err := rangeSumLHS(c, cHat, vHat, l)
	if err != nil {
		return err
	}
	rhs, err := pairing.Pair(piX, c.GHat)
	if err != nil {
		return err
	}
	if !pairing.EqualGT(lhs, rhs) {
		return ErrPairingCheckFailed
	}
	return nil
}

// AggregatedEqY checks equation (16): the joint eq+orthogonality check
// against the single aggregated proof pi = pi_eq^{deltaEq} * pi_y^{deltaY}.
func AggregatedEqY(c *crs.CRS, cHat pairing.G2, cY pairing.G1, t, y []*pairing.Scalar, deltaEq, deltaY *pairing.Scalar, pi pairing.G1) error {
	n := c.N
	if len(t) != n || len(y) != n {
		return fmt.Errorf("%w: vectors must have length %d", ErrVectorLengthMismatch, n)
	}

	// C_y^{deltaY} * prod_i g_{n+1-i}^{(deltaEq t_i - deltaY) y_i}
	points := make([]pairing.G1, 0, n+1)
	scalars := make([]*pairing.Scalar, 0, n+1)
	points = append(points, cY)
	scalars = append(scalars, deltaY)
	for i := 1; i <= n; i++ {
		coeff := pairing.SubScalar(pairing.MulScalar(deltaEq, t[i-1]), deltaY)
		points = append(points, c.G1At(n+1-i))
		scalars = append(scalars, pairing.MulScalar(coeff, y[i-1]))
	}
	numBase, err := pairing.MultiExpG1(points, scalars)
	if err != nil {
		return err
	}
	num, err := pairing.Pair(numBase, cHat)
	if err != nil {
		return err
	}

	g2points := make([]pairing.G2, 0, n)
	g2scalars := make([]*pairing.Scalar, 0, n)
	for i := 1; i <= n; i++ {
		g2points = append(g2points, c.G2At(i))
		g2scalars = append(g2scalars, pairing.MulScalar(deltaEq, t[i-1]))
	}
	denExp, err := pairing.MultiExpG2(g2points, g2scalars)
	if err != nil {
		return err
	}
	den, err := pairing.Pair(cY, denExp)
	if err != nil {
		return err
	}

	lhs := pairing.DivGT(num, den)
	rhs, err := pairing.Pair(pi, c.GHat)
	if err != nil {
		return err
	}
	if !pairing.EqualGT(lhs, rhs) {
		return ErrPairingCheckFailed
	}
	return nil
}

// firstCoordLHS computes equation (20)'s LHS: e(prod_{i=2}^n g_{n+1-i}^{s_i}, Vhat).
func firstCoordLHS(c *crs.CRS, vHat pairing.G2, sVec []*pairing.Scalar) (pairing.GT, error) {
	n := c.N
	points := make([]pairing.G1, 0, n-1)
	for i := 2; i <= n; i++ {
		points = append(points, c.G1At(n+1-i))
	}
	acc, err := pairing.MultiExpG1(points, sVec)
	if err != nil {
		return pairing.GT{}, err
	}
	return pairing.Pair(acc, vHat)
}

// FirstCoordinateOnly checks equation (20). sVec holds s_2..s_n.
func FirstCoordinateOnly(c *crs.CRS, vHat pairing.G2, sVec []*pairing.Scalar, piV pairing.G1) error {
	if len(sVec) != c.N-1 {
		return fmt.Errorf("verify: s vector must have length n-1=%d, got %d", c.N-1, len(sVec))
	}
	lhs, err := firstCoordLHS(c, vHat, sVec)
	if err != nil {
		return err
	}
	rhs, err := pairing.Pair(piV, c.GHat)
	if err != nil {
		return err
	}
	if !pairing.EqualGT(lhs, rhs) {
		return ErrPairingCheckFailed
	}
	return nil
}

// RangeProof re-derives every Fiat-Shamir challenge from
// (Chat, Vhat, Cy, l) and checks the single aggregated composite-range
// equation: LHS_9^{deltaX} * LHS_5^{deltaEq} * LHS_7^{deltaY} *
// LHS_20^{deltaV} == e(pi_agg, ghat).
func RangeProof(c *crs.CRS, proof *vcproof.RangeProof) error {
	n := c.N
	l := proof.L

	y := fsoracle.RangeChallengeY(proof.CHat, proof.VHat)
	yVec := make([]*pairing.Scalar, n)
	yVec[0] = y
	for i := 1; i < n; i++ {
		yVec[i] = new(pairing.Scalar)
	}

	t := fsoracle.RangeChallengeT(y, proof.CHat, proof.Cy)
	tVec := make([]*pairing.Scalar, n)
	tVec[0] = t
	for i := 1; i < n; i++ {
		tVec[i] = new(pairing.Scalar)
	}

	deltaX, deltaEq, deltaY, deltaV := fsoracle.RangeAggregationScalars(proof.CHat, proof.VHat, proof.Cy)

	lhs9, err := rangeSumLHS(c, proof.CHat, proof.VHat, l)
	if err != nil {
		return err
	}
	lhs5, err := eqLHS(c, proof.CHat, proof.Cy, tVec, yVec)
	if err != nil {
		return err
	}
	lhs7, err := orthoLHS(c, proof.CHat, proof.Cy, yVec)
	if err != nil {
		return err
	}
	lhs20, err := firstCoordLHS(c, proof.VHat, tVec[1:])
	if err != nil {
		return err
	}

	combined := pairing.ExpGT(lhs9, deltaX)
	combined = pairing.MulGT(combined, pairing.ExpGT(lhs5, deltaEq))
	combined = pairing.MulGT(combined, pairing.ExpGT(lhs7, deltaY))
	combined = pairing.MulGT(combined, pairing.ExpGT(lhs20, deltaV))

	rhs, err := pairing.Pair(proof.PiAgg, c.GHat)
	if err != nil {
		return err
	}
	if !pairing.EqualGT(combined, rhs) {
		return ErrPairingCheckFailed
	}
	return nil
}
