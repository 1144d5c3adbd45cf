package api

import (
	"github.com/bwesterb/go-ristretto"
	"go.uber.org/zap"
)

// Verify reports whether proof is a valid range proof for its V. Proofs
// come from untrusted peers, so every malformed input is a plain false.
func Verify(proof *Bulletproof) bool {
	if !proof.wellFormed() {
		logger.Debug("bulletproof malformed")
		return false
	}
	M := len(proof.V)
	if M < 1 || !isPowerOfTwo(M) || M > BULLETPROOF_MAX_VALUES {
		logger.Debug("bulletproof invalid value count", zap.Int("m", M))
		return false
	}
	rounds := len(proof.L)
	if rounds < log2(BULLETPROOF_BITS) || rounds != log2(BULLETPROOF_BITS)+log2(M) {
		logger.Debug("bulletproof invalid round count", zap.Int("m", M), zap.Int("rounds", rounds))
		return false
	}
	N := BULLETPROOF_BITS
	MN := M * N
	gens := Generators()
	G := pedersenGens.BBlinding
	H := pedersenGens.B

	t := newTranscript(proof.V)
	y := t.mash(proof.A.Bytes(), proof.S.Bytes())
	if isZeroScalar(y) {
		return false
	}
	z := t.rehash(y)
	x := t.mash(z.Bytes(), proof.T1.Bytes(), proof.T2.Bytes())
	xip := t.mash(x.Bytes(), proof.Taux.Bytes(), proof.Mu.Bytes(), proof.T.Bytes())

	zPowers := vectorPowers(z, M+3)
	ip1y := vectorPowerSum(y, MN)
	ip12 := vectorPowerSum(uint64ToScalar(2), N)

	// k = -z^2*<1,y^MN> - sum z^(j+2)*<1,2^N> for j in 1..M
	var k, tmp ristretto.Scalar
	k.SetZero()
	k.Sub(&k, tmp.Mul(zPowers[2], ip1y))
	for j := 1; j <= M; j++ {
		var zt ristretto.Scalar
		k.Sub(&k, zt.Mul(zPowers[j+2], ip12))
	}
	var correction ristretto.Scalar
	correction.Mul(z, ip1y)
	correction.Add(&correction, &k)

	var xx ristretto.Scalar
	xx.Mul(x, x)

	left := multiscalarMul([]*ristretto.Scalar{proof.Taux, proof.T}, []*ristretto.Point{G, H})
	scalars := []*ristretto.Scalar{x, &xx, &correction}
	points := []*ristretto.Point{proof.T1, proof.T2, H}
	for j := 0; j < M; j++ {
		scalars = append(scalars, zPowers[j+2])
		points = append(points, proof.V[j])
	}
	if !equalPoints(left, multiscalarMul(scalars, points)) {
		logger.Debug("bulletproof verification failed at step 1")
		return false
	}

	w := make([]*ristretto.Scalar, rounds)
	wInv := make([]*ristretto.Scalar, rounds)
	for i := 0; i < rounds; i++ {
		w[i] = t.mash(proof.L[i].Bytes(), proof.R[i].Bytes())
		if isZeroScalar(w[i]) {
			return false
		}
		wInv[i] = invert(w[i])
	}

	yInv := invert(y)
	twoPowers := vectorPowers(uint64ToScalar(2), N)
	yPow := scalarOne()
	yInvPow := scalarOne()
	scalars = make([]*ristretto.Scalar, 0, 2*MN)
	points = make([]*ristretto.Point, 0, 2*MN)
	for i := 0; i < MN; i++ {
		var g, h ristretto.Scalar
		g.SetZero()
		g.Add(&g, proof.FinalA)
		h.Mul(proof.FinalB, yInvPow)
		for j := rounds - 1; j >= 0; j-- {
			J := rounds - j - 1
			if (i>>uint(j))&1 == 0 {
				g.Mul(&g, wInv[J])
				h.Mul(&h, w[J])
			} else {
				g.Mul(&g, w[J])
				h.Mul(&h, wInv[J])
			}
		}
		g.Add(&g, z)

		var zt, zy ristretto.Scalar
		zt.Mul(zPowers[2+i/N], twoPowers[i%N])
		zt.Add(&zt, zy.Mul(z, yPow))
		h.Sub(&h, zt.Mul(&zt, yInvPow))

		scalars = append(scalars, &g, &h)
		points = append(points, gens.Gi[i], gens.Hi[i])

		var ny, nyi ristretto.Scalar
		yPow = ny.Mul(yPow, y)
		yInvPow = nyi.Mul(yInvPow, yInv)
	}
	var ab ristretto.Scalar
	ab.Mul(proof.FinalA, proof.FinalB)
	scalars = append(scalars, ab.Mul(&ab, xip))
	points = append(points, H)
	right := multiscalarMul(scalars, points)

	var negMu, txip ristretto.Scalar
	negMu.SetZero()
	negMu.Sub(&negMu, proof.Mu)
	txip.Mul(proof.T, xip)
	scalars = []*ristretto.Scalar{scalarOne(), x, &negMu, &txip}
	points = []*ristretto.Point{proof.A, proof.S, G, H}
	for i := 0; i < rounds; i++ {
		var ww, wwInv ristretto.Scalar
		scalars = append(scalars, ww.Mul(w[i], w[i]), wwInv.Mul(wInv[i], wInv[i]))
		points = append(points, proof.L[i], proof.R[i])
	}
	if !equalPoints(multiscalarMul(scalars, points), right) {
		logger.Debug("bulletproof verification failed at step 2")
		return false
	}
	return true
}
