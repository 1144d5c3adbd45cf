package api

import (
	"fmt"

	"github.com/bwesterb/go-ristretto"
)

// proveInnerProduct runs the folding argument for <a, b> against the bases
// G and H, with Q = x_ip*H as the inner product generator. It returns the
// per round commitments and the two final scalars.
func proveInnerProduct(t *transcript, Q *ristretto.Point, G, H []*ristretto.Point, a, b []*ristretto.Scalar) ([]*ristretto.Point, []*ristretto.Point, *ristretto.Scalar, *ristretto.Scalar) {
	n := len(G)
	if len(H) != n || len(a) != n || len(b) != n {
		panic(fmt.Sprintf("proveInnerProduct invalid input vectors %d, %d, %d, %d", len(G), len(H), len(a), len(b)))
	}
	if !isPowerOfTwo(n) {
		panic(fmt.Sprintf("proveInnerProduct invalid n %d", n))
	}

	rounds := log2(n)
	LVec := make([]*ristretto.Point, 0, rounds)
	RVec := make([]*ristretto.Point, 0, rounds)

	for n > 1 {
		n = n / 2
		aL, aR := sliceScalars(a, 0, n), sliceScalars(a, n, 2*n)
		bL, bR := sliceScalars(b, 0, n), sliceScalars(b, n, 2*n)
		gL, gR := slicePoints(G, 0, n), slicePoints(G, n, 2*n)
		hL, hR := slicePoints(H, 0, n), slicePoints(H, n, 2*n)

		cL := innerProduct(aL, bR)
		cR := innerProduct(aR, bL)

		var qL, qR ristretto.Point
		L := vectorExponentCustom(gR, hL, aL, bR)
		L.Add(L, qL.ScalarMult(Q, cL))
		R := vectorExponentCustom(gL, hR, aR, bL)
		R.Add(R, qR.ScalarMult(Q, cR))
		LVec = append(LVec, L)
		RVec = append(RVec, R)

		w := t.mash(L.Bytes(), R.Bytes())
		wInv := invert(w)

		G = foldPoints(gL, gR, wInv, w)
		H = foldPoints(hL, hR, w, wInv)
		a = foldScalars(aL, aR, w, wInv)
		b = foldScalars(bL, bR, wInv, w)
	}

	return LVec, RVec, a[0], b[0]
}
