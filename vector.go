package api

import (
	"bytes"
	"fmt"

	"github.com/bwesterb/go-ristretto"
)

func scalarZero() *ristretto.Scalar {
	var s ristretto.Scalar
	return s.SetZero()
}

func scalarOne() *ristretto.Scalar {
	var s ristretto.Scalar
	return s.SetOne()
}

func scalarMinusOne() *ristretto.Scalar {
	var s ristretto.Scalar
	s.SetZero()
	return s.Sub(&s, scalarOne())
}

func isZeroScalar(s *ristretto.Scalar) bool {
	return bytes.Equal(s.Bytes(), scalarZero().Bytes())
}

func equalPoints(a, b *ristretto.Point) bool {
	return bytes.Equal(a.Bytes(), b.Bytes())
}

func checkLengths(op string, a, b int) {
	if a != b {
		panic(fmt.Sprintf("%s lengths of vectors do not match %d, %d", op, a, b))
	}
}

func innerProduct(a []*ristretto.Scalar, b []*ristretto.Scalar) *ristretto.Scalar {
	checkLengths("innerProduct", len(a), len(b))

	sum := scalarZero()
	for i := range a {
		var r ristretto.Scalar
		sum.Add(sum, r.Mul(a[i], b[i]))
	}
	return sum
}

func addVec(a []*ristretto.Scalar, b []*ristretto.Scalar) []*ristretto.Scalar {
	checkLengths("addVec", len(a), len(b))

	out := make([]*ristretto.Scalar, len(a))
	for i := range a {
		var r ristretto.Scalar
		out[i] = r.Add(a[i], b[i])
	}
	return out
}

func hadamard(a []*ristretto.Scalar, b []*ristretto.Scalar) []*ristretto.Scalar {
	checkLengths("hadamard", len(a), len(b))

	out := make([]*ristretto.Scalar, len(a))
	for i := range a {
		var r ristretto.Scalar
		out[i] = r.Mul(a[i], b[i])
	}
	return out
}

// addScalarVec returns [a_i + x].
func addScalarVec(a []*ristretto.Scalar, x *ristretto.Scalar) []*ristretto.Scalar {
	out := make([]*ristretto.Scalar, len(a))
	for i := range a {
		var r ristretto.Scalar
		out[i] = r.Add(a[i], x)
	}
	return out
}

func subScalarVec(a []*ristretto.Scalar, x *ristretto.Scalar) []*ristretto.Scalar {
	out := make([]*ristretto.Scalar, len(a))
	for i := range a {
		var r ristretto.Scalar
		out[i] = r.Sub(a[i], x)
	}
	return out
}

func mulScalarVec(a []*ristretto.Scalar, x *ristretto.Scalar) []*ristretto.Scalar {
	out := make([]*ristretto.Scalar, len(a))
	for i := range a {
		var r ristretto.Scalar
		out[i] = r.Mul(a[i], x)
	}
	return out
}

// vectorPowers returns [1, x, x^2, ..., x^(n-1)].
func vectorPowers(x *ristretto.Scalar, n int) []*ristretto.Scalar {
	exp := NewScalarExp(x)
	out := make([]*ristretto.Scalar, n)
	for i := range out {
		out[i] = exp.Next()
	}
	return out
}

// vectorPowerSum returns 1 + x + ... + x^(n-1).
func vectorPowerSum(x *ristretto.Scalar, n int) *ristretto.Scalar {
	sum := scalarZero()
	for _, p := range vectorPowers(x, n) {
		sum.Add(sum, p)
	}
	return sum
}

func randomScalars(n int) []*ristretto.Scalar {
	out := make([]*ristretto.Scalar, n)
	for i := range out {
		var r ristretto.Scalar
		out[i] = r.Rand()
	}
	return out
}

func sliceScalars(a []*ristretto.Scalar, start, stop int) []*ristretto.Scalar {
	if start >= stop || stop > len(a) || start < 0 {
		panic(fmt.Sprintf("sliceScalars invalid range [%d, %d) of %d", start, stop, len(a)))
	}
	return a[start:stop]
}

func slicePoints(a []*ristretto.Point, start, stop int) []*ristretto.Point {
	if start >= stop || stop > len(a) || start < 0 {
		panic(fmt.Sprintf("slicePoints invalid range [%d, %d) of %d", start, stop, len(a)))
	}
	return a[start:stop]
}

// vectorExponent commits to a and b with the shared Gi and Hi generators.
func vectorExponent(a, b []*ristretto.Scalar) *ristretto.Point {
	checkLengths("vectorExponent", len(a), len(b))
	gens := Generators()
	if len(a) > len(gens.Gi) {
		panic(fmt.Sprintf("vectorExponent too many scalars %d", len(a)))
	}
	return vectorExponentCustom(gens.Gi[:len(a)], gens.Hi[:len(b)], a, b)
}

func vectorExponentCustom(A, B []*ristretto.Point, a, b []*ristretto.Scalar) *ristretto.Point {
	checkLengths("vectorExponentCustom", len(a), len(b))
	checkLengths("vectorExponentCustom", len(A), len(a))
	checkLengths("vectorExponentCustom", len(B), len(b))

	scalars := make([]*ristretto.Scalar, 0, 2*len(a))
	points := make([]*ristretto.Point, 0, 2*len(a))
	for i := range a {
		scalars = append(scalars, a[i], b[i])
		points = append(points, A[i], B[i])
	}
	return multiscalarMul(scalars, points)
}

// foldPoints returns [x*a_i + y*b_i].
func foldPoints(a, b []*ristretto.Point, x, y *ristretto.Scalar) []*ristretto.Point {
	checkLengths("foldPoints", len(a), len(b))

	out := make([]*ristretto.Point, len(a))
	for i := range a {
		var l, r, p ristretto.Point
		l.ScalarMult(a[i], x)
		r.ScalarMult(b[i], y)
		out[i] = p.Add(&l, &r)
	}
	return out
}

func foldScalars(a, b []*ristretto.Scalar, x, y *ristretto.Scalar) []*ristretto.Scalar {
	checkLengths("foldScalars", len(a), len(b))

	out := make([]*ristretto.Scalar, len(a))
	for i := range a {
		var l, r, s ristretto.Scalar
		l.Mul(a[i], x)
		r.Mul(b[i], y)
		out[i] = s.Add(&l, &r)
	}
	return out
}

func invert(x *ristretto.Scalar) *ristretto.Scalar {
	if isZeroScalar(x) {
		panic("invert zero scalar")
	}
	var inv, check ristretto.Scalar
	inv.Inverse(x)
	if !bytes.Equal(check.Mul(&inv, x).Bytes(), scalarOne().Bytes()) {
		panic(fmt.Sprintf("invert failed for %x", x.Bytes()))
	}
	return &inv
}
