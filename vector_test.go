package api

import (
	"testing"

	"github.com/bwesterb/go-ristretto"
	"github.com/stretchr/testify/assert"
)

func TestInnerProductPowers(t *testing.T) {
	assert := assert.New(t)

	for _, n := range []int{1, 2, 8, 63, 64} {
		ip := innerProduct(vectorPowers(scalarOne(), n), vectorPowers(uint64ToScalar(2), n))
		expected := uint64(1)<<uint(n) - 1
		assert.Equal(scalarKey(uint64ToScalar(expected)), scalarKey(ip), "n = %d", n)
	}
	assert.Equal(scalarKey(vectorPowerSum(uint64ToScalar(2), 10)), scalarKey(uint64ToScalar(1023)))
}

func TestVectorOps(t *testing.T) {
	assert := assert.New(t)

	a := []*ristretto.Scalar{uint64ToScalar(1), uint64ToScalar(2), uint64ToScalar(3)}
	b := []*ristretto.Scalar{uint64ToScalar(4), uint64ToScalar(5), uint64ToScalar(6)}
	assert.Equal(scalarKey(uint64ToScalar(32)), scalarKey(innerProduct(a, b)))

	h := hadamard(a, b)
	assert.Equal(scalarKey(uint64ToScalar(18)), scalarKey(h[2]))
	s := addVec(a, b)
	assert.Equal(scalarKey(uint64ToScalar(7)), scalarKey(s[1]))
	m := mulScalarVec(a, uint64ToScalar(10))
	assert.Equal(scalarKey(uint64ToScalar(30)), scalarKey(m[2]))

	sub := sliceScalars(a, 1, 3)
	assert.Len(sub, 2)
	assert.Equal(scalarKey(a[1]), scalarKey(sub[0]))

	x := uint64ToScalar(12345)
	var one ristretto.Scalar
	assert.Equal(scalarKey(scalarOne()), scalarKey(one.Mul(x, invert(x))))
}

func TestVectorPreconditions(t *testing.T) {
	assert := assert.New(t)

	a := randomScalars(4)
	assert.Panics(func() { innerProduct(a, a[:3]) })
	assert.Panics(func() { hadamard(a[:1], a) })
	assert.Panics(func() { sliceScalars(a, 2, 2) })
	assert.Panics(func() { sliceScalars(a, 0, 5) })
	assert.Panics(func() { slicePoints(Generators().Gi, 3, 1) })
	assert.Panics(func() { invert(scalarZero()) })
}

func TestVecPolyInnerProduct(t *testing.T) {
	assert := assert.New(t)

	l := &VecPoly1{As: randomScalars(8), Bs: randomScalars(8)}
	r := &VecPoly1{As: randomScalars(8), Bs: randomScalars(8)}
	tPoly := l.InnerProduct(r)
	assert.Equal(scalarKey(innerProduct(l.As, r.As)), scalarKey(tPoly.A))

	for _, x := range []*ristretto.Scalar{scalarZero(), scalarOne(), uint64ToScalar(7), randomScalars(1)[0]} {
		expected := innerProduct(l.Eval(x), r.Eval(x))
		assert.Equal(scalarKey(expected), scalarKey(tPoly.Eval(x)))
	}
}
