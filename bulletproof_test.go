package api

import (
	"math"
	"math/rand"
	"testing"

	"github.com/bwesterb/go-ristretto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulletproofSingle(t *testing.T) {
	assert := assert.New(t)

	for _, v := range []uint64{0, 1, 1 << 32, rand.Uint64(), math.MaxUint64} {
		var mask ristretto.Scalar
		proof, err := Prove([]uint64{v}, []*ristretto.Scalar{mask.Rand()})
		assert.Nil(err)
		assert.Len(proof.V, 1)
		assert.Len(proof.L, 6)
		assert.True(equalPoints(proof.V[0], pedersenGens.CommitAmount(v, &mask)))
		assert.True(Verify(proof), "value %d", v)
	}
}

func TestBulletproofAggregated(t *testing.T) {
	assert := assert.New(t)

	for _, m := range []int{1, 2, 4, 8, 16} {
		values := make([]uint64, m)
		for i := range values {
			values[i] = rand.Uint64()
		}
		proof, err := Prove(values, randomScalars(m))
		assert.Nil(err)
		assert.Len(proof.V, m)
		assert.Len(proof.L, 6+log2(m))
		assert.True(Verify(proof), "m = %d", m)
	}

	for _, m := range []int{0, 3, 5, 32} {
		_, err := Prove(make([]uint64, m), randomScalars(m))
		assert.True(errors.Is(err, ErrPrecondition), "m = %d", m)
	}
	_, err := Prove([]uint64{1, 2}, randomScalars(1))
	assert.True(errors.Is(err, ErrPrecondition))
}

func TestBulletproofOutOfRange(t *testing.T) {
	assert := assert.New(t)

	for _, i := range []int{8, 31} {
		var amount [32]byte
		amount[0] = 1
		amount[i] = 1
		proof, err := ProveAmounts([][32]byte{amount}, randomScalars(1))
		assert.Nil(err)
		assert.False(Verify(proof), "byte %d", i)
	}
}

func TestBulletproofRandomized(t *testing.T) {
	assert := assert.New(t)

	mask := randomScalars(1)
	p1, err := Prove([]uint64{1000}, mask)
	require.Nil(t, err)
	p2, err := Prove([]uint64{1000}, mask)
	require.Nil(t, err)
	assert.True(equalPoints(p1.V[0], p2.V[0]))
	assert.NotEqual(p1.ToBytes(), p2.ToBytes())
	assert.True(Verify(p1))
	assert.True(Verify(p2))
}

func TestBulletproofEncoding(t *testing.T) {
	assert := assert.New(t)

	proof, err := Prove([]uint64{7, 9}, randomScalars(2))
	require.Nil(t, err)
	data := proof.ToBytes()
	assert.Len(data, 1+2*32+4*32+2*32+1+7*64+3*32)

	decoded, err := BulletproofFromBytes(data)
	assert.Nil(err)
	assert.Equal(data, decoded.ToBytes())
	assert.True(Verify(decoded))

	_, err = BulletproofFromBytes(data[:len(data)-1])
	assert.True(errors.Is(err, ErrDecode))
	_, err = BulletproofFromBytes(append(data, 0))
	assert.True(errors.Is(err, ErrDecode))
	_, err = BulletproofFromBytes(nil)
	assert.True(errors.Is(err, ErrDecode))
}

func TestBulletproofTampered(t *testing.T) {
	assert := assert.New(t)

	proof, err := Prove([]uint64{42}, randomScalars(1))
	require.Nil(t, err)

	var s ristretto.Scalar
	proof.T = s.Add(proof.T, scalarOne())
	assert.False(Verify(proof))

	proof, _ = Prove([]uint64{42}, randomScalars(1))
	proof.V[0] = pedersenGens.CommitAmount(43, scalarOne())
	assert.False(Verify(proof))

	proof, _ = Prove([]uint64{42}, randomScalars(1))
	proof.L, proof.R = proof.R, proof.L
	assert.False(Verify(proof))

	proof, _ = Prove([]uint64{42}, randomScalars(1))
	proof.L = proof.L[:5]
	proof.R = proof.R[:5]
	assert.False(Verify(proof))

	proof, _ = Prove([]uint64{42, 43}, randomScalars(2))
	proof.V = proof.V[:1]
	assert.False(Verify(proof))

	proof, _ = Prove([]uint64{42}, randomScalars(1))
	proof.A = nil
	assert.False(Verify(proof))
	assert.False(Verify(nil))
}

func TestVerifyCache(t *testing.T) {
	assert := assert.New(t)

	cache, err := NewVerifyCache(2)
	require.Nil(t, err)
	proof, err := Prove([]uint64{42}, randomScalars(1))
	require.Nil(t, err)
	assert.True(cache.Verify(proof))
	assert.True(cache.Verify(proof))
	assert.Equal(1, cache.cache.Len())

	var s ristretto.Scalar
	proof.Mu = s.Add(proof.Mu, scalarOne())
	assert.False(cache.Verify(proof))
	assert.Equal(2, cache.cache.Len())

	_, err = NewVerifyCache(0)
	assert.NotNil(err)
}
