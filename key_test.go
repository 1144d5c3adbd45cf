package api

import (
	"testing"

	"github.com/bwesterb/go-ristretto"
	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert := assert.New(t)

	k, err := KeyFromHex("e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d76")
	assert.Nil(err)
	p, err := k.Point()
	assert.Nil(err)
	var base ristretto.Point
	assert.True(equalPoints(p, base.SetBase()))
	assert.Equal("e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d76", k.String())
	assert.False(k.IsZero())
	assert.True(Key{}.IsZero())

	_, err = KeyFromHex("e2f2")
	assert.NotNil(err)
	_, err = KeyFromHex("zz")
	assert.NotNil(err)

	var bad Key
	for i := range bad {
		bad[i] = 0xff
	}
	_, err = bad.Point()
	assert.NotNil(err)
	_, ok := bad.canonicalScalar()
	assert.False(ok)

	s := uint64ToScalar(42)
	c, ok := scalarKey(s).canonicalScalar()
	assert.True(ok)
	v, ok := scalarToUint64(c)
	assert.True(ok)
	assert.Equal(uint64(42), v)
}

func TestKeyImage(t *testing.T) {
	assert := assert.New(t)

	var x ristretto.Scalar
	x.Rand()
	I1 := keyImageFromPrivate(&x)
	I2 := keyImageFromPrivate(&x)
	assert.True(equalPoints(I1, I2))

	var hp ristretto.Point
	hp.ScalarMult(hashToPoint(PublicKey(&x).Bytes()), &x)
	assert.True(equalPoints(I1, &hp))

	var y ristretto.Scalar
	y.Rand()
	assert.False(equalPoints(I1, keyImageFromPrivate(&y)))
}
