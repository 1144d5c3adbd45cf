package api

import (
	"testing"

	"github.com/bwesterb/go-ristretto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRing(size, realIndex int, x, mask *ristretto.Scalar, amount uint64) []CtKey {
	ring := make([]CtKey, size)
	for i := range ring {
		if i == realIndex {
			ring[i] = CtKey{Dest: pointKey(PublicKey(x)), Mask: pointKey(pedersenGens.CommitAmount(amount, mask))}
			continue
		}
		var p, c ristretto.Point
		ring[i] = CtKey{Dest: pointKey(p.Rand()), Mask: pointKey(c.Rand())}
	}
	return ring
}

func TestRingMLSAG(t *testing.T) {
	assert := assert.New(t)

	var x, mask, a ristretto.Scalar
	x.Rand()
	mask.Rand()
	a.Rand()
	ring := testRing(RING_SIZE, 4, &x, &mask, 500)
	pseudo := pointKey(pedersenGens.CommitAmount(500, &a))
	message := []byte("multiuser message")

	sig, err := signRing(message, ring, 4, pseudo, &x, &mask, &a)
	require.Nil(t, err)
	assert.Len(sig.Responses, 2*RING_SIZE)
	assert.Equal(pointKey(keyImageFromPrivate(&x)), sig.KeyImage)
	assert.True(VerifyRing(message, ring, pseudo, sig))

	assert.False(VerifyRing([]byte("other message"), ring, pseudo, sig))
	assert.False(VerifyRing(message, ring, pointKey(pedersenGens.CommitAmount(501, &a)), sig))
	assert.False(VerifyRing(message, ring[:RING_SIZE-1], pseudo, sig))
	assert.False(VerifyRing(message, ring, pseudo, nil))

	forged := *sig
	forged.KeyImage = pointKey(keyImageFromPrivate(&a))
	assert.False(VerifyRing(message, ring, pseudo, &forged))

	_, err = signRing(message, ring, 3, pseudo, &x, &mask, &a)
	assert.NotNil(err)
	_, err = signRing(message, ring, RING_SIZE, pseudo, &x, &mask, &a)
	assert.NotNil(err)
	_, err = signRing(message, ring, 4, pointKey(pedersenGens.CommitAmount(499, &a)), &x, &mask, &a)
	assert.NotNil(err)
}
