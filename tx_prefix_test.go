package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestible(t *testing.T) {
	assert := assert.New(t)

	w := testWallet(t, false)
	td := fund(t, w, 3000, 100)
	ptx, _, err := w.BuildTransaction([]*InputCredential{credential(td, testRingSize, 0)}, []Destination{{Addr: *testWallet(t, false).Address(), Amount: 1000}}, 10, 0)
	require.Nil(t, err)
	tx := ptx.Tx

	prefix := HashOfTxPrefix(tx)
	message := SigningMessage(tx)
	assert.Len(prefix, 32)
	assert.Len(message, 32)
	assert.Equal(prefix, HashOfTxPrefix(tx))
	assert.NotEqual(prefix, message)

	tx.Rct.MGs[0] = &RingMLSAG{CZero: Key{1}}
	assert.Equal(message, SigningMessage(tx))

	tx.Rct.Fee++
	assert.Equal(prefix, HashOfTxPrefix(tx))
	assert.NotEqual(message, SigningMessage(tx))
	tx.Rct.Fee--

	tx.UnlockTime = 1
	assert.NotEqual(prefix, HashOfTxPrefix(tx))
	tx.UnlockTime = 0

	tx.Vin[0].KeyOffsets[0]++
	assert.NotEqual(prefix, HashOfTxPrefix(tx))
}
