package api

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiuserSetup(t *testing.T) {
	assert := assert.New(t)

	w := testWallet(t, true)
	other := testWallet(t, true)
	td := fund(t, w, 3000, 100)
	ptx, muout, err := w.BuildTransaction([]*InputCredential{credential(td, testRingSize, 1)}, []Destination{{Addr: *other.Address(), Amount: 1000}}, 10, 50)
	require.Nil(t, err)

	variant, _ := createOutput(other.Address(), 1000, nil, 0)
	variant.Proof = ptx.Tx.Rct.Bulletproofs[0]
	priv := &MultiuserPrivateSetup{
		Vin:              ptx.Tx.Vin,
		Muout:            *muout,
		TxKey:            ptx.TxKey,
		AdditionalTxKeys: ptx.AdditionalTxKeys,
		Vouts:            [][]*OutputVariant{{variant}},
	}
	pub := &MultiuserPublicSetup{
		Dests:      ptx.Dests,
		Conditions: []Destination{{Addr: *w.Address(), Amount: 7}},
		UnlockTime: 50,
	}
	blob, err := w.SaveMultiuserSetup(priv, pub)
	require.Nil(t, err)

	p, s, ours, err := w.LoadMultiuserSetup(blob)
	assert.Nil(err)
	assert.True(ours)
	assert.Equal(pub, s)
	assert.Equal(priv.Vin, p.Vin)
	assert.Equal(priv.Muout, p.Muout)
	assert.Equal(priv.TxKey, p.TxKey)
	assert.Equal(priv.AdditionalTxKeys, p.AdditionalTxKeys)
	require.Len(t, p.Vouts, 1)
	assert.Equal(variant.Out, p.Vouts[0][0].Out)
	assert.Equal(variant.Ecdh, p.Vouts[0][0].Ecdh)
	assert.Equal(variant.Proof.ToBytes(), p.Vouts[0][0].Proof.ToBytes())

	p, s, ours, err = other.LoadMultiuserSetup(blob)
	assert.Nil(err)
	assert.False(ours)
	assert.Nil(p)
	assert.Equal(pub, s)

	tampered := append([]byte{}, blob...)
	tampered[len(tampered)-1] ^= 1
	p, s, ours, err = w.LoadMultiuserSetup(tampered)
	assert.Nil(err)
	assert.False(ours)
	assert.Nil(p)
	assert.Equal(uint64(50), s.UnlockTime)

	_, _, _, err = w.LoadMultiuserSetup(blob[1:])
	assert.True(errors.Is(err, ErrDecode))
	_, _, _, err = w.LoadMultiuserSetup([]byte(MULTIUSER_SETUP_MAGIC))
	assert.True(errors.Is(err, ErrDecode))

	again, err := w.SaveMultiuserSetup(priv, pub)
	require.Nil(t, err)
	assert.NotEqual(blob, again)
}
