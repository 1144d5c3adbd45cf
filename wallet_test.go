package api

import (
	"testing"

	"github.com/bwesterb/go-ristretto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testRingSize = 4

func testWallet(t *testing.T, shuffle bool) *Wallet {
	cfg := DefaultConfig()
	cfg.RingSize = testRingSize
	cfg.ShuffleOutputs = shuffle
	w, err := NewWallet(NewAccount(), cfg, zap.NewNop())
	require.Nil(t, err)
	return w
}

// fund scans a transaction paying amount to w as its only output.
func fund(t *testing.T, w *Wallet, amount, globalIndex uint64) *TransferDetails {
	variant, _ := createOutput(w.Address(), amount, nil, 0)
	tx := &Transaction{
		Version: TRANSACTION_VERSION,
		Vout:    []TxOut{variant.Out},
		Extra:   (&TxExtra{AdditionalPubKeys: []Key{variant.TxPublicKey}}).Bytes(),
		Rct: RctSig{
			Type:     RCTTypeBulletproof,
			OutPk:    []Key{variant.Commitment},
			EcdhInfo: []EcdhTuple{variant.Ecdh},
		},
	}
	received, err := w.Scan(tx, globalIndex)
	require.Nil(t, err)
	require.Len(t, received, 1)
	return received[0]
}

func credential(td *TransferDetails, size, realIndex int) *InputCredential {
	in := &InputCredential{Transfer: td, RealIndex: realIndex}
	for i := 0; i < size; i++ {
		in.GlobalIndices = append(in.GlobalIndices, td.GlobalIndex+uint64(i*7)-uint64(realIndex*7))
		if i == realIndex {
			in.Ring = append(in.Ring, CtKey{Dest: td.Key, Mask: td.Commitment})
			continue
		}
		var p, c ristretto.Point
		in.Ring = append(in.Ring, CtKey{Dest: pointKey(p.Rand()), Mask: pointKey(c.Rand())})
	}
	return in
}

func TestWalletScan(t *testing.T) {
	assert := assert.New(t)

	w := testWallet(t, true)
	td := fund(t, w, 5000, 100)
	assert.Equal(uint64(5000), td.Amount)
	assert.Equal(uint64(100), td.GlobalIndex)
	assert.Equal(td, w.findTransfer(td.KeyImage))
	assert.Nil(w.findTransfer(Key{}))

	x, err := w.onetimePrivateKey(td)
	assert.Nil(err)
	assert.Equal(td.KeyImage, pointKey(keyImageFromPrivate(x)))
	assert.Equal(td.Commitment, pointKey(pedersenGens.CommitAmount(5000, td.Mask.Scalar())))

	other := testWallet(t, true)
	variant, _ := createOutput(w.Address(), 10, nil, 0)
	tx := &Transaction{
		Version: TRANSACTION_VERSION,
		Vout:    []TxOut{variant.Out},
		Extra:   (&TxExtra{AdditionalPubKeys: []Key{variant.TxPublicKey}}).Bytes(),
		Rct:     RctSig{Type: RCTTypeBulletproof, OutPk: []Key{variant.Commitment}, EcdhInfo: []EcdhTuple{variant.Ecdh}},
	}
	received, err := other.Scan(tx, 0)
	assert.Nil(err)
	assert.Len(received, 0)

	tx.Rct.OutPk = nil
	_, err = w.Scan(tx, 0)
	assert.NotNil(err)
}

func TestBuildTransaction(t *testing.T) {
	assert := assert.New(t)

	w := testWallet(t, true)
	dest := testWallet(t, true)
	td1 := fund(t, w, 3000, 100)
	td2 := fund(t, w, 4000, 200)

	dests := []Destination{{Addr: *dest.Address(), Amount: 5000}}
	ptx, muout, err := w.BuildTransaction([]*InputCredential{credential(td1, testRingSize, 1), credential(td2, testRingSize, 3)}, dests, 100, 0)
	require.Nil(t, err)
	tx := ptx.Tx
	assert.True(IsSuitableForMultiuser(tx))
	assert.Len(tx.Vin, 2)
	assert.Len(tx.Vout, 2)
	assert.Len(muout.A, 2)
	assert.Equal([]uint64{1, 3}, muout.Index)
	assert.Equal(uint64(1900), ptx.ChangeDest.Amount)
	assert.False(ptx.isChange(0))
	assert.True(ptx.isChange(1))
	assert.Equal([]uint64{93, 7, 7, 7}, tx.Vin[0].KeyOffsets)
	assert.True(verifyCommitmentBalance(tx))
	for i, bp := range tx.Rct.Bulletproofs {
		assert.Equal(tx.Rct.OutPk[i], pointKey(bp.V[0]))
		assert.True(Verify(bp))
	}

	received, err := dest.Scan(tx, 500)
	assert.Nil(err)
	require.Len(t, received, 1)
	assert.Equal(uint64(5000), received[0].Amount)
	assert.Equal(uint64(0), received[0].OutputIndex)

	_, _, err = w.BuildTransaction([]*InputCredential{credential(td1, testRingSize, 1)}, dests, 100, 0)
	assert.NotNil(err)
	_, _, err = w.BuildTransaction([]*InputCredential{credential(td1, testRingSize+1, 1)}, dests, 100, 0)
	assert.NotNil(err)
	bad := credential(td1, testRingSize, 1)
	bad.RealIndex = 2
	_, _, err = w.BuildTransaction([]*InputCredential{bad}, []Destination{{Addr: *dest.Address(), Amount: 1}}, 100, 0)
	assert.NotNil(err)
	_, _, err = w.BuildTransaction(nil, dests, 100, 0)
	assert.NotNil(err)
}

func TestSignTransaction(t *testing.T) {
	assert := assert.New(t)

	w := testWallet(t, true)
	dest := testWallet(t, true)
	td := fund(t, w, 3000, 100)

	ptx, muout, err := w.BuildTransaction([]*InputCredential{credential(td, testRingSize, 2)}, []Destination{{Addr: *dest.Address(), Amount: 1000}}, 10, 0)
	require.Nil(t, err)
	tx := ptx.Tx
	assert.NotNil(VerifyTransaction(tx))

	x, err := w.onetimePrivateKey(td)
	require.Nil(t, err)
	mg, err := signRing(SigningMessage(tx), tx.Rct.MixRing[0], int(muout.Index[0]), tx.Rct.PseudoOuts[0], x, td.Mask.Scalar(), muout.A[0].Scalar())
	require.Nil(t, err)
	tx.Rct.MGs[0] = mg
	assert.Nil(VerifyTransaction(tx))

	tx.Rct.Fee++
	assert.NotNil(VerifyTransaction(tx))
	tx.Rct.Fee--
	tx.UnlockTime = 10
	assert.NotNil(VerifyTransaction(tx))
}
