package api

import (
	"github.com/bwesterb/go-ristretto"
)

// OutputVariant is one encoding of an output, valid only at the output
// position it was derived for. TxKey is zero once redacted.
type OutputVariant struct {
	Out         TxOut
	TxKey       Key
	TxPublicKey Key
	Ecdh        EcdhTuple
	Commitment  Key
	Proof       *Bulletproof
}

// derivationToScalar returns Hs(D || n).
func derivationToScalar(derivation *ristretto.Point, index uint64) *ristretto.Scalar {
	return hashToScalarWithTag(DERIVATION_DOMAIN_TAG, derivation.Bytes(), uvarintBytes(index))
}

func derivePublicKey(shared *ristretto.Scalar, spend *ristretto.Point) *ristretto.Point {
	var r ristretto.Point
	return r.Add(PublicKey(shared), spend)
}

func deriveSecretKey(shared *ristretto.Scalar, spend *ristretto.Scalar) *ristretto.Scalar {
	var x ristretto.Scalar
	return x.Add(shared, spend)
}

func genCommitmentMask(shared *ristretto.Scalar) *ristretto.Scalar {
	return hashToScalarWithTag(COMMITMENT_MASK_DOMAIN_TAG, shared.Bytes())
}

func ecdhEncode(mask *ristretto.Scalar, amount uint64, shared *ristretto.Scalar) EcdhTuple {
	maskPad := hashToScalarWithTag(ECDH_MASK_DOMAIN_TAG, shared.Bytes())
	amountPad := hashToScalarWithTag(ECDH_AMOUNT_DOMAIN_TAG, maskPad.Bytes())

	var m, a ristretto.Scalar
	return EcdhTuple{
		Mask:   scalarKey(m.Add(mask, maskPad)),
		Amount: scalarKey(a.Add(uint64ToScalar(amount), amountPad)),
	}
}

// ecdhDecode fails when the decoded amount does not fit in 64 bits.
func ecdhDecode(tuple EcdhTuple, shared *ristretto.Scalar) (*ristretto.Scalar, uint64, bool) {
	maskPad := hashToScalarWithTag(ECDH_MASK_DOMAIN_TAG, shared.Bytes())
	amountPad := hashToScalarWithTag(ECDH_AMOUNT_DOMAIN_TAG, maskPad.Bytes())

	em, ok := tuple.Mask.canonicalScalar()
	if !ok {
		return nil, 0, false
	}
	ea, ok := tuple.Amount.canonicalScalar()
	if !ok {
		return nil, 0, false
	}
	var m, a ristretto.Scalar
	m.Sub(em, maskPad)
	amount, ok := scalarToUint64(a.Sub(ea, amountPad))
	if !ok {
		return nil, 0, false
	}
	return &m, amount, true
}

// createOutput pays amount to dest at output position index with a fresh
// transaction key. A nil mask derives the commitment mask from the shared
// secret.
func createOutput(dest *PublicAddress, amount uint64, mask *ristretto.Scalar, index int) (*OutputVariant, *ristretto.Scalar) {
	var r ristretto.Scalar
	r.Rand()

	view := dest.ViewPublicKey.mustPoint()
	spend := dest.SpendPublicKey.mustPoint()
	shared := derivationToScalar(createSharedSecret(view, &r), uint64(index))
	if mask == nil {
		mask = genCommitmentMask(shared)
	}

	return &OutputVariant{
		Out: TxOut{
			Amount: 0,
			Key:    pointKey(derivePublicKey(shared, spend)),
		},
		TxKey:       scalarKey(&r),
		TxPublicKey: pointKey(PublicKey(&r)),
		Ecdh:        ecdhEncode(mask, amount, shared),
		Commitment:  pointKey(pedersenGens.CommitAmount(amount, mask)),
	}, mask
}

// decodeOutput recovers mask and amount of output n from the sender side,
// using the secret transaction key that created it.
func decodeOutput(tx *Transaction, n int, txKey *ristretto.Scalar, dest *PublicAddress) (*ristretto.Scalar, uint64, bool) {
	view, err := dest.ViewPublicKey.Point()
	if err != nil {
		return nil, 0, false
	}
	spend, err := dest.SpendPublicKey.Point()
	if err != nil {
		return nil, 0, false
	}
	shared := derivationToScalar(createSharedSecret(view, txKey), uint64(n))
	if pointKey(derivePublicKey(shared, spend)) != tx.Vout[n].Key {
		return nil, 0, false
	}
	mask, amount, ok := ecdhDecode(tx.Rct.EcdhInfo[n], shared)
	if !ok {
		return nil, 0, false
	}
	if pointKey(pedersenGens.CommitAmount(amount, mask)) != tx.Rct.OutPk[n] {
		return nil, 0, false
	}
	return mask, amount, true
}
