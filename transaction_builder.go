package api

import (
	"fmt"
	"sort"

	"github.com/bwesterb/go-ristretto"
	"github.com/pkg/errors"
)

const (
	BULLETPROOF_DOMAIN_TAG          = "mu_bulletproof_transcript"
	BULLETPROOF_GENERATOR_SALT      = "bulletproof"
	HASH_TO_POINT_DOMAIN_TAG        = "mu_hash_to_point"
	HASH_TO_SCALAR_DOMAIN_TAG       = "mu_hash_to_scalar"
	DERIVATION_DOMAIN_TAG           = "mu_key_derivation"
	COMMITMENT_MASK_DOMAIN_TAG      = "mu_commitment_mask"
	ECDH_MASK_DOMAIN_TAG            = "mu_ecdh_mask"
	ECDH_AMOUNT_DOMAIN_TAG          = "mu_ecdh_amount"
	RING_MLSAG_CHALLENGE_DOMAIN_TAG = "mu_ring_mlsag_challenge"
	SETUP_ENCRYPTION_DOMAIN_TAG     = "mu_setup_encryption"
	SETUP_AUTHENTICATION_DOMAIN_TAG = "mu_setup_authentication"

	TRANSACTION_VERSION     = 2
	BULLETPROOF_MAX_OUTPUTS = 16
	MAX_INPUTS              = 16
	RING_SIZE               = 11
)

// TransferDetails is an output owned by a wallet.
type TransferDetails struct {
	TxPublicKey Key
	OutputIndex uint64
	GlobalIndex uint64
	Key         Key
	Commitment  Key
	Amount      uint64
	Mask        Key
	KeyImage    Key
}

// InputCredential spends Transfer hidden among Ring. GlobalIndices are the
// ascending global output indices of the ring members.
type InputCredential struct {
	Transfer      *TransferDetails
	Ring          []CtKey
	GlobalIndices []uint64
	RealIndex     int
}

type TransactionBuilder struct {
	Inputs     []*InputCredential
	Dests      []Destination
	Change     PublicAddress
	Fee        uint64
	UnlockTime uint64
	RingSize   int
}

// Build returns a transaction suitable for multiuser merging with one
// additional transaction key and one range proof per output, and the
// per-input data needed to sign it later.
func (tb *TransactionBuilder) Build() (*PendingTx, *MultiuserOut, error) {
	if len(tb.Inputs) == 0 || len(tb.Inputs) > MAX_INPUTS {
		return nil, nil, fmt.Errorf("Build invalid inputs count %d", len(tb.Inputs))
	}
	if len(tb.Dests) == 0 {
		return nil, nil, errors.New("Build no destinations")
	}

	var inputsAmount, outputsAmount uint64
	for i, in := range tb.Inputs {
		if err := tb.checkInput(in); err != nil {
			return nil, nil, errors.Wrapf(err, "Build input %d", i)
		}
		inputsAmount += in.Transfer.Amount
	}
	outputsAmount = tb.Fee
	for _, d := range tb.Dests {
		outputsAmount += d.Amount
	}
	if outputsAmount > inputsAmount {
		return nil, nil, fmt.Errorf("Build insufficient funds %s < %s", FormatAmount(inputsAmount), FormatAmount(outputsAmount))
	}

	ptx := &PendingTx{
		Fee:   tb.Fee,
		Dests: append([]Destination{}, tb.Dests...),
	}
	splitted := append([]Destination{}, tb.Dests...)
	if change := inputsAmount - outputsAmount; change > 0 {
		ptx.ChangeDest = &Destination{Addr: tb.Change, Amount: change}
		splitted = append(splitted, *ptx.ChangeDest)
	}
	if len(splitted) > BULLETPROOF_MAX_OUTPUTS {
		return nil, nil, fmt.Errorf("Build too many outputs %d", len(splitted))
	}
	ptx.SplittedDsts = splitted

	tx := &Transaction{
		Version:    TRANSACTION_VERSION,
		UnlockTime: tb.UnlockTime,
		Rct: RctSig{
			Type: RCTTypeBulletproof,
			Fee:  tb.Fee,
		},
	}

	outMasks := scalarZero()
	additional := make([]Key, len(splitted))
	for i := range splitted {
		variant, mask := createOutput(&splitted[i].Addr, splitted[i].Amount, nil, i)
		proof, err := Prove([]uint64{splitted[i].Amount}, []*ristretto.Scalar{mask})
		if err != nil {
			return nil, nil, err
		}
		outMasks.Add(outMasks, mask)

		tx.Vout = append(tx.Vout, variant.Out)
		tx.Rct.OutPk = append(tx.Rct.OutPk, variant.Commitment)
		tx.Rct.EcdhInfo = append(tx.Rct.EcdhInfo, variant.Ecdh)
		tx.Rct.Bulletproofs = append(tx.Rct.Bulletproofs, proof)
		ptx.AdditionalTxKeys = append(ptx.AdditionalTxKeys, variant.TxKey)
		additional[i] = variant.TxPublicKey
	}

	muout := &MultiuserOut{}
	pseudoMasks := scalarZero()
	for i, in := range tb.Inputs {
		var a ristretto.Scalar
		if i == len(tb.Inputs)-1 {
			a.Sub(outMasks, pseudoMasks)
		} else {
			a.Rand()
			pseudoMasks.Add(pseudoMasks, &a)
		}
		tx.Vin = append(tx.Vin, TxIn{
			Amount:     0,
			KeyOffsets: absoluteToRelativeOffsets(in.GlobalIndices),
			KeyImage:   in.Transfer.KeyImage,
		})
		tx.Rct.PseudoOuts = append(tx.Rct.PseudoOuts, pointKey(pedersenGens.CommitAmount(in.Transfer.Amount, &a)))
		tx.Rct.MixRing = append(tx.Rct.MixRing, append([]CtKey{}, in.Ring...))
		muout.A = append(muout.A, scalarKey(&a))
		muout.Index = append(muout.Index, uint64(in.RealIndex))
	}
	tx.Rct.MGs = make([]*RingMLSAG, len(tx.Vin))

	var r ristretto.Scalar
	r.Rand()
	ptx.TxKey = scalarKey(&r)
	pub := pointKey(PublicKey(&r))
	extra := &TxExtra{PubKey: &pub, AdditionalPubKeys: additional}
	tx.Extra = extra.Bytes()

	ptx.Tx = tx
	return ptx, muout, nil
}

func (tb *TransactionBuilder) checkInput(in *InputCredential) error {
	if in.Transfer == nil {
		return errors.New("missing transfer")
	}
	if len(in.Ring) == 0 || len(in.Ring) != len(in.GlobalIndices) {
		return fmt.Errorf("ring size %d indices %d", len(in.Ring), len(in.GlobalIndices))
	}
	if tb.RingSize > 0 && len(in.Ring) != tb.RingSize {
		return fmt.Errorf("ring size %d expected %d", len(in.Ring), tb.RingSize)
	}
	if in.RealIndex < 0 || in.RealIndex >= len(in.Ring) {
		return fmt.Errorf("real index %d", in.RealIndex)
	}
	if !sort.SliceIsSorted(in.GlobalIndices, func(i, j int) bool { return in.GlobalIndices[i] < in.GlobalIndices[j] }) {
		return errors.New("ring indices not sorted")
	}
	member := in.Ring[in.RealIndex]
	if member.Dest != in.Transfer.Key || member.Mask != in.Transfer.Commitment {
		return errors.New("real output not in ring")
	}
	if in.GlobalIndices[in.RealIndex] != in.Transfer.GlobalIndex {
		return fmt.Errorf("real global index %d expected %d", in.GlobalIndices[in.RealIndex], in.Transfer.GlobalIndex)
	}
	return nil
}

func absoluteToRelativeOffsets(indices []uint64) []uint64 {
	out := make([]uint64, len(indices))
	for i := range indices {
		if i == 0 {
			out[i] = indices[i]
		} else {
			out[i] = indices[i] - indices[i-1]
		}
	}
	return out
}
