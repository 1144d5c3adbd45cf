package api

import (
	"fmt"

	"github.com/bwesterb/go-ristretto"
)

// verifyCommitmentBalance checks sum(pseudoOuts) == sum(outPk) + fee*H.
func verifyCommitmentBalance(tx *Transaction) bool {
	var inputs, outputs ristretto.Point
	inputs.SetZero()
	outputs.SetZero()
	for _, k := range tx.Rct.PseudoOuts {
		p, err := k.Point()
		if err != nil {
			return false
		}
		inputs.Add(&inputs, p)
	}
	for _, k := range tx.Rct.OutPk {
		p, err := k.Point()
		if err != nil {
			return false
		}
		outputs.Add(&outputs, p)
	}
	outputs.Add(&outputs, pedersenGens.CommitAmount(tx.Rct.Fee, scalarZero()))
	return equalPoints(&inputs, &outputs)
}

func checkRctSizes(tx *Transaction) error {
	rct := &tx.Rct
	if len(tx.Vin) != len(rct.PseudoOuts) || len(tx.Vin) != len(rct.MixRing) {
		return fmt.Errorf("inputs %d pseudo outs %d rings %d", len(tx.Vin), len(rct.PseudoOuts), len(rct.MixRing))
	}
	if len(tx.Vout) != len(rct.OutPk) || len(tx.Vout) != len(rct.EcdhInfo) || len(tx.Vout) != len(rct.Bulletproofs) {
		return fmt.Errorf("outputs %d out pk %d ecdh %d bulletproofs %d", len(tx.Vout), len(rct.OutPk), len(rct.EcdhInfo), len(rct.Bulletproofs))
	}
	return nil
}

// VerifyTransaction checks a fully signed transaction: range proofs,
// commitment balance and one ring signature per input.
func VerifyTransaction(tx *Transaction) error {
	if !IsSuitableForMultiuser(tx) {
		return fmt.Errorf("VerifyTransaction unsupported type %d version %d", tx.Rct.Type, tx.Version)
	}
	if err := checkRctSizes(tx); err != nil {
		return fmt.Errorf("VerifyTransaction %s", err)
	}
	if len(tx.Rct.MGs) != len(tx.Vin) {
		return fmt.Errorf("VerifyTransaction signatures %d inputs %d", len(tx.Rct.MGs), len(tx.Vin))
	}
	for i, bp := range tx.Rct.Bulletproofs {
		if bp == nil || len(bp.V) != 1 || pointKey(bp.V[0]) != tx.Rct.OutPk[i] || !Verify(bp) {
			return violation(CheckRangeProof, "output %d", i)
		}
	}
	if !verifyCommitmentBalance(tx) {
		return violation(CheckBalance, "pseudo outs do not match outputs and fee %s", FormatAmount(tx.Rct.Fee))
	}

	message := SigningMessage(tx)
	for i, mg := range tx.Rct.MGs {
		if mg == nil {
			return fmt.Errorf("VerifyTransaction input %d unsigned", i)
		}
		if mg.KeyImage != tx.Vin[i].KeyImage {
			return fmt.Errorf("VerifyTransaction input %d key image mismatch", i)
		}
		if !VerifyRing(message, tx.Rct.MixRing[i], tx.Rct.PseudoOuts[i], mg) {
			return fmt.Errorf("VerifyTransaction input %d bad ring signature", i)
		}
	}
	return nil
}
