package api

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SignMultiuser checks the merged transaction in set against this wallet's
// setup and the payments the other participants disclosed, then signs every
// input this wallet owns. The set stops accepting merges from the first
// call on, whether or not signing succeeds.
func (w *Wallet) SignMultiuser(set *MultiuserTxSet) error {
	set.Building = false
	if set.Ptx == nil || set.Ptx.Tx == nil {
		return errors.Wrap(ErrPrecondition, "multiuser tx set is empty")
	}
	ptx := set.Ptx
	tx := ptx.Tx
	if err := checkRctSizes(tx); err != nil {
		return errors.Wrap(ErrPrecondition, err.Error())
	}
	if len(tx.Rct.MGs) != len(tx.Vin) || len(ptx.AdditionalTxKeys) != len(tx.Vout) {
		return errors.Wrapf(ErrPrecondition, "signatures %d inputs %d additional keys %d outputs %d", len(tx.Rct.MGs), len(tx.Vin), len(ptx.AdditionalTxKeys), len(tx.Vout))
	}

	var priv *MultiuserPrivateSetup
	var pub *MultiuserPublicSetup
	var others []*MultiuserPublicSetup
	for _, blob := range set.Setups {
		p, s, ours, err := w.LoadMultiuserSetup(blob)
		if err != nil {
			return err
		}
		if ours {
			if priv == nil {
				priv, pub = p, s
			}
			continue
		}
		others = append(others, s)
	}
	if priv == nil {
		return w.reject(violation(CheckSetupMissing, "no setup among %d belongs to %s", len(set.Setups), w.Address()))
	}

	extra, err := ParseTxExtra(tx.Extra)
	if err != nil {
		return w.reject(violation(CheckExtra, "%s", err))
	}
	if len(extra.AdditionalPubKeys) != len(tx.Vout) {
		return w.reject(violation(CheckExtra, "additional keys %d outputs %d", len(extra.AdditionalPubKeys), len(tx.Vout)))
	}

	for i := range priv.Vin {
		if findInput(tx, &priv.Vin[i]) < 0 {
			return w.reject(violation(CheckInputMissing, "input %d with key image %s", i, priv.Vin[i].KeyImage))
		}
	}
	w.Logger.Debug("multiuser inputs present", zap.Int("inputs", len(priv.Vin)))

	used := make([]bool, len(tx.Vout))
	for i, family := range priv.Vouts {
		n := findOutput(tx, extra, family)
		if n < 0 {
			return w.reject(violation(CheckOutputMissing, "output %d", i))
		}
		used[n] = true
	}
	w.Logger.Debug("multiuser outputs present", zap.Int("outputs", len(priv.Vouts)))

	paid := make(map[PublicAddress]uint64)
	for _, other := range others {
		for _, d := range other.Dests {
			for n := range tx.Vout {
				if used[n] || ptx.AdditionalTxKeys[n].IsZero() {
					continue
				}
				_, amount, ok := decodeOutput(tx, n, ptx.AdditionalTxKeys[n].Scalar(), &d.Addr)
				if !ok {
					continue
				}
				if paid[d.Addr]+amount < amount {
					return w.reject(violation(CheckUnderpaid, "payments to %s overflow", d.Addr))
				}
				used[n] = true
				paid[d.Addr] += amount
				break
			}
		}
	}
	for _, c := range pub.Conditions {
		if paid[c.Addr] < c.Amount {
			return w.reject(violation(CheckUnderpaid, "%s received %s, expected %s", c.Addr, FormatAmount(paid[c.Addr]), FormatAmount(c.Amount)))
		}
	}
	w.Logger.Debug("multiuser conditions met", zap.Int("conditions", len(pub.Conditions)))

	if pub.UnlockTime != tx.UnlockTime {
		return w.reject(violation(CheckUnlockTime, "unlock time %d, expected %d", tx.UnlockTime, pub.UnlockTime))
	}
	for i, bp := range tx.Rct.Bulletproofs {
		if bp == nil || len(bp.V) != 1 || pointKey(bp.V[0]) != tx.Rct.OutPk[i] || !w.verifier.Verify(bp) {
			return w.reject(violation(CheckRangeProof, "output %d", i))
		}
	}
	if !verifyCommitmentBalance(tx) {
		return w.reject(violation(CheckBalance, "pseudo outs do not match outputs and fee %s", FormatAmount(tx.Rct.Fee)))
	}
	w.Logger.Debug("multiuser proofs verified", zap.Int("bulletproofs", len(tx.Rct.Bulletproofs)))

	message := SigningMessage(tx)
	signed := 0
	for i := range tx.Vin {
		td := w.findTransfer(tx.Vin[i].KeyImage)
		if td == nil {
			continue
		}
		orig := -1
		for j := range priv.Vin {
			if priv.Vin[j].KeyImage == tx.Vin[i].KeyImage {
				orig = j
				break
			}
		}
		if orig < 0 {
			continue
		}
		x, err := w.onetimePrivateKey(td)
		if err != nil {
			return err
		}
		mg, err := signRing(message, tx.Rct.MixRing[i], int(priv.Muout.Index[orig]), tx.Rct.PseudoOuts[i], x, td.Mask.Scalar(), priv.Muout.A[orig].Scalar())
		if err != nil {
			return errors.Wrapf(err, "sign input %d", i)
		}
		tx.Rct.MGs[i] = mg
		signed++
	}
	w.Logger.Info("signed multiuser transaction",
		zap.Int("signed", signed),
		zap.Int("inputs", len(tx.Vin)))
	return nil
}

func (w *Wallet) reject(err error) error {
	w.Logger.Warn("multiuser sign rejected", zap.Error(err))
	return err
}

func findInput(tx *Transaction, in *TxIn) int {
	for i := range tx.Vin {
		if tx.Vin[i].Equal(in) {
			return i
		}
	}
	return -1
}

// findOutput returns the position holding the variant of family valid
// there, or -1. The encrypted mask must match too, it is the only way the
// receiver recovers the commitment mask.
func findOutput(tx *Transaction, extra *TxExtra, family []*OutputVariant) int {
	for k := range tx.Vout {
		if k >= len(family) {
			break
		}
		v := family[k]
		if v.Out.Key == tx.Vout[k].Key && v.TxPublicKey == extra.AdditionalPubKeys[k] && v.Commitment == tx.Rct.OutPk[k] && v.Ecdh == tx.Rct.EcdhInfo[k] {
			return k
		}
	}
	return -1
}
