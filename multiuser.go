package api

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protowire"
)

// MultiuserTxSet accumulates the joint transaction while participants merge
// their spends into it. Vouts is the output catalog: Vouts[i] are the
// position variants of the output currently at position i.
type MultiuserTxSet struct {
	Ptx      *PendingTx
	Building bool
	Setups   [][]byte
	Vouts    [][]*OutputVariant
}

func NewMultiuserTxSet() *MultiuserTxSet {
	return &MultiuserTxSet{Building: true}
}

func (set *MultiuserTxSet) Save() []byte {
	e := &protoEncoder{buf: []byte(MULTIUSER_TX_SET_MAGIC)}
	if set.Ptx != nil {
		e.bytes(1, encodePendingTx(set.Ptx))
	}
	e.bool(2, set.Building)
	for _, s := range set.Setups {
		e.bytes(3, s)
	}
	encodeVariantFamilies(e, 4, set.Vouts)
	return e.buf
}

func LoadMultiuserTxSet(blob []byte) (*MultiuserTxSet, error) {
	if !bytes.HasPrefix(blob, []byte(MULTIUSER_TX_SET_MAGIC)) {
		return nil, errors.Wrap(ErrDecode, "multiuser tx set magic")
	}
	fields, err := parseFields(blob[len(MULTIUSER_TX_SET_MAGIC):])
	if err != nil {
		return nil, err
	}
	set := &MultiuserTxSet{}
	for _, f := range fields {
		var mb []byte
		switch f.num {
		case 1:
			if mb, err = f.bytes(); err == nil {
				set.Ptx, err = decodePendingTx(mb)
			}
		case 2:
			var b uint64
			b, err = f.uint()
			set.Building = protowire.DecodeBool(b)
		case 3:
			if mb, err = f.bytes(); err == nil {
				set.Setups = append(set.Setups, append([]byte{}, mb...))
			}
		case 4:
			var family []*OutputVariant
			family, err = decodeVariantFamily(f)
			set.Vouts = append(set.Vouts, family)
		}
		if err != nil {
			return nil, err
		}
	}
	if set.Ptx != nil && len(set.Vouts) != len(set.Ptx.Tx.Vout) {
		return nil, errors.Wrapf(ErrDecode, "multiuser tx set outputs %d catalog %d", len(set.Ptx.Tx.Vout), len(set.Vouts))
	}
	for i, family := range set.Vouts {
		if len(family) <= i {
			return nil, errors.Wrapf(ErrDecode, "multiuser tx set output %d has %d variants", i, len(family))
		}
	}
	return set, nil
}

// MergeMultiuser adds ptx, built by this wallet with muout, to set.
// otherDests are payments this wallet expects the other participants to
// make. With disclose, the destinations of ptx are published to the
// co-signers and their transaction keys are kept so the payments can be
// checked; change is never disclosed.
func (w *Wallet) MergeMultiuser(set *MultiuserTxSet, ptx *PendingTx, muout *MultiuserOut, otherDests []Destination, disclose bool) error {
	merged, catalog, priv, err := w.prepareMerge(set, ptx, muout, disclose)
	if err != nil {
		return err
	}

	pub := &MultiuserPublicSetup{
		Conditions: append([]Destination{}, otherDests...),
		UnlockTime: ptx.Tx.UnlockTime,
	}
	if disclose {
		for i, d := range ptx.SplittedDsts {
			if !ptx.isChange(i) {
				pub.Dests = append(pub.Dests, d)
			}
		}
	}
	blob, err := w.SaveMultiuserSetup(priv, pub)
	if err != nil {
		return err
	}

	set.Ptx = merged
	set.Vouts = catalog
	set.Setups = append(set.Setups, blob)
	w.Logger.Info("merged multiuser transaction",
		zap.Int("inputs", len(merged.Tx.Vin)),
		zap.Int("outputs", len(merged.Tx.Vout)),
		zap.Int("setups", len(set.Setups)),
		zap.String("fee", FormatAmount(merged.Fee)))
	return nil
}

// prepareMerge computes the merged transaction and catalog without touching
// set, so a failure leaves it unchanged.
func (w *Wallet) prepareMerge(set *MultiuserTxSet, ptx *PendingTx, muout *MultiuserOut, disclose bool) (*PendingTx, [][]*OutputVariant, *MultiuserPrivateSetup, error) {
	if !set.Building {
		return nil, nil, nil, errors.Wrap(ErrPrecondition, "multiuser tx set is no longer building")
	}
	if ptx == nil || !IsSuitableForMultiuser(ptx.Tx) {
		return nil, nil, nil, errors.Wrap(ErrPrecondition, "transaction not suitable for multiuser")
	}
	if set.Ptx != nil && !IsSuitableForMultiuser(set.Ptx.Tx) {
		return nil, nil, nil, errors.Wrap(ErrPrecondition, "multiuser tx set not suitable for multiuser")
	}
	tx := ptx.Tx
	if err := checkRctSizes(tx); err != nil {
		return nil, nil, nil, errors.Wrap(ErrPrecondition, err.Error())
	}
	if len(ptx.AdditionalTxKeys) != len(tx.Vout) || len(ptx.SplittedDsts) != len(tx.Vout) {
		return nil, nil, nil, errors.Wrapf(ErrPrecondition, "outputs %d additional keys %d destinations %d", len(tx.Vout), len(ptx.AdditionalTxKeys), len(ptx.SplittedDsts))
	}
	if muout == nil || len(muout.A) != len(tx.Vin) || len(muout.Index) != len(tx.Vin) {
		return nil, nil, nil, errors.Wrapf(ErrPrecondition, "multiuser out does not match %d inputs", len(tx.Vin))
	}

	var old *Transaction
	var oldCatalog [][]*OutputVariant
	if set.Ptx != nil {
		old = set.Ptx.Tx
		oldCatalog = set.Vouts
		if err := checkRctSizes(old); err != nil {
			return nil, nil, nil, errors.Wrap(ErrPrecondition, err.Error())
		}
		if len(oldCatalog) != len(old.Vout) {
			return nil, nil, nil, errors.Wrapf(ErrPrecondition, "outputs %d catalog %d", len(old.Vout), len(oldCatalog))
		}
		if old.UnlockTime != tx.UnlockTime {
			return nil, nil, nil, errors.Wrapf(ErrPrecondition, "unlock time %d, set has %d", tx.UnlockTime, old.UnlockTime)
		}
	} else {
		old = &Transaction{Version: tx.Version, UnlockTime: tx.UnlockTime, Rct: RctSig{Type: tx.Rct.Type}}
	}
	total := len(old.Vout) + len(tx.Vout)
	if total > w.Config.MaxOutputs {
		return nil, nil, nil, errors.Wrapf(ErrPrecondition, "too many outputs %d", total)
	}
	for i, family := range oldCatalog {
		if len(family) < total {
			return nil, nil, nil, errors.Wrapf(ErrPrecondition, "output %d has %d variants for %d outputs", i, len(family), total)
		}
	}

	extra, err := ParseTxExtra(tx.Extra)
	if err != nil {
		return nil, nil, nil, errors.Wrap(ErrPrecondition, err.Error())
	}
	if extra.PubKey == nil {
		return nil, nil, nil, errors.Wrap(ErrPrecondition, "transaction without public key")
	}

	priv := &MultiuserPrivateSetup{
		Vin:              append([]TxIn{}, tx.Vin...),
		Muout:            MultiuserOut{A: append([]Key{}, muout.A...), Index: append([]uint64{}, muout.Index...)},
		TxKey:            ptx.TxKey,
		AdditionalTxKeys: append([]Key{}, ptx.AdditionalTxKeys...),
	}
	catalog := append([][]*OutputVariant{}, oldCatalog...)
	for n := range tx.Vout {
		dest := &ptx.SplittedDsts[n]
		mask, amount, ok := decodeOutput(tx, n, ptx.AdditionalTxKeys[n].Scalar(), &dest.Addr)
		if !ok {
			return nil, nil, nil, errors.Wrapf(ErrPrecondition, "output %d does not decode", n)
		}
		redact := !disclose || ptx.isChange(n)
		family := make([]*OutputVariant, w.Config.MaxOutputs)
		public := make([]*OutputVariant, w.Config.MaxOutputs)
		for k := range family {
			variant, _ := createOutput(&dest.Addr, amount, mask, k)
			variant.Proof = tx.Rct.Bulletproofs[n]
			family[k] = variant
			shared := *variant
			if redact {
				shared.TxKey = Key{}
			}
			public[k] = &shared
		}
		priv.Vouts = append(priv.Vouts, family)
		catalog = append(catalog, public)
	}

	mtx := &Transaction{
		Version:    old.Version,
		UnlockTime: old.UnlockTime,
		Rct: RctSig{
			Type: old.Rct.Type,
			Fee:  old.Rct.Fee + tx.Rct.Fee,
		},
	}
	if tx.Version > mtx.Version {
		mtx.Version = tx.Version
	}
	mtx.Vin = append(append([]TxIn{}, old.Vin...), tx.Vin...)
	mtx.Rct.PseudoOuts = append(append([]Key{}, old.Rct.PseudoOuts...), tx.Rct.PseudoOuts...)
	mtx.Rct.MixRing = append(append([][]CtKey{}, old.Rct.MixRing...), tx.Rct.MixRing...)

	order := make([]int, len(mtx.Vin))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return bytes.Compare(mtx.Vin[order[i]].KeyImage[:], mtx.Vin[order[j]].KeyImage[:]) > 0
	})
	err = applyPermutation(order, func(i, j int) {
		mtx.Vin[i], mtx.Vin[j] = mtx.Vin[j], mtx.Vin[i]
		mtx.Rct.PseudoOuts[i], mtx.Rct.PseudoOuts[j] = mtx.Rct.PseudoOuts[j], mtx.Rct.PseudoOuts[i]
		mtx.Rct.MixRing[i], mtx.Rct.MixRing[j] = mtx.Rct.MixRing[j], mtx.Rct.MixRing[i]
	})
	if err != nil {
		return nil, nil, nil, err
	}

	if w.Config.ShuffleOutputs {
		order, err := randomPermutation(len(catalog))
		if err != nil {
			return nil, nil, nil, err
		}
		err = applyPermutation(order, func(i, j int) {
			catalog[i], catalog[j] = catalog[j], catalog[i]
		})
		if err != nil {
			return nil, nil, nil, err
		}
	}

	merged := &PendingTx{Tx: mtx, Fee: mtx.Rct.Fee}
	additional := make([]Key, len(catalog))
	for i, family := range catalog {
		variant := family[i]
		mtx.Vout = append(mtx.Vout, variant.Out)
		mtx.Rct.OutPk = append(mtx.Rct.OutPk, variant.Commitment)
		mtx.Rct.EcdhInfo = append(mtx.Rct.EcdhInfo, variant.Ecdh)
		mtx.Rct.Bulletproofs = append(mtx.Rct.Bulletproofs, variant.Proof)
		merged.AdditionalTxKeys = append(merged.AdditionalTxKeys, variant.TxKey)
		additional[i] = variant.TxPublicKey
	}
	mtx.Rct.MGs = make([]*RingMLSAG, len(mtx.Vin))

	mextra := &TxExtra{PubKey: extra.PubKey, AdditionalPubKeys: additional, Nonce: extra.Nonce}
	if len(old.Extra) > 0 {
		oextra, err := ParseTxExtra(old.Extra)
		if err != nil {
			return nil, nil, nil, errors.Wrap(ErrPrecondition, err.Error())
		}
		if len(oextra.Nonce) > 0 {
			mextra.Nonce = oextra.Nonce
		}
	}
	mtx.Extra = mextra.Bytes()

	if err := checkRctSizes(mtx); err != nil {
		return nil, nil, nil, errors.Wrap(ErrPrecondition, err.Error())
	}
	w.Logger.Debug("merged commitment balance", zap.Bool("balanced", verifyCommitmentBalance(mtx)))
	return merged, catalog, priv, nil
}
