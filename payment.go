package api

const (
	RCTTypeNull        = 0
	RCTTypeFull        = 1
	RCTTypeSimple      = 2
	RCTTypeBulletproof = 3
)

// TxIn spends one of the outputs referenced by KeyOffsets, which are
// relative global output indices.
type TxIn struct {
	Amount     uint64
	KeyOffsets []uint64
	KeyImage   Key
}

func (in *TxIn) Equal(other *TxIn) bool {
	if in.Amount != other.Amount || in.KeyImage != other.KeyImage || len(in.KeyOffsets) != len(other.KeyOffsets) {
		return false
	}
	for i := range in.KeyOffsets {
		if in.KeyOffsets[i] != other.KeyOffsets[i] {
			return false
		}
	}
	return true
}

type TxOut struct {
	Amount uint64
	Key    Key
}

type CtKey struct {
	Dest Key
	Mask Key
}

// EcdhTuple carries an output's mask and amount encrypted to the receiver.
type EcdhTuple struct {
	Mask   Key
	Amount Key
}

type RingMLSAG struct {
	CZero     Key
	Responses []Key
	KeyImage  Key
}

type RctSig struct {
	Type         uint8
	Fee          uint64
	PseudoOuts   []Key
	OutPk        []Key
	EcdhInfo     []EcdhTuple
	Bulletproofs []*Bulletproof
	MGs          []*RingMLSAG
	MixRing      [][]CtKey
}

type Transaction struct {
	Version    uint64
	UnlockTime uint64
	Vin        []TxIn
	Vout       []TxOut
	Extra      []byte
	Rct        RctSig
}

type Destination struct {
	Addr   PublicAddress
	Amount uint64
}

// PendingTx is a built but not yet broadcast transaction together with the
// secrets its builder kept.
type PendingTx struct {
	Tx               *Transaction
	Fee              uint64
	Dests            []Destination
	ChangeDest       *Destination
	SplittedDsts     []Destination
	TxKey            Key
	AdditionalTxKeys []Key
}

// MultiuserOut holds, per input, the pseudo output mask and the position
// of the real output inside its ring.
type MultiuserOut struct {
	A     []Key
	Index []uint64
}

func (ptx *PendingTx) isChange(i int) bool {
	return ptx.ChangeDest != nil && i < len(ptx.SplittedDsts) && ptx.SplittedDsts[i] == *ptx.ChangeDest
}

func IsSuitableForMultiuser(tx *Transaction) bool {
	if tx == nil || tx.Version < 2 {
		return false
	}
	return isSimpleRct(tx.Rct.Type) && isBulletproofRct(tx.Rct.Type)
}

func isSimpleRct(t uint8) bool {
	return t == RCTTypeSimple || t == RCTTypeBulletproof
}

func isBulletproofRct(t uint8) bool {
	return t == RCTTypeBulletproof
}
