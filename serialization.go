package api

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Setup and tx set blobs use the protobuf wire format. Repeated fields are
// emitted one element per field, nested structures as length delimited
// messages.

type protoEncoder struct {
	buf []byte
}

func (e *protoEncoder) bytes(num protowire.Number, v []byte) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, v)
}

func (e *protoEncoder) key(num protowire.Number, k Key) {
	e.bytes(num, k[:])
}

func (e *protoEncoder) keys(num protowire.Number, keys []Key) {
	for _, k := range keys {
		e.key(num, k)
	}
}

func (e *protoEncoder) uint(num protowire.Number, v uint64) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

func (e *protoEncoder) bool(num protowire.Number, v bool) {
	e.uint(num, protowire.EncodeBool(v))
}

type protoField struct {
	num protowire.Number
	typ protowire.Type
	u   uint64
	b   []byte
}

func parseFields(b []byte) ([]protoField, error) {
	var fields []protoField
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errors.Wrap(ErrDecode, protowire.ParseError(n).Error())
		}
		b = b[n:]
		f := protoField{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.u, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.b, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, errors.Wrap(ErrDecode, protowire.ParseError(n).Error())
		}
		b = b[n:]
		fields = append(fields, f)
	}
	return fields, nil
}

func (f protoField) uint() (uint64, error) {
	if f.typ != protowire.VarintType {
		return 0, errors.Wrapf(ErrDecode, "field %d is not a varint", f.num)
	}
	return f.u, nil
}

func (f protoField) bytes() ([]byte, error) {
	if f.typ != protowire.BytesType {
		return nil, errors.Wrapf(ErrDecode, "field %d is not bytes", f.num)
	}
	return f.b, nil
}

func (f protoField) key() (Key, error) {
	b, err := f.bytes()
	if err != nil {
		return Key{}, err
	}
	if len(b) != 32 {
		return Key{}, errors.Wrapf(ErrDecode, "field %d key length %d", f.num, len(b))
	}
	return keyFromBytes(b), nil
}

func encodeTxIn(in *TxIn) []byte {
	e := &protoEncoder{}
	e.uint(1, in.Amount)
	for _, o := range in.KeyOffsets {
		e.uint(2, o)
	}
	e.key(3, in.KeyImage)
	return e.buf
}

func decodeTxIn(b []byte) (TxIn, error) {
	var in TxIn
	fields, err := parseFields(b)
	if err != nil {
		return in, err
	}
	for _, f := range fields {
		switch f.num {
		case 1:
			in.Amount, err = f.uint()
		case 2:
			var o uint64
			o, err = f.uint()
			in.KeyOffsets = append(in.KeyOffsets, o)
		case 3:
			in.KeyImage, err = f.key()
		}
		if err != nil {
			return in, err
		}
	}
	return in, nil
}

func encodeTxOut(out *TxOut) []byte {
	e := &protoEncoder{}
	e.uint(1, out.Amount)
	e.key(2, out.Key)
	return e.buf
}

func decodeTxOut(b []byte) (TxOut, error) {
	var out TxOut
	fields, err := parseFields(b)
	if err != nil {
		return out, err
	}
	for _, f := range fields {
		switch f.num {
		case 1:
			out.Amount, err = f.uint()
		case 2:
			out.Key, err = f.key()
		}
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func encodeKeyPair(a, b Key) []byte {
	e := &protoEncoder{}
	e.key(1, a)
	e.key(2, b)
	return e.buf
}

func decodeKeyPair(b []byte) (Key, Key, error) {
	var first, second Key
	fields, err := parseFields(b)
	if err != nil {
		return first, second, err
	}
	for _, f := range fields {
		switch f.num {
		case 1:
			first, err = f.key()
		case 2:
			second, err = f.key()
		}
		if err != nil {
			return first, second, err
		}
	}
	return first, second, nil
}

func encodeRing(ring []CtKey) []byte {
	e := &protoEncoder{}
	for _, m := range ring {
		e.bytes(1, encodeKeyPair(m.Dest, m.Mask))
	}
	return e.buf
}

func decodeRing(b []byte) ([]CtKey, error) {
	fields, err := parseFields(b)
	if err != nil {
		return nil, err
	}
	ring := []CtKey{}
	for _, f := range fields {
		if f.num != 1 {
			continue
		}
		mb, err := f.bytes()
		if err != nil {
			return nil, err
		}
		dest, mask, err := decodeKeyPair(mb)
		if err != nil {
			return nil, err
		}
		ring = append(ring, CtKey{Dest: dest, Mask: mask})
	}
	return ring, nil
}

func encodeRingMLSAG(mg *RingMLSAG) []byte {
	e := &protoEncoder{}
	if mg == nil {
		return e.buf
	}
	e.key(1, mg.CZero)
	e.keys(2, mg.Responses)
	e.key(3, mg.KeyImage)
	return e.buf
}

// decodeRingMLSAG maps an empty message to an unsigned input.
func decodeRingMLSAG(b []byte) (*RingMLSAG, error) {
	if len(b) == 0 {
		return nil, nil
	}
	fields, err := parseFields(b)
	if err != nil {
		return nil, err
	}
	mg := &RingMLSAG{}
	for _, f := range fields {
		switch f.num {
		case 1:
			mg.CZero, err = f.key()
		case 2:
			var k Key
			k, err = f.key()
			mg.Responses = append(mg.Responses, k)
		case 3:
			mg.KeyImage, err = f.key()
		}
		if err != nil {
			return nil, err
		}
	}
	return mg, nil
}

func encodeRctSig(rct *RctSig) []byte {
	e := &protoEncoder{}
	e.uint(1, uint64(rct.Type))
	e.uint(2, rct.Fee)
	e.keys(3, rct.PseudoOuts)
	e.keys(4, rct.OutPk)
	for _, t := range rct.EcdhInfo {
		e.bytes(5, encodeKeyPair(t.Mask, t.Amount))
	}
	for _, bp := range rct.Bulletproofs {
		e.bytes(6, bp.ToBytes())
	}
	for _, mg := range rct.MGs {
		e.bytes(7, encodeRingMLSAG(mg))
	}
	for _, ring := range rct.MixRing {
		e.bytes(8, encodeRing(ring))
	}
	return e.buf
}

func decodeRctSig(b []byte) (RctSig, error) {
	var rct RctSig
	fields, err := parseFields(b)
	if err != nil {
		return rct, err
	}
	for _, f := range fields {
		switch f.num {
		case 1:
			var t uint64
			t, err = f.uint()
			rct.Type = uint8(t)
		case 2:
			rct.Fee, err = f.uint()
		case 3:
			var k Key
			k, err = f.key()
			rct.PseudoOuts = append(rct.PseudoOuts, k)
		case 4:
			var k Key
			k, err = f.key()
			rct.OutPk = append(rct.OutPk, k)
		case 5:
			var mb []byte
			if mb, err = f.bytes(); err == nil {
				var t EcdhTuple
				t.Mask, t.Amount, err = decodeKeyPair(mb)
				rct.EcdhInfo = append(rct.EcdhInfo, t)
			}
		case 6:
			var mb []byte
			if mb, err = f.bytes(); err == nil {
				var bp *Bulletproof
				bp, err = BulletproofFromBytes(mb)
				rct.Bulletproofs = append(rct.Bulletproofs, bp)
			}
		case 7:
			var mb []byte
			if mb, err = f.bytes(); err == nil {
				var mg *RingMLSAG
				mg, err = decodeRingMLSAG(mb)
				rct.MGs = append(rct.MGs, mg)
			}
		case 8:
			var mb []byte
			if mb, err = f.bytes(); err == nil {
				var ring []CtKey
				ring, err = decodeRing(mb)
				rct.MixRing = append(rct.MixRing, ring)
			}
		}
		if err != nil {
			return rct, err
		}
	}
	return rct, nil
}

func encodeTransaction(tx *Transaction) []byte {
	e := &protoEncoder{}
	e.uint(1, tx.Version)
	e.uint(2, tx.UnlockTime)
	for i := range tx.Vin {
		e.bytes(3, encodeTxIn(&tx.Vin[i]))
	}
	for i := range tx.Vout {
		e.bytes(4, encodeTxOut(&tx.Vout[i]))
	}
	e.bytes(5, tx.Extra)
	e.bytes(6, encodeRctSig(&tx.Rct))
	return e.buf
}

func decodeTransaction(b []byte) (*Transaction, error) {
	tx := &Transaction{}
	fields, err := parseFields(b)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		var mb []byte
		switch f.num {
		case 1:
			tx.Version, err = f.uint()
		case 2:
			tx.UnlockTime, err = f.uint()
		case 3:
			if mb, err = f.bytes(); err == nil {
				var in TxIn
				in, err = decodeTxIn(mb)
				tx.Vin = append(tx.Vin, in)
			}
		case 4:
			if mb, err = f.bytes(); err == nil {
				var out TxOut
				out, err = decodeTxOut(mb)
				tx.Vout = append(tx.Vout, out)
			}
		case 5:
			if mb, err = f.bytes(); err == nil {
				tx.Extra = append([]byte{}, mb...)
			}
		case 6:
			if mb, err = f.bytes(); err == nil {
				tx.Rct, err = decodeRctSig(mb)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return tx, nil
}

func encodeDestination(d *Destination) []byte {
	e := &protoEncoder{}
	e.key(1, d.Addr.ViewPublicKey)
	e.key(2, d.Addr.SpendPublicKey)
	e.uint(3, d.Amount)
	return e.buf
}

func decodeDestination(b []byte) (Destination, error) {
	var d Destination
	fields, err := parseFields(b)
	if err != nil {
		return d, err
	}
	for _, f := range fields {
		switch f.num {
		case 1:
			d.Addr.ViewPublicKey, err = f.key()
		case 2:
			d.Addr.SpendPublicKey, err = f.key()
		case 3:
			d.Amount, err = f.uint()
		}
		if err != nil {
			return d, err
		}
	}
	return d, nil
}

func encodeDestinations(e *protoEncoder, num protowire.Number, dests []Destination) {
	for i := range dests {
		e.bytes(num, encodeDestination(&dests[i]))
	}
}

func decodeDestinationField(f protoField, dests []Destination) ([]Destination, error) {
	b, err := f.bytes()
	if err != nil {
		return dests, err
	}
	d, err := decodeDestination(b)
	if err != nil {
		return dests, err
	}
	return append(dests, d), nil
}

func encodePendingTx(ptx *PendingTx) []byte {
	e := &protoEncoder{}
	e.bytes(1, encodeTransaction(ptx.Tx))
	e.uint(2, ptx.Fee)
	encodeDestinations(e, 3, ptx.Dests)
	if ptx.ChangeDest != nil {
		e.bytes(4, encodeDestination(ptx.ChangeDest))
	}
	encodeDestinations(e, 5, ptx.SplittedDsts)
	e.key(6, ptx.TxKey)
	e.keys(7, ptx.AdditionalTxKeys)
	return e.buf
}

func decodePendingTx(b []byte) (*PendingTx, error) {
	ptx := &PendingTx{}
	fields, err := parseFields(b)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		var mb []byte
		switch f.num {
		case 1:
			if mb, err = f.bytes(); err == nil {
				ptx.Tx, err = decodeTransaction(mb)
			}
		case 2:
			ptx.Fee, err = f.uint()
		case 3:
			ptx.Dests, err = decodeDestinationField(f, ptx.Dests)
		case 4:
			if mb, err = f.bytes(); err == nil {
				var d Destination
				d, err = decodeDestination(mb)
				ptx.ChangeDest = &d
			}
		case 5:
			ptx.SplittedDsts, err = decodeDestinationField(f, ptx.SplittedDsts)
		case 6:
			ptx.TxKey, err = f.key()
		case 7:
			var k Key
			k, err = f.key()
			ptx.AdditionalTxKeys = append(ptx.AdditionalTxKeys, k)
		}
		if err != nil {
			return nil, err
		}
	}
	if ptx.Tx == nil {
		return nil, errors.Wrap(ErrDecode, "pending tx without transaction")
	}
	return ptx, nil
}

func encodeOutputVariant(v *OutputVariant) []byte {
	e := &protoEncoder{}
	e.bytes(1, encodeTxOut(&v.Out))
	e.key(2, v.TxKey)
	e.key(3, v.TxPublicKey)
	e.bytes(4, encodeKeyPair(v.Ecdh.Mask, v.Ecdh.Amount))
	e.key(5, v.Commitment)
	e.bytes(6, v.Proof.ToBytes())
	return e.buf
}

func decodeOutputVariant(b []byte) (*OutputVariant, error) {
	v := &OutputVariant{}
	fields, err := parseFields(b)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		var mb []byte
		switch f.num {
		case 1:
			if mb, err = f.bytes(); err == nil {
				v.Out, err = decodeTxOut(mb)
			}
		case 2:
			v.TxKey, err = f.key()
		case 3:
			v.TxPublicKey, err = f.key()
		case 4:
			if mb, err = f.bytes(); err == nil {
				v.Ecdh.Mask, v.Ecdh.Amount, err = decodeKeyPair(mb)
			}
		case 5:
			v.Commitment, err = f.key()
		case 6:
			if mb, err = f.bytes(); err == nil {
				v.Proof, err = BulletproofFromBytes(mb)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if v.Proof == nil {
		return nil, errors.Wrap(ErrDecode, "output variant without proof")
	}
	return v, nil
}

func encodeVariantFamilies(e *protoEncoder, num protowire.Number, families [][]*OutputVariant) {
	for _, family := range families {
		fe := &protoEncoder{}
		for _, v := range family {
			fe.bytes(1, encodeOutputVariant(v))
		}
		e.bytes(num, fe.buf)
	}
}

func decodeVariantFamily(f protoField) ([]*OutputVariant, error) {
	b, err := f.bytes()
	if err != nil {
		return nil, err
	}
	fields, err := parseFields(b)
	if err != nil {
		return nil, err
	}
	var family []*OutputVariant
	for _, vf := range fields {
		if vf.num != 1 {
			continue
		}
		vb, err := vf.bytes()
		if err != nil {
			return nil, err
		}
		v, err := decodeOutputVariant(vb)
		if err != nil {
			return nil, err
		}
		family = append(family, v)
	}
	return family, nil
}

func encodeMultiuserOut(muout *MultiuserOut) []byte {
	e := &protoEncoder{}
	e.keys(1, muout.A)
	for _, i := range muout.Index {
		e.uint(2, i)
	}
	return e.buf
}

func decodeMultiuserOut(b []byte) (MultiuserOut, error) {
	var muout MultiuserOut
	fields, err := parseFields(b)
	if err != nil {
		return muout, err
	}
	for _, f := range fields {
		switch f.num {
		case 1:
			var k Key
			k, err = f.key()
			muout.A = append(muout.A, k)
		case 2:
			var i uint64
			i, err = f.uint()
			muout.Index = append(muout.Index, i)
		}
		if err != nil {
			return muout, err
		}
	}
	return muout, nil
}
