package api

import (
	"encoding/binary"

	"github.com/gtank/merlin"
)

const (
	PRIMITIVE     = "prim"
	SEQUENCE      = "seq"
	AGGREGATE     = "agg"
	AGGREGATE_END = "agg-end"
)

// HashOfTxPrefix digests everything but the ring signature data.
func HashOfTxPrefix(tx *Transaction) []byte {
	t := merlin.NewTranscript("digestible")
	appendTxPrefix(tx, t)
	return t.ExtractBytes([]byte("digest32"), 32)
}

// SigningMessage is what every MLSAG in tx signs: the prefix digest plus the
// ring signature base and the range proofs. It does not cover MGs, so each
// participant can sign its own inputs independently.
func SigningMessage(tx *Transaction) []byte {
	t := merlin.NewTranscript("digestible")
	appendBytes([]byte("prefix_hash"), HashOfTxPrefix(tx), t)

	appendBytes([]byte("rct_base"), []byte(AGGREGATE), t)
	appendUint("type", uint64(tx.Rct.Type), t)
	appendUint("fee", tx.Rct.Fee, t)
	appendKeys("pseudo_outs", tx.Rct.PseudoOuts, t)
	appendKeys("out_pk", tx.Rct.OutPk, t)
	appendLen("ecdh_info", len(tx.Rct.EcdhInfo), t)
	for _, e := range tx.Rct.EcdhInfo {
		appendBytes([]byte("mask"), e.Mask[:], t)
		appendBytes([]byte("amount"), e.Amount[:], t)
	}
	appendBytes([]byte("rct_base"), []byte(AGGREGATE_END), t)

	appendLen("bulletproofs", len(tx.Rct.Bulletproofs), t)
	for _, bp := range tx.Rct.Bulletproofs {
		appendBytes([]byte("bulletproof"), bp.ToBytes(), t)
	}
	return t.ExtractBytes([]byte("digest32"), 32)
}

func appendTxIn(in *TxIn, t *merlin.Transcript) {
	appendBytes([]byte(""), []byte(AGGREGATE), t)
	appendBytes([]byte("name"), []byte("TxIn"), t)

	appendUint("amount", in.Amount, t)
	appendLen("key_offsets", len(in.KeyOffsets), t)
	for _, o := range in.KeyOffsets {
		appendUint("offset", o, t)
	}
	appendBytes([]byte("key_image"), []byte(PRIMITIVE), t)
	appendBytes([]byte("ristretto"), in.KeyImage[:], t)

	appendBytes([]byte(""), []byte(AGGREGATE_END), t)
	appendBytes([]byte("name"), []byte("TxIn"), t)
}

func appendTxOut(out *TxOut, t *merlin.Transcript) {
	appendBytes([]byte(""), []byte(AGGREGATE), t)
	appendBytes([]byte("name"), []byte("TxOut"), t)

	appendUint("amount", out.Amount, t)
	appendBytes([]byte("target_key"), []byte(PRIMITIVE), t)
	appendBytes([]byte("ristretto"), out.Key[:], t)

	appendBytes([]byte(""), []byte(AGGREGATE_END), t)
	appendBytes([]byte("name"), []byte("TxOut"), t)
}

func appendTxPrefix(tx *Transaction, t *merlin.Transcript) {
	appendBytes([]byte("multiuser-tx-prefix"), []byte(AGGREGATE), t)
	appendBytes([]byte("name"), []byte("TxPrefix"), t)

	appendUint("version", tx.Version, t)
	appendUint("unlock_time", tx.UnlockTime, t)
	appendLen("inputs", len(tx.Vin), t)
	for i := range tx.Vin {
		appendTxIn(&tx.Vin[i], t)
	}
	appendLen("outputs", len(tx.Vout), t)
	for i := range tx.Vout {
		appendTxOut(&tx.Vout[i], t)
	}
	appendBytes([]byte("extra"), tx.Extra, t)

	appendBytes([]byte("multiuser-tx-prefix"), []byte(AGGREGATE_END), t)
	appendBytes([]byte("name"), []byte("TxPrefix"), t)
}

func appendKeys(label string, keys []Key, t *merlin.Transcript) {
	appendLen(label, len(keys), t)
	for _, k := range keys {
		appendBytes([]byte("ristretto"), k[:], t)
	}
}

func appendLen(label string, n int, t *merlin.Transcript) {
	appendBytes([]byte(label), []byte(SEQUENCE), t)
	appendUint("len", uint64(n), t)
}

func appendUint(label string, i uint64, t *merlin.Transcript) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, i)
	appendBytes([]byte(label), buf, t)
}

func appendBytes(field, data []byte, t *merlin.Transcript) {
	t.AppendMessage(field, data)
}
