package api

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	TX_EXTRA_TAG_PADDING            = 0x00
	TX_EXTRA_TAG_PUBKEY             = 0x01
	TX_EXTRA_NONCE                  = 0x02
	TX_EXTRA_TAG_ADDITIONAL_PUBKEYS = 0x04

	TX_EXTRA_NONCE_MAX_COUNT = 255
)

type TxExtra struct {
	PubKey            *Key
	AdditionalPubKeys []Key
	Nonce             []byte
}

func ParseTxExtra(extra []byte) (*TxExtra, error) {
	e := &TxExtra{}
	for len(extra) > 0 {
		tag := extra[0]
		extra = extra[1:]
		switch tag {
		case TX_EXTRA_TAG_PADDING:
			for _, b := range extra {
				if b != 0 {
					return nil, errors.Wrap(ErrDecode, "extra padding not zero")
				}
			}
			extra = nil
		case TX_EXTRA_TAG_PUBKEY:
			if len(extra) < 32 {
				return nil, errors.Wrap(ErrDecode, "extra pubkey truncated")
			}
			k := keyFromBytes(extra[:32])
			e.PubKey = &k
			extra = extra[32:]
		case TX_EXTRA_NONCE:
			n, size := binary.Uvarint(extra)
			if size <= 0 || n > TX_EXTRA_NONCE_MAX_COUNT || uint64(len(extra)-size) < n {
				return nil, errors.Wrap(ErrDecode, "extra nonce invalid")
			}
			e.Nonce = append([]byte{}, extra[size:size+int(n)]...)
			extra = extra[size+int(n):]
		case TX_EXTRA_TAG_ADDITIONAL_PUBKEYS:
			n, size := binary.Uvarint(extra)
			if size <= 0 || n > uint64(len(extra)-size)/32 {
				return nil, errors.Wrap(ErrDecode, "extra additional pubkeys invalid")
			}
			extra = extra[size:]
			keys := make([]Key, n)
			for i := range keys {
				keys[i] = keyFromBytes(extra[:32])
				extra = extra[32:]
			}
			e.AdditionalPubKeys = keys
		default:
			return nil, errors.Wrapf(ErrDecode, "extra unknown tag %d", tag)
		}
	}
	return e, nil
}

func (e *TxExtra) Bytes() []byte {
	var buf []byte
	if e.PubKey != nil {
		buf = append(buf, TX_EXTRA_TAG_PUBKEY)
		buf = append(buf, e.PubKey[:]...)
	}
	if len(e.AdditionalPubKeys) > 0 {
		buf = append(buf, TX_EXTRA_TAG_ADDITIONAL_PUBKEYS)
		buf = append(buf, uvarintBytes(uint64(len(e.AdditionalPubKeys)))...)
		for _, k := range e.AdditionalPubKeys {
			buf = append(buf, k[:]...)
		}
	}
	if len(e.Nonce) > 0 {
		buf = append(buf, TX_EXTRA_NONCE)
		buf = append(buf, uvarintBytes(uint64(len(e.Nonce)))...)
		buf = append(buf, e.Nonce...)
	}
	return buf
}
