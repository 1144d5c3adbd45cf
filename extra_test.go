package api

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestTxExtra(t *testing.T) {
	assert := assert.New(t)

	pub := NewAccount().PublicAddress().ViewPublicKey
	extra := &TxExtra{
		PubKey:            &pub,
		AdditionalPubKeys: []Key{NewAccount().PublicAddress().SpendPublicKey, NewAccount().PublicAddress().SpendPublicKey},
		Nonce:             []byte("payment"),
	}
	parsed, err := ParseTxExtra(extra.Bytes())
	assert.Nil(err)
	assert.Equal(pub, *parsed.PubKey)
	assert.Equal(extra.AdditionalPubKeys, parsed.AdditionalPubKeys)
	assert.Equal([]byte("payment"), parsed.Nonce)

	parsed, err = ParseTxExtra(append(extra.Bytes(), 0, 0, 0))
	assert.Nil(err)
	assert.Len(parsed.AdditionalPubKeys, 2)

	empty, err := ParseTxExtra(nil)
	assert.Nil(err)
	assert.Nil(empty.PubKey)
	assert.Len((&TxExtra{}).Bytes(), 0)

	_, err = ParseTxExtra([]byte{TX_EXTRA_TAG_PUBKEY, 1, 2})
	assert.True(errors.Is(err, ErrDecode))
	_, err = ParseTxExtra([]byte{TX_EXTRA_TAG_ADDITIONAL_PUBKEYS, 2, 1})
	assert.True(errors.Is(err, ErrDecode))
	_, err = ParseTxExtra([]byte{TX_EXTRA_NONCE, 5, 1})
	assert.True(errors.Is(err, ErrDecode))
	_, err = ParseTxExtra([]byte{0x7f})
	assert.True(errors.Is(err, ErrDecode))
	_, err = ParseTxExtra([]byte{TX_EXTRA_TAG_PADDING, 0, 1})
	assert.True(errors.Is(err, ErrDecode))
}
