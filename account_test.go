package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccount(t *testing.T) {
	assert := assert.New(t)

	privateV := "367ce216ecd113cd6ed49d52f4c9df63d0818ed941e72170419a70c8ec1bcd0c"
	privateS := "62afd57ca5394ce7e57323c0925af72cabad4c3b42cf9a6c6403ee9c5227740a"
	account, err := NewAccountKey(privateV, privateS)
	assert.Nil(err)
	assert.Equal(privateV, scalarKey(account.ViewPrivateKey).String())

	addr := account.PublicAddress()
	assert.Equal(pointKey(PublicKey(account.SpendPrivateKey)), addr.SpendPublicKey)

	decoded, err := DecodeAddress(addr.String())
	assert.Nil(err)
	assert.Equal(*addr, *decoded)

	other := NewAccount().PublicAddress()
	assert.NotEqual(addr.String(), other.String())

	_, err = NewAccountKey(privateV, "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	assert.NotNil(err)
	_, err = DecodeAddress("invalid")
	assert.NotNil(err)

	s := addr.String()
	tampered := []byte(s)
	if tampered[10] == '2' {
		tampered[10] = '3'
	} else {
		tampered[10] = '2'
	}
	_, err = DecodeAddress(string(tampered))
	assert.NotNil(err)
}

func TestSharedSecret(t *testing.T) {
	assert := assert.New(t)

	receiver := NewAccount()
	addr := receiver.PublicAddress()
	variant, mask := createOutput(addr, 1234, nil, 3)

	R, err := variant.TxPublicKey.Point()
	assert.Nil(err)
	shared := derivationToScalar(createSharedSecret(R, receiver.ViewPrivateKey), 3)
	assert.Equal(scalarKey(genCommitmentMask(shared)), scalarKey(mask))

	x := deriveSecretKey(shared, receiver.SpendPrivateKey)
	assert.Equal(variant.Out.Key, pointKey(PublicKey(x)))

	m, amount, ok := ecdhDecode(variant.Ecdh, shared)
	assert.True(ok)
	assert.Equal(uint64(1234), amount)
	assert.Equal(scalarKey(mask), scalarKey(m))
	assert.Equal(variant.Commitment, pointKey(pedersenGens.CommitAmount(1234, m)))

	wrong := derivationToScalar(createSharedSecret(R, receiver.ViewPrivateKey), 4)
	assert.NotEqual(variant.Out.Key, pointKey(derivePublicKey(wrong, PublicKey(receiver.SpendPrivateKey))))
}
