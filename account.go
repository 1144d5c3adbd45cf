package api

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/btcsuite/btcutil/base58"
	"github.com/bwesterb/go-ristretto"
)

const ADDRESS_VERSION = 0x12

type Account struct {
	ViewPrivateKey  *ristretto.Scalar
	SpendPrivateKey *ristretto.Scalar
}

// PublicAddress is comparable and is used as a map key when tallying
// payments per destination.
type PublicAddress struct {
	ViewPublicKey  Key
	SpendPublicKey Key
}

func NewAccount() *Account {
	var view, spend ristretto.Scalar
	return &Account{
		ViewPrivateKey:  view.Rand(),
		SpendPrivateKey: spend.Rand(),
	}
}

func NewAccountKey(viewPrivate, spendPrivate string) (*Account, error) {
	view, err := KeyFromHex(viewPrivate)
	if err != nil {
		return nil, err
	}
	spend, err := KeyFromHex(spendPrivate)
	if err != nil {
		return nil, err
	}
	vs, ok := view.canonicalScalar()
	if !ok {
		return nil, fmt.Errorf("NewAccountKey invalid view key %s", viewPrivate)
	}
	ss, ok := spend.canonicalScalar()
	if !ok {
		return nil, fmt.Errorf("NewAccountKey invalid spend key %s", spendPrivate)
	}
	return &Account{ViewPrivateKey: vs, SpendPrivateKey: ss}, nil
}

func (account *Account) PublicAddress() *PublicAddress {
	return &PublicAddress{
		ViewPublicKey:  pointKey(PublicKey(account.ViewPrivateKey)),
		SpendPublicKey: pointKey(PublicKey(account.SpendPrivateKey)),
	}
}

// String encodes crc32 || version || spend || view in base58.
func (addr PublicAddress) String() string {
	data := []byte{ADDRESS_VERSION}
	data = append(data, addr.SpendPublicKey[:]...)
	data = append(data, addr.ViewPublicKey[:]...)

	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, crc32.ChecksumIEEE(data))
	buf = append(buf, data...)
	return base58.Encode(buf)
}

func DecodeAddress(address string) (*PublicAddress, error) {
	data := base58.Decode(address)
	if len(data) != 4+1+64 {
		return nil, fmt.Errorf("Invalid address %s", address)
	}
	sum := make([]byte, 4)
	binary.LittleEndian.PutUint32(sum, crc32.ChecksumIEEE(data[4:]))
	if !bytes.Equal(sum, data[:4]) {
		return nil, fmt.Errorf("Invalid address checksum %s", address)
	}
	if data[4] != ADDRESS_VERSION {
		return nil, fmt.Errorf("Invalid address version %d", data[4])
	}
	addr := &PublicAddress{
		SpendPublicKey: keyFromBytes(data[5:37]),
		ViewPublicKey:  keyFromBytes(data[37:69]),
	}
	if _, err := addr.SpendPublicKey.Point(); err != nil {
		return nil, err
	}
	if _, err := addr.ViewPublicKey.Point(); err != nil {
		return nil, err
	}
	return addr, nil
}

func PublicKey(private *ristretto.Scalar) *ristretto.Point {
	var point ristretto.Point
	return point.ScalarMultBase(private)
}

func createSharedSecret(public *ristretto.Point, private *ristretto.Scalar) *ristretto.Point {
	var r ristretto.Point
	return r.ScalarMult(public, private)
}
