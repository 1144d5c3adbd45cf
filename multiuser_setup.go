package api

import (
	"bytes"
	"crypto/rand"
	"crypto/subtle"

	"github.com/dchest/blake2b"
	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	MULTIUSER_SETUP_MAGIC  = "Monero multiuser setup\x01"
	MULTIUSER_TX_SET_MAGIC = "Monero multiuser tx set\x01"

	MULTIUSER_SETUP_TAG_SIZE = 64
)

// MultiuserPrivateSetup is what a participant needs to later recognize and
// sign its share of the merged transaction. Vouts[i] holds the position
// variants of its i-th output, variant k valid at position k.
type MultiuserPrivateSetup struct {
	Vin              []TxIn
	Muout            MultiuserOut
	TxKey            Key
	AdditionalTxKeys []Key
	Vouts            [][]*OutputVariant
}

// MultiuserPublicSetup is shared in clear with every co-signer. Conditions
// are payments the participant expects the others to make.
type MultiuserPublicSetup struct {
	Dests      []Destination
	Conditions []Destination
	UnlockTime uint64
}

func (s *MultiuserPrivateSetup) encode() []byte {
	e := &protoEncoder{}
	for i := range s.Vin {
		e.bytes(1, encodeTxIn(&s.Vin[i]))
	}
	e.bytes(2, encodeMultiuserOut(&s.Muout))
	e.key(3, s.TxKey)
	e.keys(4, s.AdditionalTxKeys)
	encodeVariantFamilies(e, 5, s.Vouts)
	return e.buf
}

func decodePrivateSetup(b []byte) (*MultiuserPrivateSetup, error) {
	s := &MultiuserPrivateSetup{}
	fields, err := parseFields(b)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		var mb []byte
		switch f.num {
		case 1:
			if mb, err = f.bytes(); err == nil {
				var in TxIn
				in, err = decodeTxIn(mb)
				s.Vin = append(s.Vin, in)
			}
		case 2:
			if mb, err = f.bytes(); err == nil {
				s.Muout, err = decodeMultiuserOut(mb)
			}
		case 3:
			s.TxKey, err = f.key()
		case 4:
			var k Key
			k, err = f.key()
			s.AdditionalTxKeys = append(s.AdditionalTxKeys, k)
		case 5:
			var family []*OutputVariant
			family, err = decodeVariantFamily(f)
			s.Vouts = append(s.Vouts, family)
		}
		if err != nil {
			return nil, err
		}
	}
	if len(s.Muout.A) != len(s.Vin) || len(s.Muout.Index) != len(s.Vin) {
		return nil, errors.Wrapf(ErrDecode, "private setup inputs %d multiuser out %d, %d", len(s.Vin), len(s.Muout.A), len(s.Muout.Index))
	}
	return s, nil
}

func (s *MultiuserPublicSetup) encode() []byte {
	e := &protoEncoder{}
	encodeDestinations(e, 1, s.Dests)
	encodeDestinations(e, 2, s.Conditions)
	e.uint(3, s.UnlockTime)
	return e.buf
}

func decodePublicSetup(b []byte) (*MultiuserPublicSetup, error) {
	s := &MultiuserPublicSetup{}
	fields, err := parseFields(b)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		switch f.num {
		case 1:
			s.Dests, err = decodeDestinationField(f, s.Dests)
		case 2:
			s.Conditions, err = decodeDestinationField(f, s.Conditions)
		case 3:
			s.UnlockTime, err = f.uint()
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (w *Wallet) setupEncryptionKey() []byte {
	view := scalarKey(w.Account.ViewPrivateKey)
	key := blake2b.Sum256(append([]byte(SETUP_ENCRYPTION_DOMAIN_TAG), view[:]...))
	return key[:]
}

func (w *Wallet) setupTag(data []byte) []byte {
	view := scalarKey(w.Account.ViewPrivateKey)
	key := blake2b.Sum256(append([]byte(SETUP_AUTHENTICATION_DOMAIN_TAG), view[:]...))
	mac := blake2b.NewMAC(MULTIUSER_SETUP_TAG_SIZE, key[:])
	mac.Write(data)
	return mac.Sum(nil)
}

// SaveMultiuserSetup encodes a setup blob: the magic, then the private
// setup sealed under a key derived from the view key, the public setup in
// clear, and a MAC over all of it keyed by the view key.
func (w *Wallet) SaveMultiuserSetup(priv *MultiuserPrivateSetup, pub *MultiuserPublicSetup) ([]byte, error) {
	aead, err := chacha20poly1305.New(w.setupEncryptionKey())
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	sealed := aead.Seal(nonce, nonce, priv.encode(), []byte(MULTIUSER_SETUP_MAGIC))

	e := &protoEncoder{buf: []byte(MULTIUSER_SETUP_MAGIC)}
	e.bytes(1, sealed)
	e.bytes(2, pub.encode())
	return append(e.buf, w.setupTag(e.buf)...), nil
}

// LoadMultiuserSetup decodes a setup blob. The private setup is only
// returned when the blob was produced by this wallet.
func (w *Wallet) LoadMultiuserSetup(blob []byte) (*MultiuserPrivateSetup, *MultiuserPublicSetup, bool, error) {
	if !bytes.HasPrefix(blob, []byte(MULTIUSER_SETUP_MAGIC)) {
		return nil, nil, false, errors.Wrap(ErrDecode, "multiuser setup magic")
	}
	if len(blob) < len(MULTIUSER_SETUP_MAGIC)+MULTIUSER_SETUP_TAG_SIZE {
		return nil, nil, false, errors.Wrap(ErrDecode, "multiuser setup truncated")
	}
	body := blob[:len(blob)-MULTIUSER_SETUP_TAG_SIZE]
	tag := blob[len(body):]
	isOurs := subtle.ConstantTimeCompare(tag, w.setupTag(body)) == 1

	fields, err := parseFields(body[len(MULTIUSER_SETUP_MAGIC):])
	if err != nil {
		return nil, nil, false, err
	}
	var sealed, public []byte
	for _, f := range fields {
		switch f.num {
		case 1:
			sealed, err = f.bytes()
		case 2:
			public, err = f.bytes()
		}
		if err != nil {
			return nil, nil, false, err
		}
	}

	pub, err := decodePublicSetup(public)
	if err != nil {
		return nil, nil, false, err
	}
	if !isOurs {
		return nil, pub, false, nil
	}

	aead, err := chacha20poly1305.New(w.setupEncryptionKey())
	if err != nil {
		return nil, nil, false, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, nil, false, errors.Wrap(ErrDecode, "multiuser setup sealed private truncated")
	}
	plain, err := aead.Open(nil, sealed[:aead.NonceSize()], sealed[aead.NonceSize():], []byte(MULTIUSER_SETUP_MAGIC))
	if err != nil {
		return nil, nil, false, errors.Wrap(ErrDecode, err.Error())
	}
	priv, err := decodePrivateSetup(plain)
	if err != nil {
		return nil, nil, false, err
	}
	return priv, pub, true, nil
}
