package api

import (
	"encoding/hex"
	"fmt"

	"github.com/bwesterb/go-ristretto"
)

// Key is the 32-byte compressed encoding of a point or a scalar.
type Key [32]byte

func KeyFromHex(h string) (Key, error) {
	var k Key
	buf, err := hex.DecodeString(h)
	if err != nil {
		return k, err
	}
	if len(buf) != len(k) {
		return k, fmt.Errorf("KeyFromHex invalid length %d", len(buf))
	}
	copy(k[:], buf)
	return k, nil
}

func keyFromBytes(b []byte) Key {
	var k Key
	copy(k[:], b)
	return k
}

func pointKey(p *ristretto.Point) Key {
	return keyFromBytes(p.Bytes())
}

func scalarKey(s *ristretto.Scalar) Key {
	return keyFromBytes(s.Bytes())
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

func (k Key) IsZero() bool {
	return k == Key{}
}

func (k Key) Point() (*ristretto.Point, error) {
	buf := [32]byte(k)
	var p ristretto.Point
	if !p.SetBytes(&buf) {
		return nil, fmt.Errorf("Invalid point %s", k)
	}
	return &p, nil
}

func (k Key) mustPoint() *ristretto.Point {
	p, err := k.Point()
	if err != nil {
		panic(err)
	}
	return p
}

func (k Key) Scalar() *ristretto.Scalar {
	buf := [32]byte(k)
	var s ristretto.Scalar
	return s.SetBytes(&buf)
}

// canonicalScalar rejects encodings that are not fully reduced.
func (k Key) canonicalScalar() (*ristretto.Scalar, bool) {
	s := k.Scalar()
	return s, scalarKey(s) == k
}
