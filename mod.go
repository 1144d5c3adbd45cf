package api

import (
	"encoding/binary"
	"fmt"

	"github.com/bwesterb/go-ristretto"
	"github.com/dchest/blake2b"
)

func keyImageFromPrivate(private *ristretto.Scalar) *ristretto.Point {
	var p ristretto.Point
	p.ScalarMultBase(private)

	hp := hashToPoint(p.Bytes())
	var point ristretto.Point
	return point.ScalarMult(hp, private)
}

func hashToPoint(data []byte) *ristretto.Point {
	hash := blake2b.New512()
	hash.Write([]byte(HASH_TO_POINT_DOMAIN_TAG))
	hash.Write(data)
	return pointFromUniformBytes(hash.Sum(nil))
}

func hashToScalar(data ...[]byte) *ristretto.Scalar {
	return hashToScalarWithTag(HASH_TO_SCALAR_DOMAIN_TAG, data...)
}

func hashToScalarWithTag(tag string, data ...[]byte) *ristretto.Scalar {
	hash := blake2b.New512()
	hash.Write([]byte(tag))
	for _, d := range data {
		hash.Write(d)
	}
	return fromBytesModOrderWide(hash.Sum(nil))
}

func uint64ToScalar(i uint64) *ristretto.Scalar {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[:], i)
	var s ristretto.Scalar
	return s.SetBytes(&buf)
}

// scalarToUint64 fails when s does not fit in 64 bits.
func scalarToUint64(s *ristretto.Scalar) (uint64, bool) {
	buf := s.Bytes()
	for _, b := range buf[8:] {
		if b != 0 {
			return 0, false
		}
	}
	return binary.LittleEndian.Uint64(buf[:8]), true
}

func uvarintBytes(i uint64) []byte {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, i)
	return buf[:n]
}

func multiscalarMul(scalars []*ristretto.Scalar, points []*ristretto.Point) *ristretto.Point {
	if len(scalars) != len(points) {
		panic(fmt.Sprintf("multiscalarMul lengths do not match %d, %d", len(scalars), len(points)))
	}
	var p ristretto.Point
	p.SetZero()
	for i := range scalars {
		var t ristretto.Point
		t.ScalarMult(points[i], scalars[i])
		p.Add(&p, &t)
	}
	return &p
}

func fromBytesModOrderWide(data []byte) *ristretto.Scalar {
	var data64 [64]byte
	copy(data64[:], data)
	var hs ristretto.Scalar
	return hs.SetReduced(&data64)
}

func isPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

func log2(v int) int {
	n := 0
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}
