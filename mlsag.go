package api

import (
	"errors"
	"fmt"

	"github.com/bwesterb/go-ristretto"
	"github.com/dchest/blake2b"
)

// signRing produces a two column MLSAG over ring. The first column proves
// knowledge of the one-time key, the second that the real member's
// commitment minus pseudoOut is a commitment to zero.
func signRing(message []byte, ring []CtKey, realIndex int, pseudoOut Key, onetimePrivateKey, inputMask, pseudoMask *ristretto.Scalar) (*RingMLSAG, error) {
	size := len(ring)
	if realIndex < 0 || realIndex >= size {
		return nil, fmt.Errorf("Invalid ring size %d and realIndex: %d", size, realIndex)
	}
	pseudo, err := pseudoOut.Point()
	if err != nil {
		return nil, err
	}
	keys, diffs, err := decompressRing(ring, pseudo)
	if err != nil {
		return nil, err
	}

	var z ristretto.Scalar
	z.Sub(inputMask, pseudoMask)
	if !equalPoints(diffs[realIndex], PublicKey(&z)) {
		return nil, errors.New("Value Not Conserved")
	}
	if !equalPoints(keys[realIndex], PublicKey(onetimePrivateKey)) {
		return nil, errors.New("Onetime key not in ring")
	}

	I := keyImageFromPrivate(onetimePrivateKey)

	c := make([]*ristretto.Scalar, size)
	r := make([]*ristretto.Scalar, 2*size)
	for i := 0; i < size; i++ {
		if i == realIndex {
			continue
		}
		var r1, r2 ristretto.Scalar
		r[2*i] = r1.Rand()
		r[2*i+1] = r2.Rand()
	}

	var alpha0, alpha1 ristretto.Scalar
	alpha0.Rand()
	alpha1.Rand()

	for n := 0; n < size; n++ {
		i := (realIndex + n) % size
		var L0, R0, L1 ristretto.Point
		if i == realIndex {
			L0.ScalarMultBase(&alpha0)
			R0.ScalarMult(hashToPoint(keys[i].Bytes()), &alpha0)
			L1.ScalarMultBase(&alpha1)
		} else {
			ringRound(keys[i], diffs[i], I, r[2*i], r[2*i+1], c[i], &L0, &R0, &L1)
		}
		c[(i+1)%size] = challenge(message, I, &L0, &R0, &L1)
	}

	var s0, s1 ristretto.Scalar
	r[2*realIndex] = s0.Sub(&alpha0, s1.Mul(c[realIndex], onetimePrivateKey))
	var z0, z1 ristretto.Scalar
	r[2*realIndex+1] = z0.Sub(&alpha1, z1.Mul(c[realIndex], &z))

	responses := make([]Key, len(r))
	for i, rr := range r {
		responses[i] = scalarKey(rr)
	}
	return &RingMLSAG{
		CZero:     scalarKey(c[0]),
		Responses: responses,
		KeyImage:  pointKey(I),
	}, nil
}

// VerifyRing checks sig against ring and pseudoOut.
func VerifyRing(message []byte, ring []CtKey, pseudoOut Key, sig *RingMLSAG) bool {
	size := len(ring)
	if sig == nil || size == 0 || len(sig.Responses) != 2*size {
		return false
	}
	pseudo, err := pseudoOut.Point()
	if err != nil {
		return false
	}
	keys, diffs, err := decompressRing(ring, pseudo)
	if err != nil {
		return false
	}
	I, err := sig.KeyImage.Point()
	if err != nil {
		return false
	}
	c0, ok := sig.CZero.canonicalScalar()
	if !ok {
		return false
	}

	c := c0
	for i := 0; i < size; i++ {
		r0, ok0 := sig.Responses[2*i].canonicalScalar()
		r1, ok1 := sig.Responses[2*i+1].canonicalScalar()
		if !ok0 || !ok1 {
			return false
		}
		var L0, R0, L1 ristretto.Point
		ringRound(keys[i], diffs[i], I, r0, r1, c, &L0, &R0, &L1)
		c = challenge(message, I, &L0, &R0, &L1)
	}
	return scalarKey(c) == sig.CZero
}

func ringRound(P, D, I *ristretto.Point, r0, r1, c *ristretto.Scalar, L0, R0, L1 *ristretto.Point) {
	var L00, L01 ristretto.Point
	L0.Add(L00.ScalarMultBase(r0), L01.ScalarMult(P, c))
	var R00, R01 ristretto.Point
	R0.Add(R00.ScalarMult(hashToPoint(P.Bytes()), r0), R01.ScalarMult(I, c))
	var L10, L11 ristretto.Point
	L1.Add(L10.ScalarMultBase(r1), L11.ScalarMult(D, c))
}

func decompressRing(ring []CtKey, pseudo *ristretto.Point) ([]*ristretto.Point, []*ristretto.Point, error) {
	keys := make([]*ristretto.Point, len(ring))
	diffs := make([]*ristretto.Point, len(ring))
	for i, member := range ring {
		P, err := member.Dest.Point()
		if err != nil {
			return nil, nil, err
		}
		C, err := member.Mask.Point()
		if err != nil {
			return nil, nil, err
		}
		var d ristretto.Point
		keys[i] = P
		diffs[i] = d.Sub(C, pseudo)
	}
	return keys, diffs, nil
}

func challenge(message []byte, keyImage *ristretto.Point, L0, R0, L1 *ristretto.Point) *ristretto.Scalar {
	hash := blake2b.New512()
	hash.Write([]byte(RING_MLSAG_CHALLENGE_DOMAIN_TAG))
	hash.Write(message)
	hash.Write(keyImage.Bytes())
	hash.Write(L0.Bytes())
	hash.Write(R0.Bytes())
	hash.Write(L1.Bytes())
	return fromBytesModOrderWide(hash.Sum(nil))
}
