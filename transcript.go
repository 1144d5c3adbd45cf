package api

import (
	"github.com/bwesterb/go-ristretto"
)

// transcript is the running Fiat-Shamir state of a range proof. Every
// challenge is folded back into the cache before the next one is drawn,
// so prover and verifier must mash values in exactly the same order.
type transcript struct {
	cache *ristretto.Scalar
}

func newTranscript(V []*ristretto.Point) *transcript {
	data := make([][]byte, len(V))
	for i, v := range V {
		data[i] = v.Bytes()
	}
	return &transcript{cache: hashToScalarWithTag(BULLETPROOF_DOMAIN_TAG, data...)}
}

// mash sets cache = Hs(cache || data...) and returns it.
func (t *transcript) mash(data ...[]byte) *ristretto.Scalar {
	parts := append([][]byte{t.cache.Bytes()}, data...)
	t.cache = hashToScalarWithTag(BULLETPROOF_DOMAIN_TAG, parts...)
	return t.challenge()
}

// rehash sets cache = Hs(s) and returns it.
func (t *transcript) rehash(s *ristretto.Scalar) *ristretto.Scalar {
	t.cache = hashToScalarWithTag(BULLETPROOF_DOMAIN_TAG, s.Bytes())
	return t.challenge()
}

func (t *transcript) challenge() *ristretto.Scalar {
	var c ristretto.Scalar
	c.SetZero()
	return c.Add(&c, t.cache)
}
