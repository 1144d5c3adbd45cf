package api

import (
	"github.com/dchest/blake2b"
	lru "github.com/hashicorp/golang-lru/v2"
)

// VerifyCache memoizes Verify by the proof encoding. The same proof is
// checked once per signer and once per position variant.
type VerifyCache struct {
	cache *lru.Cache[[32]byte, bool]
}

func NewVerifyCache(size int) (*VerifyCache, error) {
	cache, err := lru.New[[32]byte, bool](size)
	if err != nil {
		return nil, err
	}
	return &VerifyCache{cache: cache}, nil
}

func (c *VerifyCache) Verify(proof *Bulletproof) bool {
	if !proof.wellFormed() {
		return false
	}
	key := blake2b.Sum256(proof.ToBytes())
	if valid, ok := c.cache.Get(key); ok {
		return valid
	}
	valid := Verify(proof)
	c.cache.Add(key, valid)
	return valid
}
