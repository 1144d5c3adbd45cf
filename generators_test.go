package api

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerators(t *testing.T) {
	assert := assert.New(t)

	gens := Generators()
	assert.True(gens == Generators())
	assert.Len(gens.Gi, BULLETPROOF_BITS*BULLETPROOF_MAX_VALUES)
	assert.Len(gens.Hi, BULLETPROOF_BITS*BULLETPROOF_MAX_VALUES)
	assert.False(equalPoints(gens.Gi[0], gens.Hi[0]))
	assert.True(equalPoints(gens.Hi[1], getExponent(pedersenGens.B, 2)))
	assert.True(equalPoints(gens.Gi[1], getExponent(pedersenGens.B, 3)))

	pg := NewPedersenGens()
	assert.Equal("e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d76", hex.EncodeToString(pg.BBlinding.Bytes()))
	assert.True(equalPoints(pg.B, pedersenGens.B))
	assert.False(equalPoints(pg.B, pg.BBlinding))
}

func TestGeneratorsConcurrent(t *testing.T) {
	assert := assert.New(t)

	tables := make(chan *GeneratorTable, 8)
	for i := 0; i < 8; i++ {
		go func() {
			tables <- Generators()
		}()
	}
	first := <-tables
	for i := 1; i < 8; i++ {
		assert.True(first == <-tables)
	}
}

func TestCommitAmount(t *testing.T) {
	assert := assert.New(t)

	mask := uint64ToScalar(7)
	c := pedersenGens.CommitAmount(5, mask)
	var sum = pedersenGens.CommitAmount(2, uint64ToScalar(3))
	sum.Add(sum, pedersenGens.CommitAmount(3, uint64ToScalar(4)))
	assert.True(equalPoints(c, sum))
	assert.True(equalPoints(pedersenGens.CommitAmount(0, mask), PublicKey(mask)))
}
