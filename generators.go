package api

import (
	"sync"

	"github.com/bwesterb/go-ristretto"
	"golang.org/x/crypto/sha3"
)

// PedersenGens commits as value*B + blinding*BBlinding.
type PedersenGens struct {
	B         *ristretto.Point
	BBlinding *ristretto.Point
}

func NewPedersenGens() *PedersenGens {
	var base ristretto.Point
	base.SetBase()

	return &PedersenGens{
		B:         hashToPoint(base.Bytes()),
		BBlinding: &base,
	}
}

func (pg *PedersenGens) Commit(value, blinding *ristretto.Scalar) *ristretto.Point {
	return multiscalarMul([]*ristretto.Scalar{value, blinding}, []*ristretto.Point{pg.B, pg.BBlinding})
}

func (pg *PedersenGens) CommitAmount(amount uint64, blinding *ristretto.Scalar) *ristretto.Point {
	return pg.Commit(uint64ToScalar(amount), blinding)
}

var pedersenGens = NewPedersenGens()

// GeneratorTable holds the Gi and Hi vectors shared by every proof.
// It is immutable once built.
type GeneratorTable struct {
	Gi []*ristretto.Point
	Hi []*ristretto.Point
}

var (
	generatorTable     *GeneratorTable
	generatorTableOnce sync.Once
)

// Generators returns the process-wide table, building it on first use.
func Generators() *GeneratorTable {
	generatorTableOnce.Do(func() {
		generatorTable = newGeneratorTable(pedersenGens.B, BULLETPROOF_BITS*BULLETPROOF_MAX_VALUES)
	})
	return generatorTable
}

func newGeneratorTable(base *ristretto.Point, size int) *GeneratorTable {
	table := &GeneratorTable{
		Gi: make([]*ristretto.Point, size),
		Hi: make([]*ristretto.Point, size),
	}
	for i := 0; i < size; i++ {
		table.Hi[i] = getExponent(base, uint64(2*i))
		table.Gi[i] = getExponent(base, uint64(2*i+1))
	}
	return table
}

func getExponent(base *ristretto.Point, idx uint64) *ristretto.Point {
	h := sha3.NewLegacyKeccak256()
	h.Write(base.Bytes())
	h.Write([]byte(BULLETPROOF_GENERATOR_SALT))
	h.Write(uvarintBytes(idx))
	return hashToPoint(h.Sum(nil))
}

func pointFromUniformBytes(key []byte) *ristretto.Point {
	var r1Bytes, r2Bytes [32]byte
	copy(r1Bytes[:], key[:32])
	copy(r2Bytes[:], key[32:])
	var r, r1, r2 ristretto.Point
	return r.Add(r1.SetElligator(&r1Bytes), r2.SetElligator(&r2Bytes))
}
