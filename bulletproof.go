package api

import (
	"encoding/binary"

	"github.com/bwesterb/go-ristretto"
	"github.com/pkg/errors"
)

const (
	BULLETPROOF_BITS       = 64
	BULLETPROOF_MAX_VALUES = 16
)

// Bulletproof is an aggregated range proof that every V[j] commits to a
// value in [0, 2^64).
type Bulletproof struct {
	V              []*ristretto.Point
	A, S, T1, T2   *ristretto.Point
	Taux, Mu       *ristretto.Scalar
	L, R           []*ristretto.Point
	FinalA, FinalB *ristretto.Scalar
	T              *ristretto.Scalar
}

// Prove builds one proof for all values. len(values) must be a power of
// two no larger than BULLETPROOF_MAX_VALUES; padding is up to the caller.
func Prove(values []uint64, blindings []*ristretto.Scalar) (*Bulletproof, error) {
	amounts := make([][32]byte, len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(amounts[i][:8], v)
	}
	return ProveAmounts(amounts, blindings)
}

// ProveAmounts commits to raw little-endian 32-byte amounts. Only the low
// 64 bits are proven, so any amount with higher bits set yields a proof
// that does not verify.
func ProveAmounts(amounts [][32]byte, blindings []*ristretto.Scalar) (*Bulletproof, error) {
	if len(amounts) != len(blindings) {
		return nil, errors.Wrapf(ErrPrecondition, "Prove values %d blindings %d", len(amounts), len(blindings))
	}
	M := len(amounts)
	if !isPowerOfTwo(M) || M > BULLETPROOF_MAX_VALUES {
		return nil, errors.Wrapf(ErrPrecondition, "Prove invalid value count %d", M)
	}
	N := BULLETPROOF_BITS
	MN := M * N
	gens := Generators()

	V := make([]*ristretto.Point, M)
	for j := range amounts {
		buf := amounts[j]
		var v ristretto.Scalar
		V[j] = pedersenGens.Commit(v.SetBytes(&buf), blindings[j])
	}

	aL := make([]*ristretto.Scalar, MN)
	aR := make([]*ristretto.Scalar, MN)
	for j := 0; j < M; j++ {
		for i := 0; i < N; i++ {
			if (amounts[j][i/8]>>(i%8))&1 == 1 {
				aL[j*N+i] = scalarOne()
				aR[j*N+i] = scalarZero()
			} else {
				aL[j*N+i] = scalarZero()
				aR[j*N+i] = scalarMinusOne()
			}
		}
	}

	t := newTranscript(V)

	var alpha, rho ristretto.Scalar
	alpha.Rand()
	rho.Rand()
	var ab, sb ristretto.Point
	A := vectorExponent(aL, aR)
	A.Add(A, ab.ScalarMult(pedersenGens.BBlinding, &alpha))

	sL := randomScalars(MN)
	sR := randomScalars(MN)
	S := vectorExponent(sL, sR)
	S.Add(S, sb.ScalarMult(pedersenGens.BBlinding, &rho))

	y := t.mash(A.Bytes(), S.Bytes())
	z := t.rehash(y)

	yPowers := vectorPowers(y, MN)
	twoPowers := vectorPowers(uint64ToScalar(2), N)
	zPowers := vectorPowers(z, M+2)

	zeroTwos := make([]*ristretto.Scalar, MN)
	for j := 0; j < M; j++ {
		for i := 0; i < N; i++ {
			var r ristretto.Scalar
			zeroTwos[j*N+i] = r.Mul(zPowers[j+2], twoPowers[i])
		}
	}

	lPoly := &VecPoly1{
		As: subScalarVec(aL, z),
		Bs: sL,
	}
	rPoly := &VecPoly1{
		As: addVec(hadamard(addScalarVec(aR, z), yPowers), zeroTwos),
		Bs: hadamard(yPowers, sR),
	}
	tPoly := lPoly.InnerProduct(rPoly)

	var tau1, tau2 ristretto.Scalar
	tau1.Rand()
	tau2.Rand()
	T1 := pedersenGens.Commit(tPoly.B, &tau1)
	T2 := pedersenGens.Commit(tPoly.C, &tau2)

	x := t.mash(z.Bytes(), T1.Bytes(), T2.Bytes())

	var taux, xx, tmp ristretto.Scalar
	xx.Mul(x, x)
	taux.Mul(&tau1, x)
	taux.Add(&taux, tmp.Mul(&tau2, &xx))
	for j := 0; j < M; j++ {
		var g ristretto.Scalar
		taux.Add(&taux, g.Mul(zPowers[j+2], blindings[j]))
	}

	var mu ristretto.Scalar
	mu.Mul(x, &rho)
	mu.Add(&mu, &alpha)

	l := lPoly.Eval(x)
	r := rPoly.Eval(x)
	tx := tPoly.Eval(x)

	xip := t.mash(x.Bytes(), taux.Bytes(), mu.Bytes(), tx.Bytes())

	yInvPowers := vectorPowers(invert(y), MN)
	hPrime := make([]*ristretto.Point, MN)
	for i := 0; i < MN; i++ {
		var p ristretto.Point
		hPrime[i] = p.ScalarMult(gens.Hi[i], yInvPowers[i])
	}

	var Q ristretto.Point
	Q.ScalarMult(pedersenGens.B, xip)
	LVec, RVec, a, b := proveInnerProduct(t, &Q, gens.Gi[:MN], hPrime, l, r)

	return &Bulletproof{
		V:      V,
		A:      A,
		S:      S,
		T1:     T1,
		T2:     T2,
		Taux:   &taux,
		Mu:     &mu,
		L:      LVec,
		R:      RVec,
		FinalA: a,
		FinalB: b,
		T:      tx,
	}, nil
}

func (p *Bulletproof) wellFormed() bool {
	if p == nil || p.A == nil || p.S == nil || p.T1 == nil || p.T2 == nil ||
		p.Taux == nil || p.Mu == nil || p.FinalA == nil || p.FinalB == nil || p.T == nil {
		return false
	}
	for _, v := range p.V {
		if v == nil {
			return false
		}
	}
	if len(p.L) != len(p.R) {
		return false
	}
	for i := range p.L {
		if p.L[i] == nil || p.R[i] == nil {
			return false
		}
	}
	return true
}

// ToBytes encodes V, A, S, T1, T2, taux, mu, the (L, R) pairs, a, b and t
// in that order, with a uvarint count before V and before the pairs.
func (p *Bulletproof) ToBytes() []byte {
	var buf []byte
	buf = append(buf, uvarintBytes(uint64(len(p.V)))...)
	for _, v := range p.V {
		buf = append(buf, v.Bytes()...)
	}
	buf = append(buf, p.A.Bytes()...)
	buf = append(buf, p.S.Bytes()...)
	buf = append(buf, p.T1.Bytes()...)
	buf = append(buf, p.T2.Bytes()...)
	buf = append(buf, p.Taux.Bytes()...)
	buf = append(buf, p.Mu.Bytes()...)
	buf = append(buf, uvarintBytes(uint64(len(p.L)))...)
	for i := range p.L {
		buf = append(buf, p.L[i].Bytes()...)
		buf = append(buf, p.R[i].Bytes()...)
	}
	buf = append(buf, p.FinalA.Bytes()...)
	buf = append(buf, p.FinalB.Bytes()...)
	buf = append(buf, p.T.Bytes()...)
	return buf
}

func BulletproofFromBytes(data []byte) (*Bulletproof, error) {
	r := &keyReader{buf: data}
	p := &Bulletproof{}

	count, err := r.count(BULLETPROOF_MAX_VALUES)
	if err != nil {
		return nil, err
	}
	p.V = make([]*ristretto.Point, count)
	for i := range p.V {
		if p.V[i], err = r.point(); err != nil {
			return nil, err
		}
	}
	for _, dst := range []**ristretto.Point{&p.A, &p.S, &p.T1, &p.T2} {
		if *dst, err = r.point(); err != nil {
			return nil, err
		}
	}
	if p.Taux, err = r.scalar(); err != nil {
		return nil, err
	}
	if p.Mu, err = r.scalar(); err != nil {
		return nil, err
	}
	rounds, err := r.count(log2(BULLETPROOF_BITS * BULLETPROOF_MAX_VALUES))
	if err != nil {
		return nil, err
	}
	p.L = make([]*ristretto.Point, rounds)
	p.R = make([]*ristretto.Point, rounds)
	for i := 0; i < rounds; i++ {
		if p.L[i], err = r.point(); err != nil {
			return nil, err
		}
		if p.R[i], err = r.point(); err != nil {
			return nil, err
		}
	}
	for _, dst := range []**ristretto.Scalar{&p.FinalA, &p.FinalB, &p.T} {
		if *dst, err = r.scalar(); err != nil {
			return nil, err
		}
	}
	if len(r.buf) != 0 {
		return nil, errors.Wrapf(ErrDecode, "bulletproof trailing %d bytes", len(r.buf))
	}
	return p, nil
}

type keyReader struct {
	buf []byte
}

func (r *keyReader) count(max int) (int, error) {
	n, size := binary.Uvarint(r.buf)
	if size <= 0 {
		return 0, errors.Wrap(ErrDecode, "bulletproof invalid count")
	}
	if n > uint64(max) {
		return 0, errors.Wrapf(ErrDecode, "bulletproof count %d over %d", n, max)
	}
	r.buf = r.buf[size:]
	return int(n), nil
}

func (r *keyReader) key() (Key, error) {
	if len(r.buf) < 32 {
		return Key{}, errors.Wrap(ErrDecode, "bulletproof truncated")
	}
	k := keyFromBytes(r.buf[:32])
	r.buf = r.buf[32:]
	return k, nil
}

func (r *keyReader) point() (*ristretto.Point, error) {
	k, err := r.key()
	if err != nil {
		return nil, err
	}
	p, err := k.Point()
	if err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}
	return p, nil
}

func (r *keyReader) scalar() (*ristretto.Scalar, error) {
	k, err := r.key()
	if err != nil {
		return nil, err
	}
	s, ok := k.canonicalScalar()
	if !ok {
		return nil, errors.Wrapf(ErrDecode, "bulletproof non canonical scalar %s", k)
	}
	return s, nil
}
