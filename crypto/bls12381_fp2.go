package crypto

// BLS12-381 extension field F_p^2 = F_p[u] / (u^2 + 1).
//
// Elements are represented as (C0 + C1*u) with C0, C1 in F_p. The base field
// comes from gnark-crypto; this file adds the degree-2 tower on top of it
// with the constant-time helpers the G2 engine consumes.

import (
	"encoding/binary"
	"math/big"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
)

// FpBytes is the size of a big-endian base field encoding.
const FpBytes = fp.Bytes

// Fp2 is an element of F_p^2 as (C0 + C1*u). The zero value is 0.
type Fp2 struct {
	C0, C1 fp.Element
}

var (
	// fpHalfModulus holds (p-1)/2 as little-endian limbs; an element is
	// lexicographically largest when its canonical value exceeds it.
	fpHalfModulus [fp.Limbs]uint64

	// fp2SqrtExp1 = (p-3)/4 and fp2SqrtExp2 = (p-1)/2 drive Fp2.Sqrt.
	fp2SqrtExp1, fp2SqrtExp2 *big.Int
)

func init() {
	p := fp.Modulus()
	half := new(big.Int).Rsh(new(big.Int).Sub(p, big.NewInt(1)), 1)
	var buf [FpBytes]byte
	half.FillBytes(buf[:])
	fpHalfModulus = limbsFromBytes(&buf)

	fp2SqrtExp1 = new(big.Int).Rsh(new(big.Int).Sub(p, big.NewInt(3)), 2)
	fp2SqrtExp2 = half
}

// limbsFromBytes reads a 48-byte big-endian integer into little-endian limbs.
func limbsFromBytes(b *[FpBytes]byte) [fp.Limbs]uint64 {
	var l [fp.Limbs]uint64
	for i := 0; i < fp.Limbs; i++ {
		off := FpBytes - 8*(i+1)
		l[i] = binary.BigEndian.Uint64(b[off : off+8])
	}
	return l
}

// fpLexicographicallyLargest returns 1 iff the canonical value of e is
// greater than (p-1)/2.
func fpLexicographicallyLargest(e *fp.Element) Choice {
	b := e.Bytes()
	v := limbsFromBytes(&b)
	var borrow uint64
	for i := 0; i < fp.Limbs; i++ {
		_, borrow = bits.Sub64(fpHalfModulus[i], v[i], borrow)
	}
	// half - v borrows exactly when v > half.
	return Choice(borrow)
}

// fpFromBytes decodes a canonical big-endian field element. The returned
// Choice is 0 if the bytes encode a value >= p.
func fpFromBytes(b []byte) (fp.Element, Choice) {
	var e fp.Element
	if err := e.SetBytesCanonical(b); err != nil {
		return fp.Element{}, 0
	}
	return e, 1
}

// Fp2Zero returns 0.
func Fp2Zero() Fp2 { return Fp2{} }

// Fp2One returns 1.
func Fp2One() Fp2 {
	var r Fp2
	r.C0.SetOne()
	return r
}

// NewFp2 builds C0 + C1*u.
func NewFp2(c0, c1 fp.Element) Fp2 { return Fp2{C0: c0, C1: c1} }

// IsZero returns 1 iff a == 0.
func (a Fp2) IsZero() Choice {
	return fpIsZero(&a.C0).And(fpIsZero(&a.C1))
}

// Equal returns 1 iff a == b.
func (a Fp2) Equal(b Fp2) Choice {
	return fpEqual(&a.C0, &b.C0).And(fpEqual(&a.C1, &b.C1))
}

// SelectFp2 returns a if c == 0 and b if c == 1.
func SelectFp2(a, b Fp2, c Choice) Fp2 {
	return Fp2{
		C0: fpSelect(&a.C0, &b.C0, c),
		C1: fpSelect(&a.C1, &b.C1, c),
	}
}

// Add returns a + b.
func (a Fp2) Add(b Fp2) Fp2 {
	var r Fp2
	r.C0.Add(&a.C0, &b.C0)
	r.C1.Add(&a.C1, &b.C1)
	return r
}

// Sub returns a - b.
func (a Fp2) Sub(b Fp2) Fp2 {
	var r Fp2
	r.C0.Sub(&a.C0, &b.C0)
	r.C1.Sub(&a.C1, &b.C1)
	return r
}

// Double returns 2a.
func (a Fp2) Double() Fp2 {
	var r Fp2
	r.C0.Double(&a.C0)
	r.C1.Double(&a.C1)
	return r
}

// Neg returns -a.
func (a Fp2) Neg() Fp2 {
	var r Fp2
	r.C0.Neg(&a.C0)
	r.C1.Neg(&a.C1)
	return r
}

// Mul returns a * b.
// (a0 + a1*u)(b0 + b1*u) = (a0*b0 - a1*b1) + ((a0+a1)(b0+b1) - a0*b0 - a1*b1)*u
func (a Fp2) Mul(b Fp2) Fp2 {
	var v0, v1, s0, s1 fp.Element
	v0.Mul(&a.C0, &b.C0)
	v1.Mul(&a.C1, &b.C1)
	s0.Add(&a.C0, &a.C1)
	s1.Add(&b.C0, &b.C1)

	var r Fp2
	r.C0.Sub(&v0, &v1)
	r.C1.Mul(&s0, &s1)
	r.C1.Sub(&r.C1, &v0)
	r.C1.Sub(&r.C1, &v1)
	return r
}

// MulByFp returns a * s for s in the base field.
func (a Fp2) MulByFp(s *fp.Element) Fp2 {
	var r Fp2
	r.C0.Mul(&a.C0, s)
	r.C1.Mul(&a.C1, s)
	return r
}

// Square returns a^2 using (a0+a1)(a0-a1) + 2*a0*a1*u.
func (a Fp2) Square() Fp2 {
	var s, d, p fp.Element
	s.Add(&a.C0, &a.C1)
	d.Sub(&a.C0, &a.C1)
	p.Mul(&a.C0, &a.C1)

	var r Fp2
	r.C0.Mul(&s, &d)
	r.C1.Double(&p)
	return r
}

// Conjugate returns C0 - C1*u.
func (a Fp2) Conjugate() Fp2 {
	r := a
	r.C1.Neg(&a.C1)
	return r
}

// FrobeniusMap raises a to the p-th power, which in this tower is
// conjugation.
func (a Fp2) FrobeniusMap() Fp2 { return a.Conjugate() }

// Invert returns 1/a. The Choice is 0 when a == 0, in which case the
// returned value is 0.
// (a0 + a1*u)^(-1) = (a0 - a1*u) / (a0^2 + a1^2)
func (a Fp2) Invert() (Fp2, Choice) {
	var t0, t1 fp.Element
	t0.Square(&a.C0)
	t1.Square(&a.C1)
	t0.Add(&t0, &t1)
	t1.Inverse(&t0)

	var r Fp2
	r.C0.Mul(&a.C0, &t1)
	r.C1.Mul(&a.C1, &t1)
	r.C1.Neg(&r.C1)
	return r, a.IsZero().Not()
}

// expPublic returns a^e. The exponent is public so the loop may branch on
// its bits; the base is processed uniformly.
func (a Fp2) expPublic(e *big.Int) Fp2 {
	r := Fp2One()
	for i := e.BitLen() - 1; i >= 0; i-- {
		r = r.Square()
		if e.Bit(i) == 1 {
			r = r.Mul(a)
		}
	}
	return r
}

// Sqrt returns a square root of a. The Choice is 0 when a is a quadratic
// non-residue.
//
// Algorithm 9 of https://eprint.iacr.org/2012/685 with the case split
// replaced by selects.
func (a Fp2) Sqrt() (Fp2, Choice) {
	// a1 = a^((p-3)/4)
	a1 := a.expPublic(fp2SqrtExp1)
	// alpha = a^((p-1)/2)
	alpha := a1.Square().Mul(a)
	// x0 = a^((p+1)/4)
	x0 := a1.Mul(a)

	// alpha == -1 means a lies in the subfield; its root is x0 * u.
	minusOne := Fp2One().Neg()
	var subfield Fp2
	subfield.C0.Neg(&x0.C1)
	subfield.C1 = x0.C0

	general := alpha.Add(Fp2One()).expPublic(fp2SqrtExp2).Mul(x0)

	root := SelectFp2(general, subfield, alpha.Equal(minusOne))
	root = SelectFp2(root, Fp2Zero(), a.IsZero())
	return root, root.Square().Equal(a)
}

// LexicographicallyLargest returns 1 iff a is the larger of {a, -a} in the
// ordering that compares C1 first and falls back to C0 when C1 == 0.
func (a Fp2) LexicographicallyLargest() Choice {
	c1 := fpLexicographicallyLargest(&a.C1)
	c0 := fpLexicographicallyLargest(&a.C0)
	return c1.Or(fpIsZero(&a.C1).And(c0))
}

// String renders the element for debugging.
func (a Fp2) String() string {
	return a.C0.String() + "+" + a.C1.String() + "*u"
}
