package crypto

// BLS12-381 G2 point operations over the twist curve y^2 = x^3 + 4(1+u)
// in F_p^2 where F_p^2 = F_p[u]/(u^2+1).
//
// Points are represented in homogeneous projective coordinates (X, Y, Z)
// standing for the affine point (X/Z, Y/Z); Z == 0 is the point at infinity.
// The group law uses the complete formulas of https://eprint.iacr.org/2015/1060
// so no operation branches on coordinate values.

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// ScalarBytes is the size of a little-endian scalar accepted by Multiply.
const ScalarBytes = fr.Bytes

// BLS parameter x = -0xd201000000010000.
const (
	blsX           uint64 = 0xd201_0000_0001_0000
	blsXIsNegative        = true
)

var (
	// blsTwistB is the twist curve coefficient b' = 4(1+u).
	blsTwistB Fp2
	// blsTwistB3 is 3b', used by the doubling and addition formulas.
	blsTwistB3 Fp2

	g2GenX, g2GenY Fp2

	// psiCoeffX = 1 / (u+1)^((p-1)/3)
	psiCoeffX = Fp2{
		C1: fp.Element{
			0x890dc9e4867545c3,
			0x2af322533285a5d5,
			0x50880866309b7e2c,
			0xa20d1b8c7e881024,
			0x14e4f04fe2db9068,
			0x14e56d3f1564853a,
		},
	}
	// psiCoeffY = 1 / (u+1)^((p-1)/2)
	psiCoeffY = Fp2{
		C0: fp.Element{
			0x3e2f585da55c9ad1,
			0x4294213d86c18183,
			0x382844c88b623732,
			0x92ad2afd19103e18,
			0x1d794e4fac7cf0b9,
			0x0bd592fc7d825ec8,
		},
		C1: fp.Element{
			0x7bcfa7a25aa30fda,
			0xdc17dec12a927e7c,
			0x2f088dd86b4ebef1,
			0xd1ca2087da74d4a7,
			0x2da2596696cebc1d,
			0x0e2b7eedbbfd87d2,
		},
	}
	// psi2CoeffX = 1 / 2^((p-1)/3)
	psi2CoeffX = Fp2{
		C0: fp.Element{
			0xcd03c9e48671f071,
			0x5dab22461fcda5d2,
			0x587042afd3851b95,
			0x8eb60ebe01bacb9e,
			0x03f97d6e83d050d2,
			0x18f0206554638741,
		},
	}
)

func init() {
	var four fp.Element
	four.SetUint64(4)
	blsTwistB = Fp2{C0: four, C1: four}
	blsTwistB3 = blsTwistB.Double().Add(blsTwistB)

	g2GenX = Fp2{
		C0: fpFromHex("024aa2b2f08f0a91260805272dc51051c6e47ad4fa403b02b4510b647ae3d1770bac0326a805bbefd48056c8c121bdb8"),
		C1: fpFromHex("13e02b6052719f607dacd3a088274f65596bd0d09920b61ab5da61bbdc7f5049334cf11213945d57e5ac7d055d042b7e"),
	}
	g2GenY = Fp2{
		C0: fpFromHex("0ce5d527727d6e118cc9cdc6da2e351aadfd9baa8cbdd3a76d429a695160d12c923ac9cc3baca289e193548608b82801"),
		C1: fpFromHex("0606c4a02ea734cc32acd2b02bc28b99cb3e287e85a763af267492ab572e99ab3f370d275cec1da1aaa9075ff05f79be"),
	}
}

// fpFromHex parses a domain constant. It panics on malformed input since the
// inputs are compile-time literals.
func fpFromHex(s string) fp.Element {
	b, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("bls12381: invalid field constant " + s)
	}
	var e fp.Element
	e.SetBigInt(b)
	return e
}

// G2Projective is a point on the BLS12-381 G2 twist curve in projective
// coordinates. It is a plain value; all operations return new points.
type G2Projective struct {
	x, y, z Fp2
}

// G2ProjectiveIdentity returns the point at infinity (0 : 1 : 0).
func G2ProjectiveIdentity() G2Projective {
	return G2Projective{x: Fp2Zero(), y: Fp2One(), z: Fp2Zero()}
}

// G2ProjectiveGenerator returns the standard generator of G2.
func G2ProjectiveGenerator() G2Projective {
	return G2Projective{x: g2GenX, y: g2GenY, z: Fp2One()}
}

// NewG2ProjectiveUnchecked builds a point from raw coordinates without
// checking the curve equation. Use IsOnCurve before trusting the result.
func NewG2ProjectiveUnchecked(x, y, z Fp2) G2Projective {
	return G2Projective{x: x, y: y, z: z}
}

// X returns the projective X coordinate.
func (p G2Projective) X() Fp2 { return p.x }

// Y returns the projective Y coordinate.
func (p G2Projective) Y() Fp2 { return p.y }

// Z returns the projective Z coordinate.
func (p G2Projective) Z() Fp2 { return p.z }

// SelectG2Projective returns a if c == 0 and b if c == 1.
func SelectG2Projective(a, b G2Projective, c Choice) G2Projective {
	return G2Projective{
		x: SelectFp2(a.x, b.x, c),
		y: SelectFp2(a.y, b.y, c),
		z: SelectFp2(a.z, b.z, c),
	}
}

// IsIdentity returns 1 iff p is the point at infinity.
func (p G2Projective) IsIdentity() Choice { return p.z.IsZero() }

// IsOnCurve checks Y^2 Z = X^3 + b Z^3, accepting the point at infinity.
func (p G2Projective) IsOnCurve() Choice {
	lhs := p.y.Square().Mul(p.z)
	rhs := p.x.Square().Mul(p.x).Add(p.z.Square().Mul(p.z).Mul(blsTwistB))
	return lhs.Equal(rhs).Or(p.z.IsZero())
}

// Equal compares p and q as affine points by cross multiplication:
// (X1 Z2, Y1 Z2) == (X2 Z1, Y2 Z1).
func (p G2Projective) Equal(q G2Projective) Choice {
	x1 := p.x.Mul(q.z)
	x2 := q.x.Mul(p.z)
	y1 := p.y.Mul(q.z)
	y2 := q.y.Mul(p.z)

	pZero := p.z.IsZero()
	qZero := q.z.IsZero()

	both := pZero.And(qZero)
	neither := pZero.Not().And(qZero.Not()).And(x1.Equal(x2)).And(y1.Equal(y2))
	return both.Or(neither)
}

// Neg returns -p.
func (p G2Projective) Neg() G2Projective {
	return G2Projective{x: p.x, y: p.y.Neg(), z: p.z}
}

// Double returns 2p.
func (p G2Projective) Double() G2Projective {
	// Algorithm 9, https://eprint.iacr.org/2015/1060.pdf
	t0 := p.y.Square()
	z3 := t0.Double().Double().Double()
	t1 := p.y.Mul(p.z)
	t2 := p.z.Square().Mul(blsTwistB3)
	x3 := t2.Mul(z3)
	y3 := t0.Add(t2)
	z3 = t1.Mul(z3)
	t1 = t2.Double()
	t2 = t1.Add(t2)
	t0 = t0.Sub(t2)
	y3 = t0.Mul(y3)
	y3 = x3.Add(y3)
	t1 = p.x.Mul(p.y)
	x3 = t0.Mul(t1)
	x3 = x3.Double()

	r := G2Projective{x: x3, y: y3, z: z3}
	return SelectG2Projective(r, G2ProjectiveIdentity(), p.IsIdentity())
}

// Add returns p + q. The formula is complete: it handles p == q, p == -q
// and either operand being the identity without special cases.
func (p G2Projective) Add(q G2Projective) G2Projective {
	// Algorithm 7, https://eprint.iacr.org/2015/1060.pdf
	t0 := p.x.Mul(q.x)
	t1 := p.y.Mul(q.y)
	t2 := p.z.Mul(q.z)
	t3 := p.x.Add(p.y)
	t4 := q.x.Add(q.y)
	t3 = t3.Mul(t4)
	t4 = t0.Add(t1)
	t3 = t3.Sub(t4)
	t4 = p.y.Add(p.z)
	x3 := q.y.Add(q.z)
	t4 = t4.Mul(x3)
	x3 = t1.Add(t2)
	t4 = t4.Sub(x3)
	x3 = p.x.Add(p.z)
	y3 := q.x.Add(q.z)
	x3 = x3.Mul(y3)
	y3 = t0.Add(t2)
	y3 = x3.Sub(y3)
	x3 = t0.Double()
	t0 = x3.Add(t0)
	t2 = t2.Mul(blsTwistB3)
	z3 := t1.Add(t2)
	t1 = t1.Sub(t2)
	y3 = y3.Mul(blsTwistB3)
	x3 = t4.Mul(y3)
	t2 = t3.Mul(t1)
	x3 = t2.Sub(x3)
	y3 = y3.Mul(t0)
	t1 = t1.Mul(z3)
	y3 = t1.Add(y3)
	t0 = t0.Mul(t3)
	z3 = z3.Mul(t4)
	z3 = z3.Add(t0)

	return G2Projective{x: x3, y: y3, z: z3}
}

// AddMixed returns p + q for an affine q, saving the multiplications by
// q's implicit Z = 1.
func (p G2Projective) AddMixed(q G2Affine) G2Projective {
	// Algorithm 8, https://eprint.iacr.org/2015/1060.pdf
	t0 := p.x.Mul(q.x)
	t1 := p.y.Mul(q.y)
	t3 := q.x.Add(q.y)
	t4 := p.x.Add(p.y)
	t3 = t3.Mul(t4)
	t4 = t0.Add(t1)
	t3 = t3.Sub(t4)
	t4 = q.y.Mul(p.z)
	t4 = t4.Add(p.y)
	y3 := q.x.Mul(p.z)
	y3 = y3.Add(p.x)
	x3 := t0.Double()
	t0 = x3.Add(t0)
	t2 := p.z.Mul(blsTwistB3)
	z3 := t1.Add(t2)
	t1 = t1.Sub(t2)
	y3 = y3.Mul(blsTwistB3)
	x3 = t4.Mul(y3)
	t2 = t3.Mul(t1)
	x3 = t2.Sub(x3)
	y3 = y3.Mul(t0)
	t1 = t1.Mul(z3)
	y3 = t1.Add(y3)
	t0 = t0.Mul(t3)
	z3 = z3.Mul(t4)
	z3 = z3.Add(t0)

	r := G2Projective{x: x3, y: y3, z: z3}
	return SelectG2Projective(r, p, q.IsIdentity())
}

// Sub returns p - q.
func (p G2Projective) Sub(q G2Projective) G2Projective { return p.Add(q.Neg()) }

// SubMixed returns p - q for an affine q.
func (p G2Projective) SubMixed(q G2Affine) G2Projective { return p.AddMixed(q.Neg()) }

// SumG2 returns the sum of all points, or the identity for an empty list.
func SumG2(points ...G2Projective) G2Projective {
	acc := G2ProjectiveIdentity()
	for _, p := range points {
		acc = acc.Add(p)
	}
	return acc
}

// multiply computes [k]p for a little-endian scalar k with double-and-add,
// most significant bit first. The top bit of the encoding is skipped since
// canonical scalars are below 2^255.
func (p G2Projective) multiply(by []byte) G2Projective {
	acc := G2ProjectiveIdentity()
	for i := len(by) - 1; i >= 0; i-- {
		for j := 7; j >= 0; j-- {
			if i == len(by)-1 && j == 7 {
				continue
			}
			bit := ChoiceOf(uint64(by[i] >> uint(j)))
			acc = acc.Double()
			acc = SelectG2Projective(acc, acc.Add(p), bit)
		}
	}
	return acc
}

// Multiply returns [k]p for the little-endian scalar encoding k. The
// running time does not depend on the value of k.
func (p G2Projective) Multiply(k [ScalarBytes]byte) G2Projective {
	return p.multiply(k[:])
}

// MulScalar returns [s]p.
func (p G2Projective) MulScalar(s *fr.Element) G2Projective {
	return p.Multiply(scalarToLittleEndian(s))
}

// scalarToLittleEndian returns the canonical little-endian encoding of s.
func scalarToLittleEndian(s *fr.Element) [ScalarBytes]byte {
	be := s.Bytes()
	var le [ScalarBytes]byte
	for i := range be {
		le[i] = be[ScalarBytes-1-i]
	}
	return le
}

// psi applies the untwist-Frobenius-twist endomorphism.
func (p G2Projective) psi() G2Projective {
	return G2Projective{
		// x = frobenius(x) / (u+1)^((p-1)/3)
		x: p.x.FrobeniusMap().Mul(psiCoeffX),
		// y = frobenius(y) / (u+1)^((p-1)/2)
		y: p.y.FrobeniusMap().Mul(psiCoeffY),
		z: p.z.FrobeniusMap(),
	}
}

// psi2 applies psi twice. Frobenius squared is the identity on F_p^2, which
// leaves a scaling of x and a negation of y.
func (p G2Projective) psi2() G2Projective {
	return G2Projective{
		x: p.x.Mul(psi2CoeffX),
		y: p.y.Neg(),
		z: p.z,
	}
}

// mulByX returns [x]p for the BLS parameter x. The parameter is public, so
// the loop branches on its bits.
func (p G2Projective) mulByX() G2Projective {
	xself := G2ProjectiveIdentity()
	// The lowest bit of x is zero, so start from 2p.
	x := blsX >> 1
	acc := p
	for x != 0 {
		acc = acc.Double()
		if x&1 == 1 {
			xself = xself.Add(acc)
		}
		x >>= 1
	}
	if blsXIsNegative {
		xself = xself.Neg()
	}
	return xself
}

// ClearCofactor maps any curve point into the prime-order subgroup by
// multiplying with h_eff = 3(x^2 - 1) * h2, using the Budroni-Pintore
// decomposition (https://ia.cr/2017/419):
//
//	h_eff P = psi^2(2P) + [x^2 - x - 1]P + [x - 1]psi(P)
func (p G2Projective) ClearCofactor() G2Projective {
	t1 := p.mulByX() // [x]P
	t2 := p.psi()    // psi(P)

	r := p.Double().psi2()         // psi^2(2P)
	r = r.Add(t1.Add(t2).mulByX()) // + [x^2]P + [x]psi(P)
	r = r.Sub(t1)                  // + [x^2 - x]P
	r = r.Sub(t2)                  // + [x - 1]psi(P)
	return r.Sub(p)                // + [x^2 - x - 1]P
}

// ToAffine converts p to affine coordinates with one inversion.
func (p G2Projective) ToAffine() G2Affine {
	zinv, _ := p.z.Invert()
	r := G2Affine{x: p.x.Mul(zinv), y: p.y.Mul(zinv)}
	return SelectG2Affine(r, G2AffineIdentity(), zinv.IsZero())
}

// recommendedWnafTable lists the scalar counts above which the w-NAF window
// should grow by one, starting from 4.
var recommendedWnafTable = [...]int{1, 3, 8, 20, 47, 126, 260, 826, 1501, 4555, 84071}

// RecommendedWnafWindow returns the w-NAF window width suited to
// multiplying one G2 base by numScalars scalars.
func RecommendedWnafWindow(numScalars int) int {
	w := 4
	for _, r := range recommendedWnafTable {
		if numScalars <= r {
			break
		}
		w++
	}
	return w
}
