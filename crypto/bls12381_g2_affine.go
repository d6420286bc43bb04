package crypto

// G2Affine is a point in affine coordinates. The identity carries the
// infinity flag with coordinates (0, 1) so that every representation of it
// is identical.
type G2Affine struct {
	x, y     Fp2
	infinity Choice
}

// G2AffineIdentity returns the point at infinity.
func G2AffineIdentity() G2Affine {
	return G2Affine{x: Fp2Zero(), y: Fp2One(), infinity: 1}
}

// G2AffineGenerator returns the standard generator of G2.
func G2AffineGenerator() G2Affine {
	return G2Affine{x: g2GenX, y: g2GenY}
}

// NewG2AffineUnchecked builds a finite point from raw coordinates without
// validating the curve equation or subgroup membership.
func NewG2AffineUnchecked(x, y Fp2) G2Affine {
	return G2Affine{x: x, y: y}
}

// X returns the affine x coordinate (zero for the identity).
func (p G2Affine) X() Fp2 { return p.x }

// Y returns the affine y coordinate (one for the identity).
func (p G2Affine) Y() Fp2 { return p.y }

// SelectG2Affine returns a if c == 0 and b if c == 1.
func SelectG2Affine(a, b G2Affine, c Choice) G2Affine {
	return G2Affine{
		x:        SelectFp2(a.x, b.x, c),
		y:        SelectFp2(a.y, b.y, c),
		infinity: ctSelectChoice(a.infinity, b.infinity, c),
	}
}

// IsIdentity returns 1 iff p is the point at infinity.
func (p G2Affine) IsIdentity() Choice { return p.infinity }

// IsOnCurve checks y^2 = x^3 + b, accepting the identity.
func (p G2Affine) IsOnCurve() Choice {
	lhs := p.y.Square()
	rhs := p.x.Square().Mul(p.x).Add(blsTwistB)
	return lhs.Equal(rhs).Or(p.infinity)
}

// IsTorsionFree returns 1 iff p lies in the prime-order subgroup. It uses
// the endomorphism test psi(P) == [x]P from https://eprint.iacr.org/2021/1130
// (proved in https://eprint.iacr.org/2022/352), which is much cheaper than
// multiplying by the group order.
func (p G2Affine) IsTorsionFree() Choice {
	q := p.ToProjective()
	return q.psi().Equal(q.mulByX())
}

// Equal returns 1 iff p and q are the same point. Two identities compare
// equal regardless of their coordinates.
func (p G2Affine) Equal(q G2Affine) Choice {
	both := p.infinity.And(q.infinity)
	neither := p.infinity.Not().And(q.infinity.Not()).And(p.x.Equal(q.x)).And(p.y.Equal(q.y))
	return both.Or(neither)
}

// Neg returns -p. The identity keeps y = 1 so that it stays canonical.
func (p G2Affine) Neg() G2Affine {
	return G2Affine{
		x:        p.x,
		y:        SelectFp2(p.y.Neg(), Fp2One(), p.infinity),
		infinity: p.infinity,
	}
}

// ToProjective lifts p to projective coordinates with Z = 1, or to the
// projective identity.
func (p G2Affine) ToProjective() G2Projective {
	r := G2Projective{x: p.x, y: p.y, z: Fp2One()}
	return SelectG2Projective(r, G2ProjectiveIdentity(), p.infinity)
}

// Add returns p + q in projective form.
func (p G2Affine) Add(q G2Projective) G2Projective { return q.AddMixed(p) }

// Sub returns p - q in projective form.
func (p G2Affine) Sub(q G2Projective) G2Projective { return q.Neg().AddMixed(p) }

// Multiply returns [k]p for a little-endian scalar encoding.
func (p G2Affine) Multiply(k [ScalarBytes]byte) G2Projective {
	return p.ToProjective().Multiply(k)
}

// String renders the point for debugging.
func (p G2Affine) String() string {
	if p.infinity.Bool() {
		return "G2(infinity)"
	}
	return "G2(" + p.x.String() + ", " + p.y.String() + ")"
}
