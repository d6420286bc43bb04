package crypto

// BatchNormalizeG2 converts every point in p to affine form, writing the
// results to q. It performs a single field inversion for the whole batch
// (Montgomery's trick) and handles identities without branching.
//
// It panics if len(p) != len(q).
func BatchNormalizeG2(p []G2Projective, q []G2Affine) {
	if len(p) != len(q) {
		panic("bls12381: BatchNormalizeG2 length mismatch")
	}

	acc := Fp2One()
	for i := range p {
		// q[i].x holds the running product of the non-identity z values
		// preceding index i.
		q[i].x = acc
		acc = SelectFp2(acc.Mul(p[i].z), acc, p[i].IsIdentity())
	}

	// The product of non-zero values is non-zero, so this always succeeds.
	acc, _ = acc.Invert()

	for i := len(p) - 1; i >= 0; i-- {
		skip := p[i].IsIdentity()

		// acc * (product before i) = 1 / z_i
		zinv := q[i].x.Mul(acc)

		// Drop z_i from the running inverse.
		acc = SelectFp2(acc.Mul(p[i].z), acc, skip)

		q[i].x = p[i].x.Mul(zinv)
		q[i].y = p[i].y.Mul(zinv)
		q[i].infinity = 0

		q[i] = SelectG2Affine(q[i], G2AffineIdentity(), skip)
	}
}

// BatchToAffineG2 is a convenience wrapper around BatchNormalizeG2 that
// allocates the output slice.
func BatchToAffineG2(p []G2Projective) []G2Affine {
	q := make([]G2Affine, len(p))
	BatchNormalizeG2(p, q)
	return q
}
