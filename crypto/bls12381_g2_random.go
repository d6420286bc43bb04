package crypto

import (
	"errors"
	"fmt"
	"io"
)

// wideFpBytes is the number of random bytes reduced into one base field
// element, giving a negligible bias.
const wideFpBytes = 64

// ErrRandomSource is returned when the entropy reader fails.
var ErrRandomSource = errors.New("bls12381: random source failed")

// RandomG2 samples a uniformly distributed non-identity point of G2 from r.
// It draws x at random until x^3 + b is a square, picks the sign of y from
// one more random bit and clears the cofactor.
func RandomG2(r io.Reader) (G2Projective, error) {
	var buf [2*wideFpBytes + 1]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return G2Projective{}, fmt.Errorf("%w: %w", ErrRandomSource, err)
		}
		x := Fp2{
			C0: fpFromWide(buf[:wideFpBytes]),
			C1: fpFromWide(buf[wideFpBytes : 2*wideFpBytes]),
		}
		flip := ChoiceOf(uint64(buf[2*wideFpBytes]))

		y, ok := x.Square().Mul(x).Add(blsTwistB).Sqrt()
		if !ok.Bool() {
			continue
		}
		y = SelectFp2(y, y.Neg(), flip)

		p := NewG2AffineUnchecked(x, y).ToProjective().ClearCofactor()
		if p.IsIdentity().Bool() {
			continue
		}
		return p, nil
	}
}
