package crypto

// Constant-time building blocks for the BLS12-381 G2 engine.
//
// Every conditional on coordinate or scalar data is expressed through a
// Choice and mask arithmetic rather than Go control flow. A Choice only
// becomes a native bool at API boundaries (Bool), where the caller has
// already decided the result is public.

import (
	"crypto/subtle"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
)

// Choice is a secret boolean holding 0 or 1. It is an integer rather than a
// bool so that combining choices stays in straight-line arithmetic.
type Choice uint64

// ChoiceOf returns a Choice from the lowest bit of b.
func ChoiceOf(b uint64) Choice { return Choice(b & 1) }

// And returns c & d.
func (c Choice) And(d Choice) Choice { return c & d }

// Or returns c | d.
func (c Choice) Or(d Choice) Choice { return c | d }

// Xor returns c ^ d.
func (c Choice) Xor(d Choice) Choice { return c ^ d }

// Not returns the negation of c.
func (c Choice) Not() Choice { return c ^ 1 }

// Bool declassifies c. Only call this on values that are safe to branch on.
func (c Choice) Bool() bool { return c == 1 }

// mask returns all ones when c is 1 and zero otherwise.
func (c Choice) mask() uint64 { return -uint64(c) }

// ctIsZeroU64 returns 1 iff v == 0.
func ctIsZeroU64(v uint64) Choice {
	// (v | -v) has its top bit set for every v != 0.
	return Choice(((v | -v) >> 63) ^ 1)
}

// ctSelectU64 returns a if c == 0 and b if c == 1.
func ctSelectU64(a, b uint64, c Choice) uint64 {
	return a ^ (c.mask() & (a ^ b))
}

// ctSelectByte returns a if c == 0 and b if c == 1.
func ctSelectByte(a, b byte, c Choice) byte {
	return byte(subtle.ConstantTimeSelect(int(c), int(b), int(a)))
}

// ctSelectChoice returns a if c == 0 and b if c == 1.
func ctSelectChoice(a, b, c Choice) Choice {
	return Choice(ctSelectU64(uint64(a), uint64(b), c))
}

// fpIsZero reports whether every limb of e is zero.
func fpIsZero(e *fp.Element) Choice {
	var acc uint64
	for i := range e {
		acc |= e[i]
	}
	return ctIsZeroU64(acc)
}

// fpEqual compares two field elements limb by limb. Both are kept reduced by
// gnark-crypto, so limb equality is value equality.
func fpEqual(a, b *fp.Element) Choice {
	var acc uint64
	for i := range a {
		acc |= a[i] ^ b[i]
	}
	return ctIsZeroU64(acc)
}

// fpSelect returns a if c == 0 and b if c == 1.
func fpSelect(a, b *fp.Element, c Choice) fp.Element {
	var r fp.Element
	m := c.mask()
	for i := range r {
		r[i] = a[i] ^ (m & (a[i] ^ b[i]))
	}
	return r
}
