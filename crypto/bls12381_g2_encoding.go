package crypto

// Wire encodings for G2 points, compatible with the zcash BLS12-381
// serialization used by Ethereum consensus and the IETF BLS drafts.
//
// Byte 0 carries three flags in its top bits:
//
//	bit 7: compression (set in the 96-byte form, clear in the 192-byte form)
//	bit 6: point at infinity
//	bit 5: y is the lexicographically largest root (compressed form only)
//
// Coordinates are written c1 first, each as a 48-byte big-endian integer.

import (
	"crypto/subtle"
	"errors"
	"fmt"
)

const (
	// G2CompressedSize is the size of a compressed G2 encoding.
	G2CompressedSize = 2 * FpBytes
	// G2UncompressedSize is the size of an uncompressed G2 encoding.
	G2UncompressedSize = 4 * FpBytes

	flagCompression byte = 1 << 7
	flagInfinity    byte = 1 << 6
	flagSort        byte = 1 << 5
	flagMask        byte = 0x1f
)

// ErrInvalidG2Encoding is returned for any byte string that does not decode
// to a point under the requested checks.
var ErrInvalidG2Encoding = errors.New("bls12381: invalid G2 point encoding")

// G2Compressed is the 96-byte compressed encoding of a G2 point.
type G2Compressed [G2CompressedSize]byte

// G2Uncompressed is the 192-byte uncompressed encoding of a G2 point.
type G2Uncompressed [G2UncompressedSize]byte

// Equal compares two encodings in constant time.
func (c G2Compressed) Equal(o G2Compressed) bool {
	return subtle.ConstantTimeCompare(c[:], o[:]) == 1
}

// Equal compares two encodings in constant time.
func (u G2Uncompressed) Equal(o G2Uncompressed) bool {
	return subtle.ConstantTimeCompare(u[:], o[:]) == 1
}

// putFp2 writes c1 then c0 into dst, which must be 96 bytes long.
func putFp2(dst []byte, e Fp2) {
	c1 := e.C1.Bytes()
	c0 := e.C0.Bytes()
	copy(dst[:FpBytes], c1[:])
	copy(dst[FpBytes:2*FpBytes], c0[:])
}

// readFp2 decodes c1 then c0 from a 96-byte slice. Byte 0 of the c1 limb is
// masked when clearFlags is set.
func readFp2(src []byte, clearFlags bool) (Fp2, Choice) {
	var hi [FpBytes]byte
	copy(hi[:], src[:FpBytes])
	if clearFlags {
		hi[0] &= flagMask
	}
	c1, ok1 := fpFromBytes(hi[:])
	c0, ok0 := fpFromBytes(src[FpBytes : 2*FpBytes])
	return Fp2{C0: c0, C1: c1}, ok1.And(ok0)
}

// readFlags extracts the compression, infinity and sort flags from byte 0.
func readFlags(b0 byte) (compression, infinity, sort Choice) {
	return ChoiceOf(uint64(b0 >> 7)), ChoiceOf(uint64(b0 >> 6)), ChoiceOf(uint64(b0 >> 5))
}

// ToCompressed encodes p in the 96-byte form.
func (p G2Affine) ToCompressed() G2Compressed {
	// The identity encodes x as zero regardless of its stored coordinates.
	x := SelectFp2(p.x, Fp2Zero(), p.infinity)

	var res G2Compressed
	putFp2(res[:], x)

	res[0] |= flagCompression
	res[0] |= ctSelectByte(0, flagInfinity, p.infinity)
	res[0] |= ctSelectByte(0, flagSort, p.infinity.Not().And(p.y.LexicographicallyLargest()))
	return res
}

// ToUncompressed encodes p in the 192-byte form.
func (p G2Affine) ToUncompressed() G2Uncompressed {
	x := SelectFp2(p.x, Fp2Zero(), p.infinity)
	y := SelectFp2(p.y, Fp2Zero(), p.infinity)

	var res G2Uncompressed
	putFp2(res[:G2CompressedSize], x)
	putFp2(res[G2CompressedSize:], y)

	res[0] |= ctSelectByte(0, flagInfinity, p.infinity)
	return res
}

func decodeCompressed(b *G2Compressed) (G2Affine, Choice) {
	compression, infinity, sort := readFlags(b[0])
	x, decoded := readFp2(b[:], true)

	// Identity: only the compression and infinity flags may be set and
	// x must be zero.
	identityOK := infinity.And(compression).And(sort.Not()).And(x.IsZero())

	// Finite point: y = sqrt(x^3 + b), negated when its sign disagrees
	// with the sort flag. A successful sqrt puts the point on the curve.
	y, hasRoot := x.Square().Mul(x).Add(blsTwistB).Sqrt()
	y = SelectFp2(y, y.Neg(), y.LexicographicallyLargest().Xor(sort))
	pointOK := hasRoot.And(infinity.Not()).And(compression)

	p := SelectG2Affine(G2Affine{x: x, y: y}, G2AffineIdentity(), infinity)
	return p, decoded.And(ctSelectChoice(pointOK, identityOK, infinity))
}

func decodeUncompressed(b *G2Uncompressed) (G2Affine, Choice) {
	compression, infinity, sort := readFlags(b[0])
	x, okX := readFp2(b[:G2CompressedSize], true)
	y, okY := readFp2(b[G2CompressedSize:], false)

	p := SelectG2Affine(G2Affine{x: x, y: y}, G2AffineIdentity(), infinity)

	// With the infinity flag set both coordinates must be zero.
	zeroCoords := x.IsZero().And(y.IsZero())
	infinityOK := infinity.Not().Or(zeroCoords)

	ok := okX.And(okY).
		And(infinityOK).
		And(compression.Not()).
		And(sort.Not()).
		And(p.IsOnCurve())
	return p, ok
}

// G2AffineFromCompressedUnchecked decodes a 96-byte encoding without the
// subgroup check. The result is on the curve but may have a small-order
// component; only use it for trusted input.
func G2AffineFromCompressedUnchecked(b *G2Compressed) (G2Affine, error) {
	p, ok := decodeCompressed(b)
	if !ok.Bool() {
		return G2Affine{}, ErrInvalidG2Encoding
	}
	return p, nil
}

// G2AffineFromCompressed decodes a 96-byte encoding and checks that the
// point lies in G2.
func G2AffineFromCompressed(b *G2Compressed) (G2Affine, error) {
	p, ok := decodeCompressed(b)
	if !ok.And(p.IsTorsionFree()).Bool() {
		return G2Affine{}, ErrInvalidG2Encoding
	}
	return p, nil
}

// G2AffineFromUncompressedUnchecked decodes a 192-byte encoding, checking
// the flags and the curve equation but not subgroup membership. Only use it
// for trusted input.
func G2AffineFromUncompressedUnchecked(b *G2Uncompressed) (G2Affine, error) {
	p, ok := decodeUncompressed(b)
	if !ok.Bool() {
		return G2Affine{}, ErrInvalidG2Encoding
	}
	return p, nil
}

// G2AffineFromUncompressed decodes a 192-byte encoding and checks that the
// point lies in G2.
func G2AffineFromUncompressed(b *G2Uncompressed) (G2Affine, error) {
	p, ok := decodeUncompressed(b)
	if !ok.And(p.IsTorsionFree()).Bool() {
		return G2Affine{}, ErrInvalidG2Encoding
	}
	return p, nil
}

// G2AffineFromBytes decodes either encoding width, selected by len(b).
// When unchecked is false the subgroup check is applied.
func G2AffineFromBytes(b []byte, unchecked bool) (G2Affine, error) {
	switch len(b) {
	case G2CompressedSize:
		var c G2Compressed
		copy(c[:], b)
		if unchecked {
			return G2AffineFromCompressedUnchecked(&c)
		}
		return G2AffineFromCompressed(&c)
	case G2UncompressedSize:
		var u G2Uncompressed
		copy(u[:], b)
		if unchecked {
			return G2AffineFromUncompressedUnchecked(&u)
		}
		return G2AffineFromUncompressed(&u)
	default:
		return G2Affine{}, fmt.Errorf("%w: length %d", ErrInvalidG2Encoding, len(b))
	}
}

// MarshalBinary implements encoding.BinaryMarshaler using the compressed
// form.
func (p G2Affine) MarshalBinary() ([]byte, error) {
	c := p.ToCompressed()
	return c[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. It accepts both
// widths and always performs the subgroup check.
func (p *G2Affine) UnmarshalBinary(data []byte) error {
	q, err := G2AffineFromBytes(data, false)
	if err != nil {
		return err
	}
	*p = q
	return nil
}
