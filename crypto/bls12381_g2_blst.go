//go:build blst

// Bridge between the pure-Go G2 engine and the supranational/blst library.
//
// Points cross the boundary through their uncompressed zcash encoding, which
// both sides produce and accept, so no internal representation is shared.
//
// Build with: go build -tags blst
// Test with:  go test -tags blst ./crypto/ -run Blst
package crypto

import (
	"errors"

	blst "github.com/supranational/blst/bindings/go"
)

// Errors returned by the blst bridge.
var (
	ErrBlstInvalidPoint = errors.New("blst: invalid G2 point")
	ErrBlstNotInGroup   = errors.New("blst: G2 point not in subgroup")
)

// ToBlst converts p to a blst affine point.
func (p G2Affine) ToBlst() (*blst.P2Affine, error) {
	u := p.ToUncompressed()
	q := new(blst.P2Affine).Deserialize(u[:])
	if q == nil {
		return nil, ErrBlstInvalidPoint
	}
	return q, nil
}

// G2AffineFromBlst converts a blst affine point, rejecting points outside G2.
func G2AffineFromBlst(q *blst.P2Affine) (G2Affine, error) {
	if q == nil {
		return G2Affine{}, ErrBlstInvalidPoint
	}
	if !q.InG2() {
		return G2Affine{}, ErrBlstNotInGroup
	}
	var u G2Uncompressed
	copy(u[:], q.Serialize())
	return G2AffineFromUncompressed(&u)
}
