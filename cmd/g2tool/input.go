package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/eth2030/bls12381g2/crypto"
)

var errEmptyInput = errors.New("empty input")

// scalarModulus is the order r of G2 as a 256-bit integer.
var scalarModulus = uint256.MustFromBig(fr.Modulus())

// parseScalar reads a decimal or 0x-prefixed hex integer of at most 256 bits,
// reduces it modulo r and returns it as the little-endian bytes taken by
// G2Projective.Multiply.
func parseScalar(s string) ([crypto.ScalarBytes]byte, error) {
	var out [crypto.ScalarBytes]byte
	s = strings.TrimSpace(s)
	if s == "" {
		return out, errEmptyInput
	}
	var k *uint256.Int
	if hasHexPrefix(s) {
		b, err := hexutil.Decode(s)
		if err != nil {
			return out, fmt.Errorf("scalar %q: %w", s, err)
		}
		if len(b) > 32 {
			return out, fmt.Errorf("scalar %q: longer than 32 bytes", s)
		}
		k = new(uint256.Int).SetBytes(b)
	} else {
		var err error
		if k, err = uint256.FromDecimal(s); err != nil {
			return out, fmt.Errorf("scalar %q: %w", s, err)
		}
	}
	k.Mod(k, scalarModulus)
	be := k.Bytes32()
	for i := range be {
		out[i] = be[len(be)-1-i]
	}
	return out, nil
}

func hasHexPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// decodeHex accepts hex with or without a 0x prefix.
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errEmptyInput
	}
	if !hasHexPrefix(s) {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}

// parsePoint decodes a 96- or 192-byte hex encoding of a G2 point.
func parsePoint(s string, unchecked bool) (crypto.G2Affine, error) {
	b, err := decodeHex(s)
	if err != nil {
		return crypto.G2Affine{}, fmt.Errorf("point: %w", err)
	}
	return crypto.G2AffineFromBytes(b, unchecked)
}

// formatPoint renders p in the requested encoding.
func formatPoint(p crypto.G2Affine, uncompressed bool) string {
	if uncompressed {
		u := p.ToUncompressed()
		return hexutil.Encode(u[:])
	}
	c := p.ToCompressed()
	return hexutil.Encode(c[:])
}
