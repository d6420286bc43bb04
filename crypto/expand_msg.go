package crypto

// Message expansion from RFC 9380 section 5.3: expand_message_xmd over any
// Merkle-Damgard hash (SHA-256 for this curve's suites) and expand_message_xof with SHAKE-128 or SHAKE-256. Every expander
// is an io.Reader that yields exactly the requested number of bytes.

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"
	"golang.org/x/crypto/sha3"
)

const (
	maxDSTLength      = 255
	maxExpandedLength = 65535
	maxXMDBlocks      = 255

	// hashToFieldL is the per-element byte length L = ceil((381 + 128) / 8).
	hashToFieldL = 64

	// xofOversizeDSTLength is ceil(2k/8) for the 128-bit security level.
	xofOversizeDSTLength = 32
)

var oversizeDSTSalt = []byte("H2C-OVERSIZE-DST-")

var (
	ErrExpandLength = errors.New("bls12381: requested expansion length out of range")
	ErrEmptyDST     = errors.New("bls12381: empty domain separation tag")
)

// xmdExpander streams expand_message_xmd output one hash block at a time.
type xmdExpander struct {
	h         hash.Hash
	dstPrime  []byte
	b0        []byte
	bi        []byte
	index     byte
	offset    int
	remaining int
}

// NewExpanderXMD returns a reader producing expand_message_xmd(msg, dst,
// length) over the hash built by newHash, e.g. sha256.New. DSTs longer than
// 255 bytes are hashed first.
func NewExpanderXMD(newHash func() hash.Hash, msg, dst []byte, length int) (io.Reader, error) {
	h := newHash()
	size := h.Size()
	if length < 0 || length > maxExpandedLength || (length+size-1)/size > maxXMDBlocks {
		return nil, fmt.Errorf("%w: %d", ErrExpandLength, length)
	}
	if len(dst) == 0 {
		return nil, ErrEmptyDST
	}
	if len(dst) > maxDSTLength {
		h.Write(oversizeDSTSalt)
		h.Write(dst)
		dst = h.Sum(nil)
		h.Reset()
	}
	dstPrime := append(append([]byte{}, dst...), byte(len(dst)))

	var lib [2]byte
	binary.BigEndian.PutUint16(lib[:], uint16(length))

	// b_0 = H(Z_pad || msg || l_i_b_str || 0 || DST_prime)
	h.Write(make([]byte, h.BlockSize()))
	h.Write(msg)
	h.Write(lib[:])
	h.Write([]byte{0})
	h.Write(dstPrime)
	b0 := h.Sum(nil)

	// b_1 = H(b_0 || 1 || DST_prime)
	h.Reset()
	h.Write(b0)
	h.Write([]byte{1})
	h.Write(dstPrime)
	b1 := h.Sum(nil)

	return &xmdExpander{
		h:         h,
		dstPrime:  dstPrime,
		b0:        b0,
		bi:        b1,
		index:     1,
		remaining: length,
	}, nil
}

// next advances to b_(i+1) = H(b_0 xor b_i || i+1 || DST_prime).
func (e *xmdExpander) next() {
	mixed := make([]byte, len(e.b0))
	for j := range mixed {
		mixed[j] = e.b0[j] ^ e.bi[j]
	}
	e.index++
	e.h.Reset()
	e.h.Write(mixed)
	e.h.Write([]byte{e.index})
	e.h.Write(e.dstPrime)
	e.bi = e.h.Sum(e.bi[:0])
	e.offset = 0
}

func (e *xmdExpander) Read(p []byte) (int, error) {
	if e.remaining == 0 {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) && e.remaining > 0 {
		if e.offset == len(e.bi) {
			e.next()
		}
		c := copy(p[n:], e.bi[e.offset:])
		if c > e.remaining {
			c = e.remaining
		}
		e.offset += c
		e.remaining -= c
		n += c
	}
	return n, nil
}

// xofExpander limits a SHAKE stream to the requested length.
type xofExpander struct {
	r io.Reader
}

// NewExpanderSHAKE128 returns a reader producing expand_message_xof(msg,
// dst, length) over SHAKE-128.
func NewExpanderSHAKE128(msg, dst []byte, length int) (io.Reader, error) {
	return newExpanderXOF(sha3.NewShake128, msg, dst, length)
}

// NewExpanderSHAKE256 returns a reader producing expand_message_xof(msg,
// dst, length) over SHAKE-256.
func NewExpanderSHAKE256(msg, dst []byte, length int) (io.Reader, error) {
	return newExpanderXOF(sha3.NewShake256, msg, dst, length)
}

func newExpanderXOF(newHash func() sha3.ShakeHash, msg, dst []byte, length int) (io.Reader, error) {
	if length < 0 || length > maxExpandedLength {
		return nil, fmt.Errorf("%w: %d", ErrExpandLength, length)
	}
	if len(dst) == 0 {
		return nil, ErrEmptyDST
	}
	if len(dst) > maxDSTLength {
		h := newHash()
		h.Write(oversizeDSTSalt)
		h.Write(dst)
		short := make([]byte, xofOversizeDSTLength)
		if _, err := io.ReadFull(h, short); err != nil {
			return nil, err
		}
		dst = short
	}

	var lib [2]byte
	binary.BigEndian.PutUint16(lib[:], uint16(length))

	// H(msg || l_i_b_str || DST_prime)
	h := newHash()
	h.Write(msg)
	h.Write(lib[:])
	h.Write(dst)
	h.Write([]byte{byte(len(dst))})

	return &xofExpander{r: io.LimitReader(h, int64(length))}, nil
}

func (e *xofExpander) Read(p []byte) (int, error) { return e.r.Read(p) }

// ExpandMessageXMD returns the full expand_message_xmd output over the hash
// built by newHash.
func ExpandMessageXMD(newHash func() hash.Hash, msg, dst []byte, length int) ([]byte, error) {
	r, err := NewExpanderXMD(newHash, msg, dst, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, length)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

// HashToFp2 implements hash_to_field for F_p^2 with expand_message_xmd and
// SHA-256, returning count elements.
func HashToFp2(msg, dst []byte, count int) ([]Fp2, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d", ErrExpandLength, count)
	}
	uniform, err := ExpandMessageXMD(sha256.New, msg, dst, count*2*hashToFieldL)
	if err != nil {
		return nil, err
	}
	out := make([]Fp2, count)
	for i := range out {
		off := 2 * i * hashToFieldL
		out[i].C0 = fpFromWide(uniform[off : off+hashToFieldL])
		out[i].C1 = fpFromWide(uniform[off+hashToFieldL : off+2*hashToFieldL])
	}
	return out, nil
}

// fpFromWide reduces a big-endian byte string of any length modulo p.
func fpFromWide(b []byte) fp.Element {
	var e fp.Element
	e.SetBytes(b)
	return e
}
