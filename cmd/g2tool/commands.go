package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/eth2030/bls12381g2/crypto"
	"github.com/eth2030/bls12381g2/metrics"
)

// seedDST separates g2tool's seeded sampling from other uses of the XOF.
var seedDST = []byte("G2TOOL-V01-CS01-with-BLS12381G2_XOF:SHAKE-256_RANDOM_")

// seedStreamLength is the number of bytes a seeded reader can supply. It
// covers several hundred sampling attempts.
const seedStreamLength = 65535

var (
	errMissingArg  = errors.New("missing argument")
	errTooManyArgs = errors.New("too many arguments")
)

func (t *tool) print(c *cli.Context, p crypto.G2Affine) error {
	_, err := fmt.Fprintln(t.out, formatPoint(p, c.Bool(uncompressedFlag.Name)))
	return err
}

// singleArg returns the only positional argument of the command.
func singleArg(c *cli.Context) (string, error) {
	switch n := c.Args().Len(); {
	case n == 0:
		return "", fmt.Errorf("%s: %w", c.Command.Name, errMissingArg)
	case n > 1:
		return "", fmt.Errorf("%s: %w", c.Command.Name, errTooManyArgs)
	}
	return c.Args().First(), nil
}

// randomSource returns crypto/rand unless a seed is given, in which case the
// bytes come from SHAKE-256 expansion of the seed.
func randomSource(seed string) (io.Reader, error) {
	if seed == "" {
		return rand.Reader, nil
	}
	return crypto.NewExpanderSHAKE256([]byte(seed), seedDST, seedStreamLength)
}

func (t *tool) generator(c *cli.Context) error {
	return t.print(c, crypto.G2AffineGenerator())
}

func (t *tool) decode(c *cli.Context) error {
	arg, err := singleArg(c)
	if err != nil {
		return err
	}
	unchecked := c.Bool(uncheckedFlag.Name)
	p, err := parsePoint(arg, unchecked)
	if err != nil {
		return err
	}
	t.log.Debug("decoded point", "unchecked", unchecked)
	rows := []struct {
		name  string
		value any
	}{
		{"identity", p.IsIdentity().Bool()},
		{"on_curve", p.IsOnCurve().Bool()},
		{"torsion_free", p.IsTorsionFree().Bool()},
		{"compressed", formatPoint(p, false)},
		{"uncompressed", formatPoint(p, true)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(t.out, "%-13s %v\n", r.name+":", r.value); err != nil {
			return err
		}
	}
	return nil
}

func (t *tool) mul(c *cli.Context) error {
	arg, err := singleArg(c)
	if err != nil {
		return err
	}
	k, err := parseScalar(arg)
	if err != nil {
		return err
	}
	base := crypto.G2AffineGenerator()
	if s := c.String(pointFlag.Name); s != "" {
		if base, err = parsePoint(s, false); err != nil {
			return err
		}
	}
	return t.print(c, base.Multiply(k).ToAffine())
}

func (t *tool) add(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("%s: %w", c.Command.Name, errMissingArg)
	}
	points := make([]crypto.G2Projective, c.Args().Len())
	for i, s := range c.Args().Slice() {
		p, err := parsePoint(s, false)
		if err != nil {
			return fmt.Errorf("argument %d: %w", i+1, err)
		}
		points[i] = p.ToProjective()
	}
	t.log.Debug("summing points", "count", len(points))
	return t.print(c, crypto.SumG2(points...).ToAffine())
}

func (t *tool) clearCofactor(c *cli.Context) error {
	arg, err := singleArg(c)
	if err != nil {
		return err
	}
	// Unchecked decoding still enforces the curve equation.
	p, err := parsePoint(arg, true)
	if err != nil {
		return err
	}
	return t.print(c, p.ToProjective().ClearCofactor().ToAffine())
}

func (t *tool) random(c *cli.Context) error {
	src, err := randomSource(c.String(seedFlag.Name))
	if err != nil {
		return err
	}
	p, err := crypto.RandomG2(src)
	if err != nil {
		return err
	}
	return t.print(c, p.ToAffine())
}

func (t *tool) bench(c *cli.Context) error {
	iterations := t.cfg.Bench.Iterations
	if c.IsSet(iterationsFlag.Name) {
		iterations = c.Int(iterationsFlag.Name)
	}
	if iterations <= 0 || iterations > maxBenchIterations {
		return fmt.Errorf("%w: iterations must be in 1..%d, got %d", ErrInvalidConfig, maxBenchIterations, iterations)
	}
	seed := t.cfg.Bench.Seed
	if c.IsSet(seedFlag.Name) {
		seed = c.String(seedFlag.Name)
	}
	src, err := randomSource(seed)
	if err != nil {
		return err
	}

	rec := metrics.NewOpRecorder("g2")
	t.log.Info("bench started", "iterations", iterations)
	if err := runBench(rec, src, iterations); err != nil {
		return err
	}
	t.log.Info("bench finished", "iterations", iterations)
	return rec.WriteText(t.out)
}

// benchScalar draws a little-endian scalar below 2^255, the range Multiply
// handles in full.
func benchScalar(src io.Reader) ([crypto.ScalarBytes]byte, error) {
	var k [crypto.ScalarBytes]byte
	if _, err := io.ReadFull(src, k[:]); err != nil {
		return k, fmt.Errorf("%w: %w", crypto.ErrRandomSource, err)
	}
	k[crypto.ScalarBytes-1] &= 0x7f
	return k, nil
}

// runBench times every public group operation iterations times. Inputs are
// drawn from src once up front.
func runBench(rec *metrics.OpRecorder, src io.Reader, iterations int) error {
	var (
		p, q crypto.G2Projective
		err  error
	)
	if err := rec.Time("random", func() error {
		if p, err = crypto.RandomG2(src); err != nil {
			return err
		}
		q, err = crypto.RandomG2(src)
		return err
	}); err != nil {
		return err
	}
	scalar, err := benchScalar(src)
	if err != nil {
		return err
	}

	qa := q.ToAffine()
	enc := qa.ToCompressed()
	batch := make([]crypto.G2Projective, 16)
	for i := range batch {
		batch[i] = p
		p = p.Add(q)
	}
	normalized := make([]crypto.G2Affine, len(batch))

	ops := []struct {
		name string
		fn   func() error
	}{
		{"double", func() error { p = p.Double(); return nil }},
		{"add", func() error { p = p.Add(q); return nil }},
		{"add_mixed", func() error { p = p.AddMixed(qa); return nil }},
		{"multiply", func() error { p = p.Multiply(scalar); return nil }},
		{"clear_cofactor", func() error { p = p.ClearCofactor(); return nil }},
		{"to_affine", func() error { qa = p.ToAffine(); return nil }},
		{"batch_normalize", func() error { crypto.BatchNormalizeG2(batch, normalized); return nil }},
		{"compress", func() error { enc = qa.ToCompressed(); return nil }},
		{"decompress", func() error {
			_, err := crypto.G2AffineFromCompressed(&enc)
			return err
		}},
	}
	for _, op := range ops {
		for i := 0; i < iterations; i++ {
			if err := rec.Time(op.name, op.fn); err != nil {
				return fmt.Errorf("%s: %w", op.name, err)
			}
		}
	}
	return nil
}
