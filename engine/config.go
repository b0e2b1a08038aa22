package engine

import (
	"errors"
	"fmt"
)

// BlockSize is the edge length of a square transform block.
type BlockSize int

const (
	// Block8 is an 8x8 block, selected by 3 block size bits.
	Block8 BlockSize = 8
	// Block16 is a 16x16 block, selected by 4 block size bits.
	Block16 BlockSize = 16
)

const (
	minBlockSizeBits     = 3
	maxBlockSizeBits     = 4
	defaultBlockSizeBits = 3

	// MaxOverlap is the sentinel overlap meaning blockSize-1, i.e. a step of one pixel.
	MaxOverlap = -1

	maxSigma = 999
)

// String returns string representation of a block size.
func (b BlockSize) String() string {
	switch b {
	case Block8:
		return "8x8"
	case Block16:
		return "16x16"
	}
	return fmt.Sprintf("unknown block size=%d", int(b))
}

var (
	// ErrInvalidBlockSize is returned when the block size bits are not 3 or 4.
	ErrInvalidBlockSize = errors.New("invalid block size")
	// ErrInvalidOverlap is returned when the overlap does not fit in a block.
	ErrInvalidOverlap = errors.New("invalid overlap")
	// ErrInvalidSigma is returned when sigma is out of range.
	ErrInvalidSigma = errors.New("invalid sigma")
	// ErrInvalidExpression is returned when the shrinkage expression cannot be compiled.
	ErrInvalidExpression = errors.New("invalid shrinkage expression")
	// ErrImageTooSmall is returned when a plane cannot hold a single block.
	ErrImageTooSmall = errors.New("image too small")
)

// Config holds the denoising parameters.
type Config struct {
	// BlockSizeBits selects the block size, 1<<BlockSizeBits; 3 or 4.
	BlockSizeBits int
	// Overlap is the number of pixels shared by adjacent blocks,
	// or MaxOverlap for blockSize-1.
	Overlap int
	// Sigma is the noise standard deviation; coefficients below 3*Sigma are dropped.
	Sigma float64
	// Expression, if set, replaces the hard threshold with c * expr(|c|).
	Expression string
	// Func, if set, replaces the hard threshold with c * Func(|c|).
	// It takes precedence over Expression.
	Func RealFunction
	// Parallel is the number of block rows processed concurrently; 0 or 1 is sequential.
	Parallel int
}

// DefaultConfig returns the configuration used when no option is given.
func DefaultConfig() Config {
	return Config{
		BlockSizeBits: defaultBlockSizeBits,
		Overlap:       MaxOverlap,
	}
}

// BlockSize returns the block size selected by the configuration.
func (c Config) BlockSize() BlockSize {
	return BlockSize(1 << c.BlockSizeBits)
}

// ResolvedOverlap returns the overlap with the MaxOverlap sentinel expanded.
func (c Config) ResolvedOverlap() int {
	if c.Overlap == MaxOverlap {
		return int(c.BlockSize()) - 1
	}
	return c.Overlap
}

// Step returns the distance between two consecutive block origins.
func (c Config) Step() int {
	return int(c.BlockSize()) - c.ResolvedOverlap()
}

// Threshold returns the hard threshold derived from sigma.
func (c Config) Threshold() float32 {
	return float32(c.Sigma * 3)
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.BlockSizeBits < minBlockSizeBits || c.BlockSizeBits > maxBlockSizeBits {
		return fmt.Errorf("%w: %d bits, it must be [%d,%d]", ErrInvalidBlockSize, c.BlockSizeBits, minBlockSizeBits, maxBlockSizeBits)
	}
	bs := int(c.BlockSize())
	if c.Overlap < MaxOverlap || c.Overlap > bs-1 {
		return fmt.Errorf("%w: overlap value can not exceed %d with a block size of %dx%d", ErrInvalidOverlap, bs-1, bs, bs)
	}
	if c.Sigma < 0 || c.Sigma > maxSigma || c.Sigma != c.Sigma {
		return fmt.Errorf("%w: %v, it must be [0,%d]", ErrInvalidSigma, c.Sigma, maxSigma)
	}
	if c.Func == nil && c.Expression != "" {
		if _, err := CompileExpression(c.Expression); err != nil {
			return err
		}
	}
	return nil
}

// shrinker resolves the shrinkage policy of the configuration.
// A malformed expression is reported here, never while filtering.
func (c Config) shrinker() (Shrinker, error) {
	if c.Func != nil {
		return FuncShrinker{F: c.Func}, nil
	}
	if c.Expression != "" {
		e, err := CompileExpression(c.Expression)
		if err != nil {
			return nil, err
		}
		return FuncShrinker{F: e}, nil
	}
	return NewHardThreshold(c.Sigma), nil
}
