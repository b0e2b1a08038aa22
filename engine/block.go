package engine

// BlockScratch holds the coefficients of one block while it is filtered.
// A scratch must not be shared by concurrent calls.
type BlockScratch struct {
	coeffs [MaxBlockPixels]float32
	tmp    [MaxBlockPixels]float32
}

// BlockFilter denoises one block: forward transform, shrinkage of every
// coefficient, inverse transform. Blocks are independent of each other.
type BlockFilter struct {
	transform Transform
	shrinker  Shrinker
}

// NewBlockFilter returns a block filter.
func NewBlockFilter(t Transform, s Shrinker) BlockFilter {
	return BlockFilter{transform: t, shrinker: s}
}

// Size returns the block size.
func (f BlockFilter) Size() int {
	return f.transform.Size()
}

// Process filters the block starting at src into the block starting at dst.
// With accumulate, the result is added to dst. A nil scratch is allocated.
func (f BlockFilter) Process(dst []float32, dstStride int, src []float32, srcStride int, accumulate bool, scratch *BlockScratch) {
	if scratch == nil {
		scratch = &BlockScratch{}
	}
	n := f.transform.Size()
	coeffs := scratch.coeffs[:n*n]
	tmp := scratch.tmp[:n*n]
	f.transform.Forward(coeffs, tmp, src, srcStride)
	for i := range coeffs {
		coeffs[i] = f.shrinker.Shrink(coeffs[i])
	}
	f.transform.Inverse(dst, dstStride, coeffs, tmp, accumulate)
}
