package engine

import "fmt"

// WeightTable holds, for every pixel of a processable region, the reciprocal
// of the number of blocks covering it. It is immutable once built.
type WeightTable struct {
	width     int
	height    int
	blockSize int
	step      int
	counts    []int32
	weights   []float32
}

// NewWeightTable counts the block coverage of a width x height region whose
// blocks of blockSize start every step pixels.
func NewWeightTable(width, height, blockSize, step int) (*WeightTable, error) {
	if step < 1 || step > blockSize {
		return nil, fmt.Errorf("%w: step %d with a block size of %d", ErrInvalidOverlap, step, blockSize)
	}
	for _, dim := range []int{width, height} {
		pr, err := ProcessableSize(dim, blockSize, step)
		if err != nil {
			return nil, err
		}
		if pr != dim {
			return nil, fmt.Errorf("%dx%d is not aligned to blocks of %d every %d pixels", width, height, blockSize, step)
		}
	}
	t := &WeightTable{
		width:     width,
		height:    height,
		blockSize: blockSize,
		step:      step,
		counts:    make([]int32, width*height),
		weights:   make([]float32, width*height),
	}
	for y := 0; y <= height-blockSize; y += step {
		for x := 0; x <= width-blockSize; x += step {
			for by := 0; by < blockSize; by++ {
				row := t.counts[(y+by)*width+x:]
				for bx := 0; bx < blockSize; bx++ {
					row[bx]++
				}
			}
		}
	}
	for i, n := range t.counts {
		if n == 0 {
			panic(fmt.Sprintf("engine: pixel (%d,%d) is not covered by any block", i%width, i/width))
		}
		t.weights[i] = float32(1. / float64(n))
	}
	return t, nil
}

// Matches reports whether the table was built for the geometry.
func (t *WeightTable) Matches(width, height, blockSize, step int) bool {
	return t != nil && t.width == width && t.height == height && t.blockSize == blockSize && t.step == step
}

// Width returns the width of the region.
func (t *WeightTable) Width() int {
	return t.width
}

// Height returns the height of the region.
func (t *WeightTable) Height() int {
	return t.height
}

// Weight returns the averaging weight of pixel (x, y).
func (t *WeightTable) Weight(x, y int) float32 {
	return t.weights[y*t.width+x]
}

// Coverage returns the number of blocks covering pixel (x, y).
func (t *WeightTable) Coverage(x, y int) int {
	return int(t.counts[y*t.width+x])
}

// row returns the weights of row y.
func (t *WeightTable) row(y int) []float32 {
	i := y * t.width
	return t.weights[i : i+t.width]
}

// BlockRows returns the number of block origins along the vertical axis.
func (t *WeightTable) BlockRows() int {
	return (t.height-t.blockSize)/t.step + 1
}

// BlockCols returns the number of block origins along the horizontal axis.
func (t *WeightTable) BlockCols() int {
	return (t.width-t.blockSize)/t.step + 1
}

// Origins returns every block origin in raster order.
func (t *WeightTable) Origins() []Origin {
	origins := make([]Origin, 0, t.BlockRows()*t.BlockCols())
	for y := 0; y <= t.height-t.blockSize; y += t.step {
		for x := 0; x <= t.width-t.blockSize; x += t.step {
			origins = append(origins, Origin{X: x, Y: y})
		}
	}
	return origins
}

// Origin is the top-left pixel of a block.
type Origin struct {
	X, Y int
}
