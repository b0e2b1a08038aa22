package engine

import (
	"fmt"
)

// planeAlign is the row alignment, in samples, of planes allocated by NewImagePlaneWidthHeight.
const planeAlign = 32

// ImagePlane represents an image in which each pixel has a continuous value.
// Rows are Stride samples apart; Stride may exceed Width.
type ImagePlane struct {
	Width  int
	Height int
	Stride int
	Buffer []float32
}

// NewImagePlaneWidthHeight returns an image plane of specific width and height
// with rows aligned to 32 samples.
func NewImagePlaneWidthHeight(width, height int) ImagePlane {
	stride := (width + planeAlign - 1) / planeAlign * planeAlign
	return ImagePlane{
		Width:  width,
		Height: height,
		Stride: stride,
		Buffer: make([]float32, stride*height),
	}
}

// Index returns the buffer position corresponding to the specified x and y of the image.
func (p ImagePlane) Index(x, y int) int {
	return x + y*p.Stride
}

// Value returns the value corresponding to the specified x and y of the image.
func (p ImagePlane) Value(x, y int) float32 {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		panic(fmt.Errorf("x %d, y %d out of %dx%d plane", x, y, p.Width, p.Height))
	}
	return p.Buffer[p.Index(x, y)]
}

// SetAt sets the value to the buffer corresponding to the specified x and y of the image.
func (p ImagePlane) SetAt(x, y int, v float32) {
	p.Buffer[p.Index(x, y)] = v
}

// Row returns the first width samples of row y.
func (p ImagePlane) Row(y int) []float32 {
	i := y * p.Stride
	return p.Buffer[i : i+p.Width : i+p.Width]
}

// Fill sets all pixels to the specified value.
func (p ImagePlane) Fill(v float32) {
	for y := 0; y < p.Height; y++ {
		row := p.Row(y)
		for x := range row {
			row[x] = v
		}
	}
}

// covers reports whether the plane holds a width x height region.
func (p ImagePlane) covers(width, height int) bool {
	if width > p.Width || height > p.Height || p.Stride < p.Width {
		return false
	}
	return height == 0 || len(p.Buffer) >= (height-1)*p.Stride+width
}

// ProcessableSize returns the largest size <= dim whose blocks of blockSize
// placed every step pixels end exactly on the border.
func ProcessableSize(dim, blockSize, step int) (int, error) {
	if dim < blockSize {
		return 0, fmt.Errorf("%w: %d pixels can not hold a block of %d", ErrImageTooSmall, dim, blockSize)
	}
	return dim - (dim-blockSize)%step, nil
}
