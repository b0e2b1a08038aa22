package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceDCT2D is the O(N^4) orthonormal 2D DCT-II; coefficient (u, v)
// is stored at v*n+u.
func referenceDCT2D(block []float64, n int) []float64 {
	scale := func(k int) float64 {
		if k == 0 {
			return math.Sqrt(1.0 / float64(n))
		}
		return math.Sqrt(2.0 / float64(n))
	}
	out := make([]float64, n*n)
	for v := 0; v < n; v++ {
		for u := 0; u < n; u++ {
			sum := 0.0
			for y := 0; y < n; y++ {
				for x := 0; x < n; x++ {
					sum += block[y*n+x] *
						math.Cos(math.Pi*float64(u)*float64(2*x+1)/(2.0*float64(n))) *
						math.Cos(math.Pi*float64(v)*float64(2*y+1)/(2.0*float64(n)))
				}
			}
			out[v*n+u] = scale(u) * scale(v) * sum
		}
	}
	return out
}

func randomPlane(r *rand.Rand, width, height int, lo, hi float32) ImagePlane {
	p := NewImagePlaneWidthHeight(width, height)
	for y := 0; y < height; y++ {
		row := p.Row(y)
		for x := range row {
			row[x] = lo + r.Float32()*(hi-lo)
		}
	}
	return p
}

func TestTransformFor(t *testing.T) {
	assert.Equal(t, 8, TransformFor(Block8).Size())
	assert.Equal(t, 16, TransformFor(Block16).Size())
	assert.Panics(t, func() { TransformFor(BlockSize(4)) })
}

func TestForwardMatchesReference(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, bs := range []BlockSize{Block8, Block16} {
		t.Run(bs.String(), func(t *testing.T) {
			n := int(bs)
			tr := TransformFor(bs)
			// a plane wider than the block exercises the source stride
			p := randomPlane(r, n+5, n, 0, 255)
			block := make([]float64, n*n)
			for y := 0; y < n; y++ {
				for x := 0; x < n; x++ {
					block[y*n+x] = float64(p.Value(x, y))
				}
			}
			coeffs := make([]float32, n*n)
			tmp := make([]float32, n*n)
			tr.Forward(coeffs, tmp, p.Buffer, p.Stride)

			want := referenceDCT2D(block, n)
			for i := range want {
				assert.InDelta(t, want[i], float64(coeffs[i]), 2e-2, "coefficient %d", i)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for _, bs := range []BlockSize{Block8, Block16} {
		t.Run(bs.String(), func(t *testing.T) {
			n := int(bs)
			tr := TransformFor(bs)
			src := randomPlane(r, n, n, -128, 128)
			dst := NewImagePlaneWidthHeight(n, n)
			dst.Fill(42)
			coeffs := make([]float32, n*n)
			tmp := make([]float32, n*n)

			tr.Forward(coeffs, tmp, src.Buffer, src.Stride)
			tr.Inverse(dst.Buffer, dst.Stride, coeffs, tmp, false)

			for y := 0; y < n; y++ {
				for x := 0; x < n; x++ {
					want := src.Value(x, y)
					assert.InDelta(t, want, dst.Value(x, y), 1e-4*math.Max(1, math.Abs(float64(want))), "(%d,%d)", x, y)
				}
			}
		})
	}
}

func TestInverseAccumulate(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for _, bs := range []BlockSize{Block8, Block16} {
		t.Run(bs.String(), func(t *testing.T) {
			n := int(bs)
			tr := TransformFor(bs)
			src := randomPlane(r, n, n, 0, 255)
			coeffs := make([]float32, n*n)
			tmp := make([]float32, n*n)
			tr.Forward(coeffs, tmp, src.Buffer, src.Stride)

			dst := NewImagePlaneWidthHeight(n, n)
			dst.Fill(10)
			tr.Inverse(dst.Buffer, dst.Stride, coeffs, tmp, true)
			for y := 0; y < n; y++ {
				for x := 0; x < n; x++ {
					assert.InDelta(t, src.Value(x, y)+10, dst.Value(x, y), 1e-2)
				}
			}
		})
	}
}

func TestDCOnly(t *testing.T) {
	tr := TransformFor(Block8)
	src := NewImagePlaneWidthHeight(8, 8)
	src.Fill(100)
	coeffs := make([]float32, 64)
	tmp := make([]float32, 64)
	tr.Forward(coeffs, tmp, src.Buffer, src.Stride)

	require.InDelta(t, 800, coeffs[0], 1e-3)
	for i := 1; i < len(coeffs); i++ {
		assert.InDelta(t, 0, coeffs[i], 1e-3, "coefficient %d", i)
	}
}

func BenchmarkBlockRoundTrip(b *testing.B) {
	r := rand.New(rand.NewSource(4))
	for _, bs := range []BlockSize{Block8, Block16} {
		n := int(bs)
		tr := TransformFor(bs)
		src := randomPlane(r, n, n, 0, 255)
		dst := NewImagePlaneWidthHeight(n, n)
		var scratch BlockScratch
		b.Run(bs.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				tr.Forward(scratch.coeffs[:n*n], scratch.tmp[:n*n], src.Buffer, src.Stride)
				tr.Inverse(dst.Buffer, dst.Stride, scratch.coeffs[:n*n], scratch.tmp[:n*n], true)
			}
		})
	}
}
