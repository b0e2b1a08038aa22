package engine

import "math"

// Rows of the orthonormal 3-point DCT used to decorrelate R, G and B.
const (
	dct3x3_0_0 = 0.5773502691896258  //  1/sqrt(3)
	dct3x3_0_1 = 0.5773502691896258  //  1/sqrt(3)
	dct3x3_0_2 = 0.5773502691896258  //  1/sqrt(3)
	dct3x3_1_0 = 0.7071067811865475  //  1/sqrt(2)
	dct3x3_1_2 = -0.7071067811865475 // -1/sqrt(2)
	dct3x3_2_0 = 0.4082482904638631  //  1/sqrt(6)
	dct3x3_2_1 = -0.8164965809277261 // -2/sqrt(6)
	dct3x3_2_2 = 0.4082482904638631  //  1/sqrt(6)
)

// Decorrelate projects the R, G and B channels of the top-left w x h pixels
// of src onto three decorrelated planes.
func Decorrelate(dst [3]ImagePlane, src ChannelImage, w, h int) {
	for y := 0; y < h; y++ {
		p := src.Buffer[y*src.Width*4:]
		d0, d1, d2 := dst[0].Row(y), dst[1].Row(y), dst[2].Row(y)
		for x := 0; x < w; x++ {
			r, g, b := float32(p[x*4]), float32(p[x*4+1]), float32(p[x*4+2])
			d0[x] = r*dct3x3_0_0 + g*dct3x3_0_1 + b*dct3x3_0_2
			d1[x] = r*dct3x3_1_0 + b*dct3x3_1_2
			d2[x] = r*dct3x3_2_0 + g*dct3x3_2_1 + b*dct3x3_2_2
		}
	}
}

// Correlate is the inverse of Decorrelate. It writes the R, G and B channels
// of the top-left w x h pixels of dst; alpha is left as is.
func Correlate(dst ChannelImage, src [3]ImagePlane, w, h int) {
	for y := 0; y < h; y++ {
		p := dst.Buffer[y*dst.Width*4:]
		s0, s1, s2 := src[0].Row(y), src[1].Row(y), src[2].Row(y)
		for x := 0; x < w; x++ {
			p[x*4] = clipUint8(s0[x]*dct3x3_0_0 + s1[x]*dct3x3_1_0 + s2[x]*dct3x3_2_0)
			p[x*4+1] = clipUint8(s0[x]*dct3x3_0_1 + s2[x]*dct3x3_2_1)
			p[x*4+2] = clipUint8(s0[x]*dct3x3_0_2 + s1[x]*dct3x3_1_2 + s2[x]*dct3x3_2_2)
		}
	}
}

func clipUint8(v float32) uint8 {
	r := math.Round(float64(v))
	if r < 0 || r != r {
		return 0
	} else if r > 255 {
		return 255
	}
	return uint8(r)
}
