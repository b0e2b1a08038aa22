package engine

import "fmt"

// MaxBlockPixels is the number of samples of the largest supported block.
const MaxBlockPixels = int(Block16) * int(Block16)

// forward1D runs a 1D transform over n lines. Within a line, samples are
// sa apart; consecutive lines start sb apart.
type forward1D func(dst, src []float32, dsa, dsb, ssa, ssb int)

type inverse1D func(dst, src []float32, dsa, dsb, ssa, ssb int, add bool)

// Transform is a separable orthonormal 2D DCT of a fixed block size.
// The zero value is not usable; see TransformFor.
type Transform struct {
	size    int
	forward forward1D
	inverse inverse1D
}

// TransformFor returns the fast transform for the block size.
// It panics on an unsupported size.
func TransformFor(b BlockSize) Transform {
	switch b {
	case Block8:
		return Transform{size: 8, forward: fdct8, inverse: idct8}
	case Block16:
		return Transform{size: 16, forward: fdct16, inverse: idct16}
	}
	panic(fmt.Sprintf("engine: no transform for %v", b))
}

// Size returns the edge length of the block.
func (t Transform) Size() int {
	return t.size
}

// Forward writes the DCT-II coefficients of the block starting at src
// into coeffs. tmp holds the row pass; both must hold Size()*Size() values.
func (t Transform) Forward(coeffs, tmp, src []float32, srcStride int) {
	n := t.size
	t.forward(tmp, src, 1, n, 1, srcStride)
	t.forward(coeffs, tmp, n, 1, n, 1)
}

// Inverse writes the DCT-III of coeffs into the block starting at dst.
// With accumulate, samples are added to dst instead of replacing it.
func (t Transform) Inverse(dst []float32, dstStride int, coeffs, tmp []float32, accumulate bool) {
	n := t.size
	t.inverse(tmp, coeffs, 1, n, 1, n, false)
	t.inverse(dst, tmp, dstStride, 1, n, 1, accumulate)
}

func store(dst []float32, i int, v float32, add bool) {
	if add {
		dst[i] += v
		return
	}
	dst[i] = v
}

func fdct8(dst, src []float32, dsa, dsb, ssa, ssb int) {
	d, s := 0, 0
	for i := 0; i < 8; i++ {
		x00 := src[s+0*ssa] + src[s+7*ssa]
		x01 := src[s+1*ssa] + src[s+6*ssa]
		x02 := src[s+2*ssa] + src[s+5*ssa]
		x03 := src[s+3*ssa] + src[s+4*ssa]
		x04 := src[s+0*ssa] - src[s+7*ssa]
		x05 := src[s+1*ssa] - src[s+6*ssa]
		x06 := src[s+2*ssa] - src[s+5*ssa]
		x07 := src[s+3*ssa] - src[s+4*ssa]
		x08 := x00 + x03
		x09 := x01 + x02
		x0a := x00 - x03
		x0b := x01 - x02
		x0c := 1.38703984532215*x04 + 0.275899379282943*x07
		x0d := 1.17587560241936*x05 + 0.785694958387102*x06
		x0e := -0.785694958387102*x05 + 1.17587560241936*x06
		x0f := 0.275899379282943*x04 - 1.38703984532215*x07
		x10 := 0.353553390593274 * (x0c - x0d)
		x11 := 0.353553390593274 * (x0e - x0f)
		dst[d+0*dsa] = 0.353553390593274 * (x08 + x09)
		dst[d+1*dsa] = 0.353553390593274 * (x0c + x0d)
		dst[d+2*dsa] = 0.461939766255643*x0a + 0.191341716182545*x0b
		dst[d+3*dsa] = 0.707106781186547 * (x10 - x11)
		dst[d+4*dsa] = 0.353553390593274 * (x08 - x09)
		dst[d+5*dsa] = 0.707106781186547 * (x10 + x11)
		dst[d+6*dsa] = 0.191341716182545*x0a - 0.461939766255643*x0b
		dst[d+7*dsa] = 0.353553390593274 * (x0e + x0f)
		d += dsb
		s += ssb
	}
}

func idct8(dst, src []float32, dsa, dsb, ssa, ssb int, add bool) {
	d, s := 0, 0
	for i := 0; i < 8; i++ {
		x00 := 1.4142135623731 * src[s+0*ssa]
		x01 := 1.38703984532215*src[s+1*ssa] + 0.275899379282943*src[s+7*ssa]
		x02 := 1.30656296487638*src[s+2*ssa] + 0.541196100146197*src[s+6*ssa]
		x03 := 1.17587560241936*src[s+3*ssa] + 0.785694958387102*src[s+5*ssa]
		x04 := 1.4142135623731 * src[s+4*ssa]
		x05 := -0.785694958387102*src[s+3*ssa] + 1.17587560241936*src[s+5*ssa]
		x06 := 0.541196100146197*src[s+2*ssa] - 1.30656296487638*src[s+6*ssa]
		x07 := -0.275899379282943*src[s+1*ssa] + 1.38703984532215*src[s+7*ssa]
		x09 := x00 + x04
		x0a := x01 + x03
		x0b := 1.4142135623731 * x02
		x0c := x00 - x04
		x0d := x01 - x03
		x0e := 0.353553390593274 * (x09 - x0b)
		x0f := 0.353553390593274 * (x0c + x0d)
		x10 := 0.353553390593274 * (x0c - x0d)
		x11 := 1.4142135623731 * x06
		x12 := x05 + x07
		x13 := x05 - x07
		x14 := 0.353553390593274 * (x11 + x12)
		x15 := 0.353553390593274 * (x11 - x12)
		x16 := 0.5 * x13
		x08 := -x15
		store(dst, d+0*dsa, 0.25*(x09+x0b)+0.353553390593274*x0a, add)
		store(dst, d+1*dsa, 0.707106781186547*(x0f-x08), add)
		store(dst, d+2*dsa, 0.707106781186547*(x0f+x08), add)
		store(dst, d+3*dsa, 0.707106781186547*(x0e+x16), add)
		store(dst, d+4*dsa, 0.707106781186547*(x0e-x16), add)
		store(dst, d+5*dsa, 0.707106781186547*(x10-x14), add)
		store(dst, d+6*dsa, 0.707106781186547*(x10+x14), add)
		store(dst, d+7*dsa, 0.25*(x09+x0b)-0.353553390593274*x0a, add)
		d += dsb
		s += ssb
	}
}

func fdct16(dst, src []float32, dsa, dsb, ssa, ssb int) {
	d, s := 0, 0
	for i := 0; i < 16; i++ {
		x00 := src[s+0*ssa] + src[s+15*ssa]
		x01 := src[s+1*ssa] + src[s+14*ssa]
		x02 := src[s+2*ssa] + src[s+13*ssa]
		x03 := src[s+3*ssa] + src[s+12*ssa]
		x04 := src[s+4*ssa] + src[s+11*ssa]
		x05 := src[s+5*ssa] + src[s+10*ssa]
		x06 := src[s+6*ssa] + src[s+9*ssa]
		x07 := src[s+7*ssa] + src[s+8*ssa]
		x08 := src[s+0*ssa] - src[s+15*ssa]
		x09 := src[s+1*ssa] - src[s+14*ssa]
		x0a := src[s+2*ssa] - src[s+13*ssa]
		x0b := src[s+3*ssa] - src[s+12*ssa]
		x0c := src[s+4*ssa] - src[s+11*ssa]
		x0d := src[s+5*ssa] - src[s+10*ssa]
		x0e := src[s+6*ssa] - src[s+9*ssa]
		x0f := src[s+7*ssa] - src[s+8*ssa]
		x10 := x00 + x07
		x11 := x01 + x06
		x12 := x02 + x05
		x13 := x03 + x04
		x14 := x00 - x07
		x15 := x01 - x06
		x16 := x02 - x05
		x17 := x03 - x04
		x18 := x10 + x13
		x19 := x11 + x12
		x1a := x10 - x13
		x1b := x11 - x12
		x1c := 1.38703984532215*x14 + 0.275899379282943*x17
		x1d := 1.17587560241936*x15 + 0.785694958387102*x16
		x1e := -0.785694958387102*x15 + 1.17587560241936*x16
		x1f := 0.275899379282943*x14 - 1.38703984532215*x17
		x20 := 0.25 * (x1c - x1d)
		x21 := 0.25 * (x1e - x1f)
		x22 := 1.40740373752638*x08 + 0.138617169199091*x0f
		x23 := 1.35331800117435*x09 + 0.410524527522357*x0e
		x24 := 1.24722501298667*x0a + 0.666655658477747*x0d
		x25 := 1.09320186700176*x0b + 0.897167586342636*x0c
		x26 := -0.897167586342636*x0b + 1.09320186700176*x0c
		x27 := 0.666655658477747*x0a - 1.24722501298667*x0d
		x28 := -0.410524527522357*x09 + 1.35331800117435*x0e
		x29 := 0.138617169199091*x08 - 1.40740373752638*x0f
		x2a := x22 + x25
		x2b := x23 + x24
		x2c := x22 - x25
		x2d := x23 - x24
		x2e := 0.25 * (x2a - x2b)
		x2f := 0.326640741219094*x2c + 0.135299025036549*x2d
		x30 := 0.135299025036549*x2c - 0.326640741219094*x2d
		x31 := x26 + x29
		x32 := x27 + x28
		x33 := x26 - x29
		x34 := x27 - x28
		x35 := 0.25 * (x31 - x32)
		x36 := 0.326640741219094*x33 + 0.135299025036549*x34
		x37 := 0.135299025036549*x33 - 0.326640741219094*x34
		dst[d+0*dsa] = 0.25 * (x18 + x19)
		dst[d+1*dsa] = 0.25 * (x2a + x2b)
		dst[d+2*dsa] = 0.25 * (x1c + x1d)
		dst[d+3*dsa] = 0.707106781186547 * (x2f - x37)
		dst[d+4*dsa] = 0.326640741219094*x1a + 0.135299025036549*x1b
		dst[d+5*dsa] = 0.707106781186547 * (x2f + x37)
		dst[d+6*dsa] = 0.707106781186547 * (x20 - x21)
		dst[d+7*dsa] = 0.707106781186547 * (x2e + x35)
		dst[d+8*dsa] = 0.25 * (x18 - x19)
		dst[d+9*dsa] = 0.707106781186547 * (x2e - x35)
		dst[d+10*dsa] = 0.707106781186547 * (x20 + x21)
		dst[d+11*dsa] = 0.707106781186547 * (x30 - x36)
		dst[d+12*dsa] = 0.135299025036549*x1a - 0.326640741219094*x1b
		dst[d+13*dsa] = 0.707106781186547 * (x30 + x36)
		dst[d+14*dsa] = 0.25 * (x1e + x1f)
		dst[d+15*dsa] = 0.25 * (x31 + x32)
		d += dsb
		s += ssb
	}
}

func idct16(dst, src []float32, dsa, dsb, ssa, ssb int, add bool) {
	d, s := 0, 0
	for i := 0; i < 16; i++ {
		x00 := 1.4142135623731 * src[s+0*ssa]
		x01 := 1.40740373752638*src[s+1*ssa] + 0.138617169199091*src[s+15*ssa]
		x02 := 1.38703984532215*src[s+2*ssa] + 0.275899379282943*src[s+14*ssa]
		x03 := 1.35331800117435*src[s+3*ssa] + 0.410524527522357*src[s+13*ssa]
		x04 := 1.30656296487638*src[s+4*ssa] + 0.541196100146197*src[s+12*ssa]
		x05 := 1.24722501298667*src[s+5*ssa] + 0.666655658477747*src[s+11*ssa]
		x06 := 1.17587560241936*src[s+6*ssa] + 0.785694958387102*src[s+10*ssa]
		x07 := 1.09320186700176*src[s+7*ssa] + 0.897167586342636*src[s+9*ssa]
		x08 := 1.4142135623731 * src[s+8*ssa]
		x09 := -0.897167586342636*src[s+7*ssa] + 1.09320186700176*src[s+9*ssa]
		x0a := 0.785694958387102*src[s+6*ssa] - 1.17587560241936*src[s+10*ssa]
		x0b := -0.666655658477747*src[s+5*ssa] + 1.24722501298667*src[s+11*ssa]
		x0c := 0.541196100146197*src[s+4*ssa] - 1.30656296487638*src[s+12*ssa]
		x0d := -0.410524527522357*src[s+3*ssa] + 1.35331800117435*src[s+13*ssa]
		x0e := 0.275899379282943*src[s+2*ssa] - 1.38703984532215*src[s+14*ssa]
		x0f := -0.138617169199091*src[s+1*ssa] + 1.40740373752638*src[s+15*ssa]
		x12 := x00 + x08
		x13 := x01 + x07
		x14 := x02 + x06
		x15 := x03 + x05
		x16 := 1.4142135623731 * x04
		x17 := x00 - x08
		x18 := x01 - x07
		x19 := x02 - x06
		x1a := x03 - x05
		x1d := x12 + x16
		x1e := x13 + x15
		x1f := 1.4142135623731 * x14
		x20 := x12 - x16
		x21 := x13 - x15
		x22 := 0.25 * (x1d - x1f)
		x23 := 0.25 * (x20 + x21)
		x24 := 0.25 * (x20 - x21)
		x25 := 1.4142135623731 * x17
		x26 := 1.30656296487638*x18 + 0.541196100146197*x1a
		x27 := 1.4142135623731 * x19
		x28 := -0.541196100146197*x18 + 1.30656296487638*x1a
		x29 := 0.176776695296637*(x25+x27) + 0.25*x26
		x2a := 0.25 * (x25 - x27)
		x2b := 0.176776695296637*(x25+x27) - 0.25*x26
		x2c := 0.353553390593274 * x28
		x1b := 0.707106781186547 * (x2a - x2c)
		x1c := 0.707106781186547 * (x2a + x2c)
		x2d := 1.4142135623731 * x0c
		x2e := x0b + x0d
		x2f := x0a + x0e
		x30 := x09 + x0f
		x31 := x09 - x0f
		x32 := x0a - x0e
		x33 := x0b - x0d
		x37 := 1.4142135623731 * x2d
		x38 := 1.30656296487638*x2e + 0.541196100146197*x30
		x39 := 1.4142135623731 * x2f
		x3a := -0.541196100146197*x2e + 1.30656296487638*x30
		x3b := 0.176776695296637*(x37+x39) + 0.25*x38
		x3c := 0.25 * (x37 - x39)
		x3d := 0.176776695296637*(x37+x39) - 0.25*x38
		x3e := 0.353553390593274 * x3a
		x34 := 0.707106781186547 * (x3c - x3e)
		x35 := 0.707106781186547 * (x3c + x3e)
		x3f := 1.4142135623731 * x32
		x40 := x31 + x33
		x41 := x31 - x33
		x42 := 0.25 * (x3f + x40)
		x43 := 0.25 * (x3f - x40)
		x44 := 0.353553390593274 * x41
		x36 := -x43
		x10 := -x34
		x11 := -x3d
		store(dst, d+0*dsa, 0.176776695296637*(x1d+x1f)+0.25*x1e, add)
		store(dst, d+1*dsa, 0.707106781186547*(x29-x11), add)
		store(dst, d+2*dsa, 0.707106781186547*(x29+x11), add)
		store(dst, d+3*dsa, 0.707106781186547*(x23+x36), add)
		store(dst, d+4*dsa, 0.707106781186547*(x23-x36), add)
		store(dst, d+5*dsa, 0.707106781186547*(x1b-x35), add)
		store(dst, d+6*dsa, 0.707106781186547*(x1b+x35), add)
		store(dst, d+7*dsa, 0.707106781186547*(x22+x44), add)
		store(dst, d+8*dsa, 0.707106781186547*(x22-x44), add)
		store(dst, d+9*dsa, 0.707106781186547*(x1c-x10), add)
		store(dst, d+10*dsa, 0.707106781186547*(x1c+x10), add)
		store(dst, d+11*dsa, 0.707106781186547*(x24+x42), add)
		store(dst, d+12*dsa, 0.707106781186547*(x24-x42), add)
		store(dst, d+13*dsa, 0.707106781186547*(x2b-x3b), add)
		store(dst, d+14*dsa, 0.707106781186547*(x2b+x3b), add)
		store(dst, d+15*dsa, 0.176776695296637*(x1d+x1f)-0.25*x1e, add)
		d += dsb
		s += ssb
	}
}
