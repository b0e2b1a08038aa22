package engine

import "math"

// Shrinker attenuates a single transform coefficient.
// Implementations must be safe for concurrent use.
type Shrinker interface {
	Shrink(c float32) float32
}

// RealFunction is a scalar function of a coefficient magnitude.
type RealFunction interface {
	Eval(c float64) float64
}

// RealFunc adapts an ordinary function to a RealFunction.
type RealFunc func(c float64) float64

// Eval calls f(c).
func (f RealFunc) Eval(c float64) float64 {
	return f(c)
}

// HardThreshold zeroes every coefficient whose magnitude is below Tau.
type HardThreshold struct {
	Tau float32
}

// NewHardThreshold returns the hard threshold for a noise standard deviation,
// 3*sigma.
func NewHardThreshold(sigma float64) HardThreshold {
	return HardThreshold{Tau: float32(sigma * 3)}
}

// Shrink implements Shrinker.
func (h HardThreshold) Shrink(c float32) float32 {
	if abs32(c) < h.Tau {
		return 0
	}
	return c
}

// FuncShrinker scales each coefficient by F(|c|).
type FuncShrinker struct {
	F RealFunction
}

// Shrink implements Shrinker.
func (s FuncShrinker) Shrink(c float32) float32 {
	return c * float32(s.F.Eval(float64(abs32(c))))
}

func abs32(v float32) float32 {
	return math.Float32frombits(math.Float32bits(v) &^ (1 << 31))
}
