package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// overlapScheduler runs a block filter over every block origin of a weight
// table and averages the overlapping results.
//
// Block rows are visited in groups: row r belongs to group r mod k, where
// k*step >= blockSize, so the rows of one group never write the same pixel
// and run concurrently. The visiting order does not depend on parallel.
type overlapScheduler struct {
	filter   BlockFilter
	weights  *WeightTable
	parallel int
}

func (s overlapScheduler) checkPlanes(dst, src ImagePlane) error {
	w, h := s.weights.Width(), s.weights.Height()
	if !src.covers(w, h) {
		return fmt.Errorf("source plane %dx%d (stride %d) does not hold %dx%d", src.Width, src.Height, src.Stride, w, h)
	}
	if !dst.covers(w, h) {
		return fmt.Errorf("destination plane %dx%d (stride %d) does not hold %dx%d", dst.Width, dst.Height, dst.Stride, w, h)
	}
	return nil
}

func (s overlapScheduler) run(ctx context.Context, dst, src ImagePlane) error {
	if err := s.checkPlanes(dst, src); err != nil {
		return err
	}
	s.reset(dst)

	step := s.weights.step
	rows := s.weights.BlockRows()
	groups := (s.filter.Size() + step - 1) / step
	for g := 0; g < groups && g < rows; g++ {
		if s.parallel <= 1 {
			var scratch BlockScratch
			for r := g; r < rows; r += groups {
				if err := ctx.Err(); err != nil {
					return err
				}
				s.blockRow(dst, src, r*step, &scratch)
			}
			continue
		}
		eg, gctx := errgroup.WithContext(ctx)
		eg.SetLimit(s.parallel)
		for r := g; r < rows; r += groups {
			y := r * step
			eg.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				var scratch BlockScratch
				s.blockRow(dst, src, y, &scratch)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
	}
	s.normalize(dst)
	return nil
}

// runOrigins filters the blocks at origins, in that order.
func (s overlapScheduler) runOrigins(dst, src ImagePlane, origins []Origin) error {
	if err := s.checkPlanes(dst, src); err != nil {
		return err
	}
	s.reset(dst)
	var scratch BlockScratch
	for _, o := range origins {
		s.filter.Process(dst.Buffer[dst.Index(o.X, o.Y):], dst.Stride, src.Buffer[src.Index(o.X, o.Y):], src.Stride, true, &scratch)
	}
	s.normalize(dst)
	return nil
}

func (s overlapScheduler) blockRow(dst, src ImagePlane, y int, scratch *BlockScratch) {
	last := s.weights.Width() - s.filter.Size()
	for x := 0; x <= last; x += s.weights.step {
		s.filter.Process(dst.Buffer[dst.Index(x, y):], dst.Stride, src.Buffer[src.Index(x, y):], src.Stride, true, scratch)
	}
}

// reset zeroes the processable region of dst; other pixels are left alone.
func (s overlapScheduler) reset(dst ImagePlane) {
	w := s.weights.Width()
	for y := 0; y < s.weights.Height(); y++ {
		row := dst.Buffer[y*dst.Stride : y*dst.Stride+w]
		for x := range row {
			row[x] = 0
		}
	}
}

func (s overlapScheduler) normalize(dst ImagePlane) {
	w := s.weights.Width()
	for y := 0; y < s.weights.Height(); y++ {
		row := dst.Buffer[y*dst.Stride : y*dst.Stride+w]
		weights := s.weights.row(y)
		for x := range row {
			row[x] *= weights[x]
		}
	}
}
