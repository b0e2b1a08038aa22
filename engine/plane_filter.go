package engine

import (
	"context"
	"fmt"
	"sync"
)

// PlaneFilter denoises planes of the same geometry with one shared weight
// table. The table is rebuilt only when the geometry changes.
// A PlaneFilter is safe for concurrent use; runs are serialized.
type PlaneFilter struct {
	mu      sync.Mutex
	cfg     Config
	filter  BlockFilter
	weights *WeightTable
	// evalErr reports evaluation failures of a function shrinker since
	// the previous call.
	evalErr func() error
}

// NewPlaneFilter validates the configuration and resolves its transform
// and shrinkage policy.
func NewPlaneFilter(cfg Config) (*PlaneFilter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := cfg.shrinker()
	if err != nil {
		return nil, err
	}
	f := &PlaneFilter{
		cfg:    cfg,
		filter: NewBlockFilter(TransformFor(cfg.BlockSize()), s),
	}
	if fs, ok := s.(FuncShrinker); ok {
		switch e := fs.F.(type) {
		case interface{ TakeErr() error }:
			f.evalErr = e.TakeErr
		case interface{ Err() error }:
			f.evalErr = e.Err
		}
	}
	return f, nil
}

// Config returns the configuration of the filter.
func (f *PlaneFilter) Config() Config {
	return f.cfg
}

// ProcessableRegion returns the part of a width x height plane that the
// block grid covers exactly.
func (f *PlaneFilter) ProcessableRegion(width, height int) (int, int, error) {
	bs, step := int(f.cfg.BlockSize()), f.cfg.Step()
	pw, err := ProcessableSize(width, bs, step)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	ph, err := ProcessableSize(height, bs, step)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	return pw, ph, nil
}

// Prepare returns the weight table of a processable region, building it
// if the geometry differs from the previous one.
func (f *PlaneFilter) Prepare(width, height int) (*WeightTable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prepare(width, height)
}

func (f *PlaneFilter) prepare(width, height int) (*WeightTable, error) {
	bs, step := int(f.cfg.BlockSize()), f.cfg.Step()
	if f.weights.Matches(width, height, bs, step) {
		return f.weights, nil
	}
	t, err := NewWeightTable(width, height, bs, step)
	if err != nil {
		return nil, err
	}
	f.weights = t
	return t, nil
}

// Run denoises the width x height processable region of every src plane
// into the dst plane of the same index. Pixels of dst outside the region
// are not touched.
func (f *PlaneFilter) Run(ctx context.Context, dst, src []ImagePlane, width, height int) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%d destination planes for %d source planes", len(dst), len(src))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.prepare(width, height)
	if err != nil {
		return err
	}
	if f.evalErr != nil {
		// failures of earlier calls belong to those calls
		_ = f.evalErr()
	}
	s := overlapScheduler{
		filter:   f.filter,
		weights:  t,
		parallel: f.cfg.Parallel,
	}
	for i := range src {
		if err := s.run(ctx, dst[i], src[i]); err != nil {
			return fmt.Errorf("plane %d: %w", i, err)
		}
	}
	if f.evalErr != nil {
		if err := f.evalErr(); err != nil {
			return fmt.Errorf("shrinkage function: %w", err)
		}
	}
	return nil
}
