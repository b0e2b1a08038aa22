package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessableSize(t *testing.T) {
	tests := []struct {
		dim, blockSize, step int
		want                 int
	}{
		{dim: 8, blockSize: 8, step: 1, want: 8},
		{dim: 100, blockSize: 8, step: 1, want: 100},
		{dim: 100, blockSize: 8, step: 8, want: 96},
		{dim: 21, blockSize: 8, step: 3, want: 20},
		{dim: 37, blockSize: 16, step: 5, want: 36},
	}
	for _, tt := range tests {
		got, err := ProcessableSize(tt.dim, tt.blockSize, tt.step)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%+v", tt)
		assert.Zero(t, (got-tt.blockSize)%tt.step)
		assert.LessOrEqual(t, got, tt.dim)
	}

	_, err := ProcessableSize(7, 8, 1)
	assert.True(t, errors.Is(err, ErrImageTooSmall), "%v", err)
}

func TestWeightTable_Coverage(t *testing.T) {
	for _, bs := range []int{8, 16} {
		for step := 1; step <= bs; step++ {
			w, err := ProcessableSize(3*bs+5, bs, step)
			require.NoError(t, err)
			h, err := ProcessableSize(2*bs+3, bs, step)
			require.NoError(t, err)
			table, err := NewWeightTable(w, h, bs, step)
			require.NoError(t, err)

			sum := 0
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					n := table.Coverage(x, y)
					require.GreaterOrEqual(t, n, 1, "bs %d step %d (%d,%d)", bs, step, x, y)
					assert.InDelta(t, 1/float64(n), table.Weight(x, y), 1e-7)
					sum += n
				}
			}
			origins := table.Origins()
			assert.Len(t, origins, table.BlockRows()*table.BlockCols())
			// every block footprint is counted once per pixel it covers
			assert.Equal(t, len(origins)*bs*bs, sum, "bs %d step %d", bs, step)
		}
	}
}

func TestWeightTable_NoOverlap(t *testing.T) {
	table, err := NewWeightTable(32, 24, 8, 8)
	require.NoError(t, err)
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			assert.Equal(t, 1, table.Coverage(x, y))
			assert.Equal(t, float32(1), table.Weight(x, y))
		}
	}
}

func TestWeightTable_MaxOverlap(t *testing.T) {
	for _, bs := range []int{8, 16} {
		w, h := 3*bs, 2*bs+4
		table, err := NewWeightTable(w, h, bs, 1)
		require.NoError(t, err)
		for y := bs - 1; y <= h-bs; y++ {
			for x := bs - 1; x <= w-bs; x++ {
				assert.Equal(t, bs*bs, table.Coverage(x, y), "(%d,%d)", x, y)
			}
		}
		// corners are covered once
		assert.Equal(t, 1, table.Coverage(0, 0))
		assert.Equal(t, 1, table.Coverage(w-1, h-1))
	}
}

func TestNewWeightTable_Invalid(t *testing.T) {
	tests := []struct {
		name                           string
		width, height, blockSize, step int
	}{
		{name: "misaligned width", width: 21, height: 20, blockSize: 8, step: 3},
		{name: "misaligned height", width: 20, height: 22, blockSize: 8, step: 3},
		{name: "too small", width: 7, height: 8, blockSize: 8, step: 1},
		{name: "zero step", width: 8, height: 8, blockSize: 8, step: 0},
		{name: "step larger than block", width: 8, height: 8, blockSize: 8, step: 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWeightTable(tt.width, tt.height, tt.blockSize, tt.step)
			assert.Error(t, err)
		})
	}
}

func TestWeightTable_Matches(t *testing.T) {
	table, err := NewWeightTable(20, 20, 8, 3)
	require.NoError(t, err)
	assert.True(t, table.Matches(20, 20, 8, 3))
	assert.False(t, table.Matches(20, 20, 8, 4))
	assert.False(t, table.Matches(23, 20, 8, 3))

	var none *WeightTable
	assert.False(t, none.Matches(20, 20, 8, 3))
}
