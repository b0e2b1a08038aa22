package engine

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileExpression(t *testing.T) {
	tests := []struct {
		expr string
		in   float64
		want float64
	}{
		{expr: "1", in: 7, want: 1},
		{expr: "c / 2", in: 7, want: 3.5},
		{expr: "gte(c, 13.5)", in: 13.5, want: 1},
		{expr: "gte(c, 13.5)", in: 13.4, want: 0},
		{expr: "gt(c, 1)", in: 1, want: 0},
		{expr: "lt(c, 1)", in: 0.5, want: 1},
		{expr: "lte(c, 1)", in: 1, want: 1},
		{expr: "eq(c, 2)", in: 2, want: 1},
		{expr: "clip((c - 10) / c, 0, 1)", in: 20, want: 0.5},
		{expr: "clip((c - 10) / c, 0, 1)", in: 5, want: 0},
		{expr: "c > 10 ? 1 : 0", in: 11, want: 1},
		{expr: "c > 10", in: 3, want: 0},
		{expr: "max(c, 2) / 10", in: 1, want: 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e, err := CompileExpression(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, e.String())
			assert.InDelta(t, tt.want, e.Eval(tt.in), 1e-12)
			assert.NoError(t, e.Err())
		})
	}
}

func TestCompileExpression_Malformed(t *testing.T) {
	for _, text := range []string{
		"c +* 2",
		"x * 2",
		"(c",
		`"not a number"`,
		"gte(c)",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := CompileExpression(text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidExpression), "%v", err)
		})
	}
}

func TestExpression_EvalError(t *testing.T) {
	// the probes at c=0 and c=1 take the valid branch
	e, err := CompileExpression(`c > 1 ? clip(c, "a", 1) : 1`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, e.Eval(0.5))
	assert.NoError(t, e.Err())

	assert.Equal(t, 1.0, e.Eval(5))
	assert.Error(t, e.Err())

	assert.Error(t, e.TakeErr())
	assert.NoError(t, e.Err(), "TakeErr clears the error")
	assert.NoError(t, e.TakeErr())
}

func TestExpression_Concurrent(t *testing.T) {
	e, err := CompileExpression("c * 2")
	require.NoError(t, err)
	var wg sync.WaitGroup
	errs := make(chan float64, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := e.Eval(float64(i)); got != float64(2*i) {
					errs <- got
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("unexpected value, %v", got)
	}
}
