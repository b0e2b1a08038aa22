package engine

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// exprEnv is the environment of a shrinkage expression; c is |coefficient|.
type exprEnv struct {
	C float64 `expr:"c"`
}

// Expression is a compiled shrinkage factor expression of the variable c.
// It is safe for concurrent use.
type Expression struct {
	text    string
	program *vm.Program
	vms     sync.Pool
	err     atomic.Pointer[error]
}

// CompileExpression compiles an expression of c, the absolute value of a
// coefficient. Besides the expr language, the comparison helpers
// gt, gte, lt, lte and eq (returning 1 or 0) and clip(x, min, max) are available.
func CompileExpression(text string) (*Expression, error) {
	opts := []expr.Option{expr.Env(exprEnv{})}
	opts = append(opts, exprHelpers()...)
	program, err := expr.Compile(text, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidExpression, text, err)
	}
	e := &Expression{
		text:    text,
		program: program,
		vms: sync.Pool{
			New: func() any { return &vm.VM{} },
		},
	}
	// probe so that type errors surface now and not in the middle of a frame
	for _, c := range []float64{0, 1} {
		if _, err := e.eval(c); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidExpression, text, err)
		}
	}
	return e, nil
}

// String returns the source text of the expression.
func (e *Expression) String() string {
	return e.text
}

// Eval implements RealFunction. If the evaluation fails, the factor is 1
// (the coefficient is kept) and the error is kept for Err.
func (e *Expression) Eval(c float64) float64 {
	v, err := e.eval(c)
	if err != nil {
		e.err.CompareAndSwap(nil, &err)
		return 1
	}
	return v
}

// Err returns the first evaluation error, if any.
func (e *Expression) Err() error {
	if p := e.err.Load(); p != nil {
		return *p
	}
	return nil
}

// TakeErr returns the first evaluation error since the previous call and
// clears it.
func (e *Expression) TakeErr() error {
	if p := e.err.Swap(nil); p != nil {
		return *p
	}
	return nil
}

func (e *Expression) eval(c float64) (float64, error) {
	m := e.vms.Get().(*vm.VM)
	defer e.vms.Put(m)
	out, err := m.Run(e.program, exprEnv{C: c})
	if err != nil {
		return 0, err
	}
	return toFloat(out)
}

func exprHelpers() []expr.Option {
	cmp := func(name string, f func(a, b float64) bool) expr.Option {
		return expr.Function(name, func(params ...any) (any, error) {
			a, b, err := twoFloats(name, params)
			if err != nil {
				return nil, err
			}
			if f(a, b) {
				return 1.0, nil
			}
			return 0.0, nil
		})
	}
	return []expr.Option{
		cmp("gt", func(a, b float64) bool { return a > b }),
		cmp("gte", func(a, b float64) bool { return a >= b }),
		cmp("lt", func(a, b float64) bool { return a < b }),
		cmp("lte", func(a, b float64) bool { return a <= b }),
		cmp("eq", func(a, b float64) bool { return a == b }),
		expr.Function("clip", func(params ...any) (any, error) {
			if len(params) != 3 {
				return nil, fmt.Errorf("clip: want 3 arguments, got %d", len(params))
			}
			var v [3]float64
			for i := range params {
				f, err := toFloat(params[i])
				if err != nil {
					return nil, fmt.Errorf("clip: %w", err)
				}
				v[i] = f
			}
			return min(max(v[0], v[1]), v[2]), nil
		}),
	}
}

func twoFloats(name string, params []any) (float64, float64, error) {
	if len(params) != 2 {
		return 0, 0, fmt.Errorf("%s: want 2 arguments, got %d", name, len(params))
	}
	a, err := toFloat(params[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", name, err)
	}
	b, err := toFloat(params[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", name, err)
	}
	return a, b, nil
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case uint:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("not a number: %v (%T)", v, v)
}
