// Package mean provides parametric mean functions for GP models. A mean
// function maps an N×D input matrix to an N×Q output matrix, one output row
// per input row. Composite means are built with the explicit NewAdditive and
// NewProduct constructors.
package mean

import (
	"gonum.org/v1/gonum/mat"
)

type Function interface {
	// Eval returns m(X), one row per row of x.
	Eval(x *mat.Dense) *mat.Dense
}

var (
	zero *Zero
	_    Function = zero // Check that Zero respects the Function interface.

	constant *Constant
	_        Function = constant // Check that Constant respects the Function interface.
)

// Zero is the identically-zero mean function with a fixed output dimension.
type Zero struct {
	outputDim int
}

func NewZero(outputDim int) *Zero {
	return &Zero{outputDim: outputDim}
}

func (m *Zero) OutputDim() int {
	return m.outputDim
}

func (m *Zero) Eval(x *mat.Dense) *mat.Dense {
	n, _ := x.Dims()
	return mat.NewDense(n, m.outputDim, nil)
}

// Constant maps every input row to the same output row c.
type Constant struct {
	c []float64
}

func NewConstant(c ...float64) *Constant {
	vals := make([]float64, len(c))
	copy(vals, c)
	return &Constant{c: vals}
}

// C returns the constant output row. The slice is shared; callers must not
// modify it.
func (m *Constant) C() []float64 {
	return m.c
}

func (m *Constant) Eval(x *mat.Dense) *mat.Dense {
	n, _ := x.Dims()
	out := mat.NewDense(n, len(m.c), nil)
	for i := 0; i < n; i++ {
		out.SetRow(i, m.c)
	}
	return out
}
