package mean

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrBadLabel = errors.New("mean: label column value out of range")

var (
	switched *Switched
	_        Function = switched // Check that Switched respects the Function interface.
)

// Switched routes each input row to one of several mean functions. The label
// selecting the function is stored in the last input column; the remaining
// columns are the actual input.
type Switched struct {
	fns []Function
}

func NewSwitched(fns ...Function) *Switched {
	parts := make([]Function, len(fns))
	copy(parts, fns)
	return &Switched{fns: parts}
}

func (m *Switched) Eval(x *mat.Dense) *mat.Dense {
	n, d := x.Dims()
	if d < 2 {
		panic(fmt.Errorf("mean: switched input needs a label column after the input columns"))
	}
	var out *mat.Dense
	row := mat.NewDense(1, d-1, nil)
	for i := 0; i < n; i++ {
		label := int(x.At(i, d-1))
		if label < 0 || label >= len(m.fns) {
			panic(fmt.Errorf("%w: row %d has label %d, have %d functions",
				ErrBadLabel, i, label, len(m.fns)))
		}
		for j := 0; j < d-1; j++ {
			row.Set(0, j, x.At(i, j))
		}
		val := m.fns[label].Eval(row)
		if out == nil {
			_, q := val.Dims()
			out = mat.NewDense(n, q, nil)
		}
		out.SetRow(i, mat.Row(nil, 0, val))
	}
	if out == nil {
		out = new(mat.Dense) // no rows to route
	}
	return out
}
