package mean

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gocond/linalg"
)

var ErrBadInputDim = errors.New("mean: input dimension must be positive")

var (
	lin *Linear
	_   Function = lin // Check that Linear respects the Function interface.

	ident *Identity
	_     Function = ident // Check that Identity respects the Function interface.
)

// Linear is the affine mean function m(x) = Aᵀx + b, with A of size D×Q and
// b of length Q.
type Linear struct {
	a *mat.Dense
	b []float64
}

func NewLinear(a *mat.Dense, b []float64) *Linear {
	vals := make([]float64, len(b))
	copy(vals, b)
	return &Linear{a: a, b: vals}
}

// A returns the D×Q weight matrix. Shared; callers must not modify it.
func (m *Linear) A() *mat.Dense {
	return m.a
}

// B returns the length-Q offset. Shared; callers must not modify it.
func (m *Linear) B() []float64 {
	return m.b
}

func (m *Linear) Eval(x *mat.Dense) *mat.Dense {
	n, _ := x.Dims()
	_, q := m.a.Dims()
	out := mat.NewDense(n, q, nil)
	out.Mul(x, m.a)
	for i := 0; i < n; i++ {
		for j := 0; j < q; j++ {
			out.Set(i, j, out.At(i, j)+m.b[j])
		}
	}
	return out
}

// Identity is the mean function m(x) = x. The input dimension is required at
// construction because the equivalent affine parameters A = I and b = 0 are
// needed whenever the mean enters a moment expectation.
type Identity struct {
	inputDim int
}

func NewIdentity(inputDim int) (*Identity, error) {
	if inputDim <= 0 {
		return nil, ErrBadInputDim
	}
	return &Identity{inputDim: inputDim}, nil
}

func (m *Identity) InputDim() int {
	return m.inputDim
}

// AsLinear returns the equivalent affine mean with A = I and b = 0.
func (m *Identity) AsLinear() *Linear {
	return NewLinear(linalg.Eye(m.inputDim), make([]float64, m.inputDim))
}

func (m *Identity) Eval(x *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.CloneFrom(x)
	return &out
}
