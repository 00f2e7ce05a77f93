package mean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestZero(t *testing.T) {
	m := NewZero(2)
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	out := m.Eval(x)
	r, c := out.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 0.0, out.At(2, 1))
}

func TestConstant(t *testing.T) {
	m := NewConstant(1.5, -2.0)
	x := mat.NewDense(2, 3, nil)
	out := m.Eval(x)
	assert.Equal(t, 1.5, out.At(0, 0))
	assert.Equal(t, -2.0, out.At(1, 1))
}

func TestLinear(t *testing.T) {
	// m(x) = Aᵀx + b with A = [[1], [2]], b = [0.5].
	m := NewLinear(mat.NewDense(2, 1, []float64{1, 2}), []float64{0.5})
	x := mat.NewDense(2, 2, []float64{
		1, 1,
		2, 0,
	})
	out := m.Eval(x)
	assert.Equal(t, 3.5, out.At(0, 0))
	assert.Equal(t, 2.5, out.At(1, 0))
}

func TestIdentityRequiresInputDim(t *testing.T) {
	_, err := NewIdentity(0)
	assert.ErrorIs(t, err, ErrBadInputDim)

	m, err := NewIdentity(2)
	require.NoError(t, err)
	x := mat.NewDense(1, 2, []float64{3, 4})
	out := m.Eval(x)
	assert.Equal(t, 3.0, out.At(0, 0))
	assert.Equal(t, 4.0, out.At(0, 1))

	// The affine form is A = I, b = 0.
	lin := m.AsLinear()
	assert.Equal(t, 1.0, lin.A().At(0, 0))
	assert.Equal(t, 0.0, lin.A().At(0, 1))
	assert.Equal(t, 0.0, lin.B()[1])
}

func TestAdditiveAndProduct(t *testing.T) {
	a := NewConstant(2.0)
	b := NewConstant(3.0)
	x := mat.NewDense(1, 1, []float64{0})

	sum := NewAdditive(a, b)
	assert.Equal(t, 5.0, sum.Eval(x).At(0, 0))

	prod := NewProduct(a, b)
	assert.Equal(t, 6.0, prod.Eval(x).At(0, 0))
}

func TestSwitchedRoutesByLabelColumn(t *testing.T) {
	m := NewSwitched(NewConstant(1.0), NewConstant(2.0))
	x := mat.NewDense(3, 2, []float64{
		0.3, 0,
		0.1, 1,
		-4.0, 0,
	})
	out := m.Eval(x)
	assert.Equal(t, 1.0, out.At(0, 0))
	assert.Equal(t, 2.0, out.At(1, 0))
	assert.Equal(t, 1.0, out.At(2, 0))
}

func TestSwitchedBadLabelPanics(t *testing.T) {
	m := NewSwitched(NewConstant(1.0))
	x := mat.NewDense(1, 2, []float64{0, 3})
	assert.Panics(t, func() { m.Eval(x) })
}
