package kern

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestRBF(t *testing.T) {
	k := NewRBF(2.0, 1.0, 0.5)
	x := mat.NewDense(3, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
	})

	kxx := k.K(x)
	assert.Equal(t, 2.0, kxx.At(0, 0))
	assert.InDelta(t, 2.0*math.Exp(-0.5), kxx.At(0, 1), 1e-12)
	assert.InDelta(t, 2.0*math.Exp(-0.5/0.25), kxx.At(0, 2), 1e-12)
	assert.Equal(t, kxx.At(1, 2), kxx.At(2, 1))

	// KDiag matches the diagonal of K, KCross matches K on the same inputs.
	diag := k.KDiag(x)
	cross := k.KCross(x, x)
	for i := 0; i < 3; i++ {
		assert.Equal(t, kxx.At(i, i), diag.AtVec(i))
		for j := 0; j < 3; j++ {
			assert.InDelta(t, kxx.At(i, j), cross.At(i, j), 1e-12)
		}
	}
}

func TestLinearKernel(t *testing.T) {
	k := NewLinear(0.5, 2)
	x := mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})
	kxx := k.K(x)
	assert.Equal(t, 0.5*(1+4), kxx.At(0, 0))
	assert.Equal(t, 0.5*(3+8), kxx.At(0, 1))
	assert.Equal(t, kxx.At(0, 1), kxx.At(1, 0))
	assert.Equal(t, kxx.At(1, 1), k.KDiag(x).AtVec(1))
}

func TestWhiteCrossIsZero(t *testing.T) {
	k := NewWhite(1.5, 1)
	x := mat.NewDense(2, 1, []float64{0, 1})
	x2 := mat.NewDense(3, 1, []float64{0, 1, 2})

	cross := k.KCross(x, x2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, 0.0, cross.At(i, j))
		}
	}
	kxx := k.K(x)
	assert.Equal(t, 1.5, kxx.At(0, 0))
	assert.Equal(t, 0.0, kxx.At(0, 1))
	assert.Equal(t, 1.5, k.KDiag(x).AtVec(0))
}

func TestAddFlattensAndSums(t *testing.T) {
	a := NewConstant(1.0, 1)
	b := NewConstant(2.0, 1)
	c := NewConstant(4.0, 1)
	sum := NewAdd(NewAdd(a, b), c)
	assert.Len(t, sum.Parts(), 3)

	x := mat.NewDense(2, 1, []float64{0, 1})
	kxx := sum.K(x)
	assert.Equal(t, 7.0, kxx.At(0, 1))
	assert.Equal(t, 7.0, sum.KDiag(x).AtVec(0))
	assert.Equal(t, 7.0, sum.KCross(x, x).At(1, 0))
}

func TestProdFlattensAndMultiplies(t *testing.T) {
	a := NewConstant(2.0, 1)
	b := NewConstant(3.0, 1)
	c := NewConstant(0.5, 1)
	prod := NewProd(a, NewProd(b, c))
	assert.Len(t, prod.Parts(), 3)

	x := mat.NewDense(2, 1, []float64{0, 1})
	assert.Equal(t, 3.0, prod.K(x).At(0, 1))
	assert.Equal(t, 3.0, prod.KDiag(x).AtVec(1))
	assert.Equal(t, 3.0, prod.KCross(x, x).At(0, 0))
}
