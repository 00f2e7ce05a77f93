package mean

import (
	"gonum.org/v1/gonum/mat"
)

var (
	additive *Additive
	_        Function = additive // Check that Additive respects the Function interface.

	product *Product
	_       Function = product // Check that Product respects the Function interface.
)

// Additive is the sum of two mean functions with matching output dimensions.
type Additive struct {
	first  Function
	second Function
}

func NewAdditive(first, second Function) *Additive {
	return &Additive{
		first:  first,
		second: second,
	}
}

func (m *Additive) Eval(x *mat.Dense) *mat.Dense {
	out := m.first.Eval(x)
	out.Add(out, m.second.Eval(x))
	return out
}

// Product is the elementwise product of two mean functions with matching
// output dimensions.
type Product struct {
	first  Function
	second Function
}

func NewProduct(first, second Function) *Product {
	return &Product{
		first:  first,
		second: second,
	}
}

func (m *Product) Eval(x *mat.Dense) *mat.Dense {
	out := m.first.Eval(x)
	out.MulElem(out, m.second.Eval(x))
	return out
}
