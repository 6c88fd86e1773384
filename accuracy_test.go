package plotexpr_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/zephyrtronium/bigfloat"

	"github.com/zephyrtronium/plotexpr"
)

// refprec is the precision of reference values, in bits.
const refprec = 200

func bigf(x float64) *big.Float {
	return new(big.Float).SetPrec(refprec).SetFloat64(x)
}

// ulps measures the distance from got to the reference value in units in the
// last place of the reference rounded to float64.
func ulps(got float64, want *big.Float) float64 {
	w, _ := want.Float64()
	d := new(big.Float).SetPrec(refprec).Sub(bigf(got), want)
	e, _ := d.Float64()
	return math.Abs(e) / (math.Nextafter(math.Abs(w), math.Inf(1)) - math.Abs(w))
}

func TestAccuracy(t *testing.T) {
	cases := []struct {
		name string
		src  string
		ref  func(x *big.Float) *big.Float
		xs   []float64
		// tol is the allowed error in ulps.
		tol  float64
	}{
		{
			name: "exp",
			src:  "f(x) = exp(x)",
			ref:  func(x *big.Float) *big.Float { return bigfloat.Exp(new(big.Float).SetPrec(refprec), x) },
			xs:   []float64{-20, -1, -0.5, 0.001, 0.5, 1, 2, 10, 100},
			tol:  2,
		},
		{
			name: "log",
			src:  "f(x) = log(x)",
			ref:  func(x *big.Float) *big.Float { return bigfloat.Log(new(big.Float).SetPrec(refprec), x) },
			xs:   []float64{1e-10, 0.1, 0.5, 2, math.E, 10, 12345.678, 1e100},
			tol:  2,
		},
		{
			name: "pow",
			src:  "f(x) = x ^ 2.5",
			ref: func(x *big.Float) *big.Float {
				return bigfloat.Pow(new(big.Float).SetPrec(refprec), x, bigf(2.5))
			},
			xs:  []float64{0.01, 0.5, 1.5, 2, 3, 7.25, 1000},
			tol: 8,
		},
		{
			name: "sqrt",
			src:  "f(x) = √(x)",
			ref:  func(x *big.Float) *big.Float { return new(big.Float).SetPrec(refprec).Sqrt(x) },
			xs:   []float64{0.01, 0.5, 2, 3, 1e10, 1e-300},
			tol:  1,
		},
		{
			name: "compound",
			src:  "f(x) = exp(log(x) / 2)",
			ref:  func(x *big.Float) *big.Float { return new(big.Float).SetPrec(refprec).Sqrt(x) },
			xs:   []float64{0.25, 2, 3, 100},
			// Compositions compound their errors.
			tol:  64,
		},
	}
	ctx := plotexpr.NewContext()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := ctx.Define(c.src); err != nil {
				t.Fatal(err)
			}
			f := ctx.Function("f")
			for _, x := range c.xs {
				got := f.At(x)
				want := c.ref(bigf(x))
				if u := ulps(got, want); u > c.tol {
					t.Errorf("%s at %v: got %v, want %.20g (%.1f ulps)", c.src, x, got, want, u)
				}
			}
		})
	}
}
