package plotexpr_test

import (
	"fmt"
	"math"

	"github.com/zephyrtronium/plotexpr"
)

func ExampleMonadic() {
	sigmoid := plotexpr.Monadic("sigmoid", func(x float64) float64 { return 1 / (1 + math.Exp(-x)) })
	ctx := plotexpr.NewContext(plotexpr.WithFunctions(sigmoid))
	ctx.Define("f(x) = 2 * sigmoid(x) - 1")
	f := ctx.Function("f")
	fmt.Println(f, f.Kind(), f.At(0))

	// Output:
	// f/1 pure 0
}

func ExampleFunction_Disassemble() {
	ctx := plotexpr.NewContext()
	ctx.Define("a = 3; f(x, y) = a * max(x, y) + sqrt(a + 1)")
	fmt.Print(ctx.Function("f").Disassemble())

	// Output:
	// const 3
	// arg 1
	// arg 0
	// call max/2
	// binary *
	// const 2
	// binary +
}

func ExampleFunction_Translate() {
	ctx := plotexpr.NewContext()
	ctx.Define("f(x) = x ^ 2")
	f := ctx.Function("f")
	g, _ := f.Translate(-1, 10)
	fmt.Println(f.At(1), g.At(1), g.At(0))

	// Output:
	// 1 10 11
}

func ExampleContext_Subscribe() {
	ctx := plotexpr.NewContext()
	cancel := ctx.Subscribe(func(e plotexpr.Entry) {
		fmt.Println("defined", e.Source())
	})
	defer cancel()
	ctx.Define("k = 2; f(x) = k * x; k = 3")
	fmt.Println(ctx.Function("f").At(1))

	// Output:
	// defined k = 2
	// defined f(x) = k * x
	// defined k = 3
	// 3
}
