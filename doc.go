// Package plotexpr compiles and evaluates arithmetic expressions for function
// plotters.
//
// Definitions are written the way you would write them on paper, like
// "f(x) = x^2 + a" or "a = b = 3". A Context holds the defined functions and
// constants along with the built-in ones. Each function compiles to a short
// postfix bytecode in which every subexpression that does not depend on the
// function's arguments is folded to a single constant, so evaluating
// "f(x) = x * sin(pi / 4)" performs one multiplication.
//
// Functions of one argument are Pure and have a fast evaluation path, At,
// intended for sampling a curve at many points. Each Pure function also
// carries an offset, so that a plotter can translate a curve by dragging it
// without recompiling anything.
//
// Redefining a name recompiles everything defined in terms of it:
//
//	ctx := plotexpr.NewContext()
//	ctx.Define("a = 2; f(x) = a * x")
//	ctx.Define("a = 5")
//	ctx.Function("f").At(3) // 15
//
// The operators, from loosest to tightest, are + and -; *, /, and %; unary +
// and -; and ^, which is right-associative. Thus "-3^2" is -9 and "2^3^2" is
// 512. Brackets may be any of (), [], or {}, as long as each pair matches.
package plotexpr
