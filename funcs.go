package plotexpr

import (
	"math"
	"strconv"
)

// FuncKind distinguishes how a Function is evaluated.
type FuncKind int8

const (
	// Native functions call a Go function of one or two arguments.
	Native FuncKind = iota + 1
	// Pure functions are compiled functions of one argument. They have a
	// latency-optimized evaluation path and a translatable offset.
	Pure
	// Impure functions are compiled functions of more than one argument.
	Impure
)

func (k FuncKind) String() string {
	switch k {
	case Native:
		return "native"
	case Pure:
		return "pure"
	case Impure:
		return "impure"
	default:
		return "FuncKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Entry is a named function or constant in a Context.
type Entry interface {
	// Name is the name as it was defined, with its original case.
	Name() string
	// Source is the normalized definition text, e.g. "f(x) = x ^ 2". It is
	// empty for built-ins, which are never recompiled.
	Source() string
	// UserDefined is whether the entry came from a definition.
	UserDefined() bool
}

// Function is a named numeric function. A Function's bytecode never changes
// after it is compiled; redefining a function installs a new Function.
//
// A Function is safe to evaluate concurrently through Call and AtWith with
// distinct Stacks. At uses state owned by the Function and must not be called
// concurrently.
type Function struct {
	name  string
	src   string
	arity int
	kind  FuncKind
	user  bool
	// refs is what the definition uses, for ordering recompilation.
	refs []ref

	code []Instruction
	// depth is the most values code keeps on the stack at once, not counting
	// the stacks of callees.
	depth int

	fn1 func(float64) float64
	fn2 func(float64, float64) float64

	// dx and dy translate Pure functions: f(x) is evaluated as
	// code(x + dx) + dy.
	dx, dy float64
	// scratch is the stack At uses.
	scratch Stack
}

// Monadic wraps a Go function of one argument into a native Function.
func Monadic(name string, f func(float64) float64) *Function {
	return &Function{name: name, arity: 1, kind: Native, fn1: f}
}

// Dyadic wraps a Go function of two arguments into a native Function.
func Dyadic(name string, f func(float64, float64) float64) *Function {
	return &Function{name: name, arity: 2, kind: Native, fn2: f}
}

// newCompiled creates a user-defined function from compiled bytecode.
func newCompiled(name, src string, arity int, code []Instruction) *Function {
	f := &Function{
		name:  name,
		src:   src,
		arity: arity,
		kind:  Impure,
		user:  true,
		code:  code,
		depth: maxDepth(code),
	}
	if arity == 1 {
		f.kind = Pure
		f.scratch = *NewStack(f.depth)
	}
	return f
}

func (f *Function) Name() string { return f.name }

func (f *Function) Source() string { return f.src }

func (f *Function) UserDefined() bool { return f.user }

// Arity returns the number of arguments the function takes.
func (f *Function) Arity() int { return f.arity }

// Kind returns how the function is evaluated.
func (f *Function) Kind() FuncKind { return f.kind }

// Code returns a copy of the function's bytecode. Natives have none.
func (f *Function) Code() []Instruction {
	if f.code == nil {
		return nil
	}
	return append([]Instruction(nil), f.code...)
}

// Offset returns the translation of a Pure function.
func (f *Function) Offset() (dx, dy float64) {
	return f.dx, f.dy
}

// SetOffset sets the translation of a Pure function so that it evaluates as
// f(x + dx) + dy. The bytecode is unchanged.
func (f *Function) SetOffset(dx, dy float64) error {
	if f.kind != Pure {
		return &SemanticError{Kind: Arity, Name: f.name, Msg: "cannot translate " + f.String() + ": only compiled functions of one argument have offsets"}
	}
	if !finite(dx) || !finite(dy) {
		return &SemanticError{Kind: Value, Name: f.name, Msg: "illegal offset for " + f.name + ": " + fmtnum(dx) + ", " + fmtnum(dy)}
	}
	f.dx, f.dy = dx, dy
	return nil
}

// Translate returns a Pure function sharing f's bytecode with its own offset
// and its own scratch stack. The result is not installed in any Context.
func (f *Function) Translate(dx, dy float64) (*Function, error) {
	if f.kind != Pure {
		return nil, &SemanticError{Kind: Arity, Name: f.name, Msg: "cannot translate " + f.String() + ": only compiled functions of one argument have offsets"}
	}
	g := &Function{
		name:    f.name,
		src:     f.src,
		arity:   f.arity,
		kind:    f.kind,
		user:    f.user,
		code:    f.code,
		depth:   f.depth,
		scratch: *NewStack(f.depth),
	}
	if err := g.SetOffset(dx, dy); err != nil {
		return nil, err
	}
	return g, nil
}

// String returns the function's name and arity, e.g. "atan2/2".
func (f *Function) String() string {
	return f.name + "/" + strconv.Itoa(f.arity)
}

// Constant is a named finite value.
type Constant struct {
	name string
	src  string
	val  float64
	user bool
	refs []ref
}

// Const creates a built-in constant, which is never recompiled.
func Const(name string, v float64) *Constant {
	return &Constant{name: name, val: v}
}

func (c *Constant) Name() string { return c.name }

func (c *Constant) Source() string { return c.src }

func (c *Constant) UserDefined() bool { return c.user }

// Value returns the constant's value.
func (c *Constant) Value() float64 { return c.val }

func (c *Constant) String() string {
	return c.name + " = " + fmtnum(c.val)
}

var (
	_ Entry = (*Function)(nil)
	_ Entry = (*Constant)(nil)
)

func builtinConstants() []*Constant {
	return []*Constant{
		Const("e", math.E),
		Const("pi", math.Pi),
		Const("π", math.Pi),
	}
}

func builtinFunctions() []*Function {
	return []*Function{
		Monadic("abs", math.Abs),
		Monadic("acos", math.Acos),
		Monadic("asin", math.Asin),
		Monadic("atan", math.Atan),
		Dyadic("atan2", math.Atan2),
		Dyadic("IEEEremainder", math.Remainder),
		Dyadic("max", math.Max),
		Dyadic("min", math.Min),
		Monadic("cbrt", math.Cbrt),
		Monadic("ceil", math.Ceil),
		Monadic("cos", math.Cos),
		Monadic("cosh", math.Cosh),
		Monadic("exp", math.Exp),
		Monadic("expm1", math.Expm1),
		Monadic("floor", math.Floor),
		Monadic("log", math.Log),
		Monadic("log10", math.Log10),
		Monadic("log1p", math.Log1p),
		Monadic("round", roundHalfUp),
		Monadic("sin", math.Sin),
		Monadic("sinh", math.Sinh),
		Monadic("sqrt", math.Sqrt),
		Monadic("√", math.Sqrt),
		Monadic("tan", math.Tan),
		Monadic("toDegrees", func(x float64) float64 { return float64(x * (180 / math.Pi)) }),
		Monadic("toRadians", func(x float64) float64 { return float64(x * (math.Pi / 180)) }),
		Monadic("ulp", ulp),
	}
}

// roundHalfUp rounds to the nearest integer with ties toward positive
// infinity. NaN rounds to 0, and the result saturates at the range of int64.
func roundHalfUp(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt64:
		return math.MaxInt64
	case x <= math.MinInt64:
		return math.MinInt64
	}
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return r
}

// ulp returns the distance from |x| to the next larger float64.
func ulp(x float64) float64 {
	x = math.Abs(x)
	switch {
	case math.IsNaN(x), math.IsInf(x, 0):
		return x
	case x == math.MaxFloat64:
		return math.Ldexp(1, 971)
	}
	return math.Nextafter(x, math.Inf(1)) - x
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func fmtnum(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
