package plotexpr

import "math"

type opKind int8

const (
	opNone opKind = iota

	opAdd
	opSub
	opMul
	opDiv
	opMod
	opPow

	opNeg
	opPlus
)

// BinaryOperator is an infix operator. Operators with higher Weight bind more
// tightly. Exponentiation is the only operator that is not left-associative.
type BinaryOperator struct {
	Sign      string
	Weight    int
	LeftAssoc bool

	kind  opKind
	apply func(l, r float64) float64
}

// Apply applies the operator.
func (o *BinaryOperator) Apply(l, r float64) float64 {
	return o.apply(l, r)
}

func (o *BinaryOperator) String() string {
	return o.Sign
}

// UnaryOperator is a prefix operator.
type UnaryOperator struct {
	Sign   string
	Weight int

	kind  opKind
	apply func(x float64) float64
}

// Apply applies the operator.
func (o *UnaryOperator) Apply(x float64) float64 {
	return o.apply(x)
}

func (o *UnaryOperator) String() string {
	return o.Sign
}

// Operator weights. Each level of the grammar selects its operators from
// binaryOperators by weight.
const (
	sumWeight     = 39
	productWeight = 41
	powerWeight   = 42
	unaryWeight   = 84
)

// Explicit conversions keep the compiler from fusing operations, so that
// folded constants, the generic evaluator, and the fast path agree bit for bit.
var binaryOperators = [...]BinaryOperator{
	{Sign: "^", Weight: powerWeight, LeftAssoc: false, kind: opPow, apply: math.Pow},
	{Sign: "*", Weight: productWeight, LeftAssoc: true, kind: opMul, apply: func(l, r float64) float64 { return float64(l * r) }},
	{Sign: "/", Weight: productWeight, LeftAssoc: true, kind: opDiv, apply: func(l, r float64) float64 { return float64(l / r) }},
	{Sign: "%", Weight: productWeight, LeftAssoc: true, kind: opMod, apply: math.Mod},
	{Sign: "+", Weight: sumWeight, LeftAssoc: true, kind: opAdd, apply: func(l, r float64) float64 { return float64(l + r) }},
	{Sign: "-", Weight: sumWeight, LeftAssoc: true, kind: opSub, apply: func(l, r float64) float64 { return float64(l - r) }},
}

var unaryOperators = [...]UnaryOperator{
	{Sign: "-", Weight: unaryWeight, kind: opNeg, apply: func(x float64) float64 { return -x }},
	{Sign: "+", Weight: unaryWeight, kind: opPlus, apply: func(x float64) float64 { return x }},
}

// binop gets the binary operator for a sign, or nil if there is none.
func binop(sign string) *BinaryOperator {
	for i := range binaryOperators {
		if binaryOperators[i].Sign == sign {
			return &binaryOperators[i]
		}
	}
	return nil
}

// unop gets the unary operator for a sign, or nil if there is none.
func unop(sign string) *UnaryOperator {
	for i := range unaryOperators {
		if unaryOperators[i].Sign == sign {
			return &unaryOperators[i]
		}
	}
	return nil
}

// compareWeight is positive if a binds more tightly than b.
func compareWeight(a, b int) int {
	return a - b
}

// opsigns is every operator sign, longest first, for the lexer.
var opsigns = func() []string {
	var v []string
	have := map[string]bool{}
	for _, o := range binaryOperators {
		if !have[o.Sign] {
			have[o.Sign] = true
			v = append(v, o.Sign)
		}
	}
	for _, o := range unaryOperators {
		if !have[o.Sign] {
			have[o.Sign] = true
			v = append(v, o.Sign)
		}
	}
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && len(v[j]) > len(v[j-1]); j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
	return v
}()
