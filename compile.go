package plotexpr

import (
	"strconv"
	"strings"
)

// Op is the operation of an Instruction.
type Op int8

const (
	// OpConst pushes a constant.
	OpConst Op = iota + 1
	// OpArg pushes an argument.
	OpArg
	// OpUnary replaces the top of the stack by a unary operator applied to it.
	OpUnary
	// OpBinary pops the right then the left operand and pushes the result of
	// a binary operator.
	OpBinary
	// OpCall pops a function's arguments, first argument first, and pushes
	// its result.
	OpCall
)

func (op Op) String() string {
	switch op {
	case OpConst:
		return "const"
	case OpArg:
		return "arg"
	case OpUnary:
		return "unary"
	case OpBinary:
		return "binary"
	case OpCall:
		return "call"
	default:
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
}

// Instruction is one step of a compiled function's postfix bytecode.
type Instruction struct {
	Op Op
	// Value is the constant pushed by OpConst.
	Value float64
	// Arg is the argument index pushed by OpArg.
	Arg int

	un  *UnaryOperator
	bin *BinaryOperator
	fn  *Function
}

// Unary returns the operator of an OpUnary instruction.
func (in Instruction) Unary() *UnaryOperator { return in.un }

// Binary returns the operator of an OpBinary instruction.
func (in Instruction) Binary() *BinaryOperator { return in.bin }

// Func returns the callee of an OpCall instruction.
func (in Instruction) Func() *Function { return in.fn }

func (in Instruction) String() string {
	switch in.Op {
	case OpConst:
		return "const " + fmtnum(in.Value)
	case OpArg:
		return "arg " + strconv.Itoa(in.Arg)
	case OpUnary:
		return "unary " + in.un.Sign
	case OpBinary:
		return "binary " + in.bin.Sign
	case OpCall:
		return "call " + in.fn.String()
	default:
		return in.Op.String()
	}
}

// Disassemble lists a function's bytecode, one instruction per line.
func (f *Function) Disassemble() string {
	if f.code == nil {
		return "native " + f.String() + "\n"
	}
	var b strings.Builder
	for _, in := range f.code {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// compiler lowers syntax trees to bytecode.
type compiler struct {
	code []Instruction
	// stk evaluates constant subtrees.
	stk Stack
}

// compile folds constant subtrees of n and emits the rest in postfix order.
func compile(n *node) ([]Instruction, error) {
	var c compiler
	if err := c.checkArity(n); err != nil {
		return nil, err
	}
	if err := c.emit(n); err != nil {
		return nil, err
	}
	return c.code, nil
}

func (c *compiler) emit(n *node) error {
	if n.constant() {
		c.code = append(c.code, Instruction{Op: OpConst, Value: c.fold(n)})
		return nil
	}
	switch n.kind {
	case nodeArg:
		c.code = append(c.code, Instruction{Op: OpArg, Arg: n.arg})
	case nodeUnary:
		if err := c.emit(n.left); err != nil {
			return err
		}
		c.code = append(c.code, Instruction{Op: OpUnary, un: n.un})
	case nodeBinary:
		if err := c.emit(n.left); err != nil {
			return err
		}
		if err := c.emit(n.right); err != nil {
			return err
		}
		c.code = append(c.code, Instruction{Op: OpBinary, bin: n.bin})
	case nodeCall:
		// Reverse order leaves the first argument on top, so the evaluator
		// pops arguments in call order.
		for i := len(n.args) - 1; i >= 0; i-- {
			if err := c.emit(n.args[i]); err != nil {
				return err
			}
		}
		c.code = append(c.code, Instruction{Op: OpCall, fn: n.fn})
	default:
		panic("plotexpr: cannot compile AST node " + n.kind.String())
	}
	return nil
}

// checkArity validates every call in n against its callee's arity.
func (c *compiler) checkArity(n *node) error {
	switch n.kind {
	case nodeUnary:
		return c.checkArity(n.left)
	case nodeBinary:
		if err := c.checkArity(n.left); err != nil {
			return err
		}
		return c.checkArity(n.right)
	case nodeCall:
		if len(n.args) != n.fn.arity {
			return &SemanticError{
				Col:  n.pos,
				Kind: Arity,
				Name: n.fn.name,
				Msg:  "cannot call " + n.fn.name + " with " + strconv.Itoa(len(n.args)) + " arguments (takes " + strconv.Itoa(n.fn.arity) + ")",
			}
		}
		for _, a := range n.args {
			if err := c.checkArity(a); err != nil {
				return err
			}
		}
	}
	return nil
}

// fold evaluates a constant subtree.
func (c *compiler) fold(n *node) float64 {
	switch n.kind {
	case nodeConst:
		return n.val
	case nodeUnary:
		return n.un.apply(c.fold(n.left))
	case nodeBinary:
		return n.bin.apply(c.fold(n.left), c.fold(n.right))
	case nodeCall:
		// Push arguments the way compiled code would and let the callee run
		// on the compiler's stack.
		for i := len(n.args) - 1; i >= 0; i-- {
			c.stk.push(c.fold(n.args[i]))
		}
		base := len(c.stk.v) - len(n.args)
		n.fn.invoke(&c.stk)
		if len(c.stk.v) != base+1 {
			panic("plotexpr: inconsistent stack after folding " + n.fn.String() + ": " + strconv.Itoa(len(c.stk.v)-base) + " items")
		}
		return c.stk.pop()
	default:
		panic("plotexpr: cannot fold AST node " + n.kind.String())
	}
}

// maxDepth computes the greatest number of values code holds on the stack.
func maxDepth(code []Instruction) int {
	d, m := 0, 0
	for _, in := range code {
		switch in.Op {
		case OpConst, OpArg:
			d++
		case OpBinary:
			d--
		case OpCall:
			d -= in.fn.arity - 1
		}
		if d > m {
			m = d
		}
	}
	return m
}
