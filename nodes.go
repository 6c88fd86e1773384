package plotexpr

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	// val is the value of a nodeConst.
	val float64
	// arg is the argument index of a nodeArg.
	arg int
	// name is the source text for a nodeConst or nodeArg, for printing.
	name string

	un  *UnaryOperator
	bin *BinaryOperator
	fn  *Function

	left  *node
	right *node
	args  []*node

	// pos is the position of the token that created the node.
	pos int
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeConst  // push val
	nodeArg    // push argument arg
	nodeUnary  // evaluate left, then apply un
	nodeBinary // evaluate left, evaluate right, apply bin
	nodeCall   // evaluate args, call fn
)

func (k nodeKind) String() string {
	switch k {
	case nodeNone:
		return "None"
	case nodeConst:
		return "Const"
	case nodeArg:
		return "Arg"
	case nodeUnary:
		return "Unary"
	case nodeBinary:
		return "Binary"
	case nodeCall:
		return "Call"
	default:
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// constant reports whether the subtree references no arguments.
func (n *node) constant() bool {
	switch n.kind {
	case nodeConst:
		return true
	case nodeArg:
		return false
	case nodeUnary:
		return n.left.constant()
	case nodeBinary:
		return n.left.constant() && n.right.constant()
	case nodeCall:
		for _, a := range n.args {
			if !a.constant() {
				return false
			}
		}
		return true
	default:
		panic("plotexpr: invalid AST node " + n.kind.String())
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

// fmt writes the tree fully bracketed, alternating round and square brackets
// by depth.
func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.kind {
	case nodeConst, nodeArg:
		if n.name != "" {
			b.WriteString(n.name)
		} else {
			b.WriteString(strconv.FormatFloat(n.val, 'g', -1, 64))
		}
	case nodeUnary:
		b.WriteString(n.un.Sign)
		n.left.fmt(b, !square)
	case nodeBinary:
		n.left.fmt(b, !square)
		b.WriteString(" " + n.bin.Sign + " ")
		n.right.fmt(b, !square)
	case nodeCall:
		// Arguments use the other kind of bracket.
		al, ar := "[", "]"
		if square {
			al, ar = "(", ")"
		}
		b.WriteString(n.fn.name + al)
		for i, a := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b, square)
		}
		b.WriteString(ar)
	default:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
	}
}
