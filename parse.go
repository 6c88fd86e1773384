package plotexpr

import (
	"errors"
	"strconv"
	"strings"
)

// expression   = product { ('+' | '-') product }
// product      = factor { ('*' | '/' | '%') factor }
// factor       = unary_sign factor | power
// power        = primary [ '^' factor ]
// primary      = number | symbol | call | '(' expression ')'
// call         = symbol '(' expression { ',' expression } ')'
// function_def = symbol '(' symbol { ',' symbol } ')' '=' expression
// constant_def = symbol '=' expression | symbol '=' constant_def
//
// Any of the bracket pairs ( ), [ ], { } may be used wherever parentheses
// appear.

// parser holds the state of parsing one statement or expression.
type parser struct {
	toks []lexToken
	// pos is the index of the next token.
	pos int
	// end is the column just past the input, for errors at the end.
	end int
	ctx *Context
	// args is the argument names bound by the function being defined.
	args []string
	// refs is the functions and constants the input uses.
	refs []ref
}

func newParser(ctx *Context, src string) (*parser, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	return &parser{toks: toks, end: len([]rune(src)) + 1, ctx: ctx}, nil
}

// peek returns the next token without consuming it. At the end of the input,
// the result has kind tokenNone.
func (p *parser) peek() lexToken {
	if p.pos >= len(p.toks) {
		return lexToken{pos: p.end}
	}
	return p.toks[p.pos]
}

// peekAt returns the token k after the next one.
func (p *parser) peekAt(k int) lexToken {
	if p.pos+k >= len(p.toks) {
		return lexToken{pos: p.end}
	}
	return p.toks[p.pos+k]
}

func (p *parser) next() lexToken {
	tok := p.peek()
	if tok.kind != tokenNone {
		p.pos++
	}
	return tok
}

// unexpected creates an error for a token other than the one expected.
func unexpected(tok lexToken, expected string) error {
	return &SyntaxError{Col: tok.pos, Expected: expected, Found: tok.text}
}

// done checks that the whole input has been parsed.
func (p *parser) done() error {
	if tok := p.peek(); tok.kind != tokenNone {
		return unexpected(tok, "an operator or the end of the input")
	}
	return nil
}

func (p *parser) expression() (*node, error) {
	return p.level(sumWeight, p.product)
}

func (p *parser) product() (*node, error) {
	return p.level(productWeight, p.factor)
}

// level parses a left-associative chain of the binary operators with the
// given weight.
func (p *parser) level(weight int, operand func() (*node, error)) (*node, error) {
	n, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenBinary {
			return n, nil
		}
		op := binop(tok.text)
		if op == nil || !op.LeftAssoc || compareWeight(op.Weight, weight) != 0 {
			return n, nil
		}
		p.pos++
		rhs, err := operand()
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeBinary, bin: op, left: n, right: rhs, pos: tok.pos}
	}
}

func (p *parser) factor() (*node, error) {
	tok := p.peek()
	if tok.kind != tokenUnary {
		return p.power()
	}
	p.pos++
	op := unop(tok.text)
	if op == nil {
		panic("plotexpr: lexed unknown unary operator " + tok.String())
	}
	operand, err := p.factor()
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeUnary, un: op, left: operand, pos: tok.pos}, nil
}

func (p *parser) power() (*node, error) {
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.kind != tokenBinary {
		return n, nil
	}
	op := binop(tok.text)
	if op == nil || op.LeftAssoc || compareWeight(op.Weight, powerWeight) != 0 {
		return n, nil
	}
	p.pos++
	// Recursing into factor makes x^y^z group as x^(y^z) and allows x^-y.
	rhs, err := p.factor()
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeBinary, bin: op, left: n, right: rhs, pos: tok.pos}, nil
}

func (p *parser) primary() (*node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNum:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			msg := "malformed number " + strconv.Quote(tok.text)
			if errors.Is(err, strconv.ErrRange) {
				msg = "number " + tok.text + " is out of range"
			}
			return nil, &SemanticError{Col: tok.pos, Kind: Value, Msg: msg}
		}
		return &node{kind: nodeConst, val: v, name: tok.text, pos: tok.pos}, nil
	case tokenSym:
		if p.peek().kind == tokenOpen {
			return p.call(tok)
		}
		for i, a := range p.args {
			if a == tok.text {
				return &node{kind: nodeArg, arg: i, name: tok.text, pos: tok.pos}, nil
			}
		}
		c := p.ctx.Constant(tok.text)
		if c == nil {
			return nil, undefinedErr(tok.pos, "symbol", tok.text)
		}
		p.refs = append(p.refs, ref{name: key(tok.text)})
		return &node{kind: nodeConst, val: c.val, name: tok.text, pos: tok.pos}, nil
	case tokenOpen:
		n, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.close(tok); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, unexpected(tok, "a number, a symbol, or an opening bracket")
	}
}

// call parses the argument list of a call to the function named by tok.
func (p *parser) call(tok lexToken) (*node, error) {
	fn := p.ctx.Function(tok.text)
	if fn == nil {
		return nil, undefinedErr(tok.pos, "function", tok.text)
	}
	p.refs = append(p.refs, ref{fn: true, name: key(tok.text)})
	open := p.next()
	n := &node{kind: nodeCall, fn: fn, pos: tok.pos}
	for {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		n.args = append(n.args, arg)
		if p.peek().kind != tokenComma {
			break
		}
		p.pos++
	}
	if err := p.close(open); err != nil {
		return nil, err
	}
	return n, nil
}

// close consumes the bracket matching open.
func (p *parser) close(open lexToken) error {
	want := CloseBrackets[strings.Index(OpenBrackets, open.text)]
	tok := p.next()
	if tok.kind != tokenClose || tok.text[0] != want {
		return unexpected(tok, "closing bracket "+strconv.Quote(string(want))+" for "+open.text+" at "+strconv.Itoa(open.pos))
	}
	return nil
}

// statement is a parsed definition.
type statement struct {
	// names is the chain of constants being defined, outermost first, or the
	// single name of a function.
	names []string
	// srcs is the normalized source of each name's definition.
	srcs []string
	// params is the argument names of a function definition, nil for
	// constants.
	params []string
	body   *node
	refs   []ref
}

func (st *statement) function() bool {
	return st.params != nil
}

// definition parses a function or constant definition.
func (p *parser) definition() (*statement, error) {
	head := p.peek()
	if head.kind != tokenSym {
		return nil, unexpected(head, "the name of a function or constant")
	}
	switch tok := p.peekAt(1); tok.kind {
	case tokenEquals:
		return p.constantDef()
	case tokenOpen:
		return p.functionDef()
	default:
		return nil, unexpected(tok, "'=' or an opening bracket after "+strconv.Quote(head.text))
	}
}

func (p *parser) constantDef() (*statement, error) {
	var st statement
	// a = b = expr defines both a and b.
	for p.peek().kind == tokenSym && p.peekAt(1).kind == tokenEquals {
		st.srcs = append(st.srcs, formatTokens(p.toks[p.pos:]))
		st.names = append(st.names, p.next().text)
		p.next()
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.done(); err != nil {
		return nil, err
	}
	st.body = body
	st.refs = p.refs
	return &st, nil
}

func (p *parser) functionDef() (*statement, error) {
	name := p.next()
	open := p.next()
	params := []string{}
	for {
		tok := p.next()
		if tok.kind != tokenSym {
			return nil, unexpected(tok, "an argument name in the definition of "+name.text)
		}
		for _, q := range params {
			if q == tok.text {
				return nil, &SemanticError{Col: tok.pos, Kind: Duplicate, Name: tok.text, Msg: "duplicate argument " + strconv.Quote(tok.text) + " in the definition of " + name.text}
			}
		}
		params = append(params, tok.text)
		if p.peek().kind != tokenComma {
			break
		}
		p.pos++
	}
	if err := p.close(open); err != nil {
		return nil, err
	}
	if tok := p.next(); tok.kind != tokenEquals {
		return nil, unexpected(tok, "'=' after the argument list of "+name.text)
	}
	p.args = params
	body, err := p.expression()
	p.args = nil
	if err != nil {
		return nil, err
	}
	if err := p.done(); err != nil {
		return nil, err
	}
	return &statement{
		names:  []string{name.text},
		srcs:   []string{formatTokens(p.toks)},
		params: params,
		body:   body,
		refs:   p.refs,
	}, nil
}

// formatTokens renders tokens in the normalized spacing used for stored
// definitions, e.g. "f(x, y) = -x ^ 2 + y".
func formatTokens(toks []lexToken) string {
	var b strings.Builder
	for _, t := range toks {
		switch t.kind {
		case tokenBinary, tokenEquals:
			b.WriteString(" " + t.text + " ")
		case tokenComma:
			b.WriteString(", ")
		case tokenUnary:
			if s := b.String(); s != "" && !strings.HasSuffix(s, " ") && !strings.ContainsAny(s[len(s)-1:], OpenBrackets) {
				b.WriteByte(' ')
			}
			b.WriteString(t.text)
		default:
			b.WriteString(t.text)
		}
	}
	return b.String()
}
