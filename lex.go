package plotexpr

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenNum is a decimal number without an exponent.
	tokenNum
	// tokenSym is a function, constant, or argument name.
	tokenSym
	// tokenBinary is an operator between two operands.
	tokenBinary
	// tokenUnary is an operator prefixing one operand.
	tokenUnary
	// tokenOpen is an open bracket, e.g. (.
	tokenOpen
	// tokenClose is a close bracket, e.g. ).
	tokenClose
	// tokenEquals separates a definition's head from its body.
	tokenEquals
	// tokenComma separates arguments.
	tokenComma
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenNum:
		return "Num"
	case tokenSym:
		return "Sym"
	case tokenBinary:
		return "Binary"
	case tokenUnary:
		return "Unary"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenEquals:
		return "Equals"
	case tokenComma:
		return "Comma"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// The parser checks that a bracket in byte position k in OpenBrackets is
// matched with the bracket in byte position k in CloseBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

// sqrtSign is a symbol on its own despite not being a letter.
const sqrtSign = '√'

type lexer struct {
	src  string
	off  int
	rune int
	toks []lexToken
}

// lex scans all of src into tokens.
func lex(src string) ([]lexToken, error) {
	l := lexer{src: src, rune: 1}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenNone {
			return l.toks, nil
		}
		l.toks = append(l.toks, tok)
	}
}

// peek returns the rune at the current offset and its size, or 0, 0 at the
// end of the input.
func (l *lexer) peek() (rune, int) {
	if l.off >= len(l.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[l.off:])
}

// advance moves past n bytes that contain k runes.
func (l *lexer) advance(n, k int) string {
	s := l.src[l.off : l.off+n]
	l.off += n
	l.rune += k
	return s
}

// next scans the next token. At the end of the input, the result has kind
// tokenNone and no error.
func (l *lexer) next() (lexToken, error) {
	r, sz := l.peek()
	for sz > 0 && unicode.IsSpace(r) {
		l.advance(sz, 1)
		r, sz = l.peek()
	}
	tok := lexToken{pos: l.rune}
	if sz == 0 {
		return tok, nil
	}
	if n := l.scanNum(); n > 0 {
		tok.text = l.advance(n, n)
		tok.kind = tokenNum
		return tok, nil
	}
	rest := l.src[l.off:]
	for _, sign := range opsigns {
		if strings.HasPrefix(rest, sign) {
			tok.text = l.advance(len(sign), utf8.RuneCountInString(sign))
			tok.kind = l.classify(sign)
			return tok, nil
		}
	}
	switch {
	case strings.ContainsRune(OpenBrackets, r):
		tok.text = l.advance(sz, 1)
		tok.kind = tokenOpen
	case strings.ContainsRune(CloseBrackets, r):
		tok.text = l.advance(sz, 1)
		tok.kind = tokenClose
	case r == '=':
		tok.text = l.advance(sz, 1)
		tok.kind = tokenEquals
	case r == ',':
		tok.text = l.advance(sz, 1)
		tok.kind = tokenComma
	case r == sqrtSign:
		tok.text = l.advance(sz, 1)
		tok.kind = tokenSym
	case isIdent(r):
		n, k := 0, 0
		for _, c := range rest {
			if !isIdent(c) {
				break
			}
			n += utf8.RuneLen(c)
			k++
		}
		tok.text = l.advance(n, k)
		tok.kind = tokenSym
	default:
		return tok, &LexError{Text: string(r), Col: l.rune}
	}
	return tok, nil
}

// scanNum returns the byte length of the number at the current offset, or 0
// if there is none. Numbers are digits with at most one decimal point, which
// may lead or trail but may not stand alone.
func (l *lexer) scanNum() int {
	var dig, dot bool
	n := 0
	for _, c := range []byte(l.src[l.off:]) {
		switch {
		case '0' <= c && c <= '9':
			dig = true
		case c == '.' && !dot:
			dot = true
		default:
			goto done
		}
		n++
	}
done:
	if !dig {
		return 0
	}
	return n
}

// classify decides whether an operator sign is unary or binary from the
// token before it.
func (l *lexer) classify(sign string) tokenKind {
	if unop(sign) == nil {
		return tokenBinary
	}
	if len(l.toks) == 0 {
		return tokenUnary
	}
	switch l.toks[len(l.toks)-1].kind {
	case tokenBinary, tokenUnary, tokenOpen, tokenComma, tokenEquals:
		return tokenUnary
	default:
		return tokenBinary
	}
}

func isIdent(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// LexError indicates input that does not begin any token. It implements
// InputError.
type LexError struct {
	// Text is the rune that could not be scanned.
	Text string
	// Col is the rune position of the invalid text, starting at 1.
	Col int
}

func (err *LexError) Error() string {
	return errpos(err.Col, "invalid token "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
