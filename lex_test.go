package plotexpr

import (
	"errors"
	"reflect"
	"testing"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
		err    int
	}{
		// spaces
		{"", nil, 0},
		{" \t \r\n ", nil, 0},
		// numbers
		{"0", []lexToken{{text: "0", kind: tokenNum, pos: 1}}, 0},
		{"9876543210", []lexToken{{text: "9876543210", kind: tokenNum, pos: 1}}, 0},
		{"1 0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1.0", []lexToken{{text: "1.0", kind: tokenNum, pos: 1}}, 0},
		{"1.", []lexToken{{text: "1.", kind: tokenNum, pos: 1}}, 0},
		{".1", []lexToken{{text: ".1", kind: tokenNum, pos: 1}}, 0},
		{"1.1.1", []lexToken{{text: "1.1", kind: tokenNum, pos: 1}, {text: ".1", kind: tokenNum, pos: 4}}, 0},
		{".", nil, 1},
		{"1e1", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "e1", kind: tokenSym, pos: 2}}, 0},
		// symbols
		{"e", []lexToken{{text: "e", kind: tokenSym, pos: 1}}, 0},
		{"log10", []lexToken{{text: "log10", kind: tokenSym, pos: 1}}, 0},
		{"π", []lexToken{{text: "π", kind: tokenSym, pos: 1}}, 0},
		{"eπ", []lexToken{{text: "eπ", kind: tokenSym, pos: 1}}, 0},
		{"_1234_", []lexToken{{text: "_1234_", kind: tokenSym, pos: 1}}, 0},
		{"√x", []lexToken{{text: "√", kind: tokenSym, pos: 1}, {text: "x", kind: tokenSym, pos: 2}}, 0},
		{"π+1", []lexToken{{text: "π", kind: tokenSym, pos: 1}, {text: "+", kind: tokenBinary, pos: 2}, {text: "1", kind: tokenNum, pos: 3}}, 0},
		// operators
		{"-1", []lexToken{{text: "-", kind: tokenUnary, pos: 1}, {text: "1", kind: tokenNum, pos: 2}}, 0},
		{"1-1", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "-", kind: tokenBinary, pos: 2}, {text: "1", kind: tokenNum, pos: 3}}, 0},
		{"a--b", []lexToken{{text: "a", kind: tokenSym, pos: 1}, {text: "-", kind: tokenBinary, pos: 2}, {text: "-", kind: tokenUnary, pos: 3}, {text: "b", kind: tokenSym, pos: 4}}, 0},
		{"(-x)", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: "-", kind: tokenUnary, pos: 2}, {text: "x", kind: tokenSym, pos: 3}, {text: ")", kind: tokenClose, pos: 4}}, 0},
		{"(x)-1", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: "x", kind: tokenSym, pos: 2}, {text: ")", kind: tokenClose, pos: 3}, {text: "-", kind: tokenBinary, pos: 4}, {text: "1", kind: tokenNum, pos: 5}}, 0},
		{"a,-b", []lexToken{{text: "a", kind: tokenSym, pos: 1}, {text: ",", kind: tokenComma, pos: 2}, {text: "-", kind: tokenUnary, pos: 3}, {text: "b", kind: tokenSym, pos: 4}}, 0},
		{"a=-b", []lexToken{{text: "a", kind: tokenSym, pos: 1}, {text: "=", kind: tokenEquals, pos: 2}, {text: "-", kind: tokenUnary, pos: 3}, {text: "b", kind: tokenSym, pos: 4}}, 0},
		{"*1", []lexToken{{text: "*", kind: tokenBinary, pos: 1}, {text: "1", kind: tokenNum, pos: 2}}, 0},
		{"2^-1", []lexToken{{text: "2", kind: tokenNum, pos: 1}, {text: "^", kind: tokenBinary, pos: 2}, {text: "-", kind: tokenUnary, pos: 3}, {text: "1", kind: tokenNum, pos: 4}}, 0},
		{"5%2", []lexToken{{text: "5", kind: tokenNum, pos: 1}, {text: "%", kind: tokenBinary, pos: 2}, {text: "2", kind: tokenNum, pos: 3}}, 0},
		// brackets
		{"()", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: ")", kind: tokenClose, pos: 2}}, 0},
		{"[]", []lexToken{{text: "[", kind: tokenOpen, pos: 1}, {text: "]", kind: tokenClose, pos: 2}}, 0},
		{"{}", []lexToken{{text: "{", kind: tokenOpen, pos: 1}, {text: "}", kind: tokenClose, pos: 2}}, 0},
		// erroneous symbols
		{"$", nil, 1},
		{"a$", nil, 2},
		{"ππ $", nil, 4},
		{"1 # 2", nil, 3},
	}
	for _, c := range cases {
		toks, err := lex(c.src)
		if c.err > 0 {
			var lerr *LexError
			if !errors.As(err, &lerr) {
				t.Errorf("scanning %q: want *LexError, got %#v with tokens %v", c.src, err, toks)
				continue
			}
			if lerr.Pos() != c.err {
				t.Errorf("scanning %q: want error at %d, got %v", c.src, c.err, lerr)
			}
			continue
		}
		if err != nil {
			t.Errorf("scanning %q: unexpected error %v", c.src, err)
			continue
		}
		if !reflect.DeepEqual(toks, c.tokens) {
			t.Errorf("scanning %q:\n\twant %v\n\tgot  %v", c.src, c.tokens, toks)
		}
	}
}

func TestOpSigns(t *testing.T) {
	for _, sign := range opsigns {
		if binop(sign) == nil && unop(sign) == nil {
			t.Errorf("no operator for %q", sign)
		}
	}
	for _, o := range binaryOperators {
		if o.kind == opNone {
			t.Errorf("binary operator %q has no kind", o.Sign)
		}
	}
	if compareWeight(binop("^").Weight, binop("*").Weight) <= 0 {
		t.Error("^ should bind more tightly than *")
	}
	if compareWeight(binop("*").Weight, binop("+").Weight) <= 0 {
		t.Error("* should bind more tightly than +")
	}
}
