package plotexpr

import (
	"strconv"
	"strings"
)

// SyntaxError is an error indicating input that does not follow the grammar:
// a missing operand, an unmatched bracket, an unexpected token, or a malformed
// definition head. It implements InputError.
type SyntaxError struct {
	// Col is the position of the token that was found instead, or one past
	// the end of the input.
	Col int
	// Expected describes what the parser was looking for.
	Expected string
	// Found is the text that was found, or the empty string at the end of the
	// input.
	Found string
}

func (err *SyntaxError) Error() string {
	if err.Found == "" {
		return errpos(err.Col, "expected "+err.Expected+", but the input ended")
	}
	return errpos(err.Col, "expected "+err.Expected+", found "+strconv.Quote(err.Found))
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// SemanticKind classifies a SemanticError.
type SemanticKind int8

const (
	// Undefined is a reference to a function or constant that does not exist.
	Undefined SemanticKind = iota + 1
	// Arity is a call with the wrong number of arguments.
	Arity
	// Value is a number that is malformed, NaN, or infinite.
	Value
	// Duplicate is an attempt to add a name that is already bound, or to
	// declare an argument twice.
	Duplicate
	// Builtin is an attempt to change a built-in function or constant.
	Builtin
)

func (k SemanticKind) String() string {
	switch k {
	case Undefined:
		return "undefined"
	case Arity:
		return "arity"
	case Value:
		return "value"
	case Duplicate:
		return "duplicate"
	case Builtin:
		return "builtin"
	default:
		return "SemanticKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// SemanticError is an error indicating well-formed input that cannot be
// compiled. It implements InputError.
type SemanticError struct {
	// Col is the position of the offending token, or 0 if the error did not
	// come from parsing.
	Col int
	// Kind classifies the error.
	Kind SemanticKind
	// Name is the symbol the error concerns, if any.
	Name string
	// Msg describes the error.
	Msg string
}

func (err *SemanticError) Error() string {
	if err.Col <= 0 {
		return err.Msg
	}
	return errpos(err.Col, err.Msg)
}

func (err *SemanticError) Pos() int {
	return err.Col
}

func undefinedErr(col int, what, name string) error {
	return &SemanticError{Col: col, Kind: Undefined, Name: name, Msg: "undefined " + what + " " + strconv.Quote(name)}
}

// RecompileError collects the failures of a recompilation cascade. Each
// failed entry is left undefined.
type RecompileError struct {
	Errs []error
}

func (err *RecompileError) Error() string {
	v := make([]string, len(err.Errs))
	for i, e := range err.Errs {
		v[i] = e.Error()
	}
	return strings.Join(v, "\n")
}

func (err *RecompileError) Unwrap() []error {
	return err.Errs
}

// recompileFailure attributes an error to the entry being recompiled.
type recompileFailure struct {
	name string
	err  error
}

func (err *recompileFailure) Error() string {
	return "recompiling " + err.name + ": " + err.err.Error()
}

func (err *recompileFailure) Unwrap() error {
	return err.err
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*SemanticError)(nil)
)
