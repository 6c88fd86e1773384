package plotexpr

import (
	"math"
	"strconv"
)

// Stack is scratch space for evaluating functions. The zero value is ready to
// use. A Stack must not be used by more than one evaluation at a time; give
// each goroutine its own.
type Stack struct {
	v []float64
}

// NewStack creates a stack with room for size values before it needs to grow.
func NewStack(size int) *Stack {
	if size < 1 {
		size = 1
	}
	return &Stack{v: make([]float64, 0, size)}
}

// Len returns the number of values on the stack. It is zero between
// evaluations.
func (s *Stack) Len() int {
	return len(s.v)
}

func (s *Stack) push(x float64) {
	s.v = append(s.v, x)
}

func (s *Stack) pop() float64 {
	x := s.v[len(s.v)-1]
	s.v = s.v[:len(s.v)-1]
	return x
}

// exec runs code with the given arguments, leaving its result on top of the
// stack.
func (s *Stack) exec(code []Instruction, args []float64) {
	for i := range code {
		in := &code[i]
		switch in.Op {
		case OpConst:
			s.push(in.Value)
		case OpArg:
			s.push(args[in.Arg])
		case OpUnary:
			t := len(s.v) - 1
			s.v[t] = in.un.apply(s.v[t])
		case OpBinary:
			r := s.pop()
			t := len(s.v) - 1
			s.v[t] = in.bin.apply(s.v[t], r)
		case OpCall:
			in.fn.invoke(s)
		default:
			panic("plotexpr: invalid instruction " + in.String())
		}
	}
}

// invoke replaces the function's arguments on top of s with its result. The
// first argument is on top.
func (f *Function) invoke(s *Stack) {
	base := len(s.v) - f.arity
	frame := s.v[base:]
	// Pop into argument slots: frame[i] becomes argument i.
	for i, j := 0, len(frame)-1; i < j; i, j = i+1, j-1 {
		frame[i], frame[j] = frame[j], frame[i]
	}
	var r float64
	switch f.kind {
	case Native:
		if f.arity == 1 {
			r = f.fn1(frame[0])
		} else {
			r = f.fn2(frame[0], frame[1])
		}
	case Pure, Impure:
		// The callee's values go above its frame. If the stack grows, frame
		// still refers to the old backing array, which keeps the arguments.
		mark := len(s.v)
		s.exec(f.code, frame)
		if len(s.v) != mark+1 {
			panic(f.inconsistent(len(s.v) - mark))
		}
		r = s.v[mark]
	default:
		panic("plotexpr: invalid function kind " + f.kind.String())
	}
	s.v = s.v[:base]
	s.push(r)
}

// Call evaluates the function with the given arguments using s as scratch
// space. If s is nil, Call allocates a stack. Pure functions apply their
// offsets. Call panics if len(args) is not the function's arity.
func (f *Function) Call(s *Stack, args ...float64) float64 {
	if len(args) != f.arity {
		panic("plotexpr: " + f.String() + " called with " + strconv.Itoa(len(args)) + " arguments")
	}
	if s == nil {
		s = NewStack(f.depth)
	}
	switch f.kind {
	case Native:
		if f.arity == 1 {
			return f.fn1(args[0])
		}
		return f.fn2(args[0], args[1])
	case Pure:
		x := [1]float64{args[0]}
		if f.dx != 0 {
			x[0] = float64(x[0] + f.dx)
		}
		r := f.run(s, x[:])
		if f.dy != 0 {
			r = float64(r + f.dy)
		}
		return r
	default:
		return f.run(s, args)
	}
}

// run executes compiled code at the top level of s.
func (f *Function) run(s *Stack, args []float64) float64 {
	base := len(s.v)
	s.exec(f.code, args)
	if len(s.v) != base+1 {
		panic(f.inconsistent(len(s.v) - base))
	}
	return s.pop()
}

// At evaluates a Pure function at x, applying its offsets. It uses a stack
// owned by f and dispatches the arithmetic operators inline, so it is the
// fastest way to evaluate a function of one variable many times. At is not
// safe for concurrent use; use AtWith to evaluate the same function from
// several goroutines. At panics if f is not Pure.
func (f *Function) At(x float64) float64 {
	return f.AtWith(&f.scratch, x)
}

// AtWith is At using s as scratch space.
func (f *Function) AtWith(s *Stack, x float64) float64 {
	if f.kind != Pure {
		panic("plotexpr: fast path on " + f.kind.String() + " function " + f.String())
	}
	base := len(s.v)
	if cap(s.v)-base < f.depth {
		s.v = append(s.v, make([]float64, f.depth)...)[:base]
	}
	if f.dx != 0 {
		x = float64(x + f.dx)
	}
	v := s.v[:cap(s.v)]
	t := base - 1
	for i := range f.code {
		in := &f.code[i]
		switch in.Op {
		case OpConst:
			t++
			v[t] = in.Value
		case OpArg:
			t++
			v[t] = x
		case OpUnary:
			switch in.un.kind {
			case opNeg:
				v[t] = -v[t]
			case opPlus:
			default:
				v[t] = in.un.apply(v[t])
			}
		case OpBinary:
			r := v[t]
			t--
			l := v[t]
			switch in.bin.kind {
			case opAdd:
				v[t] = float64(l + r)
			case opSub:
				v[t] = float64(l - r)
			case opMul:
				v[t] = float64(l * r)
			case opDiv:
				v[t] = float64(l / r)
			case opPow:
				v[t] = math.Pow(l, r)
			case opMod:
				v[t] = math.Mod(l, r)
			default:
				v[t] = in.bin.apply(l, r)
			}
		case OpCall:
			s.v = v[:t+1]
			in.fn.invoke(s)
			v = s.v[:cap(s.v)]
			t = len(s.v) - 1
		default:
			panic("plotexpr: invalid instruction " + in.String())
		}
	}
	if t != base {
		panic(f.inconsistent(t - base + 1))
	}
	s.v = v[:base]
	if f.dy == 0 {
		// Adding a zero offset would turn -0 into +0.
		return v[t]
	}
	return float64(v[t] + f.dy)
}

func (f *Function) inconsistent(n int) string {
	return "plotexpr: inconsistent stack after evaluating " + f.String() + ": " + strconv.Itoa(n) + " items (bad bytecode?)"
}
