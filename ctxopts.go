package plotexpr

// ContextOption is an option for creating a Context.
type ContextOption interface {
	contextOption(ctxconfig) ctxconfig
}

type (
	nobuiltinsopt struct{}
	funcsopt      []*Function
	constsopt     []*Constant
)

// ctxconfig collects the options given to NewContext.
type ctxconfig struct {
	// nobuiltins omits the default functions and constants.
	nobuiltins bool
	// funcs and consts are added after the built-ins, in order.
	funcs  []*Function
	consts []*Constant
}

// WithoutBuiltins creates a context with no functions or constants other than
// those given by other options.
func WithoutBuiltins() ContextOption {
	return nobuiltinsopt{}
}

func (nobuiltinsopt) contextOption(c ctxconfig) ctxconfig {
	c.nobuiltins = true
	return c
}

// WithFunctions adds functions to a new context as though by AddFunction.
// NewContext panics if a name is bound twice.
func WithFunctions(fns ...*Function) ContextOption {
	return funcsopt(fns)
}

func (o funcsopt) contextOption(c ctxconfig) ctxconfig {
	// Always make a copy.
	c.funcs = append(c.funcs[:len(c.funcs):len(c.funcs)], o...)
	return c
}

// WithConstants adds constants to a new context as though by AddConstant.
// NewContext panics if a name is bound twice or a value is not finite.
func WithConstants(cs ...*Constant) ContextOption {
	return constsopt(cs)
}

func (o constsopt) contextOption(c ctxconfig) ctxconfig {
	c.consts = append(c.consts[:len(c.consts):len(c.consts)], o...)
	return c
}
