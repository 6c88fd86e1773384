package plotexpr

import (
	"strconv"
	"strings"
)

// Context is a symbol table of functions and constants. Names are
// case-insensitive within each namespace, and a function and a constant may
// share a name.
//
// A Context is not safe for concurrent mutation. Lookups and evaluation may
// proceed concurrently while no mutation is in progress.
type Context struct {
	funcs  map[string]*Function
	consts map[string]*Constant
	// forder and corder hold entries in the order they were added.
	forder []*Function
	corder []*Constant
	// ufuncs and uconsts cache the user-defined entries. They are nil when
	// stale.
	ufuncs  []*Function
	uconsts []*Constant

	subs   []subscriber
	nextID int
}

// ref names a function or constant that a definition uses.
type ref struct {
	fn   bool
	name string
}

type subscriber struct {
	id int
	fn func(Entry)
}

// NewContext creates a symbol table containing the built-in functions and
// constants.
func NewContext(opts ...ContextOption) *Context {
	var cfg ctxconfig
	for _, opt := range opts {
		cfg = opt.contextOption(cfg)
	}
	ctx := &Context{
		funcs:  map[string]*Function{},
		consts: map[string]*Constant{},
	}
	var fns []*Function
	var cs []*Constant
	if !cfg.nobuiltins {
		fns = builtinFunctions()
		cs = builtinConstants()
	}
	for _, f := range append(fns, cfg.funcs...) {
		if err := ctx.AddFunction(f); err != nil {
			panic("plotexpr: " + err.Error())
		}
	}
	for _, c := range append(cs, cfg.consts...) {
		if err := ctx.AddConstant(c); err != nil {
			panic("plotexpr: " + err.Error())
		}
	}
	return ctx
}

func key(name string) string {
	return strings.ToLower(name)
}

// Function returns the function with the given name, or nil if there is none.
func (ctx *Context) Function(name string) *Function {
	return ctx.funcs[key(name)]
}

// Constant returns the constant with the given name, or nil if there is none.
func (ctx *Context) Constant(name string) *Constant {
	return ctx.consts[key(name)]
}

// Functions lists functions in the order they were added. If userOnly is
// true, built-ins are omitted. The result belongs to the caller.
func (ctx *Context) Functions(userOnly bool) []*Function {
	if !userOnly {
		return append([]*Function(nil), ctx.forder...)
	}
	if ctx.ufuncs == nil {
		ctx.ufuncs = []*Function{}
		for _, f := range ctx.forder {
			if f.user {
				ctx.ufuncs = append(ctx.ufuncs, f)
			}
		}
	}
	return append([]*Function(nil), ctx.ufuncs...)
}

// Constants lists constants in the order they were added. If userOnly is
// true, built-ins are omitted. The result belongs to the caller.
func (ctx *Context) Constants(userOnly bool) []*Constant {
	if !userOnly {
		return append([]*Constant(nil), ctx.corder...)
	}
	if ctx.uconsts == nil {
		ctx.uconsts = []*Constant{}
		for _, c := range ctx.corder {
			if c.user {
				ctx.uconsts = append(ctx.uconsts, c)
			}
		}
	}
	return append([]*Constant(nil), ctx.uconsts...)
}

// AddFunction binds a function. It is an error if a function with the same
// name already exists; to replace one, remove it first.
func (ctx *Context) AddFunction(f *Function) error {
	if f == nil || f.name == "" {
		panic("plotexpr: AddFunction with unnamed function")
	}
	if ctx.Function(f.name) != nil {
		return &SemanticError{Kind: Duplicate, Name: f.name, Msg: "function " + strconv.Quote(f.name) + " is already defined"}
	}
	ctx.funcs[key(f.name)] = f
	ctx.forder = append(ctx.forder, f)
	ctx.ufuncs = nil
	return nil
}

// AddConstant binds a constant. It is an error if a constant with the same
// name already exists or if its value is not finite.
func (ctx *Context) AddConstant(c *Constant) error {
	if c == nil || c.name == "" {
		panic("plotexpr: AddConstant with unnamed constant")
	}
	if ctx.Constant(c.name) != nil {
		return &SemanticError{Kind: Duplicate, Name: c.name, Msg: "constant " + strconv.Quote(c.name) + " is already defined"}
	}
	if !finite(c.val) {
		return &SemanticError{Kind: Value, Name: c.name, Msg: "constant " + strconv.Quote(c.name) + " has illegal value " + fmtnum(c.val)}
	}
	ctx.consts[key(c.name)] = c
	ctx.corder = append(ctx.corder, c)
	ctx.uconsts = nil
	return nil
}

// RemoveFunction unbinds a user-defined function. Functions that call it keep
// their compiled code until the next recompilation.
func (ctx *Context) RemoveFunction(name string) error {
	f := ctx.Function(name)
	switch {
	case f == nil:
		return undefinedErr(0, "function", name)
	case !f.user:
		return &SemanticError{Kind: Builtin, Name: f.name, Msg: "cannot remove built-in function " + f.String()}
	}
	ctx.dropFunction(f)
	return nil
}

// RemoveConstant unbinds a user-defined constant. Functions and constants
// defined in terms of it keep their values until the next recompilation.
func (ctx *Context) RemoveConstant(name string) error {
	c := ctx.Constant(name)
	switch {
	case c == nil:
		return undefinedErr(0, "constant", name)
	case !c.user:
		return &SemanticError{Kind: Builtin, Name: c.name, Msg: "cannot remove built-in constant " + strconv.Quote(c.name)}
	}
	ctx.dropConstant(c)
	return nil
}

// placeFunction binds f in old's place in the enumeration order, or last if
// old is nil or already gone.
func (ctx *Context) placeFunction(f, old *Function) {
	ctx.funcs[key(f.name)] = f
	ctx.ufuncs = nil
	for i, g := range ctx.forder {
		if old != nil && g == old {
			ctx.forder[i] = f
			return
		}
	}
	ctx.forder = append(ctx.forder, f)
}

// placeConstant binds c in old's place in the enumeration order, or last if
// old is nil or already gone.
func (ctx *Context) placeConstant(c, old *Constant) {
	ctx.consts[key(c.name)] = c
	ctx.uconsts = nil
	for i, d := range ctx.corder {
		if old != nil && d == old {
			ctx.corder[i] = c
			return
		}
	}
	ctx.corder = append(ctx.corder, c)
}

func (ctx *Context) dropFunction(f *Function) {
	delete(ctx.funcs, key(f.name))
	for i, g := range ctx.forder {
		if g == f {
			ctx.forder = append(ctx.forder[:i], ctx.forder[i+1:]...)
			break
		}
	}
	ctx.ufuncs = nil
}

func (ctx *Context) dropConstant(c *Constant) {
	delete(ctx.consts, key(c.name))
	for i, d := range ctx.corder {
		if d == c {
			ctx.corder = append(ctx.corder[:i], ctx.corder[i+1:]...)
			break
		}
	}
	ctx.uconsts = nil
}

// Undefine removes the user-defined function and constant with the given
// name, then recompiles everything else. It is an error if neither exists.
// Entries that depended on the removed name become undefined, and their
// failures are returned as a *RecompileError.
func (ctx *Context) Undefine(name string) error {
	f, c := ctx.Function(name), ctx.Constant(name)
	if f == nil && c == nil {
		return undefinedErr(0, "name", name)
	}
	if (f == nil || !f.user) && (c == nil || !c.user) {
		return &SemanticError{Kind: Builtin, Name: name, Msg: "cannot undefine built-in " + strconv.Quote(name)}
	}
	if f != nil && f.user {
		ctx.dropFunction(f)
	}
	if c != nil && c.user {
		ctx.dropConstant(c)
	}
	return ctx.recompile()
}

// Subscribe registers fn to receive each entry installed by a successful
// definition. Entries reinstalled by recompilation are not reported. The
// returned function cancels the subscription.
func (ctx *Context) Subscribe(fn func(Entry)) (cancel func()) {
	ctx.nextID++
	id := ctx.nextID
	ctx.subs = append(ctx.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range ctx.subs {
			if s.id == id {
				ctx.subs = append(ctx.subs[:i:i], ctx.subs[i+1:]...)
				return
			}
		}
	}
}

// Define executes definitions separated by semicolons, e.g.
// "a = 2; f(x) = a * x". A definition of a name that already exists replaces
// it and recompiles every user-defined entry so that they see the new value.
// Blank statements are ignored. Define stops at the first statement that
// fails; the statements before it remain in effect.
//
// Errors in a statement are a *LexError, *SyntaxError, or *SemanticError, and
// the context is unchanged by that statement. If the statement succeeds but
// recompiling other entries fails, the error is a *RecompileError, and the
// entries that failed are undefined.
func (ctx *Context) Define(src string) error {
	for _, stmt := range strings.Split(src, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := ctx.defineOne(stmt); err != nil {
			return err
		}
	}
	return nil
}

// defineOne executes a single top-level definition, runs the cascade if it
// replaced anything, and notifies subscribers.
func (ctx *Context) defineOne(src string) error {
	installed, replaced, err := ctx.define(src, nil)
	if err != nil {
		return err
	}
	if replaced {
		err = ctx.recompile()
	}
	for _, e := range installed {
		// The cascade recompiles what was just installed, or removes it again
		// in the case of x = x + 1.
		cur := ctx.current(e)
		if cur == nil {
			continue
		}
		for _, s := range append([]subscriber(nil), ctx.subs...) {
			s.fn(cur)
		}
	}
	return err
}

// current returns the entry now bound to e's name with e's source, or nil if
// there is none.
func (ctx *Context) current(e Entry) Entry {
	switch e := e.(type) {
	case *Function:
		if f := ctx.funcs[key(e.name)]; f != nil && f.src == e.src {
			return f
		}
	case *Constant:
		if c := ctx.consts[key(e.name)]; c != nil && c.src == e.src {
			return c
		}
	}
	return nil
}

// define compiles one definition and installs its entries. Nothing is
// installed unless every entry can be. A redefined entry keeps its place in
// the enumeration order.
//
// During recompilation, prev is the entry being recompiled, which has already
// been unbound. It gives the new entry its place, and a chained constant
// definition installs only its first name; the others have their own sources.
func (ctx *Context) define(src string, prev Entry) (installed []Entry, replaced bool, err error) {
	p, err := newParser(ctx, src)
	if err != nil {
		return nil, false, err
	}
	st, err := p.definition()
	if err != nil {
		return nil, false, err
	}
	code, err := compile(st.body)
	if err != nil {
		return nil, false, err
	}
	if st.function() {
		name := st.names[0]
		old := ctx.Function(name)
		if old != nil && !old.user {
			return nil, false, builtinErr("function", old.name)
		}
		f := newCompiled(name, st.srcs[0], len(st.params), code)
		f.refs = st.refs
		replaced = old != nil
		if pf, ok := prev.(*Function); ok && old == nil && key(pf.name) == key(name) {
			old = pf
		}
		ctx.placeFunction(f, old)
		return []Entry{f}, replaced, nil
	}
	if len(code) != 1 || code[0].Op != OpConst {
		panic("plotexpr: constant definition compiled to " + strconv.Itoa(len(code)) + " instructions")
	}
	v := code[0].Value
	if prev != nil {
		st.names, st.srcs = st.names[:1], st.srcs[:1]
	}
	for _, name := range st.names {
		if old := ctx.Constant(name); old != nil && !old.user {
			return nil, false, builtinErr("constant", old.name)
		}
	}
	if !finite(v) {
		return nil, false, &SemanticError{Col: st.body.pos, Kind: Value, Name: st.names[0], Msg: "constant " + strconv.Quote(st.names[0]) + " has illegal value " + fmtnum(v)}
	}
	// Install the innermost name first, so a = b = 3 adds b before a.
	for i := len(st.names) - 1; i >= 0; i-- {
		c := &Constant{name: st.names[i], src: st.srcs[i], val: v, user: true, refs: st.refs}
		old := ctx.Constant(c.name)
		if old != nil {
			replaced = true
		} else if pc, ok := prev.(*Constant); ok && key(pc.name) == key(c.name) {
			old = pc
		}
		ctx.placeConstant(c, old)
		installed = append(installed, c)
	}
	return installed, replaced, nil
}

func builtinErr(what, name string) error {
	return &SemanticError{Kind: Builtin, Name: name, Msg: "cannot redefine built-in " + what + " " + strconv.Quote(name)}
}

// Refresh recompiles every user-defined constant and then every user-defined
// function from its source. Recompiling entries whose dependencies have not
// changed yields the same values and code.
func (ctx *Context) Refresh() error {
	return ctx.recompile()
}

// recompile runs the cascade: each user-defined entry is unbound and defined
// again from its source, after the entries it uses. Otherwise constants go
// before functions, each in enumeration order. Redefinitions within the
// cascade do not start another. Failures are collected, and the entries that
// failed stay undefined.
func (ctx *Context) recompile() error {
	var errs []error
	for _, e := range ctx.cascadeOrder() {
		switch e := e.(type) {
		case *Constant:
			delete(ctx.consts, key(e.name))
			if _, _, err := ctx.define(e.src, e); err != nil {
				ctx.dropConstant(e)
				errs = append(errs, &recompileFailure{name: e.name, err: err})
			}
		case *Function:
			delete(ctx.funcs, key(e.name))
			if _, _, err := ctx.define(e.src, e); err != nil {
				ctx.dropFunction(e)
				errs = append(errs, &recompileFailure{name: e.String(), err: err})
				continue
			}
			if g := ctx.Function(e.name); g != nil && g.kind == Pure && e.kind == Pure {
				g.dx, g.dy = e.dx, e.dy
			}
		}
	}
	if len(errs) > 0 {
		return &RecompileError{Errs: errs}
	}
	return nil
}

// cascadeOrder lists the user-defined entries so that each follows the
// entries it uses. A definition that uses itself, like x = x + 1, does not
// reorder anything.
func (ctx *Context) cascadeOrder() []Entry {
	cs, fs := ctx.Constants(true), ctx.Functions(true)
	byRef := make(map[ref]Entry, len(cs)+len(fs))
	for _, c := range cs {
		byRef[ref{name: key(c.name)}] = c
	}
	for _, f := range fs {
		byRef[ref{fn: true, name: key(f.name)}] = f
	}
	order := make([]Entry, 0, len(cs)+len(fs))
	seen := make(map[Entry]bool, len(cs)+len(fs))
	var visit func(e Entry)
	visit = func(e Entry) {
		if seen[e] {
			return
		}
		seen[e] = true
		var refs []ref
		switch e := e.(type) {
		case *Constant:
			refs = e.refs
		case *Function:
			refs = e.refs
		}
		for _, r := range refs {
			if d := byRef[r]; d != nil {
				visit(d)
			}
		}
		order = append(order, e)
	}
	for _, c := range cs {
		visit(c)
	}
	for _, f := range fs {
		visit(f)
	}
	return order
}

// Eval evaluates a constant expression, such as "2 * sin(pi / 4)". The
// expression may use any function or constant in the context. Unlike a named
// constant, the result may be infinite or NaN, as for "1 / 0".
func (ctx *Context) Eval(src string) (float64, error) {
	p, err := newParser(ctx, src)
	if err != nil {
		return 0, err
	}
	n, err := p.expression()
	if err != nil {
		return 0, err
	}
	if err := p.done(); err != nil {
		return 0, err
	}
	code, err := compile(n)
	if err != nil {
		return 0, err
	}
	return code[0].Value, nil
}
