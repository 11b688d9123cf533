package calcexpr

// Context is a context for evaluating expressions. It holds the angle mode and
// variable bindings. It is not safe to use a Context concurrently; use Clone
// to get one per goroutine.
type Context struct {
	stack []float64
	names map[string]float64
	angle AngleMode
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  float64
	}
	varsopt  map[string]float64
	angleopt AngleMode
)

func (varopt) ctxOption()   {}
func (varsopt) ctxOption()  {}
func (angleopt) ctxOption() {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val float64) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]float64) ContextOption {
	return varsopt(vars)
}

// Angle sets the angle mode of the context.
func Angle(mode AngleMode) ContextOption {
	return angleopt(mode)
}

// NewContext creates a new evaluation context. If no angle mode is given, the
// default is Degrees.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{angle: Degrees}
	return ctx.Clone(opts...)
}

// Evaluate parses and evaluates an expression. Blank input evaluates to 0.
func (ctx *Context) Evaluate(src string, opts ...ParseOption) (float64, error) {
	e, err := Parse(src, opts...)
	if err != nil {
		return 0, err
	}
	return ctx.Eval(e)
}

// Eval evaluates a parsed expression and returns its normalized result. If an
// error occurs, e.g. a missing variable definition or an argument to a
// function outside the function's domain, then the result is 0 and the error
// unwraps to one of the error kinds.
func (ctx *Context) Eval(e *Expr) (float64, error) {
	if e.blank {
		return 0, nil
	}
	r, err := ctx.evalPostfix(e.postfix)
	if err != nil {
		return 0, err
	}
	return Normalize(r), nil
}

// evalPostfix runs the postfix sequence on the context's stack.
func (ctx *Context) evalPostfix(postfix []token) (float64, error) {
	ctx.stack = ctx.stack[:0]
	for _, t := range postfix {
		switch t.kind {
		case tokenNum:
			ctx.push(t.num)
		case tokenIdent:
			v, ok := ctx.names[t.text]
			if !ok {
				return 0, &TokenError{Col: t.pos, Text: t.text}
			}
			ctx.push(v)
		case tokenOp:
			// Parse only emits known operators and functions; the checks
			// guard hand-built postfix sequences.
			op := binops[t.text]
			if op == nil {
				return 0, &OperatorError{Col: t.pos, Operator: t.text}
			}
			if len(ctx.stack) < 2 {
				return 0, &StackError{Token: t.text, Need: 2, Have: len(ctx.stack)}
			}
			b := ctx.pop()
			a := ctx.pop()
			r, err := op(a, b)
			if err != nil {
				return 0, err
			}
			ctx.push(r)
		case tokenFunc:
			if t.fn == nil {
				return 0, &FuncError{Col: t.pos, Func: t.text}
			}
			if !t.fn.CanCall(t.args) {
				return 0, &CallError{Col: t.pos, Func: t.text, Len: t.args}
			}
			k := len(ctx.stack) - t.args
			if k < 0 {
				return 0, &StackError{Token: t.text, Need: t.args, Have: len(ctx.stack)}
			}
			r, err := t.fn.Call(ctx, ctx.stack[k:])
			if err != nil {
				return 0, err
			}
			ctx.stack = ctx.stack[:k]
			ctx.push(r)
		default:
			return 0, &StackError{Token: t.text}
		}
	}
	if len(ctx.stack) != 1 {
		return 0, &StackError{Have: len(ctx.stack)}
	}
	return ctx.pop(), nil
}

// SetAngleMode sets the angle mode used by trigonometric functions. Returns
// ctx for chaining.
func (ctx *Context) SetAngleMode(mode AngleMode) *Context {
	ctx.angle = mode
	return ctx
}

// AngleMode returns the angle mode used by trigonometric functions.
func (ctx *Context) AngleMode() AngleMode {
	return ctx.angle
}

// Set sets the value of a variable. Returns ctx for chaining.
func (ctx *Context) Set(name string, value float64) *Context {
	if ctx.names == nil {
		ctx.names = make(map[string]float64)
	}
	ctx.names[name] = value
	return ctx
}

// Lookup returns the value of a variable and whether it is set.
func (ctx *Context) Lookup(name string) (float64, bool) {
	v, ok := ctx.names[name]
	return v, ok
}

// Clone creates a copy of a context and applies options to it.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack: make([]float64, 0, max(cap(ctx.stack), 8)),
		names: make(map[string]float64, len(ctx.names)),
		angle: ctx.angle,
	}
	for name, val := range ctx.names {
		n.names[name] = val
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = opt.val
		case varsopt:
			for k, v := range opt {
				n.names[k] = v
			}
		case angleopt:
			n.angle = AngleMode(opt)
		default:
			panic("calcexpr: unknown context option")
		}
	}
	return &n
}

// push pushes a value to the stack.
func (ctx *Context) push(x float64) {
	ctx.stack = append(ctx.stack, x)
}

// pop removes the top from the stack and returns it.
func (ctx *Context) pop() float64 {
	k := len(ctx.stack) - 1
	r := ctx.stack[k]
	ctx.stack = ctx.stack[:k]
	return r
}

// EvalString is a shortcut to parse and evaluate a string expression using the
// default functions.
func EvalString(src string, opts ...ContextOption) (float64, error) {
	return NewContext(opts...).Evaluate(src)
}
