package calcexpr

import "maps"

// DefaultMaxLength is the longest expression, in runes, that Parse accepts
// unless the MaxLength option says otherwise.
const DefaultMaxLength = 5000

// ParseOption changes how Parse reads expressions.
type ParseOption interface {
	parseOption(parseConfig) parseConfig
}

// parseConfig is the result of applying parse options. A *parseConfig is
// itself the option produced by ParsingPreset.
type parseConfig struct {
	// funcs maps names to the functions they call. nil means the defaults.
	funcs map[string]Func
	// maxlen is the maximum expression length in runes. Zero means
	// DefaultMaxLength; negative means unlimited.
	maxlen int
	// complete is set once funcs has an entry, possibly nil, for every
	// default function.
	complete bool
}

// with returns a copy of the config whose function table has the entries of
// fns added. The table is copied so that presets are never modified.
func (p parseConfig) with(fns map[string]Func) parseConfig {
	m := make(map[string]Func, len(p.funcs)+len(fns))
	maps.Copy(m, p.funcs)
	maps.Copy(m, fns)
	p.funcs = m
	return p
}

// fill adds every default function not yet named to the function table.
func (p *parseConfig) fill() {
	if p.complete {
		return
	}
	for name, fn := range globalfuncs {
		if _, ok := p.funcs[name]; !ok {
			p.funcs[name] = fn
		}
	}
	p.complete = true
}

// resolve finishes the function table and length limit after all options
// have been applied.
func (p *parseConfig) resolve() {
	if p.funcs == nil {
		p.funcs = globalfuncs
	} else {
		p.fill()
	}
	if p.maxlen == 0 {
		p.maxlen = DefaultMaxLength
	}
}

type (
	funcOption struct {
		name string
		fn   Func
	}
	funcsOption  map[string]Func
	lengthOption int
)

// ParseFunc makes name call fn. A nil fn makes name an ordinary variable,
// which is how a default function is turned off.
func ParseFunc(name string, fn Func) ParseOption {
	return funcOption{name, fn}
}

func (o funcOption) parseOption(p parseConfig) parseConfig {
	return p.with(map[string]Func{o.name: o.fn})
}

// ParseFuncs is ParseFunc for each entry in fns.
func ParseFuncs(fns map[string]Func) ParseOption {
	return funcsOption(fns)
}

func (o funcsOption) parseOption(p parseConfig) parseConfig {
	return p.with(o)
}

// DisableDefaultFuncs turns off every default function. Their names parse as
// variables instead.
func DisableDefaultFuncs() ParseOption {
	fns := make(funcsOption, len(globalfuncs))
	for name := range globalfuncs {
		fns[name] = nil
	}
	return fns
}

// MaxLength sets the longest expression, in runes, that Parse accepts. A
// negative n removes the limit.
func MaxLength(n int) ParseOption {
	return lengthOption(n)
}

func (o lengthOption) parseOption(p parseConfig) parseConfig {
	p.maxlen = int(o)
	return p
}

// ParsingPreset combines options into one that is cheaper to apply to many
// calls to Parse. A preset that sets functions must be the first option given
// to Parse; applying it after another function option panics. Length options
// may follow a preset.
func ParsingPreset(opts ...ParseOption) ParseOption {
	var p parseConfig
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	if p.funcs != nil {
		p.fill()
	}
	return &p
}

func (o *parseConfig) parseOption(p parseConfig) parseConfig {
	if p.funcs != nil {
		panic("calcexpr: preset applied to non-default parse config")
	}
	p.funcs = o.funcs
	p.complete = o.complete
	if o.maxlen != 0 {
		p.maxlen = o.maxlen
	}
	return p
}
