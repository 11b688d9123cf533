// Command calcexpr evaluates calculator expressions from arguments, a file,
// or standard input.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/zephyrtronium/calcexpr"
	"github.com/zephyrtronium/calcexpr/internal/history"
	"github.com/zephyrtronium/calcexpr/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	inname, verb, angle, hist string
	with                      [][2]string
	nl, echo, verbose         bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("calcexpr", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		opts.with = append(opts.with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	fs.StringVar(&opts.inname, "in", "", "input file (default stdin if no args given)")
	fs.StringVar(&opts.verb, "fmt", "", "result formatting string (default calculator display form)")
	fs.StringVar(&opts.angle, "angle", "deg", "angle mode for trigonometric functions, deg or rad")
	fs.StringVar(&opts.hist, "history", "", "record successful results in this history file")
	fs.Func("given", "name=value variable definition (any number of times)", addwith)
	fs.BoolVar(&opts.nl, "n", false, "treat separate input lines as separate expressions")
	fs.BoolVar(&opts.echo, "echo", false, "print the postfix form of each expression")
	fs.BoolVar(&opts.verbose, "v", false, "log diagnostics")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	lcfg := logging.DevelopmentConfig()
	lcfg.Output = stderr
	if !opts.verbose {
		lcfg.Level = "warn"
	}
	logger, err := logging.New(lcfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer logger.Sync()

	if err := calc(&opts, fs.Args(), stdin, stdout, logger.Logger); err != nil {
		if !errors.Is(err, errFailed) {
			logger.Error("calcexpr failed", zap.Error(err))
		}
		return 1
	}
	return 0
}

// errFailed indicates that at least one expression failed to evaluate or
// record. Those errors have already been reported.
var errFailed = errors.New("evaluation failed")

func calc(opts *options, args []string, stdin io.Reader, stdout io.Writer, log *zap.Logger) error {
	mode, err := calcexpr.ParseAngleMode(opts.angle)
	if err != nil {
		return err
	}
	ctx := calcexpr.NewContext(calcexpr.Angle(mode))
	for _, d := range opts.with {
		nm, vl := d[0], d[1]
		r, err := calcexpr.EvalString(vl, calcexpr.Angle(mode))
		if err != nil {
			return fmt.Errorf("setting %s: %w", nm, err)
		}
		ctx.Set(nm, r)
		log.Debug("variable set", zap.String("name", nm), zap.Float64("value", r))
	}

	var store *history.Store
	if opts.hist != "" {
		store, err = history.Open(opts.hist, history.WithLogger(log))
		if err != nil {
			return err
		}
	}

	srcs, err := inputs(opts, args, stdin)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(stdout)
	defer w.Flush()
	failed := false
	for _, src := range srcs {
		e, err := calcexpr.Parse(src)
		if err != nil {
			fmt.Fprintln(w, err)
			failed = true
			continue
		}
		if opts.echo {
			fmt.Fprintf(w, "%v : ", e)
		}
		r, err := ctx.Eval(e)
		if err != nil {
			fmt.Fprintln(w, err)
			failed = true
			continue
		}
		if opts.verb != "" {
			fmt.Fprintf(w, opts.verb+"\n", r)
		} else {
			fmt.Fprintln(w, calcexpr.Format(r))
		}
		if store == nil {
			continue
		}
		if math.IsInf(r, 0) || math.IsNaN(r) {
			log.Debug("not recording non-finite result", zap.String("expr", src), zap.Float64("result", r))
			continue
		}
		if _, err := store.Add(strings.TrimSpace(src), r); err != nil {
			log.Error("couldn't record history", zap.String("expr", src), zap.Error(err))
			failed = true
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

// inputs collects the expressions to evaluate: one per argument, then the
// input file or stdin as a whole, or one per nonblank line with -n.
func inputs(opts *options, args []string, stdin io.Reader) ([]string, error) {
	var srcs []string
	var in io.Reader
	switch {
	case opts.inname != "" && opts.inname != "-":
		f, err := os.Open(opts.inname)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	case opts.inname == "-", len(args) == 0:
		in = stdin
	}
	if in != nil {
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, err
		}
		if opts.nl {
			for _, line := range strings.Split(string(b), "\n") {
				if strings.TrimSpace(line) != "" {
					srcs = append(srcs, line)
				}
			}
		} else {
			srcs = append(srcs, string(b))
		}
	}
	return append(srcs, args...), nil
}
