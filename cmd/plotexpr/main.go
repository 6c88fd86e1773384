package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/zephyrtronium/plotexpr"
)

func main() {
	log.SetFlags(0)
	var (
		cfgname, inname, verb, fname string
		defs                 []string
		lo, hi, dx, dy       float64
		n, workers           int
		interactive          bool
	)
	flag.StringVar(&cfgname, "config", "", "TOML config `file`")
	flag.StringVar(&inname, "in", "", "input `file` of lines to run (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.Func("def", "definitions to execute first, e.g. \"a = 2; f(x) = a * x\" (any number of times)", func(s string) error {
		defs = append(defs, s)
		return nil
	})
	flag.StringVar(&fname, "sample", "", "sample the named function of one argument")
	flag.Float64Var(&lo, "from", -10, "first sample point")
	flag.Float64Var(&hi, "to", 10, "last sample point")
	flag.IntVar(&n, "n", 21, "number of sample points")
	flag.Float64Var(&dx, "dx", 0, "horizontal offset of the sampled function")
	flag.Float64Var(&dy, "dy", 0, "vertical offset of the sampled function")
	flag.IntVar(&workers, "workers", 4, "goroutines sampling in parallel")
	flag.BoolVar(&interactive, "repl", false, "read definitions and expressions interactively")
	flag.Parse()

	cfg, err := LoadConfig(cfgname)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	given := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { given[f.Name] = true })
	if !given["fmt"] && cfg.Format != "" {
		verb = cfg.Format
	}
	if !given["from"] {
		lo = cfg.Sample.From
	}
	if !given["to"] {
		hi = cfg.Sample.To
	}
	if !given["n"] && cfg.Sample.N != 0 {
		n = cfg.Sample.N
	}
	if !given["workers"] && cfg.Sample.Workers != 0 {
		workers = cfg.Sample.Workers
	}

	ctx := plotexpr.NewContext()
	for _, d := range append(cfg.Definitions, defs...) {
		if err := ctx.Define(d); err != nil {
			log.Fatalf("defining %q: %v", d, err)
		}
	}

	switch {
	case interactive:
		os.Exit(repl(ctx, verb, cfg.History))
	case fname != "":
		f := ctx.Function(fname)
		if f == nil {
			log.Fatalf("no function %q", fname)
		}
		if dx != 0 || dy != 0 {
			if f, err = f.Translate(dx, dy); err != nil {
				log.Fatal(err)
			}
		}
		xs, ys, err := sample(f, lo, hi, n, workers)
		if err != nil {
			log.Fatal(err)
		}
		line := verb + "\t" + verb + "\n"
		for i := range xs {
			fmt.Printf(line, xs[i], ys[i])
		}
	case flag.NArg() > 0 && inname == "":
		for _, arg := range flag.Args() {
			if err := run(ctx, os.Stdout, verb, arg); err != nil {
				log.Fatal(err)
			}
		}
	default:
		in := os.Stdin
		if inname != "" {
			if in, err = os.Open(inname); err != nil {
				log.Fatal(err)
			}
			defer in.Close()
		}
		if err := runLines(ctx, os.Stdout, verb, in); err != nil {
			log.Fatal(err)
		}
	}
}

// runLines runs each non-blank line of r, stopping at the first error.
func runLines(ctx *plotexpr.Context, w io.Writer, verb string, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for k := 1; sc.Scan(); k++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := run(ctx, w, verb, line); err != nil {
			return fmt.Errorf("line %d: %w", k, err)
		}
	}
	return sc.Err()
}

// run executes one line. Lines containing = are definitions. Anything else is
// a constant expression, and its value is printed.
func run(ctx *plotexpr.Context, w io.Writer, verb, line string) error {
	if strings.ContainsRune(line, '=') {
		return ctx.Define(line)
	}
	v, err := ctx.Eval(line)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, verb+"\n", v)
	return nil
}
