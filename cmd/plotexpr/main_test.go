package main

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/zephyrtronium/plotexpr"
)

func TestRun(t *testing.T) {
	ctx := plotexpr.NewContext()
	var out strings.Builder
	lines := []string{"a = 2; f(x) = a * x", "f(3)", "a = 5", "f(3) + 1"}
	for _, line := range lines {
		if err := run(ctx, &out, "%g", line); err != nil {
			t.Fatalf("%q: %v", line, err)
		}
	}
	if got, want := out.String(), "6\n16\n"; got != want {
		t.Errorf("wrong output: want %q, got %q", want, got)
	}
	if err := run(ctx, &out, "%g", "f(3"); err == nil {
		t.Error("unclosed call gave no error")
	}
}

func TestRunLines(t *testing.T) {
	ctx := plotexpr.NewContext()
	var out strings.Builder
	in := strings.NewReader("a = 2\n\nf(x) = a * x\nf(4)\n  a + 1  \n")
	if err := runLines(ctx, &out, "%g", in); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "8\n3\n"; got != want {
		t.Errorf("wrong output: want %q, got %q", want, got)
	}
	err := runLines(ctx, &out, "%g", strings.NewReader("1\n2 +\n3\n"))
	if err == nil || !strings.HasPrefix(err.Error(), "line 2: ") {
		t.Errorf("wrong error for bad second line: %v", err)
	}
}

func TestCommand(t *testing.T) {
	ctx := plotexpr.NewContext()
	if err := ctx.Define("a = 2; f(x) = a * x"); err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		line string
		want string
		quit bool
	}{
		{":dis f", "const 2\narg 0\nbinary *\n", false},
		{`:dis "f"`, "const 2\narg 0\nbinary *\n", false},
		{":dis nope", "no function \"nope\"\n", false},
		{":refresh", "", false},
		{":undef a", "recompiling f/1: 8: undefined symbol \"a\"\n", false},
		{":bogus", "unknown command :bogus\n" + replHelp + "\n", false},
		{":quit", "", true},
	}
	for _, c := range cases {
		var out strings.Builder
		quit := command(ctx, &out, c.line)
		if out.String() != c.want || quit != c.quit {
			t.Errorf("%q: want %q, %t; got %q, %t", c.line, c.want, c.quit, out.String(), quit)
		}
	}
	var out strings.Builder
	if command(ctx, &out, `:dis "f`); out.Len() == 0 {
		t.Error("unclosed quote gave no message")
	}
	out.Reset()
	command(ctx, &out, ":consts")
	if !strings.Contains(out.String(), "pi = 3.14159") {
		t.Errorf(":consts doesn't list pi:\n%s", out.String())
	}
}

func TestSample(t *testing.T) {
	ctx := plotexpr.NewContext()
	if err := ctx.Define("f(x) = x^2; g(x, y) = x"); err != nil {
		t.Fatal(err)
	}
	for _, workers := range []int{0, 1, 3, 8, 100} {
		xs, ys, err := sample(ctx.Function("f"), -2, 2, 5, workers)
		if err != nil {
			t.Fatal(err)
		}
		if want := []float64{-2, -1, 0, 1, 2}; !reflect.DeepEqual(xs, want) {
			t.Errorf("%d workers: wrong xs %v", workers, xs)
		}
		if want := []float64{4, 1, 0, 1, 4}; !reflect.DeepEqual(ys, want) {
			t.Errorf("%d workers: wrong ys %v", workers, ys)
		}
	}
	_, ys, err := sample(ctx.Function("sqrt"), 0, 4, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{0, math.Sqrt2, 2}; !reflect.DeepEqual(ys, want) {
		t.Errorf("native sqrt: wrong ys %v", ys)
	}
	if _, _, err := sample(ctx.Function("g"), 0, 1, 2, 1); err == nil {
		t.Error("sampling g/2 gave no error")
	}
	if _, _, err := sample(ctx.Function("f"), 0, 1, 1, 1); err == nil {
		t.Error("sampling one point gave no error")
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("no file gave %+v", cfg)
	}

	path := filepath.Join(t.TempDir(), "plotexpr.toml")
	src := `format = "%.3f"
definitions = ["a = 2", "f(x) = a * x"]

[sample]
from = 0
to = 1
n = 11
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.Format = "%.3f"
	want.Definitions = []string{"a = 2", "f(x) = a * x"}
	want.Sample.From, want.Sample.To, want.Sample.N = 0, 1, 11
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("wrong config:\n\twant %+v\n\tgot  %+v", want, cfg)
	}

	if err := os.WriteFile(path, []byte("format = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed config gave no error")
	}
}

func TestHistoryPath(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "plan9" {
		t.Skip("home directory does not come from $HOME")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	abs := filepath.Join(home, "elsewhere")
	cases := []struct {
		name string
		want string
	}{
		{"", ""},
		{abs, abs},
		{".plotexpr_history", filepath.Join(home, ".plotexpr_history")},
	}
	for _, c := range cases {
		got, err := historyPath(c.name)
		if err != nil || got != c.want {
			t.Errorf("%q: want %q, got %q, %v", c.name, c.want, got, err)
		}
	}

	t.Setenv("HOME", "")
	got, err := historyPath(".plotexpr_history")
	if err == nil || got != "" {
		t.Errorf("no home directory: want an error and no file, got %q, %v", got, err)
	}
}
