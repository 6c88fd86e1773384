package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"github.com/peterh/liner"

	"github.com/zephyrtronium/plotexpr"
)

const replHelp = `definitions:  a = 2; f(x) = a * x
expressions:  f(3) + 1
commands:     :funcs :consts :dis NAME :refresh :undef NAME :quit`

func repl(ctx *plotexpr.Context, verb, history string) int {
	fmt.Println(replHelp)

	history, err := historyPath(history)
	if err != nil {
		fmt.Fprintln(os.Stderr, "not keeping history:", err)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(history); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	cancel := ctx.Subscribe(func(e plotexpr.Entry) {
		fmt.Println("defined", e.Source())
	})
	defer cancel()

	for {
		line, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(line, ":") {
			if quit := command(ctx, os.Stdout, line); quit {
				return 0
			}
			continue
		}
		if err := run(ctx, os.Stdout, verb, line); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// historyPath resolves the history file name relative to the home directory.
// The result is empty if there is no history file to keep.
func historyPath(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return name, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, name), nil
}

// command executes a REPL command. It returns true if the REPL should exit.
func command(ctx *plotexpr.Context, w io.Writer, line string) (quit bool) {
	words, err := shlex.Split(line)
	if err != nil {
		fmt.Fprintln(w, err)
		return false
	}
	if len(words) == 0 {
		return false
	}
	cmd, arg := words[0], ""
	if len(words) > 1 {
		arg = words[1]
	}
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":funcs":
		for _, f := range ctx.Functions(false) {
			if f.UserDefined() {
				fmt.Fprintln(w, f.Source())
			} else {
				fmt.Fprintf(w, "%v (%v)\n", f, f.Kind())
			}
		}
	case ":consts":
		for _, c := range ctx.Constants(false) {
			if c.UserDefined() {
				fmt.Fprintf(w, "%s    (%g)\n", c.Source(), c.Value())
			} else {
				fmt.Fprintln(w, c)
			}
		}
	case ":dis":
		f := ctx.Function(arg)
		if f == nil {
			fmt.Fprintf(w, "no function %q\n", arg)
			break
		}
		fmt.Fprint(w, f.Disassemble())
	case ":refresh":
		if err := ctx.Refresh(); err != nil {
			fmt.Fprintln(w, err)
		}
	case ":undef":
		if err := ctx.Undefine(arg); err != nil {
			fmt.Fprintln(w, err)
		}
	default:
		fmt.Fprintf(w, "unknown command %s\n%s\n", cmd, replHelp)
	}
	return false
}
