package main

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/plotexpr"
)

// sample evaluates a function of one argument at n evenly spaced points from
// lo to hi inclusive, with at most workers goroutines at a time.
func sample(f *plotexpr.Function, lo, hi float64, n, workers int) (xs, ys []float64, err error) {
	if f.Arity() != 1 {
		return nil, nil, fmt.Errorf("cannot sample %v: need a function of one argument", f)
	}
	if n < 2 {
		return nil, nil, fmt.Errorf("need at least 2 samples, not %d", n)
	}
	if workers < 1 {
		workers = 1
	}
	xs = make([]float64, n)
	ys = make([]float64, n)
	for i := range xs {
		xs[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		start, end := start, min(start+chunk, n)
		g.Go(func() error {
			// At shares the function's own stack, so each worker brings one.
			var stk plotexpr.Stack
			for i := start; i < end; i++ {
				if f.Kind() == plotexpr.Pure {
					ys[i] = f.AtWith(&stk, xs[i])
				} else {
					ys[i] = f.Call(&stk, xs[i])
				}
			}
			return nil
		})
	}
	return xs, ys, g.Wait()
}
