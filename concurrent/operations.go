// Package concurrent holds the fan-out helpers used when a response needs
// several independent reads.
package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pair runs fa and fb concurrently. The first failure cancels the context
// handed to the other and is returned; results are only meaningful when the
// error is nil.
func Pair[A, B any](ctx context.Context, fa func(context.Context) (A, error), fb func(context.Context) (B, error)) (A, B, error) {
	var (
		a A
		b B
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = fa(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = fb(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		var (
			za A
			zb B
		)
		return za, zb, err
	}
	return a, b, nil
}
