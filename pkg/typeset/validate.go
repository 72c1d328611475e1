package typeset

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vito/generics/pkg/generic"
	"github.com/vito/generics/pkg/ioctx"
)

// Result is the outcome of validating one declared type.
type Result struct {
	Type *generic.Type
	Err  error
}

// ValidateAll validates every declared type concurrently. Results are in
// declaration order. The returned error is only set when ctx is done.
func (u *Universe) ValidateAll(ctx context.Context) ([]Result, error) {
	logger := ioctx.LoggerFromContext(ctx)
	results := make([]Result, len(u.declared))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, t := range u.declared {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := t.Validate()
			if err != nil {
				logger.Debug("invalid declaration", "type", t.Name(), "error", err)
			}
			results[i] = Result{Type: t, Err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
