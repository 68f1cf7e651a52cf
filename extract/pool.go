package extract

import (
	"context"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Pool maps an extraction function over inputs with a bounded number of
// workers.
//
// Map preserves input order in its output: the table at index i always comes
// from the input at index i, regardless of which worker finished first. The
// first failure cancels outstanding work and is returned to the caller with
// no partial results.
type Pool struct {
	// Workers is the number of concurrent extractions. Must be at least 1.
	Workers int
	// Progress draws a terminal progress bar over the inputs.
	Progress bool
}

// Map runs fn over every input and collects the tables index-aligned with
// the inputs. It blocks until all workers have finished; no goroutines
// outlive the call.
func (p Pool) Map(ctx context.Context, inputs []Input, fn func(Input) (*Table, error)) ([]*Table, error) {
	if p.Workers < 1 {
		return nil, errors.Errorf("pool requires at least one worker, got %d", p.Workers)
	}
	if len(inputs) == 0 {
		return nil, errors.Wrap(ErrEmptyInput, "no input files")
	}

	var bar *pb.ProgressBar
	if p.Progress {
		bar = pb.StartNew(len(inputs))
	}

	tables := make([]*Table, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			t, err := fn(in)
			if err != nil {
				return errors.Wrapf(err, "extract %s", in.Path)
			}
			tables[i] = t
			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}
	err := g.Wait()
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return nil, err
	}
	return tables, nil
}
