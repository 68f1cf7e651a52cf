// Package evf trains classifiers that separate true genomic variant calls
// from false ones. A training job resolves labelled VCF inputs, extracts
// per-file feature tables in parallel, aggregates them into one training set,
// fits a classifier for the variant type, and writes the fitted model to a
// binary artifact for the downstream filtering tool.
package evf

import (
	"context"
	"log"

	"github.com/Ellis-Anderson/extremevariantfilter-1/extract"
	"github.com/Ellis-Anderson/extremevariantfilter-1/learning"
	"github.com/Ellis-Anderson/extremevariantfilter-1/resolve"
	"github.com/Ellis-Anderson/extremevariantfilter-1/variant"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Pipeline contains all the information for executing a training job.
type Pipeline struct {
	// Type is the raw variant type token (SNP or INDEL, any case).
	Type string
	// TruePos and FalsePos are comma-separated VCF path specs.
	TruePos  string
	FalsePos string
	// Output is the artifact path; empty means <TYPE>.filter.pickle.dat.
	Output string
	// Workers bounds extraction parallelism and the classifier's internal
	// parallelism.
	Workers int
	// Verbose enables per-file logging.
	Verbose bool
	// Progress draws a progress bar over the input files.
	Progress bool
}

// Execute runs the job to completion. Any failure aborts the whole job
// before an artifact is produced; a partially-sourced model is never written.
func (p Pipeline) Execute(ctx context.Context) error {
	if p.Workers < 1 {
		return errors.Errorf("workers must be a positive integer, got %d", p.Workers)
	}

	t, inputs, artifact, err := resolve.Resolve(p.Type, p.TruePos, p.FalsePos, p.Output)
	if err != nil {
		return errors.Wrap(err, "resolve inputs")
	}
	if len(inputs) == 0 {
		return errors.Wrap(extract.ErrEmptyInput, "resolve inputs")
	}
	if p.Verbose {
		for _, in := range inputs {
			log.Printf("input %s (label %.0f)", in.Path, in.Label)
		}
	}

	log.Printf("extracting %s tables from %d files with %d workers", t, len(inputs), p.Workers)
	pool := extract.Pool{Workers: p.Workers, Progress: p.Progress}
	tables, err := pool.Map(ctx, inputs, func(in extract.Input) (*extract.Table, error) {
		return variant.ExtractTable(in.Path, t, in.Label)
	})
	if err != nil {
		return err
	}

	set, err := extract.Aggregate(tables)
	if err != nil {
		return errors.Wrap(err, "aggregate tables")
	}
	rows, cols := set.X.Dims()
	log.Printf("aggregated %d training examples with %d features", rows, cols)
	if p.Verbose {
		log.Printf("positive class fraction: %.4f", stat.Mean(set.Y, nil))
	}

	model, err := learning.NewModel(t, p.Workers)
	if err != nil {
		return err
	}
	log.Printf("fitting %s on %d examples", model.Name, rows)
	if err := model.Classifier.Fit(set.X, set.Y); err != nil {
		return errors.Wrapf(err, "fit %s", model.Name)
	}

	if err := learning.Save(model.Classifier, artifact); err != nil {
		return err
	}
	log.Printf("wrote %s", artifact)
	return nil
}
