// Package main trains a variant filtering model from labelled VCF files.
package main

import (
	"context"
	"log"

	evf "github.com/Ellis-Anderson/extremevariantfilter-1"
	"github.com/alexflint/go-arg"
)

type args struct {
	TruePos  string `arg:"--tp,help:comma-separated paths to VCFs holding true-positive calls,required"`
	FalsePos string `arg:"--fp,help:comma-separated paths to VCFs holding false-positive calls,required"`
	Type     string `arg:"help:type of variant to train a model for (SNP or INDEL),required"`
	Output   string `arg:"-o,help:path to write the model artifact to (default <TYPE>.filter.pickle.dat)"`
	Threads  int    `arg:"-t,help:number of parallel workers (default 2)."`
	Verbose  bool   `arg:"-v,help:log per-file detail"`
}

func (args) Version() string {
	return "evf_train 14.Jun.2024"
}

func (args) Description() string {
	return `Train a model for filtering genomic variant calls.

True-positive and false-positive VCFs are consumed in the order given; the
fitted classifier is written as a binary artifact for use by the filtering
tool.`
}

func main() {
	var args args
	args.Threads = 2
	arg.MustParse(&args)

	if args.Threads < 1 {
		log.Fatalf("threads must be a positive integer, got %d", args.Threads)
	}

	pipeline := evf.Pipeline{
		Type:     args.Type,
		TruePos:  args.TruePos,
		FalsePos: args.FalsePos,
		Output:   args.Output,
		Workers:  args.Threads,
		Verbose:  args.Verbose,
		Progress: true,
	}
	if err := pipeline.Execute(context.Background()); err != nil {
		log.Fatalln(err)
	}
}
