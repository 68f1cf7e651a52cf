package variant

import (
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/Ellis-Anderson/extremevariantfilter-1/extract"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// FeatureNames lists the per-site annotations used as model features, in
// column order. QUAL comes from the record itself, AB is the alternate-allele
// balance computed from the first sample's AD field, and the rest are
// GATK-style INFO annotations.
var FeatureNames = []string{
	"QUAL",
	"QD",
	"FS",
	"SOR",
	"MQ",
	"MQRankSum",
	"ReadPosRankSum",
	"DP",
	"AB",
}

// NumFeatures is the width of every feature matrix produced by this package.
func NumFeatures() int {
	return len(FeatureNames)
}

// Features returns the feature vector for the record along with the number of
// annotations that were absent. Absent annotations are imputed to zero.
func (r *Record) Features() ([]float64, int) {
	f := make([]float64, len(FeatureNames))
	var missing int
	for i, name := range FeatureNames {
		var v float64
		var ok bool
		switch name {
		case "QUAL":
			v, ok = r.Qual, !math.IsNaN(r.Qual)
		case "AB":
			v, ok = r.alleleBalance()
		default:
			v, ok = r.InfoFloat(name)
		}
		if !ok {
			missing++
			v = 0
		}
		f[i] = v
	}
	return f, missing
}

// alleleBalance computes alt/(ref+alt) from the first sample's AD counts.
func (r *Record) alleleBalance() (float64, bool) {
	ad := -1
	for i, key := range r.Format {
		if key == "AD" {
			ad = i
			break
		}
	}
	if ad < 0 || len(r.Samples) == 0 {
		return 0, false
	}
	fields := strings.Split(r.Samples[0], ":")
	if ad >= len(fields) {
		return 0, false
	}
	counts := strings.Split(fields[ad], ",")
	if len(counts) < 2 {
		return 0, false
	}
	ref, err := strconv.ParseFloat(counts[0], 64)
	if err != nil {
		return 0, false
	}
	alt, err := strconv.ParseFloat(counts[1], 64)
	if err != nil {
		return 0, false
	}
	if ref+alt == 0 {
		return 0, false
	}
	return alt / (ref + alt), true
}

// ExtractTable reads every site of the requested type from path and returns
// its feature table, labelling each row with label. Sites carrying none of
// the known annotations are skipped. A file without any matching site yields
// an empty table.
func ExtractTable(path string, t Type, label float64) (*extract.Table, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var data []float64
	var n, skipped int
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !rec.MatchesType(t) {
			continue
		}
		f, missing := rec.Features()
		if missing == len(FeatureNames) {
			skipped++
			continue
		}
		data = append(data, f...)
		n++
	}
	if skipped > 0 {
		log.Printf("%s: skipped %d unannotated sites", path, skipped)
	}
	if n == 0 {
		return &extract.Table{}, nil
	}
	y := make([]float64, n)
	for i := range y {
		y[i] = label
	}
	table, err := extract.NewTable(mat.NewDense(n, len(FeatureNames), data), y)
	if err != nil {
		return nil, errors.Wrapf(err, "table for %s", path)
	}
	return table, nil
}
