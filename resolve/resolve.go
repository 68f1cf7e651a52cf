// Package resolve validates the raw inputs of a training job: the variant
// type token, the true-positive and false-positive VCF path specs, and the
// output artifact name.
package resolve

import (
	"fmt"
	"os"
	"strings"

	"github.com/Ellis-Anderson/extremevariantfilter-1/extract"
	"github.com/Ellis-Anderson/extremevariantfilter-1/variant"
	"github.com/pkg/errors"
)

// ErrInvalidPath indicates a resolved input path that does not reference an
// existing file.
var ErrInvalidPath = errors.New("invalid input path")

// Resolve turns the raw command-line values into a validated training job:
// the variant type, the ordered input files with their labels, and the
// artifact path. It fails before any file is read.
func Resolve(typeToken, truePos, falsePos, output string) (variant.Type, []extract.Input, string, error) {
	t, err := variant.ParseType(typeToken)
	if err != nil {
		return "", nil, "", err
	}
	inputs, err := Inputs(truePos, falsePos)
	if err != nil {
		return "", nil, "", err
	}
	return t, inputs, ArtifactName(output, t), nil
}

// Inputs splits the comma-separated path specs into the ordered input list:
// all true-positive paths followed by all false-positive paths, labelled 1
// and 0 respectively. Duplicates are kept. Every path must reference an
// existing file.
func Inputs(truePos, falsePos string) ([]extract.Input, error) {
	var inputs []extract.Input
	for _, p := range splitSpec(truePos) {
		inputs = append(inputs, extract.Input{Path: p, Label: 1})
	}
	for _, p := range splitSpec(falsePos) {
		inputs = append(inputs, extract.Input{Path: p, Label: 0})
	}
	for _, in := range inputs {
		info, err := os.Stat(in.Path)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidPath, "%s: %v", in.Path, err)
		}
		if info.IsDir() {
			return nil, errors.Wrapf(ErrInvalidPath, "%s is a directory", in.Path)
		}
	}
	return inputs, nil
}

// ArtifactName returns name unchanged when set; the empty string is the only
// value treated as unset and replaced by the type-derived default.
func ArtifactName(name string, t variant.Type) string {
	if name == "" {
		return DefaultArtifactName(t)
	}
	return name
}

// DefaultArtifactName is the artifact path used when none is supplied.
func DefaultArtifactName(t variant.Type) string {
	return fmt.Sprintf("%s.filter.pickle.dat", t)
}

func splitSpec(spec string) []string {
	if spec == "" {
		return nil
	}
	return strings.Split(spec, ",")
}
