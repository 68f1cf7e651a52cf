package learning

import (
	"github.com/Ellis-Anderson/extremevariantfilter-1/variant"
	"github.com/pkg/errors"
)

// Model pairs a display name with the classifier it describes.
type Model struct {
	Name       string
	Classifier *Forest
}

// NewModel returns an untrained model for the given variant type. procs
// bounds the classifier's internal parallelism while fitting; it has no
// bearing on the fitted model. Indels carry noisier annotations than SNPs,
// so their forest is larger and deeper.
func NewModel(t variant.Type, procs int) (*Model, error) {
	switch t {
	case variant.SNP:
		return &Model{
			Name: "SNP random forest",
			Classifier: &Forest{
				NumTrees: 100,
				MaxDepth: 12,
				MinLeaf:  2,
				Seed:     27,
				Procs:    procs,
			},
		}, nil
	case variant.INDEL:
		return &Model{
			Name: "INDEL random forest",
			Classifier: &Forest{
				NumTrees: 150,
				MaxDepth: 16,
				MinLeaf:  2,
				Seed:     27,
				Procs:    procs,
			},
		}, nil
	default:
		return nil, errors.Wrapf(variant.ErrInvalidType, "no model for type %q", t)
	}
}
