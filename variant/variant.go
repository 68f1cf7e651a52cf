// Package variant reads VCF variant records and derives the per-site feature
// vectors used to train filtering models.
package variant

import (
	"strings"

	"github.com/pkg/errors"
)

// Type is the category of genetic variant a model is trained for.
type Type string

const (
	// SNP is a single-nucleotide polymorphism.
	SNP Type = "SNP"
	// INDEL is an insertion or deletion.
	INDEL Type = "INDEL"
)

// ErrInvalidType indicates a variant type token outside of {SNP, INDEL}.
var ErrInvalidType = errors.New("invalid variant type")

// ParseType normalises a raw type token to one of the known variant types.
// Tokens are matched case-insensitively.
func ParseType(token string) (Type, error) {
	switch t := Type(strings.ToUpper(token)); t {
	case SNP, INDEL:
		return t, nil
	default:
		return "", errors.Wrapf(ErrInvalidType, "%q is not one of SNP, INDEL", token)
	}
}
