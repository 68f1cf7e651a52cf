package learning

import (
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
)

// Save writes the fitted classifier to path as a gob artifact, overwriting
// any existing file. The display name is not persisted; the artifact holds
// exactly one classifier, recoverable with Load.
func Save(f *Forest, path string) error {
	w, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create artifact %s", path)
	}
	if err := gob.NewEncoder(w).Encode(f); err != nil {
		w.Close()
		return errors.Wrapf(err, "encode artifact %s", path)
	}
	return errors.Wrapf(w.Close(), "write artifact %s", path)
}

// Load reads a classifier previously written with Save.
func Load(path string) (*Forest, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open artifact %s", path)
	}
	defer r.Close()
	var f Forest
	if err := gob.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrapf(err, "decode artifact %s", path)
	}
	return &f, nil
}
