// Package extract collects per-file training tables in parallel and
// aggregates them into a single training set.
package extract

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrEmptyInput indicates that there was nothing to extract or aggregate.
var ErrEmptyInput = errors.New("no training data")

// Input is one file scheduled for extraction. Label is applied to every row
// the file yields: 1 for true-positive calls, 0 for false-positive calls.
type Input struct {
	Path  string
	Label float64
}

// Table pairs a feature matrix with its per-row label vector. A file that
// yields no usable sites produces the zero Table.
type Table struct {
	X *mat.Dense
	Y []float64
}

// NewTable builds a table, enforcing that the label vector length matches the
// matrix row count.
func NewTable(x *mat.Dense, y []float64) (*Table, error) {
	t := &Table{X: x, Y: y}
	if t.Rows() != len(y) {
		return nil, errors.Errorf("table has %d feature rows but %d labels", t.Rows(), len(y))
	}
	return t, nil
}

// Rows returns the number of training examples in the table.
func (t *Table) Rows() int {
	if t.X == nil {
		return 0
	}
	r, _ := t.X.Dims()
	return r
}

// Aggregate concatenates tables row-wise, preserving their order: if table i
// contributed r_i rows, rows [Σ_{k<i} r_k, Σ_{k<=i} r_k) of the result come
// from table i.
func Aggregate(tables []*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, errors.Wrap(ErrEmptyInput, "no tables to aggregate")
	}
	var rows, cols int
	for _, t := range tables {
		if t.Rows() == 0 {
			continue
		}
		_, c := t.X.Dims()
		if cols == 0 {
			cols = c
		} else if c != cols {
			return nil, errors.Errorf("tables disagree on feature count: %d vs %d", cols, c)
		}
		rows += t.Rows()
	}
	if rows == 0 {
		return nil, errors.Wrap(ErrEmptyInput, "no rows in any table")
	}
	x := mat.NewDense(rows, cols, nil)
	y := make([]float64, 0, rows)
	row := 0
	for _, t := range tables {
		for i := 0; i < t.Rows(); i++ {
			x.SetRow(row, t.X.RawRowView(i))
			row++
		}
		y = append(y, t.Y...)
	}
	return NewTable(x, y)
}
