// Package learning implements the classifiers fitted on variant training
// sets and their persistence.
package learning

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Forest is a random forest of CART trees for binary classification. Trees
// are grown on bootstrap samples with a random subset of features considered
// at each split, so two forests with the same Seed and data are identical.
type Forest struct {
	// NumTrees is the number of trees grown when fitting.
	NumTrees int
	// MaxDepth bounds the depth of each tree.
	MaxDepth int
	// MinLeaf is the minimum number of samples in a leaf.
	MinLeaf int
	// Mtry is the number of features considered per split; sqrt of the
	// feature count when zero.
	Mtry int
	// Seed makes fitting reproducible.
	Seed int64
	// Procs bounds the number of goroutines used to grow trees.
	Procs int

	// Trees and NumFeatures are populated by Fit.
	Trees       []*Node
	NumFeatures int
}

// Node is one decision node of a fitted tree.
type Node struct {
	Leaf      bool
	Prob      float64
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
}

// Fit grows the forest on the training set. Labels must be 0 or 1 and both
// classes must be present.
func (f *Forest) Fit(x *mat.Dense, y []float64) error {
	rows, cols := x.Dims()
	if rows == 0 {
		return errors.New("no training rows")
	}
	if len(y) != rows {
		return errors.Errorf("feature matrix has %d rows but %d labels given", rows, len(y))
	}
	var pos int
	for _, label := range y {
		if label != 0 {
			pos++
		}
	}
	if pos == 0 || pos == rows {
		return errors.New("degenerate label distribution: training data contains a single class")
	}
	if f.NumTrees < 1 {
		return errors.Errorf("forest needs at least one tree, got %d", f.NumTrees)
	}

	mtry := f.Mtry
	if mtry < 1 {
		mtry = int(math.Sqrt(float64(cols)))
		if mtry < 1 {
			mtry = 1
		}
	}
	if mtry > cols {
		mtry = cols
	}
	minLeaf := f.MinLeaf
	if minLeaf < 1 {
		minLeaf = 1
	}
	procs := f.Procs
	if procs < 1 {
		procs = 1
	}

	f.NumFeatures = cols
	f.Trees = make([]*Node, f.NumTrees)
	sem := make(chan bool, procs)
	for t := 0; t < f.NumTrees; t++ {
		sem <- true
		go func(t int) {
			defer func() { <-sem }()
			// A per-tree source keeps fitting deterministic under
			// any goroutine schedule.
			rng := rand.New(rand.NewSource(f.Seed + int64(t)))
			idx := bootstrap(rng, rows)
			f.Trees[t] = grow(x, y, idx, mtry, minLeaf, f.MaxDepth, 0, rng)
		}(t)
	}
	// Wait until the last goroutine has read from the semaphore.
	for i := 0; i < cap(sem); i++ {
		sem <- true
	}
	return nil
}

// PredictProba returns the forest's positive-class probability for each row.
func (f *Forest) PredictProba(x *mat.Dense) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, errors.New("classifier has not been fitted")
	}
	rows, cols := x.Dims()
	if cols != f.NumFeatures {
		return nil, errors.Errorf("classifier was fitted on %d features, given %d", f.NumFeatures, cols)
	}
	probs := make([]float64, rows)
	for i := 0; i < rows; i++ {
		row := x.RawRowView(i)
		var sum float64
		for _, t := range f.Trees {
			sum += t.eval(row)
		}
		probs[i] = sum / float64(len(f.Trees))
	}
	return probs, nil
}

// Predict returns the predicted class (0 or 1) for each row, thresholding
// the positive-class probability at 0.5.
func (f *Forest) Predict(x *mat.Dense) ([]float64, error) {
	probs, err := f.PredictProba(x)
	if err != nil {
		return nil, err
	}
	for i, p := range probs {
		if p >= 0.5 {
			probs[i] = 1
		} else {
			probs[i] = 0
		}
	}
	return probs, nil
}

func (n *Node) eval(row []float64) float64 {
	for !n.Leaf {
		if row[n.Feature] < n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Prob
}

func bootstrap(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.Intn(n)
	}
	return idx
}

func grow(x *mat.Dense, y []float64, idx []int, mtry, minLeaf, maxDepth, depth int, rng *rand.Rand) *Node {
	var pos float64
	for _, i := range idx {
		pos += y[i]
	}
	prob := pos / float64(len(idx))
	if depth >= maxDepth || len(idx) < 2*minLeaf || prob == 0 || prob == 1 {
		return &Node{Leaf: true, Prob: prob}
	}
	feature, threshold, left, right, ok := bestSplit(x, y, idx, mtry, minLeaf, rng)
	if !ok {
		return &Node{Leaf: true, Prob: prob}
	}
	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      grow(x, y, left, mtry, minLeaf, maxDepth, depth+1, rng),
		Right:     grow(x, y, right, mtry, minLeaf, maxDepth, depth+1, rng),
	}
}

type sample struct {
	value float64
	label float64
}

// bestSplit searches mtry random features for the threshold minimising the
// weighted gini impurity of the two sides.
func bestSplit(x *mat.Dense, y []float64, idx []int, mtry, minLeaf int, rng *rand.Rand) (feature int, threshold float64, left, right []int, ok bool) {
	_, cols := x.Dims()
	n := len(idx)
	best := math.Inf(1)

	samples := make([]sample, n)
	for _, f := range rng.Perm(cols)[:mtry] {
		var pos float64
		for k, i := range idx {
			samples[k] = sample{value: x.At(i, f), label: y[i]}
			pos += y[i]
		}
		sort.Slice(samples, func(a, b int) bool { return samples[a].value < samples[b].value })

		var leftPos float64
		for k := 1; k < n; k++ {
			leftPos += samples[k-1].label
			if samples[k].value == samples[k-1].value {
				continue
			}
			if k < minLeaf || n-k < minLeaf {
				continue
			}
			impurity := (gini(leftPos, float64(k)) + gini(pos-leftPos, float64(n-k))) / float64(n)
			if impurity < best {
				best = impurity
				feature = f
				threshold = (samples[k-1].value + samples[k].value) / 2
				ok = true
			}
		}
	}
	if !ok {
		return 0, 0, nil, nil, false
	}
	for _, i := range idx {
		if x.At(i, feature) < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return feature, threshold, left, right, true
}

// gini returns count * the gini impurity of a side with pos positives among
// count samples, so callers can weight by side size without re-multiplying.
func gini(pos, count float64) float64 {
	p := pos / count
	return count * 2 * p * (1 - p)
}
