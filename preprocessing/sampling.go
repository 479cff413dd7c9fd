package preprocessing

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leaf/pkg/errors"
)

// StratifiedSample draws n rows of X without replacement, keeping the class
// proportions of y. Every class present in y receives at least one row when
// n allows it. Selected rows keep their original order.
// When n >= the number of rows, X and y are returned as copies.
func StratifiedSample(X mat.Matrix, y []int, n int, rng *rand.Rand) (*mat.Dense, []int, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, nil, errors.NewModelError("StratifiedSample", "empty data", errors.ErrEmptyData)
	}
	if len(y) != r {
		return nil, nil, errors.NewDimensionError("StratifiedSample", r, len(y), 0)
	}
	if n <= 0 {
		return nil, nil, errors.NewValidationError("n", "must be positive", n)
	}
	if n >= r {
		return mat.DenseCopyOf(X), append([]int(nil), y...), nil
	}

	byClass := make(map[int][]int)
	var classes []int
	for i, label := range y {
		if _, ok := byClass[label]; !ok {
			classes = append(classes, label)
		}
		byClass[label] = append(byClass[label], i)
	}
	sort.Ints(classes)

	alloc := allocate(classes, byClass, r, n)

	var picked []int
	for _, label := range classes {
		idx := byClass[label]
		perm := rng.Perm(len(idx))
		for _, p := range perm[:alloc[label]] {
			picked = append(picked, idx[p])
		}
	}
	sort.Ints(picked)

	out := mat.NewDense(len(picked), c, nil)
	labels := make([]int, len(picked))
	for k, i := range picked {
		for j := 0; j < c; j++ {
			out.Set(k, j, X.At(i, j))
		}
		labels[k] = y[i]
	}
	return out, labels, nil
}

// allocate splits n across classes proportionally (largest remainder),
// with a minimum of one row per class while rows remain.
func allocate(classes []int, byClass map[int][]int, total, n int) map[int]int {
	alloc := make(map[int]int, len(classes))
	type rem struct {
		label int
		frac  float64
	}
	rems := make([]rem, 0, len(classes))
	used := 0
	for _, label := range classes {
		exact := float64(n) * float64(len(byClass[label])) / float64(total)
		k := int(math.Floor(exact))
		if k == 0 && used < n {
			k = 1
		}
		alloc[label] = k
		used += k
		rems = append(rems, rem{label, exact - math.Floor(exact)})
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for i := 0; used < n && len(rems) > 0; i = (i + 1) % len(rems) {
		label := rems[i].label
		if alloc[label] < len(byClass[label]) {
			alloc[label]++
			used++
		}
	}
	for used > n {
		// 最小保証で超過した分を最大クラスから戻す
		largest := classes[0]
		for _, label := range classes {
			if alloc[label] > alloc[largest] {
				largest = label
			}
		}
		alloc[largest]--
		used--
	}
	return alloc
}
