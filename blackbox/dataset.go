package blackbox

import (
	"encoding/csv"
	"io"
	"math/rand/v2"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leaf/pkg/errors"
)

// Dataset is a numeric feature matrix with binary labels.
type Dataset struct {
	X *mat.Dense
	Y []int
	// Features は列名
	Features []string
	// ClassNames はラベル0と1の名前
	ClassNames []string
}

// LoadCSV reads a CSV file with a header row. The column named label holds
// the class, which must take exactly two distinct values; they are mapped
// to 0 and 1 in lexical order. Every other column must be numeric.
func LoadCSV(r io.Reader, label string) (*Dataset, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "leaf: reading csv")
	}
	if len(records) < 2 {
		return nil, errors.Wrap(errors.ErrEmptyData, "leaf: csv needs a header and at least one row")
	}
	header := records[0]
	labelCol := slices.Index(header, label)
	if labelCol < 0 {
		return nil, errors.NewValueError("LoadCSV", "label column "+strconv.Quote(label)+" not found")
	}

	var features []string
	for j, name := range header {
		if j != labelCol {
			features = append(features, name)
		}
	}
	if len(features) == 0 {
		return nil, errors.NewValueError("LoadCSV", "no feature columns")
	}

	rows := records[1:]
	classes := make([]string, 0, 2)
	for _, rec := range rows {
		if !slices.Contains(classes, rec[labelCol]) {
			classes = append(classes, rec[labelCol])
		}
	}
	if len(classes) != 2 {
		return nil, errors.Wrapf(errors.ErrNotBinary, "label column has %d distinct values", len(classes))
	}
	slices.Sort(classes)

	X := mat.NewDense(len(rows), len(features), nil)
	y := make([]int, len(rows))
	for i, rec := range rows {
		k := 0
		for j, field := range rec {
			if j == labelCol {
				y[i] = slices.Index(classes, field)
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "leaf: row %d column %q", i+1, header[j])
			}
			X.Set(i, k, v)
			k++
		}
	}
	return &Dataset{X: X, Y: y, Features: features, ClassNames: classes}, nil
}

// Synthetic draws n rows of F standard normal features labelled by the
// sign of w·x plus logistic noise. Columns beyond len(w) are irrelevant.
func Synthetic(n int, w []float64, F int, seed uint64) *Dataset {
	rng := rand.New(rand.NewPCG(seed, 1))
	X := mat.NewDense(n, F, nil)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		row := X.RawRowView(i)
		var z float64
		for j := range row {
			row[j] = rng.NormFloat64()
			if j < len(w) {
				z += w[j] * row[j]
			}
		}
		if rng.Float64() < sigmoid(z) {
			y[i] = 1
		}
	}
	features := make([]string, F)
	for j := range features {
		features[j] = "x" + strconv.Itoa(j)
	}
	return &Dataset{X: X, Y: y, Features: features, ClassNames: []string{"negative", "positive"}}
}
