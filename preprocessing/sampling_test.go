package preprocessing

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestStratifiedSample(t *testing.T) {
	n := 1000
	X := mat.NewDense(n, 2, nil)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(-i))
		if i%10 == 0 {
			y[i] = 1
		}
	}

	tests := []struct {
		name     string
		size     int
		wantRows int
		wantOnes int
	}{
		{"proportional", 100, 100, 10},
		{"tiny keeps minority", 3, 3, 1},
		{"all rows", 5000, 1000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample, labels, err := StratifiedSample(X, y, tt.size, rand.New(rand.NewPCG(0, 0)))
			if err != nil {
				t.Fatal(err)
			}
			r, _ := sample.Dims()
			if r != tt.wantRows || len(labels) != tt.wantRows {
				t.Fatalf("rows = %d, labels = %d, want %d", r, len(labels), tt.wantRows)
			}
			ones := 0
			for i, l := range labels {
				ones += l
				orig := int(sample.At(i, 0))
				if y[orig] != l || sample.At(i, 1) != -float64(orig) {
					t.Fatalf("row %d does not match source row %d", i, orig)
				}
				if i > 0 && sample.At(i, 0) <= sample.At(i-1, 0) {
					t.Fatal("rows should keep their original order")
				}
			}
			if ones != tt.wantOnes {
				t.Errorf("minority rows = %d, want %d", ones, tt.wantOnes)
			}
		})
	}
}

func TestStratifiedSampleDeterministic(t *testing.T) {
	X := mat.NewDense(50, 1, nil)
	y := make([]int, 50)
	for i := range y {
		X.Set(i, 0, float64(i))
		y[i] = i % 2
	}
	a, _, _ := StratifiedSample(X, y, 10, rand.New(rand.NewPCG(0, 0)))
	b, _, _ := StratifiedSample(X, y, 10, rand.New(rand.NewPCG(0, 0)))
	if !mat.Equal(a, b) {
		t.Error("same seed should give the same sample")
	}
}

func TestStratifiedSampleErrors(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 2})
	if _, _, err := StratifiedSample(X, []int{0}, 1, rand.New(rand.NewPCG(0, 0))); err == nil {
		t.Error("expected dimension error for mismatched labels")
	}
	if _, _, err := StratifiedSample(X, []int{0, 1}, 0, rand.New(rand.NewPCG(0, 0))); err == nil {
		t.Error("expected validation error for n = 0")
	}
}
