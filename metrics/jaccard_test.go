package metrics

import (
	"math"
	"testing"
)

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "1100", "1100", 1},
		{"disjoint", "1100", "0011", 0},
		{"partial overlap", "1110", "0111", 0.5},
		{"both empty", "0000", "0000", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JaccardSimilarity(b(tt.a), b(tt.b))
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("JaccardSimilarity = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := JaccardSimilarity(b("1"), b("10")); err == nil {
		t.Error("expected dimension error")
	}
}

func TestPairwiseJaccard(t *testing.T) {
	masks := [][]bool{b("1100"), b("1100"), b("0011")}
	got, err := PairwiseJaccard(masks)
	if err != nil {
		t.Fatal(err)
	}
	// (0,1), (0,2), (1,2)
	want := []float64{1, 0, 0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	single, err := PairwiseJaccard(masks[:1])
	if err != nil || len(single) != 0 {
		t.Errorf("single mask: %v, %v", single, err)
	}
}

func TestCrossJaccard(t *testing.T) {
	a := [][]bool{b("1100"), b("0011")}
	c := [][]bool{b("1100"), b("1110"), b("0001")}
	m, err := CrossJaccard(a, c)
	if err != nil {
		t.Fatal(err)
	}
	r, cols := m.Dims()
	if r != 2 || cols != 3 {
		t.Fatalf("Dims = (%d, %d)", r, cols)
	}
	want := [][]float64{
		{1, 2.0 / 3.0, 0},
		{0, 0.25, 0.5},
	}
	for i := range want {
		for j := range want[i] {
			if math.Abs(m.At(i, j)-want[i][j]) > 1e-12 {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, m.At(i, j), want[i][j])
			}
		}
	}
}
