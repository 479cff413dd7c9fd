package surrogate

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/leaf/pkg/errors"
)

func TestMethodString(t *testing.T) {
	if LIME.String() != "lime" || SHAP.String() != "shap" || Method(9).String() != "unknown" {
		t.Error("unexpected method names")
	}
}

func TestLinearPredict(t *testing.T) {
	g := Linear{Coef: []float64{1, -2}, Intercept: 0.5}
	if got := g.Predict([]float64{3, 1}); got != 1.5 {
		t.Errorf("Predict = %v, want 1.5", got)
	}
	if got := g.Norm(); math.Abs(got-math.Sqrt(5)) > 1e-12 {
		t.Errorf("Norm = %v", got)
	}
}

func TestFromLIME(t *testing.T) {
	exp := &LIMEExplanation{
		LocalExp: map[int][]FeatureWeight{
			1: {{Feature: 2, Weight: 0.3}, {Feature: 0, Weight: -0.1}},
		},
		Intercept: map[int]float64{1: 0.6},
	}
	g, err := FromLIME(exp, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{-0.1, 0, 0.3, 0}
	for j := range want {
		if g.Coef[j] != want[j] {
			t.Errorf("Coef = %v, want %v", g.Coef, want)
			break
		}
	}
	if g.Intercept != 0.6 {
		t.Errorf("Intercept = %v", g.Intercept)
	}

	if _, err := FromLIME(exp, 0, 4); err == nil {
		t.Error("expected error for a label the explanation does not cover")
	}
	if _, err := FromLIME(exp, 1, 2); err == nil {
		t.Error("expected error for an out-of-range feature")
	}
}

func TestFromSHAP(t *testing.T) {
	exp := &SHAPExplanation{
		Phi: [][]float64{
			{-0.2, 0.1, 0.4},
			{0.2, -0.1, -0.4},
		},
		Expected: []float64{0.3, 0.7},
	}
	x0 := []float64{2, 5, 1}
	mean := []float64{1, 5, 3}

	g, err := FromSHAP(exp, 1, x0, mean)
	if err != nil {
		t.Fatal(err)
	}
	// feature 1 has x0 == mean, so its coefficient is 0
	want := []float64{0.2, 0, 0.2}
	for j := range want {
		if math.Abs(g.Coef[j]-want[j]) > 1e-12 {
			t.Errorf("Coef[%d] = %v, want %v", j, g.Coef[j], want[j])
		}
	}
	if g.Intercept != 0.7 {
		t.Errorf("Intercept = %v, want 0.7", g.Intercept)
	}

	// at x0 the surrogate reproduces expected + Σ phi over non-degenerate features
	centered := []float64{1, 0, -2}
	if got := g.Predict(centered); math.Abs(got-(0.7+0.2-0.4)) > 1e-12 {
		t.Errorf("Predict(x0 − mean) = %v", got)
	}

	_, err = FromSHAP(exp, 1, x0[:2], mean)
	var dim *errors.DimensionError
	if !errors.As(err, &dim) {
		t.Errorf("expected DimensionError, got %v", err)
	}
}

func TestTopKAndMask(t *testing.T) {
	coef := []float64{0.1, -0.9, 0.5, 0.5, 0}
	tests := []struct {
		k    int
		want []int
	}{
		{0, []int{}},
		{1, []int{1}},
		{3, []int{1, 2, 3}},
		{9, []int{1, 2, 3, 0, 4}},
	}
	for _, tt := range tests {
		got := TopK(coef, tt.k)
		if len(got) != len(tt.want) {
			t.Fatalf("TopK(k=%d) = %v, want %v", tt.k, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("TopK(k=%d) = %v, want %v", tt.k, got, tt.want)
				break
			}
		}
		mask := Mask(got, len(coef))
		set := 0
		for _, b := range mask {
			if b {
				set++
			}
		}
		if set != len(tt.want) {
			t.Errorf("Mask has %d bits set, want %d", set, len(tt.want))
		}
	}

	// all-zero coefficients still yield exactly k features
	if got := TopK(make([]float64, 6), 4); len(got) != 4 {
		t.Errorf("TopK on zero coefficients returned %v", got)
	}
}

func TestPruneTopK(t *testing.T) {
	phi := [][]float64{
		{0.5, -0.1, 0.3, 0.05},
		{-0.5, 0.1, -0.3, -0.05},
	}
	PruneTopK(phi, 2)
	want := [][]float64{
		{0.5, 0, 0.3, 0},
		{-0.5, 0, -0.3, 0},
	}
	for c := range want {
		for j := range want[c] {
			if phi[c][j] != want[c][j] {
				t.Fatalf("PruneTopK = %v, want %v", phi, want)
			}
		}
	}
}

func TestZeroDegenerate(t *testing.T) {
	g := Linear{Coef: []float64{1, 2, 3}, Intercept: 0.1}
	out := ZeroDegenerate(g, []float64{0.5, 0, 2})
	if out.Coef[1] != 0 || out.Coef[0] != 1 || out.Coef[2] != 3 {
		t.Errorf("ZeroDegenerate = %v", out.Coef)
	}
	if g.Coef[1] != 2 {
		t.Error("ZeroDegenerate must not modify its input")
	}
}
