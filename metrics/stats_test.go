package metrics

import (
	"math"
	"testing"
)

func TestHingeLoss(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{0, 1},
		{1, 0},
		{2, 0},
		{0.25, 0.75},
		{-1, 2},
	}
	for _, tt := range tests {
		if got := HingeLoss(tt.x); got != tt.want {
			t.Errorf("HingeLoss(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := MeanStd([]float64{1, 2, 3, 4})
	if mean != 2.5 || math.Abs(std-math.Sqrt(1.25)) > 1e-12 {
		t.Errorf("MeanStd = (%v, %v)", mean, std)
	}
	if m, s := MeanStd(nil); m != 0 || s != 0 {
		t.Errorf("MeanStd(nil) = (%v, %v)", m, s)
	}
	if m, s := MeanStd([]float64{0.7}); m != 0.7 || s != 0 {
		t.Errorf("MeanStd(single) = (%v, %v)", m, s)
	}
	if Mean(nil) != 0 || Mean([]float64{1, 3}) != 2 {
		t.Error("Mean mismatch")
	}
	if got := MeanAbs([]float64{-0.25, 0.25}, 2); got != 0.5 {
		t.Errorf("MeanAbs = %v, want 0.5", got)
	}
}
