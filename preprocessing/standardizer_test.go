package preprocessing

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leaf/pkg/errors"
)

func TestStandardizerFit(t *testing.T) {
	X := mat.NewDense(4, 3, []float64{
		1, 10, 5,
		2, 20, 5,
		3, 30, 5,
		4, 40, 5,
	})
	s := NewStandardizer()
	if err := s.Fit(X); err != nil {
		t.Fatal(err)
	}

	wantMean := []float64{2.5, 25, 5}
	wantStd := []float64{math.Sqrt(1.25), math.Sqrt(125), 0}
	for j := range wantMean {
		if math.Abs(s.Mean[j]-wantMean[j]) > 1e-12 {
			t.Errorf("Mean[%d] = %v, want %v", j, s.Mean[j], wantMean[j])
		}
		if math.Abs(s.Std[j]-wantStd[j]) > 1e-12 {
			t.Errorf("Std[%d] = %v, want %v", j, s.Std[j], wantStd[j])
		}
	}
	if !s.Degenerate(2) || s.Degenerate(0) {
		t.Error("only feature 2 should be degenerate")
	}
}

func TestStandardizerZeroStdRoundTrip(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		7, 1,
		7, 2,
		7, 3,
	})
	s := NewStandardizer()
	if err := s.Fit(X); err != nil {
		t.Fatal(err)
	}

	for _, x := range [][]float64{{7, 2}, {9.5, -1}, {0, 100}} {
		sx, err := s.Scale(x)
		if err != nil {
			t.Fatal(err)
		}
		for _, v := range sx {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("Scale(%v) produced %v", x, sx)
			}
		}
		back, err := s.Unscale(sx)
		if err != nil {
			t.Fatal(err)
		}
		for j := range x {
			if math.Abs(back[j]-x[j]) > 1e-12 {
				t.Errorf("round trip of %v gave %v", x, back)
			}
		}
	}
}

func TestStandardizerRows(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	X := mat.NewDense(3000, 4, nil)
	for i := 0; i < 3000; i++ {
		for j := 0; j < 4; j++ {
			X.Set(i, j, rng.NormFloat64()*float64(j+1)+float64(j))
		}
	}
	s := NewStandardizer()
	if err := s.Fit(X); err != nil {
		t.Fatal(err)
	}
	scaled, err := s.ScaleRows(X)
	if err != nil {
		t.Fatal(err)
	}
	col := make([]float64, 3000)
	for j := 0; j < 4; j++ {
		mat.Col(col, j, scaled)
		mean, sq := 0.0, 0.0
		for _, v := range col {
			mean += v
		}
		mean /= 3000
		for _, v := range col {
			sq += (v - mean) * (v - mean)
		}
		if math.Abs(mean) > 1e-9 || math.Abs(sq/3000-1) > 1e-9 {
			t.Errorf("feature %d: mean %v var %v", j, mean, sq/3000)
		}
	}

	back, err := s.UnscaleRows(scaled)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.EqualApprox(back, X, 1e-9) {
		t.Error("UnscaleRows(ScaleRows(X)) != X")
	}
}

func TestStandardizerCenterOnly(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{0, 0, 4, 10})
	s := NewStandardizer()
	if err := s.Fit(X); err != nil {
		t.Fatal(err)
	}
	c := s.CenterOnly()
	sx, err := c.Scale([]float64{4, 10})
	if err != nil {
		t.Fatal(err)
	}
	if sx[0] != 2 || sx[1] != 5 {
		t.Errorf("CenterOnly().Scale = %v, want [2 5]", sx)
	}
	if s.Divisors()[1] != 5 {
		t.Error("CenterOnly must not modify the original divisors")
	}
}

func TestStandardizerErrors(t *testing.T) {
	s := NewStandardizer()
	_, err := s.Scale([]float64{1})
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFittedError, got %v", err)
	}

	if err := s.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err != nil {
		t.Fatal(err)
	}
	_, err = s.Scale([]float64{1, 2, 3})
	var dim *errors.DimensionError
	if !errors.As(err, &dim) {
		t.Errorf("expected DimensionError, got %v", err)
	}

	err = NewStandardizer().Fit(&mat.Dense{})
	if !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("expected ErrEmptyData, got %v", err)
	}
}
