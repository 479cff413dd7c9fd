package model

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leaf/pkg/errors"
)

func TestBaseEstimator(t *testing.T) {
	var e BaseEstimator
	if e.IsFitted() {
		t.Fatal("zero value should not be fitted")
	}
	e.SetFitted()
	if !e.IsFitted() || e.State().String() != "fitted" {
		t.Errorf("SetFitted did not take effect: %v", e.State())
	}
	e.Reset()
	if e.IsFitted() {
		t.Error("Reset should clear fitted state")
	}
}

func TestStateManager(t *testing.T) {
	s := NewStateManager("Ridge")

	err := s.RequireFitted("Predict")
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFittedError, got %v", err)
	}
	if nf.ModelName != "Ridge" || nf.Method != "Predict" {
		t.Errorf("unexpected error fields: %+v", nf)
	}

	s.SetFitted(3, 100)
	if err := s.RequireFeatures("Predict", 3); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err = s.RequireFeatures("Predict", 2)
	var dim *errors.DimensionError
	if !errors.As(err, &dim) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
	if f, n := s.Dimensions(); f != 3 || n != 100 {
		t.Errorf("Dimensions() = (%d, %d)", f, n)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("Reset should clear fitted state")
	}
}

func TestProbaFunc(t *testing.T) {
	var clf ProbaClassifier = ProbaFunc(func(X mat.Matrix) (mat.Matrix, error) {
		r, _ := X.Dims()
		out := mat.NewDense(r, 2, nil)
		for i := 0; i < r; i++ {
			out.Set(i, 0, 0.25)
			out.Set(i, 1, 0.75)
		}
		return out, nil
	})

	proba, err := clf.PredictProba(mat.NewDense(2, 1, []float64{1, 2}))
	if err != nil {
		t.Fatal(err)
	}
	if r, c := proba.Dims(); r != 2 || c != 2 {
		t.Fatalf("Dims() = (%d, %d)", r, c)
	}
	if proba.At(1, 1) != 0.75 {
		t.Errorf("At(1,1) = %v", proba.At(1, 1))
	}
}
