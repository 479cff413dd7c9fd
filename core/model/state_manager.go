package model

import (
	"sync"

	"github.com/YuminosukeSato/leaf/pkg/errors"
)

// StateManager manages the fitted state of a model in a thread-safe manner.
// Surrogate fits run inside parallel repetitions, so the state is guarded.
type StateManager struct {
	mu        sync.RWMutex
	name      string
	fitted    bool
	nFeatures int
	nSamples  int
}

// NewStateManager creates a new StateManager for the named model.
func NewStateManager(name string) *StateManager {
	return &StateManager{name: name}
}

// IsFitted returns whether the model has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the model as fitted and records the training dimensions.
func (s *StateManager) SetFitted(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// Reset resets the fitted state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = false
	s.nFeatures = 0
	s.nSamples = 0
}

// Dimensions returns the number of features and samples seen during fitting.
func (s *StateManager) Dimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// RequireFitted returns a NotFittedError naming method if the model has not been fitted.
func (s *StateManager) RequireFitted(method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(s.name, method)
	}
	return nil
}

// RequireFeatures checks that X has the number of columns seen during fitting.
func (s *StateManager) RequireFeatures(method string, got int) error {
	if err := s.RequireFitted(method); err != nil {
		return err
	}
	nFeatures, _ := s.Dimensions()
	if got != nFeatures {
		return errors.NewDimensionError(method, nFeatures, got, 1)
	}
	return nil
}
