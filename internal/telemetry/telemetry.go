// Package telemetry derives the integrity metrics used by the governance
// gates. All functions are pure; no history or smoothing is kept. Drift
// (omega) is a supplied value, never derived here.
package telemetry

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMetric reports a raw metric value outside its domain.
var ErrInvalidMetric = errors.New("telemetry: invalid metric")

// Weld pairs a seam residual with its declared tolerance. The weld is
// healthy iff Residual <= Tol.
type Weld struct {
	Residual float64 `json:"residual"`
	Tol      float64 `json:"tol"`
}

// Sample is the input of one governance evaluation: log-integrity kappa,
// its derived integrity I = e^kappa, supplied drift omega, and the weld
// pair from the run manifest.
type Sample struct {
	Kappa float64 `json:"kappa"`
	I     float64 `json:"I"`
	Omega float64 `json:"omega"`
	Weld  Weld    `json:"weld"`
}

// Integrity computes I = e^kappa. The result is strictly positive and
// strictly increasing in kappa.
func Integrity(kappa float64) (float64, error) {
	if !isFinite(kappa) {
		return 0, fmt.Errorf("%w: kappa must be finite, got %v", ErrInvalidMetric, kappa)
	}
	return math.Exp(kappa), nil
}

// WeldOK reports whether the seam residual stays within tolerance. Both
// arguments must be non-negative.
func WeldOK(residual, tol float64) (bool, error) {
	if residual < 0 || !isFinite(residual) {
		return false, fmt.Errorf("%w: residual must be a non-negative finite value, got %v", ErrInvalidMetric, residual)
	}
	if tol < 0 || !isFinite(tol) {
		return false, fmt.Errorf("%w: tol must be a non-negative finite value, got %v", ErrInvalidMetric, tol)
	}
	return residual <= tol, nil
}

// NewSample validates the raw inputs and derives the integrity metric.
func NewSample(kappa, omega, residual, tol float64) (Sample, error) {
	i, err := Integrity(kappa)
	if err != nil {
		return Sample{}, err
	}
	if !isFinite(omega) {
		return Sample{}, fmt.Errorf("%w: omega must be finite, got %v", ErrInvalidMetric, omega)
	}
	if _, err := WeldOK(residual, tol); err != nil {
		return Sample{}, err
	}
	return Sample{
		Kappa: kappa,
		I:     i,
		Omega: omega,
		Weld:  Weld{Residual: residual, Tol: tol},
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
