package eos

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSubstance is returned when an identifier is not registered.
	ErrUnknownSubstance = errors.New("unknown substance")

	// ErrInvalidComposition is returned for negative mole fractions, fractions
	// that do not sum to unity, or malformed component lists.
	ErrInvalidComposition = errors.New("invalid composition")

	// ErrInvalidState is returned for non-physical temperature, density or pressure
	// inputs and for an undefined phase tag.
	ErrInvalidState = errors.New("invalid thermodynamic state")

	// ErrConvergenceFailure is the sentinel wrapped by *ConvergenceError.
	ErrConvergenceFailure = errors.New("convergence failure")
)

// ConvergenceError reports a density iteration that left the valid bracket
// or ran out of iterations.
type ConvergenceError struct {
	Temperature  float64 // K
	Pressure     float64 // target pressure, Pa
	Phase        Phase   // requested phase
	Iterations   int
	LastDensity  float64 // mol/m3
	LastResidual float64 // P_eos - P_target, Pa
	Reason       string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf(
		"density iteration for %s at T=%g K, P=%g Pa failed after %d iterations (%s): last density %g mol/m3, residual %g Pa",
		e.Phase, e.Temperature, e.Pressure, e.Iterations, e.Reason, e.LastDensity, e.LastResidual,
	)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrConvergenceFailure
}
