package eos

import (
	"errors"
	"fmt"
	"math"
)

// SolverOptions bounds the density iteration.
type SolverOptions struct {
	// 圧力残差の許容値, Pa
	AbsoluteTolerance float64
	// 圧力残差の相対許容値, -
	RelativeTolerance float64
	// 最大反復回数
	MaxIterations int
	// 1回の反復での ln ρ の最大変化量, -
	MaxStepFraction float64
	// 密度の上限 (換算密度に対する倍率), -
	MaxReducedDensity float64
}

func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		AbsoluteTolerance: 1e-8,
		RelativeTolerance: 1e-10,
		MaxIterations:     100,
		MaxStepFraction:   0.5,
		MaxReducedDensity: 10,
	}
}

// DensityResult is the outcome of a converged density iteration.
type DensityResult struct {
	Density    float64 // mol/m3
	Pressure   float64 // Pa, evaluated at Density
	Residual   float64 // Pressure - target, Pa
	Iterations int
	Phase      Phase // classification of the converged root
	Point      *ThermodynamicPoint
}

// 反復の状態
type solver_state int

const (
	state_initializing solver_state = iota
	state_iterating
	state_converged
	state_diverged
)

func (s solver_state) String() string {
	switch s {
	case state_initializing:
		return "initializing"
	case state_iterating:
		return "iterating"
	case state_converged:
		return "converged"
	case state_diverged:
		return "diverged"
	default:
		panic("invalid solver state")
	}
}

// 液相の初期値 (換算密度に対する倍率)
const liquid_guess_factor = 2.5

// 非有限値に対する刻みの半減回数の上限
const max_backtrack = 60

/*
温度と圧力から密度を求める。

	Args:
		m: 混合物
		t: 温度, K
		p: 圧力, Pa
		phase: 初期値を決める相 (unknown は gas として扱う)
		opts: 反復の設定

	Returns:
		収束した密度と物性値
		収束しない場合は *ConvergenceError (ErrConvergenceFailure)

	Notes:
		ln ρ について Newton 法で P(T,ρ) - P_target = 0 を解く。
		刻みは MaxStepFraction で制限し、(∂P/∂ρ)_T ≤ 0 の不安定領域では
		指定した相の方向へ進む。状態方程式が非有限値を返す場合は刻みを半減する。
*/
func SolveDensity(m *Mixture, t, p float64, phase Phase, opts SolverOptions) (*DensityResult, error) {
	if !(t > 0) || math.IsInf(t, 0) {
		return nil, fmt.Errorf("%w: temperature %g K", ErrInvalidState, t)
	}
	if !(p > 0) || math.IsInf(p, 0) {
		return nil, fmt.Errorf("%w: pressure %g Pa", ErrInvalidState, p)
	}
	if !phase.is_valid() {
		return nil, fmt.Errorf("%w: phase tag %d", ErrInvalidState, int(phase))
	}
	if phase == PhaseUnknown {
		phase = PhaseGas
	}

	rho_max := opts.MaxReducedDensity * m.ReducingDensity()
	fail := func(it int, rho, res float64, reason string) error {
		return &ConvergenceError{
			Temperature:  t,
			Pressure:     p,
			Phase:        phase,
			Iterations:   it,
			LastDensity:  rho,
			LastResidual: res,
			Reason:       reason,
		}
	}

	var (
		rho    float64
		p_eos  float64
		dp     float64
		res    = math.NaN()
		it     int
		reason string
	)

	state := state_initializing
	for state != state_converged && state != state_diverged {
		switch state {
		case state_initializing:
			rho = initial_density(m, t, p, phase)
			ok := false
			for k := 0; k < max_backtrack; k++ {
				if p_eos, dp, ok = m.pressure(t, rho); ok {
					break
				}
				rho *= 0.8
			}
			if !ok {
				reason = "no finite initial state"
				state = state_diverged
				break
			}
			state = state_iterating

		case state_iterating:
			res = p_eos - p
			if is_pressure_converged(res, p, opts) {
				state = state_converged
				break
			}
			if it >= opts.MaxIterations {
				reason = "iteration limit reached"
				state = state_diverged
				break
			}

			var step float64
			if dp > 0 {
				step = -res / (rho * dp)
			} else if phase == PhaseLiquid {
				step = opts.MaxStepFraction
			} else {
				step = -opts.MaxStepFraction
			}
			step = math.Max(-opts.MaxStepFraction, math.Min(opts.MaxStepFraction, step))

			ok := false
			next := rho
			for k := 0; k < max_backtrack; k++ {
				next = rho * math.Exp(step)
				if p_eos, dp, ok = m.pressure(t, next); ok {
					break
				}
				step /= 2
			}
			it++
			if !ok {
				reason = "equation of state not finite along the step"
				state = state_diverged
				break
			}
			if !(next > 0) || next > rho_max {
				rho = next
				reason = "density left the valid bracket"
				state = state_diverged
				break
			}
			rho = next
		}
	}

	if state == state_diverged {
		return nil, fail(it, rho, res, reason)
	}

	point, err := Evaluate(m, t, rho)
	if err != nil {
		return nil, err
	}
	return &DensityResult{
		Density:    rho,
		Pressure:   point.Pressure,
		Residual:   point.Pressure - p,
		Iterations: it,
		Phase:      point.Phase,
		Point:      point,
	}, nil
}

func is_pressure_converged(res, p float64, opts SolverOptions) bool {
	a := math.Abs(res)
	return a < opts.AbsoluteTolerance || a < opts.RelativeTolerance*math.Abs(p)
}

/*
密度の初期値を求める。

	Notes:
		gas: 理想気体の密度 P/(RT)
		liquid: 換算密度の 2.5 倍
*/
func initial_density(m *Mixture, t, p float64, phase Phase) float64 {
	switch phase {
	case PhaseGas:
		return p / (m.GasConstant() * t)
	case PhaseLiquid:
		return liquid_guess_factor * m.ReducingDensity()
	default:
		panic("invalid phase")
	}
}

/*
両方の相を試して密度を求める。

	Args:
		phase: 最初に試す相 (unknown は gas から試す)

	Returns:
		収束した密度
		両方の相で異なる根に収束した場合はモルギブスエネルギーの小さい方

	Notes:
		二相境界付近で液相・気相の根を判別するための再試行。
*/
func SolveDensityAnyPhase(m *Mixture, t, p float64, phase Phase, opts SolverOptions) (*DensityResult, error) {
	first := phase
	if first == PhaseUnknown {
		first = PhaseGas
	}

	r1, err1 := SolveDensity(m, t, p, first, opts)
	if err1 != nil && !errors.Is(err1, ErrConvergenceFailure) {
		return nil, err1
	}
	r2, err2 := SolveDensity(m, t, p, first.alternate(), opts)
	if err2 != nil && !errors.Is(err2, ErrConvergenceFailure) {
		return nil, err2
	}

	switch {
	case err1 != nil && err2 != nil:
		return nil, errors.Join(err1, err2)
	case err1 != nil:
		return r2, nil
	case err2 != nil:
		return r1, nil
	}

	if math.Abs(r1.Density-r2.Density) <= 1e-9*math.Max(r1.Density, r2.Density) {
		return r1, nil
	}
	if r2.Point.GibbsEnergy < r1.Point.GibbsEnergy {
		return r2, nil
	}
	return r1, nil
}
