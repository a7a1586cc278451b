package eos

import (
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pressure_of(t *testing.T, m *Mixture, temp, rho float64) float64 {
	t.Helper()
	p, err := Evaluate(m, temp, rho)
	require.NoError(t, err)
	return p.Pressure
}

func TestSolveDensityRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		m     *Mixture
		t     float64
		rho   float64
		phase Phase
	}{
		{"nitrogen gas", must_pure(t, cas_nitrogen), 300, 1000, PhaseGas},
		{"methane gas", must_pure(t, cas_methane), 250, 4000, PhaseGas},
		{"chlorine liquid", must_pure(t, cas_chlorine), 300, 22500, PhaseLiquid},
		{"carbon dioxide liquid", must_pure(t, cas_co2), 280, 20000, PhaseLiquid},
		{"oxygen/sulfur dioxide gas", must_mixture(t, []string{cas_oxygen, cas_so2}, []float64{0.4, 0.6}), 400, 300, PhaseGas},
	}

	opts := DefaultSolverOptions()
	for _, c := range cases {
		p := pressure_of(t, c.m, c.t, c.rho)
		r, err := SolveDensity(c.m, c.t, p, c.phase, opts)
		require.NoError(t, err, c.name)

		assert.InEpsilon(t, c.rho, r.Density, 1e-8, c.name)
		assert.Equal(t, c.phase, r.Phase, c.name)
		assert.True(t, is_pressure_converged(r.Residual, p, opts), "%s: residual %g Pa", c.name, r.Residual)
		assert.Equal(t, r.Point.Pressure, r.Pressure)
		assert.LessOrEqual(t, r.Iterations, opts.MaxIterations)
	}
}

// 超臨界状態ではどちらの初期値からも同じ根に収束する
func TestSolveDensitySupercriticalFromBothGuesses(t *testing.T) {
	m := must_pure(t, cas_nitrogen)
	p := pressure_of(t, m, 300, 15000)

	gas, err := SolveDensity(m, 300, p, PhaseGas, DefaultSolverOptions())
	require.NoError(t, err)
	liquid, err := SolveDensity(m, 300, p, PhaseLiquid, DefaultSolverOptions())
	require.NoError(t, err)

	assert.InEpsilon(t, 15000, gas.Density, 1e-8)
	assert.InEpsilon(t, 15000, liquid.Density, 1e-8)
}

func TestSolveDensityUnknownPhaseStartsAsGas(t *testing.T) {
	m := must_pure(t, cas_nitrogen)
	p := pressure_of(t, m, 300, 1000)
	r, err := SolveDensity(m, 300, p, PhaseUnknown, DefaultSolverOptions())
	require.NoError(t, err)
	assert.InEpsilon(t, 1000, r.Density, 1e-8)
}

func TestSolveDensityNearIdealGas(t *testing.T) {
	m := must_pure(t, cas_chlorine)
	r, err := SolveDensity(m, 300, 1e5, PhaseGas, DefaultSolverOptions())
	require.NoError(t, err)
	assert.InEpsilon(t, 1e5/(get_r()*300), r.Density, 0.05)
	assert.Equal(t, PhaseGas, r.Phase)
}

// 飽和圧力より低い圧力では気相の根が安定
func TestSolveDensityAnyPhasePrefersLowerGibbsEnergy(t *testing.T) {
	m := must_pure(t, cas_chlorine)
	r, err := SolveDensityAnyPhase(m, 300, 1e5, PhaseLiquid, DefaultSolverOptions())
	require.NoError(t, err)
	assert.Equal(t, PhaseGas, r.Phase)

	if liquid, err := SolveDensity(m, 300, 1e5, PhaseLiquid, DefaultSolverOptions()); err == nil && liquid.Phase == PhaseLiquid {
		assert.Less(t, r.Point.GibbsEnergy, liquid.Point.GibbsEnergy)
	}
}

func TestSolveDensityConvergenceFailure(t *testing.T) {
	m := must_pure(t, cas_nitrogen)
	p := pressure_of(t, m, 300, 15000)

	opts := DefaultSolverOptions()
	opts.MaxIterations = 1
	_, err := SolveDensity(m, 300, p, PhaseLiquid, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConvergenceFailure)

	var ce *ConvergenceError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.Iterations)
	assert.Equal(t, PhaseLiquid, ce.Phase)
	assert.Equal(t, p, ce.Pressure)
	assert.Greater(t, ce.LastDensity, 0.0)
	assert.False(t, math.IsNaN(ce.LastResidual))
	assert.Contains(t, ce.Error(), "iteration limit")
}

func TestSolveDensityAnyPhaseJoinsFailures(t *testing.T) {
	m := must_pure(t, cas_nitrogen)
	p := pressure_of(t, m, 300, 15000)

	opts := DefaultSolverOptions()
	opts.MaxIterations = 1
	opts.MaxStepFraction = 1e-3
	_, err := SolveDensityAnyPhase(m, 300, p, PhaseGas, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConvergenceFailure)
}

func TestSolveDensityInvalidInputs(t *testing.T) {
	m := must_pure(t, cas_nitrogen)
	for _, c := range []struct{ t, p float64 }{
		{0, 1e5},
		{math.NaN(), 1e5},
		{300, 0},
		{300, -1e5},
		{300, math.Inf(1)},
	} {
		_, err := SolveDensity(m, c.t, c.p, PhaseGas, DefaultSolverOptions())
		assert.ErrorIs(t, err, ErrInvalidState, "T=%g P=%g", c.t, c.p)
		_, err = SolveDensityAnyPhase(m, c.t, c.p, PhaseGas, DefaultSolverOptions())
		assert.ErrorIs(t, err, ErrInvalidState, "T=%g P=%g", c.t, c.p)
	}
}

func TestSolverStateString(t *testing.T) {
	assert.Equal(t, "converged", state_converged.String())
	assert.Panics(t, func() { _ = solver_state(99).String() })
}

// 参照ソフトウェアとの比較点 (decane/water, 400 K, 100 MPa)
func TestSolveDensityReferencePoint(t *testing.T) {
	f, err := os.Open("testdata/decane_water.csv")
	require.NoError(t, err)
	defer f.Close()

	points, err := LoadReferencePoints(f)
	require.NoError(t, err)
	require.Len(t, points, 1)

	rp := points[0]
	assert.Equal(t, []string{cas_decane, cas_water}, rp.IDs())
	x, err := rp.MoleFractions()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, x)

	devs := CompareReference(DefaultRegistry(), DefaultParameterTable(), points, DefaultSolverOptions())
	require.Len(t, devs, 1)
	d := devs[0]
	require.NoError(t, d.Err)

	assert.True(t, d.PhaseMatches)
	assert.Equal(t, PhaseLiquid, d.Result.Phase)
	assert.True(t, is_pressure_converged(d.Result.Residual, rp.Pressure, DefaultSolverOptions()))
	assert.InEpsilon(t, rp.Density, d.Result.Density, 1e-6)
	assert.InEpsilon(t, rp.DeltaDAlpharDDelta, d.Result.Point.DeltaDAlpharDDelta, 1e-6)
	assert.InEpsilon(t, rp.Cv, d.Result.Point.Cv, 1e-6)
	assert.InDelta(t, 0, d.Density, 1e-6)
	assert.InDelta(t, 0, d.DeltaDAlpharDDelta, 1e-6)
	assert.InDelta(t, 0, d.Cv, 1e-6)
}

// 液相・気相どちらの初期値からも同じ根に収束する
func TestSolveDensityReferencePointFromGas(t *testing.T) {
	m := must_mixture(t, []string{cas_decane, cas_water}, []float64{0.5, 0.5})
	assert.InEpsilon(t, 0.5*8.314472+0.5*8.314371357587, m.GasConstant(), 1e-15)

	r, err := SolveDensity(m, 400, 100000000.000001, PhaseGas, DefaultSolverOptions())
	require.NoError(t, err)
	assert.InEpsilon(t, 12795.4323923359, r.Density, 1e-6)
	assert.Equal(t, PhaseLiquid, r.Phase)
}

func TestSolveDensityInvalidPhase(t *testing.T) {
	m := must_pure(t, cas_nitrogen)
	_, err := SolveDensity(m, 300, 1e5, Phase(3), DefaultSolverOptions())
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = SolveDensityAnyPhase(m, 300, 1e5, Phase(-1), DefaultSolverOptions())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCompareReferenceInvalidPhase(t *testing.T) {
	points := []*ReferencePoint{
		{Name: "bad tag", Components: cas_nitrogen, Fractions: "1", Temperature: 300, Pressure: 1e5, Phase: 3},
		{Name: "good", Components: cas_nitrogen, Fractions: "1", Temperature: 300, Pressure: 1e5, Phase: 2},
	}
	devs := CompareReference(DefaultRegistry(), DefaultParameterTable(), points, DefaultSolverOptions())
	require.Len(t, devs, 2)
	assert.ErrorIs(t, devs[0].Err, ErrInvalidState)
	assert.NoError(t, devs[1].Err)
	assert.True(t, devs[1].PhaseMatches)
}

func TestLoadReferencePointsInvalidPhase(t *testing.T) {
	csv := "name,components,fractions,temperature,pressure,density,phase,delta_dalphar_ddelta,cv\n" +
		"bad,7727-37-9,1,300,100000,40,5,0,0\n"
	_, err := LoadReferencePoints(strings.NewReader(csv))
	assert.ErrorIs(t, err, ErrInvalidState)
}
