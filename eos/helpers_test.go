package eos

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

const (
	cas_methane  = "74-82-8"
	cas_nitrogen = "7727-37-9"
	cas_oxygen   = "7782-44-7"
	cas_co2      = "124-38-9"
	cas_so2      = "7446-09-5"
	cas_decane   = "124-18-5"
	cas_water    = "7732-18-5"
	cas_chlorine = "7782-50-5"
	cas_hcl      = "7647-01-0"
)

func assert_close(t *testing.T, want, got, rtol float64, msg ...interface{}) {
	t.Helper()
	assert.InDelta(t, want, got, rtol*math.Max(1, math.Abs(want)), msg...)
}

var (
	first_order = &fd.Settings{Formula: fd.Central, Step: 1e-6}
)

// 解析的な偏導関数を数値微分と比較する
func check_derivs(t *testing.T, name string, f func(delta, tau float64) HelmholtzDerivs, delta, tau float64) {
	t.Helper()
	h := f(delta, tau)
	require.True(t, h.is_finite(), "%s at (%g, %g) is not finite", name, delta, tau)

	by_delta := func(get func(HelmholtzDerivs) float64) float64 {
		return fd.Derivative(func(d float64) float64 { return get(f(d, tau)) }, delta, first_order)
	}
	by_tau := func(get func(HelmholtzDerivs) float64) float64 {
		return fd.Derivative(func(x float64) float64 { return get(f(delta, x)) }, tau, first_order)
	}
	a := func(h HelmholtzDerivs) float64 { return h.A }
	d := func(h HelmholtzDerivs) float64 { return h.D }
	tt := func(h HelmholtzDerivs) float64 { return h.T }

	assert_close(t, by_delta(a), h.D, 1e-6, "%s: dα/dδ at (%g, %g)", name, delta, tau)
	assert_close(t, by_tau(a), h.T, 1e-6, "%s: dα/dτ at (%g, %g)", name, delta, tau)
	assert_close(t, by_delta(d), h.DD, 1e-6, "%s: d²α/dδ² at (%g, %g)", name, delta, tau)
	assert_close(t, by_tau(tt), h.TT, 1e-6, "%s: d²α/dτ² at (%g, %g)", name, delta, tau)
	assert_close(t, by_tau(d), h.DT, 1e-6, "%s: d²α/dδdτ at (%g, %g)", name, delta, tau)
}

func must_mixture(t *testing.T, ids []string, x []float64) *Mixture {
	t.Helper()
	m, err := NewMixture(DefaultRegistry(), DefaultParameterTable(), ids, x)
	require.NoError(t, err)
	return m
}

func must_pure(t *testing.T, id string) *Mixture {
	t.Helper()
	m, err := NewPureFluid(DefaultRegistry(), id)
	require.NoError(t, err)
	return m
}
