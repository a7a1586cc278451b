package eos

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

func TestNewMixtureCompositionErrors(t *testing.T) {
	reg := DefaultRegistry()
	table := DefaultParameterTable()

	cases := map[string]struct {
		ids []string
		x   []float64
	}{
		"single component":  {[]string{cas_water}, []float64{1}},
		"negative fraction": {[]string{cas_water, cas_decane}, []float64{-0.1, 1.1}},
		"sum above unity":   {[]string{cas_water, cas_decane}, []float64{0.5, 0.5 + 1e-8}},
		"sum below unity":   {[]string{cas_water, cas_decane}, []float64{0.4, 0.5}},
		"length mismatch":   {[]string{cas_water, cas_decane}, []float64{1}},
		"not a number":      {[]string{cas_water, cas_decane}, []float64{math.NaN(), 1}},
		"duplicate":         {[]string{cas_water, "water"}, []float64{0.5, 0.5}},
	}
	for name, c := range cases {
		_, err := NewMixture(reg, table, c.ids, c.x)
		assert.ErrorIs(t, err, ErrInvalidComposition, name)
	}

	_, err := NewMixture(reg, table, []string{cas_water, "unobtainium"}, []float64{0.5, 0.5})
	assert.ErrorIs(t, err, ErrUnknownSubstance)
}

func TestNewMixtureSumTolerance(t *testing.T) {
	_, err := NewMixture(DefaultRegistry(), DefaultParameterTable(),
		[]string{cas_water, cas_decane}, []float64{0.5, 0.5 + 1e-10})
	assert.NoError(t, err)
}

func TestPureFluidReducesToCriticalPoint(t *testing.T) {
	m := must_pure(t, cas_nitrogen)
	assert.Equal(t, 126.192, m.ReducingTemperature())
	assert.InDelta(t, 11183.9, m.ReducingDensity(), 1e-9)
	assert.Equal(t, 0.02801348, m.MolarMass())
	assert.Equal(t, "1 nitrogen", m.String())
}

func TestMixtureAccessorsCopy(t *testing.T) {
	m := must_mixture(t, []string{cas_chlorine, cas_hcl}, []float64{0.3, 0.7})
	x := m.MoleFractions()
	x[0] = 1
	assert.Equal(t, []float64{0.3, 0.7}, m.MoleFractions())

	cs := m.Components()
	cs[0] = nil
	assert.NotNil(t, m.Components()[0])
}

func TestBinaryParametersOrientation(t *testing.T) {
	m := must_mixture(t, []string{cas_hcl, cas_chlorine}, []float64{0.7, 0.3})
	p := m.BinaryParameters(0, 1)
	assert.Equal(t, cas_hcl, p.IDA)
	assert.InDelta(t, 1/0.993785, p.BetaT, 1e-15)

	q := m.BinaryParameters(1, 0)
	assert.Equal(t, cas_chlorine, q.IDA)
	assert.InDelta(t, 0.993785, q.BetaT, 1e-15)

	assert.Panics(t, func() { m.BinaryParameters(1, 1) })
}

func TestMixtureOrderIndependence(t *testing.T) {
	a := must_mixture(t, []string{cas_chlorine, cas_hcl}, []float64{0.3, 0.7})
	b := must_mixture(t, []string{cas_hcl, cas_chlorine}, []float64{0.7, 0.3})

	assert.InEpsilon(t, a.ReducingTemperature(), b.ReducingTemperature(), 1e-13)
	assert.InEpsilon(t, a.ReducingDensity(), b.ReducingDensity(), 1e-13)

	pa, err := Evaluate(a, 350, 8000)
	require.NoError(t, err)
	pb, err := Evaluate(b, 350, 8000)
	require.NoError(t, err)
	assert.InEpsilon(t, pa.Pressure, pb.Pressure, 1e-12)
	assert.InEpsilon(t, pa.Cp, pb.Cp, 1e-12)
	assert.InEpsilon(t, pa.FugacityCoefficients[0], pb.FugacityCoefficients[1], 1e-12)
	assert.InEpsilon(t, pa.FugacityCoefficients[1], pb.FugacityCoefficients[0], 1e-12)
}

// F = 0 の組み合わせでは αr は純物質の αr のモル分率加重和になる
func TestMixtureWithoutDepartureIsWeightedSum(t *testing.T) {
	reg := DefaultRegistry()
	pairs := [][2]string{{cas_chlorine, cas_hcl}, {cas_oxygen, cas_so2}}
	x := []float64{0.25, 0.75}
	for _, pair := range pairs {
		m := must_mixture(t, pair[:], x)
		assert.False(t, m.BinaryParameters(0, 1).HasDeparture())

		c0, err := reg.Component(pair[0])
		require.NoError(t, err)
		c1, err := reg.Component(pair[1])
		require.NoError(t, err)

		for _, pt := range derivative_points[:2] {
			got := m.Alphar(pt.delta, pt.tau)
			var want HelmholtzDerivs
			want.add_scaled(x[0], c0.Alphar(pt.delta, pt.tau))
			want.add_scaled(x[1], c1.Alphar(pt.delta, pt.tau))
			assert.InDelta(t, want.A, got.A, 1e-14)
			assert.InDelta(t, want.D, got.D, 1e-14)
			assert.InDelta(t, want.TT, got.TT, 1e-13)
		}
	}
}

func TestMixtureDepartureContribution(t *testing.T) {
	dep, err := DepartureFunction("generalized")
	require.NoError(t, err)
	table := NewParameterTable([]MixtureBinaryParameters{{
		IDA: cas_chlorine, IDB: cas_hcl,
		BetaT: 0.993785, GammaT: 0.956196, BetaV: 1, GammaV: 1,
		F: 1, DepartureName: "generalized", Departure: dep,
	}})
	x := []float64{0.3, 0.7}

	with_dep, err := NewMixture(DefaultRegistry(), table, []string{cas_chlorine, cas_hcl}, x)
	require.NoError(t, err)
	without := must_mixture(t, []string{cas_chlorine, cas_hcl}, x)

	const delta, tau = 0.9, 1.1
	got := with_dep.Alphar(delta, tau)
	want := without.Alphar(delta, tau)
	want.add_scaled(x[0]*x[1], dep.Alphar(delta, tau))
	assert.InDelta(t, want.A, got.A, 1e-14)
	assert.InDelta(t, want.D, got.D, 1e-14)
	assert.InDelta(t, want.DT, got.DT, 1e-13)
}

// x → 0 の極限で純物質の値に近づく
func TestMixtureTraceComponentLimit(t *testing.T) {
	pure := must_pure(t, cas_water)
	want, err := Evaluate(pure, 400, 53000)
	require.NoError(t, err)

	m := must_mixture(t, []string{cas_decane, cas_water}, []float64{1e-10, 1 - 1e-10})
	assert.InEpsilon(t, pure.ReducingTemperature(), m.ReducingTemperature(), 1e-8)
	assert.InEpsilon(t, pure.ReducingDensity(), m.ReducingDensity(), 1e-8)

	got, err := Evaluate(m, 400, 53000)
	require.NoError(t, err)
	assert.InEpsilon(t, want.Pressure, got.Pressure, 1e-6)
	assert.InEpsilon(t, want.Cv, got.Cv, 1e-6)
	assert.InEpsilon(t, want.FugacityCoefficients[0], got.FugacityCoefficients[1], 1e-6)
}

func TestMixtureZeroFractionComponentIsSkipped(t *testing.T) {
	m := must_mixture(t, []string{cas_oxygen, cas_so2}, []float64{0, 1})
	pure := must_pure(t, cas_so2)

	assert.InEpsilon(t, pure.ReducingTemperature(), m.ReducingTemperature(), 1e-14)
	assert.InEpsilon(t, pure.ReducingDensity(), m.ReducingDensity(), 1e-14)

	got := m.Alphar(1.2, 0.9)
	want := pure.Alphar(1.2, 0.9)
	assert.InDelta(t, want.A, got.A, 1e-14)
	assert.InDelta(t, want.DD, got.DD, 1e-13)
}

/*
n(∂αr/∂n_i) を物質量についての数値微分と比較する。
体積一定で n_i を変化させるため、ρ = n/V と x = n_i/n が同時に変わる。
*/
func TestNDAlpharDNi(t *testing.T) {
	const temp = 350.0
	const volume = 1.0 / 2000 // m3 (n = 1 mol で ρ = 2000 mol/m3)

	dep, err := DepartureFunction("generalized")
	require.NoError(t, err)
	with_dep := NewParameterTable([]MixtureBinaryParameters{{
		IDA: cas_chlorine, IDB: cas_hcl,
		BetaT: 0.993785, GammaT: 0.956196, BetaV: 1.02, GammaV: 0.98,
		F: 0.8, DepartureName: "generalized", Departure: dep,
	}})

	cases := map[string]struct {
		table *ParameterTable
		ids   []string
		x     []float64
	}{
		"oxygen/sulfur dioxide":      {DefaultParameterTable(), []string{cas_oxygen, cas_so2}, []float64{0.4, 0.6}},
		"chlorine/hydrogen chloride": {with_dep, []string{cas_chlorine, cas_hcl}, []float64{0.3, 0.7}},
	}

	for name, c := range cases {
		m, err := NewMixture(DefaultRegistry(), c.table, c.ids, c.x)
		require.NoError(t, err)

		delta, tau := m.reduced(temp, 1/volume)
		got := m.NDAlpharDNi(delta, tau)

		for i := range c.x {
			n_alphar := func(ni float64) float64 {
				n := append([]float64(nil), c.x...)
				n[i] = ni
				total := n[0] + n[1]
				x := []float64{n[0] / total, n[1] / total}
				mm, err := NewMixture(DefaultRegistry(), c.table, c.ids, x)
				require.NoError(t, err)
				d, tt := mm.reduced(temp, total/volume)
				return total * mm.Alphar(d, tt).A
			}
			want := fd.Derivative(n_alphar, c.x[i], first_order) - m.Alphar(delta, tau).A
			assert_close(t, want, got[i], 1e-6, "%s: component %d", name, i)
		}
	}
}
