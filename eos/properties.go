package eos

import (
	"fmt"
	"math"
)

// ThermodynamicPoint holds the properties derived from the Helmholtz energy
// at one (T, ρ, x) state. It is produced per call and never retained.
type ThermodynamicPoint struct {
	Temperature          float64   // K
	Density              float64   // mol/m3
	Pressure             float64   // Pa
	Delta                float64   // ρ/ρ_r, -
	Tau                  float64   // T_r/T, -
	Compressibility      float64   // Z, -
	DeltaDAlpharDDelta   float64   // δ ∂αr/∂δ, -
	Cv                   float64   // J/(mol K)
	Cp                   float64   // J/(mol K)
	SpeedOfSound         float64   // m/s
	Enthalpy             float64   // J/mol
	Entropy              float64   // J/(mol K)
	InternalEnergy       float64   // J/mol
	GibbsEnergy          float64   // J/mol
	DPDRho               float64   // (∂P/∂ρ)_T, Pa m3/mol
	DPDT                 float64   // (∂P/∂T)_ρ, Pa/K
	FugacityCoefficients []float64 // -, [i]
	Phase                Phase
	Alpha0               HelmholtzDerivs
	Alphar               HelmholtzDerivs
}

/*
温度と密度から物性値を計算する。

	Args:
		m: 混合物
		t: 温度, K
		rho: モル密度, mol/m3

	Returns:
		物性値

	Notes:
		P  = ρRT (1 + δαr_δ)
		cv = -R τ² (α0_ττ + αr_ττ)
		cp = cv + R (1 + δαr_δ - δτ αr_δτ)² / (1 + 2δαr_δ + δ²αr_δδ)
		w² = RT/M [1 + 2δαr_δ + δ²αr_δδ - (1 + δαr_δ - δτ αr_δτ)² / (τ² (α0_ττ + αr_ττ))]
		h  = RT [1 + τ (α0_τ + αr_τ) + δαr_δ]
		s  = R [τ (α0_τ + αr_τ) - α0 - αr]
		ln φ_i = αr + n(∂αr/∂n_i) - ln Z
		R は成分の気体定数のモル分率加重平均。
		ρ = 0 では α0 の ln δ が -∞ となるため、エントロピーは +Inf、ギブスエネルギーは -Inf を返す。
		その他の物性値は理想気体の極限値となる。
*/
func Evaluate(m *Mixture, t, rho float64) (*ThermodynamicPoint, error) {
	if !(t > 0) || math.IsInf(t, 0) {
		return nil, fmt.Errorf("%w: temperature %g K", ErrInvalidState, t)
	}
	if !(rho >= 0) || math.IsInf(rho, 0) {
		return nil, fmt.Errorf("%w: density %g mol/m3", ErrInvalidState, rho)
	}

	delta, tau := m.reduced(t, rho)
	ar := m.Alphar(delta, tau)
	if !ar.is_finite() {
		return nil, fmt.Errorf("%w: density %g mol/m3 at %g K is outside the range of the equation of state", ErrInvalidState, rho, t)
	}
	a0 := m.Alpha0(t, rho)

	r := m.GasConstant()
	rt := r * t

	z := 1 + delta*ar.D
	d_term := 1 + 2*delta*ar.D + delta*delta*ar.DD
	t_term := 1 + delta*ar.D - delta*tau*ar.DT
	tt := tau * tau * (a0.TT + ar.TT)

	p := &ThermodynamicPoint{
		Temperature:        t,
		Density:            rho,
		Pressure:           rho * rt * z,
		Delta:              delta,
		Tau:                tau,
		Compressibility:    z,
		DeltaDAlpharDDelta: delta * ar.D,
		Cv:                 -r * tt,
		Enthalpy:           rt * (1 + tau*(a0.T+ar.T) + delta*ar.D),
		Entropy:            r * (tau*(a0.T+ar.T) - a0.A - ar.A),
		InternalEnergy:     rt * tau * (a0.T + ar.T),
		GibbsEnergy:        rt * (1 + a0.A + ar.A + delta*ar.D),
		DPDRho:             rt * d_term,
		DPDT:               rho * r * t_term,
		Phase:              classify_phase(rho, m.ReducingDensity()),
		Alpha0:             a0,
		Alphar:             ar,
	}
	p.Cp = p.Cv + r*t_term*t_term/d_term
	p.SpeedOfSound = math.Sqrt(rt / m.MolarMass() * (d_term - t_term*t_term/tt))

	p.FugacityCoefficients = make([]float64, len(m.components))
	nd := m.NDAlpharDNi(delta, tau)
	for i := range nd {
		p.FugacityCoefficients[i] = math.Exp(ar.A + nd[i] - math.Log(z))
	}

	return p, nil
}

/*
物性値の一覧を単位付きで取得する。

	Returns:
		物性値, [k]
*/
func (p *ThermodynamicPoint) Quantities() []Quantity {
	return []Quantity{
		{"temperature", p.Temperature, Kelvin},
		{"density", p.Density, MolePerCubicMetre},
		{"pressure", p.Pressure, Pascal},
		{"compressibility", p.Compressibility, Dimensionless},
		{"delta_dalphar_ddelta", p.DeltaDAlpharDDelta, Dimensionless},
		{"cv", p.Cv, JoulePerMoleKelvin},
		{"cp", p.Cp, JoulePerMoleKelvin},
		{"speed_of_sound", p.SpeedOfSound, MetrePerSecond},
		{"enthalpy", p.Enthalpy, JoulePerMole},
		{"entropy", p.Entropy, JoulePerMoleKelvin},
		{"internal_energy", p.InternalEnergy, JoulePerMole},
		{"gibbs_energy", p.GibbsEnergy, JoulePerMole},
		{"dp_drho", p.DPDRho, PascalCubicMetrePerMole},
		{"dp_dt", p.DPDT, PascalPerKelvin},
	}
}
