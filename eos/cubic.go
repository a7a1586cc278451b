package eos

import "math"

// Peng-Robinson の定数
const (
	pr_omega_a = 0.45724
	pr_omega_b = 0.07780
)

// PengRobinson is the Peng-Robinson cubic equation written as a residual
// reduced Helmholtz energy in the reduced variables of one fluid
// (δ = ρ/ρc, τ = Tc/T). It serves fluids without a multiparameter equation.
type PengRobinson struct {
	// b ρc, -
	_b_red float64
	// ac / (b R Tc) / (2√2), -
	_k float64
	// 偏心因子の関数 m(ω), -
	_m float64
}

/*
Args:

	t_c: 臨界温度, K
	p_c: 臨界圧力, Pa
	omega: 偏心因子, -
	rho_c: 換算に用いる臨界密度, mol/m3
*/
func NewPengRobinson(t_c, p_c, omega, rho_c float64) *PengRobinson {
	r := get_r()
	b := pr_omega_b * r * t_c / p_c
	ac := pr_omega_a * r * r * t_c * t_c / p_c
	return &PengRobinson{
		_b_red: b * rho_c,
		_k:     ac / (b * r * t_c) / (2 * math.Sqrt2),
		_m:     0.37464 + 1.54226*omega - 0.26992*omega*omega,
	}
}

/*
αr とその偏導関数を計算する。

	Notes:
		αr = -ln(1 - Bδ) - K g(τ) L(δ)
		g(τ) = τ s², s = 1 + m (1 - τ^-1/2)
		L(δ) = ln((1 + (1+√2)Bδ) / (1 + (1-√2)Bδ))
		共有体積の極 Bδ ≥ 1 では NaN を返す。
*/
func (pr *PengRobinson) Alphar(delta, tau float64) HelmholtzDerivs {
	b := pr._b_red
	if b*delta >= 1 || delta < 0 {
		return nan_derivs()
	}

	// 斥力項
	rep := 1 - b*delta

	// 引力項の密度依存部
	p := (1 + math.Sqrt2) * b
	q := (1 - math.Sqrt2) * b
	l := math.Log((1 + p*delta) / (1 + q*delta))
	l_d := p/(1+p*delta) - q/(1+q*delta)
	l_dd := -p*p/((1+p*delta)*(1+p*delta)) + q*q/((1+q*delta)*(1+q*delta))

	// 引力項の温度依存部
	m := pr._m
	s := 1 + m*(1-1/math.Sqrt(tau))
	s_t := 0.5 * m * math.Pow(tau, -1.5)
	s_tt := -0.75 * m * math.Pow(tau, -2.5)
	g := tau * s * s
	g_t := s*s + 2*tau*s*s_t
	g_tt := 4*s*s_t + 2*tau*(s_t*s_t+s*s_tt)

	k := pr._k
	return HelmholtzDerivs{
		A:  -math.Log(rep) - k*g*l,
		D:  b/rep - k*g*l_d,
		DD: b*b/(rep*rep) - k*g*l_dd,
		T:  -k * g_t * l,
		TT: -k * g_tt * l,
		DT: -k * g_t * l_d,
	}
}
