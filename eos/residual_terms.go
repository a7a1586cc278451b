package eos

import (
	"fmt"
	"math"
)

// ResidualContribution is a residual reduced Helmholtz energy αr(δ, τ) with
// closed-form derivatives.
type ResidualContribution interface {
	Alphar(delta, tau float64) HelmholtzDerivs
}

// 残留項の種類
type TermKind string

const (
	// n δ^d τ^t exp(-δ^l), l = 0 では指数部なし
	TermPower TermKind = "power"
	// n δ^d τ^t exp(-η(δ-ε)² - β(τ-γ)²)
	TermGaussian TermKind = "gaussian"
	// n δ^d τ^t exp(-η(δ-ε)² - β(δ-γ)), GERG 型の偏差関数項
	TermExponential TermKind = "exponential"
	// n Δ^b δ ψ, 臨界点近傍の非解析項
	//	Δ = θ² + B((δ-1)²)^a
	//	θ = (1-τ) + A((δ-1)²)^(1/(2β))
	//	ψ = exp(-C(δ-1)² - D(τ-1)²)
	TermNonAnalytic TermKind = "nonanalytic"
)

func parse_term_kind(s string) (TermKind, error) {
	switch k := TermKind(s); k {
	case TermPower, TermGaussian, TermExponential, TermNonAnalytic:
		return k, nil
	default:
		return "", fmt.Errorf("invalid residual term kind %q", s)
	}
}

// ResidualTerm is one term of a multiparameter residual Helmholtz energy.
// Parameters not used by the kind are ignored.
type ResidualTerm struct {
	Kind    TermKind
	N       float64
	D       float64
	T       float64
	L       float64
	Eta     float64
	Epsilon float64
	Beta    float64
	Gamma   float64

	// 非解析項の係数と指数 (β は Beta)
	CapA, CapB, CapC, CapD float64
	SmallA, SmallB         float64
}

/*
項の値と δ、τ による偏導関数を計算する。

	Args:
		delta: 換算密度, -
		tau: 逆換算温度, -

	Returns:
		αr とその偏導関数

	Notes:
		δ の負のべき乗は係数が 0 となる場合に評価しないため、δ = 0 でも有限値となる。
		非解析項は臨界点 (δ = τ = 1) で Δ = 0 となり、偏導関数が発散する。
*/
func (term ResidualTerm) Alphar(delta, tau float64) HelmholtzDerivs {
	switch term.Kind {
	case TermPower:
		return term._power(delta, tau)
	case TermGaussian:
		return term._gaussian(delta, tau)
	case TermExponential:
		return term._exponential(delta, tau)
	case TermNonAnalytic:
		return term._nonanalytic(delta, tau)
	default:
		panic("invalid residual term kind")
	}
}

func (term ResidualTerm) _power(delta, tau float64) HelmholtzDerivs {
	d, t, l := term.D, term.T, term.L

	base := term.N * math.Pow(tau, t)
	if l > 0 {
		base *= math.Exp(-math.Pow(delta, l))
	}

	var h HelmholtzDerivs
	h.A = cpow(base, delta, d)
	h.D = base * (cpow(d, delta, d-1) - cpow(l, delta, d+l-1))
	h.DD = base * (cpow(d*(d-1), delta, d-2) -
		cpow((2*d-1+l)*l, delta, d+l-2) +
		cpow(l*l, delta, d+2*l-2))
	h.T = h.A * t / tau
	h.TT = h.A * t * (t - 1) / (tau * tau)
	h.DT = h.D * t / tau
	return h
}

func (term ResidualTerm) _gaussian(delta, tau float64) HelmholtzDerivs {
	d, t, eta, beta := term.D, term.T, term.Eta, term.Beta
	ed := delta - term.Epsilon
	et := tau - term.Gamma

	core := term.N * math.Pow(tau, t) * math.Exp(-eta*ed*ed-beta*et*et)
	dd := math.Pow(delta, d)

	// ∂ln(f)/∂τ
	g := t/tau - 2*beta*et

	var h HelmholtzDerivs
	h.A = core * dd
	h.D = core * (cpow(d, delta, d-1) - 2*eta*ed*dd)
	h.DD = core * (cpow(d*(d-1), delta, d-2) -
		cpow(4*eta*d*ed, delta, d-1) +
		(4*eta*eta*ed*ed-2*eta)*dd)
	h.T = h.A * g
	h.TT = h.A * (g*g - t/(tau*tau) - 2*beta)
	h.DT = h.D * g
	return h
}

func (term ResidualTerm) _exponential(delta, tau float64) HelmholtzDerivs {
	d, t, eta, beta := term.D, term.T, term.Eta, term.Beta
	ed := delta - term.Epsilon

	core := term.N * math.Pow(tau, t) * math.Exp(-eta*ed*ed-beta*(delta-term.Gamma))
	dd := math.Pow(delta, d)

	// -∂ln(f)/∂δ から d/δ を除いた部分
	k := 2*eta*ed + beta

	var h HelmholtzDerivs
	h.A = core * dd
	h.D = core * (cpow(d, delta, d-1) - k*dd)
	h.DD = core * (cpow(d*(d-1), delta, d-2) -
		cpow(2*d*k, delta, d-1) +
		(k*k-2*eta)*dd)
	h.T = h.A * t / tau
	h.TT = h.A * t * (t - 1) / (tau * tau)
	h.DT = h.D * t / tau
	return h
}

func (term ResidualTerm) _nonanalytic(delta, tau float64) HelmholtzDerivs {
	a, b, beta := term.SmallA, term.SmallB, term.Beta
	cap_a, cap_b, cap_c, cap_d := term.CapA, term.CapB, term.CapC, term.CapD

	dm := delta - 1
	tm := tau - 1
	q := dm * dm

	// q^(1/(2β)-1), q^(a-1)
	qb := math.Pow(q, 1/(2*beta)-1)
	qa := math.Pow(q, a-1)

	theta := -tm + cap_a*qb*q
	big_delta := theta*theta + cap_b*qa*q
	d_delta := dm * (cap_a*theta*2/beta*qb + 2*cap_b*a*qa)
	dd_delta := cap_a*theta*2/beta*qb + 2*cap_b*a*qa +
		4*cap_b*a*(a-1)*qa +
		2*cap_a*cap_a/(beta*beta)*qb*qb*q +
		cap_a*theta*4/beta*(1/(2*beta)-1)*qb

	// Δ^b とその偏導関数
	pb := math.Pow(big_delta, b)
	pb1 := b * math.Pow(big_delta, b-1)
	pb2 := b * (b - 1) * math.Pow(big_delta, b-2)
	pb_d := pb1 * d_delta
	pb_dd := pb1*dd_delta + pb2*d_delta*d_delta
	pb_t := -2 * theta * pb1
	pb_tt := 2*pb1 + 4*theta*theta*pb2
	pb_dt := -cap_a*2/beta*pb1*dm*qb - 2*theta*pb2*d_delta

	psi := math.Exp(-cap_c*q - cap_d*tm*tm)
	psi_d := -2 * cap_c * dm * psi
	psi_dd := (2*cap_c*q - 1) * 2 * cap_c * psi
	psi_t := -2 * cap_d * tm * psi
	psi_tt := (2*cap_d*tm*tm - 1) * 2 * cap_d * psi
	psi_dt := 4 * cap_c * cap_d * dm * tm * psi

	n := term.N
	var h HelmholtzDerivs
	h.A = n * pb * delta * psi
	h.D = n * (pb*(psi+delta*psi_d) + pb_d*delta*psi)
	h.DD = n * (pb*(2*psi_d+delta*psi_dd) + 2*pb_d*(psi+delta*psi_d) + pb_dd*delta*psi)
	h.T = n * delta * (pb_t*psi + pb*psi_t)
	h.TT = n * delta * (pb_tt*psi + 2*pb_t*psi_t + pb*psi_tt)
	h.DT = n * (pb*(psi_t+delta*psi_dt) + delta*pb_d*psi_t + pb_t*(psi+delta*psi_d) + pb_dt*delta*psi)
	return h
}

// ResidualTerms is a multiparameter residual equation: the sum of its terms.
type ResidualTerms []ResidualTerm

func (ts ResidualTerms) Alphar(delta, tau float64) HelmholtzDerivs {
	var h HelmholtzDerivs
	for _, term := range ts {
		h.add(term.Alphar(delta, tau))
	}
	return h
}
