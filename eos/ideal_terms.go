package eos

import (
	"fmt"
	"math"
)

// 理想気体項の種類
type IdealTermKind string

const (
	// ln δ + a1 + a2 τ
	IdealLead IdealTermKind = "lead"
	// c ln τ
	IdealLogTau IdealTermKind = "logtau"
	// a τ^t
	IdealPower IdealTermKind = "power"
	// v ln(1 - exp(-u τ)), u = θ/Tc
	IdealPlanckEinstein IdealTermKind = "planck_einstein"
)

func parse_ideal_term_kind(s string) (IdealTermKind, error) {
	switch k := IdealTermKind(s); k {
	case IdealLead, IdealLogTau, IdealPower, IdealPlanckEinstein:
		return k, nil
	default:
		return "", fmt.Errorf("invalid ideal term kind %q", s)
	}
}

// IdealTerm is one term of the ideal-gas reduced Helmholtz energy α0(δ, τ).
// The meaning of A and B depends on Kind (see the kind constants); for
// Planck-Einstein terms B is already divided by the critical temperature.
type IdealTerm struct {
	Kind IdealTermKind
	A    float64
	B    float64
}

func (term IdealTerm) alpha0(delta, tau float64) HelmholtzDerivs {
	var h HelmholtzDerivs
	switch term.Kind {
	case IdealLead:
		h.A = math.Log(delta) + term.A + term.B*tau
		h.D = 1 / delta
		h.DD = -1 / (delta * delta)
		h.T = term.B
	case IdealLogTau:
		h.A = term.A * math.Log(tau)
		h.T = term.A / tau
		h.TT = -term.A / (tau * tau)
	case IdealPower:
		h.A = term.A * math.Pow(tau, term.B)
		h.T = term.A * term.B * math.Pow(tau, term.B-1)
		h.TT = term.A * term.B * (term.B - 1) * math.Pow(tau, term.B-2)
	case IdealPlanckEinstein:
		u := term.B
		// exp(uτ) - 1
		em1 := math.Expm1(u * tau)
		h.A = term.A * math.Log(-math.Expm1(-u*tau))
		h.T = term.A * u / em1
		h.TT = -term.A * u * u * (em1 + 1) / (em1 * em1)
	default:
		panic("invalid ideal term kind")
	}
	return h
}

// IdealTerms is the ideal-gas part of a pure-fluid equation.
type IdealTerms []IdealTerm

func (ts IdealTerms) alpha0(delta, tau float64) HelmholtzDerivs {
	var h HelmholtzDerivs
	for _, term := range ts {
		h.add(term.alpha0(delta, tau))
	}
	return h
}
