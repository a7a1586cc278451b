package eos

import "math"

// HelmholtzDerivs holds a reduced Helmholtz energy and its partial derivatives
// with respect to the reduced density δ and the inverse reduced temperature τ.
type HelmholtzDerivs struct {
	A  float64 // α
	D  float64 // ∂α/∂δ
	T  float64 // ∂α/∂τ
	DD float64 // ∂²α/∂δ²
	TT float64 // ∂²α/∂τ²
	DT float64 // ∂²α/∂δ∂τ
}

func (h *HelmholtzDerivs) add(o HelmholtzDerivs) {
	h.A += o.A
	h.D += o.D
	h.T += o.T
	h.DD += o.DD
	h.TT += o.TT
	h.DT += o.DT
}

func (h *HelmholtzDerivs) add_scaled(f float64, o HelmholtzDerivs) {
	h.A += f * o.A
	h.D += f * o.D
	h.T += f * o.T
	h.DD += f * o.DD
	h.TT += f * o.TT
	h.DT += f * o.DT
}

func (h HelmholtzDerivs) is_finite() bool {
	for _, v := range [...]float64{h.A, h.D, h.T, h.DD, h.TT, h.DT} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func nan_derivs() HelmholtzDerivs {
	n := math.NaN()
	return HelmholtzDerivs{n, n, n, n, n, n}
}

// c·x^e with the convention 0·x^e = 0, so that vanishing terms stay finite at x = 0.
func cpow(c, x, e float64) float64 {
	if c == 0 {
		return 0
	}
	return c * math.Pow(x, e)
}
