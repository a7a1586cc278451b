package eos

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Mixture is a resolved composition: components, mole fractions and the
// binary parameters of every pair. It is immutable after construction and
// safe for concurrent evaluation.
type Mixture struct {
	components []*FluidComponent
	x          []float64

	// 2成分系パラメータ, [i, j] (i < j)
	beta_t, gamma_t, beta_v, gamma_v, f *mat.Dense
	y_t, y_v                            *mat.Dense
	departures                          [][]ResidualContribution
	params                              [][]MixtureBinaryParameters

	// 換算温度, K
	t_r float64
	// 換算モル体積, m3/mol
	v_r float64
	// 換算量の組成による偏導関数, [i]
	dt_r_dx, dv_r_dx []float64
	// 気体定数 (各成分の値のモル分率加重平均), J/(mol K)
	gas_constant float64
}

/*
混合物を作成する。

	Args:
		reg: 純物質の一覧
		table: 2成分系パラメータの表
		ids: 成分の識別子, [i]
		x: モル分率, -, [i]

	Returns:
		Mixture

	Notes:
		成分数は2以上、モル分率は非負で合計が 1 (許容誤差 1e-9) であること。
*/
func NewMixture(reg *Registry, table *ParameterTable, ids []string, x []float64) (*Mixture, error) {
	if len(ids) < 2 {
		return nil, fmt.Errorf("%w: a mixture needs at least two components, got %d", ErrInvalidComposition, len(ids))
	}
	return new_mixture(reg, table, ids, x)
}

// NewPureFluid builds the single-component case.
func NewPureFluid(reg *Registry, id string) (*Mixture, error) {
	return new_mixture(reg, NewParameterTable(nil), []string{id}, []float64{1})
}

func new_mixture(reg *Registry, table *ParameterTable, ids []string, x []float64) (*Mixture, error) {
	if err := validate_composition(ids, x); err != nil {
		return nil, err
	}

	n := len(ids)
	m := &Mixture{
		components: make([]*FluidComponent, n),
		x:          make([]float64, n),
		beta_t:     mat.NewDense(n, n, nil),
		gamma_t:    mat.NewDense(n, n, nil),
		beta_v:     mat.NewDense(n, n, nil),
		gamma_v:    mat.NewDense(n, n, nil),
		f:          mat.NewDense(n, n, nil),
		y_t:        mat.NewDense(n, n, nil),
		y_v:        mat.NewDense(n, n, nil),
		departures: make([][]ResidualContribution, n),
		params:     make([][]MixtureBinaryParameters, n),
	}
	copy(m.x, x)

	seen := make(map[string]bool, n)
	for i, id := range ids {
		c, err := reg.Component(id)
		if err != nil {
			return nil, err
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("%w: component %s listed twice", ErrInvalidComposition, c)
		}
		seen[c.ID] = true
		m.components[i] = c
	}

	for i := 0; i < n; i++ {
		m.departures[i] = make([]ResidualContribution, n)
		m.params[i] = make([]MixtureBinaryParameters, n)
		for j := i + 1; j < n; j++ {
			ci, cj := m.components[i], m.components[j]
			p := table.Lookup(ci.ID, cj.ID)
			m.params[i][j] = p
			m.beta_t.Set(i, j, p.BetaT)
			m.gamma_t.Set(i, j, p.GammaT)
			m.beta_v.Set(i, j, p.BetaV)
			m.gamma_v.Set(i, j, p.GammaV)
			m.y_t.Set(i, j, combined_temperature(ci, cj))
			m.y_v.Set(i, j, combined_volume(ci, cj))
			if p.HasDeparture() {
				m.f.Set(i, j, p.F)
				m.departures[i][j] = p.Departure
			}
		}
	}

	t_c := make([]float64, n)
	v_c := make([]float64, n)
	for i, c := range m.components {
		t_c[i] = c.CriticalTemperature
		v_c[i] = 1 / c.CriticalDensity
	}
	m.t_r, m.dt_r_dx = reducing_function(m.x, t_c, m.beta_t, m.gamma_t, m.y_t)
	m.v_r, m.dv_r_dx = reducing_function(m.x, v_c, m.beta_v, m.gamma_v, m.y_v)

	for i, c := range m.components {
		m.gas_constant += m.x[i] * c.GasConstant
	}

	return m, nil
}

/*
組成を検証する。

	Notes:
		各モル分率は有限かつ非負、合計は 1 ± 1e-9。
*/
func validate_composition(ids []string, x []float64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no components", ErrInvalidComposition)
	}
	if len(ids) != len(x) {
		return fmt.Errorf("%w: %d components but %d mole fractions", ErrInvalidComposition, len(ids), len(x))
	}
	for i, xi := range x {
		if math.IsNaN(xi) || math.IsInf(xi, 0) || xi < 0 {
			return fmt.Errorf("%w: mole fraction of %s is %g", ErrInvalidComposition, ids[i], xi)
		}
	}
	if sum := floats.Sum(x); math.Abs(sum-1) > get_composition_tolerance() {
		return fmt.Errorf("%w: mole fractions sum to %.12g", ErrInvalidComposition, sum)
	}
	return nil
}

// Components returns the resolved components in input order.
func (m *Mixture) Components() []*FluidComponent {
	out := make([]*FluidComponent, len(m.components))
	copy(out, m.components)
	return out
}

// MoleFractions returns a copy of the composition.
func (m *Mixture) MoleFractions() []float64 {
	out := make([]float64, len(m.x))
	copy(out, m.x)
	return out
}

// BinaryParameters returns the parameters of the pair (i, j) oriented as given.
func (m *Mixture) BinaryParameters(i, j int) MixtureBinaryParameters {
	if i == j {
		panic("binary parameters of a component with itself")
	}
	if i < j {
		return m.params[i][j]
	}
	return m.params[j][i].swapped()
}

// ReducingTemperature returns T_r(x) in K.
func (m *Mixture) ReducingTemperature() float64 {
	return m.t_r
}

// ReducingDensity returns ρ_r(x) in mol/m3.
func (m *Mixture) ReducingDensity() float64 {
	return 1 / m.v_r
}

// GasConstant returns the mole-fraction weighted gas constant in J/(mol K).
func (m *Mixture) GasConstant() float64 {
	return m.gas_constant
}

// MolarMass returns the mean molar mass in kg/mol.
func (m *Mixture) MolarMass() float64 {
	var mm float64
	for i, c := range m.components {
		mm += m.x[i] * c.MolarMass
	}
	return mm
}

func (m *Mixture) String() string {
	s := ""
	for i, c := range m.components {
		if i > 0 {
			s += " + "
		}
		s += fmt.Sprintf("%g %s", m.x[i], c.Name)
	}
	return s
}

/*
混合物の残留ヘルムホルツエネルギーを計算する。

	Args:
		delta: 換算密度 ρ/ρ_r(x), -
		tau: 逆換算温度 T_r(x)/T, -

	Returns:
		αr とその偏導関数

	Notes:
		αr = Σ x_i αr_i(δ,τ) + Σ_{i<j} x_i x_j F_ij αr_ij(δ,τ)
		x_i = 0 の成分は評価しない。
*/
func (m *Mixture) Alphar(delta, tau float64) HelmholtzDerivs {
	var h HelmholtzDerivs
	n := len(m.components)
	for i, c := range m.components {
		if m.x[i] == 0 {
			continue
		}
		h.add_scaled(m.x[i], c.Alphar(delta, tau))
	}
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			dep := m.departures[i][j]
			if dep == nil {
				continue
			}
			w := m.x[i] * m.x[j] * m.f.At(i, j)
			if w == 0 {
				continue
			}
			h.add_scaled(w, dep.Alphar(delta, tau))
		}
	}
	return h
}

/*
混合物の理想気体ヘルムホルツエネルギーを計算する。

	Args:
		t: 温度, K
		rho: モル密度, mol/m3

	Returns:
		α0 と、混合物の δ、τ による偏導関数

	Notes:
		α0 = Σ x_i [α0_i(ρ/ρc_i, Tc_i/T) + ln x_i]
		純物質の換算変数は δ_i = δ ρ_r/ρc_i, τ_i = τ Tc_i/T_r となる。
*/
func (m *Mixture) Alpha0(t, rho float64) HelmholtzDerivs {
	var h HelmholtzDerivs
	rho_r := m.ReducingDensity()
	for i, c := range m.components {
		xi := m.x[i]
		if xi == 0 {
			continue
		}
		a := c.Alpha0(rho/c.CriticalDensity, c.CriticalTemperature/t)
		fd := rho_r / c.CriticalDensity
		ft := c.CriticalTemperature / m.t_r

		h.A += xi * (a.A + math.Log(xi))
		h.D += xi * fd * a.D
		h.DD += xi * fd * fd * a.DD
		h.T += xi * ft * a.T
		h.TT += xi * ft * ft * a.TT
		h.DT += xi * fd * ft * a.DT
	}
	return h
}

// 換算変数 (δ, τ)
func (m *Mixture) reduced(t, rho float64) (delta, tau float64) {
	return rho * m.v_r, m.t_r / t
}

/*
残留ヘルムホルツエネルギーのモル分率による偏導関数を計算する。

	Returns:
		∂αr/∂x_k, [k] (x の各成分を独立変数として扱う)
*/
func (m *Mixture) DAlpharDx(delta, tau float64) []float64 {
	n := len(m.components)
	out := make([]float64, n)
	for k, c := range m.components {
		out[k] = c.Alphar(delta, tau).A
	}
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			dep := m.departures[i][j]
			if dep == nil {
				continue
			}
			a := m.f.At(i, j) * dep.Alphar(delta, tau).A
			out[i] += m.x[j] * a
			out[j] += m.x[i] * a
		}
	}
	return out
}

/*
n (∂αr/∂n_i) を計算する (温度、体積、他成分の物質量一定)。

	Returns:
		n (∂αr/∂n_i), [i]

	Notes:
		n(∂αr/∂n_i) = δ αr_δ [1 - n(∂ρ_r/∂n_i)/ρ_r] + τ αr_τ n(∂T_r/∂n_i)/T_r
		              + ∂αr/∂x_i - Σ_k x_k ∂αr/∂x_k
		n(∂Y/∂n_i) = ∂Y/∂x_i - Σ_k x_k ∂Y/∂x_k
*/
func (m *Mixture) NDAlpharDNi(delta, tau float64) []float64 {
	ar := m.Alphar(delta, tau)
	dx := m.DAlpharDx(delta, tau)

	sum_dx := floats.Dot(m.x, dx)
	sum_dt := floats.Dot(m.x, m.dt_r_dx)
	sum_dv := floats.Dot(m.x, m.dv_r_dx)

	out := make([]float64, len(m.components))
	for i := range out {
		n_dt_r := m.dt_r_dx[i] - sum_dt
		n_dv_r := m.dv_r_dx[i] - sum_dv
		// ρ_r = 1/v_r より -n(∂ρ_r/∂n_i)/ρ_r = n(∂v_r/∂n_i)/v_r
		out[i] = delta*ar.D*(1+n_dv_r/m.v_r) + tau*ar.T*n_dt_r/m.t_r + dx[i] - sum_dx
	}
	return out
}

/*
圧力と密度微分を計算する。

	Returns:
		(1) 圧力, Pa
		(2) (∂P/∂ρ)_T, Pa m3/mol
		(3) 状態方程式が有限値を返したか
*/
func (m *Mixture) pressure(t, rho float64) (float64, float64, bool) {
	delta, tau := m.reduced(t, rho)
	ar := m.Alphar(delta, tau)
	if !ar.is_finite() {
		return math.NaN(), math.NaN(), false
	}
	r := m.gas_constant
	p := rho * r * t * (1 + delta*ar.D)
	dp := r * t * (1 + 2*delta*ar.D + delta*delta*ar.DD)
	return p, dp, true
}
