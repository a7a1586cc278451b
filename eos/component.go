package eos

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
)

// FluidComponent is a pure fluid with its critical parameters and Helmholtz
// energy equation. Instances are immutable and shared by every mixture that
// uses the fluid.
type FluidComponent struct {
	ID                  string  // CAS registry number
	Name                string  //
	CriticalTemperature float64 // K
	CriticalDensity     float64 // mol/m3
	MolarMass           float64 // kg/mol
	GasConstant         float64 // J/(mol K)

	ideal    IdealTerms
	residual ResidualContribution
}

func NewFluidComponent(
	id, name string,
	t_c, rho_c, molar_mass, r float64,
	ideal IdealTerms,
	residual ResidualContribution,
) *FluidComponent {
	return &FluidComponent{
		ID:                  id,
		Name:                name,
		CriticalTemperature: t_c,
		CriticalDensity:     rho_c,
		MolarMass:           molar_mass,
		GasConstant:         r,
		ideal:               ideal,
		residual:            residual,
	}
}

// Alpha0 evaluates the ideal-gas part at the fluid's own reduced variables.
func (c *FluidComponent) Alpha0(delta, tau float64) HelmholtzDerivs {
	return c.ideal.alpha0(delta, tau)
}

// Alphar evaluates the residual part.
func (c *FluidComponent) Alphar(delta, tau float64) HelmholtzDerivs {
	return c.residual.Alphar(delta, tau)
}

func (c *FluidComponent) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.ID)
}

// Registry resolves substance identifiers to shared FluidComponent handles.
type Registry struct {
	components map[string]*FluidComponent
	aliases    map[string]string
}

func NewRegistry(components []*FluidComponent) *Registry {
	r := &Registry{
		components: make(map[string]*FluidComponent, len(components)),
		aliases:    make(map[string]string, len(components)),
	}
	for _, c := range components {
		r.components[c.ID] = c
		r.aliases[strings.ToLower(c.Name)] = c.ID
	}
	return r
}

/*
識別子から純物質を取得する。

	Args:
		id: CAS 番号または物質名

	Returns:
		純物質、未登録の場合は ErrUnknownSubstance
*/
func (r *Registry) Component(id string) (*FluidComponent, error) {
	if c, ok := r.components[id]; ok {
		return c, nil
	}
	if cas, ok := r.aliases[strings.ToLower(strings.TrimSpace(id))]; ok {
		return r.components[cas], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSubstance, id)
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.components))
	for id := range r.components {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// 純物質モデルの種類
const (
	model_multiparameter = "multiparameter"
	model_peng_robinson  = "peng_robinson"
)

type component_row struct {
	ID        string  `csv:"id"`
	Name      string  `csv:"name"`
	Model     string  `csv:"model"`
	Tc        float64 `csv:"t_c"`
	RhoC      float64 `csv:"rho_c"`
	MolarMass float64 `csv:"molar_mass"`
	Pc        float64 `csv:"p_c"`
	Acentric  float64 `csv:"acentric"`
	R         float64 `csv:"r"`
}

type ideal_term_row struct {
	ID   string  `csv:"id"`
	Kind string  `csv:"kind"`
	A    float64 `csv:"a"`
	B    float64 `csv:"b"`
}

type residual_term_row struct {
	ID      string  `csv:"id"`
	Kind    string  `csv:"kind"`
	N       float64 `csv:"n"`
	D       float64 `csv:"d"`
	T       float64 `csv:"t"`
	L       float64 `csv:"l"`
	Eta     float64 `csv:"eta"`
	Epsilon float64 `csv:"epsilon"`
	Beta    float64 `csv:"beta"`
	Gamma   float64 `csv:"gamma"`
	CapA    float64 `csv:"cap_a"`
	CapB    float64 `csv:"cap_b"`
	CapC    float64 `csv:"cap_c"`
	CapD    float64 `csv:"cap_d"`
	SmallA  float64 `csv:"a"`
	SmallB  float64 `csv:"b"`
}

func (row *residual_term_row) term() (ResidualTerm, error) {
	kind, err := parse_term_kind(row.Kind)
	if err != nil {
		return ResidualTerm{}, err
	}
	return ResidualTerm{
		Kind:    kind,
		N:       row.N,
		D:       row.D,
		T:       row.T,
		L:       row.L,
		Eta:     row.Eta,
		Epsilon: row.Epsilon,
		Beta:    row.Beta,
		Gamma:   row.Gamma,
		CapA:    row.CapA,
		CapB:    row.CapB,
		CapC:    row.CapC,
		CapD:    row.CapD,
		SmallA:  row.SmallA,
		SmallB:  row.SmallB,
	}, nil
}

/*
CSV の表から純物質の一覧を読み込む。

	Args:
		components: 純物質の表 (id, name, model, t_c, rho_c, molar_mass, p_c, acentric, r)
		ideal: 理想気体項の表 (id, kind, a, b)
		residual: 残留項の表 (id, kind, n, d, t, l, eta, epsilon, beta, gamma, cap_a, cap_b, cap_c, cap_d, a, b)

	Returns:
		Registry

	Notes:
		Planck-Einstein 項の b 列は特性温度 θ (K) で与え、読み込み時に Tc で除す。
		r 列は状態方程式の作成に使われた気体定数で、空欄または 0 の場合は既定値を使う。
*/
func LoadRegistry(components, ideal, residual io.Reader) (*Registry, error) {
	var comp_rows []*component_row
	if err := gocsv.Unmarshal(components, &comp_rows); err != nil {
		return nil, fmt.Errorf("read components: %w", err)
	}
	var ideal_rows []*ideal_term_row
	if err := gocsv.Unmarshal(ideal, &ideal_rows); err != nil {
		return nil, fmt.Errorf("read ideal terms: %w", err)
	}
	var residual_rows []*residual_term_row
	if err := gocsv.Unmarshal(residual, &residual_rows); err != nil {
		return nil, fmt.Errorf("read residual terms: %w", err)
	}

	ideal_by_id := make(map[string][]*ideal_term_row)
	for _, row := range ideal_rows {
		ideal_by_id[row.ID] = append(ideal_by_id[row.ID], row)
	}
	residual_by_id := make(map[string]ResidualTerms)
	for _, row := range residual_rows {
		term, err := row.term()
		if err != nil {
			return nil, fmt.Errorf("residual term of %s: %w", row.ID, err)
		}
		residual_by_id[row.ID] = append(residual_by_id[row.ID], term)
	}

	comps := make([]*FluidComponent, 0, len(comp_rows))
	for _, row := range comp_rows {
		if row.Tc <= 0 || row.RhoC <= 0 || row.MolarMass <= 0 {
			return nil, fmt.Errorf("component %s: critical parameters and molar mass must be positive", row.ID)
		}

		ideal, err := _make_ideal_terms(row, ideal_by_id[row.ID])
		if err != nil {
			return nil, err
		}

		var residual ResidualContribution
		switch row.Model {
		case model_multiparameter:
			terms, ok := residual_by_id[row.ID]
			if !ok {
				return nil, fmt.Errorf("component %s: no residual terms", row.ID)
			}
			residual = terms
		case model_peng_robinson:
			if row.Pc <= 0 {
				return nil, fmt.Errorf("component %s: critical pressure must be positive", row.ID)
			}
			residual = NewPengRobinson(row.Tc, row.Pc, row.Acentric, row.RhoC)
		default:
			return nil, fmt.Errorf("component %s: invalid model %q", row.ID, row.Model)
		}

		r := row.R
		if r == 0 {
			r = get_r()
		}
		if r < 0 {
			return nil, fmt.Errorf("component %s: gas constant must be positive", row.ID)
		}

		comps = append(comps, NewFluidComponent(row.ID, row.Name, row.Tc, row.RhoC, row.MolarMass, r, ideal, residual))
	}

	return NewRegistry(comps), nil
}

func _make_ideal_terms(c *component_row, rows []*ideal_term_row) (IdealTerms, error) {
	terms := make(IdealTerms, 0, len(rows))
	has_lead := false
	for _, row := range rows {
		kind, err := parse_ideal_term_kind(row.Kind)
		if err != nil {
			return nil, fmt.Errorf("ideal term of %s: %w", c.ID, err)
		}
		term := IdealTerm{Kind: kind, A: row.A, B: row.B}
		switch kind {
		case IdealLead:
			has_lead = true
		case IdealPlanckEinstein:
			term.B = row.B / c.Tc
		}
		terms = append(terms, term)
	}
	if !has_lead {
		return nil, fmt.Errorf("component %s: ideal part has no lead term", c.ID)
	}
	return terms, nil
}

var (
	default_registry      *Registry
	default_registry_once sync.Once
)

// DefaultRegistry returns the registry built from the embedded fluid tables.
func DefaultRegistry() *Registry {
	default_registry_once.Do(func() {
		r, err := LoadRegistry(
			open_data("components.csv"),
			open_data("ideal_terms.csv"),
			open_data("residual_terms.csv"),
		)
		if err != nil {
			panic(err)
		}
		default_registry = r
	})
	return default_registry
}
