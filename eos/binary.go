package eos

import (
	"fmt"
	"io"
	"sync"

	"github.com/gocarina/gocsv"
)

// MixtureBinaryParameters holds the reducing-function constants of one
// substance pair, oriented as (IDA, IDB).
type MixtureBinaryParameters struct {
	IDA    string
	IDB    string
	BetaT  float64
	GammaT float64
	BetaV  float64
	GammaV float64
	// 偏差関数の重み, -
	F float64
	// 偏差関数の名前と本体, F = 0 のときは nil でよい
	DepartureName string
	Departure     ResidualContribution
}

// Ideal combining rule used for pairs without measured data.
func ideal_binary_parameters(id_a, id_b string) MixtureBinaryParameters {
	return MixtureBinaryParameters{
		IDA:    id_a,
		IDB:    id_b,
		BetaT:  1,
		GammaT: 1,
		BetaV:  1,
		GammaV: 1,
	}
}

/*
成分の順序を入れ替えたパラメータを取得する。

	Notes:
		β_T, β_v は逆数、γ_T, γ_v と F は変わらない。
		この変換で換算関数の値は成分の順序に依存しなくなる。
*/
func (p MixtureBinaryParameters) swapped() MixtureBinaryParameters {
	s := p
	s.IDA, s.IDB = p.IDB, p.IDA
	s.BetaT = 1 / p.BetaT
	s.BetaV = 1 / p.BetaV
	return s
}

// HasDeparture reports whether the pair contributes a departure term.
func (p MixtureBinaryParameters) HasDeparture() bool {
	return p.F != 0 && p.Departure != nil
}

type pair_key struct {
	a, b string
}

func make_pair_key(id_a, id_b string) pair_key {
	if id_b < id_a {
		id_a, id_b = id_b, id_a
	}
	return pair_key{id_a, id_b}
}

// ParameterTable is an immutable lookup of binary parameters keyed by the
// unordered substance pair.
type ParameterTable struct {
	pairs map[pair_key]MixtureBinaryParameters
}

func NewParameterTable(params []MixtureBinaryParameters) *ParameterTable {
	t := &ParameterTable{pairs: make(map[pair_key]MixtureBinaryParameters, len(params))}
	for _, p := range params {
		t.pairs[make_pair_key(p.IDA, p.IDB)] = p
	}
	return t
}

/*
2成分系のパラメータを取得する。

	Args:
		id_a: 成分 A の識別子
		id_b: 成分 B の識別子

	Returns:
		(A, B) の順序に合わせたパラメータ
		登録のない組み合わせは理想混合 (β = γ = 1, F = 0)
*/
func (t *ParameterTable) Lookup(id_a, id_b string) MixtureBinaryParameters {
	p, ok := t.pairs[make_pair_key(id_a, id_b)]
	if !ok {
		return ideal_binary_parameters(id_a, id_b)
	}
	if p.IDA == id_a {
		return p
	}
	return p.swapped()
}

// Len returns the number of stored pairs.
func (t *ParameterTable) Len() int {
	return len(t.pairs)
}

type binary_row struct {
	IDA       string  `csv:"id_a"`
	IDB       string  `csv:"id_b"`
	Name      string  `csv:"name"`
	BetaT     float64 `csv:"beta_t"`
	GammaT    float64 `csv:"gamma_t"`
	BetaV     float64 `csv:"beta_v"`
	GammaV    float64 `csv:"gamma_v"`
	F         float64 `csv:"f"`
	Departure string  `csv:"departure"`
}

type departure_row struct {
	Name    string  `csv:"name"`
	Kind    string  `csv:"kind"`
	N       float64 `csv:"n"`
	D       float64 `csv:"d"`
	T       float64 `csv:"t"`
	L       float64 `csv:"l"`
	Eta     float64 `csv:"eta"`
	Epsilon float64 `csv:"epsilon"`
	Beta    float64 `csv:"beta"`
	Gamma   float64 `csv:"gamma"`
}

func (row *departure_row) term() (ResidualTerm, error) {
	r := residual_term_row{
		ID:      row.Name,
		Kind:    row.Kind,
		N:       row.N,
		D:       row.D,
		T:       row.T,
		L:       row.L,
		Eta:     row.Eta,
		Epsilon: row.Epsilon,
		Beta:    row.Beta,
		Gamma:   row.Gamma,
	}
	return r.term()
}

/*
CSV の表から2成分系パラメータを読み込む。

	Args:
		pairs: 2成分系の表 (id_a, id_b, name, beta_t, gamma_t, beta_v, gamma_v, f, departure)
		departures: 偏差関数の表 (name, kind, n, d, t, l, eta, epsilon, beta, gamma)

	Returns:
		ParameterTable
*/
func LoadParameterTable(pairs, departures io.Reader) (*ParameterTable, error) {
	var dep_rows []*departure_row
	if err := gocsv.Unmarshal(departures, &dep_rows); err != nil {
		return nil, fmt.Errorf("read departure functions: %w", err)
	}
	deps, err := _make_departure_functions(dep_rows)
	if err != nil {
		return nil, err
	}

	var rows []*binary_row
	if err := gocsv.Unmarshal(pairs, &rows); err != nil {
		return nil, fmt.Errorf("read binary parameters: %w", err)
	}

	params := make([]MixtureBinaryParameters, 0, len(rows))
	for _, row := range rows {
		if row.BetaT <= 0 || row.BetaV <= 0 || row.GammaT <= 0 || row.GammaV <= 0 {
			return nil, fmt.Errorf("binary pair %s/%s: reducing parameters must be positive", row.IDA, row.IDB)
		}
		if row.IDA == row.IDB {
			return nil, fmt.Errorf("binary pair %s/%s: identical components", row.IDA, row.IDB)
		}
		p := MixtureBinaryParameters{
			IDA:           row.IDA,
			IDB:           row.IDB,
			BetaT:         row.BetaT,
			GammaT:        row.GammaT,
			BetaV:         row.BetaV,
			GammaV:        row.GammaV,
			F:             row.F,
			DepartureName: row.Departure,
		}
		if row.Departure != "" {
			dep, ok := deps[row.Departure]
			if !ok {
				return nil, fmt.Errorf("binary pair %s/%s: unknown departure function %q", row.IDA, row.IDB, row.Departure)
			}
			p.Departure = dep
		} else if row.F != 0 {
			return nil, fmt.Errorf("binary pair %s/%s: F = %g without departure function", row.IDA, row.IDB, row.F)
		}
		params = append(params, p)
	}

	return NewParameterTable(params), nil
}

func _make_departure_functions(rows []*departure_row) (map[string]ResidualTerms, error) {
	deps := make(map[string]ResidualTerms)
	for _, row := range rows {
		term, err := row.term()
		if err != nil {
			return nil, fmt.Errorf("departure function %s: %w", row.Name, err)
		}
		deps[row.Name] = append(deps[row.Name], term)
	}
	return deps, nil
}

// DepartureFunction returns one of the embedded departure functions by name.
func DepartureFunction(name string) (ResidualTerms, error) {
	var rows []*departure_row
	if err := gocsv.Unmarshal(open_data("departure_terms.csv"), &rows); err != nil {
		return nil, err
	}
	deps, err := _make_departure_functions(rows)
	if err != nil {
		return nil, err
	}
	dep, ok := deps[name]
	if !ok {
		return nil, fmt.Errorf("unknown departure function %q", name)
	}
	return dep, nil
}

var (
	default_table      *ParameterTable
	default_table_once sync.Once
)

// DefaultParameterTable returns the table built from the embedded pair data.
func DefaultParameterTable() *ParameterTable {
	default_table_once.Do(func() {
		t, err := LoadParameterTable(open_data("binary_parameters.csv"), open_data("departure_terms.csv"))
		if err != nil {
			panic(err)
		}
		default_table = t
	})
	return default_table
}
