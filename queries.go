package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"fluid_eos/eos"
)

// Query is one state point requested in the input file. Exactly one of
// Pressure and Density is given.
type Query struct {
	Name        string    `json:"name"`
	Components  []string  `json:"components"`
	Fractions   []float64 `json:"fractions"`
	Temperature float64   `json:"temperature"` // K
	Pressure    *float64  `json:"pressure"`    // Pa
	Density     *float64  `json:"density"`     // mol/m3
	Phase       string    `json:"phase"`
}

type query_file struct {
	Queries []Query `json:"queries"`
}

/*
計算条件 JSON ファイルを読み込む。

	Args:
		path: JSON ファイルのパス

	Returns:
		計算条件, [k]
*/
func load_queries(path string) ([]Query, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var qf query_file
	if err := json.Unmarshal(b, &qf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(qf.Queries) == 0 {
		return nil, fmt.Errorf("%s: no queries", path)
	}
	for i := range qf.Queries {
		if err := qf.Queries[i].check(); err != nil {
			return nil, fmt.Errorf("%s: query %d: %w", path, i, err)
		}
	}
	return qf.Queries, nil
}

func (q *Query) check() error {
	if q.Name == "" {
		return errors.New("name is required")
	}
	if len(q.Components) == 0 {
		return errors.New("components are required")
	}
	if (q.Pressure == nil) == (q.Density == nil) {
		return errors.New("exactly one of pressure and density is required")
	}
	if _, ok := eos.ParsePhase(q.Phase); !ok {
		return fmt.Errorf("invalid phase %q", q.Phase)
	}
	return nil
}

// 計算条件から混合物を作成する (成分が1つの場合は純物質)
func (q *Query) mixture(reg *eos.Registry, table *eos.ParameterTable) (*eos.Mixture, error) {
	if len(q.Components) == 1 && len(q.Fractions) <= 1 {
		return eos.NewPureFluid(reg, q.Components[0])
	}
	return eos.NewMixture(reg, table, q.Components, q.Fractions)
}

func (q *Query) phase() eos.Phase {
	p, _ := eos.ParsePhase(q.Phase)
	return p
}
