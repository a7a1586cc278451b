package eos

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// ReferencePoint is one row of a reference-software comparison table.
type ReferencePoint struct {
	Name               string  `csv:"name"`
	Components         string  `csv:"components"` // CAS numbers separated by ';'
	Fractions          string  `csv:"fractions"`  // mole fractions separated by ';'
	Temperature        float64 `csv:"temperature"`
	Pressure           float64 `csv:"pressure"`
	Density            float64 `csv:"density"`
	Phase              int     `csv:"phase"`
	DeltaDAlpharDDelta float64 `csv:"delta_dalphar_ddelta"`
	Cv                 float64 `csv:"cv"`
}

func (rp *ReferencePoint) IDs() []string {
	parts := strings.Split(rp.Components, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (rp *ReferencePoint) MoleFractions() ([]float64, error) {
	parts := strings.Split(rp.Fractions, ";")
	x := make([]float64, len(parts))
	for i, s := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidComposition, err)
		}
		x[i] = v
	}
	return x, nil
}

/*
参照データの表を読み込む。

	Args:
		r: CSV (name, components, fractions, temperature, pressure, density, phase, delta_dalphar_ddelta, cv)

	Returns:
		参照データ, [k]

	Notes:
		phase 列は 0 (unknown)、1 (liquid)、2 (gas) のいずれか。
*/
func LoadReferencePoints(r io.Reader) ([]*ReferencePoint, error) {
	var rows []*ReferencePoint
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("read reference points: %w", err)
	}
	for _, row := range rows {
		if !Phase(row.Phase).is_valid() {
			return nil, fmt.Errorf("reference point %q: %w: phase tag %d", row.Name, ErrInvalidState, row.Phase)
		}
	}
	return rows, nil
}

// ReferenceDeviation compares one reference row with this engine.
type ReferenceDeviation struct {
	Point  *ReferencePoint
	Result *DensityResult
	Err    error

	// 相対偏差 (計算値/参照値 - 1), -
	Density            float64
	DeltaDAlpharDDelta float64
	Cv                 float64
	PhaseMatches       bool
}

/*
参照データと計算値を比較する。

	Args:
		reg: 純物質の一覧
		table: 2成分系パラメータの表
		points: 参照データ, [k]
		opts: 反復の設定

	Returns:
		比較結果, [k]
*/
func CompareReference(reg *Registry, table *ParameterTable, points []*ReferencePoint, opts SolverOptions) []ReferenceDeviation {
	out := make([]ReferenceDeviation, len(points))
	for k, rp := range points {
		out[k].Point = rp

		m, err := reference_mixture(reg, table, rp)
		if err != nil {
			out[k].Err = err
			continue
		}

		r, err := SolveDensity(m, rp.Temperature, rp.Pressure, Phase(rp.Phase), opts)
		if err != nil {
			out[k].Err = err
			continue
		}

		out[k].Result = r
		out[k].Density = relative_deviation(r.Density, rp.Density)
		out[k].DeltaDAlpharDDelta = relative_deviation(r.Point.DeltaDAlpharDDelta, rp.DeltaDAlpharDDelta)
		out[k].Cv = relative_deviation(r.Point.Cv, rp.Cv)
		out[k].PhaseMatches = int(r.Phase) == rp.Phase
	}
	return out
}

func reference_mixture(reg *Registry, table *ParameterTable, rp *ReferencePoint) (*Mixture, error) {
	ids := rp.IDs()
	x, err := rp.MoleFractions()
	if err != nil {
		return nil, err
	}
	if len(ids) == 1 {
		return NewPureFluid(reg, ids[0])
	}
	return NewMixture(reg, table, ids, x)
}

func relative_deviation(got, want float64) float64 {
	if want == 0 {
		return math.NaN()
	}
	return got/want - 1
}
