package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"fluid_eos/eos"
	"fluid_eos/peakfit"
)

// ResultRow is one line of the long-format result table.
type ResultRow struct {
	Query    string  `csv:"query"`
	Property string  `csv:"property"`
	Value    float64 `csv:"value"`
	Unit     string  `csv:"unit"`
	Message  string  `csv:"message"`
}

// DeviationRow is one line of the reference comparison table.
type DeviationRow struct {
	Name               string  `csv:"name"`
	Density            float64 `csv:"density"`
	DeltaDAlpharDDelta float64 `csv:"delta_dalphar_ddelta"`
	Cv                 float64 `csv:"cv"`
	PhaseMatches       bool    `csv:"phase_matches"`
	Message            string  `csv:"message"`
}

// PeakRow is one fitted peak.
type PeakRow struct {
	Index    int     `csv:"index"`
	Shape    string  `csv:"shape"`
	Position float64 `csv:"position"`
	Height   float64 `csv:"height"`
	Width    float64 `csv:"width"`
	Area     float64 `csv:"area"`
}

// Recorder collects results and writes them as CSV.
type Recorder struct {
	_pressure_unit eos.Unit
	_rows          []*ResultRow
	_deviations    []*DeviationRow
	_peaks         []*PeakRow
}

func NewRecorder(pressure_unit eos.Unit) *Recorder {
	return &Recorder{_pressure_unit: pressure_unit}
}

/*
1つの状態点の物性値を記録する。

	Args:
		name: 計算条件の名前
		m: 混合物
		p: 物性値
		iterations: 密度の反復回数 (密度指定の場合は 0)
*/
func (r *Recorder) recording(name string, m *eos.Mixture, p *eos.ThermodynamicPoint, iterations int) error {
	for _, q := range p.Quantities() {
		if q.Unit.Kind == r._pressure_unit.Kind {
			c, err := q.ConvertTo(r._pressure_unit)
			if err != nil {
				return err
			}
			q = c
		}
		r._rows = append(r._rows, &ResultRow{Query: name, Property: q.Name, Value: q.Value, Unit: q.Unit.Symbol})
	}

	for i, c := range m.Components() {
		r._rows = append(r._rows, &ResultRow{
			Query:    name,
			Property: fmt.Sprintf("fugacity_coefficient[%s]", c.Name),
			Value:    p.FugacityCoefficients[i],
			Unit:     eos.Dimensionless.Symbol,
		})
	}

	r._rows = append(r._rows,
		&ResultRow{Query: name, Property: "phase", Value: float64(p.Phase), Message: p.Phase.String()},
		&ResultRow{Query: name, Property: "iterations", Value: float64(iterations)},
	)
	return nil
}

// 計算に失敗した条件を記録する
func (r *Recorder) recording_error(name string, err error) {
	r._rows = append(r._rows, &ResultRow{Query: name, Property: "error", Message: err.Error()})
}

// 参照データとの比較結果を記録する
func (r *Recorder) recording_deviations(devs []eos.ReferenceDeviation) {
	for _, d := range devs {
		row := &DeviationRow{Name: d.Point.Name}
		if d.Err != nil {
			row.Message = d.Err.Error()
		} else {
			row.Density = d.Density
			row.DeltaDAlpharDDelta = d.DeltaDAlpharDDelta
			row.Cv = d.Cv
			row.PhaseMatches = d.PhaseMatches
		}
		r._deviations = append(r._deviations, row)
	}
}

// ピークの当てはめ結果を記録する
func (r *Recorder) recording_peaks(res *peakfit.FitResult) {
	for j, p := range res.Peaks {
		r._peaks = append(r._peaks, &PeakRow{
			Index:    j,
			Shape:    string(p.Shape),
			Position: p.Position,
			Height:   p.Height,
			Width:    p.Width,
			Area:     p.Area,
		})
	}
}

/*
記録した結果を CSV ファイルに書き出す。

	Args:
		result_path: 物性値の出力先
		deviation_path: 参照データとの比較結果の出力先
		peak_path: ピークの当てはめ結果の出力先

	Notes:
		記録のない表は書き出さない。
*/
func (r *Recorder) export(result_path, deviation_path, peak_path string) error {
	if len(r._rows) > 0 {
		if err := write_csv(result_path, &r._rows); err != nil {
			return err
		}
	}
	if len(r._deviations) > 0 {
		if err := write_csv(deviation_path, &r._deviations); err != nil {
			return err
		}
	}
	if len(r._peaks) > 0 {
		if err := write_csv(peak_path, &r._peaks); err != nil {
			return err
		}
	}
	return nil
}

func write_csv(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
