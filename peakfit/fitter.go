package peakfit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/optimize"
)

// 1つのピークあたりのパラメータ数 (位置, 高さ, ln 幅)
const params_per_peak = 3

// LeastSquaresFitter minimises the sum of squared residuals between the data
// and a sum of peaks. Widths are fitted on a log scale so they stay positive.
type LeastSquaresFitter struct {
	// 最大反復回数 (0 は無制限)
	MaxIterations int
	// 勾配ノルムの収束判定値
	GradientThreshold float64
	// 最適化手法, nil のときは BFGS
	Method optimize.Method
}

func NewLeastSquaresFitter() *LeastSquaresFitter {
	return &LeastSquaresFitter{
		MaxIterations:     1000,
		GradientThreshold: 1e-10,
	}
}

func validate_input(x, y []float64, peaks []PeakDescription) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d x values but %d y values", ErrInvalidInput, len(x), len(y))
	}
	if len(x) < 2 {
		return fmt.Errorf("%w: need at least two samples", ErrInvalidInput)
	}
	if len(peaks) == 0 {
		return fmt.Errorf("%w: no peaks", ErrInvalidInput)
	}
	if len(x) < params_per_peak*len(peaks) {
		return fmt.Errorf("%w: %d samples cannot determine %d peaks", ErrInvalidInput, len(x), len(peaks))
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return fmt.Errorf("%w: x must be strictly increasing (index %d)", ErrInvalidInput, i)
		}
	}
	if floats.HasNaN(x) || floats.HasNaN(y) {
		return fmt.Errorf("%w: samples contain NaN", ErrInvalidInput)
	}
	for i, p := range peaks {
		if _, err := ParsePeakShape(string(p.Shape)); err != nil {
			return fmt.Errorf("%w: peak %d: %v", ErrInvalidInput, i, err)
		}
		if !(p.Width > 0) {
			return fmt.Errorf("%w: peak %d: width must be positive", ErrInvalidInput, i)
		}
	}
	return nil
}

/*
ピークをデータに当てはめる。

	Args:
		x: 横軸の値 (単調増加), [k]
		y: 縦軸の値, [k]
		peaks: ピークの初期値, [j]

	Returns:
		当てはめたピークとその面積

	Notes:
		目的関数 S = Σ_k (Σ_j f_j(x_k) - y_k)² を解析的な勾配とともに最小化する。
*/
func (f *LeastSquaresFitter) Execute(x, y []float64, peaks []PeakDescription) (*FitResult, error) {
	if err := validate_input(x, y, peaks); err != nil {
		return nil, err
	}

	shapes := make([]PeakShape, len(peaks))
	init := make([]float64, params_per_peak*len(peaks))
	for j, p := range peaks {
		shapes[j] = p.Shape
		init[params_per_peak*j] = p.Position
		init[params_per_peak*j+1] = p.Height
		init[params_per_peak*j+2] = math.Log(p.Width)
	}

	model := &peak_model{x: x, y: y, shapes: shapes, residual: make([]float64, len(x))}
	problem := optimize.Problem{
		Func: model.objective,
		Grad: model.gradient,
	}
	settings := &optimize.Settings{
		GradientThreshold: f.GradientThreshold,
		MajorIterations:   f.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-24,
			Relative:   1e-14,
			Iterations: 50,
		},
	}
	method := f.Method
	if method == nil {
		method = &optimize.BFGS{}
	}

	result, err := optimize.Minimize(problem, init, settings, method)
	if result == nil || math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return nil, fmt.Errorf("%w: %v", ErrFitFailed, err)
	}

	out := &FitResult{
		Peaks:           make([]FittedPeak, len(peaks)),
		SumSquares:      result.F,
		DataArea:        integrate.Trapezoidal(x, y),
		Iterations:      result.Stats.MajorIterations,
		FuncEvaluations: result.Stats.FuncEvaluations,
		Status:          result.Status.String(),
	}
	if err != nil {
		out.Warning = err.Error()
	}
	for j := range peaks {
		p := PeakDescription{
			Shape:    shapes[j],
			Position: result.X[params_per_peak*j],
			Height:   result.X[params_per_peak*j+1],
			Width:    math.Exp(result.X[params_per_peak*j+2]),
		}
		out.Peaks[j] = FittedPeak{PeakDescription: p, Area: p.Area()}
	}
	return out, nil
}

// 当てはめの目的関数
type peak_model struct {
	x, y     []float64
	shapes   []PeakShape
	residual []float64
}

func (m *peak_model) evaluate(params []float64) {
	for k, xk := range m.x {
		var v float64
		for j, s := range m.shapes {
			w := math.Exp(params[params_per_peak*j+2])
			pv, _, _, _ := s.eval(xk, params[params_per_peak*j], params[params_per_peak*j+1], w)
			v += pv
		}
		m.residual[k] = v - m.y[k]
	}
}

func (m *peak_model) objective(params []float64) float64 {
	m.evaluate(params)
	return floats.Dot(m.residual, m.residual)
}

func (m *peak_model) gradient(grad, params []float64) {
	m.evaluate(params)
	for i := range grad {
		grad[i] = 0
	}
	for k, xk := range m.x {
		r2 := 2 * m.residual[k]
		for j, s := range m.shapes {
			w := math.Exp(params[params_per_peak*j+2])
			_, dp, dh, dw := s.eval(xk, params[params_per_peak*j], params[params_per_peak*j+1], w)
			grad[params_per_peak*j] += r2 * dp
			grad[params_per_peak*j+1] += r2 * dh
			grad[params_per_peak*j+2] += r2 * dw * w
		}
	}
}
