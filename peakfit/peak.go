package peakfit

import (
	"errors"
	"math"
)

var (
	// ErrInvalidInput is returned for mismatched or unsorted sample arrays and
	// for peak descriptions with a non-positive width.
	ErrInvalidInput = errors.New("invalid peak fitting input")

	// ErrFitFailed is returned when the minimiser produces no usable result.
	ErrFitFailed = errors.New("peak fitting failed")
)

// ピークの形状
type PeakShape string

const (
	// h exp(-(x-p)²/(2w²)), w は標準偏差
	Gaussian PeakShape = "gaussian"
	// h / (1 + ((x-p)/w)²), w は半値半幅
	Lorentzian PeakShape = "lorentzian"
)

func ParsePeakShape(s string) (PeakShape, error) {
	switch k := PeakShape(s); k {
	case Gaussian, Lorentzian:
		return k, nil
	default:
		return "", errors.New("invalid peak shape " + s)
	}
}

/*
ピーク関数の値と、位置・高さ・幅による偏導関数を計算する。

	Args:
		x: 横軸の値
		pos: ピーク位置
		height: ピーク高さ
		width: ピーク幅

	Returns:
		(1) 値
		(2) 位置による偏導関数
		(3) 高さによる偏導関数
		(4) 幅による偏導関数
*/
func (s PeakShape) eval(x, pos, height, width float64) (float64, float64, float64, float64) {
	u := (x - pos) / width
	switch s {
	case Gaussian:
		e := math.Exp(-0.5 * u * u)
		v := height * e
		return v, v * u / width, e, v * u * u / width
	case Lorentzian:
		q := 1 / (1 + u*u)
		v := height * q
		return v, 2 * v * q * u / width, q, 2 * v * q * u * u / width
	default:
		panic("invalid peak shape")
	}
}

/*
ピークの面積を計算する。

	Notes:
		Gaussian: h w √(2π)
		Lorentzian: π h w
*/
func (s PeakShape) area(height, width float64) float64 {
	switch s {
	case Gaussian:
		return height * width * math.Sqrt(2*math.Pi)
	case Lorentzian:
		return math.Pi * height * width
	default:
		panic("invalid peak shape")
	}
}

// PeakDescription is an initial guess for one peak.
type PeakDescription struct {
	Shape    PeakShape
	Position float64
	Height   float64
	Width    float64
}

// Value evaluates the peak at x.
func (p PeakDescription) Value(x float64) float64 {
	v, _, _, _ := p.Shape.eval(x, p.Position, p.Height, p.Width)
	return v
}

// Area returns the analytic area under the peak.
func (p PeakDescription) Area() float64 {
	return p.Shape.area(p.Height, p.Width)
}

// FittedPeak is a peak after fitting, with its analytic area.
type FittedPeak struct {
	PeakDescription
	Area float64
}

// FitResult is the outcome of one Execute call.
type FitResult struct {
	Peaks []FittedPeak
	// 残差平方和
	SumSquares float64
	// 観測データの台形積分
	DataArea float64
	// 最適化の反復回数と関数評価回数
	Iterations      int
	FuncEvaluations int
	// 最適化の終了状態
	Status string
	// 最適化が途中で停止した場合の理由 (結果は最良点)
	Warning string
}

// Fitter fits a set of peaks to sampled data.
type Fitter interface {
	Execute(x, y []float64, peaks []PeakDescription) (*FitResult, error)
}
