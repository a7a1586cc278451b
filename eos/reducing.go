package eos

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

/*
換算関数 (Kunz-Wagner 形式) の値と組成による偏導関数を計算する。

	Args:
		x: モル分率, -, [i]
		y_c: 純物質の換算量 (Tc または 1/ρc), [i]
		beta: 2成分系パラメータ β, [i, j] (i < j の上三角のみ使用)
		gamma: 2成分系パラメータ γ, [i, j] (i < j の上三角のみ使用)
		y_ij: 2成分系の組合せ量, [i, j] (i < j の上三角のみ使用)

	Returns:
		(1) 換算量 Y(x)
		(2) ∂Y/∂x_k, [k] (x の各成分を独立変数として扱う)

	Notes:
		Y(x) = Σ x_i² Yc_i + Σ_{i<j} 2 β_ij γ_ij Y_ij x_i x_j (x_i + x_j) / (β_ij² x_i + x_j)
		x_i + x_j = 0 の組合せは寄与しない。
*/
func reducing_function(x []float64, y_c []float64, beta, gamma, y_ij mat.Matrix) (float64, []float64) {
	n := len(x)
	dy_dx := make([]float64, n)

	var y float64
	for i := 0; i < n; i++ {
		y += x[i] * x[i] * y_c[i]
		dy_dx[i] += 2 * x[i] * y_c[i]
	}

	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			xi, xj := x[i], x[j]
			s := xi + xj
			if s == 0 {
				continue
			}
			b := beta.At(i, j)
			c := 2 * b * gamma.At(i, j) * y_ij.At(i, j)
			d := b*b*xi + xj

			y += c * xi * xj * s / d
			dy_dx[i] += c * (xj*s/d + xi*xj/d - xi*xj*s*b*b/(d*d))
			dy_dx[j] += c * (xi*s/d + xi*xj/d - xi*xj*s/(d*d))
		}
	}

	return y, dy_dx
}

// 換算温度の組合せ量 (Tc_i Tc_j)^0.5, K
func combined_temperature(a, b *FluidComponent) float64 {
	return math.Sqrt(a.CriticalTemperature * b.CriticalTemperature)
}

// 換算体積の組合せ量 (1/8)(ρc_i^-1/3 + ρc_j^-1/3)³, m3/mol
func combined_volume(a, b *FluidComponent) float64 {
	s := math.Cbrt(1/a.CriticalDensity) + math.Cbrt(1/b.CriticalDensity)
	return s * s * s / 8
}
