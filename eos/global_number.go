package eos

// 一般気体定数, J/(mol K)
func get_r() float64 {
	return 8.314462618
}

// 組成の合計値に対する許容誤差, -
func get_composition_tolerance() float64 {
	return 1e-9
}
