package eos

// 相の区分
type Phase int

// 相の区分の定数 (参照データの phase 列と同じ値)
const (
	PhaseUnknown Phase = 0
	PhaseLiquid  Phase = 1
	PhaseGas     Phase = 2
)

func (p Phase) String() string {
	switch p {
	case PhaseUnknown:
		return "unknown"
	case PhaseLiquid:
		return "liquid"
	case PhaseGas:
		return "gas"
	default:
		panic("invalid phase")
	}
}

// 定義された区分か
func (p Phase) is_valid() bool {
	return p == PhaseUnknown || p == PhaseLiquid || p == PhaseGas
}

/*
反対側の相を取得する。

	Returns:
		liquid に対しては gas、gas に対しては liquid

	Notes:
		unknown は gas を先に試すため liquid を返す。
*/
func (p Phase) alternate() Phase {
	switch p {
	case PhaseLiquid:
		return PhaseGas
	case PhaseGas:
		return PhaseLiquid
	case PhaseUnknown:
		return PhaseLiquid
	default:
		panic("invalid phase")
	}
}

/*
収束した密度の相を判定する。

	Args:
		rho: 密度, mol/m3
		rho_r: 混合物の換算密度, mol/m3

	Returns:
		換算密度より高密度なら liquid、それ以外は gas
*/
func classify_phase(rho, rho_r float64) Phase {
	if rho > rho_r {
		return PhaseLiquid
	}
	return PhaseGas
}

// ParsePhase accepts the fixture tags ("1", "2") and the names.
func ParsePhase(s string) (Phase, bool) {
	switch s {
	case "", "0", "unknown":
		return PhaseUnknown, true
	case "1", "liquid", "l":
		return PhaseLiquid, true
	case "2", "gas", "vapor", "g":
		return PhaseGas, true
	default:
		return PhaseUnknown, false
	}
}
