package eos

import "fmt"

// 物理量の種類
type UnitKind int

const (
	KindDimensionless UnitKind = iota
	KindTemperature
	KindPressure
	KindMolarDensity
	KindMolarEnergy
	KindMolarEntropy
	KindSpeed
	KindMolarMass
	KindPressurePerDensity
	KindPressurePerTemperature
)

func (k UnitKind) String() string {
	switch k {
	case KindDimensionless:
		return "dimensionless"
	case KindTemperature:
		return "temperature"
	case KindPressure:
		return "pressure"
	case KindMolarDensity:
		return "molar density"
	case KindMolarEnergy:
		return "molar energy"
	case KindMolarEntropy:
		return "molar entropy"
	case KindSpeed:
		return "speed"
	case KindMolarMass:
		return "molar mass"
	case KindPressurePerDensity:
		return "pressure per molar density"
	case KindPressurePerTemperature:
		return "pressure per temperature"
	default:
		panic("invalid unit kind")
	}
}

// Unit is a physical unit identified by its kind and symbol. Factor converts
// a value in this unit to the SI unit of the same kind.
type Unit struct {
	Kind   UnitKind
	Symbol string
	Factor float64
}

// Equal reports whether both units are of the same kind and denote the same unit.
func (u Unit) Equal(o Unit) bool {
	return u.Kind == o.Kind && u.Symbol == o.Symbol
}

func (u Unit) String() string {
	return u.Symbol
}

var (
	Dimensionless           = Unit{KindDimensionless, "1", 1}
	Kelvin                  = Unit{KindTemperature, "K", 1}
	Pascal                  = Unit{KindPressure, "Pa", 1}
	Kilopascal              = Unit{KindPressure, "kPa", 1e3}
	Megapascal              = Unit{KindPressure, "MPa", 1e6}
	Bar                     = Unit{KindPressure, "bar", 1e5}
	MolePerCubicMetre       = Unit{KindMolarDensity, "mol/m3", 1}
	MolePerCubicDecimetre   = Unit{KindMolarDensity, "mol/dm3", 1e3}
	JoulePerMole            = Unit{KindMolarEnergy, "J/mol", 1}
	KilojoulePerMole        = Unit{KindMolarEnergy, "kJ/mol", 1e3}
	JoulePerMoleKelvin      = Unit{KindMolarEntropy, "J/(mol K)", 1}
	MetrePerSecond          = Unit{KindSpeed, "m/s", 1}
	KilogramPerMole         = Unit{KindMolarMass, "kg/mol", 1}
	PascalCubicMetrePerMole = Unit{KindPressurePerDensity, "Pa m3/mol", 1}
	PascalPerKelvin         = Unit{KindPressurePerTemperature, "Pa/K", 1}
)

var known_units = []Unit{
	Dimensionless, Kelvin, Pascal, Kilopascal, Megapascal, Bar,
	MolePerCubicMetre, MolePerCubicDecimetre, JoulePerMole, KilojoulePerMole,
	JoulePerMoleKelvin, MetrePerSecond, KilogramPerMole,
	PascalCubicMetrePerMole, PascalPerKelvin,
}

// ParseUnit looks a unit up by symbol.
func ParseUnit(symbol string) (Unit, error) {
	for _, u := range known_units {
		if u.Symbol == symbol {
			return u, nil
		}
	}
	return Unit{}, fmt.Errorf("unknown unit %q", symbol)
}

// Quantity is a value together with its unit.
type Quantity struct {
	Name  string
	Value float64
	Unit  Unit
}

/*
単位を変換する。

	Args:
		to: 変換先の単位

	Returns:
		変換後の物理量

	Notes:
		種類の異なる単位への変換はエラーとする。
*/
func (q Quantity) ConvertTo(to Unit) (Quantity, error) {
	if q.Unit.Equal(to) {
		return q, nil
	}
	if q.Unit.Kind != to.Kind {
		return Quantity{}, fmt.Errorf("cannot convert %s from %s (%s) to %s (%s)", q.Name, q.Unit, q.Unit.Kind, to, to.Kind)
	}
	return Quantity{Name: q.Name, Value: q.Value * q.Unit.Factor / to.Factor, Unit: to}, nil
}
