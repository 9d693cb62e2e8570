// Package money переводит суммы между отображаемыми единицами и минорными (копейки, пайсы, центы).
// Все суммы, пересекающие границу с платёжным процессором, передаются в минорных единицах.
package money

import "math"

// MinorPerMajor количество минорных единиц в одной основной
const MinorPerMajor = 100

// ToMinor переводит сумму в минорные единицы с округлением до ближайшего целого
func ToMinor(amount float64) int64 {
	return int64(math.Round(amount * MinorPerMajor))
}

// FromMinor переводит минорные единицы в отображаемую сумму
func FromMinor(minor int64) float64 {
	return float64(minor) / MinorPerMajor
}
