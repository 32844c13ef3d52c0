package utils

import "math"

// RoundDecimal rounds a float64 value to the specified number of decimal places,
// half away from zero. RoundDecimal(3.14159, 2) returns 3.14.
func RoundDecimal(value float64, decimals int) float64 {
	pow := math.Pow10(decimals)
	return math.Round(value*pow) / pow
}
