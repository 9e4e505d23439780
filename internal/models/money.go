package models

import "math"

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func SameAmount(a, b float64) bool {
	return math.Round(a*100) == math.Round(b*100)
}
