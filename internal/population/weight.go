package population

// ClampWeight bounds a weight fraction to [0, 1]
func ClampWeight(w float64) float64 {
	switch {
	case w < 0:
		return 0
	case w > 1:
		return 1
	}
	return w
}

// FromPercent converts a 0..100 slider value to a clamped fraction
func FromPercent(p float64) float64 {
	return ClampWeight(p / 100)
}

// ToPercent converts a weight fraction to 0..100
func ToPercent(w float64) float64 {
	return w * 100
}
